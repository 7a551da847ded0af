package models

import (
	"errors"
	"fmt"
)

// Error codes used in result records and internal error handling.
const (
	ErrCodeTimeout         = "ELEMENT_TIMEOUT"
	ErrCodeElementNotFound = "ELEMENT_NOT_FOUND"
	ErrCodeTransport       = "WEBDRIVER_ERROR"
	ErrCodeUnexpected      = "UNEXPECTED_ERROR"
	ErrCodeInvalidInput    = "INVALID_INPUT"
)

// User-facing messages written into the record for failed tasks.
const (
	MsgTimeout         = "Timeout occurred while waiting for an element to load."
	MsgElementNotFound = "Required element not found on the page."
	msgTransport       = "WebDriver error: "
	msgUnexpected      = "An unexpected error occurred: "
)

// ScrapeError is the internal error type carrying an error code.
// It implements the error interface and supports error wrapping via Unwrap.
type ScrapeError struct {
	Code    string
	Message string
	Err     error // wrapped original error
}

func (e *ScrapeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ScrapeError) Unwrap() error {
	return e.Err
}

// Detail is the message plus the wrapped cause, without the code prefix.
func (e *ScrapeError) Detail() string {
	switch {
	case e.Err == nil:
		return e.Message
	case e.Message == "":
		return e.Err.Error()
	default:
		return e.Message + ": " + e.Err.Error()
	}
}

// NewScrapeError creates a new ScrapeError.
func NewScrapeError(code, message string, err error) *ScrapeError {
	return &ScrapeError{Code: code, Message: message, Err: err}
}

// ErrorValue is the record value a failed task contributes under its key.
type ErrorValue struct {
	Error string `json:"error"`
}

// Describe renders err as the sentence stored in the result record.
func Describe(err error) string {
	var se *ScrapeError
	if !errors.As(err, &se) {
		return msgUnexpected + err.Error()
	}
	switch se.Code {
	case ErrCodeTimeout:
		return MsgTimeout
	case ErrCodeElementNotFound:
		return MsgElementNotFound
	case ErrCodeTransport:
		return msgTransport + se.Detail()
	default:
		return msgUnexpected + se.Detail()
	}
}

// ToValue converts err into the record's error value.
func ToValue(err error) ErrorValue {
	return ErrorValue{Error: Describe(err)}
}
