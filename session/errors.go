package session

import (
	"context"
	"errors"

	"github.com/imaadfakier/spicychatdotai-scraper/models"
)

// categorizeError wraps raw step errors into typed ScrapeErrors so the
// record layer can render the matching message.
func categorizeError(err error, msg string) *models.ScrapeError {
	var se *models.ScrapeError
	switch {
	case errors.As(err, &se):
		return models.NewScrapeError(se.Code, joinMsg(msg, se.Message), se.Err)
	case errors.Is(err, context.DeadlineExceeded):
		return models.NewScrapeError(models.ErrCodeTimeout, msg, err)
	case errors.Is(err, context.Canceled):
		return models.NewScrapeError(models.ErrCodeTimeout, "task canceled", err)
	case errors.Is(err, ErrElementNotFound):
		return models.NewScrapeError(models.ErrCodeElementNotFound, msg, err)
	default:
		return models.NewScrapeError(models.ErrCodeUnexpected, msg, err)
	}
}

// asTransport tags err as a session/transport fault unless it already
// carries a code.
func asTransport(err error, msg string) *models.ScrapeError {
	var se *models.ScrapeError
	if errors.As(err, &se) {
		return se
	}
	return models.NewScrapeError(models.ErrCodeTransport, msg, err)
}

func joinMsg(a, b string) string {
	if b == "" {
		return a
	}
	return a + ": " + b
}
