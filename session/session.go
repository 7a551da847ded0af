// Package session drives a browsing session through a fixed sequence of
// navigate / wait / interact / extract steps.
//
// A Session is owned by exactly one Orchestrator.Run call: it is acquired
// when the task starts and released before Run returns, on every path.
package session

import (
	"context"
	"errors"
	"time"
)

// ErrElementNotFound is returned when a required element is absent at the
// moment it is looked up (as opposed to a wait running out of time).
var ErrElementNotFound = errors.New("element not found")

// SelectorKind tells the session how to interpret a selector expression.
type SelectorKind string

const (
	KindCSS   SelectorKind = "css"
	KindXPath SelectorKind = "xpath"
)

// Selector locates elements. The expression is opaque to the orchestrator.
type Selector struct {
	Kind SelectorKind
	Expr string
}

// CSS returns a CSS selector.
func CSS(expr string) Selector { return Selector{Kind: KindCSS, Expr: expr} }

// XPath returns an XPath selector.
func XPath(expr string) Selector { return Selector{Kind: KindXPath, Expr: expr} }

func (s Selector) String() string { return string(s.Kind) + ":" + s.Expr }

// Condition is what an await step waits for.
type Condition int

const (
	// Present waits until the element is attached to the DOM.
	Present Condition = iota
	// Clickable waits until the element is visible and enabled.
	Clickable
)

// Session is a live automated-browsing resource.
//
// Wait* methods block until the condition holds or ctx is done, in which
// case they return ctx.Err() (possibly wrapped). Find never waits.
type Session interface {
	Navigate(ctx context.Context, url string) error
	WaitElement(ctx context.Context, sel Selector, cond Condition) (Element, error)
	WaitElements(ctx context.Context, sel Selector) ([]Element, error)
	// WaitAny returns the first selector (by index) that matches.
	WaitAny(ctx context.Context, sels []Selector) (int, Element, error)
	Find(ctx context.Context, sel Selector) ([]Element, error)
	// Contexts lists the ids of all open browsing contexts (tabs).
	Contexts(ctx context.Context) ([]string, error)
	SwitchContext(ctx context.Context, id string) error
	HTML(ctx context.Context) (string, error)
	// WaitStable waits until the DOM stops changing for d.
	WaitStable(ctx context.Context, d time.Duration) error
	Close() error
}

// Element is a handle to one element in the current context.
type Element interface {
	Text(ctx context.Context) (string, error)
	Click(ctx context.Context) error
	// Input clears the element and types text into it.
	Input(ctx context.Context, text string) error
	// Submit presses Enter on the element.
	Submit(ctx context.Context) error
}

// Launcher opens a new Session.
type Launcher func(ctx context.Context) (Session, error)
