package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/proto"
	"github.com/imaadfakier/spicychatdotai-scraper/models"
)

// rodSession adapts a rod browser to the Session interface.
// It is not safe for concurrent use; one task owns it at a time.
type rodSession struct {
	browser *rod.Browser

	// page is the focused context, bound to a background context.
	// Every operation rebinds it with the step's deadline.
	page *rod.Page

	router  *rod.HijackRouter
	closeFn func() error
	closed  bool
}

var _ Session = (*rodSession)(nil)

func (s *rodSession) Navigate(ctx context.Context, url string) error {
	p := s.page.Context(ctx)
	if err := p.Navigate(url); err != nil {
		return wrapRodErr(err, "navigation to "+url+" failed")
	}
	if err := p.WaitLoad(); err != nil {
		return wrapRodErr(err, "page load failed")
	}
	return nil
}

func (s *rodSession) WaitElement(ctx context.Context, sel Selector, cond Condition) (Element, error) {
	p := s.page.Context(ctx)
	el, err := first(p, sel)
	if err != nil {
		return nil, wrapRodErr(err, "waiting for "+sel.String())
	}
	if cond == Clickable {
		if err := el.WaitVisible(); err != nil {
			return nil, wrapRodErr(err, "waiting for "+sel.String()+" to be visible")
		}
		if err := el.WaitEnabled(); err != nil {
			return nil, wrapRodErr(err, "waiting for "+sel.String()+" to be enabled")
		}
	}
	return &rodElement{el: el}, nil
}

func (s *rodSession) WaitElements(ctx context.Context, sel Selector) ([]Element, error) {
	p := s.page.Context(ctx)
	// first retries until a match exists or ctx expires.
	if _, err := first(p, sel); err != nil {
		return nil, wrapRodErr(err, "waiting for "+sel.String())
	}
	els, err := all(p, sel)
	if err != nil {
		return nil, wrapRodErr(err, "listing "+sel.String())
	}
	return wrapElements(els), nil
}

func (s *rodSession) WaitAny(ctx context.Context, sels []Selector) (int, Element, error) {
	if len(sels) == 0 {
		return -1, nil, fmt.Errorf("%w: no selectors to wait for", ErrElementNotFound)
	}

	winner := -1
	race := s.page.Context(ctx).Race()
	for i, sel := range sels {
		if sel.Kind == KindXPath {
			race = race.ElementX(sel.Expr)
		} else {
			race = race.Element(sel.Expr)
		}
		race = race.Handle(func(*rod.Element) error {
			winner = i
			return nil
		})
	}

	el, err := race.Do()
	if err != nil {
		return -1, nil, wrapRodErr(err, "waiting for any of the status selectors")
	}
	return winner, &rodElement{el: el}, nil
}

func (s *rodSession) Find(ctx context.Context, sel Selector) ([]Element, error) {
	els, err := all(s.page.Context(ctx), sel)
	if err != nil {
		return nil, wrapRodErr(err, "finding "+sel.String())
	}
	return wrapElements(els), nil
}

func (s *rodSession) Contexts(ctx context.Context) ([]string, error) {
	pages, err := s.browser.Context(ctx).Pages()
	if err != nil {
		return nil, wrapRodErr(err, "listing tabs")
	}
	ids := make([]string, 0, len(pages))
	for _, p := range pages {
		ids = append(ids, string(p.TargetID))
	}
	return ids, nil
}

func (s *rodSession) SwitchContext(ctx context.Context, id string) error {
	page, err := s.browser.Context(ctx).PageFromTarget(proto.TargetTargetID(id))
	if err != nil {
		return wrapRodErr(err, "attaching to tab "+id)
	}
	if _, err := page.Activate(); err != nil {
		return wrapRodErr(err, "activating tab "+id)
	}
	s.page = page.Context(context.Background())
	return nil
}

func (s *rodSession) HTML(ctx context.Context) (string, error) {
	html, err := s.page.Context(ctx).HTML()
	if err != nil {
		return "", wrapRodErr(err, "failed to extract page HTML")
	}
	return html, nil
}

func (s *rodSession) WaitStable(ctx context.Context, d time.Duration) error {
	return s.page.Context(ctx).WaitDOMStable(d, 0.1)
}

// Close stops the hijack router and runs the driver-specific teardown.
// Calling it again is a no-op.
func (s *rodSession) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	if s.router != nil {
		if err := s.router.Stop(); err != nil {
			slog.Debug("cleanup: hijack router stop failed", "error", err)
		}
	}
	return s.closeFn()
}

// rodElement adapts *rod.Element to the Element interface.
type rodElement struct {
	el *rod.Element
}

func (e *rodElement) Text(ctx context.Context) (string, error) {
	text, err := e.el.Context(ctx).Text()
	if err != nil {
		return "", wrapRodErr(err, "reading element text")
	}
	return text, nil
}

func (e *rodElement) Click(ctx context.Context) error {
	if err := e.el.Context(ctx).Click(proto.InputMouseButtonLeft, 1); err != nil {
		return wrapRodErr(err, "click failed")
	}
	return nil
}

func (e *rodElement) Input(ctx context.Context, text string) error {
	el := e.el.Context(ctx)
	if err := el.SelectAllText(); err != nil {
		return wrapRodErr(err, "clearing input failed")
	}
	if err := el.Input(text); err != nil {
		return wrapRodErr(err, "typing failed")
	}
	return nil
}

func (e *rodElement) Submit(ctx context.Context) error {
	if err := e.el.Context(ctx).Type(input.Enter); err != nil {
		return wrapRodErr(err, "submit failed")
	}
	return nil
}

// first waits for the first element matching sel. Rod retries the lookup
// until it succeeds or the page context expires.
func first(p *rod.Page, sel Selector) (*rod.Element, error) {
	if sel.Kind == KindXPath {
		return p.ElementX(sel.Expr)
	}
	return p.Element(sel.Expr)
}

// all lists the elements matching sel right now, without waiting.
func all(p *rod.Page, sel Selector) (rod.Elements, error) {
	if sel.Kind == KindXPath {
		return p.ElementsX(sel.Expr)
	}
	return p.Elements(sel.Expr)
}

func wrapElements(els rod.Elements) []Element {
	out := make([]Element, 0, len(els))
	for _, el := range els {
		out = append(out, &rodElement{el: el})
	}
	return out
}

// wrapRodErr keeps context errors untouched so they categorize as
// timeouts, maps rod's not-found error onto ErrElementNotFound, and tags
// everything else as a browser transport fault.
func wrapRodErr(err error, msg string) error {
	var notFound *rod.ElementNotFoundError
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return err
	case errors.As(err, &notFound):
		return fmt.Errorf("%w: %s", ErrElementNotFound, msg)
	default:
		return models.NewScrapeError(models.ErrCodeTransport, msg, err)
	}
}
