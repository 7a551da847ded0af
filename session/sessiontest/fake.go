// Package sessiontest provides a scripted in-memory Session for tests.
package sessiontest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/imaadfakier/spicychatdotai-scraper/session"
)

// pollInterval is how often waits re-check the page.
const pollInterval = 5 * time.Millisecond

// Page is the scripted content of one URL.
type Page struct {
	HTML string

	// Elements maps a selector expression to the elements it matches.
	Elements map[string][]*Element
}

// Element is a scripted element.
type Element struct {
	Text string

	// Disabled elements never satisfy session.Clickable.
	Disabled bool

	// Value holds whatever was typed into the element.
	Value string

	OnClick  func(s *Session)
	OnSubmit func(s *Session)
}

// Session is a fake session.Session. Navigate loads the Page registered
// for the URL; unknown URLs load an empty page.
type Session struct {
	mu sync.Mutex

	routes   map[string]*Page
	contexts map[string]*Page
	order    []string
	current  string
	nextID   int

	// NavigateErr, when set, is returned by every Navigate call.
	NavigateErr error

	// Visited lists every navigated URL in order.
	Visited []string

	// Closed counts Close calls.
	Closed int
}

var _ session.Session = (*Session)(nil)

// New returns a Session with a single blank context.
func New(routes map[string]*Page) *Session {
	s := &Session{
		routes:   routes,
		contexts: make(map[string]*Page),
	}
	s.current = s.open(&Page{})
	return s
}

// Launcher returns a launcher that always hands out s.
func (s *Session) Launcher() session.Launcher {
	return func(context.Context) (session.Session, error) {
		return s, nil
	}
}

// FailingLauncher returns a launcher that always fails with err.
func FailingLauncher(err error) session.Launcher {
	return func(context.Context) (session.Session, error) {
		return nil, err
	}
}

// OpenPage opens a new context showing url without focusing it, the way
// a target=_blank link does.
func (s *Session) OpenPage(url string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.open(s.route(url))
}

// Show makes els match expr in the focused context from now on.
func (s *Session) Show(expr string, els ...*Element) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.contexts[s.current]
	if p.Elements == nil {
		p.Elements = make(map[string][]*Element)
	}
	p.Elements[expr] = els
}

// Current returns the id of the focused context.
func (s *Session) Current() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *Session) open(p *Page) string {
	s.nextID++
	id := fmt.Sprintf("ctx-%d", s.nextID)
	s.contexts[id] = p
	s.order = append(s.order, id)
	return id
}

func (s *Session) route(url string) *Page {
	if p, ok := s.routes[url]; ok {
		return p
	}
	return &Page{}
}

func (s *Session) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.NavigateErr != nil {
		return s.NavigateErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Visited = append(s.Visited, url)
	s.contexts[s.current] = s.route(url)
	return nil
}

func (s *Session) lookup(expr string) []*Element {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.contexts[s.current].Elements[expr]
}

// poll calls check until it reports done or ctx expires.
func poll(ctx context.Context, check func() bool) error {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		if check() {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (s *Session) WaitElement(ctx context.Context, sel session.Selector, cond session.Condition) (session.Element, error) {
	var found *Element
	err := poll(ctx, func() bool {
		els := s.lookup(sel.Expr)
		if len(els) == 0 {
			return false
		}
		if cond == session.Clickable && els[0].Disabled {
			return false
		}
		found = els[0]
		return true
	})
	if err != nil {
		return nil, err
	}
	return &handle{s: s, el: found}, nil
}

func (s *Session) WaitElements(ctx context.Context, sel session.Selector) ([]session.Element, error) {
	var found []*Element
	err := poll(ctx, func() bool {
		found = s.lookup(sel.Expr)
		return len(found) > 0
	})
	if err != nil {
		return nil, err
	}
	return s.wrap(found), nil
}

func (s *Session) WaitAny(ctx context.Context, sels []session.Selector) (int, session.Element, error) {
	if len(sels) == 0 {
		return -1, nil, errors.New("sessiontest: no selectors")
	}
	idx := -1
	var found *Element
	err := poll(ctx, func() bool {
		for i, sel := range sels {
			if els := s.lookup(sel.Expr); len(els) > 0 {
				idx, found = i, els[0]
				return true
			}
		}
		return false
	})
	if err != nil {
		return -1, nil, err
	}
	return idx, &handle{s: s, el: found}, nil
}

func (s *Session) Find(ctx context.Context, sel session.Selector) ([]session.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.wrap(s.lookup(sel.Expr)), nil
}

func (s *Session) Contexts(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.order...), nil
}

func (s *Session) SwitchContext(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.contexts[id]; !ok {
		return fmt.Errorf("sessiontest: unknown context %q", id)
	}
	s.current = id
	return nil
}

func (s *Session) HTML(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.contexts[s.current].HTML, nil
}

func (s *Session) WaitStable(context.Context, time.Duration) error { return nil }

func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Closed++
	return nil
}

func (s *Session) wrap(els []*Element) []session.Element {
	out := make([]session.Element, 0, len(els))
	for _, el := range els {
		out = append(out, &handle{s: s, el: el})
	}
	return out
}

// handle binds a scripted element to its session so callbacks can
// mutate the session.
type handle struct {
	s  *Session
	el *Element
}

func (h *handle) Text(ctx context.Context) (string, error) {
	return h.el.Text, ctx.Err()
}

func (h *handle) Click(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if h.el.OnClick != nil {
		h.el.OnClick(h.s)
	}
	return nil
}

func (h *handle) Input(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	h.el.Value = text
	return nil
}

func (h *handle) Submit(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if h.el.OnSubmit != nil {
		h.el.OnSubmit(h.s)
	}
	return nil
}
