package session

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/imaadfakier/spicychatdotai-scraper/config"
	"github.com/imaadfakier/spicychatdotai-scraper/models"
)

// contextPollInterval is how often switch_context re-lists open contexts.
const contextPollInterval = 100 * time.Millisecond

// Timeouts are the ceilings applied to blocking steps.
type Timeouts struct {
	Wait       time.Duration
	Navigation time.Duration
	Context    time.Duration
	Settle     time.Duration
}

// TimeoutsFrom maps the session config onto step ceilings.
func TimeoutsFrom(cfg config.SessionConfig) Timeouts {
	return Timeouts{
		Wait:       cfg.WaitTimeout,
		Navigation: cfg.NavigationTimeout,
		Context:    cfg.ContextTimeout,
		Settle:     cfg.SettleInterval,
	}
}

func (t Timeouts) withDefaults() Timeouts {
	if t.Wait <= 0 {
		t.Wait = 10 * time.Second
	}
	if t.Navigation <= 0 {
		t.Navigation = 30 * time.Second
	}
	if t.Context <= 0 {
		t.Context = t.Wait
	}
	if t.Settle <= 0 {
		t.Settle = 300 * time.Millisecond
	}
	return t
}

// Task is a named, static sequence of steps run against one session.
type Task struct {
	Name  string
	URL   string
	Steps []Step
}

// StepTiming records when one step ran.
type StepTiming struct {
	Index int
	Kind  StepKind
	Key   string
	Start time.Time
	End   time.Time
}

// Document is everything a successful task extracted.
type Document struct {
	Task string
	URL  string

	// Fields holds extracted text and captured HTML by key.
	Fields map[string]string

	// Matched holds the winning selector index of each await_any step.
	Matched map[string]int

	Timeline []StepTiming
}

// Field returns the captured value for key, or "".
func (d *Document) Field(key string) string {
	return d.Fields[key]
}

// Timing returns the timeline entry of the first step named key.
func (d *Document) Timing(key string) (StepTiming, bool) {
	for _, st := range d.Timeline {
		if st.Key == key {
			return st, true
		}
	}
	return StepTiming{}, false
}

// Orchestrator runs tasks one at a time, each in its own session.
type Orchestrator struct {
	launch       Launcher
	timeouts     Timeouts
	pollInterval time.Duration
}

// NewOrchestrator creates an Orchestrator that opens sessions with launch.
func NewOrchestrator(launch Launcher, timeouts Timeouts) *Orchestrator {
	return &Orchestrator{
		launch:       launch,
		timeouts:     timeouts.withDefaults(),
		pollInterval: contextPollInterval,
	}
}

// run is the per-task mutable state. It never outlives Run.
type run struct {
	sess    Session
	doc     *Document
	handles map[string][]Element

	// before holds the context ids that existed when the last interaction
	// started; nil until an interaction happens.
	before map[string]struct{}
}

// Run executes the task's steps in order and returns the extracted
// document. Any failing step ends the task with a *models.ScrapeError;
// the session is closed exactly once before Run returns, whatever happens.
func (o *Orchestrator) Run(ctx context.Context, task Task) (doc *Document, err error) {
	sess, launchErr := o.launch(ctx)
	if launchErr != nil {
		return nil, asTransport(launchErr, "failed to open browsing session")
	}
	slog.Debug("session acquired", "task", task.Name)

	// Registered first so it runs last, after any panic has been recovered.
	defer o.release(sess, task.Name)

	defer func() {
		if r := recover(); r != nil {
			slog.Error("task panicked", "task", task.Name, "panic", r)
			doc = nil
			err = models.NewScrapeError(models.ErrCodeUnexpected, fmt.Sprint(r), nil)
		}
	}()

	r := &run{
		sess: sess,
		doc: &Document{
			Task:    task.Name,
			URL:     task.URL,
			Fields:  make(map[string]string),
			Matched: make(map[string]int),
		},
		handles: make(map[string][]Element),
	}

	for i, step := range task.Steps {
		start := time.Now()
		if stepErr := o.exec(ctx, r, step); stepErr != nil {
			se := categorizeError(stepErr, fmt.Sprintf("step %d (%s) failed", i, step.Kind))
			slog.Warn("task step failed",
				"task", task.Name,
				"step", i,
				"kind", step.Kind,
				"code", se.Code,
				"error", stepErr,
			)
			return nil, se
		}
		r.doc.Timeline = append(r.doc.Timeline, StepTiming{
			Index: i,
			Kind:  step.Kind,
			Key:   step.Key,
			Start: start,
			End:   time.Now(),
		})
		slog.Debug("task step done", "task", task.Name, "step", i, "kind", step.Kind)
	}

	return r.doc, nil
}

// release closes the session. Close errors are logged, never returned:
// the task outcome is already decided.
func (o *Orchestrator) release(sess Session, task string) {
	if err := sess.Close(); err != nil {
		slog.Warn("cleanup: failed to close session", "task", task, "error", err)
		return
	}
	slog.Debug("session released", "task", task)
}

// exec dispatches a single step with its own deadline.
func (o *Orchestrator) exec(ctx context.Context, r *run, s Step) error {
	switch s.Kind {
	case StepNavigate:
		stepCtx, cancel := context.WithTimeout(ctx, ceiling(s, o.timeouts.Navigation))
		defer cancel()
		return r.sess.Navigate(stepCtx, s.URL)

	case StepAwait:
		stepCtx, cancel := context.WithTimeout(ctx, ceiling(s, o.timeouts.Wait))
		defer cancel()
		if s.Multiplicity == All {
			els, err := r.sess.WaitElements(stepCtx, s.Selector)
			if err != nil {
				return err
			}
			if len(els) == 0 {
				return fmt.Errorf("%w: %s", ErrElementNotFound, s.Selector)
			}
			r.handles[s.Key] = els
			return nil
		}
		el, err := r.sess.WaitElement(stepCtx, s.Selector, s.Condition)
		if err != nil {
			return err
		}
		r.handles[s.Key] = []Element{el}
		return nil

	case StepAwaitAny:
		stepCtx, cancel := context.WithTimeout(ctx, ceiling(s, o.timeouts.Wait))
		defer cancel()
		idx, el, err := r.sess.WaitAny(stepCtx, s.Selectors)
		if err != nil {
			return err
		}
		r.handles[s.Key] = []Element{el}
		r.doc.Matched[s.Key] = idx
		return nil

	case StepInteract:
		return o.interact(ctx, r, s)

	case StepSwitchContext:
		return o.switchContext(ctx, r, s)

	case StepExtract:
		return o.extract(ctx, r, s)

	case StepCaptureHTML:
		stepCtx, cancel := context.WithTimeout(ctx, ceiling(s, o.timeouts.Wait))
		defer cancel()
		html, err := r.sess.HTML(stepCtx)
		if err != nil {
			return err
		}
		r.doc.Fields[s.Key] = html
		return nil

	case StepSettle:
		stepCtx, cancel := context.WithTimeout(ctx, ceiling(s, o.timeouts.Wait))
		defer cancel()
		if err := r.sess.WaitStable(stepCtx, o.timeouts.Settle); err != nil {
			slog.Debug("settle did not converge, proceeding with current DOM", "error", err)
		}
		return nil

	default:
		return models.NewScrapeError(
			models.ErrCodeInvalidInput,
			fmt.Sprintf("unknown step kind: %s", s.Kind),
			nil,
		)
	}
}

// resolve returns the elements a step operates on: the handles stored
// under its Target, or an immediate (non-waiting) lookup of its Selector.
func (o *Orchestrator) resolve(ctx context.Context, r *run, s Step) ([]Element, error) {
	if s.Target != "" {
		els := r.handles[s.Target]
		if len(els) == 0 {
			return nil, fmt.Errorf("%w: nothing stored under %q", ErrElementNotFound, s.Target)
		}
		return els, nil
	}
	els, err := r.sess.Find(ctx, s.Selector)
	if err != nil {
		return nil, err
	}
	if len(els) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrElementNotFound, s.Selector)
	}
	return els, nil
}

func (o *Orchestrator) interact(ctx context.Context, r *run, s Step) error {
	stepCtx, cancel := context.WithTimeout(ctx, ceiling(s, o.timeouts.Wait))
	defer cancel()

	els, err := o.resolve(stepCtx, r, s)
	if err != nil {
		return err
	}

	// Snapshot open contexts so a following switch_context can tell which
	// one this interaction opened.
	ids, err := r.sess.Contexts(stepCtx)
	if err != nil {
		return err
	}
	r.before = make(map[string]struct{}, len(ids))
	for _, id := range ids {
		r.before[id] = struct{}{}
	}

	el := els[0]
	switch s.Action {
	case ActionClick:
		return el.Click(stepCtx)
	case ActionType:
		return el.Input(stepCtx, s.Text)
	case ActionSubmit:
		return el.Submit(stepCtx)
	default:
		return models.NewScrapeError(
			models.ErrCodeInvalidInput,
			fmt.Sprintf("unknown action: %s", s.Action),
			nil,
		)
	}
}

// switchContext polls for a context that did not exist before the last
// interaction and focuses it.
func (o *Orchestrator) switchContext(ctx context.Context, r *run, s Step) error {
	if r.before == nil {
		return fmt.Errorf("%w: no interaction has opened a new context", ErrElementNotFound)
	}

	limit := ceiling(s, o.timeouts.Context)
	pollCtx, cancel := context.WithTimeout(ctx, limit)
	defer cancel()

	ticker := time.NewTicker(o.pollInterval)
	defer ticker.Stop()

	for {
		ids, err := r.sess.Contexts(pollCtx)
		if err != nil && pollCtx.Err() == nil {
			return err
		}
		for _, id := range ids {
			if _, seen := r.before[id]; !seen {
				r.before = nil
				return r.sess.SwitchContext(pollCtx, id)
			}
		}

		select {
		case <-pollCtx.Done():
			return fmt.Errorf("%w: no new browsing context opened within %s", ErrElementNotFound, limit)
		case <-ticker.C:
		}
	}
}

func (o *Orchestrator) extract(ctx context.Context, r *run, s Step) error {
	stepCtx, cancel := context.WithTimeout(ctx, ceiling(s, o.timeouts.Wait))
	defer cancel()

	els, err := o.resolve(stepCtx, r, s)
	if err != nil {
		return err
	}
	if s.Multiplicity == Single {
		els = els[:1]
	}

	texts := make([]string, 0, len(els))
	for _, el := range els {
		text, err := el.Text(stepCtx)
		if err != nil {
			return err
		}
		texts = append(texts, strings.TrimSpace(text))
	}
	r.doc.Fields[s.Key] = strings.Join(texts, "\n")
	return nil
}

func ceiling(s Step, fallback time.Duration) time.Duration {
	if s.Timeout > 0 {
		return s.Timeout
	}
	return fallback
}
