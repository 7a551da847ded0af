package session

import "time"

// StepKind identifies what a step does.
type StepKind string

const (
	StepNavigate      StepKind = "navigate"
	StepAwait         StepKind = "await"
	StepAwaitAny      StepKind = "await_any"
	StepInteract      StepKind = "interact"
	StepSwitchContext StepKind = "switch_context"
	StepExtract       StepKind = "extract"
	StepCaptureHTML   StepKind = "capture_html"
	StepSettle        StepKind = "settle"
)

// Action is what an interact step does to its element.
type Action string

const (
	ActionClick  Action = "click"
	ActionType   Action = "type"
	ActionSubmit Action = "submit"
)

// Multiplicity selects one or all matched elements.
type Multiplicity int

const (
	Single Multiplicity = iota
	All
)

// Step is one entry of a task's step sequence. Build steps with the
// constructors below rather than by hand.
type Step struct {
	Kind StepKind

	// URL is the navigate target.
	URL string

	// Selector locates the element(s) for await, interact and extract
	// steps that have no Target.
	Selector Selector

	// Selectors are the alternatives of an await_any step.
	Selectors []Selector

	Condition    Condition
	Multiplicity Multiplicity
	Action       Action

	// Text is typed by ActionType.
	Text string

	// Key names the handle an await step stores or the field an extract
	// or capture step writes.
	Key string

	// Target is the key of elements stored by an earlier await step.
	Target string

	// Timeout overrides the configured ceiling for this step.
	Timeout time.Duration
}

// WithTimeout returns a copy of s with its own ceiling.
func (s Step) WithTimeout(d time.Duration) Step {
	s.Timeout = d
	return s
}

// Navigate loads url in the current context.
func Navigate(url string) Step {
	return Step{Kind: StepNavigate, URL: url}
}

// Await waits for one element matching sel and stores it under key.
func Await(key string, sel Selector, cond Condition) Step {
	return Step{Kind: StepAwait, Key: key, Selector: sel, Condition: cond}
}

// AwaitAll waits for at least one element matching sel and stores all
// matches under key.
func AwaitAll(key string, sel Selector) Step {
	return Step{Kind: StepAwait, Key: key, Selector: sel, Multiplicity: All}
}

// AwaitAny waits until any of sels matches. The index of the winning
// selector is recorded in Document.Matched[key].
func AwaitAny(key string, sels ...Selector) Step {
	return Step{Kind: StepAwaitAny, Key: key, Selectors: sels}
}

// Click clicks the element stored under target.
func Click(target string) Step {
	return Step{Kind: StepInteract, Target: target, Action: ActionClick}
}

// Type clears the element stored under target and types text into it.
func Type(target, text string) Step {
	return Step{Kind: StepInteract, Target: target, Action: ActionType, Text: text}
}

// Submit presses Enter on the element stored under target. key, when set,
// names the step in the timeline.
func Submit(key, target string) Step {
	return Step{Kind: StepInteract, Key: key, Target: target, Action: ActionSubmit}
}

// SwitchToNewContext moves to the context opened by the last interaction.
func SwitchToNewContext() Step {
	return Step{Kind: StepSwitchContext}
}

// Extract reads the text of elements matching sel without waiting and
// stores it in Document.Fields[key].
func Extract(key string, sel Selector, m Multiplicity) Step {
	return Step{Kind: StepExtract, Key: key, Selector: sel, Multiplicity: m}
}

// ExtractFrom reads the text of the elements stored under target.
func ExtractFrom(key, target string, m Multiplicity) Step {
	return Step{Kind: StepExtract, Key: key, Target: target, Multiplicity: m}
}

// CaptureHTML stores the rendered HTML of the current context.
func CaptureHTML(key string) Step {
	return Step{Kind: StepCaptureHTML, Key: key}
}

// Settle waits, best-effort, for the DOM to stop changing.
func Settle() Step {
	return Step{Kind: StepSettle}
}
