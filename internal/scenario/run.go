package scenario

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/marcus/lightbox/internal/action"
	"github.com/marcus/lightbox/internal/history"
	"github.com/marcus/lightbox/pkg/dom"
	"github.com/marcus/lightbox/pkg/lightbox"
	"github.com/sahilm/fuzzy"
)

// StepResult records controller state after a step.
type StepResult struct {
	Index  int    // 1-based
	Kind   string // see Step.Kind
	Detail string
	Open   bool
	Active string // id (or tag) of the focused element, "" for none
	Err    error  // dispatch error, if any; the run continues
}

// String renders the result as one line.
func (r StepResult) String() string {
	state := "closed"
	if r.Open {
		state = "open"
	}
	active := r.Active
	if active == "" {
		active = "-"
	}
	line := fmt.Sprintf("%2d %-8s %-28s %-6s focus=%s", r.Index, r.Kind, r.Detail, state, active)
	if r.Err != nil {
		line += "  err=" + r.Err.Error()
	}
	return line
}

// Result is the outcome of a run.
type Result struct {
	Steps    []StepResult
	Document *dom.Document
	Lightbox *lightbox.Controller
}

// ExpectationError reports a failed expect step.
type ExpectationError struct {
	Step  int
	Field string
	Want  string
	Got   string
}

func (e *ExpectationError) Error() string {
	return fmt.Sprintf("step %d: expected %s=%s, got %s", e.Step, e.Field, e.Want, e.Got)
}

// RunOptions configure Run.
type RunOptions struct {
	Logger *slog.Logger
	// OnStep is called after every step, including failed expectations.
	OnStep func(StepResult)
}

// Run builds the scenario document and executes its steps in order.
// It stops at the first failed expectation or unknown element reference;
// dispatch errors are recorded on the step and the run continues.
func Run(sc *Scenario, opts RunOptions) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	doc := dom.NewDocument()
	container := dom.NewElement("div", sc.Lightbox.ID)
	container.Text = sc.Lightbox.Title
	container.AppendChild(build(sc.Lightbox.Children)...)
	doc.Body.AppendChild(container)
	doc.Body.AppendChild(build(sc.Page)...)

	stack := history.NewStack()
	copts := []lightbox.Option{
		lightbox.WithLogger(logger),
		lightbox.WithCloseLabel(sc.Options.CloseLabel),
		lightbox.WithCloseOnBlur(sc.Options.CloseOnBlur),
	}
	if sc.Options.History == nil || *sc.Options.History {
		copts = append(copts, lightbox.WithHistory(stack))
	}
	box := lightbox.New(doc, container, copts...)

	svc := action.NewService(doc)
	svc.SetLogger(logger)
	svc.Register(container, box)
	if err := box.Attach(); err != nil {
		return nil, fmt.Errorf("attach: %w", err)
	}

	res := &Result{Document: doc, Lightbox: box}
	r := runner{doc: doc, box: box, svc: svc, stack: stack, container: container}

	for i, step := range sc.Steps {
		sr := StepResult{Index: i + 1, Kind: step.Kind()}
		stepErr := r.do(step, &sr)

		sr.Open = box.IsOpen()
		sr.Active = elementName(doc.ActiveElement())
		if stepErr == nil && step.Expect != nil {
			stepErr = check(i+1, step.Expect, sr)
		}

		res.Steps = append(res.Steps, sr)
		if opts.OnStep != nil {
			opts.OnStep(sr)
		}
		if stepErr != nil {
			return res, stepErr
		}
	}
	return res, nil
}

type runner struct {
	doc       *dom.Document
	box       *lightbox.Controller
	svc       *action.Service
	stack     *history.Stack
	container *dom.Element
}

// do performs one step. Returned errors abort the run; dispatch errors are
// stored on sr instead.
func (r runner) do(step Step, sr *StepResult) error {
	switch {
	case step.Focus != "":
		sr.Detail = step.Focus
		el, err := r.lookup(sr.Index, step.Focus)
		if err != nil {
			return err
		}
		if !r.doc.TryFocus(el) {
			sr.Err = fmt.Errorf("#%s is not focusable", step.Focus)
		}

	case step.Blur:
		r.doc.Blur()

	case step.Tap != "":
		sr.Detail = step.Tap
		el, err := r.lookup(sr.Index, step.Tap)
		if err != nil {
			return err
		}
		sr.Err = r.svc.Trigger(el, dom.EventTap, dom.NewTapEvent(el), action.TrustHigh)

	case step.Key != "":
		name, shift := splitShift(step.Key)
		ev := dom.NewKeyEvent(normalizeKey(name))
		ev.Shift = shift
		sr.Detail = ev.Key
		if shift {
			sr.Detail = "shift+" + ev.Key
		}
		r.doc.DispatchKey(ev)
		if !ev.Handled() && ev.Key == dom.KeyTab {
			r.box.FocusNext(shift)
		}

	case step.Back:
		if !r.stack.Back() {
			sr.Detail = "(empty)"
		}

	case step.Dispatch != nil:
		d := step.Dispatch
		sr.Detail = d.Method
		trust, ok := action.ParseTrust(d.Trust)
		if !ok {
			return fmt.Errorf("step %d: unknown trust %q", sr.Index, d.Trust)
		}
		caller, err := r.optional(sr.Index, d.Caller)
		if err != nil {
			return err
		}
		source, err := r.optional(sr.Index, d.Source)
		if err != nil {
			return err
		}
		if caller != nil {
			sr.Detail += " caller=" + d.Caller
		}
		sr.Err = r.svc.Execute(r.container, d.Method, nil, source, caller, nil, trust)

	case step.Expect != nil:
		sr.Detail = describe(step.Expect)
	}
	return nil
}

func (r runner) lookup(step int, id string) (*dom.Element, error) {
	el := r.doc.GetElementByID(id)
	if el == nil {
		if near := suggestID(r.doc, id); near != "" {
			return nil, fmt.Errorf("step %d: no element #%s (did you mean #%s?)", step, id, near)
		}
		return nil, fmt.Errorf("step %d: no element #%s", step, id)
	}
	return el, nil
}

// suggestID returns the best fuzzy match for id among the document's
// element ids, or "".
func suggestID(doc *dom.Document, id string) string {
	var ids []string
	for _, el := range doc.Body.FindAll(func(e *dom.Element) bool { return e.ID != "" }) {
		ids = append(ids, el.ID)
	}
	matches := fuzzy.Find(id, ids)
	if len(matches) == 0 {
		return ""
	}
	return matches[0].Str
}

func (r runner) optional(step int, id string) (*dom.Element, error) {
	if id == "" {
		return nil, nil
	}
	return r.lookup(step, id)
}

func check(step int, want *Expect, got StepResult) error {
	if want.Open != nil && *want.Open != got.Open {
		return &ExpectationError{Step: step, Field: "open",
			Want: fmt.Sprint(*want.Open), Got: fmt.Sprint(got.Open)}
	}
	if want.Active != nil && *want.Active != got.Active {
		return &ExpectationError{Step: step, Field: "active",
			Want: quoteID(*want.Active), Got: quoteID(got.Active)}
	}
	return nil
}

func describe(e *Expect) string {
	var parts []string
	if e.Open != nil {
		parts = append(parts, fmt.Sprintf("open=%v", *e.Open))
	}
	if e.Active != nil {
		parts = append(parts, "active="+quoteID(*e.Active))
	}
	return strings.Join(parts, " ")
}

func quoteID(id string) string {
	if id == "" {
		return "none"
	}
	return id
}

func elementName(el *dom.Element) string {
	if el == nil {
		return ""
	}
	if el.ID != "" {
		return el.ID
	}
	return el.Tag
}

func build(nodes []Node) []*dom.Element {
	out := make([]*dom.Element, 0, len(nodes))
	for _, n := range nodes {
		el := dom.NewElement(n.Tag, n.ID)
		el.Text = n.Text
		for k, v := range n.Attrs {
			el.SetAttr(k, v)
		}
		if n.On != "" {
			el.SetAttr("on", n.On)
		}
		el.AppendChild(build(n.Children)...)
		out = append(out, el)
	}
	return out
}

// splitShift strips a "shift+" prefix from a key name.
func splitShift(k string) (string, bool) {
	if len(k) > len("shift+") && strings.EqualFold(k[:len("shift+")], "shift+") {
		return k[len("shift+"):], true
	}
	return k, false
}

// normalizeKey accepts terminal-style key names as well as DOM key names.
func normalizeKey(k string) string {
	switch strings.ToLower(k) {
	case "esc", "escape":
		return dom.KeyEscape
	case "enter", "return":
		return dom.KeyEnter
	case "tab":
		return dom.KeyTab
	case "space":
		return dom.KeySpace
	case "backspace":
		return dom.KeyBackspace
	default:
		return k
	}
}
