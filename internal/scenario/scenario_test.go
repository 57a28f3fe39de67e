package scenario

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/marcus/lightbox/pkg/dom"
	"github.com/marcus/lightbox/pkg/lightbox"
)

var quiet = RunOptions{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}

const closeOnEscape = `
name: close on escape
lightbox:
  id: myLightbox
  children:
    - {tag: button, id: randomButton, text: Something to focus on}
    - {tag: button, id: closeButton, text: X, on: "tap:myLightbox.close"}
page:
  - {tag: button, id: sourceElement, text: Open lightbox}
  - {tag: button, id: nextElement, text: Something to focus on}
steps:
  - focus: sourceElement
  - dispatch: {method: open, caller: sourceElement, trust: high}
  - expect: {open: true, active: closeButton}
  - key: Enter
  - expect: {open: true}
  - key: Escape
  - expect: {open: false, active: sourceElement}
`

func TestParse(t *testing.T) {
	sc, err := Parse([]byte(closeOnEscape))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if sc.Name != "close on escape" {
		t.Errorf("Name = %q", sc.Name)
	}
	if len(sc.Lightbox.Children) != 2 || len(sc.Page) != 2 {
		t.Errorf("got %d lightbox children, %d page nodes", len(sc.Lightbox.Children), len(sc.Page))
	}
	if len(sc.Steps) != 7 {
		t.Fatalf("got %d steps, want 7", len(sc.Steps))
	}

	kinds := []string{"focus", "dispatch", "expect", "key", "expect", "key", "expect"}
	for i, want := range kinds {
		if got := sc.Steps[i].Kind(); got != want {
			t.Errorf("step %d kind = %q, want %q", i+1, got, want)
		}
	}
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"missing lightbox id", "lightbox: {}\n"},
		{"duplicate id", "lightbox: {id: box}\npage:\n  - {tag: button, id: box}\n"},
		{"missing tag", "lightbox: {id: box}\npage:\n  - {id: a}\n"},
		{"two actions in one step", "lightbox: {id: box}\nsteps:\n  - {focus: a, key: Escape}\n"},
		{"empty step", "lightbox: {id: box}\nsteps:\n  - {}\n"},
		{"unknown method", "lightbox: {id: box}\nsteps:\n  - dispatch: {method: toggle}\n"},
		{"malformed on", "lightbox: {id: box}\npage:\n  - {tag: button, id: a, on: \"tap:box\"}\n"},
		{"unsupported lightbox method", "lightbox: {id: box}\npage:\n  - {tag: button, id: a, on: \"click:box.toggle\"}\n"},
	}

	for _, tt := range tests {
		if _, err := Parse([]byte(tt.yaml)); !errors.Is(err, ErrInvalid) {
			t.Errorf("%s: err = %v, want ErrInvalid", tt.name, err)
		}
	}

	if _, err := Parse([]byte("lightbox: [")); err == nil {
		t.Error("malformed yaml should fail")
	}
}

func TestRunCloseOnEscape(t *testing.T) {
	sc, err := Parse([]byte(closeOnEscape))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	var seen int
	opts := quiet
	opts.OnStep = func(StepResult) { seen++ }

	res, err := Run(sc, opts)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if seen != len(sc.Steps) || len(res.Steps) != len(sc.Steps) {
		t.Errorf("OnStep called %d times, %d results, want %d", seen, len(res.Steps), len(sc.Steps))
	}
	last := res.Steps[len(res.Steps)-1]
	if last.Open || last.Active != "sourceElement" {
		t.Errorf("final state = open:%v active:%s", last.Open, last.Active)
	}
	if res.Lightbox.IsOpen() {
		t.Error("lightbox should be closed at the end")
	}
}

func TestRunSynthesizesCloseControl(t *testing.T) {
	sc, err := Parse([]byte(`
lightbox:
  id: box
  children:
    - {tag: p, text: Just text}
page:
  - {tag: button, id: trigger, on: "tap:box.open"}
options:
  close_label: Dismiss
steps:
  - focus: trigger
  - tap: trigger
  - expect: {open: true, active: box-close}
  - tap: box-close
  - expect: {open: false, active: trigger}
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	res, err := Run(sc, quiet)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	btn := res.Document.GetElementByID("box-close")
	if btn == nil || btn.Text != "Dismiss" {
		t.Errorf("synthesized control = %v", btn)
	}
}

func TestRunExpectationFailure(t *testing.T) {
	sc, err := Parse([]byte(`
lightbox: {id: box}
page:
  - {tag: button, id: trigger}
steps:
  - focus: trigger
  - expect: {open: true}
  - key: Escape
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	res, err := Run(sc, quiet)
	var expErr *ExpectationError
	if !errors.As(err, &expErr) {
		t.Fatalf("err = %v, want ExpectationError", err)
	}
	if expErr.Step != 2 || expErr.Field != "open" {
		t.Errorf("ExpectationError = %+v", expErr)
	}
	if len(res.Steps) != 2 {
		t.Errorf("run should stop at the failed step, got %d results", len(res.Steps))
	}
}

func TestRunHistoryBackAndTrust(t *testing.T) {
	sc, err := Parse([]byte(`
lightbox:
  id: box
  children:
    - {tag: button, id: close, attrs: {data-close-button: ""}}
page:
  - {tag: button, id: trigger}
steps:
  - focus: trigger
  - dispatch: {method: open, caller: trigger, trust: low}
  - expect: {open: false}
  - dispatch: {method: open, caller: trigger}
  - expect: {open: true, active: close}
  - back: true
  - expect: {open: false, active: trigger}
  - back: true
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	res, err := Run(sc, quiet)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !errors.Is(res.Steps[1].Err, lightbox.ErrInsufficientTrust) {
		t.Errorf("low-trust dispatch err = %v, want ErrInsufficientTrust", res.Steps[1].Err)
	}
	if !strings.Contains(res.Steps[1].String(), "err=") {
		t.Errorf("step line should include the error: %s", res.Steps[1])
	}
	if res.Steps[7].Detail != "(empty)" {
		t.Errorf("back on empty history detail = %q", res.Steps[7].Detail)
	}
}

func TestRunTabAndBlur(t *testing.T) {
	sc, err := Parse([]byte(`
lightbox:
  id: box
  children:
    - {tag: button, id: a, on: "tap:box.close"}
    - {tag: button, id: b}
page:
  - {tag: button, id: trigger}
  - {tag: button, id: outside}
options:
  close_on_blur: true
  history: false
steps:
  - dispatch: {method: open, caller: trigger}
  - key: tab
  - expect: {active: b}
  - key: tab
  - expect: {active: a}
  - key: shift+tab
  - expect: {active: b}
  - key: Shift+Tab
  - expect: {active: a}
  - focus: outside
  - expect: {open: false, active: trigger}
  - blur: true
  - expect: {active: ""}
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if _, err := Run(sc, quiet); err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func TestRunUnknownElement(t *testing.T) {
	sc, err := Parse([]byte("lightbox: {id: box}\nsteps:\n  - focus: ghost\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if _, err := Run(sc, quiet); err == nil || !strings.Contains(err.Error(), "ghost") {
		t.Errorf("err = %v, want unknown element error", err)
	}
}

func TestRunUnknownElementSuggestion(t *testing.T) {
	sc, err := Parse([]byte("lightbox: {id: box}\npage:\n  - {tag: button, id: trigger}\nsteps:\n  - tap: trgr\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	_, err = Run(sc, quiet)
	if err == nil || !strings.Contains(err.Error(), "did you mean #trigger") {
		t.Errorf("err = %v, want suggestion for #trigger", err)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.yaml")
	if err := os.WriteFile(path, []byte(closeOnEscape), 0644); err != nil {
		t.Fatalf("setup: write failed: %v", err)
	}
	if _, err := Load(path); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing file should fail")
	}
}

func TestRunTabReachesKeyListeners(t *testing.T) {
	sc, err := Parse([]byte(`
lightbox:
  id: box
  children:
    - {tag: button, id: a, on: "tap:box.close"}
    - {tag: button, id: b}
page:
  - {tag: button, id: trigger}
steps:
  - dispatch: {method: open, caller: trigger}
  - key: tab
  - key: shift+tab
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	var seen []string
	opts := quiet
	opts.OnStep = func(sr StepResult) {
		if sr.Index == 1 {
			return
		}
		seen = append(seen, sr.Detail)
	}
	res, err := Run(sc, opts)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := strings.Join(seen, ","); got != "Tab,shift+Tab" {
		t.Errorf("details = %q, want Tab,shift+Tab", got)
	}
	if got := elementName(res.Document.ActiveElement()); got != "a" {
		t.Errorf("active = %q, want a", got)
	}
}

func TestRunTabHandledByListener(t *testing.T) {
	sc, err := Parse([]byte(`
lightbox:
  id: box
  children:
    - {tag: button, id: a, on: "tap:box.close"}
    - {tag: button, id: b}
steps:
  - dispatch: {method: open}
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	res, err := Run(sc, quiet)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	var keys []string
	remove := res.Document.AddKeyListener(func(ev *dom.Event) {
		keys = append(keys, ev.Key)
		ev.MarkHandled()
	})
	defer remove()

	r := runner{doc: res.Document, box: res.Lightbox}
	sr := StepResult{Index: 1}
	if err := r.do(Step{Key: "tab"}, &sr); err != nil {
		t.Fatalf("do: %v", err)
	}
	if len(keys) != 1 || keys[0] != dom.KeyTab {
		t.Errorf("listener saw %v, want [Tab]", keys)
	}
	if got := elementName(res.Document.ActiveElement()); got != "a" {
		t.Errorf("handled Tab moved focus to %q", got)
	}
}

func TestSplitShift(t *testing.T) {
	tests := []struct {
		in    string
		key   string
		shift bool
	}{
		{"shift+tab", "tab", true},
		{"Shift+Tab", "Tab", true},
		{"tab", "tab", false},
		{"shift+", "shift+", false},
	}
	for _, tt := range tests {
		key, shift := splitShift(tt.in)
		if key != tt.key || shift != tt.shift {
			t.Errorf("splitShift(%q) = (%q, %v), want (%q, %v)", tt.in, key, shift, tt.key, tt.shift)
		}
	}
}

func TestNormalizeKey(t *testing.T) {
	tests := map[string]string{
		"esc":    "Escape",
		"Escape": "Escape",
		"ENTER":  "Enter",
		"space":  " ",
		"x":      "x",
	}
	for in, want := range tests {
		if got := normalizeKey(in); got != want {
			t.Errorf("normalizeKey(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTestdataScenarios(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("testdata", "*.yaml"))
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if len(paths) == 0 {
		t.Fatal("no testdata scenarios")
	}
	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			sc, err := Load(path)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			res, err := Run(sc, quiet)
			if err != nil {
				t.Fatalf("Run: %v", err)
			}
			for _, sr := range res.Steps {
				if sr.Err != nil {
					t.Errorf("step %d: %v", sr.Index, sr.Err)
				}
			}
		})
	}
}
