package lightbox

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/marcus/lightbox/internal/action"
	"github.com/marcus/lightbox/pkg/dom"
)

// Model hosts a page and one lightbox in a bubbletea program.
type Model struct {
	doc     *dom.Document
	box     *Controller
	actions *action.Service
	back    func() bool

	Keys  KeyMap
	help  help.Model
	Title string

	Width  int
	Height int

	// Status is the last dispatch error, cleared by the next key press.
	Status string
}

// ModelOption configures a Model.
type ModelOption func(*Model)

// WithTitle sets the page heading.
func WithTitle(title string) ModelOption {
	return func(m *Model) {
		m.Title = title
	}
}

// WithBack binds the back key to fn, typically a history stack's Back.
func WithBack(fn func() bool) ModelOption {
	return func(m *Model) {
		m.back = fn
	}
}

// WithKeyMap replaces the default bindings.
func WithKeyMap(k KeyMap) ModelOption {
	return func(m *Model) {
		m.Keys = k
	}
}

// NewModel creates a host for box inside doc. Taps are routed through
// actions.
func NewModel(doc *dom.Document, box *Controller, actions *action.Service, opts ...ModelOption) Model {
	m := Model{
		doc:     doc,
		box:     box,
		actions: actions,
		Keys:    DefaultKeyMap(),
		help:    help.New(),
		Title:   "lightbox",
		Width:   80,
		Height:  24,
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Controller returns the hosted lightbox.
func (m Model) Controller() *Controller {
	return m.box
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	m.focusPage(false)
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		m.Status = ""
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.box.IsOpen() {
		ev := KeyEvent(msg)
		m.doc.DispatchKey(ev)
		if ev.Handled() {
			return m, nil
		}
	}

	switch {
	case msg.Type == tea.KeyCtrlC:
		return m, tea.Quit
	case key.Matches(msg, m.Keys.Quit) && !m.box.IsOpen():
		return m, tea.Quit
	case key.Matches(msg, m.Keys.Next):
		m.moveFocus(false)
	case key.Matches(msg, m.Keys.Prev):
		m.moveFocus(true)
	case key.Matches(msg, m.Keys.Activate):
		m.activate()
	case key.Matches(msg, m.Keys.Back):
		if m.back != nil {
			m.back()
		}
	}
	return m, nil
}

func (m *Model) moveFocus(reverse bool) {
	if m.box.IsOpen() {
		m.box.FocusNext(reverse)
		return
	}
	m.focusPage(reverse)
}

// focusPage cycles focus among focusable elements outside the lightbox.
func (m *Model) focusPage(reverse bool) {
	items := m.pageFocusables()
	if len(items) == 0 {
		return
	}
	cur := -1
	for i, el := range items {
		if el == m.doc.ActiveElement() {
			cur = i
			break
		}
	}
	next := 0
	switch {
	case cur == -1 && reverse:
		next = len(items) - 1
	case cur == -1:
		next = 0
	case reverse:
		next = (cur - 1 + len(items)) % len(items)
	default:
		next = (cur + 1) % len(items)
	}
	m.doc.TryFocus(items[next])
}

func (m Model) pageFocusables() []*dom.Element {
	container := m.box.Container()
	var out []*dom.Element
	for _, el := range m.doc.Body.FocusableDescendants() {
		if !container.Contains(el) {
			out = append(out, el)
		}
	}
	return out
}

func (m *Model) activate() {
	el := m.doc.ActiveElement()
	if el == nil {
		return
	}
	if err := m.actions.Trigger(el, dom.EventTap, dom.NewTapEvent(el), action.TrustHigh); err != nil {
		m.Status = err.Error()
	}
}

// View implements tea.Model.
func (m Model) View() string {
	var content string
	if m.box.IsOpen() {
		content = lipgloss.Place(m.Width, m.Height-2, lipgloss.Center, lipgloss.Center, m.renderLightbox())
	} else {
		content = m.renderPage()
	}

	var sb strings.Builder
	sb.WriteString(content)
	sb.WriteString("\n")
	if m.Status != "" {
		sb.WriteString(ErrorText.Render(m.truncate(m.Status)))
		sb.WriteString("\n")
	}
	sb.WriteString(m.help.View(m.Keys))
	return sb.String()
}

func (m Model) renderPage() string {
	lines := []string{Title.Render(m.truncate(m.Title)), ""}
	container := m.box.Container()
	for _, el := range m.doc.Body.Children() {
		if el == container {
			continue
		}
		lines = append(lines, m.renderElement(el)...)
	}
	return PageFrame.Render(strings.Join(lines, "\n"))
}

func (m Model) renderLightbox() string {
	container := m.box.Container()
	var buttons []string
	var body []string
	for _, el := range container.Children() {
		if el.Focusable() {
			buttons = append(buttons, m.renderButton(el))
			continue
		}
		body = append(body, m.renderElement(el)...)
	}

	var sections []string
	if container.Text != "" {
		sections = append(sections, Title.Render(container.Text))
	}
	if len(body) > 0 {
		sections = append(sections, strings.Join(body, "\n"))
	}
	if len(buttons) > 0 {
		sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top, joinSpaced(buttons)...))
	}
	return Frame.Render(strings.Join(sections, "\n\n"))
}

// renderElement renders el and its descendants, one line per leaf.
func (m Model) renderElement(el *dom.Element) []string {
	if el.Hidden() {
		return nil
	}
	if el.HasAttr("disabled") {
		return []string{MutedText.Render(m.truncate(el.Label()))}
	}
	if el.Focusable() {
		return []string{m.renderButton(el)}
	}
	var lines []string
	if el.Text != "" {
		lines = append(lines, Body.Render(el.Text))
	}
	for _, child := range el.Children() {
		lines = append(lines, m.renderElement(child)...)
	}
	return lines
}

func (m Model) renderButton(el *dom.Element) string {
	style := Button
	if el == m.doc.ActiveElement() {
		style = ButtonFocused
	}
	return style.Render(m.truncate(el.Label()))
}

func (m Model) truncate(s string) string {
	if m.Width <= 0 || lipgloss.Width(s) <= m.Width {
		return s
	}
	return ansi.Truncate(s, m.Width, "...")
}

func joinSpaced(items []string) []string {
	out := make([]string, 0, len(items)*2)
	for i, it := range items {
		if i > 0 {
			out = append(out, " ")
		}
		out = append(out, it)
	}
	return out
}
