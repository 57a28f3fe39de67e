package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/marcus/lightbox/internal/action"
	"github.com/marcus/lightbox/internal/history"
	"github.com/marcus/lightbox/internal/output"
	"github.com/marcus/lightbox/pkg/dom"
	"github.com/marcus/lightbox/pkg/lightbox"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const demoContainerID = "lightbox"

const defaultDemoBody = `Press **Esc** to close, or activate the close button.

Focus returns to the button that opened this lightbox.`

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run the interactive lightbox demo",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			err := errors.New("demo requires a terminal")
			output.Error("%v", err)
			return err
		}

		contentPath, _ := cmd.Flags().GetString("content")
		noClose, _ := cmd.Flags().GetBool("no-close-button")

		md := defaultDemoBody
		if contentPath != "" {
			data, err := os.ReadFile(contentPath)
			if err != nil {
				output.Error("read content: %v", err)
				return err
			}
			md = string(data)
		}

		width, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || width <= 0 {
			width = 80
		}
		body, err := renderMarkdown(md, min(width-10, 72))
		if err != nil {
			slog.Warn("render markdown", "err", err)
			body = md
		}

		doc, box, stack, svc := buildDemo(body, !noClose)
		m := lightbox.NewModel(doc, box, svc,
			lightbox.WithTitle("lightbox demo"),
			lightbox.WithBack(stack.Back),
		)

		if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
			output.Error("%v", err)
			return err
		}
		return nil
	},
}

// buildDemo assembles the demo page: a trigger, a decoy button, and the
// lightbox container.
func buildDemo(body string, withCloseButton bool) (*dom.Document, *lightbox.Controller, *history.Stack, *action.Service) {
	doc := dom.NewDocument()

	container := dom.NewElement("div", demoContainerID)
	container.Text = "Lightbox"
	text := dom.NewElement("p", "body")
	text.Text = body
	focusable := dom.NewElement("button", "randomButton")
	focusable.Text = "Something to focus on"
	container.AppendChild(text, focusable)
	if withCloseButton {
		closeBtn := dom.NewElement("button", "closeButton", "on", dom.EventTap+":"+demoContainerID+"."+lightbox.MethodClose)
		closeBtn.Text = "X"
		container.AppendChild(closeBtn)
	}

	opener := dom.NewElement("button", "open", "on", dom.EventTap+":"+demoContainerID+"."+lightbox.MethodOpen)
	opener.Text = "Open lightbox"
	other := dom.NewElement("button", "other")
	other.Text = "Something else"
	doc.Body.AppendChild(container, opener, other)

	stack := history.NewStack()
	opts := []lightbox.Option{
		lightbox.WithLogger(slog.Default()),
		lightbox.WithCloseLabel(cfg.CloseLabel),
		lightbox.WithCloseOnBlur(cfg.CloseOnBlur),
	}
	if cfg.HistoryEnabled() {
		opts = append(opts, lightbox.WithHistory(stack))
	}
	box := lightbox.New(doc, container, opts...)

	svc := action.NewService(doc)
	svc.Register(container, box)
	if err := box.Attach(); err != nil {
		slog.Warn("attach lightbox", "err", err)
	}
	return doc, box, stack, svc
}

// renderMarkdown renders md for the terminal, trimming surrounding blank lines.
func renderMarkdown(md string, width int) (string, error) {
	if width < 20 {
		width = 20
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("markdown renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return strings.Trim(out, "\n"), nil
}

func init() {
	demoCmd.Flags().String("content", "", "markdown file to show inside the lightbox")
	demoCmd.Flags().Bool("no-close-button", false, "omit the close button so one is synthesized on open")
	rootCmd.AddCommand(demoCmd)
}
