package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/tbxark/medassist/lifecycle"
	"github.com/tbxark/medassist/notify"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	labelStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	bodyStyle  = lipgloss.NewStyle().PaddingLeft(2)
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))

	progressStyle = lipgloss.NewStyle().Faint(true)
)

func renderState(w io.Writer, s lifecycle.State) error {
	var b strings.Builder
	b.WriteString(titleStyle.Render(s.Title))
	b.WriteString("\n")
	for _, sec := range s.Sections {
		b.WriteString("\n")
		b.WriteString(labelStyle.Render(sec.Label))
		b.WriteString("\n")
		body := sec.Body
		if sec.List && body != "" {
			body = "- " + body
		}
		if body != "" {
			b.WriteString(bodyStyle.Render(body))
			b.WriteString("\n")
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func renderWarning(w io.Writer, msg string) {
	fmt.Fprintln(w, warnStyle.Render(msg))
}

func renderProgress(w io.Writer, title string) {
	fmt.Fprintln(w, progressStyle.Render(fmt.Sprintf("Running %s...", title)))
}

// drainNotices prints every buffered notification without waiting for more.
func drainNotices(w io.Writer, notices *notify.Channel) {
	for {
		select {
		case n := <-notices.C():
			renderWarning(w, n.Message)
		default:
			if dropped := notices.Dropped(); dropped > 0 {
				slog.Debug("Notifications dropped", "count", dropped)
			}
			return
		}
	}
}
