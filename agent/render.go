package agent

import (
	"strings"

	"github.com/tbxark/medassist/lifecycle"
)

// RenderState formats the result surface as markdown.
func RenderState(s lifecycle.State) string {
	if !s.Open() {
		return ""
	}
	var b strings.Builder
	b.WriteString("## ")
	b.WriteString(s.Title)
	b.WriteString("\n")
	if s.Busy() {
		b.WriteString("\nWorking on it...\n")
		return b.String()
	}
	for _, sec := range s.Sections {
		b.WriteString("\n### ")
		b.WriteString(sec.Label)
		b.WriteString("\n")
		if sec.Body == "" {
			continue
		}
		if sec.List {
			b.WriteString("- ")
		}
		b.WriteString(sec.Body)
		b.WriteString("\n")
	}
	return b.String()
}
