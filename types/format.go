package types

import (
	"fmt"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
)

func formatFieldsTable(title string, fields []Field) string {
	if len(fields) == 0 {
		return ""
	}
	var buf strings.Builder
	buf.WriteString(fmt.Sprintf("# %s:\n", title))
	table := tablewriter.NewTable(&buf, tablewriter.WithRenderer(renderer.NewMarkdown()))
	table.Header("Field", "Value")
	for _, field := range fields {
		_ = table.Append(field.Name, formatValue(field.Value))
	}
	_ = table.Render()
	return buf.String()
}

func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.ReplaceAll(val, "\n", " ")
	case []string:
		return strings.Join(val, "; ")
	default:
		return fmt.Sprint(val)
	}
}

// PromptInput is what a provider prompt is rendered from.
type PromptInput struct {
	Action      string
	Fields      []Field
	PayloadJSON string
}

// FormatPrompt renders the user message sent to a generative provider.
func FormatPrompt(in PromptInput) string {
	sections := []string{
		fmt.Sprintf("# Current Date:\n%s", time.Now().Format(time.DateOnly)),
	}
	if in.Action != "" {
		sections = append(sections, fmt.Sprintf("# Requested action:\n%s", in.Action))
	}
	if s := formatFieldsTable("Clinical data", in.Fields); s != "" {
		sections = append(sections, s)
	}
	if in.PayloadJSON != "" {
		sections = append(sections, fmt.Sprintf("# Payload JSON:\n```json\n%s\n```", in.PayloadJSON))
	}
	return strings.Join(sections, "\n\n")
}
