// Package normalize turns provider results into the ordered label/body
// sections shown on the result surface.
package normalize

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/tbxark/medassist/action"
	"github.com/tbxark/medassist/types"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// BulletSeparator joins array elements in a section body.
const BulletSeparator = "\n- "

// Sections renders every field of r, in order, as one section.
func Sections(r action.Result) []types.Section {
	fields := Fields(r)
	if fields == nil {
		return nil
	}
	out := make([]types.Section, 0, len(fields))
	for _, f := range fields {
		out = append(out, types.Section{Label: Label(f.Name), Body: Body(f.Value), List: isList(f.Value)})
	}
	return out
}

func isList(v any) bool {
	switch v.(type) {
	case []string, []any:
		return true
	}
	return false
}

// Fields lists the named values of a result in declaration order.
func Fields(r action.Result) []types.Field {
	switch v := r.(type) {
	case action.CodingResult:
		return []types.Field{
			{Name: "icdCodes", Value: v.ICDCodes},
			{Name: "codingRationale", Value: v.CodingRationale},
		}
	case action.AdvisoryResult:
		return []types.Field{
			{Name: "advisory", Value: v.Advisory},
		}
	case action.SuggestionsResult:
		return []types.Field{
			{Name: "treatmentPlanSuggestions", Value: v.TreatmentPlanSuggestions},
			{Name: "supportingEvidence", Value: v.SupportingEvidence},
			{Name: "risksAndBenefits", Value: v.RisksAndBenefits},
		}
	case action.ClaimsResult:
		return []types.Field{
			{Name: "claimsAnalysis", Value: v.ClaimsAnalysis},
		}
	case action.EHRResult:
		return []types.Field{
			{Name: "subjective", Value: v.Subjective},
			{Name: "objective", Value: v.Objective},
			{Name: "assessment", Value: v.Assessment},
			{Name: "plan", Value: v.Plan},
		}
	case action.RawResult:
		return v.Fields
	}
	return nil
}

// Label turns a field name into a header: a space before every capital,
// trimmed and upper-cased. "icdCodes" becomes "ICD CODES".
func Label(name string) string {
	var b strings.Builder
	for _, r := range name {
		if unicode.IsUpper(r) {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return cases.Upper(language.Und).String(strings.TrimSpace(b.String()))
}

// Body renders a field value as display text.
func Body(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []string:
		return strings.Join(val, BulletSeparator)
	case []any:
		items := make([]string, 0, len(val))
		for _, item := range val {
			items = append(items, Body(item))
		}
		return strings.Join(items, BulletSeparator)
	case []types.Field:
		lines := make([]string, 0, len(val))
		for _, f := range val {
			lines = append(lines, fmt.Sprintf("%s: %s", f.Name, Body(f.Value)))
		}
		return strings.Join(lines, "\n")
	default:
		return fmt.Sprint(val)
	}
}
