package clinical

import (
	"fmt"
	"slices"
	"strings"

	"github.com/bytedance/sonic"
	jsonpatch "github.com/evanphx/json-patch/v5"
	"github.com/tbxark/medassist/types"
)

const (
	OpAdd     = "add"
	OpReplace = "replace"
	OpRemove  = "remove"
)

// Edit is a single RFC6902 operation against a ClinicalContext document.
type Edit struct {
	Op    string `json:"op"`
	Path  string `json:"path"`
	Value any    `json:"value,omitempty"`
}

// ApplyEdits returns a copy of current with edits applied. Every edit must
// target an editable path.
func ApplyEdits(current types.ClinicalContext, edits []Edit) (types.ClinicalContext, error) {
	if len(edits) == 0 {
		return current, nil
	}
	if err := checkEditable(edits); err != nil {
		return current, err
	}

	currentJSON, err := sonic.Marshal(current)
	if err != nil {
		return current, fmt.Errorf("failed to marshal clinical context: %w", err)
	}
	edits, err = normalizeEdits(currentJSON, edits)
	if err != nil {
		return current, err
	}
	if len(edits) == 0 {
		return current, nil
	}

	patchJSON, err := sonic.Marshal(edits)
	if err != nil {
		return current, fmt.Errorf("failed to marshal edits: %w", err)
	}
	patch, err := jsonpatch.DecodePatch(patchJSON)
	if err != nil {
		return current, fmt.Errorf("failed to decode patch: %w", err)
	}
	modified, err := patch.Apply(currentJSON)
	if err != nil {
		return current, fmt.Errorf("failed to apply patch: %w", err)
	}

	var next types.ClinicalContext
	if err := sonic.Unmarshal(modified, &next); err != nil {
		return current, fmt.Errorf("edit produced an invalid clinical context: %w", err)
	}
	return next, nil
}

func checkEditable(edits []Edit) error {
	allowed := EditablePaths()
	for i, e := range edits {
		if !slices.Contains(allowed, e.Path) {
			return fmt.Errorf("edit %d: path %q is not editable", i, e.Path)
		}
		switch e.Op {
		case OpAdd, OpReplace:
			if _, ok := e.Value.(string); !ok {
				return fmt.Errorf("edit %d: value for %q must be text", i, e.Path)
			}
		case OpRemove:
		default:
			return fmt.Errorf("edit %d: unsupported op %q", i, e.Op)
		}
	}
	return nil
}

// normalizeEdits turns replace on an absent member into add and drops
// removals of absent members, so form edits never fail on sparse documents.
// Removing a text field resets it to the empty string.
func normalizeEdits(docJSON []byte, edits []Edit) ([]Edit, error) {
	var doc map[string]any
	if err := sonic.Unmarshal(docJSON, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode clinical context: %w", err)
	}
	out := make([]Edit, 0, len(edits))
	for _, e := range edits {
		_, exists := doc[memberName(e.Path)]
		switch e.Op {
		case OpReplace:
			if !exists {
				e.Op = OpAdd
			}
		case OpRemove:
			if !exists {
				continue
			}
			e = Edit{Op: OpReplace, Path: e.Path, Value: ""}
		}
		out = append(out, e)
	}
	return out, nil
}

func memberName(pointer string) string {
	token := strings.TrimPrefix(pointer, "/")
	token = strings.ReplaceAll(token, "~1", "/")
	return strings.ReplaceAll(token, "~0", "~")
}

// Overlay computes the edits that copy every non-empty editable field of
// overlay onto base.
func Overlay(base, overlay types.ClinicalContext) []Edit {
	pairs := []struct {
		path      string
		old, next string
	}{
		{"/chiefComplaint", base.ChiefComplaint, overlay.ChiefComplaint},
		{"/treatmentPlan", base.TreatmentPlan, overlay.TreatmentPlan},
		{"/supportingNotes", base.SupportingNotes, overlay.SupportingNotes},
		{"/medications", base.Medications, overlay.Medications},
		{"/icdCodes", base.ICDCodes, overlay.ICDCodes},
		{"/investigations", base.Investigations, overlay.Investigations},
	}
	var edits []Edit
	for _, p := range pairs {
		if p.next == "" || p.next == p.old {
			continue
		}
		edits = append(edits, Edit{Op: OpReplace, Path: p.path, Value: p.next})
	}
	return edits
}
