package gate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tbxark/medassist/types"
)

func TestCanDispatch(t *testing.T) {
	tests := []struct {
		name string
		in   types.ClinicalContext
		want bool
	}{
		{"empty", types.ClinicalContext{}, false},
		{"whitespace", types.ClinicalContext{ChiefComplaint: " \n "}, false},
		{"only optional fields", types.ClinicalContext{
			TreatmentPlan:   "rest",
			SupportingNotes: "notes",
			Medications:     "none",
			ICDCodes:        "I10",
			Investigations:  "ECG",
		}, false},
		{"chief complaint only", types.ClinicalContext{ChiefComplaint: "dizziness"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanDispatch(tt.in))
		})
	}
}

func TestCheckReturnsValidationError(t *testing.T) {
	err := Check(types.ClinicalContext{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	require.Len(t, verr.Fields, 1)
	assert.Equal(t, "/chiefComplaint", verr.Fields[0].JSONPointer)
	assert.Contains(t, verr.Error(), "Chief Complaint")
	assert.Equal(t, "Chief complaint is required before running AI actions.", verr.Message())
}

func TestValidationErrorFallbackMessage(t *testing.T) {
	err := &ValidationError{Fields: []types.FieldInfo{{DisplayName: "X"}}}
	assert.Equal(t, "Please complete the required fields before running AI actions.", err.Message())
}
