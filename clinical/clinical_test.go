package clinical

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tbxark/medassist/types"
)

func TestMissingFacts(t *testing.T) {
	assert.Len(t, MissingFacts(types.ClinicalContext{}), 1)
	assert.Len(t, MissingFacts(types.ClinicalContext{ChiefComplaint: "  \t"}), 1)
	assert.Empty(t, MissingFacts(types.ClinicalContext{ChiefComplaint: "cough"}))

	missing := MissingFacts(types.ClinicalContext{TreatmentPlan: "rest"})
	require.Len(t, missing, 1)
	assert.Equal(t, "/chiefComplaint", missing[0].JSONPointer)
	assert.True(t, missing[0].Required)
}

func TestApplyEdits(t *testing.T) {
	base := Demo()
	next, err := ApplyEdits(base, []Edit{
		{Op: OpReplace, Path: "/chiefComplaint", Value: "chest pain"},
		{Op: OpAdd, Path: "/medications", Value: "amlodipine 5mg"},
	})
	require.NoError(t, err)
	assert.Equal(t, "chest pain", next.ChiefComplaint)
	assert.Equal(t, "amlodipine 5mg", next.Medications)
	assert.Equal(t, base.Vitals, next.Vitals)
	assert.Empty(t, base.ChiefComplaint, "input must not be mutated")
}

func TestApplyEditsRemoveClearsField(t *testing.T) {
	base := Demo()
	base.Investigations = "ECG"
	next, err := ApplyEdits(base, []Edit{{Op: OpRemove, Path: "/investigations"}})
	require.NoError(t, err)
	assert.Empty(t, next.Investigations)
}

func TestApplyEditsRejectsFixedFields(t *testing.T) {
	cases := []Edit{
		{Op: OpReplace, Path: "/patientDetails", Value: "someone else"},
		{Op: OpReplace, Path: "/vitals/heartRateBpm", Value: "120"},
		{Op: "move", Path: "/chiefComplaint"},
		{Op: OpReplace, Path: "/chiefComplaint", Value: 42},
	}
	for _, e := range cases {
		_, err := ApplyEdits(Demo(), []Edit{e})
		assert.Error(t, err, "%s %s", e.Op, e.Path)
	}
}

func TestOverlay(t *testing.T) {
	base := types.ClinicalContext{ChiefComplaint: "cough", Medications: "none"}
	edits := Overlay(base, types.ClinicalContext{
		ChiefComplaint: "cough",
		Medications:    "salbutamol",
		TreatmentPlan:  "inhaler",
	})
	assert.Equal(t, []Edit{
		{Op: OpReplace, Path: "/treatmentPlan", Value: "inhaler"},
		{Op: OpReplace, Path: "/medications", Value: "salbutamol"},
	}, edits)
}

func TestStoreRoutesByEncounter(t *testing.T) {
	store := NewMemoryStore()
	a := WithEncounterKey(context.Background(), "a")
	b := WithEncounterKey(context.Background(), "b")

	_, err := store.Apply(a, []Edit{{Op: OpReplace, Path: "/chiefComplaint", Value: "fever"}})
	require.NoError(t, err)

	got, err := store.Snapshot(a)
	require.NoError(t, err)
	assert.Equal(t, "fever", got.ChiefComplaint)

	other, err := store.Snapshot(b)
	require.NoError(t, err)
	assert.Equal(t, Demo(), other)

	require.NoError(t, store.Reset(a))
	got, err = store.Snapshot(a)
	require.NoError(t, err)
	assert.Empty(t, got.ChiefComplaint)
}

func TestStoreApplyKeepsStateOnError(t *testing.T) {
	store := NewMemoryStore(WithInitial(func(context.Context) types.ClinicalContext {
		return types.ClinicalContext{ChiefComplaint: "headache"}
	}))
	ctx := context.Background()
	_, err := store.Apply(ctx, []Edit{{Op: OpReplace, Path: "/vitals", Value: "x"}})
	require.Error(t, err)

	got, err := store.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, "headache", got.ChiefComplaint)
}

func TestParse(t *testing.T) {
	c, err := Parse([]byte(`
chiefComplaint: Chest pain radiating to left arm
medications: Aspirin 81mg
vitals:
  temperatureF: 99.1
  heartRateBpm: 102
  weightKg: 90
  heightCm: 180
  bloodPressure: 150/95
`))
	require.NoError(t, err)
	assert.Equal(t, "Chest pain radiating to left arm", c.ChiefComplaint)
	assert.Equal(t, "Aspirin 81mg", c.Medications)
	assert.Equal(t, 102, c.Vitals.HeartRateBPM)
	assert.Equal(t, Demo().PatientDetails, c.PatientDetails)
}

func TestParseInvalid(t *testing.T) {
	_, err := Parse([]byte("chiefComplaint: [unterminated"))
	assert.Error(t, err)
}

func TestJSONSchema(t *testing.T) {
	s, err := JSONSchema()
	require.NoError(t, err)
	assert.True(t, strings.Contains(s, "chiefComplaint"))
	assert.True(t, strings.Contains(s, "Clinical context"))
}
