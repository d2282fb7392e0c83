package clinical

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/eino-contrib/jsonschema"
	"github.com/tbxark/medassist/types"
)

// EditablePaths lists the JSON pointers the form layer may change.
// Demographics and vitals are sourced externally and stay fixed.
func EditablePaths() []string {
	return []string{
		"/chiefComplaint",
		"/treatmentPlan",
		"/supportingNotes",
		"/medications",
		"/icdCodes",
		"/investigations",
	}
}

// MissingFacts reports required fields that are empty. Only the chief
// complaint is mandatory.
func MissingFacts(current types.ClinicalContext) []types.FieldInfo {
	var missing []types.FieldInfo
	if strings.TrimSpace(current.ChiefComplaint) == "" {
		missing = append(missing, types.FieldInfo{
			JSONPointer: "/chiefComplaint",
			DisplayName: "Chief Complaint",
			Description: "Chief complaint is required before running AI actions.",
			Required:    true,
		})
	}
	return missing
}

func JSONSchema() (string, error) {
	schema := jsonschema.Reflect(&types.ClinicalContext{})
	schema.Title = "Clinical context"
	schema.Description = "Patient encounter data used to build AI action payloads."
	schemaBytes, err := json.Marshal(schema)
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON schema: %w", err)
	}
	return string(schemaBytes), nil
}

// Demo returns the fixed demonstration record used when no encounter data
// has been loaded. Only demographics and vitals are set, so the record does
// not pass the gate until a chief complaint is entered.
func Demo() types.ClinicalContext {
	return types.ClinicalContext{
		PatientDetails: "John Doe, 58-year-old male, MRN 00012345. Known hypertension, non-smoker.",
		Vitals: types.Vitals{
			TemperatureF:  98.6,
			HeartRateBPM:  88,
			WeightKg:      82,
			HeightCm:      175,
			BloodPressure: "148/92",
		},
	}
}
