package types

import "fmt"

// Vitals are demonstration values sourced with the patient record. They are
// read-only inside the action pipeline.
type Vitals struct {
	TemperatureF  float64 `json:"temperatureF" yaml:"temperatureF" jsonschema:"description=Body temperature in Fahrenheit"`
	HeartRateBPM  int     `json:"heartRateBpm" yaml:"heartRateBpm" jsonschema:"description=Heart rate in beats per minute"`
	WeightKg      float64 `json:"weightKg" yaml:"weightKg" jsonschema:"description=Weight in kilograms"`
	HeightCm      float64 `json:"heightCm" yaml:"heightCm" jsonschema:"description=Height in centimetres"`
	BloodPressure string  `json:"bloodPressure" yaml:"bloodPressure" jsonschema:"description=Blood pressure as systolic/diastolic mmHg"`
}

func (v Vitals) String() string {
	return fmt.Sprintf("Temperature %.1f F, heart rate %d bpm, weight %.1f kg, height %.1f cm, blood pressure %s",
		v.TemperatureF, v.HeartRateBPM, v.WeightKg, v.HeightCm, v.BloodPressure)
}

// ClinicalContext is the form data every action payload is built from.
type ClinicalContext struct {
	PatientDetails  string `json:"patientDetails" yaml:"patientDetails" jsonschema:"description=Demographic summary of the patient"`
	Vitals          Vitals `json:"vitals" yaml:"vitals" jsonschema:"description=Recorded vitals"`
	ChiefComplaint  string `json:"chiefComplaint" yaml:"chiefComplaint" jsonschema:"required,description=Reason for the visit"`
	TreatmentPlan   string `json:"treatmentPlan" yaml:"treatmentPlan" jsonschema:"description=Planned treatment"`
	SupportingNotes string `json:"supportingNotes" yaml:"supportingNotes" jsonschema:"description=Free-text clinical notes"`
	Medications     string `json:"medications" yaml:"medications" jsonschema:"description=Current medications"`
	ICDCodes        string `json:"icdCodes" yaml:"icdCodes" jsonschema:"description=Already assigned ICD-10 codes"`
	Investigations  string `json:"investigations" yaml:"investigations" jsonschema:"description=Ordered or completed investigations"`
}

type FieldInfo struct {
	JSONPointer string `json:"json_pointer"`
	DisplayName string `json:"display_name"`
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required"`
}

// Field is one named value of a payload or result, in declaration order.
// Value holds a string, a []string or, for decoded provider output, any JSON value.
type Field struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

// Section is one labeled block of the result surface.
type Section struct {
	Label string `json:"label"`
	Body  string `json:"body"`
	// List is set when Body joins array elements with "\n- ".
	List bool `json:"list,omitempty"`
}

type NotificationLevel string

const (
	NotificationValidation NotificationLevel = "validation"
	NotificationFailure    NotificationLevel = "failure"
)

type Notification struct {
	Level   NotificationLevel `json:"level"`
	Kind    string            `json:"kind,omitempty"`
	Message string            `json:"message"`
}
