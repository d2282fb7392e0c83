package clinical

import (
	"fmt"
	"os"

	"github.com/tbxark/medassist/types"
	"gopkg.in/yaml.v3"
)

// LoadFile reads an encounter from YAML and overlays its editable fields on
// the demonstration record. Demographics and vitals in the file replace the
// demo values when present.
func LoadFile(path string) (types.ClinicalContext, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.ClinicalContext{}, fmt.Errorf("read clinical context: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (types.ClinicalContext, error) {
	var file types.ClinicalContext
	if err := yaml.Unmarshal(data, &file); err != nil {
		return types.ClinicalContext{}, fmt.Errorf("parse clinical context: %w", err)
	}

	base := Demo()
	if file.PatientDetails != "" {
		base.PatientDetails = file.PatientDetails
	}
	if file.Vitals != (types.Vitals{}) {
		base.Vitals = file.Vitals
	}
	out, err := ApplyEdits(base, Overlay(base, file))
	if err != nil {
		return types.ClinicalContext{}, fmt.Errorf("overlay clinical context: %w", err)
	}
	return out, nil
}
