package action

import (
	"fmt"
	"strings"

	"github.com/tbxark/medassist/types"
)

const (
	PlaceholderNone         = "None"
	PlaceholderNotSpecified = "Not specified"
)

// Request is the payload of one dispatch. The set of implementations is
// closed; each kind has exactly one payload type.
type Request interface {
	Kind() Kind
	// Fields lists the payload values in declaration order.
	Fields() []types.Field
	isRequest()
}

type CodingPayload struct {
	PatientDetails  string       `json:"patientDetails"`
	ChiefComplaint  string       `json:"chiefComplaint"`
	Vitals          types.Vitals `json:"vitals"`
	Investigations  string       `json:"investigations"`
	TreatmentPlan   string       `json:"treatmentPlan"`
	SupportingNotes string       `json:"supportingNotes"`
}

type AdvisoryPayload struct {
	PatientDetails  string       `json:"patientDetails"`
	ChiefComplaint  string       `json:"chiefComplaint"`
	Vitals          types.Vitals `json:"vitals"`
	Medications     string       `json:"medications"`
	TreatmentPlan   string       `json:"treatmentPlan"`
	SupportingNotes string       `json:"supportingNotes"`
}

type SuggestionsPayload struct {
	PatientDetails  string       `json:"patientDetails"`
	ChiefComplaint  string       `json:"chiefComplaint"`
	Vitals          types.Vitals `json:"vitals"`
	Investigations  string       `json:"investigations"`
	ICDCodes        string       `json:"icdCodes"`
	Medications     string       `json:"medications"`
	SupportingNotes string       `json:"supportingNotes"`
}

// ClaimsPayload carries nothing: claims analysis is answered locally.
type ClaimsPayload struct{}

type EHRPayload struct {
	PatientDetails  string       `json:"patientDetails"`
	ChiefComplaint  string       `json:"chiefComplaint"`
	Vitals          types.Vitals `json:"vitals"`
	TreatmentPlan   string       `json:"treatmentPlan"`
	SupportingNotes string       `json:"supportingNotes"`
	Medications     string       `json:"medications"`
	ICDCodes        string       `json:"icdCodes"`
	Investigations  string       `json:"investigations"`
}

func (CodingPayload) Kind() Kind      { return KindCoding }
func (AdvisoryPayload) Kind() Kind    { return KindAdvisory }
func (SuggestionsPayload) Kind() Kind { return KindSuggestions }
func (ClaimsPayload) Kind() Kind      { return KindClaims }
func (EHRPayload) Kind() Kind         { return KindEHR }

func (CodingPayload) isRequest()      {}
func (AdvisoryPayload) isRequest()    {}
func (SuggestionsPayload) isRequest() {}
func (ClaimsPayload) isRequest()      {}
func (EHRPayload) isRequest()         {}

func (p CodingPayload) Fields() []types.Field {
	return []types.Field{
		{Name: "patientDetails", Value: p.PatientDetails},
		{Name: "chiefComplaint", Value: p.ChiefComplaint},
		{Name: "vitals", Value: p.Vitals},
		{Name: "investigations", Value: p.Investigations},
		{Name: "treatmentPlan", Value: p.TreatmentPlan},
		{Name: "supportingNotes", Value: p.SupportingNotes},
	}
}

func (p AdvisoryPayload) Fields() []types.Field {
	return []types.Field{
		{Name: "patientDetails", Value: p.PatientDetails},
		{Name: "chiefComplaint", Value: p.ChiefComplaint},
		{Name: "vitals", Value: p.Vitals},
		{Name: "medications", Value: p.Medications},
		{Name: "treatmentPlan", Value: p.TreatmentPlan},
		{Name: "supportingNotes", Value: p.SupportingNotes},
	}
}

func (p SuggestionsPayload) Fields() []types.Field {
	return []types.Field{
		{Name: "patientDetails", Value: p.PatientDetails},
		{Name: "chiefComplaint", Value: p.ChiefComplaint},
		{Name: "vitals", Value: p.Vitals},
		{Name: "investigations", Value: p.Investigations},
		{Name: "icdCodes", Value: p.ICDCodes},
		{Name: "medications", Value: p.Medications},
		{Name: "supportingNotes", Value: p.SupportingNotes},
	}
}

func (ClaimsPayload) Fields() []types.Field {
	return nil
}

func (p EHRPayload) Fields() []types.Field {
	return []types.Field{
		{Name: "patientDetails", Value: p.PatientDetails},
		{Name: "chiefComplaint", Value: p.ChiefComplaint},
		{Name: "vitals", Value: p.Vitals},
		{Name: "treatmentPlan", Value: p.TreatmentPlan},
		{Name: "supportingNotes", Value: p.SupportingNotes},
		{Name: "medications", Value: p.Medications},
		{Name: "icdCodes", Value: p.ICDCodes},
		{Name: "investigations", Value: p.Investigations},
	}
}

// Build maps an action kind to its payload. It is a pure function of its
// inputs; empty optional fields are replaced with a descriptive placeholder.
func Build(kind Kind, c types.ClinicalContext) (Request, error) {
	patient := orPlaceholder(c.PatientDetails, PlaceholderNotSpecified)
	complaint := strings.TrimSpace(c.ChiefComplaint)

	switch kind {
	case KindCoding:
		return CodingPayload{
			PatientDetails:  patient,
			ChiefComplaint:  complaint,
			Vitals:          c.Vitals,
			Investigations:  orPlaceholder(c.Investigations, PlaceholderNone),
			TreatmentPlan:   orPlaceholder(c.TreatmentPlan, PlaceholderNotSpecified),
			SupportingNotes: orPlaceholder(c.SupportingNotes, PlaceholderNotSpecified),
		}, nil
	case KindAdvisory:
		return AdvisoryPayload{
			PatientDetails:  patient,
			ChiefComplaint:  complaint,
			Vitals:          c.Vitals,
			Medications:     orPlaceholder(c.Medications, PlaceholderNone),
			TreatmentPlan:   orPlaceholder(c.TreatmentPlan, PlaceholderNotSpecified),
			SupportingNotes: orPlaceholder(c.SupportingNotes, PlaceholderNotSpecified),
		}, nil
	case KindSuggestions:
		return SuggestionsPayload{
			PatientDetails:  patient,
			ChiefComplaint:  complaint,
			Vitals:          c.Vitals,
			Investigations:  orPlaceholder(c.Investigations, PlaceholderNone),
			ICDCodes:        orPlaceholder(c.ICDCodes, PlaceholderNone),
			Medications:     orPlaceholder(c.Medications, PlaceholderNone),
			SupportingNotes: orPlaceholder(c.SupportingNotes, PlaceholderNotSpecified),
		}, nil
	case KindClaims:
		return ClaimsPayload{}, nil
	case KindEHR:
		return EHRPayload{
			PatientDetails:  patient,
			ChiefComplaint:  complaint,
			Vitals:          c.Vitals,
			TreatmentPlan:   orPlaceholder(c.TreatmentPlan, PlaceholderNotSpecified),
			SupportingNotes: orPlaceholder(c.SupportingNotes, PlaceholderNotSpecified),
			Medications:     orPlaceholder(c.Medications, PlaceholderNone),
			ICDCodes:        orPlaceholder(c.ICDCodes, PlaceholderNone),
			Investigations:  orPlaceholder(c.Investigations, PlaceholderNone),
		}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
}

func orPlaceholder(s, placeholder string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return placeholder
	}
	return s
}
