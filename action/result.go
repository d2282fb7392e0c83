package action

import "github.com/tbxark/medassist/types"

// Result is what a provider returns for one dispatch. Like Request, the set
// of implementations is closed.
type Result interface {
	Kind() Kind
	isResult()
}

type CodingResult struct {
	ICDCodes        []string `json:"icdCodes" jsonschema:"required,description=Suggested ICD-10 codes with short titles"`
	CodingRationale string   `json:"codingRationale" jsonschema:"required,description=Why the codes fit the documented findings"`
}

type AdvisoryResult struct {
	Advisory string `json:"advisory" jsonschema:"required,description=Concise clinical advisory for the physician"`
}

type SuggestionsResult struct {
	TreatmentPlanSuggestions []string `json:"treatmentPlanSuggestions" jsonschema:"required,description=Suggested treatment plan items"`
	SupportingEvidence       string   `json:"supportingEvidence" jsonschema:"required,description=Evidence and guidelines supporting the suggestions"`
	RisksAndBenefits         string   `json:"risksAndBenefits" jsonschema:"required,description=Risks and benefits of the suggested plan"`
}

type ClaimsResult struct {
	ClaimsAnalysis string `json:"claimsAnalysis"`
}

// EHRResult is a SOAP-structured draft note.
type EHRResult struct {
	Subjective string `json:"subjective" jsonschema:"required,description=Subjective section of the note"`
	Objective  string `json:"objective" jsonschema:"required,description=Objective findings including vitals"`
	Assessment string `json:"assessment" jsonschema:"required,description=Clinical assessment"`
	Plan       string `json:"plan" jsonschema:"required,description=Management plan"`
}

// RawResult is a provider result of unknown shape, kept in field order.
type RawResult struct {
	Action Kind
	Fields []types.Field
}

func (CodingResult) Kind() Kind      { return KindCoding }
func (AdvisoryResult) Kind() Kind    { return KindAdvisory }
func (SuggestionsResult) Kind() Kind { return KindSuggestions }
func (ClaimsResult) Kind() Kind      { return KindClaims }
func (EHRResult) Kind() Kind         { return KindEHR }
func (r RawResult) Kind() Kind       { return r.Action }

func (CodingResult) isResult()      {}
func (AdvisoryResult) isResult()    {}
func (SuggestionsResult) isResult() {}
func (ClaimsResult) isResult()      {}
func (EHRResult) isResult()         {}
func (RawResult) isResult()         {}
