package action

import (
	"errors"
	"fmt"
	"strings"
)

type Kind string

const (
	KindCoding      Kind = "coding"
	KindAdvisory    Kind = "advisory"
	KindSuggestions Kind = "suggestions"
	KindClaims      Kind = "claims"
	KindEHR         Kind = "ehr"
)

var ErrUnknownKind = errors.New("unknown action kind")

func Kinds() []Kind {
	return []Kind{KindCoding, KindAdvisory, KindSuggestions, KindClaims, KindEHR}
}

func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if !k.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
	return k, nil
}

func (k Kind) Valid() bool {
	switch k {
	case KindCoding, KindAdvisory, KindSuggestions, KindClaims, KindEHR:
		return true
	}
	return false
}

// DisplayName is the fixed title of the result surface for the action.
func (k Kind) DisplayName() string {
	switch k {
	case KindCoding:
		return "AI Coding Assistance"
	case KindAdvisory:
		return "AI Clinical Advisory"
	case KindSuggestions:
		return "AI Treatment Suggestions"
	case KindClaims:
		return "Claims Analysis"
	case KindEHR:
		return "Generated EHR Draft"
	}
	return string(k)
}
