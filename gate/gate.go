// Package gate decides whether a clinical context may be sent to any AI action.
package gate

import (
	"errors"
	"strings"

	"github.com/tbxark/medassist/clinical"
	"github.com/tbxark/medassist/types"
)

var ErrValidation = errors.New("clinical context failed validation")

// ValidationError lists the required fields that blocked a dispatch.
type ValidationError struct {
	Fields []types.FieldInfo
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		names = append(names, f.DisplayName)
	}
	return ErrValidation.Error() + ": missing " + strings.Join(names, ", ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// Message is the text shown to the user when dispatch is blocked.
func (e *ValidationError) Message() string {
	for _, f := range e.Fields {
		if f.Description != "" {
			return f.Description
		}
	}
	return "Please complete the required fields before running AI actions."
}

// Check returns a *ValidationError when a required field is missing.
func Check(c types.ClinicalContext) error {
	missing := clinical.MissingFacts(c)
	if len(missing) == 0 {
		return nil
	}
	return &ValidationError{Fields: missing}
}

// CanDispatch fails closed: any missing required field blocks the dispatch.
func CanDispatch(c types.ClinicalContext) bool {
	return Check(c) == nil
}
