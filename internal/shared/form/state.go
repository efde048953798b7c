package form

import (
	apperrors "calisthenics-ai/internal/shared/errors"
)

// State is the JSON body returned by form actions.
type State struct {
	Errors  map[string][]string `json:"errors,omitempty"`
	Message string              `json:"message,omitempty"`
	Success bool                `json:"success,omitempty"`
}

// Invalid builds the state for a submission that failed validation.
func Invalid(ve *apperrors.ValidationErrors, message string) State {
	return State{Errors: ve.Fields(), Message: message}
}

// Failed builds the state for a submission rejected after validation, with
// the reasons listed under the form key.
func Failed(message string, reasons ...string) State {
	st := State{Message: message}
	if len(reasons) > 0 {
		st.Errors = map[string][]string{apperrors.FormKey: reasons}
	}
	return st
}

// Succeeded builds a success state.
func Succeeded(message string) State {
	return State{Message: message, Success: true}
}
