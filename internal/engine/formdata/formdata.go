// Package formdata validates submitted answers against a template's active fields.
package formdata

import (
	"fmt"

	"contract-workers/internal/engine/fields"
	"contract-workers/internal/models"
)

// FieldError is scoped to one field so callers can show it next to its control.
type FieldError struct {
	FieldID string      `json:"fieldId"`
	Code    fields.Code `json:"code"`
	Message string      `json:"message"`
	Value   string      `json:"value,omitempty"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.FieldID, e.Message)
}

type Result struct {
	Valid  bool         `json:"valid"`
	Errors []FieldError `json:"errors"`
}

// ValidateFormData checks required answers and answer types for every active
// field. Fields of disabled clauses and answers for unknown ids are ignored.
// At most one error is reported per field, in active-field order.
func ValidateFormData(tmpl *models.Template, data models.FormData) Result {
	errs := []FieldError{}

	for _, f := range fields.Active(tmpl, data) {
		if fe, ok := checkField(f, data.Values); !ok {
			errs = append(errs, fe)
		}
	}
	return Result{Valid: len(errs) == 0, Errors: errs}
}

func checkField(f models.Field, values map[string]interface{}) (FieldError, bool) {
	answer, present, scalar := fields.Answer(values, f.ID)

	if !scalar {
		return FieldError{
			FieldID: f.ID,
			Code:    fields.CodeInvalidValue,
			Message: fmt.Sprintf("%s must be a single value", label(f)),
		}, false
	}
	if !present {
		if f.Required {
			return FieldError{
				FieldID: f.ID,
				Code:    fields.CodeMissingRequired,
				Message: fmt.Sprintf("%s is required", label(f)),
			}, false
		}
		return FieldError{}, true
	}

	rule, ok := fields.RuleFor(f.Type)
	if !ok {
		// Unknown types are a structure problem and are rejected at save time.
		return FieldError{}, true
	}

	code := rule.Check(f, answer)
	if code == "" {
		return FieldError{}, true
	}

	fe := FieldError{FieldID: f.ID, Code: code, Message: message(f, code)}
	if code == fields.CodeInvalidOption {
		fe.Value = answer
	}
	return fe, false
}

func message(f models.Field, code fields.Code) string {
	switch code {
	case fields.CodeInvalidEmail:
		return fmt.Sprintf("%s must be a valid email address", label(f))
	case fields.CodeInvalidNumber:
		return fmt.Sprintf("%s must be a number", label(f))
	case fields.CodeInvalidDate:
		return fmt.Sprintf("%s must be a date in YYYY-MM-DD form", label(f))
	case fields.CodeInvalidOption:
		return fmt.Sprintf("%s must be one of the listed options", label(f))
	}
	return fmt.Sprintf("%s is invalid", label(f))
}

func label(f models.Field) string {
	if f.Label != "" {
		return f.Label
	}
	return f.ID
}
