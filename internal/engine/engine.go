// Package engine composes the template pipeline: structure check, answer
// validation, content rendering and output generation. Every function is pure
// and safe for concurrent use.
package engine

import (
	"errors"
	"fmt"

	"contract-workers/internal/engine/content"
	"contract-workers/internal/engine/formdata"
	"contract-workers/internal/engine/output"
	"contract-workers/internal/engine/structure"
	"contract-workers/internal/models"
)

var (
	ErrTemplateInvalid = errors.New("TEMPLATE_STRUCTURE_INVALID")
	ErrFormDataInvalid = errors.New("FORM_DATA_INVALID")
)

// TemplateError carries the full structural error list of a rejected template.
type TemplateError struct {
	Errors []structure.Error
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("%s: %d structural error(s)", ErrTemplateInvalid, len(e.Errors))
}

func (e *TemplateError) Unwrap() error { return ErrTemplateInvalid }

// FormDataError carries every field error of a rejected submission.
type FormDataError struct {
	Errors []formdata.FieldError
}

func (e *FormDataError) Error() string {
	return fmt.Sprintf("%s: %d field error(s)", ErrFormDataInvalid, len(e.Errors))
}

func (e *FormDataError) Unwrap() error { return ErrFormDataInvalid }

// ValidateTemplate returns a *TemplateError when tmpl is not internally consistent.
func ValidateTemplate(tmpl *models.Template) error {
	res := structure.ValidateTemplateStructure(tmpl)
	if !res.Valid {
		return &TemplateError{Errors: res.Errors}
	}
	return nil
}

// Render validates data and, only when it is valid, produces the contract.
// Invalid answers yield a *FormDataError and no output at all.
func Render(tmpl *models.Template, data models.FormData) (*models.RenderedContract, error) {
	res := formdata.ValidateFormData(tmpl, data)
	if !res.Valid {
		return nil, &FormDataError{Errors: res.Errors}
	}
	out := Preview(tmpl, data)
	return &out, nil
}

// Preview renders without validating, for live previews of partial answers.
func Preview(tmpl *models.Template, data models.FormData) models.RenderedContract {
	doc := content.RenderTemplateContent(tmpl, data)
	return models.RenderedContract{
		Title: doc.Title,
		HTML:  output.GenerateHTML(doc.Title, doc.Sections),
		Text:  output.GenerateText(doc.Title, doc.Sections),
	}
}
