// internal/workers/contract/validate-form-data/models.go
package validateformdata

import (
	"contract-workers/internal/engine/formdata"
	"contract-workers/internal/models"
)

type Input struct {
	TemplateID string          `json:"templateId"`
	FormData   models.FormData `json:"formData"`
}

type Output struct {
	Valid      bool                  `json:"valid"`
	Errors     []formdata.FieldError `json:"errors"`
	ErrorCount int                   `json:"errorCount"`
}

const inputSchema = `{
  "type": "object",
  "required": ["templateId", "formData"],
  "properties": {
    "templateId": {"type": "string", "minLength": 1},
    "formData": {"type": "object"}
  }
}`
