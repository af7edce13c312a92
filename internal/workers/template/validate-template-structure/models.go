// internal/workers/template/validate-template-structure/models.go
package validatetemplatestructure

import (
	"contract-workers/internal/engine/structure"
	"contract-workers/internal/models"
)

// Input carries either an inline template (editor draft) or the id of a stored one.
type Input struct {
	Template   *models.Template `json:"template,omitempty"`
	TemplateID string           `json:"templateId,omitempty"`
}

type Output struct {
	Valid      bool              `json:"valid"`
	Errors     []structure.Error `json:"errors"`
	ErrorCount int               `json:"errorCount"`
}

const inputSchema = `{
  "type": "object",
  "anyOf": [
    {"required": ["template"]},
    {"required": ["templateId"]}
  ],
  "properties": {
    "template": {
      "type": "object",
      "required": ["content"],
      "properties": {
        "content": {"type": "object"},
        "fields": {"type": ["array", "null"]},
        "optionalClauses": {"type": ["array", "null"]}
      }
    },
    "templateId": {"type": "string", "minLength": 1}
  }
}`
