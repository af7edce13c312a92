// internal/workers/contract/preview-contract/models.go
package previewcontract

import "contract-workers/internal/models"

// Input previews a stored template, or an inline draft from the template editor.
type Input struct {
	TemplateID string           `json:"templateId,omitempty"`
	Template   *models.Template `json:"template,omitempty"`
	FormData   models.FormData  `json:"formData"`
}

type Output struct {
	Title string `json:"title"`
	HTML  string `json:"html"`
	Text  string `json:"text"`
}

const inputSchema = `{
  "type": "object",
  "anyOf": [
    {"required": ["templateId"]},
    {"required": ["template"]}
  ],
  "properties": {
    "templateId": {"type": "string", "minLength": 1},
    "template": {"type": "object", "required": ["content"]},
    "formData": {"type": "object"}
  }
}`
