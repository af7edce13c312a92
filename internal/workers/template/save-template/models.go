// internal/workers/template/save-template/models.go
package savetemplate

import "contract-workers/internal/models"

type Input struct {
	Template models.Template `json:"template"`
}

// Output echoes the generated ids so the caller can keep editing the same rows.
type Output struct {
	TemplateID string   `json:"templateId"`
	Version    int      `json:"version"`
	SectionIDs []string `json:"sectionIds"`
	ClauseIDs  []string `json:"clauseIds"`
}

const inputSchema = `{
  "type": "object",
  "required": ["template"],
  "properties": {
    "template": {
      "type": "object",
      "required": ["name", "content"],
      "properties": {
        "id": {"type": "string"},
        "name": {"type": "string", "minLength": 1},
        "content": {
          "type": "object",
          "required": ["title", "sections"],
          "properties": {
            "title": {"type": "string"},
            "sections": {"type": "array"}
          }
        },
        "fields": {"type": ["array", "null"]},
        "optionalClauses": {"type": ["array", "null"]}
      }
    }
  }
}`
