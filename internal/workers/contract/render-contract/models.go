// internal/workers/contract/render-contract/models.go
package rendercontract

import "contract-workers/internal/models"

type Input struct {
	TemplateID string          `json:"templateId"`
	OwnerID    string          `json:"ownerId,omitempty"`
	FormData   models.FormData `json:"formData"`
}

type Output struct {
	ContractID      string `json:"contractId"`
	TemplateVersion int    `json:"templateVersion"`
	Title           string `json:"title"`
	HTML            string `json:"html"`
	Text            string `json:"text"`
	CreatedAt       string `json:"createdAt"`
}

const inputSchema = `{
  "type": "object",
  "required": ["templateId", "formData"],
  "properties": {
    "templateId": {"type": "string", "minLength": 1},
    "ownerId": {"type": "string"},
    "formData": {"type": "object"}
  }
}`
