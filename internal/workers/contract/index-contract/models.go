// internal/workers/contract/index-contract/models.go
package indexcontract

type Input struct {
	ContractID string `json:"contractId"`
}

type Output struct {
	ContractID string `json:"contractId"`
	Index      string `json:"index"`
	IndexedAt  string `json:"indexedAt"`
}

// ContractDocument is the search document for one contract. Only the plain
// text rendering is indexed.
type ContractDocument struct {
	ContractID      string `json:"contractId"`
	TemplateID      string `json:"templateId"`
	TemplateVersion int    `json:"templateVersion"`
	OwnerID         string `json:"ownerId,omitempty"`
	Category        string `json:"category,omitempty"`
	Title           string `json:"title"`
	Text            string `json:"text"`
	CreatedAt       string `json:"createdAt"`
}

const inputSchema = `{
  "type": "object",
  "required": ["contractId"],
  "properties": {
    "contractId": {"type": "string", "minLength": 1}
  }
}`
