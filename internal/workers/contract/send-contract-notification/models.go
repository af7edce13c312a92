// internal/workers/contract/send-contract-notification/models.go
package sendcontractnotification

const (
	StatusSent     = "sent"
	StatusDisabled = "disabled"

	EventContractRendered = "contract.rendered"
)

type Input struct {
	ContractID string   `json:"contractId"`
	Recipients []string `json:"recipients,omitempty"`
	Subject    string   `json:"subject,omitempty"`
}

type Output struct {
	ContractID     string `json:"contractId"`
	EmailStatus    string `json:"emailStatus"`
	EmailMessageID string `json:"emailMessageId,omitempty"`
	EventStatus    string `json:"eventStatus"`
	EventMessageID string `json:"eventMessageId,omitempty"`
	SentAt         string `json:"sentAt"`
}

// ContractEvent is the SNS message body announcing a rendered contract.
type ContractEvent struct {
	EventType       string `json:"eventType"`
	ContractID      string `json:"contractId"`
	TemplateID      string `json:"templateId"`
	TemplateVersion int    `json:"templateVersion"`
	OwnerID         string `json:"ownerId,omitempty"`
	Title           string `json:"title"`
	CreatedAt       string `json:"createdAt"`
}

const inputSchema = `{
  "type": "object",
  "required": ["contractId"],
  "properties": {
    "contractId": {"type": "string", "minLength": 1},
    "recipients": {"type": "array", "items": {"type": "string"}},
    "subject": {"type": "string"}
  }
}`
