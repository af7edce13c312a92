// internal/models/contract.go
package models

import (
	"bytes"
	"encoding/json"
	"time"
)

const enabledClausesKey = "enabledClauses"

// FormData is one submission of answers against a template.
type FormData struct {
	Values         map[string]interface{} `json:"values"`
	EnabledClauses []string               `json:"enabledClauses"`
}

// ClauseEnabled reports whether the clause id was switched on in this submission.
func (f FormData) ClauseEnabled(id string) bool {
	for _, c := range f.EnabledClauses {
		if c == id {
			return true
		}
	}
	return false
}

// UnmarshalJSON accepts both {"values": {...}, "enabledClauses": [...]}
// and the flat form where every key other than enabledClauses is an answer.
func (f *FormData) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	f.Values = map[string]interface{}{}
	f.EnabledClauses = nil

	if clauses, ok := raw[enabledClausesKey]; ok {
		if err := json.Unmarshal(clauses, &f.EnabledClauses); err != nil {
			return err
		}
		delete(raw, enabledClausesKey)
	}

	if values, ok := raw["values"]; ok && len(raw) == 1 {
		var nested map[string]interface{}
		if err := decodeNumbers(values, &nested); err == nil {
			if nested != nil {
				f.Values = nested
			}
			return nil
		}
	}

	for k, v := range raw {
		var decoded interface{}
		if err := decodeNumbers(v, &decoded); err != nil {
			return err
		}
		f.Values[k] = decoded
	}
	return nil
}

// decodeNumbers keeps JSON numbers as json.Number so large amounts keep every digit.
func decodeNumbers(data []byte, out interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(out)
}

type RenderedSection struct {
	Heading string `json:"heading"`
	Content string `json:"content"`
}

// RenderedDocument is the resolved title and active sections, before HTML/text generation.
type RenderedDocument struct {
	Title    string            `json:"title"`
	Sections []RenderedSection `json:"sections"`
}

// RenderedContract is what the render pipeline hands back to callers.
type RenderedContract struct {
	Title string `json:"title"`
	HTML  string `json:"html"`
	Text  string `json:"text"`
}

// ContractRecord is the persisted result of a successful render.
type ContractRecord struct {
	ID              string    `json:"id"`
	TemplateID      string    `json:"templateId"`
	TemplateVersion int       `json:"templateVersion"`
	OwnerID         string    `json:"ownerId,omitempty"`
	Title           string    `json:"title"`
	RenderedContent string    `json:"renderedContent"`
	PlainText       string    `json:"plainText"`
	TemplateData    FormData  `json:"templateData"`
	CreatedAt       time.Time `json:"createdAt"`
}
