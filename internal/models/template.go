// internal/models/template.go
package models

import (
	"strings"

	"github.com/google/uuid"
)

// FieldType is the closed set of answer types a template field can declare.
type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeTextarea FieldType = "textarea"
	FieldTypeEmail    FieldType = "email"
	FieldTypeNumber   FieldType = "number"
	FieldTypeCurrency FieldType = "currency"
	FieldTypeDate     FieldType = "date"
	FieldTypeSelect   FieldType = "select"
)

// AllFieldTypes lists every FieldType in declaration order.
var AllFieldTypes = []FieldType{
	FieldTypeText,
	FieldTypeTextarea,
	FieldTypeEmail,
	FieldTypeNumber,
	FieldTypeCurrency,
	FieldTypeDate,
	FieldTypeSelect,
}

// Valid reports whether t is one of the declared field types.
func (t FieldType) Valid() bool {
	for _, known := range AllFieldTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Template is an admin-authored contract skeleton. It is read-only while rendering.
type Template struct {
	ID              string          `json:"id" yaml:"id"`
	Name            string          `json:"name" yaml:"name"`
	Description     string          `json:"description,omitempty" yaml:"description,omitempty"`
	Category        string          `json:"category,omitempty" yaml:"category,omitempty"`
	Content         TemplateContent `json:"content" yaml:"content"`
	Fields          []Field         `json:"fields" yaml:"fields"`
	OptionalClauses []Clause        `json:"optionalClauses" yaml:"optionalClauses"`
	IsActive        bool            `json:"isActive" yaml:"isActive"`
	SortOrder       int             `json:"sortOrder" yaml:"sortOrder"`
	Version         int             `json:"version" yaml:"version"`
}

type TemplateContent struct {
	Title    string    `json:"title" yaml:"title"`
	Sections []Section `json:"sections" yaml:"sections"`
}

type Section struct {
	ID         string `json:"id" yaml:"id"`
	Heading    string `json:"heading" yaml:"heading"`
	Content    string `json:"content" yaml:"content"`
	IsOptional bool   `json:"isOptional" yaml:"isOptional"`
	ClauseID   string `json:"clauseId,omitempty" yaml:"clauseId,omitempty"`
}

type Field struct {
	ID          string    `json:"id" yaml:"id"`
	Label       string    `json:"label" yaml:"label"`
	Type        FieldType `json:"type" yaml:"type"`
	Required    bool      `json:"required" yaml:"required"`
	Placeholder string    `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Options     []string  `json:"options,omitempty" yaml:"options,omitempty"`
}

// Clause is a toggleable bundle of fields. Its fields only count when the
// clause is enabled in the submitted FormData.
type Clause struct {
	ID             string  `json:"id" yaml:"id"`
	Name           string  `json:"name" yaml:"name"`
	Description    string  `json:"description,omitempty" yaml:"description,omitempty"`
	DefaultEnabled bool    `json:"defaultEnabled" yaml:"defaultEnabled"`
	Fields         []Field `json:"fields" yaml:"fields"`
}

// AllFields returns base fields followed by every clause's fields, in template order.
func (t *Template) AllFields() []Field {
	out := make([]Field, 0, len(t.Fields))
	out = append(out, t.Fields...)
	for _, c := range t.OptionalClauses {
		out = append(out, c.Fields...)
	}
	return out
}

// Clause looks up an optional clause by id.
func (t *Template) Clause(id string) (*Clause, bool) {
	for i := range t.OptionalClauses {
		if t.OptionalClauses[i].ID == id {
			return &t.OptionalClauses[i], true
		}
	}
	return nil, false
}

// EnsureIDs assigns UUIDs to the template, its sections and its clauses when
// they arrive without one. Field ids are token names and are never generated.
func (t *Template) EnsureIDs() {
	if strings.TrimSpace(t.ID) == "" {
		t.ID = uuid.NewString()
	}
	for i := range t.Content.Sections {
		if strings.TrimSpace(t.Content.Sections[i].ID) == "" {
			t.Content.Sections[i].ID = "section-" + uuid.NewString()
		}
	}
	for i := range t.OptionalClauses {
		if strings.TrimSpace(t.OptionalClauses[i].ID) == "" {
			t.OptionalClauses[i].ID = "clause-" + uuid.NewString()
		}
	}
}
