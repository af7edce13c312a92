// Package testutil holds fixtures and mocks shared by worker tests.
package testutil

import (
	"context"
	"encoding/json"
	"time"

	"contract-workers/internal/models"

	"github.com/stretchr/testify/mock"
)

// ServicesTemplateJSON is a small consulting agreement with one optional clause.
const ServicesTemplateJSON = `{
  "id": "tmpl-services",
  "name": "Consulting Services Agreement",
  "category": "services",
  "isActive": true,
  "version": 2,
  "content": {
    "title": "Services Agreement with {{client_name}}",
    "sections": [
      {"id": "parties", "heading": "Parties", "content": "This agreement is made with {{client_name}} ({{client_email}}).", "isOptional": false},
      {"id": "fees", "heading": "Fees", "content": "The fee is {{fee}} payable from {{start_date}}.", "isOptional": false},
      {"id": "non-compete", "heading": "Non-Compete", "content": "Restriction period: {{restriction_months}} months.", "isOptional": true, "clauseId": "non_compete"}
    ]
  },
  "fields": [
    {"id": "client_name", "label": "Client name", "type": "text", "required": true},
    {"id": "client_email", "label": "Client email", "type": "email", "required": true},
    {"id": "fee", "label": "Fee", "type": "currency", "required": true},
    {"id": "start_date", "label": "Start date", "type": "date", "required": true}
  ],
  "optionalClauses": [
    {"id": "non_compete", "name": "Non-compete", "defaultEnabled": false,
     "fields": [{"id": "restriction_months", "label": "Restriction months", "type": "number", "required": true}]}
  ]
}`

// ServicesTemplate decodes ServicesTemplateJSON. It panics on a broken fixture.
func ServicesTemplate() *models.Template {
	var tmpl models.Template
	if err := json.Unmarshal([]byte(ServicesTemplateJSON), &tmpl); err != nil {
		panic(err)
	}
	return &tmpl
}

// ServicesAnswers is a complete, valid submission for ServicesTemplate.
func ServicesAnswers(withNonCompete bool) models.FormData {
	data := models.FormData{
		Values: map[string]interface{}{
			"client_name":  "Acme Ltd",
			"client_email": "legal@acme.example",
			"fee":          "12500",
			"start_date":   "2026-01-15",
		},
		EnabledClauses: []string{},
	}
	if withNonCompete {
		data.Values["restriction_months"] = 6.0
		data.EnabledClauses = []string{"non_compete"}
	}
	return data
}

// ContractRecord is a stored render of ServicesTemplate.
func ContractRecord() *models.ContractRecord {
	return &models.ContractRecord{
		ID:              "contract-1",
		TemplateID:      "tmpl-services",
		TemplateVersion: 2,
		OwnerID:         "user-42",
		Title:           "Services Agreement with Acme Ltd",
		RenderedContent: "<article>\n<h1>Services Agreement with Acme Ltd</h1>\n</article>\n",
		PlainText:       "Services Agreement with Acme Ltd\n",
		TemplateData:    ServicesAnswers(false),
		CreatedAt:       time.Date(2026, 2, 1, 9, 30, 0, 0, time.UTC),
	}
}

type MockTemplateStore struct {
	mock.Mock
}

func (m *MockTemplateStore) Get(ctx context.Context, templateID string) (*models.Template, error) {
	args := m.Called(ctx, templateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Template), args.Error(1)
}

func (m *MockTemplateStore) Save(ctx context.Context, tmpl *models.Template) (int, error) {
	args := m.Called(ctx, tmpl)
	return args.Int(0), args.Error(1)
}

type MockContractStore struct {
	mock.Mock
}

func (m *MockContractStore) Insert(ctx context.Context, rec *models.ContractRecord) error {
	return m.Called(ctx, rec).Error(0)
}

func (m *MockContractStore) Get(ctx context.Context, contractID string) (*models.ContractRecord, error) {
	args := m.Called(ctx, contractID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ContractRecord), args.Error(1)
}
