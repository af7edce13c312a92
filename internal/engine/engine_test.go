package engine

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contract-workers/internal/engine/fields"
	"contract-workers/internal/engine/structure"
	"contract-workers/internal/models"
)

const royaltyTemplateJSON = `{
  "id": "tmpl-royalty",
  "name": "Recording Agreement",
  "category": "music",
  "isActive": true,
  "version": 3,
  "content": {
    "title": "Recording Agreement for {{name}}",
    "sections": [
      {"id": "intro", "heading": "Parties", "content": "Hello {{name}}", "isOptional": false},
      {"id": "royalties", "heading": "Royalties", "content": "Royalty rate: {{rate}}%", "isOptional": true, "clauseId": "royalty_clause"},
      {"id": "territory", "heading": "Territory", "content": "Territory: {{territory}}", "isOptional": false}
    ]
  },
  "fields": [
    {"id": "name", "label": "Name", "type": "text", "required": true},
    {"id": "territory", "label": "Territory", "type": "select", "required": false, "options": ["UK", "US"]}
  ],
  "optionalClauses": [
    {"id": "royalty_clause", "name": "Royalties", "defaultEnabled": true,
     "fields": [{"id": "rate", "label": "Rate", "type": "number", "required": true}]}
  ]
}`

func loadTemplate(t *testing.T) *models.Template {
	t.Helper()
	var tmpl models.Template
	require.NoError(t, json.Unmarshal([]byte(royaltyTemplateJSON), &tmpl))
	return &tmpl
}

func TestValidateTemplate(t *testing.T) {
	tmpl := loadTemplate(t)
	require.NoError(t, ValidateTemplate(tmpl))

	tmpl.Content.Sections[1].ClauseID = "ghost"
	err := ValidateTemplate(tmpl)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTemplateInvalid))
	var te *TemplateError
	require.True(t, errors.As(err, &te))
	require.Len(t, te.Errors, 1)
	assert.Equal(t, structure.CodeOrphanOptionalSection, te.Errors[0].Code)
}

func TestRender_MandatorySection(t *testing.T) {
	tmpl := loadTemplate(t)

	out, err := Render(tmpl, models.FormData{Values: map[string]interface{}{"name": "Max"}})

	require.NoError(t, err)
	assert.Equal(t, "Recording Agreement for Max", out.Title)
	assert.Contains(t, out.HTML, "<p>Hello Max</p>")
	assert.Contains(t, out.Text, "Hello Max")
}

func TestRender_DisabledClause(t *testing.T) {
	tmpl := loadTemplate(t)

	out, err := Render(tmpl, models.FormData{Values: map[string]interface{}{"name": "Max"}, EnabledClauses: []string{}})

	require.NoError(t, err)
	assert.NotContains(t, out.HTML, "Royalties")
	assert.NotContains(t, out.Text, "Royalty rate")
}

func TestRender_EnabledClauseMissingField(t *testing.T) {
	tmpl := loadTemplate(t)

	out, err := Render(tmpl, models.FormData{Values: map[string]interface{}{"name": "Max"}, EnabledClauses: []string{"royalty_clause"}})

	assert.Nil(t, out)
	require.True(t, errors.Is(err, ErrFormDataInvalid))
	var fe *FormDataError
	require.True(t, errors.As(err, &fe))
	require.Len(t, fe.Errors, 1)
	assert.Equal(t, "rate", fe.Errors[0].FieldID)
	assert.Equal(t, fields.CodeMissingRequired, fe.Errors[0].Code)
}

func TestRender_InvalidOption(t *testing.T) {
	tmpl := loadTemplate(t)

	_, err := Render(tmpl, models.FormData{Values: map[string]interface{}{"name": "Max", "territory": "CA"}})

	var fe *FormDataError
	require.True(t, errors.As(err, &fe))
	require.Len(t, fe.Errors, 1)
	assert.Equal(t, fields.CodeInvalidOption, fe.Errors[0].Code)
	assert.Equal(t, "territory", fe.Errors[0].FieldID)
	assert.Equal(t, "CA", fe.Errors[0].Value)
}

func TestRender_EnabledClauseFromFlatJSON(t *testing.T) {
	tmpl := loadTemplate(t)
	var data models.FormData
	require.NoError(t, json.Unmarshal([]byte(`{"name": "Max", "rate": 12.5, "enabledClauses": ["royalty_clause"]}`), &data))

	out, err := Render(tmpl, data)

	require.NoError(t, err)
	assert.Contains(t, out.Text, "Royalty rate: 12.5%")
	assert.Less(t, strings.Index(out.Text, "Hello Max"), strings.Index(out.Text, "Royalty rate"))
}

func TestRender_Idempotent(t *testing.T) {
	tmpl := loadTemplate(t)
	data := models.FormData{Values: map[string]interface{}{"name": "<b>Max</b> & Co", "rate": "7"}, EnabledClauses: []string{"royalty_clause"}}

	first, err := Render(tmpl, data)
	require.NoError(t, err)
	second, err := Render(tmpl, data)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Contains(t, first.HTML, "&lt;b&gt;Max&lt;/b&gt; &amp; Co")
	assert.NotContains(t, first.Text, "<")
	assert.NotContains(t, first.Text, "&amp;")
}

func TestPreview_PartialAnswers(t *testing.T) {
	tmpl := loadTemplate(t)

	out := Preview(tmpl, models.FormData{EnabledClauses: []string{"royalty_clause"}})

	assert.Equal(t, "Recording Agreement for ", out.Title)
	assert.Contains(t, out.Text, "Royalty rate: %")
	assert.NotContains(t, out.HTML, "{{")
}
