package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const renderInputSchema = `{
  "type": "object",
  "required": ["templateId", "formData"],
  "properties": {
    "templateId": {"type": "string", "minLength": 1},
    "formData": {"type": "object"}
  }
}`

func TestSchema_ValidateJSON(t *testing.T) {
	schema := MustCompile(renderInputSchema)

	tests := []struct {
		name      string
		document  string
		valid     bool
		badFields []string
	}{
		{"valid", `{"templateId": "t1", "formData": {"name": "Max"}}`, true, nil},
		{"missing template id", `{"formData": {}}`, false, []string{"templateId"}},
		{"empty template id", `{"templateId": "", "formData": {}}`, false, []string{"templateId"}},
		{"form data not object", `{"templateId": "t1", "formData": "x"}`, false, []string{"formData"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := schema.ValidateJSON(tt.document)
			require.NoError(t, err)
			assert.Equal(t, tt.valid, result.Valid)
			for _, f := range tt.badFields {
				assert.True(t, result.HasErrors(f), "expected error on %s, got %v", f, result.GetErrorMessages())
			}
		})
	}
}

func TestSchema_ValidateJSON_Malformed(t *testing.T) {
	_, err := MustCompile(renderInputSchema).ValidateJSON(`{"templateId": `)
	assert.Error(t, err)
}

func TestSchema_ValidateInput(t *testing.T) {
	result, err := MustCompile(renderInputSchema).ValidateInput(map[string]interface{}{"templateId": "t1"})
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Len(t, result.GetErrorsForField("formData"), 1)
}

func TestCompile_Invalid(t *testing.T) {
	_, err := Compile(`{"type": `)
	assert.Error(t, err)
}

func TestValidateEmail(t *testing.T) {
	assert.True(t, ValidateEmail("max@example.com"))
	assert.True(t, ValidateEmail("first.last+tag@sub.example.co"))
	assert.False(t, ValidateEmail("max@example"))
	assert.False(t, ValidateEmail("max example@example.com"))
	assert.False(t, ValidateEmail(""))
}
