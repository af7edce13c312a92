package fields

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contract-workers/internal/models"
)

func TestRuleFor_CoversEveryFieldType(t *testing.T) {
	for _, ft := range models.AllFieldTypes {
		rule, ok := RuleFor(ft)
		require.True(t, ok, "missing rule for %s", ft)
		assert.NotNil(t, rule.Check)
		assert.NotNil(t, rule.Format)
	}

	_, ok := RuleFor(models.FieldType("checkbox"))
	assert.False(t, ok)
}

func TestRuleCheck(t *testing.T) {
	territory := models.Field{ID: "territory", Type: models.FieldTypeSelect, Options: []string{"UK", "US"}}

	tests := []struct {
		name   string
		field  models.Field
		answer string
		want   Code
	}{
		{"text accepts anything", models.Field{Type: models.FieldTypeText}, "<b>x</b>", ""},
		{"textarea accepts anything", models.Field{Type: models.FieldTypeTextarea}, "a\nb", ""},
		{"valid email", models.Field{Type: models.FieldTypeEmail}, "max@example.com", ""},
		{"invalid email", models.Field{Type: models.FieldTypeEmail}, "max@example", CodeInvalidEmail},
		{"integer number", models.Field{Type: models.FieldTypeNumber}, "42", ""},
		{"negative decimal", models.Field{Type: models.FieldTypeNumber}, "-3.25", ""},
		{"not a number", models.Field{Type: models.FieldTypeNumber}, "forty", CodeInvalidNumber},
		{"grouped number rejected", models.Field{Type: models.FieldTypeNumber}, "1,000", CodeInvalidNumber},
		{"infinity rejected", models.Field{Type: models.FieldTypeCurrency}, "Inf", CodeInvalidNumber},
		{"exponent rejected", models.Field{Type: models.FieldTypeNumber}, "1e3", CodeInvalidNumber},
		{"huge exponent rejected", models.Field{Type: models.FieldTypeCurrency}, "1e400000000", CodeInvalidNumber},
		{"overlong number rejected", models.Field{Type: models.FieldTypeNumber}, strings.Repeat("9", 41), CodeInvalidNumber},
		{"trailing point rejected", models.Field{Type: models.FieldTypeNumber}, "5.", CodeInvalidNumber},
		{"explicit plus sign", models.Field{Type: models.FieldTypeNumber}, "+7", ""},
		{"currency decimal", models.Field{Type: models.FieldTypeCurrency}, "1500.5", ""},
		{"iso date", models.Field{Type: models.FieldTypeDate}, "2024-03-01", ""},
		{"rfc3339 date", models.Field{Type: models.FieldTypeDate}, "2024-03-01T10:00:00Z", ""},
		{"impossible date", models.Field{Type: models.FieldTypeDate}, "2024-02-30", CodeInvalidDate},
		{"ambiguous date", models.Field{Type: models.FieldTypeDate}, "03/01/2024", CodeInvalidDate},
		{"known option", territory, "UK", ""},
		{"unknown option", territory, "CA", CodeInvalidOption},
		{"option is case sensitive", territory, "uk", CodeInvalidOption},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule, ok := RuleFor(tt.field.Type)
			require.True(t, ok)
			assert.Equal(t, tt.want, rule.Check(tt.field, tt.answer))
		})
	}
}

func TestFormatCurrency(t *testing.T) {
	tests := map[string]string{
		"0":           "0.00",
		"5":           "5.00",
		"1500.5":      "1,500.50",
		"999":         "999.00",
		"1000":        "1,000.00",
		"1234567.891": "1,234,567.89",
		"-2500":       "-2,500.00",
		"-0.001":      "0.00",
		"-0.005":      "-0.01",
		"abc":         "abc",
		"1e3":         "1e3",
		"1e400000000": "1e400000000",
	}
	for in, want := range tests {
		assert.Equal(t, want, FormatCurrency(in), "input %q", in)
	}
}

func TestFormatCurrency_BoundedInput(t *testing.T) {
	long := strings.Repeat("1", 41)
	assert.Equal(t, long, FormatCurrency(long))

	maxLen := strings.Repeat("9", 37) + ".99"
	assert.Equal(t, 40, len(maxLen))
	assert.True(t, strings.HasSuffix(FormatCurrency(maxLen), "999.99"))
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "March 1, 2024", FormatDate("2024-03-01"))
	assert.Equal(t, "December 31, 2023", FormatDate("2023-12-31T23:00:00Z"))
	assert.Equal(t, "soon", FormatDate("soon"))
}

func TestAnswer(t *testing.T) {
	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(`{
		"name": "  Max ",
		"blank": "   ",
		"fee": 1500.5,
		"count": 3,
		"nothing": null,
		"flag": true,
		"list": ["a"],
		"obj": {"a": 1}
	}`), &decoded))

	tests := []struct {
		id      string
		answer  string
		present bool
		scalar  bool
	}{
		{"name", "Max", true, true},
		{"blank", "", false, true},
		{"fee", "1500.5", true, true},
		{"count", "3", true, true},
		{"nothing", "", false, true},
		{"absent", "", false, true},
		{"flag", "", true, false},
		{"list", "", true, false},
		{"obj", "", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			answer, present, scalar := Answer(decoded, tt.id)
			assert.Equal(t, tt.answer, answer)
			assert.Equal(t, tt.present, present)
			assert.Equal(t, tt.scalar, scalar)
		})
	}
}

func TestAnswer_JSONNumberKeepsDigits(t *testing.T) {
	values := map[string]interface{}{"fee": json.Number("9007199254740993.25")}

	answer, present, scalar := Answer(values, "fee")
	assert.Equal(t, "9007199254740993.25", answer)
	assert.True(t, present)
	assert.True(t, scalar)
	assert.Equal(t, "9,007,199,254,740,993.25", FormatCurrency(answer))
}

func TestActive(t *testing.T) {
	tmpl := &models.Template{
		Fields: []models.Field{{ID: "name"}},
		OptionalClauses: []models.Clause{
			{ID: "royalty_clause", Fields: []models.Field{{ID: "rate"}}},
			{ID: "term_clause", Fields: []models.Field{{ID: "term"}}, DefaultEnabled: true},
		},
	}

	ids := func(fs []models.Field) []string {
		out := make([]string, 0, len(fs))
		for _, f := range fs {
			out = append(out, f.ID)
		}
		return out
	}

	assert.Equal(t, []string{"name"}, ids(Active(tmpl, models.FormData{})))
	assert.Equal(t, []string{"name", "rate"}, ids(Active(tmpl, models.FormData{EnabledClauses: []string{"royalty_clause"}})))
	assert.Equal(t, []string{"name", "rate", "term"},
		ids(Active(tmpl, models.FormData{EnabledClauses: []string{"term_clause", "royalty_clause"}})))
}
