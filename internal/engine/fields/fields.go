// Package fields owns the per-type answer rules shared by form validation
// and content rendering.
package fields

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"contract-workers/internal/common/validation"
	"contract-workers/internal/models"
)

// Code identifies why an answer was rejected.
type Code string

const (
	CodeMissingRequired Code = "MISSING_REQUIRED_FIELD"
	CodeInvalidEmail    Code = "INVALID_EMAIL"
	CodeInvalidNumber   Code = "INVALID_NUMBER"
	CodeInvalidDate     Code = "INVALID_DATE"
	CodeInvalidOption   Code = "INVALID_OPTION"
	CodeInvalidValue    Code = "INVALID_VALUE"
)

// DisplayDateLayout is how date answers appear in rendered contracts.
const DisplayDateLayout = "January 2, 2006"

var dateLayouts = []string{"2006-01-02", time.RFC3339, time.RFC3339Nano}

// maxNumberLength bounds numeric answers, sign and decimal point included.
const maxNumberLength = 40

// numberPattern is plain positional notation. Exponents and grouping are rejected.
var numberPattern = regexp.MustCompile(`^[+-]?[0-9]+(\.[0-9]+)?$`)

// Rule validates and formats answers for one field type.
type Rule struct {
	// Check returns "" when the trimmed, non-empty answer is acceptable.
	Check func(field models.Field, answer string) Code
	// Format turns an answer into the text substituted into the contract.
	Format func(answer string) string
}

// RuleFor returns the rule for t. ok is false only for types outside the enum.
func RuleFor(t models.FieldType) (rule Rule, ok bool) {
	switch t {
	case models.FieldTypeText, models.FieldTypeTextarea:
		return Rule{Check: acceptAny, Format: identity}, true
	case models.FieldTypeEmail:
		return Rule{Check: checkEmail, Format: identity}, true
	case models.FieldTypeNumber:
		return Rule{Check: checkNumber, Format: identity}, true
	case models.FieldTypeCurrency:
		return Rule{Check: checkNumber, Format: FormatCurrency}, true
	case models.FieldTypeDate:
		return Rule{Check: checkDate, Format: FormatDate}, true
	case models.FieldTypeSelect:
		return Rule{Check: checkOption, Format: identity}, true
	}
	return Rule{}, false
}

// Active returns base fields followed by the fields of every enabled clause,
// in template order. Fields of disabled clauses are excluded entirely.
func Active(tmpl *models.Template, data models.FormData) []models.Field {
	out := make([]models.Field, 0, len(tmpl.Fields))
	out = append(out, tmpl.Fields...)
	for _, clause := range tmpl.OptionalClauses {
		if data.ClauseEnabled(clause.ID) {
			out = append(out, clause.Fields...)
		}
	}
	return out
}

// Answer normalizes a submitted value to its trimmed string form.
// present is false for missing, null or blank answers; scalar is false
// for objects, arrays and booleans.
func Answer(values map[string]interface{}, id string) (answer string, present bool, scalar bool) {
	raw, ok := values[id]
	if !ok || raw == nil {
		return "", false, true
	}

	switch v := raw.(type) {
	case string:
		answer = strings.TrimSpace(v)
	case float64:
		answer = strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		answer = strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int:
		answer = strconv.Itoa(v)
	case int64:
		answer = strconv.FormatInt(v, 10)
	case int32:
		answer = strconv.FormatInt(int64(v), 10)
	case decimal.Decimal:
		answer = v.String()
	case interface{ String() string }:
		answer = strings.TrimSpace(v.String())
	default:
		return "", true, false
	}
	return answer, answer != "", true
}

// FormatCurrency renders a numeric answer with two decimals and thousands
// separators. Unparseable input is returned unchanged.
func FormatCurrency(answer string) string {
	d, ok := ParseNumber(answer)
	if !ok {
		return answer
	}
	rounded := d.Round(2)
	fixed := rounded.Abs().StringFixed(2)
	intPart, frac := fixed[:len(fixed)-3], fixed[len(fixed)-3:]

	var b strings.Builder
	if rounded.IsNegative() {
		b.WriteByte('-')
	}
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	b.WriteString(frac)
	return b.String()
}

// ParseNumber accepts a bounded decimal in positional notation.
func ParseNumber(answer string) (decimal.Decimal, bool) {
	if len(answer) > maxNumberLength || !numberPattern.MatchString(answer) {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(answer)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

// FormatDate renders an ISO date answer as a calendar date. Unparseable input
// is returned unchanged.
func FormatDate(answer string) string {
	t, ok := ParseDate(answer)
	if !ok {
		return answer
	}
	return t.Format(DisplayDateLayout)
}

// ParseDate accepts YYYY-MM-DD or an RFC 3339 timestamp.
func ParseDate(answer string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, answer); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func identity(answer string) string { return answer }

func acceptAny(models.Field, string) Code { return "" }

func checkEmail(_ models.Field, answer string) Code {
	if !validation.ValidateEmail(answer) {
		return CodeInvalidEmail
	}
	return ""
}

func checkNumber(_ models.Field, answer string) Code {
	if _, ok := ParseNumber(answer); !ok {
		return CodeInvalidNumber
	}
	return ""
}

func checkDate(_ models.Field, answer string) Code {
	if _, ok := ParseDate(answer); !ok {
		return CodeInvalidDate
	}
	return ""
}

func checkOption(field models.Field, answer string) Code {
	for _, opt := range field.Options {
		if opt == answer {
			return ""
		}
	}
	return CodeInvalidOption
}
