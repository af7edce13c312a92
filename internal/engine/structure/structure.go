// Package structure checks that a template is internally consistent before it is saved.
package structure

import (
	"fmt"
	"regexp"

	"contract-workers/internal/engine/token"
	"contract-workers/internal/models"
)

const (
	CodeUnknownToken          = "UNKNOWN_TOKEN"
	CodeDuplicateFieldID      = "DUPLICATE_FIELD_ID"
	CodeOrphanOptionalSection = "ORPHAN_OPTIONAL_SECTION"
	CodeEmptyOptions          = "EMPTY_OPTIONS"
	CodeInvalidFieldID        = "INVALID_FIELD_ID"
	CodeInvalidFieldType      = "INVALID_FIELD_TYPE"
	CodeDuplicateClauseID     = "DUPLICATE_CLAUSE_ID"
	CodeDuplicateSectionID    = "DUPLICATE_SECTION_ID"
)

var fieldIDPattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// Error is one structural problem. SectionID is empty for problems in the title.
type Error struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Token     string `json:"token,omitempty"`
	SectionID string `json:"sectionId,omitempty"`
	FieldID   string `json:"fieldId,omitempty"`
	ClauseID  string `json:"clauseId,omitempty"`
}

func (e Error) Error() string { return e.Code + ": " + e.Message }

type Result struct {
	Valid  bool    `json:"valid"`
	Errors []Error `json:"errors"`
}

// ValidateTemplateStructure collects every structural error in tmpl rather
// than stopping at the first one.
func ValidateTemplateStructure(tmpl *models.Template) Result {
	var errs []Error

	all := tmpl.AllFields()
	known := make(map[string]struct{}, len(all))
	for _, f := range all {
		known[f.ID] = struct{}{}
	}

	errs = append(errs, checkFields(all)...)
	errs = append(errs, checkClauses(tmpl.OptionalClauses)...)
	errs = append(errs, checkTokens(tmpl, known)...)
	errs = append(errs, checkSections(tmpl)...)

	if errs == nil {
		errs = []Error{}
	}
	return Result{Valid: len(errs) == 0, Errors: errs}
}

func checkFields(all []models.Field) []Error {
	var errs []Error
	seen := make(map[string]int, len(all))

	for _, f := range all {
		seen[f.ID]++
		if seen[f.ID] == 2 {
			errs = append(errs, Error{
				Code:    CodeDuplicateFieldID,
				Message: fmt.Sprintf("field id %q is used more than once", f.ID),
				FieldID: f.ID,
			})
		}
		if seen[f.ID] > 1 {
			continue
		}

		if !fieldIDPattern.MatchString(f.ID) {
			errs = append(errs, Error{
				Code:    CodeInvalidFieldID,
				Message: fmt.Sprintf("field id %q must be snake_case starting with a letter", f.ID),
				FieldID: f.ID,
			})
		}
		if !f.Type.Valid() {
			errs = append(errs, Error{
				Code:    CodeInvalidFieldType,
				Message: fmt.Sprintf("field %q has unsupported type %q", f.ID, f.Type),
				FieldID: f.ID,
			})
		}
		if f.Type == models.FieldTypeSelect && len(f.Options) == 0 {
			errs = append(errs, Error{
				Code:    CodeEmptyOptions,
				Message: fmt.Sprintf("select field %q has no options", f.ID),
				FieldID: f.ID,
			})
		}
	}
	return errs
}

func checkClauses(clauses []models.Clause) []Error {
	var errs []Error
	seen := make(map[string]int, len(clauses))
	for _, c := range clauses {
		seen[c.ID]++
		if seen[c.ID] == 2 {
			errs = append(errs, Error{
				Code:     CodeDuplicateClauseID,
				Message:  fmt.Sprintf("clause id %q is used more than once", c.ID),
				ClauseID: c.ID,
			})
		}
	}
	return errs
}

func checkTokens(tmpl *models.Template, known map[string]struct{}) []Error {
	var errs []Error

	unknown := func(text, sectionID string, reported map[string]struct{}) {
		for _, name := range token.Names(text) {
			if _, ok := known[name]; ok {
				continue
			}
			if _, dup := reported[name]; dup {
				continue
			}
			reported[name] = struct{}{}
			where := "title"
			if sectionID != "" {
				where = fmt.Sprintf("section %q", sectionID)
			}
			errs = append(errs, Error{
				Code:      CodeUnknownToken,
				Message:   fmt.Sprintf("token {{%s}} in %s has no matching field", name, where),
				Token:     name,
				SectionID: sectionID,
			})
		}
	}

	unknown(tmpl.Content.Title, "", map[string]struct{}{})
	for _, s := range tmpl.Content.Sections {
		reported := map[string]struct{}{}
		unknown(s.Heading, s.ID, reported)
		unknown(s.Content, s.ID, reported)
	}
	return errs
}

func checkSections(tmpl *models.Template) []Error {
	var errs []Error
	seen := make(map[string]int, len(tmpl.Content.Sections))

	for _, s := range tmpl.Content.Sections {
		if s.ID != "" {
			seen[s.ID]++
			if seen[s.ID] == 2 {
				errs = append(errs, Error{
					Code:      CodeDuplicateSectionID,
					Message:   fmt.Sprintf("section id %q is used more than once", s.ID),
					SectionID: s.ID,
				})
			}
		}

		if !s.IsOptional {
			continue
		}
		if _, ok := tmpl.Clause(s.ClauseID); s.ClauseID == "" || !ok {
			errs = append(errs, Error{
				Code:      CodeOrphanOptionalSection,
				Message:   fmt.Sprintf("optional section %q references unknown clause %q", s.ID, s.ClauseID),
				SectionID: s.ID,
				ClauseID:  s.ClauseID,
			})
		}
	}
	return errs
}
