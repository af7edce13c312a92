// Package content resolves the active sections of a template and substitutes answers.
package content

import (
	"contract-workers/internal/engine/fields"
	"contract-workers/internal/engine/token"
	"contract-workers/internal/models"
)

// RenderTemplateContent builds the rendered title and active sections.
// It does not validate: missing or unknown tokens resolve to "", so an
// incomplete answer set still yields a usable preview.
func RenderTemplateContent(tmpl *models.Template, data models.FormData) models.RenderedDocument {
	values := DisplayValues(tmpl, data)

	sections := make([]models.RenderedSection, 0, len(tmpl.Content.Sections))
	for _, s := range ActiveSections(tmpl, data) {
		sections = append(sections, models.RenderedSection{
			Heading: token.Replace(s.Heading, values),
			Content: token.Replace(s.Content, values),
		})
	}

	return models.RenderedDocument{
		Title:    token.Replace(tmpl.Content.Title, values),
		Sections: sections,
	}
}

// ActiveSections keeps mandatory sections and optional sections whose clause
// is enabled, in template order.
func ActiveSections(tmpl *models.Template, data models.FormData) []models.Section {
	out := make([]models.Section, 0, len(tmpl.Content.Sections))
	for _, s := range tmpl.Content.Sections {
		if s.IsOptional && !data.ClauseEnabled(s.ClauseID) {
			continue
		}
		out = append(out, s)
	}
	return out
}

// DisplayValues maps each active field with a usable answer to its display text.
func DisplayValues(tmpl *models.Template, data models.FormData) map[string]string {
	active := fields.Active(tmpl, data)
	values := make(map[string]string, len(active))

	for _, f := range active {
		answer, present, scalar := fields.Answer(data.Values, f.ID)
		if !present || !scalar {
			continue
		}
		rule, ok := fields.RuleFor(f.Type)
		if !ok {
			values[f.ID] = answer
			continue
		}
		values[f.ID] = rule.Format(answer)
	}
	return values
}
