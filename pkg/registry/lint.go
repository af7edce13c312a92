package registry

import (
	"contract-workers/internal/engine"
	"contract-workers/internal/engine/formdata"
	"contract-workers/internal/engine/structure"
	"contract-workers/internal/models"
)

// Report is the lint result for one catalog template.
type Report struct {
	TemplateID string                   `json:"templateId"`
	Name       string                   `json:"name"`
	Structure  structure.Result         `json:"structure"`
	Answers    *formdata.Result         `json:"answers,omitempty"`
	Preview    *models.RenderedContract `json:"preview,omitempty"`
}

// OK reports whether the template and its sample answers (if any) are valid.
func (r Report) OK() bool {
	if !r.Structure.Valid {
		return false
	}
	return r.Answers == nil || r.Answers.Valid
}

// Check validates every template and, where samples has an entry for it,
// validates and previews the sample answers.
func (c *Catalog) Check(samples map[string]models.FormData) []Report {
	reports := make([]Report, 0, len(c.Templates))
	for i := range c.Templates {
		tmpl := &c.Templates[i]
		r := Report{
			TemplateID: tmpl.ID,
			Name:       tmpl.Name,
			Structure:  structure.ValidateTemplateStructure(tmpl),
		}

		if data, ok := samples[tmpl.ID]; ok && r.Structure.Valid {
			res := formdata.ValidateFormData(tmpl, data)
			preview := engine.Preview(tmpl, data)
			r.Answers = &res
			r.Preview = &preview
		}
		reports = append(reports, r)
	}
	return reports
}
