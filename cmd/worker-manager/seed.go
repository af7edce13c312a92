package main

import (
	"context"
	stdErrors "errors"
	"strings"

	"contract-workers/internal/common/errors"
	"contract-workers/internal/common/logger"
	"contract-workers/internal/engine"
	"contract-workers/internal/models"
	"contract-workers/pkg/registry"
)

type templateReader interface {
	Get(ctx context.Context, templateID string) (*models.Template, error)
}

type templateWriter interface {
	Save(ctx context.Context, tmpl *models.Template) (int, error)
}

// seedCatalog saves catalog templates that are not stored yet. Existing rows
// are never overwritten, so admin edits survive restarts.
func seedCatalog(ctx context.Context, path string, r templateReader, w templateWriter, log logger.Logger) (int, error) {
	cat, err := registry.LoadCatalog(path)
	if err != nil {
		return 0, err
	}

	saved := 0
	for i := range cat.Templates {
		tmpl := &cat.Templates[i]
		if strings.TrimSpace(tmpl.ID) == "" {
			log.Warn("skipping catalog template without id", map[string]interface{}{"name": tmpl.Name})
			continue
		}
		if err := engine.ValidateTemplate(tmpl); err != nil {
			log.Warn("skipping invalid catalog template", map[string]interface{}{
				"templateId": tmpl.ID,
				"error":      err.Error(),
			})
			continue
		}

		_, err := r.Get(ctx, tmpl.ID)
		if err == nil {
			continue
		}
		var stdErr *errors.StandardError
		if !stdErrors.As(err, &stdErr) || stdErr.Code != errors.ErrCodeTemplateNotFound {
			return saved, err
		}

		tmpl.EnsureIDs()
		if _, err := w.Save(ctx, tmpl); err != nil {
			return saved, err
		}
		saved++
	}
	return saved, nil
}
