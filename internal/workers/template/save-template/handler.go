// internal/workers/template/save-template/handler.go
package savetemplate

import (
	"context"

	"contract-workers/internal/common/camunda"
	"contract-workers/internal/common/errors"
	"contract-workers/internal/common/logger"
	"contract-workers/internal/common/metrics"
	"contract-workers/internal/common/validation"
	"contract-workers/internal/engine/structure"
	"contract-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "contract.template.save"

var schema = validation.MustCompile(inputSchema)

// TemplateStore is the write side of store.TemplateStore.
type TemplateStore interface {
	Save(ctx context.Context, tmpl *models.Template) (int, error)
}

type Handler struct {
	config    *Config
	templates TemplateStore
	responder *camunda.Responder
	logger    logger.Logger
}

func NewHandler(config *Config, templates TemplateStore, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:    config,
		templates: templates,
		responder: camunda.NewResponder(TaskType, log),
		logger:    log,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	var input Input
	if err := validation.DecodeJobVariables(schema, job.Variables, &input); err != nil {
		h.responder.Fail(ctx, client, job, err)
		return
	}

	output, err := h.Execute(ctx, &input)
	if err != nil {
		h.responder.Fail(ctx, client, job, err)
		return
	}
	h.responder.Complete(ctx, client, job, output)
}

// Execute assigns missing ids, refuses structurally invalid templates and
// persists the rest.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	tmpl := input.Template
	tmpl.EnsureIDs()

	res := structure.ValidateTemplateStructure(&tmpl)
	metrics.TemplateValidations.WithLabelValues(metrics.Outcome(res.Valid)).Inc()
	if !res.Valid {
		for _, e := range res.Errors {
			metrics.ValidationErrors.WithLabelValues(e.Code).Inc()
		}
		return nil, errors.NewTemplateStructureInvalidError(tmpl.ID, res.Errors, len(res.Errors))
	}

	version, err := h.templates.Save(ctx, &tmpl)
	if err != nil {
		return nil, err
	}

	h.logger.Info("template saved", map[string]interface{}{
		"templateId": tmpl.ID,
		"version":    version,
	})

	out := &Output{
		TemplateID: tmpl.ID,
		Version:    version,
		SectionIDs: make([]string, 0, len(tmpl.Content.Sections)),
		ClauseIDs:  make([]string, 0, len(tmpl.OptionalClauses)),
	}
	for _, s := range tmpl.Content.Sections {
		out.SectionIDs = append(out.SectionIDs, s.ID)
	}
	for _, c := range tmpl.OptionalClauses {
		out.ClauseIDs = append(out.ClauseIDs, c.ID)
	}
	return out, nil
}
