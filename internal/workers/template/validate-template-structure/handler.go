// internal/workers/template/validate-template-structure/handler.go
package validatetemplatestructure

import (
	"context"

	"contract-workers/internal/common/camunda"
	"contract-workers/internal/common/logger"
	"contract-workers/internal/common/metrics"
	"contract-workers/internal/common/validation"
	"contract-workers/internal/engine/structure"
	"contract-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "contract.template.validate"

var schema = validation.MustCompile(inputSchema)

// TemplateStore is the read side of store.TemplateStore.
type TemplateStore interface {
	Get(ctx context.Context, templateID string) (*models.Template, error)
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

// Execute validates the template. An invalid template is a normal result,
// not a job failure.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	tmpl := input.Template
	if tmpl == nil {
		loaded, err := h.templates.Get(ctx, input.TemplateID)
		if err != nil {
			return nil, err
		}
		tmpl = loaded
	}

	res := structure.ValidateTemplateStructure(tmpl)

	metrics.TemplateValidations.WithLabelValues(metrics.Outcome(res.Valid)).Inc()
	for _, e := range res.Errors {
		metrics.ValidationErrors.WithLabelValues(e.Code).Inc()
	}

	if !res.Valid {
		h.logger.Debug("template structure invalid", map[string]interface{}{
			"templateId": tmpl.ID,
			"errorCount": len(res.Errors),
		})
	}

	return &Output{
		Valid:      res.Valid,
		Errors:     res.Errors,
		ErrorCount: len(res.Errors),
	}, nil
}
