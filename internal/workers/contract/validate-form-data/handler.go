// internal/workers/contract/validate-form-data/handler.go
package validateformdata

import (
	"context"

	"contract-workers/internal/common/camunda"
	"contract-workers/internal/common/errors"
	"contract-workers/internal/common/logger"
	"contract-workers/internal/common/metrics"
	"contract-workers/internal/common/validation"
	"contract-workers/internal/engine/formdata"
	"contract-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "contract.formdata.validate"

var schema = validation.MustCompile(inputSchema)

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

// Execute checks the answers against the template's active fields. Invalid
// answers complete the job with the error list.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	tmpl, err := h.templates.Get(ctx, input.TemplateID)
	if err != nil {
		return nil, err
	}
	if !tmpl.IsActive {
		return nil, errors.NewTemplateInactiveError(tmpl.ID)
	}

	res := formdata.ValidateFormData(tmpl, input.FormData)

	metrics.FormDataValidations.WithLabelValues(metrics.Outcome(res.Valid)).Inc()
	for _, e := range res.Errors {
		metrics.ValidationErrors.WithLabelValues(string(e.Code)).Inc()
	}

	return &Output{
		Valid:      res.Valid,
		Errors:     res.Errors,
		ErrorCount: len(res.Errors),
	}, nil
}
