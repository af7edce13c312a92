// internal/workers/contract/preview-contract/handler.go
package previewcontract

import (
	"context"

	"contract-workers/internal/common/camunda"
	"contract-workers/internal/common/logger"
	"contract-workers/internal/common/metrics"
	"contract-workers/internal/common/validation"
	"contract-workers/internal/engine"
	"contract-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "contract.preview"

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
	h.logger.Debug("processing job", map[string]interface{}{
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

// Execute renders partial answers without validating them. Inactive
// templates can be previewed.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	tmpl := input.Template
	if tmpl == nil {
		loaded, err := h.templates.Get(ctx, input.TemplateID)
		if err != nil {
			return nil, err
		}
		tmpl = loaded
	}

	rendered := engine.Preview(tmpl, input.FormData)
	metrics.ContractsRendered.WithLabelValues("preview").Inc()

	return &Output{
		Title: rendered.Title,
		HTML:  rendered.HTML,
		Text:  rendered.Text,
	}, nil
}
