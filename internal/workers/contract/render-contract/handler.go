// internal/workers/contract/render-contract/handler.go
package rendercontract

import (
	"context"
	stdErrors "errors"
	"time"

	"contract-workers/internal/common/camunda"
	"contract-workers/internal/common/errors"
	"contract-workers/internal/common/logger"
	"contract-workers/internal/common/metrics"
	"contract-workers/internal/common/validation"
	"contract-workers/internal/engine"
	"contract-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const TaskType = "contract.render"

var schema = validation.MustCompile(inputSchema)

type TemplateStore interface {
	Get(ctx context.Context, templateID string) (*models.Template, error)
}

type ContractStore interface {
	Insert(ctx context.Context, rec *models.ContractRecord) error
}

type Handler struct {
	config    *Config
	templates TemplateStore
	contracts ContractStore
	responder *camunda.Responder
	logger    logger.Logger
	now       func() time.Time
}

func NewHandler(config *Config, templates TemplateStore, contracts ContractStore, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:    config,
		templates: templates,
		contracts: contracts,
		responder: camunda.NewResponder(TaskType, log),
		logger:    log,
		now:       func() time.Time { return time.Now().UTC() },
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

// Execute validates the answers, renders the contract and stores the record.
// Nothing is stored when the answers are invalid.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	tmpl, err := h.templates.Get(ctx, input.TemplateID)
	if err != nil {
		return nil, err
	}
	if !tmpl.IsActive {
		return nil, errors.NewTemplateInactiveError(tmpl.ID)
	}

	rendered, err := engine.Render(tmpl, input.FormData)
	if err != nil {
		var fdErr *engine.FormDataError
		if stdErrors.As(err, &fdErr) {
			metrics.FormDataValidations.WithLabelValues(metrics.Outcome(false)).Inc()
			for _, e := range fdErr.Errors {
				metrics.ValidationErrors.WithLabelValues(string(e.Code)).Inc()
			}
			return nil, errors.NewFormDataInvalidError(tmpl.ID, fdErr.Errors, len(fdErr.Errors))
		}
		return nil, errors.NewInternalError(err)
	}
	metrics.FormDataValidations.WithLabelValues(metrics.Outcome(true)).Inc()

	rec := &models.ContractRecord{
		ID:              uuid.NewString(),
		TemplateID:      tmpl.ID,
		TemplateVersion: tmpl.Version,
		OwnerID:         input.OwnerID,
		Title:           rendered.Title,
		RenderedContent: rendered.HTML,
		PlainText:       rendered.Text,
		TemplateData:    input.FormData,
		CreatedAt:       h.now(),
	}
	if err := h.contracts.Insert(ctx, rec); err != nil {
		return nil, err
	}
	metrics.ContractsRendered.WithLabelValues("render").Inc()

	h.logger.Info("contract rendered", map[string]interface{}{
		"contractId":      rec.ID,
		"templateId":      rec.TemplateID,
		"templateVersion": rec.TemplateVersion,
	})

	return &Output{
		ContractID:      rec.ID,
		TemplateVersion: rec.TemplateVersion,
		Title:           rendered.Title,
		HTML:            rendered.HTML,
		Text:            rendered.Text,
		CreatedAt:       rec.CreatedAt.Format(time.RFC3339),
	}, nil
}
