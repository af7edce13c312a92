// internal/workers/contract/index-contract/handler.go
package indexcontract

import (
	"context"
	"time"

	"contract-workers/internal/common/camunda"
	"contract-workers/internal/common/errors"
	"contract-workers/internal/common/logger"
	"contract-workers/internal/common/validation"
	"contract-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "contract.index"

var schema = validation.MustCompile(inputSchema)

type ContractStore interface {
	Get(ctx context.Context, contractID string) (*models.ContractRecord, error)
}

type TemplateStore interface {
	Get(ctx context.Context, templateID string) (*models.Template, error)
}

// Indexer is satisfied by database.ElasticsearchClient.
type Indexer interface {
	IndexDocument(ctx context.Context, index, id string, doc interface{}) error
}

type Handler struct {
	config    *Config
	contracts ContractStore
	templates TemplateStore
	indexer   Indexer
	responder *camunda.Responder
	logger    logger.Logger
}

func NewHandler(config *Config, contracts ContractStore, templates TemplateStore, indexer Indexer, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:    config,
		contracts: contracts,
		templates: templates,
		indexer:   indexer,
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

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	rec, err := h.contracts.Get(ctx, input.ContractID)
	if err != nil {
		return nil, err
	}

	doc := ContractDocument{
		ContractID:      rec.ID,
		TemplateID:      rec.TemplateID,
		TemplateVersion: rec.TemplateVersion,
		OwnerID:         rec.OwnerID,
		Category:        h.category(ctx, rec.TemplateID),
		Title:           rec.Title,
		Text:            rec.PlainText,
		CreatedAt:       rec.CreatedAt.UTC().Format(time.RFC3339),
	}

	if err := h.indexer.IndexDocument(ctx, h.config.Index, rec.ID, doc); err != nil {
		return nil, errors.NewSearchIndexFailedError(h.config.Index, err)
	}

	h.logger.Info("contract indexed", map[string]interface{}{
		"contractId": rec.ID,
		"index":      h.config.Index,
	})

	return &Output{
		ContractID: rec.ID,
		Index:      h.config.Index,
		IndexedAt:  time.Now().UTC().Format(time.RFC3339),
	}, nil
}

// category is best effort: a missing template still leaves the contract searchable.
func (h *Handler) category(ctx context.Context, templateID string) string {
	if h.templates == nil {
		return ""
	}
	tmpl, err := h.templates.Get(ctx, templateID)
	if err != nil {
		h.logger.Warn("indexing without template category", map[string]interface{}{
			"templateId": templateID,
			"error":      err.Error(),
		})
		return ""
	}
	return tmpl.Category
}
