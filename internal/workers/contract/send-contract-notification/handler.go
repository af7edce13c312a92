// internal/workers/contract/send-contract-notification/handler.go
package sendcontractnotification

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	awsclients "contract-workers/internal/common/aws"
	"contract-workers/internal/common/camunda"
	"contract-workers/internal/common/errors"
	"contract-workers/internal/common/logger"
	"contract-workers/internal/common/validation"
	"contract-workers/internal/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "contract.notify"

var schema = validation.MustCompile(inputSchema)

type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type SNSService interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type ContractStore interface {
	Get(ctx context.Context, contractID string) (*models.ContractRecord, error)
}

type Handler struct {
	config    *Config
	contracts ContractStore
	sesClient SESService
	snsClient SNSService
	responder *camunda.Responder
	logger    logger.Logger
}

func NewHandler(config *Config, contracts ContractStore, sesClient SESService, snsClient SNSService, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:    config,
		contracts: contracts,
		sesClient: sesClient,
		snsClient: snsClient,
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

// Execute emails the rendered contract and publishes a contract.rendered
// event, each only when enabled.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	recipients, err := h.recipients(input.Recipients)
	if err != nil {
		return nil, err
	}

	rec, err := h.contracts.Get(ctx, input.ContractID)
	if err != nil {
		return nil, err
	}

	out := &Output{
		ContractID:  rec.ID,
		EmailStatus: StatusDisabled,
		EventStatus: StatusDisabled,
	}

	if h.config.EmailEnabled && len(recipients) > 0 {
		subject := input.Subject
		if subject == "" {
			subject = fmt.Sprintf("Your contract is ready: %s", rec.Title)
		}
		res, err := h.sesClient.SendEmail(ctx, awsclients.EmailInput(
			h.config.FromEmail, recipients, subject, rec.RenderedContent, rec.PlainText,
		))
		if err != nil {
			return nil, errors.NewNotificationSendFailedError("email", err)
		}
		out.EmailStatus = StatusSent
		out.EmailMessageID = aws.ToString(res.MessageId)
	}

	if h.config.EventEnabled {
		msgID, err := h.publish(ctx, rec)
		if err != nil {
			return nil, errors.NewEventPublishFailedError(h.config.TopicARN, err)
		}
		out.EventStatus = StatusSent
		out.EventMessageID = msgID
	}

	out.SentAt = time.Now().UTC().Format(time.RFC3339)

	h.logger.Info("contract notification processed", map[string]interface{}{
		"contractId":  rec.ID,
		"emailStatus": out.EmailStatus,
		"eventStatus": out.EventStatus,
		"recipients":  len(recipients),
	})
	return out, nil
}

func (h *Handler) recipients(raw []string) ([]string, error) {
	out := make([]string, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, r := range raw {
		addr := strings.TrimSpace(r)
		if !validation.ValidateEmail(addr) {
			return nil, errors.NewInvalidNotificationTargetError(fmt.Sprintf("recipient %q is not a valid email address", r))
		}
		key := strings.ToLower(addr)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, addr)
	}
	if h.config.EmailEnabled && len(out) == 0 {
		return nil, errors.NewInvalidNotificationTargetError("at least one recipient is required when email is enabled")
	}
	return out, nil
}

func (h *Handler) publish(ctx context.Context, rec *models.ContractRecord) (string, error) {
	body, err := json.Marshal(ContractEvent{
		EventType:       EventContractRendered,
		ContractID:      rec.ID,
		TemplateID:      rec.TemplateID,
		TemplateVersion: rec.TemplateVersion,
		OwnerID:         rec.OwnerID,
		Title:           rec.Title,
		CreatedAt:       rec.CreatedAt.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return "", err
	}

	res, err := h.snsClient.Publish(ctx, awsclients.EventInput(
		h.config.TopicARN, EventContractRendered, string(body),
		map[string]string{"eventType": EventContractRendered, "templateId": rec.TemplateID},
	))
	if err != nil {
		return "", err
	}
	return aws.ToString(res.MessageId), nil
}
