// internal/workers/contract/send-contract-notification/handler_test.go
package sendcontractnotification

import (
	"context"
	"encoding/json"
	stdErrors "errors"
	"testing"
	"time"

	"contract-workers/internal/common/errors"
	"contract-workers/internal/common/logger"
	"contract-workers/internal/testutil"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSESService struct {
	SendEmailFunc func(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

func (m *MockSESService) SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	return m.SendEmailFunc(ctx, params, optFns...)
}

type MockSNSService struct {
	PublishFunc func(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

func (m *MockSNSService) Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
	return m.PublishFunc(ctx, params, optFns...)
}

func createTestConfig() *Config {
	return &Config{
		EmailEnabled: true,
		FromEmail:    "contracts@example.com",
		EventEnabled: true,
		TopicARN:     "arn:aws:sns:us-east-1:000000000000:contract-events",
		Timeout:      5 * time.Second,
	}
}

func okSES(captured **ses.SendEmailInput) *MockSESService {
	return &MockSESService{SendEmailFunc: func(_ context.Context, params *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
		if captured != nil {
			*captured = params
		}
		return &ses.SendEmailOutput{MessageId: aws.String("ses-msg-1")}, nil
	}}
}

func okSNS(captured **sns.PublishInput) *MockSNSService {
	return &MockSNSService{PublishFunc: func(_ context.Context, params *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
		if captured != nil {
			*captured = params
		}
		return &sns.PublishOutput{MessageId: aws.String("sns-msg-1")}, nil
	}}
}

func contractStore() *testutil.MockContractStore {
	s := &testutil.MockContractStore{}
	s.On("Get", mock.Anything, "contract-1").Return(testutil.ContractRecord(), nil)
	return s
}

func createTestHandler(t *testing.T, cfg *Config, sesClient SESService, snsClient SNSService) *Handler {
	if cfg == nil {
		cfg = createTestConfig()
	}
	return NewHandler(cfg, contractStore(), sesClient, snsClient, logger.NewTestLogger(t))
}

func TestHandler_Execute_EmailAndEvent(t *testing.T) {
	var email *ses.SendEmailInput
	var event *sns.PublishInput

	output, err := createTestHandler(t, nil, okSES(&email), okSNS(&event)).Execute(context.Background(), &Input{
		ContractID: "contract-1",
		Recipients: []string{"legal@acme.example", " Legal@Acme.example "},
	})

	require.NoError(t, err)
	assert.Equal(t, StatusSent, output.EmailStatus)
	assert.Equal(t, "ses-msg-1", output.EmailMessageID)
	assert.Equal(t, StatusSent, output.EventStatus)
	assert.Equal(t, "sns-msg-1", output.EventMessageID)
	assert.NotEmpty(t, output.SentAt)

	require.NotNil(t, email)
	assert.Equal(t, []string{"legal@acme.example"}, email.Destination.ToAddresses)
	assert.Equal(t, "Your contract is ready: Services Agreement with Acme Ltd", *email.Message.Subject.Data)
	assert.Contains(t, *email.Message.Body.Html.Data, "<article>")
	assert.Equal(t, "Services Agreement with Acme Ltd\n", *email.Message.Body.Text.Data)

	require.NotNil(t, event)
	var body ContractEvent
	require.NoError(t, json.Unmarshal([]byte(*event.Message), &body))
	assert.Equal(t, EventContractRendered, body.EventType)
	assert.Equal(t, "contract-1", body.ContractID)
	assert.Equal(t, "tmpl-services", *event.MessageAttributes["templateId"].StringValue)
}

func TestHandler_Execute_ChannelsDisabled(t *testing.T) {
	cfg := createTestConfig()
	cfg.EmailEnabled = false
	cfg.EventEnabled = false
	silent := &MockSESService{SendEmailFunc: func(context.Context, *ses.SendEmailInput, ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
		t.Fatal("email must not be sent")
		return nil, nil
	}}

	output, err := createTestHandler(t, cfg, silent, okSNS(nil)).Execute(context.Background(), &Input{ContractID: "contract-1"})

	require.NoError(t, err)
	assert.Equal(t, StatusDisabled, output.EmailStatus)
	assert.Equal(t, StatusDisabled, output.EventStatus)
}

func TestHandler_Execute_InvalidRecipient(t *testing.T) {
	_, err := createTestHandler(t, nil, okSES(nil), okSNS(nil)).Execute(context.Background(), &Input{
		ContractID: "contract-1",
		Recipients: []string{"not-an-address"},
	})

	var stdErr *errors.StandardError
	require.True(t, stdErrors.As(err, &stdErr))
	assert.Equal(t, errors.ErrCodeInvalidNotificationTarget, stdErr.Code)
	assert.False(t, stdErr.Retryable)
}

func TestHandler_Execute_NoRecipientsWithEmailEnabled(t *testing.T) {
	_, err := createTestHandler(t, nil, okSES(nil), okSNS(nil)).Execute(context.Background(), &Input{ContractID: "contract-1"})

	var stdErr *errors.StandardError
	require.True(t, stdErrors.As(err, &stdErr))
	assert.Equal(t, errors.ErrCodeInvalidNotificationTarget, stdErr.Code)
}

func TestHandler_Execute_EmailFailure(t *testing.T) {
	failing := &MockSESService{SendEmailFunc: func(context.Context, *ses.SendEmailInput, ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
		return nil, stdErrors.New("throttled")
	}}

	_, err := createTestHandler(t, nil, failing, okSNS(nil)).Execute(context.Background(), &Input{
		ContractID: "contract-1",
		Recipients: []string{"legal@acme.example"},
	})

	var stdErr *errors.StandardError
	require.True(t, stdErrors.As(err, &stdErr))
	assert.Equal(t, errors.ErrCodeNotificationSendFailed, stdErr.Code)
	assert.True(t, stdErr.Retryable)
}

func TestHandler_Execute_EventFailure(t *testing.T) {
	cfg := createTestConfig()
	cfg.EmailEnabled = false
	failing := &MockSNSService{PublishFunc: func(context.Context, *sns.PublishInput, ...func(*sns.Options)) (*sns.PublishOutput, error) {
		return nil, stdErrors.New("topic not found")
	}}

	_, err := createTestHandler(t, cfg, okSES(nil), failing).Execute(context.Background(), &Input{ContractID: "contract-1"})

	var stdErr *errors.StandardError
	require.True(t, stdErrors.As(err, &stdErr))
	assert.Equal(t, errors.ErrCodeEventPublishFailed, stdErr.Code)
}
