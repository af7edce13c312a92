// internal/workers/contract/render-contract/handler_test.go
package rendercontract

import (
	"context"
	stdErrors "errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"contract-workers/internal/common/errors"
	"contract-workers/internal/common/logger"
	"contract-workers/internal/engine/formdata"
	"contract-workers/internal/models"
	"contract-workers/internal/store"
	"contract-workers/internal/testutil"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

func createTestHandler(t *testing.T, templates TemplateStore, contracts ContractStore) *Handler {
	h := NewHandler(&Config{Timeout: 5 * time.Second}, templates, contracts, logger.NewTestLogger(t))
	h.now = func() time.Time { return fixedNow }
	return h
}

func servicesStore() *testutil.MockTemplateStore {
	s := &testutil.MockTemplateStore{}
	s.On("Get", mock.Anything, "tmpl-services").Return(testutil.ServicesTemplate(), nil)
	return s
}

func TestHandler_Execute_RendersAndStores(t *testing.T) {
	contracts := &testutil.MockContractStore{}
	var stored *models.ContractRecord
	contracts.On("Insert", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { stored = args.Get(1).(*models.ContractRecord) }).
		Return(nil)

	output, err := createTestHandler(t, servicesStore(), contracts).Execute(context.Background(), &Input{
		TemplateID: "tmpl-services",
		OwnerID:    "user-42",
		FormData:   testutil.ServicesAnswers(true),
	})

	require.NoError(t, err)
	assert.Equal(t, "Services Agreement with Acme Ltd", output.Title)
	assert.Contains(t, output.HTML, "<h2>Non-Compete</h2>")
	assert.Contains(t, output.HTML, "The fee is 12,500.00 payable from January 15, 2026.")
	assert.Contains(t, output.Text, "Restriction period: 6 months.")
	assert.Equal(t, 2, output.TemplateVersion)
	assert.Equal(t, "2026-03-02T10:00:00Z", output.CreatedAt)

	require.NotNil(t, stored)
	assert.Equal(t, output.ContractID, stored.ID)
	assert.Len(t, stored.ID, 36)
	assert.Equal(t, "user-42", stored.OwnerID)
	assert.Equal(t, output.HTML, stored.RenderedContent)
	assert.Equal(t, output.Text, stored.PlainText)
	assert.Equal(t, fixedNow, stored.CreatedAt)
	contracts.AssertExpectations(t)
}

func TestHandler_Execute_DisabledClauseOmitsSection(t *testing.T) {
	contracts := &testutil.MockContractStore{}
	contracts.On("Insert", mock.Anything, mock.Anything).Return(nil)

	output, err := createTestHandler(t, servicesStore(), contracts).Execute(context.Background(), &Input{
		TemplateID: "tmpl-services",
		FormData:   testutil.ServicesAnswers(false),
	})

	require.NoError(t, err)
	assert.NotContains(t, output.HTML, "Non-Compete")
	assert.NotContains(t, output.Text, "Restriction period")
}

func TestHandler_Execute_InvalidAnswersStoreNothing(t *testing.T) {
	data := testutil.ServicesAnswers(false)
	data.Values["client_email"] = "nope"
	contracts := &testutil.MockContractStore{}

	output, err := createTestHandler(t, servicesStore(), contracts).Execute(context.Background(), &Input{
		TemplateID: "tmpl-services",
		FormData:   data,
	})

	assert.Nil(t, output)
	var stdErr *errors.StandardError
	require.True(t, stdErrors.As(err, &stdErr))
	assert.Equal(t, errors.ErrCodeFormDataInvalid, stdErr.Code)

	verrs, ok := stdErr.Metadata["validationErrors"].([]formdata.FieldError)
	require.True(t, ok)
	require.Len(t, verrs, 1)
	assert.Equal(t, "client_email", verrs[0].FieldID)

	bpmn := errors.ConvertToBPMNError(stdErr)
	assert.Equal(t, 0, bpmn.Retries)
	assert.Contains(t, bpmn.ErrorVariables, "validationErrors")
	contracts.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestHandler_Execute_InactiveTemplate(t *testing.T) {
	tmpl := testutil.ServicesTemplate()
	tmpl.IsActive = false
	templates := &testutil.MockTemplateStore{}
	templates.On("Get", mock.Anything, "tmpl-services").Return(tmpl, nil)

	_, err := createTestHandler(t, templates, &testutil.MockContractStore{}).Execute(context.Background(), &Input{
		TemplateID: "tmpl-services",
		FormData:   testutil.ServicesAnswers(false),
	})

	var stdErr *errors.StandardError
	require.True(t, stdErrors.As(err, &stdErr))
	assert.Equal(t, errors.ErrCodeTemplateInactive, stdErr.Code)
}

func TestHandler_Execute_PersistsThroughPostgres(t *testing.T) {
	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	sqlMock.ExpectExec(regexp.QuoteMeta("INSERT INTO contracts")).
		WithArgs(sqlmock.AnyArg(), "tmpl-services", 2, "", "Services Agreement with Acme Ltd",
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), fixedNow).
		WillReturnResult(sqlmock.NewResult(1, 1))

	output, err := createTestHandler(t, servicesStore(), store.NewContractStore(db)).Execute(context.Background(), &Input{
		TemplateID: "tmpl-services",
		FormData:   testutil.ServicesAnswers(false),
	})

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(output.HTML, "<article>"))
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestHandler_Execute_InsertFailureIsRetryable(t *testing.T) {
	contracts := &testutil.MockContractStore{}
	contracts.On("Insert", mock.Anything, mock.Anything).
		Return(errors.NewDatabaseInsertFailedError(stdErrors.New("timeout")))

	_, err := createTestHandler(t, servicesStore(), contracts).Execute(context.Background(), &Input{
		TemplateID: "tmpl-services",
		FormData:   testutil.ServicesAnswers(false),
	})

	var stdErr *errors.StandardError
	require.True(t, stdErrors.As(err, &stdErr))
	assert.True(t, stdErr.Retryable)
	assert.Equal(t, 3, errors.ConvertToBPMNError(stdErr).Retries)
}
