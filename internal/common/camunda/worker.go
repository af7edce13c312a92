// internal/common/camunda/worker.go
package camunda

import (
	"context"
	"time"

	"contract-workers/internal/common/errors"
	"contract-workers/internal/common/logger"
	"contract-workers/internal/common/metrics"
	"contract-workers/internal/common/observability"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"go.opentelemetry.io/otel/attribute"
)

// JobHandler is implemented by every worker package.
type JobHandler interface {
	Handle(client worker.JobClient, job entities.Job)
}

// Registration describes how a handler is subscribed to a task type.
type Registration struct {
	TaskType      string
	MaxJobsActive int
	Timeout       time.Duration
}

type CamundaWorker struct {
	worker   worker.JobWorker
	logger   logger.Logger
	taskType string
}

// NewWorker opens a job worker for reg.TaskType. Each job is wrapped in a span
// and counted in the active-jobs gauge and duration histogram.
func NewWorker(
	client zbc.Client,
	reg Registration,
	handler JobHandler,
	obs *observability.Observability,
	log logger.Logger,
) *CamundaWorker {
	wrapped := func(jc worker.JobClient, job entities.Job) {
		ctx, span := obs.StartSpan(context.Background(), reg.TaskType,
			attribute.Int64("job.key", job.Key),
			attribute.Int64("process.instance.key", job.ProcessInstanceKey),
		)
		defer span.End()

		active := metrics.WorkerJobsActive.WithLabelValues(reg.TaskType)
		active.Inc()
		defer active.Dec()

		start := time.Now()
		handler.Handle(jc, job)
		elapsed := time.Since(start)

		metrics.WorkerJobDuration.WithLabelValues(reg.TaskType).Observe(elapsed.Seconds())
		obs.RecordJobProcessed(ctx, reg.TaskType, "handled")
		obs.RecordJobDuration(ctx, reg.TaskType, elapsed, "handled")
	}

	builder := client.NewJobWorker().
		JobType(reg.TaskType).
		Handler(wrapped).
		Name(reg.TaskType).
		MaxJobsActive(reg.MaxJobsActive)
	if reg.Timeout > 0 {
		builder = builder.Timeout(reg.Timeout)
	}

	return &CamundaWorker{
		worker:   builder.Open(),
		logger:   log.WithFields(map[string]interface{}{"taskType": reg.TaskType}),
		taskType: reg.TaskType,
	}
}

func (w *CamundaWorker) Start() {
	w.logger.Info("worker started", nil)
}

// Stop closes the job subscription and waits for in-flight jobs.
func (w *CamundaWorker) Stop() {
	w.logger.Info("stopping worker", nil)
	w.worker.Close()
	w.worker.AwaitClose()
}

// Responder completes or fails jobs for one task type and keeps the job
// counters in step.
type Responder struct {
	taskType string
	errors   *errors.ErrorHandler
	logger   logger.Logger
}

func NewResponder(taskType string, log logger.Logger) *Responder {
	return &Responder{
		taskType: taskType,
		errors:   errors.NewErrorHandler(log),
		logger:   log,
	}
}

// Complete sends output as the job's result variables.
func (r *Responder) Complete(ctx context.Context, client worker.JobClient, job entities.Job, output interface{}) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		r.logger.Error("failed to create complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
		r.Fail(ctx, client, job, errors.NewInternalError(err))
		return
	}
	if _, err := cmd.Send(ctx); err != nil {
		r.logger.Error("failed to send complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
		return
	}
	metrics.WorkerJobsCompleted.WithLabelValues(r.taskType).Inc()
}

// Fail routes err through the error handler: technical errors are retried,
// business errors are thrown as BPMN errors.
func (r *Responder) Fail(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	stdErr := errors.Normalize(err)
	metrics.WorkerJobsFailed.WithLabelValues(r.taskType, string(stdErr.Code)).Inc()
	r.errors.HandleJobError(ctx, client, job, stdErr)
}
