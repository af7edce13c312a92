// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)

	TemplateValidations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "contract_template_validations_total",
			Help: "Template structure validations by outcome",
		},
		[]string{"result"},
	)

	FormDataValidations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "contract_formdata_validations_total",
			Help: "Form data validations by outcome",
		},
		[]string{"result"},
	)

	ValidationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "contract_validation_errors_total",
			Help: "Individual validation errors by code",
		},
		[]string{"code"},
	)

	ContractsRendered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "contracts_rendered_total",
			Help: "Rendered contracts by mode (render or preview)",
		},
		[]string{"mode"},
	)

	TemplateCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "contract_template_cache_lookups_total",
			Help: "Template cache lookups by result",
		},
		[]string{"result"},
	)
)

// Outcome returns the label used for a validation result.
func Outcome(valid bool) string {
	if valid {
		return "valid"
	}
	return "invalid"
}
