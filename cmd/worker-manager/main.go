// cmd/worker-manager/main.go
package main

import (
	"context"
	stdErrors "errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"go.uber.org/zap"

	awsclients "contract-workers/internal/common/aws"
	"contract-workers/internal/common/camunda"
	"contract-workers/internal/common/config"
	"contract-workers/internal/common/database"
	"contract-workers/internal/common/logger"
	"contract-workers/internal/common/observability"
	"contract-workers/internal/store"

	ic "contract-workers/internal/workers/contract/index-contract"
	pc "contract-workers/internal/workers/contract/preview-contract"
	rc "contract-workers/internal/workers/contract/render-contract"
	scn "contract-workers/internal/workers/contract/send-contract-notification"
	vfd "contract-workers/internal/workers/contract/validate-form-data"
	svt "contract-workers/internal/workers/template/save-template"
	vts "contract-workers/internal/workers/template/validate-template-structure"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallback := logger.New("info", "console")
		fallback.Fatal("config load failed", zap.Error(err))
	}

	zapLog, err := logger.Build(logger.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		zapLog = logger.New(cfg.Logging.Level, cfg.Logging.Format)
		zapLog.Warn("falling back to stdout logging", zap.Error(err))
	}
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs, err := observability.New(cfg.App.Name)
	if err != nil {
		zapLog.Warn("observability init failed, continuing without otel", zap.Error(err))
		obs = observability.NewNoop()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Zeebe ---
	zeebe, err := camunda.NewClient(ctx, camunda.ClientConfigFrom(cfg.Camunda))
	if err != nil {
		zapLog.Fatal("zeebe client failed", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully")

	// --- PostgreSQL ---
	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		zapLog.Fatal("postgres config invalid", zap.Error(err))
	}
	err = retryWithBackoff(func() error {
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	if err := pg.EnsureSchema(ctx); err != nil {
		zapLog.Fatal("postgres schema setup failed", zap.Error(err))
	}
	zapLog.Info("PostgreSQL connected successfully")

	// --- Redis ---
	rdb := database.NewRedis(cfg.Database.Redis)
	err = retryWithBackoff(func() error {
		return rdb.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer rdb.Close()
	zapLog.Info("Redis connected successfully")

	checks := []readinessCheck{
		{name: "zeebe", check: zeebe.HealthCheck},
		{name: "postgres", check: pg.Ping},
		{name: "redis", check: rdb.Ping},
	}

	// --- Elasticsearch (index-contract only) ---
	var esClient *database.ElasticsearchClient
	if config.IsWorkerEnabled(cfg, config.WorkerIndexContract) {
		esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			zapLog.Fatal("elasticsearch config invalid", zap.Error(err))
		}
		err = retryWithBackoff(func() error {
			return esClient.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "Elasticsearch connection")
		if err != nil {
			zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
		}
		if err := esClient.EnsureContractIndex(ctx, cfg.Contracts.SearchIndex); err != nil {
			zapLog.Fatal("elasticsearch index setup failed", zap.Error(err))
		}
		checks = append(checks, readinessCheck{name: "elasticsearch", check: esClient.Ping})
		zapLog.Info("Elasticsearch connected successfully")
	}

	// --- AWS (send-contract-notification only) ---
	var (
		sesClient *ses.Client
		snsClient *sns.Client
	)
	n := cfg.Contracts.Notification
	if config.IsWorkerEnabled(cfg, config.WorkerSendContractNotification) && (n.EmailEnabled || n.EventEnabled) {
		awsCfg, err := awsclients.LoadConfig(ctx, cfg.Integrations.AWS.Region, cfg.Integrations.AWS.Endpoint)
		if err != nil {
			zapLog.Fatal("aws config failed", zap.Error(err))
		}
		sesClient = awsclients.NewSESClient(awsCfg)
		snsClient = awsclients.NewSNSClient(awsCfg)
		zapLog.Info("AWS clients initialized", zap.String("region", awsCfg.Region))
	}

	templates := store.NewTemplateStore(pg.DB, rdb.Client,
		cfg.Contracts.TemplateCacheTTLDuration(), cfg.Contracts.CacheKeyPrefix, log)
	contracts := store.NewContractStore(pg.DB)

	if cfg.Contracts.CatalogPath != "" {
		seeded, err := seedCatalog(ctx, cfg.Contracts.CatalogPath, templates, templates, log)
		if err != nil {
			zapLog.Warn("template catalog not seeded", zap.String("path", cfg.Contracts.CatalogPath), zap.Error(err))
		} else {
			zapLog.Info("template catalog seeded", zap.Int("saved", seeded))
		}
	}

	// --- Workers ---
	handlers := []workerSpec{
		{key: config.WorkerValidateTemplateStructure, taskType: vts.TaskType,
			handler: vts.NewHandler(vts.LoadConfig(cfg), templates, log)},
		{key: config.WorkerSaveTemplate, taskType: svt.TaskType,
			handler: svt.NewHandler(svt.LoadConfig(cfg), templates, log)},
		{key: config.WorkerValidateFormData, taskType: vfd.TaskType,
			handler: vfd.NewHandler(vfd.LoadConfig(cfg), templates, log)},
		{key: config.WorkerRenderContract, taskType: rc.TaskType,
			handler: rc.NewHandler(rc.LoadConfig(cfg), templates, contracts, log)},
		{key: config.WorkerPreviewContract, taskType: pc.TaskType,
			handler: pc.NewHandler(pc.LoadConfig(cfg), templates, log)},
	}
	if esClient != nil {
		handlers = append(handlers, workerSpec{key: config.WorkerIndexContract, taskType: ic.TaskType,
			handler: ic.NewHandler(ic.LoadConfig(cfg), contracts, templates, esClient, log)})
	}
	if config.IsWorkerEnabled(cfg, config.WorkerSendContractNotification) {
		handlers = append(handlers, workerSpec{key: config.WorkerSendContractNotification, taskType: scn.TaskType,
			handler: scn.NewHandler(scn.LoadConfig(cfg), contracts, sesClient, snsClient, log)})
	}

	workers := startWorkers(cfg, zeebe, handlers, obs, log, zapLog)
	zapLog.Info("workers registered", zap.Int("count", len(workers)))

	// --- Health & Metrics Server ---
	srv := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           newHealthMux(checks),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		zapLog.Info("Health/Metrics server listening", zap.String("address", cfg.Server.Address))
		if err := srv.ListenAndServe(); err != nil && !stdErrors.Is(err, http.ErrServerClosed) {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	<-ctx.Done()
	zapLog.Info("Shutdown signal received, stopping workers...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()

	for _, w := range workers {
		w.Stop()
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping health server", zap.Error(err))
	}
	if err := obs.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error flushing telemetry", zap.Error(err))
	}
	if err := zeebe.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

type workerSpec struct {
	key      string
	taskType string
	handler  camunda.JobHandler
}

func startWorkers(
	cfg *config.Config,
	zeebe *camunda.Client,
	specs []workerSpec,
	obs *observability.Observability,
	log logger.Logger,
	zapLog *zap.Logger,
) []*camunda.CamundaWorker {
	started := make([]*camunda.CamundaWorker, 0, len(specs))
	for _, s := range specs {
		wc := config.GetWorkerConfig(cfg, s.key)
		if !wc.Enabled {
			zapLog.Info("worker disabled", zap.String("taskType", s.taskType))
			continue
		}

		w := camunda.NewWorker(zeebe.Zeebe(), camunda.Registration{
			TaskType:      s.taskType,
			MaxJobsActive: wc.MaxJobsActive,
			Timeout:       config.GetDuration(wc.Timeout),
		}, s.handler, obs, log)
		w.Start()
		started = append(started, w)

		zapLog.Info("worker started",
			zap.String("taskType", s.taskType),
			zap.Int("maxJobsActive", wc.MaxJobsActive),
			zap.Int("timeout_ms", wc.Timeout),
		)
	}
	return started
}
