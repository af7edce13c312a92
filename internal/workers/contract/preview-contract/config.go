// internal/workers/contract/preview-contract/config.go
package previewcontract

import (
	"time"

	"contract-workers/internal/common/config"
)

type Config struct {
	Timeout time.Duration
}

func LoadConfig(cfg *config.Config) *Config {
	wc := config.GetWorkerConfig(cfg, config.WorkerPreviewContract)
	return &Config{
		Timeout: config.GetDuration(wc.Timeout),
	}
}
