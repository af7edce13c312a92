// internal/workers/contract/render-contract/config.go
package rendercontract

import (
	"time"

	"contract-workers/internal/common/config"
)

type Config struct {
	Timeout time.Duration
}

func LoadConfig(cfg *config.Config) *Config {
	wc := config.GetWorkerConfig(cfg, config.WorkerRenderContract)
	return &Config{
		Timeout: config.GetDuration(wc.Timeout),
	}
}
