// internal/workers/contract/index-contract/config.go
package indexcontract

import (
	"time"

	"contract-workers/internal/common/config"
)

type Config struct {
	Index   string
	Timeout time.Duration
}

func LoadConfig(cfg *config.Config) *Config {
	wc := config.GetWorkerConfig(cfg, config.WorkerIndexContract)
	return &Config{
		Index:   cfg.Contracts.SearchIndex,
		Timeout: config.GetDuration(wc.Timeout),
	}
}
