// internal/workers/template/save-template/config.go
package savetemplate

import (
	"time"

	"contract-workers/internal/common/config"
)

type Config struct {
	Timeout time.Duration
}

func LoadConfig(cfg *config.Config) *Config {
	wc := config.GetWorkerConfig(cfg, config.WorkerSaveTemplate)
	return &Config{
		Timeout: config.GetDuration(wc.Timeout),
	}
}
