// internal/workers/contract/validate-form-data/config.go
package validateformdata

import (
	"time"

	"contract-workers/internal/common/config"
)

type Config struct {
	Timeout time.Duration
}

func LoadConfig(cfg *config.Config) *Config {
	wc := config.GetWorkerConfig(cfg, config.WorkerValidateFormData)
	return &Config{
		Timeout: config.GetDuration(wc.Timeout),
	}
}
