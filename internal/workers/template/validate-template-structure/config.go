// internal/workers/template/validate-template-structure/config.go
package validatetemplatestructure

import (
	"time"

	"contract-workers/internal/common/config"
)

type Config struct {
	Timeout time.Duration
}

func LoadConfig(cfg *config.Config) *Config {
	wc := config.GetWorkerConfig(cfg, config.WorkerValidateTemplateStructure)
	return &Config{
		Timeout: config.GetDuration(wc.Timeout),
	}
}
