// internal/workers/contract/send-contract-notification/config.go
package sendcontractnotification

import (
	"time"

	"contract-workers/internal/common/config"
)

type Config struct {
	EmailEnabled bool
	FromEmail    string
	EventEnabled bool
	TopicARN     string
	Timeout      time.Duration
}

func LoadConfig(cfg *config.Config) *Config {
	wc := config.GetWorkerConfig(cfg, config.WorkerSendContractNotification)
	n := cfg.Contracts.Notification
	return &Config{
		EmailEnabled: n.EmailEnabled,
		FromEmail:    n.FromEmail,
		EventEnabled: n.EventEnabled,
		TopicARN:     n.TopicARN,
		Timeout:      config.GetDuration(wc.Timeout),
	}
}
