package common

import (
	"fmt"
	"os"

	"go.temporal.io/sdk/client"
	"go.uber.org/zap"
)

const (
	DefaultHostPort  = "127.0.0.1:7233"
	DefaultNamespace = "default"
	DefaultTaskQueue = "rapidscribe-transcription-queue"
)

// Config holds the Temporal connection settings.
type Config struct {
	HostPort  string
	Namespace string
	TaskQueue string
}

// ConfigFromEnv reads the connection settings from the environment.
func ConfigFromEnv() Config {
	return Config{
		HostPort:  getEnv("TEMPORAL_HOST", DefaultHostPort),
		Namespace: getEnv("TEMPORAL_NAMESPACE", DefaultNamespace),
		TaskQueue: getEnv("TEMPORAL_TASK_QUEUE", DefaultTaskQueue),
	}
}

// NewClient dials the Temporal server. The zap logger is adapted onto the
// SDK's logging interface so workflow and activity logs land in one place.
func NewClient(cfg Config, log *zap.Logger) (client.Client, error) {
	options := client.Options{
		HostPort:  cfg.HostPort,
		Namespace: cfg.Namespace,
	}
	if log != nil {
		options.Logger = NewZapAdapter(log)
	}

	c, err := client.Dial(options)
	if err != nil {
		return nil, fmt.Errorf("dial temporal at %s: %w", cfg.HostPort, err)
	}
	return c, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
