package app

import "errors"

// Config holds the process-level settings for an App instance. Everything
// about the run itself lives in the HCL run file.
type Config struct {
	ConfigPaths []string // hcl files or directories
	OutputPath  string   // overrides output.path when set

	LogFormat       string
	LogLevel        string
	HealthcheckPort int
	WorkerCount     int
}

func NewConfig(cfg Config) (*Config, error) {
	if len(cfg.ConfigPaths) == 0 {
		return nil, errors.New("a run file is required")
	}
	if cfg.WorkerCount < 0 {
		return nil, errors.New("workers must not be negative")
	}
	if cfg.HealthcheckPort < 0 || cfg.HealthcheckPort > 65535 {
		return nil, errors.New("healthcheck-port must be between 0 and 65535")
	}
	return &cfg, nil
}
