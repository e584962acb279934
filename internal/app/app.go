package app

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/specialistvlad/gridwords/internal/config"
	"github.com/specialistvlad/gridwords/internal/ctxlog"
	"github.com/specialistvlad/gridwords/internal/metrics"
	"github.com/specialistvlad/gridwords/internal/model"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW       io.Writer
	logger     *slog.Logger
	appConfig  *Config
	config     *config.Model
	metrics    *metrics.Metrics
	httpServer *http.Server
	report     *Report
}

// NewApp is the constructor for the main application. It loads and validates
// the run file; a failure is returned as a *model.ConfigurationError.
func NewApp(outW, logW io.Writer, appConfig *Config, loader config.Loader) (*App, error) {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	cfgModel, err := loader.Load(ctx, appConfig.ConfigPaths...)
	if err != nil {
		return nil, &model.ConfigurationError{Field: "config", Message: "failed to load run file", Err: err}
	}
	if appConfig.OutputPath != "" {
		cfgModel.Output.Path = appConfig.OutputPath
	}
	if err := cfgModel.Validate(); err != nil {
		return nil, err
	}
	logger.Debug("Configuration loaded and validated.")

	return &App{
		outW:      outW,
		logger:    logger,
		appConfig: appConfig,
		config:    cfgModel,
		metrics:   metrics.New(),
	}, nil
}

// Config returns the loaded run configuration. This is primarily for testing.
func (a *App) Config() *config.Model {
	return a.config
}

// Report returns the outcome of the last Run, or nil.
func (a *App) Report() *Report {
	return a.report
}
