package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/haasonsaas/embedinfo/internal/actions"
	"github.com/haasonsaas/embedinfo/internal/config"
	"github.com/haasonsaas/embedinfo/internal/observability"
	"github.com/haasonsaas/embedinfo/internal/storage"
)

// resolveConfigPath prefers EMBEDINFO_CONFIG over the default path.
func resolveConfigPath(path string) string {
	if env := strings.TrimSpace(os.Getenv("EMBEDINFO_CONFIG")); env != "" && (path == "" || path == defaultConfigPath) {
		return env
	}
	if strings.TrimSpace(path) == "" {
		return defaultConfigPath
	}
	return path
}

// loadConfig loads path. A missing default config falls back to defaults.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err == nil {
		return cfg, nil
	}
	if path == defaultConfigPath && errors.Is(err, os.ErrNotExist) {
		return config.Default(), nil
	}
	return nil, err
}

// app wires the components a command needs from the configuration.
type app struct {
	cfg      *config.Config
	logger   *observability.Logger
	metrics  *observability.Metrics
	promReg  *prometheus.Registry
	tracer   *observability.Tracer
	registry *actions.Registry
	stores   storage.StoreSet
	shutdown func(context.Context) error
}

func newApp(configPath string, logOutput io.Writer) (*app, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, err
	}

	logger := observability.NewLogger(observability.LogConfig{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: logOutput,
	})
	promReg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(promReg)
	tracer, shutdown := observability.NewTracer(observability.TraceConfig{
		ServiceName:    cfg.Tracing.ServiceName,
		ServiceVersion: version,
		Environment:    cfg.Tracing.Environment,
		Endpoint:       cfg.Tracing.Endpoint,
		SamplingRate:   cfg.Tracing.SamplingRate,
		EnableInsecure: cfg.Tracing.Insecure,
	})

	registry, err := actions.NewDefaultRegistry(logger.Slog(), metrics)
	if err != nil {
		_ = shutdown(context.Background())
		return nil, err
	}
	stores, err := storage.Open(cfg.Storage.Driver, cfg.Storage.DSN, nil)
	if err != nil {
		_ = shutdown(context.Background())
		return nil, fmt.Errorf("open storage: %w", err)
	}

	return &app{
		cfg:      cfg,
		logger:   logger,
		metrics:  metrics,
		promReg:  promReg,
		tracer:   tracer,
		registry: registry,
		stores:   stores,
		shutdown: shutdown,
	}, nil
}

// close flushes traces, writes the metrics text file and closes storage.
func (a *app) close(ctx context.Context) error {
	var errs []error
	if path := a.cfg.Metrics.Textfile; path != "" {
		if err := prometheus.WriteToTextfile(path, a.promReg); err != nil {
			errs = append(errs, fmt.Errorf("write metrics: %w", err))
		}
	}
	if err := a.shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("flush traces: %w", err))
	}
	if err := a.stores.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close storage: %w", err))
	}
	return errors.Join(errs...)
}
