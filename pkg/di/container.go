// Package di provides dependency injection container
package di

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/ssargent/hybridrow/pkg/compiler"
	"github.com/ssargent/hybridrow/pkg/config"
	"github.com/ssargent/hybridrow/pkg/logging"
	"github.com/ssargent/hybridrow/pkg/metrics"
)

// Container holds all the dependencies for the application
type Container struct {
	config   *config.Config
	logger   *zap.Logger
	registry *prometheus.Registry
	metrics  *metrics.Metrics
	cache    *compiler.Cache
}

// NewContainer creates a new dependency injection container with the
// default configuration and a no-op logger
func NewContainer() *Container {
	c := &Container{logger: zap.NewNop()}
	c.setConfig(config.DefaultConfig())
	return c
}

// Configure rebuilds the logger, metrics and layout cache from cfg
func (c *Container) Configure(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Encoding)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	c.logger = logger
	c.setConfig(cfg)
	return nil
}

func (c *Container) setConfig(cfg *config.Config) {
	c.config = cfg
	c.registry = prometheus.NewRegistry()
	c.metrics = metrics.NewMetrics(c.registry)
	c.cache = compiler.NewCache(cfg.Compiler.CacheSize,
		compiler.WithLogger(c.logger),
		compiler.WithMetrics(c.metrics))
}

// GetConfig returns the active configuration
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetLogger returns the application logger
func (c *Container) GetLogger() *zap.Logger {
	return c.logger
}

// GetRegistry returns the registry the metrics are registered with
func (c *Container) GetRegistry() *prometheus.Registry {
	return c.registry
}

// GetMetrics returns the application metrics
func (c *Container) GetMetrics() *metrics.Metrics {
	return c.metrics
}

// GetLayoutCache returns the shared compiled layout cache
func (c *Container) GetLayoutCache() *compiler.Cache {
	return c.cache
}

// SetLogger allows overriding the logger (for testing)
func (c *Container) SetLogger(logger *zap.Logger) {
	c.logger = logger
}

// WriteMetrics writes the gathered metrics to the configured textfile. It
// does nothing when metrics are disabled.
func (c *Container) WriteMetrics() error {
	if !c.config.Metrics.Enabled {
		return nil
	}
	if err := prometheus.WriteToTextfile(c.config.Metrics.Textfile, c.registry); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}
	return nil
}
