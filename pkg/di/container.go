// Package di provides dependency injection container
package di

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/ssargent/helixcode/pkg/config"
	"github.com/ssargent/helixcode/pkg/frame"
	"github.com/ssargent/helixcode/pkg/pipeline"
)

// Container holds all the dependencies for the application
type Container struct {
	config    *config.Config
	logger    *slog.Logger
	metrics   *pipeline.Metrics
	logOutput io.Writer
}

// NewContainer creates a new dependency injection container with the
// default configuration
func NewContainer() *Container {
	c := &Container{
		metrics:   pipeline.NewMetrics(),
		logOutput: os.Stderr,
	}
	if err := c.SetConfig(config.DefaultConfig()); err != nil {
		panic(err)
	}
	return c
}

// SetConfig validates cfg and rebuilds the logger from it
func (c *Container) SetConfig(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	logger, err := NewLogger(cfg.Logging.Level, c.logOutput)
	if err != nil {
		return err
	}
	c.config = cfg
	c.logger = logger
	return nil
}

// SetLogOutput redirects logging (for testing); call SetConfig afterwards
func (c *Container) SetLogOutput(w io.Writer) {
	c.logOutput = w
	c.logger, _ = NewLogger(c.config.Logging.Level, w)
}

// GetConfig returns the active configuration
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetLogger returns the configured logger
func (c *Container) GetLogger() *slog.Logger {
	return c.logger
}

// GetMetrics returns the pipeline metrics
func (c *Container) GetMetrics() *pipeline.Metrics {
	return c.metrics
}

// PipelineOptions builds pipeline options from the active configuration
func (c *Container) PipelineOptions() pipeline.Options {
	return pipeline.Options{
		Workers:          c.config.Workers,
		Placeholder:      c.config.Placeholder[0],
		SymbolPolicy:     pipeline.SymbolPolicy(c.config.SymbolPolicy),
		ProgressInterval: c.config.ProgressInterval,
		Logger:           c.logger,
		Metrics:          c.metrics,
	}
}

// FrameOptions builds record writer options from the active configuration
func (c *Container) FrameOptions() frame.Options {
	return frame.Options{
		LineWidth: c.config.LineWidth,
		Compress:  c.config.Compress,
	}
}

// FlushMetrics writes metrics to the configured textfile, if any
func (c *Container) FlushMetrics() error {
	if c.config.MetricsFile == "" {
		return nil
	}
	if err := c.metrics.WriteToTextfile(c.config.MetricsFile); err != nil {
		return fmt.Errorf("failed to write metrics file: %w", err)
	}
	return nil
}

// NewLogger returns a text logger writing to w at the named level
func NewLogger(level string, w io.Writer) (*slog.Logger, error) {
	var l slog.Level
	switch strings.ToLower(level) {
	case "debug":
		l = slog.LevelDebug
	case "info", "":
		l = slog.LevelInfo
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		return nil, fmt.Errorf("unknown logging level %q", level)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: l})), nil
}
