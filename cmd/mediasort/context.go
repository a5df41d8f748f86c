package main

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"mediasort/internal/config"
	"mediasort/internal/deps"
	"mediasort/internal/history"
	"mediasort/internal/logging"
	"mediasort/internal/services/exiftool"
	"mediasort/internal/tagging"
	"mediasort/internal/workflow"
)

type commandContext struct {
	configFlag   *string
	logLevelFlag *string

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag, logLevelFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if c.logLevelFlag != nil && strings.TrimSpace(*c.logLevelFlag) != "" {
			cfg.Logging.Level = strings.TrimSpace(*c.logLevelFlag)
		}
		c.config = cfg
		c.configPath = resolved
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.NewFromConfig(cfg)
	})
	return c.logger, c.loggerErr
}

// exifToolClient returns a client for the configured binary, or nil when the
// binary cannot be found on PATH.
func (c *commandContext) exifToolClient() (*exiftool.Client, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if missing := deps.Missing(deps.CheckBinaries(deps.Requirements(cfg))); len(missing) > 0 {
		return nil, nil
	}
	return exiftool.New(
		cfg.ExifToolBinary(),
		cfg.ExifTool.TimeoutSeconds,
		exiftool.WithOverwriteOriginal(cfg.ExifTool.OverwriteOriginal),
	)
}

// newRunner wires the runner for one invocation. The returned cleanup closes
// the history store when one was opened.
func (c *commandContext) newRunner(withHistory bool) (*workflow.Runner, func(), error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, nil, err
	}

	var opts []workflow.Option
	client, err := c.exifToolClient()
	if err != nil {
		return nil, nil, fmt.Errorf("configure exiftool: %w", err)
	}
	if client != nil {
		opts = append(opts, workflow.WithTagger(tagging.NewWriter(client, logger)))
	} else {
		logger.Warn("exiftool not found; rows with dates or tags cannot be processed",
			logging.String("binary", cfg.ExifToolBinary()),
			logging.String(logging.FieldErrorHint, "install exiftool or set exiftool.binary"),
		)
	}

	cleanup := func() {}
	if withHistory && cfg.History.Enabled {
		store, err := history.Open(cfg)
		if err != nil {
			logger.Warn("run history unavailable", logging.Error(err))
		} else {
			opts = append(opts, workflow.WithHistory(store))
			cleanup = func() { _ = store.Close() }
		}
	}

	return workflow.NewRunner(cfg, logger, opts...), cleanup, nil
}

func (c *commandContext) openHistory() (*history.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if !cfg.History.Enabled {
		return nil, fmt.Errorf("run history is disabled (history.enabled = false)")
	}
	return history.Open(cfg)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
