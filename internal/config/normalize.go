package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeSynthesis()
	c.normalizeSegmentation()
	c.normalizeLogging()
	if c.Cache.MaxAgeDays < 0 {
		c.Cache.MaxAgeDays = 0
	}
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		c.Paths.OutputDir = defaultOutputDir
	}
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.CacheDir) == "" {
		c.Paths.CacheDir = defaultCacheDir
	}
	if c.Paths.CacheDir, err = expandPath(c.Paths.CacheDir); err != nil {
		return fmt.Errorf("paths.cache_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeSynthesis() {
	c.Synthesis.Command = strings.TrimSpace(c.Synthesis.Command)
	if c.Synthesis.Command == "" {
		c.Synthesis.Command = defaultSynthesisCmd
	}
	c.Synthesis.Voice = strings.TrimSpace(c.Synthesis.Voice)
	if value, ok := os.LookupEnv("NARRASYNC_VOICE"); ok && strings.TrimSpace(value) != "" {
		c.Synthesis.Voice = strings.TrimSpace(value)
	}
	if c.Synthesis.Voice == "" {
		c.Synthesis.Voice = defaultVoice
	}
	if c.Synthesis.TimeoutSeconds <= 0 {
		c.Synthesis.TimeoutSeconds = defaultTimeoutSeconds
	}
}

func (c *Config) normalizeSegmentation() {
	c.Segmentation.OutputFormat = strings.ToLower(strings.TrimSpace(c.Segmentation.OutputFormat))
	switch c.Segmentation.OutputFormat {
	case "":
		c.Segmentation.OutputFormat = defaultOutputFormat
	case "yml":
		c.Segmentation.OutputFormat = "yaml"
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
