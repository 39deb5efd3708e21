package config

import (
	"fmt"
	"slices"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateSynthesis(); err != nil {
		return err
	}
	if err := c.validateSegmentation(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateSynthesis() error {
	if strings.TrimSpace(c.Synthesis.Command) == "" {
		return fmt.Errorf("synthesis.command must be set")
	}
	if c.Synthesis.Speed <= 0 || c.Synthesis.Speed > maxSpeed {
		return fmt.Errorf("synthesis.speed must be in (0, %g], got %g", maxSpeed, c.Synthesis.Speed)
	}
	return nil
}

func (c *Config) validateSegmentation() error {
	if c.Segmentation.MaxWords < 1 {
		return fmt.Errorf("segmentation.max_words must be at least 1, got %d", c.Segmentation.MaxWords)
	}
	if c.Segmentation.GroupSize <= 0 {
		return fmt.Errorf("segmentation.group_size must be positive, got %d", c.Segmentation.GroupSize)
	}
	if !slices.Contains(OutputFormats, c.Segmentation.OutputFormat) {
		return fmt.Errorf("segmentation.output_format must be one of %s, got %q",
			strings.Join(OutputFormats, ", "), c.Segmentation.OutputFormat)
	}
	return nil
}
