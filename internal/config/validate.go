package config

import (
	"errors"
	"fmt"

	"lightdance/internal/frameformat"
	"lightdance/internal/timeline"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateOutput(); err != nil {
		return err
	}
	if c.Watch.DebounceMillis <= 0 {
		return errors.New("watch.debounce_ms must be positive")
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if c.DataPath() == c.TimesPath() {
		return fmt.Errorf("paths.data_file and paths.times_file both resolve to %s", c.DataPath())
	}
	outputs := map[string]string{
		c.DataPath():  "paths.data_file",
		c.TimesPath(): "paths.times_file",
	}
	for _, input := range c.InputPaths() {
		if key, ok := outputs[input]; ok {
			return fmt.Errorf("%s would overwrite input document %s", key, input)
		}
	}
	return nil
}

func (c *Config) validateOutput() error {
	if _, err := frameformat.ParseVariant(c.Output.Variant); err != nil {
		return fmt.Errorf("output.variant: %w", err)
	}
	if _, err := frameformat.ParseSingleColorPolicy(c.Output.SingleColor); err != nil {
		return fmt.Errorf("output.single_color: %w", err)
	}
	if _, err := timeline.ParseFadePolicy(c.Output.FadePolicy); err != nil {
		return fmt.Errorf("output.fade_policy: %w", err)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	reserved := append(c.InputPaths(), c.DataPath(), c.TimesPath())
	for _, out := range c.Logging.Outputs {
		for _, path := range reserved {
			if out == path {
				return fmt.Errorf("logging.outputs: %s is a show document or artifact", out)
			}
		}
	}
	return nil
}
