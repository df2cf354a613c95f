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
	c.normalizeOutput()
	return c.normalizeLogging()
}

func (c *Config) normalizePaths() error {
	if value, ok := os.LookupEnv("LIGHTDANCE_INPUT_DIR"); ok && strings.TrimSpace(value) != "" {
		c.Paths.InputDir = value
	}
	if value, ok := os.LookupEnv("LIGHTDANCE_OUTPUT_DIR"); ok && strings.TrimSpace(value) != "" {
		c.Paths.OutputDir = value
	}

	if strings.TrimSpace(c.Paths.InputDir) == "" {
		c.Paths.InputDir = defaultInputDir
	}
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		c.Paths.OutputDir = defaultOutputDir
	}
	var err error
	if c.Paths.InputDir, err = expandPath(strings.TrimSpace(c.Paths.InputDir)); err != nil {
		return fmt.Errorf("paths.input_dir: %w", err)
	}
	if c.Paths.OutputDir, err = expandPath(strings.TrimSpace(c.Paths.OutputDir)); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}

	c.Paths.ControlFile = defaultString(c.Paths.ControlFile, defaultControlFile)
	c.Paths.LEDFile = defaultString(c.Paths.LEDFile, defaultLEDFile)
	c.Paths.OFFile = defaultString(c.Paths.OFFile, defaultOFFile)
	c.Paths.DataFile = defaultString(c.Paths.DataFile, defaultDataFile)
	c.Paths.TimesFile = defaultString(c.Paths.TimesFile, defaultTimesFile)
	return nil
}

func (c *Config) normalizeOutput() {
	if value, ok := os.LookupEnv("LIGHTDANCE_VARIANT"); ok && strings.TrimSpace(value) != "" {
		c.Output.Variant = value
	}
	c.Output.Variant = strings.ToLower(defaultString(c.Output.Variant, defaultVariant))
	c.Output.SingleColor = strings.ToLower(defaultString(c.Output.SingleColor, defaultSingleColor))
	c.Output.FadePolicy = strings.ToLower(defaultString(c.Output.FadePolicy, defaultFadePolicy))
}

func (c *Config) normalizeLogging() error {
	c.Logging.Format = strings.ToLower(defaultString(c.Logging.Format, defaultLogFormat))
	c.Logging.Level = strings.ToLower(defaultString(c.Logging.Level, defaultLogLevel))

	outputs := make([]string, 0, len(c.Logging.Outputs))
	for _, out := range c.Logging.Outputs {
		out = strings.TrimSpace(out)
		switch out {
		case "":
			continue
		case "stdout", "stderr":
		default:
			expanded, err := expandPath(out)
			if err != nil {
				return fmt.Errorf("logging.outputs: %w", err)
			}
			out = expanded
		}
		outputs = append(outputs, out)
	}
	c.Logging.Outputs = outputs
	return nil
}

func defaultString(value, fallback string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback
	}
	return value
}
