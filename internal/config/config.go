package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"lightdance/internal/frameformat"
	"lightdance/internal/timeline"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths names the input documents and output artifacts. File names are
// resolved against their directory unless they are absolute.
type Paths struct {
	InputDir    string `toml:"input_dir"`
	OutputDir   string `toml:"output_dir"`
	ControlFile string `toml:"control_file"`
	LEDFile     string `toml:"led_file"`
	OFFile      string `toml:"of_file"`
	DataFile    string `toml:"data_file"`
	TimesFile   string `toml:"times_file"`
	LogDir      string `toml:"log_dir"`
}

// Output contains the artifact format and merge policies.
type Output struct {
	Variant         string `toml:"variant"`
	SingleColor     string `toml:"single_color"`
	FadePolicy      string `toml:"fade_policy"`
	TrailingNewline bool   `toml:"trailing_newline"`
	// DeviceLimits warns when a show exceeds the firmware reader's buffers.
	DeviceLimits bool `toml:"device_limits"`
}

// Watch contains settings for convert --watch.
type Watch struct {
	DebounceMillis int `toml:"debounce_ms"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
	// Development records the caller on every line.
	Development bool `toml:"development"`
	// Outputs lists extra destinations: "stdout", "stderr" or file paths.
	Outputs []string `toml:"outputs"`
}

// Config encapsulates all configuration values for lightdance.
//
// Configuration sections:
//   - Paths: input documents, output artifacts, optional log directory
//   - Output: variant, single color expansion, fade resolution
//   - Watch: debounce for re-running on input change
//   - Logging: log format and level
type Config struct {
	Paths   Paths   `toml:"paths"`
	Output  Output  `toml:"output"`
	Watch   Watch   `toml:"watch"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/lightdance/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := loadDotEnv(dotEnvFile); err != nil {
		return nil, "", false, err
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs(projectConfigFile)
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}

	return defaultPath, false, nil
}

// loadDotEnv reads KEY=value pairs from path into the environment without
// overriding variables that are already set. A missing file is not an error.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// ControlPath returns the control document path.
func (c *Config) ControlPath() string { return within(c.Paths.InputDir, c.Paths.ControlFile) }

// LEDPath returns the LED document path.
func (c *Config) LEDPath() string { return within(c.Paths.InputDir, c.Paths.LEDFile) }

// OFPath returns the OF document path.
func (c *Config) OFPath() string { return within(c.Paths.InputDir, c.Paths.OFFile) }

// DataPath returns the frame-data artifact path.
func (c *Config) DataPath() string { return within(c.Paths.OutputDir, c.Paths.DataFile) }

// TimesPath returns the timing artifact path.
func (c *Config) TimesPath() string { return within(c.Paths.OutputDir, c.Paths.TimesFile) }

// LockPath returns the advisory lock guarding artifact writes.
func (c *Config) LockPath() string { return filepath.Join(c.Paths.OutputDir, lockFileName) }

// InputPaths returns the three input documents in load order.
func (c *Config) InputPaths() []string {
	return []string{c.ControlPath(), c.LEDPath(), c.OFPath()}
}

// FrameOptions returns the emitter options. The config must have been validated.
func (c *Config) FrameOptions() frameformat.Options {
	variant, _ := frameformat.ParseVariant(c.Output.Variant)
	single, _ := frameformat.ParseSingleColorPolicy(c.Output.SingleColor)
	return frameformat.Options{
		Variant:         variant,
		SingleColor:     single,
		TrailingNewline: c.Output.TrailingNewline,
	}
}

// MergeOptions returns the timeline options. The config must have been validated.
func (c *Config) MergeOptions() timeline.Options {
	policy, _ := timeline.ParseFadePolicy(c.Output.FadePolicy)
	return timeline.Options{Fade: policy}
}

// EnsureDirectories creates the output and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.OutputDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

func within(dir, name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(dir, name)
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
