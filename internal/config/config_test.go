package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"lightdance/internal/config"
	"lightdance/internal/frameformat"
	"lightdance/internal/timeline"
)

func TestLoadDefaultsResolveAgainstWorkingDirectory(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	work := t.TempDir()
	t.Chdir(work)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected config file to be absent")
	}
	if !strings.HasSuffix(resolved, filepath.Join(".config", "lightdance", "config.toml")) {
		t.Fatalf("unexpected resolved path: %q", resolved)
	}

	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ControlPath() != filepath.Join(wd, "control.json") {
		t.Fatalf("unexpected control path: %q", cfg.ControlPath())
	}
	if cfg.LEDPath() != filepath.Join(wd, "LED.json") || cfg.OFPath() != filepath.Join(wd, "OF.json") {
		t.Fatalf("unexpected input paths: %v", cfg.InputPaths())
	}
	if cfg.DataPath() != filepath.Join(wd, "lightdance_data.txt") {
		t.Fatalf("unexpected data path: %q", cfg.DataPath())
	}
	if cfg.TimesPath() != filepath.Join(wd, "frame_times.txt") {
		t.Fatalf("unexpected times path: %q", cfg.TimesPath())
	}
	opts := cfg.FrameOptions()
	if opts.Variant != frameformat.VariantHex || opts.SingleColor != frameformat.SingleBroadcast || opts.TrailingNewline {
		t.Fatalf("unexpected frame options: %+v", opts)
	}
	if cfg.MergeOptions().Fade != timeline.FadeLast {
		t.Fatalf("unexpected merge options: %+v", cfg.MergeOptions())
	}
	if !cfg.Output.DeviceLimits {
		t.Fatal("expected device limit warnings enabled by default")
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "lightdance.toml")

	type payload struct {
		Paths struct {
			InputDir  string `toml:"input_dir"`
			OutputDir string `toml:"output_dir"`
			DataFile  string `toml:"data_file"`
		} `toml:"paths"`
		Output struct {
			Variant    string `toml:"variant"`
			FadePolicy string `toml:"fade_policy"`
		} `toml:"output"`
		Watch struct {
			DebounceMillis int `toml:"debounce_ms"`
		} `toml:"watch"`
	}
	custom := payload{}
	custom.Paths.InputDir = filepath.Join(tempDir, "show")
	custom.Paths.OutputDir = filepath.Join(tempDir, "sd")
	custom.Paths.DataFile = "patterntable.txt"
	custom.Output.Variant = "RAW"
	custom.Output.FadePolicy = "any"
	custom.Watch.DebounceMillis = 50

	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != configPath {
		t.Fatalf("unexpected resolution: %q exists=%v", resolved, exists)
	}
	if cfg.ControlPath() != filepath.Join(tempDir, "show", "control.json") {
		t.Fatalf("unexpected control path: %q", cfg.ControlPath())
	}
	if cfg.DataPath() != filepath.Join(tempDir, "sd", "patterntable.txt") {
		t.Fatalf("unexpected data path: %q", cfg.DataPath())
	}
	if cfg.FrameOptions().Variant != frameformat.VariantRaw {
		t.Fatalf("expected raw variant, got %q", cfg.Output.Variant)
	}
	if cfg.MergeOptions().Fade != timeline.FadeAny {
		t.Fatalf("unexpected fade policy %q", cfg.Output.FadePolicy)
	}
	if cfg.Watch.DebounceMillis != 50 {
		t.Fatalf("unexpected debounce: %d", cfg.Watch.DebounceMillis)
	}
	if cfg.LockPath() != filepath.Join(tempDir, "sd", ".lightdance.lock") {
		t.Fatalf("unexpected lock path: %q", cfg.LockPath())
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	if info, err := os.Stat(cfg.Paths.OutputDir); err != nil || !info.IsDir() {
		t.Fatalf("expected output dir to exist: %v", err)
	}
}

func TestLoadPrefersProjectFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	work := t.TempDir()
	t.Chdir(work)
	if err := os.WriteFile("lightdance.toml", []byte("[output]\nvariant = \"raw\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists || filepath.Base(resolved) != "lightdance.toml" {
		t.Fatalf("expected project config, got %q exists=%v", resolved, exists)
	}
	if cfg.Output.Variant != "raw" {
		t.Fatalf("unexpected variant %q", cfg.Output.Variant)
	}
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	work := t.TempDir()
	t.Chdir(work)
	out := filepath.Join(work, "from-env")
	t.Setenv("LIGHTDANCE_OUTPUT_DIR", out)
	t.Setenv("LIGHTDANCE_VARIANT", "raw")

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Paths.OutputDir != out {
		t.Fatalf("expected output dir from env, got %q", cfg.Paths.OutputDir)
	}
	if cfg.Output.Variant != "raw" {
		t.Fatalf("expected variant from env, got %q", cfg.Output.Variant)
	}
}

func TestLoadReadsDotEnv(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	work := t.TempDir()
	t.Chdir(work)
	// Registered so the variable set by godotenv is cleared after the test.
	t.Setenv("LIGHTDANCE_INPUT_DIR", "")
	if err := os.WriteFile(".env", []byte("LIGHTDANCE_INPUT_DIR=show-files\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Unsetenv("LIGHTDANCE_INPUT_DIR"); err != nil {
		t.Fatal(err)
	}

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	wd, _ := os.Getwd()
	if cfg.Paths.InputDir != filepath.Join(wd, "show-files") {
		t.Fatalf("expected input dir from .env, got %q", cfg.Paths.InputDir)
	}
}

func TestLoadLoggingOutputsAndDevelopment(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	work := t.TempDir()
	t.Chdir(work)
	content := "[logging]\ndevelopment = true\noutputs = [\"stdout\", \" \", \"logs/run.log\"]\n"
	if err := os.WriteFile("lightdance.toml", []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.Logging.Development {
		t.Fatal("expected development logging")
	}
	wd, _ := os.Getwd()
	want := []string{"stdout", filepath.Join(wd, "logs", "run.log")}
	if len(cfg.Logging.Outputs) != len(want) || cfg.Logging.Outputs[0] != want[0] || cfg.Logging.Outputs[1] != want[1] {
		t.Fatalf("unexpected outputs %v, want %v", cfg.Logging.Outputs, want)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"variant", func(c *config.Config) { c.Output.Variant = "csv" }, "output.variant"},
		{"single color", func(c *config.Config) { c.Output.SingleColor = "stretch" }, "output.single_color"},
		{"fade", func(c *config.Config) { c.Output.FadePolicy = "loud" }, "output.fade_policy"},
		{"debounce", func(c *config.Config) { c.Watch.DebounceMillis = 0 }, "watch.debounce_ms"},
		{"log format", func(c *config.Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"log over artifact", func(c *config.Config) { c.Logging.Outputs = []string{c.DataPath()} }, "logging.outputs"},
		{"same artifacts", func(c *config.Config) { c.Paths.TimesFile = c.Paths.DataFile }, "both resolve"},
		{"overwrite input", func(c *config.Config) {
			c.Paths.OutputDir = c.Paths.InputDir
			c.Paths.DataFile = c.Paths.LEDFile
		}, "overwrite input"},
	}
	for _, tt := range tests {
		cfg := config.Default()
		cfg.Paths.InputDir = "/show"
		cfg.Paths.OutputDir = "/out"
		tt.mutate(&cfg)
		err := cfg.Validate()
		if err == nil || !strings.Contains(err.Error(), tt.want) {
			t.Errorf("%s: expected error containing %q, got %v", tt.name, tt.want, err)
		}
	}
}

func TestCreateSampleIsLoadable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	if _, _, exists, err := config.Load(path); err != nil || !exists {
		t.Fatalf("sample config should load: exists=%v err=%v", exists, err)
	}
}
