package testsupport

import (
	"path/filepath"
	"testing"

	"lightdance/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test:
// inputs under <tmp>/show and artifacts under <tmp>/out. The returned config
// has been validated.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.InputDir = filepath.Join(base, "show")
	cfgVal.Paths.OutputDir = filepath.Join(base, "out")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}
	for _, opt := range opts {
		opt(builder)
	}

	if err := builder.cfg.Validate(); err != nil {
		t.Fatalf("test config invalid: %v", err)
	}
	return builder.cfg
}

// WithVariant selects the data artifact variant.
func WithVariant(variant string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Output.Variant = variant
	}
}

// WithFadePolicy selects how a frame's fade flag is resolved.
func WithFadePolicy(policy string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Output.FadePolicy = policy
	}
}

// WithLogDir routes file logging into the temp tree.
func WithLogDir() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Paths.LogDir = filepath.Join(b.baseDir, "logs")
	}
}
