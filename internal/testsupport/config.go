// Package testsupport provides shared helpers for loom tests: temp-dir
// configs, store lifecycle management, and archive fixtures.
package testsupport

import (
	"path/filepath"
	"testing"

	"loom/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")

	for _, opt := range opts {
		opt(&cfg)
	}

	return &cfg
}

// WithImageCeiling overrides the per-image size ceiling on the test config.
func WithImageCeiling(kb int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Import.MaxImageKB = kb
	}
}
