package testsupport

import (
	"path/filepath"
	"testing"

	"ledproj/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.ProjectsDir = filepath.Join(base, "projects")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Library.DatabasePath = filepath.Join(base, "library.db")
	cfg.Library.LockTimeoutSeconds = 1

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithRLE toggles run-length pixel compression on the test config.
func WithRLE(enabled bool) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Serialization.UseRLE = enabled
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.ProjectsDir)
}
