package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"ledproj/internal/config"
	"ledproj/internal/library"
	"ledproj/internal/pattern"
	"ledproj/internal/project"
)

// MustOpenLibrary opens a library.Store for tests and registers cleanup.
func MustOpenLibrary(t testing.TB, cfg *config.Config) *library.Store {
	t.Helper()

	store, err := library.Open(cfg, nil)
	if err != nil {
		t.Fatalf("library.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

// SaveProject writes a rainbow test project and returns its path.
func SaveProject(t testing.TB, cfg *config.Config, name string, ledCount, frames int) string {
	t.Helper()

	if err := os.MkdirAll(cfg.Paths.ProjectsDir, 0o755); err != nil {
		t.Fatalf("create projects dir: %v", err)
	}
	store := project.NewStore(nil, cfg.Serialization.UseRLE)
	proj := project.New(name, pattern.Rainbow(ledCount, frames))
	path, err := store.Save(filepath.Join(cfg.Paths.ProjectsDir, name+".ledproj"), proj)
	if err != nil {
		t.Fatalf("project.Save: %v", err)
	}
	return path
}
