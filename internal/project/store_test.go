package project

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"ledproj/internal/pattern"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(nil, true)

	proj := New("Trip", pattern.Rainbow(8, 3))
	path, err := store.Save(filepath.Join(dir, "trip.ledproj"), proj)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatal("temp file left behind after save")
	}

	loaded, err := store.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Metadata.Name != "Trip" {
		t.Fatalf("project name: got %q", loaded.Metadata.Name)
	}
	if loaded.Metadata.ProjectVersion != CurrentVersion {
		t.Fatalf("project version: got %q", loaded.Metadata.ProjectVersion)
	}
	if loaded.Metadata.Settings.AutoSaveIntervalSeconds != 300 {
		t.Fatalf("settings: got %+v", loaded.Metadata.Settings)
	}

	got, want := loaded.Pattern, proj.Pattern
	if got.ID != want.ID || got.FrameCount() != want.FrameCount() {
		t.Fatalf("pattern identity: got %s/%d, want %s/%d", got.ID, got.FrameCount(), want.ID, want.FrameCount())
	}
	for f := range want.Frames {
		if got.Frames[f].DurationMS != want.Frames[f].DurationMS {
			t.Fatalf("frame %d duration: got %d", f, got.Frames[f].DurationMS)
		}
		for i := range want.Frames[f].Pixels {
			if got.Frames[f].Pixels[i] != want.Frames[f].Pixels[i] {
				t.Fatalf("frame %d pixel %d: got %v, want %v", f, i, got.Frames[f].Pixels[i], want.Frames[f].Pixels[i])
			}
		}
	}
}

func TestSaveEnforcesExtension(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(nil, false)

	path, err := store.Save(filepath.Join(dir, "plain"), New("Plain", pattern.Solid(4, pattern.Pixel{255, 0, 0}, 100, "Plain")))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if filepath.Ext(path) != FileExtension {
		t.Fatalf("extension not enforced: %s", path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("saved file missing: %v", err)
	}
}

func TestSaveFailureLeavesOriginalIntact(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(nil, false)

	path, err := store.Save(filepath.Join(dir, "keep.ledproj"), New("Keep", pattern.Solid(4, pattern.Pixel{0, 255, 0}, 100, "Keep")))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	original, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read original: %v", err)
	}

	// A directory squatting on the temp path makes the staged write fail.
	if err := os.Mkdir(path+".tmp", 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(path+".tmp", "block"), []byte("x"), 0o644); err != nil {
		t.Fatalf("block temp dir: %v", err)
	}

	_, err = store.Save(path, New("Clobber", pattern.Solid(4, pattern.Pixel{0, 0, 255}, 100, "Clobber")))
	var ioErr *IOError
	if !errors.As(err, &ioErr) {
		t.Fatalf("expected IOError, got %v", err)
	}

	after, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read after failed save: %v", err)
	}
	if string(after) != string(original) {
		t.Fatal("failed save corrupted the existing project")
	}
}

func TestLoadMissingFile(t *testing.T) {
	store := NewStore(nil, false)
	_, err := store.Load(filepath.Join(t.TempDir(), "nope.ledproj"))
	var ioErr *IOError
	if !errors.As(err, &ioErr) {
		t.Fatalf("expected IOError, got %v", err)
	}
	if ioErr.Op != "read" {
		t.Fatalf("op: got %q", ioErr.Op)
	}
}

func TestLoadMalformedJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.ledproj")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	_, err := NewStore(nil, false).Load(path)
	var ioErr *IOError
	if !errors.As(err, &ioErr) {
		t.Fatalf("expected IOError, got %v", err)
	}
	if ioErr.Op != "parse" {
		t.Fatalf("op: got %q", ioErr.Op)
	}
}

func TestLoadLegacyDump(t *testing.T) {
	legacy := map[string]any{
		"name": "Old Blinker",
		"metadata": map[string]any{
			"width":       4,
			"height":      1,
			"color_order": "GRB",
		},
		"frames": []any{
			map[string]any{
				"pixels": []any{
					[]any{255, 0, 0}, []any{0, 255, 0}, []any{0, 0, 255}, []any{0, 0, 0},
				},
				"duration_ms": 250,
			},
		},
	}
	payload, err := json.Marshal(legacy)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	path := filepath.Join(t.TempDir(), "old.ledproj")
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	loaded, err := NewStore(nil, false).Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Metadata.ProjectVersion != CurrentVersion {
		t.Fatalf("project version: got %q", loaded.Metadata.ProjectVersion)
	}
	if loaded.Metadata.Name != "Old Blinker" {
		t.Fatalf("project name: got %q", loaded.Metadata.Name)
	}
	p := loaded.Pattern
	if p.Metadata.Width != 4 || p.Metadata.Height != 1 {
		t.Fatalf("matrix: got %dx%d", p.Metadata.Width, p.Metadata.Height)
	}
	if p.Metadata.ColorOrder != "GRB" {
		t.Fatalf("color order: got %q", p.Metadata.ColorOrder)
	}
	if p.FrameCount() != 1 || p.Frames[0].DurationMS != 250 {
		t.Fatalf("frames: got %d, duration %d", p.FrameCount(), p.Frames[0].DurationMS)
	}
	if p.Frames[0].Pixels[1] != (pattern.Pixel{0, 255, 0}) {
		t.Fatalf("pixel 1: got %v", p.Frames[0].Pixels[1])
	}
}

func TestLoadVersionlessContainer(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(nil, true)

	proj := New("Wrapped", pattern.Rainbow(6, 2))
	path, err := store.Save(filepath.Join(dir, "wrapped.ledproj"), proj)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	// Strip the project version everywhere; the pattern block must survive
	// legacy container migration untouched.
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var container map[string]any
	if err := json.Unmarshal(data, &container); err != nil {
		t.Fatalf("parse: %v", err)
	}
	delete(container, "project_version")
	delete(container["metadata"].(map[string]any), "project_version")
	payload, err := json.Marshal(container)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		t.Fatalf("rewrite: %v", err)
	}

	loaded, err := store.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Metadata.ProjectVersion != CurrentVersion {
		t.Fatalf("project version: got %q", loaded.Metadata.ProjectVersion)
	}
	if loaded.Metadata.Name != "Wrapped" {
		t.Fatalf("project name: got %q", loaded.Metadata.Name)
	}
	got, want := loaded.Pattern, proj.Pattern
	if got.ID != want.ID || got.FrameCount() != want.FrameCount() {
		t.Fatalf("pattern lost in migration: got %s/%d, want %s/%d",
			got.ID, got.FrameCount(), want.ID, want.FrameCount())
	}
	if got.Frames[0].Pixels[0] != want.Frames[0].Pixels[0] {
		t.Fatalf("pixels lost in migration: got %v", got.Frames[0].Pixels[0])
	}
}

func TestLoadRepairsMappingTable(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(nil, true)

	p := pattern.Rainbow(12, 2)
	p.Metadata.Width = 16
	p.Metadata.Height = 16
	p.Metadata.LayoutType = pattern.LayoutCircle
	count := 12
	p.Metadata.CircularLEDCount = &count
	for f := range p.Frames {
		p.Frames[f].Pixels = p.Frames[f].Pixels[:12]
	}

	path, err := store.Save(filepath.Join(dir, "circle.ledproj"), New("Circle", p))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := store.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(loaded.Pattern.Metadata.MappingTable) != 12 {
		t.Fatalf("mapping table not regenerated: %d entries", len(loaded.Pattern.Metadata.MappingTable))
	}
}

func TestLoadClearsMissingBackgroundImage(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(nil, false)

	p := pattern.Solid(6, pattern.Pixel{10, 20, 30}, 100, "BG")
	p.Metadata.IrregularShapeEnabled = true
	p.Metadata.BackgroundImagePath = filepath.Join(dir, "gone.png")

	path, err := store.Save(filepath.Join(dir, "bg.ledproj"), New("BG", p))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := store.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Pattern.Metadata.BackgroundImagePath != "" {
		t.Fatalf("missing background image not cleared: %q", loaded.Pattern.Metadata.BackgroundImagePath)
	}
}

func TestLoadKeepsBackgroundImageWithoutShapeMode(t *testing.T) {
	dir := t.TempDir()
	imagePath := filepath.Join(dir, "gone.png")

	container := map[string]any{
		"project_version": CurrentVersion,
		"schema_version":  "1.0",
		"metadata":        map[string]any{"project_version": CurrentVersion, "name": "Rect"},
		"pattern": map[string]any{
			"schema_version": "1.0",
			"id":             "rect-1",
			"name":           "Rect",
			"matrix": map[string]any{
				"width":                   2,
				"height":                  1,
				"irregular_shape_enabled": false,
				"background_image_path":   imagePath,
			},
			"frames": []any{
				map[string]any{
					"index":       0,
					"duration_ms": 100,
					"layers": []any{
						map[string]any{
							"id":         "layer-1",
							"name":       "base",
							"opacity":    1.0,
							"blend_mode": "normal",
							"visible":    true,
							"encoding":   "raw+rgb8",
							"pixels":     []any{[]any{1, 2, 3}, []any{4, 5, 6}},
						},
					},
				},
			},
		},
	}
	payload, err := json.Marshal(container)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	path := filepath.Join(dir, "rect.ledproj")
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	loaded, err := NewStore(nil, false).Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Pattern.Metadata.BackgroundImagePath != imagePath {
		t.Fatalf("background image cleared outside shape mode: got %q", loaded.Pattern.Metadata.BackgroundImagePath)
	}
}
