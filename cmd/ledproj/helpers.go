package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"ledproj/internal/convert"
	"ledproj/internal/fileutil"
	"ledproj/internal/pattern"
	"ledproj/internal/project"
	"ledproj/internal/schema"
)

func formatDurationMS(ms int) string {
	return time.Duration(ms * int(time.Millisecond)).String()
}

// parseHexColor accepts "#RRGGBB" or "RRGGBB".
func parseHexColor(value string) (pattern.Pixel, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(value), "#")
	if len(trimmed) != 6 {
		return pattern.Pixel{}, fmt.Errorf("color must be RRGGBB hex, got %q", value)
	}
	var px pattern.Pixel
	for i := 0; i < 3; i++ {
		channel, err := strconv.ParseUint(trimmed[i*2:i*2+2], 16, 8)
		if err != nil {
			return pattern.Pixel{}, fmt.Errorf("color must be RRGGBB hex, got %q", value)
		}
		px[i] = uint8(channel)
	}
	return px, nil
}

func isProjectFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), project.FileExtension)
}

func isDocumentFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}

// readDocument reads a pattern document JSON file, migrating it to the
// current schema version when needed.
func readDocument(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if schema.NeedsMigration(doc) {
		doc, err = schema.Migrate(doc, "")
		if err != nil {
			return nil, err
		}
	}
	return doc, nil
}

// loadAny loads either a .ledproj project or a bare pattern document .json
// into a project, synthesizing container metadata for the latter.
func loadAny(store *project.Store, path string) (*project.Project, error) {
	switch {
	case isProjectFile(path):
		return store.Load(path)
	case isDocumentFile(path):
		doc, err := readDocument(path)
		if err != nil {
			return nil, err
		}
		p, err := convert.FromDocument(doc)
		if err != nil {
			return nil, err
		}
		return project.New(p.Name, p), nil
	default:
		return nil, fmt.Errorf("unsupported file type %q (want %s or .json)", filepath.Ext(path), project.FileExtension)
	}
}

func writeDocumentFile(path string, doc map[string]any) error {
	payload, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	if err := fileutil.WriteAtomic(path, payload, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
