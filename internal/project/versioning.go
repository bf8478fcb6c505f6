package project

import (
	"time"

	"ledproj/internal/schema"
)

// ContainerVersion returns the container's project version and whether one
// is recorded. It prefers metadata.project_version and falls back to the
// top-level field; absence marks a legacy file.
func ContainerVersion(doc map[string]any) (string, bool) {
	if meta, ok := objectField(doc, "metadata"); ok {
		if v, ok := stringValue(meta["project_version"]); ok && v != "" {
			return v, true
		}
	}
	if v, ok := stringValue(doc["project_version"]); ok && v != "" {
		return v, true
	}
	return "", false
}

// NeedsContainerMigration reports whether the container is legacy or at a
// version other than the current one.
func NeedsContainerMigration(doc map[string]any) bool {
	version, ok := ContainerVersion(doc)
	return !ok || version != CurrentVersion
}

// MigrateContainer upgrades a project container to the current version.
//
// A container already current is returned as-is. A 1.0 container gains the
// settings block 1.1 introduced. A legacy file, which is a bare pattern dump
// with no container around it, is wrapped into a full container. Any other
// version fails with a *schema.MigrationError on the project axis.
func MigrateContainer(doc map[string]any) (map[string]any, error) {
	version, ok := ContainerVersion(doc)
	if ok && version == CurrentVersion {
		return doc, nil
	}
	if !ok {
		return wrapLegacy(doc), nil
	}
	if version == PreviousVersion {
		return migrateFromPrevious(doc), nil
	}
	return nil, &schema.MigrationError{Axis: schema.AxisProject, From: version, To: CurrentVersion}
}

// migrateFromPrevious lifts a 1.0 container to 1.1. The only addition is the
// settings block; existing settings are kept untouched.
func migrateFromPrevious(doc map[string]any) map[string]any {
	doc["project_version"] = CurrentVersion

	meta, ok := objectField(doc, "metadata")
	if !ok {
		meta = map[string]any{}
		doc["metadata"] = meta
	}
	meta["project_version"] = CurrentVersion
	if _, ok := objectField(meta, "settings"); !ok {
		meta["settings"] = defaultSettingsDoc()
	}
	return doc
}

// wrapLegacy builds a container around a legacy file. A legacy file is
// either a bare pattern dump or a version-less container that already has a
// pattern block; in the latter case the inner pattern is kept as the
// payload instead of re-nesting the whole map. The payload itself is left
// alone here; schema migration is a separate pass.
func wrapLegacy(doc map[string]any) map[string]any {
	now := time.Now().UTC().Format(time.RFC3339)

	payload := doc
	if inner, ok := objectField(doc, "pattern"); ok {
		payload = inner
	}
	legacyMeta, _ := objectField(doc, "metadata")

	meta := map[string]any{
		"project_version": CurrentVersion,
		"name":            "Untitled Project",
		"description":     "",
		"author":          "",
		"created_at":      now,
		"modified_at":     now,
		"tags":            []any{},
		"settings":        defaultSettingsDoc(),
	}
	for _, field := range []string{
		"name", "description", "author",
		"created_at", "modified_at", "category", "license",
	} {
		if v, ok := legacyString(doc, legacyMeta, field); ok && v != "" {
			meta[field] = v
		}
	}
	if v, ok := legacyValue(doc, legacyMeta, "tags"); ok {
		if tags, ok := v.([]any); ok && len(tags) > 0 {
			meta["tags"] = tags
		}
	}

	schemaVersion := ""
	if v, ok := stringValue(payload["schema_version"]); ok {
		schemaVersion = v
	}

	return map[string]any{
		"project_version": CurrentVersion,
		"schema_version":  schemaVersion,
		"metadata":        meta,
		"pattern":         payload,
	}
}

// legacyValue reads a metadata field from a legacy container's metadata
// block, falling back to the top level where bare dumps keep it.
func legacyValue(doc, meta map[string]any, key string) (any, bool) {
	if meta != nil {
		if v, ok := meta[key]; ok {
			return v, true
		}
	}
	v, ok := doc[key]
	return v, ok
}

func legacyString(doc, meta map[string]any, key string) (string, bool) {
	v, ok := legacyValue(doc, meta, key)
	if !ok {
		return "", false
	}
	return stringValue(v)
}

func defaultSettingsDoc() map[string]any {
	s := DefaultSettings()
	return map[string]any{
		"auto_save":                  s.AutoSave,
		"auto_save_interval_seconds": s.AutoSaveIntervalSeconds,
		"undo_history_depth":         s.UndoHistoryDepth,
		"default_zoom":               s.DefaultZoom,
		"grid_enabled":               s.GridEnabled,
		"snap_to_grid":               s.SnapToGrid,
		"show_frame_numbers":         s.ShowFrameNumbers,
		"default_fps":                s.DefaultFPS,
		"default_color_order":        s.DefaultColorOrder,
	}
}

func objectField(doc map[string]any, key string) (map[string]any, bool) {
	obj, ok := doc[key].(map[string]any)
	return obj, ok
}

func stringValue(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}
