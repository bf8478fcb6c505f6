package schema

import (
	"time"

	"github.com/google/uuid"
)

// DocVersion returns the document's schema_version and whether one is set.
// Absence marks a legacy document.
func DocVersion(doc map[string]any) (string, bool) {
	v, ok := present(doc, "schema_version")
	if !ok {
		return "", false
	}
	s, ok := asString(v)
	return s, ok
}

// NeedsMigration reports whether the document is legacy or at a version
// other than the current one.
func NeedsMigration(doc map[string]any) bool {
	version, ok := DocVersion(doc)
	return !ok || version != Version
}

// Migrate upgrades a pattern document to the target schema version (the
// current version when target is empty).
//
// A document already at the target is returned as-is: migration is
// idempotent and the identity case does not copy. Legacy documents (no
// schema_version) are rebuilt into minimal valid 1.0 documents. Any other
// source/target pair fails with a *MigrationError.
func Migrate(doc map[string]any, target string) (map[string]any, error) {
	if target == "" {
		target = Version
	}

	source, hasVersion := DocVersion(doc)
	if hasVersion && source == target {
		return doc, nil
	}
	if !hasVersion {
		if target != Version {
			return nil, &MigrationError{Axis: AxisSchema, To: target}
		}
		return migrateFromLegacy(doc), nil
	}
	return nil, &MigrationError{Axis: AxisSchema, From: source, To: target}
}

// migrateFromLegacy rebuilds a pre-schema pattern dump as a 1.0 document.
// Matrix geometry comes from the legacy metadata block when present and
// falls back to a 1x1 strip; each legacy frame's raw pixel array becomes a
// single synthetic "base" layer.
func migrateFromLegacy(doc map[string]any) map[string]any {
	now := time.Now().UTC().Format(time.RFC3339)

	migrated := map[string]any{
		"schema_version": Version,
		"id":             stringOr(doc, "id", uuid.NewString()),
		"name":           stringOr(doc, "name", "Untitled Pattern"),
		"description":    stringOr(doc, "description", ""),
		"tags":           []any{},
		"created_at":     stringOr(doc, "created_at", now),
		"modified_at":    stringOr(doc, "modified_at", now),
		"matrix": map[string]any{
			"width":               1,
			"height":              1,
			"layout":              "row_major",
			"wiring":              "linear",
			"default_color_order": "RGB",
		},
		"frames":   []any{},
		"effects":  []any{},
		"metadata": map[string]any{},
	}
	if tags, ok := asArray(doc["tags"]); ok {
		migrated["tags"] = tags
	}

	matrix := migrated["matrix"].(map[string]any)
	if meta, ok := asObject(doc["metadata"]); ok {
		if w, ok := asInt(meta["width"]); ok {
			matrix["width"] = w
		}
		if h, ok := asInt(meta["height"]); ok {
			matrix["height"] = h
		}
		if order, ok := asString(meta["color_order"]); ok {
			matrix["default_color_order"] = order
		}
		if source, ok := asString(meta["source_path"]); ok {
			migrated["metadata"].(map[string]any)["source_file"] = source
		}
	}

	frames := []any{}
	if legacyFrames, ok := asArray(doc["frames"]); ok {
		for idx, fv := range legacyFrames {
			frame, ok := asObject(fv)
			if !ok {
				continue
			}
			pixels := any([]any{})
			if arr, ok := asArray(frame["pixels"]); ok {
				pixels = arr
			}
			duration, ok := asInt(frame["duration_ms"])
			if !ok || duration < 1 {
				duration = 100
			}
			layer := map[string]any{
				"id":         uuid.NewString(),
				"name":       "base",
				"opacity":    1.0,
				"blend_mode": "normal",
				"visible":    true,
				"encoding":   EncodingRaw,
				"pixels":     pixels,
			}
			frames = append(frames, map[string]any{
				"index":       idx,
				"duration_ms": duration,
				"layers":      []any{layer},
			})
		}
	}
	migrated["frames"] = frames

	return migrated
}

func stringOr(obj map[string]any, key, fallback string) string {
	if s, ok := asString(obj[key]); ok && s != "" {
		return s
	}
	return fallback
}
