package schema

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func validDoc() map[string]any {
	const raw = `{
		"schema_version": "1.0",
		"id": "5f0c5aa8-11aa-4c2f-9b84-2f37b2c3a111",
		"name": "blink",
		"description": "",
		"tags": ["demo", "test"],
		"created_at": "2026-01-02T03:04:05Z",
		"modified_at": "2026-01-02T03:04:05Z",
		"matrix": {
			"width": 2,
			"height": 2,
			"layout": "row_major",
			"wiring": "linear",
			"default_color_order": "RGB"
		},
		"frames": [
			{
				"index": 0,
				"duration_ms": 100,
				"layers": [
					{
						"id": "aaf0b0de-0000-4000-8000-000000000001",
						"name": "base",
						"opacity": 1.0,
						"blend_mode": "normal",
						"visible": true,
						"encoding": "raw+rgb8",
						"pixels": [[255, 0, 0], [0, 255, 0], [0, 0, 255], [0, 0, 0]]
					}
				]
			}
		],
		"effects": [],
		"metadata": {"author": "tester", "custom_hint": 42}
	}`
	var doc map[string]any
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		panic(err)
	}
	return doc
}

func TestValidateAcceptsWellFormedDocument(t *testing.T) {
	if err := Validate(validDoc()); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestValidateRejections(t *testing.T) {
	cases := []struct {
		name      string
		mutate    func(doc map[string]any)
		wantField string
	}{
		{
			"missing frames",
			func(doc map[string]any) { delete(doc, "frames") },
			"frames",
		},
		{
			"wrong schema version",
			func(doc map[string]any) { doc["schema_version"] = "2.0" },
			"schema_version",
		},
		{
			"zero width",
			func(doc map[string]any) { doc["matrix"].(map[string]any)["width"] = 0 },
			"matrix.width",
		},
		{
			"width above range",
			func(doc map[string]any) { doc["matrix"].(map[string]any)["width"] = 257 },
			"matrix.width",
		},
		{
			"empty frames",
			func(doc map[string]any) { doc["frames"] = []any{} },
			"frames",
		},
		{
			"unknown top-level field",
			func(doc map[string]any) { doc["bonus"] = true },
			"bonus",
		},
		{
			"unknown matrix field",
			func(doc map[string]any) { doc["matrix"].(map[string]any)["rows"] = 2 },
			"matrix.rows",
		},
		{
			"duration out of range",
			func(doc map[string]any) {
				frame(doc, 0)["duration_ms"] = 20000
			},
			"frames[0].duration_ms",
		},
		{
			"frame without layers",
			func(doc map[string]any) {
				frame(doc, 0)["layers"] = []any{}
			},
			"frames[0].layers",
		},
		{
			"opacity above one",
			func(doc map[string]any) {
				layer(doc, 0, 0)["opacity"] = 1.5
			},
			"frames[0].layers[0].opacity",
		},
		{
			"bad blend mode",
			func(doc map[string]any) {
				layer(doc, 0, 0)["blend_mode"] = "overlay"
			},
			"frames[0].layers[0].blend_mode",
		},
		{
			"pixel channel out of range",
			func(doc map[string]any) {
				layer(doc, 0, 0)["pixels"] = []any{[]any{300.0, 0.0, 0.0}}
			},
			"frames[0].layers[0].pixels[0][0]",
		},
		{
			"pixel triple wrong arity",
			func(doc map[string]any) {
				layer(doc, 0, 0)["pixels"] = []any{[]any{1.0, 2.0}}
			},
			"frames[0].layers[0].pixels[0]",
		},
		{
			"duplicate tags",
			func(doc map[string]any) { doc["tags"] = []any{"a", "a"} },
			"tags[1]",
		},
		{
			"bad effect type",
			func(doc map[string]any) {
				doc["effects"] = []any{map[string]any{"id": "x", "type": "sparkle"}}
			},
			"effects[0].type",
		},
		{
			"bad layout type",
			func(doc map[string]any) {
				doc["matrix"].(map[string]any)["layout_type"] = "hexagonal"
			},
			"matrix.layout_type",
		},
		{
			"negative circular count",
			func(doc map[string]any) {
				doc["matrix"].(map[string]any)["circular_led_count"] = -4
			},
			"matrix.circular_led_count",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			doc := validDoc()
			tc.mutate(doc)
			err := Validate(doc)
			if err == nil {
				t.Fatal("expected validation error")
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected *ValidationError, got %T", err)
			}
			if verr.Field != tc.wantField {
				t.Fatalf("field: got %q, want %q (message %q)", verr.Field, tc.wantField, verr.Message)
			}
		})
	}
}

func TestValidateAcceptsGeometryFieldsOnRectangular(t *testing.T) {
	// Cross-field consistency is not the schema's job: geometry fields are
	// legal even when layout_type does not select them.
	doc := validDoc()
	matrix := doc["matrix"].(map[string]any)
	matrix["layout_type"] = "rectangular"
	matrix["circular_led_count"] = 24.0
	matrix["circular_radius"] = 10.5
	matrix["circular_mapping_table"] = []any{[]any{0.0, 1.0}, []any{1.0, 1.0}}
	if err := Validate(doc); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestValidateAcceptsNullOptionals(t *testing.T) {
	doc := validDoc()
	matrix := doc["matrix"].(map[string]any)
	matrix["circular_led_count"] = nil
	matrix["ring_radii"] = nil
	doc["effects"] = nil
	if err := Validate(doc); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestValidateAcceptsCompressedPixels(t *testing.T) {
	doc := validDoc()
	l := layer(doc, 0, 0)
	l["encoding"] = EncodingRLE
	l["pixels"] = "BP8AAA=="
	if err := Validate(doc); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestValidationErrorMessageNamesField(t *testing.T) {
	doc := validDoc()
	doc["matrix"].(map[string]any)["width"] = 0
	err := Validate(doc)
	if err == nil || !strings.Contains(err.Error(), "matrix.width") {
		t.Fatalf("message should name the field: %v", err)
	}
}

func frame(doc map[string]any, i int) map[string]any {
	return doc["frames"].([]any)[i].(map[string]any)
}

func layer(doc map[string]any, f, l int) map[string]any {
	return frame(doc, f)["layers"].([]any)[l].(map[string]any)
}
