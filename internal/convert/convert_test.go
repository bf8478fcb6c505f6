package convert

import (
	"encoding/json"
	"errors"
	"testing"

	"ledproj/internal/pattern"
	"ledproj/internal/schema"
)

func testPattern(t *testing.T) *pattern.Pattern {
	t.Helper()
	p := pattern.New("aurora", pattern.NewMetadata(4, 4))
	p.Metadata.ColorOrder = "GRB"
	for f := 0; f < 3; f++ {
		pixels := make([]pattern.Pixel, 16)
		for i := range pixels {
			pixels[i] = pattern.Pixel{uint8(f * 40), uint8(i * 10), uint8(255 - i)}
		}
		p.Frames = append(p.Frames, pattern.Frame{Pixels: pixels, DurationMS: 100 + f*25})
	}
	return p
}

func samePixels(a, b []pattern.Pixel) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestDocumentRoundTrip(t *testing.T) {
	for _, useRLE := range []bool{true, false} {
		name := "raw"
		if useRLE {
			name = "rle"
		}
		t.Run(name, func(t *testing.T) {
			original := testPattern(t)
			doc, err := ToDocument(original, useRLE)
			if err != nil {
				t.Fatalf("ToDocument: %v", err)
			}

			// Push through JSON to exercise the real wire types.
			raw, err := json.Marshal(doc)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			var decoded map[string]any
			if err := json.Unmarshal(raw, &decoded); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}

			got, err := FromDocument(decoded)
			if err != nil {
				t.Fatalf("FromDocument: %v", err)
			}

			if got.ID != original.ID {
				t.Fatalf("id: got %q, want %q", got.ID, original.ID)
			}
			if got.Name != original.Name {
				t.Fatalf("name: got %q, want %q", got.Name, original.Name)
			}
			if got.Metadata.Width != 4 || got.Metadata.Height != 4 {
				t.Fatalf("dimensions: got %dx%d", got.Metadata.Width, got.Metadata.Height)
			}
			if got.Metadata.ColorOrder != "GRB" {
				t.Fatalf("color order: got %q", got.Metadata.ColorOrder)
			}
			if got.FrameCount() != original.FrameCount() {
				t.Fatalf("frame count: got %d", got.FrameCount())
			}
			for i := range original.Frames {
				if got.Frames[i].DurationMS != original.Frames[i].DurationMS {
					t.Fatalf("frame %d duration: got %d", i, got.Frames[i].DurationMS)
				}
				if !samePixels(got.Frames[i].Pixels, original.Frames[i].Pixels) {
					t.Fatalf("frame %d pixels differ", i)
				}
			}
		})
	}
}

func TestToDocumentEncodingTag(t *testing.T) {
	p := testPattern(t)

	doc, err := ToDocument(p, true)
	if err != nil {
		t.Fatalf("ToDocument: %v", err)
	}
	layer := firstLayer(doc)
	if layer["encoding"] != schema.EncodingRLE {
		t.Fatalf("encoding: got %v", layer["encoding"])
	}
	if _, ok := layer["pixels"].(string); !ok {
		t.Fatalf("rle pixels should be a string, got %T", layer["pixels"])
	}

	doc, err = ToDocument(p, false)
	if err != nil {
		t.Fatalf("ToDocument raw: %v", err)
	}
	layer = firstLayer(doc)
	if layer["encoding"] != schema.EncodingRaw {
		t.Fatalf("encoding: got %v", layer["encoding"])
	}
	if _, ok := layer["pixels"].([]any); !ok {
		t.Fatalf("raw pixels should be an array, got %T", layer["pixels"])
	}
}

func TestWiringModeRoundTrip(t *testing.T) {
	cases := []struct {
		mode   string
		layout string
		wiring string
	}{
		{pattern.WiringRowMajor, "row_major", "linear"},
		{pattern.WiringSerpentine, "row_major", "zigzag"},
		{pattern.WiringColumnMajor, "column_major", "linear"},
		{pattern.WiringColumnSerpentine, "column_major", "zigzag"},
	}
	for _, tc := range cases {
		t.Run(tc.mode, func(t *testing.T) {
			p := pattern.Solid(4, pattern.Pixel{1, 2, 3}, 100, "wiring")
			p.Metadata.WiringMode = tc.mode
			doc, err := ToDocument(p, true)
			if err != nil {
				t.Fatalf("ToDocument: %v", err)
			}
			matrix := doc["matrix"].(map[string]any)
			if matrix["layout"] != tc.layout || matrix["wiring"] != tc.wiring {
				t.Fatalf("got layout=%v wiring=%v", matrix["layout"], matrix["wiring"])
			}

			got, err := FromDocument(doc)
			if err != nil {
				t.Fatalf("FromDocument: %v", err)
			}
			if got.Metadata.WiringMode != tc.mode {
				t.Fatalf("wiring mode: got %q, want %q", got.Metadata.WiringMode, tc.mode)
			}
		})
	}
}

func TestGeometryFieldsRoundTrip(t *testing.T) {
	p := testPattern(t)
	count := 24
	radius := 11.5
	p.Metadata.LayoutType = pattern.LayoutRing
	p.Metadata.CircularLEDCount = &count
	p.Metadata.CircularRadius = &radius
	p.Metadata.MappingTable = []pattern.GridPoint{{X: 0, Y: 1}, {X: 2, Y: 3}}

	doc, err := ToDocument(p, true)
	if err != nil {
		t.Fatalf("ToDocument: %v", err)
	}
	got, err := FromDocument(doc)
	if err != nil {
		t.Fatalf("FromDocument: %v", err)
	}

	if got.Metadata.LayoutType != pattern.LayoutRing {
		t.Fatalf("layout type: got %q", got.Metadata.LayoutType)
	}
	if got.Metadata.CircularLEDCount == nil || *got.Metadata.CircularLEDCount != 24 {
		t.Fatalf("circular led count: got %v", got.Metadata.CircularLEDCount)
	}
	if got.Metadata.CircularRadius == nil || *got.Metadata.CircularRadius != 11.5 {
		t.Fatalf("circular radius: got %v", got.Metadata.CircularRadius)
	}
	if len(got.Metadata.MappingTable) != 2 || got.Metadata.MappingTable[1] != (pattern.GridPoint{X: 2, Y: 3}) {
		t.Fatalf("mapping table: got %v", got.Metadata.MappingTable)
	}
}

func TestToDocumentEffects(t *testing.T) {
	p := testPattern(t)
	p.Instructions = []pattern.Instruction{
		{Action: "rotate", Params: map[string]any{"degrees": 90}, FrameRange: &pattern.FrameRange{Start: 0, End: 2}},
		{},
	}
	doc, err := ToDocument(p, true)
	if err != nil {
		t.Fatalf("ToDocument: %v", err)
	}
	effects := doc["effects"].([]any)
	if len(effects) != 2 {
		t.Fatalf("effects: got %d", len(effects))
	}
	first := effects[0].(map[string]any)
	if first["type"] != "rotate" {
		t.Fatalf("effect type: got %v", first["type"])
	}
	if effects[1].(map[string]any)["type"] != "scroll" {
		t.Fatal("empty action should default to scroll")
	}
}

func TestFromDocumentDecodesFirstLayerOnly(t *testing.T) {
	p := pattern.Solid(4, pattern.Pixel{5, 5, 5}, 100, "layered")
	doc, err := ToDocument(p, false)
	if err != nil {
		t.Fatalf("ToDocument: %v", err)
	}

	frame := doc["frames"].([]any)[0].(map[string]any)
	layers := frame["layers"].([]any)
	second := map[string]any{
		"id":         "00000000-0000-4000-8000-00000000beef",
		"name":       "overlay",
		"opacity":    0.5,
		"blend_mode": "add",
		"visible":    true,
		"encoding":   schema.EncodingRaw,
		"pixels":     []any{[]any{9, 9, 9}, []any{9, 9, 9}, []any{9, 9, 9}, []any{9, 9, 9}},
	}
	frame["layers"] = append(layers, second)

	got, err := FromDocument(doc)
	if err != nil {
		t.Fatalf("FromDocument: %v", err)
	}
	if got.Frames[0].Pixels[0] != (pattern.Pixel{5, 5, 5}) {
		t.Fatalf("expected first layer pixels, got %v", got.Frames[0].Pixels[0])
	}
}

func TestFromDocumentRejectsInvalid(t *testing.T) {
	p := testPattern(t)
	doc, err := ToDocument(p, true)
	if err != nil {
		t.Fatalf("ToDocument: %v", err)
	}
	doc["matrix"].(map[string]any)["width"] = 0

	_, err = FromDocument(doc)
	var verr *schema.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *schema.ValidationError, got %v", err)
	}
}

func TestToDocumentSurfacesInternalValidationFailure(t *testing.T) {
	p := testPattern(t)
	p.Instructions = []pattern.Instruction{{Action: "teleport"}}
	if _, err := ToDocument(p, true); err == nil {
		t.Fatal("expected error for unknown effect type")
	}
}

func firstLayer(doc map[string]any) map[string]any {
	return doc["frames"].([]any)[0].(map[string]any)["layers"].([]any)[0].(map[string]any)
}
