package schema

import (
	"encoding/base64"
	"testing"

	"ledproj/internal/pattern"
)

func TestLayerPixelsCompressedArm(t *testing.T) {
	layer := map[string]any{
		"encoding": EncodingRLE,
		"pixels":   "BP8AAA==",
	}
	data := LayerPixels(layer)
	if !data.Compressed() {
		t.Fatal("expected compressed arm")
	}
	if data.RLE != "BP8AAA==" || data.Raw != nil {
		t.Fatalf("unexpected union contents: %+v", data)
	}
}

func TestLayerPixelsRawArm(t *testing.T) {
	layer := map[string]any{
		"encoding": EncodingRaw,
		"pixels":   []any{[]any{1.0, 2.0, 3.0}, []any{4.0, 5.0, 6.0}},
	}
	data := LayerPixels(layer)
	if data.Compressed() {
		t.Fatal("expected raw arm")
	}
	want := []pattern.Pixel{{1, 2, 3}, {4, 5, 6}}
	if len(data.Raw) != len(want) {
		t.Fatalf("raw length: got %d", len(data.Raw))
	}
	for i := range want {
		if data.Raw[i] != want[i] {
			t.Fatalf("pixel %d: got %v, want %v", i, data.Raw[i], want[i])
		}
	}
}

func TestLayerPixelsRLETaggedArrayFallsBackToRaw(t *testing.T) {
	layer := map[string]any{
		"encoding": EncodingRLE,
		"pixels":   []any{[]any{9.0, 8.0, 7.0}},
	}
	data := LayerPixels(layer)
	if len(data.Raw) != 1 || data.Raw[0] != (pattern.Pixel{9, 8, 7}) {
		t.Fatalf("fallback failed: %+v", data)
	}
}

func TestLayerPixelsRawBase64(t *testing.T) {
	raw := []byte{10, 20, 30, 40, 50, 60}
	layer := map[string]any{
		"encoding": EncodingRaw,
		"pixels":   base64.StdEncoding.EncodeToString(raw),
	}
	data := LayerPixels(layer)
	want := []pattern.Pixel{{10, 20, 30}, {40, 50, 60}}
	if len(data.Raw) != 2 || data.Raw[0] != want[0] || data.Raw[1] != want[1] {
		t.Fatalf("base64 raw decode failed: %+v", data)
	}
}
