package schema

import (
	"encoding/base64"

	"ledproj/internal/pattern"
)

// PixelData is the tagged union stored in a layer's pixels field,
// discriminated by the layer's encoding tag. Exactly one arm is populated:
// RLE for compressed payloads, Raw for triple arrays.
type PixelData struct {
	Encoding string
	RLE      string
	Raw      []pattern.Pixel
}

// Compressed reports whether the payload carries the run-length arm.
func (p PixelData) Compressed() bool { return p.Encoding == EncodingRLE }

// LayerPixels extracts the pixel union from a validated layer object.
//
// The encoding tag wins when the two disagree, with one compatibility
// exception inherited from the original format: an rle-tagged layer whose
// pixels are a raw array is read as raw, because old writers emitted that
// combination.
func LayerPixels(layer map[string]any) PixelData {
	encoding, _ := asString(layer["encoding"])
	if encoding == "" {
		encoding = EncodingRLE
	}

	if s, ok := asString(layer["pixels"]); ok && encoding == EncodingRLE {
		return PixelData{Encoding: encoding, RLE: s}
	}

	data := PixelData{Encoding: encoding}
	if s, ok := asString(layer["pixels"]); ok {
		// Raw-tagged base64: plain 3-byte pixel groups, no run lengths.
		if decoded, err := base64.StdEncoding.DecodeString(s); err == nil {
			for i := 0; i+3 <= len(decoded); i += 3 {
				data.Raw = append(data.Raw, pattern.Pixel{decoded[i], decoded[i+1], decoded[i+2]})
			}
		}
		return data
	}
	triples, ok := asArray(layer["pixels"])
	if !ok {
		return data
	}
	data.Raw = make([]pattern.Pixel, 0, len(triples))
	for _, tv := range triples {
		triple, ok := asArray(tv)
		if !ok || len(triple) != 3 {
			continue
		}
		var px pattern.Pixel
		for c := 0; c < 3; c++ {
			if n, ok := asInt(triple[c]); ok {
				px[c] = uint8(n)
			}
		}
		data.Raw = append(data.Raw, px)
	}
	return data
}
