package rle

import (
	"encoding/base64"

	"ledproj/internal/pattern"
)

const maxRun = 255

// Encode compresses pixels into the base64-wrapped run-length format.
// An empty input encodes to the empty string.
func Encode(pixels []pattern.Pixel) string {
	if len(pixels) == 0 {
		return ""
	}

	encoded := make([]byte, 0, len(pixels))
	current := pixels[0]
	runLength := 1

	flush := func() {
		encoded = append(encoded, byte(runLength), current[0], current[1], current[2])
	}

	for _, px := range pixels[1:] {
		if px == current && runLength < maxRun {
			runLength++
			continue
		}
		flush()
		current = px
		runLength = 1
	}
	flush()

	return base64.StdEncoding.EncodeToString(encoded)
}

// Decode expands an encoded payload back into exactly pixelCount pixels.
// Empty input yields all-black output. A trailing group shorter than 4 bytes
// is dropped, and any shortfall is padded with black.
func Decode(encoded string, pixelCount int) []pattern.Pixel {
	if pixelCount < 0 {
		pixelCount = 0
	}
	pixels := make([]pattern.Pixel, 0, pixelCount)

	if encoded != "" {
		if decoded, err := base64.StdEncoding.DecodeString(encoded); err == nil {
			for i := 0; i+4 <= len(decoded) && len(pixels) < pixelCount; i += 4 {
				runLength := int(decoded[i])
				px := pattern.Pixel{decoded[i+1], decoded[i+2], decoded[i+3]}
				for r := 0; r < runLength && len(pixels) < pixelCount; r++ {
					pixels = append(pixels, px)
				}
			}
		}
	}

	for len(pixels) < pixelCount {
		pixels = append(pixels, pattern.Black)
	}
	return pixels[:pixelCount]
}
