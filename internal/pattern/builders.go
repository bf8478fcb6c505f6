package pattern

import "math"

// Solid creates a single-frame pattern filling every LED with one color.
func Solid(ledCount int, color Pixel, durationMS int, name string) *Pattern {
	pixels := make([]Pixel, ledCount)
	for i := range pixels {
		pixels[i] = color
	}
	p := New(name, NewMetadata(ledCount, 1))
	p.Frames = []Frame{{Pixels: pixels, DurationMS: durationMS}}
	return p
}

// Rainbow creates a cycling rainbow strip, useful for previews and tests.
func Rainbow(ledCount, frameCount int) *Pattern {
	p := New("Test Rainbow", NewMetadata(ledCount, 1))
	p.Frames = make([]Frame, 0, frameCount)
	for f := 0; f < frameCount; f++ {
		pixels := make([]Pixel, ledCount)
		for i := 0; i < ledCount; i++ {
			hue := math.Mod(float64(i)/float64(ledCount)+float64(f)/float64(frameCount), 1.0)
			pixels[i] = Pixel{
				waveChannel(hue),
				waveChannel(hue + 0.333),
				waveChannel(hue + 0.666),
			}
		}
		p.Frames = append(p.Frames, Frame{Pixels: pixels, DurationMS: 50})
	}
	return p
}

func waveChannel(hue float64) uint8 {
	v := 255 * (0.5 + 0.5*math.Sin(2*math.Pi*hue))
	if v < 0 {
		v = 0
	}
	if v > 255 {
		v = 255
	}
	return uint8(v)
}
