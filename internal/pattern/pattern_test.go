package pattern

import "testing"

func TestValidateRejectsMismatchedFrame(t *testing.T) {
	p := New("test", NewMetadata(4, 2))
	p.Frames = []Frame{{Pixels: make([]Pixel, 8), DurationMS: 100}}
	if err := p.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	p.Frames = append(p.Frames, Frame{Pixels: make([]Pixel, 7), DurationMS: 100})
	if err := p.Validate(); err == nil {
		t.Fatal("expected validation failure for short frame")
	}
}

func TestValidateRejectsBadMetadata(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Metadata)
	}{
		{"zero width", func(m *Metadata) { m.Width = 0 }},
		{"zero height", func(m *Metadata) { m.Height = 0 }},
		{"bad color order", func(m *Metadata) { m.ColorOrder = "RGBW" }},
		{"brightness above one", func(m *Metadata) { m.Brightness = 1.5 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			meta := NewMetadata(8, 8)
			tc.mutate(&meta)
			if err := meta.Validate(); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestReorderColors(t *testing.T) {
	p := Solid(3, Pixel{10, 20, 30}, 100, "solid")
	if err := p.ReorderColors("GRB"); err != nil {
		t.Fatalf("ReorderColors: %v", err)
	}
	want := Pixel{20, 10, 30}
	for i, px := range p.Frames[0].Pixels {
		if px != want {
			t.Fatalf("pixel %d: got %v, want %v", i, px, want)
		}
	}
	if p.Metadata.ColorOrder != "GRB" {
		t.Fatalf("color order not updated: %q", p.Metadata.ColorOrder)
	}

	// Converting back restores the original channels.
	if err := p.ReorderColors("RGB"); err != nil {
		t.Fatalf("ReorderColors back: %v", err)
	}
	if got := p.Frames[0].Pixels[0]; got != (Pixel{10, 20, 30}) {
		t.Fatalf("round trip: got %v", got)
	}
}

func TestReorderColorsRejectsUnknownOrder(t *testing.T) {
	p := Solid(1, Black, 100, "solid")
	if err := p.ReorderColors("XYZ"); err == nil {
		t.Fatal("expected error")
	}
}

func TestRainbowShape(t *testing.T) {
	p := Rainbow(10, 4)
	if p.FrameCount() != 4 {
		t.Fatalf("frame count: %d", p.FrameCount())
	}
	if err := p.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if p.Frames[0].DurationMS != 50 {
		t.Fatalf("duration: %d", p.Frames[0].DurationMS)
	}
}
