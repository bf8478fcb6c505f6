package pattern

import (
	"fmt"

	"github.com/google/uuid"
)

// Pixel is one RGB triple, channels 0-255.
type Pixel [3]uint8

// Black is the zero pixel used for padding short payloads.
var Black = Pixel{0, 0, 0}

// Frame is a single animation step.
type Frame struct {
	Pixels     []Pixel
	DurationMS int
}

// LEDCount returns the number of pixels in the frame.
func (f Frame) LEDCount() int { return len(f.Pixels) }

// Copy returns a deep copy of the frame.
func (f Frame) Copy() Frame {
	pixels := make([]Pixel, len(f.Pixels))
	copy(pixels, f.Pixels)
	return Frame{Pixels: pixels, DurationMS: f.DurationMS}
}

// Wiring modes as stored in the model. The document schema flattens these
// into layout (row_major/column_major) + wiring (linear/zigzag) pairs.
const (
	WiringRowMajor         = "Row-major"
	WiringSerpentine       = "Serpentine"
	WiringColumnMajor      = "Column-major"
	WiringColumnSerpentine = "Column-serpentine"
)

// LayoutType selects which geometry fields of Metadata are meaningful.
type LayoutType string

const (
	LayoutRectangular     LayoutType = "rectangular"
	LayoutCircle          LayoutType = "circle"
	LayoutRing            LayoutType = "ring"
	LayoutArc             LayoutType = "arc"
	LayoutRadial          LayoutType = "radial"
	LayoutMultiRing       LayoutType = "multi_ring"
	LayoutRadialRays      LayoutType = "radial_rays"
	LayoutCustomPositions LayoutType = "custom_positions"
	LayoutIrregular       LayoutType = "irregular"
)

// ColorOrders lists the accepted channel permutations.
var ColorOrders = []string{"RGB", "GRB", "BRG", "BGR", "RBG", "GBR"}

// ValidColorOrder reports whether order is one of the six permutations.
func ValidColorOrder(order string) bool {
	for _, o := range ColorOrders {
		if o == order {
			return true
		}
	}
	return false
}

// GridPoint is an LED's cell in the logical grid.
type GridPoint struct {
	X int
	Y int
}

// Position is an LED's physical placement for custom PCB layouts.
type Position struct {
	X float64
	Y float64
}

// FrameRange bounds an effect to a span of frame indices.
type FrameRange struct {
	Start int
	End   int
}

// Instruction is a stored, non-destructive effect descriptor. The core
// persists these verbatim; interpreting them belongs to the animation engine.
type Instruction struct {
	Action     string
	Params     map[string]any
	FrameRange *FrameRange
}

// Metadata carries matrix configuration and layout geometry.
//
// Optional numeric geometry fields are pointers so that "unset" survives a
// round trip through the document format instead of collapsing to zero.
type Metadata struct {
	Width        int
	Height       int
	ColorOrder   string
	WiringMode   string
	DataInCorner string
	Brightness   float64
	LEDType      string
	SourcePath   string

	LayoutType LayoutType

	// Circle / ring / arc layouts.
	CircularLEDCount    *int
	CircularRadius      *float64
	CircularInnerRadius *float64
	CircularStartAngle  float64
	CircularEndAngle    float64
	CircularLEDSpacing  *float64

	// LED index -> grid cell, generated by internal/mapping for every
	// non-rectangular, non-irregular layout.
	MappingTable []GridPoint

	// Concentric multi-ring layouts.
	MultiRingCount *int
	RingLEDCounts  []int
	RingRadii      []float64
	RingSpacing    *float64

	// Radial ray layouts.
	RayCount        *int
	LEDsPerRay      *int
	RaySpacingAngle *float64

	// Custom PCB positions.
	CustomLEDPositions    []Position
	LEDPositionUnits      string
	CustomPositionCenterX *float64
	CustomPositionCenterY *float64

	// Matrix-style text rendering hints.
	MatrixStyle  string
	TextContent  string
	TextFontSize *int
	TextColor    string

	// Irregular (freeform) shapes.
	IrregularShapeEnabled  bool
	ActiveCells            []GridPoint
	BackgroundImagePath    string
	BackgroundImageScale   float64
	BackgroundImageOffsetX float64
	BackgroundImageOffsetY float64
}

// NewMetadata returns metadata for a rectangular matrix with model defaults.
func NewMetadata(width, height int) Metadata {
	return Metadata{
		Width:                width,
		Height:               height,
		ColorOrder:           "RGB",
		WiringMode:           WiringRowMajor,
		DataInCorner:         "LT",
		Brightness:           1.0,
		LEDType:              "ws2812",
		LayoutType:           LayoutRectangular,
		CircularStartAngle:   0,
		CircularEndAngle:     360,
		LEDPositionUnits:     "grid",
		BackgroundImageScale: 1.0,
	}
}

// LEDCount returns the total pixel count for the matrix.
func (m Metadata) LEDCount() int { return m.Width * m.Height }

// IsMatrix reports whether the layout is a 2D grid rather than a strip.
func (m Metadata) IsMatrix() bool { return m.Height > 1 }

// Validate checks the metadata ranges shared with the document schema.
func (m Metadata) Validate() error {
	if m.Width < 1 {
		return fmt.Errorf("width must be >= 1, got %d", m.Width)
	}
	if m.Height < 1 {
		return fmt.Errorf("height must be >= 1, got %d", m.Height)
	}
	if m.ColorOrder != "" && !ValidColorOrder(m.ColorOrder) {
		return fmt.Errorf("invalid color order %q", m.ColorOrder)
	}
	if m.Brightness < 0 || m.Brightness > 1 {
		return fmt.Errorf("brightness must be 0.0-1.0, got %g", m.Brightness)
	}
	return nil
}

// Pattern is a complete animation: identity, matrix metadata, frames, and any
// stored effect instructions.
type Pattern struct {
	ID           string
	Name         string
	Metadata     Metadata
	Frames       []Frame
	Instructions []Instruction
}

// New creates an empty pattern with a fresh UUID.
func New(name string, meta Metadata) *Pattern {
	return &Pattern{
		ID:       uuid.NewString(),
		Name:     name,
		Metadata: meta,
	}
}

// FrameCount returns the number of frames.
func (p *Pattern) FrameCount() int { return len(p.Frames) }

// LEDCount returns the pixel count every frame must carry.
func (p *Pattern) LEDCount() int { return p.Metadata.LEDCount() }

// Validate checks metadata ranges and that every frame matches the matrix
// pixel count.
func (p *Pattern) Validate() error {
	if err := p.Metadata.Validate(); err != nil {
		return err
	}
	expected := p.LEDCount()
	for i, frame := range p.Frames {
		if frame.LEDCount() != expected {
			return fmt.Errorf("frame %d has %d pixels, expected %d", i, frame.LEDCount(), expected)
		}
	}
	return nil
}

// ReorderColors converts all frames from the current color order to newOrder
// and records the new order in the metadata.
func (p *Pattern) ReorderColors(newOrder string) error {
	if !ValidColorOrder(newOrder) {
		return fmt.Errorf("invalid color order %q", newOrder)
	}
	oldOrder := p.Metadata.ColorOrder
	if oldOrder == "" {
		oldOrder = "RGB"
	}
	if oldOrder == newOrder {
		return nil
	}

	// reorderMap[i] is the old channel index feeding new channel i.
	oldIndex := channelIndex(oldOrder)
	newIndex := channelIndex(newOrder)
	var reorderMap [3]int
	for _, ch := range []byte{'R', 'G', 'B'} {
		reorderMap[newIndex[ch]] = oldIndex[ch]
	}

	for fi := range p.Frames {
		for pi, px := range p.Frames[fi].Pixels {
			p.Frames[fi].Pixels[pi] = Pixel{px[reorderMap[0]], px[reorderMap[1]], px[reorderMap[2]]}
		}
	}
	p.Metadata.ColorOrder = newOrder
	return nil
}

func channelIndex(order string) map[byte]int {
	idx := make(map[byte]int, 3)
	for i := 0; i < len(order); i++ {
		idx[order[i]] = i
	}
	return idx
}
