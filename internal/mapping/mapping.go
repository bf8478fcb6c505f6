package mapping

import (
	"errors"
	"fmt"
	"math"

	"ledproj/internal/pattern"
)

// GenerateTable builds the LED index -> grid cell table for the metadata's
// layout type. Rectangular layouts get the trivial row-major identity table.
func GenerateTable(meta *pattern.Metadata) ([]pattern.GridPoint, error) {
	switch meta.LayoutType {
	case pattern.LayoutRectangular, "":
		return rectangularTable(meta), nil
	case pattern.LayoutMultiRing:
		return multiRingTable(meta)
	case pattern.LayoutRadialRays:
		return radialRayTable(meta)
	case pattern.LayoutCustomPositions:
		return customPositionTable(meta)
	case pattern.LayoutRadial:
		return radialTable(meta), nil
	case pattern.LayoutCircle, pattern.LayoutRing, pattern.LayoutArc:
		return circularTable(meta)
	default:
		return nil, fmt.Errorf("no mapping generator for layout type %q", meta.LayoutType)
	}
}

// ValidateTable checks that the stored mapping table matches the metadata:
// right length for the layout, every cell inside the grid. Rectangular
// layouts never need a table and always validate.
func ValidateTable(meta *pattern.Metadata) error {
	if meta.LayoutType == pattern.LayoutRectangular || meta.LayoutType == "" {
		return nil
	}
	if len(meta.MappingTable) == 0 {
		return errors.New("mapping table is missing")
	}

	expected := expectedLEDCount(meta)
	if expected == 0 {
		return errors.New("circular LED count is unset")
	}
	if len(meta.MappingTable) != expected {
		return fmt.Errorf("mapping table has %d entries, expected %d", len(meta.MappingTable), expected)
	}

	for i, cell := range meta.MappingTable {
		if cell.X < 0 || cell.X >= meta.Width {
			return fmt.Errorf("LED %d maps outside grid: x=%d (width %d)", i, cell.X, meta.Width)
		}
		if cell.Y < 0 || cell.Y >= meta.Height {
			return fmt.Errorf("LED %d maps outside grid: y=%d (height %d)", i, cell.Y, meta.Height)
		}
	}
	return nil
}

// EnsureTable regenerates the mapping table when it is missing or invalid
// and reports whether a valid table is in place afterwards.
func EnsureTable(meta *pattern.Metadata) bool {
	if meta.LayoutType == pattern.LayoutRectangular || meta.LayoutType == "" {
		return true
	}
	if ValidateTable(meta) == nil {
		return true
	}
	table, err := GenerateTable(meta)
	if err != nil {
		return false
	}
	meta.MappingTable = table
	return ValidateTable(meta) == nil
}

// EnsureActiveCells initializes the irregular-shape active cell list to the
// full grid when the shape is enabled but no cells were recorded.
func EnsureActiveCells(meta *pattern.Metadata) {
	if !meta.IrregularShapeEnabled || len(meta.ActiveCells) > 0 {
		return
	}
	cells := make([]pattern.GridPoint, 0, meta.Width*meta.Height)
	for y := 0; y < meta.Height; y++ {
		for x := 0; x < meta.Width; x++ {
			cells = append(cells, pattern.GridPoint{X: x, Y: y})
		}
	}
	meta.ActiveCells = cells
}

// LayoutLEDCount returns the physical LED count: the grid size for
// rectangular layouts, the circular count for everything else.
func LayoutLEDCount(meta *pattern.Metadata) int {
	if meta.LayoutType == pattern.LayoutRectangular || meta.LayoutType == "" {
		return meta.LEDCount()
	}
	if n := expectedLEDCount(meta); n > 0 {
		return n
	}
	return meta.LEDCount()
}

func expectedLEDCount(meta *pattern.Metadata) int {
	switch meta.LayoutType {
	case pattern.LayoutMultiRing:
		if len(meta.RingLEDCounts) > 0 {
			total := 0
			for _, n := range meta.RingLEDCounts {
				total += n
			}
			return total
		}
	case pattern.LayoutRadialRays:
		if meta.RayCount != nil && meta.LEDsPerRay != nil {
			return *meta.RayCount * *meta.LEDsPerRay
		}
	case pattern.LayoutCustomPositions:
		if len(meta.CustomLEDPositions) > 0 {
			return len(meta.CustomLEDPositions)
		}
	case pattern.LayoutRadial:
		return meta.LEDCount()
	}
	if meta.CircularLEDCount != nil {
		return *meta.CircularLEDCount
	}
	return 0
}

func rectangularTable(meta *pattern.Metadata) []pattern.GridPoint {
	table := make([]pattern.GridPoint, 0, meta.Width*meta.Height)
	for y := 0; y < meta.Height; y++ {
		for x := 0; x < meta.Width; x++ {
			table = append(table, pattern.GridPoint{X: x, Y: y})
		}
	}
	return table
}

// radialTable treats rows as concentric circles and columns as the LEDs on
// each circle, so the table is the plain grid order.
func radialTable(meta *pattern.Metadata) []pattern.GridPoint {
	return rectangularTable(meta)
}

func circularTable(meta *pattern.Metadata) ([]pattern.GridPoint, error) {
	if meta.CircularLEDCount == nil || *meta.CircularLEDCount < 1 {
		return nil, errors.New("circular_led_count must be set for circular layouts")
	}
	ledCount := *meta.CircularLEDCount

	radius := autoRadius(meta)
	if meta.CircularRadius != nil {
		radius = *meta.CircularRadius
	}
	if radius <= 0 {
		return nil, fmt.Errorf("circular radius must be > 0, got %g", radius)
	}

	startAngle := meta.CircularStartAngle
	endAngle := meta.CircularEndAngle
	if startAngle < 0 || startAngle >= 360 {
		return nil, fmt.Errorf("start angle must be in [0, 360), got %g", startAngle)
	}
	if endAngle <= startAngle || endAngle > 360 {
		return nil, fmt.Errorf("end angle must be in (start, 360], got %g", endAngle)
	}
	if meta.LayoutType == pattern.LayoutRing && meta.CircularInnerRadius != nil {
		if *meta.CircularInnerRadius < 0 || *meta.CircularInnerRadius >= radius {
			return nil, fmt.Errorf("inner radius must be in [0, %g), got %g", radius, *meta.CircularInnerRadius)
		}
	}

	table := make([]pattern.GridPoint, 0, ledCount)
	startRad := startAngle * math.Pi / 180
	angleRange := (endAngle - startAngle) * math.Pi / 180
	for i := 0; i < ledCount; i++ {
		t := 0.0
		if ledCount > 1 {
			t = float64(i) / float64(ledCount-1)
		}
		angle := startRad + t*angleRange
		table = append(table, toCell(meta, angle, radius))
	}
	return table, nil
}

func multiRingTable(meta *pattern.Metadata) ([]pattern.GridPoint, error) {
	if meta.MultiRingCount == nil || *meta.MultiRingCount < 1 {
		return nil, errors.New("multi_ring_count must be >= 1")
	}
	rings := *meta.MultiRingCount
	if len(meta.RingLEDCounts) != rings {
		return nil, fmt.Errorf("ring_led_counts has %d entries, expected %d", len(meta.RingLEDCounts), rings)
	}
	if len(meta.RingRadii) != rings {
		return nil, fmt.Errorf("ring_radii has %d entries, expected %d", len(meta.RingRadii), rings)
	}

	var table []pattern.GridPoint
	// Ring 0 is innermost; LEDs are ordered ring by ring.
	for ring := 0; ring < rings; ring++ {
		ledCount := meta.RingLEDCounts[ring]
		radius := meta.RingRadii[ring]
		for i := 0; i < ledCount; i++ {
			t := 0.0
			if ledCount > 1 {
				t = float64(i) / float64(ledCount-1)
			}
			angle := t * 2 * math.Pi
			table = append(table, toCell(meta, angle, radius))
		}
	}
	return table, nil
}

func radialRayTable(meta *pattern.Metadata) ([]pattern.GridPoint, error) {
	if meta.RayCount == nil || *meta.RayCount < 1 {
		return nil, errors.New("ray_count must be >= 1")
	}
	if meta.LEDsPerRay == nil || *meta.LEDsPerRay < 1 {
		return nil, errors.New("leds_per_ray must be >= 1")
	}

	maxRadius := autoRadius(meta)
	spacing := 2 * math.Pi / float64(*meta.RayCount)
	if meta.RaySpacingAngle != nil {
		spacing = *meta.RaySpacingAngle * math.Pi / 180
	}

	var table []pattern.GridPoint
	// LEDs run center-outward along ray 0, then ray 1, and so on.
	for ray := 0; ray < *meta.RayCount; ray++ {
		angle := float64(ray) * spacing
		for led := 0; led < *meta.LEDsPerRay; led++ {
			t := float64(led+1) / float64(*meta.LEDsPerRay)
			table = append(table, toCell(meta, angle, t*maxRadius))
		}
	}
	return table, nil
}

func customPositionTable(meta *pattern.Metadata) ([]pattern.GridPoint, error) {
	if len(meta.CustomLEDPositions) == 0 {
		return nil, errors.New("custom_led_positions must be provided for custom position layouts")
	}

	const inchToMM = 25.4
	positions := meta.CustomLEDPositions
	units := meta.LEDPositionUnits
	if units == "" {
		units = "grid"
	}
	if units == "inches" {
		converted := make([]pattern.Position, len(positions))
		for i, pos := range positions {
			converted[i] = pattern.Position{X: pos.X * inchToMM, Y: pos.Y * inchToMM}
		}
		positions = converted
		units = "mm"
	}

	centerX := float64(meta.Width-1) / 2
	centerY := float64(meta.Height-1) / 2
	scale := 1.0
	offsetX, offsetY := 0.0, 0.0

	switch units {
	case "grid":
		// Positions are already grid cells.
	case "mm":
		// Scale the physical bounding box to fit the grid with a margin,
		// then center it.
		minX, maxX := positions[0].X, positions[0].X
		minY, maxY := positions[0].Y, positions[0].Y
		for _, pos := range positions[1:] {
			minX = math.Min(minX, pos.X)
			maxX = math.Max(maxX, pos.X)
			minY = math.Min(minY, pos.Y)
			maxY = math.Max(maxY, pos.Y)
		}
		scaleX, scaleY := 1.0, 1.0
		if maxX > minX {
			scaleX = float64(meta.Width) * 0.9 / (maxX - minX)
		}
		if maxY > minY {
			scaleY = float64(meta.Height) * 0.9 / (maxY - minY)
		}
		scale = math.Min(scaleX, scaleY)
		offsetX = centerX - (minX+maxX)/2*scale
		offsetY = centerY - (minY+maxY)/2*scale
	default:
		return nil, fmt.Errorf("unknown led_position_units %q", meta.LEDPositionUnits)
	}

	if meta.CustomPositionCenterX != nil {
		offsetX = *meta.CustomPositionCenterX
	}
	if meta.CustomPositionCenterY != nil {
		offsetY = *meta.CustomPositionCenterY
	}

	table := make([]pattern.GridPoint, 0, len(positions))
	for _, pos := range positions {
		table = append(table, clampCell(meta, pos.X*scale+offsetX, pos.Y*scale+offsetY))
	}
	return table, nil
}

// autoRadius fits a circle inside the grid with a one-cell margin.
func autoRadius(meta *pattern.Metadata) float64 {
	r := math.Min(float64(meta.Width), float64(meta.Height))/2 - 1
	if r < 0.5 {
		r = 0.5
	}
	return r
}

func toCell(meta *pattern.Metadata, angle, radius float64) pattern.GridPoint {
	centerX := float64(meta.Width-1) / 2
	centerY := float64(meta.Height-1) / 2
	return clampCell(meta, centerX+radius*math.Cos(angle), centerY+radius*math.Sin(angle))
}

func clampCell(meta *pattern.Metadata, x, y float64) pattern.GridPoint {
	cell := pattern.GridPoint{X: int(math.Round(x)), Y: int(math.Round(y))}
	if cell.X < 0 {
		cell.X = 0
	}
	if cell.X > meta.Width-1 {
		cell.X = meta.Width - 1
	}
	if cell.Y < 0 {
		cell.Y = 0
	}
	if cell.Y > meta.Height-1 {
		cell.Y = meta.Height - 1
	}
	return cell
}
