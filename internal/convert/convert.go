package convert

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"ledproj/internal/pattern"
	"ledproj/internal/rle"
	"ledproj/internal/schema"
)

// ToDocument converts a pattern into a schema 1.0 document. Pixel payloads
// are run-length compressed when useRLE is set, otherwise stored as raw
// [R,G,B] triples.
func ToDocument(p *pattern.Pattern, useRLE bool) (map[string]any, error) {
	now := time.Now().UTC().Format(time.RFC3339)

	frames := make([]any, 0, len(p.Frames))
	for idx, frame := range p.Frames {
		layer := map[string]any{
			"id":         uuid.NewString(),
			"name":       "base",
			"opacity":    1.0,
			"blend_mode": "normal",
			"visible":    true,
		}
		if useRLE {
			layer["encoding"] = schema.EncodingRLE
			layer["pixels"] = rle.Encode(frame.Pixels)
		} else {
			layer["encoding"] = schema.EncodingRaw
			layer["pixels"] = rawTriples(frame.Pixels)
		}
		frames = append(frames, map[string]any{
			"index":       idx,
			"duration_ms": frame.DurationMS,
			"layers":      []any{layer},
		})
	}

	effects := make([]any, 0, len(p.Instructions))
	for _, instr := range p.Instructions {
		action := instr.Action
		if action == "" {
			action = "scroll"
		}
		effect := map[string]any{
			"id":   uuid.NewString(),
			"type": action,
		}
		if instr.Params != nil {
			effect["parameters"] = instr.Params
		} else {
			effect["parameters"] = map[string]any{}
		}
		if instr.FrameRange != nil {
			effect["frame_range"] = map[string]any{
				"start": instr.FrameRange.Start,
				"end":   instr.FrameRange.End,
			}
		}
		effects = append(effects, effect)
	}

	sourceFile := p.Metadata.SourcePath
	doc := map[string]any{
		"schema_version": schema.Version,
		"id":             p.ID,
		"name":           p.Name,
		"description":    "",
		"tags":           []any{},
		"created_at":     now,
		"modified_at":    now,
		"matrix":         matrixBlock(p.Metadata),
		"frames":         frames,
		"effects":        effects,
		"metadata": map[string]any{
			"author":              "",
			"source_file":         sourceFile,
			"approx_memory_bytes": p.LEDCount() * 3 * len(p.Frames),
			"export_formats":      toAnySlice(schema.ExportFormats),
		},
	}

	if err := schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("converter produced an invalid document: %w", err)
	}
	return doc, nil
}

// FromDocument validates a document and rebuilds the in-memory pattern.
// Frame durations are taken verbatim; each frame's pixels come from its
// first layer only, padded or trimmed to width*height.
func FromDocument(doc map[string]any) (*pattern.Pattern, error) {
	if err := schema.Validate(doc); err != nil {
		return nil, err
	}

	matrix := doc["matrix"].(map[string]any)
	meta := metadataFromMatrix(matrix)
	pixelCount := meta.LEDCount()

	framesDoc := doc["frames"].([]any)
	frames := make([]pattern.Frame, 0, len(framesDoc))
	for _, fv := range framesDoc {
		frameDoc := fv.(map[string]any)
		duration := intField(frameDoc, "duration_ms", 100)

		var pixels []pattern.Pixel
		if layers, ok := frameDoc["layers"].([]any); ok && len(layers) > 0 {
			first := layers[0].(map[string]any)
			data := schema.LayerPixels(first)
			if data.Compressed() {
				pixels = rle.Decode(data.RLE, pixelCount)
			} else {
				pixels = fitPixels(data.Raw, pixelCount)
			}
		} else {
			pixels = make([]pattern.Pixel, pixelCount)
		}

		frames = append(frames, pattern.Frame{Pixels: pixels, DurationMS: duration})
	}

	id, _ := doc["id"].(string)
	if id == "" {
		id = uuid.NewString()
	}
	name, _ := doc["name"].(string)
	if name == "" {
		name = "Untitled Pattern"
	}

	return &pattern.Pattern{
		ID:       id,
		Name:     name,
		Metadata: meta,
		Frames:   frames,
	}, nil
}

// MatrixMetadata rebuilds pattern metadata from a document's matrix block.
func MatrixMetadata(matrix map[string]any) pattern.Metadata {
	return metadataFromMatrix(matrix)
}

// matrixBlock flattens the model's wiring representation into the schema's
// layout/wiring pair and copies whichever geometry fields are set.
func matrixBlock(meta pattern.Metadata) map[string]any {
	layout := "row_major"
	if strings.HasPrefix(meta.WiringMode, "Column") {
		layout = "column_major"
	}
	wiring := "linear"
	if strings.Contains(strings.ToLower(meta.WiringMode), "serpentine") {
		wiring = "zigzag"
	}
	colorOrder := meta.ColorOrder
	if colorOrder == "" {
		colorOrder = "RGB"
	}

	matrix := map[string]any{
		"width":               meta.Width,
		"height":              meta.Height,
		"layout":              layout,
		"wiring":              wiring,
		"default_color_order": colorOrder,
	}

	layoutType := meta.LayoutType
	if layoutType == "" {
		layoutType = pattern.LayoutRectangular
	}
	matrix["layout_type"] = string(layoutType)

	setInt(matrix, "circular_led_count", meta.CircularLEDCount)
	setFloat(matrix, "circular_radius", meta.CircularRadius)
	setFloat(matrix, "circular_inner_radius", meta.CircularInnerRadius)
	if meta.CircularStartAngle != 0 {
		matrix["circular_start_angle"] = meta.CircularStartAngle
	}
	if meta.CircularEndAngle != 0 && meta.CircularEndAngle != 360 {
		matrix["circular_end_angle"] = meta.CircularEndAngle
	}
	setFloat(matrix, "circular_led_spacing", meta.CircularLEDSpacing)
	if len(meta.MappingTable) > 0 {
		table := make([]any, 0, len(meta.MappingTable))
		for _, pt := range meta.MappingTable {
			table = append(table, []any{pt.X, pt.Y})
		}
		matrix["circular_mapping_table"] = table
	}

	setInt(matrix, "multi_ring_count", meta.MultiRingCount)
	if len(meta.RingLEDCounts) > 0 {
		matrix["ring_led_counts"] = toAnyInts(meta.RingLEDCounts)
	}
	if len(meta.RingRadii) > 0 {
		matrix["ring_radii"] = toAnyFloats(meta.RingRadii)
	}
	setFloat(matrix, "ring_spacing", meta.RingSpacing)

	setInt(matrix, "ray_count", meta.RayCount)
	setInt(matrix, "leds_per_ray", meta.LEDsPerRay)
	setFloat(matrix, "ray_spacing_angle", meta.RaySpacingAngle)

	if len(meta.CustomLEDPositions) > 0 {
		positions := make([]any, 0, len(meta.CustomLEDPositions))
		for _, pos := range meta.CustomLEDPositions {
			positions = append(positions, []any{pos.X, pos.Y})
		}
		matrix["custom_led_positions"] = positions
		units := meta.LEDPositionUnits
		if units == "" {
			units = "grid"
		}
		matrix["led_position_units"] = units
	}
	setFloat(matrix, "custom_position_center_x", meta.CustomPositionCenterX)
	setFloat(matrix, "custom_position_center_y", meta.CustomPositionCenterY)

	if meta.MatrixStyle != "" {
		matrix["matrix_style"] = meta.MatrixStyle
	}
	if meta.TextContent != "" {
		matrix["text_content"] = meta.TextContent
	}
	setInt(matrix, "text_font_size", meta.TextFontSize)
	if meta.TextColor != "" {
		matrix["text_color"] = meta.TextColor
	}

	if meta.IrregularShapeEnabled {
		matrix["irregular_shape_enabled"] = true
		if len(meta.ActiveCells) > 0 {
			cells := make([]any, 0, len(meta.ActiveCells))
			for _, cell := range meta.ActiveCells {
				cells = append(cells, []any{cell.X, cell.Y})
			}
			matrix["active_cell_coordinates"] = cells
		}
		if meta.BackgroundImagePath != "" {
			matrix["background_image_path"] = meta.BackgroundImagePath
			if meta.BackgroundImageScale > 0 {
				matrix["background_image_scale"] = meta.BackgroundImageScale
			}
			matrix["background_image_offset_x"] = meta.BackgroundImageOffsetX
			matrix["background_image_offset_y"] = meta.BackgroundImageOffsetY
		}
	}

	return matrix
}

// metadataFromMatrix rebuilds the internal representation, folding the
// layout/wiring pair back into a wiring mode.
func metadataFromMatrix(matrix map[string]any) pattern.Metadata {
	meta := pattern.NewMetadata(intField(matrix, "width", 1), intField(matrix, "height", 1))
	meta.ColorOrder = stringField(matrix, "default_color_order", "RGB")

	layout := stringField(matrix, "layout", "row_major")
	wiring := stringField(matrix, "wiring", "linear")
	zigzag := wiring == "zigzag" || wiring == "serpentine"
	switch {
	case layout == "column_major" && zigzag:
		meta.WiringMode = pattern.WiringColumnSerpentine
	case layout == "column_major":
		meta.WiringMode = pattern.WiringColumnMajor
	case zigzag:
		meta.WiringMode = pattern.WiringSerpentine
	default:
		meta.WiringMode = pattern.WiringRowMajor
	}

	meta.LayoutType = pattern.LayoutType(stringField(matrix, "layout_type", string(pattern.LayoutRectangular)))
	meta.CircularLEDCount = intPtrField(matrix, "circular_led_count")
	meta.CircularRadius = floatPtrField(matrix, "circular_radius")
	meta.CircularInnerRadius = floatPtrField(matrix, "circular_inner_radius")
	meta.CircularStartAngle = floatField(matrix, "circular_start_angle", 0)
	meta.CircularEndAngle = floatField(matrix, "circular_end_angle", 360)
	meta.CircularLEDSpacing = floatPtrField(matrix, "circular_led_spacing")
	meta.MappingTable = gridPoints(matrix["circular_mapping_table"])

	meta.MultiRingCount = intPtrField(matrix, "multi_ring_count")
	meta.RingLEDCounts = intSlice(matrix["ring_led_counts"])
	meta.RingRadii = floatSlice(matrix["ring_radii"])
	meta.RingSpacing = floatPtrField(matrix, "ring_spacing")

	meta.RayCount = intPtrField(matrix, "ray_count")
	meta.LEDsPerRay = intPtrField(matrix, "leds_per_ray")
	meta.RaySpacingAngle = floatPtrField(matrix, "ray_spacing_angle")

	meta.CustomLEDPositions = positions(matrix["custom_led_positions"])
	meta.LEDPositionUnits = stringField(matrix, "led_position_units", "grid")
	meta.CustomPositionCenterX = floatPtrField(matrix, "custom_position_center_x")
	meta.CustomPositionCenterY = floatPtrField(matrix, "custom_position_center_y")

	meta.MatrixStyle = stringField(matrix, "matrix_style", "")
	meta.TextContent = stringField(matrix, "text_content", "")
	meta.TextFontSize = intPtrField(matrix, "text_font_size")
	meta.TextColor = stringField(matrix, "text_color", "")

	meta.IrregularShapeEnabled = boolField(matrix, "irregular_shape_enabled")
	meta.ActiveCells = gridPoints(matrix["active_cell_coordinates"])
	meta.BackgroundImagePath = stringField(matrix, "background_image_path", "")
	meta.BackgroundImageScale = floatField(matrix, "background_image_scale", 1.0)
	meta.BackgroundImageOffsetX = floatField(matrix, "background_image_offset_x", 0)
	meta.BackgroundImageOffsetY = floatField(matrix, "background_image_offset_y", 0)

	return meta
}

func rawTriples(pixels []pattern.Pixel) []any {
	triples := make([]any, 0, len(pixels))
	for _, px := range pixels {
		triples = append(triples, []any{int(px[0]), int(px[1]), int(px[2])})
	}
	return triples
}

func fitPixels(pixels []pattern.Pixel, count int) []pattern.Pixel {
	out := make([]pattern.Pixel, count)
	copy(out, pixels)
	return out
}
