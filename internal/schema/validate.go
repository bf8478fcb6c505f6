package schema

import (
	"fmt"

	"ledproj/internal/pattern"
)

// Version is the only schema version this build reads and writes.
const Version = "1.0"

// Enumerations shared between the validator and the converter.
var (
	Layouts       = []string{"row_major", "column_major"}
	Wirings       = []string{"linear", "zigzag", "serpentine"}
	BlendModes    = []string{"normal", "add", "multiply", "screen"}
	Encodings     = []string{EncodingRLE, EncodingRawRGBA, EncodingRaw}
	EffectTypes   = []string{"scroll", "rotate", "mirror", "flip", "invert", "wipe", "reveal", "bounce"}
	ExportFormats = []string{"bin", "leds", "json", "hex", "dat", "h", "ledproj"}
	LayoutTypes   = []string{
		"rectangular", "circle", "ring", "arc", "radial",
		"multi_ring", "radial_rays", "custom_positions", "irregular",
	}
)

// Pixel encoding tags.
const (
	EncodingRLE     = "rle+rgba8"
	EncodingRawRGBA = "raw+rgba8"
	EncodingRaw     = "raw+rgb8"
)

func fieldSet(names ...string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, name := range names {
		set[name] = true
	}
	return set
}

var topLevelFields = fieldSet(
	"schema_version", "id", "name", "description", "tags",
	"created_at", "modified_at", "matrix", "frames", "effects", "metadata",
)

var matrixFields = fieldSet(
	"width", "height", "layout", "wiring", "default_color_order",
	"layout_type",
	"circular_led_count", "circular_radius", "circular_inner_radius",
	"circular_start_angle", "circular_end_angle", "circular_led_spacing",
	"circular_mapping_table",
	"multi_ring_count", "ring_led_counts", "ring_radii", "ring_spacing",
	"ray_count", "leds_per_ray", "ray_spacing_angle",
	"custom_led_positions", "led_position_units",
	"custom_position_center_x", "custom_position_center_y",
	"matrix_style", "text_content", "text_font_size", "text_color",
	"irregular_shape_enabled", "active_cell_coordinates",
	"background_image_path", "background_image_scale",
	"background_image_offset_x", "background_image_offset_y",
)

var frameFields = fieldSet("index", "duration_ms", "layers")

var layerFields = fieldSet("id", "name", "opacity", "blend_mode", "visible", "pixels", "encoding")

var effectFields = fieldSet("id", "type", "parameters", "frame_range")

// Validate checks a decoded pattern document against the 1.0 contract and
// returns a *ValidationError describing the first violation, or nil.
func Validate(doc map[string]any) error {
	for _, field := range []string{"schema_version", "id", "name", "matrix", "frames"} {
		if _, ok := present(doc, field); !ok {
			return invalid(field, "required field is missing")
		}
	}
	if err := rejectUnknown(doc, topLevelFields, ""); err != nil {
		return err
	}

	version, ok := asString(doc["schema_version"])
	if !ok || version != Version {
		return invalid("schema_version", "must be %q", Version)
	}
	if _, ok := asString(doc["id"]); !ok {
		return invalid("id", "must be a string")
	}
	name, ok := asString(doc["name"])
	if !ok || name == "" || len(name) > 256 {
		return invalid("name", "must be a string of 1-256 characters")
	}
	if v, ok := present(doc, "description"); ok {
		desc, ok := asString(v)
		if !ok || len(desc) > 4096 {
			return invalid("description", "must be a string of at most 4096 characters")
		}
	}
	if v, ok := present(doc, "tags"); ok {
		if err := validateTags(v); err != nil {
			return err
		}
	}
	for _, field := range []string{"created_at", "modified_at"} {
		if v, ok := present(doc, field); ok {
			if _, ok := asString(v); !ok {
				return invalid(field, "must be an ISO 8601 timestamp string")
			}
		}
	}

	matrix, ok := asObject(doc["matrix"])
	if !ok {
		return invalid("matrix", "must be an object")
	}
	if err := validateMatrix(matrix); err != nil {
		return err
	}
	pixelCount := 0
	if w, ok := asInt(matrix["width"]); ok {
		if h, ok := asInt(matrix["height"]); ok {
			pixelCount = w * h
		}
	}

	frames, ok := asArray(doc["frames"])
	if !ok || len(frames) == 0 {
		return invalid("frames", "must be a non-empty array")
	}
	for i, fv := range frames {
		if err := validateFrame(fv, i, pixelCount); err != nil {
			return err
		}
	}

	if v, ok := present(doc, "effects"); ok {
		effects, ok := asArray(v)
		if !ok {
			return invalid("effects", "must be an array")
		}
		for i, ev := range effects {
			if err := validateEffect(ev, i); err != nil {
				return err
			}
		}
	}

	if v, ok := present(doc, "metadata"); ok {
		if err := validateMetadata(v); err != nil {
			return err
		}
	}
	return nil
}

func rejectUnknown(obj map[string]any, allowed map[string]bool, prefix string) error {
	for _, key := range sortedKeys(obj) {
		if !allowed[key] {
			return invalid(prefix+key, "unknown field")
		}
	}
	return nil
}

func validateTags(v any) error {
	tags, ok := asArray(v)
	if !ok {
		return invalid("tags", "must be an array of strings")
	}
	seen := make(map[string]bool, len(tags))
	for i, tv := range tags {
		tag, ok := asString(tv)
		if !ok || tag == "" || len(tag) > 64 {
			return invalid(fmt.Sprintf("tags[%d]", i), "must be a string of 1-64 characters")
		}
		if seen[tag] {
			return invalid(fmt.Sprintf("tags[%d]", i), "duplicate tag %q", tag)
		}
		seen[tag] = true
	}
	return nil
}

func validateMatrix(matrix map[string]any) error {
	if err := rejectUnknown(matrix, matrixFields, "matrix."); err != nil {
		return err
	}
	for _, field := range []string{"width", "height"} {
		v, ok := present(matrix, field)
		if !ok {
			return invalid("matrix."+field, "required field is missing")
		}
		n, ok := asInt(v)
		if !ok || n < 1 || n > 256 {
			return invalid("matrix."+field, "must be an integer between 1 and 256")
		}
	}
	if err := optionalEnum(matrix, "layout", Layouts); err != nil {
		return err
	}
	if err := optionalEnum(matrix, "wiring", Wirings); err != nil {
		return err
	}
	if err := optionalEnum(matrix, "default_color_order", pattern.ColorOrders); err != nil {
		return err
	}
	return validateMatrixGeometry(matrix)
}

// validateMatrixGeometry range-checks the layout-type specific fields. They
// are accepted regardless of which layout_type is selected; cross-field
// consistency is owned by the mapping layer, not the schema.
func validateMatrixGeometry(matrix map[string]any) error {
	if err := optionalEnum(matrix, "layout_type", LayoutTypes); err != nil {
		return err
	}
	for _, field := range []string{"circular_led_count", "multi_ring_count", "ray_count", "leds_per_ray", "text_font_size"} {
		if err := optionalPositiveInt(matrix, field); err != nil {
			return err
		}
	}
	for _, field := range []string{"circular_radius", "circular_inner_radius", "circular_led_spacing", "ring_spacing", "background_image_scale"} {
		if err := optionalPositiveNumber(matrix, field); err != nil {
			return err
		}
	}
	for _, field := range []string{
		"circular_start_angle", "circular_end_angle", "ray_spacing_angle",
		"custom_position_center_x", "custom_position_center_y",
		"background_image_offset_x", "background_image_offset_y",
	} {
		if v, ok := present(matrix, field); ok {
			if _, ok := asNumber(v); !ok {
				return invalid("matrix."+field, "must be a number")
			}
		}
	}
	for _, field := range []string{"led_position_units", "matrix_style", "text_content", "text_color", "background_image_path"} {
		if v, ok := present(matrix, field); ok {
			if _, ok := asString(v); !ok {
				return invalid("matrix."+field, "must be a string")
			}
		}
	}
	if v, ok := present(matrix, "irregular_shape_enabled"); ok {
		if _, ok := asBool(v); !ok {
			return invalid("matrix.irregular_shape_enabled", "must be a boolean")
		}
	}
	for _, field := range []string{"circular_mapping_table", "active_cell_coordinates"} {
		if err := optionalPairList(matrix, field, true); err != nil {
			return err
		}
	}
	if err := optionalPairList(matrix, "custom_led_positions", false); err != nil {
		return err
	}
	if v, ok := present(matrix, "ring_led_counts"); ok {
		counts, ok := asArray(v)
		if !ok {
			return invalid("matrix.ring_led_counts", "must be an array of integers")
		}
		for i, cv := range counts {
			n, ok := asInt(cv)
			if !ok || n < 1 {
				return invalid(fmt.Sprintf("matrix.ring_led_counts[%d]", i), "must be a positive integer")
			}
		}
	}
	if v, ok := present(matrix, "ring_radii"); ok {
		radii, ok := asArray(v)
		if !ok {
			return invalid("matrix.ring_radii", "must be an array of numbers")
		}
		for i, rv := range radii {
			n, ok := asNumber(rv)
			if !ok || n <= 0 {
				return invalid(fmt.Sprintf("matrix.ring_radii[%d]", i), "must be a positive number")
			}
		}
	}
	return nil
}

func validateFrame(v any, index, pixelCount int) error {
	path := fmt.Sprintf("frames[%d]", index)
	frame, ok := asObject(v)
	if !ok {
		return invalid(path, "must be an object")
	}
	if err := rejectUnknown(frame, frameFields, path+"."); err != nil {
		return err
	}
	for _, field := range []string{"index", "duration_ms", "layers"} {
		if _, ok := present(frame, field); !ok {
			return invalid(path+"."+field, "required field is missing")
		}
	}
	if n, ok := asInt(frame["index"]); !ok || n < 0 {
		return invalid(path+".index", "must be a non-negative integer")
	}
	if n, ok := asInt(frame["duration_ms"]); !ok || n < 1 || n > 10000 {
		return invalid(path+".duration_ms", "must be an integer between 1 and 10000")
	}
	layers, ok := asArray(frame["layers"])
	if !ok || len(layers) == 0 {
		return invalid(path+".layers", "must be a non-empty array")
	}
	for i, lv := range layers {
		if err := validateLayer(lv, fmt.Sprintf("%s.layers[%d]", path, i), pixelCount); err != nil {
			return err
		}
	}
	return nil
}

func validateLayer(v any, path string, pixelCount int) error {
	layer, ok := asObject(v)
	if !ok {
		return invalid(path, "must be an object")
	}
	if err := rejectUnknown(layer, layerFields, path+"."); err != nil {
		return err
	}
	for _, field := range []string{"id", "name", "opacity", "blend_mode", "pixels", "encoding"} {
		if _, ok := present(layer, field); !ok {
			return invalid(path+"."+field, "required field is missing")
		}
	}
	if _, ok := asString(layer["id"]); !ok {
		return invalid(path+".id", "must be a string")
	}
	if name, ok := asString(layer["name"]); !ok || name == "" || len(name) > 128 {
		return invalid(path+".name", "must be a string of 1-128 characters")
	}
	if opacity, ok := asNumber(layer["opacity"]); !ok || opacity < 0 || opacity > 1 {
		return invalid(path+".opacity", "must be a number between 0.0 and 1.0")
	}
	if mode, ok := asString(layer["blend_mode"]); !ok || !inEnum(mode, BlendModes) {
		return invalid(path+".blend_mode", "must be one of %v", BlendModes)
	}
	if v, ok := present(layer, "visible"); ok {
		if _, ok := asBool(v); !ok {
			return invalid(path+".visible", "must be a boolean")
		}
	}
	if enc, ok := asString(layer["encoding"]); !ok || !inEnum(enc, Encodings) {
		return invalid(path+".encoding", "must be one of %v", Encodings)
	}
	return validatePixels(layer["pixels"], path+".pixels")
}

// validatePixels accepts either arm of the pixel union: a base64 string or an
// array of [R,G,B] integer triples. The declared pixelCount is not enforced
// here; the codec pads or trims on decode.
func validatePixels(v any, path string) error {
	if _, ok := asString(v); ok {
		return nil
	}
	triples, ok := asArray(v)
	if !ok {
		return invalid(path, "must be a base64 string or an array of [R,G,B] triples")
	}
	for i, tv := range triples {
		triple, ok := asArray(tv)
		if !ok || len(triple) != 3 {
			return invalid(fmt.Sprintf("%s[%d]", path, i), "must be a 3-element [R,G,B] array")
		}
		for c, cv := range triple {
			n, ok := asInt(cv)
			if !ok || n < 0 || n > 255 {
				return invalid(fmt.Sprintf("%s[%d][%d]", path, i, c), "must be an integer between 0 and 255")
			}
		}
	}
	return nil
}

func validateEffect(v any, index int) error {
	path := fmt.Sprintf("effects[%d]", index)
	effect, ok := asObject(v)
	if !ok {
		return invalid(path, "must be an object")
	}
	if err := rejectUnknown(effect, effectFields, path+"."); err != nil {
		return err
	}
	for _, field := range []string{"id", "type"} {
		if _, ok := present(effect, field); !ok {
			return invalid(path+"."+field, "required field is missing")
		}
	}
	if _, ok := asString(effect["id"]); !ok {
		return invalid(path+".id", "must be a string")
	}
	if typ, ok := asString(effect["type"]); !ok || !inEnum(typ, EffectTypes) {
		return invalid(path+".type", "must be one of %v", EffectTypes)
	}
	if v, ok := present(effect, "parameters"); ok {
		if _, ok := asObject(v); !ok {
			return invalid(path+".parameters", "must be an object")
		}
	}
	if v, ok := present(effect, "frame_range"); ok {
		fr, ok := asObject(v)
		if !ok {
			return invalid(path+".frame_range", "must be an object")
		}
		if err := rejectUnknown(fr, map[string]bool{"start": true, "end": true}, path+".frame_range."); err != nil {
			return err
		}
		for _, field := range []string{"start", "end"} {
			if bv, ok := present(fr, field); ok {
				n, ok := asInt(bv)
				if !ok || n < 0 {
					return invalid(path+".frame_range."+field, "must be a non-negative integer")
				}
			}
		}
	}
	return nil
}

// validateMetadata type-checks the known hint fields but leaves the map open.
func validateMetadata(v any) error {
	meta, ok := asObject(v)
	if !ok {
		return invalid("metadata", "must be an object")
	}
	if av, ok := present(meta, "author"); ok {
		author, ok := asString(av)
		if !ok || len(author) > 256 {
			return invalid("metadata.author", "must be a string of at most 256 characters")
		}
	}
	if sv, ok := present(meta, "source_file"); ok {
		if _, ok := asString(sv); !ok {
			return invalid("metadata.source_file", "must be a string")
		}
	}
	if mv, ok := present(meta, "approx_memory_bytes"); ok {
		n, ok := asInt(mv)
		if !ok || n < 0 {
			return invalid("metadata.approx_memory_bytes", "must be a non-negative integer")
		}
	}
	if fv, ok := present(meta, "export_formats"); ok {
		formats, ok := asArray(fv)
		if !ok {
			return invalid("metadata.export_formats", "must be an array")
		}
		for i, f := range formats {
			format, ok := asString(f)
			if !ok || !inEnum(format, ExportFormats) {
				return invalid(fmt.Sprintf("metadata.export_formats[%d]", i), "must be one of %v", ExportFormats)
			}
		}
	}
	return nil
}

func optionalEnum(obj map[string]any, field string, allowed []string) error {
	v, ok := present(obj, field)
	if !ok {
		return nil
	}
	s, ok := asString(v)
	if !ok || !inEnum(s, allowed) {
		return invalid("matrix."+field, "must be one of %v", allowed)
	}
	return nil
}

func optionalPositiveInt(obj map[string]any, field string) error {
	v, ok := present(obj, field)
	if !ok {
		return nil
	}
	n, ok := asInt(v)
	if !ok || n < 1 {
		return invalid("matrix."+field, "must be a positive integer")
	}
	return nil
}

func optionalPositiveNumber(obj map[string]any, field string) error {
	v, ok := present(obj, field)
	if !ok {
		return nil
	}
	n, ok := asNumber(v)
	if !ok || n <= 0 {
		return invalid("matrix."+field, "must be a positive number")
	}
	return nil
}

// optionalPairList validates an array of 2-element coordinate pairs.
// Integer pairs are grid cells; float pairs are physical positions.
func optionalPairList(obj map[string]any, field string, integer bool) error {
	v, ok := present(obj, field)
	if !ok {
		return nil
	}
	pairs, ok := asArray(v)
	if !ok {
		return invalid("matrix."+field, "must be an array of [x, y] pairs")
	}
	for i, pv := range pairs {
		pair, ok := asArray(pv)
		if !ok || len(pair) != 2 {
			return invalid(fmt.Sprintf("matrix.%s[%d]", field, i), "must be a 2-element [x, y] pair")
		}
		for _, cv := range pair {
			if integer {
				if _, ok := asInt(cv); !ok {
					return invalid(fmt.Sprintf("matrix.%s[%d]", field, i), "coordinates must be integers")
				}
			} else {
				if _, ok := asNumber(cv); !ok {
					return invalid(fmt.Sprintf("matrix.%s[%d]", field, i), "coordinates must be numbers")
				}
			}
		}
	}
	return nil
}
