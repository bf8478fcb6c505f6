package convert

import "ledproj/internal/pattern"

// Field readers over validated documents. Values arrive in encoding/json's
// generic forms; validation has already rejected anything out of contract,
// so these degrade to defaults instead of erroring.

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	}
	return 0, false
}

func intField(obj map[string]any, key string, fallback int) int {
	if n, ok := number(obj[key]); ok {
		return int(n)
	}
	return fallback
}

func floatField(obj map[string]any, key string, fallback float64) float64 {
	if n, ok := number(obj[key]); ok {
		return n
	}
	return fallback
}

func stringField(obj map[string]any, key, fallback string) string {
	if s, ok := obj[key].(string); ok && s != "" {
		return s
	}
	return fallback
}

func boolField(obj map[string]any, key string) bool {
	b, _ := obj[key].(bool)
	return b
}

func intPtrField(obj map[string]any, key string) *int {
	if n, ok := number(obj[key]); ok {
		v := int(n)
		return &v
	}
	return nil
}

func floatPtrField(obj map[string]any, key string) *float64 {
	if n, ok := number(obj[key]); ok {
		v := n
		return &v
	}
	return nil
}

func gridPoints(v any) []pattern.GridPoint {
	arr, ok := v.([]any)
	if !ok || len(arr) == 0 {
		return nil
	}
	points := make([]pattern.GridPoint, 0, len(arr))
	for _, pv := range arr {
		pair, ok := pv.([]any)
		if !ok || len(pair) != 2 {
			continue
		}
		x, okX := number(pair[0])
		y, okY := number(pair[1])
		if okX && okY {
			points = append(points, pattern.GridPoint{X: int(x), Y: int(y)})
		}
	}
	return points
}

func positions(v any) []pattern.Position {
	arr, ok := v.([]any)
	if !ok || len(arr) == 0 {
		return nil
	}
	out := make([]pattern.Position, 0, len(arr))
	for _, pv := range arr {
		pair, ok := pv.([]any)
		if !ok || len(pair) != 2 {
			continue
		}
		x, okX := number(pair[0])
		y, okY := number(pair[1])
		if okX && okY {
			out = append(out, pattern.Position{X: x, Y: y})
		}
	}
	return out
}

func intSlice(v any) []int {
	arr, ok := v.([]any)
	if !ok || len(arr) == 0 {
		return nil
	}
	out := make([]int, 0, len(arr))
	for _, nv := range arr {
		if n, ok := number(nv); ok {
			out = append(out, int(n))
		}
	}
	return out
}

func floatSlice(v any) []float64 {
	arr, ok := v.([]any)
	if !ok || len(arr) == 0 {
		return nil
	}
	out := make([]float64, 0, len(arr))
	for _, nv := range arr {
		if n, ok := number(nv); ok {
			out = append(out, n)
		}
	}
	return out
}

func setInt(obj map[string]any, key string, v *int) {
	if v != nil {
		obj[key] = *v
	}
}

func setFloat(obj map[string]any, key string, v *float64) {
	if v != nil {
		obj[key] = *v
	}
}

func toAnySlice(values []string) []any {
	out := make([]any, 0, len(values))
	for _, v := range values {
		out = append(out, v)
	}
	return out
}

func toAnyInts(values []int) []any {
	out := make([]any, 0, len(values))
	for _, v := range values {
		out = append(out, v)
	}
	return out
}

func toAnyFloats(values []float64) []any {
	out := make([]any, 0, len(values))
	for _, v := range values {
		out = append(out, v)
	}
	return out
}
