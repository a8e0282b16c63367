package dataprocessing

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Coercion implements the silent-repair policy: any cell that cannot be
// parsed as the target type becomes the zero value, never an error.
// Negative amounts are clamped to zero; numeric fields are non-negative
// by contract.

// CoerceText converts any cell value to a trimmed string. Nil becomes
// the empty string.
func CoerceText(v any) string {
	if v == nil {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		s = fmt.Sprint(v)
	}
	return strings.TrimSpace(s)
}

// CoerceAmount converts any cell value to a non-negative float64.
// Strings may carry thousands separators and surrounding whitespace.
func CoerceAmount(v any) float64 {
	var f float64
	switch x := v.(type) {
	case nil:
		return 0
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	case string:
		f = parseNumeric(x)
	default:
		f = parseNumeric(fmt.Sprint(x))
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0
	}
	return f
}

// CoerceCount converts any cell value to a non-negative int64,
// truncating fractional input the way a spreadsheet integer cast does.
func CoerceCount(v any) int64 {
	f := CoerceAmount(v)
	return int64(f)
}

func parseNumeric(s string) float64 {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}
