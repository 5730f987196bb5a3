// Package numeric coerces loosely formatted values into float64.
package numeric

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	strictNumber   = regexp.MustCompile(`^[-+]?(?:[0-9]+\.?[0-9]*|\.[0-9]+)(?:[eE][-+]?[0-9]+)?$`)
	embeddedNumber = regexp.MustCompile(`[-+]?[0-9]*\.?[0-9]+(?:[eE][-+]?[0-9]+)?`)
)

// Parse returns the number represented by v, or 0 when none can be found.
//
// Numeric values are used as is. Strings are tried whole, then as their first
// whitespace-separated token with thousands separators removed, and finally
// by the first signed decimal found anywhere in the text. Non-finite results
// are reported as 0.
func Parse(v any) float64 {
	var f float64
	switch value := v.(type) {
	case float64:
		f = value
	case float32:
		f = float64(value)
	case int:
		f = float64(value)
	case int32:
		f = float64(value)
	case int64:
		f = float64(value)
	case uint:
		f = float64(value)
	case uint32:
		f = float64(value)
	case uint64:
		f = float64(value)
	case json.Number:
		f = ParseString(string(value))
	case string:
		f = ParseString(value)
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// ParseString applies the string rules of Parse.
func ParseString(s string) float64 {
	clean := strings.TrimSpace(s)
	if f, ok := parseStrict(clean); ok {
		return f
	}

	fields := strings.Fields(clean)
	if len(fields) == 0 {
		return 0
	}
	first := strings.ReplaceAll(fields[0], ",", "")
	if f, ok := parseStrict(first); ok {
		return f
	}

	match := embeddedNumber.FindString(clean)
	if match == "" {
		return 0
	}
	if f, ok := parseStrict(match); ok {
		return f
	}
	return 0
}

func parseStrict(s string) (float64, bool) {
	if !strictNumber.MatchString(s) {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
