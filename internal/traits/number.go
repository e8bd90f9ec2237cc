package traits

import (
	"math"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// ── Ingestion helpers ───────────────────────────────────────────────
//
// Raw catalog entries, request bodies and upstream responses are loosely
// typed. These helpers turn them into finite numbers once, at the boundary.

// FiniteOrZero returns v, or 0 when v is NaN or infinite.
func FiniteOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// ParseNumber coerces a JSON value to a finite number. Numbers pass through,
// numeric strings are parsed, true is 1, everything else is 0.
func ParseNumber(r gjson.Result) float64 {
	switch r.Type {
	case gjson.Number:
		return FiniteOrZero(r.Num)
	case gjson.True:
		return 1
	case gjson.String:
		s := strings.TrimSpace(r.Str)
		if s == "" {
			return 0
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0
		}
		return FiniteOrZero(f)
	default:
		return 0
	}
}

// ParseInt is ParseNumber rounded to the nearest integer and saturated to the
// int range.
func ParseInt(r gjson.Result) int {
	f := math.Round(ParseNumber(r))
	switch {
	case f >= float64(math.MaxInt):
		return math.MaxInt
	case f <= float64(math.MinInt):
		return math.MinInt
	}
	return int(f)
}

// IsFiniteNumber reports whether r is a JSON number with a finite value.
func IsFiniteNumber(r gjson.Result) bool {
	return r.Type == gjson.Number && !math.IsNaN(r.Num) && !math.IsInf(r.Num, 0)
}

// ParseList reads a JSON array of loosely typed numbers. A non-array yields nil.
func ParseList(r gjson.Result) []int {
	if !r.IsArray() {
		return nil
	}
	arr := r.Array()
	out := make([]int, len(arr))
	for i, v := range arr {
		out[i] = ParseInt(v)
	}
	return out
}

// ParseEditable reads up to four values into an Editable; missing slots are 0.
func ParseEditable(r gjson.Result) Editable {
	var e Editable
	copy(e[:], ParseList(r))
	return e
}
