// Package convert holds bounded integer conversions for driver settings.
package convert

import "math"

// ClampInt32 narrows v to int32, saturating at the type's bounds.
func ClampInt32(v int) int32 {
	switch {
	case v > math.MaxInt32:
		return math.MaxInt32
	case v < math.MinInt32:
		return math.MinInt32
	}
	return int32(v)
}
