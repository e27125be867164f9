package policy

import "math"

// Saturating Q-scale arithmetic for the inference hot path. The accumulator
// must clamp instead of wrapping: a clamped activation degrades one decision,
// a wrapped one inverts it.

func satAdd32(a, b int32) int32 {
	s := int64(a) + int64(b)
	if s > math.MaxInt32 {
		return math.MaxInt32
	}
	if s < math.MinInt32 {
		return math.MinInt32
	}
	return int32(s)
}

func satMul32(a, b int32) int32 {
	p := int64(a) * int64(b)
	if p > math.MaxInt32 {
		return math.MaxInt32
	}
	if p < math.MinInt32 {
		return math.MinInt32
	}
	return int32(p)
}

func relu32(v int32) int32 {
	if v < 0 {
		return 0
	}
	return v
}
