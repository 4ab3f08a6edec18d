// SPDX-License-Identifier: EPL-2.0

// Package utils holds per-sample PCM conversions.
package utils

import "math"

// Float32ToInt16 scales x by 32768, rounds to the nearest integer and
// clamps the result to the int16 range. It is the exact inverse of
// Int16ToFloat32, so a decoded PCM16 sample encodes back to itself.
func Float32ToInt16(x float32) int16 {
	v := math.Round(float64(x) * 32768.0)
	if v > math.MaxInt16 {
		return math.MaxInt16
	}
	if v < math.MinInt16 {
		return math.MinInt16
	}

	return int16(v)
}

// Int16ToFloat32 normalizes a PCM16 sample into [-1, 1).
func Int16ToFloat32(s int16) float32 {
	return float32(s) / 32768.0
}

// MixInt16 adds two PCM16 samples, saturating at the int16 range.
func MixInt16(a, b int16) int16 {
	sum := int32(a) + int32(b)
	if sum > 32767 {
		return 32767
	}
	if sum < -32768 {
		return -32768
	}
	return int16(sum)
}
