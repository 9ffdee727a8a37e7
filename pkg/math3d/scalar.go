package math3d

import "math"

// Deg2Rad converts degrees to radians.
func Deg2Rad(deg float64) float64 {
	return deg * math.Pi / 180
}

// Rad2Deg converts radians to degrees.
func Rad2Deg(rad float64) float64 {
	return rad * 180 / math.Pi
}

// Crop clamps a to [lo, hi].
func Crop(a, lo, hi int) int {
	return min(max(a, lo), hi)
}

// CropF clamps a to [lo, hi].
func CropF(a, lo, hi float64) float64 {
	return math.Min(math.Max(a, lo), hi)
}

// InRange reports whether lo <= a < hi.
func InRange(a, lo, hi int) bool {
	return a >= lo && a < hi
}

// Interpolate blends a and b by d in [0,1] along a cosine curve.
func Interpolate(a, b, d float64) float64 {
	f := (1 - math.Cos(d*math.Pi)) * 0.5
	return a + f*(b-a)
}

// Fill sets every element of buf to v by repeated doubling copies.
func Fill[T any](buf []T, v T) {
	if len(buf) == 0 {
		return
	}
	buf[0] = v
	for i := 1; i < len(buf); i *= 2 {
		copy(buf[i:], buf[:i])
	}
}
