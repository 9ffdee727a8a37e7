package math3d

import (
	"testing"
)

func BenchmarkMultiply(b *testing.B) {
	m1 := ShiftMatrix(1, 2, 3)
	m2 := RotateMatrix(0, 0.5, 0)

	for b.Loop() {
		_ = Multiply(m1, m2)
	}
}

func BenchmarkVec3Transform(b *testing.B) {
	m := Multiply(ShiftMatrix(1, 2, 3), RotateMatrix(0, 0.5, 0))
	v := V3(1, 2, 3)

	for b.Loop() {
		_ = v.Transform(m)
	}
}

func BenchmarkInverse(b *testing.B) {
	m := Multiply(Multiply(ShiftMatrix(1, 2, 3), RotateMatrix(0, 0.5, 0)), ScaleMatrix(2, 2, 2))

	for b.Loop() {
		_ = m.Inverse()
	}
}

func BenchmarkRotateMatrix(b *testing.B) {
	for b.Loop() {
		_ = RotateMatrix(0.3, 0.5, 0.7)
	}
}

func BenchmarkVec3Normalize(b *testing.B) {
	v := V3(1, 2, 3)

	for b.Loop() {
		_ = v.Normalized()
	}
}

func BenchmarkVec3Cross(b *testing.B) {
	v1 := V3(1, 2, 3)
	v2 := V3(4, 5, 6)

	for b.Loop() {
		_ = v1.Cross(v2)
	}
}

func BenchmarkVec3Dot(b *testing.B) {
	v1 := V3(1, 2, 3)
	v2 := V3(4, 5, 6)

	for b.Loop() {
		_ = v1.Dot(v2)
	}
}

func BenchmarkQuatFromMatrix(b *testing.B) {
	m := RotateMatrix(0.3, 0.5, 0.7)

	for b.Loop() {
		_ = QuatFromMatrix(m)
	}
}
