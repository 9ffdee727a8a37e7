// Package math3d provides the vector, matrix and quaternion types used by the
// warp renderer.
package math3d

import "math"

// normalizeEpsilon is the squared length below which Normalize leaves a
// vector untouched.
const normalizeEpsilon = 1e-6

// Vec3 represents a 3D vector.
type Vec3 struct {
	X, Y, Z float64
}

// V3 creates a new Vec3.
func V3(x, y, z float64) Vec3 {
	return Vec3{x, y, z}
}

// Add returns the vector sum a + b.
func (a Vec3) Add(b Vec3) Vec3 {
	return Vec3{a.X + b.X, a.Y + b.Y, a.Z + b.Z}
}

// Sub returns the vector difference a - b.
func (a Vec3) Sub(b Vec3) Vec3 {
	return Vec3{a.X - b.X, a.Y - b.Y, a.Z - b.Z}
}

// Scale returns the scalar product a * s.
func (a Vec3) Scale(s float64) Vec3 {
	return Vec3{a.X * s, a.Y * s, a.Z * s}
}

// Dot returns the dot product a · b.
func (a Vec3) Dot(b Vec3) float64 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z
}

// Cross returns the cross product a × b.
func (a Vec3) Cross(b Vec3) Vec3 {
	return Vec3{
		a.Y*b.Z - a.Z*b.Y,
		a.Z*b.X - a.X*b.Z,
		a.X*b.Y - a.Y*b.X,
	}
}

// Len returns the length (magnitude) of the vector.
func (a Vec3) Len() float64 {
	return math.Sqrt(a.X*a.X + a.Y*a.Y + a.Z*a.Z)
}

// LenSq returns the squared length.
func (a Vec3) LenSq() float64 {
	return a.X*a.X + a.Y*a.Y + a.Z*a.Z
}

// Normalize rescales the vector to unit length in place. Vectors whose
// squared length is at or below 1e-6 are left unchanged.
func (a *Vec3) Normalize() {
	sq := a.X*a.X + a.Y*a.Y + a.Z*a.Z
	if sq <= normalizeEpsilon {
		return
	}
	inv := 1 / math.Sqrt(sq)
	a.X *= inv
	a.Y *= inv
	a.Z *= inv
}

// Normalized returns a normalized copy of the vector.
func (a Vec3) Normalized() Vec3 {
	a.Normalize()
	return a
}

// Negate returns the negated vector.
func (a Vec3) Negate() Vec3 {
	return Vec3{-a.X, -a.Y, -a.Z}
}

// Lerp returns the linear interpolation between a and b by t.
func (a Vec3) Lerp(b Vec3, t float64) Vec3 {
	return Vec3{
		a.X + (b.X-a.X)*t,
		a.Y + (b.Y-a.Y)*t,
		a.Z + (b.Z-a.Z)*t,
	}
}

// Distance returns the distance between two points.
func (a Vec3) Distance(b Vec3) float64 {
	return a.Sub(b).Len()
}

// Cos returns the cosine of the angle between a and b. Both inputs are
// normalized first, so zero-length vectors yield 0.
func (a Vec3) Cos(b Vec3) float64 {
	return a.Normalized().Dot(b.Normalized())
}

// Transform applies the affine part of m to the point a.
func (a Vec3) Transform(m Matrix) Vec3 {
	return Vec3{
		a.X*m.M00 + a.Y*m.M01 + a.Z*m.M02 + m.M03,
		a.X*m.M10 + a.Y*m.M11 + a.Z*m.M12 + m.M13,
		a.X*m.M20 + a.Y*m.M21 + a.Z*m.M22 + m.M23,
	}
}

// TransformXY returns only the x and y components of a.Transform(m).
// The renderer uses it to project normals onto the lightmap plane.
func (a Vec3) TransformXY(m Matrix) (x, y float64) {
	x = a.X*m.M00 + a.Y*m.M01 + a.Z*m.M02 + m.M03
	y = a.X*m.M10 + a.Y*m.M11 + a.Z*m.M12 + m.M13
	return x, y
}

// Min returns the component-wise minimum.
func (a Vec3) Min(b Vec3) Vec3 {
	return Vec3{
		math.Min(a.X, b.X),
		math.Min(a.Y, b.Y),
		math.Min(a.Z, b.Z),
	}
}

// Max returns the component-wise maximum.
func (a Vec3) Max(b Vec3) Vec3 {
	return Vec3{
		math.Max(a.X, b.X),
		math.Max(a.Y, b.Y),
		math.Max(a.Z, b.Z),
	}
}

// Abs returns the component-wise absolute value.
func (a Vec3) Abs() Vec3 {
	return Vec3{
		math.Abs(a.X),
		math.Abs(a.Y),
		math.Abs(a.Z),
	}
}

// MaxComponent returns the largest of the three components.
func (a Vec3) MaxComponent() float64 {
	return math.Max(a.X, math.Max(a.Y, a.Z))
}
