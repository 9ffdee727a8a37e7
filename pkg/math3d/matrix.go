package math3d

import "math"

// Matrix is an affine 4x4 transform stored by named row/column fields.
// Points are column vectors: p' = M·p. Only the upper 3x4 block takes part
// in composition; the bottom row is carried for Inverse.
//
// | M00 M01 M02 M03 |   columns 0..2 = basis (rotation/scale)
// | M10 M11 M12 M13 |   column 3     = translation
// | M20 M21 M22 M23 |
// | M30 M31 M32 M33 |
type Matrix struct {
	M00, M01, M02, M03 float64
	M10, M11, M12, M13 float64
	M20, M21, M22, M23 float64
	M30, M31, M32, M33 float64
}

// Identity returns the identity matrix.
func Identity() Matrix {
	return Matrix{
		M00: 1,
		M11: 1,
		M22: 1,
		M33: 1,
	}
}

// FromBasis builds a rotation matrix whose columns are right, up and forward.
func FromBasis(right, up, forward Vec3) Matrix {
	m := Identity()
	m.M00, m.M10, m.M20 = right.X, right.Y, right.Z
	m.M01, m.M11, m.M21 = up.X, up.Y, up.Z
	m.M02, m.M12, m.M22 = forward.X, forward.Y, forward.Z
	return m
}

// ShiftMatrix creates a translation matrix.
func ShiftMatrix(dx, dy, dz float64) Matrix {
	m := Identity()
	m.M03, m.M13, m.M23 = dx, dy, dz
	return m
}

// ScaleMatrix creates a scaling matrix.
func ScaleMatrix(dx, dy, dz float64) Matrix {
	m := Identity()
	m.M00, m.M11, m.M22 = dx, dy, dz
	return m
}

// RotateMatrix creates a rotation of dx radians around X, then dy around Y,
// then dz around Z. Zero angles are skipped.
func RotateMatrix(dx, dy, dz float64) Matrix {
	res := Identity()
	if dx != 0 {
		s, c := math.Sincos(dx)
		m := Identity()
		m.M11, m.M12 = c, s
		m.M21, m.M22 = -s, c
		res.Transform(m)
	}
	if dy != 0 {
		s, c := math.Sincos(dy)
		m := Identity()
		m.M00, m.M02 = c, s
		m.M20, m.M22 = -s, c
		res.Transform(m)
	}
	if dz != 0 {
		s, c := math.Sincos(dz)
		m := Identity()
		m.M00, m.M01 = c, s
		m.M10, m.M11 = -s, c
		res.Transform(m)
	}
	return res
}

// QuaternionMatrix converts a unit quaternion into a rotation matrix.
func QuaternionMatrix(q Quaternion) Matrix {
	x2, y2, z2 := q.X+q.X, q.Y+q.Y, q.Z+q.Z
	wx2, wy2, wz2 := q.W*x2, q.W*y2, q.W*z2
	xx2, xy2, xz2 := q.X*x2, q.X*y2, q.X*z2
	yy2, yz2, zz2 := q.Y*y2, q.Y*z2, q.Z*z2

	m := Identity()
	m.M00, m.M01, m.M02 = 1-yy2-zz2, xy2-wz2, xz2+wy2
	m.M10, m.M11, m.M12 = xy2+wz2, 1-xx2-zz2, yz2-wx2
	m.M20, m.M21, m.M22 = xz2-wy2, yz2+wx2, 1-xx2-yy2
	return m
}

// Shift adds a translation in the global frame.
func (m *Matrix) Shift(dx, dy, dz float64) {
	m.M03 += dx
	m.M13 += dy
	m.M23 += dz
}

// ShiftSelf adds a translation expressed in the matrix's local frame.
func (m *Matrix) ShiftSelf(dx, dy, dz float64) {
	m.M03 += m.M00*dx + m.M01*dy + m.M02*dz
	m.M13 += m.M10*dx + m.M11*dy + m.M12*dz
	m.M23 += m.M20*dx + m.M21*dy + m.M22*dz
}

// Scale scales each row, translation included, so the scale happens in the
// global frame.
func (m *Matrix) Scale(dx, dy, dz float64) {
	m.M00 *= dx
	m.M01 *= dx
	m.M02 *= dx
	m.M03 *= dx
	m.M10 *= dy
	m.M11 *= dy
	m.M12 *= dy
	m.M13 *= dy
	m.M20 *= dz
	m.M21 *= dz
	m.M22 *= dz
	m.M23 *= dz
}

// ScaleUniform scales all three rows by d.
func (m *Matrix) ScaleUniform(d float64) {
	m.Scale(d, d, d)
}

// ScaleSelf scales the basis columns, leaving translation untouched.
func (m *Matrix) ScaleSelf(dx, dy, dz float64) {
	m.M00 *= dx
	m.M01 *= dy
	m.M02 *= dz
	m.M10 *= dx
	m.M11 *= dy
	m.M12 *= dz
	m.M20 *= dx
	m.M21 *= dy
	m.M22 *= dz
}

// Rotate applies a global-frame rotation.
func (m *Matrix) Rotate(dx, dy, dz float64) {
	m.Transform(RotateMatrix(dx, dy, dz))
}

// RotateQuat applies a global-frame quaternion rotation.
func (m *Matrix) RotateQuat(q Quaternion) {
	m.Transform(QuaternionMatrix(q))
}

// RotateSelf applies a local-frame rotation.
func (m *Matrix) RotateSelf(dx, dy, dz float64) {
	m.PreTransform(RotateMatrix(dx, dy, dz))
}

// RotateSelfQuat applies a local-frame quaternion rotation.
func (m *Matrix) RotateSelfQuat(q Quaternion) {
	m.PreTransform(QuaternionMatrix(q))
}

// Transform sets m = n·m: n is applied after the existing transform.
func (m *Matrix) Transform(n Matrix) {
	*m = Multiply(n, *m)
}

// PreTransform sets m = m·n: n is applied before the existing transform,
// in the local frame.
func (m *Matrix) PreTransform(n Matrix) {
	*m = Multiply(*m, n)
}

// Compose returns n·m, the matrix that applies m first and n second.
func Compose(m, n Matrix) Matrix {
	return Multiply(n, m)
}

// Multiply returns the affine product a·b. The bottom row of the result is
// (0, 0, 0, 1).
//
//nolint:st1016 // a*b naming convention is clearer for matrix multiplication
func Multiply(a, b Matrix) Matrix {
	return Matrix{
		M00: a.M00*b.M00 + a.M01*b.M10 + a.M02*b.M20,
		M01: a.M00*b.M01 + a.M01*b.M11 + a.M02*b.M21,
		M02: a.M00*b.M02 + a.M01*b.M12 + a.M02*b.M22,
		M03: a.M00*b.M03 + a.M01*b.M13 + a.M02*b.M23 + a.M03,
		M10: a.M10*b.M00 + a.M11*b.M10 + a.M12*b.M20,
		M11: a.M10*b.M01 + a.M11*b.M11 + a.M12*b.M21,
		M12: a.M10*b.M02 + a.M11*b.M12 + a.M12*b.M22,
		M13: a.M10*b.M03 + a.M11*b.M13 + a.M12*b.M23 + a.M13,
		M20: a.M20*b.M00 + a.M21*b.M10 + a.M22*b.M20,
		M21: a.M20*b.M01 + a.M21*b.M11 + a.M22*b.M21,
		M22: a.M20*b.M02 + a.M21*b.M12 + a.M22*b.M22,
		M23: a.M20*b.M03 + a.M21*b.M13 + a.M22*b.M23 + a.M23,
		M33: 1,
	}
}

// Reset restores the identity.
func (m *Matrix) Reset() {
	*m = Identity()
}

// Translation returns the translation column.
func (m Matrix) Translation() Vec3 {
	return Vec3{m.M03, m.M13, m.M23}
}

// cols flattens m in column-major order.
func (m Matrix) cols() [16]float64 {
	return [16]float64{
		m.M00, m.M10, m.M20, m.M30,
		m.M01, m.M11, m.M21, m.M31,
		m.M02, m.M12, m.M22, m.M32,
		m.M03, m.M13, m.M23, m.M33,
	}
}

func fromCols(c [16]float64) Matrix {
	return Matrix{
		M00: c[0], M10: c[1], M20: c[2], M30: c[3],
		M01: c[4], M11: c[5], M21: c[6], M31: c[7],
		M02: c[8], M12: c[9], M22: c[10], M32: c[11],
		M03: c[12], M13: c[13], M23: c[14], M33: c[15],
	}
}

// Determinant returns the determinant of the full 4x4 matrix.
func (m Matrix) Determinant() float64 {
	c := m.cols()
	return c[0]*(c[5]*(c[10]*c[15]-c[14]*c[11])-c[9]*(c[6]*c[15]-c[14]*c[7])+c[13]*(c[6]*c[11]-c[10]*c[7])) -
		c[4]*(c[1]*(c[10]*c[15]-c[14]*c[11])-c[9]*(c[2]*c[15]-c[14]*c[3])+c[13]*(c[2]*c[11]-c[10]*c[3])) +
		c[8]*(c[1]*(c[6]*c[15]-c[14]*c[7])-c[5]*(c[2]*c[15]-c[14]*c[3])+c[13]*(c[2]*c[7]-c[6]*c[3])) -
		c[12]*(c[1]*(c[6]*c[11]-c[10]*c[7])-c[5]*(c[2]*c[11]-c[10]*c[3])+c[9]*(c[2]*c[7]-c[6]*c[3]))
}

// Inverse returns the cofactor inverse of m. A singular matrix is not
// detected: the result then holds infinities or NaNs.
func (m Matrix) Inverse() Matrix {
	c := m.cols()
	invDet := 1.0 / m.Determinant()
	var inv [16]float64

	inv[0] = (c[5]*(c[10]*c[15]-c[14]*c[11]) - c[9]*(c[6]*c[15]-c[14]*c[7]) + c[13]*(c[6]*c[11]-c[10]*c[7])) * invDet
	inv[1] = -(c[1]*(c[10]*c[15]-c[14]*c[11]) - c[9]*(c[2]*c[15]-c[14]*c[3]) + c[13]*(c[2]*c[11]-c[10]*c[3])) * invDet
	inv[2] = (c[1]*(c[6]*c[15]-c[14]*c[7]) - c[5]*(c[2]*c[15]-c[14]*c[3]) + c[13]*(c[2]*c[7]-c[6]*c[3])) * invDet
	inv[3] = -(c[1]*(c[6]*c[11]-c[10]*c[7]) - c[5]*(c[2]*c[11]-c[10]*c[3]) + c[9]*(c[2]*c[7]-c[6]*c[3])) * invDet

	inv[4] = -(c[4]*(c[10]*c[15]-c[14]*c[11]) - c[8]*(c[6]*c[15]-c[14]*c[7]) + c[12]*(c[6]*c[11]-c[10]*c[7])) * invDet
	inv[5] = (c[0]*(c[10]*c[15]-c[14]*c[11]) - c[8]*(c[2]*c[15]-c[14]*c[3]) + c[12]*(c[2]*c[11]-c[10]*c[3])) * invDet
	inv[6] = -(c[0]*(c[6]*c[15]-c[14]*c[7]) - c[4]*(c[2]*c[15]-c[14]*c[3]) + c[12]*(c[2]*c[7]-c[6]*c[3])) * invDet
	inv[7] = (c[0]*(c[6]*c[11]-c[10]*c[7]) - c[4]*(c[2]*c[11]-c[10]*c[3]) + c[8]*(c[2]*c[7]-c[6]*c[3])) * invDet

	inv[8] = (c[4]*(c[9]*c[15]-c[13]*c[11]) - c[8]*(c[5]*c[15]-c[13]*c[7]) + c[12]*(c[5]*c[11]-c[9]*c[7])) * invDet
	inv[9] = -(c[0]*(c[9]*c[15]-c[13]*c[11]) - c[8]*(c[1]*c[15]-c[13]*c[3]) + c[12]*(c[1]*c[11]-c[9]*c[3])) * invDet
	inv[10] = (c[0]*(c[5]*c[15]-c[13]*c[7]) - c[4]*(c[1]*c[15]-c[13]*c[3]) + c[12]*(c[1]*c[7]-c[5]*c[3])) * invDet
	inv[11] = -(c[0]*(c[5]*c[11]-c[9]*c[7]) - c[4]*(c[1]*c[11]-c[9]*c[3]) + c[8]*(c[1]*c[7]-c[5]*c[3])) * invDet

	inv[12] = -(c[4]*(c[9]*c[14]-c[13]*c[10]) - c[8]*(c[5]*c[14]-c[13]*c[6]) + c[12]*(c[5]*c[10]-c[9]*c[6])) * invDet
	inv[13] = (c[0]*(c[9]*c[14]-c[13]*c[10]) - c[8]*(c[1]*c[14]-c[13]*c[2]) + c[12]*(c[1]*c[10]-c[9]*c[2])) * invDet
	inv[14] = -(c[0]*(c[5]*c[14]-c[13]*c[6]) - c[4]*(c[1]*c[14]-c[13]*c[2]) + c[12]*(c[1]*c[6]-c[5]*c[2])) * invDet
	inv[15] = (c[0]*(c[5]*c[10]-c[9]*c[6]) - c[4]*(c[1]*c[10]-c[9]*c[2]) + c[8]*(c[1]*c[6]-c[5]*c[2])) * invDet

	return fromCols(inv)
}
