package math3d

import "math"

// Quaternion is a rotation expressed as x·i + y·j + z·k + w.
// The zero value is not a rotation; use IdentityQuat.
type Quaternion struct {
	X, Y, Z, W float64
}

// IdentityQuat returns the no-rotation quaternion.
func IdentityQuat() Quaternion {
	return Quaternion{W: 1}
}

// QuatFromAxisAngle returns the rotation of angle radians around axis.
func QuatFromAxisAngle(axis Vec3, angle float64) Quaternion {
	axis.Normalize()
	s, c := math.Sincos(angle / 2)
	return Quaternion{axis.X * s, axis.Y * s, axis.Z * s, c}
}

// QuatFromMatrix extracts the rotation held in the upper 3x3 block of m.
// A positive trace takes the direct path; otherwise the largest diagonal
// element picks the component that is solved for first.
func QuatFromMatrix(m Matrix) Quaternion {
	// at(r, c) reads the transposed element, matching the layout
	// QuaternionMatrix writes.
	at := func(r, c int) float64 {
		return m.elem(c, r)
	}

	var q Quaternion
	tr := m.M00 + m.M11 + m.M22
	if tr > 0 {
		s := math.Sqrt(tr + 1)
		q.W = s * 0.5
		s = 0.5 / s
		q.X = (at(1, 2) - at(2, 1)) * s
		q.Y = (at(2, 0) - at(0, 2)) * s
		q.Z = (at(0, 1) - at(1, 0)) * s
		return q
	}

	next := [3]int{1, 2, 0}
	i := 0
	if m.M11 > m.M00 {
		i = 1
	}
	if m.M22 > m.elem(i, i) {
		i = 2
	}
	j := next[i]
	k := next[j]

	s := math.Sqrt(at(i, i) - (at(j, j) + at(k, k)) + 1)
	v := [4]float64{}
	v[i] = s * 0.5
	if s != 0 {
		s = 0.5 / s
	}
	v[j] = (at(i, j) + at(j, i)) * s
	v[k] = (at(i, k) + at(k, i)) * s
	v[3] = (at(j, k) - at(k, j)) * s
	return Quaternion{v[0], v[1], v[2], v[3]}
}

// elem returns the element at (row, col) of the upper 3x3 block.
func (m Matrix) elem(row, col int) float64 {
	switch row<<2 | col {
	case 0:
		return m.M00
	case 1:
		return m.M01
	case 2:
		return m.M02
	case 4:
		return m.M10
	case 5:
		return m.M11
	case 6:
		return m.M12
	case 8:
		return m.M20
	case 9:
		return m.M21
	case 10:
		return m.M22
	}
	return 0
}

// Matrix returns the rotation matrix of q.
func (q Quaternion) Matrix() Matrix {
	return QuaternionMatrix(q)
}

// Mul returns the Hamilton product q·r (r applied first).
func (q Quaternion) Mul(r Quaternion) Quaternion {
	return Quaternion{
		q.W*r.X + q.X*r.W + q.Y*r.Z - q.Z*r.Y,
		q.W*r.Y - q.X*r.Z + q.Y*r.W + q.Z*r.X,
		q.W*r.Z + q.X*r.Y - q.Y*r.X + q.Z*r.W,
		q.W*r.W - q.X*r.X - q.Y*r.Y - q.Z*r.Z,
	}
}

// Dot returns the four-component dot product.
func (q Quaternion) Dot(r Quaternion) float64 {
	return q.X*r.X + q.Y*r.Y + q.Z*r.Z + q.W*r.W
}

// Normalized returns q scaled to unit length. A zero quaternion yields the
// identity.
func (q Quaternion) Normalized() Quaternion {
	l := math.Sqrt(q.Dot(q))
	if l == 0 {
		return IdentityQuat()
	}
	return Quaternion{q.X / l, q.Y / l, q.Z / l, q.W / l}
}

// Slerp interpolates along the shortest arc between q and r.
func (q Quaternion) Slerp(r Quaternion, t float64) Quaternion {
	d := q.Dot(r)
	if d < 0 {
		r = Quaternion{-r.X, -r.Y, -r.Z, -r.W}
		d = -d
	}
	if d > 0.9995 {
		return Quaternion{
			q.X + (r.X-q.X)*t,
			q.Y + (r.Y-q.Y)*t,
			q.Z + (r.Z-q.Z)*t,
			q.W + (r.W-q.W)*t,
		}.Normalized()
	}
	theta := math.Acos(d)
	sin := math.Sin(theta)
	a := math.Sin((1-t)*theta) / sin
	b := math.Sin(t*theta) / sin
	return Quaternion{
		q.X*a + r.X*b,
		q.Y*a + r.Y*b,
		q.Z*a + r.Z*b,
		q.W*a + r.W*b,
	}
}
