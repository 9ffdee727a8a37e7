package scene

import "github.com/taigrr/warp/pkg/math3d"

// backfaceLimit is the projected normal z below which a face is culled.
const backfaceLimit = -0.6

// Triangle references three vertices of its parent object by index.
type Triangle struct {
	A, B, C int

	N        math3d.Vec3 // face normal
	N2       math3d.Vec3 // face normal in camera space
	MinDistZ int         // nearest projected depth
	ID       int

	Parent *Object
}

// Vertices returns the three corner vertices.
func (t *Triangle) Vertices() (a, b, c *Vertex) {
	v := t.Parent.Vertices
	return &v[t.A], &v[t.B], &v[t.C]
}

// Project transforms the face normal and records the nearest depth.
// The corner vertices must already be projected.
func (t *Triangle) Project(normalProj math3d.Matrix) {
	t.N2 = t.N.Transform(normalProj)
	a, b, c := t.Vertices()
	t.MinDistZ = min(a.Z, b.Z, c.Z)
}

// Visible reports whether the triangle faces the camera and is not fully
// outside one edge of the viewport.
func (t *Triangle) Visible() bool {
	if t.N2.Z < backfaceLimit {
		return false
	}
	a, b, c := t.Vertices()
	return a.ClipCode&b.ClipCode&c.ClipCode == 0
}

// RegenerateNormal recomputes the face normal from the corner positions.
func (t *Triangle) RegenerateNormal() {
	a, b, c := t.Vertices()
	t.N = b.Pos.Sub(a.Pos).Cross(c.Pos.Sub(a.Pos)).Normalized()
}

// Center returns the centroid.
func (t *Triangle) Center() math3d.Vec3 {
	a, b, c := t.Vertices()
	return a.Pos.Add(b.Pos).Add(c.Pos).Scale(1.0 / 3)
}

// Degenerate reports whether two corners coincide.
func (t *Triangle) Degenerate() bool {
	a, b, c := t.Vertices()
	return a.Equal(b, 0) || b.Equal(c, 0) || c.Equal(a, 0)
}
