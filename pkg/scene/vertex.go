package scene

import "github.com/taigrr/warp/pkg/math3d"

// Clip code bits set by Vertex.ClipFrustum.
const (
	ClipLeft   = 1
	ClipRight  = 2
	ClipTop    = 4
	ClipBottom = 8
	ClipNear   = 16
)

// Vertex is a mesh point with its normal and texture coordinates, plus the
// screen-space cache filled by Project.
type Vertex struct {
	Pos  math3d.Vec3
	N    math3d.Vec3
	U, V float64
	ID   int

	// Projected cache, valid after Project.
	X, Y     int     // screen position
	Z        int     // camera depth in 16.16
	NX, NY   int     // lightmap lookup coordinates in 16.16
	InvZ     float64 // negated 1/z, or -1 for orthographic cameras
	ClipCode int

	neighbors []int // indices of adjacent triangles
}

// NewVertex creates a vertex at (x, y, z).
func NewVertex(x, y, z float64) Vertex {
	return Vertex{Pos: math3d.V3(x, y, z)}
}

// NewVertexUV creates a vertex with texture coordinates.
func NewVertexUV(x, y, z, u, v float64) Vertex {
	return Vertex{Pos: math3d.V3(x, y, z), U: u, V: v}
}

// Project transforms the vertex into screen space. Depths just in front of
// the camera are pushed out to 0.001 to keep the perspective divide finite.
func (v *Vertex) Project(vertexProj, normalProj math3d.Matrix, cam *Camera) {
	p := v.Pos.Transform(vertexProj)
	if p.Z < 0.001 && p.Z > -0.0001 {
		p.Z = 0.001
	}

	if cam.Orthographic() {
		v.X = int(p.X)
		v.Y = int(p.Y)
		v.InvZ = -1
	} else {
		inv := 1 / p.Z
		v.X = int(p.X*inv + float64(cam.halfW))
		v.Y = int(p.Y*inv + float64(cam.halfH))
		v.InvZ = -inv
	}
	v.Z = int(65536 * p.Z)

	nx, ny := v.N.TransformXY(normalProj)
	v.NX = int(nx*127+127) << 16
	v.NY = int(ny*127+127) << 16
}

// ClipFrustum sets ClipCode for a w×h viewport.
func (v *Vertex) ClipFrustum(w, h int) {
	v.ClipCode = 0
	if v.X < 0 {
		v.ClipCode |= ClipLeft
	} else if v.X >= w {
		v.ClipCode |= ClipRight
	}
	if v.Y < 0 {
		v.ClipCode |= ClipTop
	} else if v.Y >= h {
		v.ClipCode |= ClipBottom
	}
	if v.Z < 0 {
		v.ClipCode |= ClipNear
	}
}

// SetUV sets the texture coordinates.
func (v *Vertex) SetUV(u, t float64) {
	v.U, v.V = u, t
}

// ScaleUV multiplies the texture coordinates.
func (v *Vertex) ScaleUV(fu, fv float64) {
	v.U *= fu
	v.V *= fv
}

// MoveUV offsets the texture coordinates.
func (v *Vertex) MoveUV(du, dv float64) {
	v.U += du
	v.V += dv
}

// Equal reports whether two vertices are closer than tolerance.
func (v *Vertex) Equal(o *Vertex, tolerance float64) bool {
	return v.Pos.Sub(o.Pos).LenSq() <= tolerance*tolerance
}

// Neighbors returns the indices of the triangles sharing this vertex, as
// of the last Object.Rebuild.
func (v *Vertex) Neighbors() []int {
	return v.neighbors
}

func (v *Vertex) addNeighbor(tri int) {
	if n := len(v.neighbors); n > 0 && v.neighbors[n-1] == tri {
		return
	}
	v.neighbors = append(v.neighbors, tri)
}

// clone copies the geometric attributes only.
func (v *Vertex) clone() Vertex {
	return Vertex{Pos: v.Pos, N: v.N, U: v.U, V: v.V}
}
