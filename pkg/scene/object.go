package scene

import (
	"slices"

	"github.com/taigrr/warp/pkg/math3d"
)

// Object is a triangle mesh with its own transform and material.
type Object struct {
	Transform

	Name     string
	ID       int
	Visible  bool
	Material *Material

	Vertices  []Vertex
	Triangles []Triangle

	// Min and Max bound the untransformed vertices. Both always include
	// the origin.
	Min, Max math3d.Vec3

	// ProjectedMaxMips is the mip budget for the current frame, derived
	// from the object's on-screen size by the render pipeline.
	ProjectedMaxMips int

	dirty bool
}

// NewObject creates an empty visible object.
func NewObject() *Object {
	return &Object{
		Transform: NewTransform(),
		Visible:   true,
		dirty:     true,
	}
}

// AddVertex appends v and returns its index.
func (o *Object) AddVertex(v Vertex) int {
	o.Vertices = append(o.Vertices, v)
	o.dirty = true
	return len(o.Vertices) - 1
}

// AddTriangle appends a triangle over three vertex indices and returns its
// index.
func (o *Object) AddTriangle(a, b, c int) int {
	o.Triangles = append(o.Triangles, Triangle{A: a, B: b, C: c, Parent: o})
	o.dirty = true
	return len(o.Triangles) - 1
}

// RemoveVertex deletes vertex i together with every triangle using it.
// Remaining triangle indices are remapped.
func (o *Object) RemoveVertex(i int) {
	if !math3d.InRange(i, 0, len(o.Vertices)) {
		return
	}
	o.Vertices = slices.Delete(o.Vertices, i, i+1)
	o.Triangles = slices.DeleteFunc(o.Triangles, func(t Triangle) bool {
		return t.A == i || t.B == i || t.C == i
	})
	shift := func(idx int) int {
		if idx > i {
			return idx - 1
		}
		return idx
	}
	for k := range o.Triangles {
		t := &o.Triangles[k]
		t.A, t.B, t.C = shift(t.A), shift(t.B), shift(t.C)
	}
	o.dirty = true
}

// RemoveTriangle deletes triangle i.
func (o *Object) RemoveTriangle(i int) {
	if !math3d.InRange(i, 0, len(o.Triangles)) {
		return
	}
	o.Triangles = slices.Delete(o.Triangles, i, i+1)
	o.dirty = true
}

// SetMaterial assigns the material used for rendering.
func (o *Object) SetMaterial(m *Material) {
	o.Material = m
}

// MarkDirty flags the object for rebuild after direct edits to Vertices or
// Triangles.
func (o *Object) MarkDirty() {
	o.dirty = true
}

// Dirty reports whether derived data is stale.
func (o *Object) Dirty() bool {
	return o.dirty
}

// Rebuild refreshes ids, bounds, adjacency and normals. It does nothing
// when the object is clean.
func (o *Object) Rebuild() {
	if !o.dirty {
		return
	}

	var lo, hi math3d.Vec3
	for i := range o.Vertices {
		v := &o.Vertices[i]
		v.ID = i
		v.neighbors = v.neighbors[:0]
		lo = lo.Min(v.Pos)
		hi = hi.Max(v.Pos)
	}
	o.Min, o.Max = lo, hi

	for i := range o.Triangles {
		t := &o.Triangles[i]
		t.ID = i
		t.Parent = o
		o.Vertices[t.A].addNeighbor(i)
		o.Vertices[t.B].addNeighbor(i)
		o.Vertices[t.C].addNeighbor(i)
	}

	o.Regenerate()
	o.dirty = false
}

// Regenerate recomputes face normals and then vertex normals. A vertex
// normal is the normalized sum of its adjacent face normals.
func (o *Object) Regenerate() {
	for i := range o.Triangles {
		o.Triangles[i].RegenerateNormal()
	}
	for i := range o.Vertices {
		v := &o.Vertices[i]
		var n math3d.Vec3
		for _, t := range v.neighbors {
			n = n.Add(o.Triangles[t].N)
		}
		n.Normalize()
		v.N = n
	}
}

// Bounds returns the local bounding box.
func (o *Object) Bounds() math3d.AABB {
	o.Rebuild()
	return math3d.NewAABB(o.Min, o.Max)
}

// Center returns the middle of the local bounds.
func (o *Object) Center() math3d.Vec3 {
	return o.Bounds().Center()
}

// Dimension returns the extent of the local bounds.
func (o *Object) Dimension() math3d.Vec3 {
	return o.Bounds().Size()
}

// Detach recenters the vertices on the origin and moves the offset into the
// matrix, so the object stays where it was but rotates about its center.
func (o *Object) Detach() {
	c := o.Center()
	for i := range o.Vertices {
		o.Vertices[i].Pos = o.Vertices[i].Pos.Sub(c)
	}
	o.ShiftSelf(c.X, c.Y, c.Z)
	o.dirty = true
}

// MatrixMeltdown bakes the matrix into the vertex positions and resets the
// transform.
func (o *Object) MatrixMeltdown() {
	o.Rebuild()
	for i := range o.Vertices {
		o.Vertices[i].Pos = o.Vertices[i].Pos.Transform(o.Matrix)
	}
	o.ResetTransform()
	o.dirty = true
	o.Rebuild()
}

// Clone returns a deep copy sharing the material.
func (o *Object) Clone() *Object {
	o.Rebuild()
	c := NewObject()
	c.Name = o.Name + " [cloned]"
	c.Material = o.Material
	c.Visible = o.Visible
	c.Transform = o.Transform
	c.Vertices = make([]Vertex, 0, len(o.Vertices))
	for i := range o.Vertices {
		c.Vertices = append(c.Vertices, o.Vertices[i].clone())
	}
	c.Triangles = make([]Triangle, 0, len(o.Triangles))
	for _, t := range o.Triangles {
		c.Triangles = append(c.Triangles, Triangle{A: t.A, B: t.B, C: t.C, Parent: c})
	}
	c.Rebuild()
	return c
}

// CountVertices returns the number of vertices.
func (o *Object) CountVertices() int { return len(o.Vertices) }

// CountTriangles returns the number of triangles.
func (o *Object) CountTriangles() int { return len(o.Triangles) }
