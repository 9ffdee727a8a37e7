// Package models builds warp scene objects: procedural primitives, texture
// coordinate projections and glTF/OBJ import.
package models

import (
	"fmt"
	"image"

	"github.com/taigrr/warp/pkg/argb"
	"github.com/taigrr/warp/pkg/math3d"
	"github.com/taigrr/warp/pkg/scene"
	"github.com/taigrr/warp/pkg/texture"
)

// Mesh is an imported triangle mesh before it is split into scene objects.
// Faces are stored in the engine's winding order.
type Mesh struct {
	Name      string
	Vertices  []MeshVertex
	Faces     []Face
	Materials []Material

	// Bounding box (calculated on load)
	BoundsMin math3d.Vec3
	BoundsMax math3d.Vec3
}

// MeshVertex holds the attributes warp keeps per vertex. Normals are
// regenerated by the scene object from its faces.
type MeshVertex struct {
	Position math3d.Vec3
	UV       math3d.Vec2 // v=0 is the top row of the texture
}

// Face is a triangle with a material reference.
type Face struct {
	V        [3]int // Indices into Mesh.Vertices
	Material int    // Index into Mesh.Materials (-1 for no material)
}

// Material is the subset of an imported material warp can render.
type Material struct {
	Name      string
	BaseColor [4]float64  // RGBA in 0-1 range
	Roughness float64     // 0 = mirror, 1 = matte
	BaseMap   image.Image // Optional base color texture
}

// Color returns the base color as ARGB.
func (m *Material) Color() uint32 {
	c := m.BaseColor
	return argb.CropRGBA(unit(c[0]), unit(c[1]), unit(c[2]), unit(c[3]))
}

func unit(f float64) int {
	return int(f*255 + 0.5)
}

// SceneMaterial converts m into a scene material. The base map, if any,
// becomes a texture whose larger side is capped at 2^maxBits.
func (m *Material) SceneMaterial(maxBits int) *scene.Material {
	sm := scene.NewMaterial(m.Color())
	sm.SetReflectivity(unit(1 - m.Roughness))
	if m.BaseMap != nil {
		sm.SetTexture(texture.FromImage(m.BaseMap, maxBits))
	}
	return sm
}

// NewMesh creates an empty mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{Name: name}
}

// AddFace appends a triangle over three vertex indices.
func (m *Mesh) AddFace(a, b, c, material int) {
	m.Faces = append(m.Faces, Face{V: [3]int{a, b, c}, Material: material})
}

// CalculateBounds computes the axis-aligned bounding box.
func (m *Mesh) CalculateBounds() {
	if len(m.Vertices) == 0 {
		return
	}

	m.BoundsMin = m.Vertices[0].Position
	m.BoundsMax = m.Vertices[0].Position

	for _, v := range m.Vertices[1:] {
		m.BoundsMin = m.BoundsMin.Min(v.Position)
		m.BoundsMax = m.BoundsMax.Max(v.Position)
	}
}

// Center returns the center of the bounding box.
func (m *Mesh) Center() math3d.Vec3 {
	return m.BoundsMin.Add(m.BoundsMax).Scale(0.5)
}

// Size returns the dimensions of the bounding box.
func (m *Mesh) Size() math3d.Vec3 {
	return m.BoundsMax.Sub(m.BoundsMin)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Faces)
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// Transform applies mat to every vertex position.
func (m *Mesh) Transform(mat math3d.Matrix) {
	for i := range m.Vertices {
		m.Vertices[i].Position = m.Vertices[i].Position.Transform(mat)
	}
	m.CalculateBounds()
}

// Clone creates a deep copy of the mesh. Base map images are shared.
func (m *Mesh) Clone() *Mesh {
	clone := &Mesh{
		Name:      m.Name,
		Vertices:  make([]MeshVertex, len(m.Vertices)),
		Faces:     make([]Face, len(m.Faces)),
		Materials: make([]Material, len(m.Materials)),
		BoundsMin: m.BoundsMin,
		BoundsMax: m.BoundsMax,
	}
	copy(clone.Vertices, m.Vertices)
	copy(clone.Faces, m.Faces)
	copy(clone.Materials, m.Materials)
	return clone
}

// GetMaterial returns the material at index i.
// Returns nil if index is out of bounds or -1.
func (m *Mesh) GetMaterial(i int) *Material {
	if i < 0 || i >= len(m.Materials) {
		return nil
	}
	return &m.Materials[i]
}

// MaterialCount returns the number of materials.
func (m *Mesh) MaterialCount() int {
	return len(m.Materials)
}

// Part is one scene object cut from a mesh.
type Part struct {
	Name   string
	Object *scene.Object
}

// Objects splits the mesh into one scene object per material, in order of
// first use. Each object gets its own copy of the vertices it references.
// Faces without a material get a white one. Part names come from the
// material names and are made unique with a numeric suffix.
func (m *Mesh) Objects(maxBits int) []Part {
	var order []int
	groups := make(map[int][]Face)
	for _, f := range m.Faces {
		if _, ok := groups[f.Material]; !ok {
			order = append(order, f.Material)
		}
		groups[f.Material] = append(groups[f.Material], f)
	}

	taken := make(map[string]bool)
	parts := make([]Part, 0, len(order))
	for _, mi := range order {
		obj := scene.NewObject()
		remap := make(map[int]int)
		for _, f := range groups[mi] {
			var idx [3]int
			for k, vi := range f.V {
				ni, ok := remap[vi]
				if !ok {
					v := m.Vertices[vi]
					p := v.Position
					ni = obj.AddVertex(scene.NewVertexUV(p.X, p.Y, p.Z, v.UV.X, v.UV.Y))
					remap[vi] = ni
				}
				idx[k] = ni
			}
			obj.AddTriangle(idx[0], idx[1], idx[2])
		}

		name := "default"
		if mat := m.GetMaterial(mi); mat != nil {
			obj.SetMaterial(mat.SceneMaterial(maxBits))
			name = mat.Name
			if name == "" {
				name = fmt.Sprintf("material%d", mi)
			}
		} else {
			obj.SetMaterial(scene.NewMaterial(argb.White))
		}
		name = uniqueName(name, taken)
		obj.Name = name
		parts = append(parts, Part{Name: name, Object: obj})
	}
	return parts
}

func uniqueName(name string, taken map[string]bool) string {
	candidate := name
	for n := 2; taken[candidate]; n++ {
		candidate = fmt.Sprintf("%s.%d", name, n)
	}
	taken[candidate] = true
	return candidate
}
