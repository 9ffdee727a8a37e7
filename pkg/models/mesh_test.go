package models

import (
	"image"
	"image/color"
	"testing"

	"github.com/taigrr/warp/pkg/argb"
	"github.com/taigrr/warp/pkg/math3d"
)

// twoMaterialMesh has a red quad on the left and a green triangle on the
// right sharing vertex 1, plus one face without a material.
func twoMaterialMesh() *Mesh {
	m := NewMesh("test")
	for _, p := range []math3d.Vec3{
		math3d.V3(0, 0, 0), math3d.V3(1, 0, 0), math3d.V3(1, 1, 0),
		math3d.V3(0, 1, 0), math3d.V3(2, 0, 0), math3d.V3(2, 1, 0),
	} {
		m.Vertices = append(m.Vertices, MeshVertex{Position: p})
	}
	m.Materials = []Material{
		{Name: "red", BaseColor: [4]float64{1, 0, 0, 1}, Roughness: 1},
		{Name: "green", BaseColor: [4]float64{0, 1, 0, 0.5}},
	}
	m.AddFace(0, 2, 1, 0)
	m.AddFace(0, 3, 2, 0)
	m.AddFace(1, 5, 4, 1)
	m.AddFace(1, 2, 5, -1)
	m.CalculateBounds()
	return m
}

func TestMaterialColor(t *testing.T) {
	tests := []struct {
		name string
		base [4]float64
		want uint32
	}{
		{"opaque red", [4]float64{1, 0, 0, 1}, argb.RGB(255, 0, 0)},
		{"half green", [4]float64{0, 1, 0, 0.5}, argb.RGBA(0, 255, 0, 128)},
		{"out of range", [4]float64{2, -1, 0.2, 1}, argb.RGB(255, 0, 51)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := Material{BaseColor: tc.base}
			if got := m.Color(); got != tc.want {
				t.Errorf("Color() = %#x, want %#x", got, tc.want)
			}
		})
	}
}

func TestSceneMaterial(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	for i := range img.Pix {
		img.Pix[i] = 0xFF
	}
	img.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})

	m := Material{BaseColor: [4]float64{1, 1, 1, 1}, Roughness: 0.5, BaseMap: img}
	sm := m.SceneMaterial(8)
	if sm.Reflectivity != 128 {
		t.Errorf("Reflectivity = %d, want 128", sm.Reflectivity)
	}
	if sm.Texture == nil {
		t.Fatal("Texture = nil, want converted base map")
	}
	if sm.Texture.Width != 4 || sm.Texture.Height != 2 {
		t.Errorf("texture is %dx%d, want 4x2", sm.Texture.Width, sm.Texture.Height)
	}

	plain := (&Material{BaseColor: [4]float64{1, 1, 1, 1}}).SceneMaterial(8)
	if plain.Texture != nil || plain.Reflectivity != 255 {
		t.Errorf("plain material = %+v, want no texture and reflectivity 255", plain)
	}
}

func TestMeshObjects(t *testing.T) {
	parts := twoMaterialMesh().Objects(8)
	if len(parts) != 3 {
		t.Fatalf("len(parts) = %d, want 3", len(parts))
	}

	tests := []struct {
		name          string
		color         uint32
		wantVertices  int
		wantTriangles int
	}{
		{"red", argb.RGB(255, 0, 0), 4, 2},
		{"green", argb.RGBA(0, 255, 0, 128), 3, 1},
		{"default", argb.White, 3, 1},
	}
	for i, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := parts[i]
			if p.Name != tc.name || p.Object.Name != tc.name {
				t.Errorf("part %d name = %q/%q, want %q", i, p.Name, p.Object.Name, tc.name)
			}
			if got := p.Object.CountVertices(); got != tc.wantVertices {
				t.Errorf("CountVertices() = %d, want %d", got, tc.wantVertices)
			}
			if got := p.Object.CountTriangles(); got != tc.wantTriangles {
				t.Errorf("CountTriangles() = %d, want %d", got, tc.wantTriangles)
			}
			if p.Object.Material == nil || p.Object.Material.Color != tc.color {
				t.Errorf("material = %+v, want color %#x", p.Object.Material, tc.color)
			}
		})
	}

	// Vertex indices are local to each part.
	green := parts[1].Object
	tri := green.Triangles[0]
	if tri.A != 0 || tri.B != 1 || tri.C != 2 {
		t.Errorf("green triangle = (%d, %d, %d), want (0, 1, 2)", tri.A, tri.B, tri.C)
	}
	if got := green.Vertices[1].Pos; got != math3d.V3(2, 1, 0) {
		t.Errorf("green vertex 1 = %+v, want (2, 1, 0)", got)
	}
}

func TestMeshObjectsUniqueNames(t *testing.T) {
	m := twoMaterialMesh()
	m.Materials[1].Name = "red"
	m.Materials = append(m.Materials, Material{BaseColor: [4]float64{1, 1, 1, 1}})
	m.Faces[3].Material = 2

	var names []string
	for _, p := range m.Objects(8) {
		names = append(names, p.Name)
	}
	want := []string{"red", "red.2", "material2"}
	if len(names) != len(want) {
		t.Fatalf("names = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestMeshBoundsAndTransform(t *testing.T) {
	m := twoMaterialMesh()
	if m.BoundsMin != math3d.V3(0, 0, 0) || m.BoundsMax != math3d.V3(2, 1, 0) {
		t.Errorf("bounds = %v..%v, want (0,0,0)..(2,1,0)", m.BoundsMin, m.BoundsMax)
	}
	if c := m.Center(); c != math3d.V3(1, 0.5, 0) {
		t.Errorf("Center() = %v, want (1, 0.5, 0)", c)
	}

	m.Transform(math3d.ShiftMatrix(1, 2, 3))
	if m.BoundsMin != math3d.V3(1, 2, 3) || m.BoundsMax != math3d.V3(3, 3, 3) {
		t.Errorf("shifted bounds = %v..%v", m.BoundsMin, m.BoundsMax)
	}
	if s := m.Size(); s != math3d.V3(2, 1, 0) {
		t.Errorf("Size() = %v, want (2, 1, 0)", s)
	}
}

func TestMeshClone(t *testing.T) {
	m := twoMaterialMesh()
	clone := m.Clone()

	if clone.MaterialCount() != m.MaterialCount() || clone.TriangleCount() != m.TriangleCount() {
		t.Errorf("clone has %d materials and %d faces, want %d and %d",
			clone.MaterialCount(), clone.TriangleCount(), m.MaterialCount(), m.TriangleCount())
	}

	clone.Materials[0].Name = "modified"
	clone.Vertices[0].Position = math3d.V3(9, 9, 9)
	if m.Materials[0].Name == "modified" || m.Vertices[0].Position != (math3d.Vec3{}) {
		t.Error("clone shares storage with the original")
	}

	if m.GetMaterial(-1) != nil || m.GetMaterial(99) != nil {
		t.Error("GetMaterial out of range should return nil")
	}
}
