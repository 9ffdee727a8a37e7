package scene

import (
	"math"
	"testing"

	"github.com/taigrr/warp/pkg/argb"
	"github.com/taigrr/warp/pkg/math3d"
	"github.com/taigrr/warp/pkg/texture"
)

const eps = 1e-9

func vecNear(a, b math3d.Vec3, tol float64) bool {
	return math.Abs(a.X-b.X) < tol && math.Abs(a.Y-b.Y) < tol && math.Abs(a.Z-b.Z) < tol
}

// facing builds a unit right triangle in the z=0 plane whose front side
// faces a Front camera.
func facing() *Object {
	o := NewObject()
	o.AddVertex(NewVertexUV(0, 0, 0, 0, 0))
	o.AddVertex(NewVertexUV(1, 0, 0, 1, 0))
	o.AddVertex(NewVertexUV(0, 1, 0, 0, 1))
	o.AddTriangle(0, 1, 2)
	return o
}

func TestRebuildNormalsAndBounds(t *testing.T) {
	o := facing()
	o.Shift(5, 5, 5) // transform does not affect local bounds
	o.Rebuild()

	if !vecNear(o.Triangles[0].N, math3d.V3(0, 0, 1), eps) {
		t.Errorf("face normal = %+v", o.Triangles[0].N)
	}
	for i, v := range o.Vertices {
		if !vecNear(v.N, math3d.V3(0, 0, 1), eps) {
			t.Errorf("vertex %d normal = %+v", i, v.N)
		}
		if v.ID != i {
			t.Errorf("vertex %d id = %d", i, v.ID)
		}
	}
	if o.Min != (math3d.Vec3{}) || o.Max != math3d.V3(1, 1, 0) {
		t.Errorf("bounds = %+v %+v", o.Min, o.Max)
	}
	if o.Dirty() {
		t.Error("still dirty after rebuild")
	}
}

func TestBoundsIncludeOrigin(t *testing.T) {
	o := NewObject()
	o.AddVertex(NewVertex(2, 3, 4))
	o.AddVertex(NewVertex(5, 6, 7))
	b := o.Bounds()
	if b.Min != (math3d.Vec3{}) || b.Max != math3d.V3(5, 6, 7) {
		t.Errorf("bounds = %+v", b)
	}
}

func TestVertexNormalAveragesNeighbors(t *testing.T) {
	// Two faces folded along the y axis at a right angle.
	o := NewObject()
	o.AddVertex(NewVertex(0, 0, 0))
	o.AddVertex(NewVertex(0, 1, 0))
	o.AddVertex(NewVertex(1, 0, 0))
	o.AddVertex(NewVertex(0, 0, 1))
	o.AddTriangle(0, 2, 1) // normal +z
	o.AddTriangle(0, 1, 3) // normal +x
	o.Rebuild()

	want := math3d.V3(1, 0, 1).Normalized()
	if !vecNear(o.Vertices[0].N, want, 1e-9) {
		t.Errorf("shared normal = %+v, want %+v", o.Vertices[0].N, want)
	}
	if got := len(o.Vertices[0].Neighbors()); got != 2 {
		t.Errorf("neighbors = %d", got)
	}
}

func TestRebuildIsLazy(t *testing.T) {
	o := facing()
	o.Rebuild()
	o.Vertices[0].N = math3d.V3(9, 9, 9)
	o.Rebuild()
	if o.Vertices[0].N != math3d.V3(9, 9, 9) {
		t.Error("clean Rebuild should not touch normals")
	}
	o.MarkDirty()
	o.Rebuild()
	if o.Vertices[0].N == math3d.V3(9, 9, 9) {
		t.Error("dirty Rebuild should regenerate normals")
	}
}

func TestRemoveVertexRemaps(t *testing.T) {
	o := NewObject()
	for i := range 5 {
		o.AddVertex(NewVertex(float64(i), 0, 0))
	}
	o.AddTriangle(0, 1, 2)
	o.AddTriangle(2, 3, 4)
	o.AddTriangle(0, 3, 4)

	o.RemoveVertex(1)
	if len(o.Vertices) != 4 {
		t.Fatalf("vertices = %d", len(o.Vertices))
	}
	if len(o.Triangles) != 2 {
		t.Fatalf("triangles = %d", len(o.Triangles))
	}
	if tr := o.Triangles[0]; tr.A != 1 || tr.B != 2 || tr.C != 3 {
		t.Errorf("triangle 0 = %d,%d,%d", tr.A, tr.B, tr.C)
	}
	if tr := o.Triangles[1]; tr.A != 0 || tr.B != 2 || tr.C != 3 {
		t.Errorf("triangle 1 = %d,%d,%d", tr.A, tr.B, tr.C)
	}

	o.RemoveTriangle(0)
	o.RemoveTriangle(10)
	if len(o.Triangles) != 1 {
		t.Errorf("triangles = %d", len(o.Triangles))
	}
}

func TestDetachKeepsWorldPosition(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(o *Object)
		wantPos math3d.Vec3
	}{
		{"identity", func(o *Object) {}, math3d.V3(2, 3, 4)},
		{"rotated and scaled", func(o *Object) {
			o.Rotate(0, math.Pi/2, 0)
			o.ScaleUniform(2)
			o.Shift(1, 0, 0)
		}, math3d.V3(9, 6, -4)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			o := NewObject()
			o.AddVertex(NewVertex(2, 2, 2))
			o.AddVertex(NewVertex(4, 6, 8))
			tc.setup(o)
			var before [2]math3d.Vec3
			for i := range before {
				before[i] = o.Vertices[i].Pos.Transform(o.Matrix)
			}

			o.Detach()
			for i, want := range before {
				if got := o.Vertices[i].Pos.Transform(o.Matrix); !vecNear(got, want, 1e-9) {
					t.Errorf("vertex %d world position moved: %+v -> %+v", i, want, got)
				}
			}
			if !vecNear(o.Pos(), tc.wantPos, 1e-9) {
				t.Errorf("matrix offset = %+v, want %+v", o.Pos(), tc.wantPos)
			}
		})
	}
}

func TestMatrixMeltdown(t *testing.T) {
	o := facing()
	o.Rotate(0, math.Pi, 0)
	o.Shift(1, 2, 3)
	want := o.Vertices[1].Pos.Transform(o.Matrix)

	o.MatrixMeltdown()
	if o.Matrix != math3d.Identity() || o.NormalMatrix != math3d.Identity() {
		t.Error("matrices not reset")
	}
	if !vecNear(o.Vertices[1].Pos, want, 1e-9) {
		t.Errorf("baked position = %+v, want %+v", o.Vertices[1].Pos, want)
	}
	if !vecNear(o.Triangles[0].N, math3d.V3(0, 0, -1), 1e-9) {
		t.Errorf("normal after half turn = %+v", o.Triangles[0].N)
	}
}

func TestClone(t *testing.T) {
	o := facing()
	o.Name = "tri"
	m := NewMaterial(argb.White)
	o.SetMaterial(m)
	o.Shift(1, 0, 0)

	c := o.Clone()
	if c.Name != "tri [cloned]" {
		t.Errorf("name = %q", c.Name)
	}
	if c.Material != m {
		t.Error("material should be shared")
	}
	if c.Pos() != o.Pos() {
		t.Error("transform not copied")
	}
	c.Vertices[0].Pos.X = 99
	if o.Vertices[0].Pos.X == 99 {
		t.Error("vertices shared with clone")
	}
	if c.Triangles[0].Parent != c {
		t.Error("clone triangles point at the original")
	}
}

func TestProjectFrontCamera(t *testing.T) {
	cam := Front()
	cam.SetScreenSize(100, 100)
	m := cam.Matrix()
	nm := cam.NormalMatrix()

	tests := []struct {
		pos  math3d.Vec3
		x, y int
	}{
		{math3d.V3(0, 0, 0), 50, 50},
		{math3d.V3(1, 0, 0), 100, 50},
		{math3d.V3(0, 1, 0), 50, 0},
		{math3d.V3(-1, -1, 0), 0, 100},
	}
	for _, tt := range tests {
		v := Vertex{Pos: tt.pos, N: math3d.V3(0, 0, 1)}
		v.Project(m, nm, cam)
		if v.X != tt.x || v.Y != tt.y {
			t.Errorf("Project(%+v) = (%d,%d), want (%d,%d)", tt.pos, v.X, v.Y, tt.x, tt.y)
		}
		if v.Z != 2*65536 {
			t.Errorf("Z = %d", v.Z)
		}
		if math.Abs(v.InvZ+0.5) > eps {
			t.Errorf("InvZ = %v", v.InvZ)
		}
		if v.NX != 127<<16 || v.NY != 127<<16 {
			t.Errorf("normal lookup = %d,%d", v.NX>>16, v.NY>>16)
		}
	}
}

func TestProjectNearPlaneNudge(t *testing.T) {
	cam := Front()
	cam.SetScreenSize(10, 10)
	v := Vertex{Pos: math3d.V3(0, 0, -2)}
	v.Project(cam.Matrix(), cam.NormalMatrix(), cam)
	nudge := 0.001
	if v.Z != int(65536*nudge) {
		t.Errorf("Z = %d, want nudged to 0.001", v.Z)
	}
	if math.IsInf(v.InvZ, 0) {
		t.Error("InvZ should be finite")
	}
}

func TestOrthographicProjection(t *testing.T) {
	cam := Front()
	cam.SetScreenSize(100, 50)
	cam.SetOrthographic(true, 4, 2)
	if !cam.Orthographic() {
		t.Fatal("expected orthographic")
	}
	v := Vertex{Pos: math3d.V3(1, 0.5, 0)}
	v.Project(cam.Matrix(), cam.NormalMatrix(), cam)
	if v.X != 75 || v.Y != 12 {
		t.Errorf("ortho = (%d,%d), want (75,12)", v.X, v.Y)
	}
	if v.InvZ != -1 {
		t.Errorf("InvZ = %v", v.InvZ)
	}

	cam.SetOrthographic(true, 0, 2)
	if cam.Orthographic() {
		t.Error("zero extent should fall back to perspective")
	}
}

func TestClipFrustum(t *testing.T) {
	tests := []struct {
		x, y, z int
		want    int
	}{
		{5, 5, 1, 0},
		{-1, 5, 1, ClipLeft},
		{10, 5, 1, ClipRight},
		{5, -1, 1, ClipTop},
		{5, 10, 1, ClipBottom},
		{-1, -1, -1, ClipLeft | ClipTop | ClipNear},
	}
	for _, tt := range tests {
		v := Vertex{X: tt.x, Y: tt.y, Z: tt.z}
		v.ClipFrustum(10, 10)
		if v.ClipCode != tt.want {
			t.Errorf("clip(%d,%d,%d) = %d, want %d", tt.x, tt.y, tt.z, v.ClipCode, tt.want)
		}
	}
}

func TestTriangleVisibility(t *testing.T) {
	cam := Front()
	cam.SetScreenSize(100, 100)

	check := func(o *Object) bool {
		o.Rebuild()
		for i := range o.Vertices {
			o.Vertices[i].Project(cam.Matrix(), cam.NormalMatrix(), cam)
			o.Vertices[i].ClipFrustum(100, 100)
		}
		tr := &o.Triangles[0]
		tr.Project(cam.NormalMatrix())
		return tr.Visible()
	}

	if !check(facing()) {
		t.Error("front face culled")
	}

	back := facing()
	back.Triangles[0].B, back.Triangles[0].C = 2, 1
	back.MarkDirty()
	if check(back) {
		t.Error("back face visible")
	}

	off := facing()
	off.Shift(5, 0, 0) // entirely right of the viewport
	off.Rebuild()
	m := math3d.Compose(off.Matrix, cam.Matrix())
	for i := range off.Vertices {
		off.Vertices[i].Project(m, cam.NormalMatrix(), cam)
		off.Vertices[i].ClipFrustum(100, 100)
	}
	off.Triangles[0].Project(cam.NormalMatrix())
	if off.Triangles[0].Visible() {
		t.Error("off-screen triangle visible")
	}
}

func TestTriangleHelpers(t *testing.T) {
	o := facing()
	o.Rebuild()
	tr := &o.Triangles[0]
	if !vecNear(tr.Center(), math3d.V3(1.0/3, 1.0/3, 0), eps) {
		t.Errorf("center = %+v", tr.Center())
	}
	if tr.Degenerate() {
		t.Error("not degenerate")
	}
	o.AddTriangle(0, 0, 1)
	if !o.Triangles[1].Degenerate() {
		t.Error("expected degenerate")
	}
}

func TestCameraLookingDown(t *testing.T) {
	cam := NewCamera(90)
	cam.SetPos(0, 3, 0)
	cam.SetScreenSize(64, 64)
	m := cam.Matrix()
	for _, f := range []float64{m.M00, m.M11, m.M22, m.M03, m.M13, m.M23} {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			t.Fatalf("degenerate matrix %+v", m)
		}
	}
	v := Vertex{Pos: math3d.V3(0, 0, 0)}
	v.Project(m, cam.NormalMatrix(), cam)
	if v.X != 32 || v.Y != 32 {
		t.Errorf("origin = (%d,%d)", v.X, v.Y)
	}
}

func TestCameraShiftAndRotate(t *testing.T) {
	cam := Front()
	cam.Shift(1, 2, 3)
	if cam.Pos() != math3d.V3(1, 2, 1) || cam.Target() != math3d.V3(1, 2, 3) {
		t.Errorf("shift pos=%+v target=%+v", cam.Pos(), cam.Target())
	}

	cam = Front()
	cam.Rotate(0, math.Pi/2, 0)
	if !vecNear(cam.Pos(), math3d.V3(-2, 0, 0), 1e-9) && !vecNear(cam.Pos(), math3d.V3(2, 0, 0), 1e-9) {
		t.Errorf("rotated pos = %+v", cam.Pos())
	}
	if math.Abs(cam.Pos().Len()-2) > 1e-9 {
		t.Error("rotation changed distance")
	}

	cam.Orbit(0, 0, 3)
	if !vecNear(cam.Pos(), math3d.V3(0, 0, -3), 1e-9) {
		t.Errorf("orbit = %+v", cam.Pos())
	}
}

func TestCameraRoll(t *testing.T) {
	cam := Front()
	cam.SetScreenSize(100, 100)
	cam.Roll(math.Pi / 2)
	v := Vertex{Pos: math3d.V3(1, 0, 0)}
	v.Project(cam.Matrix(), cam.NormalMatrix(), cam)
	if v.X < 49 || v.X > 50 {
		t.Errorf("rolled x = %d, want about 50", v.X)
	}
	if v.Y > 1 && v.Y < 99 {
		t.Errorf("rolled y = %d, want an edge", v.Y)
	}
}

func TestMaterial(t *testing.T) {
	m := NewMaterial(0xFF336699)
	if m.Reflectivity != 255 || !m.Opaque() {
		t.Error("defaults")
	}
	m.SetReflectivity(400)
	if m.Reflectivity != 255 {
		t.Errorf("reflectivity = %d", m.Reflectivity)
	}
	m.SetReflectivity(-3)
	if m.Reflectivity != 0 {
		t.Errorf("reflectivity = %d", m.Reflectivity)
	}

	m.SetColor(0x80336699)
	if m.Opaque() {
		t.Error("translucent color should not be opaque")
	}
	m.SetColor(0xFF336699)

	tex := texture.New(3, 3)
	m.SetTexture(tex)
	if tex.Width != 4 || tex.Height != 4 {
		t.Errorf("texture resized to %dx%d", tex.Width, tex.Height)
	}
	if m.Opaque() {
		t.Error("transparent texture should not be opaque")
	}

	env := texture.New(10, 20)
	m.SetEnvMap(env)
	if env.Width != 256 || env.Height != 256 {
		t.Errorf("envmap = %dx%d", env.Width, env.Height)
	}
	m.SetTexture(nil)
	if m.Texture != nil || !m.Opaque() {
		t.Error("nil texture")
	}
}

func TestLight(t *testing.T) {
	l := NewLightColor(math3d.V3(0, 0, 5), argb.White, 200, 80)
	if !vecNear(l.V, math3d.V3(0, 0, 1), eps) {
		t.Errorf("direction = %+v", l.V)
	}
	if l.Diffuse != argb.White || l.Specular != argb.White {
		t.Error("colors")
	}
}

func TestSceneRegistry(t *testing.T) {
	s := New(64, 48)
	names := []string{"c", "a", "b"}
	for _, n := range names {
		s.AddObject(n, facing())
	}
	if got := s.ObjectNames(); len(got) != 3 || got[0] != "c" || got[1] != "a" || got[2] != "b" {
		t.Errorf("names = %v", got)
	}
	for i, o := range s.Objects() {
		if o.ID != i || o.Name != names[i] {
			t.Errorf("object %d = %q id %d", i, o.Name, o.ID)
		}
	}
	if s.CountVertices() != 9 || s.CountTriangles() != 3 {
		t.Errorf("counts = %d, %d", s.CountVertices(), s.CountTriangles())
	}

	if _, ok := s.Object("missing"); ok {
		t.Error("found missing object")
	}
	if !s.RemoveObject("a") || s.RemoveObject("a") {
		t.Error("RemoveObject")
	}
	if len(s.Objects()) != 2 || s.Objects()[1].Name != "b" || s.Objects()[1].ID != 1 {
		t.Error("snapshot not refreshed after remove")
	}

	s.RemoveAllObjects()
	if len(s.Objects()) != 0 {
		t.Error("RemoveAllObjects")
	}

	s.AddMaterial("m", NewMaterial(argb.White))
	if _, ok := s.Material("m"); !ok {
		t.Error("material lookup")
	}
	s.AddCamera("top", Top())
	if _, ok := s.NamedCamera("top"); !ok {
		t.Error("camera lookup")
	}
	if !s.RemoveMaterial("m") || !s.RemoveCamera("top") {
		t.Error("remove material/camera")
	}
}

func TestPrepareForRendering(t *testing.T) {
	s := New(8, 8)
	if !s.PrepareForRendering() {
		t.Error("first prepare should rebuild")
	}
	if s.PrepareForRendering() {
		t.Error("second prepare should be a no-op")
	}
	s.AddLight("sun", NewLightColor(math3d.V3(0, 0, 1), argb.White, 0, 0))
	if !s.PrepareForRendering() {
		t.Error("adding a light should invalidate")
	}
	if len(s.Lights()) != 1 {
		t.Error("light snapshot")
	}
	s.SetAmbient(argb.Grey)
	if !s.PrepareForRendering() {
		t.Error("ambient change should invalidate")
	}
	s.InvalidateLighting()
	if !s.PrepareForRendering() {
		t.Error("InvalidateLighting")
	}
}

func TestBackgroundColorForcedOpaque(t *testing.T) {
	s := New(8, 8)
	s.SetBackgroundColor(0x00123456)
	if s.Environment.BgColor != 0xFF123456 {
		t.Errorf("bg = %08x", s.Environment.BgColor)
	}
}

func TestNormalize(t *testing.T) {
	s := New(8, 8)
	s.Normalize() // empty scene is a no-op
	if s.Matrix != math3d.Identity() {
		t.Error("empty normalize changed matrix")
	}

	o := NewObject()
	o.AddVertex(NewVertex(2, 2, 2))
	o.AddVertex(NewVertex(6, 4, 3))
	s.AddObject("o", o)
	s.Rotate(1, 0, 0)
	s.Normalize()

	// bounds include the origin: (0,0,0)-(6,4,3), center (3,2,1.5), diameter 6
	if !vecNear(s.NormalizedOffset, math3d.V3(3, 2, 1.5), eps) {
		t.Errorf("offset = %+v", s.NormalizedOffset)
	}
	if math.Abs(s.NormalizedScale-1.0/3) > eps {
		t.Errorf("scale = %v", s.NormalizedScale)
	}
	p := math3d.V3(6, 4, 3).Transform(s.Matrix)
	if !vecNear(p, math3d.V3(1, 2.0/3, 0.5), 1e-9) {
		t.Errorf("corner maps to %+v", p)
	}
	if s.NormalMatrix != math3d.Identity() {
		t.Error("normal matrix should be reset")
	}
}

func TestEstimateBoxProjectedArea(t *testing.T) {
	s := New(100, 100)
	area := s.EstimateBoxProjectedArea(math3d.Vec3{}, math3d.V3(0.25, 0.25, 0.25), math3d.Identity())
	if math.Abs(area-0.25) > 1e-9 {
		t.Errorf("area = %v", area)
	}
	tiny := s.EstimateBoxProjectedArea(math3d.Vec3{}, math3d.V3(1e-4, 1e-4, 1e-4), math3d.Identity())
	if tiny != -1 {
		t.Errorf("tiny area = %v, want -1", tiny)
	}
}

func BenchmarkVertexProject(b *testing.B) {
	cam := Front()
	cam.SetScreenSize(320, 240)
	m, nm := cam.Matrix(), cam.NormalMatrix()
	v := Vertex{Pos: math3d.V3(0.3, 0.2, 0.1), N: math3d.V3(0, 0, 1)}
	for b.Loop() {
		v.Project(m, nm, cam)
	}
}
