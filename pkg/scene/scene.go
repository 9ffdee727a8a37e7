package scene

import (
	"github.com/taigrr/warp/pkg/argb"
	"github.com/taigrr/warp/pkg/math3d"
	"github.com/taigrr/warp/pkg/texture"
)

// Scene is the root of the scene graph. Its own transform is applied to
// every object before the camera.
type Scene struct {
	Transform

	Width, Height int
	Environment   Environment
	Camera        *Camera // default camera used by the render pipeline

	// NormalizedOffset and NormalizedScale record the last Normalize.
	NormalizedOffset math3d.Vec3
	NormalizedScale  float64

	objects   registry[*Object]
	lights    registry[*Light]
	materials registry[*Material]
	cameras   registry[*Camera]

	// Flat snapshots rebuilt by Rebuild.
	objectList []*Object
	lightList  []*Light

	objectsDirty bool
	lightsDirty  bool
	prepared     bool
}

// New creates an empty scene rendering at w×h through a Front camera.
func New(w, h int) *Scene {
	s := &Scene{
		Transform:       NewTransform(),
		Width:           w,
		Height:          h,
		Environment:     NewEnvironment(),
		Camera:          Front(),
		NormalizedScale: 1,
		objects:         newRegistry[*Object](),
		lights:          newRegistry[*Light](),
		materials:       newRegistry[*Material](),
		cameras:         newRegistry[*Camera](),
		objectsDirty:    true,
		lightsDirty:     true,
	}
	s.Camera.SetScreenSize(w, h)
	return s
}

// Resize changes the output size and updates the default camera.
func (s *Scene) Resize(w, h int) {
	s.Width, s.Height = w, h
	s.Camera.SetScreenSize(w, h)
}

// AddObject registers o under name, replacing any object with that name.
func (s *Scene) AddObject(name string, o *Object) {
	o.Name = name
	s.objects.set(name, o)
	s.objectsDirty = true
	s.prepared = false
}

// RemoveObject unregisters the named object.
func (s *Scene) RemoveObject(name string) bool {
	if !s.objects.remove(name) {
		return false
	}
	s.objectsDirty = true
	s.prepared = false
	return true
}

// RemoveAllObjects empties the object registry.
func (s *Scene) RemoveAllObjects() {
	s.objects.clear()
	s.objectsDirty = true
	s.Rebuild()
}

// Object looks up an object by name.
func (s *Scene) Object(name string) (*Object, bool) { return s.objects.get(name) }

// ObjectNames lists object names in insertion order.
func (s *Scene) ObjectNames() []string { return s.objects.names() }

// AddLight registers a light under name.
func (s *Scene) AddLight(name string, l *Light) {
	s.lights.set(name, l)
	s.lightsDirty = true
	s.prepared = false
}

// RemoveLight unregisters the named light.
func (s *Scene) RemoveLight(name string) bool {
	if !s.lights.remove(name) {
		return false
	}
	s.lightsDirty = true
	s.prepared = false
	return true
}

// Light looks up a light by name.
func (s *Scene) Light(name string) (*Light, bool) { return s.lights.get(name) }

// AddMaterial registers a material under name.
func (s *Scene) AddMaterial(name string, m *Material) { s.materials.set(name, m) }

// RemoveMaterial unregisters the named material. Objects using it keep
// their reference.
func (s *Scene) RemoveMaterial(name string) bool { return s.materials.remove(name) }

// Material looks up a material by name.
func (s *Scene) Material(name string) (*Material, bool) { return s.materials.get(name) }

// AddCamera registers a camera under name.
func (s *Scene) AddCamera(name string, c *Camera) { s.cameras.set(name, c) }

// RemoveCamera unregisters the named camera.
func (s *Scene) RemoveCamera(name string) bool { return s.cameras.remove(name) }

// NamedCamera looks up a camera by name.
func (s *Scene) NamedCamera(name string) (*Camera, bool) { return s.cameras.get(name) }

// Rebuild refreshes the object and light snapshots when their registries
// changed, rebuilding each object and assigning ids in insertion order.
func (s *Scene) Rebuild() {
	if s.objectsDirty {
		s.objectsDirty = false
		s.objectList = s.objects.values()
		for i, o := range s.objectList {
			o.ID = i
			o.Rebuild()
		}
	}
	if s.lightsDirty {
		s.lightsDirty = false
		s.lightList = s.lights.values()
	}
}

// Objects returns the rebuilt object snapshot.
func (s *Scene) Objects() []*Object {
	s.Rebuild()
	return s.objectList
}

// Lights returns the rebuilt light snapshot.
func (s *Scene) Lights() []*Light {
	s.Rebuild()
	return s.lightList
}

// PrepareForRendering rebuilds the scene once after a change and reports
// whether lighting must be recomputed.
func (s *Scene) PrepareForRendering() bool {
	if s.prepared {
		return false
	}
	s.prepared = true
	s.Rebuild()
	return true
}

// InvalidateLighting forces the lightmap to be rebuilt before the next
// frame. Call it after editing a registered Light in place.
func (s *Scene) InvalidateLighting() {
	s.prepared = false
}

// SetBackgroundColor sets the clear color. Alpha is forced opaque.
func (s *Scene) SetBackgroundColor(c uint32) {
	s.Environment.BgColor = c | argb.Alpha
}

// SetBackground sets a texture stretched over the viewport instead of the
// clear color. Nil returns to the color.
func (s *Scene) SetBackground(t *texture.Texture) {
	s.Environment.Background = t
}

// SetAmbient sets the ambient light color.
func (s *Scene) SetAmbient(c uint32) {
	s.Environment.Ambient = c
	s.prepared = false
}

// CountVertices totals the vertices of all objects.
func (s *Scene) CountVertices() int {
	n := 0
	for _, o := range s.Objects() {
		n += o.CountVertices()
	}
	return n
}

// CountTriangles totals the triangles of all objects.
func (s *Scene) CountTriangles() int {
	n := 0
	for _, o := range s.Objects() {
		n += o.CountTriangles()
	}
	return n
}

// Bounds returns the union of all object bounds in local coordinates.
func (s *Scene) Bounds() math3d.AABB {
	objs := s.Objects()
	if len(objs) == 0 {
		return math3d.AABB{}
	}
	b := objs[0].Bounds()
	for _, o := range objs[1:] {
		b = b.Union(o.Bounds())
	}
	return b
}

// Normalize resets the scene transform, then centers the combined object
// bounds on the origin and scales them so the largest side spans 2 units.
// An empty scene is left alone.
func (s *Scene) Normalize() {
	s.objectsDirty = true
	s.Rebuild()
	if len(s.objectList) == 0 {
		return
	}
	s.ResetTransform()

	b := s.Bounds()
	size := b.Size()
	diameter := size.MaxComponent()

	s.NormalizedOffset = b.Center()
	s.Shift(-s.NormalizedOffset.X, -s.NormalizedOffset.Y, -s.NormalizedOffset.Z)
	if diameter > 0 {
		s.NormalizedScale = 2 / diameter
		s.ScaleUniform(s.NormalizedScale)
	}
}

// EstimateBoxProjectedArea projects a box of half-extents size, rotated by
// rotation and centered at pos, through the default camera and returns
// the fraction of the viewport covered by its screen bounding rectangle.
// It returns -1 when the rectangle is less than a pixel wide or tall.
func (s *Scene) EstimateBoxProjectedArea(pos, size math3d.Vec3, rotation math3d.Matrix) float64 {
	om := math3d.ScaleMatrix(size.X, size.Y, size.Z)
	om.Transform(rotation)
	om.M03, om.M13, om.M23 = pos.X, pos.Y, pos.Z
	om.Transform(math3d.Multiply(s.Camera.Matrix(), s.Matrix))

	unit := math3d.NewAABB(math3d.V3(-1, -1, -1), math3d.V3(1, 1, 1))
	r := unit.Transform(om)
	xr, yr := r.Max.X-r.Min.X, r.Max.Y-r.Min.Y
	if xr < 1 || yr < 1 {
		return -1
	}
	return xr * yr / float64(s.Width*s.Height)
}
