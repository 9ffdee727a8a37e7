// Package warp is a name-keyed facade over the scene graph and render
// pipeline. Every operation reports a missing scene or an unknown name as
// an error instead of panicking, so scripted scene building can carry on
// after a failed step.
package warp

import (
	"errors"
	"fmt"
	"image"

	"github.com/charmbracelet/log"

	"github.com/taigrr/warp/pkg/math3d"
	"github.com/taigrr/warp/pkg/models"
	"github.com/taigrr/warp/pkg/render"
	"github.com/taigrr/warp/pkg/scene"
	"github.com/taigrr/warp/pkg/texture"
)

var (
	// ErrNoScene is returned by every operation before CreateScene.
	ErrNoScene = errors.New("warp: no scene")
	// ErrNotFound is returned when a named object, material or model does
	// not exist.
	ErrNotFound = errors.New("warp: not found")
)

// DefaultTextureBits caps loaded textures at 1024 pixels on the longer side.
const DefaultTextureBits = 10

// Engine holds at most one scene and the pipeline rendering it. It is not
// safe for concurrent use.
type Engine struct {
	// TextureBits caps the larger side of loaded textures at
	// 2^TextureBits. Values of 3 or less disable the cap.
	TextureBits int

	scene    *scene.Scene
	pipeline *render.Pipeline
	models   map[string][]*scene.Object
	logger   *log.Logger
}

// New creates an engine without a scene.
func New() *Engine {
	return &Engine{
		TextureBits: DefaultTextureBits,
		models:      make(map[string][]*scene.Object),
	}
}

// SetLogger sets the logger for scene and frame diagnostics. A nil logger
// disables them.
func (e *Engine) SetLogger(l *log.Logger) {
	e.logger = l
	if e.pipeline != nil {
		e.pipeline.SetLogger(l)
	}
}

func (e *Engine) debug(msg string, keyvals ...any) {
	if e.logger != nil {
		e.logger.Debug(msg, keyvals...)
	}
}

// CreateScene replaces the current scene with an empty one of the given
// size and forgets all imported models.
func (e *Engine) CreateScene(width, height int) error {
	if width <= 0 || height <= 0 {
		e.Reset()
		return fmt.Errorf("warp: invalid scene size %dx%d", width, height)
	}
	e.scene = scene.New(width, height)
	e.pipeline = render.NewPipeline(e.scene)
	e.pipeline.SetLogger(e.logger)
	clear(e.models)
	e.debug("scene created", "width", width, "height", height)
	return nil
}

// Resize changes the output size of the current scene.
func (e *Engine) Resize(width, height int) error {
	if e.scene == nil {
		return ErrNoScene
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("warp: invalid scene size %dx%d", width, height)
	}
	e.pipeline.Resize(width, height)
	return nil
}

// Reset drops the scene and all imported models.
func (e *Engine) Reset() {
	e.scene = nil
	e.pipeline = nil
	clear(e.models)
}

// Scene returns the current scene, or nil.
func (e *Engine) Scene() *scene.Scene {
	return e.scene
}

// Pipeline returns the pipeline of the current scene, or nil.
func (e *Engine) Pipeline() *render.Pipeline {
	return e.pipeline
}

func (e *Engine) object(name string) (*scene.Object, error) {
	if e.scene == nil {
		return nil, ErrNoScene
	}
	o, ok := e.scene.Object(name)
	if !ok {
		return nil, fmt.Errorf("object %q: %w", name, ErrNotFound)
	}
	return o, nil
}

func (e *Engine) material(name string) (*scene.Material, error) {
	if e.scene == nil {
		return nil, ErrNoScene
	}
	m, ok := e.scene.Material(name)
	if !ok {
		return nil, fmt.Errorf("material %q: %w", name, ErrNotFound)
	}
	return m, nil
}

func (e *Engine) add(name string, o *scene.Object) error {
	if e.scene == nil {
		return ErrNoScene
	}
	e.scene.AddObject(name, o)
	e.scene.Rebuild()
	return nil
}

// AddSphere adds a UV sphere.
func (e *Engine) AddSphere(name string, radius float64, segments int) error {
	return e.add(name, models.Sphere(radius, segments))
}

// AddPlane adds a square plane of side 2*size in the y=0 plane.
func (e *Engine) AddPlane(name string, size float64, doubleSided bool) error {
	return e.add(name, models.SimplePlane(size, doubleSided))
}

// AddCube adds a cube centered on the origin.
func (e *Engine) AddCube(name string, size float64) error {
	return e.add(name, models.Cube(size))
}

// AddBox adds a box centered on the origin.
func (e *Engine) AddBox(name string, x, y, z float64) error {
	return e.add(name, models.Box(x, y, z))
}

// AddCylinder adds a capped cylinder along the y axis.
func (e *Engine) AddCylinder(name string, height, radius float64, segments int) error {
	return e.add(name, models.Cylinder(height, radius, segments))
}

// AddCone adds a cone along the y axis.
func (e *Engine) AddCone(name string, height, radius float64, segments int) error {
	return e.add(name, models.Cone(height, radius, segments))
}

// ProjectFrontal assigns frontal texture coordinates to an object.
func (e *Engine) ProjectFrontal(name string) error {
	o, err := e.object(name)
	if err != nil {
		return err
	}
	models.ProjectFrontal(o)
	return nil
}

// ProjectCylindric assigns cylindrical texture coordinates to an object.
func (e *Engine) ProjectCylindric(name string) error {
	o, err := e.object(name)
	if err != nil {
		return err
	}
	models.ProjectCylindric(o)
	return nil
}

// ShiftObject moves an object in world space.
func (e *Engine) ShiftObject(name string, x, y, z float64) error {
	o, err := e.object(name)
	if err != nil {
		return err
	}
	o.Shift(x, y, z)
	return nil
}

// SetPos places an object at an absolute position.
func (e *Engine) SetPos(name string, x, y, z float64) error {
	o, err := e.object(name)
	if err != nil {
		return err
	}
	o.SetPos(x, y, z)
	return nil
}

// RotateObject rotates an object about the world origin. Angles are in
// radians.
func (e *Engine) RotateObject(name string, x, y, z float64) error {
	o, err := e.object(name)
	if err != nil {
		return err
	}
	o.Rotate(x, y, z)
	return nil
}

// RotateSelf rotates an object about its own origin.
func (e *Engine) RotateSelf(name string, x, y, z float64) error {
	o, err := e.object(name)
	if err != nil {
		return err
	}
	o.RotateSelf(x, y, z)
	return nil
}

// RotateSelfQuat rotates an object about its own origin by q.
func (e *Engine) RotateSelfQuat(name string, q math3d.Quaternion) error {
	o, err := e.object(name)
	if err != nil {
		return err
	}
	o.RotateSelfQuat(q)
	return nil
}

// ScaleObject scales an object uniformly in world space.
func (e *Engine) ScaleObject(name string, s float64) error {
	o, err := e.object(name)
	if err != nil {
		return err
	}
	o.ScaleUniform(s)
	return nil
}

// SetObjectMaterial assigns a registered material to an object.
func (e *Engine) SetObjectMaterial(name, material string) error {
	o, err := e.object(name)
	if err != nil {
		return err
	}
	m, err := e.material(material)
	if err != nil {
		return err
	}
	o.SetMaterial(m)
	return nil
}

// NormaliseScene centers the scene and scales it into a 2-unit cube.
func (e *Engine) NormaliseScene() error {
	if e.scene == nil {
		return ErrNoScene
	}
	e.scene.Normalize()
	return nil
}

// SetAmbient sets the ambient light color.
func (e *Engine) SetAmbient(c uint32) error {
	if e.scene == nil {
		return ErrNoScene
	}
	e.scene.SetAmbient(c)
	return nil
}

// RotateScene rotates the whole scene about the world origin.
func (e *Engine) RotateScene(x, y, z float64) error {
	if e.scene == nil {
		return ErrNoScene
	}
	e.scene.Rotate(x, y, z)
	return nil
}

// RotateSceneQuat rotates the whole scene by q.
func (e *Engine) RotateSceneQuat(q math3d.Quaternion) error {
	if e.scene == nil {
		return ErrNoScene
	}
	e.scene.RotateQuat(q)
	return nil
}

// RotateSceneMatrix rotates the whole scene by the rotation part of m.
func (e *Engine) RotateSceneMatrix(m math3d.Matrix) error {
	if e.scene == nil {
		return ErrNoScene
	}
	e.scene.RotateMatrix(m)
	return nil
}

// ScaleScene scales the whole scene.
func (e *Engine) ScaleScene(x, y, z float64) error {
	if e.scene == nil {
		return ErrNoScene
	}
	e.scene.Scale(x, y, z)
	return nil
}

// TranslateScene moves the whole scene.
func (e *Engine) TranslateScene(x, y, z float64) error {
	if e.scene == nil {
		return ErrNoScene
	}
	e.scene.Shift(x, y, z)
	return nil
}

// ShiftDefaultCamera moves the scene camera.
func (e *Engine) ShiftDefaultCamera(x, y, z float64) error {
	if e.scene == nil {
		return ErrNoScene
	}
	e.scene.Camera.Shift(x, y, z)
	return nil
}

// AddLight adds a directional light shining along (x, y, z) with one color
// for its diffuse and specular terms.
func (e *Engine) AddLight(name string, x, y, z float64, color uint32, sheen, spread int) error {
	if e.scene == nil {
		return ErrNoScene
	}
	e.scene.AddLight(name, scene.NewLightColor(math3d.V3(x, y, z), color, sheen, spread))
	return nil
}

// SetBackgroundColor sets the clear color.
func (e *Engine) SetBackgroundColor(c uint32) error {
	if e.scene == nil {
		return ErrNoScene
	}
	e.scene.SetBackgroundColor(c)
	return nil
}

// SetBackgroundTexture loads an image stretched over the background. On
// failure the scene is left unchanged.
func (e *Engine) SetBackgroundTexture(path string) error {
	if e.scene == nil {
		return ErrNoScene
	}
	t, err := texture.Load(path, e.TextureBits)
	if err != nil {
		return err
	}
	e.scene.SetBackground(t)
	return nil
}

// AddMaterial registers a plain colored material.
func (e *Engine) AddMaterial(name string, color uint32) error {
	if e.scene == nil {
		return ErrNoScene
	}
	e.scene.AddMaterial(name, scene.NewMaterial(color))
	return nil
}

// AddTextureMaterial registers a white material carrying the image at
// path. Nothing is registered when the image cannot be loaded.
func (e *Engine) AddTextureMaterial(name, path string) error {
	if e.scene == nil {
		return ErrNoScene
	}
	t, err := texture.Load(path, e.TextureBits)
	if err != nil {
		return err
	}
	e.scene.AddMaterial(name, scene.NewTexturedMaterial(t))
	return nil
}

// SetWireframe toggles wireframe rendering of a material.
func (e *Engine) SetWireframe(material string, wire bool) error {
	m, err := e.material(material)
	if err != nil {
		return err
	}
	m.SetWireframe(wire)
	return nil
}

// SetTexture loads the image at path as a material's texture. The material
// is unchanged if loading fails.
func (e *Engine) SetTexture(material, path string) error {
	m, err := e.material(material)
	if err != nil {
		return err
	}
	t, err := texture.Load(path, e.TextureBits)
	if err != nil {
		return err
	}
	m.SetTexture(t)
	return nil
}

// SetEnvMap loads the image at path as a material's environment map. The
// material is unchanged if loading fails.
func (e *Engine) SetEnvMap(material, path string) error {
	m, err := e.material(material)
	if err != nil {
		return err
	}
	t, err := texture.Load(path, e.TextureBits)
	if err != nil {
		return err
	}
	m.SetEnvMap(t)
	return nil
}

// SetReflectivity sets a material's reflectivity, cropped to 0..255.
func (e *Engine) SetReflectivity(material string, r int) error {
	m, err := e.material(material)
	if err != nil {
		return err
	}
	m.SetReflectivity(r)
	return nil
}

// Render draws one frame through the scene camera.
func (e *Engine) Render() error {
	if e.scene == nil {
		return ErrNoScene
	}
	e.pipeline.Render(nil)
	return nil
}

// Image returns a copy of the last rendered frame.
func (e *Engine) Image() (*image.NRGBA, error) {
	if e.scene == nil {
		return nil, ErrNoScene
	}
	return e.pipeline.Image(), nil
}

// SavePNG writes the last rendered frame to path.
func (e *Engine) SavePNG(path string) error {
	if e.scene == nil {
		return ErrNoScene
	}
	return e.pipeline.Screen().SavePNG(path)
}
