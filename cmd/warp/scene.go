package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"github.com/taigrr/warp/pkg/argb"
	"github.com/taigrr/warp/pkg/math3d"
	"github.com/taigrr/warp/pkg/scene"
	"github.com/taigrr/warp/pkg/warp"
)

// subject is the object name used for primitive shapes and the model name
// used for imported files.
const subject = "subject"

// sceneOptions are the flags shared by every command that builds a scene.
type sceneOptions struct {
	shape    string
	segments int
	model    string

	color        string
	ambient      string
	background   string
	light        string
	lightColor   string
	sheen        int
	spread       int
	texture      string
	envMap       string
	projection   string
	reflectivity int
	wireframe    bool
	flat         bool

	width, height int
	distance      float64
	rotate        string
	textureBits   int
}

func (o *sceneOptions) register(fs *pflag.FlagSet) {
	fs.StringVar(&o.shape, "shape", "sphere", "primitive to render: sphere, cube, box, plane, cylinder or cone")
	fs.IntVar(&o.segments, "segments", 24, "segments of round primitives")
	fs.StringVarP(&o.model, "model", "m", "", "model file to render instead of a primitive (.obj, .gltf, .glb)")

	fs.StringVar(&o.color, "color", "white", "surface color of primitives")
	fs.StringVar(&o.ambient, "ambient", "#202020", "ambient light color")
	fs.StringVar(&o.background, "bg", "30,30,40", "background color")
	fs.StringVar(&o.light, "light", "0.2,0.2,1", "light direction as x,y,z; empty for none")
	fs.StringVar(&o.lightColor, "light-color", "white", "light color")
	fs.IntVar(&o.sheen, "sheen", 200, "specular highlight strength (0-255)")
	fs.IntVar(&o.spread, "spread", 80, "specular highlight spread")
	fs.StringVar(&o.texture, "texture", "", "texture image for primitives")
	fs.StringVar(&o.envMap, "envmap", "", "environment map image for primitives")
	fs.StringVar(&o.projection, "project", "", "texture projection for primitives: frontal or cylindric")
	fs.IntVar(&o.reflectivity, "reflectivity", 255, "material reflectivity (0-255)")
	fs.BoolVar(&o.wireframe, "wireframe", false, "draw triangle edges only")
	fs.BoolVar(&o.flat, "flat", false, "flat shading")

	fs.IntVarP(&o.width, "width", "W", 640, "output width in pixels")
	fs.IntVarP(&o.height, "height", "H", 480, "output height in pixels")
	fs.Float64Var(&o.distance, "distance", 3, "camera distance from the scene center")
	fs.StringVar(&o.rotate, "rotate", "0,0,0", "scene rotation as x,y,z degrees")
	fs.IntVar(&o.textureBits, "texture-bits", warp.DefaultTextureBits, "cap textures at 2^n pixels per side")
}

func (o *sceneOptions) subjectName() string {
	if o.model != "" {
		return o.model
	}
	return o.shape
}

// build creates an engine holding the configured scene, normalized into
// the 2-unit cube around the origin.
func (o *sceneOptions) build(logger *log.Logger) (*warp.Engine, error) {
	e := warp.New()
	e.SetLogger(logger)
	e.TextureBits = o.textureBits
	if err := e.CreateScene(o.width, o.height); err != nil {
		return nil, err
	}

	if o.model != "" {
		if err := e.ImportModel(subject, o.model); err != nil {
			return nil, fmt.Errorf("import %s: %w", o.model, err)
		}
	} else if err := o.addShape(e); err != nil {
		return nil, err
	}
	if err := o.applyMaterials(e); err != nil {
		return nil, err
	}
	if err := o.applyEnvironment(e); err != nil {
		return nil, err
	}

	rot, err := parseVec3(o.rotate)
	if err != nil {
		return nil, fmt.Errorf("rotate: %w", err)
	}
	steps := []error{
		e.NormaliseScene(),
		e.RotateScene(math3d.Deg2Rad(rot.X), math3d.Deg2Rad(rot.Y), math3d.Deg2Rad(rot.Z)),
	}
	for _, err := range steps {
		if err != nil {
			return nil, err
		}
	}

	cam := e.Scene().Camera
	cam.LookAt(0, 0, 0)
	cam.SetPos(0, 0, -o.distance)
	return e, nil
}

func (o *sceneOptions) addShape(e *warp.Engine) error {
	var err error
	switch o.shape {
	case "sphere":
		err = e.AddSphere(subject, 1, o.segments)
	case "cube":
		err = e.AddCube(subject, 2)
	case "box":
		err = e.AddBox(subject, 2, 1, 1.5)
	case "plane":
		err = e.AddPlane(subject, 1, true)
	case "cylinder":
		err = e.AddCylinder(subject, 2, 1, o.segments)
	case "cone":
		err = e.AddCone(subject, 2, 1, o.segments)
	default:
		return fmt.Errorf("unknown shape %q", o.shape)
	}
	if err != nil {
		return err
	}

	c, err := argb.Parse(o.color)
	if err != nil {
		return err
	}
	if err := e.AddMaterial(subject, c); err != nil {
		return err
	}
	if err := e.SetObjectMaterial(subject, subject); err != nil {
		return err
	}

	switch o.projection {
	case "":
	case "frontal":
		err = e.ProjectFrontal(subject)
	case "cylindric":
		err = e.ProjectCylindric(subject)
	default:
		return fmt.Errorf("unknown projection %q", o.projection)
	}
	if err != nil {
		return err
	}

	if o.texture != "" {
		if err := e.SetTexture(subject, o.texture); err != nil {
			return err
		}
	}
	if o.envMap != "" {
		if err := e.SetEnvMap(subject, o.envMap); err != nil {
			return err
		}
	}
	return nil
}

// materials returns the scene material names of the subject.
func (o *sceneOptions) materials(e *warp.Engine) ([]string, error) {
	if o.model == "" {
		return []string{subject}, nil
	}
	parts, err := e.ModelParts(subject)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(parts))
	for i, p := range parts {
		names[i] = p.Name
	}
	return names, nil
}

func (o *sceneOptions) applyMaterials(e *warp.Engine) error {
	names, err := o.materials(e)
	if err != nil {
		return err
	}
	for _, name := range names {
		if err := e.SetReflectivity(name, o.reflectivity); err != nil {
			return err
		}
		if err := e.SetWireframe(name, o.wireframe); err != nil {
			return err
		}
		if m, ok := e.Scene().Material(name); ok {
			m.SetFlat(o.flat)
		}
	}
	return nil
}

func (o *sceneOptions) applyEnvironment(e *warp.Engine) error {
	ambient, err := argb.Parse(o.ambient)
	if err != nil {
		return fmt.Errorf("ambient: %w", err)
	}
	bg, err := argb.Parse(o.background)
	if err != nil {
		return fmt.Errorf("bg: %w", err)
	}
	if err := e.SetAmbient(ambient); err != nil {
		return err
	}
	if err := e.SetBackgroundColor(bg); err != nil {
		return err
	}

	if o.light == "" {
		return nil
	}
	dir, err := parseVec3(o.light)
	if err != nil {
		return fmt.Errorf("light: %w", err)
	}
	lc, err := argb.Parse(o.lightColor)
	if err != nil {
		return fmt.Errorf("light-color: %w", err)
	}
	return e.AddLight("key", dir.X, dir.Y, dir.Z, lc, o.sheen, o.spread)
}

// keyLight returns the light added by applyEnvironment, if any.
func keyLight(e *warp.Engine) (*scene.Light, bool) {
	return e.Scene().Light("key")
}

func parseVec3(s string) (math3d.Vec3, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return math3d.Vec3{}, fmt.Errorf("%q: want x,y,z", s)
	}
	var f [3]float64
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return math3d.Vec3{}, fmt.Errorf("%q: %w", s, err)
		}
		f[i] = v
	}
	return math3d.V3(f[0], f[1], f[2]), nil
}
