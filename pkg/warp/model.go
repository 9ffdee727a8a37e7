package warp

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/taigrr/warp/pkg/models"
	"github.com/taigrr/warp/pkg/scene"
)

// ImportModel loads a glTF, GLB or OBJ file and adds one object per
// material to the scene, named "name/part". The part materials are
// registered under the same names. Importing under an existing model name
// replaces that model.
func (e *Engine) ImportModel(name, path string) error {
	if e.scene == nil {
		return ErrNoScene
	}

	var (
		mesh *models.Mesh
		err  error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".gltf", ".glb":
		mesh, err = models.LoadGLTF(path)
	case ".obj":
		mesh, err = models.LoadOBJ(path)
	default:
		return fmt.Errorf("warp: unsupported model format %q", ext)
	}
	if err != nil {
		return err
	}

	e.RemoveModel(name)
	parts := mesh.Objects(e.TextureBits)
	objs := make([]*scene.Object, 0, len(parts))
	for _, p := range parts {
		key := name + "/" + p.Name
		e.scene.AddObject(key, p.Object)
		e.scene.AddMaterial(key, p.Object.Material)
		objs = append(objs, p.Object)
	}
	e.scene.Rebuild()
	e.models[name] = objs

	e.debug("model imported", "name", name, "path", path,
		"parts", len(parts), "vertices", mesh.VertexCount(), "triangles", mesh.TriangleCount())
	return nil
}

// RemoveModel removes a model's objects and materials. It reports whether
// the model existed.
func (e *Engine) RemoveModel(name string) bool {
	objs, ok := e.models[name]
	if !ok || e.scene == nil {
		return false
	}
	// AddObject renamed each part to its scene key.
	for _, o := range objs {
		e.scene.RemoveObject(o.Name)
		e.scene.RemoveMaterial(o.Name)
	}
	delete(e.models, name)
	return true
}

// ModelParts returns the objects of an imported model in import order.
func (e *Engine) ModelParts(name string) ([]*scene.Object, error) {
	if e.scene == nil {
		return nil, ErrNoScene
	}
	objs, ok := e.models[name]
	if !ok {
		return nil, fmt.Errorf("model %q: %w", name, ErrNotFound)
	}
	return objs, nil
}

func (e *Engine) eachPart(name string, fn func(o *scene.Object)) error {
	objs, err := e.ModelParts(name)
	if err != nil {
		return err
	}
	for _, o := range objs {
		fn(o)
	}
	return nil
}

// RotateModel rotates every part of a model about the world origin.
func (e *Engine) RotateModel(name string, x, y, z float64) error {
	return e.eachPart(name, func(o *scene.Object) { o.Rotate(x, y, z) })
}

// RotateModelSelf rotates every part of a model about its own origin.
func (e *Engine) RotateModelSelf(name string, x, y, z float64) error {
	return e.eachPart(name, func(o *scene.Object) { o.RotateSelf(x, y, z) })
}

// TranslateModel moves every part of a model.
func (e *Engine) TranslateModel(name string, x, y, z float64) error {
	return e.eachPart(name, func(o *scene.Object) { o.Shift(x, y, z) })
}

// ScaleModel scales every part of a model uniformly about its own origin.
func (e *Engine) ScaleModel(name string, s float64) error {
	return e.eachPart(name, func(o *scene.Object) { o.ScaleSelf(s, s, s) })
}
