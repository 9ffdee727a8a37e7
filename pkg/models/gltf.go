package models

import (
	"bytes"
	"fmt"
	"image"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/taigrr/warp/pkg/math3d"
)

// LoadGLTF loads a glTF (.gltf) or binary glTF (.glb) file. Every triangle
// primitive of every mesh is merged into one Mesh; node transforms are not
// applied. Base color factors, roughness and base color textures
// (buffer view, data URI or external file) become mesh materials.
func LoadGLTF(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	mesh, err := FromGLTF(doc, name, filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return mesh, nil
}

// FromGLTF converts a decoded document. External images are resolved
// relative to dir.
func FromGLTF(doc *gltf.Document, name, dir string) (*Mesh, error) {
	mesh := NewMesh(name)

	images := make(map[int]image.Image)
	for i, m := range doc.Materials {
		mat, err := gltfMaterial(doc, m, dir, images)
		if err != nil {
			return nil, fmt.Errorf("material %d: %w", i, err)
		}
		mesh.Materials = append(mesh.Materials, mat)
	}

	for _, m := range doc.Meshes {
		if err := processMesh(doc, m, mesh); err != nil {
			return nil, fmt.Errorf("process mesh %q: %w", m.Name, err)
		}
	}

	mesh.CalculateBounds()
	return mesh, nil
}

func gltfMaterial(doc *gltf.Document, m *gltf.Material, dir string, cache map[int]image.Image) (Material, error) {
	mat := Material{
		Name:      m.Name,
		BaseColor: [4]float64{1, 1, 1, 1},
		Roughness: 1,
	}
	pbr := m.PBRMetallicRoughness
	if pbr == nil {
		return mat, nil
	}
	mat.BaseColor = pbr.BaseColorFactorOrDefault()
	mat.Roughness = pbr.RoughnessFactorOrDefault()

	tex := pbr.BaseColorTexture
	if tex == nil || tex.Index >= len(doc.Textures) {
		return mat, nil
	}
	src := doc.Textures[tex.Index].Source
	if src == nil || *src >= len(doc.Images) {
		return mat, nil
	}
	if img, ok := cache[*src]; ok {
		mat.BaseMap = img
		return mat, nil
	}

	data, err := imageData(doc, doc.Images[*src], dir)
	if err != nil {
		return mat, fmt.Errorf("image %d: %w", *src, err)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return mat, fmt.Errorf("decode image %d: %w", *src, err)
	}
	cache[*src] = img
	mat.BaseMap = img
	return mat, nil
}

// imageData returns the encoded bytes of an image stored in a buffer view,
// a data URI or a file next to the document.
func imageData(doc *gltf.Document, img *gltf.Image, dir string) ([]byte, error) {
	switch {
	case img.BufferView != nil:
		return modeler.ReadBufferView(doc, doc.BufferViews[*img.BufferView])
	case img.IsEmbeddedResource():
		return img.MarshalData()
	case img.URI != "":
		uri, err := url.PathUnescape(img.URI)
		if err != nil {
			uri = img.URI
		}
		return os.ReadFile(filepath.Join(dir, filepath.FromSlash(uri)))
	}
	return nil, fmt.Errorf("image has no data")
}

// processMesh extracts geometry from a glTF mesh.
func processMesh(doc *gltf.Document, m *gltf.Mesh, mesh *Mesh) error {
	for _, prim := range m.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles {
			// Skip non-triangle primitives (lines, points, strips)
			continue
		}

		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}
		positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
		if err != nil {
			return fmt.Errorf("read positions: %w", err)
		}

		var uvs [][2]float32
		if uvIdx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
			uvs, err = modeler.ReadTextureCoord(doc, doc.Accessors[uvIdx], nil)
			if err != nil {
				return fmt.Errorf("read uvs: %w", err)
			}
		}

		material := -1
		if prim.Material != nil && *prim.Material < len(mesh.Materials) {
			material = *prim.Material
		}

		baseVertex := len(mesh.Vertices)
		for i, p := range positions {
			v := MeshVertex{
				Position: math3d.V3(float64(p[0]), float64(p[1]), float64(p[2])),
			}
			if i < len(uvs) {
				// glTF and warp both put v=0 at the top of the image.
				v.UV = math3d.V2(float64(uvs[i][0]), float64(uvs[i][1]))
			}
			mesh.Vertices = append(mesh.Vertices, v)
		}

		var indices []uint32
		if prim.Indices != nil {
			indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
			if err != nil {
				return fmt.Errorf("read indices: %w", err)
			}
		} else {
			indices = make([]uint32, len(positions))
			for i := range indices {
				indices[i] = uint32(i)
			}
		}

		// glTF front faces wind counter-clockwise; warp's visible faces
		// have the opposite winding, so the last two corners swap.
		for i := 0; i+2 < len(indices); i += 3 {
			a, b, c := int(indices[i]), int(indices[i+1]), int(indices[i+2])
			if a >= len(positions) || b >= len(positions) || c >= len(positions) {
				return fmt.Errorf("index out of range at triangle %d", i/3)
			}
			mesh.AddFace(baseVertex+a, baseVertex+c, baseVertex+b, material)
		}
	}

	return nil
}
