package scene

import (
	"github.com/taigrr/warp/pkg/argb"
	"github.com/taigrr/warp/pkg/math3d"
	"github.com/taigrr/warp/pkg/texture"
)

// envMapSize is the side length environment maps are resampled to.
const envMapSize = 256

// Material describes how an object's surface is shaded.
type Material struct {
	Color        uint32 // ARGB; alpha below 0xFF makes the material transparent
	Reflectivity int    // 0..255, scales specular and environment terms
	Flat         bool   // one shade per triangle
	Wireframe    bool   // edges only, no fill
	Texture      *texture.Texture
	EnvMap       *texture.Texture
}

// NewMaterial returns a fully reflective material of the given color.
func NewMaterial(color uint32) *Material {
	return &Material{Color: color, Reflectivity: 255}
}

// NewTexturedMaterial returns a white material carrying t.
func NewTexturedMaterial(t *texture.Texture) *Material {
	m := NewMaterial(argb.White)
	m.SetTexture(t)
	return m
}

// SetTexture assigns the color texture, stretching it to power-of-two
// sides first. A nil texture removes it.
func (m *Material) SetTexture(t *texture.Texture) {
	if t != nil {
		t.Resize()
	}
	m.Texture = t
}

// SetEnvMap assigns the environment map, resampled to 256×256. A nil map
// removes it.
func (m *Material) SetEnvMap(t *texture.Texture) {
	if t != nil {
		t.ResizeTo(envMapSize, envMapSize)
	}
	m.EnvMap = t
}

// SetColor sets the base color.
func (m *Material) SetColor(c uint32) {
	m.Color = c
}

// SetReflectivity sets the reflectivity, cropped to 0..255.
func (m *Material) SetReflectivity(r int) {
	m.Reflectivity = math3d.Crop(r, 0, 255)
}

// SetFlat toggles flat shading.
func (m *Material) SetFlat(flat bool) {
	m.Flat = flat
}

// SetWireframe toggles wireframe rendering.
func (m *Material) SetWireframe(wire bool) {
	m.Wireframe = wire
}

// Opaque reports whether the color is fully opaque and the texture, if
// any, has no translucent pixels.
func (m *Material) Opaque() bool {
	if m.Color&argb.Alpha != argb.Alpha {
		return false
	}
	if m.Texture != nil {
		return m.Texture.Opaque
	}
	return true
}
