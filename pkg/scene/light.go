package scene

import (
	"github.com/taigrr/warp/pkg/argb"
	"github.com/taigrr/warp/pkg/math3d"
	"github.com/taigrr/warp/pkg/texture"
)

// Light is a directional light.
type Light struct {
	V               math3d.Vec3 // normalized direction
	Diffuse         uint32
	Specular        uint32
	HighlightSheen  int // 0..255 specular strength
	HighlightSpread int // larger values give a wider highlight
}

// NewLight creates a light with separate diffuse and specular colors.
func NewLight(dir math3d.Vec3, diffuse, specular uint32, sheen, spread int) *Light {
	return &Light{
		V:               dir.Normalized(),
		Diffuse:         diffuse,
		Specular:        specular,
		HighlightSheen:  sheen,
		HighlightSpread: spread,
	}
}

// NewLightColor creates a light using one color for both terms.
func NewLightColor(dir math3d.Vec3, color uint32, sheen, spread int) *Light {
	return NewLight(dir, color, color, sheen, spread)
}

// Environment holds the scene-wide ambient light and background.
type Environment struct {
	Ambient    uint32
	BgColor    uint32
	Background *texture.Texture
}

// NewEnvironment returns a black, unlit environment.
func NewEnvironment() Environment {
	return Environment{BgColor: argb.Black}
}
