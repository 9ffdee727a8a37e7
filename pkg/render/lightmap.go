package render

import (
	"math"

	"github.com/taigrr/warp/pkg/argb"
	"github.com/taigrr/warp/pkg/math3d"
	"github.com/taigrr/warp/pkg/scene"
)

// lightmapSize is the number of entries in each lightmap table, one per
// quantized (nx, ny) normal direction.
const lightmapSize = 256 * 256

// Lightmap caches the diffuse and specular response of the scene lights
// for every quantized camera-space normal. Entries are indexed by
// (ny+128)<<8 | (nx+128) with nx, ny in [-128, 127].
type Lightmap struct {
	Diffuse  []uint32
	Specular []uint32

	lights  []*scene.Light
	ambient uint32
}

// NewLightmap builds the tables for the given lights and ambient color.
func NewLightmap(lights []*scene.Light, ambient uint32) *Lightmap {
	lm := &Lightmap{
		Diffuse:  make([]uint32, lightmapSize),
		Specular: make([]uint32, lightmapSize),
	}
	lm.Set(lights, ambient)
	return lm
}

// Set replaces the light configuration and rebuilds the tables.
func (lm *Lightmap) Set(lights []*scene.Light, ambient uint32) {
	lm.lights = lights
	lm.ambient = ambient
	lm.Rebuild()
}

// Rebuild recomputes both tables in place from the current lights.
func (lm *Lightmap) Rebuild() {
	type lightTerm struct {
		v                      math3d.Vec3
		dr, dg, db, sr, sg, sb int
		sheen, invSpread       float64
	}
	terms := make([]lightTerm, 0, len(lm.lights))
	for _, l := range lm.lights {
		if l == nil {
			continue
		}
		spread := math.Max(0.01, float64(l.HighlightSpread)/4096)
		terms = append(terms, lightTerm{
			v:         l.V,
			dr:        argb.R(l.Diffuse),
			dg:        argb.G(l.Diffuse),
			db:        argb.B(l.Diffuse),
			sr:        argb.R(l.Specular),
			sg:        argb.G(l.Specular),
			sb:        argb.B(l.Specular),
			sheen:     float64(l.HighlightSheen) / 255,
			invSpread: 1 / spread,
		})
	}

	ar, ag, ab := argb.R(lm.ambient), argb.G(lm.ambient), argb.B(lm.ambient)

	for ny := -128; ny < 128; ny++ {
		fny := float64(ny) / 128
		for nx := -128; nx < 128; nx++ {
			fnx := float64(nx) / 128
			nz := math.Sqrt(math.Max(0, 1-fnx*fnx-fny*fny))
			n := math3d.V3(fnx, fny, nz)

			dr, dg, db := ar, ag, ab
			sr, sg, sb := 0, 0, 0
			for i := range terms {
				lt := &terms[i]
				cos := max(0, int(255*lt.v.Cos(n)))
				if cos == 0 {
					continue
				}
				dr += lt.dr * cos >> 8
				dg += lt.dg * cos >> 8
				db += lt.db * cos >> 8

				phong := lt.sheen * math.Pow(float64(cos)/255, lt.invSpread)
				sr += int(float64(lt.sr) * phong)
				sg += int(float64(lt.sg) * phong)
				sb += int(float64(lt.sb) * phong)
			}

			pos := (ny+128)<<8 | (nx + 128)
			lm.Diffuse[pos] = argb.CropRGB(dr, dg, db)
			lm.Specular[pos] = argb.CropRGB(sr, sg, sb)
		}
	}
}

// lightmapIndex returns the table position for a camera-space normal.
func lightmapIndex(nx, ny float64) int {
	x := math3d.Crop(int(nx*127+127), 0, 255)
	y := math3d.Crop(int(ny*127+127), 0, 255)
	return x | y<<8
}
