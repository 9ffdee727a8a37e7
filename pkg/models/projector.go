package models

import (
	"math"

	"github.com/taigrr/warp/pkg/scene"
)

// ProjectFrontal maps texture coordinates straight along Z: u follows X
// from left to right and v follows Y from top to bottom across the
// object's bounds.
func ProjectFrontal(o *scene.Object) {
	b := o.Bounds()
	du, dv := inverse(b.Max.X-b.Min.X), inverse(b.Max.Y-b.Min.Y)
	for i := range o.Vertices {
		v := &o.Vertices[i]
		v.U = (v.Pos.X - b.Min.X) * du
		v.V = 1 - (v.Pos.Y-b.Min.Y)*dv
	}
}

// ProjectTop maps texture coordinates straight down Y.
func ProjectTop(o *scene.Object) {
	b := o.Bounds()
	du, dv := inverse(b.Max.X-b.Min.X), inverse(b.Max.Z-b.Min.Z)
	for i := range o.Vertices {
		v := &o.Vertices[i]
		v.U = (v.Pos.X - b.Min.X) * du
		v.V = (v.Pos.Z - b.Min.Z) * dv
	}
}

// ProjectCylindric wraps u around the Z axis by angle and maps v along Z.
func ProjectCylindric(o *scene.Object) {
	b := o.Bounds()
	dz := inverse(b.Max.Z - b.Min.Z)
	for i := range o.Vertices {
		v := &o.Vertices[i]
		v.U = math.Atan2(v.Pos.X, v.Pos.Y) / (2 * math.Pi)
		v.V = (v.Pos.Z - b.Min.Z) * dz
	}
}

// inverse returns 1/d, or 0 for a flat extent.
func inverse(d float64) float64 {
	if d == 0 {
		return 0
	}
	return 1 / d
}
