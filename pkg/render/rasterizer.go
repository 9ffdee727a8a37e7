package render

import (
	"github.com/taigrr/warp/pkg/argb"
	"github.com/taigrr/warp/pkg/math3d"
	"github.com/taigrr/warp/pkg/scene"
)

// Mode bits select the span loop for the loaded material.
const (
	ModeFlat      = 0
	ModeWireframe = 1
	ModePhong     = 2
	ModeEnvMap    = 4
	ModeTextured  = 8
	ModeOpaque    = 16

	shadeMask = ModePhong | ModeEnvMap | ModeTextured
)

// cursor holds the values interpolated along a scanline: 16.16 depth,
// 16.16 lightmap coordinates and texture coordinates premultiplied by
// the inverse depth sw.
type cursor struct {
	z, nx, ny  int
	tx, ty, sw float64
}

func (c cursor) step(d cursor, n int) cursor {
	fn := float64(n)
	return cursor{
		z:  c.z + d.z*n,
		nx: c.nx + d.nx*n,
		ny: c.ny + d.ny*n,
		tx: c.tx + d.tx*fn,
		ty: c.ty + d.ty*fn,
		sw: c.sw + d.sw*fn,
	}
}

type spanFunc func(r *Rasterizer, pos, end int, c cursor)

// Rasterizer fills projected triangles into a screen and z-buffer using
// the lightmap for shading. LoadMaterial must be called before Render
// whenever the owning object changes.
type Rasterizer struct {
	pix    []uint32
	zbuf   []int
	width  int
	height int

	diffuse  []uint32
	specular []uint32

	loaded       bool
	mode         int
	span         spanFunc
	color        uint32
	current      uint32 // flat-shaded color of the current triangle
	reflectivity int
	env          []uint32

	tpix   []uint32
	tw, th int // texture width and height minus one
	tbitW  int

	d cursor // per-pixel deltas of the current triangle
}

// NewRasterizer creates a rasterizer drawing into s with depth buffer zbuf.
func NewRasterizer(s *Screen, zbuf []int) *Rasterizer {
	r := &Rasterizer{}
	r.SetTarget(s, zbuf)
	return r
}

// SetTarget points the rasterizer at a new screen and depth buffer, as
// after a resize.
func (r *Rasterizer) SetTarget(s *Screen, zbuf []int) {
	r.pix = s.Pixels
	r.zbuf = zbuf
	r.width = s.Width
	r.height = s.Height
}

// SetLightmap selects the lighting tables.
func (r *Rasterizer) SetLightmap(lm *Lightmap) {
	if lm == nil {
		r.diffuse, r.specular = nil, nil
		return
	}
	r.diffuse = lm.Diffuse
	r.specular = lm.Specular
}

// Mode returns the mode bits of the loaded material.
func (r *Rasterizer) Mode() int {
	return r.mode
}

// LoadMaterial resolves the shading mode and texture level for obj. The
// mip level follows obj.ProjectedMaxMips: objects under four pixels across
// use the texture's average color instead of sampling it.
func (r *Rasterizer) LoadMaterial(obj *scene.Object) {
	m := obj.Material
	if m == nil {
		r.loaded = false
		return
	}

	r.color = m.Color
	r.reflectivity = m.Reflectivity

	r.env = nil
	if m.EnvMap != nil {
		if m.EnvMap.Width != envMapSize || m.EnvMap.Height != envMapSize {
			m.EnvMap.ResizeTo(envMapSize, envMapSize)
		}
		r.env = m.EnvMap.Pixels
	}

	r.tpix = nil
	if t := m.Texture; t != nil {
		if obj.ProjectedMaxMips < 2 {
			r.color = argb.Multiply(r.color, t.Average)
		} else {
			if !t.IsPowerOfTwo() {
				t.Resize()
			}
			r.tpix, r.tw, r.th, r.tbitW = t.Pixels, t.Width-1, t.Height-1, t.BitWidth
			if mip := obj.ProjectedMaxMips - 2; mip < t.MaxMips {
				lvl := t.Mip(mip)
				r.tpix, r.tw, r.th, r.tbitW = lvl.Pixels, lvl.Width-1, lvl.Height-1, lvl.BitWidth
			}
		}
	}

	r.mode = ModeFlat
	if !m.Flat {
		r.mode |= ModePhong
	}
	if r.env != nil {
		r.mode |= ModeEnvMap
	}
	if r.tpix != nil {
		r.mode |= ModeTextured
	}
	if m.Wireframe {
		r.mode |= ModeWireframe
	}
	if m.Opaque() {
		r.mode |= ModeOpaque
	}
	r.span = spanFor(r.mode &^ ModeWireframe)
	r.loaded = true
}

// envMapSize is the side length environment maps are indexed at.
const envMapSize = 256

// Render rasterizes a projected triangle of the object whose material is
// loaded. Triangles whose middle vertex lies on the line between the
// other two are skipped.
func (r *Rasterizer) Render(tri *scene.Triangle) {
	if !r.loaded || r.diffuse == nil {
		return
	}
	a, b, c := tri.Vertices()

	if r.mode&ModeWireframe != 0 {
		r.drawLine(a, b, r.color)
		r.drawLine(b, c, r.color)
		r.drawLine(c, a, r.color)
		return
	}

	p1, p2, p3 := a, b, c
	if p1.Y > p2.Y {
		p1, p2 = p2, p1
	}
	if p2.Y > p3.Y {
		p2, p3 = p3, p2
	}
	if p1.Y > p2.Y {
		p1, p2 = p2, p1
	}

	if p1.Y >= r.height || p3.Y < 0 || p1.Y == p3.Y {
		return
	}

	if r.mode&shadeMask == ModeFlat {
		idx := lightmapIndex(tri.N2.X, tri.N2.Y)
		r.current = argb.Add(
			argb.Multiply(r.color, r.diffuse[idx]),
			argb.Scale(r.specular[idx], r.reflectivity),
		)
	}

	x1, x2, x3 := p1.X<<8, p2.X<<8, p3.X<<8
	y1, y2, y3 := p1.Y, p2.Y, p3.Y

	dy := y2 - y1
	tf := float64(dy) / float64(y3-y1)
	x4 := x1 + int(float64(x3-x1)*tf)
	dx := (x4 - x2) >> 8
	if dx == 0 {
		return
	}
	x1 <<= 8
	x2 <<= 8
	x3 <<= 8
	x4 <<= 8

	v1 := r.vertexCursor(p1)
	v2 := r.vertexCursor(p2)
	v3 := r.vertexCursor(p3)
	v4 := cursor{
		z:  v1.z + int(float64(v3.z-v1.z)*tf),
		nx: v1.nx + int(float64(v3.nx-v1.nx)*tf),
		ny: v1.ny + int(float64(v3.ny-v1.ny)*tf),
		tx: v1.tx + (v3.tx-v1.tx)*tf,
		ty: v1.ty + (v3.ty-v1.ty)*tf,
		sw: v1.sw + (v3.sw-v1.sw)*tf,
	}

	fdx := float64(dx)
	r.d = cursor{
		z:  (v4.z - v2.z) / dx,
		nx: (v4.nx - v2.nx) / dx,
		ny: (v4.ny - v2.ny) / dx,
		tx: (v4.tx - v2.tx) / fdx,
		ty: (v4.ty - v2.ty) / fdx,
		sw: (v4.sw - v2.sw) / fdx,
	}

	// Make (x2, v2) the left end of the middle scanline.
	if dx < 0 {
		x2, x4 = x4, x2
		v2 = v4
	}

	if y2 >= 0 && dy > 0 {
		e := edges{
			xL:  x1,
			xR:  x1,
			dxL: (x2 - x1) / dy,
			dxR: (x4 - x1) / dy,
			c:   v1,
			dc:  deltaPerLine(v1, v2, dy),
		}
		ys := y1
		if ys < 0 {
			e.advance(-ys)
			ys = 0
		}
		r.fill(ys, min(y2, r.height), &e)
	}

	dy = y3 - y2
	if y2 < r.height && dy > 0 {
		e := edges{
			xL:  x2,
			xR:  x4,
			dxL: (x3 - x2) / dy,
			dxR: (x3 - x4) / dy,
			c:   v2,
			dc:  deltaPerLine(v2, v3, dy),
		}
		ys := y2
		if ys < 0 {
			e.advance(-ys)
			ys = 0
		}
		r.fill(ys, min(y3, r.height), &e)
	}
}

func (r *Rasterizer) vertexCursor(v *scene.Vertex) cursor {
	return cursor{
		z:  v.Z,
		nx: v.NX,
		ny: v.NY,
		tx: v.InvZ * v.U * float64(r.tw),
		ty: v.InvZ * v.V * float64(r.th),
		sw: v.InvZ,
	}
}

func deltaPerLine(from, to cursor, dy int) cursor {
	fdy := float64(dy)
	return cursor{
		z:  (to.z - from.z) / dy,
		nx: (to.nx - from.nx) / dy,
		ny: (to.ny - from.ny) / dy,
		tx: (to.tx - from.tx) / fdy,
		ty: (to.ty - from.ty) / fdy,
		sw: (to.sw - from.sw) / fdy,
	}
}

// edges walks the left and right triangle edges in 16.16 fixed point.
type edges struct {
	xL, xR   int
	dxL, dxR int
	c, dc    cursor // left edge values and their per-line step
}

func (e *edges) advance(n int) {
	e.xL += e.dxL * n
	e.xR += e.dxR * n
	e.c = e.c.step(e.dc, n)
}

func (r *Rasterizer) fill(y, yEnd int, e *edges) {
	for ; y < yEnd; y++ {
		xl := e.xL >> 16
		xr := min(e.xR>>16, r.width)
		c := e.c
		if xl < 0 {
			c = c.step(r.d, -xl)
			xl = 0
		}
		off := y * r.width
		if xl < xr {
			r.span(r, off+xl, off+xr, c)
		}
		e.advance(1)
	}
}

// drawLine draws a depth-tested edge between two projected vertices with
// an integer DDA along the major axis.
func (r *Rasterizer) drawLine(a, b *scene.Vertex, color uint32) {
	if a.ClipCode&b.ClipCode != 0 {
		return
	}
	dx := abs(a.X - b.X)
	dy := abs(a.Y - b.Y)

	if dx > dy {
		if a.X > b.X {
			a, b = b, a
		}
		dz := (b.Z - a.Z) / dx
		dyf := ((b.Y - a.Y) << 16) / dx
		z := a.Z
		y := a.Y << 16
		for x := a.X; x <= b.X; x++ {
			r.plot(x, y>>16, z, color)
			z += dz
			y += dyf
		}
		return
	}

	if a.Y > b.Y {
		a, b = b, a
	}
	if dy == 0 {
		r.plot(a.X, a.Y, a.Z, color)
		return
	}
	dz := (b.Z - a.Z) / dy
	dxf := ((b.X - a.X) << 16) / dy
	z := a.Z
	x := a.X << 16
	for y := a.Y; y <= b.Y; y++ {
		r.plot(x>>16, y, z, color)
		z += dz
		x += dxf
	}
}

// plot writes one depth-tested wireframe pixel.
func (r *Rasterizer) plot(x, y, z int, color uint32) {
	if !math3d.InRange(x, 0, r.width) || !math3d.InRange(y, 0, r.height) {
		return
	}
	pos := x + y*r.width
	if z < r.zbuf[pos] {
		r.pix[pos] = color
		r.zbuf[pos] = z
	}
}
