package render

import "github.com/taigrr/warp/pkg/argb"

// Span loops. Each one draws pixels [pos, end) of a single scanline for
// one shading mode so the per-pixel path carries no mode branches.
//
// F flat, P phong (lightmap per pixel), E environment map, T texture,
// O opaque (no blending with the pixel behind).

func spanFor(mode int) spanFunc {
	switch mode {
	case ModeFlat:
		return (*Rasterizer).spanF
	case ModeFlat | ModeOpaque:
		return (*Rasterizer).spanFO
	case ModePhong:
		return (*Rasterizer).spanP
	case ModePhong | ModeOpaque:
		return (*Rasterizer).spanPO
	case ModeEnvMap:
		return (*Rasterizer).spanE
	case ModeEnvMap | ModeOpaque:
		return (*Rasterizer).spanEO
	case ModeTextured:
		return (*Rasterizer).spanT
	case ModeTextured | ModeOpaque:
		return (*Rasterizer).spanTO
	case ModePhong | ModeTextured:
		return (*Rasterizer).spanPT
	case ModePhong | ModeTextured | ModeOpaque:
		return (*Rasterizer).spanPTO
	case ModePhong | ModeEnvMap:
		return (*Rasterizer).spanPE
	case ModePhong | ModeEnvMap | ModeOpaque:
		return (*Rasterizer).spanPEO
	case ModePhong | ModeEnvMap | ModeTextured:
		return (*Rasterizer).spanPET
	case ModePhong | ModeEnvMap | ModeTextured | ModeOpaque:
		return (*Rasterizer).spanPETO
	case ModeEnvMap | ModeTextured:
		return (*Rasterizer).spanET
	case ModeEnvMap | ModeTextured | ModeOpaque:
		return (*Rasterizer).spanETO
	}
	return nil
}

func lut(nx, ny int) int {
	return (nx>>16)&255 | ((ny>>16)&255)<<8
}

func (r *Rasterizer) texel(tx, ty, sw float64) uint32 {
	return r.tpix[(int(tx/sw)&r.tw)+((int(ty/sw)&r.th)<<r.tbitW)]
}

func (r *Rasterizer) spanF(pos, end int, c cursor) {
	zbuf, pix := r.zbuf, r.pix
	color := r.current
	z, dz := c.z, r.d.z
	for ; pos < end; pos++ {
		if z < zbuf[pos] {
			pix[pos] = argb.OverSolid(pix[pos], color)
			zbuf[pos] = z
		}
		z += dz
	}
}

func (r *Rasterizer) spanFO(pos, end int, c cursor) {
	zbuf, pix := r.zbuf, r.pix
	color := r.current
	z, dz := c.z, r.d.z
	for ; pos < end; pos++ {
		if z < zbuf[pos] {
			pix[pos] = color
			zbuf[pos] = z
		}
		z += dz
	}
}

func (r *Rasterizer) spanP(pos, end int, c cursor) {
	zbuf, pix := r.zbuf, r.pix
	diffuse, specular := r.diffuse, r.specular
	color, refl := r.color, r.reflectivity
	d := r.d
	for ; pos < end; pos++ {
		if c.z < zbuf[pos] {
			l := lut(c.nx, c.ny)
			s := argb.Scale(specular[l], refl)
			pix[pos] = argb.Add(argb.OverSolid(pix[pos], argb.Multiply(color, diffuse[l])), s)
			zbuf[pos] = c.z
		}
		c.z += d.z
		c.nx += d.nx
		c.ny += d.ny
	}
}

func (r *Rasterizer) spanPO(pos, end int, c cursor) {
	zbuf, pix := r.zbuf, r.pix
	diffuse, specular := r.diffuse, r.specular
	color, refl := r.color, r.reflectivity
	d := r.d
	for ; pos < end; pos++ {
		if c.z < zbuf[pos] {
			l := lut(c.nx, c.ny)
			pix[pos] = argb.Add(argb.Multiply(color, diffuse[l]), argb.Scale(specular[l], refl))
			zbuf[pos] = c.z
		}
		c.z += d.z
		c.nx += d.nx
		c.ny += d.ny
	}
}

func (r *Rasterizer) spanE(pos, end int, c cursor) {
	zbuf, pix := r.zbuf, r.pix
	specular, env := r.specular, r.env
	refl := r.reflectivity
	d := r.d
	for ; pos < end; pos++ {
		if c.z < zbuf[pos] {
			l := lut(c.nx, c.ny)
			s := argb.Scale(argb.Add(specular[l], env[l]), refl)
			pix[pos] = argb.OverSolid(pix[pos], s)
			zbuf[pos] = c.z
		}
		c.z += d.z
		c.nx += d.nx
		c.ny += d.ny
	}
}

func (r *Rasterizer) spanEO(pos, end int, c cursor) {
	zbuf, pix := r.zbuf, r.pix
	specular, env := r.specular, r.env
	refl := r.reflectivity
	d := r.d
	for ; pos < end; pos++ {
		if c.z < zbuf[pos] {
			l := lut(c.nx, c.ny)
			pix[pos] = argb.Scale(argb.Add(specular[l], env[l]), refl)
			zbuf[pos] = c.z
		}
		c.z += d.z
		c.nx += d.nx
		c.ny += d.ny
	}
}

func (r *Rasterizer) spanT(pos, end int, c cursor) {
	zbuf, pix := r.zbuf, r.pix
	color := r.color
	d := r.d
	for ; pos < end; pos++ {
		if c.z < zbuf[pos] {
			pix[pos] = argb.OverSolid(pix[pos], argb.Multiply(color, r.texel(c.tx, c.ty, c.sw)))
			zbuf[pos] = c.z
		}
		c.z += d.z
		c.tx += d.tx
		c.ty += d.ty
		c.sw += d.sw
	}
}

func (r *Rasterizer) spanTO(pos, end int, c cursor) {
	zbuf, pix := r.zbuf, r.pix
	color := r.color
	d := r.d
	for ; pos < end; pos++ {
		if c.z < zbuf[pos] {
			pix[pos] = argb.Multiply(color, r.texel(c.tx, c.ty, c.sw))
			zbuf[pos] = c.z
		}
		c.z += d.z
		c.tx += d.tx
		c.ty += d.ty
		c.sw += d.sw
	}
}

func (r *Rasterizer) spanPT(pos, end int, c cursor) {
	zbuf, pix := r.zbuf, r.pix
	diffuse, specular := r.diffuse, r.specular
	color, refl := r.color, r.reflectivity
	d := r.d
	for ; pos < end; pos++ {
		if c.z < zbuf[pos] {
			l := lut(c.nx, c.ny)
			t := argb.Multiply(argb.Multiply(color, r.texel(c.tx, c.ty, c.sw)), diffuse[l])
			pix[pos] = argb.Add(argb.OverSolid(pix[pos], t), argb.Scale(specular[l], refl))
			zbuf[pos] = c.z
		}
		c.z += d.z
		c.nx += d.nx
		c.ny += d.ny
		c.tx += d.tx
		c.ty += d.ty
		c.sw += d.sw
	}
}

func (r *Rasterizer) spanPTO(pos, end int, c cursor) {
	zbuf, pix := r.zbuf, r.pix
	diffuse, specular := r.diffuse, r.specular
	color, refl := r.color, r.reflectivity
	d := r.d
	for ; pos < end; pos++ {
		if c.z < zbuf[pos] {
			l := lut(c.nx, c.ny)
			t := argb.Multiply(argb.Multiply(color, r.texel(c.tx, c.ty, c.sw)), diffuse[l])
			pix[pos] = argb.Add(t, argb.Scale(specular[l], refl))
			zbuf[pos] = c.z
		}
		c.z += d.z
		c.nx += d.nx
		c.ny += d.ny
		c.tx += d.tx
		c.ty += d.ty
		c.sw += d.sw
	}
}

func (r *Rasterizer) spanPE(pos, end int, c cursor) {
	zbuf, pix := r.zbuf, r.pix
	diffuse, specular, env := r.diffuse, r.specular, r.env
	color, refl := r.color, r.reflectivity
	d := r.d
	for ; pos < end; pos++ {
		if c.z < zbuf[pos] {
			l := lut(c.nx, c.ny)
			s := argb.Scale(argb.Add(specular[l], env[l]), refl)
			pix[pos] = argb.Add(argb.OverSolid(pix[pos], argb.Multiply(color, diffuse[l])), s)
			zbuf[pos] = c.z
		}
		c.z += d.z
		c.nx += d.nx
		c.ny += d.ny
	}
}

func (r *Rasterizer) spanPEO(pos, end int, c cursor) {
	zbuf, pix := r.zbuf, r.pix
	diffuse, specular, env := r.diffuse, r.specular, r.env
	color, refl := r.color, r.reflectivity
	d := r.d
	for ; pos < end; pos++ {
		if c.z < zbuf[pos] {
			l := lut(c.nx, c.ny)
			s := argb.Scale(argb.Add(specular[l], env[l]), refl)
			pix[pos] = argb.Add(argb.Multiply(color, diffuse[l]), s)
			zbuf[pos] = c.z
		}
		c.z += d.z
		c.nx += d.nx
		c.ny += d.ny
	}
}

func (r *Rasterizer) spanPET(pos, end int, c cursor) {
	zbuf, pix := r.zbuf, r.pix
	diffuse, specular, env := r.diffuse, r.specular, r.env
	color, refl := r.color, r.reflectivity
	d := r.d
	for ; pos < end; pos++ {
		if c.z < zbuf[pos] {
			l := lut(c.nx, c.ny)
			s := argb.Scale(argb.Add(specular[l], env[l]), refl)
			t := argb.Multiply(argb.Multiply(color, r.texel(c.tx, c.ty, c.sw)), diffuse[l])
			pix[pos] = argb.Add(argb.OverSolid(pix[pos], t), s)
			zbuf[pos] = c.z
		}
		c.z += d.z
		c.nx += d.nx
		c.ny += d.ny
		c.tx += d.tx
		c.ty += d.ty
		c.sw += d.sw
	}
}

func (r *Rasterizer) spanPETO(pos, end int, c cursor) {
	zbuf, pix := r.zbuf, r.pix
	diffuse, specular, env := r.diffuse, r.specular, r.env
	color, refl := r.color, r.reflectivity
	d := r.d
	for ; pos < end; pos++ {
		if c.z < zbuf[pos] {
			l := lut(c.nx, c.ny)
			s := argb.Scale(argb.Add(specular[l], env[l]), refl)
			t := argb.Multiply(argb.Multiply(color, r.texel(c.tx, c.ty, c.sw)), diffuse[l])
			pix[pos] = argb.Add(t, s)
			zbuf[pos] = c.z
		}
		c.z += d.z
		c.nx += d.nx
		c.ny += d.ny
		c.tx += d.tx
		c.ty += d.ty
		c.sw += d.sw
	}
}

// Flat textured surfaces with an environment map are unlit apart from the
// reflection term.

func (r *Rasterizer) spanET(pos, end int, c cursor) {
	zbuf, pix := r.zbuf, r.pix
	specular, env := r.specular, r.env
	color, refl := r.color, r.reflectivity
	d := r.d
	for ; pos < end; pos++ {
		if c.z < zbuf[pos] {
			l := lut(c.nx, c.ny)
			s := argb.Scale(argb.Add(specular[l], env[l]), refl)
			t := argb.Multiply(color, r.texel(c.tx, c.ty, c.sw))
			pix[pos] = argb.Add(argb.OverSolid(pix[pos], t), s)
			zbuf[pos] = c.z
		}
		c.z += d.z
		c.nx += d.nx
		c.ny += d.ny
		c.tx += d.tx
		c.ty += d.ty
		c.sw += d.sw
	}
}

func (r *Rasterizer) spanETO(pos, end int, c cursor) {
	zbuf, pix := r.zbuf, r.pix
	specular, env := r.specular, r.env
	color, refl := r.color, r.reflectivity
	d := r.d
	for ; pos < end; pos++ {
		if c.z < zbuf[pos] {
			l := lut(c.nx, c.ny)
			s := argb.Scale(argb.Add(specular[l], env[l]), refl)
			pix[pos] = argb.Add(argb.Multiply(color, r.texel(c.tx, c.ty, c.sw)), s)
			zbuf[pos] = c.z
		}
		c.z += d.z
		c.nx += d.nx
		c.ny += d.ny
		c.tx += d.tx
		c.ty += d.ty
		c.sw += d.sw
	}
}
