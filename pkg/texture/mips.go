package texture

import "github.com/taigrr/warp/pkg/argb"

// GenMips (re)builds the mip chain. Level MaxMips+1 is the full-size
// texture and each lower level halves both sides with a rounded 2x2 box
// filter, down to level 0.
func (t *Texture) GenMips() {
	if t.MaxMips < 0 {
		t.mips = []Level{t.base()}
		return
	}
	mips := make([]Level, t.MaxMips+2)
	mips[t.MaxMips+1] = t.base()

	src := mips[t.MaxMips+1]
	for n := t.MaxMips; n >= 0; n-- {
		dst := Level{
			Width:     src.Width >> 1,
			Height:    src.Height >> 1,
			BitWidth:  src.BitWidth - 1,
			BitHeight: src.BitHeight - 1,
		}
		dst.Pixels = halve(src.Pixels, src.Width, dst.Width, dst.Height)
		mips[n] = dst
		src = dst
	}
	t.mips = mips
}

// HasMips reports whether the chain has been generated since the last
// change to the texture.
func (t *Texture) HasMips() bool {
	return t.mips != nil
}

// Mip returns mip level n, generating the chain on first use. Levels
// outside 0..MaxMips+1 return the full-size texture.
func (t *Texture) Mip(n int) Level {
	if t.mips == nil {
		t.GenMips()
	}
	if n < 0 || n >= len(t.mips) {
		return t.base()
	}
	return t.mips[n]
}

func (t *Texture) base() Level {
	return Level{
		Width:     t.Width,
		Height:    t.Height,
		BitWidth:  t.BitWidth,
		BitHeight: t.BitHeight,
		Pixels:    t.Pixels,
	}
}

func halve(src []uint32, srcW, w, h int) []uint32 {
	dst := make([]uint32, w*h)
	for y := range h {
		r0 := src[2*y*srcW:]
		r1 := src[(2*y+1)*srcW:]
		row := dst[y*w : (y+1)*w]
		for x := range row {
			row[x] = argb.Avg4(r0[2*x], r0[2*x+1], r1[2*x], r1[2*x+1])
		}
	}
	return dst
}
