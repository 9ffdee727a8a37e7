// Package argb implements saturating arithmetic on packed 0xAARRGGBB colors.
//
// All operations work on whole uint32 words with bit masks, processing the
// red/blue and alpha/green channel pairs in parallel.
package argb

import (
	"image/color"
	"math/rand/v2"

	"github.com/taigrr/warp/pkg/math3d"
)

// Channel masks.
const (
	Alpha     uint32 = 0xFF000000
	HalfAlpha uint32 = 0x7F000000
	Red       uint32 = 0x00FF0000
	Green     uint32 = 0x0000FF00
	Blue      uint32 = 0x000000FF
	RB        uint32 = 0x00FF00FF
	AG        uint32 = 0xFF00FF00
	RBHalf    uint32 = 0x00800080
	RBOver    uint32 = 0x01000100
	Bit7      uint32 = 0x00FEFEFF
	RGBMask   uint32 = 0x00FFFFFF
)

// Common colors.
const (
	White uint32 = 0xFFFFFFFF
	Grey  uint32 = 0xFF7F7F7F
	Black uint32 = 0xFF000000
)

// A returns the alpha channel.
func A(c uint32) int { return int(c >> 24) }

// R returns the red channel.
func R(c uint32) int { return int(c>>16) & 0xFF }

// G returns the green channel.
func G(c uint32) int { return int(c>>8) & 0xFF }

// B returns the blue channel.
func B(c uint32) int { return int(c) & 0xFF }

// RGB packs an opaque color. Channels must already be in 0..255.
func RGB(r, g, b int) uint32 {
	return Alpha | uint32(r)<<16 | uint32(g)<<8 | uint32(b)
}

// RGBA packs a color with alpha. Channels must already be in 0..255.
func RGBA(r, g, b, a int) uint32 {
	return uint32(a)<<24 | uint32(r)<<16 | uint32(g)<<8 | uint32(b)
}

// CropRGB packs an opaque color, clamping each channel to 0..255.
func CropRGB(r, g, b int) uint32 {
	return RGB(math3d.Crop(r, 0, 255), math3d.Crop(g, 0, 255), math3d.Crop(b, 0, 255))
}

// CropRGBA packs a color, clamping each channel to 0..255.
func CropRGBA(r, g, b, a int) uint32 {
	return RGBA(math3d.Crop(r, 0, 255), math3d.Crop(g, 0, 255), math3d.Crop(b, 0, 255), math3d.Crop(a, 0, 255))
}

// Add returns the per-channel saturating sum of c1 and c2, alpha included.
func Add(c1, c2 uint32) uint32 {
	t3 := (c1 & RB) + (c2 & RB)
	t3 |= RBOver - ((t3 >> 8) & RB)
	t3 &= RB

	t4 := ((c1 >> 8) & RB) + ((c2 >> 8) & RB)
	t4 |= RBOver - ((t4 >> 8) & RB)
	t4 &= RB

	return t4<<8 | t3
}

// Sub returns the per-channel saturating difference c1 - c2, alpha included.
// Channels that would go negative clamp to 0.
func Sub(c1, c2 uint32) uint32 {
	// c1 + (255-c2) + 1 sets bit 8 of a lane exactly when c1 >= c2.
	t3 := (c1 & RB) + (^c2 & RB) + 0x00010001
	keep := (t3 >> 8) & RB
	t3 &= (keep << 8) - keep

	t4 := ((c1 >> 8) & RB) + ((^c2 >> 8) & RB) + 0x00010001
	keep = (t4 >> 8) & RB
	t4 &= (keep << 8) - keep

	return (t4&RB)<<8 | t3&RB
}

// Mix returns the opaque 50/50 average of c1 and c2.
func Mix(c1, c2 uint32) uint32 {
	return Alpha | (((c1 & Bit7) >> 1) + ((c2 & Bit7) >> 1))
}

// Avg2 averages two colors, alpha included.
func Avg2(c1, c2 uint32) uint32 {
	rb := ((c1 & RB) + (c2 & RB)) >> 1 & RB
	ag := (uint64(c1&AG) + uint64(c2&AG)) >> 1 & uint64(AG)
	return uint32(ag) | rb
}

// Avg4 averages four colors per channel, rounding half up.
func Avg4(c1, c2, c3, c4 uint32) uint32 {
	avg := func(shift uint) uint32 {
		s := (c1>>shift)&0xFF + (c2>>shift)&0xFF + (c3>>shift)&0xFF + (c4>>shift)&0xFF + 2
		return (s >> 2) << shift
	}
	return avg(24) | avg(16) | avg(8) | avg(0)
}

// Scale multiplies the color channels by f/256, keeping alpha. The factors
// 0, 127 and 255 take exact shortcuts: 0 yields 0 (alpha included), 255
// returns c unchanged and 127 halves each channel.
func Scale(c uint32, f int) uint32 {
	switch f {
	case 255:
		return c
	case 0:
		return 0
	}
	a := c & Alpha
	if f == 127 {
		return a | (c>>1)&0x7F7F7F
	}
	uf := uint32(f)
	rb := ((c & RB) * uf >> 8) & RB
	g := ((c & Green) * uf >> 8) & Green
	return a | rb | g
}

// Multiply returns the per-channel product c1·c2/255, alpha included, with
// half-bit rounding. Multiplying by White is exact.
func Multiply(c1, c2 uint32) uint32 {
	t3 := (c1 & 0xFF) * (c2 & 0xFF)
	t3 |= (c1 & Red) * ((c2 >> 16) & 0xFF)
	t3 += RBHalf
	t3 = (t3 + ((t3 >> 8) & RB)) >> 8
	t3 &= RB

	a1 := (c1 >> 8) & RB
	a2 := (c2 >> 8) & RB
	t4 := (a1 & 0xFF) * (a2 & 0xFF)
	t4 |= (a1 & Red) * ((a2 >> 16) & 0xFF)
	t4 += RBHalf
	t4 += (t4 >> 8) & RB
	t4 &= AG

	return t3 | t4
}

// Transparency blends c over bk with the given alpha (0..255). The result
// is opaque unless alpha is exactly 0 or 255.
func Transparency(bk, c uint32, alpha int) uint32 {
	switch alpha {
	case 0:
		return bk
	case 255:
		return c
	case 127:
		return Mix(bk, c)
	}
	return lerp(bk, c, int64(alpha))
}

// OverSolid blends c over bk using c's own alpha and always returns an
// opaque color.
func OverSolid(bk, c uint32) uint32 {
	switch c & Alpha {
	case 0:
		return bk
	case Alpha:
		return c
	case HalfAlpha:
		return Mix(bk, c)
	}
	return lerp(bk, c, int64(c>>24))
}

func lerp(bk, c uint32, alpha int64) uint32 {
	bRB := int64(bk & RB)
	rb := bRB + (((int64(c&RB) - bRB) * alpha) >> 8)
	bG := int64(bk & Green)
	g := bG + (((int64(c&Green) - bG) * alpha) >> 8)
	return Alpha | uint32(rb)&RB | uint32(g)&Green
}

// Gray returns the luminance-weighted gray of c, keeping alpha.
func Gray(c uint32) uint32 {
	y := uint32((R(c)*3 + G(c)*6 + B(c)) / 10)
	return c&Alpha | y<<16 | y<<8 | y
}

// Average returns the mean of the three color channels.
func Average(c uint32) int {
	return (R(c) + G(c) + B(c)) / 3
}

// Random brightens each channel of c by a random amount in [0, delta).
func Random(rng *rand.Rand, c uint32, delta int) uint32 {
	df := float64(delta)
	r := R(c) + int(rng.Float64()*df)
	g := G(c) + int(rng.Float64()*df)
	b := B(c) + int(rng.Float64()*df)
	return CropRGB(r, g, b)
}

// MakeGradient linearly interpolates the anchor colors into a palette of
// size entries. A single anchor fills the palette. Alpha of the output is
// always opaque.
func MakeGradient(colors []uint32, size int) []uint32 {
	if size <= 0 || len(colors) == 0 {
		return []uint32{}
	}
	pal := make([]uint32, size)
	if len(colors) == 1 {
		for i := range pal {
			pal[i] = colors[0] | Alpha
		}
		return pal
	}

	segments := len(colors) - 1
	for s := range segments {
		c1, c2 := colors[s], colors[s+1]
		pos1 := size * s / segments
		pos2 := size * (s + 1) / segments
		span := pos2 - pos1
		if span <= 0 {
			continue
		}
		// 16.16 fixed point channel walk.
		r, g, b := R(c1)<<16, G(c1)<<16, B(c1)<<16
		steps := span
		if s == segments-1 && span > 1 {
			steps = span - 1
		}
		dr := ((R(c2) << 16) - r) / steps
		dg := ((G(c2) << 16) - g) / steps
		db := ((B(c2) << 16) - b) / steps
		for i := pos1; i < pos2; i++ {
			pal[i] = CropRGB((r+0x8000)>>16, (g+0x8000)>>16, (b+0x8000)>>16)
			r += dr
			g += dg
			b += db
		}
	}
	return pal
}

// ToNRGBA converts a packed color to a non-premultiplied image color.
func ToNRGBA(c uint32) color.NRGBA {
	return color.NRGBA{R: uint8(c >> 16), G: uint8(c >> 8), B: uint8(c), A: uint8(c >> 24)}
}

// FromColor packs any image color, un-premultiplying alpha.
func FromColor(c color.Color) uint32 {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return RGBA(int(n.R), int(n.G), int(n.B), int(n.A))
}
