package texture

import (
	"github.com/taigrr/warp/pkg/argb"
	"github.com/taigrr/warp/pkg/math3d"
)

// ToGray replaces every pixel with its luminance gray.
func (t *Texture) ToGray() *Texture {
	for i, p := range t.Pixels {
		t.Pixels[i] = argb.Gray(p)
	}
	t.analyze()
	return t
}

// ToAverage replaces every pixel with the mean of its color channels, as a
// plain integer in 0..255. Pair it with Colorize to map intensities onto
// a palette.
func (t *Texture) ToAverage() *Texture {
	for i, p := range t.Pixels {
		t.Pixels[i] = uint32(argb.Average(p))
	}
	t.analyze()
	return t
}

// ValToGray treats each pixel as an intensity value, crops it to 0..255 and
// turns it into an opaque gray.
func (t *Texture) ValToGray() *Texture {
	for i, p := range t.Pixels {
		v := math3d.Crop(int(int32(p)), 0, 255)
		t.Pixels[i] = argb.RGB(v, v, v)
	}
	t.analyze()
	return t
}

// Colorize treats each pixel as an index into pal, cropped to the palette
// range.
func (t *Texture) Colorize(pal []uint32) *Texture {
	if len(pal) == 0 {
		return t
	}
	last := len(pal) - 1
	for i, p := range t.Pixels {
		t.Pixels[i] = pal[math3d.Crop(int(int32(p)), 0, last)]
	}
	t.analyze()
	return t
}

// Checker creates a checkerboard texture with square cells of the given
// size.
func Checker(width, height, cell int, c1, c2 uint32) *Texture {
	cell = max(cell, 1)
	t := &Texture{Width: width, Height: height, Pixels: make([]uint32, width*height)}
	for y := range height {
		for x := range width {
			c := c2
			if (x/cell+y/cell)%2 == 0 {
				c = c1
			}
			t.Pixels[y*width+x] = c
		}
	}
	t.analyze()
	return t
}

// Gradient creates a horizontal gradient from left to right, blended in
// L*a*b* space.
func Gradient(width, height int, left, right uint32) *Texture {
	t := &Texture{Width: width, Height: height, Pixels: make([]uint32, width*height)}
	row := make([]uint32, width)
	for x := range row {
		f := 0.0
		if width > 1 {
			f = float64(x) / float64(width-1)
		}
		row[x] = argb.Blend(left, right, f)
	}
	for y := range height {
		copy(t.Pixels[y*width:], row)
	}
	t.analyze()
	return t
}

// Palette creates a horizontal gradient through any number of anchor
// colors.
func Palette(width, height int, anchors []uint32) *Texture {
	t := &Texture{Width: width, Height: height, Pixels: make([]uint32, width*height)}
	row := argb.MakeGradient(anchors, width)
	if len(row) > 0 {
		for y := range height {
			copy(t.Pixels[y*width:], row)
		}
	}
	t.analyze()
	return t
}
