// Package render turns a scene into pixels: lightmap construction, the
// per-frame pipeline, the scanline rasterizer and the output surfaces.
package render

import (
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/taigrr/warp/pkg/argb"
	"github.com/taigrr/warp/pkg/math3d"
	"github.com/taigrr/warp/pkg/texture"
)

// Screen is a row-major ARGB pixel buffer.
type Screen struct {
	Width  int
	Height int
	Pixels []uint32
}

// NewScreen creates a screen of the given size filled with transparent black.
func NewScreen(width, height int) *Screen {
	return &Screen{
		Width:  width,
		Height: height,
		Pixels: make([]uint32, width*height),
	}
}

// Resize reallocates the buffer when the size changes.
func (s *Screen) Resize(width, height int) {
	if width == s.Width && height == s.Height {
		return
	}
	s.Width, s.Height = width, height
	s.Pixels = make([]uint32, width*height)
}

// Clear fills the screen with a solid color.
func (s *Screen) Clear(c uint32) {
	math3d.Fill(s.Pixels, c)
}

// SetPixel sets the pixel at (x, y). Out of range writes are ignored.
func (s *Screen) SetPixel(x, y int, c uint32) {
	if x < 0 || x >= s.Width || y < 0 || y >= s.Height {
		return
	}
	s.Pixels[y*s.Width+x] = c
}

// Pixel returns the color at (x, y), or 0 outside the screen.
func (s *Screen) Pixel(x, y int) uint32 {
	if x < 0 || x >= s.Width || y < 0 || y >= s.Height {
		return 0
	}
	return s.Pixels[y*s.Width+x]
}

// DrawLine draws a 2D line from (x0, y0) to (x1, y1) using Bresenham's
// algorithm. It ignores depth.
func (s *Screen) DrawLine(x0, y0, x1, y1 int, c uint32) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		s.SetPixel(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// DrawRectOutline draws a w×h rectangle outline with its corner at (x, y).
func (s *Screen) DrawRectOutline(x, y, w, h int, c uint32) {
	for px := x; px < x+w; px++ {
		s.SetPixel(px, y, c)
		s.SetPixel(px, y+h-1, c)
	}
	for py := y; py < y+h; py++ {
		s.SetPixel(x, py, c)
		s.SetPixel(x+w-1, py, c)
	}
}

// DrawBackground stretches t over the w×h area at (x, y) using
// nearest-neighbour sampling in 8.8 fixed point. Texel alpha is ignored.
func (s *Screen) DrawBackground(t *texture.Texture, x, y, w, h int) {
	if t == nil || w <= 0 || h <= 0 {
		return
	}
	s.blit(t, x, y, w, h, func(_, src uint32) uint32 {
		return argb.Alpha | src
	})
}

// AddTexture stretches t over the w×h area at (x, y), adding its colors
// to the pixels already on screen.
func (s *Screen) AddTexture(t *texture.Texture, x, y, w, h int) {
	if t == nil || w <= 0 || h <= 0 {
		return
	}
	s.blit(t, x, y, w, h, argb.Add)
}

func (s *Screen) blit(t *texture.Texture, x, y, w, h int, op func(dst, src uint32) uint32) {
	dtx := (t.Width << 8) / w
	dty := (t.Height << 8) / h
	ty := 0
	for j := range h {
		py := y + j
		if py >= 0 && py < s.Height {
			row := (ty >> 8) * t.Width
			tx := 0
			for i := range w {
				px := x + i
				if px >= 0 && px < s.Width {
					pos := py*s.Width + px
					s.Pixels[pos] = op(s.Pixels[pos], t.Pixels[row+tx>>8])
				}
				tx += dtx
			}
		}
		ty += dty
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// ToImage converts the screen to an NRGBA image.
func (s *Screen) ToImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, s.Width, s.Height))
	for i, c := range s.Pixels {
		o := i * 4
		img.Pix[o] = uint8(argb.R(c))
		img.Pix[o+1] = uint8(argb.G(c))
		img.Pix[o+2] = uint8(argb.B(c))
		img.Pix[o+3] = uint8(argb.A(c))
	}
	return img
}

// SavePNG writes the screen to path as a PNG file.
func (s *Screen) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, s.ToImage()); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
