// Package texture holds packed ARGB pixel buffers with power-of-two sizing
// and a box-filtered mip chain for the warp rasterizer.
package texture

import (
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"math/bits"
	"os"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/bmp"  // Register BMP decoder
	_ "golang.org/x/image/tiff" // Register TIFF decoder
	_ "golang.org/x/image/webp" // Register WebP decoder

	"github.com/taigrr/warp/pkg/argb"
	"github.com/taigrr/warp/pkg/math3d"
)

// Level is one entry of a mip chain.
type Level struct {
	Width, Height       int
	BitWidth, BitHeight int
	Pixels              []uint32
}

// Texture is a row-major buffer of 0xAARRGGBB pixels.
type Texture struct {
	Width     int
	Height    int
	BitWidth  int // ceil(log2(Width))
	BitHeight int // ceil(log2(Height))
	Pixels    []uint32

	Average  uint32 // mean color, alpha included
	HasAlpha bool
	Opaque   bool // every pixel has alpha 0xFF

	// MaxMips is the index of the finest generated mip level. It is
	// min(BitWidth, BitHeight)-3 and may be negative for tiny textures, in
	// which case no reduced levels exist.
	MaxMips int

	mips []Level
}

// New creates a transparent black texture.
func New(width, height int) *Texture {
	t := &Texture{
		Width:  width,
		Height: height,
		Pixels: make([]uint32, width*height),
	}
	t.analyze()
	return t
}

// FromPixels creates a texture from a copy of data, which must hold at
// least width*height pixels.
func FromPixels(width, height int, data []uint32) *Texture {
	t := &Texture{
		Width:  width,
		Height: height,
		Pixels: make([]uint32, width*height),
	}
	copy(t.Pixels, data)
	t.analyze()
	return t
}

// FromImage converts img into a texture whose sides are powers of two.
// Each side is rounded up to the next power of two; when maxBits is
// greater than 3 the larger side is capped at 2^maxBits and the other
// side shrinks by the same number of bits, keeping the aspect ratio.
// Resampling uses a Catmull-Rom filter.
func FromImage(img image.Image, maxBits int) *Texture {
	b := img.Bounds()
	bw, bh := ceilLog2(b.Dx()), ceilLog2(b.Dy())

	if maxBits > 3 {
		if bw > bh {
			if bw > maxBits {
				bh = max(bh-(bw-maxBits), 0)
				bw = maxBits
			}
		} else if bh > maxBits {
			bw = max(bw-(bh-maxBits), 0)
			bh = maxBits
		}
	}

	w, h := 1<<bw, 1<<bh
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	if w == b.Dx() && h == b.Dy() {
		draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	} else {
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	}

	t := &Texture{
		Width:  w,
		Height: h,
		Pixels: make([]uint32, w*h),
	}
	for i := range t.Pixels {
		p := dst.Pix[i*4 : i*4+4 : i*4+4]
		t.Pixels[i] = argb.RGBA(int(p[0]), int(p[1]), int(p[2]), int(p[3]))
	}
	t.analyze()
	return t
}

// Load decodes an image file (PNG, JPEG, GIF, BMP, TIFF or WebP) into a
// power-of-two texture. See FromImage for maxBits.
func Load(path string, maxBits int) (*Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open texture: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode texture %s: %w", path, err)
	}
	return FromImage(img, maxBits), nil
}

// analyze recomputes everything derived from the pixel data and size and
// drops any generated mips.
func (t *Texture) analyze() {
	t.BitWidth = ceilLog2(t.Width)
	t.BitHeight = ceilLog2(t.Height)
	t.MaxMips = min(t.BitWidth, t.BitHeight) - 3
	t.mips = nil

	t.Opaque = true
	var sa, sr, sg, sb uint64
	for _, p := range t.Pixels {
		a := p >> 24
		if a != 0xFF {
			t.Opaque = false
		}
		sa += uint64(a)
		sr += uint64(p>>16) & 0xFF
		sg += uint64(p>>8) & 0xFF
		sb += uint64(p) & 0xFF
	}
	t.HasAlpha = !t.Opaque
	if n := uint64(len(t.Pixels)); n > 0 {
		t.Average = argb.RGBA(int(sr/n), int(sg/n), int(sb/n), int(sa/n))
	} else {
		t.Average = 0
	}
}

func ceilLog2(n int) int {
	if n <= 1 {
		return 0
	}
	return bits.Len(uint(n - 1))
}

// IsPowerOfTwo reports whether both sides are powers of two.
func (t *Texture) IsPowerOfTwo() bool {
	return t.Width == 1<<t.BitWidth && t.Height == 1<<t.BitHeight
}

// Resize stretches the texture to the next power of two on each side.
func (t *Texture) Resize() {
	if t.IsPowerOfTwo() {
		return
	}
	t.ResizeTo(1<<t.BitWidth, 1<<t.BitHeight)
}

// ResizeTo resamples the texture to w×h with nearest-neighbor sampling.
// A zero-area target is ignored.
func (t *Texture) ResizeTo(w, h int) {
	if w*h <= 0 || (w == t.Width && h == t.Height) {
		return
	}
	np := make([]uint32, w*h)
	for j := range h {
		src := t.Pixels[(j*t.Height/h)*t.Width:]
		row := np[j*w : (j+1)*w]
		for i := range row {
			row[i] = src[i*t.Width/w]
		}
	}
	t.Width, t.Height = w, h
	t.Pixels = np
	t.analyze()
}

// Pixel returns the pixel at (x, y), or 0 outside the texture.
func (t *Texture) Pixel(x, y int) uint32 {
	if !math3d.InRange(x, 0, t.Width) || !math3d.InRange(y, 0, t.Height) {
		return 0
	}
	return t.Pixels[y*t.Width+x]
}

// SetPixel sets the pixel at (x, y). Out of range writes are ignored.
// Derived data (Average, Opaque, mips) is not refreshed; call Refresh after
// a batch of edits.
func (t *Texture) SetPixel(x, y int, c uint32) {
	if !math3d.InRange(x, 0, t.Width) || !math3d.InRange(y, 0, t.Height) {
		return
	}
	t.Pixels[y*t.Width+x] = c
}

// Refresh recomputes the derived fields after direct pixel edits.
func (t *Texture) Refresh() {
	t.analyze()
}

// Clone returns a deep copy without the mip chain.
func (t *Texture) Clone() *Texture {
	return FromPixels(t.Width, t.Height, t.Pixels)
}
