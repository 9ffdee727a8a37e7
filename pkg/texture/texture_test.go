package texture

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/taigrr/warp/pkg/argb"
)

func TestNewAnalyzes(t *testing.T) {
	tex := New(16, 8)
	if tex.BitWidth != 4 || tex.BitHeight != 3 {
		t.Errorf("bits = %d,%d, want 4,3", tex.BitWidth, tex.BitHeight)
	}
	if tex.MaxMips != 0 {
		t.Errorf("MaxMips = %d, want 0", tex.MaxMips)
	}
	if tex.Opaque {
		t.Error("all-zero texture should not be opaque")
	}
}

func TestFromPixelsCopies(t *testing.T) {
	data := []uint32{0xFF000000, 0xFF0000FF, 0xFF00FF00, 0xFFFF0000}
	tex := FromPixels(2, 2, data)
	data[0] = 0
	if tex.Pixels[0] != 0xFF000000 {
		t.Error("FromPixels should copy its input")
	}
	if !tex.Opaque {
		t.Error("expected opaque")
	}
	if tex.Average != 0xFF3F3F3F {
		t.Errorf("Average = %08x, want ff3f3f3f", tex.Average)
	}
}

func TestFromImagePowerOfTwo(t *testing.T) {
	tests := []struct {
		name          string
		w, h, maxBits int
		wantW, wantH  int
	}{
		{"already pow2", 16, 8, -1, 16, 8},
		{"round up", 100, 30, -1, 128, 32},
		{"cap wide", 1024, 256, 8, 256, 64},
		{"cap tall", 64, 2048, 9, 16, 512},
		{"cap floors at 1", 4096, 2, 6, 64, 1},
		{"small cap ignored", 64, 64, 3, 64, 64},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := image.NewNRGBA(image.Rect(0, 0, tt.w, tt.h))
			tex := FromImage(img, tt.maxBits)
			if tex.Width != tt.wantW || tex.Height != tt.wantH {
				t.Errorf("size = %dx%d, want %dx%d", tex.Width, tex.Height, tt.wantW, tt.wantH)
			}
			if !tex.IsPowerOfTwo() {
				t.Error("not power of two")
			}
			if len(tex.Pixels) != tex.Width*tex.Height {
				t.Errorf("len(Pixels) = %d", len(tex.Pixels))
			}
		})
	}
}

func TestFromImageAlpha(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for y := range 4 {
		for x := range 4 {
			img.SetNRGBA(x, y, color.NRGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}
	tex := FromImage(img, -1)
	if !tex.Opaque || tex.HasAlpha {
		t.Errorf("opaque=%v hasAlpha=%v, want true,false", tex.Opaque, tex.HasAlpha)
	}
	if tex.Pixels[5] != 0xFFC86432 {
		t.Errorf("pixel = %08x", tex.Pixels[5])
	}

	img.SetNRGBA(1, 1, color.NRGBA{A: 128})
	tex = FromImage(img, -1)
	if tex.Opaque || !tex.HasAlpha {
		t.Error("a single translucent pixel should clear Opaque")
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tex.png")
	img := image.NewNRGBA(image.Rect(0, 0, 3, 5))
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	f.Close()

	tex, err := Load(path, -1)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if tex.Width != 4 || tex.Height != 8 {
		t.Errorf("size = %dx%d, want 4x8", tex.Width, tex.Height)
	}

	if _, err := Load(filepath.Join(dir, "missing.png"), -1); err == nil {
		t.Error("expected error for missing file")
	}
	bad := filepath.Join(dir, "bad.png")
	os.WriteFile(bad, []byte("not an image"), 0o644)
	if _, err := Load(bad, -1); err == nil {
		t.Error("expected decode error")
	}
}

func TestResize(t *testing.T) {
	tex := New(3, 5)
	for i := range tex.Pixels {
		tex.Pixels[i] = argb.Alpha | uint32(i)
	}
	tex.Refresh()
	tex.Resize()
	if tex.Width != 4 || tex.Height != 8 {
		t.Fatalf("size = %dx%d", tex.Width, tex.Height)
	}
	if tex.Pixels[0] != argb.Alpha {
		t.Errorf("corner = %08x", tex.Pixels[0])
	}
	// last pixel samples (3*3/4, 7*5/8) = (2, 4) -> index 14
	if got := tex.Pixels[len(tex.Pixels)-1]; got != argb.Alpha|14 {
		t.Errorf("last = %08x", got)
	}
	if tex.MaxMips != -1 {
		t.Errorf("MaxMips = %d", tex.MaxMips)
	}
}

func TestResizeToIgnoresEmpty(t *testing.T) {
	tex := New(4, 4)
	tex.ResizeTo(0, 10)
	if tex.Width != 4 || tex.Height != 4 {
		t.Error("zero-area resize should be ignored")
	}
}

func TestGenMips(t *testing.T) {
	tex := Checker(64, 32, 1, argb.White, argb.Black)
	if tex.MaxMips != 2 {
		t.Fatalf("MaxMips = %d, want 2", tex.MaxMips)
	}
	tex.GenMips()

	wantW := []int{8, 16, 32, 64}
	wantH := []int{4, 8, 16, 32}
	for n := range 4 {
		l := tex.Mip(n)
		if l.Width != wantW[n] || l.Height != wantH[n] {
			t.Errorf("level %d = %dx%d, want %dx%d", n, l.Width, l.Height, wantW[n], wantH[n])
		}
		if 1<<l.BitWidth != l.Width || 1<<l.BitHeight != l.Height {
			t.Errorf("level %d bits %d,%d", n, l.BitWidth, l.BitHeight)
		}
		if len(l.Pixels) != l.Width*l.Height {
			t.Errorf("level %d pixels %d", n, len(l.Pixels))
		}
	}
	if &tex.Mip(3).Pixels[0] != &tex.Pixels[0] {
		t.Error("top level should share the base pixels")
	}

	// 2 white + 2 black per block: (510+2)>>2 = 128.
	if got := tex.Mip(2).Pixels[0]; got != 0xFF808080 {
		t.Errorf("box filter = %08x, want ff808080", got)
	}
}

func TestMipLazy(t *testing.T) {
	tex := New(32, 32)
	if tex.HasMips() {
		t.Fatal("mips should be lazy")
	}
	_ = tex.Mip(0)
	if !tex.HasMips() {
		t.Fatal("Mip should generate the chain")
	}
	tex.ToGray()
	if tex.HasMips() {
		t.Error("edits should drop stale mips")
	}
}

func TestTinyTextureHasNoMips(t *testing.T) {
	tex := New(4, 4)
	tex.GenMips()
	if l := tex.Mip(0); l.Width != 4 {
		t.Errorf("tiny texture level width = %d", l.Width)
	}
}

func TestColorize(t *testing.T) {
	tex := FromPixels(3, 1, []uint32{0, 5, 500})
	pal := []uint32{0xFF000000, 0xFF111111, 0xFF222222, 0xFF333333, 0xFF444444, 0xFF555555}
	tex.Colorize(pal)
	want := []uint32{0xFF000000, 0xFF555555, 0xFF555555}
	for i, w := range want {
		if tex.Pixels[i] != w {
			t.Errorf("pixel %d = %08x, want %08x", i, tex.Pixels[i], w)
		}
	}
}

func TestToAverageThenValToGray(t *testing.T) {
	tex := FromPixels(1, 1, []uint32{0xFF306090})
	tex.ToAverage()
	if tex.Pixels[0] != 0x60 {
		t.Fatalf("average = %x", tex.Pixels[0])
	}
	tex.ValToGray()
	if tex.Pixels[0] != 0xFF606060 {
		t.Errorf("gray = %08x", tex.Pixels[0])
	}
}

func TestCloneIsDeep(t *testing.T) {
	tex := Checker(8, 8, 2, argb.White, argb.Black)
	c := tex.Clone()
	c.Pixels[0] = 0
	if tex.Pixels[0] != argb.White {
		t.Error("Clone shares pixels")
	}
}

func TestGradientEndpoints(t *testing.T) {
	tex := Gradient(16, 2, 0xFFFF0000, 0xFF0000FF)
	if tex.Pixels[0] != 0xFFFF0000 || tex.Pixels[15] != 0xFF0000FF {
		t.Errorf("endpoints = %08x %08x", tex.Pixels[0], tex.Pixels[15])
	}
	if tex.Pixels[16] != tex.Pixels[0] {
		t.Error("rows differ")
	}
	p := Palette(8, 1, []uint32{argb.Black, argb.White})
	if p.Pixels[0] != argb.Black || p.Pixels[7] != argb.White {
		t.Errorf("palette endpoints = %08x %08x", p.Pixels[0], p.Pixels[7])
	}
}

func BenchmarkGenMips(b *testing.B) {
	tex := Checker(256, 256, 8, argb.White, argb.Black)
	for b.Loop() {
		tex.GenMips()
	}
}
