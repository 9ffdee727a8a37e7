package render

import (
	"image/color"
	"testing"

	"github.com/taigrr/warp/pkg/argb"
	"github.com/taigrr/warp/pkg/math3d"
	"github.com/taigrr/warp/pkg/scene"
	"github.com/taigrr/warp/pkg/texture"
)

// quad returns a square of side 2*half in the plane z, facing the Front
// camera. On a 100×100 screen a quad at z=0 with half=0.5 covers
// pixels 25..75 on both axes, split along the x=y diagonal.
func quad(half, z float64, m *scene.Material) *scene.Object {
	o := scene.NewObject()
	a := o.AddVertex(scene.NewVertexUV(-half, -half, z, 0, 1))
	b := o.AddVertex(scene.NewVertexUV(half, -half, z, 1, 1))
	c := o.AddVertex(scene.NewVertexUV(-half, half, z, 0, 0))
	d := o.AddVertex(scene.NewVertexUV(half, half, z, 1, 0))
	o.AddTriangle(a, b, c)
	o.AddTriangle(b, d, c)
	o.SetMaterial(m)
	return o
}

func TestPipelineAmbientPlane(t *testing.T) {
	ambient := argb.RGB(0x40, 0x40, 0x40)
	s := scene.New(100, 100)
	s.SetAmbient(ambient)
	s.AddObject("plane", quad(0.5, 0, scene.NewMaterial(argb.White)))

	p := NewPipeline(s)
	p.Render(nil)

	tests := []struct {
		name string
		x, y int
		want uint32
	}{
		{"lower triangle", 40, 60, ambient},
		{"upper triangle", 60, 40, ambient},
		{"corner background", 5, 5, argb.Black},
		{"beyond right edge", 90, 50, argb.Black},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := p.Screen().Pixel(tc.x, tc.y); got != tc.want {
				t.Errorf("Pixel(%d, %d) = %#x, want %#x", tc.x, tc.y, got, tc.want)
			}
		})
	}

	st := p.Stats()
	if st.Objects != 1 || st.Opaque != 2 || st.Transparent != 0 {
		t.Errorf("Stats() = %+v, want 1 object and 2 opaque triangles", st)
	}

	img := p.Image()
	if got, want := img.NRGBAAt(40, 60), (color.NRGBA{R: 0x40, G: 0x40, B: 0x40, A: 255}); got != want {
		t.Errorf("Image().NRGBAAt(40, 60) = %v, want %v", got, want)
	}
}

func TestPipelineDepthOrder(t *testing.T) {
	red, blue := argb.RGB(255, 0, 0), argb.RGB(0, 0, 255)
	tests := []struct {
		name      string
		nearFirst bool
	}{
		{"near added first", true},
		{"far added first", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := scene.New(100, 100)
			s.SetAmbient(argb.White)
			near := quad(0.5, -0.5, scene.NewMaterial(red))
			far := quad(0.5, 0.5, scene.NewMaterial(blue))
			if tc.nearFirst {
				s.AddObject("near", near)
				s.AddObject("far", far)
			} else {
				s.AddObject("far", far)
				s.AddObject("near", near)
			}
			p := NewPipeline(s)
			p.Render(nil)

			if got := p.Screen().Pixel(45, 55); got != red {
				t.Errorf("overlap pixel = %#x, want near red %#x", got, red)
			}
			// The near quad is larger on screen.
			if got := p.Screen().Pixel(20, 78); got != red {
				t.Errorf("near-only pixel = %#x, want %#x", got, red)
			}
		})
	}
}

func TestPipelineTransparentSorting(t *testing.T) {
	s := scene.New(100, 100)
	s.SetAmbient(argb.White)
	// Submitted nearest first; the far quad must still be drawn first so
	// the near one blends over it.
	s.AddObject("near", quad(0.5, -0.5, scene.NewMaterial(0x7FFF0000)))
	s.AddObject("far", quad(0.5, 0.5, scene.NewMaterial(0x7F0000FF)))

	p := NewPipeline(s)
	p.Render(nil)

	got := p.Screen().Pixel(45, 55)
	if argb.R(got) == 0 || argb.B(got) == 0 {
		t.Errorf("overlap pixel = %#x, want red blended over blue", got)
	}
	if st := p.Stats(); st.Transparent != 4 || st.Opaque != 0 {
		t.Errorf("Stats() = %+v, want 4 transparent triangles", st)
	}
}

func TestPipelineSkipsAndCulls(t *testing.T) {
	tests := []struct {
		name        string
		build       func() *scene.Object
		wantObjects int
		wantCulled  int
		wantOpaque  int
	}{
		{
			name:        "visible",
			build:       func() *scene.Object { return quad(0.5, 0, scene.NewMaterial(argb.White)) },
			wantObjects: 1,
			wantOpaque:  2,
		},
		{
			name: "back facing",
			build: func() *scene.Object {
				o := scene.NewObject()
				a := o.AddVertex(scene.NewVertex(-0.5, -0.5, 0))
				b := o.AddVertex(scene.NewVertex(0.5, -0.5, 0))
				c := o.AddVertex(scene.NewVertex(-0.5, 0.5, 0))
				o.AddTriangle(a, c, b)
				o.SetMaterial(scene.NewMaterial(argb.White))
				return o
			},
			wantObjects: 1,
		},
		{
			name: "off screen",
			build: func() *scene.Object {
				o := quad(0.5, 0, scene.NewMaterial(argb.White))
				o.Shift(10, 0, 0)
				return o
			},
			wantCulled: 1,
		},
		{
			name: "hidden",
			build: func() *scene.Object {
				o := quad(0.5, 0, scene.NewMaterial(argb.White))
				o.Visible = false
				return o
			},
		},
		{
			name:  "no material",
			build: func() *scene.Object { return quad(0.5, 0, nil) },
		},
		{
			name: "fully transparent and matte",
			build: func() *scene.Object {
				m := scene.NewMaterial(0x00FFFFFF)
				m.SetReflectivity(0)
				return quad(0.5, 0, m)
			},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := scene.New(100, 100)
			s.AddObject("obj", tc.build())
			p := NewPipeline(s)
			p.Render(nil)

			st := p.Stats()
			if st.Objects != tc.wantObjects || st.Culled != tc.wantCulled || st.Opaque != tc.wantOpaque {
				t.Errorf("Stats() = %+v, want objects=%d culled=%d opaque=%d",
					st, tc.wantObjects, tc.wantCulled, tc.wantOpaque)
			}
		})
	}
}

func TestPipelineProjectedMaxMips(t *testing.T) {
	s := scene.New(100, 100)
	obj := quad(0.5, 0, scene.NewMaterial(argb.White))
	s.AddObject("plane", obj)
	NewPipeline(s).Render(nil)

	// 50 pixels across: floor(log2(51)) = 5.
	if obj.ProjectedMaxMips != 5 {
		t.Errorf("ProjectedMaxMips = %d, want 5", obj.ProjectedMaxMips)
	}
}

func TestPipelineMipFollowsScreenSize(t *testing.T) {
	tex := texture.Checker(64, 64, 8, argb.White, argb.RGB(0, 0, 255))

	levelWidth := func(half float64) (mips, width int) {
		s := scene.New(100, 100)
		obj := quad(half, 0, scene.NewTexturedMaterial(tex))
		s.AddObject("plane", obj)
		p := NewPipeline(s)
		p.Render(nil)
		if p.rasterizer.Mode()&ModeTextured == 0 {
			t.Fatalf("half %v: plane rendered untextured", half)
		}
		return obj.ProjectedMaxMips, p.rasterizer.tw + 1
	}

	smallMips, smallWidth := levelWidth(0.08)
	largeMips, largeWidth := levelWidth(0.5)
	if smallMips >= largeMips {
		t.Errorf("ProjectedMaxMips small = %d, large = %d, want small < large", smallMips, largeMips)
	}
	if largeWidth != 64 {
		t.Errorf("large plane samples a %d-wide level, want the 64-wide base texture", largeWidth)
	}
	if smallWidth >= largeWidth {
		t.Errorf("small plane samples a %d-wide level, want coarser than %d", smallWidth, largeWidth)
	}
}

func TestPipelineResize(t *testing.T) {
	s := scene.New(100, 100)
	s.SetAmbient(argb.White)
	s.AddObject("plane", quad(0.5, 0, scene.NewMaterial(argb.White)))
	p := NewPipeline(s)
	p.Render(nil)

	p.Resize(60, 40)
	p.Render(nil)

	scr := p.Screen()
	if scr.Width != 60 || scr.Height != 40 || len(scr.Pixels) != 2400 {
		t.Fatalf("screen is %dx%d with %d pixels, want 60x40", scr.Width, scr.Height, len(scr.Pixels))
	}
	if s.Width != 60 || s.Height != 40 {
		t.Errorf("scene size = %dx%d, want 60x40", s.Width, s.Height)
	}
	if got := scr.Pixel(25, 25); got != argb.White {
		t.Errorf("Pixel(25, 25) = %#x, want white", got)
	}
}

func TestPipelineBackgroundTexture(t *testing.T) {
	r, g, b, w := argb.RGB(255, 0, 0), argb.RGB(0, 255, 0), argb.RGB(0, 0, 255), argb.White
	s := scene.New(4, 4)
	s.SetBackground(texture.FromPixels(2, 2, []uint32{r, g, b, w}))

	p := NewPipeline(s)
	p.Render(nil)

	tests := []struct {
		x, y int
		want uint32
	}{
		{0, 0, r}, {1, 1, r},
		{3, 0, g}, {2, 1, g},
		{0, 3, b},
		{3, 3, w}, {2, 2, w},
	}
	for _, tc := range tests {
		if got := p.Screen().Pixel(tc.x, tc.y); got != tc.want {
			t.Errorf("Pixel(%d, %d) = %#x, want %#x", tc.x, tc.y, got, tc.want)
		}
	}
}

func TestPipelineLightmapFollowsLights(t *testing.T) {
	s := scene.New(100, 100)
	s.SetAmbient(argb.Black)
	s.AddObject("plane", quad(0.5, 0, scene.NewMaterial(argb.White)))

	p := NewPipeline(s)
	p.Render(nil)
	if got := p.Lightmap().Diffuse[lightmapCenter]; got != argb.Black {
		t.Fatalf("unlit Diffuse[center] = %#x, want black", got)
	}
	if got := p.Screen().Pixel(40, 60); got != argb.Black {
		t.Errorf("unlit pixel = %#x, want black", got)
	}

	s.AddLight("key", scene.NewLight(math3d.V3(0, 0, 1), argb.White, argb.Black, 0, 0))
	p.Render(nil)
	if got := p.Lightmap().Diffuse[lightmapCenter]; got != argb.RGB(254, 254, 254) {
		t.Errorf("lit Diffuse[center] = %#x, want %#x", got, argb.RGB(254, 254, 254))
	}
	if got := argb.R(p.Screen().Pixel(40, 60)); got < 250 {
		t.Errorf("lit pixel red = %d, want at least 250", got)
	}
}

func TestPipelineDrawBounds(t *testing.T) {
	s := scene.New(100, 100)
	obj := quad(0.5, 0, scene.NewMaterial(argb.White))
	s.AddObject("plane", obj)
	p := NewPipeline(s)
	p.Render(nil)

	red := argb.RGB(255, 0, 0)
	p.DrawBounds(obj, nil, red)
	for _, pt := range [][2]int{{50, 25}, {50, 75}, {25, 50}, {75, 50}} {
		if got := p.Screen().Pixel(pt[0], pt[1]); got != red {
			t.Errorf("Pixel(%d, %d) = %#x, want box edge", pt[0], pt[1], got)
		}
	}
}

func BenchmarkPipelineRender(b *testing.B) {
	s := scene.New(320, 240)
	s.SetAmbient(argb.RGB(30, 30, 30))
	s.AddLight("key", scene.NewLight(math3d.V3(0.3, 0.3, 1), argb.White, argb.White, 120, 300))
	s.AddObject("near", quad(0.5, -0.5, scene.NewMaterial(argb.RGB(200, 100, 50))))
	s.AddObject("glass", quad(0.5, 0, scene.NewMaterial(0x80A0C0FF)))
	p := NewPipeline(s)
	for b.Loop() {
		p.Render(nil)
	}
}
