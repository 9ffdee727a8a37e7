package render

import (
	"cmp"
	"image"
	"math"
	"math/bits"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/taigrr/warp/pkg/argb"
	"github.com/taigrr/warp/pkg/math3d"
	"github.com/taigrr/warp/pkg/scene"
)

// Stats describes the last rendered frame.
type Stats struct {
	Objects     int // objects submitted to the rasterizer
	Culled      int // objects entirely outside the viewport
	Opaque      int // opaque triangles rasterized
	Transparent int // transparent triangles rasterized after sorting
}

// Pipeline renders a scene into a screen. It owns the depth buffer, the
// lightmap and the rasterizer; none of them may be shared between
// goroutines.
type Pipeline struct {
	scene      *scene.Scene
	screen     *Screen
	zbuf       []int
	lightmap   *Lightmap
	rasterizer *Rasterizer
	queue      []*scene.Triangle
	stats      Stats
	logger     *log.Logger
}

// NewPipeline creates a pipeline rendering s at the scene's size.
func NewPipeline(s *scene.Scene) *Pipeline {
	p := &Pipeline{
		scene:  s,
		screen: NewScreen(s.Width, s.Height),
		zbuf:   make([]int, s.Width*s.Height),
	}
	p.rasterizer = NewRasterizer(p.screen, p.zbuf)
	return p
}

// SetLogger sets the logger used for frame diagnostics. A nil logger
// disables them.
func (p *Pipeline) SetLogger(l *log.Logger) {
	p.logger = l
}

func (p *Pipeline) debug(msg string, keyvals ...any) {
	if p.logger != nil {
		p.logger.Debug(msg, keyvals...)
	}
}

// Screen returns the output surface.
func (p *Pipeline) Screen() *Screen {
	return p.screen
}

// Image returns a copy of the last frame.
func (p *Pipeline) Image() *image.NRGBA {
	return p.screen.ToImage()
}

// Stats returns the statistics of the last frame.
func (p *Pipeline) Stats() Stats {
	return p.stats
}

// Lightmap returns the current lightmap, or nil before the first frame.
func (p *Pipeline) Lightmap() *Lightmap {
	return p.lightmap
}

// Resize changes the output size of the pipeline and its scene.
func (p *Pipeline) Resize(w, h int) {
	p.scene.Resize(w, h)
	p.screen.Resize(w, h)
	if len(p.zbuf) != w*h {
		p.zbuf = make([]int, w*h)
	}
	p.rasterizer.SetTarget(p.screen, p.zbuf)
}

// BuildLightmap creates or refreshes the lightmap from the scene lights.
func (p *Pipeline) BuildLightmap() {
	lights := p.scene.Lights()
	ambient := p.scene.Environment.Ambient
	if p.lightmap == nil {
		p.lightmap = NewLightmap(lights, ambient)
	} else {
		p.lightmap.Set(lights, ambient)
	}
	p.rasterizer.SetLightmap(p.lightmap)
	p.debug("lightmap built", "lights", len(lights), "ambient", argb.ToNRGBA(ambient))
}

// Render draws one frame through cam. A nil camera uses the scene default.
func (p *Pipeline) Render(cam *scene.Camera) {
	s := p.scene
	if cam == nil {
		cam = s.Camera
	}
	w, h := p.screen.Width, p.screen.Height
	p.stats = Stats{}

	p.clear()

	cam.SetScreenSize(w, h)
	if s.PrepareForRendering() || p.lightmap == nil {
		p.BuildLightmap()
	}

	m := math3d.Multiply(cam.Matrix(), s.Matrix)
	nm := math3d.Multiply(cam.NormalMatrix(), s.NormalMatrix)

	p.queue = p.queue[:0]
	for _, obj := range s.Objects() {
		mat := obj.Material
		if !obj.Visible || mat == nil || invisible(mat) {
			continue
		}

		vp := math3d.Compose(obj.Matrix, m)
		np := math3d.Compose(obj.NormalMatrix, nm)
		if !p.project(obj, vp, np, cam) {
			p.stats.Culled++
			continue
		}
		p.stats.Objects++

		if mat.Opaque() {
			p.rasterizer.LoadMaterial(obj)
			for i := range obj.Triangles {
				t := &obj.Triangles[i]
				t.Project(np)
				if t.Visible() {
					p.rasterizer.Render(t)
					p.stats.Opaque++
				}
			}
			continue
		}
		for i := range obj.Triangles {
			t := &obj.Triangles[i]
			t.Project(np)
			if t.Visible() {
				p.queue = append(p.queue, t)
			}
		}
	}

	// Farthest first; ties keep submission order.
	slices.SortStableFunc(p.queue, func(a, b *scene.Triangle) int {
		return cmp.Compare(b.MinDistZ, a.MinDistZ)
	})
	var owner *scene.Object
	for _, t := range p.queue {
		if t.Parent != owner {
			owner = t.Parent
			p.rasterizer.LoadMaterial(owner)
		}
		p.rasterizer.Render(t)
	}
	p.stats.Transparent = len(p.queue)

	p.debug("frame rendered",
		"objects", p.stats.Objects,
		"culled", p.stats.Culled,
		"opaque", p.stats.Opaque,
		"transparent", p.stats.Transparent,
	)
}

// invisible reports whether a material cannot change any pixel.
func invisible(m *scene.Material) bool {
	return m.Color&argb.Alpha == 0 && m.Texture == nil && m.Reflectivity == 0
}

func (p *Pipeline) clear() {
	math3d.Fill(p.zbuf, math.MaxInt32)
	env := p.scene.Environment
	if env.Background != nil {
		p.screen.DrawBackground(env.Background, 0, 0, p.screen.Width, p.screen.Height)
		return
	}
	p.screen.Clear(env.BgColor)
}

// project transforms the vertices of obj and records its mip budget from
// the on-screen bounding box. It returns false when every vertex lies
// beyond the same viewport edge.
func (p *Pipeline) project(obj *scene.Object, vp, np math3d.Matrix, cam *scene.Camera) bool {
	if len(obj.Vertices) == 0 {
		return false
	}
	w, h := p.screen.Width, p.screen.Height
	minX, minY := math.MaxInt, math.MaxInt
	maxX, maxY := math.MinInt, math.MinInt
	clip := -1
	for i := range obj.Vertices {
		v := &obj.Vertices[i]
		v.Project(vp, np, cam)
		v.ClipFrustum(w, h)
		clip &= v.ClipCode
		minX, maxX = min(minX, v.X), max(maxX, v.X)
		minY, maxY = min(minY, v.Y), max(maxY, v.Y)
	}
	extent := max(maxX-minX, maxY-minY)
	obj.ProjectedMaxMips = bits.Len(uint(extent)+1) - 1
	return clip == 0
}

// DrawBounds overlays the projected bounding box of obj in color, using
// the same camera as the last Render. Lines are not depth tested.
func (p *Pipeline) DrawBounds(obj *scene.Object, cam *scene.Camera, color uint32) {
	if cam == nil {
		cam = p.scene.Camera
	}
	cam.SetScreenSize(p.screen.Width, p.screen.Height)
	m := math3d.Compose(obj.Matrix, math3d.Multiply(cam.Matrix(), p.scene.Matrix))

	var pts [8][2]int
	for i, c := range obj.Bounds().Corners() {
		v := scene.Vertex{Pos: c}
		v.Project(m, math3d.Identity(), cam)
		pts[i] = [2]int{v.X, v.Y}
	}
	for _, e := range boxEdges {
		a, b := pts[e[0]], pts[e[1]]
		p.screen.DrawLine(a[0], a[1], b[0], b[1], color)
	}
}

// boxEdges indexes the 12 edges of the corners returned by AABB.Corners.
var boxEdges = [12][2]int{
	{0, 1}, {1, 3}, {3, 2}, {2, 0},
	{4, 5}, {5, 7}, {7, 6}, {6, 4},
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}
