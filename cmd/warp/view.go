package main

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"os"
	"time"

	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/log"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/spf13/cobra"

	"github.com/taigrr/warp/pkg/math3d"
	"github.com/taigrr/warp/pkg/scene"
	"github.com/taigrr/warp/pkg/texture"
	"github.com/taigrr/warp/pkg/warp"
)

const viewControls = `Controls:
  Mouse drag  - Orbit
  Scroll      - Zoom in/out
  W/S/A/D     - Pitch and yaw
  Space       - Random spin
  R           - Reset view
  T           - Toggle texture
  X           - Toggle wireframe
  F           - Toggle flat shading
  L           - Position light (mouse to aim, click to set)
  ?           - Toggle HUD overlay
  Esc         - Quit`

func viewCmd(logger *log.Logger) *cobra.Command {
	var (
		opts sceneOptions
		fps  int
	)
	cmd := &cobra.Command{
		Use:   "view",
		Short: "Interactive terminal viewer",
		Long:  "View a primitive or model in the terminal, two pixels per cell.\n\n" + viewControls,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Frames go to the terminal; keep diagnostics out of it.
			quiet := logger.With()
			quiet.SetLevel(log.ErrorLevel)
			return runView(cmd.Context(), quiet, &opts, fps)
		},
	}
	opts.register(cmd.Flags())
	cmd.Flags().IntVar(&fps, "fps", 30, "target frames per second")
	return cmd
}

// orbitAxis tracks position and velocity for one orbit angle with spring
// decay.
type orbitAxis struct {
	Position  float64
	Velocity  float64
	velSpring harmonica.Spring
	velAccel  float64 // spring velocity of Velocity itself
}

func newOrbitAxis(fps int) orbitAxis {
	return orbitAxis{
		// Frequency 4 with critical damping: fast decay, no overshoot.
		velSpring: harmonica.NewSpring(harmonica.FPS(fps), 4.0, 1.0),
	}
}

func (a *orbitAxis) update() {
	a.Position += a.Velocity
	a.Velocity, a.velAccel = a.velSpring.Update(a.Velocity, a.velAccel, 0)
}

// orbit is the camera position around the scene center.
type orbit struct {
	Yaw, Pitch orbitAxis
	Distance   float64
	fps        int
}

func newOrbit(fps int, distance float64) *orbit {
	return &orbit{Yaw: newOrbitAxis(fps), Pitch: newOrbitAxis(fps), Distance: distance, fps: fps}
}

func (o *orbit) update() {
	o.Yaw.update()
	o.Pitch.update()
	// Keep the camera off the poles where the up vector degenerates.
	o.Pitch.Position = math3d.CropF(o.Pitch.Position, -1.4, 1.4)
}

func (o *orbit) impulse(yaw, pitch float64) {
	o.Yaw.Velocity += yaw
	o.Pitch.Velocity += pitch
}

func (o *orbit) zoom(d float64) {
	o.Distance = math3d.CropF(o.Distance+d, 1.2, 20)
}

// viewer holds the interactive state. All of it is owned by the event
// loop goroutine.
type viewer struct {
	engine *warp.Engine
	logger *log.Logger
	orbit  *orbit
	home   float64

	materials []*scene.Material
	textures  map[*scene.Material]*texture.Texture

	textured, wireframe, flat bool
	showHUD                   bool
	lightMode                 bool
	lightDir, pendingLight    math3d.Vec3

	dragging     bool
	lastX, lastY int
	width        int
	height       int

	name      string
	triangles int
	fps       float64
	frames    int
	fpsTime   time.Time
}

func newViewer(e *warp.Engine, logger *log.Logger, opts *sceneOptions, fps int) *viewer {
	v := &viewer{
		engine:    e,
		logger:    logger,
		orbit:     newOrbit(fps, opts.distance),
		home:      opts.distance,
		textures:  make(map[*scene.Material]*texture.Texture),
		textured:  true,
		wireframe: opts.wireframe,
		flat:      opts.flat,
		name:      opts.subjectName(),
		triangles: e.Scene().CountTriangles(),
		fpsTime:   time.Now(),
	}
	seen := make(map[*scene.Material]bool)
	for _, o := range e.Scene().Objects() {
		if m := o.Material; m != nil && !seen[m] {
			seen[m] = true
			v.materials = append(v.materials, m)
			v.textures[m] = m.Texture
		}
	}
	if l, ok := keyLight(e); ok {
		v.lightDir = l.V
	}
	return v
}

func (v *viewer) applyMaterials() {
	for _, m := range v.materials {
		m.SetWireframe(v.wireframe)
		m.SetFlat(v.flat)
		if v.textured {
			m.Texture = v.textures[m]
		} else {
			m.Texture = nil
		}
	}
}

func (v *viewer) setLight(dir math3d.Vec3) {
	l, ok := keyLight(v.engine)
	if !ok {
		return
	}
	l.V = dir.Normalized()
	v.engine.Scene().InvalidateLighting()
}

// screenToLightDir maps a cell position onto a hemisphere facing the
// camera.
func (v *viewer) screenToLightDir(x, y int) math3d.Vec3 {
	nx := (float64(x)/float64(v.width))*2 - 1
	ny := (float64(y)/float64(v.height))*2 - 1

	lenSq := nx*nx + ny*ny
	if lenSq > 1 {
		l := math.Sqrt(lenSq)
		nx /= l
		ny /= l
		lenSq = 1
	}
	return math3d.V3(nx, ny, math.Sqrt(1-lenSq))
}

// handle applies one terminal event and reports whether the viewer should
// quit.
func (v *viewer) handle(ev uv.Event) bool {
	const torque = 0.08
	switch ev := ev.(type) {
	case uv.WindowSizeEvent:
		v.width, v.height = ev.Width, ev.Height
		if err := v.engine.Resize(max(ev.Width, 1), max(ev.Height*2, 2)); err != nil {
			v.logger.Error("resize scene", "width", ev.Width, "height", ev.Height, "err", err)
		}

	case uv.KeyPressEvent:
		switch {
		case ev.MatchString("ctrl+c"):
			return true
		case ev.MatchString("escape"):
			if !v.lightMode {
				return true
			}
			v.lightMode = false
			v.setLight(v.lightDir)
		case ev.MatchString("w", "up"):
			v.orbit.impulse(0, -torque)
		case ev.MatchString("s", "down"):
			v.orbit.impulse(0, torque)
		case ev.MatchString("a", "left"):
			v.orbit.impulse(-torque, 0)
		case ev.MatchString("d", "right"):
			v.orbit.impulse(torque, 0)
		case ev.MatchString("space"):
			v.orbit.impulse((rand.Float64()-0.5)*0.5, (rand.Float64()-0.5)*0.2)
		case ev.MatchString("r"):
			v.orbit = newOrbit(v.orbit.fps, v.home)
		case ev.MatchString("+", "="):
			v.orbit.zoom(-0.25)
		case ev.MatchString("-", "_"):
			v.orbit.zoom(0.25)
		case ev.MatchString("t"):
			v.textured = !v.textured
			v.applyMaterials()
		case ev.MatchString("x"):
			v.wireframe = !v.wireframe
			v.applyMaterials()
		case ev.MatchString("f"):
			v.flat = !v.flat
			v.applyMaterials()
		case ev.MatchString("l"):
			v.lightMode = true
			v.pendingLight = v.lightDir
		case ev.MatchString("?", "shift+/"):
			v.showHUD = !v.showHUD
		}

	case uv.MouseClickEvent:
		if v.lightMode {
			v.lightDir = v.pendingLight
			v.lightMode = false
			v.setLight(v.lightDir)
		} else {
			v.dragging = true
			v.lastX, v.lastY = ev.X, ev.Y
		}

	case uv.MouseReleaseEvent:
		v.dragging = false

	case uv.MouseMotionEvent:
		if v.lightMode {
			v.pendingLight = v.screenToLightDir(ev.X, ev.Y)
			v.setLight(v.pendingLight)
		} else if v.dragging {
			v.orbit.impulse(float64(ev.X-v.lastX)*0.01, float64(ev.Y-v.lastY)*0.01)
			v.lastX, v.lastY = ev.X, ev.Y
		}

	case uv.MouseWheelEvent:
		switch ev.Button {
		case uv.MouseWheelUp:
			v.orbit.zoom(-0.25)
		case uv.MouseWheelDown:
			v.orbit.zoom(0.25)
		}
	}
	return false
}

func (v *viewer) frame(term *uv.Terminal) error {
	v.orbit.update()
	cam := v.engine.Scene().Camera
	cam.Orbit(v.orbit.Yaw.Position, v.orbit.Pitch.Position, v.orbit.Distance)
	if err := v.engine.Render(); err != nil {
		return err
	}

	term.Clear()
	v.engine.Pipeline().Screen().Draw(term, term.Bounds())
	v.drawHUD(term)
	return term.Display()
}

func (v *viewer) drawHUD(term *uv.Terminal) {
	const (
		reset  = "\x1b[0m"
		bold   = "\x1b[1m"
		bg     = "\x1b[40m"
		green  = "\x1b[92m"
		yellow = "\x1b[93m"
		white  = "\x1b[97m"
	)

	v.frames++
	if elapsed := time.Since(v.fpsTime); elapsed >= time.Second {
		v.fps = float64(v.frames) / elapsed.Seconds()
		v.frames = 0
		v.fpsTime = time.Now()
	}

	bottom := uv.Rect(0, v.height-1, v.width, 1)
	if v.lightMode {
		msg := bg + bold + yellow + " ◉ LIGHT MODE - move mouse to aim, click to set, Esc to cancel " + reset
		uv.NewStyledString(msg).Draw(term, bottom)
		return
	}
	if !v.showHUD {
		return
	}

	st := v.engine.Pipeline().Stats()
	top := fmt.Sprintf("%s%s %.0f FPS %s%s%s %s  %d tris  %d drawn %s",
		bg, green, v.fps, reset, bg+bold, white, v.name, v.triangles, st.Opaque+st.Transparent, reset)
	uv.NewStyledString(top).Draw(term, uv.Rect(0, 0, v.width, 1))

	check := func(on bool) string {
		if on {
			return "[✓]"
		}
		return "[ ]"
	}
	modes := fmt.Sprintf("%s%s %s Texture  %s Wireframe  %s Flat  L: light %s",
		bg, white, check(v.textured), check(v.wireframe), check(v.flat), reset)
	uv.NewStyledString(modes).Draw(term, bottom)
}

func runView(ctx context.Context, logger *log.Logger, opts *sceneOptions, fps int) error {
	if fps < 1 {
		return fmt.Errorf("fps must be positive, got %d", fps)
	}
	term := uv.DefaultTerminal()
	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}

	// Two pixel rows per cell.
	opts.width, opts.height = width, height*2
	e, err := opts.build(logger)
	if err != nil {
		return err
	}
	v := newViewer(e, logger, opts, fps)
	v.width, v.height = width, height

	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}
	term.EnterAltScreen()
	term.HideCursor()
	if err := term.Resize(width, height); err != nil {
		return fmt.Errorf("resize terminal: %w", err)
	}

	// Any-event mouse tracking with SGR coordinates.
	fmt.Fprint(os.Stdout, "\x1b[?1003h\x1b[?1006h")
	defer func() {
		fmt.Fprint(os.Stdout, "\x1b[?1003l\x1b[?1006l")
		term.ExitAltScreen()
		term.ShowCursor()
		_ = term.Shutdown(context.Background())
	}()

	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()
	events := term.Events()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok || v.handle(ev) {
				return nil
			}
			if _, resized := ev.(uv.WindowSizeEvent); resized {
				term.Erase()
				if err := term.Resize(v.width, v.height); err != nil {
					return fmt.Errorf("resize terminal: %w", err)
				}
			}
		case <-ticker.C:
			if err := v.frame(term); err != nil {
				return fmt.Errorf("draw frame: %w", err)
			}
		}
	}
}
