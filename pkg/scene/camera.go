package scene

import (
	"math"

	"github.com/taigrr/warp/pkg/math3d"
)

// DefaultFOV is the horizontal field of view, in degrees, of NewCamera
// presets.
const DefaultFOV = 90

// Camera looks from a position toward a target point. The view and
// projection matrices are rebuilt lazily after any change.
type Camera struct {
	pos    math3d.Vec3
	lookAt math3d.Vec3
	roll   float64
	fov    float64 // tan(fov/2)

	ortho          bool
	orthoW, orthoH float64
	width, height  int
	halfW, halfH   int

	matrix       math3d.Matrix
	normalMatrix math3d.Matrix
	dirty        bool
}

// NewCamera creates a camera at the origin with the given field of view in
// degrees.
func NewCamera(fovDeg float64) *Camera {
	c := &Camera{}
	c.SetFOV(fovDeg)
	return c
}

// Front returns a camera at (0, 0, -2) looking at the origin.
func Front() *Camera { return preset(0, 0, -2) }

// Left returns a camera at (2, 0, 0) looking at the origin.
func Left() *Camera { return preset(2, 0, 0) }

// Right returns a camera at (-2, 0, 0) looking at the origin.
func Right() *Camera { return preset(-2, 0, 0) }

// Top returns a camera at (0, -2, 0) looking at the origin.
func Top() *Camera { return preset(0, -2, 0) }

func preset(x, y, z float64) *Camera {
	c := NewCamera(DefaultFOV)
	c.SetPos(x, y, z)
	return c
}

// Pos returns the camera position.
func (c *Camera) Pos() math3d.Vec3 { return c.pos }

// Target returns the look-at point.
func (c *Camera) Target() math3d.Vec3 { return c.lookAt }

// Orthographic reports whether the camera uses a parallel projection.
func (c *Camera) Orthographic() bool { return c.ortho }

// ScreenSize returns the viewport size set by SetScreenSize.
func (c *Camera) ScreenSize() (w, h int) { return c.width, c.height }

// SetPos moves the camera.
func (c *Camera) SetPos(x, y, z float64) {
	c.pos = math3d.V3(x, y, z)
	c.dirty = true
}

// LookAt sets the target point.
func (c *Camera) LookAt(x, y, z float64) {
	c.lookAt = math3d.V3(x, y, z)
	c.dirty = true
}

// SetFOV switches to a perspective projection with the given horizontal
// field of view in degrees.
func (c *Camera) SetFOV(fovDeg float64) {
	c.fov = math.Tan(math3d.Deg2Rad(fovDeg) / 2)
	c.ortho = false
	c.dirty = true
}

// SetOrthographic switches to a parallel projection showing a w×h window
// of world space. Disabling it, or passing a zero extent, returns to
// perspective.
func (c *Camera) SetOrthographic(enabled bool, w, h float64) {
	if enabled && w != 0 && h != 0 {
		c.orthoW, c.orthoH = w, h
		c.ortho = true
	} else {
		c.ortho = false
	}
	c.dirty = true
}

// Roll adds angle radians of rotation about the viewing axis.
func (c *Camera) Roll(angle float64) {
	c.roll += angle
	c.dirty = true
}

// Shift moves both the position and the target.
func (c *Camera) Shift(dx, dy, dz float64) {
	d := math3d.V3(dx, dy, dz)
	c.pos = c.pos.Add(d)
	c.lookAt = c.lookAt.Add(d)
	c.dirty = true
}

// Rotate rotates the position about the world origin.
func (c *Camera) Rotate(dx, dy, dz float64) {
	c.pos = c.pos.Transform(math3d.RotateMatrix(dx, dy, dz))
	c.dirty = true
}

// Orbit places the camera on a sphere of the given radius around the
// target. yaw turns about the vertical axis and pitch lifts the camera
// above the horizon, both in radians.
func (c *Camera) Orbit(yaw, pitch, radius float64) {
	cp := math.Cos(pitch)
	off := math3d.V3(math.Sin(yaw)*cp, math.Sin(pitch), -math.Cos(yaw)*cp).Scale(radius)
	c.pos = c.lookAt.Add(off)
	c.dirty = true
}

// SetScreenSize sets the viewport the projection maps onto.
func (c *Camera) SetScreenSize(w, h int) {
	if w == c.width && h == c.height {
		return
	}
	c.width, c.height = w, h
	c.halfW, c.halfH = w>>1, h>>1
	c.dirty = true
}

// Matrix returns projection × view.
func (c *Camera) Matrix() math3d.Matrix {
	c.rebuild()
	return c.matrix
}

// NormalMatrix returns the view rotation used for normals.
func (c *Camera) NormalMatrix() math3d.Matrix {
	c.rebuild()
	return c.normalMatrix
}

func (c *Camera) rebuild() {
	if !c.dirty {
		return
	}
	c.dirty = false

	fwd := c.lookAt.Sub(c.pos)
	var right, up math3d.Vec3
	if math.Abs(fwd.X) < 0.001 && math.Abs(fwd.Z) < 0.001 {
		// Looking straight up or down.
		right = math3d.V3(1, 0, 0)
		if fwd.Y < 0 {
			up = math3d.V3(0, 0, 1)
		} else {
			up = math3d.V3(0, 0, -1)
		}
	} else {
		up = math3d.V3(0, 1, 0)
		right = up.Cross(fwd).Normalized()
		up = fwd.Cross(right).Normalized()
	}
	fwd.Normalize()

	nm := math3d.FromBasis(right, up, fwd)
	if c.roll != 0 {
		nm.Rotate(0, 0, c.roll)
	}
	view := nm
	view.Shift(c.pos.X, c.pos.Y, c.pos.Z)
	view = view.Inverse()
	c.normalMatrix = nm.Inverse()

	proj := math3d.Identity()
	if c.ortho {
		proj.M00 = float64(c.width) / c.orthoW
		proj.M03 = float64(c.halfW)
		proj.M11 = -float64(c.height) / c.orthoH
		proj.M13 = float64(c.halfH)
	} else {
		ss := float64(min(c.width, c.height))
		proj.M00 = ss / c.fov
		proj.M11 = -ss / c.fov
	}
	proj.M22 = 1
	c.matrix = math3d.Multiply(proj, view)
}
