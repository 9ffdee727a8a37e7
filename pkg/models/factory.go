package models

import (
	"math"

	"github.com/taigrr/warp/pkg/math3d"
	"github.com/taigrr/warp/pkg/scene"
)

// SimplePlane creates a square of side 2*size in the y=0 plane, visible
// from above. A double sided plane carries a second, reversed pair of
// triangles.
func SimplePlane(size float64, doubleSided bool) *scene.Object {
	o := scene.NewObject()
	o.AddVertex(scene.NewVertexUV(-size, 0, size, 0, 0))
	o.AddVertex(scene.NewVertexUV(size, 0, size, 1, 0))
	o.AddVertex(scene.NewVertexUV(size, 0, -size, 1, 1))
	o.AddVertex(scene.NewVertexUV(-size, 0, -size, 0, 1))

	o.AddTriangle(0, 3, 2)
	o.AddTriangle(0, 2, 1)
	if doubleSided {
		o.AddTriangle(0, 2, 3)
		o.AddTriangle(0, 1, 2)
	}
	return o
}

// Cube creates a box with equal sides.
func Cube(size float64) *scene.Object {
	return Box(size, size, size)
}

// boxSides holds, per face, one bit per corner telling whether the corner
// sits on the positive side of each axis.
var boxSides = [6][3]int{
	{10, 3, 0},
	{10, 15, 3},
	{15, 3, 10},
	{10, 0, 12},
	{0, 3, 5},
	{5, 3, 15},
}

// Box creates an axis aligned box centered on the origin. Each face has
// its own four vertices so the texture maps once per face.
func Box(xsize, ysize, zsize float64) *scene.Object {
	x, y, z := math.Abs(xsize)/2, math.Abs(ysize)/2, math.Abs(zsize)/2
	pick := func(flags, bit int, v float64) float64 {
		if flags&(1<<bit) != 0 {
			return v
		}
		return -v
	}

	o := scene.NewObject()
	for side, f := range boxSides {
		for i := range 4 {
			o.AddVertex(scene.NewVertexUV(
				pick(f[0], i, x), pick(f[1], i, y), pick(f[2], i, z),
				float64(i&1), float64(i&2>>1)))
		}
		t := side << 2
		o.AddTriangle(t, t+2, t+3)
		o.AddTriangle(t, t+3, t+1)
	}
	return o
}

// Cone creates a cone of the given height standing on its base, with the
// apex on +Y.
func Cone(height, radius float64, segments int) *scene.Object {
	h := height / 2
	return Lathe([]math3d.Vec3{
		math3d.V3(0, h, 0),
		math3d.V3(radius, -h, 0),
		math3d.V3(radius, -h, 0),
		math3d.V3(0, -h, 0),
	}, segments)
}

// Cylinder creates a capped cylinder along the Y axis.
func Cylinder(height, radius float64, segments int) *scene.Object {
	h := height / 2
	return Lathe([]math3d.Vec3{
		math3d.V3(0, h, 0),
		math3d.V3(radius, h, 0),
		math3d.V3(radius, h, 0),
		math3d.V3(radius, -h, 0),
		math3d.V3(radius, -h, 0),
		math3d.V3(0, -h, 0),
	}, segments)
}

// Sphere creates a UV sphere. The profile has segments points from pole
// to pole and is swept segments times. Fewer than 3 segments are raised
// to 3.
func Sphere(radius float64, segments int) *scene.Object {
	segments = max(segments, 3)
	path := make([]math3d.Vec3, segments)
	path[0] = math3d.V3(0, radius, 0)
	path[segments-1] = math3d.V3(0, -radius, 0)
	for i := 1; i < segments-1; i++ {
		angle := (float64(i)/float64(segments-2) - 0.5) * -math.Pi
		path[i] = math3d.V3(math.Cos(angle)*radius, math.Sin(angle)*radius, 0)
	}
	return Lathe(path, segments)
}

// Lathe sweeps a profile around the Y axis in sides steps. Every step gets
// its own ring of vertices, so the seam carries a duplicate ring with u=0
// while the first ring has u=1. Paths with fewer than two points or fewer
// than one side give an empty object.
func Lathe(path []math3d.Vec3, sides int) *scene.Object {
	o := scene.NewObject()
	nodes := len(path)
	if nodes < 2 || sides < 1 {
		return o
	}

	steps := sides + 1
	alpha := 2 * math.Pi / float64(sides)
	for j := range steps {
		u := float64(steps-j-1) / float64(steps-1)
		sin, cos := math.Sincos(float64(j) * alpha)
		for i, p := range path {
			v := float64(i) / float64(nodes-1)
			o.AddVertex(scene.NewVertexUV(
				p.X*cos+p.Z*sin, p.Y, p.Z*cos-p.X*sin, u, v))
		}
	}

	for j := range steps - 1 {
		for i := range nodes - 1 {
			o.AddTriangle(i+nodes*j, i+nodes*(j+1), i+1+nodes*j)
			o.AddTriangle(i+nodes*(j+1), i+1+nodes*(j+1), i+1+nodes*j)
		}
	}

	// Close the last ring onto the first.
	last := nodes * (steps - 1)
	for i := range nodes - 1 {
		o.AddTriangle(i+last, i, i+1+last)
		o.AddTriangle(i, i+1, i+1+last)
	}
	return o
}
