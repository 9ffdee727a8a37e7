// Package scene holds the warp scene graph: objects built from vertices and
// triangles, materials, lights, cameras and the named registry that ties
// them together.
package scene

import "github.com/taigrr/warp/pkg/math3d"

// Transform is the placement shared by objects and the scene root. Matrix
// moves points; NormalMatrix tracks only rotations and moves normals.
type Transform struct {
	Matrix       math3d.Matrix
	NormalMatrix math3d.Matrix
}

// NewTransform returns an identity transform.
func NewTransform() Transform {
	return Transform{Matrix: math3d.Identity(), NormalMatrix: math3d.Identity()}
}

// ResetTransform restores the identity.
func (t *Transform) ResetTransform() {
	t.Matrix.Reset()
	t.NormalMatrix.Reset()
}

// ApplyTransform applies m after the current transform to both matrices.
func (t *Transform) ApplyTransform(m math3d.Matrix) {
	t.Matrix.Transform(m)
	t.NormalMatrix.Transform(m)
}

// Shift translates in the global frame.
func (t *Transform) Shift(dx, dy, dz float64) {
	t.Matrix.Shift(dx, dy, dz)
}

// ShiftVec translates by v in the global frame.
func (t *Transform) ShiftVec(v math3d.Vec3) {
	t.Matrix.Shift(v.X, v.Y, v.Z)
}

// ShiftSelf translates along the local axes.
func (t *Transform) ShiftSelf(dx, dy, dz float64) {
	t.Matrix.ShiftSelf(dx, dy, dz)
}

// SetPos overwrites the translation.
func (t *Transform) SetPos(x, y, z float64) {
	t.Matrix.M03 = x
	t.Matrix.M13 = y
	t.Matrix.M23 = z
}

// Pos returns the translation.
func (t *Transform) Pos() math3d.Vec3 {
	return t.Matrix.Translation()
}

// Scale scales in the global frame. Normals are unaffected.
func (t *Transform) Scale(dx, dy, dz float64) {
	t.Matrix.Scale(dx, dy, dz)
}

// ScaleUniform scales all axes by d in the global frame.
func (t *Transform) ScaleUniform(d float64) {
	t.Matrix.ScaleUniform(d)
}

// ScaleSelf scales along the local axes.
func (t *Transform) ScaleSelf(dx, dy, dz float64) {
	t.Matrix.ScaleSelf(dx, dy, dz)
}

// Rotate rotates about the global axes, angles in radians.
func (t *Transform) Rotate(dx, dy, dz float64) {
	t.Matrix.Rotate(dx, dy, dz)
	t.NormalMatrix.Rotate(dx, dy, dz)
}

// RotateQuat rotates by q in the global frame.
func (t *Transform) RotateQuat(q math3d.Quaternion) {
	t.Matrix.RotateQuat(q)
	t.NormalMatrix.RotateQuat(q)
}

// RotateMatrix applies the rotation m in the global frame.
func (t *Transform) RotateMatrix(m math3d.Matrix) {
	t.Matrix.Transform(m)
	t.NormalMatrix.Transform(m)
}

// RotateSelf rotates about the local axes.
func (t *Transform) RotateSelf(dx, dy, dz float64) {
	t.Matrix.RotateSelf(dx, dy, dz)
	t.NormalMatrix.RotateSelf(dx, dy, dz)
}

// RotateSelfQuat rotates by q in the local frame.
func (t *Transform) RotateSelfQuat(q math3d.Quaternion) {
	t.Matrix.RotateSelfQuat(q)
	t.NormalMatrix.RotateSelfQuat(q)
}

// RotateSelfMatrix applies the rotation m in the local frame.
func (t *Transform) RotateSelfMatrix(m math3d.Matrix) {
	t.Matrix.PreTransform(m)
	t.NormalMatrix.PreTransform(m)
}
