package common

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// PerspectiveZO creates a right-handed perspective projection mapping depth to the
// WebGPU clip range [0, 1]. mgl32.Perspective targets the OpenGL range [-1, 1] and
// would clip the near half of the scene.
//
// Parameters:
//   - fovY: vertical field of view in radians
//   - aspect: viewport aspect ratio (width/height)
//   - near: near clipping plane distance (must be > 0)
//   - far: far clipping plane distance (must be > near)
//
// Returns:
//   - mgl32.Mat4: the column-major projection matrix
func PerspectiveZO(fovY, aspect, near, far float32) mgl32.Mat4 {
	f := 1.0 / math32.Tan(fovY/2.0)
	var out mgl32.Mat4
	out[0] = f / aspect
	out[5] = f
	out[10] = far / (near - far)
	out[11] = -1.0
	out[14] = (near * far) / (near - far)
	return out
}

// AnyPerpendicular returns a unit vector orthogonal to v.
// The axis least aligned with v is crossed with it so the result never collapses.
//
// Parameters:
//   - v: a non-zero reference vector
//
// Returns:
//   - mgl32.Vec3: a unit vector perpendicular to v, or +X when v is zero
func AnyPerpendicular(v mgl32.Vec3) mgl32.Vec3 {
	if v.LenSqr() == 0 {
		return mgl32.Vec3{1, 0, 0}
	}
	axis := mgl32.Vec3{1, 0, 0}
	if math32.Abs(v.X()) > 0.9*v.Len() {
		axis = mgl32.Vec3{0, 1, 0}
	}
	return v.Cross(axis).Normalize()
}
