package render

import (
	"math"

	"github.com/lampy-engine/lampy/internal/ecs"
	"github.com/lampy-engine/lampy/internal/gpu"
)

// Mat4 and Mat3 are render-side aliases of the GPU wire format: the
// render core builds matrices in exactly the layout the shader uniform
// contract expects, so no conversion step exists at the pass boundary.
type Mat4 = gpu.Mat4
type Mat3 = gpu.Mat3

// identity4 is the zero-rotation, zero-translation, unit-scale matrix.
func identity4() Mat4 {
	var m Mat4
	m[0], m[5], m[10], m[15] = 1, 1, 1, 1
	return m
}

func vecSub(a, b ecs.Vec3) ecs.Vec3 { return ecs.Vec3{X: a.X - b.X, Y: a.Y - b.Y, Z: a.Z - b.Z} }
func vecAdd(a, b ecs.Vec3) ecs.Vec3 { return ecs.Vec3{X: a.X + b.X, Y: a.Y + b.Y, Z: a.Z + b.Z} }
func vecScale(a ecs.Vec3, s float32) ecs.Vec3 {
	return ecs.Vec3{X: a.X * s, Y: a.Y * s, Z: a.Z * s}
}
func vecLen(a ecs.Vec3) float32 {
	return float32(math.Sqrt(float64(a.X*a.X + a.Y*a.Y + a.Z*a.Z)))
}
func vecNormalize(a ecs.Vec3) ecs.Vec3 {
	l := vecLen(a)
	if l == 0 {
		return a
	}
	return vecScale(a, 1/l)
}
func vecCross(a, b ecs.Vec3) ecs.Vec3 {
	return ecs.Vec3{
		X: a.Y*b.Z - a.Z*b.Y,
		Y: a.Z*b.X - a.X*b.Z,
		Z: a.X*b.Y - a.Y*b.X,
	}
}
func vecDot(a, b ecs.Vec3) float32 { return a.X*b.X + a.Y*b.Y + a.Z*b.Z }

// rotateVec3 applies quaternion q to v.
func rotateVec3(q ecs.Quat, v ecs.Vec3) ecs.Vec3 {
	qv := ecs.Vec3{X: q.X, Y: q.Y, Z: q.Z}
	uv := vecCross(qv, v)
	uuv := vecCross(qv, uv)
	uv = vecScale(uv, 2*q.W)
	uuv = vecScale(uuv, 2)
	return vecAdd(v, vecAdd(uv, uuv))
}

// lookAt builds a column-major right-handed view matrix, matching the
// layout every other Mat4 in this package uses.
func lookAt(eye, center, up ecs.Vec3) Mat4 {
	f := vecNormalize(vecSub(center, eye))
	s := vecNormalize(vecCross(f, up))
	u := vecCross(s, f)

	var m Mat4
	m[0], m[4], m[8] = s.X, s.Y, s.Z
	m[1], m[5], m[9] = u.X, u.Y, u.Z
	m[2], m[6], m[10] = -f.X, -f.Y, -f.Z
	m[12] = -vecDot(s, eye)
	m[13] = -vecDot(u, eye)
	m[14] = vecDot(f, eye)
	m[15] = 1
	return m
}

// perspective builds a column-major right-handed perspective projection
// matrix with fovYRadians, an aspect ratio, and near/far clip planes.
func perspective(fovYRadians, aspect, near, far float32) Mat4 {
	tanHalf := float32(math.Tan(float64(fovYRadians) / 2))
	var m Mat4
	m[0] = 1 / (aspect * tanHalf)
	m[5] = 1 / tanHalf
	m[10] = -(far + near) / (far - near)
	m[11] = -1
	m[14] = -(2 * far * near) / (far - near)
	return m
}

// translationScaleRotation composes a model matrix from TRS components
// in the standard T * R * S order.
func translationScaleRotation(pos ecs.Vec3, rot ecs.Quat, scale ecs.Vec3) Mat4 {
	x, y, z, w := rot.X, rot.Y, rot.Z, rot.W
	xx, yy, zz := x*x, y*y, z*z
	xy, xz, yz := x*y, x*z, y*z
	wx, wy, wz := w*x, w*y, w*z

	var m Mat4
	m[0] = (1 - 2*(yy+zz)) * scale.X
	m[1] = (2 * (xy + wz)) * scale.X
	m[2] = (2 * (xz - wy)) * scale.X

	m[4] = (2 * (xy - wz)) * scale.Y
	m[5] = (1 - 2*(xx+zz)) * scale.Y
	m[6] = (2 * (yz + wx)) * scale.Y

	m[8] = (2 * (xz + wy)) * scale.Z
	m[9] = (2 * (yz - wx)) * scale.Z
	m[10] = (1 - 2*(xx+yy)) * scale.Z

	m[12], m[13], m[14] = pos.X, pos.Y, pos.Z
	m[15] = 1
	return m
}

// normalMatrix computes mat3(transpose(inverse(model))) for a rigid TRS
// matrix built from translationScaleRotation. For a pure rotation+uniform
// scale (no shear), the upper 3x3 of the model matrix scaled by the
// inverse-square of the scale is sufficient; this avoids a general 4x4
// inverse for the common case the built-in passes exercise.
func normalMatrix(model Mat4, scale ecs.Vec3) Mat3 {
	inv := func(s float32) float32 {
		if s == 0 {
			return 0
		}
		return 1 / (s * s)
	}
	sx, sy, sz := inv(scale.X), inv(scale.Y), inv(scale.Z)
	return Mat3{
		model[0] * sx, model[1] * sx, model[2] * sx,
		model[4] * sy, model[5] * sy, model[6] * sy,
		model[8] * sz, model[9] * sz, model[10] * sz,
	}
}
