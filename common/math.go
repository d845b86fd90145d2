package common

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// WorldUp is the world-space up axis. The engine is Y-up.
var WorldUp = mgl32.Vec3{0, 1, 0}

// normalizeEpsilon is the squared length below which a vector is treated as zero-length.
const normalizeEpsilon = 1e-12

// SafeNormalize returns v scaled to unit length, or the zero vector if v has (near) zero length.
// Unlike mgl32.Vec3.Normalize it never produces NaN components.
//
// Parameters:
//   - v: the vector to normalize
//
// Returns:
//   - mgl32.Vec3: the unit vector, or {0, 0, 0}
func SafeNormalize(v mgl32.Vec3) mgl32.Vec3 {
	lenSq := v.Dot(v)
	if lenSq < normalizeEpsilon {
		return mgl32.Vec3{}
	}
	return v.Mul(1 / math32.Sqrt(lenSq))
}

// Clamp limits value to the closed range [lo, hi].
//
// Parameters:
//   - value: the value to clamp
//   - lo: lower bound
//   - hi: upper bound
//
// Returns:
//   - float32: the clamped value
func Clamp(value, lo, hi float32) float32 {
	return math32.Min(hi, math32.Max(lo, value))
}

// AngleBetween returns the unsigned angle in radians between two unit vectors.
// The dot product is clamped to [-1, 1] before acos so rounding on nearly parallel
// vectors cannot produce NaN.
//
// Parameters:
//   - a: first unit vector
//   - b: second unit vector
//
// Returns:
//   - float32: angle in radians in [0, π]
func AngleBetween(a, b mgl32.Vec3) float32 {
	return math32.Acos(Clamp(a.Dot(b), -1, 1))
}

// EulerRotation builds a rotation matrix from Euler angles applied in Y * X * Z order
// (yaw, then pitch, then roll), the same convention a first-person camera uses.
// With all angles zero the local +Z axis is forward and +X is right.
//
// Parameters:
//   - pitch: rotation about X in radians (positive looks down)
//   - yaw: rotation about Y in radians
//   - roll: rotation about Z in radians
//
// Returns:
//   - mgl32.Mat4: the homogeneous rotation matrix (column-major)
func EulerRotation(pitch, yaw, roll float32) mgl32.Mat4 {
	return mgl32.HomogRotate3DY(yaw).
		Mul4(mgl32.HomogRotate3DX(pitch)).
		Mul4(mgl32.HomogRotate3DZ(roll))
}

// HorizontalBasis extracts the right and forward axes of a world transform and flattens
// them onto the XZ plane. Column 0 of the matrix is the local right axis and column 2 is
// the local forward axis. A flattened axis that degenerates to zero length (looking
// straight up or down) is returned as the zero vector.
//
// Parameters:
//   - world: the world transform to read
//
// Returns:
//   - right: unit horizontal right vector (or zero)
//   - forward: unit horizontal forward vector (or zero)
func HorizontalBasis(world mgl32.Mat4) (right, forward mgl32.Vec3) {
	right = world.Col(0).Vec3()
	forward = world.Col(2).Vec3()
	right[1] = 0
	forward[1] = 0
	return SafeNormalize(right), SafeNormalize(forward)
}

// SurfaceAlignment returns the rotation that carries WorldUp onto normal, and the tilt angle
// between them. Tilts at or below minTilt produce the identity rotation so flat ground never
// perturbs horizontal movement.
//
// Parameters:
//   - normal: unit surface normal
//   - minTilt: tilt in radians below which no rotation is built
//
// Returns:
//   - mgl32.Quat: rotation about normalize(WorldUp × normal) by the tilt angle
//   - float32: the tilt angle in radians
func SurfaceAlignment(normal mgl32.Vec3, minTilt float32) (mgl32.Quat, float32) {
	tilt := AngleBetween(WorldUp, normal)
	if tilt <= minTilt {
		return mgl32.QuatIdent(), tilt
	}
	axis := SafeNormalize(WorldUp.Cross(normal))
	if axis == (mgl32.Vec3{}) {
		// normal is anti-parallel to up; any horizontal axis works
		axis = mgl32.Vec3{1, 0, 0}
	}
	return mgl32.QuatRotate(tilt, axis), tilt
}
