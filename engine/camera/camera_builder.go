package camera

import "github.com/go-gl/mathgl/mgl32"

type CameraBuilderOption func(*cameraImpl)

// WithPosition sets the camera's position relative to its carrier.
//
// Parameters:
//   - position: the local position
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's local position
func WithPosition(position mgl32.Vec3) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.position = position
	}
}

// WithRotation sets the camera's initial Euler rotation in radians (x = pitch, y = yaw, z = roll).
//
// Parameters:
//   - rotation: the Euler rotation
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's rotation
func WithRotation(rotation mgl32.Vec3) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.rotation = rotation
	}
}

// WithFov sets the camera's field of view in radians.
//
// Parameters:
//   - fov: field of view in radians
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's field of view
func WithFov(fov float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.fov = fov
	}
}

// WithAspect sets the camera's aspect ratio (width / height).
//
// Parameters:
//   - aspect: the aspect ratio to set
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's aspect ratio
func WithAspect(aspect float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.aspect = aspect
	}
}

// WithNear sets the near clipping plane distance.
//
// Parameters:
//   - near: near plane distance
//
// Returns:
//   - CameraBuilderOption: a function that sets the near plane
func WithNear(near float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.near = near
	}
}

// WithFar sets the far clipping plane distance.
//
// Parameters:
//   - far: far plane distance
//
// Returns:
//   - CameraBuilderOption: functional option to set the far plane
func WithFar(far float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.far = far
	}
}

// WithCarrier parents the camera to a carrier node.
//
// Parameters:
//   - carrier: the parent node
//
// Returns:
//   - CameraBuilderOption: functional option to set the carrier
func WithCarrier(carrier Carrier) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.carrier = carrier
	}
}
