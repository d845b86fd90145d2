package camera

import (
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-fps/common"
	"github.com/go-gl/mathgl/mgl32"
)

type cameraImpl struct {
	mu *sync.Mutex

	position mgl32.Vec3
	rotation mgl32.Vec3

	fov    float32
	aspect float32
	near   float32
	far    float32

	carrier Carrier
}

// Camera defines the interface for a first-person camera node.
// The camera holds a local offset and Euler rotation relative to its Carrier, plus perspective
// settings. Matrices are computed on demand so they always reflect the carrier's latest position.
type Camera interface {
	// Position returns the camera's position relative to its carrier.
	//
	// Returns:
	//   - mgl32.Vec3: the local position
	Position() mgl32.Vec3

	// SetPosition sets the camera's position relative to its carrier.
	//
	// Parameters:
	//   - position: the local position
	SetPosition(position mgl32.Vec3)

	// Rotation returns the Euler rotation in radians: x is pitch (positive looks down),
	// y is yaw, z is roll.
	//
	// Returns:
	//   - mgl32.Vec3: the Euler rotation
	Rotation() mgl32.Vec3

	// SetRotation sets the Euler rotation in radians.
	//
	// Parameters:
	//   - rotation: x = pitch, y = yaw, z = roll
	SetRotation(rotation mgl32.Vec3)

	// Fov returns the vertical field of view in radians.
	//
	// Returns:
	//   - float32: field of view in radians
	Fov() float32

	// Aspect returns the aspect ratio (width / height).
	//
	// Returns:
	//   - float32: the aspect ratio
	Aspect() float32

	// Near returns the near clipping plane distance.
	//
	// Returns:
	//   - float32: near plane distance
	Near() float32

	// Far returns the far clipping plane distance.
	//
	// Returns:
	//   - float32: far plane distance
	Far() float32

	// SetFov sets the vertical field of view in radians.
	//
	// Parameters:
	//   - fov: field of view in radians
	SetFov(fov float32)

	// SetAspect sets the aspect ratio (width / height).
	//
	// Parameters:
	//   - aspect: the aspect ratio
	SetAspect(aspect float32)

	// SetNear sets the near clipping plane distance.
	//
	// Parameters:
	//   - near: near plane distance
	SetNear(near float32)

	// SetFar sets the far clipping plane distance.
	//
	// Parameters:
	//   - far: far plane distance
	SetFar(far float32)

	// Carrier returns the node the camera is parented to, or nil.
	//
	// Returns:
	//   - Carrier: the parent node
	Carrier() Carrier

	// SetCarrier parents the camera to a node. Nil detaches it, placing the camera at its
	// local position in world space.
	//
	// Parameters:
	//   - carrier: the parent node
	SetCarrier(carrier Carrier)

	// WorldPosition returns the camera's world-space position.
	//
	// Returns:
	//   - mgl32.Vec3: carrier position plus local position
	WorldPosition() mgl32.Vec3

	// WorldMatrix returns the camera's world transform: translation to the world position
	// followed by yaw, pitch and roll. Column 0 is the camera's right axis and column 2 its
	// forward axis.
	//
	// Returns:
	//   - mgl32.Mat4: the world transform
	WorldMatrix() mgl32.Mat4

	// Forward returns the unit forward direction in world space.
	//
	// Returns:
	//   - mgl32.Vec3: the view direction
	Forward() mgl32.Vec3

	// ViewMatrix returns the inverse of the world transform with Z flipped so
	// view space looks down -Z.
	//
	// Returns:
	//   - mgl32.Mat4: the view matrix
	ViewMatrix() mgl32.Mat4

	// ProjectionMatrix returns the perspective projection matrix.
	//
	// Returns:
	//   - mgl32.Mat4: the projection matrix
	ProjectionMatrix() mgl32.Mat4

	// ViewProjectionMatrix returns projection * view.
	//
	// Returns:
	//   - mgl32.Mat4: the combined matrix
	ViewProjectionMatrix() mgl32.Mat4
}

var _ Camera = &cameraImpl{}

// NewCamera creates a new Camera with default perspective settings and no carrier.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:     &sync.Mutex{},
		fov:    45.0 * (math.Pi / 180.0), // radians
		aspect: 1.0,
		near:   0.1,
		far:    100.0,
	}
	for _, option := range options {
		option(c)
	}
	return c
}

func (c *cameraImpl) Position() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.position
}

func (c *cameraImpl) SetPosition(position mgl32.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.position = position
}

func (c *cameraImpl) Rotation() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rotation
}

func (c *cameraImpl) SetRotation(rotation mgl32.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rotation = rotation
}

func (c *cameraImpl) Fov() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fov
}

func (c *cameraImpl) Aspect() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aspect
}

func (c *cameraImpl) Near() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.near
}

func (c *cameraImpl) Far() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.far
}

func (c *cameraImpl) SetFov(fov float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fov = fov
}

func (c *cameraImpl) SetAspect(aspect float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.aspect = aspect
}

func (c *cameraImpl) SetNear(near float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.near = near
}

func (c *cameraImpl) SetFar(far float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.far = far
}

func (c *cameraImpl) Carrier() Carrier {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.carrier
}

func (c *cameraImpl) SetCarrier(carrier Carrier) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.carrier = carrier
}

func (c *cameraImpl) WorldPosition() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.worldPosition()
}

func (c *cameraImpl) WorldMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.worldMatrix()
}

func (c *cameraImpl) Forward() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return common.SafeNormalize(c.worldMatrix().Col(2).Vec3())
}

func (c *cameraImpl) ViewMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewMatrix()
}

func (c *cameraImpl) ProjectionMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return mgl32.Perspective(c.fov, c.aspect, c.near, c.far)
}

func (c *cameraImpl) ViewProjectionMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return mgl32.Perspective(c.fov, c.aspect, c.near, c.far).Mul4(c.viewMatrix())
}

// viewMatrix inverts the world frame and flips Z so the camera looks down -Z
// in view space, as mgl32.Perspective expects. Caller must hold the mutex.
func (c *cameraImpl) viewMatrix() mgl32.Mat4 {
	return mgl32.Scale3D(1, 1, -1).Mul4(c.worldMatrix().Inv())
}

// worldPosition returns carrier + local position. Caller must hold the mutex.
func (c *cameraImpl) worldPosition() mgl32.Vec3 {
	if c.carrier == nil {
		return c.position
	}
	return c.carrier.Position().Add(c.position)
}

// worldMatrix composes T(world position) * Ry(yaw) * Rx(pitch) * Rz(roll).
// Caller must hold the mutex.
func (c *cameraImpl) worldMatrix() mgl32.Mat4 {
	p := c.worldPosition()
	return mgl32.Translate3D(p.X(), p.Y(), p.Z()).
		Mul4(common.EulerRotation(c.rotation.X(), c.rotation.Y(), c.rotation.Z()))
}
