// Package character implements a first-person character controller: a non-rotating sphere body
// moved by sampled input, with raycast ground sensing, slope-aware movement, friction switching,
// debounced jumping and a mouse-look camera riding on the body.
package character

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-fps/common"
	"github.com/Carmen-Shannon/oxy-fps/engine/camera"
	"github.com/Carmen-Shannon/oxy-fps/engine/input"
	"github.com/Carmen-Shannon/oxy-fps/engine/logger"
	"github.com/Carmen-Shannon/oxy-fps/engine/physics"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/sirupsen/logrus"
)

// Controller drives one first-person character.
// Update runs once per physics step before the world steps; SyncCamera runs after it.
type Controller interface {
	// Update runs one frame of the controller: ground probe, slope alignment, movement,
	// friction, jump and mouse-look. Does nothing after Dispose.
	Update()

	// SyncCamera moves the camera carrier to the body position. Call after the physics step.
	SyncCamera()

	// BeforePhysics calls Update.
	BeforePhysics()

	// AfterPhysics calls SyncCamera.
	AfterPhysics()

	// MoveSpeed returns the base movement per frame.
	//
	// Returns:
	//   - float32: units moved per frame at full input
	MoveSpeed() float32

	// SetMoveSpeed sets the base movement per frame. Takes effect next frame.
	//
	// Parameters:
	//   - speed: units per frame
	SetMoveSpeed(speed float32)

	// SprintSpeed returns the extra movement per frame while sprinting.
	//
	// Returns:
	//   - float32: units added per frame at full sprint input
	SprintSpeed() float32

	// SetSprintSpeed sets the extra movement per frame while sprinting. Takes effect next frame.
	//
	// Parameters:
	//   - speed: units per frame
	SetSprintSpeed(speed float32)

	// JumpForce returns the magnitude of the upward jump impulse.
	//
	// Returns:
	//   - float32: the impulse magnitude
	JumpForce() float32

	// SetJumpForce sets the magnitude of the upward jump impulse. Takes effect next frame.
	//
	// Parameters:
	//   - force: the impulse magnitude
	SetJumpForce(force float32)

	// LookSensitivity returns the radians of rotation per unit of pointer delta.
	//
	// Returns:
	//   - float32: the look sensitivity
	LookSensitivity() float32

	// SetLookSensitivity sets the radians of rotation per unit of pointer delta.
	// Takes effect next frame.
	//
	// Parameters:
	//   - sensitivity: the look sensitivity
	SetLookSensitivity(sensitivity float32)

	// SetKeyBinding rebinds a digital axis on the controller's sampler.
	//
	// Parameters:
	//   - axis: the digital axis
	//   - key: textual key identifier
	SetKeyBinding(axis input.Axis, key string)

	// JumpCooldown returns the frames remaining before the cooldown expires.
	//
	// Returns:
	//   - int: remaining cooldown frames
	JumpCooldown() int

	// LastGroundSample returns the ground probe of the most recent Update, for diagnostics.
	//
	// Returns:
	//   - GroundSample: the last sample
	LastGroundSample() GroundSample

	// Grounded reports whether the most recent Update classified the character as grounded-stable.
	//
	// Returns:
	//   - bool: true when grounded-stable
	Grounded() bool

	// Body returns the collision body.
	//
	// Returns:
	//   - physics.Body: the sphere body
	Body() physics.Body

	// Camera returns the first-person camera.
	//
	// Returns:
	//   - camera.Camera: the camera
	Camera() camera.Camera

	// Sampler returns the input sampler the controller reads.
	//
	// Returns:
	//   - input.Sampler: the sampler
	Sampler() input.Sampler

	// Dispose destroys the body and disposes the sampler if the controller created it.
	// Safe to call more than once.
	Dispose()
}

type controllerImpl struct {
	world   physics.World
	body    physics.Body
	camera  camera.Camera
	carrier camera.Carrier

	sampler     input.Sampler
	ownsSampler bool
	source      input.DeviceSource

	log          logrus.FieldLogger
	jumpCallback func()

	startPosition mgl32.Vec3
	radius        float32
	mass          float32
	cameraOffset  mgl32.Vec3
	bindings      map[input.Axis]string

	moveSpeed       float32
	sprintSpeed     float32
	jumpForce       float32
	lookSensitivity float32

	jumpCooldown int
	lastGround   GroundSample
	grounded     bool

	disposed    bool
	disposeOnce sync.Once
}

var _ Controller = &controllerImpl{}

// NewController creates a controller, its sphere body in world and its camera.
// Without WithSampler the controller creates its own sampler (on the source given by
// WithDeviceSource, or on a private virtual source) and disposes it with the controller.
//
// Parameters:
//   - world: the physics world the body lives in
//   - options: functional options to configure the controller
//
// Returns:
//   - Controller: the new controller
func NewController(world physics.World, options ...ControllerOption) Controller {
	c := &controllerImpl{
		world:           world,
		log:             logger.Discard(),
		radius:          DefaultBodyRadius,
		mass:            DefaultBodyMass,
		cameraOffset:    mgl32.Vec3{0, DefaultCameraHeight, 0},
		moveSpeed:       DefaultMoveSpeed,
		sprintSpeed:     DefaultSprintSpeed,
		jumpForce:       DefaultJumpForce,
		lookSensitivity: DefaultLookSensitivity,
	}
	for _, opt := range options {
		opt(c)
	}

	if c.sampler == nil {
		samplerOpts := []input.SamplerOption{input.WithLogger(c.log), input.WithKeyBindings(c.bindings)}
		if c.source != nil {
			samplerOpts = append(samplerOpts, input.WithDeviceSource(c.source))
		}
		c.sampler = input.NewSampler(samplerOpts...)
		c.ownsSampler = true
	} else {
		for axis, key := range c.bindings {
			c.sampler.SetKeyBinding(axis, key)
		}
	}

	c.body = world.CreateSphere(physics.SphereDescriptor{
		Position:      c.startPosition,
		Radius:        c.radius,
		Mass:          c.mass,
		Restitution:   DefaultBodyRestitution,
		Friction:      GroundedFriction,
		AngularFactor: mgl32.Vec3{},
	})

	c.carrier = camera.NewCarrier(c.startPosition)
	if c.camera == nil {
		c.camera = camera.NewCamera(
			camera.WithNear(DefaultCameraNear),
			camera.WithFar(DefaultCameraFar),
		)
	}
	c.camera.SetPosition(c.cameraOffset)
	c.camera.SetCarrier(c.carrier)

	c.log.WithFields(logrus.Fields{
		"position": c.startPosition,
		"body":     c.body.ID(),
	}).Debug("character created")
	return c
}

func (c *controllerImpl) Update() {
	if c.disposed {
		return
	}

	ground, align := probeGround(c.world, c.body.Position())
	c.lastGround = ground

	right, forward := common.HorizontalBasis(c.camera.WorldMatrix())
	movement := forward.Mul(c.sampler.Get(input.AxisForward) - c.sampler.Get(input.AxisBackward)).
		Add(right.Mul(c.sampler.Get(input.AxisRight) - c.sampler.Get(input.AxisLeft)))
	movement = align.Rotate(common.SafeNormalize(movement))
	speed := c.moveSpeed + c.sprintSpeed*c.sampler.Get(input.AxisSprint)
	if movement != (mgl32.Vec3{}) {
		c.body.SetPosition(c.body.Position().Add(movement.Mul(speed)))
	}

	jumpReady := c.jumpCooldown == 0
	if c.jumpCooldown > 0 {
		c.jumpCooldown--
	}

	stable := ground.Stable()
	if stable {
		c.body.SetFriction(GroundedFriction)
	} else {
		c.body.SetFriction(AirborneFriction)
	}
	if stable != c.grounded {
		c.log.WithFields(logrus.Fields{
			"grounded": stable,
			"hit":      ground.Hit,
			"tilt":     ground.Tilt,
		}).Debug("ground state changed")
	}
	c.grounded = stable

	if jumpReady && ground.CanJumpFrom() && c.sampler.Get(input.AxisJump) > 0 {
		c.world.ApplyImpulse(c.body, common.WorldUp.Mul(c.jumpForce), mgl32.Vec3{})
		c.jumpCooldown = JumpCooldownFrames
		c.log.WithField("distance", ground.Distance).Debug("jump")
		if c.jumpCallback != nil {
			c.jumpCallback()
		}
	}

	rot := c.camera.Rotation()
	rot[1] += c.sampler.Get(input.AxisMouseDeltaY) * c.lookSensitivity
	rot[0] = common.Clamp(rot[0]+c.sampler.Get(input.AxisMouseDeltaX)*c.lookSensitivity, MinPitch, MaxPitch)
	c.camera.SetRotation(rot)
}

func (c *controllerImpl) SyncCamera() {
	if c.disposed {
		return
	}
	c.carrier.SetPosition(c.body.Position())
}

func (c *controllerImpl) BeforePhysics() {
	c.Update()
}

func (c *controllerImpl) AfterPhysics() {
	c.SyncCamera()
}

func (c *controllerImpl) MoveSpeed() float32 {
	return c.moveSpeed
}

func (c *controllerImpl) SetMoveSpeed(speed float32) {
	c.moveSpeed = speed
}

func (c *controllerImpl) SprintSpeed() float32 {
	return c.sprintSpeed
}

func (c *controllerImpl) SetSprintSpeed(speed float32) {
	c.sprintSpeed = speed
}

func (c *controllerImpl) JumpForce() float32 {
	return c.jumpForce
}

func (c *controllerImpl) SetJumpForce(force float32) {
	c.jumpForce = force
}

func (c *controllerImpl) LookSensitivity() float32 {
	return c.lookSensitivity
}

func (c *controllerImpl) SetLookSensitivity(sensitivity float32) {
	c.lookSensitivity = sensitivity
}

func (c *controllerImpl) SetKeyBinding(axis input.Axis, key string) {
	c.sampler.SetKeyBinding(axis, key)
}

func (c *controllerImpl) JumpCooldown() int {
	return c.jumpCooldown
}

func (c *controllerImpl) LastGroundSample() GroundSample {
	return c.lastGround
}

func (c *controllerImpl) Grounded() bool {
	return c.grounded
}

func (c *controllerImpl) Body() physics.Body {
	return c.body
}

func (c *controllerImpl) Camera() camera.Camera {
	return c.camera
}

func (c *controllerImpl) Sampler() input.Sampler {
	return c.sampler
}

func (c *controllerImpl) Dispose() {
	c.disposeOnce.Do(func() {
		c.disposed = true
		c.world.DestroyBody(c.body)
		c.camera.SetCarrier(nil)
		if c.ownsSampler {
			c.sampler.Dispose()
		}
		c.log.WithField("body", c.body.ID()).Debug("character disposed")
	})
}
