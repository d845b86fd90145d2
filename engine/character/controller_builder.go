package character

import (
	"github.com/Carmen-Shannon/oxy-fps/engine/camera"
	"github.com/Carmen-Shannon/oxy-fps/engine/input"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/sirupsen/logrus"
)

// ControllerOption is a functional option for configuring a Controller.
type ControllerOption func(*controllerImpl)

// WithPosition sets the initial world position of the body center.
//
// Parameters:
//   - position: the spawn position
//
// Returns:
//   - ControllerOption: option function to apply
func WithPosition(position mgl32.Vec3) ControllerOption {
	return func(c *controllerImpl) {
		c.startPosition = position
	}
}

// WithSampler makes the controller read an existing sampler. The controller never disposes it
// and the caller remains responsible for calling EndFrame.
//
// Parameters:
//   - sampler: the borrowed sampler
//
// Returns:
//   - ControllerOption: option function to apply
func WithSampler(sampler input.Sampler) ControllerOption {
	return func(c *controllerImpl) {
		c.sampler = sampler
	}
}

// WithDeviceSource makes the controller create its sampler on a shared device source.
// Ignored when WithSampler is also given.
//
// Parameters:
//   - source: the borrowed device source
//
// Returns:
//   - ControllerOption: option function to apply
func WithDeviceSource(source input.DeviceSource) ControllerOption {
	return func(c *controllerImpl) {
		c.source = source
	}
}

// WithKeyBindings overrides digital axis bindings on the controller's sampler.
//
// Parameters:
//   - bindings: axis to key identifier
//
// Returns:
//   - ControllerOption: option function to apply
func WithKeyBindings(bindings map[input.Axis]string) ControllerOption {
	return func(c *controllerImpl) {
		if c.bindings == nil {
			c.bindings = make(map[input.Axis]string, len(bindings))
		}
		for axis, key := range bindings {
			c.bindings[axis] = key
		}
	}
}

// WithCamera uses an existing camera instead of creating one. The controller sets its local
// position to the camera offset and parents it to the body carrier.
//
// Parameters:
//   - cam: the camera
//
// Returns:
//   - ControllerOption: option function to apply
func WithCamera(cam camera.Camera) ControllerOption {
	return func(c *controllerImpl) {
		c.camera = cam
	}
}

// WithCameraOffset sets the camera position relative to the body center.
//
// Parameters:
//   - offset: the local offset (default {0, 0.6, 0})
//
// Returns:
//   - ControllerOption: option function to apply
func WithCameraOffset(offset mgl32.Vec3) ControllerOption {
	return func(c *controllerImpl) {
		c.cameraOffset = offset
	}
}

// WithBodyRadius sets the collision sphere radius.
//
// Parameters:
//   - radius: the radius (default 0.5)
//
// Returns:
//   - ControllerOption: option function to apply
func WithBodyRadius(radius float32) ControllerOption {
	return func(c *controllerImpl) {
		if radius > 0 {
			c.radius = radius
		}
	}
}

// WithBodyMass sets the collision body mass.
//
// Parameters:
//   - mass: the mass (default 10)
//
// Returns:
//   - ControllerOption: option function to apply
func WithBodyMass(mass float32) ControllerOption {
	return func(c *controllerImpl) {
		if mass > 0 {
			c.mass = mass
		}
	}
}

// WithMoveSpeed sets the base movement per frame.
//
// Parameters:
//   - speed: units per frame (default 0.06)
//
// Returns:
//   - ControllerOption: option function to apply
func WithMoveSpeed(speed float32) ControllerOption {
	return func(c *controllerImpl) {
		c.moveSpeed = speed
	}
}

// WithSprintSpeed sets the extra movement per frame while sprinting.
//
// Parameters:
//   - speed: units per frame (default 0.05)
//
// Returns:
//   - ControllerOption: option function to apply
func WithSprintSpeed(speed float32) ControllerOption {
	return func(c *controllerImpl) {
		c.sprintSpeed = speed
	}
}

// WithJumpForce sets the magnitude of the upward jump impulse.
//
// Parameters:
//   - force: the impulse magnitude (default 30)
//
// Returns:
//   - ControllerOption: option function to apply
func WithJumpForce(force float32) ControllerOption {
	return func(c *controllerImpl) {
		c.jumpForce = force
	}
}

// WithLookSensitivity sets the radians of rotation per unit of pointer delta.
//
// Parameters:
//   - sensitivity: the look sensitivity (default 1/300)
//
// Returns:
//   - ControllerOption: option function to apply
func WithLookSensitivity(sensitivity float32) ControllerOption {
	return func(c *controllerImpl) {
		c.lookSensitivity = sensitivity
	}
}

// WithJumpCallback registers a function called every time a jump fires.
//
// Parameters:
//   - callback: invoked after the jump impulse is applied
//
// Returns:
//   - ControllerOption: option function to apply
func WithJumpCallback(callback func()) ControllerOption {
	return func(c *controllerImpl) {
		c.jumpCallback = callback
	}
}

// WithLogger sets the logger used for lifecycle and ground-state diagnostics.
//
// Parameters:
//   - log: the logger
//
// Returns:
//   - ControllerOption: option function to apply
func WithLogger(log logrus.FieldLogger) ControllerOption {
	return func(c *controllerImpl) {
		if log != nil {
			c.log = log
		}
	}
}
