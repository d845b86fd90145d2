package physics

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/sirupsen/logrus"
)

// WorldOption is a functional option for configuring a reference World.
type WorldOption func(*worldImpl)

// WithGravity sets the gravity acceleration applied to every dynamic body.
//
// Parameters:
//   - gravity: acceleration in units per second squared
//
// Returns:
//   - WorldOption: option function to apply
func WithGravity(gravity mgl32.Vec3) WorldOption {
	return func(w *worldImpl) {
		w.gravity = gravity
	}
}

// WithPlane adds a static infinite plane.
//
// Parameters:
//   - desc: the plane description
//
// Returns:
//   - WorldOption: option function to apply
func WithPlane(desc PlaneDescriptor) WorldOption {
	return func(w *worldImpl) {
		w.colliders = append(w.colliders, newPlaneCollider(desc))
	}
}

// WithBox adds a static, optionally rotated box.
//
// Parameters:
//   - desc: the box description
//
// Returns:
//   - WorldOption: option function to apply
func WithBox(desc BoxDescriptor) WorldOption {
	return func(w *worldImpl) {
		w.colliders = append(w.colliders, newBoxCollider(desc))
	}
}

// WithLogger sets the logger used for body lifecycle diagnostics.
//
// Parameters:
//   - log: the logger
//
// Returns:
//   - WorldOption: option function to apply
func WithLogger(log logrus.FieldLogger) WorldOption {
	return func(w *worldImpl) {
		if log != nil {
			w.log = log
		}
	}
}
