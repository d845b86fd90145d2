// Package physics defines the physics world contract consumed by the character controller
// and a small reference world used by the demo, the replay harness and tests.
package physics

import "github.com/go-gl/mathgl/mgl32"

// RaycastResult describes the first static surface a segment hits.
type RaycastResult struct {
	// Hit is false when nothing was hit; every other field is then zero.
	Hit bool
	// Distance from the segment start to Point.
	Distance float32
	// Normal is the unit surface normal at Point, facing the segment start.
	Normal mgl32.Vec3
	// Point is the world-space hit position.
	Point mgl32.Vec3
}

// SphereDescriptor describes a dynamic sphere body.
type SphereDescriptor struct {
	Position      mgl32.Vec3
	Radius        float32
	Mass          float32
	Restitution   float32
	Friction      float32
	AngularFactor mgl32.Vec3
}

// Body is a collision body owned by a World.
type Body interface {
	// ID returns the body's identifier, unique within its world.
	//
	// Returns:
	//   - uint64: the body id
	ID() uint64

	// Position returns the world-space center of the body.
	//
	// Returns:
	//   - mgl32.Vec3: the body center
	Position() mgl32.Vec3

	// SetPosition teleports the body. Velocity is unchanged.
	//
	// Parameters:
	//   - position: the new world-space center
	SetPosition(position mgl32.Vec3)

	// Velocity returns the linear velocity in units per second.
	//
	// Returns:
	//   - mgl32.Vec3: the linear velocity
	Velocity() mgl32.Vec3

	// SetVelocity overwrites the linear velocity.
	//
	// Parameters:
	//   - velocity: the new linear velocity
	SetVelocity(velocity mgl32.Vec3)

	// Radius returns the sphere radius.
	//
	// Returns:
	//   - float32: the radius
	Radius() float32

	// Mass returns the body mass. Zero means static.
	//
	// Returns:
	//   - float32: the mass
	Mass() float32

	// Restitution returns the bounce coefficient.
	//
	// Returns:
	//   - float32: the restitution
	Restitution() float32

	// Friction returns the current friction coefficient.
	//
	// Returns:
	//   - float32: the friction coefficient
	Friction() float32

	// SetFriction changes the friction coefficient. Takes effect on the next Step.
	//
	// Parameters:
	//   - friction: the new coefficient, clamped at 0
	SetFriction(friction float32)

	// AngularFactor returns the per-axis angular response multiplier.
	//
	// Returns:
	//   - mgl32.Vec3: the angular factor
	AngularFactor() mgl32.Vec3
}

// World is the physics capability the character controller needs.
type World interface {
	// Raycast traces the segment from -> to against static geometry and returns the
	// closest hit. Bodies are not considered.
	//
	// Parameters:
	//   - from: segment start
	//   - to: segment end
	//
	// Returns:
	//   - RaycastResult: the closest hit, or a result with Hit false
	Raycast(from, to mgl32.Vec3) RaycastResult

	// ApplyImpulse applies an instantaneous impulse to a body.
	//
	// Parameters:
	//   - body: the target body
	//   - impulse: the impulse in world space
	//   - localPoint: application point relative to the body center
	ApplyImpulse(body Body, impulse, localPoint mgl32.Vec3)

	// CreateSphere adds a dynamic sphere body to the world.
	//
	// Parameters:
	//   - desc: the sphere description
	//
	// Returns:
	//   - Body: the new body
	CreateSphere(desc SphereDescriptor) Body

	// DestroyBody removes a body from the world. Unknown or already destroyed bodies are ignored.
	//
	// Parameters:
	//   - body: the body to remove
	DestroyBody(body Body)
}

// Simulation is a World the scheduler can advance.
type Simulation interface {
	World

	// Step advances the simulation by dt seconds.
	//
	// Parameters:
	//   - dt: the time step in seconds
	Step(dt float32)

	// Bodies returns the live bodies in creation order.
	//
	// Returns:
	//   - []Body: the bodies
	Bodies() []Body
}
