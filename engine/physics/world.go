package physics

import (
	"github.com/Carmen-Shannon/oxy-fps/engine/logger"
	"github.com/chewxy/math32"
	"github.com/elliotchance/orderedmap/v2"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/sirupsen/logrus"
)

// DefaultGravity is the gravity of a world built without WithGravity.
var DefaultGravity = mgl32.Vec3{0, -9.81, 0}

// contactIterations is how many times contacts are resolved per step. A second pass settles
// spheres wedged between two colliders (a ramp meeting the ground).
const contactIterations = 2

type sphereBody struct {
	id            uint64
	position      mgl32.Vec3
	velocity      mgl32.Vec3
	radius        float32
	mass          float32
	restitution   float32
	friction      float32
	angularFactor mgl32.Vec3
}

var _ Body = &sphereBody{}

func (b *sphereBody) ID() uint64                      { return b.id }
func (b *sphereBody) Position() mgl32.Vec3            { return b.position }
func (b *sphereBody) SetPosition(position mgl32.Vec3) { b.position = position }
func (b *sphereBody) Velocity() mgl32.Vec3            { return b.velocity }
func (b *sphereBody) SetVelocity(velocity mgl32.Vec3) { b.velocity = velocity }
func (b *sphereBody) Radius() float32                 { return b.radius }
func (b *sphereBody) Mass() float32                   { return b.mass }
func (b *sphereBody) Restitution() float32            { return b.restitution }
func (b *sphereBody) Friction() float32               { return b.friction }
func (b *sphereBody) AngularFactor() mgl32.Vec3       { return b.angularFactor }

func (b *sphereBody) SetFriction(friction float32) {
	b.friction = math32.Max(0, friction)
}

// worldImpl is the reference Simulation: static planes and boxes, dynamic spheres, gravity.
// It is not safe for concurrent use; the scheduler drives it from a single goroutine.
type worldImpl struct {
	log       logrus.FieldLogger
	gravity   mgl32.Vec3
	colliders []collider
	bodies    *orderedmap.OrderedMap[uint64, *sphereBody]
	nextID    uint64
}

var _ Simulation = &worldImpl{}

// NewWorld creates a reference physics world.
//
// Parameters:
//   - options: functional options adding colliders and tuning gravity
//
// Returns:
//   - Simulation: the new world
func NewWorld(options ...WorldOption) Simulation {
	w := &worldImpl{
		log:     logger.Discard(),
		gravity: DefaultGravity,
		bodies:  orderedmap.NewOrderedMap[uint64, *sphereBody](),
		nextID:  1,
	}
	for _, opt := range options {
		opt(w)
	}
	return w
}

func (w *worldImpl) Raycast(from, to mgl32.Vec3) RaycastResult {
	var best RaycastResult
	for _, c := range w.colliders {
		res, ok := c.raycast(from, to)
		if !ok {
			continue
		}
		if !best.Hit || res.Distance < best.Distance {
			best = res
		}
	}
	return best
}

// ApplyImpulse adds impulse/mass to the body velocity. Spheres here carry no angular state, so
// localPoint does not change the result.
func (w *worldImpl) ApplyImpulse(body Body, impulse, localPoint mgl32.Vec3) {
	b, ok := w.lookup(body)
	if !ok || b.mass <= 0 {
		return
	}
	b.velocity = b.velocity.Add(impulse.Mul(1 / b.mass))
	w.log.WithFields(logrus.Fields{
		"body":    b.id,
		"impulse": impulse,
	}).Trace("impulse applied")
}

func (w *worldImpl) CreateSphere(desc SphereDescriptor) Body {
	b := &sphereBody{
		id:            w.nextID,
		position:      desc.Position,
		radius:        desc.Radius,
		mass:          math32.Max(0, desc.Mass),
		restitution:   desc.Restitution,
		friction:      math32.Max(0, desc.Friction),
		angularFactor: desc.AngularFactor,
	}
	w.nextID++
	w.bodies.Set(b.id, b)
	w.log.WithFields(logrus.Fields{
		"body":     b.id,
		"position": b.position,
		"radius":   b.radius,
		"mass":     b.mass,
	}).Debug("sphere created")
	return b
}

func (w *worldImpl) DestroyBody(body Body) {
	b, ok := w.lookup(body)
	if !ok {
		return
	}
	w.bodies.Delete(b.id)
	w.log.WithField("body", b.id).Debug("body destroyed")
}

func (w *worldImpl) Bodies() []Body {
	out := make([]Body, 0, w.bodies.Len())
	for el := w.bodies.Front(); el != nil; el = el.Next() {
		out = append(out, el.Value)
	}
	return out
}

func (w *worldImpl) Step(dt float32) {
	if dt <= 0 {
		return
	}
	for el := w.bodies.Front(); el != nil; el = el.Next() {
		b := el.Value
		if b.mass <= 0 {
			continue
		}
		b.velocity = b.velocity.Add(w.gravity.Mul(dt))
		b.position = b.position.Add(b.velocity.Mul(dt))
		for range contactIterations {
			w.resolveContacts(b, dt)
		}
	}
}

// resolveContacts pushes the sphere out of every collider it penetrates, removes the inward
// normal velocity and damps the tangential velocity by the combined friction.
func (w *worldImpl) resolveContacts(b *sphereBody, dt float32) {
	for _, c := range w.colliders {
		ct, ok := c.contact(b.position, b.radius)
		if !ok {
			continue
		}
		b.position = b.position.Add(ct.normal.Mul(ct.depth))

		vn := b.velocity.Dot(ct.normal)
		normalVel := ct.normal.Mul(vn)
		tangentVel := b.velocity.Sub(normalVel)
		if vn < 0 {
			normalVel = normalVel.Mul(-b.restitution * ct.restitution)
		}

		damping := math32.Max(0, 1-b.friction*ct.friction*dt)
		b.velocity = normalVel.Add(tangentVel.Mul(damping))
	}
}

func (w *worldImpl) lookup(body Body) (*sphereBody, bool) {
	if body == nil {
		return nil, false
	}
	b, ok := w.bodies.Get(body.ID())
	if !ok || b != body {
		return nil, false
	}
	return b, true
}
