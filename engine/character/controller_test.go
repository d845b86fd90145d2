package character

import (
	"math/rand"
	"testing"

	"github.com/Carmen-Shannon/oxy-fps/engine/camera"
	"github.com/Carmen-Shannon/oxy-fps/engine/input"
	"github.com/Carmen-Shannon/oxy-fps/engine/physics"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBody struct {
	id       uint64
	position mgl32.Vec3
	velocity mgl32.Vec3
	radius   float32
	mass     float32
	friction float32
}

func (b *fakeBody) ID() uint64                      { return b.id }
func (b *fakeBody) Position() mgl32.Vec3            { return b.position }
func (b *fakeBody) SetPosition(position mgl32.Vec3) { b.position = position }
func (b *fakeBody) Velocity() mgl32.Vec3            { return b.velocity }
func (b *fakeBody) SetVelocity(velocity mgl32.Vec3) { b.velocity = velocity }
func (b *fakeBody) Radius() float32                 { return b.radius }
func (b *fakeBody) Mass() float32                   { return b.mass }
func (b *fakeBody) Restitution() float32            { return 0 }
func (b *fakeBody) Friction() float32               { return b.friction }
func (b *fakeBody) SetFriction(friction float32)    { b.friction = friction }
func (b *fakeBody) AngularFactor() mgl32.Vec3       { return mgl32.Vec3{} }

type impulseCall struct {
	body       physics.Body
	impulse    mgl32.Vec3
	localPoint mgl32.Vec3
}

// fakeWorld answers every raycast with a scripted ground result.
type fakeWorld struct {
	ground    physics.RaycastResult
	rays      [][2]mgl32.Vec3
	impulses  []impulseCall
	bodies    []*fakeBody
	destroyed []physics.Body
}

func (w *fakeWorld) Raycast(from, to mgl32.Vec3) physics.RaycastResult {
	w.rays = append(w.rays, [2]mgl32.Vec3{from, to})
	return w.ground
}

func (w *fakeWorld) ApplyImpulse(body physics.Body, impulse, localPoint mgl32.Vec3) {
	w.impulses = append(w.impulses, impulseCall{body: body, impulse: impulse, localPoint: localPoint})
}

func (w *fakeWorld) CreateSphere(desc physics.SphereDescriptor) physics.Body {
	b := &fakeBody{
		id:       uint64(len(w.bodies) + 1),
		position: desc.Position,
		radius:   desc.Radius,
		mass:     desc.Mass,
		friction: desc.Friction,
	}
	w.bodies = append(w.bodies, b)
	return b
}

func (w *fakeWorld) DestroyBody(body physics.Body) {
	w.destroyed = append(w.destroyed, body)
}

func flatGround(distance float32) physics.RaycastResult {
	return physics.RaycastResult{Hit: true, Distance: distance, Normal: mgl32.Vec3{0, 1, 0}}
}

// slopedGround returns a hit whose normal is world up rotated about +Z by tilt.
func slopedGround(distance, tilt float32) physics.RaycastResult {
	return physics.RaycastResult{
		Hit:      true,
		Distance: distance,
		Normal:   mgl32.Vec3{-math32.Sin(tilt), math32.Cos(tilt), 0},
	}
}

type rig struct {
	ctrl   Controller
	world  *fakeWorld
	source *input.VirtualSource
}

func newRig(t *testing.T, ground physics.RaycastResult, options ...ControllerOption) *rig {
	t.Helper()
	world := &fakeWorld{ground: ground}
	src := input.NewVirtualSource()
	ctrl := NewController(world, append([]ControllerOption{
		WithPosition(mgl32.Vec3{0, 0.5, 0}),
		WithDeviceSource(src),
	}, options...)...)
	t.Cleanup(ctrl.Dispose)
	return &rig{ctrl: ctrl, world: world, source: src}
}

// frame commits pending input and runs one controller update.
func (r *rig) frame() {
	r.ctrl.Sampler().EndFrame()
	r.ctrl.Update()
}

func (r *rig) position() mgl32.Vec3 {
	return r.ctrl.Body().Position()
}

func assertVecInDelta(t *testing.T, want, got mgl32.Vec3, msgAndArgs ...any) {
	t.Helper()
	for i := range 3 {
		assert.InDelta(t, want[i], got[i], 1e-5, msgAndArgs...)
	}
}

func TestNewControllerDefaults(t *testing.T) {
	r := newRig(t, physics.RaycastResult{})

	assert.Equal(t, DefaultMoveSpeed, r.ctrl.MoveSpeed())
	assert.Equal(t, DefaultSprintSpeed, r.ctrl.SprintSpeed())
	assert.Equal(t, DefaultJumpForce, r.ctrl.JumpForce())
	assert.Equal(t, DefaultLookSensitivity, r.ctrl.LookSensitivity())
	assert.Zero(t, r.ctrl.JumpCooldown())

	require.Len(t, r.world.bodies, 1)
	body := r.world.bodies[0]
	assert.Same(t, body, r.ctrl.Body())
	assert.Equal(t, mgl32.Vec3{0, 0.5, 0}, body.Position())
	assert.Equal(t, DefaultBodyRadius, body.Radius())
	assert.Equal(t, DefaultBodyMass, body.Mass())
	assert.Equal(t, GroundedFriction, body.Friction())

	cam := r.ctrl.Camera()
	assert.Equal(t, mgl32.Vec3{0, DefaultCameraHeight, 0}, cam.Position())
	assert.Equal(t, DefaultCameraNear, cam.Near())
	assert.Equal(t, DefaultCameraFar, cam.Far())
	assertVecInDelta(t, mgl32.Vec3{0, 1.1, 0}, cam.WorldPosition())
}

func TestUpdateProbesStraightDown(t *testing.T) {
	r := newRig(t, flatGround(0.5))
	r.frame()
	require.Len(t, r.world.rays, 1)
	assert.Equal(t, mgl32.Vec3{0, 0.5, 0}, r.world.rays[0][0])
	assertVecInDelta(t, mgl32.Vec3{0, -0.5, 0}, r.world.rays[0][1])
}

func TestRestingOnFlatGround(t *testing.T) {
	r := newRig(t, flatGround(0.5))
	r.ctrl.Body().SetFriction(0)

	r.frame()

	assert.Equal(t, GroundedFriction, r.ctrl.Body().Friction())
	assert.Equal(t, mgl32.Vec3{0, 0.5, 0}, r.position())
	assert.Zero(t, r.ctrl.JumpCooldown())
	assert.True(t, r.ctrl.Grounded())
	assert.Empty(t, r.world.impulses)

	sample := r.ctrl.LastGroundSample()
	assert.True(t, sample.Hit)
	assert.Equal(t, float32(0.5), sample.Distance)
	assert.InDelta(t, 0, sample.Tilt, 1e-6)
}

func TestForwardMovesAlongCameraForward(t *testing.T) {
	r := newRig(t, flatGround(0.5))
	r.source.KeyDown("w")
	r.frame()
	assertVecInDelta(t, mgl32.Vec3{0, 0.5, DefaultMoveSpeed}, r.position())
}

func TestMovementDirections(t *testing.T) {
	diag := DefaultMoveSpeed / math32.Sqrt(2)
	tests := []struct {
		name     string
		keys     []string
		yaw      float32
		pitch    float32
		expected mgl32.Vec3
	}{
		{name: "backward", keys: []string{"s"}, expected: mgl32.Vec3{0, 0, -DefaultMoveSpeed}},
		{name: "strafe right", keys: []string{"d"}, expected: mgl32.Vec3{DefaultMoveSpeed, 0, 0}},
		{name: "strafe left", keys: []string{"a"}, expected: mgl32.Vec3{-DefaultMoveSpeed, 0, 0}},
		{name: "diagonal is normalized", keys: []string{"w", "d"}, expected: mgl32.Vec3{diag, 0, diag}},
		{name: "opposite keys cancel", keys: []string{"w", "s"}, expected: mgl32.Vec3{}},
		{name: "all four cancel", keys: []string{"w", "a", "s", "d"}, expected: mgl32.Vec3{}},
		{name: "sprint adds speed", keys: []string{"w", "shift"}, expected: mgl32.Vec3{0, 0, DefaultMoveSpeed + DefaultSprintSpeed}},
		{name: "sprint alone does not move", keys: []string{"shift"}, expected: mgl32.Vec3{}},
		{name: "yawed camera", keys: []string{"w"}, yaw: math32.Pi / 2, expected: mgl32.Vec3{DefaultMoveSpeed, 0, 0}},
		{name: "pitched camera stays horizontal", keys: []string{"w"}, pitch: math32.Pi / 4, expected: mgl32.Vec3{0, 0, DefaultMoveSpeed}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRig(t, flatGround(0.5))
			r.ctrl.Camera().SetRotation(mgl32.Vec3{tt.pitch, tt.yaw, 0})
			for _, k := range tt.keys {
				r.source.KeyDown(k)
			}
			r.frame()
			assertVecInDelta(t, mgl32.Vec3{0, 0.5, 0}.Add(tt.expected), r.position())
		})
	}
}

func TestMovementFollowsSlope(t *testing.T) {
	tilt := float32(0.3)
	ground := slopedGround(0.5, tilt)
	r := newRig(t, ground)

	r.source.KeyDown("d")
	r.frame()

	moved := r.position().Sub(mgl32.Vec3{0, 0.5, 0})
	assert.InDelta(t, DefaultMoveSpeed, moved.Len(), 1e-5)
	assert.InDelta(t, 0, moved.Dot(ground.Normal), 1e-5, "movement lies in the slope plane")
	assertVecInDelta(t, mgl32.Vec3{math32.Cos(tilt), math32.Sin(tilt), 0}.Mul(DefaultMoveSpeed), moved)
	assert.InDelta(t, tilt, r.ctrl.LastGroundSample().Tilt, 1e-5)
}

func TestNearlyFlatGroundIsNotAligned(t *testing.T) {
	r := newRig(t, slopedGround(0.5, 0.005))
	r.source.KeyDown("d")
	r.frame()
	assertVecInDelta(t, mgl32.Vec3{DefaultMoveSpeed, 0.5, 0}, r.position())
}

func TestMovementAppliesWhileAirborne(t *testing.T) {
	r := newRig(t, physics.RaycastResult{})
	r.source.KeyDown("w")
	r.frame()
	assertVecInDelta(t, mgl32.Vec3{0, 0.5, DefaultMoveSpeed}, r.position())
	assert.Equal(t, AirborneFriction, r.ctrl.Body().Friction())
}

func TestFrictionByGroundState(t *testing.T) {
	tests := []struct {
		name     string
		ground   physics.RaycastResult
		friction float32
		grounded bool
	}{
		{name: "no hit", ground: physics.RaycastResult{}, friction: AirborneFriction},
		{name: "flat", ground: flatGround(0.5), friction: GroundedFriction, grounded: true},
		{name: "gentle slope", ground: slopedGround(0.5, 0.4), friction: GroundedFriction, grounded: true},
		{name: "just below threshold", ground: slopedGround(0.5, SlideThreshold-0.01), friction: GroundedFriction, grounded: true},
		{name: "just above threshold", ground: slopedGround(0.5, SlideThreshold+0.01), friction: AirborneFriction},
		{name: "wall", ground: slopedGround(0.5, math32.Pi/2), friction: AirborneFriction},
		{name: "far but stable", ground: flatGround(0.99), friction: GroundedFriction, grounded: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRig(t, tt.ground)
			r.source.KeyDown("w")
			r.frame()
			assert.Equal(t, tt.friction, r.ctrl.Body().Friction())
			assert.Equal(t, tt.grounded, r.ctrl.Grounded())
		})
	}
}

func TestGroundSampleThresholdIsStrict(t *testing.T) {
	assert.False(t, GroundSample{Hit: true, Tilt: SlideThreshold}.Stable())
	assert.True(t, GroundSample{Hit: true, Tilt: SlideThreshold-1e-6}.Stable())
	assert.False(t, GroundSample{Hit: false}.Stable())

	assert.False(t, GroundSample{Hit: true, Distance: NearContactDistance}.CanJumpFrom())
	assert.True(t, GroundSample{Hit: true, Distance: 0.5}.CanJumpFrom())
	assert.False(t, GroundSample{Hit: true, Distance: 0.5, Tilt: SlideThreshold}.CanJumpFrom())
}

func TestJumpFires(t *testing.T) {
	jumps := 0
	r := newRig(t, flatGround(0.5), WithJumpCallback(func() { jumps++ }))

	r.source.KeyDown(" ")
	r.frame()

	require.Len(t, r.world.impulses, 1)
	call := r.world.impulses[0]
	assert.Same(t, r.ctrl.Body(), call.body)
	assert.Equal(t, mgl32.Vec3{0, DefaultJumpForce, 0}, call.impulse)
	assert.Equal(t, mgl32.Vec3{}, call.localPoint)
	assert.Equal(t, JumpCooldownFrames, r.ctrl.JumpCooldown())
	assert.Equal(t, 1, jumps)
}

func TestJumpCooldownBlocksFiveFrames(t *testing.T) {
	r := newRig(t, flatGround(0.5))
	r.source.KeyDown(" ")

	var fired []int
	for frame := 0; frame < 20; frame++ {
		before := len(r.world.impulses)
		r.frame()
		if len(r.world.impulses) > before {
			fired = append(fired, frame)
		}
	}

	assert.Equal(t, []int{0, 6, 12, 18}, fired)
	for i := 1; i < len(fired); i++ {
		assert.Greater(t, fired[i]-fired[i-1], JumpCooldownFrames, "at least five frames between jumps")
	}
}

func TestJumpCooldownCountsDown(t *testing.T) {
	r := newRig(t, flatGround(0.5))
	r.source.KeyDown(" ")
	r.frame()
	require.Equal(t, 5, r.ctrl.JumpCooldown())

	r.source.KeyUp(" ")
	r.world.ground = physics.RaycastResult{}
	for want := 4; want >= 0; want-- {
		r.frame()
		assert.Equal(t, want, r.ctrl.JumpCooldown())
	}
	r.frame()
	assert.Zero(t, r.ctrl.JumpCooldown())
}

func TestJumpBlocked(t *testing.T) {
	tests := []struct {
		name   string
		ground physics.RaycastResult
	}{
		{name: "no hit", ground: physics.RaycastResult{}},
		{name: "too far", ground: flatGround(0.95)},
		{name: "exactly at near contact", ground: flatGround(NearContactDistance)},
		{name: "steep", ground: slopedGround(0.5, SlideThreshold+0.05)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRig(t, tt.ground)
			r.source.KeyDown(" ")
			for range 10 {
				r.frame()
			}
			assert.Empty(t, r.world.impulses)
			assert.Zero(t, r.ctrl.JumpCooldown())
		})
	}
}

func TestJumpUsesCurrentForce(t *testing.T) {
	r := newRig(t, flatGround(0.5))
	r.ctrl.SetJumpForce(12)
	r.source.KeyDown(" ")
	r.frame()
	require.Len(t, r.world.impulses, 1)
	assert.Equal(t, mgl32.Vec3{0, 12, 0}, r.world.impulses[0].impulse)
}

func TestMouseLookAxisMapping(t *testing.T) {
	r := newRig(t, flatGround(0.5))

	// Horizontal pointer motion lands in AxisMouseDeltaY and turns yaw.
	r.source.EmitPointer(input.PointerEvent{MovementX: 30})
	r.frame()
	rot := r.ctrl.Camera().Rotation()
	assert.InDelta(t, 30*DefaultLookSensitivity, rot.Y(), 1e-6)
	assert.InDelta(t, 0, rot.X(), 1e-6)

	// Vertical pointer motion lands in AxisMouseDeltaX and turns pitch.
	r.source.EmitPointer(input.PointerEvent{MovementY: 60})
	r.frame()
	rot = r.ctrl.Camera().Rotation()
	assert.InDelta(t, 30*DefaultLookSensitivity, rot.Y(), 1e-6)
	assert.InDelta(t, 60*DefaultLookSensitivity, rot.X(), 1e-6)

	// No motion, no rotation.
	r.frame()
	assert.Equal(t, rot, r.ctrl.Camera().Rotation())
}

func TestPitchClamped(t *testing.T) {
	r := newRig(t, flatGround(0.5))

	r.source.EmitPointer(input.PointerEvent{MovementY: 1e6})
	r.frame()
	assert.Equal(t, MaxPitch, r.ctrl.Camera().Rotation().X())

	r.source.EmitPointer(input.PointerEvent{MovementY: -1e6})
	r.frame()
	assert.Equal(t, MinPitch, r.ctrl.Camera().Rotation().X())

	rng := rand.New(rand.NewSource(3))
	for range 500 {
		r.source.EmitPointer(input.PointerEvent{
			MovementX: float32(rng.NormFloat64() * 500),
			MovementY: float32(rng.NormFloat64() * 500),
		})
		r.frame()
		pitch := r.ctrl.Camera().Rotation().X()
		require.GreaterOrEqual(t, pitch, MinPitch)
		require.LessOrEqual(t, pitch, MaxPitch)
	}
}

func TestMovementMagnitudeBounded(t *testing.T) {
	keys := []string{"w", "a", "s", "d", "shift"}
	rng := rand.New(rand.NewSource(5))
	r := newRig(t, slopedGround(0.5, 0.5))

	for range 300 {
		for _, k := range keys {
			if rng.Intn(2) == 0 {
				r.source.KeyDown(k)
			} else {
				r.source.KeyUp(k)
			}
		}
		r.ctrl.Camera().SetRotation(mgl32.Vec3{0, float32(rng.Float64() * 6.28), 0})
		before := r.position()
		r.frame()
		moved := r.position().Sub(before).Len()
		require.LessOrEqual(t, moved, DefaultMoveSpeed+DefaultSprintSpeed+1e-5)
		require.False(t, math32.IsNaN(moved))
	}
}

func TestTunablesTakeEffectNextFrame(t *testing.T) {
	r := newRig(t, flatGround(0.5))
	r.ctrl.SetMoveSpeed(0.2)
	r.ctrl.SetSprintSpeed(0.1)
	r.ctrl.SetLookSensitivity(0.01)
	assert.Equal(t, float32(0.2), r.ctrl.MoveSpeed())
	assert.Equal(t, float32(0.1), r.ctrl.SprintSpeed())
	assert.Equal(t, float32(0.01), r.ctrl.LookSensitivity())

	r.source.KeyDown("w")
	r.source.KeyDown("shift")
	r.source.EmitPointer(input.PointerEvent{MovementX: 10})
	r.frame()

	assertVecInDelta(t, mgl32.Vec3{0, 0.5, 0.3}, r.position())
	assert.InDelta(t, 0.1, r.ctrl.Camera().Rotation().Y(), 1e-6)
}

func TestSetKeyBindingDelegatesToSampler(t *testing.T) {
	r := newRig(t, flatGround(0.5))
	r.ctrl.SetKeyBinding(input.AxisForward, "ArrowUp")
	assert.Equal(t, "arrowup", r.ctrl.Sampler().KeyBinding(input.AxisForward))

	r.source.KeyDown("w")
	r.frame()
	assert.Equal(t, mgl32.Vec3{0, 0.5, 0}, r.position())

	r.source.KeyDown("arrowup")
	r.frame()
	assertVecInDelta(t, mgl32.Vec3{0, 0.5, DefaultMoveSpeed}, r.position())
}

func TestWithKeyBindings(t *testing.T) {
	r := newRig(t, flatGround(0.5), WithKeyBindings(map[input.Axis]string{input.AxisJump: "j"}))
	r.source.KeyDown("j")
	r.frame()
	assert.Len(t, r.world.impulses, 1)
}

func TestSyncCameraAfterPhysics(t *testing.T) {
	r := newRig(t, flatGround(0.5))
	r.source.KeyDown("w")
	r.ctrl.Sampler().EndFrame()

	r.ctrl.BeforePhysics()
	assertVecInDelta(t, mgl32.Vec3{0, 1.1, 0}, r.ctrl.Camera().WorldPosition(), "camera waits for the physics step")

	r.ctrl.Body().SetPosition(r.position().Add(mgl32.Vec3{0, 0.25, 0}))
	r.ctrl.AfterPhysics()
	assertVecInDelta(t, r.position().Add(mgl32.Vec3{0, DefaultCameraHeight, 0}), r.ctrl.Camera().WorldPosition())
}

func TestWithCameraAndOffset(t *testing.T) {
	cam := camera.NewCamera(camera.WithFov(1.2))
	r := newRig(t, flatGround(0.5), WithCamera(cam), WithCameraOffset(mgl32.Vec3{0, 0.8, 0}))
	assert.Same(t, cam, r.ctrl.Camera())
	assert.Equal(t, mgl32.Vec3{0, 0.8, 0}, cam.Position())
	assert.NotNil(t, cam.Carrier())
}

func TestWithBodyOptions(t *testing.T) {
	r := newRig(t, flatGround(0.5), WithBodyRadius(0.25), WithBodyMass(80), WithMoveSpeed(0.1), WithSprintSpeed(0), WithJumpForce(5), WithLookSensitivity(0.5))
	assert.Equal(t, float32(0.25), r.ctrl.Body().Radius())
	assert.Equal(t, float32(80), r.ctrl.Body().Mass())
	assert.Equal(t, float32(0.1), r.ctrl.MoveSpeed())
	assert.Zero(t, r.ctrl.SprintSpeed())
	assert.Equal(t, float32(5), r.ctrl.JumpForce())
	assert.Equal(t, float32(0.5), r.ctrl.LookSensitivity())
}

func TestDisposeOwnedSampler(t *testing.T) {
	r := newRig(t, flatGround(0.5))
	require.Equal(t, 1, r.source.KeyboardSubscribers())

	r.ctrl.Dispose()
	r.ctrl.Dispose()

	require.Len(t, r.world.destroyed, 1)
	assert.Same(t, r.ctrl.Body(), r.world.destroyed[0])
	assert.Zero(t, r.source.KeyboardSubscribers())
	assert.False(t, r.source.Closed(), "the device source is borrowed")

	rays := len(r.world.rays)
	r.ctrl.Update()
	assert.Len(t, r.world.rays, rays, "update is a no-op after dispose")
}

func TestDisposeBorrowedSampler(t *testing.T) {
	src := input.NewVirtualSource()
	sampler := input.NewSampler(input.WithDeviceSource(src))
	defer sampler.Dispose()

	world := &fakeWorld{ground: flatGround(0.5)}
	ctrl := NewController(world, WithSampler(sampler), WithKeyBindings(map[input.Axis]string{input.AxisSprint: "control"}))
	assert.Same(t, sampler, ctrl.Sampler())
	assert.Equal(t, "control", sampler.KeyBinding(input.AxisSprint))

	ctrl.Dispose()
	assert.Equal(t, 1, src.KeyboardSubscribers(), "borrowed sampler stays attached")
}

func TestControllerOnReferenceWorld(t *testing.T) {
	world := physics.NewWorld(physics.WithPlane(physics.PlaneDescriptor{Normal: mgl32.Vec3{0, 1, 0}}))
	src := input.NewVirtualSource()
	jumps := 0
	ctrl := NewController(world,
		WithPosition(mgl32.Vec3{0, 0.5, 0}),
		WithDeviceSource(src),
		WithJumpCallback(func() { jumps++ }),
	)
	defer ctrl.Dispose()

	step := func() {
		ctrl.BeforePhysics()
		world.Step(1.0 / 60.0)
		ctrl.AfterPhysics()
		ctrl.Sampler().EndFrame()
	}

	src.KeyDown("w")
	step()
	for range 60 {
		step()
	}
	pos := ctrl.Body().Position()
	assert.InDelta(t, 60*DefaultMoveSpeed, pos.Z(), 1e-3)
	assert.InDelta(t, 0.5, pos.Y(), 1e-3)
	assert.True(t, ctrl.Grounded())

	src.KeyUp("w")
	src.KeyDown(" ")
	step()
	src.KeyUp(" ")
	maxY := float32(0)
	for range 120 {
		step()
		maxY = math32.Max(maxY, ctrl.Body().Position().Y())
	}
	assert.Equal(t, 1, jumps)
	assert.Greater(t, maxY, float32(0.8))
	assert.InDelta(t, 0.5, ctrl.Body().Position().Y(), 1e-3, "lands back on the ground")
	assertVecInDelta(t, ctrl.Body().Position().Add(mgl32.Vec3{0, DefaultCameraHeight, 0}), ctrl.Camera().WorldPosition())
}
