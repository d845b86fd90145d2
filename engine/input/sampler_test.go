package input

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSampler(t *testing.T, options ...SamplerOption) (Sampler, *VirtualSource) {
	t.Helper()
	src := NewVirtualSource()
	s := NewSampler(append([]SamplerOption{WithDeviceSource(src)}, options...)...)
	t.Cleanup(s.Dispose)
	return s, src
}

func TestSamplerStartsAtZero(t *testing.T) {
	s, _ := newTestSampler(t)
	for axis := Axis(0); axis < AxisCount; axis++ {
		assert.Zero(t, s.Get(axis), axis.String())
	}
	assert.Zero(t, s.Get(AxisCount))
	assert.Zero(t, s.Get(-1))
}

func TestSamplerDefaultBindings(t *testing.T) {
	s, _ := newTestSampler(t)
	assert.Equal(t, "w", s.KeyBinding(AxisForward))
	assert.Equal(t, "a", s.KeyBinding(AxisLeft))
	assert.Equal(t, "s", s.KeyBinding(AxisBackward))
	assert.Equal(t, "d", s.KeyBinding(AxisRight))
	assert.Equal(t, " ", s.KeyBinding(AxisJump))
	assert.Equal(t, "shift", s.KeyBinding(AxisSprint))
	assert.Equal(t, "", s.KeyBinding(AxisMouseX))
}

func TestSamplerKeyVisibleOnlyAfterEndFrame(t *testing.T) {
	s, src := newTestSampler(t)

	src.KeyDown("w")
	assert.Zero(t, s.Get(AxisForward), "pending writes must not leak into the committed buffer")

	s.EndFrame()
	assert.Equal(t, float32(1), s.Get(AxisForward))
	assert.Equal(t, float32(1), s.Get(AxisForward), "reads are side-effect free")

	src.KeyUp("w")
	assert.Equal(t, float32(1), s.Get(AxisForward))
	s.EndFrame()
	assert.Zero(t, s.Get(AxisForward))
}

func TestSamplerHeldKeyPersistsAcrossFrames(t *testing.T) {
	s, src := newTestSampler(t)
	src.KeyDown(" ")
	for range 10 {
		s.EndFrame()
		assert.Equal(t, float32(1), s.Get(AxisJump))
	}
}

func TestSamplerCaseInsensitive(t *testing.T) {
	s, src := newTestSampler(t)
	src.KeyDown("W")
	src.KeyDown("Shift")
	s.EndFrame()
	assert.Equal(t, float32(1), s.Get(AxisForward))
	assert.Equal(t, float32(1), s.Get(AxisSprint))
}

func TestSamplerIgnoresUnboundKeys(t *testing.T) {
	s, src := newTestSampler(t)
	src.KeyDown("q")
	src.KeyDown("escape")
	s.EndFrame()
	assert.Equal(t, [AxisCount]float32{}, s.Snapshot())
}

func TestSamplerRebindTakesEffectOnNextEvent(t *testing.T) {
	s, src := newTestSampler(t)
	src.KeyDown("w")
	s.EndFrame()
	require.Equal(t, float32(1), s.Get(AxisForward))

	s.SetKeyBinding(AxisForward, "ArrowUp")
	assert.Equal(t, "arrowup", s.KeyBinding(AxisForward))
	s.EndFrame()
	assert.Equal(t, float32(1), s.Get(AxisForward), "rebinding is not retroactive")

	src.KeyUp("w")
	s.EndFrame()
	assert.Equal(t, float32(1), s.Get(AxisForward), "old key no longer drives the axis")

	src.KeyUp("arrowup")
	s.EndFrame()
	assert.Zero(t, s.Get(AxisForward))
}

func TestSamplerSharedKeyFiresBothAxes(t *testing.T) {
	s, src := newTestSampler(t, WithKeyBinding(AxisSprint, "w"))
	src.KeyDown("w")
	s.EndFrame()
	assert.Equal(t, float32(1), s.Get(AxisForward))
	assert.Equal(t, float32(1), s.Get(AxisSprint))
}

func TestSamplerIgnoresNonDigitalBinding(t *testing.T) {
	s, src := newTestSampler(t)
	s.SetKeyBinding(AxisMouseDeltaX, "x")
	src.KeyDown("x")
	s.EndFrame()
	assert.Zero(t, s.Get(AxisMouseDeltaX))
	assert.Equal(t, "", s.KeyBinding(AxisMouseDeltaX))
}

func TestSamplerWithKeyBindings(t *testing.T) {
	s, _ := newTestSampler(t, WithKeyBindings(map[Axis]string{
		AxisJump:   "space",
		AxisSprint: "Control",
	}))
	assert.Equal(t, " ", s.KeyBinding(AxisJump))
	assert.Equal(t, "control", s.KeyBinding(AxisSprint))
	assert.Equal(t, "w", s.KeyBinding(AxisForward))
}

func TestSamplerPointerDeltasAccumulateAndReset(t *testing.T) {
	s, src := newTestSampler(t)

	src.EmitPointer(PointerEvent{X: 10, Y: 20, MovementX: 3, MovementY: -1})
	src.EmitPointer(PointerEvent{X: 14, Y: 18, MovementX: 4, MovementY: -2})
	s.EndFrame()

	assert.Equal(t, float32(14), s.Get(AxisMouseX))
	assert.Equal(t, float32(18), s.Get(AxisMouseY))
	assert.Equal(t, float32(7), s.Get(AxisMouseDeltaY), "horizontal motion accumulates into the Y delta axis")
	assert.Equal(t, float32(-3), s.Get(AxisMouseDeltaX), "vertical motion accumulates into the X delta axis")

	s.EndFrame()
	assert.Zero(t, s.Get(AxisMouseDeltaX))
	assert.Zero(t, s.Get(AxisMouseDeltaY))
	assert.Equal(t, float32(14), s.Get(AxisMouseX), "absolute position persists without events")
	assert.Equal(t, float32(18), s.Get(AxisMouseY))
}

func TestSamplerMovePointerComputesMovement(t *testing.T) {
	s, src := newTestSampler(t)
	src.MovePointer(5, 5)
	src.MovePointer(8, 1)
	s.EndFrame()
	assert.Equal(t, float32(8), s.Get(AxisMouseDeltaY))
	assert.Equal(t, float32(1), s.Get(AxisMouseDeltaX))
}

func TestSamplerLastEventPerAxisWins(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	keys := []string{"w", "a", "s", "d", " ", "shift"}

	s, src := newTestSampler(t)
	for frame := 0; frame < 200; frame++ {
		want := s.Snapshot()
		for range rng.Intn(12) {
			i := rng.Intn(len(keys))
			if rng.Intn(2) == 0 {
				src.KeyDown(keys[i])
				want[DigitalAxes[i]] = 1
			} else {
				src.KeyUp(keys[i])
				want[DigitalAxes[i]] = 0
			}
		}
		s.EndFrame()
		for _, axis := range DigitalAxes {
			require.Equal(t, want[axis], s.Get(axis), "frame %d axis %s", frame, axis)
		}
	}
}

func TestSamplerPointerDeltaSumProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	s, src := newTestSampler(t)
	for frame := 0; frame < 100; frame++ {
		var sumX, sumY float32
		for range rng.Intn(6) {
			dx := float32(rng.Intn(21) - 10)
			dy := float32(rng.Intn(21) - 10)
			sumX += dx
			sumY += dy
			src.EmitPointer(PointerEvent{X: 1, Y: 1, MovementX: dx, MovementY: dy})
		}
		s.EndFrame()
		require.Equal(t, sumX, s.Get(AxisMouseDeltaY))
		require.Equal(t, sumY, s.Get(AxisMouseDeltaX))
	}
}

func TestSamplerHotPlugResubscribesOnce(t *testing.T) {
	s, src := newTestSampler(t)
	require.Equal(t, 1, src.KeyboardSubscribers())
	require.Equal(t, 1, src.PointerSubscribers())

	src.DisconnectKeyboard()
	assert.Equal(t, 0, src.KeyboardSubscribers())
	assert.Equal(t, 1, src.PointerSubscribers())

	src.KeyDown("w")
	s.EndFrame()
	assert.Zero(t, s.Get(AxisForward), "missing keyboard is tolerated")

	src.ConnectKeyboard()
	assert.Equal(t, 1, src.KeyboardSubscribers())
	assert.Equal(t, 1, src.PointerSubscribers(), "pointer must not be subscribed twice")

	src.DisconnectPointer()
	src.ConnectPointer()
	assert.Equal(t, 1, src.PointerSubscribers())

	src.KeyDown("w")
	s.EndFrame()
	assert.Equal(t, float32(1), s.Get(AxisForward))
}

func TestSamplerDisconnectKeepsLastCommittedValue(t *testing.T) {
	s, src := newTestSampler(t)
	src.KeyDown("d")
	s.EndFrame()
	src.DisconnectKeyboard()
	s.EndFrame()
	assert.Equal(t, float32(1), s.Get(AxisRight))
}

func TestSamplerDisposeBorrowedSource(t *testing.T) {
	src := NewVirtualSource()
	s := NewSampler(WithDeviceSource(src))
	s.Dispose()
	s.Dispose()

	assert.False(t, src.Closed(), "borrowed source stays open")
	assert.Equal(t, 0, src.KeyboardSubscribers())
	assert.Equal(t, 0, src.PointerSubscribers())

	src.KeyDown("w")
	s.EndFrame()
	assert.Zero(t, s.Get(AxisForward))
}

func TestSamplerDisposeOwnedSource(t *testing.T) {
	src := NewVirtualSource()
	s := NewSampler(WithOwnedDeviceSource(src))
	s.Dispose()
	assert.True(t, src.Closed())
}
