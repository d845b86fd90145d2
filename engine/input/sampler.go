package input

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-fps/common"
	"github.com/Carmen-Shannon/oxy-fps/engine/logger"
	"github.com/sirupsen/logrus"
)

// Sampler presents a frame-coherent, polled view of keyboard and pointer input.
// Events accumulate into a pending buffer at any time; EndFrame commits the pending buffer
// so every Get during the following frame observes the same values.
type Sampler interface {
	// Get returns the committed value of an axis. Invalid axes read as 0.
	//
	// Parameters:
	//   - axis: the axis to read
	//
	// Returns:
	//   - float32: the committed axis value
	Get(axis Axis) float32

	// Snapshot returns a copy of the whole committed axis vector.
	//
	// Returns:
	//   - [AxisCount]float32: the committed values indexed by Axis
	Snapshot() [AxisCount]float32

	// SetKeyBinding sets the trigger key of a digital axis. Several axes may share a key.
	// Non-digital axes are ignored.
	//
	// Parameters:
	//   - axis: the digital axis to rebind
	//   - key: textual key identifier, compared case-insensitively
	SetKeyBinding(axis Axis, key string)

	// KeyBinding returns the trigger key of a digital axis, or "" for non-digital axes.
	//
	// Parameters:
	//   - axis: the digital axis
	//
	// Returns:
	//   - string: the normalized key identifier
	KeyBinding(axis Axis) string

	// EndFrame commits the pending buffer and clears the pending per-frame deltas.
	// Call once per frame after all game logic has read the committed values.
	EndFrame()

	// Dispose detaches every event subscription and closes the device source if the
	// sampler owns it. Safe to call more than once.
	Dispose()
}

// samplerImpl implements Sampler with two fixed arrays and a binding table.
type samplerImpl struct {
	source      DeviceSource
	ownsSource  bool
	log         logrus.FieldLogger
	deviceSub   Subscription
	keyboard    Keyboard
	keyboardSub Subscription
	pointer     Pointer
	pointerSub  Subscription

	committed [AxisCount]float32
	pending   [AxisCount]float32

	bindings [AxisCount]string

	disposeOnce sync.Once
}

var _ Sampler = &samplerImpl{}

// DefaultKeyBindings returns the default digital axis bindings: WASD, space to jump,
// shift to sprint.
//
// Returns:
//   - map[Axis]string: axis to textual key identifier
func DefaultKeyBindings() map[Axis]string {
	return map[Axis]string{
		AxisForward:  "w",
		AxisLeft:     "a",
		AxisBackward: "s",
		AxisRight:    "d",
		AxisJump:     common.KeyNameSpace,
		AxisSprint:   common.KeyNameShift,
	}
}

// NewSampler creates a Sampler and subscribes it to its device source.
// Without WithDeviceSource or WithOwnedDeviceSource the sampler creates and owns a
// VirtualSource.
//
// Parameters:
//   - options: functional options to configure the sampler
//
// Returns:
//   - Sampler: the new sampler
func NewSampler(options ...SamplerOption) Sampler {
	s := &samplerImpl{
		log: logger.Discard(),
	}
	for axis, key := range DefaultKeyBindings() {
		s.bindings[axis] = key
	}
	for _, opt := range options {
		opt(s)
	}
	if s.source == nil {
		s.source = NewVirtualSource()
		s.ownsSource = true
	}

	s.deviceSub = s.source.SubscribeDeviceChanges(s.resolveDevices)
	s.resolveDevices()
	return s
}

func (s *samplerImpl) Get(axis Axis) float32 {
	if !axis.Valid() {
		return 0
	}
	return s.committed[axis]
}

func (s *samplerImpl) Snapshot() [AxisCount]float32 {
	return s.committed
}

func (s *samplerImpl) SetKeyBinding(axis Axis, key string) {
	if !axis.Digital() {
		s.log.WithField("axis", axis).Warn("ignoring key binding for non-digital axis")
		return
	}
	s.bindings[axis] = common.NormalizeKey(key)
}

func (s *samplerImpl) KeyBinding(axis Axis) string {
	if !axis.Digital() {
		return ""
	}
	return s.bindings[axis]
}

func (s *samplerImpl) EndFrame() {
	s.committed = s.pending
	for axis := firstDeltaAxis; axis < AxisCount; axis++ {
		s.pending[axis] = 0
	}
}

func (s *samplerImpl) Dispose() {
	s.disposeOnce.Do(func() {
		s.detachDevices()
		if s.deviceSub != nil {
			s.deviceSub.Unsubscribe()
			s.deviceSub = nil
		}
		if s.ownsSource {
			if err := s.source.Close(); err != nil {
				s.log.WithError(err).Warn("failed to close device source")
			}
		}
	})
}

// resolveDevices re-reads the keyboard and pointer from the source and re-subscribes.
// Existing subscriptions are detached first so a device is never delivered twice.
func (s *samplerImpl) resolveDevices() {
	s.detachDevices()

	s.keyboard = s.source.Keyboard()
	s.pointer = s.source.Pointer()

	if s.keyboard != nil {
		s.keyboardSub = s.keyboard.SubscribeKeys(s.handleKey)
	}
	if s.pointer != nil {
		s.pointerSub = s.pointer.SubscribePointer(s.handlePointer)
	}

	s.log.WithFields(logrus.Fields{
		"keyboard": s.keyboard != nil,
		"pointer":  s.pointer != nil,
	}).Debug("input devices resolved")
}

func (s *samplerImpl) detachDevices() {
	if s.keyboardSub != nil {
		s.keyboardSub.Unsubscribe()
		s.keyboardSub = nil
	}
	if s.pointerSub != nil {
		s.pointerSub.Unsubscribe()
		s.pointerSub = nil
	}
	s.keyboard = nil
	s.pointer = nil
}

func (s *samplerImpl) handleKey(ev KeyEvent) {
	var value float32
	switch ev.Type {
	case KeyDown:
		value = 1
	case KeyUp:
		value = 0
	default:
		return
	}

	key := common.NormalizeKey(ev.Key)
	for _, axis := range DigitalAxes {
		if s.bindings[axis] != "" && s.bindings[axis] == key {
			s.pending[axis] = value
		}
	}
}

// handlePointer records the absolute position and accumulates movement. Horizontal
// movement accumulates into AxisMouseDeltaY and vertical into AxisMouseDeltaX; the
// character controller drives yaw from AxisMouseDeltaY and pitch from AxisMouseDeltaX.
func (s *samplerImpl) handlePointer(ev PointerEvent) {
	s.pending[AxisMouseX] = ev.X
	s.pending[AxisMouseY] = ev.Y
	s.pending[AxisMouseDeltaY] += ev.MovementX
	s.pending[AxisMouseDeltaX] += ev.MovementY
}
