package input

import "sync/atomic"

// VirtualSource is an in-memory DeviceSource. Hosts without a platform window (tests,
// replays, servers driving bots) push events into it directly. Both devices start connected.
type VirtualSource struct {
	keyboard *KeyFeed
	pointer  *PointerFeed
	changes  *Feed[struct{}]

	keyboardConnected bool
	pointerConnected  bool

	lastX, lastY float32
	closed       atomic.Bool
}

var _ DeviceSource = &VirtualSource{}

// NewVirtualSource creates a VirtualSource with a connected keyboard and pointer.
//
// Returns:
//   - *VirtualSource: the new source
func NewVirtualSource() *VirtualSource {
	return &VirtualSource{
		keyboard:          NewKeyFeed(),
		pointer:           NewPointerFeed(),
		changes:           NewFeed[struct{}](),
		keyboardConnected: true,
		pointerConnected:  true,
	}
}

func (v *VirtualSource) Keyboard() Keyboard {
	if !v.keyboardConnected || v.closed.Load() {
		return nil
	}
	return v.keyboard
}

func (v *VirtualSource) Pointer() Pointer {
	if !v.pointerConnected || v.closed.Load() {
		return nil
	}
	return v.pointer
}

func (v *VirtualSource) SubscribeDeviceChanges(handler func()) Subscription {
	return v.changes.Subscribe(func(struct{}) { handler() })
}

// Close drops every subscriber. Events pushed after Close are ignored.
func (v *VirtualSource) Close() error {
	if v.closed.Swap(true) {
		return nil
	}
	v.keyboard.Clear()
	v.pointer.Clear()
	v.changes.Clear()
	return nil
}

// Closed reports whether Close has been called.
//
// Returns:
//   - bool: true once closed
func (v *VirtualSource) Closed() bool {
	return v.closed.Load()
}

// KeyDown delivers a key press. Ignored while the keyboard is disconnected.
//
// Parameters:
//   - key: textual key identifier
func (v *VirtualSource) KeyDown(key string) {
	v.emitKey(KeyEvent{Key: key, Type: KeyDown})
}

// KeyUp delivers a key release. Ignored while the keyboard is disconnected.
//
// Parameters:
//   - key: textual key identifier
func (v *VirtualSource) KeyUp(key string) {
	v.emitKey(KeyEvent{Key: key, Type: KeyUp})
}

// MovePointer delivers a pointer move to the absolute position (x, y). The movement is the
// difference from the previous position pushed through this source.
//
// Parameters:
//   - x, y: absolute pointer coordinates
func (v *VirtualSource) MovePointer(x, y float32) {
	v.EmitPointer(PointerEvent{X: x, Y: y, MovementX: x - v.lastX, MovementY: y - v.lastY})
}

// EmitPointer delivers a raw pointer event. Useful with pointer lock, where the reported
// movement is independent of the (frozen) absolute position.
//
// Parameters:
//   - ev: the pointer event
func (v *VirtualSource) EmitPointer(ev PointerEvent) {
	if !v.pointerConnected || v.closed.Load() {
		return
	}
	v.lastX, v.lastY = ev.X, ev.Y
	v.pointer.Emit(ev)
}

// ConnectKeyboard marks the keyboard connected and notifies device-change subscribers.
func (v *VirtualSource) ConnectKeyboard() {
	v.setConnected(&v.keyboardConnected, true)
}

// DisconnectKeyboard marks the keyboard disconnected and notifies device-change subscribers.
func (v *VirtualSource) DisconnectKeyboard() {
	v.setConnected(&v.keyboardConnected, false)
}

// ConnectPointer marks the pointer connected and notifies device-change subscribers.
func (v *VirtualSource) ConnectPointer() {
	v.setConnected(&v.pointerConnected, true)
}

// DisconnectPointer marks the pointer disconnected and notifies device-change subscribers.
func (v *VirtualSource) DisconnectPointer() {
	v.setConnected(&v.pointerConnected, false)
}

// KeyboardSubscribers returns the number of handlers attached to the keyboard.
//
// Returns:
//   - int: handler count
func (v *VirtualSource) KeyboardSubscribers() int {
	return v.keyboard.Len()
}

// PointerSubscribers returns the number of handlers attached to the pointer.
//
// Returns:
//   - int: handler count
func (v *VirtualSource) PointerSubscribers() int {
	return v.pointer.Len()
}

func (v *VirtualSource) emitKey(ev KeyEvent) {
	if !v.keyboardConnected || v.closed.Load() {
		return
	}
	v.keyboard.Emit(ev)
}

func (v *VirtualSource) setConnected(flag *bool, connected bool) {
	if v.closed.Load() || *flag == connected {
		return
	}
	*flag = connected
	v.changes.Emit(struct{}{})
}
