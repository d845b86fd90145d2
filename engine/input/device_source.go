package input

// KeyEventType distinguishes key presses from key releases.
type KeyEventType int

const (
	// KeyDown is delivered when a key is pressed (and on key repeat).
	KeyDown KeyEventType = iota
	// KeyUp is delivered when a key is released.
	KeyUp
)

// KeyEvent is a single keyboard event with a textual key identifier (e.g. "w", " ", "shift").
type KeyEvent struct {
	Key  string
	Type KeyEventType
}

// PointerEvent is a single pointer move with the absolute position and the movement since
// the previous pointer event.
type PointerEvent struct {
	X, Y                 float32
	MovementX, MovementY float32
}

// Subscription is returned by every subscribe call. Unsubscribe is idempotent.
type Subscription interface {
	Unsubscribe()
}

// Keyboard delivers key events to its subscribers.
type Keyboard interface {
	// SubscribeKeys registers a handler for key events.
	//
	// Parameters:
	//   - handler: function receiving each key event
	//
	// Returns:
	//   - Subscription: handle to detach the handler
	SubscribeKeys(handler func(KeyEvent)) Subscription
}

// Pointer delivers pointer move events to its subscribers.
type Pointer interface {
	// SubscribePointer registers a handler for pointer move events.
	//
	// Parameters:
	//   - handler: function receiving each pointer event
	//
	// Returns:
	//   - Subscription: handle to detach the handler
	SubscribePointer(handler func(PointerEvent)) Subscription
}

// DeviceSource is the capability the sampler attaches to: resolve the current keyboard and
// pointer, and learn when either is connected or disconnected.
type DeviceSource interface {
	// Keyboard returns the currently connected keyboard, or nil if none is connected.
	//
	// Returns:
	//   - Keyboard: the keyboard or nil
	Keyboard() Keyboard

	// Pointer returns the currently connected pointer device, or nil if none is connected.
	//
	// Returns:
	//   - Pointer: the pointer or nil
	Pointer() Pointer

	// SubscribeDeviceChanges registers a handler invoked whenever a device connects or disconnects.
	//
	// Parameters:
	//   - handler: function called after the device set changed
	//
	// Returns:
	//   - Subscription: handle to detach the handler
	SubscribeDeviceChanges(handler func()) Subscription

	// Close releases resources held by the source.
	//
	// Returns:
	//   - error: error if releasing platform resources fails
	Close() error
}
