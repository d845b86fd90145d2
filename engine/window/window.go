package window

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-fps/common"
	"github.com/Carmen-Shannon/oxy-fps/engine/input"
	"github.com/Carmen-Shannon/oxy-fps/engine/logger"
	"github.com/sirupsen/logrus"
)

// Window provides platform windowing and is the device event source for keyboard and pointer.
// Events are delivered from PollEvents on the goroutine that created the window.
type Window interface {
	input.DeviceSource

	// SetResizeCallback sets the function called when the window is resized.
	//
	// Parameters:
	//   - callback: function receiving new width and height in pixels
	SetResizeCallback(callback func(width, height int))

	// SetScrollCallback sets the callback for mouse scroll wheel events.
	//
	// Parameters:
	//   - callback: function receiving scroll delta (positive = up, negative = down)
	SetScrollCallback(callback func(delta float32))

	// SetMouseDownCallback sets the callback for mouse button presses.
	//
	// Parameters:
	//   - callback: function receiving the button index (0 = left, 1 = right, 2 = middle) and cursor position
	SetMouseDownCallback(callback func(button int, x, y float32))

	// SetCursorCaptured hides and locks the cursor to the window so pointer movement is unbounded
	// (pointer lock), or releases it.
	//
	// Parameters:
	//   - captured: true to capture, false to release
	SetCursorCaptured(captured bool)

	// CursorCaptured reports whether the cursor is captured.
	//
	// Returns:
	//   - bool: true while captured
	CursorCaptured() bool

	// IsRunning returns true if the window is still active.
	//
	// Returns:
	//   - bool: true if window is running, false if closed
	IsRunning() bool

	// PollEvents processes pending platform events without blocking and delivers them to
	// subscribers.
	//
	// Returns:
	//   - bool: false once the window should close
	PollEvents() bool

	// Width returns the current window client area width in pixels.
	//
	// Returns:
	//   - int: width in pixels
	Width() int

	// Height returns the current window client area height in pixels.
	//
	// Returns:
	//   - int: height in pixels
	Height() int
}

// engineWindow is the implementation of the Window interface.
// Holds window configuration, platform state, and the input feeds.
type engineWindow struct {
	title string

	maxWidth  int
	maxHeight int
	minWidth  int
	minHeight int

	width  int
	height int

	// internalWindow holds the platform-specific window data (glfwWindow).
	internalWindow any

	log logrus.FieldLogger

	keys    *input.KeyFeed
	pointer *input.PointerFeed
	changes *input.Feed[struct{}]

	keyboardConnected bool
	pointerConnected  bool
	captured          bool

	lastX, lastY float32
	hasCursor    bool

	onResize    func(width, height int)
	onScroll    func(delta float32)
	onMouseDown func(button int, x, y float32)

	closeOnce sync.Once
	closeErr  error
}

var _ Window = &engineWindow{}

// NewWindow creates and shows a new Window with the specified options.
// Panics if the platform window cannot be created.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the open window
func NewWindow(options ...WindowBuilderOption) Window {
	w := newEngineWindow(options...)
	if err := newPlatformWindow(w); err != nil {
		panic(fmt.Sprintf("failed to create platform window: %v", err))
	}
	return w
}

func newEngineWindow(options ...WindowBuilderOption) *engineWindow {
	w := &engineWindow{
		title:             "oxy-fps",
		maxWidth:          2560,
		maxHeight:         1440,
		minWidth:          600,
		minHeight:         200,
		width:             1280,
		height:            720,
		log:               logger.Discard(),
		keys:              input.NewKeyFeed(),
		pointer:           input.NewPointerFeed(),
		changes:           input.NewFeed[struct{}](),
		keyboardConnected: true,
		pointerConnected:  true,
	}
	for _, opt := range options {
		opt(w)
	}
	return w
}

func (w *engineWindow) Keyboard() input.Keyboard {
	if !w.keyboardConnected {
		return nil
	}
	return w.keys
}

func (w *engineWindow) Pointer() input.Pointer {
	if !w.pointerConnected {
		return nil
	}
	return w.pointer
}

func (w *engineWindow) SubscribeDeviceChanges(handler func()) input.Subscription {
	return w.changes.Subscribe(func(struct{}) { handler() })
}

func (w *engineWindow) SetResizeCallback(callback func(width, height int)) {
	w.onResize = callback
}

func (w *engineWindow) SetScrollCallback(callback func(delta float32)) {
	w.onScroll = callback
}

func (w *engineWindow) SetMouseDownCallback(callback func(button int, x, y float32)) {
	w.onMouseDown = callback
}

func (w *engineWindow) SetCursorCaptured(captured bool) {
	if w.captured == captured {
		return
	}
	w.captured = captured
	// The cursor jumps when the mode changes; the next move must not count as movement.
	w.hasCursor = false
	platformSetCursorCaptured(w, captured)
	w.log.WithField("captured", captured).Debug("cursor capture changed")
}

func (w *engineWindow) CursorCaptured() bool {
	return w.captured
}

func (w *engineWindow) IsRunning() bool {
	return platformIsRunningCheck(w)
}

func (w *engineWindow) PollEvents() bool {
	return platformProcessMessages(w)
}

// Close destroys the window and drops every subscriber. Safe to call more than once.
func (w *engineWindow) Close() error {
	w.closeOnce.Do(func() {
		w.keys.Clear()
		w.pointer.Clear()
		w.changes.Clear()
		w.closeErr = platformCloseWindow(w)
	})
	return w.closeErr
}

func (w *engineWindow) Width() int {
	return w.width
}

func (w *engineWindow) Height() int {
	return w.height
}

// handleKey translates a platform key transition into a KeyEvent. fallbackName is used for
// keys without a built-in name (punctuation, layout-dependent keys).
func (w *engineWindow) handleKey(keyCode uint32, fallbackName string, pressed bool) {
	name := common.KeyName(keyCode)
	if name == "" {
		name = common.NormalizeKey(fallbackName)
	}
	if name == "" {
		return
	}
	ev := input.KeyEvent{Key: name, Type: input.KeyUp}
	if pressed {
		ev.Type = input.KeyDown
	}
	w.keys.Emit(ev)
}

// handleCursor emits a PointerEvent with the movement since the previous cursor position.
// The first position after a capture change or re-entry reports zero movement.
func (w *engineWindow) handleCursor(x, y float32) {
	ev := input.PointerEvent{X: x, Y: y}
	if w.hasCursor {
		ev.MovementX = x - w.lastX
		ev.MovementY = y - w.lastY
	}
	w.lastX, w.lastY = x, y
	w.hasCursor = true
	w.pointer.Emit(ev)
}

func (w *engineWindow) handleFocus(focused bool) {
	w.setConnected(&w.keyboardConnected, focused, "keyboard")
}

func (w *engineWindow) handleCursorEnter(entered bool) {
	if w.captured {
		return
	}
	if !entered {
		w.hasCursor = false
	}
	w.setConnected(&w.pointerConnected, entered, "pointer")
}

func (w *engineWindow) setConnected(flag *bool, connected bool, device string) {
	if *flag == connected {
		return
	}
	*flag = connected
	w.log.WithFields(logrus.Fields{
		"device":    device,
		"connected": connected,
	}).Debug("input device changed")
	w.changes.Emit(struct{}{})
}
