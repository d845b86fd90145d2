package window

import "github.com/sirupsen/logrus"

// WindowBuilderOption is a functional option for configuring an engineWindow.
// Use the With* functions to create options.
type WindowBuilderOption func(w *engineWindow)

// WithTitle sets the window title displayed in the title bar.
//
// Parameters:
//   - title: the window title text
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithTitle(title string) WindowBuilderOption {
	return func(w *engineWindow) {
		w.title = title
	}
}

// WithSizeLimits sets the minimum and maximum window size used while resizing.
//
// Parameters:
//   - minWidth, minHeight: minimum size in pixels
//   - maxWidth, maxHeight: maximum size in pixels
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithSizeLimits(minWidth, minHeight, maxWidth, maxHeight int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.minWidth = minWidth
		w.minHeight = minHeight
		w.maxWidth = maxWidth
		w.maxHeight = maxHeight
	}
}

// WithWidth sets the initial window width.
//
// Parameters:
//   - width: initial width in pixels
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithWidth(width int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.width = width
	}
}

// WithHeight sets the initial window height.
//
// Parameters:
//   - height: initial height in pixels
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithHeight(height int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.height = height
	}
}

// WithCursorCaptured starts the window with the cursor captured (pointer lock).
//
// Parameters:
//   - captured: true to capture on creation
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithCursorCaptured(captured bool) WindowBuilderOption {
	return func(w *engineWindow) {
		w.captured = captured
	}
}

// WithLogger sets the logger used for device and capture diagnostics.
//
// Parameters:
//   - log: the logger
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithLogger(log logrus.FieldLogger) WindowBuilderOption {
	return func(w *engineWindow) {
		if log != nil {
			w.log = log
		}
	}
}
