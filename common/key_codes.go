package common

import "strings"

// Virtual key codes for cross-platform input handling.
// These values match GLFW key codes which use ASCII values for printable keys.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
const (
	KeySpace     = 32  // Spacebar (ASCII)
	KeyA         = 65  // A key (ASCII)
	KeyD         = 68  // D key (ASCII)
	KeyS         = 83  // S key (ASCII)
	KeyW         = 87  // W key (ASCII)
	KeyZ         = 90  // Z key (ASCII)
	KeyEsc       = 256 // Escape key (GLFW)
	KeyEnter     = 257 // Enter key (GLFW)
	KeyTab       = 258 // Tab key (GLFW)
	KeyBackspace = 259 // Backspace key (GLFW)
	KeyRight     = 262 // Right arrow (GLFW)
	KeyLeft      = 263 // Left arrow (GLFW)
	KeyDown      = 264 // Down arrow (GLFW)
	KeyUp        = 265 // Up arrow (GLFW)

	Key0 = 48 // 0 key (ASCII)
	Key9 = 57 // 9 key (ASCII)
)

// Modifier keys. Left and right variants share one textual name.
const (
	KeyLeftShift    = 340 // Left Shift (GLFW)
	KeyLeftControl  = 341 // Left Control (GLFW)
	KeyLeftAlt      = 342 // Left Alt (GLFW)
	KeyRightShift   = 344 // Right Shift (GLFW)
	KeyRightControl = 345 // Right Control (GLFW)
	KeyRightAlt     = 346 // Right Alt (GLFW)
)

// Textual key identifiers used by key bindings. Printable keys use their lowercase character.
const (
	KeyNameSpace   = " "
	KeyNameShift   = "shift"
	KeyNameControl = "control"
	KeyNameAlt     = "alt"
	KeyNameEscape  = "escape"
	KeyNameEnter   = "enter"
	KeyNameTab     = "tab"
	KeyNameBack    = "backspace"
	KeyNameLeft    = "arrowleft"
	KeyNameRight   = "arrowright"
	KeyNameUp      = "arrowup"
	KeyNameDown    = "arrowdown"
)

var namedKeys = map[uint32]string{
	KeySpace:        KeyNameSpace,
	KeyLeftShift:    KeyNameShift,
	KeyRightShift:   KeyNameShift,
	KeyLeftControl:  KeyNameControl,
	KeyRightControl: KeyNameControl,
	KeyLeftAlt:      KeyNameAlt,
	KeyRightAlt:     KeyNameAlt,
	KeyEsc:          KeyNameEscape,
	KeyEnter:        KeyNameEnter,
	KeyTab:          KeyNameTab,
	KeyBackspace:    KeyNameBack,
	KeyLeft:         KeyNameLeft,
	KeyRight:        KeyNameRight,
	KeyUp:           KeyNameUp,
	KeyDown:         KeyNameDown,
}

// KeyName converts a virtual key code into the textual identifier used by key bindings.
// Letters and digits map to their lowercase character, modifiers collapse left/right
// variants. Unknown codes return an empty string.
//
// Parameters:
//   - keyCode: the GLFW-compatible virtual key code
//
// Returns:
//   - string: the textual key identifier, or "" if the code has no name
func KeyName(keyCode uint32) string {
	if name, ok := namedKeys[keyCode]; ok {
		return name
	}
	if (keyCode >= KeyA && keyCode <= KeyZ) || (keyCode >= Key0 && keyCode <= Key9) {
		return strings.ToLower(string(rune(keyCode)))
	}
	return ""
}

// NormalizeKey lowercases a textual key identifier so bindings compare case-insensitively.
// The space key is kept as a single space; the word "space" is accepted as an alias since
// a bare space is awkward to write in configuration files.
//
// Parameters:
//   - key: the key identifier to normalize
//
// Returns:
//   - string: the normalized identifier
func NormalizeKey(key string) string {
	if key == KeyNameSpace {
		return key
	}
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "space" {
		return KeyNameSpace
	}
	return key
}
