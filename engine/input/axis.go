package input

import (
	"fmt"
	"strings"
)

// Axis identifies one named input channel in the sampler's axis vector.
type Axis int

const (
	// AxisForward is the digital move-forward axis (0 or 1).
	AxisForward Axis = iota
	// AxisLeft is the digital strafe-left axis (0 or 1).
	AxisLeft
	// AxisBackward is the digital move-backward axis (0 or 1).
	AxisBackward
	// AxisRight is the digital strafe-right axis (0 or 1).
	AxisRight
	// AxisJump is the digital jump axis (0 or 1).
	AxisJump
	// AxisSprint is the digital sprint axis (0 or 1).
	AxisSprint
	// AxisMouseX is the absolute pointer X coordinate, carried across frames.
	AxisMouseX
	// AxisMouseY is the absolute pointer Y coordinate, carried across frames.
	AxisMouseY
	// AxisMouseDeltaX accumulates pointer motion since the last frame boundary.
	AxisMouseDeltaX
	// AxisMouseDeltaY accumulates pointer motion since the last frame boundary.
	AxisMouseDeltaY

	// AxisCount is the number of axes in the vector.
	AxisCount
)

// firstDeltaAxis marks the start of the per-frame axes that reset at every frame boundary.
// All axes from here to AxisCount are deltas.
const firstDeltaAxis = AxisMouseDeltaX

var axisNames = [AxisCount]string{
	AxisForward:     "forward",
	AxisLeft:        "left",
	AxisBackward:    "backward",
	AxisRight:       "right",
	AxisJump:        "jump",
	AxisSprint:      "sprint",
	AxisMouseX:      "mouse_x",
	AxisMouseY:      "mouse_y",
	AxisMouseDeltaX: "mouse_delta_x",
	AxisMouseDeltaY: "mouse_delta_y",
}

// DigitalAxes lists the key-driven axes in declaration order.
var DigitalAxes = []Axis{AxisForward, AxisLeft, AxisBackward, AxisRight, AxisJump, AxisSprint}

// String returns the snake_case name of the axis.
func (a Axis) String() string {
	if a < 0 || a >= AxisCount {
		return fmt.Sprintf("axis(%d)", int(a))
	}
	return axisNames[a]
}

// Digital reports whether the axis is driven by a key binding.
func (a Axis) Digital() bool {
	return a >= AxisForward && a <= AxisSprint
}

// Valid reports whether the axis is a member of the enumeration.
func (a Axis) Valid() bool {
	return a >= 0 && a < AxisCount
}

// ParseAxis resolves an axis from its snake_case name (case-insensitive).
//
// Parameters:
//   - name: the axis name, e.g. "forward" or "mouse_delta_x"
//
// Returns:
//   - Axis: the matching axis
//   - error: error if no axis has that name
func ParseAxis(name string) (Axis, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range axisNames {
		if n == name {
			return Axis(i), nil
		}
	}
	return 0, fmt.Errorf("unknown input axis %q", name)
}
