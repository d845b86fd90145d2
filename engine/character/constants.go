package character

import "github.com/chewxy/math32"

// Ground sensing and jump arbitration constants.
const (
	// ProbeDistance is the length of the downward ground raycast.
	ProbeDistance float32 = 1
	// MinSlopeTilt is the tilt in radians below which the floor is treated as flat.
	MinSlopeTilt float32 = 0.01
	// SlideThreshold is the tilt in radians at or above which the ground is too steep to stand on.
	SlideThreshold float32 = math32.Pi / 3
	// NearContactDistance is the maximum ground distance from which a jump may start.
	NearContactDistance float32 = 0.9
	// GroundedFriction is the body friction while grounded-stable.
	GroundedFriction float32 = 10000
	// AirborneFriction is the body friction while airborne or on steep ground.
	AirborneFriction float32 = 0
	// JumpCooldownFrames is the number of frames blocked after a jump fires.
	JumpCooldownFrames = 5
)

// Mouse-look pitch limits in radians. Positive pitch looks down.
const (
	MinPitch float32 = -math32.Pi / 3
	MaxPitch float32 = math32.Pi / 2.2
)

// Tunable defaults, in units per frame.
const (
	DefaultMoveSpeed       float32 = 0.06
	DefaultSprintSpeed     float32 = 0.05
	DefaultJumpForce       float32 = 30
	DefaultLookSensitivity float32 = 1.0 / 300.0
)

// Collision body and camera defaults.
const (
	DefaultBodyRadius      float32 = 0.5
	DefaultBodyMass        float32 = 10
	DefaultBodyRestitution float32 = 0
	DefaultCameraNear      float32 = 0.05
	DefaultCameraFar       float32 = 100
	DefaultCameraHeight    float32 = 0.6
)
