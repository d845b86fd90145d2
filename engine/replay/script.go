package replay

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/Carmen-Shannon/oxy-fps/common"
	"github.com/Carmen-Shannon/oxy-fps/engine/config"
	"github.com/Carmen-Shannon/oxy-fps/engine/physics"
	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"
)

var (
	// ErrNoFrames is returned when a script runs for zero or fewer frames.
	ErrNoFrames = errors.New("script must run for at least one frame")
	// ErrEventFrame is returned when an event is scheduled outside the script's frames.
	ErrEventFrame = errors.New("event frame out of range")
	// ErrEventAction is returned when an event has no action or more than one.
	ErrEventAction = errors.New("event must have exactly one action")
	// ErrUnknownKey is returned when a key event names a key that is only whitespace.
	ErrUnknownKey = errors.New("event key is blank")
	// ErrInvalidCollider is returned when a plane has no normal or a box has a non-positive size.
	ErrInvalidCollider = errors.New("invalid collider")
)

// Script is a deterministic input recording: a world layout, controller settings and timed
// device events. Events apply before the frame they name is stepped; the sampler commits them
// at the end of that frame, so the controller reacts on the following frame.
type Script struct {
	Name      string                 `yaml:"name"`
	Frames    int                    `yaml:"frames"`
	TickRate  float64                `yaml:"tick_rate"`
	World     WorldLayout            `yaml:"world"`
	Character config.CharacterConfig `yaml:"character"`
	Events    []Event                `yaml:"events"`
}

// WorldLayout lists the static colliders of the replay world.
type WorldLayout struct {
	Gravity *mgl32.Vec3 `yaml:"gravity"`
	Planes  []Plane     `yaml:"planes"`
	Boxes   []Box       `yaml:"boxes"`
}

// Plane is a static half-space.
type Plane struct {
	Point       mgl32.Vec3 `yaml:"point"`
	Normal      mgl32.Vec3 `yaml:"normal"`
	Restitution float32    `yaml:"restitution"`
	Friction    float32    `yaml:"friction"`
}

// Box is a static box. Rotation is Euler radians (x = pitch, y = yaw, z = roll).
type Box struct {
	Center      mgl32.Vec3 `yaml:"center"`
	Size        mgl32.Vec3 `yaml:"size"`
	Rotation    mgl32.Vec3 `yaml:"rotation"`
	Restitution float32    `yaml:"restitution"`
	Friction    float32    `yaml:"friction"`
}

// Event is one device event. Exactly one of KeyDown, KeyUp, PointerTo or PointerBy is set.
type Event struct {
	Frame   int    `yaml:"frame"`
	KeyDown string `yaml:"key_down"`
	KeyUp   string `yaml:"key_up"`
	// PointerTo moves the pointer to an absolute position.
	PointerTo *mgl32.Vec2 `yaml:"pointer_to"`
	// PointerBy moves the pointer relative to its last position.
	PointerBy *mgl32.Vec2 `yaml:"pointer_by"`
}

// DefaultTickRate is used when a script leaves tick_rate unset.
const DefaultTickRate = 60

// Load reads and validates a script file.
//
// Parameters:
//   - path: path to a YAML script
//
// Returns:
//   - Script: the script with defaults filled in
//   - error: error if the file cannot be read, decoded or validated
func Load(path string) (Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Script{}, fmt.Errorf("failed to read script %s: %w", path, err)
	}
	s, err := Parse(data)
	if err != nil {
		return Script{}, fmt.Errorf("script %s: %w", path, err)
	}
	return s, nil
}

// Parse decodes and validates a YAML script. Unknown fields are rejected.
//
// Parameters:
//   - data: the YAML document
//
// Returns:
//   - Script: the script with defaults filled in
//   - error: error if the document cannot be decoded or fails validation
func Parse(data []byte) (Script, error) {
	s := Script{Character: config.Default().Character}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&s); err != nil {
		return Script{}, fmt.Errorf("failed to decode script: %w", err)
	}
	s.TickRate = common.Coalesce(s.TickRate, DefaultTickRate)
	s.Character = s.Character.WithDefaults()
	if err := s.Validate(); err != nil {
		return Script{}, err
	}
	return s, nil
}

// Validate checks the script. Errors wrap the package sentinels or the config sentinels for
// the character section.
//
// Returns:
//   - error: the first problem found, or nil
func (s Script) Validate() error {
	if s.Frames <= 0 {
		return fmt.Errorf("%w: %d", ErrNoFrames, s.Frames)
	}
	for i, p := range s.World.Planes {
		if p.Normal.Len() == 0 {
			return fmt.Errorf("%w: plane %d has no normal", ErrInvalidCollider, i)
		}
	}
	for i, b := range s.World.Boxes {
		if b.Size.X() <= 0 || b.Size.Y() <= 0 || b.Size.Z() <= 0 {
			return fmt.Errorf("%w: box %d size %v", ErrInvalidCollider, i, b.Size)
		}
	}
	for i, ev := range s.Events {
		if ev.Frame < 0 || ev.Frame >= s.Frames {
			return fmt.Errorf("%w: event %d at frame %d of %d", ErrEventFrame, i, ev.Frame, s.Frames)
		}
		if err := ev.validate(); err != nil {
			return fmt.Errorf("event %d: %w", i, err)
		}
	}
	return s.Character.Validate()
}

func (ev Event) validate() error {
	actions := 0
	for _, set := range []bool{ev.KeyDown != "", ev.KeyUp != "", ev.PointerTo != nil, ev.PointerBy != nil} {
		if set {
			actions++
		}
	}
	if actions != 1 {
		return fmt.Errorf("%w: found %d", ErrEventAction, actions)
	}
	for _, key := range []string{ev.KeyDown, ev.KeyUp} {
		if key != "" && common.NormalizeKey(key) == "" {
			return fmt.Errorf("%w: %q", ErrUnknownKey, key)
		}
	}
	return nil
}

// worldOptions maps the layout onto reference world options.
func (l WorldLayout) worldOptions() []physics.WorldOption {
	var opts []physics.WorldOption
	if l.Gravity != nil {
		opts = append(opts, physics.WithGravity(*l.Gravity))
	}
	for _, p := range l.Planes {
		opts = append(opts, physics.WithPlane(physics.PlaneDescriptor{
			Point:       p.Point,
			Normal:      p.Normal,
			Restitution: p.Restitution,
			Friction:    p.Friction,
		}))
	}
	for _, b := range l.Boxes {
		opts = append(opts, physics.WithBox(physics.BoxDescriptor{
			Center:      b.Center,
			Size:        b.Size,
			Rotation:    b.Rotation,
			Restitution: b.Restitution,
			Friction:    b.Friction,
		}))
	}
	return opts
}
