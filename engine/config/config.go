// Package config loads the YAML configuration for the demo host and maps it onto the functional
// options of the engine packages.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Carmen-Shannon/oxy-fps/common"
	"github.com/Carmen-Shannon/oxy-fps/engine/character"
	"github.com/Carmen-Shannon/oxy-fps/engine/input"
	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"
)

var (
	// ErrInvalidTickRate is returned when the tick rate is negative.
	ErrInvalidTickRate = errors.New("tick rate must not be negative")
	// ErrInvalidWindowSize is returned when a window dimension is negative.
	ErrInvalidWindowSize = errors.New("window size must not be negative")
	// ErrInvalidSpeed is returned when a character speed, force or sensitivity is negative.
	ErrInvalidSpeed = errors.New("character tunables must not be negative")
	// ErrInvalidBody is returned when the body radius or mass is negative.
	ErrInvalidBody = errors.New("body radius and mass must not be negative")
	// ErrUnknownAxis is returned when a binding names an axis that does not exist or is not
	// key-driven.
	ErrUnknownAxis = errors.New("unknown digital axis")
	// ErrEmptyKey is returned when a binding has no key.
	ErrEmptyKey = errors.New("binding key is empty")
)

// Config is the root of the YAML configuration file. Zero fields fall back to defaults.
type Config struct {
	Log       LogConfig       `yaml:"log"`
	Engine    EngineConfig    `yaml:"engine"`
	Window    WindowConfig    `yaml:"window"`
	Physics   PhysicsConfig   `yaml:"physics"`
	Character CharacterConfig `yaml:"character"`
}

// LogConfig selects the logrus level and format.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// EngineConfig configures the frame loop.
type EngineConfig struct {
	TickRate  float64 `yaml:"tick_rate"`
	Profiling bool    `yaml:"profiling"`
}

// WindowConfig configures the platform window.
type WindowConfig struct {
	Title         string `yaml:"title"`
	Width         int    `yaml:"width"`
	Height        int    `yaml:"height"`
	CaptureCursor bool   `yaml:"capture_cursor"`
}

// PhysicsConfig configures the reference world.
type PhysicsConfig struct {
	// Gravity is left nil to use physics.DefaultGravity.
	Gravity *mgl32.Vec3 `yaml:"gravity"`
}

// CharacterConfig configures the character controller. Bindings map axis names (see
// input.ParseAxis) to key identifiers.
type CharacterConfig struct {
	Spawn           mgl32.Vec3        `yaml:"spawn"`
	BodyRadius      float32           `yaml:"body_radius"`
	BodyMass        float32           `yaml:"body_mass"`
	CameraHeight    float32           `yaml:"camera_height"`
	MoveSpeed       float32           `yaml:"move_speed"`
	SprintSpeed     float32           `yaml:"sprint_speed"`
	JumpForce       float32           `yaml:"jump_force"`
	LookSensitivity float32           `yaml:"look_sensitivity"`
	Bindings        map[string]string `yaml:"bindings"`
}

// Default returns the configuration used when no file is given.
//
// Returns:
//   - Config: the default configuration
func Default() Config {
	return Config{
		Log:    LogConfig{Level: "info", Format: "text"},
		Engine: EngineConfig{TickRate: 60},
		Window: WindowConfig{Title: "oxy-fps", Width: 1280, Height: 720},
		Character: CharacterConfig{
			Spawn:           mgl32.Vec3{0, 1, 0},
			BodyRadius:      character.DefaultBodyRadius,
			BodyMass:        character.DefaultBodyMass,
			CameraHeight:    character.DefaultCameraHeight,
			MoveSpeed:       character.DefaultMoveSpeed,
			SprintSpeed:     character.DefaultSprintSpeed,
			JumpForce:       character.DefaultJumpForce,
			LookSensitivity: character.DefaultLookSensitivity,
		},
	}
}

// Load reads and validates the configuration file at path.
//
// Parameters:
//   - path: path to a YAML file
//
// Returns:
//   - Config: the configuration with defaults filled in
//   - error: error if the file cannot be read, decoded or validated
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes a YAML document over Default(), so keys the document leaves out keep their
// default and an explicit zero survives. Unknown fields are rejected.
// An empty document yields Default().
//
// Parameters:
//   - data: the YAML document
//
// Returns:
//   - Config: the configuration with defaults filled in
//   - error: error if the document cannot be decoded or fails validation
func Parse(data []byte) (Config, error) {
	cfg := Default()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// withDefaults fills the zero fields that have no usable zero value from Default().
func (c Config) withDefaults() Config {
	d := Default()
	c.Log.Level = common.Coalesce(c.Log.Level, d.Log.Level)
	c.Log.Format = common.Coalesce(c.Log.Format, d.Log.Format)
	c.Engine.TickRate = common.Coalesce(c.Engine.TickRate, d.Engine.TickRate)
	c.Window.Title = common.Coalesce(c.Window.Title, d.Window.Title)
	c.Window.Width = common.Coalesce(c.Window.Width, d.Window.Width)
	c.Window.Height = common.Coalesce(c.Window.Height, d.Window.Height)
	c.Character = c.Character.WithDefaults()
	return c
}

// WithDefaults returns c with a zero body radius or mass taken from Default().Character.
// Tunables and spawn are kept as given; start from Default().Character to inherit them.
//
// Returns:
//   - CharacterConfig: the completed section
func (c CharacterConfig) WithDefaults() CharacterConfig {
	d := Default().Character
	c.BodyRadius = common.Coalesce(c.BodyRadius, d.BodyRadius)
	c.BodyMass = common.Coalesce(c.BodyMass, d.BodyMass)
	return c
}

// Validate checks the configuration. Errors wrap the package sentinels.
//
// Returns:
//   - error: the first problem found, or nil
func (c Config) Validate() error {
	if c.Engine.TickRate < 0 {
		return fmt.Errorf("%w: %v", ErrInvalidTickRate, c.Engine.TickRate)
	}
	if c.Window.Width < 0 || c.Window.Height < 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidWindowSize, c.Window.Width, c.Window.Height)
	}
	return c.Character.Validate()
}

// Validate checks the character section. Errors wrap the package sentinels.
//
// Returns:
//   - error: the first problem found, or nil
func (c CharacterConfig) Validate() error {
	if c.BodyRadius < 0 || c.BodyMass < 0 {
		return fmt.Errorf("%w: radius %v mass %v", ErrInvalidBody, c.BodyRadius, c.BodyMass)
	}
	for name, v := range map[string]float32{
		"move_speed":       c.MoveSpeed,
		"sprint_speed":     c.SprintSpeed,
		"jump_force":       c.JumpForce,
		"look_sensitivity": c.LookSensitivity,
	} {
		if v < 0 {
			return fmt.Errorf("%w: %s = %v", ErrInvalidSpeed, name, v)
		}
	}
	if _, err := c.KeyBindings(); err != nil {
		return err
	}
	return nil
}

// KeyBindings resolves the configured bindings to sampler axes.
//
// Returns:
//   - map[input.Axis]string: axis to key identifier
//   - error: error wrapping ErrUnknownAxis or ErrEmptyKey
func (c CharacterConfig) KeyBindings() (map[input.Axis]string, error) {
	out := make(map[input.Axis]string, len(c.Bindings))
	for name, key := range c.Bindings {
		axis, err := input.ParseAxis(name)
		if err != nil || !axis.Digital() {
			return nil, fmt.Errorf("%w: %q", ErrUnknownAxis, name)
		}
		if common.NormalizeKey(key) == "" {
			return nil, fmt.Errorf("%w: %s", ErrEmptyKey, name)
		}
		out[axis] = key
	}
	return out, nil
}
