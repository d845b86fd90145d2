package config

import (
	"github.com/Carmen-Shannon/oxy-fps/engine"
	"github.com/Carmen-Shannon/oxy-fps/engine/character"
	"github.com/Carmen-Shannon/oxy-fps/engine/logger"
	"github.com/Carmen-Shannon/oxy-fps/engine/physics"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/sirupsen/logrus"
)

// Logger builds the logrus logger described by the log section.
//
// Returns:
//   - *logrus.Logger: the logger
//   - error: error if the level or format is invalid
func (c LogConfig) Logger() (*logrus.Logger, error) {
	return logger.New(logger.Config{Level: c.Level, Format: c.Format})
}

// Options maps the engine section onto engine options.
//
// Returns:
//   - []engine.EngineBuilderOption: tick rate and profiling options
func (c EngineConfig) Options() []engine.EngineBuilderOption {
	return []engine.EngineBuilderOption{
		engine.WithTickRate(c.TickRate),
		engine.WithProfiling(c.Profiling),
	}
}

// Options maps the physics section onto reference world options.
//
// Returns:
//   - []physics.WorldOption: the gravity option when gravity is set
func (c PhysicsConfig) Options() []physics.WorldOption {
	if c.Gravity == nil {
		return nil
	}
	return []physics.WorldOption{physics.WithGravity(*c.Gravity)}
}

// Options maps the character section onto controller options. Bindings are assumed valid;
// Parse and Load validate them.
//
// Returns:
//   - []character.ControllerOption: spawn, body, camera, tunable and binding options
func (c CharacterConfig) Options() []character.ControllerOption {
	opts := []character.ControllerOption{
		character.WithPosition(c.Spawn),
		character.WithBodyRadius(c.BodyRadius),
		character.WithBodyMass(c.BodyMass),
		character.WithCameraOffset(mgl32.Vec3{0, c.CameraHeight, 0}),
		character.WithMoveSpeed(c.MoveSpeed),
		character.WithSprintSpeed(c.SprintSpeed),
		character.WithJumpForce(c.JumpForce),
		character.WithLookSensitivity(c.LookSensitivity),
	}
	if bindings, err := c.KeyBindings(); err == nil && len(bindings) > 0 {
		opts = append(opts, character.WithKeyBindings(bindings))
	}
	return opts
}

// Apply pushes the live-tunable settings (speeds, jump force, look sensitivity, bindings) onto
// an existing controller. Spawn and body settings only apply at creation.
// Must run on the frame goroutine; use Engine.Post from other goroutines.
//
// Parameters:
//   - ctrl: the controller to update
//
// Returns:
//   - error: error wrapping ErrUnknownAxis or ErrEmptyKey; nothing is applied in that case
func (c CharacterConfig) Apply(ctrl character.Controller) error {
	bindings, err := c.KeyBindings()
	if err != nil {
		return err
	}
	ctrl.SetMoveSpeed(c.MoveSpeed)
	ctrl.SetSprintSpeed(c.SprintSpeed)
	ctrl.SetJumpForce(c.JumpForce)
	ctrl.SetLookSensitivity(c.LookSensitivity)
	for axis, key := range bindings {
		ctrl.SetKeyBinding(axis, key)
	}
	return nil
}
