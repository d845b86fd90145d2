package engine

import (
	"github.com/Carmen-Shannon/oxy-fps/engine/camera"
	"github.com/Carmen-Shannon/oxy-fps/engine/physics"
	"github.com/Carmen-Shannon/oxy-fps/engine/profiler"
	"github.com/sirupsen/logrus"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithProfiling enables or disables performance profiling output.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}

// WithProfiler replaces the default profiler.
//
// Parameters:
//   - p: the profiler
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiler(p *profiler.Profiler) EngineBuilderOption {
	return func(e *engine) {
		e.profiler = p
	}
}

// WithTickRate sets the engine tick rate in frames per second.
// Values <= 0 will be treated as the default (60Hz).
//
// Parameters:
//   - fps: target ticks per second (default 60)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithTickRate(fps float64) EngineBuilderOption {
	return func(e *engine) {
		e.engineTickRate.Store(int64(tickDuration(fps)))
	}
}

// WithWindow sets the window polled for events before every frame.
//
// Parameters:
//   - w: a pre-configured window, usually a window.Window
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(w Window) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
	}
}

// WithSimulation sets the physics simulation stepped between the participant hooks.
//
// Parameters:
//   - sim: the simulation
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithSimulation(sim physics.Simulation) EngineBuilderOption {
	return func(e *engine) {
		e.simulation = sim
	}
}

// WithParticipant registers a physics participant during engine construction.
//
// Parameters:
//   - p: the participant
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithParticipant(p PhysicsParticipant) EngineBuilderOption {
	return func(e *engine) {
		e.participants.Set(e.nextHandle, p)
		e.nextHandle++
	}
}

// WithCamera registers a camera whose aspect ratio follows the window size.
//
// Parameters:
//   - c: the camera
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithCamera(c camera.Camera) EngineBuilderOption {
	return func(e *engine) {
		e.cameras = append(e.cameras, c)
	}
}

// WithLogger sets the logger for loop lifecycle messages and the default profiler.
//
// Parameters:
//   - log: the logger
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithLogger(log logrus.FieldLogger) EngineBuilderOption {
	return func(e *engine) {
		if log != nil {
			e.log = log
		}
	}
}
