// Package engine schedules frames: a fixed-step loop that runs posted tasks, physics
// participants, the physics step and end-of-frame hooks on a single goroutine.
package engine

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/oxy-fps/engine/camera"
	"github.com/Carmen-Shannon/oxy-fps/engine/logger"
	"github.com/Carmen-Shannon/oxy-fps/engine/physics"
	"github.com/Carmen-Shannon/oxy-fps/engine/profiler"
	"github.com/elliotchance/orderedmap/v2"
	"github.com/sirupsen/logrus"
)

// PhysicsParticipant is anything that runs once before and once after each physics step.
type PhysicsParticipant interface {
	BeforePhysics()
	AfterPhysics()
}

// Window is the part of a platform window the loop drives. window.Window satisfies it.
type Window interface {
	// PollEvents delivers pending platform events and reports whether the window is still open.
	PollEvents() bool
	// SetResizeCallback sets the function called when the window is resized.
	SetResizeCallback(callback func(width, height int))
}

// engine implements the Engine interface.
type engine struct {
	tickRateChannel chan time.Duration // Channel for dynamic tick rate updates

	running atomic.Bool

	quitChannel chan struct{}
	quitOnce    sync.Once // Ensures quitChannel is only closed once

	window     Window
	simulation physics.Simulation
	cameras    []camera.Camera
	log        logrus.FieldLogger

	profiler         *profiler.Profiler
	profilingEnabled bool

	engineTickRate atomic.Int64 // nanoseconds per tick
	tickCallback   func(deltaTime float32)

	participants  *orderedmap.OrderedMap[uint64, PhysicsParticipant]
	nextHandle    uint64
	endFrameHooks []func()

	postMu sync.Mutex
	posted []func()

	frame uint64
}

// Engine is the main entry point for the engine.
// It owns the frame loop and the order work runs in within a frame.
type Engine interface {
	// Window returns the window polled each frame, or nil when running headless.
	//
	// Returns:
	//   - Window: the window instance
	Window() Window

	// Simulation returns the physics simulation stepped each frame, or nil.
	//
	// Returns:
	//   - physics.Simulation: the simulation
	Simulation() physics.Simulation

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetTickRate sets the engine tick rate in frames per second.
	// Safe to call from any goroutine; a running loop picks the change up on its next frame.
	//
	// Parameters:
	//   - fps: target frames per second (defaults to 60 if <= 0)
	SetTickRate(fps float64)

	// TickRate returns the duration of one frame.
	//
	// Returns:
	//   - time.Duration: the frame duration
	TickRate() time.Duration

	// SetTickCallback registers the function called at the start of each frame, after posted
	// tasks and before the physics participants.
	//
	// Parameters:
	//   - callback: function receiving the fixed frame delta in seconds
	SetTickCallback(callback func(deltaTime float32))

	// AddParticipant registers a participant. Participants run in registration order.
	//
	// Parameters:
	//   - p: the participant
	//
	// Returns:
	//   - uint64: handle for RemoveParticipant
	AddParticipant(p PhysicsParticipant) uint64

	// RemoveParticipant unregisters the participant with the given handle.
	//
	// Parameters:
	//   - handle: the handle returned by AddParticipant
	RemoveParticipant(handle uint64)

	// OnEndFrame registers a hook run after the physics participants, at the end of every frame.
	//
	// Parameters:
	//   - hook: the function to run
	OnEndFrame(hook func())

	// Post queues a task to run on the frame goroutine at the start of the next frame.
	// Safe to call from any goroutine.
	//
	// Parameters:
	//   - task: the function to run
	Post(task func())

	// Step runs exactly one frame on the calling goroutine.
	Step()

	// Frame returns the number of frames completed.
	//
	// Returns:
	//   - uint64: completed frames
	Frame() uint64

	// Run runs frames at the tick rate on the calling goroutine until Quit is called or the
	// window closes.
	Run()

	// Quit signals the loop to stop.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()
}

// NewEngine creates a new Engine instance with the provided options.
// Options are applied directly to the engine struct via the option-builder pattern.
//
// Parameters:
//   - options: functional options for engine configuration (profiling, tick rate, etc.)
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		tickRateChannel: make(chan time.Duration, 1),
		quitChannel:     make(chan struct{}),
		log:             logger.Discard(),
		participants:    orderedmap.NewOrderedMap[uint64, PhysicsParticipant](),
		nextHandle:      1,
	}
	e.engineTickRate.Store(int64(time.Second / 60))

	for _, opt := range options {
		opt(e)
	}
	if e.profiler == nil {
		e.profiler = profiler.NewProfiler(profiler.WithLogger(e.log))
	}

	if e.window != nil {
		e.window.SetResizeCallback(func(width, height int) {
			if height <= 0 {
				return
			}
			for _, c := range e.cameras {
				c.SetAspect(float32(width) / float32(height))
			}
		})
	}

	return e
}

func (e *engine) Window() Window {
	return e.window
}

func (e *engine) Simulation() physics.Simulation {
	return e.simulation
}

func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

// SetTickRate sets the engine tick rate in frames per second.
// If the engine is running, the change is handed to the loop through tickRateChannel.
func (e *engine) SetTickRate(fps float64) {
	newRate := tickDuration(fps)

	if !e.running.Load() {
		e.engineTickRate.Store(int64(newRate))
		return
	}
	// Non-blocking send - if the channel is full, replace the pending value.
	select {
	case e.tickRateChannel <- newRate:
	default:
		select {
		case <-e.tickRateChannel:
		default:
		}
		e.tickRateChannel <- newRate
	}
}

func (e *engine) TickRate() time.Duration {
	return time.Duration(e.engineTickRate.Load())
}

func (e *engine) SetTickCallback(callback func(deltaTime float32)) {
	e.tickCallback = callback
}

func (e *engine) AddParticipant(p PhysicsParticipant) uint64 {
	handle := e.nextHandle
	e.nextHandle++
	e.participants.Set(handle, p)
	return handle
}

func (e *engine) RemoveParticipant(handle uint64) {
	e.participants.Delete(handle)
}

func (e *engine) OnEndFrame(hook func()) {
	if hook != nil {
		e.endFrameHooks = append(e.endFrameHooks, hook)
	}
}

func (e *engine) Post(task func()) {
	if task == nil {
		return
	}
	e.postMu.Lock()
	e.posted = append(e.posted, task)
	e.postMu.Unlock()
}

func (e *engine) Step() {
	dt := float32(e.TickRate().Seconds())

	e.phase("posted", e.drainPosted)

	if e.tickCallback != nil {
		e.tickCallback(dt)
	}

	e.phase("before_physics", func() {
		for el := e.participants.Front(); el != nil; el = el.Next() {
			el.Value.BeforePhysics()
		}
	})

	if e.simulation != nil {
		e.phase("physics", func() { e.simulation.Step(dt) })
	}

	e.phase("after_physics", func() {
		for el := e.participants.Front(); el != nil; el = el.Next() {
			el.Value.AfterPhysics()
		}
	})

	for _, hook := range e.endFrameHooks {
		hook()
	}

	e.frame++
	if e.profilingEnabled {
		e.profiler.Tick()
	}
}

func (e *engine) Frame() uint64 {
	return e.frame
}

// Run drives the fixed-rate loop. Window events are polled before every frame so input is
// delivered on this goroutine. Listens for dynamic rate changes via tickRateChannel.
func (e *engine) Run() {
	e.running.Store(true)
	defer e.running.Store(false)

	ticker := time.NewTicker(e.TickRate())
	defer ticker.Stop()

	e.log.WithField("tick_rate", e.TickRate()).Info("engine started")
	defer func() {
		e.log.WithField("frames", e.frame).Info("engine stopped")
	}()

	for {
		select {
		case <-e.quitChannel:
			return
		case newRate := <-e.tickRateChannel:
			ticker.Reset(newRate)
			e.engineTickRate.Store(int64(newRate))
			e.log.WithField("tick_rate", newRate).Debug("tick rate changed")
		case <-ticker.C:
			if e.window != nil && !e.window.PollEvents() {
				e.signalQuit()
				return
			}
			e.Step()
		}
	}
}

// Quit signals the loop to stop.
// Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (e *engine) Quit() {
	e.signalQuit()
}

// signalQuit closes the quit channel to signal the loop to exit.
// Uses sync.Once to ensure the channel is only closed once.
func (e *engine) signalQuit() {
	e.quitOnce.Do(func() {
		close(e.quitChannel)
	})
}

func (e *engine) drainPosted() {
	e.postMu.Lock()
	tasks := e.posted
	e.posted = nil
	e.postMu.Unlock()

	for _, task := range tasks {
		task()
	}
}

// phase runs fn and records its duration with the profiler when profiling is enabled.
func (e *engine) phase(name string, fn func()) {
	if !e.profilingEnabled {
		fn()
		return
	}
	start := time.Now()
	fn()
	e.profiler.Record(name, time.Since(start))
}

func tickDuration(fps float64) time.Duration {
	if fps <= 0 {
		fps = 60
	}
	return time.Duration(float64(time.Second) / fps)
}
