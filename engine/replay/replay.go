// Package replay plays scripted input through a character controller in a headless world.
// Every run owns its world, device source, controller and engine, so runs are deterministic
// and independent of each other.
package replay

import (
	"encoding/binary"
	"math"
	"slices"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-fps/engine"
	"github.com/Carmen-Shannon/oxy-fps/engine/character"
	"github.com/Carmen-Shannon/oxy-fps/engine/input"
	"github.com/Carmen-Shannon/oxy-fps/engine/logger"
	"github.com/Carmen-Shannon/oxy-fps/engine/physics"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/sirupsen/logrus"
	"github.com/zeebo/xxh3"
)

// Result summarizes one replay.
type Result struct {
	Name          string
	Frames        int
	FinalPosition mgl32.Vec3
	// Yaw and Pitch are the final camera rotation in radians.
	Yaw   float32
	Pitch float32
	Jumps int
	// GroundedFrames and AirborneFrames count frames by the controller's ground classification.
	GroundedFrames int
	AirborneFrames int
	// Checksum is the xxh3 hash of the body position and camera rotation after every frame.
	Checksum uint64
}

// Outcome pairs a Result with the error that prevented it, for RunAll.
type Outcome struct {
	Result Result
	Err    error
}

type runner struct {
	log     logrus.FieldLogger
	workers int
	frame   func(frame int, ctrl character.Controller)
	newPool func(workers, queue int) worker.DynamicWorkerPool
}

// Option is a functional option for Run and RunAll.
type Option func(*runner)

// WithLogger sets the logger passed to every component of a run.
//
// Parameters:
//   - log: the logger
//
// Returns:
//   - Option: option function to apply
func WithLogger(log logrus.FieldLogger) Option {
	return func(r *runner) {
		if log != nil {
			r.log = log
		}
	}
}

// WithWorkers sets how many replays RunAll runs at once. Values <= 0 keep the default of 4.
//
// Parameters:
//   - n: the worker count
//
// Returns:
//   - Option: option function to apply
func WithWorkers(n int) Option {
	return func(r *runner) {
		if n > 0 {
			r.workers = n
		}
	}
}

// WithFrameHook registers a function called after every frame with the frame index and the
// controller. Used to inspect a run while it plays.
//
// Parameters:
//   - hook: the function to call
//
// Returns:
//   - Option: option function to apply
func WithFrameHook(hook func(frame int, ctrl character.Controller)) Option {
	return func(r *runner) {
		r.frame = hook
	}
}

func newRunner(options ...Option) *runner {
	r := &runner{log: logger.Discard(), workers: 4, newPool: newWorkerPool}
	for _, opt := range options {
		opt(r)
	}
	return r
}

// Run plays a script to completion on the calling goroutine.
//
// Parameters:
//   - script: the script; it is validated first
//   - options: functional options
//
// Returns:
//   - Result: the summary of the run
//   - error: validation error from the script
func Run(script Script, options ...Option) (Result, error) {
	if err := script.Validate(); err != nil {
		return Result{}, err
	}
	return newRunner(options...).run(script), nil
}

// RunAll plays scripts in parallel on a worker pool. Outcomes are returned in script order.
//
// Parameters:
//   - scripts: the scripts to play
//   - options: functional options
//
// Returns:
//   - []Outcome: one outcome per script
func RunAll(scripts []Script, options ...Option) []Outcome {
	r := newRunner(options...)
	outcomes := make([]Outcome, len(scripts))
	if len(scripts) == 0 {
		return outcomes
	}

	pool := r.newPool(r.workers, len(scripts))
	defer pool.Stop()

	var wg sync.WaitGroup
	for i, s := range scripts {
		wg.Add(1)
		idx, script := i, s
		pool.SubmitTask(worker.Task{
			ID: idx,
			Do: func() (any, error) {
				defer wg.Done()
				if err := script.Validate(); err != nil {
					outcomes[idx] = Outcome{Err: err}
					return nil, err
				}
				outcomes[idx] = Outcome{Result: r.run(script)}
				return nil, nil
			},
		})
	}
	wg.Wait()
	return outcomes
}

func newWorkerPool(workers, queue int) worker.DynamicWorkerPool {
	return worker.NewDynamicWorkerPool(workers, queue, time.Second)
}

func (r *runner) run(script Script) Result {
	log := r.log.WithField("script", script.Name)

	world := physics.NewWorld(append(script.World.worldOptions(), physics.WithLogger(log))...)
	source := input.NewVirtualSource()
	defer source.Close()

	res := Result{Name: script.Name, Frames: script.Frames}
	opts := append(script.Character.WithDefaults().Options(),
		character.WithDeviceSource(source),
		character.WithLogger(log),
		character.WithJumpCallback(func() { res.Jumps++ }),
	)
	ctrl := character.NewController(world, opts...)
	defer ctrl.Dispose()

	eng := engine.NewEngine(
		engine.WithTickRate(script.TickRate),
		engine.WithSimulation(world),
		engine.WithParticipant(ctrl),
		engine.WithLogger(log),
	)
	eng.OnEndFrame(ctrl.Sampler().EndFrame)

	hash := xxh3.New()
	buf := make([]byte, 0, 5*4)
	eng.OnEndFrame(func() {
		if ctrl.Grounded() {
			res.GroundedFrames++
		} else {
			res.AirborneFrames++
		}
		pos := ctrl.Body().Position()
		rot := ctrl.Camera().Rotation()
		buf = buf[:0]
		for _, v := range []float32{pos.X(), pos.Y(), pos.Z(), rot.X(), rot.Y()} {
			buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(v))
		}
		_, _ = hash.Write(buf)
	})

	events := slices.Clone(script.Events)
	slices.SortStableFunc(events, func(a, b Event) int { return a.Frame - b.Frame })

	var px, py float32
	next := 0
	for frame := 0; frame < script.Frames; frame++ {
		for ; next < len(events) && events[next].Frame == frame; next++ {
			px, py = apply(source, events[next], px, py)
		}
		eng.Step()
		if r.frame != nil {
			r.frame(frame, ctrl)
		}
	}

	res.FinalPosition = ctrl.Body().Position()
	rot := ctrl.Camera().Rotation()
	res.Pitch, res.Yaw = rot.X(), rot.Y()
	res.Checksum = hash.Sum64()
	log.WithFields(logrus.Fields{
		"frames":   res.Frames,
		"position": res.FinalPosition,
		"jumps":    res.Jumps,
		"checksum": res.Checksum,
	}).Debug("replay finished")
	return res
}

// apply delivers one event to the source and returns the new pointer position.
func apply(source *input.VirtualSource, ev Event, px, py float32) (float32, float32) {
	switch {
	case ev.KeyDown != "":
		source.KeyDown(ev.KeyDown)
	case ev.KeyUp != "":
		source.KeyUp(ev.KeyUp)
	case ev.PointerTo != nil:
		px, py = ev.PointerTo.X(), ev.PointerTo.Y()
		source.MovePointer(px, py)
	case ev.PointerBy != nil:
		px, py = px+ev.PointerBy.X(), py+ev.PointerBy.Y()
		source.MovePointer(px, py)
	}
	return px, py
}
