package engine

import (
	"sync"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-fps/engine/camera"
	"github.com/Carmen-Shannon/oxy-fps/engine/physics"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	calls []string
}

func (r *recorder) add(s string) { r.calls = append(r.calls, s) }

type participant struct {
	name string
	rec  *recorder
}

func (p *participant) BeforePhysics() { p.rec.add(p.name + ".before") }
func (p *participant) AfterPhysics()  { p.rec.add(p.name + ".after") }

type recordingSim struct {
	physics.Simulation
	rec *recorder
	dts []float32
}

func (s *recordingSim) Step(dt float32) {
	s.rec.add("step")
	s.dts = append(s.dts, dt)
}

func TestStepOrder(t *testing.T) {
	rec := &recorder{}
	sim := &recordingSim{rec: rec}
	e := NewEngine(
		WithSimulation(sim),
		WithParticipant(&participant{name: "a", rec: rec}),
	)
	e.AddParticipant(&participant{name: "b", rec: rec})
	e.SetTickCallback(func(float32) { rec.add("tick") })
	e.OnEndFrame(func() { rec.add("end") })
	e.Post(func() { rec.add("posted") })

	e.Step()

	assert.Equal(t, []string{"posted", "tick", "a.before", "b.before", "step", "a.after", "b.after", "end"}, rec.calls)
	assert.Equal(t, uint64(1), e.Frame())
	require.Len(t, sim.dts, 1)
	assert.InDelta(t, 1.0/60.0, sim.dts[0], 1e-6)
}

func TestPostedTasksRunOnce(t *testing.T) {
	e := NewEngine()
	count := 0
	e.Post(func() { count++ })
	e.Post(nil)
	e.Step()
	e.Step()
	assert.Equal(t, 1, count)
}

func TestPostFromOtherGoroutines(t *testing.T) {
	e := NewEngine()
	count := 0
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			e.Post(func() { count++ })
		}()
	}
	wg.Wait()
	e.Step()
	assert.Equal(t, 8, count)
}

func TestRemoveParticipant(t *testing.T) {
	rec := &recorder{}
	e := NewEngine()
	h := e.AddParticipant(&participant{name: "a", rec: rec})
	e.AddParticipant(&participant{name: "b", rec: rec})
	e.RemoveParticipant(h)
	e.Step()
	assert.Equal(t, []string{"b.before", "b.after"}, rec.calls)
}

func TestTickRate(t *testing.T) {
	e := NewEngine(WithTickRate(120))
	assert.Equal(t, time.Second/120, e.TickRate())

	e.SetTickRate(30)
	assert.Equal(t, time.Second/30, e.TickRate())

	e.SetTickRate(0)
	assert.Equal(t, time.Second/60, e.TickRate())
}

func TestTickRateWhileRunning(t *testing.T) {
	e := NewEngine(WithTickRate(500))
	done := make(chan struct{})
	go func() {
		e.Run()
		close(done)
	}()
	defer func() {
		e.Quit()
		<-done
	}()

	e.SetTickRate(250)
	assert.Eventually(t, func() bool {
		return e.TickRate() == time.Second/250
	}, 5*time.Second, time.Millisecond)
}

func TestStepsRealWorld(t *testing.T) {
	w := physics.NewWorld()
	b := w.CreateSphere(physics.SphereDescriptor{Position: mgl32.Vec3{0, 10, 0}, Radius: 0.5, Mass: 1})
	e := NewEngine(WithSimulation(w))
	for range 60 {
		e.Step()
	}
	assert.Less(t, b.Position().Y(), float32(10))
	assert.Equal(t, uint64(60), e.Frame())
}

func TestRunUntilQuit(t *testing.T) {
	e := NewEngine(WithTickRate(1000))
	e.OnEndFrame(func() {
		if e.Frame() >= 4 {
			e.Quit()
		}
	})

	done := make(chan struct{})
	go func() {
		e.Run()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after Quit")
	}
	assert.GreaterOrEqual(t, e.Frame(), uint64(4))
	e.Quit()
}

type slowSim struct {
	physics.Simulation
}

func (slowSim) Step(float32) { time.Sleep(time.Millisecond) }

func TestProfilingRecordsPhases(t *testing.T) {
	e := NewEngine(WithProfiling(true), WithSimulation(slowSim{})).(*engine)
	e.Step()
	assert.GreaterOrEqual(t, e.profiler.PhaseTotal("physics"), time.Millisecond)

	before := e.profiler.PhaseTotal("physics")
	e.DisableProfiler()
	e.Step()
	assert.Equal(t, before, e.profiler.PhaseTotal("physics"), "disabled profiling records nothing")
}

type fakeWindow struct {
	polls    int
	openFor  int
	onResize func(width, height int)
}

func (w *fakeWindow) PollEvents() bool {
	w.polls++
	return w.polls <= w.openFor
}

func (w *fakeWindow) SetResizeCallback(callback func(width, height int)) {
	w.onResize = callback
}

func TestRunStopsWhenWindowCloses(t *testing.T) {
	win := &fakeWindow{openFor: 3}
	e := NewEngine(WithTickRate(1000), WithWindow(win))

	done := make(chan struct{})
	go func() {
		e.Run()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after the window closed")
	}
	assert.Equal(t, uint64(3), e.Frame())
	assert.Same(t, win, e.Window())
}

func TestResizeUpdatesCameraAspect(t *testing.T) {
	win := &fakeWindow{}
	cam := camera.NewCamera()
	NewEngine(WithWindow(win), WithCamera(cam))
	require.NotNil(t, win.onResize)

	win.onResize(1600, 800)
	assert.InDelta(t, 2.0, cam.Aspect(), 1e-6)

	win.onResize(1600, 0)
	assert.InDelta(t, 2.0, cam.Aspect(), 1e-6, "zero height is ignored")
}
