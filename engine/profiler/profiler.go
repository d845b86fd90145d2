// Package profiler reports frame rate, per-phase frame timings and memory statistics.
package profiler

import (
	"runtime"
	"time"

	"github.com/Carmen-Shannon/oxy-fps/engine/logger"
	"github.com/elliotchance/orderedmap/v2"
	"github.com/sirupsen/logrus"
)

// Profiler tracks frame rate, time spent in named frame phases and memory statistics.
// Outputs stats to its logger at a configurable interval. Not safe for concurrent use.
type Profiler struct {
	log            logrus.FieldLogger
	now            func() time.Time
	frameCount     int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64

	phases *orderedmap.OrderedMap[string, time.Duration]
}

// ProfilerOption is a functional option for configuring a Profiler.
type ProfilerOption func(*Profiler)

// WithInterval sets how often statistics are reported. Values <= 0 keep the default of 1 second.
//
// Parameters:
//   - interval: the report interval
//
// Returns:
//   - ProfilerOption: option function to apply
func WithInterval(interval time.Duration) ProfilerOption {
	return func(p *Profiler) {
		if interval > 0 {
			p.updateInterval = interval
		}
	}
}

// WithLogger sets the logger statistics are written to.
//
// Parameters:
//   - log: the logger
//
// Returns:
//   - ProfilerOption: option function to apply
func WithLogger(log logrus.FieldLogger) ProfilerOption {
	return func(p *Profiler) {
		if log != nil {
			p.log = log
		}
	}
}

// WithClock replaces time.Now, for tests.
//
// Parameters:
//   - now: the clock function
//
// Returns:
//   - ProfilerOption: option function to apply
func WithClock(now func() time.Time) ProfilerOption {
	return func(p *Profiler) {
		if now != nil {
			p.now = now
		}
	}
}

// NewProfiler creates a new Profiler. The update interval defaults to 1 second.
//
// Parameters:
//   - options: functional options to configure the profiler
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerOption) *Profiler {
	p := &Profiler{
		log:            logger.Discard(),
		now:            time.Now,
		updateInterval: time.Second,
		phases:         orderedmap.NewOrderedMap[string, time.Duration](),
	}
	for _, opt := range options {
		opt(p)
	}
	p.lastTime = p.now()
	return p
}

// Record adds d to the time spent in the named phase during the current interval.
//
// Parameters:
//   - phase: the frame phase name (e.g. "physics")
//   - d: time spent
func (p *Profiler) Record(phase string, d time.Duration) {
	prev, _ := p.phases.Get(phase)
	p.phases.Set(phase, prev+d)
}

// Tick should be called once per frame to track frame timing.
// Logs FPS, average phase times, heap usage, allocation rate and GC pauses when the update
// interval has elapsed.
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick() bool {
	p.frameCount++
	currentTime := p.now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}

	runtime.ReadMemStats(&p.memStats)
	fields := logrus.Fields{
		"fps":          float64(p.frameCount) / elapsed.Seconds(),
		"heap_mb":      float64(p.memStats.Alloc) / 1024 / 1024,
		"sys_mb":       float64(p.memStats.Sys) / 1024 / 1024,
		"alloc_rate":   float64(p.memStats.TotalAlloc-p.lastTotalAlloc) / 1024 / 1024 / elapsed.Seconds(),
		"gc":           p.memStats.NumGC,
		"gc_last_us":   p.lastPause(),
		"gc_max_us":    p.maxPause(),
		"frames":       p.frameCount,
		"interval_sec": elapsed.Seconds(),
	}
	for el := p.phases.Front(); el != nil; el = el.Next() {
		fields["phase_"+el.Key+"_us"] = el.Value.Microseconds() / int64(p.frameCount)
	}
	p.log.WithFields(fields).Info("frame stats")

	p.frameCount = 0
	p.lastTime = currentTime
	p.lastGCCount = p.memStats.NumGC
	p.lastTotalAlloc = p.memStats.TotalAlloc
	p.phases = orderedmap.NewOrderedMap[string, time.Duration]()
	return true
}

// PhaseTotal returns the time recorded for phase in the current interval.
//
// Parameters:
//   - phase: the frame phase name
//
// Returns:
//   - time.Duration: accumulated time, zero if nothing was recorded
func (p *Profiler) PhaseTotal(phase string) time.Duration {
	d, _ := p.phases.Get(phase)
	return d
}

func (p *Profiler) lastPause() uint64 {
	if p.memStats.NumGC == 0 {
		return 0
	}
	// PauseNs is a circular buffer of the last 256 GC pauses.
	return p.memStats.PauseNs[(p.memStats.NumGC-1)%256] / 1000
}

func (p *Profiler) maxPause() uint64 {
	gcCount := p.memStats.NumGC
	start := p.lastGCCount
	if gcCount-start > 256 {
		start = gcCount - 256
	}
	var maxUs uint64
	for i := start; i < gcCount; i++ {
		if pause := p.memStats.PauseNs[i%256] / 1000; pause > maxUs {
			maxUs = pause
		}
	}
	return maxUs
}
