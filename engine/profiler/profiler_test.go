package profiler

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestTickReportsOncePerInterval(t *testing.T) {
	log, hook := test.NewNullLogger()
	clock := &fakeClock{t: time.Unix(0, 0)}
	p := NewProfiler(WithLogger(log), WithClock(clock.now), WithInterval(time.Second))

	for range 19 {
		clock.advance(50 * time.Millisecond)
		assert.False(t, p.Tick())
	}
	clock.advance(50 * time.Millisecond)
	require.True(t, p.Tick())

	require.Len(t, hook.Entries, 1)
	entry := hook.LastEntry()
	assert.Equal(t, logrus.InfoLevel, entry.Level)
	assert.Equal(t, "frame stats", entry.Message)
	assert.Equal(t, 20, entry.Data["frames"])
	assert.InDelta(t, 20.0, entry.Data["fps"], 1e-6)

	clock.advance(50 * time.Millisecond)
	assert.False(t, p.Tick(), "counters reset after a report")
}

func TestRecordAveragesPhases(t *testing.T) {
	log, hook := test.NewNullLogger()
	clock := &fakeClock{t: time.Unix(0, 0)}
	p := NewProfiler(WithLogger(log), WithClock(clock.now), WithInterval(time.Second))

	for range 4 {
		p.Record("physics", 500*time.Microsecond)
		p.Record("input", 100*time.Microsecond)
		clock.advance(time.Second / 4)
		p.Tick()
	}
	require.Len(t, hook.Entries, 1)
	assert.Equal(t, int64(500), hook.LastEntry().Data["phase_physics_us"])
	assert.Equal(t, int64(100), hook.LastEntry().Data["phase_input_us"])
	assert.Zero(t, p.PhaseTotal("physics"), "phases reset after a report")
}

func TestPhaseTotalAccumulates(t *testing.T) {
	p := NewProfiler()
	p.Record("physics", time.Millisecond)
	p.Record("physics", 2*time.Millisecond)
	assert.Equal(t, 3*time.Millisecond, p.PhaseTotal("physics"))
	assert.Zero(t, p.PhaseTotal("missing"))
}

func TestWithIntervalIgnoresNonPositive(t *testing.T) {
	p := NewProfiler(WithInterval(0))
	assert.Equal(t, time.Second, p.updateInterval)
}
