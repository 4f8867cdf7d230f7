package profiler

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bufferLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestTickLogsOncePerInterval(t *testing.T) {
	var buf bytes.Buffer
	p := NewProfiler(WithLogger(bufferLogger(&buf)), WithUpdateInterval(time.Second))
	start := p.lastTime

	assert.False(t, p.tickAt(start.Add(100*time.Millisecond)))
	assert.False(t, p.tickAt(start.Add(500*time.Millisecond)))
	assert.True(t, p.tickAt(start.Add(time.Second)))

	stats := p.Last()
	assert.InDelta(t, 3.0, stats.FPS, 1e-9)
	assert.Positive(t, stats.SysMB)
	assert.Contains(t, buf.String(), "fps=3")

	// counters reset after a report
	assert.False(t, p.tickAt(start.Add(1500*time.Millisecond)))
	assert.Equal(t, 1, p.frameCount)
}

func TestWithUpdateIntervalIgnoresNonPositive(t *testing.T) {
	p := NewProfiler(WithUpdateInterval(0))
	assert.Equal(t, time.Second, p.updateInterval)
}

func TestMeasure(t *testing.T) {
	var buf bytes.Buffer
	p := NewProfiler(WithLogger(bufferLogger(&buf)))

	var sink [][]byte
	m, err := p.Measure("alloc", func() error {
		for i := 0; i < 64; i++ {
			sink = append(sink, make([]byte, 64*1024))
		}
		return nil
	})
	require.NoError(t, err)
	assert.Len(t, sink, 64)
	assert.Equal(t, "alloc", m.Label)
	assert.GreaterOrEqual(t, m.AllocatedMB, 4.0)
	assert.Contains(t, buf.String(), "label=alloc")

	boom := errors.New("boom")
	_, err = p.Measure("fail", func() error { return boom })
	assert.ErrorIs(t, err, boom)
}
