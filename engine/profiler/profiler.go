package profiler

import (
	"log/slog"
	"runtime"
	"time"
)

// FrameStats is the summary produced by Tick once per update interval.
type FrameStats struct {
	FPS         float64
	HeapMB      float64
	AllocRateMB float64
	GCCount     uint32
	LastPauseUs uint64
	MaxPauseUs  uint64
	SysMB       float64
}

// Measurement is the result of a single Measure call.
type Measurement struct {
	Label        string
	Elapsed      time.Duration
	AllocatedMB  float64
	HeapDeltaMB  float64
	GCDuringCall uint32
}

// Profiler tracks frame rate and memory statistics for performance monitoring.
// Outputs stats to the logger at a configurable interval.
type Profiler struct {
	frameCount     int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
	logger         *slog.Logger
	last           FrameStats
}

// NewProfiler creates a new Profiler with default settings.
// Update interval defaults to 1 second and the logger to slog.Default.
//
// Parameters:
//   - options: functional options applied in order
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerOption) *Profiler {
	p := &Profiler{
		lastTime:       time.Now(),
		updateInterval: time.Second,
		logger:         slog.Default(),
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

// Tick should be called once per frame to track frame timing.
// Logs performance statistics when the update interval has elapsed.
// Statistics include: FPS, heap usage, allocation rate, GC count/pause times, total memory.
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick() bool {
	return p.tickAt(time.Now())
}

func (p *Profiler) tickAt(currentTime time.Time) bool {
	p.frameCount++
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}

	runtime.ReadMemStats(&p.memStats)
	// TotalAlloc only grows, so the delta since the last tick is the churn
	allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc

	gcCount := p.memStats.NumGC
	var lastPauseUs, maxPauseUs uint64
	if gcCount > 0 {
		// PauseNs is a circular buffer of last 256 GC pauses
		lastPauseUs = p.memStats.PauseNs[(gcCount-1)%256] / 1000

		startIdx := p.lastGCCount
		if gcCount-startIdx > 256 {
			startIdx = gcCount - 256
		}
		for i := startIdx; i < gcCount; i++ {
			pause := p.memStats.PauseNs[i%256] / 1000
			if pause > maxPauseUs {
				maxPauseUs = pause
			}
		}
	}

	p.last = FrameStats{
		FPS:         float64(p.frameCount) / elapsed.Seconds(),
		HeapMB:      toMB(p.memStats.Alloc),
		AllocRateMB: toMB(allocDelta) / elapsed.Seconds(),
		GCCount:     gcCount,
		LastPauseUs: lastPauseUs,
		MaxPauseUs:  maxPauseUs,
		SysMB:       toMB(p.memStats.Sys),
	}

	p.logger.Info("profiler",
		"fps", p.last.FPS,
		"heap_mb", p.last.HeapMB,
		"alloc_rate_mb_s", p.last.AllocRateMB,
		"gc", gcCount,
		"gc_last_us", lastPauseUs,
		"gc_max_us", maxPauseUs,
		"sys_mb", p.last.SysMB,
	)

	p.frameCount = 0
	p.lastTime = currentTime
	p.lastGCCount = gcCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}

// Last returns the stats computed by the most recent Tick that returned true.
func (p *Profiler) Last() FrameStats {
	return p.last
}

// Measure runs fn and reports its wall time and the heap allocated while it ran. The
// measurement is logged at debug level and returned alongside fn's error.
//
// Parameters:
//   - label: name attached to the log line and the result
//   - fn: the work to measure
//
// Returns:
//   - Measurement: timing and allocation figures
//   - error: whatever fn returned
func (p *Profiler) Measure(label string, fn func() error) (Measurement, error) {
	var before, after runtime.MemStats
	runtime.ReadMemStats(&before)
	start := time.Now()
	err := fn()
	elapsed := time.Since(start)
	runtime.ReadMemStats(&after)

	m := Measurement{
		Label:        label,
		Elapsed:      elapsed,
		AllocatedMB:  toMB(after.TotalAlloc - before.TotalAlloc),
		HeapDeltaMB:  (float64(after.HeapAlloc) - float64(before.HeapAlloc)) / 1024 / 1024,
		GCDuringCall: after.NumGC - before.NumGC,
	}
	p.logger.Debug("measure",
		"label", label,
		"elapsed", elapsed,
		"allocated_mb", m.AllocatedMB,
		"heap_delta_mb", m.HeapDeltaMB,
		"gc", m.GCDuringCall,
		"err", err,
	)
	return m, err
}

func toMB(b uint64) float64 {
	return float64(b) / 1024 / 1024
}
