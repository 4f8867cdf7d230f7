package profiler

import (
	"log/slog"
	"time"
)

// ProfilerOption configures a Profiler.
type ProfilerOption func(p *Profiler)

// WithUpdateInterval sets how often Tick logs. Non-positive values are ignored.
func WithUpdateInterval(d time.Duration) ProfilerOption {
	return func(p *Profiler) {
		if d > 0 {
			p.updateInterval = d
		}
	}
}

// WithLogger sets the logger Tick and Measure write to.
func WithLogger(logger *slog.Logger) ProfilerOption {
	return func(p *Profiler) {
		if logger != nil {
			p.logger = logger
		}
	}
}
