package trellis

import (
	"time"

	"go.uber.org/zap"
)

// logger receives configuration warnings and, in debug mode, per-pass stats.
// It discards everything until SetLogger is called.
var logger = zap.NewNop()

// SetLogger routes trellis diagnostics to l. Passing nil restores the no-op
// logger.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger = l.Named("trellis")
}

// warnConfig logs a rejected configuration change.
func warnConfig(msg string, fields ...zap.Field) {
	logger.Warn(msg, fields...)
}

// passStats holds per-pass timing and counts. Only populated when
// Container.debug is true.
type passStats struct {
	measureTime time.Duration
	postTime    time.Duration
	placeTime   time.Duration
	measured    int
	visible     int
	recycled    int
	inBounds    bool
}

// debugLog emits pass stats at debug level.
func (c *Container) debugLog(stats passStats) {
	if !c.debug {
		return
	}
	logger.Debug("layout pass",
		zap.Duration("measure", stats.measureTime),
		zap.Duration("post", stats.postTime),
		zap.Duration("place", stats.placeTime),
		zap.Duration("total", stats.measureTime+stats.postTime+stats.placeTime),
		zap.Int("measured", stats.measured),
		zap.Int("visible", stats.visible),
		zap.Int("recycled", stats.recycled),
		zap.Bool("inBounds", stats.inBounds),
	)
}

// debugMaxMeasured is the cached-item count above which debug mode warns
// that virtualization is likely ineffective (usually an unbounded viewport).
const debugMaxMeasured = 1000

func (c *Container) debugCheckMeasured(n int) {
	if c.debug && n > debugMaxMeasured {
		logger.Warn("measured item count exceeds threshold",
			zap.Int("measured", n), zap.Int("threshold", debugMaxMeasured))
	}
}
