package stratum

import (
	"go.uber.org/zap"
)

// logger is the package logger. stratum is single-threaded, so a plain
// variable is enough.
var logger = zap.NewNop()

// SetLogger configures the logger used by stratum. By default stratum
// produces no log output. Pass nil to restore the silent default.
//
// Levels used:
//   - Debug: per-frame scene stats, texture binding
//   - Info: level loading
//   - Warn: recovered observer panics, deep or wide transform trees
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger = l
}

// Logger returns the current logger.
func Logger() *zap.Logger {
	return logger
}

// globalDebug enables the tree-shape checks and per-frame stats.
var globalDebug bool

// SetDebugMode enables or disables debug checks for all transforms and scenes.
func SetDebugMode(enabled bool) {
	globalDebug = enabled
}

// debugMaxTreeDepth is the depth above which a warning is logged.
const debugMaxTreeDepth = 32

func debugCheckTreeDepth(t *Transform) {
	depth := 0
	for p := t; !p.isRoot; p = p.parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		logger.Warn("transform tree too deep",
			zap.Uint32("transform", t.ID),
			zap.String("name", t.Name),
			zap.Int("depth", depth),
			zap.Int("threshold", debugMaxTreeDepth),
		)
	}
}

// debugMaxChildCount is the child count above which a warning is logged.
const debugMaxChildCount = 1000

func debugCheckChildCount(t *Transform) {
	if t.isRoot {
		return
	}
	if len(t.children) > debugMaxChildCount {
		logger.Warn("transform has too many children",
			zap.Uint32("transform", t.ID),
			zap.String("name", t.Name),
			zap.Int("children", len(t.children)),
			zap.Int("threshold", debugMaxChildCount),
		)
	}
}
