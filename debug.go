package grove

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// debugLog writes "[grove]"-prefixed diagnostics. Task goroutines may log
// concurrently with the frame loop.
type debugLog struct {
	mu sync.Mutex
	w  io.Writer
}

func newDebugLog(w io.Writer) *debugLog {
	if w == nil {
		w = os.Stderr
	}
	return &debugLog{w: w}
}

func (l *debugLog) printf(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = fmt.Fprintf(l.w, "[grove] "+format+"\n", args...)
}

// frameStats holds per-iteration timings and counters.
// Only populated when Config.Debug is true.
type frameStats struct {
	drainTime       time.Duration
	renderTime      time.Duration
	materializeTime time.Duration
	mutationCount   int
	updatedCount    int
	instanceCount   int
	prunedCount     int
}

// debugLogFrame prints one iteration's stats.
func (t *TreeContext) debugLogFrame(stats frameStats) {
	if !t.cfg.Debug {
		return
	}
	total := stats.drainTime + stats.renderTime + stats.materializeTime
	t.log.printf("frame %d drain: %v | render: %v | materialize: %v | total: %v",
		t.frame, stats.drainTime, stats.renderTime, stats.materializeTime, total)
	t.log.printf("frame %d mutations: %d | updated: %d | instances: %d | pruned: %d",
		t.frame, stats.mutationCount, stats.updatedCount, stats.instanceCount, stats.prunedCount)
}

// debugLogDraw prints how long the backend took to draw the last tree.
// Drawing happens after Step returns, so it gets its own line.
func (t *TreeContext) debugLogDraw(d time.Duration) {
	if !t.cfg.Debug {
		return
	}
	t.log.printf("frame %d draw: %v", t.frame, d)
}

// debugCheckTreeDepth warns if an instance sits deeper than the threshold.
const debugMaxTreeDepth = 32

func debugCheckTreeDepth(log *debugLog, in *Instance) {
	if d := in.depth(); d > debugMaxTreeDepth {
		log.printf("warning: instance depth %d exceeds %d (%s)", d, debugMaxTreeDepth, in.path)
	}
}

// debugCheckChildCount warns if an instance has more than 1000 children.
const debugMaxChildCount = 1000

func debugCheckChildCount(log *debugLog, in *Instance) {
	if len(in.children) > debugMaxChildCount {
		log.printf("warning: instance %s has %d children (threshold %d)",
			in.path, len(in.children), debugMaxChildCount)
	}
}
