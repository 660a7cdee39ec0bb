package log

import (
	"log/slog"
	"time"
)

// Timer measures the wall-clock duration of a labeled operation. It is purely
// diagnostic: it never affects the operation's results, and when verbose is
// false it emits nothing at all.
//
// Usage:
//
//	defer log.NewTimer("stack lightgbm", verbose).Done()
type Timer struct {
	desc    string
	verbose bool
	start   time.Time
}

// NewTimer starts a timer labeled by desc.
func NewTimer(desc string, verbose bool) *Timer {
	t := &Timer{desc: desc, verbose: verbose, start: time.Now()}
	if t.verbose {
		slog.Info("started", OperationKey, t.desc)
	}
	return t
}

// Done logs the elapsed time since the timer was started.
func (t *Timer) Done() {
	if !t.verbose {
		return
	}
	slog.Info("finished",
		OperationKey, t.desc,
		DurationMsKey, time.Since(t.start).Milliseconds(),
	)
}
