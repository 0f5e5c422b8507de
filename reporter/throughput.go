package reporter

import (
	"fmt"
	"sync/atomic"
	"time"
)

// A Summary is a snapshot of how much we've sent since startup
type Summary struct {
	Count   uint64
	Elapsed time.Duration
}

// Rate is records per second since startup
func (s Summary) Rate() float64 {
	if s.Elapsed <= 0 {
		return 0
	}
	return float64(s.Count) / s.Elapsed.Seconds()
}

func (s Summary) String() string {
	return fmt.Sprintf("Stats: Sent %d logs, Rate: %.2f logs/sec", s.Count, s.Rate())
}

// A ThroughputReporter counts successful sends and hands back a Summary on
// every Nth one. Counters are atomic so a StatsPublisher may read them from
// its own goroutine.
type ThroughputReporter struct {
	every   uint64
	started time.Time
	now     func() time.Time

	sent       uint64
	reconnects uint64
}

// NewThroughputReporter returns a reporter that summarizes every `every`
// sends, measuring from now.
func NewThroughputReporter(every int) *ThroughputReporter {
	return newThroughputReporterWithClock(every, time.Now)
}

func newThroughputReporterWithClock(every int, now func() time.Time) *ThroughputReporter {
	if every < 1 {
		every = 1
	}
	return &ThroughputReporter{
		every:   uint64(every),
		started: now(),
		now:     now,
	}
}

// Sent records one successful send. The bool is true when a summary is
// due, which happens exactly once per `every` sends.
func (r *ThroughputReporter) Sent() (Summary, bool) {
	count := atomic.AddUint64(&r.sent, 1)
	if count%r.every != 0 {
		return Summary{}, false
	}

	return Summary{Count: count, Elapsed: r.now().Sub(r.started)}, true
}

// Reconnected records that the connection had to be replaced
func (r *ThroughputReporter) Reconnected() {
	atomic.AddUint64(&r.reconnects, 1)
}

// Total returns the cumulative number of successful sends
func (r *ThroughputReporter) Total() uint64 {
	return atomic.LoadUint64(&r.sent)
}

// Reconnects returns the cumulative number of reconnects
func (r *ThroughputReporter) Reconnects() uint64 {
	return atomic.LoadUint64(&r.reconnects)
}

// Snapshot returns a Summary for the current moment
func (r *ThroughputReporter) Snapshot() Summary {
	return Summary{Count: r.Total(), Elapsed: r.now().Sub(r.started)}
}
