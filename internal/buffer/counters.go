package buffer

import "sync/atomic"

// Metrics holds cumulative (monotonic) counters of a buffer.
type Metrics struct {
	Pushed   int64
	Popped   int64
	Canceled int64

	// PushWaits and PopWaits count condition waits for the blocking strategy
	// and backoff pauses for the stamped one.
	PushWaits int64
	PopWaits  int64

	// Stamped strategy only.
	OptimisticHits    int64 // pops committed from a validated optimistic read
	OptimisticMisses  int64 // pops that fell back to the pessimistic path
	OptimisticRetries int64 // validated reads whose head was taken before the write lock
}

type counters struct {
	pushed            atomic.Int64
	popped            atomic.Int64
	canceled          atomic.Int64
	pushWaits         atomic.Int64
	popWaits          atomic.Int64
	optimisticHits    atomic.Int64
	optimisticMisses  atomic.Int64
	optimisticRetries atomic.Int64
}

func newCounters() *counters {
	return &counters{}
}

func (c *counters) snapshot() Metrics {
	return Metrics{
		Pushed:            c.pushed.Load(),
		Popped:            c.popped.Load(),
		Canceled:          c.canceled.Load(),
		PushWaits:         c.pushWaits.Load(),
		PopWaits:          c.popWaits.Load(),
		OptimisticHits:    c.optimisticHits.Load(),
		OptimisticMisses:  c.optimisticMisses.Load(),
		OptimisticRetries: c.optimisticRetries.Load(),
	}
}
