package worker

import "sync/atomic"

type Metrics struct {
	Ops       int64 // committed pushes or pops
	Corrupted int64 // readers only: payloads whose checksum did not match
}

type counters struct {
	ops       atomic.Int64
	corrupted atomic.Int64
}

func newCounters() *counters {
	return &counters{
		ops:       atomic.Int64{},
		corrupted: atomic.Int64{},
	}
}

func (c *counters) snapshot() Metrics {
	return Metrics{Ops: c.ops.Load(), Corrupted: c.corrupted.Load()}
}
