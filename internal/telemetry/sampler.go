package telemetry

import (
	"github.com/Borislavv/go-ash-buffer/internal/buffer"
	"github.com/Borislavv/go-ash-buffer/internal/worker"
)

// Source is what the telemetry needs from a buffer.
type Source interface {
	Len() int
	Cap() int
	Metrics() buffer.Metrics
}

type sampler struct {
	buf     Source
	writers []*worker.Writer
	readers []*worker.Reader
}

func newSampler(buf Source, writers []*worker.Writer, readers []*worker.Reader) sampler {
	return sampler{buf: buf, writers: writers, readers: readers}
}

// snapshot holds cumulative counters (monotonic).
type snapshot struct {
	pushed    uint64
	popped    uint64
	pushWaits uint64
	popWaits  uint64
	canceled  uint64

	optimisticHits    uint64
	optimisticMisses  uint64
	optimisticRetries uint64

	written   uint64
	read      uint64
	corrupted uint64
}

func (s sampler) snapshot() snapshot {
	m := s.buf.Metrics()

	var written, read, corrupted int64
	for _, w := range s.writers {
		written += w.Metrics().Ops
	}
	for _, r := range s.readers {
		rm := r.Metrics()
		read += rm.Ops
		corrupted += rm.Corrupted
	}

	return snapshot{
		pushed:    uint64(max(m.Pushed, 0)),
		popped:    uint64(max(m.Popped, 0)),
		pushWaits: uint64(max(m.PushWaits, 0)),
		popWaits:  uint64(max(m.PopWaits, 0)),
		canceled:  uint64(max(m.Canceled, 0)),

		optimisticHits:    uint64(max(m.OptimisticHits, 0)),
		optimisticMisses:  uint64(max(m.OptimisticMisses, 0)),
		optimisticRetries: uint64(max(m.OptimisticRetries, 0)),

		written:   uint64(max(written, 0)),
		read:      uint64(max(read, 0)),
		corrupted: uint64(max(corrupted, 0)),
	}
}

// deltaSnapshot converts cumulative snapshots to per-interval deltas.
// If counters reset (cur < prev), it treats cur as the delta.
func deltaSnapshot(prev, cur snapshot) snapshot {
	return snapshot{
		pushed:    delta(prev.pushed, cur.pushed),
		popped:    delta(prev.popped, cur.popped),
		pushWaits: delta(prev.pushWaits, cur.pushWaits),
		popWaits:  delta(prev.popWaits, cur.popWaits),
		canceled:  delta(prev.canceled, cur.canceled),

		optimisticHits:    delta(prev.optimisticHits, cur.optimisticHits),
		optimisticMisses:  delta(prev.optimisticMisses, cur.optimisticMisses),
		optimisticRetries: delta(prev.optimisticRetries, cur.optimisticRetries),

		written:   delta(prev.written, cur.written),
		read:      delta(prev.read, cur.read),
		corrupted: delta(prev.corrupted, cur.corrupted),
	}
}

func delta(prev, cur uint64) uint64 {
	if cur >= prev {
		return cur - prev
	}
	return cur
}
