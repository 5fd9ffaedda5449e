package buffer

import (
	"context"
	"github.com/Borislavv/go-ash-buffer/config"
	"github.com/Borislavv/go-ash-buffer/internal/shared/stamped"
	"sync/atomic"
	"time"
)

// Stamped guards the buffer with a stamped lock.
//
// Slots and cursors are atomics so that optimistic readers may load them without
// holding the lock; every mutation still happens under the write lock. Cursors only
// grow, so a head position identifies exactly one element for the buffer's lifetime.
//
// There is no wakeup notification: writers on a full buffer and readers on an empty
// one release the lock and poll again after a fixed backoff.
type Stamped[T any] struct {
	lock     stamped.Lock
	slots    []atomic.Pointer[T]
	capacity uint64
	head     atomic.Uint64 // position of the next element to pop
	tail     atomic.Uint64 // position of the next free slot
	backoff  time.Duration
	counters *counters
}

func NewStamped[T any](capacity int, backoff time.Duration) *Stamped[T] {
	capacity = normalizeCapacity(capacity)
	return &Stamped[T]{
		slots:    make([]atomic.Pointer[T], capacity),
		capacity: uint64(capacity),
		backoff:  normalizeBackoff(backoff),
		counters: newCounters(),
	}
}

func (s *Stamped[T]) Push(ctx context.Context, item T) error {
	stamp := s.lock.WriteLock()
	for s.tail.Load()-s.head.Load() >= s.capacity {
		s.lock.UnlockWrite(stamp)
		s.counters.pushWaits.Add(1)
		if err := s.pause(ctx); err != nil {
			return err
		}
		stamp = s.lock.WriteLock()
		if err := ctx.Err(); err != nil {
			s.lock.UnlockWrite(stamp)
			return canceled(s.counters, err)
		}
	}

	tail := s.tail.Load()
	s.slots[tail%s.capacity].Store(&item)
	s.tail.Store(tail + 1)
	s.lock.UnlockWrite(stamp)

	s.counters.pushed.Add(1)
	return nil
}

// Pop tries an optimistic read of the head first and commits it under a narrow write
// section only if that very position is still the head. A read that fails validation
// is dropped, never returned.
func (s *Stamped[T]) Pop(ctx context.Context) (T, error) {
	for {
		stamp := s.lock.TryOptimisticRead()
		head := s.head.Load()
		nonEmpty := s.tail.Load() > head
		var slot *T
		if nonEmpty {
			slot = s.slots[head%s.capacity].Load()
		}

		if !s.lock.Validate(stamp) || !nonEmpty {
			s.counters.optimisticMisses.Add(1)
			return s.popPessimistic(ctx)
		}

		if item, ok := s.popIfHead(head, slot); ok {
			s.counters.optimisticHits.Add(1)
			return item, nil
		}

		// another reader committed this head first
		s.counters.optimisticRetries.Add(1)
		if err := ctx.Err(); err != nil {
			var zero T
			return zero, canceled(s.counters, err)
		}
	}
}

func (s *Stamped[T]) popIfHead(head uint64, slot *T) (T, bool) {
	stamp := s.lock.WriteLock()
	defer s.lock.UnlockWrite(stamp)

	if s.head.Load() != head || s.slots[head%s.capacity].Load() != slot {
		var zero T
		return zero, false
	}
	return s.take(head), true
}

func (s *Stamped[T]) popPessimistic(ctx context.Context) (T, error) {
	stamp := s.lock.WriteLock()
	for s.tail.Load() == s.head.Load() {
		s.lock.UnlockWrite(stamp)
		s.counters.popWaits.Add(1)
		if err := s.pause(ctx); err != nil {
			var zero T
			return zero, err
		}
		stamp = s.lock.WriteLock()
		// an item pushed after the cancel is left for a live reader
		if err := ctx.Err(); err != nil {
			s.lock.UnlockWrite(stamp)
			var zero T
			return zero, canceled(s.counters, err)
		}
	}

	item := s.take(s.head.Load())
	s.lock.UnlockWrite(stamp)
	return item, nil
}

// take must be called under the write lock with a non-empty buffer.
func (s *Stamped[T]) take(head uint64) T {
	item := s.slots[head%s.capacity].Swap(nil)
	s.head.Store(head + 1)
	s.counters.popped.Add(1)
	return *item
}

func (s *Stamped[T]) pause(ctx context.Context) error {
	timer := time.NewTimer(s.backoff)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return canceled(s.counters, ctx.Err())
	case <-timer.C:
		// select picks at random when both are ready
		if err := ctx.Err(); err != nil {
			return canceled(s.counters, err)
		}
		return nil
	}
}

func (s *Stamped[T]) Len() int {
	stamp := s.lock.TryOptimisticRead()
	n := s.tail.Load() - s.head.Load()
	if !s.lock.Validate(stamp) {
		rs := s.lock.ReadLock()
		n = s.tail.Load() - s.head.Load()
		s.lock.UnlockRead(rs)
	}
	return int(n)
}

func (s *Stamped[T]) Cap() int                  { return int(s.capacity) }
func (s *Stamped[T]) Strategy() config.Strategy { return config.StrategyStamped }
func (s *Stamped[T]) Metrics() Metrics          { return s.counters.snapshot() }
