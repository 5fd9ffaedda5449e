package buffer

import (
	"context"
	"github.com/Borislavv/go-ash-buffer/config"
	"github.com/Borislavv/go-ash-buffer/internal/shared/ring"
	"sync"
)

// Blocking guards the ring with one mutex and two condition variables.
// Every push and pop is fully ordered by the mutex.
type Blocking[T any] struct {
	mu       sync.Mutex
	notFull  *sync.Cond // signaled after every pop
	notEmpty *sync.Cond // signaled after every push
	items    ring.Ring[T]
	counters *counters
}

func NewBlocking[T any](capacity int) *Blocking[T] {
	b := &Blocking[T]{counters: newCounters()}
	b.items.Init(normalizeCapacity(capacity))
	b.notFull = sync.NewCond(&b.mu)
	b.notEmpty = sync.NewCond(&b.mu)
	return b
}

func (b *Blocking[T]) Push(ctx context.Context, item T) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.items.Full() {
		stop := b.wakeOnDone(ctx)
		defer stop()

		// ctx goes first: a canceled waiter must not fill a slot freed after the cancel.
		// A woken waiter has no exclusivity over other woken waiters: re-check.
		for {
			if err := ctx.Err(); err != nil {
				if !b.items.Full() {
					b.notFull.Signal() // hand the wakeup on to a live writer
				}
				return canceled(b.counters, err)
			}
			if !b.items.Full() {
				break
			}
			b.counters.pushWaits.Add(1)
			b.notFull.Wait()
		}
	}

	b.items.TryPush(item)
	b.counters.pushed.Add(1)
	b.notEmpty.Signal()
	return nil
}

func (b *Blocking[T]) Pop(ctx context.Context) (T, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.items.Empty() {
		stop := b.wakeOnDone(ctx)
		defer stop()

		for {
			if err := ctx.Err(); err != nil {
				if !b.items.Empty() {
					b.notEmpty.Signal() // the item belongs to a live reader
				}
				var zero T
				return zero, canceled(b.counters, err)
			}
			if !b.items.Empty() {
				break
			}
			b.counters.popWaits.Add(1)
			b.notEmpty.Wait()
		}
	}

	item, _ := b.items.TryPop()
	b.counters.popped.Add(1)
	b.notFull.Signal()
	return item, nil
}

// wakeOnDone wakes every waiter once ctx ends so that canceled ones can leave.
// Waiters that are not canceled go back to sleep on their re-check loop.
// Once ctx is done a waiter never takes its condition, even if it already holds.
// The broadcast takes the mutex, so it cannot slip in between a waiter's ctx
// check and its Wait.
func (b *Blocking[T]) wakeOnDone(ctx context.Context) (stop func() bool) {
	return context.AfterFunc(ctx, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.notFull.Broadcast()
		b.notEmpty.Broadcast()
	})
}

func (b *Blocking[T]) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.items.Len()
}

func (b *Blocking[T]) Cap() int                  { return b.items.Cap() }
func (b *Blocking[T]) Strategy() config.Strategy { return config.StrategyBlocking }
func (b *Blocking[T]) Metrics() Metrics          { return b.counters.snapshot() }
