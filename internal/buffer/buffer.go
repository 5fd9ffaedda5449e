package buffer

import (
	"context"
	"errors"
	"fmt"
	"github.com/Borislavv/go-ash-buffer/config"
	"time"
)

// ErrCanceled is returned by Push and Pop when the context ends while they wait.
// The returned error also wraps the context's own error.
var ErrCanceled = errors.New("buffer: wait canceled")

// Buffer is a bounded FIFO shared by concurrent writers and readers.
// Full and empty states are never reported: Push and Pop wait them out.
type Buffer[T any] interface {
	// Push appends item at the tail, waiting while the buffer is full.
	Push(ctx context.Context, item T) error
	// Pop removes the head, waiting while the buffer is empty.
	Pop(ctx context.Context) (T, error)
	// Len is a snapshot: it was true at some instant during the call.
	Len() int
	Cap() int
	Strategy() config.Strategy
	Metrics() Metrics
}

// New builds the buffer implementation selected by cfg.Strategy.
func New[T any](cfg *config.BufferCfg) Buffer[T] {
	if cfg.Strategy == config.StrategyStamped {
		return NewStamped[T](cfg.Size, cfg.Backoff)
	}
	return NewBlocking[T](cfg.Size)
}

func canceled(c *counters, err error) error {
	c.canceled.Add(1)
	return fmt.Errorf("%w: %w", ErrCanceled, err)
}

func normalizeCapacity(capacity int) int {
	if capacity < 1 {
		return config.DefaultBufferSize
	}
	return capacity
}

func normalizeBackoff(backoff time.Duration) time.Duration {
	if backoff <= 0 {
		return config.DefaultBackoff
	}
	return backoff
}
