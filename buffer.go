package ashbuffer

import (
	"context"
	"github.com/Borislavv/go-ash-buffer/config"
	"github.com/Borislavv/go-ash-buffer/internal/buffer"
	"github.com/Borislavv/go-ash-buffer/internal/supervisor"
	"github.com/rs/zerolog"
)

// Queue is a bounded FIFO safe for concurrent writers and readers.
type Queue[T any] = buffer.Buffer[T]

type Metrics = buffer.Metrics

var (
	ErrCanceled        = buffer.ErrCanceled
	ErrShutdownTimeout = supervisor.ErrShutdownTimeout
)

// NewQueue builds a queue of the given capacity guarded by the given strategy.
func NewQueue[T any](capacity int, strategy config.Strategy) Queue[T] {
	return buffer.New[T](&config.BufferCfg{
		Size:     capacity,
		Strategy: strategy,
		Backoff:  config.DefaultBackoff,
	})
}

// Run starts the writers and readers described by cfg and blocks until ctx is done,
// then stops them within cfg.Shutdown.Timeout.
func Run(ctx context.Context, cfg *config.Config, logger zerolog.Logger) error {
	return supervisor.New(cfg, logger).Run(ctx)
}
