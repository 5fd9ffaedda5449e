package worker

import (
	"context"
	"github.com/Borislavv/go-ash-buffer/internal/buffer"
	"github.com/Borislavv/go-ash-buffer/model"
	"github.com/benbjohnson/clock"
	"github.com/rs/zerolog"
	"time"
)

// Reader repeatedly pops a payload from the buffer and verifies it.
type Reader struct {
	id       int
	delay    time.Duration
	buf      buffer.Buffer[*model.Payload]
	clock    clock.Clock
	logger   zerolog.Logger
	counters *counters
}

func NewReader(
	id int,
	delay time.Duration,
	buf buffer.Buffer[*model.Payload],
	clk clock.Clock,
	logger zerolog.Logger,
) *Reader {
	return &Reader{
		id:       id,
		delay:    delay,
		buf:      buf,
		clock:    clk,
		logger:   logger.With().Str("role", "reader").Int("id", id).Logger(),
		counters: newCounters(),
	}
}

func (r *Reader) ID() int          { return r.id }
func (r *Reader) Metrics() Metrics { return r.counters.snapshot() }

// Run blocks until ctx is done.
func (r *Reader) Run(ctx context.Context) error {
	r.logger.Info().Dur("delay", r.delay).Msg("reader is running")
	defer func() {
		r.logger.Info().Int64("read", r.counters.ops.Load()).Msg("reader is stopped")
	}()

	return loop(ctx, r.clock, r.delay, r.read)
}

func (r *Reader) read(ctx context.Context) error {
	payload, err := r.buf.Pop(ctx)
	if err != nil {
		return err
	}
	r.counters.ops.Add(1)

	if !payload.Verify() {
		r.counters.corrupted.Add(1)
		r.logger.Warn().Stringer("payload", payload).Msg("payload checksum mismatch")
		return nil
	}

	r.logger.Debug().
		Str("strategy", string(r.buf.Strategy())).
		Stringer("payload", payload).
		Dur("age", r.clock.Since(payload.CreatedAt)).
		Int("size", r.buf.Len()).
		Msg("read")
	return nil
}
