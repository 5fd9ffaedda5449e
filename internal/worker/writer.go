package worker

import (
	"context"
	"github.com/Borislavv/go-ash-buffer/internal/buffer"
	"github.com/Borislavv/go-ash-buffer/model"
	"github.com/benbjohnson/clock"
	"github.com/rs/zerolog"
	"time"
)

// Writer repeatedly builds a payload and pushes it into the buffer.
type Writer struct {
	id       int
	delay    time.Duration
	buf      buffer.Buffer[*model.Payload]
	clock    clock.Clock
	logger   zerolog.Logger
	counters *counters
	seq      uint64
}

func NewWriter(
	id int,
	delay time.Duration,
	buf buffer.Buffer[*model.Payload],
	clk clock.Clock,
	logger zerolog.Logger,
) *Writer {
	return &Writer{
		id:       id,
		delay:    delay,
		buf:      buf,
		clock:    clk,
		logger:   logger.With().Str("role", "writer").Int("id", id).Logger(),
		counters: newCounters(),
	}
}

func (w *Writer) ID() int          { return w.id }
func (w *Writer) Metrics() Metrics { return w.counters.snapshot() }

// Run blocks until ctx is done.
func (w *Writer) Run(ctx context.Context) error {
	w.logger.Info().Dur("delay", w.delay).Msg("writer is running")
	defer func() {
		w.logger.Info().Int64("written", w.counters.ops.Load()).Msg("writer is stopped")
	}()

	return loop(ctx, w.clock, w.delay, w.write)
}

func (w *Writer) write(ctx context.Context) error {
	w.seq++
	payload := model.NewPayload(w.id, w.seq, w.clock.Now())
	if err := w.buf.Push(ctx, payload); err != nil {
		return err
	}
	w.counters.ops.Add(1)

	w.logger.Debug().
		Str("strategy", string(w.buf.Strategy())).
		Stringer("payload", payload).
		Int("size", w.buf.Len()).
		Msg("written")
	return nil
}
