package telemetry

import (
	"context"
	"github.com/Borislavv/go-ash-buffer/config"
	"github.com/Borislavv/go-ash-buffer/internal/worker"
	"github.com/benbjohnson/clock"
	"github.com/rs/zerolog"
	"time"
)

// Logger is what the supervisor holds on to for the lifetime of a run.
type Logger interface {
	Interval() time.Duration
	Close() error
}

type Logs struct {
	ctx      context.Context
	cancel   context.CancelFunc
	cfg      *config.TelemetryCfg
	clock    clock.Clock
	strategy config.Strategy
	logger   zerolog.Logger
	sampler  sampler
	done     chan struct{}
}

func New(
	ctx context.Context,
	cfg *config.TelemetryCfg,
	clk clock.Clock,
	strategy config.Strategy,
	logger zerolog.Logger,
	buf Source,
	writers []*worker.Writer,
	readers []*worker.Reader,
) *Logs {
	ctx, cancel := context.WithCancel(ctx)
	return (&Logs{
		ctx:      ctx,
		cancel:   cancel,
		cfg:      cfg,
		clock:    clk,
		strategy: strategy,
		logger:   logger.With().Str("component", "telemetry").Logger(),
		sampler:  newSampler(buf, writers, readers),
		done:     make(chan struct{}),
	}).run()
}

func (l *Logs) Interval() time.Duration {
	if !l.cfg.Enabled() {
		return 0
	}
	return l.cfg.Interval
}

// Close stops the loop and waits for it to exit.
func (l *Logs) Close() error {
	l.cancel()
	<-l.done
	return nil
}

func (l *Logs) run() *Logs {
	if l.cfg.Enabled() && l.cfg.Interval > 0 {
		go l.loop()
	} else {
		close(l.done)
	}
	return l
}

func (l *Logs) loop() {
	defer close(l.done)

	ticker := l.clock.Ticker(l.cfg.Interval)
	defer ticker.Stop()

	prev := l.sampler.snapshot()

	for {
		select {
		case <-l.ctx.Done():
			return

		case <-ticker.C:
			cur := l.sampler.snapshot()
			d := deltaSnapshot(prev, cur)
			prev = cur

			l.logger.Info().
				Str("interval", l.cfg.Interval.String()).
				Str("strategy", string(l.strategy)).
				Int("size", l.sampler.buf.Len()).
				Int("capacity", l.sampler.buf.Cap()).
				Uint64("pushed", d.pushed).
				Uint64("popped", d.popped).
				Uint64("push_waits", d.pushWaits).
				Uint64("pop_waits", d.popWaits).
				Uint64("canceled", d.canceled).
				Msg("buffer")

			if l.strategy == config.StrategyStamped {
				l.logger.Info().
					Str("interval", l.cfg.Interval.String()).
					Uint64("hits", d.optimisticHits).
					Uint64("misses", d.optimisticMisses).
					Uint64("retries", d.optimisticRetries).
					Msg("optimistic_reads")
			}

			l.logger.Info().
				Str("interval", l.cfg.Interval.String()).
				Int("writers", len(l.sampler.writers)).
				Int("readers", len(l.sampler.readers)).
				Uint64("written", d.written).
				Uint64("read", d.read).
				Uint64("corrupted", d.corrupted).
				Msg("tasks")
		}
	}
}
