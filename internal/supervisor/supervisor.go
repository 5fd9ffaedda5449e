package supervisor

import (
	"context"
	"errors"
	"github.com/Borislavv/go-ash-buffer/config"
	"github.com/Borislavv/go-ash-buffer/internal/buffer"
	"github.com/Borislavv/go-ash-buffer/internal/telemetry"
	"github.com/Borislavv/go-ash-buffer/internal/worker"
	"github.com/Borislavv/go-ash-buffer/model"
	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"sync"
)

var ErrShutdownTimeout = errors.New("tasks did not stop within the shutdown timeout")

type Option func(s *Supervisor)

// WithClock replaces the clock used for task pacing and the shutdown grace period.
func WithClock(clk clock.Clock) Option {
	return func(s *Supervisor) { s.clock = clk }
}

// WithBuffer replaces the buffer built from config.
func WithBuffer(buf buffer.Buffer[*model.Payload]) Option {
	return func(s *Supervisor) { s.buf = buf }
}

// Supervisor owns the shared buffer and the writer/reader tasks around it.
type Supervisor struct {
	cfg     *config.Config
	logger  zerolog.Logger
	clock   clock.Clock
	runID   uuid.UUID
	buf     buffer.Buffer[*model.Payload]
	writers []*worker.Writer
	readers []*worker.Reader
}

// New adjusts cfg in place and builds the buffer and all tasks; nothing runs until Run.
func New(cfg *config.Config, logger zerolog.Logger, opts ...Option) *Supervisor {
	cfg.AdjustConfig()

	runID := uuid.New()
	s := &Supervisor{
		cfg:    cfg,
		clock:  clock.New(),
		runID:  runID,
		logger: logger.With().Str("run", runID.String()).Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.buf == nil {
		s.buf = buffer.New[*model.Payload](&cfg.Buffer)
	}

	s.writers = make([]*worker.Writer, 0, cfg.Writers.Count)
	for id := 0; id < cfg.Writers.Count; id++ {
		s.writers = append(s.writers, worker.NewWriter(id, cfg.Writers.Delay, s.buf, s.clock, s.logger))
	}
	s.readers = make([]*worker.Reader, 0, cfg.Readers.Count)
	for id := 0; id < cfg.Readers.Count; id++ {
		s.readers = append(s.readers, worker.NewReader(id, cfg.Readers.Delay, s.buf, s.clock, s.logger))
	}

	return s
}

func (s *Supervisor) Buffer() buffer.Buffer[*model.Payload] { return s.buf }
func (s *Supervisor) Writers() []*worker.Writer             { return s.writers }
func (s *Supervisor) Readers() []*worker.Reader             { return s.readers }

// Run starts all tasks and blocks until ctx is done (the shutdown request). Then it
// cancels the tasks and waits for them at most cfg.Shutdown.Timeout, returning
// ErrShutdownTimeout if some are still running. Such tasks are abandoned.
func (s *Supervisor) Run(ctx context.Context) error {
	tasksCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var logs telemetry.Logger = telemetry.New(tasksCtx, s.cfg.Telemetry, s.clock, s.buf.Strategy(), s.logger, s.buf, s.writers, s.readers)
	defer func() { _ = logs.Close() }()

	s.logger.Info().
		Int("buffer_size", s.buf.Cap()).
		Str("strategy", string(s.buf.Strategy())).
		Int("writers", len(s.writers)).
		Int("readers", len(s.readers)).
		Dur("write_delay", s.cfg.Writers.Delay).
		Dur("read_delay", s.cfg.Readers.Delay).
		Dur("telemetry_interval", logs.Interval()).
		Msg("supervisor is running")

	var wg sync.WaitGroup
	for _, w := range s.writers {
		wg.Go(func() { s.watch(w.Run(tasksCtx), "writer", w.ID()) })
	}
	for _, r := range s.readers {
		wg.Go(func() { s.watch(r.Run(tasksCtx), "reader", r.ID()) })
	}

	<-ctx.Done()
	s.logger.Info().Dur("timeout", s.cfg.Shutdown.Timeout).Msg("shutdown requested, stopping tasks")
	cancel()

	stopped := make(chan struct{})
	go func() {
		wg.Wait()
		close(stopped)
	}()

	grace := s.clock.Timer(s.cfg.Shutdown.Timeout)
	defer grace.Stop()

	select {
	case <-stopped:
		s.logger.Info().Int("buffered", s.buf.Len()).Msg("supervisor is stopped")
		return nil
	case <-grace.C:
		s.logger.Warn().Dur("timeout", s.cfg.Shutdown.Timeout).Msg("not all tasks stopped in time")
		return ErrShutdownTimeout
	}
}

func (s *Supervisor) watch(err error, role string, id int) {
	if err != nil {
		s.logger.Error().Err(err).Str("role", role).Int("id", id).Msg("task failed")
	}
}
