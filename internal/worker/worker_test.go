package worker

import (
	"bytes"
	"context"
	"github.com/Borislavv/go-ash-buffer/internal/buffer"
	"github.com/Borislavv/go-ash-buffer/model"
	"github.com/benbjohnson/clock"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"sync"
	"testing"
	"time"
)

// syncBuffer is a bytes.Buffer safe for a logger written from several goroutines.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func runAsync(ctx context.Context, run func(context.Context) error) <-chan error {
	done := make(chan error, 1)
	go func() { done <- run(ctx) }()
	return done
}

func requireStopped(t *testing.T, done <-chan error) {
	t.Helper()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("task did not stop after cancellation")
	}
}

// TestWriter_FillsBufferAndStopsOnCancel verifies a blocked writer exits on cancellation.
func TestWriter_FillsBufferAndStopsOnCancel(t *testing.T) {
	for _, buf := range []buffer.Buffer[*model.Payload]{
		buffer.NewBlocking[*model.Payload](3),
		buffer.NewStamped[*model.Payload](3, time.Millisecond),
	} {
		t.Run(string(buf.Strategy()), func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			w := NewWriter(1, 0, buf, clock.New(), zerolog.Nop())

			done := runAsync(ctx, w.Run)
			require.Eventually(t, func() bool { return buf.Len() == 3 }, time.Second, time.Millisecond)

			cancel()
			requireStopped(t, done)
			require.Equal(t, int64(3), w.Metrics().Ops)
			require.Equal(t, 1, w.ID())
		})
	}
}

// TestWriter_PayloadSequence verifies payload identity and per-writer ordering.
func TestWriter_PayloadSequence(t *testing.T) {
	buf := buffer.NewBlocking[*model.Payload](4)
	ctx, cancel := context.WithCancel(context.Background())
	w := NewWriter(7, 0, buf, clock.New(), zerolog.Nop())

	done := runAsync(ctx, w.Run)
	require.Eventually(t, func() bool { return buf.Len() == 4 }, time.Second, time.Millisecond)
	cancel()
	requireStopped(t, done)

	for seq := uint64(1); seq <= 4; seq++ {
		p, err := buf.Pop(context.Background())
		require.NoError(t, err)
		require.Equal(t, 7, p.WriterID)
		require.Equal(t, seq, p.Seq)
		require.True(t, p.Verify())
	}
}

// TestWriter_Pacing waits for the remainder of the delay between two pushes.
func TestWriter_Pacing(t *testing.T) {
	mock := clock.NewMock()
	buf := buffer.NewBlocking[*model.Payload](10)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := NewWriter(0, time.Second, buf, mock, zerolog.Nop())
	done := runAsync(ctx, w.Run)

	require.Eventually(t, func() bool { return buf.Len() == 1 }, time.Second, time.Millisecond)
	require.Never(t, func() bool { return buf.Len() > 1 }, 50*time.Millisecond, 5*time.Millisecond,
		"writer must wait for the delay")

	require.Eventually(t, func() bool {
		mock.Add(time.Second)
		return buf.Len() >= 2
	}, time.Second, 5*time.Millisecond)

	cancel()
	requireStopped(t, done)
}

// TestWriter_CancelDuringPacing stops without waiting for the delay.
func TestWriter_CancelDuringPacing(t *testing.T) {
	buf := buffer.NewStamped[*model.Payload](10, time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())

	w := NewWriter(0, time.Hour, buf, clock.New(), zerolog.Nop())
	done := runAsync(ctx, w.Run)
	require.Eventually(t, func() bool { return buf.Len() == 1 }, time.Second, time.Millisecond)

	cancel()
	requireStopped(t, done)
	require.Equal(t, 1, buf.Len())
}

// TestWriter_AlreadyCanceled never touches the buffer.
func TestWriter_AlreadyCanceled(t *testing.T) {
	buf := buffer.NewBlocking[*model.Payload](1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	w := NewWriter(0, 0, buf, clock.New(), zerolog.Nop())
	require.NoError(t, w.Run(ctx))
	require.Equal(t, 0, buf.Len())
	require.Zero(t, w.Metrics().Ops)
}

// TestReader_DrainsAndStopsOnCancel verifies a blocked reader exits on cancellation.
func TestReader_DrainsAndStopsOnCancel(t *testing.T) {
	for _, buf := range []buffer.Buffer[*model.Payload]{
		buffer.NewBlocking[*model.Payload](3),
		buffer.NewStamped[*model.Payload](3, time.Millisecond),
	} {
		t.Run(string(buf.Strategy()), func(t *testing.T) {
			for i := 1; i <= 3; i++ {
				require.NoError(t, buf.Push(context.Background(), model.NewPayload(0, uint64(i), time.Now())))
			}

			ctx, cancel := context.WithCancel(context.Background())
			r := NewReader(2, 0, buf, clock.New(), zerolog.Nop())
			done := runAsync(ctx, r.Run)

			require.Eventually(t, func() bool { return r.Metrics().Ops == 3 }, time.Second, time.Millisecond)
			require.Equal(t, 0, buf.Len())

			cancel()
			requireStopped(t, done)
			require.Zero(t, r.Metrics().Corrupted)
			require.Equal(t, 2, r.ID())
		})
	}
}

// TestReader_DetectsCorruptedPayload counts checksum mismatches.
func TestReader_DetectsCorruptedPayload(t *testing.T) {
	buf := buffer.NewBlocking[*model.Payload](2)
	bad := model.NewPayload(0, 1, time.Now())
	bad.Data = "tampered"
	require.NoError(t, buf.Push(context.Background(), bad))

	logs := &syncBuffer{}
	ctx, cancel := context.WithCancel(context.Background())
	r := NewReader(0, 0, buf, clock.New(), zerolog.New(logs))
	done := runAsync(ctx, r.Run)

	require.Eventually(t, func() bool { return r.Metrics().Corrupted == 1 }, time.Second, time.Millisecond)
	cancel()
	requireStopped(t, done)

	require.Contains(t, logs.String(), "payload checksum mismatch")
	require.Contains(t, logs.String(), `"message":"reader is stopped"`)
}

// TestWriterReader_Pipeline moves every payload from writers to readers exactly once.
func TestWriterReader_Pipeline(t *testing.T) {
	buf := buffer.NewStamped[*model.Payload](4, time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())

	writers := []*Writer{
		NewWriter(0, 0, buf, clock.New(), zerolog.Nop()),
		NewWriter(1, 0, buf, clock.New(), zerolog.Nop()),
	}
	readers := []*Reader{
		NewReader(0, 0, buf, clock.New(), zerolog.Nop()),
		NewReader(1, 0, buf, clock.New(), zerolog.Nop()),
		NewReader(2, 0, buf, clock.New(), zerolog.Nop()),
	}

	var wg sync.WaitGroup
	for _, w := range writers {
		wg.Go(func() { _ = w.Run(ctx) })
	}
	for _, r := range readers {
		wg.Go(func() { _ = r.Run(ctx) })
	}

	require.Eventually(t, func() bool {
		var read int64
		for _, r := range readers {
			read += r.Metrics().Ops
		}
		return read >= 500
	}, 10*time.Second, 5*time.Millisecond)

	cancel()
	wg.Wait()

	var written, read int64
	for _, w := range writers {
		written += w.Metrics().Ops
	}
	for _, r := range readers {
		read += r.Metrics().Ops
		require.Zero(t, r.Metrics().Corrupted)
	}
	require.Equal(t, written, read+int64(buf.Len()), "every written payload is read or still buffered")
}
