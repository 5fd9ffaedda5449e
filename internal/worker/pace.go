package worker

import (
	"context"
	"errors"
	"github.com/Borislavv/go-ash-buffer/internal/buffer"
	"github.com/benbjohnson/clock"
	"time"
)

// loop runs op until ctx ends, stretching every iteration to at least delay.
// A cancellation reported by op ends the loop without error.
func loop(ctx context.Context, clk clock.Clock, delay time.Duration, op func(ctx context.Context) error) error {
	for ctx.Err() == nil {
		start := clk.Now()
		if err := op(ctx); err != nil {
			if errors.Is(err, buffer.ErrCanceled) {
				return nil
			}
			return err
		}

		if remaining := delay - clk.Since(start); remaining > 0 {
			if !sleep(ctx, clk, remaining) {
				return nil
			}
		}
	}
	return nil
}

// sleep waits for d and reports false if ctx ended first.
func sleep(ctx context.Context, clk clock.Clock, d time.Duration) bool {
	timer := clk.Timer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
