package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrInvalidStrategy = errors.New("invalid strategy")

// Strategy selects the synchronization discipline of the shared buffer.
type Strategy string

const (
	// StrategyBlocking guards the buffer with a mutex and two condition variables
	// ("not full" and "not empty"). Waiters sleep until signaled.
	StrategyBlocking Strategy = "blocking"

	// StrategyStamped guards the buffer with a stamped lock: optimistic reads on pop
	// and size, exclusive writes, and fixed-interval backoff polling while full/empty.
	StrategyStamped Strategy = "stamped"
)

func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case StrategyBlocking, "reentrant", "mutex":
		return StrategyBlocking, nil
	case StrategyStamped, "optimistic", "stampedlock":
		return StrategyStamped, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStrategy, s)
}

type BufferCfg struct {
	// Size is the buffer capacity. Must be positive.
	Size int `yaml:"size"`

	// Strategy defines the locking discipline.
	// Supported values:
	//   - "blocking": mutex + condition variables
	//   - "stamped":  optimistic stamped lock with backoff polling
	Strategy Strategy `yaml:"strategy"`

	// UseStampedLock is the legacy boolean switch. It is honored only when Strategy is empty.
	UseStampedLock bool `yaml:"use_stamped_lock,omitempty"`

	// Backoff is the fixed pause between retries of the stamped strategy while
	// the buffer is full (writers) or empty (readers).
	Backoff time.Duration `yaml:"backoff"`
}
