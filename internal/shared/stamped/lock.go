package stamped

import (
	"sync"
	"sync/atomic"
)

// optimistic marks stamps handed out by TryOptimisticRead so that a zero stamp is never valid.
const optimistic = uint64(1) << 63

// Lock is a stamped read/write lock.
//
// The version counter is odd while a writer holds the lock and is bumped on both
// acquisition and release, so an optimistic reader detects any write that overlapped
// its read by comparing versions. Data read optimistically must itself be loaded
// atomically; the version only tells whether what was loaded is a consistent snapshot.
type Lock struct {
	mu      sync.RWMutex
	version atomic.Uint64
}

// WriteLock acquires exclusive access and returns the stamp to unlock with.
func (l *Lock) WriteLock() uint64 {
	l.mu.Lock()
	return l.version.Add(1)
}

func (l *Lock) UnlockWrite(stamp uint64) {
	if l.version.Load() != stamp {
		panic("stamped: UnlockWrite with a stamp that does not own the lock")
	}
	l.version.Add(1)
	l.mu.Unlock()
}

// ReadLock acquires shared access. Writers are excluded until UnlockRead.
func (l *Lock) ReadLock() uint64 {
	l.mu.RLock()
	return l.version.Load()
}

func (l *Lock) UnlockRead(uint64) {
	l.mu.RUnlock()
}

// TryOptimisticRead returns a stamp for a later Validate, or zero if a writer holds the lock.
func (l *Lock) TryOptimisticRead() uint64 {
	v := l.version.Load()
	if v&1 != 0 {
		return 0
	}
	return v | optimistic
}

// Validate reports whether no write was acquired since the stamp was issued.
func (l *Lock) Validate(stamp uint64) bool {
	return stamp&optimistic != 0 && l.version.Load()|optimistic == stamp
}
