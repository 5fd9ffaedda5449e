package ring

// Ring is a fixed-capacity FIFO over a circular slice.
// It is not synchronized: the owner guards every call with its own lock.
type Ring[T any] struct {
	buf        []T
	head, size int
}

func (r *Ring[T]) Init(capacity int) {
	if capacity < 1 {
		capacity = 1
	}
	r.buf = make([]T, capacity)
	r.head, r.size = 0, 0
}

func (r *Ring[T]) TryPush(v T) bool {
	if r.size == len(r.buf) { // full
		return false
	}
	r.buf[(r.head+r.size)%len(r.buf)] = v
	r.size++
	return true
}

func (r *Ring[T]) TryPop() (T, bool) {
	var zero T
	if r.size == 0 {
		return zero, false
	}
	v := r.buf[r.head]
	r.buf[r.head] = zero // drop the reference for GC
	r.head = (r.head + 1) % len(r.buf)
	r.size--
	return v, true
}

func (r *Ring[T]) Len() int    { return r.size }
func (r *Ring[T]) Cap() int    { return len(r.buf) }
func (r *Ring[T]) Full() bool  { return r.size == len(r.buf) }
func (r *Ring[T]) Empty() bool { return r.size == 0 }
