package engine

// ring is a fixed-size FIFO that overwrites its oldest element when full.
// It is not safe for concurrent use; owners guard it.
type ring[T any] struct {
	items []T
	next  int
	size  int
}

func newRing[T any](capacity int) ring[T] {
	return ring[T]{items: make([]T, capacity)}
}

func (r *ring[T]) push(v T) {
	r.items[r.next] = v
	r.next = (r.next + 1) % len(r.items)
	r.size = min(r.size+1, len(r.items))
}

// ordered copies the held elements oldest first. Never nil.
func (r *ring[T]) ordered() []T {
	out := make([]T, 0, r.size)
	if r.size < len(r.items) {
		return append(out, r.items[:r.size]...)
	}
	out = append(out, r.items[r.next:]...)
	return append(out, r.items[:r.next]...)
}
