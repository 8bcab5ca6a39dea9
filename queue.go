package boggle

import "sync"

// requestQueue is an unbounded FIFO shared between the public API and a
// connection loop. ready carries at most one pending wake-up.
type requestQueue[T any] struct {
	mu     sync.Mutex
	items  []T
	sealed error
	ready  chan struct{}
}

func newRequestQueue[T any]() *requestQueue[T] {
	return &requestQueue[T]{ready: make(chan struct{}, 1)}
}

// push appends v. It returns the sealing error instead once seal or drain has
// been called.
func (q *requestQueue[T]) push(v T) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.sealed != nil {
		return q.sealed
	}
	q.items = append(q.items, v)
	q.wake()
	return nil
}

func (q *requestQueue[T]) pop() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	var zero T
	if len(q.items) == 0 {
		return zero, false
	}
	v := q.items[0]
	q.items[0] = zero
	q.items = q.items[1:]
	return v, true
}

func (q *requestQueue[T]) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// seal rejects future pushes with err but keeps queued items.
func (q *requestQueue[T]) seal(err error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.sealed == nil {
		q.sealed = err
	}
	q.wake()
}

// drain seals the queue and hands back everything still queued. Each item is
// returned by exactly one of pop or drain.
func (q *requestQueue[T]) drain(err error) []T {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.sealed == nil {
		q.sealed = err
	}
	items := q.items
	q.items = nil
	q.wake()
	return items
}

func (q *requestQueue[T]) wake() {
	select {
	case q.ready <- struct{}{}:
	default:
	}
}
