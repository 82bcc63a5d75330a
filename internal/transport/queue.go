package transport

import "sync"

// queue is an unbounded FIFO drained into out by run. push never blocks.
type queue[T any] struct {
	mu     sync.Mutex
	items  []T
	signal chan struct{}
	out    chan T
}

func newQueue[T any]() *queue[T] {
	return &queue[T]{
		signal: make(chan struct{}, 1),
		out:    make(chan T),
	}
}

func (q *queue[T]) push(v T) {
	q.mu.Lock()
	q.items = append(q.items, v)
	q.mu.Unlock()

	select {
	case q.signal <- struct{}{}:
	default:
	}
}

// run delivers items in order until done is closed, then closes out.
// Undelivered items are dropped.
func (q *queue[T]) run(done <-chan struct{}) {
	defer close(q.out)
	for {
		q.mu.Lock()
		if len(q.items) == 0 {
			q.mu.Unlock()
			select {
			case <-q.signal:
				continue
			case <-done:
				return
			}
		}
		v := q.items[0]
		var zero T
		q.items[0] = zero
		q.items = q.items[1:]
		q.mu.Unlock()

		select {
		case q.out <- v:
		case <-done:
			return
		}
	}
}
