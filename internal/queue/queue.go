// Bounded blocking queue with close and drain semantics
package queue

import (
	"context"
	"fmt"
	"sync"
)

// Creates a queue holding at most capacity items.
// sizeOf reports item sizes for the byte gauge and may be nil.
func New[T any](namespace []string, capacity int, sizeOf func(T) int) (queue *Queue[T], err error) {
	if capacity < 1 {
		err = fmt.Errorf("queue capacity must be at least 1, got %d", capacity)
		return
	}
	if sizeOf == nil {
		sizeOf = func(T) int { return 0 }
	}

	queue = &Queue[T]{
		Namespace: namespace,
		items:     make(chan T, capacity),
		slots:     make(chan struct{}, capacity),
		done:      make(chan struct{}),
		sizeOf:    sizeOf,
		Metrics:   &MetricStorage{},
	}
	return
}

// Adds item to the tail, blocking while all slots are taken.
// Returns ErrClosed once the queue is closed, or ctx.Err() when ctx ends first.
func (queue *Queue[T]) Send(ctx context.Context, item T) (err error) {
	queue.Metrics.SendAttempts.Add(1)

	queue.mutex.RLock()
	defer queue.mutex.RUnlock()

	if queue.closed {
		err = ErrClosed
		return
	}

	select {
	case <-queue.done:
		err = ErrClosed
		return
	case queue.slots <- struct{}{}:
	default:
		queue.Metrics.SendBlocked.Add(1)
		select {
		case <-queue.done:
			err = ErrClosed
			return
		case <-ctx.Done():
			err = ctx.Err()
			return
		case queue.slots <- struct{}{}:
		}
	}

	// Holding a slot guarantees room in items
	queue.items <- item
	queue.accepted(item)
	return
}

func (queue *Queue[T]) accepted(item T) {
	queue.Metrics.SendSuccess.Add(1)
	queue.Metrics.Depth.Add(1)
	queue.Metrics.Bytes.Add(int64(queue.sizeOf(item)))
}

// Removes the head item, blocking while the queue is empty and open.
// Items queued before Close are still returned in order, then ErrClosed.
func (queue *Queue[T]) Recv(ctx context.Context) (item T, err error) {
	item, release, err := queue.Hold(ctx)
	if err != nil {
		return
	}
	release()
	return
}

// Removes the head item like Recv, but its slot stays taken until release is called.
// An item still being processed then counts against the capacity.
func (queue *Queue[T]) Hold(ctx context.Context) (item T, release func(), err error) {
	select {
	case received, ok := <-queue.items:
		if !ok {
			err = ErrClosed
			return
		}
		item = received
		queue.Metrics.RecvSuccess.Add(1)
		queue.Metrics.Depth.Add(-1)
		queue.Metrics.Bytes.Add(-int64(queue.sizeOf(item)))

		var once sync.Once
		release = func() {
			once.Do(func() { <-queue.slots })
		}
	case <-ctx.Done():
		err = ctx.Err()
	}
	return
}

// Stops accepting items. Safe to call more than once.
func (queue *Queue[T]) Close() {
	queue.closeOnce.Do(func() {
		close(queue.done)

		queue.mutex.Lock()
		queue.closed = true
		close(queue.items)
		queue.mutex.Unlock()
	})
}

// Number of queued items
func (queue *Queue[T]) Len() int {
	return len(queue.items)
}

// Number of taken slots: queued items plus held ones
func (queue *Queue[T]) InUse() int {
	return len(queue.slots)
}

func (queue *Queue[T]) Cap() int {
	return cap(queue.items)
}
