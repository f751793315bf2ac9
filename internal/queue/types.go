package queue

import (
	"errors"
	"sync"
	"sync/atomic"
)

var ErrClosed = errors.New("queue is closed")

// Fixed capacity FIFO handoff between one producer and its consumers
type Queue[T any] struct {
	Namespace []string
	items     chan T
	slots     chan struct{} // one token per queued or held item
	done      chan struct{} // closed first so blocked producers return
	mutex     sync.RWMutex  // senders hold read lock while items may be written
	closed    bool
	closeOnce sync.Once
	sizeOf    func(T) int
	Metrics   *MetricStorage
}

type MetricStorage struct {
	Depth atomic.Int64 // Current items in queue
	Bytes atomic.Int64 // Current byte size in queue (just data)

	SendAttempts atomic.Uint64 // every Send call
	SendSuccess  atomic.Uint64 // item accepted
	SendBlocked  atomic.Uint64 // Send found the queue full and had to wait

	RecvSuccess atomic.Uint64 // item handed to a consumer
}
