package pipeline

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"logship/internal/event"
	"logship/internal/metrics"
	"logship/internal/queue"
	"logship/internal/sink"
)

// Ordered producer of events
type Source interface {
	Next(ctx context.Context) (event.Event, error)
	Position() int64
	Generation() uint64 // file incarnation at Path, matches event.Event.Generation
	Path() string
	Close() error
}

// Persists delivered positions
type Checkpointer interface {
	Save(sourcePath string, offset int64) error
}

// Implemented by components that report interval metrics
type Collector interface {
	CollectMetrics(interval time.Duration) []metrics.Metric
}

type Config struct {
	QueueCapacity      int
	DrainTimeout       time.Duration
	CheckpointInterval time.Duration
	Checkpoints        Checkpointer      // nil disables persistence
	Metrics            *metrics.Registry // nil disables collection
	MetricInterval     time.Duration
	MetricMaxAge       time.Duration
	Namespace          []string
}

// Outcome of a finished run
type Result struct {
	Position  int64  // offset just past the last record attempted by every sink
	Read      uint64 // events accepted by at least one sink queue
	Delivered uint64 // events attempted by every sink
	Dropped   uint64 // accepted events some sink never attempted
	Sinks     []SinkResult
}

type SinkResult struct {
	Name      string
	Successes uint64
	Failures  uint64
}

type Pipeline struct {
	Namespace []string
	cfg       Config
	src       Source
	workers   []*worker

	state         atomic.Int32
	shutdown      chan struct{}
	shutdownOnce  sync.Once
	startPosition int64
	read          atomic.Uint64
	committed     atomic.Int64 // end offset of the last event handed to the sink queues

	saveMutex sync.Mutex
	saved     bool
	lastSaved mark
}

// One sink with its own queue and delivery bookkeeping
type worker struct {
	Namespace []string
	sink      sink.Sink
	queue     *queue.Queue[event.Event]
	last      atomic.Pointer[mark] // last attempted event
	attempted atomic.Uint64
	successes atomic.Uint64
	failures  atomic.Uint64
	metrics   workerMetrics
}

// Resume point within one file generation
type mark struct {
	generation uint64
	offset     int64
}

type workerMetrics struct {
	Successes atomic.Uint64
	Failures  atomic.Uint64
}
