// Orchestration of source, bounded queues and sinks with at-least-once position tracking
package pipeline

import (
	"errors"
	"fmt"
	"slices"

	"logship/internal/global"
	"logship/internal/sink"
)

var (
	ErrNoSource       = errors.New("pipeline requires a source")
	ErrNoSinks        = errors.New("pipeline requires at least one sink")
	ErrAlreadyStarted = errors.New("pipeline has already been run")
)

// Creates an idle pipeline. Sink names must be unique.
func New(cfg Config, src Source, sinks ...sink.Sink) (pipe *Pipeline, err error) {
	if src == nil {
		err = ErrNoSource
		return
	}
	if len(sinks) == 0 {
		err = ErrNoSinks
		return
	}

	cfg = cfg.withDefaults()
	namespace := append(slices.Clone(cfg.Namespace), global.NSPipeline)

	seen := make(map[string]bool)
	workers := make([]*worker, 0, len(sinks))
	for _, output := range sinks {
		if output == nil {
			err = fmt.Errorf("sink %d is nil", len(workers))
			return
		}
		name := output.Name()
		if seen[name] {
			err = fmt.Errorf("duplicate sink name '%s'", name)
			return
		}
		seen[name] = true

		w := &worker{
			Namespace: append(slices.Clone(namespace), global.NSWorker, name),
			sink:      output,
		}
		w.last.Store(&mark{generation: src.Generation(), offset: src.Position()})
		workers = append(workers, w)
	}

	pipe = &Pipeline{
		Namespace:     namespace,
		cfg:           cfg,
		src:           src,
		workers:       workers,
		shutdown:      make(chan struct{}),
		startPosition: src.Position(),
	}
	pipe.committed.Store(src.Position())
	pipe.setState(StateIdle)
	return
}

func (cfg Config) withDefaults() Config {
	if cfg.QueueCapacity <= 0 {
		cfg.QueueCapacity = global.DefaultQueueCapacity
	}
	if cfg.DrainTimeout <= 0 {
		cfg.DrainTimeout = global.DefaultDrainTimeout
	}
	if cfg.CheckpointInterval <= 0 {
		cfg.CheckpointInterval = global.DefaultCheckpointInterval
	}
	if cfg.MetricInterval <= 0 {
		cfg.MetricInterval = global.DefaultMetricInterval
	}
	if cfg.MetricMaxAge <= 0 {
		cfg.MetricMaxAge = global.DefaultMetricMaxAge
	}
	return cfg
}

// Requests a transition to Draining. Safe to call at any time and more than once.
func (pipe *Pipeline) Shutdown() {
	pipe.shutdownOnce.Do(func() {
		close(pipe.shutdown)
	})
}

// Offset just past the last record every sink attempted
func (pipe *Pipeline) DeliveredPosition() (position int64) {
	delivered, _ := pipe.deliveredMark()
	position = delivered.offset
	return
}

// Earliest resume point over all sinks. current is false while sinks straddle a file
// rotation or have not reached the file now being read; its offset then belongs to an
// older file.
func (pipe *Pipeline) deliveredMark() (delivered mark, current bool) {
	delivered = *pipe.workers[0].last.Load()
	current = true
	for _, w := range pipe.workers[1:] {
		last := *w.last.Load()
		if last.generation != delivered.generation {
			current = false
		}
		if last.generation < delivered.generation ||
			(last.generation == delivered.generation && last.offset < delivered.offset) {
			delivered = last
		}
	}
	if delivered.generation != pipe.src.Generation() {
		current = false
	}
	return
}

// Number of events every sink attempted
func (pipe *Pipeline) delivered() (count uint64) {
	count = pipe.workers[0].attempted.Load()
	for _, w := range pipe.workers[1:] {
		count = min(count, w.attempted.Load())
	}
	return
}
