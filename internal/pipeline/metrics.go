package pipeline

import (
	"context"
	"time"

	"logship/internal/metrics"
)

func (pipe *Pipeline) metricLoop(ctx context.Context) {
	ticker := time.NewTicker(pipe.cfg.MetricInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			pipe.gatherMetrics()
		}
	}
}

// Collects one interval of metrics from every stage into the registry
func (pipe *Pipeline) gatherMetrics() {
	now := time.Now()
	interval := pipe.cfg.MetricInterval
	registry := pipe.cfg.Metrics

	var collection []metrics.Metric
	if collector, ok := pipe.src.(Collector); ok {
		collection = append(collection, collector.CollectMetrics(interval)...)
	}
	collection = append(collection, pipe.CollectMetrics(interval)...)
	for _, w := range pipe.workers {
		collection = append(collection, w.queue.CollectMetrics(interval)...)
		collection = append(collection, w.CollectMetrics(interval)...)
		if collector, ok := w.sink.(Collector); ok {
			collection = append(collection, collector.CollectMetrics(interval)...)
		}
	}

	timeSlice := registry.NewTimeSlice(now, interval)
	registry.Add(timeSlice, collection)
	registry.Prune(now, pipe.cfg.MetricMaxAge)
}

// Pipeline wide gauges
func (pipe *Pipeline) CollectMetrics(interval time.Duration) (collection []metrics.Metric) {
	recordTime := time.Now()
	gauge := func(name, description, unit string, value any) metrics.Metric {
		return metrics.Metric{
			Name:        name,
			Description: description,
			Namespace:   pipe.Namespace,
			Value: metrics.MetricValue{
				Raw:      value,
				Unit:     unit,
				Interval: interval,
			},
			Type:      metrics.Gauge,
			Timestamp: recordTime,
		}
	}

	collection = []metrics.Metric{
		gauge("state", "Lifecycle state (0 idle, 1 running, 2 draining, 3 stopped)", "state", int64(pipe.State())),
		gauge("read_position", "Offset just past the last event handed to the sink queues", "bytes", pipe.committed.Load()),
		gauge("delivered_position", "Offset just past the last event attempted by every sink", "bytes", pipe.DeliveredPosition()),
		gauge("events_read", "Events accepted since start", "count", pipe.read.Load()),
		gauge("events_delivered", "Events attempted by every sink since start", "count", pipe.delivered()),
	}
	return
}

// Per sink interval outcome counters
func (w *worker) CollectMetrics(interval time.Duration) (collection []metrics.Metric) {
	recordTime := time.Now()
	counter := func(name, description string, value uint64) metrics.Metric {
		return metrics.Metric{
			Name:        name,
			Description: description,
			Namespace:   w.Namespace,
			Value: metrics.MetricValue{
				Raw:      value,
				Unit:     "count",
				Interval: interval,
			},
			Type:      metrics.Counter,
			Timestamp: recordTime,
		}
	}

	collection = []metrics.Metric{
		counter("emit_success", "Events the sink accepted in the interval", w.metrics.Successes.Swap(0)),
		counter("emit_failure", "Events the sink rejected in the interval", w.metrics.Failures.Swap(0)),
	}
	return
}
