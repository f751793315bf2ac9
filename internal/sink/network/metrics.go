package network

import (
	"time"

	"logship/internal/metrics"
)

func (netSink *Sink) CollectMetrics(interval time.Duration) (collection []metrics.Metric) {
	recordTime := time.Now()

	add := func(name string, raw uint64, description string) {
		collection = append(collection, metrics.Metric{
			Name:        name,
			Description: description,
			Namespace:   netSink.Namespace,
			Type:        metrics.Counter,
			Timestamp:   recordTime,
			Value: metrics.MetricValue{
				Raw:      raw,
				Unit:     "count",
				Interval: interval,
			},
		})
	}

	add("send_attempts", netSink.metrics.Attempts.Swap(0), "Transport send attempts in the interval")
	add("send_retries", netSink.metrics.Retries.Swap(0), "Attempts repeated after a transient failure in the interval")
	add("delivered", netSink.metrics.Delivered.Swap(0), "Events delivered in the interval")
	add("dropped_transient", netSink.metrics.TransientDrop.Swap(0), "Events dropped after exhausting retries in the interval")
	add("dropped_permanent", netSink.metrics.PermanentDrop.Swap(0), "Events dropped on a permanent error in the interval")
	return
}
