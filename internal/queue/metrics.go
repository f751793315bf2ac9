package queue

import (
	"time"

	"logship/internal/metrics"
)

func (queue *Queue[T]) CollectMetrics(interval time.Duration) (collection []metrics.Metric) {
	recordTime := time.Now()

	add := func(name string, raw any, unit string, metricType metrics.MetricType, description string) {
		collection = append(collection, metrics.Metric{
			Name:        name,
			Description: description,
			Namespace:   queue.Namespace,
			Type:        metricType,
			Timestamp:   recordTime,
			Value: metrics.MetricValue{
				Raw:      raw,
				Unit:     unit,
				Interval: interval,
			},
		})
	}

	add("depth", queue.Metrics.Depth.Load(), "count", metrics.Gauge, "Current number of events in the queue")
	add("byte_sum", queue.Metrics.Bytes.Load(), "bytes", metrics.Gauge, "Byte sum of all events in the queue")
	add("slots_in_use", int64(queue.InUse()), "count", metrics.Gauge, "Queued events plus events a consumer still holds")
	add("capacity", int64(queue.Cap()), "count", metrics.Gauge, "Maximum number of events the queue holds")
	add("send_attempts", queue.Metrics.SendAttempts.Swap(0), "count", metrics.Counter, "Total send attempts in the interval")
	add("send_success", queue.Metrics.SendSuccess.Swap(0), "count", metrics.Counter, "Total sends accepted in the interval")
	add("send_blocked", queue.Metrics.SendBlocked.Swap(0), "count", metrics.Counter, "Sends that waited on a full queue in the interval")
	add("recv_success", queue.Metrics.RecvSuccess.Swap(0), "count", metrics.Counter, "Total events handed to consumers in the interval")
	return
}
