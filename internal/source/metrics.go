package source

import (
	"time"

	"logship/internal/metrics"
)

// Reads and clears interval counters
func (src *FileSource) CollectMetrics(interval time.Duration) (collection []metrics.Metric) {
	lines := src.metrics.LinesRead.Swap(0)
	bytesRead := src.metrics.BytesRead.Swap(0)
	rotations := src.metrics.Rotations.Swap(0)

	recordTime := time.Now()
	counter := func(name, description, unit string, value uint64) metrics.Metric {
		return metrics.Metric{
			Name:        name,
			Description: description,
			Namespace:   src.Namespace,
			Value: metrics.MetricValue{
				Raw:      value,
				Unit:     unit,
				Interval: interval,
			},
			Type:      metrics.Counter,
			Timestamp: recordTime,
		}
	}

	collection = []metrics.Metric{
		counter("lines_read", "Total records read from file in the interval", "count", lines),
		counter("bytes_read", "Total bytes read from file in the interval", "bytes", bytesRead),
		counter("reopens", "Times the file was reopened after rotation or truncation", "count", rotations),
	}
	return
}
