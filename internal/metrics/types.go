package metrics

import (
	"sync"
	"time"
)

type Registry struct {
	mu      sync.RWMutex
	metrics map[time.Time]map[string]map[string]Metric // key0=time slice, key1=namespace, key2=name
}

type MetricType string

const (
	Counter MetricType = "counter" // events in the interval
	Gauge   MetricType = "gauge"   // point in time value
)

// Container for a metric and associated data
type Metric struct {
	Name        string // e.g. lines_read, queue_depth
	Description string
	Namespace   []string // e.g. "Shipper/Pipeline/Sink/tcp-0"
	Value       MetricValue
	Type        MetricType
	Timestamp   time.Time // time when the metric was recorded
}

// Specific value of a metric
type MetricValue struct {
	Raw      any           // uint64, int64, float64
	Unit     string        // e.g., "bytes", "count"
	Interval time.Duration // collection interval
}

// JSON version
type JMetric struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Namespace   string       `json:"namespace"`
	Value       JMetricValue `json:"value"`
	Type        string       `json:"type"`
	Timestamp   string       `json:"timestamp"`
}

type JMetricValue struct {
	Raw      string `json:"raw"`
	Unit     string `json:"unit"`
	Interval string `json:"interval"`
}
