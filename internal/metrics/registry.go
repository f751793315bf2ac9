// In-memory registry of time sliced metrics collected from running components
package metrics

import (
	"fmt"
	"strings"
	"time"
)

// Creates new metric registry storage
func New() (registry *Registry) {
	registry = &Registry{
		metrics: make(map[time.Time]map[string]map[string]Metric),
	}
	return
}

// Setup metrics map for this collection interval. Returned key is now rounded down to the interval.
func (registry *Registry) NewTimeSlice(now time.Time, interval time.Duration) (timeSlice time.Time) {
	registry.mu.Lock()
	defer registry.mu.Unlock()

	timeSlice = now
	if interval > 0 {
		timeSlice = now.Truncate(interval)
	}
	if registry.metrics[timeSlice] == nil {
		registry.metrics[timeSlice] = make(map[string]map[string]Metric)
	}
	return
}

// Adds batch of metrics to an existing time slice
func (registry *Registry) Add(timeSlice time.Time, metrics []Metric) {
	registry.mu.Lock()
	defer registry.mu.Unlock()

	slice := registry.metrics[timeSlice]
	if slice == nil {
		return
	}

	for _, metric := range metrics {
		namespace := strings.Join(metric.Namespace, "/")
		if slice[namespace] == nil {
			slice[namespace] = make(map[string]Metric)
		}
		slice[namespace][metric.Name] = metric
	}
}

// Deletes metrics older than maxAge relative to currentTime
func (registry *Registry) Prune(currentTime time.Time, maxAge time.Duration) {
	registry.mu.Lock()
	defer registry.mu.Unlock()

	for timeSlice := range registry.metrics {
		if currentTime.Sub(timeSlice) > maxAge {
			delete(registry.metrics, timeSlice)
		}
	}
}

// Returns the most recently recorded value of every metric (one per namespace and name)
func (registry *Registry) Latest() (latest []Metric) {
	registry.mu.RLock()
	defer registry.mu.RUnlock()

	newest := make(map[string]Metric)
	for _, nsMap := range registry.metrics {
		for nsStr, metricsMap := range nsMap {
			for name, metric := range metricsMap {
				key := nsStr + "|" + name
				current, seen := newest[key]
				if !seen || metric.Timestamp.After(current.Timestamp) {
					newest[key] = metric
				}
			}
		}
	}

	latest = make([]Metric, 0, len(newest))
	for _, metric := range newest {
		latest = append(latest, metric)
	}
	sortMetrics(latest)
	return
}

// Converts the raw value to a float, accepting any numeric type
func (value MetricValue) Float() (number float64, err error) {
	switch raw := value.Raw.(type) {
	case uint64:
		number = float64(raw)
	case int64:
		number = float64(raw)
	case int:
		number = float64(raw)
	case uint32:
		number = float64(raw)
	case int32:
		number = float64(raw)
	case float64:
		number = raw
	case float32:
		number = float64(raw)
	default:
		err = fmt.Errorf("metric value of type %T is not numeric", value.Raw)
	}
	return
}
