package metrics

import (
	"slices"
	"strings"
	"time"
)

// Exact match or prefix match. Empty query matches all.
func matchesNamespace(metricNS, queryNS []string) (matches bool) {
	if len(queryNS) == 0 {
		matches = true
		return
	}
	if len(metricNS) < len(queryNS) {
		return
	}
	matches = slices.Equal(metricNS[:len(queryNS)], queryNS)
	return
}

// Returns all metrics matching given name and namespace prefix, oldest first.
// Empty name or prefix matches everything. Zero start/end disables that bound.
func (registry *Registry) Search(name string, namespacePrefix []string, start, end time.Time) (results []Metric) {
	registry.mu.RLock()
	defer registry.mu.RUnlock()

	var timestamps []time.Time
	for ts := range registry.metrics {
		if !start.IsZero() && ts.Before(start) {
			continue
		}
		if !end.IsZero() && ts.After(end) {
			continue
		}
		timestamps = append(timestamps, ts)
	}
	slices.SortFunc(timestamps, func(a, b time.Time) int { return a.Compare(b) })

	for _, ts := range timestamps {
		var slice []Metric
		for nsStr, metricsMap := range registry.metrics[ts] {
			if !matchesNamespace(strings.Split(nsStr, "/"), namespacePrefix) {
				continue
			}
			for metricName, metric := range metricsMap {
				if name == "" || metricName == name {
					slice = append(slice, metric)
				}
			}
		}
		sortMetrics(slice)
		results = append(results, slice...)
	}
	return
}

// Finds all distinct metrics matching the filters, without values or timestamps
func (registry *Registry) Discover(name string, namespacePrefix []string, metricType MetricType) (results []Metric) {
	registry.mu.RLock()
	defer registry.mu.RUnlock()

	seen := make(map[string]Metric)
	for _, nsMap := range registry.metrics {
		for nsStr, metricsMap := range nsMap {
			if !matchesNamespace(strings.Split(nsStr, "/"), namespacePrefix) {
				continue
			}
			for _, metric := range metricsMap {
				if name != "" && !strings.Contains(metric.Name, name) {
					continue
				}
				if metricType != "" && metric.Type != metricType {
					continue
				}
				seen[nsStr+"|"+metric.Name] = Metric{
					Name:        metric.Name,
					Description: metric.Description,
					Namespace:   metric.Namespace,
					Type:        metric.Type,
					Value:       MetricValue{Unit: metric.Value.Unit},
				}
			}
		}
	}

	results = make([]Metric, 0, len(seen))
	for _, metric := range seen {
		results = append(results, metric)
	}
	sortMetrics(results)
	return
}

// Stable output: by name then namespace
func sortMetrics(list []Metric) {
	slices.SortFunc(list, func(a, b Metric) int {
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return strings.Compare(strings.Join(a.Namespace, "/"), strings.Join(b.Namespace, "/"))
	})
}
