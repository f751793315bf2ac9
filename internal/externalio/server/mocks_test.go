package server

import (
	"time"

	"logship/internal/metrics"
)

type searchCall struct {
	name       string
	namespace  []string
	start, end time.Time
}

// Returns fixed results and remembers the last query
func mockDataSearcher(results []metrics.Metric, last *searchCall) DataSearcher {
	return func(name string, ns []string, start, end time.Time) []metrics.Metric {
		if last != nil {
			*last = searchCall{name: name, namespace: ns, start: start, end: end}
		}
		return results
	}
}

func mockDiscoverer(results []metrics.Metric, lastType *metrics.MetricType) Discoverer {
	return func(name string, ns []string, metricType metrics.MetricType) []metrics.Metric {
		if lastType != nil {
			*lastType = metricType
		}
		return results
	}
}
