package server

import (
	"context"
	"time"

	"logship/internal/metrics"
)

type httpLogWriter struct {
	ctx context.Context
}

type Jerror struct {
	Msg string `json:"error"`
}

type DataSearcher func(name string, namespacePrefix []string, start, end time.Time) []metrics.Metric
type Discoverer func(name string, namespacePrefix []string, metricType metrics.MetricType) []metrics.Metric
