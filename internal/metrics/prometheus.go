package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"logship/internal/global"
)

// Exposes the newest value of every registry metric to a Prometheus registry.
// Metric names are dynamic, so the collector is unchecked.
type PromCollector struct {
	registry *Registry
}

func NewPromCollector(registry *Registry) (collector *PromCollector) {
	collector = &PromCollector{registry: registry}
	return
}

func (collector *PromCollector) Describe(chan<- *prometheus.Desc) {}

// Registry counters hold per-interval deltas, so every value is exported as a gauge
func (collector *PromCollector) Collect(ch chan<- prometheus.Metric) {
	descs := make(map[string]*prometheus.Desc)

	for _, metric := range collector.registry.Latest() {
		value, err := metric.Value.Float()
		if err != nil {
			continue
		}

		fqName := PromName(metric.Name)
		desc, ok := descs[fqName]
		if !ok {
			help := metric.Description
			if help == "" {
				help = metric.Name
			}
			desc = prometheus.NewDesc(fqName, help, []string{"namespace", "unit"}, nil)
			descs[fqName] = desc
		}

		promMetric, err := prometheus.NewConstMetric(desc, prometheus.GaugeValue, value,
			strings.Join(metric.Namespace, "/"), metric.Value.Unit)
		if err != nil {
			continue
		}
		ch <- prometheus.NewMetricWithTimestamp(metric.Timestamp, promMetric)
	}
}

// Prometheus metric name for a registry metric name
func PromName(name string) (fqName string) {
	clean := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		}
		return '_'
	}, name)
	fqName = prometheus.BuildFQName(global.ProgBaseName, "", clean)
	return
}
