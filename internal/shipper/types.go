package shipper

import (
	"context"
	"io"
	"net/http"
	"sync"
	"time"

	"logship/internal/metrics"
	"logship/internal/pipeline"
	"logship/internal/source"
	"logship/internal/state"
)

// On-disk configuration, JSON or YAML
type JSONConfig struct {
	Source struct {
		Path           string `json:"path" yaml:"path"`
		Follow         bool   `json:"follow,omitempty" yaml:"follow,omitempty"`
		PollInterval   string `json:"pollInterval,omitempty" yaml:"pollInterval,omitempty"`
		MaxRecordSize  int    `json:"maxRecordSize,omitempty" yaml:"maxRecordSize,omitempty"`
		ReadBufferSize int    `json:"readBufferSize,omitempty" yaml:"readBufferSize,omitempty"`
	} `json:"source" yaml:"source"`
	Outputs            []string `json:"outputs" yaml:"outputs"`
	QueueCapacity      int      `json:"queueCapacity,omitempty" yaml:"queueCapacity,omitempty"`
	StateDir           string   `json:"stateDir,omitempty" yaml:"stateDir,omitempty"`
	DrainTimeout       string   `json:"drainTimeout,omitempty" yaml:"drainTimeout,omitempty"`
	CheckpointInterval string   `json:"checkpointInterval,omitempty" yaml:"checkpointInterval,omitempty"`
	Network            struct {
		EmitTimeout string `json:"emitTimeout,omitempty" yaml:"emitTimeout,omitempty"`
		DialTimeout string `json:"dialTimeout,omitempty" yaml:"dialTimeout,omitempty"`
		MaxRetries  *int   `json:"maxRetries,omitempty" yaml:"maxRetries,omitempty"`
	} `json:"network" yaml:"network"`
	Metrics struct {
		Enabled           bool   `json:"enabled" yaml:"enabled"`
		Interval          string `json:"collectionInterval,omitempty" yaml:"collectionInterval,omitempty"`
		MaxAge            string `json:"maximumRetention,omitempty" yaml:"maximumRetention,omitempty"`
		EnableQueryServer bool   `json:"enableHTTPServer" yaml:"enableHTTPServer"`
		QueryServerPort   int    `json:"HTTPServerPort,omitempty" yaml:"HTTPServerPort,omitempty"`
	} `json:"metrics" yaml:"metrics"`
}

type Config struct {
	// Source settings
	SourcePath     string
	Follow         bool
	PollInterval   time.Duration
	MaxRecordSize  int
	ReadBufferSize int
	StartOffset    int64 // used only when HasStartOffset
	HasStartOffset bool

	// Delivery
	Outputs            []string
	QueueCapacity      int
	DrainTimeout       time.Duration
	CheckpointInterval time.Duration
	EmitTimeout        time.Duration
	DialTimeout        time.Duration
	MaxRetries         int

	// Position persistence
	StateDir string
	NoState  bool

	// Metrics
	MetricsEnabled           bool
	MetricQueryServerEnabled bool
	MetricQueryServerPort    int
	MetricCollectionInterval time.Duration
	MetricMaxAge             time.Duration
}

type Daemon struct {
	cfg Config
	ctx context.Context
	wg  sync.WaitGroup

	// Console sink destinations
	Stdout io.Writer
	Stderr io.Writer

	store        *state.Store
	src          *source.FileSource
	pipe         *pipeline.Pipeline
	registry     *metrics.Registry
	MetricServer *http.Server
}
