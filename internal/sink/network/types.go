package network

import (
	"context"
	"sync/atomic"
	"time"

	"logship/internal/event"
)

// Protocol specific delivery of a single event. Send must honor ctx.
type Transport interface {
	Send(ctx context.Context, ev event.Event) error
	Close() error
}

type Options struct {
	EmitTimeout     time.Duration // bound on one delivery attempt
	MaxRetries      int           // retries after the first attempt
	InitialInterval time.Duration // first backoff wait
	MaxInterval     time.Duration // backoff ceiling
	Namespace       []string
}

// Retrying sink around a Transport
type Sink struct {
	name      string
	transport Transport
	opts      Options
	Namespace []string
	metrics   MetricStorage
}

type MetricStorage struct {
	Attempts      atomic.Uint64 // transport Send calls
	Retries       atomic.Uint64 // attempts after a transient failure
	Delivered     atomic.Uint64
	TransientDrop atomic.Uint64 // retries exhausted
	PermanentDrop atomic.Uint64
}
