// Protocol agnostic network sink: per attempt timeouts, error classification and retries
package network

import (
	"context"
	"fmt"

	"github.com/cenkalti/backoff/v4"

	"logship/internal/event"
	"logship/internal/global"
	"logship/internal/sink"
)

func New(name string, transport Transport, opts Options) (netSink *Sink) {
	if opts.EmitTimeout <= 0 {
		opts.EmitTimeout = global.DefaultEmitTimeout
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	if opts.InitialInterval <= 0 {
		opts.InitialInterval = global.DefaultRetryInitial
	}
	if opts.MaxInterval <= 0 {
		opts.MaxInterval = global.DefaultRetryMaxWait
	}

	netSink = &Sink{
		name:      name,
		transport: transport,
		opts:      opts,
		Namespace: append(append([]string{}, opts.Namespace...), global.NSoSink, name),
	}
	return
}

func (netSink *Sink) Name() string {
	return netSink.name
}

// Delivers ev, retrying transient failures with exponential backoff.
// Returned errors are *sink.Error carrying the sink name.
func (netSink *Sink) Emit(ctx context.Context, ev event.Event) (err error) {
	var lastErr error
	attempts := 0

	operation := func() (opErr error) {
		attempts++
		netSink.metrics.Attempts.Add(1)
		if attempts > 1 {
			netSink.metrics.Retries.Add(1)
		}

		attemptCtx, cancel := context.WithTimeout(ctx, netSink.opts.EmitTimeout)
		defer cancel()

		opErr = netSink.transport.Send(attemptCtx, ev)
		if opErr == nil {
			return
		}
		opErr = Classify(opErr)
		lastErr = opErr
		if sink.IsPermanent(opErr) {
			opErr = backoff.Permanent(opErr)
		}
		return
	}

	err = backoff.Retry(operation, netSink.policy(ctx))
	if err == nil {
		netSink.metrics.Delivered.Add(1)
		return
	}

	if lastErr == nil {
		lastErr = sink.Transient(err)
	}
	if sink.IsPermanent(lastErr) {
		netSink.metrics.PermanentDrop.Add(1)
		err = sink.WithSink(netSink.name, fmt.Errorf("event ending at offset %d: %w", ev.EndOffset(), lastErr))
		return
	}

	netSink.metrics.TransientDrop.Add(1)
	err = sink.WithSink(netSink.name,
		fmt.Errorf("event ending at offset %d not delivered after %d attempts: %w", ev.EndOffset(), attempts, lastErr))
	return
}

func (netSink *Sink) policy(ctx context.Context) (policy backoff.BackOff) {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = netSink.opts.InitialInterval
	exp.MaxInterval = netSink.opts.MaxInterval
	exp.MaxElapsedTime = 0
	exp.Reset()

	policy = backoff.WithContext(backoff.WithMaxRetries(exp, uint64(netSink.opts.MaxRetries)), ctx)
	return
}

func (netSink *Sink) Close() (err error) {
	err = netSink.transport.Close()
	if err != nil {
		err = fmt.Errorf("failed closing sink '%s': %w", netSink.name, err)
	}
	return
}
