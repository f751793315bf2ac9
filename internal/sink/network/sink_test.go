package network

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"testing"
	"time"

	"golang.org/x/sys/unix"

	"logship/internal/event"
	"logship/internal/sink"
)

// Returns queued results in order, then succeeds
type scriptedTransport struct {
	results []error
	calls   int
	closed  bool
	block   bool
}

func (transport *scriptedTransport) Send(ctx context.Context, ev event.Event) (err error) {
	transport.calls++
	if transport.block {
		<-ctx.Done()
		err = ctx.Err()
		return
	}
	if len(transport.results) > 0 {
		err = transport.results[0]
		transport.results = transport.results[1:]
	}
	return
}

func (transport *scriptedTransport) Close() error {
	transport.closed = true
	return nil
}

func fastOptions(retries int) Options {
	return Options{
		EmitTimeout:     50 * time.Millisecond,
		MaxRetries:      retries,
		InitialInterval: time.Millisecond,
		MaxInterval:     5 * time.Millisecond,
	}
}

func TestEmit(t *testing.T) {
	reset := &net.OpError{Op: "write", Net: "tcp", Err: os.NewSyscallError("write", unix.ECONNRESET)}

	tests := []struct {
		name          string
		results       []error
		retries       int
		wantCalls     int
		wantErr       bool
		wantPermanent bool
	}{
		{name: "first attempt succeeds", wantCalls: 1},
		{name: "transient then success", results: []error{reset, io.EOF}, retries: 3, wantCalls: 3},
		{name: "retries exhausted", results: []error{reset, reset, reset, reset, reset}, retries: 2, wantCalls: 3, wantErr: true},
		{name: "permanent not retried", results: []error{sink.Permanent(errors.New("rejected"))}, retries: 3, wantCalls: 1, wantErr: true, wantPermanent: true},
		{name: "unclassified is permanent", results: []error{errors.New("bad document")}, retries: 3, wantCalls: 1, wantErr: true, wantPermanent: true},
		{name: "zero retries", results: []error{reset}, retries: 0, wantCalls: 1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transport := &scriptedTransport{results: tt.results}
			netSink := New("tcp-0", transport, fastOptions(tt.retries))

			err := netSink.Emit(context.Background(), event.New("src", []byte("x"), 2))
			if (err != nil) != tt.wantErr {
				t.Fatalf("unexpected error state: %v", err)
			}
			if transport.calls != tt.wantCalls {
				t.Errorf("expected %d calls, got %d", tt.wantCalls, transport.calls)
			}
			if !tt.wantErr {
				return
			}

			var sinkErr *sink.Error
			if !errors.As(err, &sinkErr) || sinkErr.Sink != "tcp-0" {
				t.Fatalf("expected named sink error, got %v", err)
			}
			if sink.IsPermanent(err) != tt.wantPermanent {
				t.Errorf("expected permanent=%v, got %v", tt.wantPermanent, err)
			}
		})
	}
}

func TestEmit_AttemptTimeout(t *testing.T) {
	transport := &scriptedTransport{block: true}
	netSink := New("beats-0", transport, fastOptions(1))

	start := time.Now()
	err := netSink.Emit(context.Background(), event.New("src", []byte("x"), 2))
	if !sink.IsTransient(err) {
		t.Fatalf("expected transient timeout error, got %v", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded in chain, got %v", err)
	}
	if transport.calls != 2 {
		t.Errorf("expected 2 attempts, got %d", transport.calls)
	}
	if time.Since(start) > 2*time.Second {
		t.Error("attempts were not bounded by the emit timeout")
	}
}

func TestEmit_ParentCanceled(t *testing.T) {
	transport := &scriptedTransport{block: true}
	netSink := New("nats-0", transport, fastOptions(100))

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	err := netSink.Emit(ctx, event.New("src", []byte("x"), 2))
	if err == nil {
		t.Fatal("expected error after cancellation")
	}
	if transport.calls > 2 {
		t.Errorf("expected retries to stop after cancel, got %d calls", transport.calls)
	}
}

func TestCloseAndMetrics(t *testing.T) {
	transport := &scriptedTransport{results: []error{io.EOF}}
	netSink := New("kafka-0", transport, fastOptions(2))
	netSink.Emit(context.Background(), event.New("src", []byte("x"), 2))

	values := make(map[string]any)
	for _, metric := range netSink.CollectMetrics(time.Second) {
		values[metric.Name] = metric.Value.Raw
	}
	if values["send_attempts"] != uint64(2) || values["send_retries"] != uint64(1) || values["delivered"] != uint64(1) {
		t.Errorf("unexpected metrics %v", values)
	}

	if err := netSink.Close(); err != nil || !transport.closed {
		t.Fatalf("expected transport closed, err=%v", err)
	}
	if netSink.Name() != "kafka-0" {
		t.Errorf("unexpected name %s", netSink.Name())
	}
}

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestClassify(t *testing.T) {
	tests := []struct {
		name          string
		err           error
		wantTransient bool
	}{
		{"deadline", context.DeadlineExceeded, true},
		{"canceled", context.Canceled, true},
		{"eof", io.EOF, true},
		{"unexpected eof", fmt.Errorf("read frame: %w", io.ErrUnexpectedEOF), true},
		{"closed conn", net.ErrClosed, true},
		{"refused", &net.OpError{Op: "dial", Err: os.NewSyscallError("connect", unix.ECONNREFUSED)}, true},
		{"broken pipe", os.NewSyscallError("write", unix.EPIPE), true},
		{"net timeout", &net.OpError{Op: "read", Err: timeoutErr{}}, true},
		{"dns not found", &net.DNSError{Err: "no such host", Name: "nope", IsNotFound: true}, false},
		{"dns temporary", &net.DNSError{Err: "server misbehaving", Name: "x", IsTemporary: true}, true},
		{"addr error", &net.AddrError{Err: "missing port", Addr: "host"}, false},
		{"parse error", &net.ParseError{Type: "IP address", Text: "x"}, false},
		{"other", errors.New("message too large"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.err)
			if sink.IsTransient(got) != tt.wantTransient {
				t.Errorf("expected transient=%v, got %v", tt.wantTransient, got)
			}
			if !errors.Is(got, tt.err) {
				t.Errorf("original error lost: %v", got)
			}
		})
	}

	if Classify(nil) != nil {
		t.Error("nil must stay nil")
	}
	already := sink.Permanent(io.EOF)
	if Classify(already) != already {
		t.Error("classified errors must pass through unchanged")
	}
}
