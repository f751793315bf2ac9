package queue

import (
	"context"
	"errors"
	"testing"
	"time"

	"logship/internal/global"
)

func newTestQueue(t *testing.T, capacity int) (queue *Queue[int]) {
	t.Helper()
	queue, err := New[int]([]string{global.NSTest}, capacity, func(int) int { return 8 })
	if err != nil {
		t.Fatalf("expected no error in creating queue, but got '%v'", err)
	}
	return
}

func TestNew_InvalidCapacity(t *testing.T) {
	for _, capacity := range []int{0, -3} {
		if _, err := New[int](nil, capacity, nil); err == nil {
			t.Errorf("expected error for capacity %d", capacity)
		}
	}
}

func TestQueue_FIFO(t *testing.T) {
	queue := newTestQueue(t, 4)
	ctx := context.Background()

	for i := 1; i <= 4; i++ {
		if err := queue.Send(ctx, i); err != nil {
			t.Fatalf("send %d: %v", i, err)
		}
	}
	if queue.Len() != 4 || queue.Cap() != 4 {
		t.Fatalf("expected len 4 cap 4, got %d %d", queue.Len(), queue.Cap())
	}
	for want := 1; want <= 4; want++ {
		got, err := queue.Recv(ctx)
		if err != nil || got != want {
			t.Fatalf("expected %d, got %d (%v)", want, got, err)
		}
	}
}

func TestQueue_Backpressure(t *testing.T) {
	const capacity = 3
	queue := newTestQueue(t, capacity)
	ctx := context.Background()

	for i := 0; i < capacity; i++ {
		if err := queue.Send(ctx, i); err != nil {
			t.Fatalf("send %d should not block: %v", i, err)
		}
	}

	sent := make(chan error, 1)
	go func() {
		sent <- queue.Send(ctx, capacity)
	}()

	select {
	case err := <-sent:
		t.Fatalf("send on full queue returned early: %v", err)
	case <-time.After(50 * time.Millisecond):
	}

	if got, err := queue.Recv(ctx); err != nil || got != 0 {
		t.Fatalf("expected head 0, got %d (%v)", got, err)
	}

	select {
	case err := <-sent:
		if err != nil {
			t.Fatalf("blocked send failed: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("send did not resume after recv")
	}

	if blocked := queue.Metrics.SendBlocked.Load(); blocked != 1 {
		t.Errorf("expected 1 blocked send, got %d", blocked)
	}
}

func TestQueue_HeldItemKeepsSlot(t *testing.T) {
	queue := newTestQueue(t, 2)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := queue.Send(ctx, i); err != nil {
			t.Fatalf("send %d should not block: %v", i, err)
		}
	}

	item, release, err := queue.Hold(ctx)
	if err != nil || item != 0 {
		t.Fatalf("expected held item 0, got %d (%v)", item, err)
	}
	if queue.Len() != 1 || queue.InUse() != 2 {
		t.Errorf("expected 1 queued and 2 in use, got %d and %d", queue.Len(), queue.InUse())
	}

	sent := make(chan error, 1)
	go func() {
		sent <- queue.Send(ctx, 2)
	}()

	select {
	case err := <-sent:
		t.Fatalf("send returned while the held item occupied its slot: %v", err)
	case <-time.After(50 * time.Millisecond):
	}

	release()
	release()

	select {
	case err := <-sent:
		if err != nil {
			t.Fatalf("blocked send failed: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("send did not resume after release")
	}
	if queue.InUse() != 2 {
		t.Errorf("double release freed an extra slot, in use %d", queue.InUse())
	}
}

func TestQueue_RecvBlocksUntilSend(t *testing.T) {
	queue := newTestQueue(t, 2)

	received := make(chan int, 1)
	go func() {
		item, err := queue.Recv(context.Background())
		if err == nil {
			received <- item
		}
	}()

	time.Sleep(20 * time.Millisecond)
	if err := queue.Send(context.Background(), 42); err != nil {
		t.Fatal(err)
	}

	select {
	case got := <-received:
		if got != 42 {
			t.Errorf("expected 42, got %d", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("recv did not wake up")
	}
}

func TestQueue_CloseDrains(t *testing.T) {
	queue := newTestQueue(t, 3)
	ctx := context.Background()

	queue.Send(ctx, 1)
	queue.Send(ctx, 2)
	queue.Close()
	queue.Close()

	if err := queue.Send(ctx, 3); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed on send after close, got %v", err)
	}

	for want := 1; want <= 2; want++ {
		got, err := queue.Recv(ctx)
		if err != nil || got != want {
			t.Fatalf("expected queued %d after close, got %d (%v)", want, got, err)
		}
	}
	if _, err := queue.Recv(ctx); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed once drained, got %v", err)
	}
}

func TestQueue_CloseWakesBlockedSender(t *testing.T) {
	queue := newTestQueue(t, 1)
	ctx := context.Background()
	queue.Send(ctx, 1)

	sent := make(chan error, 1)
	go func() {
		sent <- queue.Send(ctx, 2)
	}()
	time.Sleep(20 * time.Millisecond)
	queue.Close()

	select {
	case err := <-sent:
		if !errors.Is(err, ErrClosed) {
			t.Fatalf("expected ErrClosed, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("blocked sender not released by close")
	}
}

func TestQueue_Context(t *testing.T) {
	tests := []struct {
		name string
		op   func(ctx context.Context, queue *Queue[int]) error
	}{
		{
			name: "send on full queue",
			op: func(ctx context.Context, queue *Queue[int]) error {
				queue.Send(context.Background(), 0)
				return queue.Send(ctx, 1)
			},
		},
		{
			name: "recv on empty queue",
			op: func(ctx context.Context, queue *Queue[int]) error {
				_, err := queue.Recv(ctx)
				return err
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			queue := newTestQueue(t, 1)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
			defer cancel()

			if err := tt.op(ctx, queue); !errors.Is(err, context.DeadlineExceeded) {
				t.Fatalf("expected deadline exceeded, got %v", err)
			}
		})
	}
}

func TestQueue_ConcurrentOrder(t *testing.T) {
	const total = 5000
	queue := newTestQueue(t, 5)
	ctx := context.Background()

	go func() {
		for i := 0; i < total; i++ {
			if err := queue.Send(ctx, i); err != nil {
				return
			}
		}
		queue.Close()
	}()

	want := 0
	for {
		got, err := queue.Recv(ctx)
		if errors.Is(err, ErrClosed) {
			break
		}
		if got != want {
			t.Fatalf("out of order: expected %d, got %d", want, got)
		}
		want++
	}
	if want != total {
		t.Fatalf("expected %d items, got %d", total, want)
	}
}

func TestCollectMetrics(t *testing.T) {
	queue := newTestQueue(t, 4)
	ctx := context.Background()
	queue.Send(ctx, 1)
	queue.Send(ctx, 2)
	queue.Recv(ctx)

	values := make(map[string]any)
	for _, metric := range queue.CollectMetrics(time.Second) {
		values[metric.Name] = metric.Value.Raw
	}

	expected := map[string]any{
		"depth":         int64(1),
		"byte_sum":      int64(8),
		"capacity":      int64(4),
		"send_attempts": uint64(2),
		"send_success":  uint64(2),
		"send_blocked":  uint64(0),
		"recv_success":  uint64(1),
	}
	for name, want := range expected {
		if values[name] != want {
			t.Errorf("%s: expected %v, got %v", name, want, values[name])
		}
	}
}
