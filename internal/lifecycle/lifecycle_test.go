package lifecycle

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"sync/atomic"
	"syscall"
	"testing"
	"time"
)

func listenNotify(t *testing.T) (conn *net.UnixConn) {
	t.Helper()
	sockPath := filepath.Join(t.TempDir(), "notify.sock")
	conn, err := net.ListenUnixgram("unixgram", &net.UnixAddr{Name: sockPath, Net: "unixgram"})
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	t.Setenv(EnvNotifySocket, sockPath)
	return
}

func readDatagram(t *testing.T, conn *net.UnixConn) string {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	buf := make([]byte, 256)
	n, err := conn.Read(buf)
	if err != nil {
		t.Fatalf("no notification received: %v", err)
	}
	return string(buf[:n])
}

func TestNotify(t *testing.T) {
	tests := []struct {
		name string
		send func(context.Context) error
		want string
	}{
		{"ready", NotifyReady, "READY=1"},
		{"stopping", NotifyStopping, "STOPPING=1"},
		{"status", func(ctx context.Context) error { return NotifyStatus(ctx, "position 42") }, "STATUS=position 42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn := listenNotify(t)
			err := tt.send(context.Background())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := readDatagram(t, conn); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNotify_NoSocket(t *testing.T) {
	t.Setenv(EnvNotifySocket, "")
	if err := NotifyReady(context.Background()); err != nil {
		t.Fatalf("expected no-op, got %v", err)
	}
}

func TestNotify_MissingSocket(t *testing.T) {
	t.Setenv(EnvNotifySocket, filepath.Join(t.TempDir(), "absent.sock"))
	if err := NotifyReady(context.Background()); err == nil {
		t.Fatal("expected dial error")
	}
}

type countingDaemon struct {
	shutdowns atomic.Int32
}

func (daemon *countingDaemon) Shutdown() {
	daemon.shutdowns.Add(1)
}

func TestHandleSignals(t *testing.T) {
	conn := listenNotify(t)
	daemon := &countingDaemon{}
	sigChan := make(chan os.Signal, 1)
	sigChan <- syscall.SIGTERM

	handleSignals(context.Background(), sigChan, daemon)

	if daemon.shutdowns.Load() != 1 {
		t.Errorf("expected one shutdown, got %d", daemon.shutdowns.Load())
	}
	if got := readDatagram(t, conn); got != "STOPPING=1" {
		t.Errorf("got %q, want STOPPING=1", got)
	}
}

func TestHandleSignals_ContextDone(t *testing.T) {
	t.Setenv(EnvNotifySocket, "")
	daemon := &countingDaemon{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	handleSignals(ctx, make(chan os.Signal), daemon)

	if daemon.shutdowns.Load() != 0 {
		t.Errorf("expected no shutdown, got %d", daemon.shutdowns.Load())
	}
}
