package beats

import (
	"context"
	"net"
	"testing"
	"time"

	server "github.com/elastic/go-lumber/server/v2"

	"logship/internal/event"
	"logship/internal/global"
)

func startBeatsServer(t *testing.T) (address string, srv *server.Server) {
	t.Helper()
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}
	srv, err = server.NewWithListener(listener)
	if err != nil {
		listener.Close()
		t.Fatalf("failed to start lumberjack server: %v", err)
	}
	t.Cleanup(func() { srv.Close() })
	address = listener.Addr().String()
	return
}

func TestSend(t *testing.T) {
	address, srv := startBeatsServer(t)
	module := NewOutput(address, time.Second, 2*time.Second)
	defer module.Close()

	// Acknowledge batches as they arrive
	received := make(chan map[string]interface{}, 1)
	go func() {
		for batch := range srv.ReceiveChan() {
			for _, doc := range batch.Events {
				if fields, ok := doc.(map[string]interface{}); ok {
					received <- fields
				}
			}
			batch.ACK()
		}
	}()

	ev := event.New("/var/log/app.log", []byte("hello beats"), 12)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := module.Send(ctx, ev); err != nil {
		t.Fatalf("unexpected send error: %v", err)
	}

	select {
	case fields := <-received:
		if fields["message"] != "hello beats" {
			t.Errorf("unexpected message %v", fields["message"])
		}
		logFields, _ := fields["log"].(map[string]interface{})
		if logFields["offset"] != float64(0) {
			t.Errorf("expected log.offset 0, got %v", logFields["offset"])
		}
		agent, _ := fields["agent"].(map[string]interface{})
		if agent["id"] != global.AgentID {
			t.Errorf("expected agent id %s, got %v", global.AgentID, agent["id"])
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not receive document")
	}
}

func TestSend_ConnectFailure(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	address := listener.Addr().String()
	listener.Close()

	module := NewOutput(address, 200*time.Millisecond, time.Second)
	if err := module.Send(context.Background(), event.New("src", []byte("x"), 2)); err == nil {
		t.Fatal("expected connection error")
	}
	if err := module.Close(); err != nil {
		t.Errorf("close without connection must not fail: %v", err)
	}
}

func TestDocument(t *testing.T) {
	ts := time.Date(2026, 5, 6, 7, 8, 9, 0, time.FixedZone("X", 3600))
	doc := Document(event.NewAt(ts, "/tmp/in.log", []byte("line"), 10))

	if stamp, ok := doc["@timestamp"].(time.Time); !ok || !stamp.Equal(ts) || stamp.Location() != time.UTC {
		t.Errorf("expected UTC timestamp, got %v", doc["@timestamp"])
	}
	logFields := doc["log"].(map[string]interface{})
	if logFields["offset"] != int64(5) {
		t.Errorf("expected start offset 5, got %v", logFields["offset"])
	}
	file := logFields["file"].(map[string]interface{})
	if file["path"] != "/tmp/in.log" {
		t.Errorf("unexpected path %v", file["path"])
	}
}
