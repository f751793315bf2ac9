package beats

import (
	"context"
	"fmt"
	"net"

	lumberjack "github.com/elastic/go-lumber/client/v2"

	"logship/internal/event"
	"logship/internal/global"
)

// Sends one document per event and waits for the server acknowledgement
func (mod *OutModule) Send(ctx context.Context, ev event.Event) (err error) {
	mod.mutex.Lock()
	defer mod.mutex.Unlock()

	err = mod.connect(ctx)
	if err != nil {
		return
	}

	// The client has no context support, closing the connection aborts it
	conn := mod.conn
	stop := context.AfterFunc(ctx, func() {
		conn.Close()
	})
	defer stop()

	acked, err := mod.client.Send([]interface{}{Document(ev)})
	if err == nil && acked != 1 {
		err = fmt.Errorf("server acknowledged %d of 1 events", acked)
	}
	if err != nil {
		mod.reset()
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = fmt.Errorf("send to %s interrupted: %w", mod.address, ctxErr)
			return
		}
		err = fmt.Errorf("failed sending to beats server %s: %w", mod.address, err)
		return
	}
	return
}

func (mod *OutModule) connect(ctx context.Context) (err error) {
	if mod.client != nil {
		return
	}

	dialer := net.Dialer{Timeout: mod.dialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", mod.address)
	if err != nil {
		err = fmt.Errorf("failed connection to beats server: %w", err)
		return
	}

	client, err := lumberjack.NewSyncClientWithConn(conn,
		lumberjack.CompressionLevel(0),
		lumberjack.Timeout(mod.sendTimeout),
	)
	if err != nil {
		conn.Close()
		err = fmt.Errorf("failed creating beats client: %w", err)
		return
	}

	mod.conn = conn
	mod.client = client
	return
}

func (mod *OutModule) reset() {
	if mod.client != nil {
		mod.client.Close()
	}
	mod.client = nil
	mod.conn = nil
}

// Beats document for an event, laid out like a filebeat log input
func Document(ev event.Event) (fields map[string]interface{}) {
	fields = map[string]interface{}{
		// Minimum required fields
		"@timestamp": ev.Timestamp().UTC(),
		"message":    string(ev.Payload()),

		"host": map[string]interface{}{
			"name":     global.Hostname,
			"hostname": global.Hostname,
		},
		"agent": map[string]interface{}{
			"id":      global.AgentID,
			"name":    global.Hostname,
			"type":    "filebeat",
			"program": global.ProgBaseName,
			"version": global.ProgVersion,
			"pid":     global.PID,
		},
		"log": map[string]interface{}{
			"file": map[string]interface{}{
				"path": ev.Source(),
			},
			"offset": ev.StartOffset(),
		},
		"input": map[string]interface{}{
			"type": "log",
		},
	}
	return
}
