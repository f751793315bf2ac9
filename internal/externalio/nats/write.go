package nats

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	natsio "github.com/nats-io/nats.go"

	"logship/internal/event"
	"logship/internal/global"
	"logship/internal/sink"
)

// Publishes the payload and waits for the server to confirm it was received
func (mod *OutModule) Send(ctx context.Context, ev event.Event) (err error) {
	msg := Message(mod.subject, ev)

	err = mod.conn.PublishMsg(msg)
	if err == nil {
		err = mod.conn.FlushWithContext(ctx)
	}
	if err == nil {
		return
	}

	err = fmt.Errorf("nats publish to %s: %w", mod.subject, err)
	switch {
	case errors.Is(err, natsio.ErrMaxPayload), errors.Is(err, natsio.ErrBadSubject), errors.Is(err, natsio.ErrConnectionClosed):
		err = sink.Permanent(err)
	case errors.Is(err, natsio.ErrTimeout), errors.Is(err, natsio.ErrNoServers),
		errors.Is(err, natsio.ErrConnectionReconnecting), errors.Is(err, natsio.ErrConnectionDraining):
		err = sink.Transient(err)
	}
	return
}

// Message for an event with origin details in headers
func Message(subject string, ev event.Event) (msg *natsio.Msg) {
	msg = natsio.NewMsg(subject)
	msg.Data = ev.Payload()
	msg.Header.Set("Log-File-Path", ev.Source())
	msg.Header.Set("Log-Offset", strconv.FormatInt(ev.StartOffset(), 10))
	msg.Header.Set("Event-Timestamp", strconv.FormatInt(ev.TimestampNanos(), 10))
	msg.Header.Set("Agent-Id", global.AgentID)
	return
}

// Gracefully stops module, flushing anything buffered
func (mod *OutModule) Close() (err error) {
	if mod == nil || mod.conn == nil {
		return
	}
	err = mod.conn.Drain()
	if errors.Is(err, natsio.ErrConnectionClosed) {
		err = nil
	}
	return
}
