package kafka

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"

	"logship/internal/event"
	"logship/internal/global"
	"logship/internal/sink"
)

// Produces the event synchronously. Broker errors marked retriable are transient.
func (mod *OutModule) Send(ctx context.Context, ev event.Event) (err error) {
	results := mod.client.ProduceSync(ctx, Record(mod.topic, ev))
	err = results.FirstErr()
	if err == nil {
		return
	}

	err = fmt.Errorf("kafka produce to topic %s: %w", mod.topic, err)
	switch {
	case errors.Is(err, kgo.ErrRecordTimeout), errors.Is(err, kgo.ErrRecordRetries), kerr.IsRetriable(err):
		err = sink.Transient(err)
	case errors.Is(err, kerr.MessageTooLarge), errors.Is(err, kerr.TopicAuthorizationFailed),
		errors.Is(err, kerr.InvalidTopicException):
		err = sink.Permanent(err)
	}
	return
}

// Record for an event: key is the source, value the raw payload
func Record(topic string, ev event.Event) (record *kgo.Record) {
	record = &kgo.Record{
		Topic:     topic,
		Key:       []byte(ev.Source()),
		Value:     ev.Payload(),
		Timestamp: ev.Timestamp(),
		Headers: []kgo.RecordHeader{
			{Key: "agent.id", Value: []byte(global.AgentID)},
			{Key: "host.name", Value: []byte(global.Hostname)},
			{Key: "log.offset", Value: []byte(strconv.FormatInt(ev.StartOffset(), 10))},
		},
	}
	return
}

// Gracefully stops module
func (mod *OutModule) Close() (err error) {
	if mod == nil || mod.client == nil {
		return
	}
	mod.client.Close()
	return
}
