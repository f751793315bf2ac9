// Kafka output producing one record per event
package kafka

import (
	"context"
	"fmt"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"

	"logship/internal/global"
)

// Subset of the kafka client used for producing
type producer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
	Close()
}

type OutModule struct {
	topic  string
	client producer
}

// Creates a producer for topic. Brokers are contacted lazily by the client.
func NewOutput(brokers []string, topic string, deliveryTimeout time.Duration) (module *OutModule, err error) {
	if len(brokers) == 0 || topic == "" {
		err = fmt.Errorf("kafka output requires brokers and a topic")
		return
	}
	if deliveryTimeout <= 0 {
		deliveryTimeout = global.DefaultEmitTimeout
	}

	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.ClientID(global.ProgBaseName),
		kgo.RecordDeliveryTimeout(deliveryTimeout),
		kgo.DialTimeout(global.DefaultDialTimeout),
	)
	if err != nil {
		err = fmt.Errorf("kafka producer client: %w", err)
		return
	}

	module = &OutModule{
		topic:  topic,
		client: client,
	}
	return
}
