package journal

import (
	"context"

	"github.com/segmentio/kafka-go"
)

// Kafka publishes presence entries to a topic, one message per change.
type Kafka struct {
	writer *kafka.Writer
}

func NewKafka(brokers []string, topic string) *Kafka {
	return &Kafka{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
	}
}

func (k *Kafka) Publish(ctx context.Context, msg []byte) error {
	return k.writer.WriteMessages(ctx, kafka.Message{Value: msg})
}

func (k *Kafka) Close() error {
	return k.writer.Close()
}
