package events

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/kartik99Lm10/SuckDSA/internal/ports"
)

type KafkaPublisher struct {
	writer      *kafka.Writer
	topicPrefix string
	now         func() time.Time
}

func NewKafkaPublisher(brokers []string, topicPrefix string) (*KafkaPublisher, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("kafka publisher requires at least one broker")
	}
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			RequiredAcks:           kafka.RequireAll,
			Balancer:               &kafka.Hash{},
			AllowAutoTopicCreation: true,
		},
		topicPrefix: topicPrefix,
		now:         func() time.Time { return time.Now().UTC() },
	}, nil
}

// TopicFor maps "chat.message_created" to "<prefix>.chat.message_created".
func (p *KafkaPublisher) TopicFor(eventType string) string {
	prefix := strings.TrimSuffix(p.topicPrefix, ".")
	if prefix == "" {
		return eventType
	}
	return prefix + "." + eventType
}

func (p *KafkaPublisher) Publish(ctx context.Context, eventType string, payload []byte) error {
	return p.writer.WriteMessages(ctx, kafka.Message{
		Topic: p.TopicFor(eventType),
		Key:   []byte(partitionKey(payload)),
		Value: payload,
		Time:  p.now(),
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(eventType)},
		},
	})
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

var _ ports.EventPublisher = (*KafkaPublisher)(nil)
