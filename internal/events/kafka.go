package events

import (
	"context"
	"encoding/json"
	"fmt"
)

// Producer is the subset of the Kafka producer the publisher needs.
type Producer interface {
	Produce(ctx context.Context, topic string, key, value []byte, headers map[string]string) error
}

// KafkaPublisher writes events as JSON keyed by claim id, so every event of
// one claim lands on the same partition.
type KafkaPublisher struct {
	producer Producer
	topic    string
}

func NewKafkaPublisher(producer Producer, topic string) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

func (p *KafkaPublisher) Publish(ctx context.Context, ev Event) error {
	value, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", ev.Type, err)
	}
	headers := map[string]string{
		"event_type": string(ev.Type),
		"event_id":   ev.ID.String(),
	}
	return p.producer.Produce(ctx, p.topic, []byte(ev.ClaimID.String()), value, headers)
}
