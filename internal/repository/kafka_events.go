package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"AdPulse/internal/domain/models"
	domrepo "AdPulse/internal/domain/repository"
	pkgkafka "AdPulse/pkg/kafka"
)

// Event is the envelope written to the events topic.
type Event struct {
	ID         string    `json:"id"`
	Kind       string    `json:"kind"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

// KafkaEventPublisher implements EventPublisher for Kafka.
type KafkaEventPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

var _ domrepo.EventPublisher = (*KafkaEventPublisher)(nil)

func NewKafkaEventPublisher(producer *pkgkafka.Producer, topic string) *KafkaEventPublisher {
	return &KafkaEventPublisher{producer: producer, topic: topic}
}

func (p *KafkaEventPublisher) PublishEvent(ctx context.Context, kind string, payload any) error {
	ev := Event{ID: uuid.NewString(), Kind: kind, OccurredAt: time.Now().UTC(), Payload: payload}
	msg := pkgkafka.Message{Key: []byte(kind), Value: ev, Headers: map[string]string{"event-kind": kind}}
	if err := p.producer.PublishBatch(ctx, p.topic, []pkgkafka.Message{msg}); err != nil {
		return fmt.Errorf("publish %s: %w", kind, err)
	}
	return nil
}

func (p *KafkaEventPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}

// KafkaRecordPublisher writes daily records to the ingest topic, keyed by
// channel so that one channel's days stay ordered.
type KafkaRecordPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

func NewKafkaRecordPublisher(producer *pkgkafka.Producer, topic string) *KafkaRecordPublisher {
	return &KafkaRecordPublisher{producer: producer, topic: topic}
}

func (p *KafkaRecordPublisher) PublishBatch(ctx context.Context, records []models.HistoricalRecord) error {
	if len(records) == 0 {
		return nil
	}
	msgs := make([]pkgkafka.Message, len(records))
	for i, r := range records {
		msgs[i] = pkgkafka.Message{Key: []byte(r.Channel), Value: r, Headers: map[string]string{"schema": "ad_metrics_daily.v1"}}
	}
	return p.producer.PublishBatch(ctx, p.topic, msgs)
}

func (p *KafkaRecordPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
