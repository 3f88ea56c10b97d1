package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"salonify/utils"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const (
	ReservationCreated   = "reservation.created"
	ReservationConfirmed = "reservation.confirmed"
	ReservationCancelled = "reservation.cancelled"
	PaymentFailed        = "payment.failed"
)

// Event is the envelope written to the topic. Key is the reservation id so that one
// reservation's events stay ordered on a partition.
type Event struct {
	Type       string         `json:"type"`
	Key        string         `json:"key"`
	OccurredAt time.Time      `json:"occurred_at"`
	Data       map[string]any `json:"data,omitempty"`
}

// Publisher emits domain events. Publishing is best effort: callers log failures and move on.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// KafkaPublisher writes events with a kafka-go Writer.
type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(brokers []string, topic string) (*KafkaPublisher, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("at least one broker is required")
	}
	if topic == "" {
		return nil, fmt.Errorf("topic cannot be empty")
	}
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 50 * time.Millisecond,
		MaxAttempts:  3,
		Logger:       kafka.LoggerFunc(func(string, ...any) {}),
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...any) {
			utils.GetLogger().Sugar().Errorf("kafka: "+msg, args...)
		}),
	}
	return &KafkaPublisher{writer: writer}, nil
}

func (p *KafkaPublisher) Publish(ctx context.Context, event Event) error {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	msg := kafka.Message{
		Key:     []byte(event.Key),
		Value:   data,
		Time:    event.OccurredAt,
		Headers: []kafka.Header{{Key: "type", Value: []byte(event.Type)}},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write %s event: %w", event.Type, err)
	}
	utils.GetLogger().Debug("published event", zap.String("type", event.Type), zap.String("key", event.Key))
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NopPublisher is used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
func (NopPublisher) Close() error                         { return nil }

// NewPublisher returns a Kafka publisher, or a NopPublisher when brokers is empty.
func NewPublisher(brokers []string, topic string) (Publisher, error) {
	if len(brokers) == 0 {
		utils.GetLogger().Info("no Kafka brokers configured, domain events disabled")
		return NopPublisher{}, nil
	}
	return NewKafkaPublisher(brokers, topic)
}
