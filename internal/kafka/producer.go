package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"purchase-tracker/internal/logger"
	"purchase-tracker/internal/models"
)

// MessageWriter is the part of *kafka.Writer the producer uses.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// OrderRecorded is published once an appended order has been saved.
type OrderRecorded struct {
	EventID    string       `json:"event_id"`
	Store      string       `json:"store"`
	Index      int          `json:"index"`
	RecordedAt time.Time    `json:"recorded_at"`
	Order      models.Order `json:"order"`
}

type Producer struct {
	Writer MessageWriter
	Topic  string
	Logger *logger.Logger
	now    func() time.Time
}

func NewProducer(brokers []string, topic string, log *logger.Logger) *Producer {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &Producer{Writer: writer, Topic: topic, Logger: log, now: time.Now}
}

// PublishOrderRecorded streams the order saved at index of store. Messages
// are keyed by store path so one store's events stay in order.
func (p *Producer) PublishOrderRecorded(ctx context.Context, store string, index int, order models.Order) error {
	now := time.Now
	if p.now != nil {
		now = p.now
	}
	event := OrderRecorded{
		EventID:    uuid.NewString(),
		Store:      store,
		Index:      index,
		RecordedAt: now().UTC(),
		Order:      order,
	}
	msgBytes, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal order event: %w", err)
	}

	err = p.Writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(store),
		Value: msgBytes,
	})
	if err != nil {
		return fmt.Errorf("publish to %s: %w", p.Topic, err)
	}
	p.Logger.LogKafka("order_recorded", p.Topic, fmt.Sprintf("event %s for order %d of %s", event.EventID, index, store))
	return nil
}

func (p *Producer) Close() error {
	return p.Writer.Close()
}
