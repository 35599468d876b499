package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/yourorg/atlas-directory/internal/model"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// EventCatalogReloaded is the type of event sent after a dataset is published
const EventCatalogReloaded = "catalog.reloaded"

// Event is the JSON envelope written to Kafka
type Event struct {
	Type       string            `json:"type"`
	OccurredAt time.Time         `json:"occurred_at"`
	Dataset    model.DatasetInfo `json:"dataset"`
}

// Publisher announces catalog changes
type Publisher interface {
	PublishCatalogReloaded(ctx context.Context, info model.DatasetInfo) error
	Close() error
}

// MessageWriter is the part of kafka.Writer the producer needs
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer publishes catalog events to a Kafka topic
type Producer struct {
	writer MessageWriter
	topic  string
	logger *zap.Logger
}

// NewProducer creates a new Kafka producer
func NewProducer(brokers []string, clientID, topic string, logger *zap.Logger) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchSize:    100,
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
		Async:        false,
		Transport: &kafka.Transport{
			ClientID: clientID,
		},
	}
	return NewProducerWithWriter(writer, topic, logger)
}

// NewProducerWithWriter creates a producer around an existing writer
func NewProducerWithWriter(writer MessageWriter, topic string, logger *zap.Logger) *Producer {
	return &Producer{
		writer: writer,
		topic:  topic,
		logger: logger,
	}
}

// PublishCatalogReloaded sends a catalog.reloaded event keyed by dataset version
func (p *Producer) PublishCatalogReloaded(ctx context.Context, info model.DatasetInfo) error {
	event := Event{
		Type:       EventCatalogReloaded,
		OccurredAt: time.Now().UTC(),
		Dataset:    info,
	}

	value, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("Failed to marshal event",
			zap.String("topic", p.topic),
			zap.Error(err))
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	key := strconv.Itoa(info.Version)
	msg := kafka.Message{
		Key:   []byte(key),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(EventCatalogReloaded)},
		},
		Time: event.OccurredAt,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to publish message",
			zap.String("topic", p.topic),
			zap.String("key", key),
			zap.Error(err))
		return fmt.Errorf("failed to publish event: %w", err)
	}

	p.logger.Debug("Message published",
		zap.String("topic", p.topic),
		zap.String("key", key))

	return nil
}

// Close closes the underlying writer
func (p *Producer) Close() error {
	if err := p.writer.Close(); err != nil {
		p.logger.Error("Failed to close Kafka writer",
			zap.String("topic", p.topic),
			zap.Error(err))
		return err
	}
	return nil
}

// NopPublisher discards events; used when Kafka is disabled
type NopPublisher struct{}

func (NopPublisher) PublishCatalogReloaded(context.Context, model.DatasetInfo) error { return nil }
func (NopPublisher) Close() error                                                 { return nil }
