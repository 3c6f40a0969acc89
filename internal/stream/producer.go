package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
)

// SeatEventType identifies what happened to a seat.
type SeatEventType string

const (
	SeatEventHeld      SeatEventType = "seat.held"
	SeatEventReleased  SeatEventType = "seat.released"
	SeatEventCommitted SeatEventType = "seat.committed"
	SeatEventExpired   SeatEventType = "seat.expired"
	SeatEventBlocked   SeatEventType = "seat.blocked"
	SeatEventUnblocked SeatEventType = "seat.unblocked"
	SeatEventDisabled  SeatEventType = "seat.disabled"
	SeatEventEnabled   SeatEventType = "seat.enabled"
)

// SeatEvent is the lifecycle record published for downstream consumers
// (order workflow, analytics). Delivery semantics beyond produce are theirs.
type SeatEvent struct {
	ID             uuid.UUID     `json:"id"`
	Type           SeatEventType `json:"type"`
	EventSeatingID uuid.UUID     `json:"event_seating_id"`
	SeatUID        string        `json:"seat_uid"`
	SessionUID     string        `json:"session_uid,omitempty"`
	Version        int           `json:"version"`
	OccurredAt     time.Time     `json:"occurred_at"`
}

// PartitionKey routes all events for one seat to the same partition, keeping
// per-seat ordering for consumers.
func (e *SeatEvent) PartitionKey() string {
	return e.EventSeatingID.String() + ":" + e.SeatUID
}

type Producer interface {
	PublishSeatEvent(ctx context.Context, event *SeatEvent) error
	PublishSeatEvents(ctx context.Context, events []*SeatEvent) error
	Close() error
}

// ProducerConfig contains configuration for the Kafka seat event producer
type ProducerConfig struct {
	Brokers          []string
	Topic            string
	RetryMax         int
	TimeoutMs        int
	RequiredAcks     sarama.RequiredAcks
	CompressionType  sarama.CompressionCodec
	IdempotentWrites bool
}

// DefaultProducerConfig returns a default producer configuration
func DefaultProducerConfig() *ProducerConfig {
	return &ProducerConfig{
		Brokers:          []string{"localhost:9092"},
		Topic:            "seat-events",
		RetryMax:         3,
		TimeoutMs:        10000,
		RequiredAcks:     sarama.WaitForAll,
		CompressionType:  sarama.CompressionSnappy,
		IdempotentWrites: true,
	}
}

type kafkaProducer struct {
	producer sarama.SyncProducer
	config   *ProducerConfig
}

// NewKafkaProducer creates a sync producer with hash partitioning on the
// seat key and idempotent writes enabled.
func NewKafkaProducer(config *ProducerConfig) (Producer, error) {
	saramaConfig := sarama.NewConfig()

	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.RequiredAcks = config.RequiredAcks
	saramaConfig.Producer.Compression = config.CompressionType
	saramaConfig.Producer.Retry.Max = config.RetryMax
	saramaConfig.Producer.Timeout = time.Duration(config.TimeoutMs) * time.Millisecond
	saramaConfig.Producer.Idempotent = config.IdempotentWrites
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner

	if config.IdempotentWrites {
		saramaConfig.Net.MaxOpenRequests = 1
	}

	producer, err := sarama.NewSyncProducer(config.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	log.Printf("Kafka seat event producer created (topic: %s)", config.Topic)
	return &kafkaProducer{producer: producer, config: config}, nil
}

func (kp *kafkaProducer) PublishSeatEvent(ctx context.Context, event *SeatEvent) error {
	message, err := kp.buildMessage(event)
	if err != nil {
		return err
	}

	if _, _, err := kp.producer.SendMessage(message); err != nil {
		return fmt.Errorf("failed to send seat event to Kafka: %w", err)
	}

	return nil
}

func (kp *kafkaProducer) PublishSeatEvents(ctx context.Context, events []*SeatEvent) error {
	if len(events) == 0 {
		return nil
	}

	messages := make([]*sarama.ProducerMessage, 0, len(events))
	for _, event := range events {
		message, err := kp.buildMessage(event)
		if err != nil {
			return err
		}
		messages = append(messages, message)
	}

	if err := kp.producer.SendMessages(messages); err != nil {
		return fmt.Errorf("failed to send seat event batch to Kafka: %w", err)
	}

	return nil
}

func (kp *kafkaProducer) buildMessage(event *SeatEvent) (*sarama.ProducerMessage, error) {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal seat event: %w", err)
	}

	return &sarama.ProducerMessage{
		Topic: kp.config.Topic,
		Key:   sarama.StringEncoder(event.PartitionKey()),
		Value: sarama.ByteEncoder(payload),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event_id"), Value: []byte(event.ID.String())},
			{Key: []byte("event_type"), Value: []byte(event.Type)},
			{Key: []byte("occurred_at"), Value: []byte(event.OccurredAt.Format(time.RFC3339))},
		},
		Timestamp: event.OccurredAt,
	}, nil
}

func (kp *kafkaProducer) Close() error {
	if kp.producer != nil {
		if err := kp.producer.Close(); err != nil {
			return fmt.Errorf("failed to close Kafka producer: %w", err)
		}
	}
	return nil
}

// noopProducer drops events. Used when no brokers are configured so the
// engine runs without Kafka in development.
type noopProducer struct{}

// NewNoopProducer returns a producer that discards all events.
func NewNoopProducer() Producer {
	return noopProducer{}
}

func (noopProducer) PublishSeatEvent(ctx context.Context, event *SeatEvent) error { return nil }

func (noopProducer) PublishSeatEvents(ctx context.Context, events []*SeatEvent) error { return nil }

func (noopProducer) Close() error { return nil }
