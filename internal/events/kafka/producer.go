package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Shopify/sarama"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CloudEvent is the CloudEvents v1.0 envelope used for every event this
// service publishes.
type CloudEvent struct {
	SpecVersion     string      `json:"specversion"`
	Type            string      `json:"type"`
	Source          string      `json:"source"`
	Subject         *string     `json:"subject,omitempty"`
	ID              string      `json:"id"`
	Time            time.Time   `json:"time"`
	DataContentType *string     `json:"datacontenttype,omitempty"`
	Data            interface{} `json:"data,omitempty"`
}

const (
	cloudEventSpecVersion     = "1.0"
	cloudEventDataContentType = "application/json"
)

// Publisher is the outbound event boundary; the service layer depends on
// this rather than on sarama so tests can substitute a recorder.
type Publisher interface {
	Publish(ctx context.Context, eventType EventType, subject string, data interface{}) error
	Close() error
}

// Producer publishes CloudEvents to Kafka.
type Producer struct {
	producer sarama.SyncProducer
	logger   *zap.Logger
	topic    string
	source   string
}

// NewProducer creates a synchronous, idempotent Kafka producer.
func NewProducer(brokers []string, topic, source string, logger *zap.Logger) (*Producer, error) {
	cfg := sarama.NewConfig()
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 5
	cfg.Producer.Return.Successes = true
	cfg.Producer.Compression = sarama.CompressionSnappy
	cfg.Producer.Flush.Frequency = 500 * time.Millisecond
	cfg.Producer.Idempotent = true
	cfg.Net.MaxOpenRequests = 1

	producer, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	return &Producer{
		producer: producer,
		logger:   logger.Named("kafka_producer"),
		topic:    topic,
		source:   source,
	}, nil
}

// Publish wraps data in a CloudEvent and sends it, keyed by subject.
func (p *Producer) Publish(ctx context.Context, eventType EventType, subject string, data interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	contentType := cloudEventDataContentType
	event := CloudEvent{
		SpecVersion:     cloudEventSpecVersion,
		Type:            string(eventType),
		Source:          p.source,
		ID:              uuid.NewString(),
		Time:            time.Now().UTC(),
		DataContentType: &contentType,
		Data:            data,
	}
	if subject != "" {
		event.Subject = &subject
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal CloudEvent: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(subject),
		Value: sarama.ByteEncoder(payload),
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		p.logger.Error("Failed to publish event",
			zap.Error(err), zap.String("type", string(eventType)), zap.String("subject", subject))
		return fmt.Errorf("failed to publish event %s: %w", eventType, err)
	}

	p.logger.Debug("Event published",
		zap.String("type", string(eventType)),
		zap.Int32("partition", partition),
		zap.Int64("offset", offset),
	)
	return nil
}

// Close shuts the underlying producer down.
func (p *Producer) Close() error {
	return p.producer.Close()
}

var _ Publisher = (*Producer)(nil)
