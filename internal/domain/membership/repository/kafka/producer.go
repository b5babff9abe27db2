// Package kafka contains Kafka repository implementations
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/IBM/sarama"
	"github.com/rs/zerolog"

	"github.com/Lucxx50/BotLucasAllan/internal/domain/membership/deps"
	"github.com/Lucxx50/BotLucasAllan/internal/domain/membership/dto"
	"github.com/Lucxx50/BotLucasAllan/internal/infrastructure/metrics"
)

// Producer implements deps.MembershipEventPublisher over a sarama SyncProducer
type Producer struct {
	producer sarama.SyncProducer
	topic    string
	metrics  *metrics.Metrics
	logger   zerolog.Logger
}

// NewProducer wraps an existing SyncProducer
func NewProducer(producer sarama.SyncProducer, topic string, m *metrics.Metrics, logger zerolog.Logger) deps.MembershipEventPublisher {
	return &Producer{
		producer: producer,
		topic:    topic,
		metrics:  m,
		logger:   logger,
	}
}

// Publish sends the event keyed by member so one member's events stay ordered
func (p *Producer) Publish(ctx context.Context, event *dto.MembershipEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	jsonData, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event to JSON: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(strconv.FormatInt(event.MemberID, 10)),
		Value: sarama.ByteEncoder(jsonData),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event_type"), Value: []byte(event.Type)},
		},
	}

	partition, offset, err := p.producer.SendMessage(message)
	if err != nil {
		p.metrics.RecordKafkaError()
		p.logger.Error().Err(err).Str("topic", p.topic).Msg("Failed to send Kafka message")
		return err
	}

	p.metrics.RecordKafkaMessage()
	p.logger.Debug().
		Str("topic", p.topic).
		Str("type", event.Type).
		Int32("partition", partition).
		Int64("offset", offset).
		Msg("Kafka message sent successfully")

	return nil
}

// Close closes the Kafka producer
func (p *Producer) Close() error {
	if p.producer == nil {
		return nil
	}
	if err := p.producer.Close(); err != nil {
		p.logger.Error().Err(err).Msg("Failed to close Kafka producer")
		return err
	}
	p.logger.Info().Msg("Kafka producer closed successfully")
	return nil
}

// NoopPublisher drops events when Kafka is not configured
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, *dto.MembershipEvent) error { return nil }

func (NoopPublisher) Close() error { return nil }
