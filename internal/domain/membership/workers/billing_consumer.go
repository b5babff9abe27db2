package workers

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	kafkaHandlers "github.com/Lucxx50/BotLucasAllan/internal/domain/membership/delivery/kafka"
)

// messageReader is the part of kafka.Reader the consumer uses
type messageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// BillingConsumer feeds billing events from Kafka into the webhook processor
type BillingConsumer struct {
	reader   messageReader
	handlers *kafkaHandlers.Handlers
	logger   zerolog.Logger
	started  bool
	done     chan struct{}
	stopped  chan struct{}
	ctx      context.Context
	cancel   context.CancelFunc
}

// NewBillingConsumer creates new Kafka consumer for billing events
func NewBillingConsumer(reader messageReader, handlers *kafkaHandlers.Handlers, logger zerolog.Logger) *BillingConsumer {
	ctx, cancel := context.WithCancel(context.Background())

	return &BillingConsumer{
		reader:   reader,
		handlers: handlers,
		logger:   logger.With().Str("component", "billing_consumer").Logger(),
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start starts consuming messages from Kafka
func (c *BillingConsumer) Start() {
	c.logger.Info().Msg("Starting Kafka billing consumer...")
	c.started = true

	go func() {
		defer close(c.stopped)

		for {
			select {
			case <-c.done:
				return
			case <-c.ctx.Done():
				return
			default:
				msg, err := c.reader.ReadMessage(c.ctx)
				if err != nil {
					if c.ctx.Err() != nil {
						return
					}
					c.logger.Error().Err(err).Msg("Failed to read message from Kafka")
					continue
				}

				c.logger.Debug().
					Str("topic", msg.Topic).
					Int("partition", msg.Partition).
					Int64("offset", msg.Offset).
					Msg("Received message from Kafka")

				if err := c.handlers.HandleBillingEvent(c.ctx, msg.Value); err != nil {
					c.logger.Error().Err(err).Int64("offset", msg.Offset).Msg("Failed to handle billing event")
				}
			}
		}
	}()
}

// Stop stops the consumer gracefully
func (c *BillingConsumer) Stop() error {
	c.logger.Info().Msg("Stopping Kafka billing consumer...")
	c.cancel()
	close(c.done)

	err := c.reader.Close()
	if c.started {
		<-c.stopped
	}
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to close Kafka reader")
		return err
	}

	c.logger.Info().Msg("Kafka billing consumer stopped successfully")
	return nil
}
