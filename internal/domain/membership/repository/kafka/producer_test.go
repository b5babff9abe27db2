package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lucxx50/BotLucasAllan/internal/domain/membership/dto"
	"github.com/Lucxx50/BotLucasAllan/internal/infrastructure/metrics"
)

func TestProducer_Publish(t *testing.T) {
	mock := mocks.NewSyncProducer(t, sarama.NewConfig())
	mock.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var event dto.MembershipEvent
		if err := json.Unmarshal(val, &event); err != nil {
			return err
		}
		if event.MemberID != 111 || event.Type != "membership.activated" {
			return errors.New("unexpected event payload")
		}
		return nil
	})

	producer := NewProducer(mock, "membership.events", metrics.GetDefaultMetrics(), zerolog.Nop())

	err := producer.Publish(context.Background(), &dto.MembershipEvent{
		Type:       "membership.activated",
		MemberID:   111,
		Email:      "a@x.com",
		Source:     "webhook",
		OccurredAt: time.Date(2025, 2, 1, 9, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.NoError(t, producer.Close())
}

func TestProducer_PublishFailure(t *testing.T) {
	mock := mocks.NewSyncProducer(t, sarama.NewConfig())
	mock.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	producer := NewProducer(mock, "membership.events", metrics.GetDefaultMetrics(), zerolog.Nop())

	err := producer.Publish(context.Background(), &dto.MembershipEvent{Type: "membership.expired", MemberID: 1})
	assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)
	require.NoError(t, producer.Close())
}

func TestNoopPublisher(t *testing.T) {
	var p NoopPublisher
	assert.NoError(t, p.Publish(context.Background(), &dto.MembershipEvent{}))
	assert.NoError(t, p.Close())
}
