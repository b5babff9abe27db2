package workers

import (
	"context"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/Lucxx50/BotLucasAllan/config"
	kafkaHandlers "github.com/Lucxx50/BotLucasAllan/internal/domain/membership/delivery/kafka"
	infrakafka "github.com/Lucxx50/BotLucasAllan/internal/infrastructure/kafka"
)

// Module provides workers for fx dependency injection
var Module = fx.Module("membership-workers",
	fx.Provide(NewExpirySweeper),
	fx.Provide(NewGraceMonitor),
	fx.Invoke(registerExpirySweeperLifecycle),
	fx.Invoke(registerGraceMonitorLifecycle),
	fx.Invoke(registerBillingConsumer),
)

// registerExpirySweeperLifecycle registers expiry sweeper lifecycle hooks
func registerExpirySweeperLifecycle(lc fx.Lifecycle, sweeper *ExpirySweeper) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			sweeper.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return sweeper.Stop(ctx)
		},
	})
}

// registerGraceMonitorLifecycle registers grace monitor lifecycle hooks
func registerGraceMonitorLifecycle(lc fx.Lifecycle, monitor *GraceMonitor) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			monitor.Start()
			return nil
		},
		OnStop: func(_ context.Context) error {
			monitor.Stop()
			return nil
		},
	})
}

// registerBillingConsumer starts the Kafka billing feed when a billing topic is configured
func registerBillingConsumer(
	lc fx.Lifecycle,
	kafkaCfg *config.KafkaConfig,
	handlers *kafkaHandlers.Handlers,
	logger zerolog.Logger,
) {
	if !kafkaCfg.Enabled() || kafkaCfg.BillingTopic == "" {
		logger.Debug().Msg("Kafka billing consumer disabled")
		return
	}

	reader := infrakafka.NewReader(kafkaCfg.Brokers, kafkaCfg.GroupID, kafkaCfg.BillingTopic)

	logger.Info().
		Strs("brokers", kafkaCfg.Brokers).
		Str("group_id", kafkaCfg.GroupID).
		Str("topic", kafkaCfg.BillingTopic).
		Msg("Kafka billing consumer initialized")

	consumer := NewBillingConsumer(reader, handlers, logger)

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			consumer.Start()
			return nil
		},
		OnStop: func(_ context.Context) error {
			return consumer.Stop()
		},
	})
}
