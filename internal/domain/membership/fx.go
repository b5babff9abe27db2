// Package membership contains the membership domain module
package membership

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/Lucxx50/BotLucasAllan/config"
	httpDelivery "github.com/Lucxx50/BotLucasAllan/internal/domain/membership/delivery/http"
	kafkaDelivery "github.com/Lucxx50/BotLucasAllan/internal/domain/membership/delivery/kafka"
	telegramDelivery "github.com/Lucxx50/BotLucasAllan/internal/domain/membership/delivery/telegram"
	"github.com/Lucxx50/BotLucasAllan/internal/domain/membership/deps"
	kafkaRepo "github.com/Lucxx50/BotLucasAllan/internal/domain/membership/repository/kafka"
	"github.com/Lucxx50/BotLucasAllan/internal/domain/membership/repository/storage"
	"github.com/Lucxx50/BotLucasAllan/internal/domain/membership/usecase/business"
	"github.com/Lucxx50/BotLucasAllan/internal/domain/membership/workers"
	"github.com/Lucxx50/BotLucasAllan/internal/infrastructure/http/server"
	infrakafka "github.com/Lucxx50/BotLucasAllan/internal/infrastructure/kafka"
	"github.com/Lucxx50/BotLucasAllan/internal/infrastructure/metrics"
	"github.com/Lucxx50/BotLucasAllan/internal/infrastructure/telegram"
	"github.com/Lucxx50/BotLucasAllan/pkg/clock"
	pkgerrors "github.com/Lucxx50/BotLucasAllan/pkg/errors"
)

// Module provides membership domain components for fx dependency injection
var Module = fx.Module("membership",
	// Repository
	fx.Provide(storage.NewSubscriptionRepository),
	fx.Provide(storage.NewIdentityRepository),
	fx.Provide(providePublisher),

	// Gateway (needs raw bot from infrastructure)
	fx.Provide(provideGateway),
	fx.Provide(func(g *telegramDelivery.Gateway) deps.MembershipGateway { return g }),

	// UseCase
	fx.Provide(provideClock),
	fx.Provide(provideUseCase),
	fx.Provide(func(uc *business.UseCase) deps.MembershipService { return uc }),

	// Delivery - Telegram
	fx.Provide(provideTelegramHandlers),
	fx.Provide(telegramDelivery.NewRouter),

	// Delivery - HTTP
	fx.Provide(pkgerrors.NewMapper),
	fx.Provide(provideDatabaseChecker),
	fx.Provide(httpDelivery.NewHandler),
	fx.Provide(httpDelivery.NewHealthHandler),
	fx.Provide(httpDelivery.NewRouter),

	// Delivery - Kafka
	fx.Provide(kafkaDelivery.NewHandlers),

	// Workers
	workers.Module,

	fx.Invoke(registerRoutes),
)

// providePublisher creates the membership event publisher, a no-op without brokers
func providePublisher(
	lc fx.Lifecycle,
	kafkaCfg *config.KafkaConfig,
	m *metrics.Metrics,
	logger zerolog.Logger,
) (deps.MembershipEventPublisher, error) {
	if !kafkaCfg.Enabled() {
		logger.Info().Msg("Kafka not configured, membership events will not be published")
		return kafkaRepo.NoopPublisher{}, nil
	}

	producer, err := infrakafka.NewSyncProducer(kafkaCfg.Brokers, logger)
	if err != nil {
		return nil, err
	}

	publisher := kafkaRepo.NewProducer(
		producer,
		kafkaCfg.MembershipTopic,
		m,
		logger.With().Str("component", "membership-producer").Logger(),
	)

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return publisher.Close()
		},
	})

	return publisher, nil
}

// provideGateway binds the Telegram gateway to the configured group
func provideGateway(
	bot *telegram.Bot,
	tgCfg *config.TelegramConfig,
	gwCfg *config.GatewayConfig,
	logger zerolog.Logger,
) *telegramDelivery.Gateway {
	return telegramDelivery.NewGateway(
		bot.Raw(),
		tgCfg.GroupID,
		gwCfg.Timeout,
		logger.With().Str("component", "membership-gateway").Logger(),
	)
}

func provideClock(cfg *config.SchedulerConfig) clock.Clock {
	return clock.NewReal(cfg.Location)
}

// provideUseCase creates the use case with operator settings from config
func provideUseCase(
	subscriptions deps.SubscriptionRepository,
	identities deps.IdentityRepository,
	pending deps.PendingJoinStore,
	gateway deps.MembershipGateway,
	publisher deps.MembershipEventPublisher,
	clk clock.Clock,
	m *metrics.Metrics,
	tgCfg *config.TelegramConfig,
	webhookCfg *config.WebhookConfig,
	schedulerCfg *config.SchedulerConfig,
	logger zerolog.Logger,
) *business.UseCase {
	settings := business.Settings{
		AdminID:       tgCfg.AdminID,
		WebhookSecret: webhookCfg.Secret,
		Location:      schedulerCfg.Location,
	}

	return business.NewUseCase(subscriptions, identities, pending, gateway, publisher, clk, m, settings, logger)
}

// provideTelegramHandlers creates Telegram handlers replying through the gateway
func provideTelegramHandlers(
	svc deps.MembershipService,
	gateway *telegramDelivery.Gateway,
	tgCfg *config.TelegramConfig,
	logger zerolog.Logger,
) *telegramDelivery.Handlers {
	return telegramDelivery.NewHandlers(svc, gateway, tgCfg.AdminID, tgCfg.GroupID, logger)
}

func provideDatabaseChecker(db *gorm.DB) (httpDelivery.DatabaseChecker, error) {
	return db.DB()
}

// registerRoutes registers HTTP routes and Telegram handlers
func registerRoutes(
	lc fx.Lifecycle,
	srv *server.Server,
	httpRouter *httpDelivery.Router,
	tgRouter *telegramDelivery.Router,
	bot *telegram.Bot,
	logger zerolog.Logger,
) {
	httpRouter.RegisterRoutes(srv.Router)
	tgRouter.RegisterRoutes(bot.Raw())

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			// command menu failures do not block startup
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := tgRouter.SetCommands(ctx, bot.Raw()); err != nil {
					logger.Warn().Err(err).Msg("Failed to publish bot command menu")
				}
			}()
			return nil
		},
	})
}
