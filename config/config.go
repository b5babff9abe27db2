package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

// Config holds all configuration for the membership bot
type Config struct {
	Telegram  TelegramConfig
	Webhook   WebhookConfig
	Database  DatabaseConfig
	Scheduler SchedulerConfig
	Gateway   GatewayConfig
	Kafka     KafkaConfig
	Logging   LoggingConfig
	Service   ServiceConfig
}

// TelegramConfig holds Telegram bot configuration
type TelegramConfig struct {
	BotToken string
	GroupID  int64
	AdminID  int64
}

// WebhookConfig holds billing webhook configuration
type WebhookConfig struct {
	// Secret is compared against the event token; empty disables the check
	Secret string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver   string
	Path     string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// SchedulerConfig holds background job configuration
type SchedulerConfig struct {
	SweepSchedule      string
	Timezone           string
	GraceCheckInterval time.Duration
	Location           *time.Location
}

// GatewayConfig holds membership gateway configuration
type GatewayConfig struct {
	Timeout time.Duration
}

// KafkaConfig holds Kafka configuration
type KafkaConfig struct {
	Brokers         []string
	MembershipTopic string
	BillingTopic    string
	GroupID         string
}

// Enabled reports whether any broker is configured
func (k *KafkaConfig) Enabled() bool {
	return len(k.Brokers) > 0
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string
	File  string
}

// ServiceConfig holds service configuration
type ServiceConfig struct {
	Name string
	Port string
}

// Result provides config parts for fx dependency injection using fx.Out pattern
type Result struct {
	fx.Out

	Config    *Config
	Telegram  *TelegramConfig
	Webhook   *WebhookConfig
	Database  *DatabaseConfig
	Scheduler *SchedulerConfig
	Gateway   *GatewayConfig
	Kafka     *KafkaConfig
	Logging   *LoggingConfig
	Service   *ServiceConfig
}

// Out loads configuration and returns Result for fx injection
func Out() (Result, error) {
	cfg, err := Load()
	if err != nil {
		return Result{}, err
	}

	return Result{
		Config:    cfg,
		Telegram:  &cfg.Telegram,
		Webhook:   &cfg.Webhook,
		Database:  &cfg.Database,
		Scheduler: &cfg.Scheduler,
		Gateway:   &cfg.Gateway,
		Kafka:     &cfg.Kafka,
		Logging:   &cfg.Logging,
		Service:   &cfg.Service,
	}, nil
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	groupID, err := getEnvInt64("GROUP_ID", 0)
	if err != nil {
		return nil, err
	}
	adminID, err := getEnvInt64("ADMIN_ID", 0)
	if err != nil {
		return nil, err
	}
	graceInterval, err := getEnvDuration("GRACE_CHECK_INTERVAL", 30*time.Second)
	if err != nil {
		return nil, err
	}
	gatewayTimeout, err := getEnvDuration("GATEWAY_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Telegram: TelegramConfig{
			BotToken: getEnv("TELEGRAM_TOKEN", ""),
			GroupID:  groupID,
			AdminID:  adminID,
		},
		Webhook: WebhookConfig{
			Secret: getEnv("KIWIFY_WEBHOOK_SECRET", ""),
		},
		Database: DatabaseConfig{
			Driver:   strings.ToLower(getEnv("DATABASE_DRIVER", "sqlite")),
			Path:     getEnv("DATABASE_PATH", "subscriptions.db"),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "membership"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Scheduler: SchedulerConfig{
			SweepSchedule:      getEnv("SWEEP_SCHEDULE", "0 9 * * *"),
			Timezone:           getEnv("TIMEZONE", "America/Sao_Paulo"),
			GraceCheckInterval: graceInterval,
		},
		Gateway: GatewayConfig{
			Timeout: gatewayTimeout,
		},
		Kafka: KafkaConfig{
			Brokers:         splitList(getEnv("KAFKA_BROKERS", "")),
			MembershipTopic: getEnv("KAFKA_MEMBERSHIP_TOPIC", "membership.events"),
			BillingTopic:    getEnv("KAFKA_BILLING_TOPIC", ""),
			GroupID:         getEnv("KAFKA_GROUP_ID", "membership-bot"),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
			File:  getEnv("LOG_FILE", ""),
		},
		Service: ServiceConfig{
			Name: getEnv("SERVICE_NAME", "membership-bot"),
			Port: getEnv("PORT", "5000"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate validates the configuration and resolves the scheduler location
func (c *Config) Validate() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("TELEGRAM_TOKEN is required")
	}

	if c.Telegram.GroupID == 0 {
		return fmt.Errorf("GROUP_ID is required")
	}

	if c.Telegram.AdminID == 0 {
		return fmt.Errorf("ADMIN_ID is required")
	}

	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("DATABASE_DRIVER must be sqlite or postgres, got %q", c.Database.Driver)
	}

	if c.Gateway.Timeout <= 0 {
		return fmt.Errorf("GATEWAY_TIMEOUT must be positive")
	}

	if c.Scheduler.GraceCheckInterval < 0 {
		return fmt.Errorf("GRACE_CHECK_INTERVAL must not be negative")
	}

	loc, err := time.LoadLocation(c.Scheduler.Timezone)
	if err != nil {
		return fmt.Errorf("invalid TIMEZONE %q: %w", c.Scheduler.Timezone, err)
	}
	c.Scheduler.Location = loc

	return nil
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt64(key string, defaultValue int64) (int64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return parsed, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration: %w", key, err)
	}
	return parsed, nil
}

func splitList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
