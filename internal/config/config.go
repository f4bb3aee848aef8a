package config

import (
	"strings"

	"github.com/spf13/viper"
)

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// KafkaConfig holds broker addresses and topic names.
type KafkaConfig struct {
	Brokers            []string
	NotificationsTopic string
	GroupID            string
}

// RedisConfig holds cache settings.
type RedisConfig struct {
	Addr       string
	Password   string
	DB         int
	TTLSeconds int
}

// SMTPConfig holds outbound mail settings used by the worker.
type SMTPConfig struct {
	Host              string
	Port              string
	From              string
	HousekeepingEmail string
}

// Config holds all configuration for the reservation service.
type Config struct {
	AppEnv                  string
	HTTPPort                string
	JWTSecret               string
	MigrationsDir           string
	ReminderIntervalMinutes int

	DB    DatabaseConfig
	Kafka KafkaConfig
	Redis RedisConfig
	SMTP  SMTPConfig
}

// Load reads configuration from RESERVATION_-prefixed environment variables
// with development-friendly defaults.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("RESERVATION")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("app_env", "development")
	v.SetDefault("http_port", ":8080")
	v.SetDefault("jwt_secret", "dev-secret-change-me")
	v.SetDefault("migrations_dir", "migrations")
	v.SetDefault("reminder_interval_minutes", 60)

	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", "5432")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "postgres")
	v.SetDefault("db.name", "reservations")
	v.SetDefault("db.sslmode", "disable")

	v.SetDefault("kafka.brokers", "localhost:9092")
	v.SetDefault("kafka.notifications_topic", "reservation.notifications")
	v.SetDefault("kafka.group_id", "reservation-worker")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl_seconds", 60)

	v.SetDefault("smtp.host", "")
	v.SetDefault("smtp.port", "25")
	v.SetDefault("smtp.from", "reservations@harborview.example")
	v.SetDefault("smtp.housekeeping_email", "housekeeping@harborview.example")

	return &Config{
		AppEnv:                  v.GetString("app_env"),
		HTTPPort:                v.GetString("http_port"),
		JWTSecret:               v.GetString("jwt_secret"),
		MigrationsDir:           v.GetString("migrations_dir"),
		ReminderIntervalMinutes: v.GetInt("reminder_interval_minutes"),
		DB: DatabaseConfig{
			Host:     v.GetString("db.host"),
			Port:     v.GetString("db.port"),
			User:     v.GetString("db.user"),
			Password: v.GetString("db.password"),
			Name:     v.GetString("db.name"),
			SSLMode:  v.GetString("db.sslmode"),
		},
		Kafka: KafkaConfig{
			Brokers:            strings.Split(v.GetString("kafka.brokers"), ","),
			NotificationsTopic: v.GetString("kafka.notifications_topic"),
			GroupID:            v.GetString("kafka.group_id"),
		},
		Redis: RedisConfig{
			Addr:       v.GetString("redis.addr"),
			Password:   v.GetString("redis.password"),
			DB:         v.GetInt("redis.db"),
			TTLSeconds: v.GetInt("redis.ttl_seconds"),
		},
		SMTP: SMTPConfig{
			Host:              v.GetString("smtp.host"),
			Port:              v.GetString("smtp.port"),
			From:              v.GetString("smtp.from"),
			HousekeepingEmail: v.GetString("smtp.housekeeping_email"),
		},
	}, nil
}
