package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	AppPort  string `env:"APP_PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	DatabaseURLOverride string `env:"DATABASE_URL"`
	DBHost              string `env:"DB_HOST" envDefault:"localhost"`
	DBPort              string `env:"DB_PORT" envDefault:"5432"`
	DBUser              string `env:"DB_USER" envDefault:"postgres"`
	DBPassword          string `env:"DB_PASSWORD" envDefault:"postgres"`
	DBName              string `env:"DB_NAME" envDefault:"beatmarket"`
	DBSSLMode           string `env:"DB_SSLMODE" envDefault:"disable"`

	JWTSecret     string `env:"JWT_SECRET,required,notEmpty"`
	SessionCookie string `env:"SESSION_COOKIE" envDefault:"session"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	StorageRoot   string        `env:"STORAGE_ROOT" envDefault:"./data/objects"`
	SigningSecret string        `env:"SIGNING_SECRET"`
	SignedURLTTL  time.Duration `env:"SIGNED_URL_TTL" envDefault:"15m"`
	PublicBaseURL string        `env:"PUBLIC_BASE_URL" envDefault:"http://localhost:8080"`

	KafkaBrokers           string `env:"KAFKA_BROKERS" envDefault:"kafka:9092"`
	KafkaClientID          string `env:"KAFKA_CLIENT_ID" envDefault:"promo-service"`
	KafkaGroupID           string `env:"KAFKA_GROUP_ID" envDefault:"promo-consumers"`
	KafkaRetryGroupID      string `env:"KAFKA_RETRY_GROUP_ID" envDefault:"promo-retry"`
	KafkaInstanceID        string `env:"KAFKA_INSTANCE_ID"`
	KafkaTopicPartitions   string `env:"KAFKA_TOPIC_PARTITIONS" envDefault:"3"`
	KafkaRetryPartitions   string `env:"KAFKA_RETRY_PARTITIONS" envDefault:"1"`
	KafkaReplicationFactor string `env:"KAFKA_REPLICATION_FACTOR" envDefault:"1"`
	EventDrivenEnabled     bool   `env:"EVENT_DRIVEN_ENABLED" envDefault:"false"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if cfg.KafkaInstanceID == "" {
		hostname, err := os.Hostname()
		if err != nil {
			cfg.KafkaInstanceID = "unknown"
		} else {
			cfg.KafkaInstanceID = hostname
		}
	}
	if cfg.SigningSecret == "" {
		cfg.SigningSecret = cfg.JWTSecret
	}

	return cfg, nil
}

// DatabaseURL prefers DATABASE_URL and otherwise assembles one from the DB_* parts.
func (c *Config) DatabaseURL() string {
	if c.DatabaseURLOverride != "" {
		return c.DatabaseURLOverride
	}
	u := url.URL{
		Scheme:   "postgresql",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     c.DBHost + ":" + c.DBPort,
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=" + url.QueryEscape(c.DBSSLMode),
	}
	return u.String()
}

func (c *Config) Brokers() []string {
	return strings.Split(c.KafkaBrokers, ",")
}

func (c *Config) TopicPartitions() int {
	return parseInt(c.KafkaTopicPartitions, 3)
}

func (c *Config) RetryPartitions() int {
	return parseInt(c.KafkaRetryPartitions, 1)
}

func (c *Config) ReplicationFactor() int16 {
	value := parseInt(c.KafkaReplicationFactor, 1)
	return int16(value)
}

func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func parseInt(value string, fallback int) int {
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}
