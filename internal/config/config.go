package config

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// ErrUsage is returned when the positional arguments are not <dbname> <port>.
var ErrUsage = errors.New("usage: cafe [-init-schema] <dbname> <port>")

// Config holds all application settings. Database name and port come from the
// command line, everything else from the environment (optionally via .env).
type Config struct {
	Database     DatabaseConfig `ignored:"true"`
	RabbitMQ     RabbitMQConfig `ignored:"true"`
	LogLevel     string         `envconfig:"CAFE_LOG_LEVEL" default:"info"`
	HistoryLimit int            `envconfig:"CAFE_HISTORY_LIMIT" default:"5"`
}

type DatabaseConfig struct {
	Host     string `envconfig:"CAFE_DB_HOST" default:"127.0.0.1"`
	Port     int    `ignored:"true"`
	User     string `envconfig:"CAFE_DB_USER"`
	Password string `envconfig:"CAFE_DB_PASSWORD"`
	Database string `ignored:"true"`
	SSLMode  string `envconfig:"CAFE_DB_SSLMODE" default:"disable"`
}

// RabbitMQConfig is optional; an empty Host disables event publishing.
type RabbitMQConfig struct {
	Host     string `envconfig:"CAFE_RABBITMQ_HOST"`
	Port     int    `envconfig:"CAFE_RABBITMQ_PORT" default:"5672"`
	User     string `envconfig:"CAFE_RABBITMQ_USER" default:"guest"`
	Password string `envconfig:"CAFE_RABBITMQ_PASSWORD" default:"guest"`
	VHost    string `envconfig:"CAFE_RABBITMQ_VHOST" default:"/"`
	Exchange string `envconfig:"CAFE_RABBITMQ_EXCHANGE" default:"notifications_fanout"`
	Queue    string `envconfig:"CAFE_RABBITMQ_QUEUE" default:"cafe_notifications"`
	Prefetch int    `envconfig:"CAFE_RABBITMQ_PREFETCH" default:"10"`
}

func (r RabbitMQConfig) Enabled() bool { return r.Host != "" }

// Load reads .env (if present) and the environment, then applies the
// positional arguments.
func Load(args []string) (*Config, error) {
	_ = godotenv.Load()
	return load(args)
}

// LoadEnv reads settings that do not depend on positional arguments. It is
// used by processes that never open the database.
func LoadEnv() (*Config, error) {
	_ = godotenv.Load()
	return loadEnv()
}

func loadEnv() (*Config, error) {
	cfg := &Config{}
	for _, section := range []any{cfg, &cfg.Database, &cfg.RabbitMQ} {
		if err := envconfig.Process("", section); err != nil {
			return nil, fmt.Errorf("read environment: %w", err)
		}
	}
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = 5
	}
	if cfg.RabbitMQ.Prefetch <= 0 {
		cfg.RabbitMQ.Prefetch = 1
	}
	return cfg, nil
}

func load(args []string) (*Config, error) {
	if len(args) != 2 {
		return nil, ErrUsage
	}
	cfg, err := loadEnv()
	if err != nil {
		return nil, err
	}

	port, err := strconv.Atoi(args[1])
	if err != nil || port <= 0 || port > 65535 {
		return nil, fmt.Errorf("invalid port %q", args[1])
	}
	cfg.Database.Database = args[0]
	cfg.Database.Port = port
	return cfg, nil
}
