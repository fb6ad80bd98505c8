package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"cafe-system/internal/common/logger"
	"cafe-system/internal/config"
	"cafe-system/internal/connections/rabbitmq"
	"cafe-system/internal/notify"
)

// cafe-notify prints order events published by the cafe console.
func main() {
	cfg, err := config.LoadEnv()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger.Setup(os.Stderr, cfg.LogLevel)
	lg := logger.New("notify")

	if !cfg.RabbitMQ.Enabled() {
		fmt.Fprintln(os.Stderr, "CAFE_RABBITMQ_HOST is required")
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	client, err := rabbitmq.Dial(cfg.RabbitMQ)
	if err != nil {
		lg.Error("rabbitmq_connect_failed", err, map[string]any{"host": cfg.RabbitMQ.Host})
		os.Exit(1)
	}
	defer client.Close()
	if err := client.Ping(); err != nil {
		lg.Error("rabbitmq_ping_failed", err, map[string]any{"host": cfg.RabbitMQ.Host})
		client.Close()
		os.Exit(1)
	}

	consumer := "cafe-notify-" + uuid.NewString()[:8]
	msgs, err := client.Subscribe(cfg.RabbitMQ.Queue, consumer, cfg.RabbitMQ.Prefetch)
	if err != nil {
		lg.Error("subscribe_failed", err, map[string]any{"queue": cfg.RabbitMQ.Queue})
		os.Exit(1)
	}
	lg.Info("service_started", map[string]any{"queue": cfg.RabbitMQ.Queue, "consumer": consumer})

	if err := notify.NewSubscriber(os.Stdout).Run(ctx, msgs); err != nil {
		lg.Error("subscriber_failed", err, nil)
	}
	lg.Info("service_stopped", nil)
}
