package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"cafe-system/internal/common/logger"
	"cafe-system/internal/config"
	"cafe-system/internal/connections/database"
	"cafe-system/internal/connections/rabbitmq"
	"cafe-system/internal/console"
	"cafe-system/internal/notify"
	"cafe-system/internal/service"
)

func main() {
	initSchema := flag.Bool("init-schema", false, "create the tables if they do not exist")
	flag.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), config.ErrUsage)
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg, err := config.Load(flag.Args())
	if errors.Is(err, config.ErrUsage) {
		flag.Usage()
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger.Setup(os.Stderr, cfg.LogLevel)
	lg := logger.New("bootstrap")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	fmt.Print("Connecting to database...")
	db, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		fmt.Println("Failed")
		fmt.Fprintln(os.Stderr, err)
		lg.Error("db_connect_failed", err, nil)
		os.Exit(1)
	}
	fmt.Println("Done")

	if *initSchema {
		if err := database.EnsureSchema(ctx, db); err != nil {
			lg.Error("schema_init_failed", err, nil)
			db.Close()
			os.Exit(1)
		}
		lg.Info("schema_ready", nil)
	}

	pub, closePub := publisher(cfg.RabbitMQ, lg)
	defer closePub()

	svc := service.New(db, pub, service.Options{HistoryLimit: cfg.HistoryLimit})
	ctrl := console.NewController(svc, console.NewPrompter(os.Stdin, os.Stdout, os.Stderr))

	done := make(chan error, 1)
	go func() { done <- ctrl.Run(ctx) }()

	select {
	case err = <-done:
		if err != nil {
			lg.Error("console_failed", err, nil)
		}
	case <-ctx.Done():
		fmt.Println()
		lg.Info("shutdown_signal", nil)
	}

	fmt.Print("Disconnecting from database...")
	db.Close()
	fmt.Println("Done")
	fmt.Println()
	fmt.Println("Bye !")
}

// publisher dials the broker when one is configured. A broker that cannot
// be reached only disables events.
func publisher(cfg config.RabbitMQConfig, lg *logger.Logger) (notify.Publisher, func()) {
	if !cfg.Enabled() {
		return notify.Nop{}, func() {}
	}
	client, err := rabbitmq.Dial(cfg)
	if err != nil {
		lg.Error("rabbitmq_connect_failed", err, map[string]any{"host": cfg.Host, "port": cfg.Port})
		return notify.Nop{}, func() {}
	}
	if err := client.Ping(); err != nil {
		lg.Error("rabbitmq_ping_failed", err, map[string]any{"host": cfg.Host, "port": cfg.Port})
		client.Close()
		return notify.Nop{}, func() {}
	}
	lg.Info("rabbitmq_connected", map[string]any{"host": cfg.Host, "port": cfg.Port, "exchange": cfg.Exchange})
	return notify.NewAMQPPublisher(client, cfg.Exchange), client.Close
}
