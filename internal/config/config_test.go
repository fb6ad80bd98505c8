package config

import (
	"errors"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load([]string{"cafe", "5432"})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Database.Database != "cafe" || cfg.Database.Port != 5432 {
		t.Errorf("database = %s:%d, want cafe:5432", cfg.Database.Database, cfg.Database.Port)
	}
	if cfg.Database.Host != "127.0.0.1" {
		t.Errorf("host = %q, want 127.0.0.1", cfg.Database.Host)
	}
	if cfg.HistoryLimit != 5 {
		t.Errorf("history limit = %d, want 5", cfg.HistoryLimit)
	}
	if cfg.RabbitMQ.Enabled() {
		t.Error("rabbitmq enabled without a host")
	}
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("CAFE_DB_HOST", "db.internal")
	t.Setenv("CAFE_DB_USER", "cafe")
	t.Setenv("CAFE_HISTORY_LIMIT", "10")
	t.Setenv("CAFE_RABBITMQ_HOST", "mq.internal")
	t.Setenv("CAFE_RABBITMQ_EXCHANGE", "cafe_events")

	cfg, err := load([]string{"cafe", "6543"})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Database.Host != "db.internal" || cfg.Database.User != "cafe" {
		t.Errorf("database = %+v", cfg.Database)
	}
	if cfg.HistoryLimit != 10 {
		t.Errorf("history limit = %d, want 10", cfg.HistoryLimit)
	}
	if !cfg.RabbitMQ.Enabled() || cfg.RabbitMQ.Exchange != "cafe_events" || cfg.RabbitMQ.Port != 5672 {
		t.Errorf("rabbitmq = %+v", cfg.RabbitMQ)
	}
}

func TestLoad_Usage(t *testing.T) {
	for _, args := range [][]string{nil, {"cafe"}, {"cafe", "5432", "extra"}} {
		if _, err := load(args); !errors.Is(err, ErrUsage) {
			t.Errorf("load(%q) = %v, want ErrUsage", args, err)
		}
	}
}

func TestLoad_BadPort(t *testing.T) {
	for _, port := range []string{"abc", "0", "70000", "-1"} {
		if _, err := load([]string{"cafe", port}); err == nil || errors.Is(err, ErrUsage) {
			t.Errorf("port %q: got %v, want port error", port, err)
		}
	}
}

func TestLoad_NonPositiveHistoryLimit(t *testing.T) {
	t.Setenv("CAFE_HISTORY_LIMIT", "0")
	cfg, err := load([]string{"cafe", "5432"})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HistoryLimit != 5 {
		t.Errorf("history limit = %d, want 5", cfg.HistoryLimit)
	}
}
