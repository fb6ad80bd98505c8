package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"

	"cafe-system/internal/common/logger"
	"cafe-system/internal/config"
	"cafe-system/internal/domain"
)

// Handle owns the single live connection used for the whole run.
type Handle struct {
	runner
	db   *sql.DB
	conn *sql.Conn
}

// Target renders host:port/dbname for diagnostics.
func Target(cfg config.DatabaseConfig) string {
	return fmt.Sprintf("%s:%d/%s", cfg.Host, cfg.Port, cfg.Database)
}

// DSN builds a libpq keyword/value connection string.
func DSN(cfg config.DatabaseConfig) string {
	parts := []string{
		"host=" + quote(cfg.Host),
		fmt.Sprintf("port=%d", cfg.Port),
		"dbname=" + quote(cfg.Database),
	}
	if cfg.User != "" {
		parts = append(parts, "user="+quote(cfg.User))
	}
	if cfg.Password != "" {
		parts = append(parts, "password="+quote(cfg.Password))
	}
	if cfg.SSLMode != "" {
		parts = append(parts, "sslmode="+quote(cfg.SSLMode))
	}
	return strings.Join(parts, " ")
}

func quote(v string) string {
	if v != "" && !strings.ContainsAny(v, ` '\`) {
		return v
	}
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`)
	return "'" + r.Replace(v) + "'"
}

// Connect opens exactly one connection to the configured database. There is
// no retry: a failure is returned as *domain.ConnectionError and the caller
// is expected to terminate.
func Connect(ctx context.Context, cfg config.DatabaseConfig) (*Handle, error) {
	return Open(ctx, DSN(cfg), Target(cfg))
}

// Open is Connect for a ready-made DSN. target only labels logs and errors.
func Open(ctx context.Context, dsn, target string) (*Handle, error) {
	lg := logger.New("database")
	lg.Info("db_connecting", map[string]any{"target": target})

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, &domain.ConnectionError{Target: target, Err: err}
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	conn, err := db.Conn(ctx)
	if err != nil {
		_ = db.Close()
		return nil, &domain.ConnectionError{Target: target, Err: err}
	}
	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		_ = db.Close()
		return nil, &domain.ConnectionError{Target: target, Err: err}
	}

	lg.Info("db_connected", map[string]any{"target": target})
	return &Handle{runner: runner{q: conn}, db: db, conn: conn}, nil
}

// Close releases the connection if it is open. Close errors are ignored.
func (h *Handle) Close() {
	if h == nil {
		return
	}
	if h.conn != nil {
		_ = h.conn.Close()
		h.conn = nil
	}
	if h.db != nil {
		_ = h.db.Close()
		h.db = nil
	}
}

// InTx runs fn inside a single transaction on the handle's connection.
func (h *Handle) InTx(ctx context.Context, fn func(Executor) error) (err error) {
	tx, err := h.conn.BeginTx(ctx, nil)
	if err != nil {
		return &domain.QueryError{Op: "begin", Err: err}
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fn(txExecutor{runner{q: tx}}); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return &domain.QueryError{Op: "commit", Err: err}
	}
	return nil
}

type txExecutor struct{ runner }

// InTx on an open transaction reuses it.
func (t txExecutor) InTx(_ context.Context, fn func(Executor) error) error { return fn(t) }
