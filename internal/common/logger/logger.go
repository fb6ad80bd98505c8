package logger

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

var (
	mu    sync.RWMutex
	out   io.Writer = os.Stderr
	level           = zerolog.InfoLevel
)

// Setup sets the sink and minimum level for loggers created afterwards.
// Unknown level names fall back to info.
func Setup(w io.Writer, lvl string) {
	mu.Lock()
	defer mu.Unlock()
	if w != nil {
		out = w
	}
	l, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(lvl)))
	if err != nil || l == zerolog.NoLevel {
		l = zerolog.InfoLevel
	}
	level = l
}

type Logger struct {
	zl zerolog.Logger
}

func New(service string) *Logger {
	mu.RLock()
	defer mu.RUnlock()
	zl := zerolog.New(out).Level(level).With().
		Timestamp().
		Str("service", service).
		Str("hostname", hostname()).
		Logger()
	return &Logger{zl: zl}
}

// With returns a child logger that adds fields to every entry.
func (l *Logger) With(fields map[string]any) *Logger {
	return &Logger{zl: l.zl.With().Fields(fields).Logger()}
}

func (l *Logger) Info(action string, fields map[string]any) {
	l.zl.Info().Str("action", action).Fields(fields).Msg(action)
}

func (l *Logger) Debug(action string, fields map[string]any) {
	l.zl.Debug().Str("action", action).Fields(fields).Msg(action)
}

func (l *Logger) Error(action string, err error, fields map[string]any) {
	l.zl.Error().Str("action", action).Err(err).Fields(fields).Msg(action)
}

func hostname() string { h, _ := os.Hostname(); return h }
