// Package logger builds the zerolog logger shared by every layer.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config selects output format, level and the fields stamped on every line.
type Config struct {
	Env     string    // "development" prints console lines with caller, anything else JSON
	Level   string    // zerolog level name; empty or unknown means info
	Service string    // written as "service" when set
	Out     io.Writer // stdout when nil
}

// Logger is a zerolog.Logger that can be passed around by pointer.
type Logger struct {
	zerolog.Logger
}

// New builds the logger and installs it as zerolog's global logger.
func New(cfg Config) *Logger {
	out := cfg.Out
	if out == nil {
		out = os.Stdout
	}

	var zctx zerolog.Context
	if cfg.Env == "development" {
		zctx = zerolog.New(zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}).With().Timestamp().Caller()
	} else {
		zctx = zerolog.New(out).With().Timestamp()
	}
	if cfg.Service != "" {
		zctx = zctx.Str("service", cfg.Service)
	}

	zl := zctx.Logger().Level(ParseLevel(cfg.Level))
	log.Logger = zl
	return &Logger{Logger: zl}
}

// ParseLevel maps a configured level name onto zerolog, case-insensitively.
func ParseLevel(name string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(name)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// Nop discards everything.
func Nop() *Logger {
	return &Logger{Logger: zerolog.Nop()}
}

// Component returns a child logger whose lines carry component=name.
func (l *Logger) Component(name string) *Logger {
	return &Logger{Logger: l.Logger.With().Str("component", name).Logger()}
}
