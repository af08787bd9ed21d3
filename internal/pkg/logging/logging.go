// Package logging builds the zap logger behind the process-wide slog
// default, so internal packages keep calling log/slog.
package logging

import (
	"log/slog"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/exp/zapslog"
	"go.uber.org/zap/zapcore"

	"github.com/KirkDiggler/rpg-trainer/internal/errors"
)

// Modes accepted by New
const (
	ModeDev  = "dev"
	ModeProd = "prod"
)

// Logger owns the zap logger and the slog logger writing through it
type Logger struct {
	zap  *zap.Logger
	slog *slog.Logger
}

// New builds a console logger for "dev" and a JSON logger for "prod".
// verbose lowers the level to debug.
func New(mode string, verbose bool) (*Logger, error) {
	var cfg zap.Config
	switch strings.ToLower(mode) {
	case ModeProd, "production":
		cfg = zap.NewProductionConfig()
	case ModeDev, "development", "":
		cfg = zap.NewDevelopmentConfig()
		cfg.DisableStacktrace = true
	default:
		return nil, errors.InvalidArgumentf("unknown log mode %q", mode).WithMeta("mode", mode)
	}

	level := zap.InfoLevel
	if verbose {
		level = zap.DebugLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.OutputPaths = []string{"stderr"}

	zl, err := cfg.Build()
	if err != nil {
		return nil, errors.Wrap(err, "failed to build logger")
	}
	return FromCore(zl.Core()), nil
}

// FromCore wraps an existing zap core, mainly for tests with zaptest/observer
func FromCore(core zapcore.Core) *Logger {
	zl := zap.New(core)
	return &Logger{
		zap:  zl,
		slog: slog.New(zapslog.NewHandler(core)),
	}
}

// Slog returns the slog logger backed by zap
func (l *Logger) Slog() *slog.Logger {
	return l.slog
}

// Install makes this logger the slog default
func (l *Logger) Install() {
	slog.SetDefault(l.slog)
}

// Sync flushes buffered entries
func (l *Logger) Sync() {
	_ = l.zap.Sync()
}
