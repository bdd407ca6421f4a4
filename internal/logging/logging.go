package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps a sugared zap logger so call sites can use Infow/Debugw.
type Logger struct {
	*zap.SugaredLogger
}

type Options struct {
	Level  string // trace (same as debug), debug, info, warn, error
	Format string // pretty or json
}

// New builds a logger writing to stderr, keeping stdout free for rendered
// output.
func New(opts Options) (*Logger, error) {
	name := strings.ToLower(opts.Level)
	if name == "trace" {
		name = "debug"
	}

	var level zapcore.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
	}

	var cfg zap.Config
	switch strings.ToLower(opts.Format) {
	case "json":
		cfg = zap.NewProductionConfig()
	case "", "pretty":
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		cfg.DisableStacktrace = true
	default:
		return nil, fmt.Errorf("invalid log format %q: use pretty or json", opts.Format)
	}

	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	base, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	return &Logger{SugaredLogger: base.Sugar()}, nil
}

// Nop discards everything.
func Nop() *Logger {
	return &Logger{SugaredLogger: zap.NewNop().Sugar()}
}

// Named returns a child logger tagged with name.
func (l *Logger) Named(name string) *Logger {
	return &Logger{SugaredLogger: l.SugaredLogger.Named(name)}
}

// DebugEnabled reports whether debug entries would be written.
func (l *Logger) DebugEnabled() bool {
	return l.Desugar().Core().Enabled(zapcore.DebugLevel)
}
