// Package logger builds the zap loggers used across the service and adapts
// them to gin and gorm.
package logger

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const defaultTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// Config holds logger configuration
type Config struct {
	Level      string // debug, info, warn, error
	Format     string // json, console
	Output     string // stdout, stderr, or file path
	TimeFormat string
}

// New creates a zap logger from cfg. A nil cfg yields a console logger at info level.
func New(cfg *Config) (*zap.Logger, error) {
	if cfg == nil {
		cfg = &Config{Level: "info", Format: "console", Output: "stdout"}
	}
	writer, err := openWriter(cfg.Output)
	if err != nil {
		return nil, err
	}
	core := zapcore.NewCore(newEncoder(cfg), writer, ParseLevel(cfg.Level))
	return zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)), nil
}

// ParseLevel converts a level name to zapcore.Level; unknown names map to info
func ParseLevel(level string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func newEncoder(cfg *Config) zapcore.Encoder {
	layout := cfg.TimeFormat
	if layout == "" {
		layout = defaultTimeFormat
	}
	ec := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.TimeEncoderOfLayout(layout),
		EncodeDuration: zapcore.MillisDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
	if strings.EqualFold(cfg.Format, "console") {
		ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
		return zapcore.NewConsoleEncoder(ec)
	}
	return zapcore.NewJSONEncoder(ec)
}

func openWriter(output string) (zapcore.WriteSyncer, error) {
	switch strings.ToLower(output) {
	case "", "stdout":
		return zapcore.AddSync(os.Stdout), nil
	case "stderr":
		return zapcore.AddSync(os.Stderr), nil
	}
	file, err := os.OpenFile(output, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	return zapcore.AddSync(file), nil
}
