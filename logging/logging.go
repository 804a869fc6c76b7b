// Package logging builds the zap logger shared by the epubtools commands.
package logging

import (
	"os"

	"github.com/YoshihikoAbe/epubtools/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// New builds a logger writing to console. When cfg.File is set, entries are
// also appended to that file as JSON and the file is rotated by size.
func New(cfg config.LogConfig, console zapcore.WriteSyncer) *zap.Logger {
	level := zap.NewAtomicLevel()
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level.SetLevel(zap.InfoLevel)
	}

	cores := []zapcore.Core{zapcore.NewCore(newEncoder(cfg.Format), console, level)}
	if cfg.File != "" {
		file := zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
		})
		cores = append(cores, zapcore.NewCore(newEncoder("json"), file, level))
	}

	return zap.New(zapcore.NewTee(cores...), zap.AddStacktrace(zap.ErrorLevel)).Named("epubtools")
}

// Init installs a logger writing to standard error as the zap global.
// Standard output is left to command results. The returned function restores
// the previous global logger.
func Init(cfg config.LogConfig) (*zap.Logger, func()) {
	logger := New(cfg, zapcore.Lock(os.Stderr))
	undo := zap.ReplaceGlobals(logger)
	return logger, func() {
		logger.Sync()
		undo()
	}
}

func newEncoder(format string) zapcore.Encoder {
	ec := zap.NewProductionEncoderConfig()
	ec.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02T15:04:05.000Z07:00")

	if format == "console" {
		ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
		return zapcore.NewConsoleEncoder(ec)
	}
	ec.EncodeLevel = zapcore.CapitalLevelEncoder
	return zapcore.NewJSONEncoder(ec)
}
