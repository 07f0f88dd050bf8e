package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log is a no-op until Init runs, so packages and tests can log freely.
var Log = zap.NewNop()

// Init points Log at a JSON log file. The terminal is left to the listener.
func Init(logFilePath, level string) error {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("log level %q: %w", level, err)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{logFilePath}
	cfg.ErrorOutputPaths = []string{logFilePath}
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	l, err := cfg.Build()
	if err != nil {
		return err
	}
	Log = l
	Log.Info("Logger initialized.")
	return nil
}

func Sync() {
	_ = Log.Sync()
}
