package main

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/bobby-s-dev/weather-display/internal/config"
)

// newLogger builds the process logger. With toFile set, output goes to a
// rotating file so it never draws over the dashboard.
func newLogger(cfg *config.Config, toFile bool) (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoder := zapcore.NewJSONEncoder(encoderConfig)
	if level.Level() == zapcore.DebugLevel && !toFile {
		encoderConfig = zap.NewDevelopmentEncoderConfig()
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}

	var sink zapcore.WriteSyncer = zapcore.Lock(os.Stderr)
	if toFile {
		sink = zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.Log.File,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		})
	}

	return zap.New(zapcore.NewCore(encoder, sink, level), zap.AddCaller()), nil
}
