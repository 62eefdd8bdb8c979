package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// zapLogger backs the Logger interface with a zap sugared logger, keeping
// zap types out of the rest of the codebase.
type zapLogger struct {
	sugar *zap.SugaredLogger
}

// NewZapLogger creates a console-encoded zap-backed Logger. Debug output is
// emitted only when verbose is set.
func NewZapLogger(verbose bool) (Logger, error) {
	config := zap.NewDevelopmentConfig()
	config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	if !verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}

	backend, err := config.Build()
	if err != nil {
		return nil, err
	}

	return &zapLogger{
		sugar: backend.Sugar(),
	}, nil
}

func (z *zapLogger) Debugf(format string, args ...interface{}) {
	z.sugar.Debugf(format, args...)
}

func (z *zapLogger) Infof(format string, args ...interface{}) {
	z.sugar.Infof(format, args...)
}

func (z *zapLogger) Warnf(format string, args ...interface{}) {
	z.sugar.Warnf(format, args...)
}

func (z *zapLogger) Errorf(format string, args ...interface{}) {
	z.sugar.Errorf(format, args...)
}
