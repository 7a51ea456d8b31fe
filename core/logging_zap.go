package core

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// loggerFromZap adapts a zap logger to the runtime Logger surface.
type loggerFromZap struct {
	zapLogger *zap.Logger
}

// NewLoggerFromZap wraps an existing zap logger so hosts can route
// runtime records into whatever zap configuration they already run.
func NewLoggerFromZap(zapLogger *zap.Logger) Logger {
	return &loggerFromZap{
		zapLogger,
	}
}

// NewDefaultLogger builds the logger a fresh instance gets when no
// logger option is supplied: console-encoded zap output on stderr,
// info level and above.
func NewDefaultLogger() Logger {
	encoderConfig := zap.NewDevelopmentEncoderConfig()
	sink := zapcore.Lock(os.Stderr)
	zapCore := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		sink,
		zapcore.InfoLevel,
	)
	return NewLoggerFromZap(zap.New(zapCore))
}

func (l *loggerFromZap) Debug(msg string, fields ...LogField) {
	l.zapLogger.Debug(msg, toZapFields(fields)...)
}

func (l *loggerFromZap) Info(msg string, fields ...LogField) {
	l.zapLogger.Info(msg, toZapFields(fields)...)
}

func (l *loggerFromZap) Warn(msg string, fields ...LogField) {
	l.zapLogger.Warn(msg, toZapFields(fields)...)
}

func (l *loggerFromZap) Error(msg string, fields ...LogField) {
	l.zapLogger.Error(msg, toZapFields(fields)...)
}

func (l *loggerFromZap) WithFields(fields ...LogField) Logger {
	return &loggerFromZap{
		zapLogger: l.zapLogger.With(toZapFields(fields)...),
	}
}

func (l *loggerFromZap) Named(name string) Logger {
	return &loggerFromZap{
		zapLogger: l.zapLogger.Named(name),
	}
}

func toZapFields(fields []LogField) []zap.Field {
	zapFields := make([]zap.Field, 0, len(fields))
	for _, field := range fields {
		zapFields = append(zapFields, toZapField(field))
	}
	return zapFields
}

func toZapField(field LogField) zap.Field {
	switch field.Type {
	case StringLogFieldType, UidLogFieldType:
		return zap.String(field.Key, field.String)
	case IntegerLogFieldType:
		return zap.Int64(field.Key, field.Integer)
	case BoolLogFieldType:
		return zap.Bool(field.Key, field.Bool)
	case ErrorLogFieldType:
		return zap.Error(field.Err)
	case StringsLogFieldType:
		values, ok := field.Interface.([]string)
		if !ok {
			values = []string{}
		}
		return zap.Strings(field.Key, values)
	default:
		return zap.Any(field.Key, field.Interface)
	}
}
