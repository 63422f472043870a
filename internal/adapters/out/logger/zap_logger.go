package logger

import (
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/clinicare-bj/maternity-reminder-engine/internal/core/ports/out"
)

// ZapLogger implémente le LoggerPort au-dessus de zap, avec les horodatages
// rendus dans la timezone de la clinique.
type ZapLogger struct {
	log           *zap.Logger
	module        string
	defaultFields out.LogFields
}

func NewZapLogger(timezone string, local bool) (*ZapLogger, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		loc = time.UTC
	}

	cfg := zap.NewProductionConfig()
	if local {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(t.In(loc).Format("2006-01-02 15:04:05.000"))
	}

	log, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, err
	}

	return &ZapLogger{
		log:           log,
		defaultFields: make(out.LogFields),
	}, nil
}

func (l *ZapLogger) WithFields(fields out.LogFields) out.LoggerPort {
	merged := make(out.LogFields, len(l.defaultFields)+len(fields))
	for k, v := range l.defaultFields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}

	return &ZapLogger{
		log:           l.log,
		module:        l.module,
		defaultFields: merged,
	}
}

func (l *ZapLogger) WithModule(module string) out.LoggerPort {
	return &ZapLogger{
		log:           l.log,
		module:        module,
		defaultFields: l.defaultFields,
	}
}

func (l *ZapLogger) Debug(event string, fields out.LogFields) {
	l.log.Debug(event, l.zapFields(fields)...)
}

func (l *ZapLogger) Info(event string, fields out.LogFields) {
	l.log.Info(event, l.zapFields(fields)...)
}

func (l *ZapLogger) Warn(event string, fields out.LogFields) {
	l.log.Warn(event, l.zapFields(fields)...)
}

func (l *ZapLogger) Error(event string, fields out.LogFields) {
	l.log.Error(event, l.zapFields(fields)...)
}

func (l *ZapLogger) zapFields(fields out.LogFields) []zap.Field {
	zapped := make([]zap.Field, 0, len(l.defaultFields)+len(fields)+1)
	if l.module != "" {
		zapped = append(zapped, zap.String("module", l.module))
	}
	for k, v := range l.defaultFields {
		zapped = append(zapped, zap.Any(k, v))
	}
	for k, v := range fields {
		zapped = append(zapped, zap.Any(k, v))
	}
	return zapped
}
