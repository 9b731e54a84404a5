package mlog

import "go.uber.org/zap"

// ZapLogger is the zap-backed implementation of Logger, used whenever
// the host application wants structured production logging instead of
// the NoneLogger default.
type ZapLogger struct {
	sugar *zap.SugaredLogger
}

// NewZapLogger builds a ZapLogger from an already-configured zap
// logger, so callers keep full control over encoding/level/output.
func NewZapLogger(l *zap.Logger) *ZapLogger {
	return &ZapLogger{sugar: l.Sugar()}
}

// NewProductionZapLogger is a convenience constructor: production
// encoding, info level by default.
func NewProductionZapLogger() (*ZapLogger, error) {
	l, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}

	return NewZapLogger(l), nil
}

func (l *ZapLogger) Info(args ...any) { l.sugar.Info(args...) }
func (l *ZapLogger) Infof(format string, args ...any) { l.sugar.Infof(format, args...) }
func (l *ZapLogger) Warn(args ...any) { l.sugar.Warn(args...) }
func (l *ZapLogger) Warnf(format string, args ...any) { l.sugar.Warnf(format, args...) }
func (l *ZapLogger) Error(args ...any) { l.sugar.Error(args...) }
func (l *ZapLogger) Errorf(format string, args ...any) { l.sugar.Errorf(format, args...) }
func (l *ZapLogger) Debug(args ...any) { l.sugar.Debug(args...) }
func (l *ZapLogger) Debugf(format string, args ...any) { l.sugar.Debugf(format, args...) }
func (l *ZapLogger) Fatal(args ...any) { l.sugar.Fatal(args...) }
func (l *ZapLogger) Fatalf(format string, args ...any) { l.sugar.Fatalf(format, args...) }
func (l *ZapLogger) Sync() error { return l.sugar.Sync() }

//nolint:ireturn
func (l *ZapLogger) WithFields(fields ...any) Logger {
	return &ZapLogger{sugar: l.sugar.With(fields...)}
}
