// Package mlog provides the logging abstraction used across the engine.
package mlog

// Logger is the common interface for log implementations. Every
// component that wants to log takes a Logger rather than a concrete
// backend, and defaults to NoneLogger when none is supplied.
type Logger interface {
	Info(args ...any)
	Infof(format string, args ...any)

	Warn(args ...any)
	Warnf(format string, args ...any)

	Error(args ...any)
	Errorf(format string, args ...any)

	Debug(args ...any)
	Debugf(format string, args ...any)

	Fatal(args ...any)
	Fatalf(format string, args ...any)

	// WithFields returns a Logger that tags every subsequent entry with
	// the given key/value pairs.
	WithFields(fields ...any) Logger

	Sync() error
}

// NoneLogger discards everything. It is the zero-value default so a
// Session, store, or journal never has to nil-check its logger.
type NoneLogger struct{}

func (l *NoneLogger) Info(args ...any) {}
func (l *NoneLogger) Infof(format string, args ...any) {}
func (l *NoneLogger) Warn(args ...any) {}
func (l *NoneLogger) Warnf(format string, args ...any) {}
func (l *NoneLogger) Error(args ...any) {}
func (l *NoneLogger) Errorf(format string, args ...any) {}
func (l *NoneLogger) Debug(args ...any) {}
func (l *NoneLogger) Debugf(format string, args ...any) {}
func (l *NoneLogger) Fatal(args ...any) {}
func (l *NoneLogger) Fatalf(format string, args ...any) {}
func (l *NoneLogger) Sync() error { return nil }

//nolint:ireturn
func (l *NoneLogger) WithFields(fields ...any) Logger { return l }
