package loggical

import "sync/atomic"

// Facade: package-level logging over a process-wide default logger.
// Usage: loggical.Info("listening on", addr)

var defaultLogger atomic.Pointer[Logger]

// SetDefault replaces the package-level default logger.
func SetDefault(l *Logger) { defaultLogger.Store(l) }

// Default returns the package-level logger, building a console-backed one
// from the environment and runtime defaults on first use.
func Default() *Logger {
	if l := defaultLogger.Load(); l != nil {
		return l
	}
	l := New(Options{})
	if defaultLogger.CompareAndSwap(nil, l) {
		return l
	}
	return defaultLogger.Load()
}

func Debug(msgs ...any)     { Default().Debug(msgs...) }
func Info(msgs ...any)      { Default().Info(msgs...) }
func Warn(msgs ...any)      { Default().Warn(msgs...) }
func Error(msgs ...any)     { Default().Error(msgs...) }
func Highlight(msgs ...any) { Default().Highlight(msgs...) }
func Fatal(msgs ...any)     { Default().Fatal(msgs...) }
