package core

import (
	"log/slog"
	"sync/atomic"
)

// logger is the logger installed through SetLogger. Nil means none was set.
var logger atomic.Pointer[slog.Logger]

// defaultLogger caches slog.Default() tagged with the netfixture component so
// Logger does not allocate on every call. It is cleared by SetLogger so a
// later slog.SetDefault can be picked up with SetLogger(nil).
var defaultLogger atomic.Pointer[slog.Logger]

// Logger returns the package-level logger. It never returns nil and is safe
// for concurrent use.
func Logger() *slog.Logger {
	if l := logger.Load(); l != nil {
		return l
	}
	if l := defaultLogger.Load(); l != nil {
		return l
	}
	l := slog.Default().With("component", "netfixture")
	if defaultLogger.CompareAndSwap(nil, l) {
		return l
	}
	if l2 := defaultLogger.Load(); l2 != nil {
		return l2
	}
	return l
}

// LoggerOr returns l when it is non-nil and Logger() otherwise.
func LoggerOr(l *slog.Logger) *slog.Logger {
	if l != nil {
		return l
	}
	return Logger()
}

// SetLogger replaces the package-level logger. A nil l restores the default,
// re-derived from slog.Default() on the next Logger call.
func SetLogger(l *slog.Logger) {
	logger.Store(l)
	defaultLogger.Store(nil)
}
