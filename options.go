package netfixture

import (
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/giantswarm/netfixture/internal/portrange"
)

// requirePositive panics if v <= 0 with a descriptive message.
func requirePositive[T int | time.Duration](name string, v T) {
	if v <= 0 {
		panic(fmt.Sprintf("netfixture: %s must be greater than 0, got %v", name, v))
	}
}

// requireNonEmpty panics if s is empty with a descriptive message.
func requireNonEmpty(name, s string) {
	if s == "" {
		panic(fmt.Sprintf("netfixture: %s must not be empty", name))
	}
}

// ConnectorOption configures a Connector during NewConnector.
//
// The With* constructors panic on invalid values. Option values are nearly
// always constants in test code, so a bad one is a programmer error and
// failing at construction beats an error every caller would treat as fatal.
type ConnectorOption func(*connectorConfig)

// WithMaxAttempts sets the total number of dial attempts, the first one
// included. Default: DefaultMaxAttempts.
//
// Panics if n <= 0.
func WithMaxAttempts(n int) ConnectorOption {
	requirePositive("max attempts", n)
	return func(c *connectorConfig) {
		c.maxAttempts = n
	}
}

// WithRetryDelay sets the fixed pause between refused attempts.
// Default: DefaultRetryDelay.
//
// Panics if d <= 0.
func WithRetryDelay(d time.Duration) ConnectorOption {
	requirePositive("retry delay", d)
	return func(c *connectorConfig) {
		c.retryDelay = d
	}
}

// WithDialTimeout bounds each dial attempt. It overrides the Timeout of a
// dialer passed with WithDialer. Default: the dialer's own Timeout, or
// DefaultDialTimeout when that is zero.
//
// Panics if d <= 0.
func WithDialTimeout(d time.Duration) ConnectorOption {
	requirePositive("dial timeout", d)
	return func(c *connectorConfig) {
		c.dialTimeout = d
	}
}

// WithDialer sets the dialer used for each attempt, e.g. to pin LocalAddr or
// install a Control hook. The Connector keeps a copy; later changes to d are
// not seen.
//
// Panics if d is nil.
func WithDialer(d *net.Dialer) ConnectorOption {
	if d == nil {
		panic("netfixture: dialer must not be nil")
	}
	return func(c *connectorConfig) {
		dialer := *d
		c.dialer = &dialer
	}
}

// WithRetryHook installs fn, called after every refused attempt that will be
// retried, before the pause. attempt is 1-based. fn runs on the connecting
// goroutine.
//
// Panics if fn is nil.
func WithRetryHook(fn func(attempt int, err error)) ConnectorOption {
	if fn == nil {
		panic("netfixture: retry hook must not be nil")
	}
	return func(c *connectorConfig) {
		c.onRetry = fn
	}
}

// WithConnectorLogger sets the logger for one Connector. Default: the
// package logger (see SetLogger).
//
// Panics if l is nil.
func WithConnectorLogger(l *slog.Logger) ConnectorOption {
	if l == nil {
		panic("netfixture: logger must not be nil")
	}
	return func(c *connectorConfig) {
		c.logger = l
	}
}

// AllocatorOption configures an Allocator during NewAllocator. Like
// ConnectorOption, the With* constructors panic on invalid values.
type AllocatorOption func(*allocatorConfig)

// WithHost sets the host the Allocator binds when probing ports.
// Default: DefaultHost.
//
// Panics if host is empty.
func WithHost(host string) AllocatorOption {
	requireNonEmpty("host", host)
	return func(c *allocatorConfig) {
		c.host = host
	}
}

// WithPortRange restricts allocation to the ports in spec, a comma-separated
// list of "N", "N1-N2", "-N2" or "N1-" items, e.g. "20000-20999,30000".
// Without it the kernel picks from its ephemeral range.
//
// Panics if spec is not a valid port specification.
func WithPortRange(spec string) AllocatorOption {
	set, err := portrange.Parse(spec)
	if err != nil {
		panic(fmt.Sprintf("netfixture: invalid port range %q: %v", spec, err))
	}
	return func(c *allocatorConfig) {
		c.portRange = set
	}
}

// WithLockDir makes every reservation hold an exclusive file lock named
// port-<n>.lock in dir until it is released. Allocators in other processes
// using the same dir skip leased ports. The directory is created if missing.
//
// Panics if dir is empty.
func WithLockDir(dir string) AllocatorOption {
	requireNonEmpty("lock directory", dir)
	return func(c *allocatorConfig) {
		c.lockDir = dir
	}
}

// WithAllocatorLogger sets the logger for one Allocator. Default: the
// package logger (see SetLogger).
//
// Panics if l is nil.
func WithAllocatorLogger(l *slog.Logger) AllocatorOption {
	if l == nil {
		panic("netfixture: logger must not be nil")
	}
	return func(c *allocatorConfig) {
		c.logger = l
	}
}

// ValidatePortRange reports whether spec is accepted by WithPortRange,
// for callers that take the range from user input.
func ValidatePortRange(spec string) error {
	_, err := portrange.Parse(spec)
	return err
}
