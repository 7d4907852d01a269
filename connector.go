package netfixture

import (
	"context"
	"log/slog"
	"net"
	"time"

	"github.com/giantswarm/netfixture/internal/core"
	"github.com/giantswarm/netfixture/internal/retry"
	"golang.org/x/sync/errgroup"
)

// connectorConfig holds the settings applied by ConnectorOptions.
type connectorConfig struct {
	maxAttempts int
	retryDelay  time.Duration
	dialTimeout time.Duration // 0: keep the dialer's own timeout
	dialer      *net.Dialer
	onRetry     func(attempt int, err error)
	logger      *slog.Logger
}

func defaultConnectorConfig() connectorConfig {
	return connectorConfig{
		maxAttempts: DefaultMaxAttempts,
		retryDelay:  DefaultRetryDelay,
	}
}

// Connector dials TCP addresses, retrying while the target refuses
// connections. It pairs a dialer (the caller's socket settings) with a fixed
// retry policy. A Connector is immutable and safe for concurrent use.
type Connector struct {
	cfg    connectorConfig
	dialer *net.Dialer
}

// NewConnector returns a Connector with the defaults overridden by opts.
func NewConnector(opts ...ConnectorOption) *Connector {
	cfg := defaultConnectorConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	dialer := cfg.dialer
	if dialer == nil {
		dialer = &net.Dialer{}
	}
	switch {
	case cfg.dialTimeout > 0:
		dialer.Timeout = cfg.dialTimeout
	case dialer.Timeout == 0:
		dialer.Timeout = DefaultDialTimeout
	}

	return &Connector{cfg: cfg, dialer: dialer}
}

// MaxAttempts returns the attempt cap.
func (c *Connector) MaxAttempts() int { return c.cfg.maxAttempts }

// RetryDelay returns the pause between refused attempts.
func (c *Connector) RetryDelay() time.Duration { return c.cfg.retryDelay }

// ConnectWithRetry dials addr over TCP. A refused attempt is retried after
// RetryDelay until MaxAttempts attempts have been made; any other error is
// returned at once. On success the caller owns the connection. On failure no
// socket is left open.
//
// Errors are *ConnectionError. After the budget is spent the error matches
// ErrRetriesExhausted and unwraps to the last refusal. Canceling ctx stops
// the loop, including a pending pause.
func (c *Connector) ConnectWithRetry(ctx context.Context, addr string) (net.Conn, error) {
	return retry.Dial(ctx, retry.Config{
		MaxAttempts: c.cfg.maxAttempts,
		Delay:       c.cfg.retryDelay,
		Dial:        c.dialer.DialContext,
		OnRetry:     c.cfg.onRetry,
		Logger:      c.cfg.logger,
	}, addr)
}

// WaitForListeners connects to every address concurrently with
// ConnectWithRetry, closes each connection once it is established, and
// returns the first failure. The first failure cancels the remaining
// attempts.
func (c *Connector) WaitForListeners(ctx context.Context, addrs ...string) error {
	log := core.LoggerOr(c.cfg.logger)

	g, gCtx := errgroup.WithContext(ctx)
	for _, addr := range addrs {
		g.Go(func() error {
			conn, err := c.ConnectWithRetry(gCtx, addr)
			if err != nil {
				return err
			}
			if err := conn.Close(); err != nil {
				log.Warn("close probe connection", "addr", addr, "error", err)
			}
			return nil
		})
	}
	return g.Wait()
}
