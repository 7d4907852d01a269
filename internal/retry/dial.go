package retry

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/giantswarm/netfixture/internal/core"
	"github.com/giantswarm/netfixture/internal/sentinel"
	"k8s.io/apimachinery/pkg/util/wait"
)

// Sentinel errors returned by Dial for invalid configuration.
const (
	// ErrAttemptsNotPositive indicates a non-positive attempt cap.
	ErrAttemptsNotPositive = sentinel.Error("max attempts must be positive")

	// ErrDelayNotPositive indicates a non-positive retry delay.
	ErrDelayNotPositive = sentinel.Error("retry delay must be positive")

	// ErrNoDialFunc indicates a Config without a Dial function.
	ErrNoDialFunc = sentinel.Error("dial function must not be nil")
)

// DialFunc opens a connection. net.Dialer.DialContext satisfies it.
type DialFunc func(ctx context.Context, network, addr string) (net.Conn, error)

// RetryHook observes a refused attempt that is about to be retried. attempt
// is 1-based.
type RetryHook func(attempt int, err error)

// Config configures Dial.
type Config struct {
	MaxAttempts int           // Total dial attempts, including the first
	Delay       time.Duration // Fixed sleep between attempts
	Dial        DialFunc      // Opens one connection attempt
	OnRetry     RetryHook     // Optional
	Logger      *slog.Logger  // Optional (defaults to core.Logger())
}

func (c Config) validate() error {
	if c.MaxAttempts <= 0 {
		return ErrAttemptsNotPositive
	}
	if c.Delay <= 0 {
		return ErrDelayNotPositive
	}
	if c.Dial == nil {
		return ErrNoDialFunc
	}
	return nil
}

// Dial connects to addr over TCP.
//
// A refused attempt is retried after cfg.Delay until cfg.MaxAttempts attempts
// have been made, so a dead address costs (MaxAttempts-1)*Delay. Any other
// dial error is returned after the attempt that produced it. All failures are
// reported as *core.ConnectionError; when the budget runs out it wraps the
// last refusal and matches core.ErrRetriesExhausted.
//
// ctx bounds the whole loop, sleeps included.
func Dial(ctx context.Context, cfg Config, addr string) (net.Conn, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	log := core.LoggerOr(cfg.Logger)

	var (
		conn     net.Conn
		attempt  int
		lastErr  error
		fatalErr error
	)

	backoff := wait.Backoff{
		Duration: cfg.Delay,
		Factor:   1,
		Steps:    cfg.MaxAttempts,
	}

	// The condition runs sequentially, so the captured state needs no locking.
	err := wait.ExponentialBackoffWithContext(ctx, backoff, func(attemptCtx context.Context) (bool, error) {
		attempt++
		c, err := cfg.Dial(attemptCtx, "tcp", addr)
		if err == nil {
			conn = c
			return true, nil
		}
		lastErr = err

		if !IsConnRefused(err) {
			fatalErr = err
			return false, err
		}

		log.Debug("connection refused", "addr", addr, "attempt", attempt, "max_attempts", cfg.MaxAttempts)
		if attempt < cfg.MaxAttempts && cfg.OnRetry != nil {
			cfg.OnRetry(attempt, err)
		}
		return false, nil
	})

	switch {
	case err == nil && conn != nil:
		if attempt > 1 {
			log.Debug("connected after retries", "addr", addr, "attempts", attempt)
		}
		return conn, nil
	case ctx.Err() != nil:
		// A dial interrupted by cancellation fails with its own error; report
		// the cancellation instead.
		return nil, &core.ConnectionError{Addr: addr, Attempts: attempt, Err: ctx.Err()}
	case fatalErr != nil:
		return nil, &core.ConnectionError{Addr: addr, Attempts: attempt, Err: fatalErr}
	case attempt >= cfg.MaxAttempts && lastErr != nil:
		return nil, &core.ConnectionError{Addr: addr, Attempts: attempt, Exhausted: true, Err: lastErr}
	default:
		// Reached only if the wait package stops early for a reason of its own.
		if err == nil {
			err = fmt.Errorf("stopped after %d attempts", attempt)
		}
		return nil, &core.ConnectionError{Addr: addr, Attempts: attempt, Err: err}
	}
}
