package netfixture

import (
	"net"
	"time"
)

// ConnectorSnapshot is a copy of a Connector's settings for assertions in
// package netfixture_test.
type ConnectorSnapshot struct {
	MaxAttempts  int
	RetryDelay   time.Duration
	DialTimeout  time.Duration
	LocalAddr    net.Addr
	HasRetryHook bool
	HasLogger    bool
}

// SnapshotForTesting exposes the resolved configuration of c.
func (c *Connector) SnapshotForTesting() ConnectorSnapshot {
	return ConnectorSnapshot{
		MaxAttempts:  c.cfg.maxAttempts,
		RetryDelay:   c.cfg.retryDelay,
		DialTimeout:  c.dialer.Timeout,
		LocalAddr:    c.dialer.LocalAddr,
		HasRetryHook: c.cfg.onRetry != nil,
		HasLogger:    c.cfg.logger != nil,
	}
}

// AllocatorSnapshot is a copy of allocatorConfig after options are applied.
type AllocatorSnapshot struct {
	Host      string
	PortRange string
	LockDir   string
	HasLogger bool
}

// ApplyAllocatorOptionsForTesting applies opts to the default allocator
// configuration without creating an Allocator.
func ApplyAllocatorOptionsForTesting(opts ...AllocatorOption) AllocatorSnapshot {
	cfg := defaultAllocatorConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	snap := AllocatorSnapshot{
		Host:      cfg.host,
		LockDir:   cfg.lockDir,
		HasLogger: cfg.logger != nil,
	}
	if cfg.portRange != nil {
		snap.PortRange = cfg.portRange.String()
	}
	return snap
}
