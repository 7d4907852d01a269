package netutil

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/gofrs/flock"
)

// leasePath returns the lock file guarding port inside dir.
func leasePath(dir string, port int) string {
	return filepath.Join(dir, fmt.Sprintf("port-%d.lock", port))
}

// tryLease takes an exclusive, non-blocking lock on the lease file for port.
// It returns (nil, nil) when another holder owns the lease.
func tryLease(dir string, port int) (*flock.Flock, error) {
	fl := flock.New(leasePath(dir, port))

	locked, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock lease for port %d: %w", port, err)
	}
	if !locked {
		return nil, nil
	}
	return fl, nil
}

// dropLease unlocks and closes a lease. The lock file stays on disk: removing
// it could race with another process that has just opened the same path.
func dropLease(logger *slog.Logger, fl *flock.Flock) {
	if fl == nil {
		return
	}
	if err := fl.Close(); err != nil {
		logger.Debug("failed to release port lease", "path", fl.Path(), "error", err)
	}
}
