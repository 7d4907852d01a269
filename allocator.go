package netfixture

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/giantswarm/netfixture/internal/core"
	"github.com/giantswarm/netfixture/internal/netutil"
	"github.com/giantswarm/netfixture/internal/portrange"
)

// allocatorConfig holds the settings applied by AllocatorOptions.
type allocatorConfig struct {
	host      string
	portRange *portrange.Set
	lockDir   string
	logger    *slog.Logger
}

func defaultAllocatorConfig() allocatorConfig {
	return allocatorConfig{host: DefaultHost}
}

// DefaultLockDir returns the shared lease directory under os.TempDir().
func DefaultLockDir() string {
	return filepath.Join(os.TempDir(), DefaultLockDirName)
}

// Allocator hands out TCP ports and remembers them until they are released,
// so it never returns a port twice while it is reserved. Unlike
// AllocateTCPPort it can draw from a fixed port range and coordinate with
// other processes through lease files.
//
// An Allocator is safe for concurrent use.
type Allocator struct {
	mu     sync.RWMutex // write-held by Close
	closed bool
	reg    *netutil.PortRegistry
}

// NewAllocator returns an Allocator configured by opts. It fails only when
// the lease directory cannot be created.
func NewAllocator(opts ...AllocatorOption) (*Allocator, error) {
	cfg := defaultAllocatorConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	reg, err := netutil.NewPortRegistry(netutil.RegistryConfig{
		Host:    cfg.host,
		Range:   cfg.portRange,
		LockDir: cfg.lockDir,
		Logger:  cfg.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("new allocator: %w", err)
	}
	return &Allocator{reg: reg}, nil
}

// Allocate reserves one free port. The port stays reserved until Release or
// Close.
func (a *Allocator) Allocate() (int, error) {
	ports, err := a.AllocateN(1)
	if err != nil {
		return 0, err
	}
	return ports[0], nil
}

// AllocateN reserves n distinct free ports. The probing listeners are all
// held open together, so the kernel cannot assign one port twice. On error
// nothing stays reserved.
//
// Errors: *ResourceError when the OS refuses a socket, ErrNoFreePort when
// every candidate is taken, ErrAllocatorClosed after Close.
func (a *Allocator) AllocateN(n int) ([]int, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		return nil, core.ErrAllocatorClosed
	}
	return a.reg.AllocatePorts(n)
}

// Release returns port to the pool and drops its lease. Releasing a port
// that is not reserved is a no-op.
func (a *Allocator) Release(port int) {
	a.reg.Release(port)
}

// Reserved returns the currently reserved ports in ascending order.
func (a *Allocator) Reserved() []int {
	return a.reg.Reserved()
}

// Close releases every reserved port. Allocation fails with
// ErrAllocatorClosed afterwards. Close is idempotent.
func (a *Allocator) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.closed = true
	a.reg.ReleaseAll()
	return nil
}
