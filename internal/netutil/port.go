package netutil

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net"
	"slices"
	"strconv"
	"sync"

	"github.com/giantswarm/netfixture/internal/core"
	"github.com/giantswarm/netfixture/internal/fileutil"
	"github.com/giantswarm/netfixture/internal/portrange"
	"github.com/gofrs/flock"
)

// maxPortRetries bounds how many kernel-assigned ports are tried before giving
// up when they keep colliding with reserved or leased ports.
const maxPortRetries = 20

// EphemeralPort binds host:0, reads back the port the OS assigned, closes the
// listener and returns the port. An empty host binds the wildcard address.
//
// The port was free when the listener closed. Nothing stops another process
// from binding it before the caller does.
func EphemeralPort(host string) (int, error) {
	addr := net.JoinHostPort(host, "0")
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return 0, &core.ResourceError{Op: "listen tcp " + addr, Err: err}
	}
	tcpAddr, ok := l.Addr().(*net.TCPAddr)
	if !ok {
		_ = l.Close()
		return 0, &core.ResourceError{Op: "listen tcp " + addr, Err: fmt.Errorf("unexpected address type: %T", l.Addr())}
	}
	if err := l.Close(); err != nil {
		return 0, &core.ResourceError{Op: "close listener on port " + strconv.Itoa(tcpAddr.Port), Err: err}
	}
	return tcpAddr.Port, nil
}

// RegistryConfig configures a PortRegistry.
type RegistryConfig struct {
	Host    string         // Bind host; empty binds every interface
	Range   *portrange.Set // Optional: only hand out ports from this set
	LockDir string         // Optional: directory for cross-process leases
	Logger  *slog.Logger   // Optional (defaults to core.Logger())
}

// PortRegistry tracks ports reserved by this process so two concurrent
// allocations never return the same port, even though each listener is
// closed before the port is returned. With a LockDir, every reservation also
// holds an exclusive flock lease that other processes honor.
type PortRegistry struct {
	mu      sync.Mutex
	ports   map[int]*flock.Flock // nil lease when LockDir is unset
	host    string
	rng     *portrange.Set
	lockDir string
	log     *slog.Logger
}

// NewPortRegistry creates a registry ready for use. It creates LockDir when
// it does not exist.
func NewPortRegistry(cfg RegistryConfig) (*PortRegistry, error) {
	if cfg.Range != nil && cfg.Range.Empty() {
		return nil, errors.New("port range must not be empty")
	}
	if cfg.LockDir != "" {
		if err := fileutil.EnsureDir(cfg.LockDir); err != nil {
			return nil, fmt.Errorf("prepare lease directory: %w", err)
		}
	}
	return &PortRegistry{
		ports:   make(map[int]*flock.Flock),
		host:    cfg.Host,
		rng:     cfg.Range,
		lockDir: cfg.LockDir,
		log:     core.LoggerOr(cfg.Logger),
	}, nil
}

// reserve registers port and, with a LockDir, takes its lease. It returns
// false when the port is already reserved here or leased elsewhere.
func (r *PortRegistry) reserve(port int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.ports[port]; ok {
		return false
	}

	var lease *flock.Flock
	if r.lockDir != "" {
		fl, err := tryLease(r.lockDir, port)
		if err != nil {
			r.log.Debug("port lease unavailable", "port", port, "error", err)
			return false
		}
		if fl == nil {
			r.log.Debug("port leased by another holder", "port", port)
			return false
		}
		lease = fl
	}

	r.ports[port] = lease
	return true
}

// Release forgets port and drops its lease. Releasing an unknown port is a
// no-op.
func (r *PortRegistry) Release(port int) {
	r.mu.Lock()
	lease, ok := r.ports[port]
	delete(r.ports, port)
	r.mu.Unlock()

	if ok {
		dropLease(r.log, lease)
	}
}

// ReleaseAll releases every reserved port.
func (r *PortRegistry) ReleaseAll() {
	for _, port := range r.Reserved() {
		r.Release(port)
	}
}

// Reserved returns the reserved ports in ascending order.
func (r *PortRegistry) Reserved() []int {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]int, 0, len(r.ports))
	for port := range r.ports {
		out = append(out, port)
	}
	slices.Sort(out)
	return out
}

// listen returns an open listener on a newly reserved port. The caller must
// close the listener, and Release the port when it is no longer needed.
func (r *PortRegistry) listen() (*net.TCPListener, int, error) {
	if r.rng != nil {
		return r.listenInRange()
	}
	return r.listenKernel()
}

// listenKernel asks the kernel for a free port, skipping reserved ones.
func (r *PortRegistry) listenKernel() (*net.TCPListener, int, error) {
	addr, err := net.ResolveTCPAddr("tcp", net.JoinHostPort(r.host, "0"))
	if err != nil {
		return nil, 0, &core.ResourceError{Op: "resolve " + r.host, Err: err}
	}

	for range maxPortRetries {
		l, err := net.ListenTCP("tcp", addr)
		if err != nil {
			return nil, 0, &core.ResourceError{Op: "listen tcp " + addr.String(), Err: err}
		}
		tcpAddr, ok := l.Addr().(*net.TCPAddr)
		if !ok {
			_ = l.Close()
			return nil, 0, &core.ResourceError{Op: "listen tcp " + addr.String(), Err: fmt.Errorf("unexpected address type: %T", l.Addr())}
		}
		if r.reserve(tcpAddr.Port) {
			return l, tcpAddr.Port, nil
		}
		r.log.Debug("port already reserved, retrying", "port", tcpAddr.Port)
		_ = l.Close()
	}
	return nil, 0, fmt.Errorf("allocate unique port: %w: exhausted %d attempts", core.ErrNoFreePort, maxPortRetries)
}

// listenInRange walks the configured set from a random starting port in
// ascending order, wrapping around after the last one, and binds the first
// port that is neither reserved nor busy.
func (r *PortRegistry) listenInRange() (*net.TCPListener, int, error) {
	ip, err := r.resolveIP()
	if err != nil {
		return nil, 0, err
	}

	count := r.rng.Count()
	port := r.rng.Nth(rand.IntN(count))
	for range count {
		l, err := r.tryRangePort(ip, int(port))
		if l != nil || err != nil {
			return l, int(port), err
		}
		if port = r.rng.Next(port); port == 0 {
			port = r.rng.First()
		}
	}
	return nil, 0, fmt.Errorf("allocate port in %s: %w", r.rng, core.ErrNoFreePort)
}

// tryRangePort reserves and binds port. It returns (nil, nil) when the port
// is reserved, leased or busy, so the caller moves on.
func (r *PortRegistry) tryRangePort(ip net.IP, port int) (*net.TCPListener, error) {
	if !r.reserve(port) {
		return nil, nil
	}

	l, err := net.ListenTCP("tcp", &net.TCPAddr{IP: ip, Port: port})
	if err == nil {
		return l, nil
	}
	r.Release(port)
	if !isPortUnusable(err) {
		return nil, &core.ResourceError{Op: "listen tcp " + net.JoinHostPort(r.host, strconv.Itoa(port)), Err: err}
	}
	r.log.Debug("port busy, trying next", "port", port, "error", err)
	return nil, nil
}

func (r *PortRegistry) resolveIP() (net.IP, error) {
	addr, err := net.ResolveTCPAddr("tcp", net.JoinHostPort(r.host, "0"))
	if err != nil {
		return nil, &core.ResourceError{Op: "resolve " + r.host, Err: err}
	}
	return addr.IP, nil
}

// AllocatePorts allocates n distinct free ports.
//
// All n listeners are held open together before any is closed, so the kernel
// cannot return the same port twice within one call. Every port stays
// reserved until Release.
func (r *PortRegistry) AllocatePorts(n int) ([]int, error) {
	if n <= 0 {
		return nil, fmt.Errorf("allocate ports: count must be positive, got %d", n)
	}

	listeners := make([]*net.TCPListener, 0, n)
	ports := make([]int, 0, n)

	closeAll := func() {
		for i, l := range listeners {
			if err := l.Close(); err != nil {
				r.log.Warn("close listener after port allocation", "port", ports[i], "error", err)
			}
		}
	}

	for i := range n {
		l, port, err := r.listen()
		if err != nil {
			// Close listeners before releasing, so no other goroutine can be
			// handed a port that is still bound here.
			closeAll()
			for _, p := range ports {
				r.Release(p)
			}
			return nil, fmt.Errorf("allocate port %d of %d: %w", i+1, n, err)
		}
		listeners = append(listeners, l)
		ports = append(ports, port)
	}

	closeAll()
	return ports, nil
}
