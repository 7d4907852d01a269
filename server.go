package netfixture

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os/exec"
	"path/filepath"
	"sync"

	"github.com/giantswarm/netfixture/internal/core"
	"github.com/giantswarm/netfixture/internal/process"
)

// Server is a child process that serves TCP on a known address. It is
// returned by StartServer once the address accepts connections.
type Server struct {
	mu   sync.Mutex // serializes Stop
	proc *process.Process
	addr string
	conn net.Conn
}

// StartServer starts cmd and waits until addr accepts a TCP connection,
// retrying refusals with the policy configured by opts. The caller sets up
// cmd beforehand, typically passing a port from AllocateTCPPort in its
// arguments or environment.
//
// The connection that proved the server ready stays open and is available
// from Conn. Servers that accept a single client, such as nc -l, are served
// through it.
//
// If the process exits first, StartServer returns an error matching
// ErrServerExited that also wraps the *exec.ExitError, if any. On any error
// the process is stopped.
func StartServer(ctx context.Context, cmd *exec.Cmd, addr string, opts ...ConnectorOption) (*Server, error) {
	if cmd == nil {
		return nil, process.ErrNilCmd
	}
	c := NewConnector(opts...)

	proc := process.New(filepath.Base(cmd.Path), c.cfg.logger)
	if err := proc.Start(cmd); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)
	go func() {
		select {
		case <-proc.Exited():
			cancel(core.ErrServerExited)
		case <-ctx.Done():
		}
	}()

	conn, err := c.ConnectWithRetry(ctx, addr)
	if err != nil {
		if errors.Is(context.Cause(ctx), core.ErrServerExited) {
			err = exitedError(proc.Name(), addr, proc.Err())
		}
		if stopErr := proc.Stop(DefaultStopTimeout); stopErr != nil {
			core.LoggerOr(c.cfg.logger).Debug("stop server after failed start", "process", proc.Name(), "error", stopErr)
		}
		return nil, err
	}
	return &Server{proc: proc, addr: addr, conn: conn}, nil
}

func exitedError(name, addr string, waitErr error) error {
	if waitErr == nil {
		return fmt.Errorf("server %s for %s: %w: exit status 0", name, addr, core.ErrServerExited)
	}
	return fmt.Errorf("server %s for %s: %w: %w", name, addr, core.ErrServerExited, waitErr)
}

// Addr returns the address the server accepted a connection on.
func (s *Server) Addr() string {
	return s.addr
}

// Pid returns the OS process id of the server.
func (s *Server) Pid() int {
	return s.proc.Pid()
}

// Exited returns a channel closed when the server process exits.
func (s *Server) Exited() <-chan struct{} {
	return s.proc.Exited()
}

// Conn returns the connection StartServer opened to Addr. It belongs to the
// Server: the caller may read, write and close it, and Stop closes it.
func (s *Server) Conn() net.Conn {
	return s.conn
}

// Stop closes Conn, then terminates the server with SIGTERM, escalating to
// SIGKILL, and waits at most DefaultStopTimeout. A process that already
// exited on its own with a failure status reports it. Stop may be called
// more than once.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	// The caller may have closed it already.
	_ = s.conn.Close()
	return s.proc.Stop(DefaultStopTimeout)
}
