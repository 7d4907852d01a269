package process

import (
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"syscall"
	"time"

	"github.com/giantswarm/netfixture/internal/core"
	"github.com/giantswarm/netfixture/internal/sentinel"
)

// ErrAlreadyStarted is returned by Start on a Process that was started before.
const ErrAlreadyStarted = sentinel.Error("process already started")

// ErrNilCmd is returned by Start when cmd is nil.
const ErrNilCmd = sentinel.Error("cmd must not be nil")

// ErrStopTimeout is returned by Stop when the process survives SIGKILL for
// longer than killDrainTimeout.
const ErrStopTimeout = sentinel.Error("process did not exit")

// termGracePeriod caps how long Stop waits after SIGTERM before SIGKILL.
const termGracePeriod = 5 * time.Second

// killDrainTimeout bounds the wait for cmd.Wait after the stop timeout.
const killDrainTimeout = 10 * time.Second

// Process is a started child process. It is started at most once.
//
// Start and Stop must not be called concurrently. Exited, Err and Pid are
// safe from any goroutine once Start returned.
type Process struct {
	name    string
	log     *slog.Logger
	cmd     *exec.Cmd
	exited  chan struct{}
	waitErr error // written before exited is closed
}

// New returns an unstarted Process. name labels log entries and errors.
// A nil logger selects the package logger.
//
// Panics if name is empty.
func New(name string, logger *slog.Logger) *Process {
	if name == "" {
		panic("netfixture: process name must not be empty")
	}
	return &Process{name: name, log: core.LoggerOr(logger)}
}

// Name returns the label given to New.
func (p *Process) Name() string {
	return p.name
}

// Start starts cmd and a single goroutine that waits for it. The caller
// configures cmd (Path, Args, Env, Stdout, Stderr) beforehand.
func (p *Process) Start(cmd *exec.Cmd) error {
	if cmd == nil {
		return ErrNilCmd
	}
	if p.cmd != nil {
		return fmt.Errorf("%s: %w", p.name, ErrAlreadyStarted)
	}

	configureSysProcAttr(cmd)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", p.name, err)
	}

	p.cmd = cmd
	p.exited = make(chan struct{})
	go func() {
		p.waitErr = cmd.Wait()
		close(p.exited)
	}()

	p.log.Debug("process started", "process", p.name, "pid", cmd.Process.Pid)
	return nil
}

// Pid returns the OS process id, or 0 before Start.
func (p *Process) Pid() int {
	if p.cmd == nil || p.cmd.Process == nil {
		return 0
	}
	return p.cmd.Process.Pid
}

// Exited returns a channel closed when the process exits, or nil before
// Start.
func (p *Process) Exited() <-chan struct{} {
	return p.exited
}

// Err returns the result of cmd.Wait. It is only meaningful after Exited is
// closed.
func (p *Process) Err() error {
	return p.waitErr
}

// Stop sends SIGTERM, then SIGKILL once min(timeout, termGracePeriod) has
// passed, and waits for the process to exit. Exits caused by either signal
// count as success. Stopping a process that already exited reports how it
// exited. Stop before Start returns nil.
func (p *Process) Stop(timeout time.Duration) error {
	if p.cmd == nil {
		return nil
	}

	select {
	case <-p.exited:
		return exitResult(p.waitErr, p.name)
	default:
	}

	pid := p.cmd.Process.Pid
	if err := p.cmd.Process.Signal(syscall.SIGTERM); err != nil {
		// No SIGTERM on this platform, or the process just exited.
		_ = p.cmd.Process.Kill()
	}

	killTimer := time.AfterFunc(min(termGracePeriod, timeout), func() {
		p.log.Debug("process ignored SIGTERM, killing", "process", p.name, "pid", pid)
		_ = p.cmd.Process.Kill()
	})
	defer killTimer.Stop()

	deadline := time.NewTimer(timeout + killDrainTimeout)
	defer deadline.Stop()

	select {
	case <-p.exited:
		p.log.Debug("process stopped", "process", p.name, "pid", pid)
		return exitResult(p.waitErr, p.name)
	case <-deadline.C:
		p.log.Warn("process stop failed; process may be orphaned", "process", p.name, "pid", pid)
		return fmt.Errorf("%s (pid %d): %w", p.name, pid, ErrStopTimeout)
	}
}

// exitResult interprets a cmd.Wait error. Deaths by SIGTERM or SIGKILL are
// the expected outcome of Stop and map to nil.
func exitResult(err error, name string) error {
	if err == nil {
		return nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if status, ok := exitErr.Sys().(syscall.WaitStatus); ok && status.Signaled() {
			if sig := status.Signal(); sig == syscall.SIGTERM || sig == syscall.SIGKILL {
				return nil
			}
		}
	}
	return fmt.Errorf("%s: %w", name, err)
}
