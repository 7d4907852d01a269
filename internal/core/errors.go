package core

import (
	"fmt"

	"github.com/giantswarm/netfixture/internal/sentinel"
)

const (
	// ErrResource matches every *ResourceError.
	ErrResource = sentinel.Error("socket resource error")

	// ErrConnection matches every *ConnectionError.
	ErrConnection = sentinel.Error("connection error")

	// ErrRetriesExhausted matches a *ConnectionError returned because every
	// attempt was refused.
	ErrRetriesExhausted = sentinel.Error("connection retries exhausted")

	// ErrNoFreePort is returned when every candidate port is reserved, leased
	// or already bound.
	ErrNoFreePort = sentinel.Error("no free port available")

	// ErrAllocatorClosed is returned by Allocator methods after Close.
	ErrAllocatorClosed = sentinel.Error("allocator is closed")

	// ErrServerExited is returned when a server process exits before it
	// accepts connections.
	ErrServerExited = sentinel.Error("server exited before accepting connections")
)

// ResourceError reports that the OS could not provide a socket or a port.
// It is never retried.
type ResourceError struct {
	// Op names the failed step, e.g. "listen tcp :0".
	Op  string
	Err error
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrResource, e.Op, e.Err)
}

func (e *ResourceError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrResource.
func (e *ResourceError) Is(target error) bool {
	return target == ErrResource
}

// ConnectionError reports a failed connection attempt sequence. Err is the
// error of the last attempt: the OS refusal when retries ran out, the first
// non-refusal error, or the context error on cancellation.
type ConnectionError struct {
	Addr     string
	Attempts int
	// Exhausted is set when the attempt budget ran out on refusals.
	Exhausted bool
	Err       error
}

func (e *ConnectionError) Error() string {
	if e.Exhausted {
		return fmt.Sprintf("connect %s: %s after %d attempts: %v", e.Addr, ErrRetriesExhausted, e.Attempts, e.Err)
	}
	return fmt.Sprintf("connect %s: attempt %d: %v", e.Addr, e.Attempts, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrConnection, or ErrRetriesExhausted when the
// budget ran out.
func (e *ConnectionError) Is(target error) bool {
	switch target {
	case ErrConnection:
		return true
	case ErrRetriesExhausted:
		return e.Exhausted
	default:
		return false
	}
}

var (
	_ interface{ Is(error) bool } = (*ResourceError)(nil)
	_ interface{ Is(error) bool } = (*ConnectionError)(nil)
)
