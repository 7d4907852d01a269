package netfixture

import "github.com/giantswarm/netfixture/internal/core"

// Sentinel errors for errors.Is.
const (
	// ErrResource matches any *ResourceError: the OS could not provide a
	// socket or a port.
	ErrResource = core.ErrResource

	// ErrConnection matches any *ConnectionError.
	ErrConnection = core.ErrConnection

	// ErrRetriesExhausted matches a *ConnectionError returned after every
	// attempt was refused.
	ErrRetriesExhausted = core.ErrRetriesExhausted

	// ErrNoFreePort is returned by an Allocator that has tried every
	// candidate port.
	ErrNoFreePort = core.ErrNoFreePort

	// ErrAllocatorClosed is returned by Allocator methods after Close.
	ErrAllocatorClosed = core.ErrAllocatorClosed

	// ErrServerExited is returned by StartServer when the process exits
	// before its address accepts a connection.
	ErrServerExited = core.ErrServerExited
)

// ResourceError reports an OS-level failure to create or bind a socket. It is
// never retried. Unwrap yields the OS error.
type ResourceError = core.ResourceError

// ConnectionError reports a failed connect. Attempts is the number of dials
// made; Err is the error of the last one. When Exhausted is set every attempt
// was refused and Err is the last refusal.
type ConnectionError = core.ConnectionError
