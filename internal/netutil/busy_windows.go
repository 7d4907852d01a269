//go:build windows

package netutil

import (
	"errors"
	"syscall"
)

const (
	wsaeAccess    = syscall.Errno(10013)
	wsaeAddrInUse = syscall.Errno(10048)
)

// isPortUnusable reports whether a listen error means this particular port
// cannot be bound, so the next candidate should be tried.
func isPortUnusable(err error) bool {
	return errors.Is(err, wsaeAddrInUse) || errors.Is(err, wsaeAccess) ||
		errors.Is(err, syscall.EADDRINUSE) || errors.Is(err, syscall.EACCES)
}
