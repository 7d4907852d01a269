//go:build !windows

package netutil

import (
	"errors"
	"syscall"
)

// isPortUnusable reports whether a listen error means this particular port
// cannot be bound, so the next candidate should be tried.
func isPortUnusable(err error) bool {
	return errors.Is(err, syscall.EADDRINUSE) || errors.Is(err, syscall.EACCES)
}
