//go:build windows

package retry

import (
	"errors"
	"syscall"
)

const wsaeConnRefused = syscall.Errno(10061)

// IsConnRefused reports whether err means nothing was listening at the
// target address.
func IsConnRefused(err error) bool {
	return errors.Is(err, wsaeConnRefused) || errors.Is(err, syscall.ECONNREFUSED)
}
