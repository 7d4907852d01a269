//go:build !windows

package retry

import (
	"errors"
	"syscall"
)

// IsConnRefused reports whether err means nothing was listening at the
// target address.
func IsConnRefused(err error) bool {
	return errors.Is(err, syscall.ECONNREFUSED)
}
