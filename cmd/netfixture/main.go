// Command netfixture exposes the netfixture helpers to shell-based test
// fixtures: print free ports, and wait for servers to start listening.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/giantswarm/netfixture"
)

const (
	exitOK         = 0
	exitFailure    = 1
	exitConnection = 2
	exitResource   = 3
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "netfixture:", err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps an error to the process exit status.
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, netfixture.ErrConnection):
		return exitConnection
	case errors.Is(err, netfixture.ErrResource), errors.Is(err, netfixture.ErrNoFreePort):
		return exitResource
	default:
		return exitFailure
	}
}
