package netfixture

import "time"

// Default configuration values for SafeConnect and NewConnector.
const (
	// DefaultMaxAttempts is the total number of dial attempts, the first one
	// included, before SafeConnect gives up on a refusing address. It counts
	// dials, not retries: 10 means 9 retries and 9 pauses.
	DefaultMaxAttempts = 10

	// DefaultRetryDelay is the fixed pause between refused attempts.
	DefaultRetryDelay = 200 * time.Millisecond

	// DefaultDialTimeout bounds a single dial attempt. Refusals on a local
	// address come back at once; this only matters for silent peers.
	DefaultDialTimeout = 5 * time.Second

	// DefaultStopTimeout bounds Server.Stop. SIGKILL follows SIGTERM after
	// at most 5s.
	DefaultStopTimeout = 10 * time.Second

	// DefaultHost is the bind host used by Allocator.
	DefaultHost = "127.0.0.1"

	// DefaultLockDirName is the directory name under os.TempDir() commonly
	// used with WithLockDir so that test binaries share one lease directory.
	DefaultLockDirName = "netfixture-ports"
)
