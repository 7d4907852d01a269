package netfixture

import (
	"context"
	"net"
	"strconv"
	"sync"

	"github.com/giantswarm/netfixture/internal/netutil"
)

// defaultConnector backs the package-level connect functions.
var defaultConnector = sync.OnceValue(func() *Connector {
	return NewConnector()
})

// AllocateTCPPort returns a TCP port that was free a moment ago.
//
// It binds a socket to port 0 on the wildcard address, reads back the port
// the OS assigned and closes the socket before returning. The port is in the
// range 1-65535. It is not reserved: see the package documentation for the
// race this leaves open. OS failures are returned as *ResourceError.
func AllocateTCPPort() (int, error) {
	return netutil.EphemeralPort("")
}

// LocalAddr returns the loopback address 127.0.0.1:port.
func LocalAddr(port int) string {
	return net.JoinHostPort("127.0.0.1", strconv.Itoa(port))
}

// SafeConnect dials addr, retrying refused connections DefaultMaxAttempts
// times in total, DefaultRetryDelay apart. See Connector.ConnectWithRetry.
func SafeConnect(ctx context.Context, addr string) (net.Conn, error) {
	return defaultConnector().ConnectWithRetry(ctx, addr)
}

// SafeConnectPort is SafeConnect to LocalAddr(port).
func SafeConnectPort(ctx context.Context, port int) (net.Conn, error) {
	return SafeConnect(ctx, LocalAddr(port))
}

// WaitForListeners blocks until every address accepts a TCP connection,
// using the default retry policy for each. See Connector.WaitForListeners.
func WaitForListeners(ctx context.Context, addrs ...string) error {
	return defaultConnector().WaitForListeners(ctx, addrs...)
}
