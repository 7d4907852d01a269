package netfixture

import (
	"net"
	"os/exec"
	"testing"
)

// PortForTest is AllocateTCPPort for test code: it fails tb instead of
// returning an error.
func PortForTest(tb testing.TB) int {
	tb.Helper()

	port, err := AllocateTCPPort()
	if err != nil {
		tb.Fatalf("allocate tcp port: %v", err)
	}
	return port
}

// ConnForTest is SafeConnect for test code. The connection is closed when tb
// finishes, and tb fails if the address never accepts.
func ConnForTest(tb testing.TB, addr string) net.Conn {
	tb.Helper()

	conn, err := SafeConnect(tb.Context(), addr)
	if err != nil {
		tb.Fatalf("connect %s: %v", addr, err)
	}
	tb.Cleanup(func() { _ = conn.Close() })
	return conn
}

// ServerForTest is StartServer for test code, bound to tb.Context(). The
// server is stopped and its Conn closed when tb finishes, and tb fails if it
// cannot be started or if it had crashed by then.
func ServerForTest(tb testing.TB, cmd *exec.Cmd, addr string, opts ...ConnectorOption) *Server {
	tb.Helper()

	srv, err := StartServer(tb.Context(), cmd, addr, opts...)
	if err != nil {
		tb.Fatalf("start server: %v", err)
	}
	tb.Cleanup(func() {
		if err := srv.Stop(); err != nil {
			tb.Errorf("stop server on %s: %v", addr, err)
		}
	})
	return srv
}
