// Package netfixture provides TCP helpers for tests that start servers and
// then talk to them.
//
// Two problems show up in nearly every such test: picking a port the server
// can bind, and connecting before the server has finished binding it.
// AllocateTCPPort solves the first with the usual bind-to-port-0 trick, and
// SafeConnect solves the second by retrying refused connections at a fixed
// interval.
//
// # Basic Usage
//
//	port, err := netfixture.AllocateTCPPort()
//	if err != nil {
//	    t.Fatal(err)
//	}
//
//	go startServer(port) // binds :port at some point
//
//	conn, err := netfixture.SafeConnectPort(ctx, port)
//	if err != nil {
//	    t.Fatal(err)
//	}
//	defer conn.Close()
//
// # Retry Policy
//
// Only "connection refused" is retried. It means the address is reachable but
// nothing listens there yet, which is exactly the startup race. Any other
// error (unreachable host, bad address, timeout) is returned after the first
// attempt. The defaults are DefaultMaxAttempts attempts DefaultRetryDelay
// apart; a Connector changes them.
//
// # Server Processes
//
// When the server is a separate binary, StartServer runs it and returns once
// its address accepts connections. A server that exits during startup fails
// the call with ErrServerExited instead of burning the retry budget. The
// connection that found the server ready is kept open, so a server that
// accepts one client is talked to through Server.Conn:
//
//	port := netfixture.PortForTest(t)
//	cmd := exec.Command("nc", "-l", "-p", strconv.Itoa(port))
//	srv := netfixture.ServerForTest(t, cmd, netfixture.LocalAddr(port))
//	fmt.Fprintln(srv.Conn(), "hello")
//
// # Known Limitation
//
// A port returned by AllocateTCPPort was free when the probing socket closed.
// Another process can bind it before the server under test does. The Allocator
// type narrows this window inside one process (a registry of handed-out ports)
// and across processes (flock leases in a shared directory, see WithLockDir),
// but only the real server's bind can close it.
package netfixture
