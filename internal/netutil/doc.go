// Package netutil allocates TCP ports for test fixtures.
//
// EphemeralPort is the bare bind-to-port-0 trick. PortRegistry builds on it:
// it remembers which ports this process handed out, can restrict allocation to
// a portrange.Set, and can take per-port flock leases in a shared directory so
// separate test binaries on one host do not hand out the same port.
package netutil
