// Package process runs a child process for the lifetime of a fixture.
//
// A Process starts an *exec.Cmd, broadcasts its exit on a channel that any
// number of goroutines can select on, and stops it with SIGTERM followed by
// SIGKILL after a grace period.
package process
