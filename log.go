package netfixture

import (
	"log/slog"

	"github.com/giantswarm/netfixture/internal/core"
)

// SetLogger replaces the package-level logger used when a Connector or
// Allocator has no logger of its own. The logger should already carry any
// attributes the caller wants; netfixture adds none.
//
// If l is nil, the logger resets to slog.Default() with a
// "component=netfixture" attribute, derived on the next use and then cached.
// Call SetLogger(nil) after slog.SetDefault() to pick up the change.
//
// SetLogger is safe to call concurrently with other netfixture operations.
func SetLogger(l *slog.Logger) {
	core.SetLogger(l)
}
