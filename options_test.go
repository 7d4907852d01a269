package netfixture_test

import (
	"bytes"
	"fmt"
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/giantswarm/netfixture"
)

// panicTestCase defines a test case for option validation panic tests.
type panicTestCase struct {
	name     string
	panics   bool
	panicMsg string
	fn       func()
}

// requirePanics calls fn and verifies it panics (or not) with the expected message.
func requirePanics(t *testing.T, shouldPanic bool, wantMsg string, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		if shouldPanic && r == nil {
			t.Fatal("expected panic but didn't get one")
		}
		if !shouldPanic && r != nil {
			t.Fatalf("unexpected panic: %v", r)
		}
		if shouldPanic && r != nil && wantMsg != "" {
			if msg := fmt.Sprint(r); msg != wantMsg {
				t.Fatalf("expected panic message %q, got %q", wantMsg, msg)
			}
		}
	}()
	fn()
}

// runPanicTests runs a slice of panic test cases using requirePanics.
func runPanicTests(t *testing.T, tests []panicTestCase) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			requirePanics(t, tt.panics, tt.panicMsg, tt.fn)
		})
	}
}

func TestWithMaxAttemptsPanicsOnInvalid(t *testing.T) {
	t.Parallel()
	runPanicTests(t, []panicTestCase{
		{
			name:     "zero",
			panics:   true,
			panicMsg: "netfixture: max attempts must be greater than 0, got 0",
			fn:       func() { netfixture.WithMaxAttempts(0) },
		},
		{
			name:     "negative",
			panics:   true,
			panicMsg: "netfixture: max attempts must be greater than 0, got -3",
			fn:       func() { netfixture.WithMaxAttempts(-3) },
		},
		{name: "one", fn: func() { netfixture.WithMaxAttempts(1) }},
		{name: "five", fn: func() { netfixture.WithMaxAttempts(5) }},
	})
}

func TestWithRetryDelayPanicsOnInvalid(t *testing.T) {
	t.Parallel()
	runPanicTests(t, []panicTestCase{
		{
			name:     "zero",
			panics:   true,
			panicMsg: "netfixture: retry delay must be greater than 0, got 0s",
			fn:       func() { netfixture.WithRetryDelay(0) },
		},
		{
			name:     "negative",
			panics:   true,
			panicMsg: "netfixture: retry delay must be greater than 0, got -200ms",
			fn:       func() { netfixture.WithRetryDelay(-200 * time.Millisecond) },
		},
		{name: "valid", fn: func() { netfixture.WithRetryDelay(time.Millisecond) }},
	})
}

func TestWithDialTimeoutPanicsOnInvalid(t *testing.T) {
	t.Parallel()
	runPanicTests(t, []panicTestCase{
		{
			name:     "zero",
			panics:   true,
			panicMsg: "netfixture: dial timeout must be greater than 0, got 0s",
			fn:       func() { netfixture.WithDialTimeout(0) },
		},
		{name: "valid", fn: func() { netfixture.WithDialTimeout(time.Second) }},
	})
}

func TestNilOptionArgumentsPanic(t *testing.T) {
	t.Parallel()
	runPanicTests(t, []panicTestCase{
		{
			name:     "dialer",
			panics:   true,
			panicMsg: "netfixture: dialer must not be nil",
			fn:       func() { netfixture.WithDialer(nil) },
		},
		{
			name:     "retry hook",
			panics:   true,
			panicMsg: "netfixture: retry hook must not be nil",
			fn:       func() { netfixture.WithRetryHook(nil) },
		},
		{
			name:     "connector logger",
			panics:   true,
			panicMsg: "netfixture: logger must not be nil",
			fn:       func() { netfixture.WithConnectorLogger(nil) },
		},
		{
			name:     "allocator logger",
			panics:   true,
			panicMsg: "netfixture: logger must not be nil",
			fn:       func() { netfixture.WithAllocatorLogger(nil) },
		},
	})
}

func TestAllocatorOptionsPanicOnInvalid(t *testing.T) {
	t.Parallel()
	runPanicTests(t, []panicTestCase{
		{
			name:     "empty host",
			panics:   true,
			panicMsg: "netfixture: host must not be empty",
			fn:       func() { netfixture.WithHost("") },
		},
		{
			name:     "empty lock dir",
			panics:   true,
			panicMsg: "netfixture: lock directory must not be empty",
			fn:       func() { netfixture.WithLockDir("") },
		},
		{
			name:   "bad range",
			panics: true,
			fn:     func() { netfixture.WithPortRange("70000") },
		},
		{
			name:   "empty range",
			panics: true,
			fn:     func() { netfixture.WithPortRange("") },
		},
		{name: "valid range", fn: func() { netfixture.WithPortRange("20000-20999,30000") }},
		{name: "valid host", fn: func() { netfixture.WithHost("::1") }},
	})
}

func TestConnectorDefaults(t *testing.T) {
	t.Parallel()

	snap := netfixture.NewConnector().SnapshotForTesting()
	want := netfixture.ConnectorSnapshot{
		MaxAttempts: netfixture.DefaultMaxAttempts,
		RetryDelay:  netfixture.DefaultRetryDelay,
		DialTimeout: netfixture.DefaultDialTimeout,
	}
	if snap != want {
		t.Errorf("defaults = %+v, want %+v", snap, want)
	}
	if netfixture.DefaultRetryDelay != 200*time.Millisecond {
		t.Errorf("DefaultRetryDelay = %v, want 200ms", netfixture.DefaultRetryDelay)
	}
}

func TestConnectorOptionsApply(t *testing.T) {
	t.Parallel()

	local := &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1)}

	tests := map[string]struct {
		opts  []netfixture.ConnectorOption
		check func(t *testing.T, s netfixture.ConnectorSnapshot)
	}{
		"max attempts": {
			opts: []netfixture.ConnectorOption{netfixture.WithMaxAttempts(5)},
			check: func(t *testing.T, s netfixture.ConnectorSnapshot) {
				if s.MaxAttempts != 5 {
					t.Errorf("MaxAttempts = %d, want 5", s.MaxAttempts)
				}
			},
		},
		"retry delay": {
			opts: []netfixture.ConnectorOption{netfixture.WithRetryDelay(time.Second)},
			check: func(t *testing.T, s netfixture.ConnectorSnapshot) {
				if s.RetryDelay != time.Second {
					t.Errorf("RetryDelay = %v, want 1s", s.RetryDelay)
				}
			},
		},
		"dialer timeout kept": {
			opts: []netfixture.ConnectorOption{netfixture.WithDialer(&net.Dialer{Timeout: 3 * time.Second, LocalAddr: local})},
			check: func(t *testing.T, s netfixture.ConnectorSnapshot) {
				if s.DialTimeout != 3*time.Second {
					t.Errorf("DialTimeout = %v, want 3s", s.DialTimeout)
				}
				if s.LocalAddr != local {
					t.Errorf("LocalAddr = %v, want %v", s.LocalAddr, local)
				}
			},
		},
		"dial timeout overrides dialer": {
			opts: []netfixture.ConnectorOption{
				netfixture.WithDialer(&net.Dialer{Timeout: 3 * time.Second}),
				netfixture.WithDialTimeout(time.Second),
			},
			check: func(t *testing.T, s netfixture.ConnectorSnapshot) {
				if s.DialTimeout != time.Second {
					t.Errorf("DialTimeout = %v, want 1s", s.DialTimeout)
				}
			},
		},
		"hook and logger": {
			opts: []netfixture.ConnectorOption{
				netfixture.WithRetryHook(func(int, error) {}),
				netfixture.WithConnectorLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))),
			},
			check: func(t *testing.T, s netfixture.ConnectorSnapshot) {
				if !s.HasRetryHook || !s.HasLogger {
					t.Errorf("hook=%v logger=%v, want both set", s.HasRetryHook, s.HasLogger)
				}
			},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			tc.check(t, netfixture.NewConnector(tc.opts...).SnapshotForTesting())
		})
	}
}

func TestWithDialerCopies(t *testing.T) {
	t.Parallel()

	d := &net.Dialer{Timeout: 2 * time.Second}
	c := netfixture.NewConnector(netfixture.WithDialer(d))
	d.Timeout = time.Hour

	if got := c.SnapshotForTesting().DialTimeout; got != 2*time.Second {
		t.Errorf("DialTimeout = %v after caller mutation, want 2s", got)
	}
}

func TestAllocatorOptionsApply(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		opts []netfixture.AllocatorOption
		want netfixture.AllocatorSnapshot
	}{
		"defaults": {
			want: netfixture.AllocatorSnapshot{Host: netfixture.DefaultHost},
		},
		"host": {
			opts: []netfixture.AllocatorOption{netfixture.WithHost("::1")},
			want: netfixture.AllocatorSnapshot{Host: "::1"},
		},
		"range is normalized": {
			opts: []netfixture.AllocatorOption{netfixture.WithPortRange("30000, 20000-20010,20005-20020")},
			want: netfixture.AllocatorSnapshot{Host: netfixture.DefaultHost, PortRange: "20000-20020,30000"},
		},
		"lock dir and logger": {
			opts: []netfixture.AllocatorOption{
				netfixture.WithLockDir("/tmp/leases"),
				netfixture.WithAllocatorLogger(slog.Default()),
			},
			want: netfixture.AllocatorSnapshot{Host: netfixture.DefaultHost, LockDir: "/tmp/leases", HasLogger: true},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			if got := netfixture.ApplyAllocatorOptionsForTesting(tc.opts...); got != tc.want {
				t.Errorf("snapshot = %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestValidatePortRange(t *testing.T) {
	t.Parallel()

	tests := map[string]bool{
		"20000-20999,30000": true,
		"-1024":             true,
		"60000-":            true,
		"":                  false,
		"0":                 false,
		"70000":             false,
		"1-2-3":             false,
		"abc":               false,
	}

	for spec, valid := range tests {
		t.Run(fmt.Sprintf("%q", spec), func(t *testing.T) {
			t.Parallel()
			err := netfixture.ValidatePortRange(spec)
			if valid && err != nil {
				t.Errorf("ValidatePortRange(%q) error: %v", spec, err)
			}
			if !valid && err == nil {
				t.Errorf("ValidatePortRange(%q) = nil, want error", spec)
			}
		})
	}
}
