package main

import (
	"fmt"

	"github.com/giantswarm/netfixture"
	"github.com/spf13/cobra"
)

type portOptions struct {
	count     int
	portRange string
	host      string
	lockDir   string
	shared    bool
}

func newPortCmd() *cobra.Command {
	var opts portOptions

	cmd := &cobra.Command{
		Use:   "port",
		Short: "Print free TCP ports, one per line",
		Long: `Print free TCP ports, one per line.

Without flags this probes port 0 on the wildcard address once. With -n, --range,
--host, --lock-dir or --shared the ports are allocated together, so they are distinct.
The ports are free when printed; nothing reserves them afterwards. Leases
taken with --lock-dir or --shared keep other netfixture allocators off the
ports only while this command runs, and are dropped before it exits.

Examples:
  netfixture port
  netfixture port -n 3
  netfixture port --range 20000-20999 --lock-dir /tmp/netfixture-ports`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPort(cmd, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.count, "count", "n", 1, "number of ports to print")
	cmd.Flags().StringVar(&opts.portRange, "range", "", `restrict to ports in this set, e.g. "20000-20999,30000"`)
	cmd.Flags().StringVar(&opts.host, "host", "", "bind host used to probe ports (default "+netfixture.DefaultHost+")")
	cmd.Flags().StringVar(&opts.lockDir, "lock-dir", "", "take leases in this directory while probing; they are dropped on exit")
	cmd.Flags().BoolVar(&opts.shared, "shared", false, "like --lock-dir "+netfixture.DefaultLockDir())
	cmd.MarkFlagsMutuallyExclusive("lock-dir", "shared")
	return cmd
}

func runPort(cmd *cobra.Command, opts portOptions) error {
	if opts.count < 1 {
		return fmt.Errorf("--count must be at least 1, got %d", opts.count)
	}

	if opts.shared {
		opts.lockDir = netfixture.DefaultLockDir()
	}
	if opts.count == 1 && opts.portRange == "" && opts.host == "" && opts.lockDir == "" {
		port, err := netfixture.AllocateTCPPort()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), port)
		return err
	}

	allocOpts, err := opts.allocatorOptions()
	if err != nil {
		return err
	}
	alloc, err := netfixture.NewAllocator(allocOpts...)
	if err != nil {
		return err
	}
	// Leases are dropped on exit; a shell caller only needs distinct ports.
	defer func() { _ = alloc.Close() }()

	ports, err := alloc.AllocateN(opts.count)
	if err != nil {
		return err
	}
	for _, p := range ports {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), p); err != nil {
			return err
		}
	}
	return nil
}

// allocatorOptions converts flags to options. The With* constructors panic on
// bad input, so user-supplied values are checked first.
func (o portOptions) allocatorOptions() ([]netfixture.AllocatorOption, error) {
	var opts []netfixture.AllocatorOption
	if o.host != "" {
		opts = append(opts, netfixture.WithHost(o.host))
	}
	if o.portRange != "" {
		if err := netfixture.ValidatePortRange(o.portRange); err != nil {
			return nil, fmt.Errorf("--range: %w", err)
		}
		opts = append(opts, netfixture.WithPortRange(o.portRange))
	}
	if o.lockDir != "" {
		opts = append(opts, netfixture.WithLockDir(o.lockDir))
	}
	return opts, nil
}
