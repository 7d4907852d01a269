package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/giantswarm/netfixture"
	"github.com/spf13/cobra"
)

type waitOptions struct {
	attempts int
	delay    time.Duration
	timeout  time.Duration
	quiet    bool
}

func newWaitCmd() *cobra.Command {
	var opts waitOptions

	cmd := &cobra.Command{
		Use:   "wait ADDR...",
		Short: "Wait until every address accepts TCP connections",
		Long: `Wait until every address accepts TCP connections.

Each ADDR is host:port, or a bare port meaning 127.0.0.1:port. Addresses are
probed concurrently. A refused connection is retried every --delay until
--attempts attempts were made; any other error fails at once.

Examples:
  netfixture wait 8080
  netfixture wait localhost:5432 127.0.0.1:6379 --attempts 50`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWait(cmd, opts, args)
		},
	}

	cmd.Flags().IntVar(&opts.attempts, "attempts", netfixture.DefaultMaxAttempts, "dial attempts per address, the first one included")
	cmd.Flags().DurationVar(&opts.delay, "delay", netfixture.DefaultRetryDelay, "pause between refused attempts")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "overall deadline (0 means none)")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "print nothing on success")
	return cmd
}

func runWait(cmd *cobra.Command, opts waitOptions, args []string) error {
	if opts.attempts < 1 {
		return fmt.Errorf("--attempts must be at least 1, got %d", opts.attempts)
	}
	if opts.delay <= 0 {
		return fmt.Errorf("--delay must be positive, got %v", opts.delay)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.timeout)
		defer cancel()
	}

	addrs := make([]string, len(args))
	for i, a := range args {
		addrs[i] = normalizeAddr(a)
	}

	c := netfixture.NewConnector(
		netfixture.WithMaxAttempts(opts.attempts),
		netfixture.WithRetryDelay(opts.delay),
	)
	if err := c.WaitForListeners(ctx, addrs...); err != nil {
		return err
	}

	if !opts.quiet {
		for _, a := range addrs {
			if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s ready\n", a); err != nil {
				return err
			}
		}
	}
	return nil
}

// normalizeAddr turns a bare port into a loopback address.
func normalizeAddr(s string) string {
	if port, err := strconv.Atoi(s); err == nil {
		return netfixture.LocalAddr(port)
	}
	return s
}
