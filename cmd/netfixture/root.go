package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/giantswarm/netfixture"
	"github.com/spf13/cobra"
)

// logLevelEnv names the environment variable holding the default log level.
const logLevelEnv = "NETFIXTURE_LOG_LEVEL"

func newRootCmd() *cobra.Command {
	var logLevel string

	cmd := &cobra.Command{
		Use:   "netfixture",
		Short: "Free TCP ports and startup waits for test fixtures",
		Long: `netfixture helps shell scripts that start servers for tests.

  netfixture port        prints free TCP ports
  netfixture wait ADDR   blocks until ADDR accepts TCP connections

Connection refused is retried at a fixed interval; any other error fails at once.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return setupLogging(cmd, logLevel)
		},
	}
	cmd.CompletionOptions.DisableDefaultCmd = true

	defaultLevel := os.Getenv(logLevelEnv)
	if defaultLevel == "" {
		defaultLevel = "WARN"
	}
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", defaultLevel,
		"log level (DEBUG, INFO, WARN, ERROR); defaults to $"+logLevelEnv)

	cmd.AddCommand(newPortCmd(), newWaitCmd())
	return cmd
}

// setupLogging routes netfixture logs to the command's stderr at level.
func setupLogging(cmd *cobra.Command, level string) error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("invalid --log-level %q: %w", level, err)
	}
	handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: lvl})
	netfixture.SetLogger(slog.New(handler).With("component", "netfixture"))
	return nil
}
