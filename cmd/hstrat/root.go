package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/hupe1980/hstrat"
)

type rootFlags struct {
	logLevel string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "hstrat",
		Short:         "Hereditary stratigraphy toolkit",
		Version:       hstrat.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	cmd.AddCommand(
		newPoliciesCmd(),
		newSimulateCmd(flags),
		newCompareCmd(flags),
	)

	return cmd
}

// logger writes text logs to the command's error stream.
func (f *rootFlags) logger(cmd *cobra.Command) (*hstrat.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(f.logLevel)); err != nil {
		return nil, err
	}

	return hstrat.NewLogger(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})), nil
}
