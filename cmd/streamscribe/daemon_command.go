package main

import (
	"github.com/spf13/cobra"

	"streamscribe/internal/daemonrun"
)

// newDaemonRunCommand is the hidden subcommand the CLI launches in a detached
// process when `streamscribe start` finds no daemon listening.
func newDaemonRunCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:          "daemon",
		Short:        "Run the streamscribe daemon (internal)",
		Hidden:       true,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDaemonForeground(cmd, ctx)
		},
	}
}

// newRunCommand exposes the same daemon loop as a foreground command.
func newRunCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:          "run",
		Short:        "Run the daemon loop in the foreground",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDaemonForeground(cmd, ctx)
		},
	}
}

func runDaemonForeground(cmd *cobra.Command, ctx *commandContext) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	return daemonrun.Run(cmd.Context(), cfg, daemonrun.Options{
		LogLevel:   cfg.Logging.Level,
		SocketPath: ctx.socketPath(),
	})
}
