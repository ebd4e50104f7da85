package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"streamscribe/internal/ipc"
)

func newLogsCommand(ctx *commandContext) *cobra.Command {
	var follow bool
	var lines int

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show recent daemon log lines",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.dialClient()
			if err != nil {
				return err
			}
			defer client.Close()

			out := cmd.OutOrStdout()

			resp, err := client.LogTail(ipc.LogTailRequest{Offset: -1, Limit: lines})
			if err != nil {
				return err
			}
			for _, line := range resp.Lines {
				fmt.Fprintln(out, line)
			}
			if !follow {
				return nil
			}

			signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			// The server bounds each follow request with its own wait
			// timeout, so this loop notices Ctrl+C within about a second.
			offset := resp.Offset
			for signalCtx.Err() == nil {
				next, err := client.LogTail(ipc.LogTailRequest{
					Offset:     offset,
					Follow:     true,
					WaitMillis: 1000,
				})
				if err != nil {
					return err
				}
				for _, line := range next.Lines {
					fmt.Fprintln(out, line)
				}
				offset = next.Offset
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Stream new log lines until interrupted")
	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "Number of trailing lines to show")
	return cmd
}
