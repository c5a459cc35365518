package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"stride/internal/daemonctl"
	"stride/internal/ipc"
)

func newStartCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start step tracking (launches the daemon if needed)",
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()
			exe, err := os.Executable()
			if err != nil {
				return fmt.Errorf("resolve executable: %w", err)
			}

			client, result, err := daemonctl.EnsureRunning(
				ctx.socketPath(),
				exe,
				launchOptions(ctx),
				10*time.Second,
			)
			if err != nil {
				return err
			}
			defer client.Close()

			if result.State == daemonctl.StartStateLaunched {
				fmt.Fprintln(stdout, "Daemon not running, launching...")
			}

			resp, err := client.StartTracking()
			if err != nil {
				return err
			}
			if resp.Started {
				fmt.Fprintln(stdout, "Tracking started")
				if resp.Message != "" {
					fmt.Fprintln(stdout, resp.Message)
				}
				return nil
			}
			return fmt.Errorf("tracking not started: %s", resp.Message)
		},
	}
}

func newStopCommand(ctx *commandContext) *cobra.Command {
	var stopDaemon bool

	cmd := &cobra.Command{
		Use:   "stop",
		Short: "Stop step tracking",
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()

			if stopDaemon {
				result, err := daemonctl.Terminate(ctx.socketPath(), ctx.configValue(), 5*time.Second)
				if errors.Is(err, daemonctl.ErrDaemonNotRunning) {
					fmt.Fprintln(stdout, "Daemon is not running")
					return nil
				}
				if err != nil {
					return err
				}
				if result.ForcedKill && result.PID > 0 {
					fmt.Fprintf(stdout, "Stopping daemon process (pid %d)...\n", result.PID)
				}
				fmt.Fprintln(stdout, "Daemon stopped")
				return nil
			}

			return ctx.withClient(func(client *ipc.Client) error {
				if _, err := client.StopTracking(); err != nil {
					return err
				}
				fmt.Fprintln(stdout, "Tracking stopped")
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&stopDaemon, "daemon", false, "Terminate the daemon process instead of just stopping tracking")
	return cmd
}

func launchOptions(ctx *commandContext) daemonctl.LaunchOptions {
	opts := daemonctl.LaunchOptions{}
	if ctx.socketFlag != nil {
		opts.SocketPath = *ctx.socketFlag
	}
	if ctx.configFlag != nil {
		opts.ConfigPath = *ctx.configFlag
	}
	return opts
}
