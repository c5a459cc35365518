package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"stride/internal/ipc"
	"stride/internal/lifecycle"
)

func newLifecycleCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lifecycle <foreground|background>",
		Short: "Report an app lifecycle transition to the daemon",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			state := lifecycle.State(args[0])
			if !state.Valid() {
				return fmt.Errorf("invalid lifecycle state %q (expected foreground or background)", args[0])
			}
			return ctx.withClient(func(client *ipc.Client) error {
				if _, err := client.Lifecycle(string(state)); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Lifecycle set to %s\n", state)
				return nil
			})
		},
	}
	return cmd
}

func newSedentaryCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sedentary <on|off>",
		Short: "Enable or disable sedentary nudges",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var enabled bool
			switch args[0] {
			case "on":
				enabled = true
			case "off":
				enabled = false
			default:
				return fmt.Errorf("invalid value %q (expected on or off)", args[0])
			}
			return ctx.withClient(func(client *ipc.Client) error {
				if _, err := client.Sedentary(enabled); err != nil {
					return err
				}
				if enabled {
					fmt.Fprintln(cmd.OutOrStdout(), "Sedentary nudges enabled")
				} else {
					fmt.Fprintln(cmd.OutOrStdout(), "Sedentary nudges disabled")
				}
				return nil
			})
		},
	}
	return cmd
}
