package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"stride/internal/ipc"
)

func newStepsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "steps",
		Short: "Show today's step counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Steps()
				if err != nil {
					return err
				}
				stdout := cmd.OutOrStdout()
				printer := message.NewPrinter(language.English)

				printer.Fprintf(stdout, "%s: %d steps", resp.Date, resp.TotalDailySteps)
				if resp.DailyGoal > 0 {
					printer.Fprintf(stdout, " (goal %d)", resp.DailyGoal)
				}
				fmt.Fprintln(stdout)

				if resp.Tracking {
					printer.Fprintf(stdout, "Session: %d steps (%s source)\n", resp.SessionSteps, sourceLabel(resp.ActiveSource))
				} else {
					fmt.Fprintln(stdout, "Tracking is not active")
				}
				return nil
			})
		},
	}
}

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show daily step totals",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.History(days)
				if err != nil {
					return err
				}
				stdout := cmd.OutOrStdout()
				if len(resp.Entries) == 0 {
					fmt.Fprintln(stdout, "No step history recorded yet")
					return nil
				}

				printer := message.NewPrinter(language.English)
				rows := make([][]string, 0, len(resp.Entries))
				for _, entry := range resp.Entries {
					rows = append(rows, []string{entry.Date, printer.Sprintf("%d", entry.Total)})
				}
				fmt.Fprintln(stdout, renderTable(
					[]string{"Date", "Steps"},
					rows,
					[]columnAlignment{alignLeft, alignRight},
				))
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&days, "days", "d", 7, "Number of days to show")
	return cmd
}

func newLogActivityCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "log-activity <steps>",
		Short: "Credit manually logged steps (e.g. treadmill or bike sessions)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			steps, err := strconv.ParseUint(strings.TrimSpace(args[0]), 10, 32)
			if err != nil || steps == 0 {
				return fmt.Errorf("invalid step count %q: must be a positive number", args[0])
			}
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.LogActivity(uint32(steps))
				if err != nil {
					return err
				}
				printer := message.NewPrinter(language.English)
				printer.Fprintf(cmd.OutOrStdout(), "Logged %d steps; today's total is %d\n", steps, resp.TotalDailySteps)
				return nil
			})
		},
	}
}
