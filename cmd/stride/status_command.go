package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"stride/internal/ipc"
	"stride/internal/preflight"
	"stride/internal/sensor"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show daemon and tracking status",
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()
			colorize := shouldColorize(stdout)

			client, err := ctx.dialClient()
			if err != nil {
				renderOfflineStatus(cmd.Context(), ctx, stdout, colorize)
				return nil
			}
			defer client.Close()

			status, err := client.Status()
			if err != nil {
				return err
			}
			renderStatus(stdout, status, colorize)
			return nil
		},
	}
}

func renderStatus(stdout io.Writer, status *ipc.StatusResponse, colorize bool) {
	printer := message.NewPrinter(language.English)

	for _, line := range renderSectionHeader("Daemon", colorize) {
		fmt.Fprintln(stdout, line)
	}
	fmt.Fprintln(stdout, renderStatusLine("Stride", statusOK, fmt.Sprintf("Running (pid %d)", status.PID), colorize))
	fmt.Fprintln(stdout, trackingLine(status.Tracking, status.ActiveSource, colorize))
	fmt.Fprintln(stdout, renderStatusLine("Hardware counter", availabilityKind(status.NativeAvailable), yesNo(status.NativeAvailable), colorize))
	fmt.Fprintln(stdout, renderStatusLine("App lifecycle", statusInfo, status.Lifecycle, colorize))
	fmt.Fprintln(stdout)

	for _, line := range renderSectionHeader("Today", colorize) {
		fmt.Fprintln(stdout, line)
	}
	fmt.Fprintln(stdout, renderStatusLine("Date", statusInfo, status.Date, colorize))
	fmt.Fprintln(stdout, goalLine(printer, status.TotalDailySteps, status.DailyGoal, colorize))
	fmt.Fprintln(stdout, renderStatusLine("Session steps", statusInfo, printer.Sprintf("%d", status.SessionSteps), colorize))
	fmt.Fprintln(stdout)

	for _, line := range renderSectionHeader("Sedentary", colorize) {
		fmt.Fprintln(stdout, line)
	}
	if status.SedentaryEnabled {
		fmt.Fprintln(stdout, renderStatusLine("Nudges", statusOK, "Enabled", colorize))
		fmt.Fprintln(stdout, renderStatusLine("State", statusInfo, status.SedentaryState, colorize))
		fmt.Fprintln(stdout, renderStatusLine("Last activity", statusInfo, formatLastActivity(status.LastActivity), colorize))
	} else {
		fmt.Fprintln(stdout, renderStatusLine("Nudges", statusWarn, "Disabled", colorize))
	}
	fmt.Fprintln(stdout)

	for _, line := range renderSectionHeader("Checks", colorize) {
		fmt.Fprintln(stdout, line)
	}
	for _, check := range status.Checks {
		kind := statusOK
		if !check.Passed {
			kind = statusWarn
		}
		fmt.Fprintln(stdout, renderStatusLine(check.Name, kind, check.Detail, colorize))
	}
}

func renderOfflineStatus(ctx context.Context, cmdCtx *commandContext, stdout io.Writer, colorize bool) {
	for _, line := range renderSectionHeader("Daemon", colorize) {
		fmt.Fprintln(stdout, line)
	}
	fmt.Fprintln(stdout, renderStatusLine("Stride", statusWarn, "Not running (run `stride start`)", colorize))

	cfg := cmdCtx.configValue()
	if cfg == nil {
		return
	}

	fmt.Fprintln(stdout)
	for _, line := range renderSectionHeader("Checks", colorize) {
		fmt.Fprintln(stdout, line)
	}
	for _, check := range preflight.RunAll(ctx, cfg) {
		kind := statusOK
		if !check.Passed {
			kind = statusWarn
		}
		fmt.Fprintln(stdout, renderStatusLine(check.Name, kind, check.Detail, colorize))
	}
}

func trackingLine(tracking bool, activeSource string, colorize bool) string {
	if !tracking {
		return renderStatusLine("Tracking", statusWarn, "Inactive (run `stride start`)", colorize)
	}
	return renderStatusLine("Tracking", statusOK, fmt.Sprintf("Active (%s source)", sourceLabel(activeSource)), colorize)
}

func goalLine(printer *message.Printer, total uint32, goal int, colorize bool) string {
	if goal <= 0 {
		return renderStatusLine("Steps", statusInfo, printer.Sprintf("%d", total), colorize)
	}
	kind := statusInfo
	if total >= uint32(goal) {
		kind = statusOK
	}
	detail := printer.Sprintf("%d / %d (%d%%)", total, goal, uint64(total)*100/uint64(goal))
	return renderStatusLine("Steps", kind, detail, colorize)
}

func sourceLabel(source string) string {
	switch sensor.Kind(source) {
	case sensor.KindNative:
		return "hardware counter"
	case sensor.KindAccelerometer:
		return "accelerometer"
	default:
		return "no"
	}
}

func availabilityKind(available bool) statusKind {
	if available {
		return statusOK
	}
	return statusWarn
}

func formatLastActivity(at time.Time) string {
	if at.IsZero() {
		return "never"
	}
	idle := time.Since(at).Round(time.Minute)
	if idle < time.Minute {
		return "just now"
	}
	return fmt.Sprintf("%s ago", idle)
}
