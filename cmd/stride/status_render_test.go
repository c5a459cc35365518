package main

import (
	"strings"
	"testing"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func TestRenderStatusLine(t *testing.T) {
	line := renderStatusLine("Tracking", statusOK, "Active (hardware counter source)", false)
	if !strings.Contains(line, "Tracking:") {
		t.Fatalf("missing label: %q", line)
	}
	if !strings.Contains(line, "[OK] Active (hardware counter source)") {
		t.Fatalf("missing status text: %q", line)
	}
	if strings.Contains(line, ansiGreen) {
		t.Fatalf("unexpected color without colorize: %q", line)
	}

	colored := renderStatusLine("Tracking", statusWarn, "Inactive", true)
	if !strings.HasPrefix(colored, ansiYellow) || !strings.HasSuffix(colored, ansiReset) {
		t.Fatalf("expected yellow wrapping: %q", colored)
	}
}

func TestRenderSectionHeader(t *testing.T) {
	lines := renderSectionHeader("Today", false)
	if len(lines) != 2 {
		t.Fatalf("expected header and rule, got %d lines", len(lines))
	}
	if lines[0] != "== Today ==" {
		t.Fatalf("unexpected header %q", lines[0])
	}
	if len(lines[1]) != len(lines[0]) {
		t.Fatalf("rule length %d does not match header length %d", len(lines[1]), len(lines[0]))
	}
}

func TestGoalLine(t *testing.T) {
	printer := message.NewPrinter(language.English)

	line := goalLine(printer, 5000, 10000, false)
	if !strings.Contains(line, "5,000 / 10,000 (50%)") {
		t.Fatalf("unexpected goal detail: %q", line)
	}
	if !strings.Contains(line, "[INFO]") {
		t.Fatalf("expected INFO below goal: %q", line)
	}

	reached := goalLine(printer, 12000, 10000, false)
	if !strings.Contains(reached, "[OK]") {
		t.Fatalf("expected OK at goal: %q", reached)
	}

	noGoal := goalLine(printer, 123, 0, false)
	if !strings.Contains(noGoal, "123") || strings.Contains(noGoal, "/") {
		t.Fatalf("unexpected no-goal detail: %q", noGoal)
	}
}

func TestSourceLabel(t *testing.T) {
	if got := sourceLabel("native"); got != "hardware counter" {
		t.Fatalf("native label = %q", got)
	}
	if got := sourceLabel("accelerometer"); got != "accelerometer" {
		t.Fatalf("accelerometer label = %q", got)
	}
	if got := sourceLabel(""); got != "no" {
		t.Fatalf("empty label = %q", got)
	}
}

func TestRenderTable(t *testing.T) {
	out := renderTable(
		[]string{"Date", "Steps"},
		[][]string{{"2024-01-01", "10,050"}, {"2024-01-02", "8,200"}},
		[]columnAlignment{alignLeft, alignRight},
	)
	if !strings.Contains(out, "2024-01-01") || !strings.Contains(out, "10,050") {
		t.Fatalf("table missing rows:\n%s", out)
	}
}
