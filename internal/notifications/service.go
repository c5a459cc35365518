package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"stride/internal/config"
)

const userAgent = "Stride-Go/0.1.0"

// Service defines the notification surface exposed to engine components.
type Service interface {
	NotifySedentaryNudge(ctx context.Context, idle time.Duration) error
	NotifyDailyGoalReached(ctx context.Context, date string, total uint32) error
	NotifyError(ctx context.Context, err error, context string) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
// Per-event toggles suppress individual categories without disabling the
// service.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint:      topic,
		client:        &http.Client{Timeout: timeout},
		sedentary:     cfg.Notifications.Sedentary,
		dailyGoal:     cfg.Notifications.DailyGoal,
		errorsEnabled: cfg.Notifications.Errors,
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint      string
	client        *http.Client
	sedentary     bool
	dailyGoal     bool
	errorsEnabled bool
}

func (n *ntfyService) NotifySedentaryNudge(ctx context.Context, idle time.Duration) error {
	if !n.sedentary {
		return nil
	}
	idle = idle.Round(time.Minute)
	data := payload{
		title:   "Stride - Time to Move",
		message: fmt.Sprintf("🚶 You've been inactive for %s. A short walk resets the clock.", formatIdle(idle)),
		tags:    []string{"stride", "sedentary", "nudge"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyDailyGoalReached(ctx context.Context, date string, total uint32) error {
	if !n.dailyGoal {
		return nil
	}
	data := payload{
		title:    "Stride - Daily Goal Reached",
		message:  fmt.Sprintf("🎉 %d steps on %s. Goal met!", total, date),
		tags:     []string{"stride", "goal", "reached"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyError(ctx context.Context, err error, contextLabel string) error {
	if !n.errorsEnabled {
		return nil
	}
	var builder strings.Builder
	builder.WriteString("❌ Error")
	if contextLabel = strings.TrimSpace(contextLabel); contextLabel != "" {
		builder.WriteString(" with ")
		builder.WriteString(contextLabel)
	}
	builder.WriteString(": ")
	if err != nil {
		builder.WriteString(strings.TrimSpace(err.Error()))
	} else {
		builder.WriteString("unknown")
	}

	data := payload{
		title:    "Stride - Error",
		message:  builder.String(),
		tags:     []string{"stride", "error", "alert"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "Stride - Test",
		message:  "🧪 Notification system test",
		tags:     []string{"stride", "test"},
		priority: "low",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// formatIdle renders an idle duration as whole minutes or hours+minutes.
func formatIdle(idle time.Duration) string {
	if idle < time.Hour {
		return fmt.Sprintf("%d minutes", int(idle.Minutes()))
	}
	hours := int(idle.Hours())
	minutes := int(idle.Minutes()) - hours*60
	if minutes == 0 {
		return fmt.Sprintf("%d hours", hours)
	}
	return fmt.Sprintf("%dh %dm", hours, minutes)
}

type noopService struct{}

func (noopService) NotifySedentaryNudge(context.Context, time.Duration) error    { return nil }
func (noopService) NotifyDailyGoalReached(context.Context, string, uint32) error { return nil }
func (noopService) NotifyError(context.Context, error, string) error             { return nil }
func (noopService) TestNotification(context.Context) error                       { return nil }
