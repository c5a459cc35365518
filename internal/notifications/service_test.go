package notifications_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"stride/internal/config"
	"stride/internal/notifications"
)

func TestNewServiceReturnsNoopWhenTopicMissing(t *testing.T) {
	cfg := config.Default()
	cfg.Notifications.NtfyTopic = ""
	svc := notifications.NewService(&cfg)
	if err := svc.NotifySedentaryNudge(context.Background(), time.Hour); err != nil {
		t.Fatalf("expected noop notifier to return nil, got %v", err)
	}
}

func TestNtfyServiceFormatsPayloads(t *testing.T) {
	tests := []struct {
		name           string
		send           func(svc notifications.Service) error
		expectTitle    string
		expectMessage  string
		expectTags     string
		expectPriority string
	}{
		{
			name: "sedentary nudge",
			send: func(svc notifications.Service) error {
				return svc.NotifySedentaryNudge(context.Background(), 46*time.Minute)
			},
			expectTitle:   "Stride - Time to Move",
			expectMessage: "🚶 You've been inactive for 46 minutes. A short walk resets the clock.",
			expectTags:    "stride,sedentary,nudge",
		},
		{
			name: "sedentary nudge over an hour",
			send: func(svc notifications.Service) error {
				return svc.NotifySedentaryNudge(context.Background(), 90*time.Minute)
			},
			expectTitle:   "Stride - Time to Move",
			expectMessage: "🚶 You've been inactive for 1h 30m. A short walk resets the clock.",
			expectTags:    "stride,sedentary,nudge",
		},
		{
			name: "daily goal",
			send: func(svc notifications.Service) error {
				return svc.NotifyDailyGoalReached(context.Background(), "2024-01-02", 10250)
			},
			expectTitle:    "Stride - Daily Goal Reached",
			expectMessage:  "🎉 10250 steps on 2024-01-02. Goal met!",
			expectTags:     "stride,goal,reached",
			expectPriority: "high",
		},
		{
			name: "error",
			send: func(svc notifications.Service) error {
				return svc.NotifyError(context.Background(), errors.New("sensor read failed"), "tracking")
			},
			expectTitle:    "Stride - Error",
			expectMessage:  "❌ Error with tracking: sensor read failed",
			expectTags:     "stride,error,alert",
			expectPriority: "high",
		},
		{
			name: "test notification",
			send: func(svc notifications.Service) error {
				return svc.TestNotification(context.Background())
			},
			expectTitle:    "Stride - Test",
			expectMessage:  "🧪 Notification system test",
			expectTags:     "stride,test",
			expectPriority: "low",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var captured struct {
				title    string
				tags     string
				priority string
				body     string
			}

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost {
					t.Fatalf("unexpected method: %s", r.Method)
				}
				captured.title = r.Header.Get("Title")
				captured.tags = r.Header.Get("Tags")
				captured.priority = r.Header.Get("Priority")
				body, err := io.ReadAll(r.Body)
				if err != nil {
					t.Fatalf("read body: %v", err)
				}
				captured.body = string(body)
				_ = r.Body.Close()
				w.WriteHeader(http.StatusOK)
			}))
			defer server.Close()

			cfg := config.Default()
			cfg.Notifications.NtfyTopic = server.URL
			cfg.Notifications.RequestTimeout = 5

			svc := notifications.NewService(&cfg)
			if err := tc.send(svc); err != nil {
				t.Fatalf("notification returned error: %v", err)
			}

			if captured.title != tc.expectTitle {
				t.Fatalf("expected title %q, got %q", tc.expectTitle, captured.title)
			}
			if captured.body != tc.expectMessage {
				t.Fatalf("expected message %q, got %q", tc.expectMessage, captured.body)
			}
			if captured.tags != tc.expectTags {
				t.Fatalf("expected tags %q, got %q", tc.expectTags, captured.tags)
			}
			if captured.priority != tc.expectPriority {
				t.Fatalf("expected priority %q, got %q", tc.expectPriority, captured.priority)
			}
		})
	}
}

func TestNtfyServiceHonorsCategoryToggles(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("unexpected call for suppressed category: %s", r.URL.String())
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL
	cfg.Notifications.Sedentary = false
	cfg.Notifications.DailyGoal = false
	cfg.Notifications.Errors = false

	svc := notifications.NewService(&cfg)
	ctx := context.Background()

	if err := svc.NotifySedentaryNudge(ctx, time.Hour); err != nil {
		t.Fatalf("suppressed nudge must return nil, got %v", err)
	}
	if err := svc.NotifyDailyGoalReached(ctx, "2024-01-02", 10000); err != nil {
		t.Fatalf("suppressed goal must return nil, got %v", err)
	}
	if err := svc.NotifyError(ctx, errors.New("boom"), "test"); err != nil {
		t.Fatalf("suppressed error must return nil, got %v", err)
	}
}

func TestNtfyServiceReportsServerErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "topic not found", http.StatusNotFound)
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL

	svc := notifications.NewService(&cfg)
	if err := svc.TestNotification(context.Background()); err == nil {
		t.Fatal("expected error for non-2xx response")
	}
}
