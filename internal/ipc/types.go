package ipc

import (
	"time"

	"stride/internal/store"
)

// StartTrackingRequest begins a tracking session.
type StartTrackingRequest struct{}

// StartTrackingResponse indicates whether tracking started.
type StartTrackingResponse struct {
	Started bool   `json:"started"`
	Message string `json:"message"`
}

// StopTrackingRequest ends the active tracking session.
type StopTrackingRequest struct{}

// StopTrackingResponse indicates stop result.
type StopTrackingResponse struct {
	Stopped bool `json:"stopped"`
}

// StatusRequest fetches daemon status.
type StatusRequest struct{}

// CheckResult mirrors a preflight check outcome for IPC callers.
type CheckResult struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

// StatusResponse represents combined daemon/engine status information.
type StatusResponse struct {
	Running          bool          `json:"running"`
	Tracking         bool          `json:"tracking"`
	ActiveSource     string        `json:"active_source"`
	NativeAvailable  bool          `json:"native_available"`
	SessionSteps     uint32        `json:"session_steps"`
	TotalDailySteps  uint32        `json:"total_daily_steps"`
	Date             string        `json:"date"`
	DailyGoal        int           `json:"daily_goal"`
	SedentaryState   string        `json:"sedentary_state"`
	SedentaryEnabled bool          `json:"sedentary_enabled"`
	LastActivity     time.Time     `json:"last_activity"`
	Lifecycle        string        `json:"lifecycle"`
	DBPath           string        `json:"db_path"`
	LockPath         string        `json:"lock_path"`
	PID              int           `json:"pid"`
	Checks           []CheckResult `json:"checks"`
}

// StepsRequest fetches the current step counters.
type StepsRequest struct{}

// StepsResponse returns the live step counters.
type StepsResponse struct {
	Date            string `json:"date"`
	TotalDailySteps uint32 `json:"total_daily_steps"`
	SessionSteps    uint32 `json:"session_steps"`
	DailyGoal       int    `json:"daily_goal"`
	Tracking        bool   `json:"tracking"`
	ActiveSource    string `json:"active_source"`
}

// HistoryRequest fetches recent daily totals.
type HistoryRequest struct {
	Days int `json:"days"`
}

// DailyTotal mirrors the store DTO for IPC callers.
type DailyTotal = store.DailyTotal

// HistoryResponse contains daily totals, newest first.
type HistoryResponse struct {
	Entries []DailyTotal `json:"entries"`
}

// LogActivityRequest credits manually logged steps.
type LogActivityRequest struct {
	Steps uint32 `json:"steps"`
}

// LogActivityResponse returns the updated daily total.
type LogActivityResponse struct {
	TotalDailySteps uint32 `json:"total_daily_steps"`
}

// LifecycleRequest reports an app lifecycle transition.
type LifecycleRequest struct {
	State string `json:"state"`
}

// LifecycleResponse acknowledges the transition.
type LifecycleResponse struct {
	Accepted bool `json:"accepted"`
}

// SedentaryRequest toggles sedentary nudging.
type SedentaryRequest struct {
	Enabled bool `json:"enabled"`
}

// SedentaryResponse acknowledges the toggle.
type SedentaryResponse struct {
	Enabled bool `json:"enabled"`
}

// LogTailRequest reads daemon log lines. A negative offset requests the last
// Limit lines.
type LogTailRequest struct {
	Offset     int64 `json:"offset"`
	Limit      int   `json:"limit"`
	Follow     bool  `json:"follow"`
	WaitMillis int64 `json:"wait_millis"`
}

// LogTailResponse returns log lines and the offset to resume from.
type LogTailResponse struct {
	Lines  []string `json:"lines"`
	Offset int64    `json:"offset"`
}

// TestNotificationRequest triggers a notification test.
type TestNotificationRequest struct{}

// TestNotificationResponse reports notification test outcome.
type TestNotificationResponse struct {
	Sent    bool   `json:"sent"`
	Message string `json:"message"`
}
