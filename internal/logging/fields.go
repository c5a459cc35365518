package logging

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldEventType is the standardized structured logging key for machine-readable event labels.
	FieldEventType = "event_type"
	// FieldErrorHint is the standardized structured logging key for operator remediation hints.
	FieldErrorHint = "error_hint"
	// FieldImpact is the standardized structured logging key for the user-facing consequence of a warning.
	FieldImpact = "impact"
	// FieldAlert flags warnings or anomalies that should stand out in structured logs.
	FieldAlert = "alert"
	// FieldSource is the standardized structured logging key for the active signal source.
	FieldSource = "source"
	// FieldSteps is the standardized structured logging key for step counts.
	FieldSteps = "steps"
	// FieldDate is the standardized structured logging key for the ledger calendar date.
	FieldDate = "date"
	// FieldSessionID is the standardized structured logging key for tracking session identifiers.
	FieldSessionID = "session_id"
	// FieldState is the standardized structured logging key for state-machine states.
	FieldState = "state"
)
