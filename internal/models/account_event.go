package models

import "time"

// Account event types recorded by the audit log.
const (
	EventLogin              = "LOGIN"
	EventLoginFailed        = "LOGIN_FAILED"
	EventLogout             = "LOGOUT"
	EventSettingsUpdated    = "SETTINGS_UPDATED"
	EventAccountDeactivated = "ACCOUNT_DEACTIVATED"
)

// AccountEvent is a single audit log entry.
type AccountEvent struct {
	EventID     string    `json:"event_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"`  // LOGIN | LOGIN_FAILED | LOGOUT | SETTINGS_UPDATED | ACCOUNT_DEACTIVATED
	Email       string    `json:"email"` // account the event refers to
	Description string    `json:"description"`
	Metadata    any       `json:"metadata,omitempty"`
}
