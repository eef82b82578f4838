package service

import "time"

// LogFilter supports audit log filtering by account, time range and type.
type LogFilter struct {
	Email string    // "" means every account
	From  time.Time // inclusive; zero means no lower bound
	To    time.Time // inclusive; zero means no upper bound
	Type  string    // "", "LOGIN", "LOGIN_FAILED", "LOGOUT", "SETTINGS_UPDATED", "ACCOUNT_DEACTIVATED"
}

// RequestOrigin describes where a state-changing request came from.
// It is recorded, never enforced.
type RequestOrigin struct {
	Method    string
	Referer   string
	Origin    string
	UserAgent string
}

func (o RequestOrigin) metadata() map[string]string {
	return map[string]string{
		"method":     o.Method,
		"referer":    o.Referer,
		"origin":     o.Origin,
		"user_agent": o.UserAgent,
	}
}
