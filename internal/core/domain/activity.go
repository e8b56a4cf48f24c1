package domain

import "time"

// ActivityType enumerates audited account events.
type ActivityType string

const (
	ActivityRegister     ActivityType = "auth.register"
	ActivityLoginSuccess ActivityType = "auth.login.success"
	ActivityLoginFailure ActivityType = "auth.login.failure"
	ActivityUserCreated  ActivityType = "user.created"
	ActivityUserUpdated  ActivityType = "user.updated"
	ActivityUserDeleted  ActivityType = "user.deleted"
)

// ActivityEvent is a single audit trail entry.
type ActivityEvent struct {
	Type       ActivityType
	Subject    string
	Actor      string
	Metadata   map[string]string
	OccurredAt time.Time
}
