package models

import "time"

// Activity event types.
const (
	ActivitySignIn       = "SIGN_IN"
	ActivitySignUp       = "SIGN_UP"
	ActivitySignOut      = "SIGN_OUT"
	ActivityAccessDenied = "ACCESS_DENIED"
)

// ActivityEvent is a single entry of the user activity log.
type ActivityEvent struct {
	EventID     string    `json:"event_id" db:"id"`
	OccurredAt  time.Time `json:"occurred_at" db:"occurred_at"`
	Type        string    `json:"type" db:"type"`
	UserID      string    `json:"user_id,omitempty" db:"user_id"`
	Email       string    `json:"email,omitempty" db:"email"`
	Description string    `json:"description" db:"message"`
	Metadata    any       `json:"metadata,omitempty" db:"-"`
}
