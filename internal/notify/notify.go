package notify

import "time"

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notification is a transient toast-style message scoped to one session.
// Notifications are fire-and-forget: they never fail the operation that
// produced them.
type Notification struct {
	Level     Level     `json:"level"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

type Notifier interface {
	Success(sessionID, message string)
	Error(sessionID, message string)
	// Drain returns and removes all pending notifications for a session.
	Drain(sessionID string) []Notification
}
