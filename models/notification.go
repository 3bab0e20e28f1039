package models

import "time"

type NotificationKind string

const (
	NotificationSuccess NotificationKind = "success"
	NotificationError   NotificationKind = "error"
	NotificationInfo    NotificationKind = "info"
)

// Notification is a toast shown in the panel; each one expires on its own.
type Notification struct {
	ID        string           `json:"id"`
	Kind      NotificationKind `json:"kind"`
	Text      string           `json:"text"`
	MatchID   int              `json:"match_id,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
	ExpiresAt time.Time        `json:"expires_at"`
}

func (n Notification) Expired(now time.Time) bool {
	return !now.Before(n.ExpiresAt)
}
