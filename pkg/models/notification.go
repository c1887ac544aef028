package models

import "time"

// Notification is addressed to a single user. IsRead transitions
// false to true only and never reverses.
type Notification struct {
	ID        string `json:"id"`
	UserID    string `json:"userId"`
	Type      string `json:"type,omitempty"`
	Text      string `json:"text"`
	IsRead    bool   `json:"isRead"`
	CreatedAt int64  `json:"createdAt"`
}

// NewNotification creates a notification with a generated ID.
func NewNotification(userID, typ, text string) Notification {
	return Notification{
		ID:        NewID("notif"),
		UserID:    userID,
		Type:      typ,
		Text:      text,
		CreatedAt: time.Now().UnixMilli(),
	}
}
