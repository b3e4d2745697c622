package model

import "time"

// Notification is the persisted record. RecipientID never changes after
// creation and Read only moves false -> true.
type Notification struct {
	ID          string         `json:"id"`
	RecipientID string         `json:"recipient_id"`
	Kind        string         `json:"kind"`
	Payload     map[string]any `json:"payload"`
	Read        bool           `json:"read"`
	CreatedAt   time.Time      `json:"created_at"`
}

// Envelope wraps a notification with transient delivery metadata. It is never
// persisted as such.
type Envelope struct {
	Notification
	IsNew        bool      `json:"is_new"`
	DispatchedAt time.Time `json:"dispatched_at"`
}

type Pagination struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Pages int `json:"pages"`
}

type Page struct {
	Notifications []Notification `json:"notifications"`
	Pagination    Pagination     `json:"pagination"`
}
