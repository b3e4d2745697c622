package dto

type SendNotificationRequest struct {
	Kind    string         `json:"kind"`
	Payload map[string]any `json:"payload"`
}

type BroadcastRequest struct {
	UserIDs []string       `json:"user_ids"`
	Kind    string         `json:"kind"`
	Payload map[string]any `json:"payload"`
}

type AnnouncementRequest struct {
	Data  map[string]any `json:"data"`
	Roles []string       `json:"roles"`
}

type ForumPostRequest struct {
	ThreadID  string         `json:"thread_id"`
	EventType string         `json:"event_type"`
	Post      map[string]any `json:"post"`
}

type StudyGroupRequest struct {
	GroupID   string         `json:"group_id"`
	EventType string         `json:"event_type"`
	Data      map[string]any `json:"data"`
}

type DirectMessageRequest struct {
	Message map[string]any `json:"message"`
}

type PublishEventRequest struct {
	Type      string         `json:"type"`
	Kind      string         `json:"kind"`
	UserID    string         `json:"user_id"`
	UserIDs   []string       `json:"user_ids"`
	Roles     []string       `json:"roles"`
	ThreadID  string         `json:"thread_id"`
	GroupID   string         `json:"group_id"`
	EventType string         `json:"event_type"`
	Data      map[string]any `json:"data"`
}

type UnreadCountResponse struct {
	Count int `json:"count"`
}

type MarkAllReadResponse struct {
	Updated int64 `json:"updated"`
}

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type StatusResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
