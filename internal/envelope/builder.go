package envelope

import (
	"time"

	"github.com/google/uuid"

	"github.com/sammy-dev-001/campusOS-backend-sub001/internal/model"
)

// Builder normalizes raw event data into a canonical delivery envelope.
type Builder struct {
	now func() time.Time
}

func NewBuilder() *Builder {
	return &Builder{now: time.Now}
}

// Build returns a fresh envelope for the given delivery kind. The payload is
// copied so concurrent dispatches never alias the caller's map. An id is
// assigned when the event carries none, and the creation time is the event's
// declared timestamp when present and parseable, otherwise now.
func (b *Builder) Build(kind string, data map[string]any) model.Envelope {
	payload := make(map[string]any, len(data))
	for k, v := range data {
		payload[k] = v
	}

	id, _ := payload["id"].(string)
	if id == "" {
		id = uuid.NewString()
	}

	now := b.now().UTC()
	createdAt := now
	switch ts := payload["timestamp"].(type) {
	case time.Time:
		if !ts.IsZero() {
			createdAt = ts.UTC()
		}
	case string:
		if parsed, err := time.Parse(time.RFC3339, ts); err == nil {
			createdAt = parsed.UTC()
		}
	}

	return model.Envelope{
		Notification: model.Notification{
			ID:        id,
			Kind:      kind,
			Payload:   payload,
			CreatedAt: createdAt,
		},
		IsNew:        true,
		DispatchedAt: now,
	}
}
