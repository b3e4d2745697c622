package repository

import (
	"context"

	"github.com/sammy-dev-001/campusOS-backend-sub001/internal/model"
)

// NotificationRepository owns the durable notification records. MarkAsRead
// and Delete are owner-scoped: an id that exists but belongs to another user
// behaves exactly like an absent id.
type NotificationRepository interface {
	Create(ctx context.Context, n model.Notification) (model.Notification, error)
	// CreateForUsers creates one record per recipient in a single round-trip.
	// Partial success is allowed: only the successfully created records are
	// returned, and one recipient failing never aborts the others.
	CreateForUsers(ctx context.Context, userIDs []string, n model.Notification) ([]model.Notification, error)
	MarkAsRead(ctx context.Context, id, ownerID string) (model.Notification, error)
	MarkAllAsRead(ctx context.Context, userID string) (int64, error)
	// Find pages recipient records, creation time descending, ties broken by
	// id. page is 1-indexed. Returns the page plus the total record count.
	Find(ctx context.Context, userID string, page, limit int) ([]model.Notification, int, error)
	CountUnread(ctx context.Context, userID string) (int, error)
	Delete(ctx context.Context, id, ownerID string) (model.Notification, error)
}

// Membership is the group/thread membership collaborator. It is read-only
// from the core's point of view.
type Membership interface {
	GetGroupMembers(ctx context.Context, groupID string) ([]string, error)
	GetGroupsForUser(ctx context.Context, userID string) ([]string, error)
	GetSubscribersForThread(ctx context.Context, threadID string) ([]string, error)
}
