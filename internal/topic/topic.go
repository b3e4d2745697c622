// Package topic computes the ordered sequence of pub/sub topic keys for an
// audience descriptor. Computation is a pure function: the same descriptor
// always yields the same keys, and nothing is stored.
package topic

import (
	"github.com/sammy-dev-001/campusOS-backend-sub001/internal/domain"
)

// Descriptor kinds.
const (
	KindUser         = "user"
	KindRole         = "role"
	KindAnnouncement = "announcement"
	KindForum        = "forum"
	KindGroup        = "group"
)

// Global is the unscoped topic every connected client subscribes to.
const Global = "global"

func User(id string) string         { return "user:" + id }
func Role(role string) string       { return "role:" + role }
func Group(id string) string        { return "group:" + id }
func Thread(id string) string       { return "thread:" + id }
func Announcement(id string) string { return "announcement:" + id }
func ForumCategory(c string) string { return "forum_category:" + c }

// Descriptor identifies a logical audience. Only the fields relevant to Kind
// are consulted.
type Descriptor struct {
	Kind           string
	UserID         string
	Roles          []string
	AnnouncementID string
	ThreadID       string
	ThreadAuthorID string
	AuthorID       string
	Category       string
	GroupID        string
	NewMemberID    string
	EventType      string
}

// Compute maps a descriptor to its topic keys. Keys are not deduplicated;
// consumers are expected to be idempotent on notification id, so duplicate
// delivery to the same principal is permitted.
func Compute(d Descriptor) []string {
	switch d.Kind {
	case KindUser:
		return []string{User(d.UserID)}
	case KindRole:
		if len(d.Roles) == 0 {
			return []string{Global}
		}
		keys := make([]string, 0, len(d.Roles))
		for _, role := range d.Roles {
			keys = append(keys, Role(role))
		}
		return keys
	case KindAnnouncement:
		keys := make([]string, 0, len(d.Roles)+1)
		for _, role := range d.Roles {
			keys = append(keys, Role(role))
		}
		return append(keys, Announcement(d.AnnouncementID))
	case KindForum:
		keys := []string{Thread(d.ThreadID)}
		if d.EventType == domain.EventNewThread {
			keys = append(keys, ForumCategory(d.Category))
		}
		if d.EventType == domain.EventReply && d.ThreadAuthorID != "" && d.ThreadAuthorID != d.AuthorID {
			keys = append(keys, User(d.ThreadAuthorID))
		}
		return keys
	case KindGroup:
		keys := []string{Group(d.GroupID)}
		if d.EventType == domain.EventNewMember && d.NewMemberID != "" {
			keys = append(keys, User(d.NewMemberID))
		}
		return keys
	default:
		return nil
	}
}
