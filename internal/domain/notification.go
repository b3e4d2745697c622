package domain

// Delivery kinds carried on a notification record.
const (
	KindDirect       = "direct"
	KindBroadcast    = "broadcast"
	KindThread       = "thread"
	KindGroup        = "group"
	KindRole         = "role"
	KindAnnouncement = "announcement"
)

// Event types attached to forum and study-group events.
const (
	EventNewThread = "new_thread"
	EventReply     = "reply"
	EventNewMember = "new_member"
	EventUpdate    = "update"
)

func IsValidKind(value string) bool {
	switch value {
	case KindDirect, KindBroadcast, KindThread, KindGroup, KindRole, KindAnnouncement:
		return true
	default:
		return false
	}
}
