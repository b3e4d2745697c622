// Package notify exposes the notification core to the surrounding
// application layer: targeted and batch delivery, the notification
// lifecycle, and the event handlers that fan platform activity out to
// topics and resolved audiences.
package notify

import (
	"context"
	"strings"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/sammy-dev-001/campusOS-backend-sub001/internal/audience"
	"github.com/sammy-dev-001/campusOS-backend-sub001/internal/dispatch"
	"github.com/sammy-dev-001/campusOS-backend-sub001/internal/domain"
	"github.com/sammy-dev-001/campusOS-backend-sub001/internal/envelope"
	"github.com/sammy-dev-001/campusOS-backend-sub001/internal/model"
	"github.com/sammy-dev-001/campusOS-backend-sub001/internal/repository"
	"github.com/sammy-dev-001/campusOS-backend-sub001/internal/topic"
)

const defaultPageLimit = 20

type Service struct {
	store      repository.NotificationRepository
	audience   *audience.Resolver
	builder    *envelope.Builder
	dispatcher *dispatch.Dispatcher
	log        *zap.Logger
}

func NewService(
	store repository.NotificationRepository,
	resolver *audience.Resolver,
	builder *envelope.Builder,
	dispatcher *dispatch.Dispatcher,
	logger *zap.Logger,
) *Service {
	return &Service{
		store:      store,
		audience:   resolver,
		builder:    builder,
		dispatcher: dispatcher,
		log:        logger,
	}
}

// SendNotification persists a notification for the user and pushes it to the
// user's topic. The write is required for success; the push is best-effort.
func (s *Service) SendNotification(ctx context.Context, userID, kind string, payload map[string]any) (model.Notification, error) {
	if strings.TrimSpace(userID) == "" {
		return model.Notification{}, domain.ErrValidation
	}
	if kind == "" {
		kind = domain.KindDirect
	}
	if !domain.IsValidKind(kind) {
		return model.Notification{}, domain.ErrValidation
	}
	env := s.builder.Build(kind, payload)
	return s.dispatcher.DeliverToUser(ctx, userID, env)
}

// BroadcastNotification batch-creates records for the recipients. Partial
// success: the returned slice holds only the records that were created.
func (s *Service) BroadcastNotification(ctx context.Context, userIDs []string, kind string, payload map[string]any) ([]model.Notification, error) {
	recipients := lo.Filter(userIDs, func(id string, _ int) bool {
		return strings.TrimSpace(id) != ""
	})
	if len(recipients) == 0 {
		return nil, domain.ErrValidation
	}
	if kind == "" {
		kind = domain.KindBroadcast
	}
	if !domain.IsValidKind(kind) {
		return nil, domain.ErrValidation
	}
	env := s.builder.Build(kind, payload)
	return s.dispatcher.DeliverToUsers(ctx, recipients, env)
}

func (s *Service) MarkAsRead(ctx context.Context, id, userID string) (model.Notification, error) {
	if strings.TrimSpace(id) == "" || strings.TrimSpace(userID) == "" {
		return model.Notification{}, domain.ErrValidation
	}
	return s.store.MarkAsRead(ctx, id, userID)
}

func (s *Service) MarkAllAsRead(ctx context.Context, userID string) (int64, error) {
	if strings.TrimSpace(userID) == "" {
		return 0, domain.ErrValidation
	}
	return s.store.MarkAllAsRead(ctx, userID)
}

func (s *Service) GetUserNotifications(ctx context.Context, userID string, page, limit int) (model.Page, error) {
	if strings.TrimSpace(userID) == "" {
		return model.Page{}, domain.ErrValidation
	}
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultPageLimit
	}

	records, total, err := s.store.Find(ctx, userID, page, limit)
	if err != nil {
		s.log.Error("store find failed", zap.String("user_id", userID), zap.Int("page", page), zap.Error(err))
		return model.Page{}, err
	}
	return model.Page{
		Notifications: records,
		Pagination: model.Pagination{
			Total: total,
			Page:  page,
			Pages: (total + limit - 1) / limit,
		},
	}, nil
}

func (s *Service) GetUnreadCount(ctx context.Context, userID string) (int, error) {
	if strings.TrimSpace(userID) == "" {
		return 0, domain.ErrValidation
	}
	return s.store.CountUnread(ctx, userID)
}

func (s *Service) DeleteNotification(ctx context.Context, id, userID string) (model.Notification, error) {
	if strings.TrimSpace(id) == "" || strings.TrimSpace(userID) == "" {
		return model.Notification{}, domain.ErrValidation
	}
	return s.store.Delete(ctx, id, userID)
}

// HandleAnnouncement fans an announcement out to the targeted role topics
// plus the announcement's own topic. Routing only: announcement records are
// not persisted per recipient.
func (s *Service) HandleAnnouncement(ctx context.Context, data map[string]any, targetRoles []string) error {
	env := s.builder.Build(domain.KindAnnouncement, data)
	topics := topic.Compute(topic.Descriptor{
		Kind:           topic.KindAnnouncement,
		Roles:          targetRoles,
		AnnouncementID: env.ID,
	})
	s.dispatcher.Dispatch(ctx, topics, env)
	return nil
}

// HandleForumPost notifies thread subscribers (persisted, minus the author)
// and publishes to the thread's topics. A reply additionally reaches the
// thread author's topic when the author is someone else.
func (s *Service) HandleForumPost(ctx context.Context, post map[string]any, threadID, eventType string) error {
	if strings.TrimSpace(threadID) == "" {
		return domain.ErrValidation
	}
	env := s.builder.Build(domain.KindThread, post)
	authorID := stringField(post, "author_id")

	subscribers := s.audience.ResolveThreadSubscribers(ctx, threadID)
	subscribers = lo.Without(subscribers, authorID)
	if len(subscribers) > 0 {
		if _, err := s.dispatcher.DeliverToUsers(ctx, subscribers, env); err != nil {
			return err
		}
	}

	topics := topic.Compute(topic.Descriptor{
		Kind:           topic.KindForum,
		ThreadID:       threadID,
		ThreadAuthorID: stringField(post, "thread_author_id"),
		AuthorID:       authorID,
		Category:       stringField(post, "category"),
		EventType:      eventType,
	})
	s.dispatcher.Dispatch(ctx, topics, env)
	return nil
}

// HandleStudyGroupUpdate notifies the group's current members (persisted)
// and publishes to the group topic; a new member is additionally greeted on
// their own topic.
func (s *Service) HandleStudyGroupUpdate(ctx context.Context, groupID string, data map[string]any, eventType string) error {
	if strings.TrimSpace(groupID) == "" {
		return domain.ErrValidation
	}
	env := s.builder.Build(domain.KindGroup, data)

	members := s.audience.ResolveGroupMembers(ctx, groupID)
	if len(members) > 0 {
		if _, err := s.dispatcher.DeliverToUsers(ctx, members, env); err != nil {
			return err
		}
	}

	topics := topic.Compute(topic.Descriptor{
		Kind:        topic.KindGroup,
		GroupID:     groupID,
		NewMemberID: stringField(data, "new_member_id"),
		EventType:   eventType,
	})
	s.dispatcher.Dispatch(ctx, topics, env)
	return nil
}

// SendDirectMessage routes a message to the user without persistence: pushed
// when online, offline-buffered otherwise.
func (s *Service) SendDirectMessage(ctx context.Context, userID string, message map[string]any) error {
	if strings.TrimSpace(userID) == "" {
		return domain.ErrValidation
	}
	env := s.builder.Build(domain.KindDirect, message)
	s.dispatcher.RouteToUser(userID, env)
	return nil
}

func stringField(data map[string]any, key string) string {
	value, _ := data[key].(string)
	return value
}
