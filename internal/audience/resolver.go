package audience

import (
	"context"
	"strings"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/sammy-dev-001/campusOS-backend-sub001/internal/repository"
)

// Resolver converts a logical target (group, thread) into a concrete
// recipient set. Resolution is read-only and never cached: membership may
// change between calls. A failed or malformed lookup degrades to an empty
// set so one broken audience never blocks a sibling resolution.
type Resolver struct {
	membership repository.Membership
	log        *zap.Logger
}

func NewResolver(membership repository.Membership, logger *zap.Logger) *Resolver {
	return &Resolver{membership: membership, log: logger}
}

func (r *Resolver) ResolveGroupMembers(ctx context.Context, groupID string) []string {
	if strings.TrimSpace(groupID) == "" {
		r.log.Warn("group resolution skipped: blank group id")
		return nil
	}
	members, err := r.membership.GetGroupMembers(ctx, groupID)
	if err != nil {
		r.log.Warn("group member lookup failed", zap.String("group_id", groupID), zap.Error(err))
		return nil
	}
	return normalize(members)
}

func (r *Resolver) ResolveThreadSubscribers(ctx context.Context, threadID string) []string {
	if strings.TrimSpace(threadID) == "" {
		r.log.Warn("thread resolution skipped: blank thread id")
		return nil
	}
	subscribers, err := r.membership.GetSubscribersForThread(ctx, threadID)
	if err != nil {
		r.log.Warn("thread subscriber lookup failed", zap.String("thread_id", threadID), zap.Error(err))
		return nil
	}
	return normalize(subscribers)
}

func normalize(ids []string) []string {
	return lo.Uniq(lo.Filter(ids, func(id string, _ int) bool {
		return strings.TrimSpace(id) != ""
	}))
}
