package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sammy-dev-001/campusOS-backend-sub001/internal/domain"
	"github.com/sammy-dev-001/campusOS-backend-sub001/internal/model"
)

func TestCreate(t *testing.T) {
	store := New(zap.NewNop())
	ctx := context.Background()

	created, err := store.Create(ctx, model.Notification{RecipientID: "u1", Kind: domain.KindDirect})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.False(t, created.CreatedAt.IsZero())
	require.False(t, created.Read)
}

func TestCreateForUsers(t *testing.T) {
	store := New(zap.NewNop())
	ctx := context.Background()

	created, err := store.CreateForUsers(ctx, []string{"u1", "u2"}, model.Notification{Kind: domain.KindBroadcast})
	require.NoError(t, err)
	require.Len(t, created, 2)
	require.Equal(t, "u1", created[0].RecipientID)
	require.Equal(t, "u2", created[1].RecipientID)
	require.NotEqual(t, created[0].ID, created[1].ID)
}

func TestFindPagination(t *testing.T) {
	store := New(zap.NewNop())
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 25; i++ {
		_, err := store.Create(ctx, model.Notification{
			RecipientID: "u1",
			Kind:        domain.KindDirect,
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}
	_, err := store.Create(ctx, model.Notification{RecipientID: "other", Kind: domain.KindDirect})
	require.NoError(t, err)

	page1, total, err := store.Find(ctx, "u1", 1, 10)
	require.NoError(t, err)
	require.Equal(t, 25, total)
	require.Len(t, page1, 10)

	page2, _, err := store.Find(ctx, "u1", 2, 10)
	require.NoError(t, err)
	require.Len(t, page2, 10)

	// Newest first: page 2 of size 10 carries items 11-20.
	require.Equal(t, base.Add(24*time.Minute), page1[0].CreatedAt)
	require.Equal(t, base.Add(14*time.Minute), page2[0].CreatedAt)

	seen := make(map[string]struct{})
	for _, record := range append(page1, page2...) {
		_, dup := seen[record.ID]
		require.False(t, dup, "pages must be disjoint")
		seen[record.ID] = struct{}{}
	}

	page3, _, err := store.Find(ctx, "u1", 3, 10)
	require.NoError(t, err)
	require.Len(t, page3, 5)

	empty, total, err := store.Find(ctx, "u1", 9, 10)
	require.NoError(t, err)
	require.Empty(t, empty)
	require.Equal(t, 25, total)
}

func TestFindBreaksTiesByID(t *testing.T) {
	store := New(zap.NewNop())
	ctx := context.Background()

	ts := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	_, err := store.Create(ctx, model.Notification{ID: "a", RecipientID: "u1", CreatedAt: ts})
	require.NoError(t, err)
	_, err = store.Create(ctx, model.Notification{ID: "b", RecipientID: "u1", CreatedAt: ts})
	require.NoError(t, err)

	records, _, err := store.Find(ctx, "u1", 1, 10)
	require.NoError(t, err)
	require.Equal(t, []string{"b", "a"}, []string{records[0].ID, records[1].ID})
}

func TestMarkAsRead(t *testing.T) {
	store := New(zap.NewNop())
	ctx := context.Background()

	created, err := store.Create(ctx, model.Notification{RecipientID: "u1", Kind: domain.KindDirect})
	require.NoError(t, err)

	t.Run("owner can mark read", func(t *testing.T) {
		updated, err := store.MarkAsRead(ctx, created.ID, "u1")
		require.NoError(t, err)
		require.True(t, updated.Read)
	})

	t.Run("marking read twice keeps it read", func(t *testing.T) {
		updated, err := store.MarkAsRead(ctx, created.ID, "u1")
		require.NoError(t, err)
		require.True(t, updated.Read)
	})

	t.Run("ownership mismatch is not found", func(t *testing.T) {
		_, err := store.MarkAsRead(ctx, created.ID, "intruder")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		_, err := store.MarkAsRead(ctx, "missing", "u1")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestMarkAllAsRead(t *testing.T) {
	store := New(zap.NewNop())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := store.Create(ctx, model.Notification{RecipientID: "u1", Kind: domain.KindDirect})
		require.NoError(t, err)
	}

	updated, err := store.MarkAllAsRead(ctx, "u1")
	require.NoError(t, err)
	require.EqualValues(t, 3, updated)

	count, err := store.CountUnread(ctx, "u1")
	require.NoError(t, err)
	require.Zero(t, count)

	// Idempotent.
	updated, err = store.MarkAllAsRead(ctx, "u1")
	require.NoError(t, err)
	require.Zero(t, updated)

	count, err = store.CountUnread(ctx, "u1")
	require.NoError(t, err)
	require.Zero(t, count)
}

func TestDelete(t *testing.T) {
	store := New(zap.NewNop())
	ctx := context.Background()

	created, err := store.Create(ctx, model.Notification{RecipientID: "u1", Kind: domain.KindDirect})
	require.NoError(t, err)

	t.Run("ownership mismatch is not found and leaves the record", func(t *testing.T) {
		_, err := store.Delete(ctx, created.ID, "intruder")
		require.ErrorIs(t, err, domain.ErrNotFound)

		records, total, err := store.Find(ctx, "u1", 1, 10)
		require.NoError(t, err)
		require.Equal(t, 1, total)
		require.Len(t, records, 1)
	})

	t.Run("owner delete removes the record for good", func(t *testing.T) {
		deleted, err := store.Delete(ctx, created.ID, "u1")
		require.NoError(t, err)
		require.Equal(t, created.ID, deleted.ID)

		_, total, err := store.Find(ctx, "u1", 1, 10)
		require.NoError(t, err)
		require.Zero(t, total)

		_, err = store.Delete(ctx, created.ID, "u1")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestMembership(t *testing.T) {
	store := New(zap.NewNop())
	ctx := context.Background()

	store.SeedGroup("g1", "u1", "u2")
	store.SeedGroup("g2", "u2")
	store.SeedThread("t1", "u1", "u3")

	members, err := store.GetGroupMembers(ctx, "g1")
	require.NoError(t, err)
	require.Equal(t, []string{"u1", "u2"}, members)

	groups, err := store.GetGroupsForUser(ctx, "u2")
	require.NoError(t, err)
	require.Equal(t, []string{"g1", "g2"}, groups)

	subscribers, err := store.GetSubscribersForThread(ctx, "t1")
	require.NoError(t, err)
	require.Equal(t, []string{"u1", "u3"}, subscribers)

	unknown, err := store.GetGroupMembers(ctx, "missing")
	require.NoError(t, err)
	require.Empty(t, unknown)
}
