package audience

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type membershipMock struct {
	mock.Mock
}

func (m *membershipMock) GetGroupMembers(ctx context.Context, groupID string) ([]string, error) {
	args := m.Called(ctx, groupID)
	return args.Get(0).([]string), args.Error(1)
}

func (m *membershipMock) GetGroupsForUser(ctx context.Context, userID string) ([]string, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]string), args.Error(1)
}

func (m *membershipMock) GetSubscribersForThread(ctx context.Context, threadID string) ([]string, error) {
	args := m.Called(ctx, threadID)
	return args.Get(0).([]string), args.Error(1)
}

func TestResolveGroupMembers(t *testing.T) {
	t.Run("dedupes and drops blank ids", func(t *testing.T) {
		membership := &membershipMock{}
		membership.On("GetGroupMembers", mock.Anything, "g1").
			Return([]string{"u1", "u2", "u1", "", "  "}, nil).Once()
		resolver := NewResolver(membership, zap.NewNop())

		got := resolver.ResolveGroupMembers(context.Background(), "g1")
		require.Equal(t, []string{"u1", "u2"}, got)
		membership.AssertExpectations(t)
	})

	t.Run("blank group id degrades to empty set", func(t *testing.T) {
		membership := &membershipMock{}
		resolver := NewResolver(membership, zap.NewNop())

		require.Empty(t, resolver.ResolveGroupMembers(context.Background(), "   "))
		membership.AssertNotCalled(t, "GetGroupMembers", mock.Anything, mock.Anything)
	})

	t.Run("lookup error degrades to empty set", func(t *testing.T) {
		membership := &membershipMock{}
		membership.On("GetGroupMembers", mock.Anything, "g1").
			Return([]string(nil), errors.New("store down")).Once()
		resolver := NewResolver(membership, zap.NewNop())

		require.Empty(t, resolver.ResolveGroupMembers(context.Background(), "g1"))
		membership.AssertExpectations(t)
	})

	t.Run("a failed lookup never taints the next one", func(t *testing.T) {
		membership := &membershipMock{}
		membership.On("GetGroupMembers", mock.Anything, "broken").
			Return([]string(nil), errors.New("store down")).Once()
		membership.On("GetGroupMembers", mock.Anything, "g1").
			Return([]string{"u1"}, nil).Once()
		resolver := NewResolver(membership, zap.NewNop())

		require.Empty(t, resolver.ResolveGroupMembers(context.Background(), "broken"))
		require.Equal(t, []string{"u1"}, resolver.ResolveGroupMembers(context.Background(), "g1"))
		membership.AssertExpectations(t)
	})
}

func TestResolveThreadSubscribers(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		membership := &membershipMock{}
		membership.On("GetSubscribersForThread", mock.Anything, "t1").
			Return([]string{"u3", "u4"}, nil).Once()
		resolver := NewResolver(membership, zap.NewNop())

		require.Equal(t, []string{"u3", "u4"}, resolver.ResolveThreadSubscribers(context.Background(), "t1"))
		membership.AssertExpectations(t)
	})

	t.Run("blank thread id", func(t *testing.T) {
		membership := &membershipMock{}
		resolver := NewResolver(membership, zap.NewNop())

		require.Empty(t, resolver.ResolveThreadSubscribers(context.Background(), ""))
		membership.AssertNotCalled(t, "GetSubscribersForThread", mock.Anything, mock.Anything)
	})

	t.Run("lookup error degrades to empty set", func(t *testing.T) {
		membership := &membershipMock{}
		membership.On("GetSubscribersForThread", mock.Anything, "t1").
			Return([]string(nil), errors.New("store down")).Once()
		resolver := NewResolver(membership, zap.NewNop())

		require.Empty(t, resolver.ResolveThreadSubscribers(context.Background(), "t1"))
		membership.AssertExpectations(t)
	})
}
