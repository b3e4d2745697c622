package envelope

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sammy-dev-001/campusOS-backend-sub001/internal/domain"
)

func TestBuild(t *testing.T) {
	t.Run("assigns an id when the event carries none", func(t *testing.T) {
		builder := NewBuilder()
		env := builder.Build(domain.KindDirect, map[string]any{"text": "hi"})
		require.NotEmpty(t, env.ID)
		require.Equal(t, domain.KindDirect, env.Kind)
		require.True(t, env.IsNew)
		require.WithinDuration(t, time.Now().UTC(), env.CreatedAt, time.Second)
		require.WithinDuration(t, time.Now().UTC(), env.DispatchedAt, time.Second)
	})

	t.Run("keeps a caller-supplied id", func(t *testing.T) {
		builder := NewBuilder()
		env := builder.Build(domain.KindDirect, map[string]any{"id": "evt-1"})
		require.Equal(t, "evt-1", env.ID)
	})

	t.Run("uses the declared timestamp", func(t *testing.T) {
		declared := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		builder := NewBuilder()

		env := builder.Build(domain.KindThread, map[string]any{"timestamp": declared})
		require.Equal(t, declared, env.CreatedAt)

		env = builder.Build(domain.KindThread, map[string]any{"timestamp": declared.Format(time.RFC3339)})
		require.Equal(t, declared, env.CreatedAt)
	})

	t.Run("falls back to now on an unparseable timestamp", func(t *testing.T) {
		builder := NewBuilder()
		env := builder.Build(domain.KindThread, map[string]any{"timestamp": "yesterday-ish"})
		require.WithinDuration(t, time.Now().UTC(), env.CreatedAt, time.Second)
	})

	t.Run("never aliases the caller's payload", func(t *testing.T) {
		builder := NewBuilder()
		data := map[string]any{"text": "original"}
		env := builder.Build(domain.KindDirect, data)

		data["text"] = "mutated"
		require.Equal(t, "original", env.Payload["text"])

		env.Payload["text"] = "mutated again"
		require.Equal(t, "mutated", data["text"])
	})

	t.Run("ids are unique across builds", func(t *testing.T) {
		builder := NewBuilder()
		seen := make(map[string]struct{})
		for i := 0; i < 100; i++ {
			env := builder.Build(domain.KindDirect, nil)
			_, dup := seen[env.ID]
			require.False(t, dup)
			seen[env.ID] = struct{}{}
		}
	})
}
