package offline

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sammy-dev-001/campusOS-backend-sub001/internal/config"
	"github.com/sammy-dev-001/campusOS-backend-sub001/internal/metrics"
	"github.com/sammy-dev-001/campusOS-backend-sub001/internal/model"
)

func newTestBuffer(size int) *Buffer {
	cfg := &config.Config{OfflineBufferSize: size}
	return NewBuffer(cfg, metrics.New(metrics.NewRegistry()), zap.NewNop())
}

func envelopeWithID(id string) model.Envelope {
	return model.Envelope{Notification: model.Notification{ID: id}}
}

func TestBufferStoreAndPending(t *testing.T) {
	buffer := newTestBuffer(8)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go buffer.Run(ctx)

	buffer.Store("u1", envelopeWithID("n1"))
	buffer.Store("u1", envelopeWithID("n2"))
	buffer.Store("u2", envelopeWithID("n3"))

	require.Eventually(t, func() bool {
		return len(buffer.Pending("u1")) == 2 && len(buffer.Pending("u2")) == 1
	}, time.Second, 10*time.Millisecond)

	pending := buffer.Pending("u1")
	require.Equal(t, "n1", pending[0].ID)
	require.Equal(t, "n2", pending[1].ID)
	require.Empty(t, buffer.Pending("u3"))
}

func TestBufferNeverBlocksWhenFull(t *testing.T) {
	// No Run loop draining: the intake fills and overflow is dropped.
	buffer := newTestBuffer(2)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			buffer.Store("u1", envelopeWithID("n"))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("Store blocked on a full buffer")
	}
}

func TestBufferPendingReturnsACopy(t *testing.T) {
	buffer := newTestBuffer(8)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go buffer.Run(ctx)

	buffer.Store("u1", envelopeWithID("n1"))
	require.Eventually(t, func() bool { return len(buffer.Pending("u1")) == 1 }, time.Second, 10*time.Millisecond)

	first := buffer.Pending("u1")
	first[0].ID = "mutated"
	require.Equal(t, "n1", buffer.Pending("u1")[0].ID)
}
