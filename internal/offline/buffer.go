package offline

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/sammy-dev-001/campusOS-backend-sub001/internal/config"
	"github.com/sammy-dev-001/campusOS-backend-sub001/internal/metrics"
	"github.com/sammy-dev-001/campusOS-backend-sub001/internal/model"
)

type message struct {
	userID   string
	envelope model.Envelope
}

// Buffer retains messages for recipients with no live transport presence.
// Store never blocks the publish path: when the intake channel is full the
// message is dropped and counted. Retention is in-memory, strictly
// best-effort; later delivery is outside the core.
type Buffer struct {
	in      chan message
	mu      sync.Mutex
	pending map[string][]model.Envelope
	metrics *metrics.Metrics
	log     *zap.Logger
}

func NewBuffer(cfg *config.Config, m *metrics.Metrics, logger *zap.Logger) *Buffer {
	size := cfg.OfflineBufferSize
	if size <= 0 {
		size = 256
	}
	return &Buffer{
		in:      make(chan message, size),
		pending: make(map[string][]model.Envelope),
		metrics: m,
		log:     logger,
	}
}

// Store queues an undeliverable envelope. Non-blocking; drops on overflow.
func (b *Buffer) Store(userID string, env model.Envelope) {
	select {
	case b.in <- message{userID: userID, envelope: env}:
	default:
		b.metrics.OfflineDropped.Inc()
		b.log.Warn("offline buffer full, message dropped",
			zap.String("user_id", userID),
			zap.String("notification_id", env.ID),
		)
	}
}

func (b *Buffer) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-b.in:
			b.mu.Lock()
			b.pending[msg.userID] = append(b.pending[msg.userID], msg.envelope)
			b.mu.Unlock()
			b.metrics.OfflineBuffered.Inc()
		}
	}
}

// Pending returns a copy of the buffered envelopes for a user.
func (b *Buffer) Pending(userID string) []model.Envelope {
	b.mu.Lock()
	defer b.mu.Unlock()
	buffered := b.pending[userID]
	out := make([]model.Envelope, len(buffered))
	copy(out, buffered)
	return out
}
