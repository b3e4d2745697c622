package dispatch

import (
	"context"

	"go.uber.org/zap"

	"github.com/sammy-dev-001/campusOS-backend-sub001/internal/metrics"
	"github.com/sammy-dev-001/campusOS-backend-sub001/internal/model"
	"github.com/sammy-dev-001/campusOS-backend-sub001/internal/repository"
	"github.com/sammy-dev-001/campusOS-backend-sub001/internal/topic"
)

// Transport is the publish/subscribe primitive. Publish is fire-and-forget:
// no acknowledgment, no retry.
type Transport interface {
	Publish(topic string, env model.Envelope) error
}

// Presence reports whether a recipient has a live connection.
type Presence interface {
	IsOnline(userID string) bool
}

// OfflineStore retains messages for recipients with no live presence. Must
// never block or fail the publish path.
type OfflineStore interface {
	Store(userID string, env model.Envelope)
}

// Dispatcher orchestrates delivery. Persisted paths write to the store first
// so a record is always readable before any push derived from it is emitted;
// a transport failure after the write is logged and swallowed, never rolled
// back.
type Dispatcher struct {
	transport Transport
	presence  Presence
	offline   OfflineStore
	store     repository.NotificationRepository
	metrics   *metrics.Metrics
	log       *zap.Logger
}

func NewDispatcher(
	transport Transport,
	presence Presence,
	offline OfflineStore,
	store repository.NotificationRepository,
	m *metrics.Metrics,
	logger *zap.Logger,
) *Dispatcher {
	return &Dispatcher{
		transport: transport,
		presence:  presence,
		offline:   offline,
		store:     store,
		metrics:   m,
		log:       logger,
	}
}

// Dispatch fans an envelope out to the given topics. Pure publish: no
// persistence, per-topic failures swallowed.
func (d *Dispatcher) Dispatch(_ context.Context, topics []string, env model.Envelope) {
	for _, key := range topics {
		d.publishTo(key, env)
	}
}

// DeliverToUser persists the notification and then pushes it to the owner's
// topic. The returned record is the store's canonical copy. A store failure
// propagates; a publish failure does not.
func (d *Dispatcher) DeliverToUser(ctx context.Context, userID string, env model.Envelope) (model.Notification, error) {
	record := env.Notification
	record.RecipientID = userID

	created, err := d.store.Create(ctx, record)
	if err != nil {
		d.metrics.StoreFailures.Inc()
		d.log.Error("store create failed",
			zap.String("user_id", userID),
			zap.String("kind", record.Kind),
			zap.Error(err),
		)
		return model.Notification{}, err
	}

	env.Notification = created
	d.routeToUser(userID, env)
	return created, nil
}

// DeliverToUsers batch-creates records and pushes each created record to its
// owner. Partial success: callers receive only the created subset, and no
// ordering is guaranteed across recipients.
func (d *Dispatcher) DeliverToUsers(ctx context.Context, userIDs []string, env model.Envelope) ([]model.Notification, error) {
	created, err := d.store.CreateForUsers(ctx, userIDs, env.Notification)
	if err != nil {
		d.metrics.StoreFailures.Inc()
		d.log.Error("store batch create failed",
			zap.Int("recipients", len(userIDs)),
			zap.String("kind", env.Kind),
			zap.Error(err),
		)
		return nil, err
	}

	for _, record := range created {
		out := env
		out.Notification = record
		d.routeToUser(record.RecipientID, out)
	}
	return created, nil
}

// RouteToUser delivers without persistence: push when online, offline buffer
// otherwise.
func (d *Dispatcher) RouteToUser(userID string, env model.Envelope) {
	d.routeToUser(userID, env)
}

func (d *Dispatcher) routeToUser(userID string, env model.Envelope) {
	if !d.presence.IsOnline(userID) {
		d.offline.Store(userID, env)
		return
	}
	d.publishTo(topic.User(userID), env)
}

func (d *Dispatcher) publishTo(key string, env model.Envelope) {
	if err := d.transport.Publish(key, env); err != nil {
		d.metrics.TransportFailures.Inc()
		d.log.Warn("transport publish failed",
			zap.String("topic", key),
			zap.String("notification_id", env.ID),
			zap.Error(err),
		)
		return
	}
	d.metrics.PublishedEnvelopes.Inc()
}
