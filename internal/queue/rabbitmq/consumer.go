package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.uber.org/zap"

	"github.com/sammy-dev-001/campusOS-backend-sub001/internal/config"
	"github.com/sammy-dev-001/campusOS-backend-sub001/internal/domain"
	"github.com/sammy-dev-001/campusOS-backend-sub001/internal/queue"
	"github.com/sammy-dev-001/campusOS-backend-sub001/internal/service/notify"
)

// Event types accepted off the bus.
const (
	EventTypeUser         = "user"
	EventTypeBroadcast    = "broadcast"
	EventTypeAnnouncement = "announcement"
	EventTypeForumPost    = "forum_post"
	EventTypeStudyGroup   = "study_group"
	EventTypeDirect       = "direct"
)

type noopConsumer struct{}

func (n *noopConsumer) Start(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}

type Consumer struct {
	url         string
	svc         *notify.Service
	logger      *zap.Logger
	exchange    string
	queue       string
	routingKey  string
	consumerTag string
}

func NewConsumer(cfg *config.Config, svc *notify.Service, logger *zap.Logger) queue.Consumer {
	if cfg.RabbitMQURL == "" {
		return &noopConsumer{}
	}
	return &Consumer{
		url:         cfg.RabbitMQURL,
		svc:         svc,
		logger:      logger,
		exchange:    cfg.RabbitExchange,
		queue:       cfg.RabbitQueue,
		routingKey:  cfg.RabbitRoutingKey,
		consumerTag: cfg.RabbitConsumerTag,
	}
}

func (r *Consumer) Start(ctx context.Context) error {
	ctx, span := otel.Tracer("rabbitmq").Start(ctx, "rabbitmq.consume_loop")
	span.SetAttributes(
		attribute.String("messaging.system", "rabbitmq"),
		attribute.String("messaging.destination", r.exchange),
		attribute.String("messaging.destination_kind", "exchange"),
		attribute.String("messaging.rabbitmq.routing_key", r.routingKey),
	)
	defer span.End()

	conn, err := amqp.Dial(r.url)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "dial failed")
		return fmt.Errorf("rabbitmq dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "channel failed")
		return fmt.Errorf("rabbitmq channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(10, 0, false); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "qos failed")
		return fmt.Errorf("rabbitmq qos: %w", err)
	}

	if err := ch.ExchangeDeclare(
		r.exchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "exchange declare failed")
		return fmt.Errorf("rabbitmq exchange declare: %w", err)
	}

	queueInfo, err := ch.QueueDeclare(
		r.queue,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "queue declare failed")
		return fmt.Errorf("rabbitmq queue declare: %w", err)
	}

	if err := ch.QueueBind(
		queueInfo.Name,
		r.routingKey,
		r.exchange,
		false,
		nil,
	); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "queue bind failed")
		return fmt.Errorf("rabbitmq queue bind: %w", err)
	}

	deliveries, err := ch.Consume(
		queueInfo.Name,
		r.consumerTag,
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "consume failed")
		return fmt.Errorf("rabbitmq consume: %w", err)
	}

	r.logger.Info("RabbitMQ consumer started",
		zap.String("exchange", r.exchange),
		zap.String("queue", queueInfo.Name),
		zap.String("routing_key", r.routingKey),
	)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-deliveries:
			if !ok {
				span.SetStatus(codes.Error, "deliveries closed")
				return errors.New("rabbitmq deliveries closed")
			}
			if err := r.handleMessage(ctx, msg); err != nil {
				span.RecordError(err)
				return err
			}
		}
	}
}

type eventPayload struct {
	Type      string         `json:"type"`
	Kind      string         `json:"kind"`
	UserID    string         `json:"user_id"`
	UserIDs   []string       `json:"user_ids"`
	Roles     []string       `json:"roles"`
	ThreadID  string         `json:"thread_id"`
	GroupID   string         `json:"group_id"`
	EventType string         `json:"event_type"`
	Data      map[string]any `json:"data"`
}

func (r *Consumer) handleMessage(ctx context.Context, msg amqp.Delivery) error {
	ctx = otel.GetTextMapPropagator().Extract(ctx, propagation.MapCarrier(toMapCarrier(msg.Headers)))
	ctx, span := otel.Tracer("rabbitmq").Start(ctx, "rabbitmq.handle_message")
	span.SetAttributes(
		attribute.String("messaging.system", "rabbitmq"),
		attribute.String("messaging.destination", r.exchange),
		attribute.String("messaging.rabbitmq.routing_key", msg.RoutingKey),
	)
	defer span.End()

	var p eventPayload
	if err := json.Unmarshal(msg.Body, &p); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid json")
		r.logger.Error("rabbitmq invalid json", zap.Error(err))
		return msg.Ack(false)
	}

	dispatchCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := r.dispatch(dispatchCtx, p)
	if err == nil {
		return msg.Ack(false)
	}

	span.RecordError(err)
	if errors.Is(err, domain.ErrValidation) {
		// Poison message: a requeue would loop forever.
		span.SetStatus(codes.Error, "invalid event")
		r.logger.Warn("rabbitmq invalid event", zap.String("type", p.Type), zap.Error(err))
		return msg.Ack(false)
	}

	span.SetStatus(codes.Error, "dispatch failed")
	r.logger.Error("rabbitmq dispatch failed", zap.String("type", p.Type), zap.Error(err))
	if nackErr := msg.Nack(false, true); nackErr != nil {
		r.logger.Error("rabbitmq nack failed", zap.Error(nackErr))
	}
	return nil
}

func (r *Consumer) dispatch(ctx context.Context, p eventPayload) error {
	switch p.Type {
	case EventTypeUser:
		_, err := r.svc.SendNotification(ctx, p.UserID, p.Kind, p.Data)
		return err
	case EventTypeBroadcast:
		_, err := r.svc.BroadcastNotification(ctx, p.UserIDs, p.Kind, p.Data)
		return err
	case EventTypeAnnouncement:
		return r.svc.HandleAnnouncement(ctx, p.Data, p.Roles)
	case EventTypeForumPost:
		return r.svc.HandleForumPost(ctx, p.Data, p.ThreadID, p.EventType)
	case EventTypeStudyGroup:
		return r.svc.HandleStudyGroupUpdate(ctx, p.GroupID, p.Data, p.EventType)
	case EventTypeDirect:
		return r.svc.SendDirectMessage(ctx, p.UserID, p.Data)
	default:
		return fmt.Errorf("%w: unknown event type %q", domain.ErrValidation, p.Type)
	}
}

func toMapCarrier(headers amqp.Table) map[string]string {
	carrier := make(map[string]string, len(headers))
	for k, v := range headers {
		carrier[k] = fmt.Sprintf("%v", v)
	}
	return carrier
}
