package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sammy-dev-001/campusOS-backend-sub001/internal/config"
	"github.com/sammy-dev-001/campusOS-backend-sub001/internal/domain"
	"github.com/sammy-dev-001/campusOS-backend-sub001/internal/http/dto"
	"github.com/sammy-dev-001/campusOS-backend-sub001/internal/http/resp"
	"github.com/sammy-dev-001/campusOS-backend-sub001/internal/hub"
	"github.com/sammy-dev-001/campusOS-backend-sub001/internal/model"
	"github.com/sammy-dev-001/campusOS-backend-sub001/internal/queue"
	"github.com/sammy-dev-001/campusOS-backend-sub001/internal/repository"
	"github.com/sammy-dev-001/campusOS-backend-sub001/internal/service/notify"
	"github.com/sammy-dev-001/campusOS-backend-sub001/internal/topic"
)

type Handler struct {
	cfg        *config.Config
	svc        *notify.Service
	hub        *hub.Hub
	membership repository.Membership
	pub        queue.Publisher
	log        *zap.Logger
}

func NewHandler(
	cfg *config.Config,
	svc *notify.Service,
	h *hub.Hub,
	membership repository.Membership,
	logger *zap.Logger,
	publisher queue.Publisher,
) *Handler {
	return &Handler{cfg: cfg, svc: svc, hub: h, membership: membership, log: logger, pub: publisher}
}

func (h *Handler) SendNotification(c *gin.Context) {
	var req dto.SendNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: resp.CodeBadRequest, Message: "invalid json"})
		return
	}
	created, err := h.svc.SendNotification(c.Request.Context(), c.Param("id"), req.Kind, req.Payload)
	if err != nil {
		h.respondError(c, err, "send notification failed", zap.String("user_id", c.Param("id")))
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) Broadcast(c *gin.Context) {
	var req dto.BroadcastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: resp.CodeBadRequest, Message: "invalid json"})
		return
	}
	created, err := h.svc.BroadcastNotification(c.Request.Context(), req.UserIDs, req.Kind, req.Payload)
	if err != nil {
		h.respondError(c, err, "broadcast failed", zap.Int("recipients", len(req.UserIDs)))
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) ListNotifications(c *gin.Context) {
	page := intQuery(c, "page", 1)
	limit := intQuery(c, "limit", h.cfg.PageLimit)

	result, err := h.svc.GetUserNotifications(c.Request.Context(), c.Param("id"), page, limit)
	if err != nil {
		h.respondError(c, err, "list notifications failed", zap.String("user_id", c.Param("id")))
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) UnreadCount(c *gin.Context) {
	count, err := h.svc.GetUnreadCount(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err, "unread count failed", zap.String("user_id", c.Param("id")))
		return
	}
	c.JSON(http.StatusOK, dto.UnreadCountResponse{Count: count})
}

func (h *Handler) MarkAllAsRead(c *gin.Context) {
	updated, err := h.svc.MarkAllAsRead(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err, "mark all read failed", zap.String("user_id", c.Param("id")))
		return
	}
	c.JSON(http.StatusOK, dto.MarkAllReadResponse{Updated: updated})
}

func (h *Handler) MarkAsRead(c *gin.Context) {
	record, err := h.svc.MarkAsRead(c.Request.Context(), c.Param("id"), c.Query("user_id"))
	if err != nil {
		h.respondError(c, err, "mark read failed", zap.String("id", c.Param("id")))
		return
	}
	c.JSON(http.StatusOK, record)
}

func (h *Handler) DeleteNotification(c *gin.Context) {
	record, err := h.svc.DeleteNotification(c.Request.Context(), c.Param("id"), c.Query("user_id"))
	if err != nil {
		h.respondError(c, err, "delete notification failed", zap.String("id", c.Param("id")))
		return
	}
	c.JSON(http.StatusOK, record)
}

func (h *Handler) Announcement(c *gin.Context) {
	var req dto.AnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: resp.CodeBadRequest, Message: "invalid json"})
		return
	}
	if err := h.svc.HandleAnnouncement(c.Request.Context(), req.Data, req.Roles); err != nil {
		h.respondError(c, err, "announcement failed")
		return
	}
	c.Status(http.StatusAccepted)
}

func (h *Handler) ForumPost(c *gin.Context) {
	var req dto.ForumPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: resp.CodeBadRequest, Message: "invalid json"})
		return
	}
	if err := h.svc.HandleForumPost(c.Request.Context(), req.Post, req.ThreadID, req.EventType); err != nil {
		h.respondError(c, err, "forum post failed", zap.String("thread_id", req.ThreadID))
		return
	}
	c.Status(http.StatusAccepted)
}

func (h *Handler) StudyGroupUpdate(c *gin.Context) {
	var req dto.StudyGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: resp.CodeBadRequest, Message: "invalid json"})
		return
	}
	if err := h.svc.HandleStudyGroupUpdate(c.Request.Context(), req.GroupID, req.Data, req.EventType); err != nil {
		h.respondError(c, err, "study group update failed", zap.String("group_id", req.GroupID))
		return
	}
	c.Status(http.StatusAccepted)
}

func (h *Handler) DirectMessage(c *gin.Context) {
	var req dto.DirectMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: resp.CodeBadRequest, Message: "invalid json"})
		return
	}
	if err := h.svc.SendDirectMessage(c.Request.Context(), c.Param("id"), req.Message); err != nil {
		h.respondError(c, err, "direct message failed", zap.String("user_id", c.Param("id")))
		return
	}
	c.Status(http.StatusAccepted)
}

// PublishEvent hands an event to the message bus instead of dispatching
// in-process; the consumer picks it up on the other side.
func (h *Handler) PublishEvent(c *gin.Context) {
	var req dto.PublishEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: resp.CodeBadRequest, Message: "invalid json"})
		return
	}
	if req.Type == "" {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: resp.CodeBadRequest, Message: "type is required"})
		return
	}

	payload, err := json.Marshal(req)
	if err != nil {
		h.log.Error("publish payload marshal failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Code: resp.CodeInternalError, Message: "failed to publish event"})
		return
	}

	prefix := h.cfg.RabbitPublishPrefix
	if prefix == "" {
		prefix = "event"
	}
	routingKey := prefix + "." + req.Type
	if err := h.pub.Publish(c.Request.Context(), payload, routingKey); err != nil {
		h.log.Error("publish event failed", zap.String("type", req.Type), zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Code: resp.CodeInternalError, Message: "failed to publish event"})
		return
	}
	c.JSON(http.StatusAccepted, dto.StatusResponse{Code: resp.CodeQueued, Message: "queued"})
}

// Stream is the live delivery surface: an SSE connection subscribed to the
// user's own topic, the global topic, any requested role topics, and the
// user's group topics. History is served by ListNotifications, not replayed
// here.
func (h *Handler) Stream(c *gin.Context) {
	userID := c.Param("id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: resp.CodeBadRequest, Message: "user id required"})
		return
	}

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		h.log.Error("streaming unsupported", zap.String("user_id", userID))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Code: resp.CodeInternalError, Message: "streaming unsupported"})
		return
	}

	topics := []string{topic.User(userID), topic.Global}
	for _, role := range c.QueryArray("role") {
		topics = append(topics, topic.Role(role))
	}
	groups, err := h.membership.GetGroupsForUser(c.Request.Context(), userID)
	if err != nil {
		h.log.Warn("group subscription lookup failed", zap.String("user_id", userID), zap.Error(err))
	}
	for _, groupID := range groups {
		topics = append(topics, topic.Group(groupID))
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)
	flusher.Flush()

	client := &hub.Client{
		UserID: userID,
		Topics: topics,
		Ch:     make(chan model.Envelope, 16),
	}
	h.hub.Register(client)
	defer h.hub.Unregister(client)

	heartbeat := time.NewTicker(h.cfg.SSEHeartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-c.Request.Context().Done():
			return
		case <-heartbeat.C:
			if _, err := fmt.Fprint(c.Writer, ": ping\n\n"); err != nil {
				h.log.Error("heartbeat write failed", zap.String("user_id", userID), zap.Error(err))
				return
			}
			flusher.Flush()
		case env, ok := <-client.Ch:
			if !ok {
				return
			}
			if err := writeEnvelope(c.Writer, env); err != nil {
				h.log.Error("write envelope failed", zap.String("user_id", userID), zap.Error(err))
				return
			}
			flusher.Flush()
		}
	}
}

func (h *Handler) respondError(c *gin.Context, err error, logMsg string, fields ...zap.Field) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: resp.CodeBadRequest, Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Code: resp.CodeNotFound, Message: err.Error()})
	default:
		h.log.Error(logMsg, append(fields, zap.Error(err))...)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Code: resp.CodeInternalError, Message: "internal error"})
	}
}

func writeEnvelope(w http.ResponseWriter, env model.Envelope) error {
	payload, err := json.Marshal(env)
	if err != nil {
		return err
	}
	// SSE frame: id is the notification id so clients can deduplicate
	// across topics, event name is fixed, data is the envelope JSON.
	_, err = fmt.Fprintf(w, "id: %s\nevent: notification\ndata: %s\n\n", env.ID, payload)
	return err
}

func intQuery(c *gin.Context, key string, fallback int) int {
	if v := c.Query(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}
