package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/sammy-dev-001/campusOS-backend-sub001/internal/config"
	"github.com/sammy-dev-001/campusOS-backend-sub001/internal/http/controller"
	"github.com/sammy-dev-001/campusOS-backend-sub001/internal/http/middleware"
)

func NewRouter(handler *controller.Handler, registry *prometheus.Registry, cfg *config.Config, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(
		middleware.ZapLogger(logger),
		middleware.ZapRecovery(logger),
		otelgin.Middleware(cfg.OTELServiceName),
	)

	router.GET("/health", func(c *gin.Context) {
		c.Status(200)
	})
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	v1 := router.Group("/api/v1")
	v1.POST("/users/:id/notifications", handler.SendNotification)
	v1.GET("/users/:id/notifications", handler.ListNotifications)
	v1.GET("/users/:id/notifications/unread-count", handler.UnreadCount)
	v1.POST("/users/:id/notifications/read-all", handler.MarkAllAsRead)
	v1.GET("/users/:id/stream", handler.Stream)
	v1.POST("/users/:id/messages", handler.DirectMessage)

	v1.POST("/notifications/broadcast", handler.Broadcast)
	v1.POST("/notifications/:id/read", handler.MarkAsRead)
	v1.DELETE("/notifications/:id", handler.DeleteNotification)

	v1.POST("/events/announcement", handler.Announcement)
	v1.POST("/events/forum-post", handler.ForumPost)
	v1.POST("/events/study-group", handler.StudyGroupUpdate)
	v1.POST("/events/publish", handler.PublishEvent)

	return router
}
