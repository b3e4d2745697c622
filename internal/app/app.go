package app

import (
	"context"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sammy-dev-001/campusOS-backend-sub001/internal/config"
	"github.com/sammy-dev-001/campusOS-backend-sub001/internal/hub"
	"github.com/sammy-dev-001/campusOS-backend-sub001/internal/offline"
	"github.com/sammy-dev-001/campusOS-backend-sub001/internal/queue"
	"github.com/sammy-dev-001/campusOS-backend-sub001/internal/telemetry"
)

type App struct {
	cfg      *config.Config
	hub      *hub.Hub
	buffer   *offline.Buffer
	consumer queue.Consumer
	server   *http.Server
	logger   *zap.Logger
	wg       sync.WaitGroup
}

func NewApp(
	cfg *config.Config,
	h *hub.Hub,
	buffer *offline.Buffer,
	consumer queue.Consumer,
	router *gin.Engine,
	logger *zap.Logger,
) *App {
	return &App{
		cfg:      cfg,
		hub:      h,
		buffer:   buffer,
		consumer: consumer,
		server: &http.Server{
			Addr:    cfg.HTTPAddr,
			Handler: router,
		},
		logger: logger,
	}
}

func (a *App) Run(ctx context.Context) error {
	shutdownTracing, err := telemetry.Init(ctx, a.cfg)
	if err != nil {
		return err
	}
	defer func() { _ = shutdownTracing(context.Background()) }()

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		a.hub.Run(ctx)
	}()

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		a.buffer.Run(ctx)
	}()

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		if err := a.consumer.Start(ctx); err != nil && ctx.Err() == nil {
			a.logger.Error("consumer stopped", zap.Error(err))
		}
	}()

	return a.server.ListenAndServe()
}

func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("graceful shutdown started")
	shutdownErr := a.server.Shutdown(ctx)

	done := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		a.logger.Info("graceful shutdown completed")
		return shutdownErr
	case <-ctx.Done():
		if shutdownErr != nil {
			return shutdownErr
		}
		return ctx.Err()
	}
}

func (a *App) Logger() *zap.Logger {
	return a.logger
}
