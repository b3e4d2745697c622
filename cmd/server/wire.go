//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/sammy-dev-001/campusOS-backend-sub001/internal/app"
	"github.com/sammy-dev-001/campusOS-backend-sub001/internal/audience"
	"github.com/sammy-dev-001/campusOS-backend-sub001/internal/config"
	"github.com/sammy-dev-001/campusOS-backend-sub001/internal/dispatch"
	"github.com/sammy-dev-001/campusOS-backend-sub001/internal/envelope"
	httpserver "github.com/sammy-dev-001/campusOS-backend-sub001/internal/http"
	"github.com/sammy-dev-001/campusOS-backend-sub001/internal/http/controller"
	"github.com/sammy-dev-001/campusOS-backend-sub001/internal/hub"
	"github.com/sammy-dev-001/campusOS-backend-sub001/internal/logging"
	"github.com/sammy-dev-001/campusOS-backend-sub001/internal/metrics"
	"github.com/sammy-dev-001/campusOS-backend-sub001/internal/offline"
	"github.com/sammy-dev-001/campusOS-backend-sub001/internal/queue/rabbitmq"
	"github.com/sammy-dev-001/campusOS-backend-sub001/internal/service/notify"
	"github.com/sammy-dev-001/campusOS-backend-sub001/internal/store"
)

func InitializeApp() (*app.App, error) {
	wire.Build(
		config.New,
		logging.New,
		metrics.NewRegistry,
		metrics.New,
		store.New,
		hub.NewHub,
		offline.NewBuffer,
		envelope.NewBuilder,
		audience.NewResolver,
		dispatch.NewDispatcher,
		notify.NewService,
		controller.NewHandler,
		httpserver.NewRouter,
		rabbitmq.NewConsumer,
		rabbitmq.NewPublisher,
		app.NewApp,
		wire.Bind(new(dispatch.Transport), new(*hub.Hub)),
		wire.Bind(new(dispatch.Presence), new(*hub.Hub)),
		wire.Bind(new(dispatch.OfflineStore), new(*offline.Buffer)),
	)
	return &app.App{}, nil
}
