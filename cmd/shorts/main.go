package main

import (
	"context"
	"log/slog"
	"os"

	"shorts/config"
	"shorts/internal/delivery"
	"shorts/internal/delivery/http"
	"shorts/internal/delivery/http/middleware"
	"shorts/internal/delivery/http/router/handler"
	"shorts/internal/delivery/worker"
	workerhandler "shorts/internal/delivery/worker/handler"
	"shorts/internal/domain/service"
	"shorts/internal/infra/auth"
	"shorts/internal/infra/auth/gotrue"
	"shorts/internal/infra/feed"
	logs "shorts/internal/infra/log"
	"shorts/internal/infra/persistence/postgres"
	"shorts/internal/infra/pubsub"
	"shorts/internal/usecase/impl"

	"go.uber.org/fx"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		injectInfra(),
		injectRepo(),
		injectService(),
		injectUsecase(),
		injectDelivery(),
		injectMiddleware(),
		injectHandler(),
		fx.Invoke(
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Provide(
		config.New,
		logs.New,
		context.Background,
		postgres.New,
	)
}

func injectRepo() fx.Option {
	return fx.Options(
		fx.Provide(
			postgres.NewUserIdentityRepository,
			postgres.NewJobRepository,
		),
	)
}

func injectService() fx.Option {
	return fx.Options(
		pubsub.Module,
		fx.Provide(
			auth.NewJWTService,
			gotrue.NewClient,
			fx.Annotate(
				feed.NewHub,
				fx.As(new(service.JobChangeFeed)),
				fx.As(new(service.JobChangeSink)),
			),
		),
	)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewIdentityService,
			impl.NewResolverService,
			impl.NewJobSyncService,
		),
	)
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			middleware.NewAuthMiddleware,
			middleware.NewErrorMiddleware,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewAuthHandler,
			handler.NewJobHandler,
			workerhandler.NewFeedHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				http.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
			fx.Annotate(
				worker.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))
				os.Exit(1)
			}
		}()
	}
}
