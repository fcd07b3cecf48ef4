//go:build wireinject
// +build wireinject

package di

import (
	"excursions/config"
	"excursions/infras/kafka"
	"excursions/infras/mailer"
	"excursions/infras/otel"
	"excursions/infras/postgres"
	"excursions/infras/redis"
	"excursions/infras/s3"
	bookingHandler "excursions/internal/handlers/booking"
	eventHandler "excursions/internal/handlers/event"
	excursionHandler "excursions/internal/handlers/excursion"
	"excursions/shared/cache"
	"excursions/transport/http"
	"excursions/transport/http/middleware"
	"excursions/transport/http/router"

	bookingRepository "excursions/internal/domains/booking/repository"
	bookingService "excursions/internal/domains/booking/service"
	excursionRepository "excursions/internal/domains/excursion/repository"
	excursionService "excursions/internal/domains/excursion/service"
	mediaService "excursions/internal/domains/media/service"
	notificationService "excursions/internal/domains/notification/service"

	"github.com/google/wire"
)

var configurations = wire.NewSet(
	config.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	s3.New,
	kafka.New,
	mailer.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var excursionDomain = wire.NewSet(
	excursionRepository.New,
	excursionService.New,
	mediaService.New,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	bookingService.New,
	notificationService.New,
)

var domains = wire.NewSet(
	excursionDomain,
	bookingDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	excursionHandler.New,
	bookingHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}

func InitializeWorker() eventHandler.Handler {
	wire.Build(
		configurations,
		infrastructures,
		sharedHelpers,
		domains,
		eventHandler.New,
	)

	return eventHandler.Handler{}
}
