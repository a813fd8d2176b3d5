//go:build wireinject
// +build wireinject

package di

import (
	"ofcoz/config"
	"ofcoz/infras/jwt"
	"ofcoz/infras/kafka"
	"ofcoz/infras/otel"
	"ofcoz/infras/postgres"
	"ofcoz/infras/redis"
	"ofcoz/infras/s3"
	"ofcoz/infras/smtp"
	"ofcoz/permissions"
	"ofcoz/shared/cache"
	"ofcoz/transport/http"
	"ofcoz/transport/http/middleware"
	"ofcoz/transport/http/router"
	"ofcoz/transport/queue"

	"github.com/google/wire"

	authService "ofcoz/internal/domains/auth/service"
	availabilityRepository "ofcoz/internal/domains/availability/repository"
	availabilityService "ofcoz/internal/domains/availability/service"
	bookingRepository "ofcoz/internal/domains/booking/repository"
	bookingService "ofcoz/internal/domains/booking/service"
	ledgerRepository "ofcoz/internal/domains/ledger/repository"
	ledgerService "ofcoz/internal/domains/ledger/service"
	notificationService "ofcoz/internal/domains/notification/service"
	roomRepository "ofcoz/internal/domains/room/repository"
	roomService "ofcoz/internal/domains/room/service"
	userRepository "ofcoz/internal/domains/user/repository"
	userService "ofcoz/internal/domains/user/service"

	authHandler "ofcoz/internal/handlers/auth"
	availabilityHandler "ofcoz/internal/handlers/availability"
	bookingHandler "ofcoz/internal/handlers/booking"
	ledgerHandler "ofcoz/internal/handlers/ledger"
	notificationHandler "ofcoz/internal/handlers/notification"
	roomHandler "ofcoz/internal/handlers/room"
	userHandler "ofcoz/internal/handlers/user"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	postgres.NewTransactor,
	otel.New,
	redis.New,
	jwt.New,
	s3.New,
	smtp.New,
	kafka.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var userDomain = wire.NewSet(
	userRepository.New,
	userService.New,
)

var authDomain = wire.NewSet(
	authService.New,
)

var roomDomain = wire.NewSet(
	roomRepository.New,
	roomService.New,
)

var availabilityDomain = wire.NewSet(
	availabilityRepository.New,
	availabilityService.New,
	provideGate,
)

var notificationDomain = wire.NewSet(
	notificationService.New,
)

var ledgerDomain = wire.NewSet(
	ledgerRepository.New,
	ledgerService.New,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	bookingService.New,
)

var domains = wire.NewSet(
	userDomain,
	authDomain,
	roomDomain,
	availabilityDomain,
	notificationDomain,
	ledgerDomain,
	bookingDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	authHandler.New,
	userHandler.New,
	roomHandler.New,
	availabilityHandler.New,
	bookingHandler.New,
	ledgerHandler.New,
	notificationHandler.New,
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

// InitializeWorker builds the queue consumer. Only the SMTP dispatcher is bound here so the worker never republishes.
func InitializeWorker() *queue.Worker {
	wire.Build(
		config.Get,
		otel.New,
		smtp.New,
		kafka.New,
		notificationService.NewDispatcher,
		queue.New,
	)

	return &queue.Worker{}
}
