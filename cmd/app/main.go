package main

import (
	"ofcoz/config"
	"ofcoz/di"
	"ofcoz/helper"
	"ofcoz/shared/logger"

	"github.com/rs/zerolog/log"
)

// @title Ofcoz Booking API
// @version 1.0
// @description Room booking, availability and package balances for the Ofcoz cat cafe coworking space.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.Setup(cfg)

	if cfg.DB.Postgres.AutoMigrate {
		if err := helper.Up(cfg); err != nil {
			log.Fatal().Err(err).Msg("Failed to run database migrations")
		}
	}

	http := di.InitializeService()
	http.Serve()
}
