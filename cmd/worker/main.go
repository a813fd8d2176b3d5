package main

import (
	"ofcoz/config"
	"ofcoz/di"
	"ofcoz/shared/logger"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.Setup(cfg)

	worker := di.InitializeWorker()
	if err := worker.Run(); err != nil {
		log.Fatal().Err(err).Msg("Notification worker exited")
	}
}
