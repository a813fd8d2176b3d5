package queue

import (
	"context"
	"fmt"
	"ofcoz/config"
	"ofcoz/infras/kafka"
	notificationService "ofcoz/internal/domains/notification/service"
	"ofcoz/shared/logger"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
)

// Worker drains the notification topic and hands every request to the SMTP dispatcher.
type Worker struct {
	Config     *config.Config
	Kafka      kafka.Client
	Dispatcher notificationService.Notifier

	log zerolog.Logger
}

func New(cfg *config.Config, client kafka.Client, dispatcher notificationService.Notifier) *Worker {
	return &Worker{
		Config:     cfg,
		Kafka:      client,
		Dispatcher: dispatcher,
		log:        logger.Component("worker"),
	}
}

// Run blocks until SIGINT or SIGTERM.
func (w *Worker) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return w.Consume(ctx)
}

func (w *Worker) Consume(ctx context.Context) error {
	topic := w.Config.Kafka.NotificationTopic

	w.log.Info().Str("topic", topic).Str("group", w.Config.Kafka.ConsumerGroup).Msg("Starting notification worker.")

	defer func() {
		if err := w.Kafka.Close(); err != nil {
			w.log.Error().Err(err).Msg("Failed to close Kafka client.")
		}
	}()

	if err := w.Kafka.Consume(ctx, w.Config.Kafka.ConsumerGroup, topic, notificationService.Handler(w.Dispatcher)); err != nil {
		return fmt.Errorf("failed to consume %s: %w", topic, err)
	}

	w.log.Info().Msg("Notification worker stopped.")

	return nil
}
