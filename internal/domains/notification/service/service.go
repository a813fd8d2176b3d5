package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/notifier_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"

	"ofcoz/config"
	"ofcoz/infras/kafka"
	"ofcoz/infras/otel"
	"ofcoz/infras/smtp"
	"ofcoz/internal/domains/notification/model/dto"
	"ofcoz/internal/domains/notification/templates"
	"ofcoz/shared/constant"

	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"
)

const (
	ModeDirect = "direct"
	ModeQueue  = "queue"
)

// Notifier never fails its caller: delivery problems come back in the Result.
type Notifier interface {
	Notify(ctx context.Context, req dto.NotificationRequest) dto.Result
}

type dispatcherImpl struct {
	cfg       *config.Config
	mailer    smtp.Mailer
	otel      otel.Otel
	templates *templates.Set
}

// view is the data every template renders from.
type view struct {
	dto.NotificationRequest
	RoomName    string
	FrontendURL string
}

func NewDispatcher(cfg *config.Config, mailer smtp.Mailer, otel otel.Otel) Notifier {
	set, err := templates.Load(dto.Kinds)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load notification templates")
	}

	return &dispatcherImpl{
		cfg:       cfg,
		mailer:    mailer,
		otel:      otel,
		templates: set,
	}
}

func (d *dispatcherImpl) Notify(ctx context.Context, req dto.NotificationRequest) (res dto.Result) {
	ctx, scope := d.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Dispatch")
	defer scope.End()

	scope.SetAttributes(map[string]any{
		"kind":     req.Kind,
		"language": req.Language,
	})

	data := view{
		NotificationRequest: req,
		RoomName:            req.RoomNameTranslated,
		FrontendURL:         d.cfg.App.Notification.FrontendURL,
	}

	if data.RoomName == constant.Empty && req.Booking != nil {
		data.RoomName = req.Booking.RoomName
	}

	if data.Name == constant.Empty {
		data.Name = req.To
	}

	rendered, err := d.templates.Render(req.Kind, req.Language, data)
	if err != nil {
		log.Error().Err(err).Str("kind", req.Kind).Msg("failed to render notification")
		scope.TraceError(err)

		return dto.Failed(err)
	}

	msg := smtp.Message{
		To:      []string{req.To},
		Subject: rendered.Subject,
		HTML:    rendered.HTML,
	}

	if err = d.mailer.Send(ctx, msg); err != nil {
		log.Error().Err(err).Str("kind", req.Kind).Str("to", req.To).Msg("failed to send notification")
		scope.TraceError(err)

		return dto.Failed(err)
	}

	return dto.Result{Success: true}
}

type queueImpl struct {
	cfg   *config.Config
	kafka kafka.Client
	otel  otel.Otel
}

func NewQueue(cfg *config.Config, kafka kafka.Client, otel otel.Otel) Notifier {
	return &queueImpl{
		cfg:   cfg,
		kafka: kafka,
		otel:  otel,
	}
}

// Notify publishes the request; Success means it was queued, not delivered.
func (q *queueImpl) Notify(ctx context.Context, req dto.NotificationRequest) dto.Result {
	ctx, scope := q.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Enqueue")
	defer scope.End()

	msg := kafka.Message{Key: req.To, Value: req}

	if err := q.kafka.SendMessages(ctx, q.cfg.Kafka.NotificationTopic, msg); err != nil {
		log.Error().Err(err).Str("kind", req.Kind).Msg("failed to queue notification")
		scope.TraceError(err)

		return dto.Failed(err)
	}

	return dto.Result{Success: true}
}

// New picks the notifier used by request handling from APP_NOTIFICATION_MODE.
func New(cfg *config.Config, mailer smtp.Mailer, kafka kafka.Client, otel otel.Otel) Notifier {
	if cfg.App.Notification.Mode == ModeQueue {
		log.Info().Str("topic", cfg.Kafka.NotificationTopic).Msg("notifications are queued on Kafka")

		return NewQueue(cfg, kafka, otel)
	}

	return NewDispatcher(cfg, mailer, otel)
}

var ErrUndelivered = errors.New("notification was not delivered")

// Handler turns queued requests into deliveries. Undecodable messages are dropped at once.
// A failed delivery is returned so the consumer retries it and, once retries run out, logs and drops it.
func Handler(dispatcher Notifier) kafka.Handler {
	return func(ctx context.Context, message kafkaGo.Message) error {
		req, err := kafka.Decode[dto.NotificationRequest](message)
		if err != nil {
			log.Warn().Err(err).Msg("dropping malformed notification message")

			return nil
		}

		res := dispatcher.Notify(ctx, req)
		if !res.Success {
			return fmt.Errorf("%w: %s", ErrUndelivered, res.Error)
		}

		return nil
	}
}
