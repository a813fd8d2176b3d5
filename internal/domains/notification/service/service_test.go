package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"ofcoz/config"
	"ofcoz/infras/kafka"
	kafkaMocks "ofcoz/infras/kafka/mocks"
	"ofcoz/infras/otel/mocks"
	"ofcoz/infras/smtp"
	smtpMocks "ofcoz/infras/smtp/mocks"
	notificationMocks "ofcoz/internal/domains/notification/mocks"
	"ofcoz/internal/domains/notification/model/dto"
	"ofcoz/internal/domains/notification/service"
	"ofcoz/shared/constant"
)

func request() dto.NotificationRequest {
	start := time.Date(2026, 10, 15, 10, 0, 0, 0, time.UTC)

	return dto.NotificationRequest{
		Kind:     dto.KindBookingConfirmation,
		To:       "mochi@ofcoz.test",
		Language: constant.LanguageChinese,
		Booking: &dto.BookingDetails{
			ID:            "booking-1",
			RoomName:      "Paw Room",
			StartTime:     start,
			EndTime:       start.Add(time.Hour),
			PaymentMethod: constant.PaymentMethodCash,
			TotalCost:     100,
			Status:        constant.BookingStatusPending,
		},
		RoomNameTranslated: "貓掌房",
	}
}

func TestDispatcher_Notify(t *testing.T) {
	ctrl := gomock.NewController(t)
	mailer := smtpMocks.NewMockMailer(ctrl)

	dispatcher := service.NewDispatcher(&config.Config{}, mailer, mocks.NewOtel())

	mailer.EXPECT().Send(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, msg smtp.Message) error {
		assert.Equal(t, []string{"mochi@ofcoz.test"}, msg.To)
		assert.Equal(t, "已收到您的預約", msg.Subject)
		assert.Contains(t, msg.HTML, "貓掌房")
		assert.Contains(t, msg.HTML, "HK$ 100")

		return nil
	})

	res := dispatcher.Notify(context.Background(), request())
	assert.True(t, res.Success)
	assert.Empty(t, res.Error)

	mailer.EXPECT().Send(gomock.Any(), gomock.Any()).Return(smtp.ErrNotConfigured)

	res = dispatcher.Notify(context.Background(), request())
	assert.False(t, res.Success)
	assert.Equal(t, smtp.ErrNotConfigured.Error(), res.Error)
}

func TestQueue_Notify(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := kafkaMocks.NewMockClient(ctrl)

	cfg := &config.Config{}
	cfg.Kafka.NotificationTopic = "booking.notifications"

	queue := service.NewQueue(cfg, client, mocks.NewOtel())

	client.EXPECT().SendMessages(gomock.Any(), "booking.notifications", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, messages ...kafka.Message) error {
			require.Len(t, messages, 1)
			assert.Equal(t, "mochi@ofcoz.test", messages[0].Key)

			return nil
		})

	assert.True(t, queue.Notify(context.Background(), request()).Success)

	client.EXPECT().SendMessages(gomock.Any(), "booking.notifications", gomock.Any()).Return(errors.New("broker down"))

	res := queue.Notify(context.Background(), request())
	assert.False(t, res.Success)
	assert.Equal(t, "broker down", res.Error)
}

func TestHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	dispatcher := notificationMocks.NewMockNotifier(ctrl)
	handler := service.Handler(dispatcher)

	payload, err := json.Marshal(request())
	require.NoError(t, err)

	dispatcher.EXPECT().Notify(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, req dto.NotificationRequest) dto.Result {
		assert.Equal(t, dto.KindBookingConfirmation, req.Kind)
		assert.Equal(t, "booking-1", req.Booking.ID)

		return dto.Result{Success: true}
	})
	assert.NoError(t, handler(context.Background(), kafkaGo.Message{Value: payload}))

	dispatcher.EXPECT().Notify(gomock.Any(), gomock.Any()).Return(dto.Result{Error: "smtp down"})
	assert.ErrorIs(t, handler(context.Background(), kafkaGo.Message{Value: payload}), service.ErrUndelivered)

	assert.NoError(t, handler(context.Background(), kafkaGo.Message{Value: []byte("not json")}))
}
