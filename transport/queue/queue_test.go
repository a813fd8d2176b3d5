package queue_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"ofcoz/config"
	"ofcoz/infras/kafka"
	kafkaMocks "ofcoz/infras/kafka/mocks"
	notificationMocks "ofcoz/internal/domains/notification/mocks"
	"ofcoz/transport/queue"
)

func newWorker(t *testing.T) (*queue.Worker, *kafkaMocks.MockClient) {
	ctrl := gomock.NewController(t)

	cfg := &config.Config{}
	cfg.Kafka.NotificationTopic = "booking.notifications"
	cfg.Kafka.ConsumerGroup = "ofcoz-notification"

	client := kafkaMocks.NewMockClient(ctrl)

	return queue.New(cfg, client, notificationMocks.NewMockNotifier(ctrl)), client
}

func TestWorker_Consume(t *testing.T) {
	worker, client := newWorker(t)

	client.EXPECT().Consume(gomock.Any(), "ofcoz-notification", "booking.notifications", gomock.Any()).
		DoAndReturn(func(_ context.Context, _, _ string, handler kafka.Handler) error {
			assert.NotNil(t, handler)

			return nil
		})
	client.EXPECT().Close().Return(nil)

	require.NoError(t, worker.Consume(context.Background()))
}

func TestWorker_Consume_Error(t *testing.T) {
	worker, client := newWorker(t)

	client.EXPECT().Consume(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("topic name cannot be empty"))
	client.EXPECT().Close().Return(nil)

	err := worker.Consume(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "booking.notifications")
}
