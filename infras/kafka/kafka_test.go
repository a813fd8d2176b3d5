package kafka

import (
	"context"
	"errors"
	"testing"
	"time"

	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func failingTimes(n int, calls *int) Handler {
	return func(_ context.Context, _ kafkaGo.Message) error {
		*calls++
		if *calls <= n {
			return errors.New("smtp relay down")
		}

		return nil
	}
}

func TestHandle(t *testing.T) {
	msg := kafkaGo.Message{Key: []byte("booking-1")}

	t.Run("succeeds first time", func(t *testing.T) {
		calls := 0

		require.NoError(t, handle(context.Background(), failingTimes(0, &calls), msg, 3, time.Millisecond))
		assert.Equal(t, 1, calls)
	})

	t.Run("retries until the handler recovers", func(t *testing.T) {
		calls := 0

		require.NoError(t, handle(context.Background(), failingTimes(2, &calls), msg, 3, time.Millisecond))
		assert.Equal(t, 3, calls)
	})

	t.Run("gives up after the last attempt", func(t *testing.T) {
		calls := 0

		err := handle(context.Background(), failingTimes(10, &calls), msg, 3, time.Millisecond)
		require.Error(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("stops waiting when the context ends", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		calls := 0

		err := handle(ctx, failingTimes(10, &calls), msg, 3, time.Hour)
		require.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls)
	})
}
