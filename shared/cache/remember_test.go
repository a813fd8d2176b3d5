package cache_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"ofcoz/shared/cache"
	"ofcoz/shared/cache/mocks"
)

func TestRemember(t *testing.T) {
	ctx := context.Background()

	t.Run("hit skips load", func(t *testing.T) {
		c := mocks.NewMockRedisCache(gomock.NewController(t))
		c.EXPECT().Get(ctx, "k", gomock.Any()).DoAndReturn(func(_ context.Context, _ string, dest any) error {
			*dest.(*int) = 7

			return nil
		})

		got, err := cache.Remember(ctx, c, "k", 60, func(context.Context) (int, error) {
			t.Fatal("load should not run on a hit")

			return 0, nil
		})

		assert.NoError(t, err)
		assert.Equal(t, 7, got)
	})

	t.Run("miss loads and saves", func(t *testing.T) {
		c := mocks.NewMockRedisCache(gomock.NewController(t))
		c.EXPECT().Get(ctx, "k", gomock.Any()).Return(cache.Nil)
		c.EXPECT().Save(ctx, "k", 3, 60).Return(nil)

		got, err := cache.Remember(ctx, c, "k", 60, func(context.Context) (int, error) { return 3, nil })

		assert.NoError(t, err)
		assert.Equal(t, 3, got)
	})

	t.Run("save failure still returns the value", func(t *testing.T) {
		c := mocks.NewMockRedisCache(gomock.NewController(t))
		c.EXPECT().Get(ctx, "k", gomock.Any()).Return(errors.New("redis down"))
		c.EXPECT().Save(ctx, "k", 3, 60).Return(errors.New("redis down"))

		got, err := cache.Remember(ctx, c, "k", 60, func(context.Context) (int, error) { return 3, nil })

		assert.NoError(t, err)
		assert.Equal(t, 3, got)
	})

	t.Run("load error is not cached", func(t *testing.T) {
		c := mocks.NewMockRedisCache(gomock.NewController(t))
		c.EXPECT().Get(ctx, "k", gomock.Any()).Return(cache.Nil)

		_, err := cache.Remember(ctx, c, "k", 60, func(context.Context) (int, error) { return 0, errors.New("db down") })

		assert.EqualError(t, err, "db down")
	})
}
