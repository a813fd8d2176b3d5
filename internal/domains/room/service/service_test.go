package service_test

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"ofcoz/config"
	"ofcoz/infras/otel/mocks"
	s3Mocks "ofcoz/infras/s3/mocks"
	roomMocks "ofcoz/internal/domains/room/mocks"
	"ofcoz/internal/domains/room/model"
	"ofcoz/internal/domains/room/model/dto"
	"ofcoz/internal/domains/room/service"
	cacheMocks "ofcoz/shared/cache/mocks"
	"ofcoz/shared/constant"
	"ofcoz/shared/failure"
)

type deps struct {
	repo *roomMocks.MockRoom
	s3   *s3Mocks.MockS3
}

func newService(t *testing.T) (service.Room, deps) {
	ctrl := gomock.NewController(t)

	cache := cacheMocks.NewMockRedisCache(ctrl)
	cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss")).AnyTimes()

	cfg := &config.Config{}
	cfg.External.S3.BucketName = "rooms"

	d := deps{
		repo: roomMocks.NewMockRoom(ctrl),
		s3:   s3Mocks.NewMockS3(ctrl),
	}

	return service.New(d.repo, cfg, cache, mocks.NewOtel(), d.s3), d
}

func adminContext() context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "admin-1")

	return context.WithValue(ctx, constant.ContextKeyUserRole, constant.RoleAdmin)
}

func TestRoomService_Create(t *testing.T) {
	t.Run("defaults to standard room without image", func(t *testing.T) {
		svc, d := newService(t)

		d.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, room model.Room) error {
			assert.Equal(t, model.TypeStandard, room.RoomType)
			assert.InDelta(t, 100, room.PriceHourly, 0.001)
			assert.True(t, room.Active)
			assert.Equal(t, "admin-1", room.CreatedBy)

			return nil
		})

		err := svc.Create(adminContext(), dto.CreateRoomRequest{Name: "Whisker Room", PriceHourly: 100})
		assert.NoError(t, err)
	})

	t.Run("rejects duplicate id", func(t *testing.T) {
		svc, d := newService(t)

		d.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)

		err := svc.Create(adminContext(), dto.CreateRoomRequest{ID: "2", Name: "Paw Room"})
		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})

	t.Run("removes uploaded image when insert fails", func(t *testing.T) {
		svc, d := newService(t)

		header := &multipart.FileHeader{Filename: "room.png"}

		d.s3.EXPECT().UploadFile(gomock.Any(), "rooms", model.EntityName, gomock.Any(), header, gomock.Any()).
			Return("https://cdn.test/room/abc.png", nil)
		d.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(errors.New("db down"))
		d.s3.EXPECT().DeleteFile(gomock.Any(), "rooms", model.EntityName, gomock.Any()).Return(nil)

		err := svc.Create(adminContext(), dto.CreateRoomRequest{Name: "Paw Room", Image: header})
		assert.Error(t, err)
	})
}

func TestRoomService_Get(t *testing.T) {
	svc, d := newService(t)

	d.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Room{}, nil)

	_, err := svc.Get(context.Background(), "missing")
	assert.Equal(t, http.StatusNotFound, failure.GetCode(err))

	d.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Room{
		ID:          "2",
		Name:        "Paw Room",
		RoomType:    model.TypeLobbySeat,
		PriceHourly: 100,
		PriceDaily:  300,
	}, nil)

	res, err := svc.Get(context.Background(), "2")
	require.NoError(t, err)
	assert.Equal(t, model.TypeLobbySeat, res.RoomType)
	assert.InDelta(t, 300, res.Prices.Daily, 0.001)
}

func TestRoomService_Update(t *testing.T) {
	svc, d := newService(t)

	price := 120.0

	d.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Room{ID: "2"}, nil)
	d.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, fields map[string]any, _ any) error {
			assert.Equal(t, &price, fields[model.FieldPriceHourly])
			assert.NotContains(t, fields, model.FieldImage)

			return nil
		})

	assert.NoError(t, svc.Update(adminContext(), dto.UpdateRoomRequest{PriceHourly: &price}, "2"))
}

func TestRoomService_Delete(t *testing.T) {
	t.Run("missing room", func(t *testing.T) {
		svc, d := newService(t)

		d.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)

		err := svc.Delete(adminContext(), "missing")
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	t.Run("room with upcoming bookings", func(t *testing.T) {
		svc, d := newService(t)

		d.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		d.repo.EXPECT().HasUpcomingBookings(gomock.Any(), "2").Return(true, nil)

		err := svc.Delete(adminContext(), "2")
		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})

	t.Run("idle room", func(t *testing.T) {
		svc, d := newService(t)

		d.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		d.repo.EXPECT().HasUpcomingBookings(gomock.Any(), "6").Return(false, nil)
		d.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)

		assert.NoError(t, svc.Delete(adminContext(), "6"))
	})
}
