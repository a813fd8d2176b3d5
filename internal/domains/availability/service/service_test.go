package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"ofcoz/config"
	"ofcoz/infras/otel/mocks"
	availabilityMocks "ofcoz/internal/domains/availability/mocks"
	"ofcoz/internal/domains/availability/model"
	"ofcoz/internal/domains/availability/model/dto"
	"ofcoz/internal/domains/availability/service"
	cacheMocks "ofcoz/shared/cache/mocks"
	"ofcoz/shared/constant"
	"ofcoz/shared/failure"
)

func newService(t *testing.T) (service.Availability, *availabilityMocks.MockAvailableDate) {
	ctrl := gomock.NewController(t)

	cache := cacheMocks.NewMockRedisCache(ctrl)
	cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss")).AnyTimes()

	repo := availabilityMocks.NewMockAvailableDate(ctrl)

	return service.New(repo, &config.Config{}, cache, mocks.NewOtel()), repo
}

func TestAvailabilityService_HasConflict(t *testing.T) {
	svc, repo := newService(t)

	start := time.Date(2026, 10, 15, 10, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	repo.EXPECT().IsSlotFree(gomock.Any(), "2", start, end, (*string)(nil)).Return(true, nil)

	conflict, err := svc.HasConflict(context.Background(), "2", start, end, nil)
	require.NoError(t, err)
	assert.False(t, conflict)

	repo.EXPECT().IsSlotFree(gomock.Any(), "2", start, end, (*string)(nil)).Return(false, nil)

	conflict, err = svc.HasConflict(context.Background(), "2", start, end, nil)
	require.NoError(t, err)
	assert.True(t, conflict)

	repo.EXPECT().IsSlotFree(gomock.Any(), "2", start, end, (*string)(nil)).Return(false, errors.New("rpc failed"))

	_, err = svc.HasConflict(context.Background(), "2", start, end, nil)
	assert.Error(t, err)
}

func TestAvailabilityService_OpenDates(t *testing.T) {
	t.Run("deduplicates dates", func(t *testing.T) {
		svc, repo := newService(t)

		repo.EXPECT().InsertBulk(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, models []model.AvailableDate) error {
			require.Len(t, models, 2)
			assert.True(t, models[0].IsGlobal())
			assert.Equal(t, "2026-10-15", models[0].Date.Format(constant.DateOnlyLayout))

			return nil
		})

		count, err := svc.OpenDates(context.Background(), dto.OpenDatesRequest{
			Dates: []string{"2026-10-15", "2026-10-16", "2026-10-15"},
		})
		require.NoError(t, err)
		assert.Equal(t, 2, count)
	})

	t.Run("date already open", func(t *testing.T) {
		svc, repo := newService(t)

		repo.EXPECT().InsertBulk(gomock.Any(), gomock.Any()).
			Return(errors.Join(errors.New("failed to bulk insert"), &pq.Error{Code: constant.PqErrorCodeUniqueViolation}))

		_, err := svc.OpenDates(context.Background(), dto.OpenDatesRequest{Dates: []string{"2026-10-15"}})
		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})
}

func TestAvailabilityService_CloseDate(t *testing.T) {
	svc, repo := newService(t)

	repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
	assert.Equal(t, http.StatusNotFound, failure.GetCode(svc.CloseDate(context.Background(), "missing")))

	repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
	repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)
	assert.NoError(t, svc.CloseDate(context.Background(), "date-1"))
}

func TestAvailabilityService_Check(t *testing.T) {
	svc, repo := newService(t)

	start := time.Date(2026, 10, 15, 10, 0, 0, 0, time.UTC)

	_, err := svc.Check(context.Background(), dto.CheckRequest{RoomID: "1", StartTime: start, EndTime: start})
	assert.Equal(t, failure.ReasonValidation, failure.GetReason(err))

	repo.EXPECT().IsBookable(gomock.Any(), "1", gomock.Any()).Return(true, nil)
	repo.EXPECT().IsSlotFree(gomock.Any(), "1", gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil)

	res, err := svc.Check(context.Background(), dto.CheckRequest{RoomID: "1", StartTime: start, EndTime: start.Add(time.Hour)})
	require.NoError(t, err)
	assert.True(t, res.Bookable)
	assert.True(t, res.Conflict)
}
