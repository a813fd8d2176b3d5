package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/gate_mock.go -package=mocks -exclude_interfaces=Availability

import (
	"context"
	"fmt"
	"time"

	"ofcoz/config"
	"ofcoz/infras/otel"
	"ofcoz/infras/postgres"
	"ofcoz/internal/domains/availability/model"
	"ofcoz/internal/domains/availability/model/dto"
	"ofcoz/internal/domains/availability/repository"
	"ofcoz/shared"
	"ofcoz/shared/cache"
	"ofcoz/shared/constant"
	gDto "ofcoz/shared/dto"
	"ofcoz/shared/failure"
	"ofcoz/shared/timezone"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetAllAvailableDate = "available_date:gets"
	cacheCountAvailableDate  = "available_date:count"
)

// Gate holds the two checks every booking write runs before touching the bookings table.
type Gate interface {
	IsBookable(ctx context.Context, roomID string, start time.Time) (bool, error)
	HasConflict(ctx context.Context, roomID string, start, end time.Time, excludeBookingID *string) (bool, error)
}

type Availability interface {
	Gate
	OpenDates(ctx context.Context, req dto.OpenDatesRequest) (int, error)
	CloseDate(ctx context.Context, id string) error
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (dto.GetAvailableDatesResponse, error)
	Check(ctx context.Context, req dto.CheckRequest) (dto.CheckResponse, error)
}

type serviceImpl struct {
	repo  repository.AvailableDate
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func New(repo repository.AvailableDate, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Availability {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
	}
}

// IsBookable checks the calendar day of start in the application timezone.
func (s *serviceImpl) IsBookable(ctx context.Context, roomID string, start time.Time) (ok bool, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".IsBookable")
	defer scope.End()
	defer scope.TraceIfError(&err)

	day := timezone.ToAppTime(start)

	ok, err = s.repo.IsBookable(ctx, roomID, day)
	if err != nil {
		log.Error().Err(err).Str("room_id", roomID).Msg("failed to check available date")

		return false, fmt.Errorf("failed to check available date: %w", err)
	}

	return ok, nil
}

func (s *serviceImpl) HasConflict(ctx context.Context, roomID string, start, end time.Time, excludeBookingID *string) (conflict bool, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".HasConflict")
	defer scope.End()
	defer scope.TraceIfError(&err)

	free, err := s.repo.IsSlotFree(ctx, roomID, start, end, excludeBookingID)
	if err != nil {
		log.Error().Err(err).Str("room_id", roomID).Msg("failed to check booking conflict")

		return false, fmt.Errorf("failed to check booking conflict: %w", err)
	}

	return !free, nil
}

func (s *serviceImpl) OpenDates(ctx context.Context, req dto.OpenDatesRequest) (count int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".OpenDates")
	defer scope.End()
	defer scope.TraceIfError(&err)

	actor, _ := shared.Actor(ctx)

	models, err := req.ToModels(actor)
	if err != nil {
		return 0, failure.BadRequest(err)
	}

	if err = s.repo.InsertBulk(ctx, models); err != nil {
		switch postgres.ErrorCode(err) {
		case constant.PqErrorCodeUniqueViolation:
			return 0, failure.Conflict("one or more dates are already open")
		case constant.PqErrorCodeFkViolation:
			return 0, failure.BadRequestFromString("room not found")
		}

		log.Error().Err(err).Msg("failed to open dates")

		return 0, fmt.Errorf("failed to open dates: %w", err)
	}

	go shared.InvalidateCaches(context.WithoutCancel(ctx), s.cache, cacheGetAllAvailableDate, cacheCountAvailableDate)

	return len(models), nil
}

func (s *serviceImpl) CloseDate(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CloseDate")
	defer scope.End()
	defer scope.TraceIfError(&err)

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if available date exists")

		return fmt.Errorf("failed to check if available date exists: %w", err)
	}

	if !exist {
		return failure.NotFound("available date not found")
	}

	if err = s.repo.Delete(ctx, filter); err != nil {
		log.Error().Err(err).Msg("failed to close date")

		return fmt.Errorf("failed to close date: %w", err)
	}

	go shared.InvalidateCaches(context.WithoutCancel(ctx), s.cache, cacheGetAllAvailableDate, cacheCountAvailableDate)

	return nil
}

func (s *serviceImpl) GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetAvailableDatesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(&err)

	key := shared.BuildCacheKeyWithQuery(cacheGetAllAvailableDate, params, filter)

	return cache.Remember(ctx, s.cache, key, s.cfg.Cache.TTL, func(ctx context.Context) (page dto.GetAvailableDatesResponse, err error) {
		total, err := s.count(ctx, params, filter)
		if err != nil {
			return page, err
		}

		dates, err := s.repo.GetAll(ctx, params, filter)
		if err != nil {
			log.Error().Err(err).Msg("failed to list available dates")

			return page, fmt.Errorf("failed to get available dates: %w", err)
		}

		page.FromModels(dates, total, params.Limit)

		return page, nil
	})
}

func (s *serviceImpl) count(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (int, error) {
	key := shared.BuildCacheKeyWithQuery(cacheCountAvailableDate, params, filter)

	return cache.Remember(ctx, s.cache, key, s.cfg.Cache.TTL, func(ctx context.Context) (int, error) {
		total, err := s.repo.Count(ctx, filter)
		if err != nil {
			return 0, fmt.Errorf("failed to count available dates: %w", err)
		}

		return total, nil
	})
}

// Check runs both gate checks for a prospective slot without writing anything.
func (s *serviceImpl) Check(ctx context.Context, req dto.CheckRequest) (res dto.CheckResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Check")
	defer scope.End()
	defer scope.TraceIfError(&err)

	if !req.StartTime.Before(req.EndTime) {
		return res, failure.Validation("end_time must be after start_time")
	}

	if res.Bookable, err = s.IsBookable(ctx, req.RoomID, req.StartTime); err != nil {
		return res, err
	}

	if res.Conflict, err = s.HasConflict(ctx, req.RoomID, req.StartTime, req.EndTime, req.ExcludeBookingID); err != nil {
		return res, err
	}

	return res, nil
}
