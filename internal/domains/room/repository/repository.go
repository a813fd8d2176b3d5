package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"ofcoz/infras/otel"
	"ofcoz/infras/postgres"
	"ofcoz/internal/domains/room/model"
	"ofcoz/shared/constant"
	gDto "ofcoz/shared/dto"
	gRepo "ofcoz/shared/repository"
)

// upcomingBookingsQuery looks at bookings directly; the bookings FK would reject the delete anyway,
// this only turns that into a readable answer.
const upcomingBookingsQuery = `SELECT EXISTS (
	SELECT 1 FROM bookings
	WHERE room_id = $1 AND status <> $2 AND end_time > NOW()
)`

type Room interface {
	Insert(ctx context.Context, model model.Room) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Room, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Room, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	HasUpcomingBookings(ctx context.Context, roomID string) (bool, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Room]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Room {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Room](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

func (r *repositoryImpl) HasUpcomingBookings(ctx context.Context, roomID string) (found bool, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".HasUpcomingBookings")
	defer scope.End()
	defer scope.TraceIfError(&err)

	if err = r.db.Read.GetContext(ctx, &found, upcomingBookingsQuery, roomID, constant.BookingStatusCancelled); err != nil {
		return false, fmt.Errorf("failed to check bookings of room %s: %w", roomID, err)
	}

	return found, nil
}
