package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"time"

	"ofcoz/infras/otel"
	"ofcoz/infras/postgres"
	"ofcoz/internal/domains/availability/model"
	"ofcoz/shared/constant"
	gDto "ofcoz/shared/dto"
	"ofcoz/shared/logger"
	gRepo "ofcoz/shared/repository"
)

const queryCheckRoomAvailability = "SELECT check_room_availability($1, $2, $3, $4)"

type AvailableDate interface {
	InsertBulk(ctx context.Context, models []model.AvailableDate) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.AvailableDate, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.AvailableDate, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	IsBookable(ctx context.Context, roomID string, date time.Time) (bool, error)
	IsSlotFree(ctx context.Context, roomID string, start, end time.Time, excludeBookingID *string) (bool, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.AvailableDate]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) AvailableDate {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.AvailableDate](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// IsBookable reports whether date is opened for the room, either by a room row or a global row.
func (r *repositoryImpl) IsBookable(ctx context.Context, roomID string, date time.Time) (bool, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".IsBookable")
	defer scope.End()

	return r.Exist(ctx, BookableFilter(roomID, date))
}

// IsSlotFree asks the database whether [start, end) overlaps no live booking of the room.
func (r *repositoryImpl) IsSlotFree(ctx context.Context, roomID string, start, end time.Time, excludeBookingID *string) (bool, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".IsSlotFree")
	defer scope.End()

	scope.SetAttribute(constant.OtelQueryAttributeKey, queryCheckRoomAvailability)

	var free bool

	if err := r.db.Read.GetContext(ctx, &free, queryCheckRoomAvailability, roomID, start, end, excludeBookingID); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return false, fmt.Errorf("failed to check room availability: %w", err)
	}

	return free, nil
}

func BookableFilter(roomID string, date time.Time) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldDate,
				Value:    date.Format(constant.DateOnlyLayout),
				Operator: gDto.FilterOperatorEq,
				Table:    model.TableName,
			},
			gDto.FilterGroup{
				Operator: gDto.FilterGroupOperatorOr,
				Filters: []any{
					gDto.Filter{
						Field:    model.FieldRoomID,
						Operator: gDto.FilterIsNull,
						Table:    model.TableName,
					},
					gDto.Filter{
						Field:    model.FieldRoomID,
						Value:    roomID,
						Operator: gDto.FilterOperatorEq,
						Table:    model.TableName,
					},
				},
			},
		},
	}
}
