package availability

import (
	"net/http"
	"ofcoz/infras/otel"
	"ofcoz/internal/domains/availability/model"
	"ofcoz/internal/domains/availability/model/dto"
	"ofcoz/internal/domains/availability/service"
	"ofcoz/shared/constant"
	gDto "ofcoz/shared/dto"
	"ofcoz/shared/validator"
	"ofcoz/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

const (
	queryFrom = "from"
	queryTo   = "to"
)

type Handler struct {
	service service.Availability
	otel    otel.Otel
}

func New(service service.Availability, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/available-dates", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.OpenDates)
		routerGroup.Get("/", handler.GetAvailableDates)
		routerGroup.Post("/check", handler.CheckSlot)
		routerGroup.Delete("/{id}", handler.CloseDate)
	})
}

// OpenDates opens days for booking.
// @Summary Open dates
// @Description Open one or more days for a room, or for every room when room_id is omitted.
// @Tags Availability
// @Accept json
// @Produce json
// @Param request body dto.OpenDatesRequest true "Open Dates Request"
// @Success 201 {object} response.Message "Dates opened successfully"
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/available-dates [post]
// @Security BearerAuth
func (handler *Handler) OpenDates(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".OpenDates")
	defer scope.End()

	req := dto.OpenDatesRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	count, err := handler.service.OpenDates(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to open dates")

		response.WithError(w, err)

		return
	}

	scope.SetAttribute("dates.opened", count)

	response.WithJSON(w, http.StatusCreated, map[string]int{"opened": count})
}

// GetAvailableDates lists open days.
// @Summary Get available dates
// @Description room_id returns the days open for that room, including days opened for every room.
// @Tags Availability
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param room_id query string false "Room ID"
// @Param from query string false "First day, YYYY-MM-DD"
// @Param to query string false "Last day, YYYY-MM-DD"
// @Success 200 {object} response.Data[dto.GetAvailableDatesResponse] "Available dates"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/available-dates [get]
func (handler *Handler) GetAvailableDates(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetAvailableDates")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filterGroup, err := dateFilters(r)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	dates, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get available dates")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, dates)
}

// CheckSlot reports whether a slot could be booked right now.
// @Summary Check a slot
// @Tags Availability
// @Accept json
// @Produce json
// @Param request body dto.CheckRequest true "Check Request"
// @Success 200 {object} response.Data[dto.CheckResponse] "Slot state"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/available-dates/check [post]
func (handler *Handler) CheckSlot(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CheckSlot")
	defer scope.End()

	req := dto.CheckRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Check(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to check slot")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// CloseDate removes an open day.
// @Summary Close a date
// @Tags Availability
// @Produce json
// @Param id path string true "Available date ID"
// @Success 200 {object} response.Message "Date closed successfully"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/available-dates/{id} [delete]
// @Security BearerAuth
func (handler *Handler) CloseDate(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CloseDate")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.CloseDate(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to close date")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Date closed successfully")
}

func dateFilters(r *http.Request) (gDto.FilterGroup, error) {
	query := r.URL.Query()
	filterGroup := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}

	if roomID := query.Get(model.FieldRoomID); roomID != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.FilterGroup{
			Operator: gDto.FilterGroupOperatorOr,
			Filters: []any{
				gDto.Filter{Field: model.FieldRoomID, Operator: gDto.FilterOperatorEq, Value: roomID, Table: model.TableName},
				gDto.Filter{Field: model.FieldRoomID, Operator: gDto.FilterIsNull, Table: model.TableName},
			},
		})
	}

	from, to := query.Get(queryFrom), query.Get(queryTo)

	for _, day := range []string{from, to} {
		if day == "" {
			continue
		}

		if err := validator.ValidateVar(day, "dateonly"); err != nil {
			return filterGroup, err
		}
	}

	filterGroup.AppendNonEmpty(
		gDto.Filter{ArgName: queryFrom, Field: model.FieldDate, Operator: gDto.FilterOperatorGreaterEq, Value: from, Table: model.TableName},
		gDto.Filter{ArgName: queryTo, Field: model.FieldDate, Operator: gDto.FilterOperatorLessEq, Value: to, Table: model.TableName},
	)

	return filterGroup, nil
}
