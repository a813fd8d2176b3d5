package room

import (
	"net/http"
	"ofcoz/infras/otel"
	"ofcoz/internal/domains/room/model"
	"ofcoz/internal/domains/room/service"
	"ofcoz/shared"
	"ofcoz/shared/constant"
	gDto "ofcoz/shared/dto"
	"ofcoz/shared/validator"
	"ofcoz/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Room
	otel    otel.Otel
}

func New(service service.Room, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/rooms", func(rooms chi.Router) {
		rooms.Get("/", handler.GetRooms)
		rooms.Post("/", handler.CreateRoom)
		rooms.Get("/{id}", handler.GetRoomByID)
		rooms.Patch("/{id}", handler.UpdateRoom)
		rooms.Delete("/{id}", handler.DeleteRoom)
	})
}

func fail(w http.ResponseWriter, scope otel.Scope, err error, msg string) {
	scope.TraceError(err)
	log.Error().Err(err).Msg(msg)

	response.WithError(w, err)
}

func (handler *Handler) scope(r *http.Request, name string) (*http.Request, otel.Scope) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+"."+name)

	return r.WithContext(ctx), scope
}

// CreateRoom
// @Summary Create a room
// @Tags Room
// @Accept multipart/form-data
// @Produce json
// @Param id formData string false "Room ID, generated when empty"
// @Param name formData string true "Room name"
// @Param location formData string false "Room location"
// @Param capacity formData integer false "Room capacity"
// @Param room_type formData string false "standard or lobby_seat"
// @Param price_hourly formData number false "Cash price per hour"
// @Param price_daily formData number false "Cash price per day"
// @Param price_monthly formData number false "Cash price per month"
// @Param active formData boolean false "Room active status"
// @Param image formData file false "Room image"
// @Success 201 {object} response.Message
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/rooms [post]
// @Security BearerAuth
func (handler *Handler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	r, scope := handler.scope(r, "CreateRoom")
	defer scope.End()

	form, err := parseRoomForm(r)
	if err != nil {
		fail(w, scope, err, "invalid room form")

		return
	}
	defer form.close()

	req := form.create()
	if err = validator.ValidateStruct(&req); err != nil {
		fail(w, scope, err, "invalid room form")

		return
	}

	if err = handler.service.Create(r.Context(), req); err != nil {
		fail(w, scope, err, "failed to create room")

		return
	}

	response.WithMessage(w, http.StatusCreated, "Room created successfully")
}

// GetRooms lists rooms. Text filters match partially, room_type and active match exactly.
// @Summary List rooms
// @Tags Room
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param name query string false "Filter by name"
// @Param location query string false "Filter by location"
// @Param room_type query string false "Filter by room type"
// @Param active query boolean false "Filter by active status"
// @Success 200 {object} response.Data[dto.RoomResponse]
// @Failure 400 {object} response.Error
// @Router /v1/rooms [get]
func (handler *Handler) GetRooms(w http.ResponseWriter, r *http.Request) {
	r, scope := handler.scope(r, "GetRooms")
	defer scope.End()

	params := gDto.QueryParams{}
	params.FromRequest(r, true)

	rooms, err := handler.service.GetAll(r.Context(), params, listFilter(r))
	if err != nil {
		fail(w, scope, err, "failed to list rooms")

		return
	}

	response.WithJSON(w, http.StatusOK, rooms)
}

func listFilter(r *http.Request) gDto.FilterGroup {
	query := r.URL.Query()
	filter := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}

	filter.AppendNonEmpty(
		gDto.Filter{Table: model.TableName, Field: model.FieldName, Operator: gDto.FilterOperatorLike, Value: query.Get(model.FieldName)},
		gDto.Filter{Table: model.TableName, Field: model.FieldLocation, Operator: gDto.FilterOperatorLike, Value: query.Get(model.FieldLocation)},
		gDto.Filter{Table: model.TableName, Field: model.FieldRoomType, Operator: gDto.FilterOperatorEq, Value: query.Get(model.FieldRoomType)},
	)

	if active := shared.ConvertStringToBool(query.Get(model.FieldActive)); active != nil {
		filter.Filters = append(filter.Filters, gDto.Filter{
			Table:    model.TableName,
			Field:    model.FieldActive,
			Operator: gDto.FilterOperatorEq,
			Value:    *active,
		})
	}

	return filter
}

// GetRoomByID
// @Summary Get a room
// @Tags Room
// @Produce json
// @Param id path string true "Room ID"
// @Success 200 {object} response.Data[dto.RoomResponse]
// @Failure 404 {object} response.Error
// @Router /v1/rooms/{id} [get]
func (handler *Handler) GetRoomByID(w http.ResponseWriter, r *http.Request) {
	r, scope := handler.scope(r, "GetRoomByID")
	defer scope.End()

	room, err := handler.service.Get(r.Context(), chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		fail(w, scope, err, "failed to get room")

		return
	}

	response.WithJSON(w, http.StatusOK, room)
}

// UpdateRoom patches only the fields present in the form.
// @Summary Update a room
// @Tags Room
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Room ID"
// @Param name formData string false "Room name"
// @Param location formData string false "Room location"
// @Param capacity formData integer false "Room capacity"
// @Param room_type formData string false "standard or lobby_seat"
// @Param price_hourly formData number false "Cash price per hour"
// @Param price_daily formData number false "Cash price per day"
// @Param price_monthly formData number false "Cash price per month"
// @Param active formData boolean false "Room active status"
// @Param image formData file false "Room image"
// @Success 200 {object} response.Message
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/rooms/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateRoom(w http.ResponseWriter, r *http.Request) {
	r, scope := handler.scope(r, "UpdateRoom")
	defer scope.End()

	form, err := parseRoomForm(r)
	if err != nil {
		fail(w, scope, err, "invalid room form")

		return
	}
	defer form.close()

	req := form.update()
	if err = validator.ValidateStruct(&req); err != nil {
		fail(w, scope, err, "invalid room form")

		return
	}

	if err = handler.service.Update(r.Context(), req, chi.URLParam(r, constant.RequestParamID)); err != nil {
		fail(w, scope, err, "failed to update room")

		return
	}

	response.WithMessage(w, http.StatusOK, "Room updated successfully")
}

// DeleteRoom
// @Summary Delete a room
// @Tags Room
// @Produce json
// @Param id path string true "Room ID"
// @Success 200 {object} response.Message
// @Failure 404 {object} response.Error
// @Router /v1/rooms/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteRoom(w http.ResponseWriter, r *http.Request) {
	r, scope := handler.scope(r, "DeleteRoom")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Delete(r.Context(), id); err != nil {
		fail(w, scope, err, "failed to delete room")

		return
	}

	scope.SetAttributes(map[string]any{"room.id": id})

	response.WithMessage(w, http.StatusOK, "Room deleted successfully")
}
