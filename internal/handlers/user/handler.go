package user

import (
	"net/http"
	"ofcoz/infras/otel"
	"ofcoz/internal/domains/user/model"
	"ofcoz/internal/domains/user/model/dto"
	"ofcoz/internal/domains/user/service"
	"ofcoz/shared"
	"ofcoz/shared/constant"
	gDto "ofcoz/shared/dto"
	"ofcoz/shared/validator"
	"ofcoz/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.User
	otel    otel.Otel
}

func New(service service.User, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/users", func(users chi.Router) {
		users.Get("/", handler.GetUsers)
		users.Post("/", handler.CreateUser)

		users.Route("/me", func(me chi.Router) {
			me.Get("/", handler.GetMe)
			me.Patch("/", handler.UpdateProfile)
		})

		users.Route("/{id}", func(one chi.Router) {
			one.Get("/", handler.GetUserByID)
			one.Patch("/", handler.UpdateUser)
			one.Delete("/", handler.DeactivateUser)
		})
	})
}

// respond writes the outcome of a service call. A nil err sends ok.
func respond(w http.ResponseWriter, scope otel.Scope, err error, ok func()) {
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("user request failed")
		response.WithError(w, err)

		return
	}

	ok()
}

// decode binds and validates the JSON body. It writes the error response itself and reports whether
// the handler should continue.
func decode[T any](w http.ResponseWriter, r *http.Request, scope otel.Scope) (T, bool) {
	var req T

	if err := validator.Validate(r.Body, &req); err != nil {
		respond(w, scope, err, nil)

		return req, false
	}

	return req, true
}

// CreateUser lets an admin create an account directly, bypassing self registration.
// @Summary Create a user
// @Tags User
// @Accept json
// @Produce json
// @Param request body dto.CreateUserRequest true "Create User Request"
// @Success 201 {object} response.Message
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/users [post]
// @Security BearerAuth
func (handler *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateUser")
	defer scope.End()

	req, ok := decode[dto.CreateUserRequest](w, r, scope)
	if !ok {
		return
	}

	respond(w, scope, handler.service.Create(ctx, req), func() {
		response.WithMessage(w, http.StatusCreated, "User created successfully")
	})
}

// GetUsers
// @Summary List users
// @Tags User
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param email query string false "Filter by email"
// @Param level query string false "Filter by level"
// @Param full_name query string false "Filter by name"
// @Param active query boolean false "Filter by active status"
// @Success 200 {object} response.Data[dto.GetUsersResponse]
// @Failure 400 {object} response.Error
// @Router /v1/users [get]
// @Security BearerAuth
func (handler *Handler) GetUsers(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetUsers")
	defer scope.End()

	params := gDto.QueryParams{}
	params.FromRequest(r, true)

	users, err := handler.service.GetAll(ctx, params, listFilter(r))

	respond(w, scope, err, func() {
		response.WithJSON(w, http.StatusOK, users)
	})
}

func listFilter(r *http.Request) gDto.FilterGroup {
	query := r.URL.Query()
	like := func(field string) gDto.Filter {
		return gDto.Filter{Table: model.TableName, Field: field, Operator: gDto.FilterOperatorLike, Value: query.Get(field)}
	}

	filter := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}
	filter.AppendNonEmpty(
		like(model.FieldEmail),
		like(model.FieldFullName),
		gDto.Filter{Table: model.TableName, Field: model.FieldLevel, Operator: gDto.FilterOperatorEq, Value: query.Get(model.FieldLevel)},
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

// GetMe returns the caller's profile with package balances.
// @Summary Get own profile
// @Tags User
// @Produce json
// @Success 200 {object} response.Data[dto.UserResponse]
// @Failure 401 {object} response.Error
// @Router /v1/users/me [get]
// @Security BearerAuth
func (handler *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMe")
	defer scope.End()

	user, err := handler.service.Me(ctx)

	respond(w, scope, err, func() {
		response.WithJSON(w, http.StatusOK, user)
	})
}

// UpdateProfile
// @Summary Update own profile
// @Tags User
// @Accept json
// @Produce json
// @Param request body dto.UpdateProfileRequest true "Update Profile Request"
// @Success 200 {object} response.Message
// @Failure 400 {object} response.Error
// @Router /v1/users/me [patch]
// @Security BearerAuth
func (handler *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateProfile")
	defer scope.End()

	req, ok := decode[dto.UpdateProfileRequest](w, r, scope)
	if !ok {
		return
	}

	respond(w, scope, handler.service.UpdateProfile(ctx, req), func() {
		response.WithMessage(w, http.StatusOK, "Profile updated successfully")
	})
}

// GetUserByID
// @Summary Get a user
// @Tags User
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} response.Data[dto.UserResponse]
// @Failure 404 {object} response.Error
// @Router /v1/users/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetUserByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetUserByID")
	defer scope.End()

	user, err := handler.service.Get(ctx, chi.URLParam(r, constant.RequestParamID))

	respond(w, scope, err, func() {
		response.WithJSON(w, http.StatusOK, user)
	})
}

// UpdateUser is the admin edit, which can also change level and balances.
// @Summary Update a user
// @Tags User
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param request body dto.UpdateUserRequest true "Update User Request"
// @Success 200 {object} response.Message
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/users/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateUser")
	defer scope.End()

	req, ok := decode[dto.UpdateUserRequest](w, r, scope)
	if !ok {
		return
	}

	respond(w, scope, handler.service.Update(ctx, req, chi.URLParam(r, constant.RequestParamID)), func() {
		response.WithMessage(w, http.StatusOK, "User updated successfully")
	})
}

// DeactivateUser switches a user off. Bookings and package history stay intact.
// @Summary Deactivate a user
// @Tags User
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} response.Message
// @Failure 404 {object} response.Error
// @Router /v1/users/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeactivateUser(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeactivateUser")
	defer scope.End()

	respond(w, scope, handler.service.Deactivate(ctx, chi.URLParam(r, constant.RequestParamID)), func() {
		response.WithMessage(w, http.StatusOK, "User deactivated successfully")
	})
}
