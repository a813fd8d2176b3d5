package ledger

import (
	"net/http"
	"ofcoz/infras/otel"
	"ofcoz/internal/domains/ledger/model/dto"
	"ofcoz/internal/domains/ledger/service"
	"ofcoz/shared/constant"
	gDto "ofcoz/shared/dto"
	"ofcoz/shared/validator"
	"ofcoz/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Ledger
	otel    otel.Otel
}

func New(service service.Ledger, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/packages", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.AssignPackage)
		routerGroup.Get("/{id}/history", handler.GetHistory)
		routerGroup.Get("/{id}/balances", handler.GetBalances)
	})
}

// AssignPackage credits a package to a user.
// @Summary Assign a package
// @Description Credits tokens, BR15/BR30 hours or DP20 days and records the assignment in the package history.
// @Tags Package
// @Accept json
// @Produce json
// @Param request body dto.AssignPackageRequest true "Assign Package Request"
// @Success 201 {object} response.Data[dto.AssignPackageResponse] "Package assigned"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/packages [post]
// @Security BearerAuth
func (handler *Handler) AssignPackage(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".AssignPackage")
	defer scope.End()

	req := dto.AssignPackageRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Assign(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to assign package")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Package " + req.PackageType + " assigned to user " + req.UserID)

	response.WithJSON(w, http.StatusCreated, res)
}

// GetHistory lists a user's package movements, newest first.
// @Summary Get package history
// @Tags Package
// @Produce json
// @Param id path string true "User ID"
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[dto.GetHistoryResponse] "Package history"
// @Failure 403 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/packages/{id}/history [get]
// @Security BearerAuth
func (handler *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetHistory")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	res, err := handler.service.History(ctx, id, queryParams)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get package history")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// GetBalances returns a user's live package balances.
// @Summary Get package balances
// @Tags Package
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} response.Data[dto.BalancesResponse] "Balances"
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/packages/{id}/balances [get]
// @Security BearerAuth
func (handler *Handler) GetBalances(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBalances")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	res, err := handler.service.Balances(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get balances")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}
