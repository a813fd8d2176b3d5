package notification

import (
	"encoding/json"
	"fmt"
	"net/http"
	"ofcoz/infras/otel"
	"ofcoz/internal/domains/notification/model/dto"
	"ofcoz/internal/domains/notification/service"
	"ofcoz/shared/constant"
	"ofcoz/shared/failure"
	"ofcoz/shared/validator"
	"ofcoz/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

const requestParamKind = "kind"

type Handler struct {
	notifier service.Notifier
	otel     otel.Otel
}

func New(notifier service.Notifier, otel otel.Otel) Handler {
	return Handler{
		notifier: notifier,
		otel:     otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/notifications", func(routerGroup chi.Router) {
		routerGroup.Post("/{kind}", handler.SendNotification)
	})
}

// SendNotification renders and sends one email. Delivery failures are reported in the body, not as an HTTP error.
// @Summary Send a notification email
// @Tags Notification
// @Accept json
// @Produce json
// @Param kind path string true "booking_confirmation, booking_cancellation, receipt_received, payment_confirmed or package_assigned"
// @Param request body dto.NotificationRequest true "Notification Request"
// @Success 200 {object} response.Data[dto.Result] "Delivery result"
// @Failure 400 {object} response.Error
// @Router /v1/notifications/{kind} [post]
// @Security BearerAuth
// @Security ApiKeyAuth
func (handler *Handler) SendNotification(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".SendNotification")
	defer scope.End()

	req := dto.NotificationRequest{}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		scope.TraceError(err)
		response.WithError(w, failure.BadRequest(fmt.Errorf("failed to decode request body: %w", err)))

		return
	}

	req.Kind = chi.URLParam(r, requestParamKind)

	if err := validator.ValidateStruct(&req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res := handler.notifier.Notify(ctx, req)
	if !res.Success {
		log.Warn().Str("kind", req.Kind).Str("error", res.Error).Msg("notification not delivered")
	}

	scope.SetAttributes(map[string]any{
		"notification.kind":    req.Kind,
		"notification.success": res.Success,
	})

	response.WithJSON(w, http.StatusOK, res)
}
