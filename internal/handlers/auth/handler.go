package auth

import (
	"net/http"
	"ofcoz/infras/otel"
	"ofcoz/internal/domains/auth/model/dto"
	"ofcoz/internal/domains/auth/service"
	"ofcoz/shared"
	"ofcoz/shared/constant"
	"ofcoz/shared/validator"
	"ofcoz/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Auth
	otel    otel.Otel
}

func New(service service.Auth, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", handler.Register)
		r.Post("/login", handler.Login)
		r.Post("/refresh-token", handler.RefreshToken)
		r.Post("/logout", handler.Logout)
		r.Post("/change-password", handler.ChangePassword)
	})
}

func fail(w http.ResponseWriter, scope otel.Scope, err error, msg string) {
	scope.TraceError(err)
	log.Error().Err(err).Msg(msg)

	response.WithError(w, err)
}

// Register
// @Summary Register a member account
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Register Request"
// @Success 201 {object} response.Message
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/auth/register [post]
func (handler *Handler) Register(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Register")
	defer scope.End()

	var req dto.RegisterRequest
	if err := validator.Validate(r.Body, &req); err != nil {
		fail(w, scope, err, "invalid register request")

		return
	}

	if err := handler.service.Register(ctx, req); err != nil {
		fail(w, scope, err, "failed to register user")

		return
	}

	response.WithMessage(w, http.StatusCreated, "User registered successfully")
}

// Login
// @Summary Exchange credentials for a token pair
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login Request"
// @Success 200 {object} response.Data[dto.LoginResponse]
// @Failure 400 {object} response.Error
// @Router /v1/auth/login [post]
func (handler *Handler) Login(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Login")
	defer scope.End()

	var req dto.LoginRequest
	if err := validator.Validate(r.Body, &req); err != nil {
		fail(w, scope, err, "invalid login request")

		return
	}

	res, err := handler.service.Login(ctx, req)
	if err != nil {
		fail(w, scope, err, "failed to login")

		return
	}

	scope.SetAttributes(map[string]any{"user.id": res.User.ID})

	response.WithJSON(w, http.StatusOK, res)
}

// RefreshToken rotates the pair. The submitted refresh token cannot be used again.
// @Summary Rotate the token pair
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.RefreshTokenRequest true "Refresh Token Request"
// @Success 200 {object} response.Data[dto.RefreshTokenResponse]
// @Failure 401 {object} response.Error
// @Router /v1/auth/refresh-token [post]
func (handler *Handler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".RefreshToken")
	defer scope.End()

	var req dto.RefreshTokenRequest
	if err := validator.Validate(r.Body, &req); err != nil {
		fail(w, scope, err, "invalid refresh request")

		return
	}

	res, err := handler.service.RefreshToken(ctx, req)
	if err != nil {
		fail(w, scope, err, "failed to refresh token")

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// Logout
// @Summary Revoke a refresh token
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.RefreshTokenRequest true "Refresh Token Request"
// @Success 200 {object} response.Message
// @Failure 401 {object} response.Error
// @Router /v1/auth/logout [post]
func (handler *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Logout")
	defer scope.End()

	var req dto.RefreshTokenRequest
	if err := validator.Validate(r.Body, &req); err != nil {
		fail(w, scope, err, "invalid logout request")

		return
	}

	if err := handler.service.Logout(ctx, req); err != nil {
		fail(w, scope, err, "failed to logout")

		return
	}

	response.WithMessage(w, http.StatusOK, "Logged out")
}

// ChangePassword
// @Summary Change the caller's password
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.ChangePasswordRequest true "Change Password Request"
// @Success 200 {object} response.Message
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Router /v1/auth/change-password [post]
// @Security BearerAuth
func (handler *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ChangePassword")
	defer scope.End()

	var req dto.ChangePasswordRequest
	if err := validator.Validate(r.Body, &req); err != nil {
		fail(w, scope, err, "invalid change password request")

		return
	}

	userID, _ := shared.Actor(ctx)

	if err := handler.service.ChangePassword(ctx, req, userID); err != nil {
		fail(w, scope, err, "failed to change password")

		return
	}

	response.WithMessage(w, http.StatusOK, "Password changed successfully")
}
