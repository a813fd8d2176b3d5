package middleware

import (
	"context"
	"errors"
	"net/http"
	"ofcoz/config"
	"ofcoz/infras/jwt"
	"ofcoz/infras/otel"
	"ofcoz/permissions"
	"ofcoz/shared/constant"
	"ofcoz/shared/failure"
	"ofcoz/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type trustedKey struct{}

// AuthRole runs in the order APIKey, Auth, RBAC. A request carrying the internal API key is trusted
// and skips the other two.
type AuthRole interface {
	APIKey(http.Handler) http.Handler
	Auth(http.Handler) http.Handler
	RBAC(http.Handler) http.Handler
}

type authRoleImpl struct {
	jwtService jwt.JWT
	otel       otel.Otel
	permission *permissions.PermissionData
	cfg        *config.Config
}

func NewAuthRoleMiddleware(jwtService jwt.JWT, otel otel.Otel, permissions *permissions.PermissionData, cfg *config.Config) AuthRole {
	return &authRoleImpl{
		jwtService: jwtService,
		otel:       otel,
		permission: permissions,
		cfg:        cfg,
	}
}

func trusted(r *http.Request) bool {
	ok, _ := r.Context().Value(trustedKey{}).(bool)

	return ok
}

func deny(w http.ResponseWriter, scope otel.Scope, err error) {
	scope.TraceError(err)
	response.WithError(w, err)
}

func tokenFailure(err error) error {
	switch {
	case errors.Is(err, jwt.ErrExpiredToken):
		return failure.Unauthorized("Token has expired")
	case errors.Is(err, jwt.ErrInvalidClaim):
		return failure.Unauthorized("Invalid token claims")
	case errors.Is(err, jwt.ErrInvalidToken):
		return failure.Unauthorized("Invalid token")
	default:
		return failure.Unauthorized("Token validation failed")
	}
}

func (m *authRoleImpl) public(r *http.Request) bool {
	if m.permission == nil {
		return false
	}

	return m.permission.Skip || m.permission.FindPermissions(routePattern(r), r.Method).Skip
}

func (m *authRoleImpl) APIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get(constant.RequestHeaderAPIKey)
		if key == "" {
			next.ServeHTTP(w, r)

			return
		}

		_, scope := m.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, "api_key.middleware")
		defer scope.End()

		if m.cfg.App.APIKey == "" || key != m.cfg.App.APIKey {
			deny(w, scope, failure.ForbiddenError)

			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), trustedKey{}, true)))
	})
}

// Auth puts the caller's id, email, role and token id on the context.
func (m *authRoleImpl) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if trusted(r) || m.public(r) {
			next.ServeHTTP(w, r)

			return
		}

		ctx, scope := m.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, "auth.middleware")
		defer scope.End()

		header := r.Header.Get(constant.RequestHeaderAuthorization)
		if header == "" {
			deny(w, scope, failure.Unauthorized("Missing authorization header"))

			return
		}

		token, err := jwt.ExtractTokenFromHeader(header)
		if err != nil {
			deny(w, scope, failure.Unauthorized("Invalid authorization header format"))

			return
		}

		claims, err := m.jwtService.ValidateToken(ctx, token, jwt.AccessToken)
		if err != nil {
			deny(w, scope, tokenFailure(err))

			return
		}

		if claims.UserID == "" || claims.Role == "" {
			log.Error().Str("token_id", claims.TokenID).Msg("access token without user id or role")
			deny(w, scope, failure.Unauthorized("Invalid token claims"))

			return
		}

		scope.SetAttributes(map[string]any{"user.id": claims.UserID, "user.role": claims.Role})

		ctx = r.Context()
		ctx = context.WithValue(ctx, constant.ContextKeyUserID, claims.UserID)
		ctx = context.WithValue(ctx, constant.ContextKeyUserEmail, claims.Email)
		ctx = context.WithValue(ctx, constant.ContextKeyUserRole, claims.Role)
		ctx = context.WithValue(ctx, constant.ContextKeyTokenID, claims.TokenID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RBAC checks the role set by Auth against the route's entry in permissions.json.
func (m *authRoleImpl) RBAC(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if trusted(r) {
			next.ServeHTTP(w, r)

			return
		}

		_, scope := m.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, "rbac.middleware")
		defer scope.End()

		if m.permission == nil {
			deny(w, scope, failure.ForbiddenError)

			return
		}

		if m.public(r) {
			next.ServeHTTP(w, r)

			return
		}

		role, _ := r.Context().Value(constant.ContextKeyUserRole).(string)
		entry := m.permission.FindPermissions(routePattern(r), r.Method)

		if !entry.Allows(role) {
			scope.SetAttributes(map[string]any{
				"user.role":     role,
				"allowed_roles": entry.Permissions,
			})
			deny(w, scope, failure.ForbiddenError)

			return
		}

		next.ServeHTTP(w, r)
	})
}

// routePattern resolves the registered pattern, e.g. /v1/bookings/{id}. These middlewares run before
// routing completes, so the lookup goes through the root mux.
func routePattern(r *http.Request) string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil || rctx.Routes == nil {
		return r.URL.Path
	}

	if pattern := rctx.Routes.Find(chi.NewRouteContext(), r.Method, r.URL.Path); pattern != "" {
		return pattern
	}

	return r.URL.Path
}
