package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"ofcoz/config"
	"ofcoz/infras/jwt"
	jwtMocks "ofcoz/infras/jwt/mocks"
	"ofcoz/infras/otel/mocks"
	"ofcoz/permissions"
	cacheMocks "ofcoz/shared/cache/mocks"
	"ofcoz/shared/constant"
	"ofcoz/transport/http/middleware"
)

const apiKey = "internal-key"

func newRouter(t *testing.T) (http.Handler, *jwtMocks.MockJWT) {
	ctrl := gomock.NewController(t)
	jwtService := jwtMocks.NewMockJWT(ctrl)

	cfg := &config.Config{}
	cfg.App.APIKey = apiKey

	authRole := middleware.NewAuthRoleMiddleware(jwtService, mocks.NewOtel(), permissions.Get(), cfg)

	echoUser := func(w http.ResponseWriter, r *http.Request) {
		userID, _ := r.Context().Value(constant.ContextKeyUserID).(string)

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(userID))
	}

	router := chi.NewRouter()
	router.Use(authRole.APIKey, authRole.Auth, authRole.RBAC)
	router.Route("/v1", func(r chi.Router) {
		r.Get("/rooms", echoUser)
		r.Get("/bookings/mine", echoUser)
		r.Post("/bookings/{id}/confirm-payment", echoUser)
	})

	return router, jwtService
}

func serve(handler http.Handler, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	return rec
}

func bearer(token string) map[string]string {
	return map[string]string{constant.RequestHeaderAuthorization: "Bearer " + token}
}

func TestAuthRole_PublicRouteSkipsAuth(t *testing.T) {
	router, _ := newRouter(t)

	rec := serve(router, http.MethodGet, "/v1/rooms", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthRole_MissingHeader(t *testing.T) {
	router, _ := newRouter(t)

	rec := serve(router, http.MethodGet, "/v1/bookings/mine", nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthRole_ExpiredToken(t *testing.T) {
	router, jwtService := newRouter(t)

	jwtService.EXPECT().ValidateToken(gomock.Any(), "stale", jwt.AccessToken).Return(nil, jwt.ErrExpiredToken)

	rec := serve(router, http.MethodGet, "/v1/bookings/mine", bearer("stale"))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Token has expired")
}

func TestAuthRole_EmptyClaimsRejected(t *testing.T) {
	router, jwtService := newRouter(t)

	jwtService.EXPECT().ValidateToken(gomock.Any(), "blank", jwt.AccessToken).Return(&jwt.Claims{Email: "mochi@ofcoz.test"}, nil)

	rec := serve(router, http.MethodGet, "/v1/bookings/mine", bearer("blank"))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthRole_UserReachesOwnRoute(t *testing.T) {
	router, jwtService := newRouter(t)

	jwtService.EXPECT().ValidateToken(gomock.Any(), "good", jwt.AccessToken).Return(&jwt.Claims{
		UserID: "user-1",
		Email:  "mochi@ofcoz.test",
		Role:   constant.RoleUser,
	}, nil)

	rec := serve(router, http.MethodGet, "/v1/bookings/mine", bearer("good"))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-1", rec.Body.String())
}

func TestAuthRole_UserBlockedFromAdminRoute(t *testing.T) {
	router, jwtService := newRouter(t)

	jwtService.EXPECT().ValidateToken(gomock.Any(), "good", jwt.AccessToken).Return(&jwt.Claims{
		UserID: "user-1",
		Email:  "mochi@ofcoz.test",
		Role:   constant.RoleUser,
	}, nil)

	rec := serve(router, http.MethodPost, "/v1/bookings/b-1/confirm-payment", bearer("good"))

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAuthRole_AdminAllowed(t *testing.T) {
	router, jwtService := newRouter(t)

	jwtService.EXPECT().ValidateToken(gomock.Any(), "admin", jwt.AccessToken).Return(&jwt.Claims{
		UserID: "admin-1",
		Email:  "admin@ofcoz.test",
		Role:   constant.RoleAdmin,
	}, nil)

	rec := serve(router, http.MethodPost, "/v1/bookings/b-1/confirm-payment", bearer("admin"))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthRole_APIKey(t *testing.T) {
	router, _ := newRouter(t)

	rec := serve(router, http.MethodPost, "/v1/bookings/b-1/confirm-payment", map[string]string{constant.RequestHeaderAPIKey: apiKey})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(router, http.MethodPost, "/v1/bookings/b-1/confirm-payment", map[string]string{constant.RequestHeaderAPIKey: "wrong"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAppMiddleware_RateLimit(t *testing.T) {
	ctrl := gomock.NewController(t)
	redisCache := cacheMocks.NewMockRedisCache(ctrl)

	cfg := &config.Config{}
	cfg.App.RateLimiter.Enable = true
	cfg.App.RateLimiter.MaxRequests = 2
	cfg.App.RateLimiter.WindowSeconds = 60

	app := middleware.NewAppMiddleware(mocks.NewOtel(), cfg, redisCache)
	handler := app.RateLimit()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	setCount := func(count int) func(context.Context, string, any) error {
		return func(_ context.Context, _ string, value any) error {
			*value.(*int) = count

			return nil
		}
	}

	t.Run("under the limit", func(t *testing.T) {
		redisCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(setCount(1))
		redisCache.EXPECT().Save(gomock.Any(), gomock.Any(), 2, 60).Return(nil)

		rec := serve(handler, http.MethodGet, "/v1/rooms", nil)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "0", rec.Header().Get(constant.RequestHeaderRateLimitRemaining))
	})

	t.Run("over the limit", func(t *testing.T) {
		redisCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(setCount(2))

		rec := serve(handler, http.MethodGet, "/v1/rooms", nil)

		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	})

	t.Run("cache down lets the request through", func(t *testing.T) {
		redisCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("redis down"))

		rec := serve(handler, http.MethodGet, "/v1/rooms", nil)

		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}
