package jwt_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"ofcoz/config"
	"ofcoz/infras/jwt"
	"ofcoz/shared/cache"
	cacheMocks "ofcoz/shared/cache/mocks"
)

func newService(t *testing.T) (jwt.JWT, *cacheMocks.MockRedisCache) {
	cfg := &config.Config{}
	cfg.App.Name = "ofcoz-test"
	cfg.JWT.AccessSecret = "access-secret"
	cfg.JWT.RefreshSecret = "refresh-secret"
	cfg.JWT.AccessExpireMin = 15
	cfg.JWT.RefreshExpireMin = 60

	revoked := cacheMocks.NewMockRedisCache(gomock.NewController(t))

	return jwt.New(cfg, revoked), revoked
}

func cacheMiss() error {
	return fmt.Errorf("failed to get cache value: %w", cache.Nil)
}

func TestGenerateAndValidate(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	pair, err := svc.GenerateTokenPair(ctx, "user-1", "cat@ofcoz.test", "admin")
	require.NoError(t, err)
	assert.Equal(t, "Bearer", pair.TokenType)
	assert.EqualValues(t, 15*60, pair.ExpiresIn)

	claims, err := svc.ValidateToken(ctx, pair.AccessToken, jwt.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, claims.ID, claims.TokenID)

	_, err = svc.ValidateToken(ctx, pair.AccessToken, jwt.RefreshToken)
	assert.ErrorIs(t, err, jwt.ErrInvalidToken)

	_, err = svc.ValidateToken(ctx, "not-a-token", jwt.AccessToken)
	assert.ErrorIs(t, err, jwt.ErrInvalidToken)
}

func TestRefreshTokens_Rotates(t *testing.T) {
	svc, revoked := newService(t)
	ctx := context.Background()

	pair, err := svc.GenerateTokenPair(ctx, "user-2", "guest@ofcoz.test", "user")
	require.NoError(t, err)

	var revokedKey string

	revoked.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cacheMiss())
	revoked.EXPECT().Save(gomock.Any(), gomock.Any(), "1", gomock.Any()).
		DoAndReturn(func(_ context.Context, key string, _ any, ttl int) error {
			revokedKey = key
			assert.Positive(t, ttl)
			assert.LessOrEqual(t, ttl, 60*60)

			return nil
		})

	refreshed, err := svc.RefreshTokens(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.Contains(t, revokedKey, "jwt:revoked:")

	// the same refresh token is now on the denylist
	revoked.EXPECT().Get(gomock.Any(), revokedKey, gomock.Any()).Return(nil)

	_, err = svc.RefreshTokens(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, jwt.ErrRevokedToken)
}

func TestRefreshTokens_RejectsAccessToken(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	pair, err := svc.GenerateTokenPair(ctx, "user-2", "guest@ofcoz.test", "user")
	require.NoError(t, err)

	_, err = svc.RefreshTokens(ctx, pair.AccessToken)
	assert.ErrorIs(t, err, jwt.ErrInvalidToken)
}

func TestValidateToken_DenylistOutageFailsOpen(t *testing.T) {
	svc, revoked := newService(t)
	ctx := context.Background()

	pair, err := svc.GenerateTokenPair(ctx, "user-3", "tabby@ofcoz.test", "user")
	require.NoError(t, err)

	revoked.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("connection refused"))

	claims, err := svc.ValidateToken(ctx, pair.RefreshToken, jwt.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "user-3", claims.UserID)
}

func TestRevoke(t *testing.T) {
	svc, revoked := newService(t)
	ctx := context.Background()

	pair, err := svc.GenerateTokenPair(ctx, "user-4", "calico@ofcoz.test", "user")
	require.NoError(t, err)

	revoked.EXPECT().Save(gomock.Any(), gomock.Any(), "1", gomock.Any()).Return(nil)
	require.NoError(t, svc.Revoke(ctx, pair.RefreshToken))

	assert.Error(t, svc.Revoke(ctx, "garbage"))
}

func TestExtractTokenFromHeader(t *testing.T) {
	token, err := jwt.ExtractTokenFromHeader("Bearer abc.def")
	require.NoError(t, err)
	assert.Equal(t, "abc.def", token)

	for _, header := range []string{"", "Basic abc", "Bearer "} {
		_, err = jwt.ExtractTokenFromHeader(header)
		assert.Error(t, err, header)
	}
}
