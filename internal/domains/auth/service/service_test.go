package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"ofcoz/config"
	"ofcoz/infras/jwt"
	jwtMocks "ofcoz/infras/jwt/mocks"
	"ofcoz/infras/otel/mocks"
	"ofcoz/internal/domains/auth/model/dto"
	"ofcoz/internal/domains/auth/service"
	userMocks "ofcoz/internal/domains/user/mocks"
	userModel "ofcoz/internal/domains/user/model"
	"ofcoz/shared/constant"
	gDto "ofcoz/shared/dto"
	"ofcoz/shared/failure"
	"ofcoz/shared/password"
)

type fixture struct {
	users *userMocks.MockUser
	jwt   *jwtMocks.MockJWT
	svc   service.Auth
}

func newFixture(t *testing.T) fixture {
	ctrl := gomock.NewController(t)
	users := userMocks.NewMockUser(ctrl)
	tokens := jwtMocks.NewMockJWT(ctrl)

	return fixture{
		users: users,
		jwt:   tokens,
		svc:   service.New(users, &config.Config{}, mocks.NewOtel(), tokens),
	}
}

func member(t *testing.T, plain string) userModel.User {
	hashed, err := password.Hash(plain)
	require.NoError(t, err)

	return userModel.User{
		ID:       "user-1",
		Email:    "mochi@example.com",
		Password: hashed,
		Level:    constant.RoleUser,
		Active:   true,
	}
}

func TestRegister(t *testing.T) {
	t.Run("normalizes email and inserts", func(t *testing.T) {
		f := newFixture(t)

		f.users.EXPECT().Exist(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, filter gDto.FilterGroup) (bool, error) {
			assert.Equal(t, "mochi@example.com", filter.Filters[0].(gDto.Filter).Value)

			return false, nil
		})
		f.users.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, user userModel.User) error {
			assert.Equal(t, "mochi@example.com", user.Email)
			assert.NoError(t, password.Verify("password123", user.Password))

			return nil
		})

		err := f.svc.Register(context.Background(), dto.RegisterRequest{Email: " Mochi@Example.com", Password: "password123"})

		assert.NoError(t, err)
	})

	t.Run("duplicate email", func(t *testing.T) {
		f := newFixture(t)

		f.users.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)

		err := f.svc.Register(context.Background(), dto.RegisterRequest{Email: "mochi@example.com", Password: "password123"})

		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})

	t.Run("insert failure", func(t *testing.T) {
		f := newFixture(t)

		f.users.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
		f.users.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(errors.New("db down"))

		err := f.svc.Register(context.Background(), dto.RegisterRequest{Email: "mochi@example.com", Password: "password123"})

		assert.ErrorContains(t, err, "failed to create user")
	})
}

func TestLogin(t *testing.T) {
	pair := &jwt.TokenPair{AccessToken: "access", RefreshToken: "refresh", ExpiresIn: 900}

	t.Run("success", func(t *testing.T) {
		f := newFixture(t)
		user := member(t, "password123")

		f.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(user, nil)
		f.jwt.EXPECT().GenerateTokenPair(gomock.Any(), user.ID, user.Email, user.Level).Return(pair, nil)
		f.users.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
			assert.Contains(t, fields, userModel.FieldLastLogin)
			assert.NotContains(t, fields, userModel.FieldPassword)

			return nil
		})

		res, err := f.svc.Login(context.Background(), dto.LoginRequest{Email: "MOCHI@example.com", Password: "password123"})

		require.NoError(t, err)
		assert.Equal(t, "access", res.AccessToken)
		assert.Equal(t, int64(900), res.ExpiresIn)
		assert.Equal(t, user.ID, res.User.ID)
	})

	t.Run("last login failure does not block", func(t *testing.T) {
		f := newFixture(t)
		user := member(t, "password123")

		f.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(user, nil)
		f.jwt.EXPECT().GenerateTokenPair(gomock.Any(), user.ID, user.Email, user.Level).Return(pair, nil)
		f.users.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("db down"))

		_, err := f.svc.Login(context.Background(), dto.LoginRequest{Email: user.Email, Password: "password123"})

		assert.NoError(t, err)
	})

	t.Run("unknown email and wrong password look the same", func(t *testing.T) {
		f := newFixture(t)

		f.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(userModel.User{}, nil)
		f.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(member(t, "password123"), nil)

		_, unknown := f.svc.Login(context.Background(), dto.LoginRequest{Email: "ghost@example.com", Password: "password123"})
		_, wrong := f.svc.Login(context.Background(), dto.LoginRequest{Email: "mochi@example.com", Password: "nope-nope"})

		assert.Equal(t, http.StatusBadRequest, failure.GetCode(unknown))
		assert.Equal(t, unknown.Error(), wrong.Error())
	})

	t.Run("deactivated account", func(t *testing.T) {
		f := newFixture(t)
		user := member(t, "password123")
		user.Active = false

		f.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(user, nil)

		_, err := f.svc.Login(context.Background(), dto.LoginRequest{Email: user.Email, Password: "password123"})

		assert.ErrorContains(t, err, "deactivated")
	})
}

func TestRefreshToken(t *testing.T) {
	t.Run("rotates", func(t *testing.T) {
		f := newFixture(t)

		f.jwt.EXPECT().RefreshTokens(gomock.Any(), "old").Return(&jwt.TokenPair{AccessToken: "a2", RefreshToken: "r2"}, nil)

		res, err := f.svc.RefreshToken(context.Background(), dto.RefreshTokenRequest{RefreshToken: "old"})

		require.NoError(t, err)
		assert.Equal(t, "r2", res.RefreshToken)
	})

	t.Run("reused token", func(t *testing.T) {
		f := newFixture(t)

		f.jwt.EXPECT().RefreshTokens(gomock.Any(), "old").Return(nil, jwt.ErrRevokedToken)

		_, err := f.svc.RefreshToken(context.Background(), dto.RefreshTokenRequest{RefreshToken: "old"})

		assert.Equal(t, http.StatusUnauthorized, failure.GetCode(err))
		assert.ErrorContains(t, err, "already used")
	})
}

func TestLogout(t *testing.T) {
	f := newFixture(t)

	f.jwt.EXPECT().Revoke(gomock.Any(), "refresh").Return(nil)
	f.jwt.EXPECT().Revoke(gomock.Any(), "garbage").Return(jwt.ErrInvalidToken)
	f.jwt.EXPECT().Revoke(gomock.Any(), "refresh").Return(errors.New("redis down"))

	assert.NoError(t, f.svc.Logout(context.Background(), dto.RefreshTokenRequest{RefreshToken: "refresh"}))

	err := f.svc.Logout(context.Background(), dto.RefreshTokenRequest{RefreshToken: "garbage"})
	assert.Equal(t, http.StatusUnauthorized, failure.GetCode(err))

	err = f.svc.Logout(context.Background(), dto.RefreshTokenRequest{RefreshToken: "refresh"})
	assert.ErrorContains(t, err, "failed to revoke")
}

func TestChangePassword(t *testing.T) {
	tests := []struct {
		name    string
		req     dto.ChangePasswordRequest
		stored  func(t *testing.T) userModel.User
		update  error
		wantErr string
	}{
		{
			name:   "success",
			req:    dto.ChangePasswordRequest{CurrentPassword: "password123", NewPassword: "whiskers99"},
			stored: func(t *testing.T) userModel.User { return member(t, "password123") },
		},
		{
			name:    "user missing",
			req:     dto.ChangePasswordRequest{CurrentPassword: "password123", NewPassword: "whiskers99"},
			stored:  func(*testing.T) userModel.User { return userModel.User{} },
			wantErr: "user not found",
		},
		{
			name:    "wrong current password",
			req:     dto.ChangePasswordRequest{CurrentPassword: "guess1234", NewPassword: "whiskers99"},
			stored:  func(t *testing.T) userModel.User { return member(t, "password123") },
			wantErr: "current password is incorrect",
		},
		{
			name:    "unchanged password",
			req:     dto.ChangePasswordRequest{CurrentPassword: "password123", NewPassword: "password123"},
			stored:  func(t *testing.T) userModel.User { return member(t, "password123") },
			wantErr: "must differ",
		},
		{
			name:    "update failure",
			req:     dto.ChangePasswordRequest{CurrentPassword: "password123", NewPassword: "whiskers99"},
			stored:  func(t *testing.T) userModel.User { return member(t, "password123") },
			update:  errors.New("db down"),
			wantErr: "failed to update password",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			f.users.EXPECT().Get(gomock.Any(), gomock.Any(), userModel.FieldID, userModel.FieldPassword).Return(tt.stored(t), nil)

			if tt.wantErr == "" || tt.update != nil {
				f.users.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(tt.update)
			}

			err := f.svc.ChangePassword(context.Background(), tt.req, "user-1")

			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)

				return
			}

			assert.NoError(t, err)
		})
	}
}
