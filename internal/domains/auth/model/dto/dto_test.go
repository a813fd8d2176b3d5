package dto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ofcoz/infras/jwt"
	"ofcoz/internal/domains/auth/model/dto"
	"ofcoz/shared/constant"
)

func TestFromTokenPair(t *testing.T) {
	pair := &jwt.TokenPair{AccessToken: "a", RefreshToken: "r", ExpiresIn: 900}

	var login dto.LoginResponse
	login.FromTokenPair(pair)

	var refresh dto.RefreshTokenResponse
	refresh.FromTokenPair(pair)

	assert.Equal(t, dto.RefreshTokenResponse{AccessToken: "a", RefreshToken: "r", ExpiresIn: 900}, refresh)
	assert.Equal(t, refresh.AccessToken, login.AccessToken)
	assert.Equal(t, refresh.ExpiresIn, login.ExpiresIn)
}

func TestRegisterRequest_ToUserModel(t *testing.T) {
	name := "Mochi"
	req := dto.RegisterRequest{Email: "mochi@example.com", FullName: &name}

	user := req.ToUserModel(constant.ContextGuest, "hashed")

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "hashed", user.Password)
	assert.Equal(t, constant.RoleUser, user.Level)
	assert.Equal(t, constant.LanguageEnglish, user.PreferredLanguage)
	assert.Equal(t, constant.ContextGuest, user.CreatedBy)
	assert.True(t, user.Active)
	assert.False(t, user.IsVerified)

	req.PreferredLanguage = constant.LanguageChinese
	assert.Equal(t, constant.LanguageChinese, req.ToUserModel(constant.ContextGuest, "hashed").PreferredLanguage)
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "mochi@example.com", dto.NormalizeEmail("  Mochi@Example.COM "))
	assert.Equal(t, "", dto.NormalizeEmail("   "))
}
