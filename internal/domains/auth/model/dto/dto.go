package dto

import (
	"ofcoz/infras/jwt"
	userModel "ofcoz/internal/domains/user/model"
	userDto "ofcoz/internal/domains/user/model/dto"
	"ofcoz/shared/constant"
	gModel "ofcoz/shared/model"
	"ofcoz/shared/timezone"
	"strings"
	"time"

	"github.com/google/uuid"
)

type RegisterRequest struct {
	Email             string  `json:"email"                        validate:"required,email"`
	Password          string  `json:"password"                     validate:"required,min=8,max=72"`
	FullName          *string `json:"full_name,omitempty"          validate:"omitempty,min=2,max=100"`
	Phone             *string `json:"phone,omitempty"              validate:"omitempty,max=20"`
	PreferredLanguage string  `json:"preferred_language,omitempty" validate:"omitempty,oneof=en zh"`
}

func (r *RegisterRequest) ToUserModel(username string, hashedPassword string) userModel.User {
	language := r.PreferredLanguage
	if language == "" {
		language = constant.LanguageEnglish
	}

	return userModel.User{
		ID:                uuid.NewString(),
		Email:             r.Email,
		Password:          hashedPassword,
		Level:             constant.RoleUser,
		FullName:          r.FullName,
		Phone:             r.Phone,
		PreferredLanguage: language,
		IsVerified:        false,
		Active:            true,
		Metadata:          gModel.NewMetadata(username, timezone.Now()),
	}
}

// NormalizeEmail is applied before any lookup or insert on users.email.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateLastLoginRequest struct {
	LastLogin time.Time `db:"last_login" json:"last_login" validate:"required"`
}

// LoginResponse carries the previous login time so admin screens can highlight
// bookings created since then.
type LoginResponse struct {
	AccessToken   string               `json:"access_token"`
	RefreshToken  string               `json:"refresh_token"`
	ExpiresIn     int64                `json:"expires_in"`
	PreviousLogin *time.Time           `json:"previous_login,omitempty"`
	User          userDto.UserResponse `json:"user"`
}

func (l *LoginResponse) FromTokenPair(tokenPair *jwt.TokenPair) {
	l.AccessToken = tokenPair.AccessToken
	l.RefreshToken = tokenPair.RefreshToken
	l.ExpiresIn = tokenPair.ExpiresIn
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

func (r *RefreshTokenResponse) FromTokenPair(tokenPair *jwt.TokenPair) {
	r.AccessToken = tokenPair.AccessToken
	r.RefreshToken = tokenPair.RefreshToken
	r.ExpiresIn = tokenPair.ExpiresIn
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password"     validate:"required,min=8,max=72"`
}

type UpdatePasswordRequest struct {
	Password string `db:"password" json:"password" validate:"required,min=8,max=72"`
}
