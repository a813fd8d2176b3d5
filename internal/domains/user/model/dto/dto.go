package dto

import (
	"ofcoz/internal/domains/user/model"
	"ofcoz/shared"
	"ofcoz/shared/constant"
	gDto "ofcoz/shared/dto"
	gModel "ofcoz/shared/model"
	"ofcoz/shared/timezone"
	"time"

	"github.com/google/uuid"
)

type CreateUserRequest struct {
	Email             string  `json:"email"                        validate:"required,email"`
	Password          string  `json:"password"                     validate:"required,min=8,max=72"`
	Level             string  `json:"level"                        validate:"omitempty,oneof=admin user"`
	FullName          *string `json:"full_name,omitempty"          validate:"omitempty,min=2,max=100"`
	Phone             *string `json:"phone,omitempty"              validate:"omitempty,max=20"`
	PreferredLanguage string  `json:"preferred_language,omitempty" validate:"omitempty,oneof=en zh"`
	IsVerified        *bool   `json:"is_verified,omitempty"`
}

func (r *CreateUserRequest) ToModel(actor string, hashedPassword string) model.User {
	level := r.Level
	if level == "" {
		level = constant.RoleUser
	}

	language := r.PreferredLanguage
	if language == "" {
		language = constant.LanguageEnglish
	}

	isVerified := false
	if r.IsVerified != nil {
		isVerified = *r.IsVerified
	}

	return model.User{
		ID:                uuid.NewString(),
		Email:             r.Email,
		Password:          hashedPassword,
		Level:             level,
		FullName:          r.FullName,
		Phone:             r.Phone,
		PreferredLanguage: language,
		IsVerified:        isVerified,
		Active:            true,
		Metadata:          gModel.NewMetadata(actor, timezone.Now()),
	}
}

type UpdateUserRequest struct {
	Level             *string `db:"level"              json:"level,omitempty"              validate:"omitempty,oneof=admin user"`
	FullName          *string `db:"full_name"          json:"full_name,omitempty"          validate:"omitempty,min=2,max=100"`
	Phone             *string `db:"phone"              json:"phone,omitempty"              validate:"omitempty,max=20"`
	PreferredLanguage *string `db:"preferred_language" json:"preferred_language,omitempty" validate:"omitempty,oneof=en zh"`
	ProfileImage      *string `db:"profile_image"      json:"profile_image,omitempty"`
	IsVerified        *bool   `db:"is_verified"        json:"is_verified,omitempty"`
	Active            *bool   `db:"active"             json:"active,omitempty"`
}

type UpdateProfileRequest struct {
	FullName          *string `db:"full_name"          json:"full_name,omitempty"          validate:"omitempty,min=2,max=100"`
	Phone             *string `db:"phone"              json:"phone,omitempty"              validate:"omitempty,max=20"`
	PreferredLanguage *string `db:"preferred_language" json:"preferred_language,omitempty" validate:"omitempty,oneof=en zh"`
	ProfileImage      *string `db:"profile_image"      json:"profile_image,omitempty"`
}

type Balances struct {
	Tokens      float64 `json:"tokens"`
	BR15Balance float64 `json:"br15_balance"`
	BR30Balance float64 `json:"br30_balance"`
	DP20Balance int     `json:"dp20_balance"`
	BR15Expiry  *string `json:"br15_expiry,omitempty"`
	BR30Expiry  *string `json:"br30_expiry,omitempty"`
	DP20Expiry  *string `json:"dp20_expiry,omitempty"`
}

func (b *Balances) FromModel(user model.User) {
	b.Tokens = user.Tokens
	b.BR15Balance = user.BR15Balance
	b.BR30Balance = user.BR30Balance
	b.DP20Balance = user.DP20Balance
	b.BR15Expiry = formatOptional(user.BR15Expiry)
	b.BR30Expiry = formatOptional(user.BR30Expiry)
	b.DP20Expiry = formatOptional(user.DP20Expiry)
}

type UserResponse struct {
	ID                string   `json:"id"`
	Email             string   `json:"email"`
	Level             string   `json:"level"`
	FullName          *string  `json:"full_name,omitempty"`
	Phone             *string  `json:"phone,omitempty"`
	PreferredLanguage string   `json:"preferred_language"`
	ProfileImage      *string  `json:"profile_image,omitempty"`
	IsVerified        bool     `json:"is_verified"`
	LastLogin         *string  `json:"last_login,omitempty"`
	Active            bool     `json:"active"`
	Balances          Balances `json:"balances"`
	gDto.Metadata
}

func (r *UserResponse) FromModel(model model.User) {
	r.ID = model.ID
	r.Email = model.Email
	r.Level = model.Level
	r.FullName = model.FullName
	r.Phone = model.Phone
	r.PreferredLanguage = model.PreferredLanguage
	r.ProfileImage = model.ProfileImage
	r.IsVerified = model.IsVerified
	r.LastLogin = formatOptional(model.LastLogin)
	r.Active = model.Active
	r.Balances.FromModel(model)
	r.Metadata.FromModel(model.Metadata)
}

type GetUsersResponse struct {
	Users     []UserResponse `json:"users"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetUsersResponse) FromModels(models []model.User, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Users = make([]UserResponse, len(models))
	for i, mod := range models {
		r.Users[i].FromModel(mod)
	}
}

func formatOptional(t *time.Time) *string {
	if t == nil {
		return nil
	}

	formatted := timezone.Format(*t, constant.DateFormat)

	return &formatted
}
