package model

import (
	"ofcoz/shared/model"
	"time"
)

const (
	TableName  = "users"
	EntityName = "user"

	FieldID                = "id"
	FieldEmail             = "email"
	FieldPassword          = "password"
	FieldLevel             = "level"
	FieldFullName          = "full_name"
	FieldPhone             = "phone"
	FieldPreferredLanguage = "preferred_language"
	FieldProfileImage      = "profile_image"
	FieldIsVerified        = "is_verified"
	FieldLastLogin         = "last_login"
	FieldActive            = "active"
	FieldTokens            = "tokens"
	FieldBR15Balance       = "br15_balance"
	FieldBR30Balance       = "br30_balance"
	FieldDP20Balance       = "dp20_balance"
	FieldBR15Expiry        = "br15_expiry"
	FieldBR30Expiry        = "br30_expiry"
	FieldDP20Expiry        = "dp20_expiry"
)

type User struct {
	ID                string     `db:"id"`
	Email             string     `db:"email"`
	Password          string     `db:"password"`
	Level             string     `db:"level"`
	FullName          *string    `db:"full_name"`
	Phone             *string    `db:"phone"`
	PreferredLanguage string     `db:"preferred_language"`
	ProfileImage      *string    `db:"profile_image"`
	IsVerified        bool       `db:"is_verified"`
	LastLogin         *time.Time `db:"last_login"`
	Active            bool       `db:"active"`
	Tokens            float64    `db:"tokens"`
	BR15Balance       float64    `db:"br15_balance"`
	BR30Balance       float64    `db:"br30_balance"`
	DP20Balance       int        `db:"dp20_balance"`
	BR15Expiry        *time.Time `db:"br15_expiry"`
	BR30Expiry        *time.Time `db:"br30_expiry"`
	DP20Expiry        *time.Time `db:"dp20_expiry"`
	model.Metadata
}

// Name returns the full name when set, falling back to the email address.
func (u User) Name() string {
	if u.FullName != nil && *u.FullName != "" {
		return *u.FullName
	}

	return u.Email
}
