package service

import (
	"context"
	"errors"
	"fmt"
	"ofcoz/config"
	"ofcoz/infras/jwt"
	"ofcoz/infras/otel"
	"ofcoz/internal/domains/auth/model/dto"
	userModel "ofcoz/internal/domains/user/model"
	userRepo "ofcoz/internal/domains/user/repository"
	"ofcoz/shared"
	"ofcoz/shared/constant"
	"ofcoz/shared/failure"
	"ofcoz/shared/password"
	"ofcoz/shared/timezone"

	"github.com/rs/zerolog/log"
)

var errBadCredentials = failure.BadRequestFromString("invalid email or password")

type Auth interface {
	Register(ctx context.Context, req dto.RegisterRequest) error
	Login(ctx context.Context, req dto.LoginRequest) (dto.LoginResponse, error)
	RefreshToken(ctx context.Context, req dto.RefreshTokenRequest) (dto.RefreshTokenResponse, error)
	Logout(ctx context.Context, req dto.RefreshTokenRequest) error
	ChangePassword(ctx context.Context, req dto.ChangePasswordRequest, userID string) error
}

type serviceImpl struct {
	userRepo   userRepo.User
	cfg        *config.Config
	otel       otel.Otel
	jwtService jwt.JWT
}

func New(userRepo userRepo.User, cfg *config.Config, otel otel.Otel, jwt jwt.JWT) Auth {
	return &serviceImpl{
		userRepo:   userRepo,
		cfg:        cfg,
		otel:       otel,
		jwtService: jwt,
	}
}

func (s *serviceImpl) findByEmail(ctx context.Context, email string) (userModel.User, error) {
	user, err := s.userRepo.Get(ctx, shared.FilterByID(email, userModel.FieldEmail, userModel.TableName))
	if err != nil {
		return user, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

// Register creates a member account. Emails are stored lowercased so lookups stay case insensitive.
func (s *serviceImpl) Register(ctx context.Context, req dto.RegisterRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Register")
	defer scope.End()
	defer scope.TraceIfError(&err)

	req.Email = dto.NormalizeEmail(req.Email)

	exists, err := s.userRepo.Exist(ctx, shared.FilterByID(req.Email, userModel.FieldEmail, userModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check email")

		return fmt.Errorf("failed to check email: %w", err)
	}

	if exists {
		return failure.Conflict("email already registered")
	}

	hashed, err := password.Hash(req.Password)
	if err != nil {
		log.Error().Err(err).Msg("failed to hash password")

		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err = s.userRepo.Insert(ctx, req.ToUserModel(constant.ContextGuest, hashed)); err != nil {
		log.Error().Err(err).Str("email", req.Email).Msg("failed to create user")

		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// Login answers the same error for an unknown email and a wrong password.
func (s *serviceImpl) Login(ctx context.Context, req dto.LoginRequest) (res dto.LoginResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Login")
	defer scope.End()
	defer scope.TraceIfError(&err)

	user, err := s.findByEmail(ctx, dto.NormalizeEmail(req.Email))
	if err != nil {
		log.Error().Err(err).Msg("failed to load user for login")

		return res, err
	}

	if user.ID == constant.Empty || password.Verify(req.Password, user.Password) != nil {
		log.Warn().Str("email", req.Email).Msg("rejected login")

		return res, errBadCredentials
	}

	if !user.Active {
		return res, failure.BadRequestFromString("user account is deactivated")
	}

	tokenPair, err := s.jwtService.GenerateTokenPair(ctx, user.ID, user.Email, user.Level)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("failed to generate tokens")

		return res, fmt.Errorf("failed to generate tokens: %w", err)
	}

	fields := shared.TransformFields(dto.UpdateLastLoginRequest{LastLogin: timezone.Now()}, user.ID)

	if password.NeedsRehash(user.Password) {
		if upgraded, hashErr := password.Hash(req.Password); hashErr == nil {
			fields[userModel.FieldPassword] = upgraded
		}
	}

	// A stale last_login is not worth failing the login for.
	if err := s.userRepo.Update(ctx, fields, shared.FilterByID(user.ID, userModel.FieldID, userModel.TableName)); err != nil {
		log.Warn().Err(err).Str("user_id", user.ID).Msg("failed to record last login")
	}

	res.FromTokenPair(tokenPair)
	res.User.FromModel(user)
	res.PreviousLogin = user.LastLogin

	return res, nil
}

func (s *serviceImpl) RefreshToken(ctx context.Context, req dto.RefreshTokenRequest) (res dto.RefreshTokenResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".RefreshToken")
	defer scope.End()
	defer scope.TraceIfError(&err)

	tokenPair, err := s.jwtService.RefreshTokens(ctx, req.RefreshToken)
	if err != nil {
		log.Warn().Err(err).Msg("failed to refresh tokens")

		if errors.Is(err, jwt.ErrRevokedToken) {
			return res, failure.Unauthorized("refresh token already used")
		}

		return res, failure.Unauthorized("invalid refresh token")
	}

	res.FromTokenPair(tokenPair)

	return res, nil
}

// Logout revokes the refresh token. The short lived access token simply runs out.
func (s *serviceImpl) Logout(ctx context.Context, req dto.RefreshTokenRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Logout")
	defer scope.End()
	defer scope.TraceIfError(&err)

	if err = s.jwtService.Revoke(ctx, req.RefreshToken); err != nil {
		if errors.Is(err, jwt.ErrInvalidToken) || errors.Is(err, jwt.ErrInvalidClaim) {
			return failure.Unauthorized("invalid refresh token")
		}

		log.Error().Err(err).Msg("failed to revoke refresh token")

		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}

	return nil
}

func (s *serviceImpl) ChangePassword(ctx context.Context, req dto.ChangePasswordRequest, userID string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ChangePassword")
	defer scope.End()
	defer scope.TraceIfError(&err)

	filter := shared.FilterByID(userID, userModel.FieldID, userModel.TableName)

	user, err := s.userRepo.Get(ctx, filter, userModel.FieldID, userModel.FieldPassword)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("failed to get user")

		return fmt.Errorf("failed to get user: %w", err)
	}

	if user.ID == constant.Empty {
		return failure.NotFound("user not found")
	}

	if password.Verify(req.CurrentPassword, user.Password) != nil {
		return failure.BadRequestFromString("current password is incorrect")
	}

	if req.CurrentPassword == req.NewPassword {
		return failure.Validation("new password must differ from the current one")
	}

	hashed, err := password.Hash(req.NewPassword)
	if err != nil {
		log.Error().Err(err).Msg("failed to hash new password")

		return fmt.Errorf("failed to hash new password: %w", err)
	}

	if err = s.userRepo.Update(ctx, shared.TransformFields(dto.UpdatePasswordRequest{Password: hashed}, userID), filter); err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("failed to update password")

		return fmt.Errorf("failed to update password: %w", err)
	}

	return nil
}
