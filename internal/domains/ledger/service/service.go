package service

import (
	"context"
	"fmt"

	"ofcoz/config"
	"ofcoz/infras/otel"
	"ofcoz/infras/postgres"
	"ofcoz/internal/domains/ledger/model"
	"ofcoz/internal/domains/ledger/model/dto"
	"ofcoz/internal/domains/ledger/repository"
	notificationDto "ofcoz/internal/domains/notification/model/dto"
	notificationService "ofcoz/internal/domains/notification/service"
	userModel "ofcoz/internal/domains/user/model"
	userDto "ofcoz/internal/domains/user/model/dto"
	userRepo "ofcoz/internal/domains/user/repository"
	userService "ofcoz/internal/domains/user/service"
	"ofcoz/shared"
	"ofcoz/shared/cache"
	"ofcoz/shared/constant"
	gDto "ofcoz/shared/dto"
	"ofcoz/shared/failure"
	"ofcoz/shared/timezone"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

type Ledger interface {
	Assign(ctx context.Context, req dto.AssignPackageRequest) (dto.AssignPackageResponse, error)
	History(ctx context.Context, userID string, params gDto.QueryParams) (dto.GetHistoryResponse, error)
	Balances(ctx context.Context, userID string) (userDto.Balances, error)
}

type serviceImpl struct {
	repo       repository.Ledger
	userRepo   userRepo.User
	transactor postgres.Transactor
	notifier   notificationService.Notifier
	cfg        *config.Config
	cache      cache.RedisCache
	otel       otel.Otel
}

func New(
	repo repository.Ledger,
	userRepo userRepo.User,
	transactor postgres.Transactor,
	notifier notificationService.Notifier,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Ledger {
	return &serviceImpl{
		repo:       repo,
		userRepo:   userRepo,
		transactor: transactor,
		notifier:   notifier,
		cfg:        cfg,
		cache:      cache,
		otel:       otel,
	}
}

func (s *serviceImpl) Assign(ctx context.Context, req dto.AssignPackageRequest) (res dto.AssignPackageResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Assign")
	defer scope.End()
	defer scope.TraceIfError(&err)

	actor, _ := shared.Actor(ctx)

	user, err := s.getUser(ctx, req.UserID)
	if err != nil {
		return res, err
	}

	now := timezone.Now()

	expiry, err := req.ExpiryAt(now, timezone.GetLocation())
	if err != nil {
		return res, failure.BadRequest(err)
	}

	history := model.NewHistory(user.ID, req.PackageType, req.Amount, model.ReasonAssigned, nil, expiry, actor, now)

	err = s.transactor.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.repo.CreditTx(ctx, tx, user.ID, req.PackageType, req.Amount, expiry, actor); err != nil {
			return err
		}

		return s.repo.InsertTx(ctx, tx, history)
	})
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("failed to assign package")

		return res, fmt.Errorf("failed to assign package: %w", err)
	}

	available, _ := model.Balances(user).Available(req.PackageType)

	res = dto.AssignPackageResponse{
		HistoryID:   history.ID,
		UserID:      user.ID,
		PackageType: req.PackageType,
		Amount:      req.Amount,
		Balance:     available + req.Amount,
	}
	res.SetExpiry(expiry)

	go shared.InvalidateCaches(context.WithoutCancel(ctx), s.cache, userService.CacheGetAllUser)

	result := s.notifier.Notify(ctx, notificationDto.NotificationRequest{
		Kind:     notificationDto.KindPackageAssigned,
		To:       user.Email,
		Name:     user.Name(),
		Language: user.PreferredLanguage,
		Package: &notificationDto.PackageDetails{
			PackageType: req.PackageType,
			Amount:      req.Amount,
			Balance:     res.Balance,
			Expiry:      expiry,
		},
	})
	if !result.Success {
		res.NotificationWarning = result.Error
	}

	return res, nil
}

func (s *serviceImpl) History(ctx context.Context, userID string, params gDto.QueryParams) (res dto.GetHistoryResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".History")
	defer scope.End()
	defer scope.TraceIfError(&err)

	if err = authorize(ctx, userID); err != nil {
		return res, err
	}

	filter := shared.FilterByID(userID, model.FieldUserID, model.TableName)

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count package history")

		return res, fmt.Errorf("failed to count package history: %w", err)
	}

	models, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get package history")

		return res, fmt.Errorf("failed to get package history: %w", err)
	}

	res.FromModels(models, total, params.Limit)

	return res, nil
}

func (s *serviceImpl) Balances(ctx context.Context, userID string) (res userDto.Balances, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Balances")
	defer scope.End()
	defer scope.TraceIfError(&err)

	if err = authorize(ctx, userID); err != nil {
		return res, err
	}

	user, err := s.getUser(ctx, userID)
	if err != nil {
		return res, err
	}

	res.FromModel(user)

	return res, nil
}

func (s *serviceImpl) getUser(ctx context.Context, userID string) (userModel.User, error) {
	user, err := s.userRepo.Get(ctx, shared.FilterByID(userID, userModel.FieldID, userModel.TableName))
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("failed to get user")

		return user, fmt.Errorf("failed to get user: %w", err)
	}

	if user.ID == constant.Empty {
		return user, failure.NotFound("user not found")
	}

	return user, nil
}

// authorize lets users read only their own ledger; admins read any.
func authorize(ctx context.Context, userID string) error {
	actor, role := shared.Actor(ctx)

	if shared.IsAdmin(role) || actor == userID {
		return nil
	}

	return failure.Forbidden("you can only view your own packages")
}
