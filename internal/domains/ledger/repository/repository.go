package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"time"

	"ofcoz/infras/otel"
	"ofcoz/infras/postgres"
	"ofcoz/internal/domains/ledger/model"
	userModel "ofcoz/internal/domains/user/model"
	"ofcoz/shared/constant"
	gDto "ofcoz/shared/dto"
	"ofcoz/shared/logger"
	gRepo "ofcoz/shared/repository"
	"ofcoz/shared/timezone"

	"github.com/jmoiron/sqlx"
)

type Ledger interface {
	InsertTx(ctx context.Context, sqltx *sqlx.Tx, model model.PackageHistory) error
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.PackageHistory, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	DebitTx(ctx context.Context, sqltx *sqlx.Tx, userID, packageType string, units float64, actor string) (bool, error)
	CreditTx(ctx context.Context, sqltx *sqlx.Tx, userID, packageType string, units float64, expiry *time.Time, actor string) error
	Refund(ctx context.Context, userID, packageType string, units float64, bookingID string) error
}

type repositoryImpl struct {
	gRepo.Repository[model.PackageHistory]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Ledger {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.PackageHistory](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// DebitTx subtracts units only while the balance covers them. false means nothing was debited.
func (r *repositoryImpl) DebitTx(ctx context.Context, sqltx *sqlx.Tx, userID, packageType string, units float64, actor string) (bool, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".DebitTx")
	defer scope.End()

	column, ok := model.BalanceColumn(packageType)
	if !ok {
		return false, fmt.Errorf("unknown package type %q", packageType)
	}

	query := fmt.Sprintf(
		"UPDATE %[1]s SET %[2]s = %[2]s - $1, %[3]s = $3, %[4]s = $4 WHERE %[5]s = $2 AND %[2]s >= $1",
		userModel.TableName, column, constant.FieldModifiedAt, constant.FieldModifiedBy, userModel.FieldID,
	)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	result, err := sqltx.ExecContext(ctx, query, units, userID, timezone.Now(), actor)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return false, fmt.Errorf("failed to debit %s balance: %w", packageType, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read debited rows: %w", err)
	}

	return affected == 1, nil
}

// CreditTx adds units and, when expiry is set, moves the package expiry to it.
func (r *repositoryImpl) CreditTx(ctx context.Context, sqltx *sqlx.Tx, userID, packageType string, units float64, expiry *time.Time, actor string) error {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".CreditTx")
	defer scope.End()

	column, ok := model.BalanceColumn(packageType)
	if !ok {
		return fmt.Errorf("unknown package type %q", packageType)
	}

	set := fmt.Sprintf("%[1]s = %[1]s + $1, %[2]s = $3, %[3]s = $4", column, constant.FieldModifiedAt, constant.FieldModifiedBy)
	args := []any{units, userID, timezone.Now(), actor}

	if expiryColumn, ok := model.ExpiryColumn(packageType); ok && expiry != nil {
		set += fmt.Sprintf(", %s = $5", expiryColumn)
		args = append(args, *expiry)
	}

	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s = $2", userModel.TableName, set, userModel.FieldID)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	result, err := sqltx.ExecContext(ctx, query, args...)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return fmt.Errorf("failed to credit %s balance: %w", packageType, err)
	}

	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("failed to credit %s balance: user %s not found", packageType, userID)
	}

	return nil
}

// Refund calls the stored function that credits the balance and appends the refund history row.
func (r *repositoryImpl) Refund(ctx context.Context, userID, packageType string, units float64, bookingID string) error {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".Refund")
	defer scope.End()

	fn, ok := model.RefundFunction(packageType)
	if !ok {
		return fmt.Errorf("no refund function for package type %q", packageType)
	}

	query := fmt.Sprintf("SELECT %s($1, $2, $3)", fn)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	var amount any = units
	if packageType == constant.PaymentMethodDP20 {
		amount = int(units)
	}

	if _, err := r.db.Write.ExecContext(ctx, query, userID, amount, bookingID); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return fmt.Errorf("failed to refund %s: %w", packageType, err)
	}

	return nil
}
