package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"maps"
	"ofcoz/infras/otel"
	"ofcoz/infras/postgres"
	"ofcoz/shared/constant"
	"ofcoz/shared/dto"
	"ofcoz/shared/logger"

	"github.com/jmoiron/sqlx"
)

// ErrRequiredFilter guards writes and existence checks from running against the whole table.
var ErrRequiredFilter = errors.New("required filter")

// ErrArgumentClash means a filter argument shares its name with an updated column; give the filter an ArgName.
var ErrArgumentClash = errors.New("filter argument shadows update column")

type execer interface {
	NamedExecContext(ctx context.Context, query string, arg any) (sql.Result, error)
}

// Repository is a sqlx backed CRUD store for one table. Columns come from the db tags of T.
type Repository[T any] struct {
	db     *postgres.Connection
	otel   otel.Otel
	entity string
	schema schema
}

func NewRepository[T any](entityName, tableName, primaryColumn string, dbConnection *postgres.Connection, otl otel.Otel) Repository[T] {
	return Repository[T]{
		db:     dbConnection,
		otel:   otl,
		entity: entityName,
		schema: newSchema[T](tableName, primaryColumn),
	}
}

func (repo *Repository[T]) scope(ctx context.Context, op string) (context.Context, otel.Scope) {
	return repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName,
		fmt.Sprintf("%s.%s.%s", constant.OtelRepositoryScopeName, repo.entity, op))
}

func (repo *Repository[T]) fail(scope otel.Scope, action string, err error) error {
	logger.ErrorWithStack(err)
	scope.TraceError(err)

	return fmt.Errorf("failed to %s (%s): %w", action, repo.entity, err)
}

// read runs a named query on the read pool. get picks Get (one row) or Select (many).
func (repo *Repository[T]) read(ctx context.Context, scope otel.Scope, dest any, query string, args map[string]any, get bool) error {
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	stmt, err := repo.db.Read.PrepareNamedContext(ctx, query)
	if err != nil {
		return repo.fail(scope, "prepare statement", err)
	}
	defer stmt.Close()

	if get {
		return stmt.GetContext(ctx, dest, args) //nolint:wrapcheck
	}

	return stmt.SelectContext(ctx, dest, args) //nolint:wrapcheck
}

func (repo *Repository[T]) Insert(ctx context.Context, model T) error {
	ctx, scope := repo.scope(ctx, "Insert")
	defer scope.End()

	return repo.exec(ctx, scope, repo.db.Write, "insert data", repo.schema.insertQuery(), model)
}

func (repo *Repository[T]) InsertTx(ctx context.Context, sqltx *sqlx.Tx, model T) error {
	ctx, scope := repo.scope(ctx, "InsertTx")
	defer scope.End()

	return repo.exec(ctx, scope, sqltx, "insert data", repo.schema.insertQuery(), model)
}

// InsertBulk writes all rows in one statement; any constraint violation rejects the whole batch.
func (repo *Repository[T]) InsertBulk(ctx context.Context, models []T) error {
	ctx, scope := repo.scope(ctx, "InsertBulk")
	defer scope.End()

	if len(models) == 0 {
		return nil
	}

	return repo.exec(ctx, scope, repo.db.Write, "bulk insert data", repo.schema.insertQuery(), models)
}

func (repo *Repository[T]) InsertBulkTx(ctx context.Context, sqltx *sqlx.Tx, models []T) error {
	ctx, scope := repo.scope(ctx, "InsertBulkTx")
	defer scope.End()

	if len(models) == 0 {
		return nil
	}

	return repo.exec(ctx, scope, sqltx, "bulk insert data", repo.schema.insertQuery(), models)
}

func (repo *Repository[T]) exec(ctx context.Context, scope otel.Scope, exec execer, action, query string, arg any) error {
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if _, err := exec.NamedExecContext(ctx, query, arg); err != nil {
		return repo.fail(scope, action, err)
	}

	return nil
}

func (repo *Repository[T]) Exist(ctx context.Context, filter dto.FilterGroup) (bool, error) {
	ctx, scope := repo.scope(ctx, "Exist")
	defer scope.End()

	where, args := whereClause(filter)
	if where == "" {
		return false, ErrRequiredFilter
	}

	query := fmt.Sprintf("SELECT EXISTS(SELECT 1 FROM %s %s)", repo.schema.table, where)

	var exist bool
	if err := repo.read(ctx, scope, &exist, query, args, true); err != nil {
		return false, repo.fail(scope, "check exist data", err)
	}

	return exist, nil
}

// Get returns the zero T when nothing matches; callers check the primary key.
func (repo *Repository[T]) Get(ctx context.Context, filter dto.FilterGroup, columns ...string) (T, error) {
	ctx, scope := repo.scope(ctx, "Get")
	defer scope.End()

	where, args := whereClause(filter)
	query := join("SELECT", repo.schema.selectList(columns...), "FROM", repo.schema.table, repo.schema.join, where)

	var model T

	err := repo.read(ctx, scope, &model, query, args, true)
	if errors.Is(err, sql.ErrNoRows) {
		return model, nil
	}

	if err != nil {
		return model, repo.fail(scope, "get data", err)
	}

	return model, nil
}

func (repo *Repository[T]) GetAll(ctx context.Context, params dto.QueryParams, filter dto.FilterGroup, columns ...string) ([]T, error) {
	ctx, scope := repo.scope(ctx, "GetAll")
	defer scope.End()

	where, args := whereClause(filter)
	query := join("SELECT", repo.schema.selectList(columns...), "FROM", repo.schema.table, repo.schema.join, where,
		repo.schema.window(params, args))

	var models []T
	if err := repo.read(ctx, scope, &models, query, args, false); err != nil {
		return models, repo.fail(scope, "get all data", err)
	}

	return models, nil
}

func (repo *Repository[T]) Count(ctx context.Context, filter dto.FilterGroup) (int, error) {
	ctx, scope := repo.scope(ctx, "Count")
	defer scope.End()

	where, args := whereClause(filter)
	query := join(fmt.Sprintf("SELECT COUNT(%s.%s) FROM %s", repo.schema.table, repo.schema.primaryColumn, repo.schema.table),
		repo.schema.join, where)

	var count int
	if err := repo.read(ctx, scope, &count, query, args, true); err != nil {
		return 0, repo.fail(scope, "count data", err)
	}

	return count, nil
}

func (repo *Repository[T]) Delete(ctx context.Context, filter dto.FilterGroup) error {
	ctx, scope := repo.scope(ctx, "Delete")
	defer scope.End()

	return repo.delete(ctx, scope, repo.db.Write, filter)
}

func (repo *Repository[T]) DeleteTx(ctx context.Context, sqltx *sqlx.Tx, filter dto.FilterGroup) error {
	ctx, scope := repo.scope(ctx, "DeleteTx")
	defer scope.End()

	return repo.delete(ctx, scope, sqltx, filter)
}

func (repo *Repository[T]) delete(ctx context.Context, scope otel.Scope, exec execer, filter dto.FilterGroup) error {
	where, args := whereClause(filter)
	if where == "" {
		return ErrRequiredFilter
	}

	return repo.exec(ctx, scope, exec, "delete data", join("DELETE FROM", repo.schema.table, where), args)
}

func (repo *Repository[T]) Update(ctx context.Context, mod map[string]any, filter dto.FilterGroup) error {
	ctx, scope := repo.scope(ctx, "Update")
	defer scope.End()

	_, err := repo.update(ctx, scope, repo.db.Write, mod, filter)

	return err
}

// UpdateAffected reports how many rows matched, letting callers use the filter as a compare-and-set guard.
func (repo *Repository[T]) UpdateAffected(ctx context.Context, mod map[string]any, filter dto.FilterGroup) (int64, error) {
	ctx, scope := repo.scope(ctx, "UpdateAffected")
	defer scope.End()

	return repo.update(ctx, scope, repo.db.Write, mod, filter)
}

func (repo *Repository[T]) UpdateTx(ctx context.Context, sqltx *sqlx.Tx, mod map[string]any, filter dto.FilterGroup) error {
	ctx, scope := repo.scope(ctx, "UpdateTx")
	defer scope.End()

	_, err := repo.update(ctx, scope, sqltx, mod, filter)

	return err
}

func (repo *Repository[T]) update(ctx context.Context, scope otel.Scope, exec execer, mod map[string]any, filter dto.FilterGroup) (int64, error) {
	where, args := whereClause(filter)
	if where == "" {
		return 0, ErrRequiredFilter
	}

	query := join("UPDATE", repo.schema.table, "SET", setClause(mod), where)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	for col := range mod {
		if _, clash := args[col]; clash {
			return 0, fmt.Errorf("%w: %s", ErrArgumentClash, col)
		}
	}

	params := maps.Clone(mod)
	maps.Copy(params, args)

	result, err := exec.NamedExecContext(ctx, query, params)
	if err != nil {
		return 0, repo.fail(scope, "update data", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected rows (%s): %w", repo.entity, err)
	}

	return affected, nil
}
