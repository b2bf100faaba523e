package store

import (
	"context"
	"fmt"
	"time"

	"tuinue/internal/utils"
	"tuinue/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
)

const administratorTableName = "tuinue.administrators"

var administratorColumns = utils.StructTagValues(types.Administrator{})

type AdministratorRepository struct {
	pool *pgxpool.Pool
}

func NewAdministratorRepository(pool *pgxpool.Pool) *AdministratorRepository {
	return &AdministratorRepository{pool: pool}
}

func (r *AdministratorRepository) Administrator(ctx context.Context, administratorID string) (*types.Administrator, error) {
	query, args, err := psql().
		Select(administratorColumns...).
		From(administratorTableName).
		Where(sq.Eq{"id": administratorID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate administrator query: %w", err)
	}

	var administrator types.Administrator
	err = pgxscan.Get(ctx, r.pool, &administrator, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrAdministratorNotFound
		}
		return nil, fmt.Errorf("failed to fetch administrator: %w", err)
	}

	return &administrator, nil
}

func (r *AdministratorRepository) AdministratorByUsername(ctx context.Context, username string) (*types.Administrator, error) {
	query, args, err := psql().
		Select(administratorColumns...).
		From(administratorTableName).
		Where(sq.Eq{"username": username}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate administrator-by-username query: %w", err)
	}

	var administrator types.Administrator
	err = pgxscan.Get(ctx, r.pool, &administrator, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrAdministratorNotFound
		}
		return nil, fmt.Errorf("failed to fetch administrator by username: %w", err)
	}

	return &administrator, nil
}

func (r *AdministratorRepository) Create(ctx context.Context, administrator *types.Administrator) error {
	if administrator.ID == "" {
		administrator.ID = utils.NanoID()
	}
	administrator.CreatedAt = time.Now().UTC()

	query, args, err := psql().
		Insert(administratorTableName).
		SetMap(utils.StructToMap(administrator)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate create administrator query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return types.ErrDuplicateUsername
		}
		return fmt.Errorf("failed to create administrator: %w", err)
	}

	return nil
}

func (r *AdministratorRepository) Administrators(ctx context.Context, limit, offset uint64) ([]*types.Administrator, error) {
	query, args, err := psql().
		Select(administratorColumns...).
		From(administratorTableName).
		OrderBy("created_at ASC").
		Limit(limit).
		Offset(offset).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate administrators query: %w", err)
	}

	var administrators = make([]*types.Administrator, 0)
	err = pgxscan.Select(ctx, r.pool, &administrators, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch administrators: %w", err)
	}

	return administrators, nil
}
