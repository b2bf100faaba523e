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

const charityTableName = "tuinue.charities"

var charityColumns = utils.StructTagValues(types.Charity{})

type CharityRepository struct {
	pool *pgxpool.Pool
}

func NewCharityRepository(pool *pgxpool.Pool) *CharityRepository {
	return &CharityRepository{pool: pool}
}

func (r *CharityRepository) Charity(ctx context.Context, charityID string) (*types.Charity, error) {
	query, args, err := psql().
		Select(charityColumns...).
		From(charityTableName).
		Where(sq.Eq{"id": charityID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate charity query: %w", err)
	}

	var charity types.Charity
	err = pgxscan.Get(ctx, r.pool, &charity, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrCharityNotFound
		}
		return nil, fmt.Errorf("failed to fetch charity: %w", err)
	}

	return &charity, nil
}

func (r *CharityRepository) CharityByEmail(ctx context.Context, email string) (*types.Charity, error) {
	query, args, err := psql().
		Select(charityColumns...).
		From(charityTableName).
		Where(sq.Eq{"email": email}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate charity-by-email query: %w", err)
	}

	var charity types.Charity
	err = pgxscan.Get(ctx, r.pool, &charity, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrCharityNotFound
		}
		return nil, fmt.Errorf("failed to fetch charity by email: %w", err)
	}

	return &charity, nil
}

func (r *CharityRepository) Create(ctx context.Context, charity *types.Charity) error {
	if charity.ID == "" {
		charity.ID = utils.NanoID()
	}
	if charity.Status == "" {
		charity.Status = types.CharityStatusPending
	}
	charity.CreatedAt = time.Now().UTC()

	query, args, err := psql().
		Insert(charityTableName).
		SetMap(utils.StructToMap(charity)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate create charity query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return types.ErrDuplicateEmail
		}
		return fmt.Errorf("failed to create charity: %w", err)
	}

	return nil
}

func (r *CharityRepository) SetStatus(ctx context.Context, charityID string, status types.CharityStatus) error {
	query, args, err := psql().
		Update(charityTableName).
		Set("status", status).
		Where(sq.Eq{"id": charityID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate set status query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to set charity status: %w", err)
	}

	return nil
}

// Delete removes the charity row only. Donations, beneficiaries and
// stories referencing it are left in place.
func (r *CharityRepository) Delete(ctx context.Context, charityID string) error {
	query, args, err := psql().
		Delete(charityTableName).
		Where(sq.Eq{"id": charityID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate delete charity query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete charity: %w", err)
	}

	return nil
}

func (r *CharityRepository) Charities(ctx context.Context, limit, offset uint64) ([]*types.Charity, error) {
	query, args, err := psql().
		Select(charityColumns...).
		From(charityTableName).
		OrderBy("created_at ASC").
		Limit(limit).
		Offset(offset).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate charities query: %w", err)
	}

	var charities = make([]*types.Charity, 0)
	err = pgxscan.Select(ctx, r.pool, &charities, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch charities: %w", err)
	}

	return charities, nil
}

func (r *CharityRepository) CharitiesByStatus(ctx context.Context, status types.CharityStatus, limit, offset uint64) ([]*types.Charity, error) {
	query, args, err := psql().
		Select(charityColumns...).
		From(charityTableName).
		Where(sq.Eq{"status": status}).
		OrderBy("created_at ASC").
		Limit(limit).
		Offset(offset).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate charities-by-status query: %w", err)
	}

	var charities = make([]*types.Charity, 0)
	err = pgxscan.Select(ctx, r.pool, &charities, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch charities by status: %w", err)
	}

	return charities, nil
}
