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

const beneficiaryTableName = "tuinue.beneficiaries"

var beneficiaryColumns = utils.StructTagValues(types.Beneficiary{})

type BeneficiaryRepository struct {
	pool *pgxpool.Pool
}

func NewBeneficiaryRepository(pool *pgxpool.Pool) *BeneficiaryRepository {
	return &BeneficiaryRepository{pool: pool}
}

func (r *BeneficiaryRepository) Beneficiary(ctx context.Context, beneficiaryID string) (*types.Beneficiary, error) {
	query, args, err := psql().
		Select(beneficiaryColumns...).
		From(beneficiaryTableName).
		Where(sq.Eq{"id": beneficiaryID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate beneficiary query: %w", err)
	}

	var beneficiary types.Beneficiary
	err = pgxscan.Get(ctx, r.pool, &beneficiary, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrBeneficiaryNotFound
		}
		return nil, fmt.Errorf("failed to fetch beneficiary: %w", err)
	}

	return &beneficiary, nil
}

func (r *BeneficiaryRepository) Create(ctx context.Context, beneficiary *types.Beneficiary) error {
	if beneficiary.ID == "" {
		beneficiary.ID = utils.NanoID()
	}
	beneficiary.CreatedAt = time.Now().UTC()

	query, args, err := psql().
		Insert(beneficiaryTableName).
		SetMap(utils.StructToMap(beneficiary)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate create beneficiary query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to create beneficiary: %w", err)
	}

	return nil
}

func (r *BeneficiaryRepository) Beneficiaries(ctx context.Context, limit, offset uint64) ([]*types.Beneficiary, error) {
	query, args, err := psql().
		Select(beneficiaryColumns...).
		From(beneficiaryTableName).
		OrderBy("created_at ASC").
		Limit(limit).
		Offset(offset).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate beneficiaries query: %w", err)
	}

	var beneficiaries = make([]*types.Beneficiary, 0)
	err = pgxscan.Select(ctx, r.pool, &beneficiaries, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch beneficiaries: %w", err)
	}

	return beneficiaries, nil
}

func (r *BeneficiaryRepository) BeneficiariesByCharity(ctx context.Context, charityID string, limit, offset uint64) ([]*types.Beneficiary, error) {
	query, args, err := psql().
		Select(beneficiaryColumns...).
		From(beneficiaryTableName).
		Where(sq.Eq{"charity_id": charityID}).
		OrderBy("created_at ASC").
		Limit(limit).
		Offset(offset).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate beneficiaries-by-charity query: %w", err)
	}

	var beneficiaries = make([]*types.Beneficiary, 0)
	err = pgxscan.Select(ctx, r.pool, &beneficiaries, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch charity beneficiaries: %w", err)
	}

	return beneficiaries, nil
}
