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

const donationTableName = "tuinue.donations"

var donationColumns = utils.StructTagValues(types.Donation{})

type DonationRepository struct {
	pool *pgxpool.Pool
}

func NewDonationRepository(pool *pgxpool.Pool) *DonationRepository {
	return &DonationRepository{pool: pool}
}

func (r *DonationRepository) Create(ctx context.Context, donation *types.Donation) error {
	if donation.ID == "" {
		donation.ID = utils.NanoID()
	}
	donation.CreatedAt = time.Now().UTC()

	query, args, err := psql().
		Insert(donationTableName).
		SetMap(utils.StructToMap(donation)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate create donation query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to create donation: %w", err)
	}

	return nil
}

func (r *DonationRepository) Donations(ctx context.Context, limit, offset uint64) ([]*types.Donation, error) {
	query, args, err := psql().
		Select(donationColumns...).
		From(donationTableName).
		OrderBy("created_at ASC").
		Limit(limit).
		Offset(offset).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate donations query: %w", err)
	}

	var donations = make([]*types.Donation, 0)
	err = pgxscan.Select(ctx, r.pool, &donations, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch donations: %w", err)
	}

	return donations, nil
}

func (r *DonationRepository) AnonymousDonations(ctx context.Context, limit, offset uint64) ([]*types.Donation, error) {
	query, args, err := psql().
		Select(donationColumns...).
		From(donationTableName).
		Where(sq.Eq{"is_anonymous": true}).
		OrderBy("created_at ASC").
		Limit(limit).
		Offset(offset).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate anonymous donations query: %w", err)
	}

	var donations = make([]*types.Donation, 0)
	err = pgxscan.Select(ctx, r.pool, &donations, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch anonymous donations: %w", err)
	}

	return donations, nil
}

// TotalForCharity sums received donation amounts for a charity. Zero when
// the charity has no donations.
func (r *DonationRepository) TotalForCharity(ctx context.Context, charityID string) (float64, error) {
	query, args, err := psql().
		Select("COALESCE(SUM(amount), 0) AS total").
		From(donationTableName).
		Where(sq.Eq{"charity_id": charityID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to generate donation total query: %w", err)
	}

	var total float64
	err = pgxscan.Get(ctx, r.pool, &total, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch donation total: %w", err)
	}

	return total, nil
}
