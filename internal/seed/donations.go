package seed

import (
	"context"
	"fmt"

	"tuinue/internal/store"
	"tuinue/pkg/types"
)

type donationSeed struct {
	donorIndex   int
	charityIndex int
	amount       float64
	oneTime      bool
}

var sampleDonations = []donationSeed{
	{donorIndex: 0, charityIndex: 0, amount: 500, oneTime: false},
	{donorIndex: 1, charityIndex: 0, amount: 1200, oneTime: true},
	{donorIndex: 2, charityIndex: 1, amount: 250, oneTime: false},
	{donorIndex: 3, charityIndex: 1, amount: 2000, oneTime: true},
}

// SeedDonations inserts sample donations once; donation rows have no
// natural key, so an empty table is the only signal to seed.
func SeedDonations(
	ctx context.Context,
	donationRepo *store.DonationRepository,
	donors []*types.Donor,
	charities []*types.Charity,
) error {
	if len(donors) == 0 || len(charities) == 0 {
		return nil
	}

	existing, err := donationRepo.Donations(ctx, 1, 0)
	if err != nil {
		return fmt.Errorf("failed to check for existing donations: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	for _, sample := range sampleDonations {
		if sample.donorIndex >= len(donors) || sample.charityIndex >= len(charities) {
			continue
		}

		donor := donors[sample.donorIndex]
		charity := charities[sample.charityIndex]

		donation := &types.Donation{
			DonorID:           donor.ID,
			CharityID:         charity.ID,
			Amount:            sample.amount,
			IsAnonymous:       donor.IsAnonymous,
			IsOneTimeDonation: sample.oneTime,
		}

		if err := donationRepo.Create(ctx, donation); err != nil {
			return fmt.Errorf("failed to seed donation for %s: %w", donor.Email, err)
		}
	}

	return nil
}
