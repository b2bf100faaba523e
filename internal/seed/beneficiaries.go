package seed

import (
	"context"
	"fmt"

	"tuinue/internal/store"
	"tuinue/pkg/types"
)

type beneficiarySeed struct {
	Name     string
	Age      int
	Location string
	Story    string
}

var sampleBeneficiaries = []beneficiarySeed{
	{Name: "Amina", Age: 14, Location: "Kibera, Nairobi", Story: "Amina missed a week of school every month before the sanitary towel drive reached her class."},
	{Name: "Grace", Age: 12, Location: "Turkana", Story: "Grace walks six kilometres to school and leads her class in mathematics."},
	{Name: "Faith", Age: 15, Location: "Kilifi", Story: "Faith joined the mentorship program after her mother could no longer pay fees."},
}

// SeedBeneficiaries spreads the sample beneficiaries across the seeded
// charities round-robin and posts one story for each.
func SeedBeneficiaries(
	ctx context.Context,
	beneficiaryRepo *store.BeneficiaryRepository,
	storyRepo *store.StoryRepository,
	charities []*types.Charity,
) error {
	if len(charities) == 0 {
		return nil
	}

	for i, sample := range sampleBeneficiaries {
		charity := charities[i%len(charities)]

		existing, err := beneficiaryRepo.BeneficiariesByCharity(ctx, charity.ID, types.MaxPerPage, 0)
		if err != nil {
			return fmt.Errorf("failed to fetch beneficiaries for %s: %w", charity.Name, err)
		}

		alreadySeeded := false
		for _, b := range existing {
			if b.Name == sample.Name {
				alreadySeeded = true
				break
			}
		}
		if alreadySeeded {
			continue
		}

		beneficiary := &types.Beneficiary{
			CharityID: charity.ID,
			Name:      sample.Name,
			Age:       sample.Age,
			Location:  sample.Location,
			Story:     sample.Story,
		}

		if err := beneficiaryRepo.Create(ctx, beneficiary); err != nil {
			return fmt.Errorf("failed to seed beneficiary %s: %w", sample.Name, err)
		}

		story := &types.Story{
			CharityID:     charity.ID,
			BeneficiaryID: beneficiary.ID,
			Title:         fmt.Sprintf("Meet %s", sample.Name),
			Content:       sample.Story,
		}

		if err := storyRepo.Create(ctx, story); err != nil {
			return fmt.Errorf("failed to seed story for %s: %w", sample.Name, err)
		}
	}

	return nil
}
