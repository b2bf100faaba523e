package seed

import (
	"context"
	"errors"
	"fmt"

	"tuinue/internal/store"
	"tuinue/pkg/types"

	"golang.org/x/crypto/bcrypt"
)

// Sample credentials are for local development only.
const samplePassword = "password"

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func SeedAdministrators(ctx context.Context, administratorRepo *store.AdministratorRepository) error {
	usernames := []string{"admin", "moderator"}

	for _, username := range usernames {
		_, err := administratorRepo.AdministratorByUsername(ctx, username)
		if err == nil {
			continue
		}
		if !errors.Is(err, types.ErrAdministratorNotFound) {
			return fmt.Errorf("failed to fetch administrator %s: %w", username, err)
		}

		hash, err := hashPassword(samplePassword)
		if err != nil {
			return err
		}

		administrator := &types.Administrator{
			Username:     username,
			PasswordHash: hash,
		}

		if err := administratorRepo.Create(ctx, administrator); err != nil {
			return fmt.Errorf("failed to seed administrator %s: %w", username, err)
		}
	}

	return nil
}

type donorSeed struct {
	FirstName   string
	LastName    string
	Email       string
	IsAnonymous bool
}

var sampleDonors = []donorSeed{
	{FirstName: "John", LastName: "Doe", Email: "john.doe+seed1@example.com"},
	{FirstName: "Jane", LastName: "Smith", Email: "jane.smith+seed2@example.com"},
	{FirstName: "Wanjiku", LastName: "Kamau", Email: "wanjiku.kamau+seed3@example.com", IsAnonymous: true},
	{FirstName: "Brian", LastName: "Otieno", Email: "brian.otieno+seed4@example.com"},
}

func SeedDonors(ctx context.Context, donorRepo *store.DonorRepository) ([]*types.Donor, error) {
	donors := make([]*types.Donor, 0, len(sampleDonors))

	for _, sample := range sampleDonors {
		existing, err := donorRepo.DonorByEmail(ctx, sample.Email)
		if err == nil {
			donors = append(donors, existing)
			continue
		}
		if !errors.Is(err, types.ErrDonorNotFound) {
			return nil, fmt.Errorf("failed to fetch donor %s: %w", sample.Email, err)
		}

		hash, err := hashPassword(samplePassword)
		if err != nil {
			return nil, err
		}

		donor := &types.Donor{
			FirstName:    sample.FirstName,
			LastName:     sample.LastName,
			Email:        sample.Email,
			PasswordHash: hash,
			IsAnonymous:  sample.IsAnonymous,
		}

		if err := donorRepo.Create(ctx, donor); err != nil {
			return nil, fmt.Errorf("failed to seed donor %s: %w", sample.Email, err)
		}

		donors = append(donors, donor)
	}

	return donors, nil
}

type charitySeed struct {
	Name        string
	Email       string
	Description string
	Status      types.CharityStatus
}

var sampleCharities = []charitySeed{
	{Name: "Pads for Girls", Email: "padsforgirls+seed@example.com", Description: "Sanitary towel drives for schools in Kibera", Status: types.CharityStatusApproved},
	{Name: "Elimu Fund", Email: "elimufund+seed@example.com", Description: "School fees for girls in arid counties", Status: types.CharityStatusApproved},
	{Name: "Safe Spaces Initiative", Email: "safespaces+seed@example.com", Description: "Mentorship and shelter programs", Status: types.CharityStatusPending},
}

func SeedCharities(ctx context.Context, charityRepo *store.CharityRepository) ([]*types.Charity, error) {
	charities := make([]*types.Charity, 0, len(sampleCharities))

	for _, sample := range sampleCharities {
		existing, err := charityRepo.CharityByEmail(ctx, sample.Email)
		if err == nil {
			charities = append(charities, existing)
			continue
		}
		if !errors.Is(err, types.ErrCharityNotFound) {
			return nil, fmt.Errorf("failed to fetch charity %s: %w", sample.Email, err)
		}

		hash, err := hashPassword(samplePassword)
		if err != nil {
			return nil, err
		}

		description := sample.Description
		charity := &types.Charity{
			Name:         sample.Name,
			Email:        sample.Email,
			Description:  &description,
			Status:       sample.Status,
			PasswordHash: hash,
		}

		if err := charityRepo.Create(ctx, charity); err != nil {
			return nil, fmt.Errorf("failed to seed charity %s: %w", sample.Email, err)
		}

		charities = append(charities, charity)
	}

	return charities, nil
}
