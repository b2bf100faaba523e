package main

import (
	"context"
	"fmt"

	"tuinue/internal/db"
	"tuinue/internal/seed"
	"tuinue/internal/store"

	"github.com/k0kubun/pp"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var seedCommand = &cli.Command{
	Name:  "seed",
	Usage: "Seed the database with sample data",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "verbose",
			Usage: "Print the seeded rows",
		},
	},
	Action: func(c *cli.Context) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		ctx := context.Background()

		pool, err := db.Connect(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer pool.Close()

		logrus.Info("Connected to database")

		donorRepo := store.NewDonorRepository(pool)
		charityRepo := store.NewCharityRepository(pool)
		administratorRepo := store.NewAdministratorRepository(pool)
		beneficiaryRepo := store.NewBeneficiaryRepository(pool)
		donationRepo := store.NewDonationRepository(pool)
		storyRepo := store.NewStoryRepository(pool)

		logrus.Info("Seeding administrators...")
		if err := seed.SeedAdministrators(ctx, administratorRepo); err != nil {
			return fmt.Errorf("failed to seed administrators: %w", err)
		}

		logrus.Info("Seeding donors...")
		donors, err := seed.SeedDonors(ctx, donorRepo)
		if err != nil {
			return fmt.Errorf("failed to seed donors: %w", err)
		}

		logrus.Info("Seeding charities...")
		charities, err := seed.SeedCharities(ctx, charityRepo)
		if err != nil {
			return fmt.Errorf("failed to seed charities: %w", err)
		}

		logrus.Info("Seeding beneficiaries and stories...")
		if err := seed.SeedBeneficiaries(ctx, beneficiaryRepo, storyRepo, charities); err != nil {
			return fmt.Errorf("failed to seed beneficiaries: %w", err)
		}

		logrus.Info("Seeding donations...")
		if err := seed.SeedDonations(ctx, donationRepo, donors, charities); err != nil {
			return fmt.Errorf("failed to seed donations: %w", err)
		}

		if c.Bool("verbose") {
			pp.Println(donors, charities)
		}

		logrus.Info("Seed complete")

		return nil
	},
}
