package reminder

import (
	"context"
	"time"

	"tuinue/internal/mailer"
	"tuinue/pkg/types"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

type DonorStore interface {
	DonorsNeedingReminder(ctx context.Context) ([]*types.Donor, error)
	ClearReminder(ctx context.Context, donorID string) error
}

// Job emails donors flagged for a monthly donation reminder. It runs on a
// cron schedule alongside the HTTP server and is not part of the donation
// path.
type Job struct {
	cron     *cron.Cron
	schedule string
	donors   DonorStore
	mailer   mailer.Mailer
	logger   *logrus.Logger
}

func New(schedule string, donors DonorStore, m mailer.Mailer, logger *logrus.Logger) *Job {
	return &Job{
		cron:     cron.New(),
		schedule: schedule,
		donors:   donors,
		mailer:   m,
		logger:   logger,
	}
}

func (j *Job) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, j.Run); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.WithField("schedule", j.schedule).Info("reminder job scheduled")
	return nil
}

func (j *Job) Stop() {
	<-j.cron.Stop().Done()
}

// Run sends one reminder per flagged donor and clears the flag on
// successful delivery. Failed sends keep the flag for the next run.
func (j *Job) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	donors, err := j.donors.DonorsNeedingReminder(ctx)
	if err != nil {
		j.logger.WithError(err).Error("failed to fetch donors needing reminder")
		return
	}

	for _, donor := range donors {
		if err := j.mailer.SendMonthlyReminder(ctx, donor); err != nil {
			j.logger.WithError(err).WithField("donor_id", donor.ID).Error("failed to send monthly reminder")
			continue
		}

		if err := j.donors.ClearReminder(ctx, donor.ID); err != nil {
			j.logger.WithError(err).WithField("donor_id", donor.ID).Error("failed to clear reminder flag")
		}
	}

	j.logger.WithField("donors", len(donors)).Info("monthly reminder run complete")
}
