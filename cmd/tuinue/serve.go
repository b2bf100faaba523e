package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tuinue/internal/db"
	"tuinue/internal/mailer"
	"tuinue/internal/mpesa"
	"tuinue/internal/reminder"
	"tuinue/internal/server"
	"tuinue/internal/store"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var serveCommand = &cli.Command{
	Name:   "serve",
	Usage:  "Start the HTTP server",
	Action: serve,
}

func serve(cCtx *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	config, err := loadConfig()
	if err != nil {
		return err
	}

	pool, err := db.Connect(ctx, config)
	if err != nil {
		return err
	}
	defer pool.Close()

	donorRepo := store.NewDonorRepository(pool)
	charityRepo := store.NewCharityRepository(pool)
	administratorRepo := store.NewAdministratorRepository(pool)
	beneficiaryRepo := store.NewBeneficiaryRepository(pool)
	donationRepo := store.NewDonationRepository(pool)
	storyRepo := store.NewStoryRepository(pool)

	gateway := mpesa.NewClient(config, logger)

	smtpMailer, err := mailer.NewSMTPMailer(config)
	if err != nil {
		return err
	}

	reminderJob := reminder.New(config.ReminderSchedule, donorRepo, smtpMailer, logger)
	if err := reminderJob.Start(); err != nil {
		return err
	}
	defer reminderJob.Stop()

	srv, err := server.New(
		config,
		logger,
		donorRepo,
		charityRepo,
		administratorRepo,
		beneficiaryRepo,
		donationRepo,
		storyRepo,
		gateway,
		smtpMailer,
	)
	if err != nil {
		return err
	}

	go func() {
		logger.WithField("port", config.ServerPort).Infof("server starting http://localhost:%d", config.ServerPort)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Stop(shutdownCtx)
}
