package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"intake_backend/internal/controller"
	"intake_backend/internal/model"
	"intake_backend/internal/store"
	"intake_backend/pkg/config"
	"intake_backend/pkg/cron"
	"intake_backend/pkg/database"
	"intake_backend/pkg/email"
	"intake_backend/pkg/logger"
	"intake_backend/pkg/utils/cloudflare"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.Server.Env)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid configuration", zap.Error(err))
	}

	if err := email.InitEmailService(cfg, log); err != nil {
		log.Fatal("could not initialize email service", zap.Error(err))
	}
	log.Info("email service initialized", zap.String("transport", cfg.Email.Transport))

	if err := database.InitDB(cfg.Database.Driver, cfg.Database.URL, log); err != nil {
		log.Fatal("could not connect to database", zap.Error(err))
	}
	if err := database.MigrateDatabase(database.GetDB(), log, &model.Referral{}); err != nil {
		log.Fatal("failed to migrate database", zap.Error(err))
	}

	referrals, err := store.NewReferralStore(database.GetDB())
	if err != nil {
		log.Fatal("could not create referral store", zap.Error(err))
	}

	var archiver controller.Archiver
	if cfg.R2.Enabled() {
		archive, err := cloudflare.NewQuickIntakeArchive(context.Background(), cfg.R2)
		if err != nil {
			log.Fatal("could not initialize quick intake archive", zap.Error(err))
		}
		archiver = archive
		log.Info("quick intake archive enabled", zap.String("bucket", cfg.R2.BucketName))
	}

	digest := cron.NewReferralDigest(referrals, email.GlobalEmailService, log)
	scheduler, err := cron.InitReferralDigestCron(cfg.Digest.Schedule, digest)
	if err != nil {
		log.Fatal("could not start referral digest", zap.Error(err))
	}

	app := controller.NewApp(controller.AppOptions{
		CORSAllowOrigins: cfg.Server.CORSAllowOrigins,
		RequestLogging:   true,
	})
	h := controller.NewIntakeController(referrals, email.GlobalEmailService, archiver, log)
	controller.SetupRoutes(app, h, func(ctx context.Context) error {
		return database.Ping(ctx, database.GetDB())
	})

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit

		log.Info("shutting down")
		if scheduler != nil {
			<-scheduler.Stop().Done()
		}
		if err := app.Shutdown(); err != nil {
			log.Error("shutdown failed", zap.Error(err))
		}
	}()

	log.Info("intake service listening", zap.String("port", cfg.Server.Port))
	if err := app.Listen(":" + cfg.Server.Port); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
