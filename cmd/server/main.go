package main

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"

	"github.com/example/giftvault/internal/config"
	"github.com/example/giftvault/internal/database"
	"github.com/example/giftvault/internal/repository"
	"github.com/example/giftvault/internal/routes"
	"github.com/example/giftvault/internal/services"
)

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	cfg := config.Load()
	db := database.Connect(cfg.DatabaseURL)
	store := repository.NewStore(db)

	telegram := services.NewTelegramService(cfg.TelegramBotToken, cfg.TelegramAdminChat)
	activities := services.NewActivityService(db)
	referrals := services.NewReferralService(store, cfg)
	redemptions := services.NewRedemptionService(store, referrals, telegram, activities)
	withdrawals := services.NewWithdrawalService(store, telegram, activities)

	var blobs services.BlobStore
	if cloudinarySvc, err := services.NewCloudinaryService(cfg.CloudinaryURL, "proofs"); err != nil {
		logrus.WithError(err).Warn("cloudinary not configured, redemption submission disabled")
	} else {
		blobs = cloudinarySvc
	}

	reconciler := services.NewReconciler(store, cfg.ReconcileInterval)
	if err := reconciler.Start(); err != nil {
		logrus.WithError(err).Fatal("failed to start balance reconciler")
	}
	defer reconciler.Stop()

	app := fiber.New(fiber.Config{
		AppName: "GiftVault Backend",
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New())

	routes.Register(app, db, cfg, &routes.Deps{
		Redemptions: redemptions,
		Withdrawals: withdrawals,
		Referrals:   referrals,
		Blobs:       blobs,
	})

	logrus.Infof("Starting server on :%s", cfg.AppPort)
	if err := app.Listen(":" + cfg.AppPort); err != nil {
		logrus.WithError(err).Fatal("fiber.Listen error")
	}
}
