package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/giftvault/internal/config"
	"github.com/example/giftvault/internal/handlers"
	"github.com/example/giftvault/internal/middleware"
	"github.com/example/giftvault/internal/services"
)

// Register wires up all HTTP routes.
func Register(app *fiber.App, db *gorm.DB, cfg *config.Config, deps *Deps) {
	authHandler := handlers.NewAuthHandler(db, cfg, deps.Referrals)
	giftCardHandler := handlers.NewGiftCardHandler(db)
	redemptionHandler := handlers.NewRedemptionHandler(db, deps.Redemptions, deps.Blobs)
	withdrawalHandler := handlers.NewWithdrawalHandler(db, deps.Withdrawals)
	referralHandler := handlers.NewReferralHandler(db, deps.Referrals)
	activityHandler := handlers.NewActivityHandler(db)
	adminHandler := handlers.NewAdminHandler(db)

	api := app.Group("/api")

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Get("/me", middleware.AuthMiddleware(cfg), authHandler.Me)

	// Public catalog and referral stats
	api.Get("/giftcards", giftCardHandler.List)
	api.Get("/giftcards/:id", giftCardHandler.Get)
	api.Get("/referrals/stats/:code", referralHandler.Stats)
	api.Get("/referrals/leaderboard", referralHandler.Leaderboard)

	// Authenticated user routes
	protected := api.Group("", middleware.AuthMiddleware(cfg))
	protected.Post("/redemptions", redemptionHandler.Submit)
	protected.Get("/redemptions", redemptionHandler.ListMine)
	protected.Post("/withdrawals", withdrawalHandler.Submit)
	protected.Get("/withdrawals", withdrawalHandler.ListMine)
	protected.Get("/activities", activityHandler.List)

	// Admin routes
	admin := api.Group("/admin", middleware.AuthMiddleware(cfg), middleware.AdminMiddleware())
	admin.Get("/stats", adminHandler.DashboardStats)
	admin.Get("/users", adminHandler.ListUsers)

	admin.Post("/giftcards", giftCardHandler.Create)
	admin.Put("/giftcards/:id", giftCardHandler.Update)
	admin.Delete("/giftcards/:id", giftCardHandler.Delete)

	admin.Get("/redemptions", redemptionHandler.ListAll)
	admin.Post("/redemptions/:id/approve", redemptionHandler.Approve)
	admin.Post("/redemptions/:id/reject", redemptionHandler.Reject)

	admin.Get("/withdrawals", withdrawalHandler.ListAll)
	admin.Patch("/withdrawals/:id", withdrawalHandler.UpdateStatus)
}

// Deps carries the constructed services into route registration.
type Deps struct {
	Redemptions *services.RedemptionService
	Withdrawals *services.WithdrawalService
	Referrals   *services.ReferralService
	Blobs       services.BlobStore
}
