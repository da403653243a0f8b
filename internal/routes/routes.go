package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/vetsasatyasrikar/Flinx-Market-Place/internal/config"
	"github.com/vetsasatyasrikar/Flinx-Market-Place/internal/handlers"
	"github.com/vetsasatyasrikar/Flinx-Market-Place/internal/middleware"
	"github.com/vetsasatyasrikar/Flinx-Market-Place/internal/repository"
)

type Handlers struct {
	Auth       *handlers.AuthHandler
	Health     *handlers.HealthHandler
	Listing    *handlers.ListingHandler
	Chat       *handlers.ChatHandler
	Payment    *handlers.PaymentHandler
	Webhook    *handlers.WebhookHandler
	Moderation *handlers.ModerationHandler
}

func Setup(app *fiber.App, cfg *config.Config, ledger *repository.Ledger, h Handlers) {
	api := app.Group("/api")

	// Provider webhooks are registered ahead of the IP limiter; they are
	// authenticated by signature instead.
	webhooks := api.Group("/webhooks")
	webhooks.Post("/stripe", h.Webhook.HandleStripe)

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", h.Health.Check)

	// Auth-specific rate limit: 10 req/min per IP (stricter)
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", h.Auth.Register)
	auth.Post("/login", h.Auth.Login)
	auth.Post("/refresh", h.Auth.Refresh)

	// Protected routes are wired per route so public ones stay reachable.
	jwt := middleware.JWTProtected(cfg)
	active := middleware.ActiveUser(ledger)

	api.Post("/auth/logout", jwt, h.Auth.Logout)
	api.Get("/me", jwt, active, h.Auth.Me)
	api.Put("/me", jwt, active, h.Auth.UpdateMe)

	// Listings: browsing is public, everything else needs an account.
	api.Get("/listings", h.Listing.List)
	api.Get("/listings/recommended", jwt, active, h.Listing.Recommended)
	api.Get("/listings/:id", h.Listing.Get)
	api.Get("/listings/:id/image", h.Listing.Image)
	api.Post("/listings", jwt, active, h.Listing.Create)
	api.Delete("/listings/:id", jwt, active, h.Listing.Delete)
	api.Post("/listings/:id/click", jwt, active, h.Listing.Click)
	api.Get("/listings/:id/payments", jwt, active, h.Listing.Payments)
	api.Get("/listings/:id/messages", jwt, active, h.Chat.List)
	api.Post("/listings/:id/messages", jwt, active, h.Chat.Send)

	payments := api.Group("/payments", jwt, active)
	payments.Post("/checkout", h.Payment.Checkout)
	payments.Post("/verify", h.Payment.Verify)
	payments.Get("/status/:ref", h.Payment.Status)
	payments.Get("/mine", h.Payment.Mine)

	api.Post("/reports", jwt, active, h.Moderation.CreateReport)

	admin := api.Group("/admin", jwt, middleware.AdminRequired(ledger, cfg))
	admin.Get("/reports", h.Moderation.ListReports)
	admin.Post("/reports/:id/delete-listing", h.Moderation.DeleteListing)
	admin.Post("/reports/:id/suspend-user", h.Moderation.SuspendUser)
}
