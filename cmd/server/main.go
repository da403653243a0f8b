package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/vetsasatyasrikar/Flinx-Market-Place/internal/blob"
	"github.com/vetsasatyasrikar/Flinx-Market-Place/internal/config"
	"github.com/vetsasatyasrikar/Flinx-Market-Place/internal/database"
	"github.com/vetsasatyasrikar/Flinx-Market-Place/internal/handlers"
	"github.com/vetsasatyasrikar/Flinx-Market-Place/internal/logging"
	"github.com/vetsasatyasrikar/Flinx-Market-Place/internal/middleware"
	"github.com/vetsasatyasrikar/Flinx-Market-Place/internal/notify"
	"github.com/vetsasatyasrikar/Flinx-Market-Place/internal/payments"
	"github.com/vetsasatyasrikar/Flinx-Market-Place/internal/repository"
	"github.com/vetsasatyasrikar/Flinx-Market-Place/internal/routes"
	"github.com/vetsasatyasrikar/Flinx-Market-Place/internal/services"
	"github.com/vetsasatyasrikar/Flinx-Market-Place/internal/settlement"
)

func main() {
	// Structured logging (JSON to stdout)
	logging.Setup()

	cfg := config.Load()

	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET environment variable is required")
		os.Exit(1)
	}
	if cfg.DBPassword == "" {
		slog.Error("DB_PASSWORD environment variable is required")
		os.Exit(1)
	}

	// Database
	if err := database.Connect(cfg); err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(database.DB); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	// PostgreSQL log handler (ERROR+ async batch)
	pgLogHandler := logging.AttachDB(database.DB)

	bgCtx, stopBackground := context.WithCancel(context.Background())
	logging.StartCleanup(bgCtx, database.DB, cfg.LogRetention)

	// Sentry error tracking
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.AppEnv,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Blob store is optional; without it listings are text-only.
	var (
		blobs      services.BlobStore
		blobPinger handlers.Pinger
		gridfs     *blob.GridFSStore
	)
	if cfg.MongoURI != "" {
		connectCtx, cancel := context.WithTimeout(bgCtx, 10*time.Second)
		store, err := blob.Connect(connectCtx, cfg.MongoURI, cfg.MongoDB)
		cancel()
		if err != nil {
			slog.Error("blob store connection failed", "error", err)
			os.Exit(1)
		}
		gridfs, blobs, blobPinger = store, store, store
	} else {
		slog.Warn("MONGO_URI not set, listing images disabled")
	}

	// Payment provider
	provider, err := payments.New(cfg)
	if err != nil {
		slog.Error("payment provider setup failed", "error", err)
		os.Exit(1)
	}
	if !provider.Configured() {
		slog.Warn("payment provider has no credentials, checkout disabled", "provider", provider.Name())
	}

	ledger := repository.NewLedger(database.DB)

	// Notifications
	email, sms := notificationSenders(cfg)
	dispatcher := notify.NewDispatcher(ledger, ledger, email, sms)
	engine := settlement.NewEngine(ledger, ledger, provider, dispatcher)

	// Services
	filter := services.NewContentFilter()
	authService := services.NewAuthService(ledger, cfg)
	listingService := services.NewListingService(ledger, blobs, filter)
	history := services.NewPaymentHistory(ledger, listingService)
	chatService := services.NewChatService(ledger, listingService, filter)
	moderationService := services.NewModerationService(ledger, listingService)

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    8 * 1024 * 1024,
		ErrorHandler: handlers.ErrorHandler,
	})

	// Sentry middleware
	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(helmet.New(helmet.Config{
		CrossOriginResourcePolicy: "cross-origin",
	}))
	app.Use(middleware.CORS(cfg))

	routes.Setup(app, cfg, ledger, routes.Handlers{
		Auth:       handlers.NewAuthHandler(authService),
		Health:     handlers.NewHealthHandler(blobPinger, provider.Name()),
		Listing:    handlers.NewListingHandler(listingService, history),
		Chat:       handlers.NewChatHandler(chatService),
		Payment:    handlers.NewPaymentHandler(engine, history, cfg),
		Webhook:    handlers.NewWebhookHandler(engine),
		Moderation: handlers.NewModerationHandler(moderationService),
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port, "provider", provider.Name())
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		slog.Error("server shutdown error", "error", err)
	}
	listingService.WaitForCleanup()

	stopBackground()
	pgLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if gridfs != nil {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := gridfs.Close(closeCtx); err != nil {
			slog.Error("blob store close error", "error", err)
		}
		cancel()
	}
	if err := database.Close(); err != nil {
		slog.Error("database close error", "error", err)
	}

	slog.Info("server stopped")
}

// notificationSenders returns the configured channels. Missing credentials
// leave the channel a nil interface.
func notificationSenders(cfg *config.Config) (notify.EmailSender, notify.SMSSender) {
	var (
		email notify.EmailSender
		sms   notify.SMSSender
	)
	if s := notify.NewSendGridSender(cfg.SendGridAPIKey, cfg.NotifyFromEmail); s != nil {
		email = s
	} else {
		slog.Warn("SENDGRID_API_KEY not set, email notifications disabled")
	}
	if s := notify.NewTwilioSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFrom); s != nil {
		sms = s
	} else {
		slog.Warn("Twilio credentials not set, SMS notifications disabled")
	}
	return email, sms
}
