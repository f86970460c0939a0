package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"radar/internal/auth"
	"radar/internal/config"
	"radar/internal/database"
	"radar/internal/digest"
	"radar/internal/feedfetch"
	"radar/internal/handlers"
	"radar/internal/insight"
	"radar/internal/mailer"
	"radar/internal/services"
	"radar/internal/social"
	"radar/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Connect to database
	dbConfig := database.LoadConfig()
	if err := database.Connect(dbConfig); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer database.Close()

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	db := database.DB

	// Upstream clients
	mailClient := mailer.NewClient(cfg.MailerBaseURL, cfg.MailerAPIKey, cfg.MailerFrom)
	socialClient := social.NewClient(cfg.SocialBaseURL, cfg.SocialAPIKey)
	insightGen := insight.NewGenerator(cfg.OpenAIAPIKey)

	// Services
	accounts := services.NewAccountsService(db)
	topics := services.NewTopicsService(db)
	sources := services.NewSourcesService(db, cfg.MaxSourcesPerAccount, cfg.SourceWarnThreshold)
	content := services.NewContentService(db, topics, cfg.FetchTimeout)
	interactions := services.NewInteractionsService(db)
	preferences := services.NewPreferencesService(db, topics)
	ingest := services.NewIngestService(db)
	whatsHot := services.NewWhatsHotService(db, socialClient)
	invites := services.NewInvitesService(db, mailClient, providerConfirmer{}, services.InviteConfig{
		TTL:              cfg.InviteTTL,
		MaxReminders:     cfg.InviteMaxReminders,
		ReminderInterval: cfg.InviteReminderInterval,
		AppBaseURL:       cfg.AppBaseURL,
	})
	digests := services.NewDigestService(db, digest.NewGenerator(db, insightGen), mailClient)

	// Background workers
	workerService := worker.NewWorkerService(feedfetch.NewRSSFetcher(db, ingest), invites, cfg.RSSRefreshSpec)
	workerService.Start()

	setupGracefulShutdown(workerService)

	setupServer(cfg, serverHandlers{
		auth:        handlers.NewAuthMiddleware(auth.NewSessionVerifier(cfg.SessionSecret), accounts),
		health:      handlers.NewHealthHandler(),
		sources:     handlers.NewSourcesHandler(sources),
		topics:      handlers.NewTopicsHandler(topics),
		content:     handlers.NewContentHandler(content, interactions),
		preferences: handlers.NewPreferencesHandler(preferences, digests),
		invites:     handlers.NewInvitesHandler(invites, cfg.AppBaseURL, cfg.LoginURL),
		ingest:      handlers.NewIngestHandler(ingest, sources, feedfetch.NewChannelResolver(cfg.FetchTimeout)),
		cron:        handlers.NewCronHandler(digests, invites),
		whatsHot:    handlers.NewWhatsHotHandler(whatsHot),
	})
}

// providerConfirmer asks the auth provider to mark an invited user's email
// verified. The provider call itself is deployment glue; here it is recorded
// for the audit trail.
type providerConfirmer struct{}

func (providerConfirmer) ConfirmEmail(ctx context.Context, userID string) error {
	log.Printf("Auto-confirming email for invited user %s", userID)
	return nil
}

type serverHandlers struct {
	auth        *handlers.AuthMiddleware
	health      *handlers.HealthHandler
	sources     *handlers.SourcesHandler
	topics      *handlers.TopicsHandler
	content     *handlers.ContentHandler
	preferences *handlers.PreferencesHandler
	invites     *handlers.InvitesHandler
	ingest      *handlers.IngestHandler
	cron        *handlers.CronHandler
	whatsHot    *handlers.WhatsHotHandler
}

func setupGracefulShutdown(workerService *worker.WorkerService) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Println("Received shutdown signal, gracefully shutting down...")

		workerService.Stop()
		database.Close()

		log.Println("Shutdown complete")
		os.Exit(0)
	}()
}

func setupServer(cfg *config.Config, h serverHandlers) {
	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()

	// CORS middleware
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Health check
	r.GET("/health", h.health.HealthCheck)

	// Public invite entry points
	r.GET("/invites/accept", h.invites.Accept)
	r.POST("/invites/accept", h.invites.MarkAccepted)

	// Account-scoped API routes
	api := r.Group("/api", h.auth.RequireAccount())
	{
		sources := api.Group("/sources")
		{
			sources.GET("", h.sources.List)
			sources.POST("", h.sources.Create)
			sources.PATCH("/:id", h.sources.Update)
			sources.DELETE("/:id", h.sources.Delete)
		}

		topics := api.Group("/topics")
		{
			topics.GET("", h.topics.List)
			topics.POST("", h.topics.Create)
			topics.PATCH("/:id", h.topics.Update)
			topics.DELETE("/:id", h.topics.Delete)
		}

		content := api.Group("/content")
		{
			content.GET("", h.content.List)
			content.DELETE("", h.content.Delete)
			content.GET("/:id", h.content.Get)
			content.GET("/:id/full-article", h.content.FullArticle)
		}

		api.POST("/interactions", h.content.ApplyInteraction)

		api.GET("/preferences", h.preferences.Get)
		api.POST("/preferences", h.preferences.Update)
		api.GET("/preferences/digest-history", h.preferences.DigestHistory)

		api.POST("/invites", h.invites.Create)
		api.POST("/invites/:id/cancel", h.invites.Cancel)

		api.GET("/whats-hot", h.whatsHot.List)
		api.POST("/whats-hot", h.whatsHot.Publish)
	}

	// Machine-to-machine routes
	ingest := r.Group("/ingest", handlers.RequireSharedSecret(cfg.IngestSecret))
	{
		ingest.POST("/tweets", h.ingest.IngestTweets)
		ingest.POST("/channels", h.ingest.DiscoverChannel)
	}

	cron := r.Group("/cron", handlers.RequireSharedSecret(cfg.CronSecret))
	{
		cron.POST("/digest/:cadence", h.cron.RunDigest)
		cron.POST("/invites/reminders", h.cron.RunInviteReminders)
		cron.POST("/invites/expire", h.cron.RunInviteExpiry)
	}

	log.Printf("Server starting on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
