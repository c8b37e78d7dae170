package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/deltaarena/backend/docs"
	"github.com/deltaarena/backend/internal/config"
	"github.com/deltaarena/backend/internal/database"
	"github.com/deltaarena/backend/internal/handlers"
	"github.com/deltaarena/backend/internal/jobs"
	mW "github.com/deltaarena/backend/internal/middleware"
	"github.com/deltaarena/backend/internal/notify"
	"github.com/deltaarena/backend/internal/services"
	"github.com/deltaarena/backend/internal/storage"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/viper"
	httpSwagger "github.com/swaggo/http-swagger"
)

// @title DeltaArena Tournament API
// @version 1.0
// @description API for tournament registration, entry payments and the DeltaCoin economy
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	// Initialize config
	viper.SetConfigFile(".env") // explicitly point to .env file
	viper.AutomaticEnv()        // allow environment variables to override .env
	viper.ReadInConfig()        // read .env file

	// Set environment variable prefix
	viper.SetEnvPrefix("")

	viper.BindEnv("database.host", "DATABASE_HOST")
	viper.BindEnv("database.port", "DATABASE_PORT")
	viper.BindEnv("database.user", "DATABASE_USER")
	viper.BindEnv("database.password", "DATABASE_PASSWORD")
	viper.BindEnv("database.name", "DATABASE_NAME")
	viper.BindEnv("database.ssl_mode", "DATABASE_SSL_MODE")

	viper.BindEnv("redis.host", "REDIS_HOST")
	viper.BindEnv("redis.port", "REDIS_PORT")
	viper.BindEnv("redis.password", "REDIS_PASSWORD")
	viper.BindEnv("redis.db", "REDIS_DB")

	viper.BindEnv("jwt.secret_key", "JWT_SECRET_KEY")
	viper.BindEnv("jwt.expiry_hours", "JWT_EXPIRY_HOURS")

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Config file not found, using defaults: %v", err)
	}

	// Initialize Swagger docs
	docs.SwaggerInfo.Title = "DeltaArena Tournament API"
	docs.SwaggerInfo.Description = "API for tournament registration, entry payments and the DeltaCoin economy"
	docs.SwaggerInfo.Version = "1.0"
	docs.SwaggerInfo.Host = "localhost:8080"
	docs.SwaggerInfo.BasePath = "/api/v1"
	docs.SwaggerInfo.Schemes = []string{"http", "https"}

	// Initialize services
	db := database.InitDatabase()
	defer db.Close()

	redisClient := database.InitRedis()
	if redisClient != nil {
		defer redisClient.Close()
	}

	cfg := config.LoadWorkflowConfig()

	blobStore, err := storage.NewDiskBlobStore(cfg.ProofDir)
	if err != nil {
		log.Fatalf("Failed to initialize proof storage: %v", err)
	}

	var ranks services.RankSource
	if cfg.RankServiceURL != "" {
		ranks = services.NewHTTPRankSource(cfg.RankServiceURL, cfg.RankTimeout)
	}

	auditService := services.NewAuditService(db)
	ledgerService := services.NewLedgerService(db)
	sink := notify.NewRedisSink(redisClient)
	waiverService := services.NewWaiverService(ranks)
	waitlistService := services.NewWaitlistService(db, cfg, auditService, sink)
	registrationService := services.NewRegistrationService(db, cfg, auditService, waiverService, waitlistService, sink)
	paymentService := services.NewPaymentService(db, cfg, auditService, ledgerService, registrationService, sink)
	walletService := services.NewWalletService(db, cfg, auditService, ledgerService)
	eventService := services.NewEventService(db, auditService)
	proofService := services.NewProofService(cfg, blobStore)
	channelService := services.NewChannelService()
	qrService := services.NewQRService(db, cfg, redisClient)
	qrHandler := handlers.NewQRHandler(qrService)
	draftService := services.NewDraftService(redisClient, cfg, registrationService)
	draftHandler := handlers.NewDraftHandler(draftService)

	scheduler := jobs.NewScheduler(cfg, waitlistService)
	scheduler.Start()
	defer scheduler.Stop()

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(mW.SecurityHeaders)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(60 * time.Second))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Access-Control-Allow-Origin"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
	})

	// Prometheus metrics
	r.Handle("/metrics", promhttp.Handler())

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("http://localhost:8080/swagger/doc.json"),
	))

	// Static file server for payment channel logos
	r.Handle("/static/channel-logos/*", http.StripPrefix("/static/channel-logos/",
		mW.StaticFileServer("./static/channel-logos")))

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public endpoints (no auth required)
		r.Get("/events", eventService.ListEvents)
		r.Get("/events/{eventId}", eventService.GetEvent)
		r.Get("/events/{eventId}/capacity", eventService.GetEventCapacity)
		r.Get("/events/{eventId}/waitlist", waitlistService.GetEventWaitlist)
		r.Get("/channels", channelService.GetAllChannels)

		// Protected endpoints (auth required)
		r.Group(func(r chi.Router) {
			r.Use(mW.AuthMiddleware)

			// Registration endpoints
			r.Post("/registrations", registrationService.SubmitRegistration)
			r.Get("/registrations/{registrationId}", registrationService.GetRegistration)
			r.Post("/registrations/{registrationId}/cancel", registrationService.CancelRegistration)
			r.Get("/events/{eventId}/registrations", registrationService.ListEventRegistrations)

			// Draft endpoints
			r.Post("/drafts", draftHandler.CreateDraft)
			r.Get("/drafts/{draftId}", draftHandler.GetDraft)
			r.Patch("/drafts/{draftId}", draftHandler.PatchDraft)
			r.Post("/drafts/{draftId}/submit", draftHandler.SubmitDraft)
			r.Delete("/drafts/{draftId}", draftHandler.DiscardDraft)

			// Payment endpoints
			r.Get("/payments/{paymentId}", paymentService.GetPayment)
			r.Get("/registrations/{registrationId}/payment", paymentService.GetRegistrationPayment)
			r.Post("/payments/{paymentId}/proof", paymentService.SubmitPaymentProof)
			r.Post("/proofs", proofService.UploadProof)
			r.Post("/qr/payments", qrHandler.GeneratePaymentQR)

			// Wallet endpoints
			r.Get("/wallets/{ownerRef}", walletService.GetWallet)
			r.Get("/wallets/{ownerRef}/entries", walletService.GetWalletEntries)

			// Staff endpoints
			r.Group(func(r chi.Router) {
				r.Use(mW.RequireStaff)

				r.Post("/events", eventService.CreateEvent)
				r.Post("/events/{eventId}/archive", eventService.ArchiveEvent)

				r.Post("/registrations/{registrationId}/reject", registrationService.RejectRegistration)
				r.Post("/registrations/{registrationId}/check-in", registrationService.CheckInRegistration)
				r.Post("/registrations/{registrationId}/no-show", registrationService.MarkRegistrationNoShow)
				r.Post("/registrations/{registrationId}/expire-promotion", waitlistService.ExpirePromotion)

				r.Post("/payments/{paymentId}/verify", paymentService.VerifyPayment)
				r.Post("/payments/{paymentId}/reject", paymentService.RejectPayment)
				r.Post("/payments/{paymentId}/refund", paymentService.RefundPayment)
				r.Post("/payments/{paymentId}/waive", paymentService.WaivePayment)
				r.Get("/proofs/{proofId}", proofService.GetProof)
				r.Post("/qr/claim", qrHandler.ClaimPaymentQR)

				r.Post("/wallets", walletService.ProvisionWallet)
				r.Post("/wallets/{ownerRef}/adjust", walletService.AdjustWallet)
				r.Post("/wallets/awards", walletService.AwardBonus)

				r.Get("/audit", auditService.ListAuditRecords)
			})
		})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	// Start server
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on :%s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server stopped")
}
