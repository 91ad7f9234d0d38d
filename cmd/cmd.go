package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lovespace-backend/internal/config"
	"lovespace-backend/internal/handlers"
	"lovespace-backend/internal/middleware"
	"lovespace-backend/internal/repository"
	"lovespace-backend/internal/services"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func Run() {
	// Load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Setup logger
	setupLogger(cfg.Log.Level)

	// Connect to database
	db, err := pgxpool.New(context.Background(), cfg.Database.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	if err := db.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}
	log.Info().Msg("Database connection established")

	// Initialize repositories
	coupleRepo := repository.NewCoupleRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	avatarRepo := repository.NewAvatarRepository(db)
	petRepo := repository.NewPetRepository(db)
	spaceRepo := repository.NewSpaceRepository(db)
	memoryRepo := repository.NewMemoryRepository(db)
	currencyRepo := repository.NewCurrencyRepository(db)
	moodRepo := repository.NewMoodRepository(db)

	// Optional push notifier
	var notifier services.PartnerNotifier
	if cfg.APNS.CertFile != "" {
		apns, err := services.NewAPNSNotifier(
			cfg.APNS.CertFile,
			cfg.APNS.CertPassword,
			cfg.APNS.Topic,
			cfg.APNS.Production,
		)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create APNs notifier")
		}
		notifier = apns
	}

	// Initialize services
	authService := services.NewAuthService(cfg.JWT.Secret)
	coupleService := services.NewCoupleService(coupleRepo, profileRepo, avatarRepo, petRepo, spaceRepo, notifier)
	avatarService := services.NewAvatarService(avatarRepo)
	profileService := services.NewProfileService(profileRepo)
	currencyService := services.NewCurrencyService(currencyRepo)
	moodService := services.NewMoodService(moodRepo, coupleRepo)
	memoryService, err := services.NewMemoryService(
		memoryRepo,
		coupleRepo,
		cfg.AWS.Region,
		cfg.AWS.S3Bucket,
		cfg.AWS.AccessKey,
		cfg.AWS.SecretKey,
		cfg.AWS.Endpoint,
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create memory service")
	}
	hub := services.NewStateHub(coupleService, avatarService, cfg.Pairing.PollInterval)

	// Initialize handlers
	coupleHandler := handlers.NewCoupleHandler(coupleService, hub)
	avatarHandler := handlers.NewAvatarHandler(avatarService, hub)
	profileHandler := handlers.NewProfileHandler(profileService)
	memoryHandler := handlers.NewMemoryHandler(memoryService)
	currencyHandler := handlers.NewCurrencyHandler(currencyService)
	moodHandler := handlers.NewMoodHandler(moodService)
	wsHandler := handlers.NewWebSocketHandler(hub, authService)

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(corsMiddleware)

	// Routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(authService))

			r.Post("/couples/invitations", coupleHandler.CreateInvitation)
			r.Post("/couples/join", coupleHandler.JoinCouple)
			r.Get("/couples/current", coupleHandler.GetCurrentCouple)
			r.Get("/couples/partner", coupleHandler.GetPartner)

			r.Get("/pets/current", coupleHandler.GetPet)
			r.Get("/spaces/current", coupleHandler.GetSpace)

			r.Get("/avatars/me", avatarHandler.GetMyAvatar)
			r.Put("/avatars/me", avatarHandler.UpdateAvatar)

			r.Get("/profiles/me", profileHandler.GetProfile)
			r.Put("/profiles/me", profileHandler.UpsertProfile)
			r.Put("/profiles/me/push-token", profileHandler.UpdatePushToken)

			r.Get("/memories", memoryHandler.ListMemories)
			r.Post("/memories", memoryHandler.CreateMemory)
			r.Post("/memories/{memory_id}/complete", memoryHandler.CompleteMemory)
			r.Post("/memories/{memory_id}/photos", memoryHandler.AttachPhoto)

			r.Get("/currency", currencyHandler.GetBalance)
			r.Post("/currency/daily-bonus", currencyHandler.ClaimDailyBonus)

			r.Get("/moods", moodHandler.ListMoods)
			r.Post("/moods", moodHandler.RecordMood)
		})
	})

	// WebSocket route
	r.Get("/ws", wsHandler.HandleWebSocket)

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("host", cfg.Server.Host).
			Int("port", cfg.Server.Port).
			Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// setupLogger configures zerolog logger
func setupLogger(level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// corsMiddleware handles CORS
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
