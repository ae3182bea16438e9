package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"

	"github.com/goolstar/goolstar-api/brackets"
	"github.com/goolstar/goolstar-api/config"
	"github.com/goolstar/goolstar-api/db"
	"github.com/goolstar/goolstar-api/handlers"
	"github.com/goolstar/goolstar-api/live"
	"github.com/goolstar/goolstar-api/middleware"
	"github.com/goolstar/goolstar-api/repositories"
	api "github.com/goolstar/goolstar-api/routes"
	"github.com/goolstar/goolstar-api/services"
	"github.com/goolstar/goolstar-api/storage"
)

const schedulerInterval = 30 * time.Second

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	uploader, err := storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
		AccountID:       cfg.R2AccountID,
		AccessKeyID:     cfg.R2AccessKeyID,
		SecretAccessKey: cfg.R2SecretAccessKey,
		BucketName:      cfg.R2BucketName,
		PublicBaseURL:   cfg.R2PublicBaseURL,
	})
	if err != nil {
		logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("Cloudflare R2 uploader initialized")

	hub := live.NewHub(logger)
	go hub.Run()
	logger.Info("WebSocket hub started")

	userRepo := repositories.NewPostgresUserRepository(dbConn)
	categoryRepo := repositories.NewPostgresCategoryRepository(dbConn)
	tournamentRepo := repositories.NewPostgresTournamentRepository(dbConn)
	teamRepo := repositories.NewPostgresTeamRepository(dbConn)
	playerRepo := repositories.NewPostgresPlayerRepository(dbConn)
	refereeRepo := repositories.NewPostgresRefereeRepository(dbConn)
	matchRepo := repositories.NewPostgresMatchRepository(dbConn)
	goalRepo := repositories.NewPostgresGoalRepository(dbConn)
	cardRepo := repositories.NewPostgresCardRepository(dbConn)
	lineupRepo := repositories.NewPostgresLineupRepository(dbConn)
	standingRepo := repositories.NewPostgresStandingRepository(dbConn)
	phaseRepo := repositories.NewPostgresPhaseRepository(dbConn)
	transactionRepo := repositories.NewPostgresTransactionRepository(dbConn)
	logger.Info("repositories initialized")

	authService := services.NewAuthService(userRepo, cfg.JWTSecretKey)
	categoryService := services.NewCategoryService(categoryRepo, cfg.Rules, uploader)
	tournamentService := services.NewTournamentService(
		dbConn,
		tournamentRepo,
		categoryRepo,
		teamRepo,
		matchRepo,
		cardRepo,
		goalRepo,
		uploader,
		logger,
	)
	teamService := services.NewTeamService(teamRepo, tournamentRepo, playerRepo, uploader)
	playerService := services.NewPlayerService(
		playerRepo,
		teamRepo,
		cardRepo,
		matchRepo,
		categoryRepo,
		cfg.Rules,
		uploader,
	)
	refereeService := services.NewRefereeService(refereeRepo)
	matchService := services.NewMatchService(
		dbConn,
		matchRepo,
		teamRepo,
		playerRepo,
		goalRepo,
		cardRepo,
		lineupRepo,
		standingRepo,
		phaseRepo,
		tournamentRepo,
		categoryRepo,
		transactionRepo,
		cfg.Rules,
		hub,
		logger,
	)
	standingService := services.NewStandingService(
		tournamentRepo,
		teamRepo,
		matchRepo,
		cardRepo,
		categoryRepo,
		standingRepo,
		phaseRepo,
		cfg.Rules,
	)
	bracketService := services.NewBracketService(
		dbConn,
		tournamentRepo,
		teamRepo,
		matchRepo,
		phaseRepo,
		standingService,
		brackets.NewSeededGenerator(),
		hub,
		logger,
	)
	financeService := services.NewFinanceService(
		dbConn,
		transactionRepo,
		cardRepo,
		matchRepo,
		playerRepo,
		teamRepo,
		logger,
	)
	logger.Info("services initialized")

	// Bracket advancement scheduler: any knockout tournament whose
	// current phase is fully played gets its next phase generated.
	go func() {
		ticker := time.NewTicker(schedulerInterval)
		defer ticker.Stop()
		logger.Info("bracket advancement scheduler started", slog.Duration("interval", schedulerInterval))

		if err := bracketService.AdvanceReadyBrackets(context.Background()); err != nil {
			logger.Error("scheduler: initial bracket sweep failed", slog.Any("error", err))
		}
		for range ticker.C {
			if err := bracketService.AdvanceReadyBrackets(context.Background()); err != nil {
				logger.Error("scheduler: bracket sweep failed", slog.Any("error", err))
			}
		}
	}()

	authenticator := middleware.NewAuthenticator(cfg.JWTSecretKey)

	routeHandlers := api.Handlers{
		Auth:       handlers.NewAuthHandler(authService),
		Category:   handlers.NewCategoryHandler(categoryService),
		Tournament: handlers.NewTournamentHandler(tournamentService),
		Team:       handlers.NewTeamHandler(teamService),
		Player:     handlers.NewPlayerHandler(playerService),
		Match:      handlers.NewMatchHandler(matchService),
		Standing:   handlers.NewStandingHandler(standingService),
		Bracket:    handlers.NewBracketHandler(bracketService),
		Finance:    handlers.NewFinanceHandler(financeService),
		Referee:    handlers.NewRefereeHandler(refereeService),
		WebSocket:  handlers.NewWebSocketHandler(hub, tournamentService),
	}

	router := chi.NewRouter()
	api.SetupRoutes(router, routeHandlers, authenticator)
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
	logger.Info("application exited")
}
