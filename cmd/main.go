package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Dosada05/swiss-tournament/brackets"
	"github.com/Dosada05/swiss-tournament/config"
	"github.com/Dosada05/swiss-tournament/db"
	"github.com/Dosada05/swiss-tournament/handlers"
	"github.com/Dosada05/swiss-tournament/logging"
	"github.com/Dosada05/swiss-tournament/matching"
	"github.com/Dosada05/swiss-tournament/metrics"
	"github.com/Dosada05/swiss-tournament/repositories"
	api "github.com/Dosada05/swiss-tournament/routes"
	"github.com/Dosada05/swiss-tournament/services"
	"github.com/Dosada05/swiss-tournament/storage"
)

// @title Swiss Tournament API
// @version 1.0
// @description Swiss-system pairing engine and tournament bookkeeping.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	// Настройка логгера
	logger := logging.New(os.Stdout, cfg.LogFormat, cfg.LogLevel)
	slog.SetDefault(logger)
	logger.Info("configuration loaded",
		slog.Int("port", cfg.ServerPort),
		slog.String("database_driver", cfg.DatabaseDriver),
		slog.Int("pairing_max_players", cfg.PairingMaxPlayers),
	)

	// Подключение к базе данных (схема применяется при старте)
	dbConn, err := db.Connect(cfg.DatabaseDriver, cfg.DatabaseURL, 5*time.Second)
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

	// Архив раундов в Cloudflare R2 (опционально)
	var archiver storage.RoundArchiver
	if cfg.R2.Enabled() {
		initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		uploader, err := storage.NewCloudflareR2Uploader(initCtx, storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2.AccountID,
			AccessKeyID:     cfg.R2.AccessKeyID,
			SecretAccessKey: cfg.R2.SecretAccessKey,
			BucketName:      cfg.R2.BucketName,
			PublicBaseURL:   cfg.R2.PublicBaseURL,
		})
		cancel()
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		archiver = storage.NewRoundArchiver(uploader)
		logger.Info("Cloudflare R2 round archive enabled", slog.String("bucket", cfg.R2.BucketName))
	} else {
		logger.Info("Cloudflare R2 not configured, round archive disabled")
	}

	// Инициализация WebSocket Hub
	wsHub := brackets.NewHub()
	go wsHub.Run()
	defer wsHub.Stop()
	logger.Info("WebSocket Hub started")

	appMetrics := metrics.New()

	// Инициализация репозиториев
	dialect := repositories.Dialect(cfg.DatabaseDriver)
	playerRepo := repositories.NewPlayerRepository(dbConn, dialect)
	tournamentRepo := repositories.NewTournamentRepository(dbConn, dialect)
	participationRepo := repositories.NewParticipationRepository(dbConn, dialect)
	matchRepo := repositories.NewMatchRepository(dbConn, dialect)
	standingRepo := repositories.NewStandingRepository(dbConn, dialect)
	logger.Info("Repositories initialized")

	pairer := brackets.NewSwissPairer(standingRepo, matchRepo, brackets.SwissConfig{
		MaxPlayers: cfg.PairingMaxPlayers,
		Rand:       rand.New(rand.NewSource(time.Now().UnixNano())),
		Matcher:    matching.Blossom{},
	}, logger)

	// Инициализация сервисов
	authService := services.NewAuthService(cfg.OrganizerUsername, cfg.OrganizerPasswordHash, cfg.JWTSecretKey)
	tournamentService := services.NewTournamentService(
		playerRepo,
		tournamentRepo,
		participationRepo,
		matchRepo,
		standingRepo,
		wsHub,
		appMetrics,
		logger,
	)
	pairingService := services.NewPairingService(
		pairer,
		tournamentRepo,
		standingRepo,
		matchRepo,
		archiver,
		wsHub,
		appMetrics,
		logger,
	)
	dashboardService := services.NewDashboardService(playerRepo, tournamentRepo, matchRepo)
	logger.Info("Services initialized")

	// Настройка маршрутизатора
	router := chi.NewRouter()
	api.SetupRoutes(router, api.Handlers{
		Auth:       handlers.NewAuthHandler(authService),
		Player:     handlers.NewPlayerHandler(tournamentService),
		Tournament: handlers.NewTournamentHandler(tournamentService),
		Match:      handlers.NewMatchHandler(tournamentService),
		Pairing:    handlers.NewPairingHandler(pairingService),
		Dashboard:  handlers.NewDashboardHandler(dashboardService),
		WebSocket:  handlers.NewWebSocketHandler(wsHub, tournamentService, cfg.CORSAllowedOrigins),
		Metrics:    appMetrics.Handler(),
	}, api.Options{
		JWTSecret:      cfg.JWTSecretKey,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		RequestTimeout: 30 * time.Second,
	})
	logger.Info("Routes configured")

	// Настройка и запуск HTTP-сервера
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 35 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	// Ожидание сигнала завершения
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

		logger.Info("shutting down server", slog.Duration("timeout", 15*time.Second))
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
