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

	"github.com/Dosada05/tournament-admin/apiclient"
	"github.com/Dosada05/tournament-admin/config"
	"github.com/Dosada05/tournament-admin/handlers"
	"github.com/Dosada05/tournament-admin/live"
	"github.com/Dosada05/tournament-admin/repositories"
	api "github.com/Dosada05/tournament-admin/routes"
	"github.com/Dosada05/tournament-admin/services"
	"github.com/Dosada05/tournament-admin/storage"
)

const sweepInterval = time.Minute

// @title           Tournament Admin API
// @version         1.0
// @description     Match scoring panel backend for the competition API.

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
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}))
	slog.SetDefault(logger)
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort), slog.String("api_base_url", cfg.APIBaseURL))

	// Клиент API соревнований
	apiClient, err := apiclient.New(apiclient.Config{
		BaseURL:              cfg.APIBaseURL,
		Token:                cfg.APIToken,
		Timeout:              cfg.APITimeout,
		MaxRequestsPerSecond: cfg.APIMaxRPS,
	}, logger)
	if err != nil {
		logger.Error("failed to create competition api client", slog.Any("error", err))
		os.Exit(1)
	}

	// Хранилище бланков (Cloudflare R2); без настроек архив отключён
	var uploader storage.FileUploader
	r2Config := storage.CloudflareR2UploaderConfig{
		AccountID:       cfg.R2AccountID,
		AccessKeyID:     cfg.R2AccessKeyID,
		SecretAccessKey: cfg.R2SecretAccessKey,
		BucketName:      cfg.R2BucketName,
		PublicBaseURL:   cfg.R2PublicBaseURL,
		Endpoint:        cfg.R2Endpoint,
	}
	if r2Config.Enabled() {
		uploader, err = storage.NewCloudflareR2Uploader(context.Background(), r2Config, logger)
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("Cloudflare R2 uploader initialized", slog.String("bucket", cfg.R2BucketName))
	} else {
		logger.Info("scoresheet archive disabled")
	}

	// Инициализация WebSocket Hub
	wsHub := live.NewHub(logger)
	go wsHub.Run()

	// Инициализация репозиториев
	setRepo := repositories.NewHTTPSetRepository(apiClient)
	actionRepo := repositories.NewHTTPActionRepository(apiClient)
	catalogRepo := repositories.NewHTTPCatalogRepository(apiClient)
	rosterRepo := repositories.NewHTTPRosterRepository(apiClient)
	matchRepo := repositories.NewHTTPMatchRepository(apiClient)
	tournamentRepo := repositories.NewHTTPTournamentRepository(apiClient)

	// Инициализация сервисов
	setStore := services.NewSetStore(setRepo)
	actionLog := services.NewActionLog(actionRepo)
	catalogProvider := services.NewCatalogProvider(catalogRepo, logger)
	rosterProvider := services.NewRosterProvider(rosterRepo)
	notifications := services.NewNotificationQueue(cfg.NotificationTTL, wsHub, logger)
	scoresheets := services.NewScoresheetService(setStore, actionLog, catalogProvider, rosterProvider, uploader, logger)
	matchService := services.NewMatchService(matchRepo)
	filterService := services.NewFilterService(tournamentRepo, logger)

	sessions := services.NewSessionManager(services.SessionDeps{
		Sets:      setStore,
		Actions:   actionLog,
		Catalog:   catalogProvider,
		Roster:    rosterProvider,
		Matches:   matchRepo,
		Notifier:  notifications,
		Publisher: wsHub,
		Archiver:  scoresheets,
		Logger:    logger,
		Config: services.SessionConfig{
			CloseDelay: cfg.FinalizeCloseDelay,
		},
	})

	sweeper, err := services.StartSessionSweeper(sessions, sweepInterval, cfg.SessionIdleTimeout, logger)
	if err != nil {
		logger.Error("failed to start session sweeper", slog.Any("error", err))
		os.Exit(1)
	}

	// Инициализация обработчиков HTTP
	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		api.Options{
			JWTSecret:      []byte(cfg.JWTSecretKey),
			AllowedOrigins: cfg.CORSAllowedOrigins,
			Logger:         logger,
		},
		handlers.NewMatchHandler(matchService, filterService),
		handlers.NewFilterHandler(filterService),
		handlers.NewScoringHandler(sessions, matchService, scoresheets),
		handlers.NewNotificationHandler(notifications),
		handlers.NewWebSocketHandler(wsHub, cfg.CORSAllowedOrigins, logger),
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
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

	exitCode := 0
	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			exitCode = 1
		}
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		err := server.Shutdown(shutdownCtx)
		cancel()
		if err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			exitCode = 1
		} else {
			logger.Info("server shutdown complete")
		}
	}

	if err := sweeper.Shutdown(); err != nil {
		logger.Error("failed to stop session sweeper", slog.Any("error", err))
	}
	closed := sessions.CloseAll()
	wsHub.Stop()
	logger.Info("application exited", slog.Int("sessions_closed", closed))
	os.Exit(exitCode)
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}
