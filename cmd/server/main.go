package main

import (
	"Neighborly/internal/auth"
	"Neighborly/internal/config"
	"Neighborly/internal/handlers"
	"Neighborly/internal/logger"
	"Neighborly/internal/middleware"
	"Neighborly/internal/repo"
	"Neighborly/internal/service"
	"Neighborly/internal/storage"
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.NewConfig()

	sugar, flush := logger.New(logger.Options{Level: cfg.LogLevel, JSON: cfg.LogJSON, File: cfg.LogFile})
	defer flush()
	middleware.SetLogger(sugar)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gormDB, err := repo.InitDB(cfg.DatabaseDSN)
	if err != nil {
		sugar.Fatalw("failed to initialize database", "error", err)
	}

	images, err := storage.NewImageStore(cfg.UploadDir, handlers.UploadsPrefix)
	if err != nil {
		sugar.Fatalw("failed to prepare upload dir", "dir", cfg.UploadDir, "error", err)
	}

	userRepo := repo.NewUserRepository(gormDB)
	itemRepo := repo.NewItemRepository(gormDB)

	h := handlers.NewHandler(handlers.Services{
		Users:           service.NewUserService(userRepo, auth.NewTokens(cfg.AuthSecret)),
		Listings:        service.NewListingService(itemRepo, sugar),
		Ratings:         service.NewRatingService(itemRepo, userRepo, sugar),
		Recommendations: service.NewRecommendationService(userRepo, itemRepo),
		Dashboard:       service.NewDashboardService(userRepo),
	}, images, sugar, cfg)

	srv := &http.Server{
		Addr:              cfg.BaseURL,
		Handler:           h.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	sugar.Infow("Starting server", "addr", srv.Addr)
	sugar.Infow("Config",
		"BaseURL", cfg.BaseURL,
		"EnableHTTPS", cfg.EnableHTTPS,
		"UploadDir", cfg.UploadDir,
		"LogLevel", cfg.LogLevel,
	)
	if cfg.AuthSecret == config.DefaultAuthSecret {
		sugar.Warnw("AUTH_SECRET is not set, using the development secret")
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			sugar.Fatalw("Server failed", "error", err)
		}
	case <-ctx.Done():
		sugar.Infow("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			sugar.Errorw("Graceful shutdown failed", "error", err)
		}
	}

	if sqlDB, err := gormDB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
