package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/devcred/devcred-backend/internal/api"
	"github.com/devcred/devcred-backend/internal/auth"
	"github.com/devcred/devcred-backend/internal/config"
	"github.com/devcred/devcred-backend/internal/database"
	"github.com/devcred/devcred-backend/internal/logger"
	"github.com/devcred/devcred-backend/internal/storage"
	"github.com/devcred/devcred-backend/internal/websocket"
)

func main() {
	cfg, err := config.LoadWithValidation()
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.LogLevel),
	}))
	slog.SetDefault(log)

	log.Info("starting devcred backend")
	cfg.LogConfig(log)

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.Close(db)

	if err := database.Migrate(db); err != nil {
		log.Error("failed to run migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	fileStorage, err := storage.NewLocalStorage(cfg.MediaStoragePath)
	if err != nil {
		log.Error("failed to initialize media storage", slog.String("error", err.Error()))
		os.Exit(1)
	}

	hub := websocket.NewHub(log)
	go hub.Run()

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	e := api.NewRouter(&api.RouterConfig{
		DB:          db,
		FileStorage: fileStorage,
		Hub:         hub,
		Tokens:      tokens,
		Config:      cfg,
		Logger:      log,
		SecLogger:   logger.NewSecurityLogger(),
	})

	go func() {
		addr := fmt.Sprintf(":%d", cfg.APIPort)
		log.Info("http server listening", slog.String("addr", addr))
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Error("http server stopped", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", slog.String("error", err.Error()))
	}

	log.Info("server stopped")
}

func logLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
