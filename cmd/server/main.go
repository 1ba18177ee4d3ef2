package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/weiwei-tsao/coffeenote/apps/api/internal/business/journal"
	"github.com/weiwei-tsao/coffeenote/apps/api/internal/live"
	"github.com/weiwei-tsao/coffeenote/apps/api/internal/platform/config"
	firestoreclient "github.com/weiwei-tsao/coffeenote/apps/api/internal/platform/firestore"
	apirouter "github.com/weiwei-tsao/coffeenote/apps/api/internal/platform/http"
	"github.com/weiwei-tsao/coffeenote/apps/api/internal/repository"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_ = godotenv.Load(".env.local", ".env")

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)
	gin.SetMode(cfg.GinMode)

	firestoreClient, credsSource, err := firestoreclient.New(ctx, cfg)
	if err != nil {
		logger.Error("firestore init", "error", err)
		os.Exit(1)
	}
	defer firestoreClient.Close()

	if err := firestoreclient.Ping(ctx, firestoreClient); err != nil {
		logger.Error("firestore ping", "error", err)
		os.Exit(1)
	}
	logger.Info("connected to Firestore", "project", cfg.FirebaseProjectID, "credentials", credsSource)

	visitRepo := repository.NewVisitRepository(firestoreClient, logger)
	wishlistRepo := repository.NewWishlistRepository(firestoreClient, logger)
	profileRepo := repository.NewProfileRepository(firestoreClient)

	svc := journal.NewService(visitRepo, wishlistRepo, profileRepo, logger)
	feeds := live.NewRegistry()

	router := apirouter.NewRouter(svc, apirouter.Options{
		Logger:    logger,
		JWTSecret: cfg.AuthJWTSecret,
		Feeds:     feeds,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           apirouter.NewCORSHandler(cfg.AllowedOrigins)(router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()
	logger.Info("server listening", "port", cfg.Port)

	<-ctx.Done()
	stop()

	// Live streams never finish on their own; end them so Shutdown can drain.
	logger.Info("closing live feeds", "open", feeds.Len())
	feeds.StopAll()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}
	logger.Info("server exited")
}

func newLogger(cfg config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	if cfg.LogJSON {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
