package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ctchen222/tictactoe-solo/internal/config"
	"ctchen222/tictactoe-solo/internal/db"
	"ctchen222/tictactoe-solo/internal/events"
	"ctchen222/tictactoe-solo/internal/game"
	"ctchen222/tictactoe-solo/internal/hub"
	"ctchen222/tictactoe-solo/internal/logger"
	"ctchen222/tictactoe-solo/internal/server"
	"ctchen222/tictactoe-solo/internal/session"
	"ctchen222/tictactoe-solo/internal/telemetry"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize telemetry
	shutdown, err := telemetry.InitOtel(ctx, cfg.Telemetry)
	if err != nil {
		log.Fatalf("failed to initialize telemetry: %v", err)
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			log.Printf("Error shutting down telemetry: %v", err)
		}
	}()

	if err := logger.Init(cfg.LogLevel); err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}

	// Session events go through redis when enabled so watchers on other
	// replicas see them, otherwise they stay in process.
	var bus events.Bus = events.NewLocalBus()
	if cfg.Redis.Enabled {
		rdb, err := db.NewRedisClient(ctx, cfg.Redis.Addr)
		if err != nil {
			log.Fatalf("failed to initialize redis: %v", err)
		}
		defer rdb.Close()
		bus = events.NewRedisBus(rdb)
	}

	defaultMode, err := session.ParseMode(cfg.Game.DefaultMode)
	if err != nil {
		log.Fatalf("invalid default mode: %v", err)
	}

	// Create hub
	h := hub.NewHub(hub.Options{
		AutomatedMark: game.PlayerMark(cfg.Game.BotMark),
		BotDelay:      cfg.Game.BotDelay,
		SessionTTL:    cfg.Game.SessionTTL,
		ReapInterval:  cfg.Game.ReapInterval,
	}, bus)
	hubDone := make(chan struct{})
	go func() {
		defer close(hubDone)
		h.Run(ctx)
	}()

	gin.SetMode(gin.ReleaseMode)
	srv := server.NewServer(h, bus, server.Options{
		ServiceName: cfg.Telemetry.ServiceName,
		DefaultMode: defaultMode,
	})

	httpServer := &http.Server{
		Addr:    cfg.HTTP.Addr,
		Handler: srv.Engine(),
	}

	go func() {
		slog.Info("http server started", "http.addr", cfg.HTTP.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("ListenAndServe: %v", err)
		}
	}()

	<-ctx.Done()

	slog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}
	<-hubDone

	slog.Info("Server exiting")
}
