package main

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/joho/godotenv"
	_ "go.uber.org/automaxprocs"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-wander/internal/pkg/config"
	"github.com/FACorreiaa/go-wander/internal/server"
	"github.com/FACorreiaa/go-wander/pkg/logger"
)

var version = "dev"

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	if err := logger.Init(level, zap.String("service", "wander"), zap.String("version", version)); err != nil {
		return err
	}
	defer func() { _ = logger.Log.Sync() }()

	otelShutdown, err := server.InitObservability(cfg, version, logger.Log)
	if err != nil {
		return err
	}
	defer func() {
		if err := otelShutdown(context.Background()); err != nil {
			logger.Log.Error("Failed to shutdown OpenTelemetry", zap.Error(err))
		}
	}()

	ctx := context.Background()
	srv, err := server.New(ctx, cfg, logger.Log)
	if err != nil {
		return err
	}
	defer srv.Close()

	_, app := srv.SetupRouter(srv.NewGenerator())

	server.StartPprofServer(cfg.PprofAddr, logger.Log)

	httpServer := srv.HTTPServer()

	done := make(chan bool, 1)
	go server.GracefulShutdown(httpServer, logger.Log, done, app.Close)

	logger.Log.Info("Server starting", zap.String("port", cfg.ServerPort))
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Log.Error("Server error", zap.Error(err))
		return err
	}

	<-done
	logger.Log.Info("Graceful shutdown complete")

	return nil
}
