package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"go-employee-console/internal/config"
	"go-employee-console/internal/sandbox"
	"go-employee-console/pkg/database"
	"go-employee-console/pkg/jwt"
	"go-employee-console/pkg/logger"
)

func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	zl, err := logger.Init(logger.Config{Level: cfg.LogLevel, Environment: cfg.Env, ServiceName: "sandbox"})
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	// 2. Setup Database
	db, err := database.Connect(cfg.DB)
	if err != nil {
		zl.Fatal("database connection failed", zap.Error(err))
	}
	store := sandbox.NewStore(db)
	if err := store.Migrate(); err != nil {
		zl.Fatal("migration failed", zap.Error(err))
	}

	// 3. Seed default roles, geography, settings and admin account
	if err := store.Seed(context.Background(), zl); err != nil {
		zl.Warn("seeding failed", zap.Error(err))
	}

	tokens := jwt.NewManager(cfg.JWTSecret, cfg.JWTTTL, "employee-sandbox")
	app := sandbox.NewServer(store, tokens, zl).App()

	// 4. Graceful Shutdown
	go func() {
		if err := app.Listen(":" + cfg.SandboxPort); err != nil {
			zl.Panic("listen failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zl.Info("shutting down sandbox")
	if err := app.Shutdown(); err != nil {
		zl.Error("sandbox forced to shutdown", zap.Error(err))
	}
}
