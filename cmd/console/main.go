package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"go-employee-console/internal/app"
	"go-employee-console/internal/config"
	"go-employee-console/internal/repository"
	"go-employee-console/internal/ws"
	"go-employee-console/pkg/apiclient"
	"go-employee-console/pkg/database"
	"go-employee-console/pkg/logger"
	"go-employee-console/pkg/metrics"
)

func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// 2. Logger
	zl, err := logger.Init(logger.Config{Level: cfg.LogLevel, Environment: cfg.Env, ServiceName: cfg.AppName})
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()
	zl.Info("starting console", cfg.LogFields()...)

	// 3. Snapshot store
	db, err := database.Connect(cfg.DB)
	if err != nil {
		zl.Fatal("database connection failed", zap.Error(err))
	}
	snapshots := repository.NewSnapshotRepo(db)
	if err := snapshots.Migrate(); err != nil {
		zl.Fatal("snapshot migration failed", zap.Error(err))
	}

	// 4. WebSocket hub
	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	hub := ws.NewHub(zl)
	go hub.Run(ctx)

	// 5. Backend client
	m := metrics.New("employee_console")
	backend := apiclient.New(cfg.APIBaseURL,
		apiclient.WithTimeout(cfg.APITimeout),
		apiclient.WithLogger(zl),
		apiclient.WithObserver(m.ObserveBackend),
	)

	console, err := app.NewConsole(app.Deps{
		Config:    cfg,
		Backend:   backend,
		Snapshots: snapshots,
		Hub:       hub,
		Metrics:   m,
		Log:       zl,
	})
	if err != nil {
		zl.Fatal("console setup failed", zap.Error(err))
	}

	// 6. Graceful Shutdown
	go func() {
		if err := console.Listen(":" + cfg.Port); err != nil {
			zl.Panic("listen failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zl.Info("shutting down console")
	stop()
	if err := console.ShutdownWithTimeout(10 * time.Second); err != nil {
		zl.Error("console forced to shutdown", zap.Error(err))
	}
	zl.Info("console exited")
}
