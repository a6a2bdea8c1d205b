package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/garyjia/upload-gatekeeper/internal/api"
	"github.com/garyjia/upload-gatekeeper/internal/config"
	"github.com/garyjia/upload-gatekeeper/internal/repository"
	"github.com/garyjia/upload-gatekeeper/internal/storage"
	"github.com/garyjia/upload-gatekeeper/internal/upload"
	"github.com/garyjia/upload-gatekeeper/pkg/database"
	"github.com/garyjia/upload-gatekeeper/pkg/utils"
)

func main() {
	// Load configuration
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting Upload Gatekeeper",
		zap.String("storage_backend", cfg.Storage.Backend),
		zap.Int("port", cfg.Server.Port))

	// Initialize audit database
	db, err := database.New(database.Config{
		Path:            cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	if err := db.InitSchema(); err != nil {
		logger.Fatal("Failed to initialize database schema", zap.Error(err))
	}

	// Initialize the temporary-object store
	var store upload.TempObjectChecker
	switch cfg.Storage.Backend {
	case config.BackendGCS:
		gcsStore, err := storage.NewGCSStorage(context.Background(),
			cfg.Storage.Bucket, cfg.Storage.CredentialsFile, logger)
		if err != nil {
			logger.Fatal("Failed to initialize GCS storage", zap.Error(err))
		}
		defer gcsStore.Close()
		store = gcsStore
	default:
		if err := os.MkdirAll(cfg.Storage.BaseDir, 0755); err != nil {
			logger.Fatal("Failed to create storage directory", zap.Error(err))
		}
		store = storage.NewLocalFileStorage(cfg.Storage.BaseDir, logger)
	}

	// Wire the validation core and its serving surface
	validator := upload.NewValidator(store, logger)
	auditRepo := repository.NewValidationAuditRepository(db.DB, logger)
	handler := api.NewHandler(validator, auditRepo, logger)

	server := api.NewServer(api.ServerConfig{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, handler, logger)

	// Start server in a goroutine
	go func() {
		if err := server.Start(); err != nil {
			logger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
