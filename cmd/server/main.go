package main

import (
	"context"
	"log"

	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/veigarm/pixelfeed/backend/internal/router"
	"github.com/veigarm/pixelfeed/backend/internal/storage"
	"github.com/veigarm/pixelfeed/backend/pkg/config"
	"github.com/veigarm/pixelfeed/backend/pkg/firebase"
	"github.com/veigarm/pixelfeed/backend/validators"
)

func main() {
	// Load configuration
	cfg := config.Load()

	logger, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize database connections
	db, err := config.InitDB(cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize databases", zap.Error(err))
	}
	defer db.CloseDB()

	ctx := context.Background()

	// Initialize blob storage
	blobs, err := storage.NewMinIOStore(ctx, cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL)
	if err != nil {
		logger.Fatal("failed to initialize blob storage", zap.Error(err))
	}

	// Initialize Firebase when credentials are configured; otherwise the
	// API falls back to local JWT auth.
	var authClient *auth.Client
	if cfg.FirebaseCredentialsPath != "" {
		firebaseApp, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath)
		if err != nil {
			logger.Fatal("failed to initialize Firebase", zap.Error(err))
		}
		authClient = firebaseApp.AuthClient
	}

	// Create Echo instance
	e := echo.New()

	// Setup global middleware
	router.SetupMiddleware(e)

	// Setup routes and dependencies
	if err := router.SetupRoutes(e, db.Postgres, db.Mongo, blobs, authClient, cfg.JWTSecret, cfg.MongoDBName, logger); err != nil {
		logger.Fatal("failed to set up routes", zap.Error(err))
	}

	// Validator
	e.Validator = validators.NewValidator()

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
