package router

import (
	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/veigarm/pixelfeed/backend/internal/handlers"
	"github.com/veigarm/pixelfeed/backend/internal/middleware"
	"github.com/veigarm/pixelfeed/backend/internal/models"
	"github.com/veigarm/pixelfeed/backend/internal/repositories"
	"github.com/veigarm/pixelfeed/backend/internal/services"
	"github.com/veigarm/pixelfeed/backend/internal/storage"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
}

// SetupRoutes configures all application routes and injects dependencies.
// firebaseAuthClient may be nil, in which case only JWT auth is available.
func SetupRoutes(e *echo.Echo, pgdb *gorm.DB, mgClient *mongo.Client, blobs storage.BlobStore, firebaseAuthClient *auth.Client, jwtSecret, mongoDBName string, log *zap.Logger) error {
	if err := pgdb.AutoMigrate(&models.Profile{}); err != nil {
		return err
	}
	log.Info("postgres migrations completed")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Repositories and services ---
	profileRepo := repositories.NewPostgresProfileRepository(pgdb)
	postRepo := repositories.NewMongoPostRepository(mgClient.Database(mongoDBName))

	postService := services.NewPostService(postRepo, profileRepo, log)
	mediaService := services.NewMediaService(postRepo, blobs, log)
	engagementService := services.NewEngagementService(postRepo, log)

	// --- Protected routes ---
	api := e.Group("/api/v1")
	if firebaseAuthClient != nil {
		api.Use(middleware.FirebaseAuthMiddleware(firebaseAuthClient))
		log.Info("firebase authentication middleware applied to /api/v1 group")
	} else {
		api.Use(middleware.JWTAuthMiddleware(jwtSecret))
		log.Info("jwt authentication middleware applied to /api/v1 group")
	}

	profileHandler := handlers.NewProfileHandler(profileRepo)
	profileHandler.RegisterProfileRoutes(api)

	postHandler := handlers.NewPostHandler(postService, mediaService, profileRepo)
	postHandler.RegisterPostRoutes(api)

	mediaHandler := handlers.NewMediaHandler(postService, mediaService, profileRepo)
	mediaHandler.RegisterMediaRoutes(api)

	engagementHandler := handlers.NewEngagementHandler(engagementService, profileRepo)
	engagementHandler.RegisterEngagementRoutes(api)

	log.Info("all routes configured")
	return nil
}
