package router

import (
	"context"
	"log"
	"net/http"

	"github.com/blogspace/server/internal/handlers"
	"github.com/blogspace/server/internal/middleware"
	"github.com/blogspace/server/internal/repositories"
	"github.com/blogspace/server/pkg/config"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"go.mongodb.org/mongo-driver/mongo"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Logger())
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	log.Println("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, mgClient *mongo.Client, cfg *config.Config, signer handlers.UploadURLSigner) {
	db := mgClient.Database(cfg.MongoDB)

	// --- Initialize Repositories ---
	userRepo := repositories.NewMongoUserRepository(db)
	blogRepo := repositories.NewMongoBlogRepository(db)
	commentRepo := repositories.NewMongoCommentRepository(db)
	notificationRepo := repositories.NewMongoNotificationRepository(db)

	// Unique indexes back the signup de-duplication and the slug contract
	ctx := context.Background()
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		log.Fatalf("Failed to create user indexes: %v", err)
	}
	if err := blogRepo.EnsureIndexes(ctx); err != nil {
		log.Fatalf("Failed to create blog indexes: %v", err)
	}
	log.Println("MongoDB indexes ensured for all collections.")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"message": "Hello, World!"})
	})

	// Bearer-token gate shared by every protected route
	auth := middleware.JWTAuth(userRepo, cfg.JWTSecret)

	authHandler := handlers.NewAuthHandler(userRepo, cfg.JWTSecret)
	authHandler.RegisterAuthRoutes(e)
	log.Println("Auth routes configured.")

	userHandler := handlers.NewUserHandler(userRepo)
	userHandler.RegisterPublicRoutes(e)
	userHandler.RegisterProtectedRoutes(e, auth)
	log.Println("User profile routes configured.")

	blogHandler := handlers.NewBlogHandler(blogRepo, userRepo, commentRepo, notificationRepo)
	blogHandler.RegisterPublicRoutes(e)
	blogHandler.RegisterProtectedRoutes(e, auth)
	log.Println("Blog routes configured.")

	likeHandler := handlers.NewLikeHandler(blogRepo, notificationRepo)
	likeHandler.RegisterLikeRoutes(e, auth)
	log.Println("Like routes configured.")

	commentHandler := handlers.NewCommentHandler(commentRepo, blogRepo, userRepo, notificationRepo)
	commentHandler.RegisterCommentRoutes(e, auth)
	log.Println("Comment routes configured.")

	notificationHandler := handlers.NewNotificationHandler(notificationRepo, blogRepo, userRepo, commentRepo)
	notificationHandler.RegisterNotificationRoutes(e, auth)
	log.Println("Notification routes configured.")

	uploadHandler := handlers.NewUploadHandler(signer)
	uploadHandler.RegisterUploadRoutes(e)
	log.Println("Upload routes configured.")

	log.Println("All routes configured.")
}
