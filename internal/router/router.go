package router

import (
	"log"

	"firebase.google.com/go/v4/auth"
	"firebase.google.com/go/v4/messaging"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"

	"github.com/unilink/backend/internal/events"
	"github.com/unilink/backend/internal/handlers"
	"github.com/unilink/backend/internal/middleware"
	"github.com/unilink/backend/internal/models"
	"github.com/unilink/backend/internal/repositories"
	"github.com/unilink/backend/internal/services"
	"github.com/unilink/backend/internal/ws"
	"github.com/unilink/backend/pkg/firebase"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	log.Println("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, pgdb *gorm.DB, mgClient *mongo.Client, firebaseAuthClient *auth.Client, messagingClient *messaging.Client) {
	// AutoMigrate PostgreSQL models
	err := pgdb.AutoMigrate(
		&models.User{},
		&models.RelationshipEdge{},
		&models.Comment{},
		&models.ReactionRecord{},
		&models.HiddenPost{},
		&models.HiddenUser{},
		&models.Notification{},
	)
	if err != nil {
		log.Fatalf("Failed to auto migrate models: %v", err)
	}
	log.Println("PostgreSQL auto-migrations completed for all models.")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize Repositories ---
	userRepo := repositories.NewPostgresUserRepository(pgdb)
	relationshipRepo := repositories.NewPostgresRelationshipRepository(pgdb)
	reactionRepo := repositories.NewPostgresReactionRepository(pgdb)
	commentRepo := repositories.NewPostgresCommentRepository(pgdb)
	hiddenRepo := repositories.NewPostgresHiddenRepository(pgdb)
	notificationRepo := repositories.NewPostgresNotificationRepository(pgdb)
	postRepo := repositories.NewMongoPostRepository(mgClient.Database("unilink"))

	// --- Event bus and live delivery ---
	bus := events.NewBus()
	hub := ws.NewHub()
	var sink services.PushSink
	if messagingClient != nil {
		sink = firebase.NewPushSender(messagingClient)
	}

	// --- Services ---
	relationshipService := services.NewRelationshipService(relationshipRepo, bus)
	reactionService := services.NewReactionService(reactionRepo, postRepo, commentRepo, bus)
	contentService := services.NewContentService(postRepo, commentRepo, bus)
	feedService := services.NewFeedService(postRepo, relationshipRepo, hiddenRepo, userRepo, reactionRepo)
	suggestionService := services.NewSuggestionService(userRepo, relationshipRepo)
	fanout := services.NewNotificationFanout(bus, notificationRepo, userRepo, relationshipRepo, hub, sink)

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/v1/auth")
	authHandler := handlers.NewAuthHandler(userRepo, firebaseAuthClient)
	authHandler.RegisterAuthRoutes(authGroup)
	log.Println("Auth routes configured.")

	// --- Protected routes (require JWT authentication) ---
	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware())

	userHandler := handlers.NewUserHandler(userRepo)
	userHandler.RegisterProfileRoutes(api)

	relationshipHandler := handlers.NewRelationshipHandler(relationshipService, userRepo)
	relationshipHandler.RegisterRelationshipRoutes(api)

	postHandler := handlers.NewPostHandler(contentService)
	postHandler.RegisterPostRoutes(api)

	commentHandler := handlers.NewCommentHandler(contentService)
	commentHandler.RegisterCommentRoutes(api)

	reactionHandler := handlers.NewReactionHandler(reactionService)
	reactionHandler.RegisterReactionRoutes(api)

	feedHandler := handlers.NewFeedHandler(feedService)
	feedHandler.RegisterFeedRoutes(api)

	suggestionHandler := handlers.NewSuggestionHandler(suggestionService)
	suggestionHandler.RegisterSuggestionRoutes(api)

	notificationHandler := handlers.NewNotificationHandler(fanout, userRepo, hub)
	notificationHandler.RegisterNotificationRoutes(api)

	// The WebSocket stream authenticates with a token query parameter, so it
	// lives outside the JWT header middleware.
	stream := e.Group("/api/v1")
	notificationHandler.RegisterStreamRoute(stream)

	log.Println("All routes configured.")
}
