package main

import (
	"context"
	"log"

	"github.com/labstack/echo/v4"

	"github.com/unilink/backend/internal/router"
	"github.com/unilink/backend/pkg/config"
	"github.com/unilink/backend/pkg/firebase"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database connections
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize databases: %v", err)
	}
	defer db.CloseDB() // Ensure database connections are closed when main exits

	// Initialize Firebase
	ctx := context.Background()
	firebaseApp, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase: %v", err)
	}

	// Create Echo instance
	e := echo.New()

	// Setup global middleware
	router.SetupMiddleware(e)

	// Setup routes and dependencies
	router.SetupRoutes(e, db.Postgres, db.Mongo, firebaseApp.AuthClient, firebaseApp.MessagingClient)

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
