package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"fila-escolar/internal/adapters/http/middleware"
	"fila-escolar/internal/adapters/http/routes"
	"fila-escolar/internal/adapters/persistence/models"
	"fila-escolar/internal/adapters/persistence/repositories"
	"fila-escolar/internal/config"
	"fila-escolar/internal/core/services"

	"github.com/gofiber/fiber/v2"

	_ "fila-escolar/docs" // Swagger docs
)

// @title Fila Escolar API
// @version 1.0
// @description School front-desk queue API: students take a ticket, staff call the next student, displays follow along.

// @license.name MIT

// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the session token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer config.CloseDatabase()

	// Auto migrate
	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("❌ Failed to auto migrate: %v", err)
	}
	log.Println("✅ Database migration completed")

	// Seed demo staff (dev only)
	if err := config.SeedStaff(db, cfg); err != nil {
		log.Printf("⚠️ Warning: Failed to seed staff: %v", err)
	}

	// Display notification hub
	notifyService := services.NewDisplayNotifyService()

	// Midnight rollover job
	rolloverService := services.NewRolloverService(repositories.NewTicketRepository(db), notifyService)
	rolloverService.Start()
	defer rolloverService.Stop()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Fila Escolar API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes
	routes.Setup(app, db, cfg, notifyService)

	// Graceful shutdown
	go gracefulShutdown(app)

	// Start server
	log.Printf("🚀 Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("❌ Error during shutdown: %v", err)
	}
	log.Println("✅ Server stopped gracefully")
}
