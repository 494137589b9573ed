package routes

import (
	"time"

	"fila-escolar/internal/adapters/http/handlers"
	"fila-escolar/internal/adapters/http/middleware"
	"fila-escolar/internal/adapters/persistence/repositories"
	"fila-escolar/internal/config"
	"fila-escolar/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config, notifyService *services.DisplayNotifyService) {
	// Repositories
	ticketRepo := repositories.NewTicketRepository(db)
	staffRepo := repositories.NewStaffRepository(db)

	// Services
	queueService := services.NewQueueService(ticketRepo, staffRepo, notifyService)
	staffService := services.NewStaffService(staffRepo, ticketRepo)
	sessionService := services.NewSessionService(staffRepo, cfg)

	// Handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(sessionService, cfg)
	queueHandler := handlers.NewQueueHandler(queueService)
	displayHandler := handlers.NewDisplayHandler(queueService, notifyService)
	staffHandler := handlers.NewStaffHandler(staffService, queueService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	apiV1 := app.Group("/api/v1")

	// Auth routes
	authRoutes := apiV1.Group("/auth")
	authRoutes.Post("/login", middleware.AuthRateLimiter(), authHandler.Login)
	authRoutes.Post("/admin", middleware.AuthRateLimiter(), authHandler.AdminLogin)
	authRoutes.Post("/logout", authHandler.Logout)
	authRoutes.Get("/me", middleware.AuthMiddleware(cfg), authHandler.Me)

	// Public: student ticket request + staff pick list
	apiV1.Post("/tickets", queueHandler.RequestTicket)
	apiV1.Get("/staff", middleware.CacheControl(time.Minute), staffHandler.List)

	// Public: TV display
	displayRoutes := apiV1.Group("/display")
	displayRoutes.Get("/", displayHandler.GetSnapshot)
	displayRoutes.Get("/events", displayHandler.Events)
	apiV1.Get("/history", queueHandler.RecentHistory)

	// Staff: waiting FIFO + call
	queueRoutes := apiV1.Group("/queue")
	queueRoutes.Use(middleware.AuthMiddleware(cfg))
	queueRoutes.Use(middleware.StaffOnly())
	queueRoutes.Get("/waiting", queueHandler.ListWaiting)
	queueRoutes.Post("/call", queueHandler.CallTicket)

	// Admin: staff directory management
	adminRoutes := apiV1.Group("/admin")
	adminRoutes.Use(middleware.AuthMiddleware(cfg))
	adminRoutes.Use(middleware.AdminOnly())
	adminRoutes.Post("/staff", staffHandler.Create)
	adminRoutes.Delete("/staff/:id", staffHandler.Delete)
	adminRoutes.Get("/staff/:id/tickets", staffHandler.ListTickets)
	adminRoutes.Get("/dashboard", staffHandler.Dashboard)
}
