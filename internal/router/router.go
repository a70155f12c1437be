package router

import (
	"database/sql"

	"restaurant_pos_backend/internal/handlers"
	"restaurant_pos_backend/internal/middleware"
	"restaurant_pos_backend/internal/repositories"
	"restaurant_pos_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// Setup initializes the routing for the application.
func Setup(engine *gin.Engine, db *sql.DB) {
	// Initialize Repositories
	authRepo := repositories.NewAuthRepository(db)
	orderRepo := repositories.NewOrderRepository(db)
	ticketRepo := repositories.NewTicketRepository(db)
	tableRepo := repositories.NewTableRepository(db)
	catalogRepo := repositories.NewCatalogRepository(db)
	auditRepo := repositories.NewAuditRepository(db)
	bookingRepo := repositories.NewBookingRepository(db)

	// Initialize Services
	authService := services.NewAuthService(authRepo, db)
	pricingService := services.NewPricingService(catalogRepo)
	ticketService := services.NewTicketService(ticketRepo, db)
	tableService := services.NewTableService(tableRepo, db)
	auditService := services.NewAuditService(auditRepo, db)
	orderService := services.NewOrderService(orderRepo, bookingRepo, pricingService, ticketService, tableService, auditService, db)

	// Initialize Handlers
	authHandler := handlers.NewAuthHandler(authService)
	orderHandler := handlers.NewOrderHandler(orderService)
	ticketHandler := handlers.NewTicketHandler(ticketRepo)

	apiV1 := engine.Group("/api/v1")

	// Public authentication routes
	SetupPublicAuthRoutes(apiV1.Group("/auth"), authHandler)

	// Authenticated routes
	authenticated := apiV1.Group("")
	authenticated.Use(middleware.AuthMiddleware())
	{
		SetupAuthenticatedAuthRoutes(authenticated.Group("/auth"), authHandler)

		SetupOrderRoutes(authenticated, orderHandler)
		SetupTicketRoutes(authenticated, ticketHandler)

		// Table and catalog routes still use the older direct handlers.
		SetupRestaurantTableRoutes(authenticated)
		SetupCatalogRoutes(authenticated)
	}
}

// SetupPublicAuthRoutes registers the routes usable without a token.
func SetupPublicAuthRoutes(group *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	group.POST("/register", authHandler.RegisterUser)
	group.POST("/login", authHandler.LoginUser)
}

// SetupAuthenticatedAuthRoutes registers the token-bound auth routes.
func SetupAuthenticatedAuthRoutes(group *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	group.GET("/me", authHandler.GetCurrentUser)
}
