package router

import (
	"restaurant_pos_backend/internal/handlers"
	"restaurant_pos_backend/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupOrderRoutes sets up the restaurant order routes.
func SetupOrderRoutes(authenticatedGroup *gin.RouterGroup, orderHandler *handlers.OrderHandler) {
	orderRoutes := authenticatedGroup.Group("/orders")
	orderRoutes.Use(middleware.RoleAuthMiddleware("Admin", "Staff"))
	{
		orderRoutes.POST("", orderHandler.CreateOrder)
		orderRoutes.GET("", orderHandler.GetOrders)
		orderRoutes.POST("/link-bookings", orderHandler.LinkOrdersToBookings)
		orderRoutes.GET("/:id", orderHandler.GetOrderByID)
		orderRoutes.PATCH("/:id", orderHandler.UpdateOrder)
		orderRoutes.PATCH("/:id/status", orderHandler.UpdateOrderStatus)
		orderRoutes.POST("/:id/items", orderHandler.AddItems)
		orderRoutes.POST("/:id/extra-items", orderHandler.AddExtraItems)
		orderRoutes.PATCH("/:id/items/:itemRef/status", orderHandler.UpdateItemStatus)
		orderRoutes.PATCH("/:id/extra-items/:itemRef/status", orderHandler.UpdateExtraItemStatus)
		orderRoutes.POST("/:id/payment", orderHandler.ProcessPayment)
		orderRoutes.POST("/:id/transfer-table", orderHandler.TransferTable)
	}
}

// SetupTicketRoutes sets up the kitchen ticket routes.
func SetupTicketRoutes(authenticatedGroup *gin.RouterGroup, ticketHandler *handlers.TicketHandler) {
	ticketRoutes := authenticatedGroup.Group("/tickets")
	ticketRoutes.Use(middleware.RoleAuthMiddleware("Admin", "Staff", "Kitchen"))
	{
		ticketRoutes.GET("", ticketHandler.GetTickets)
		ticketRoutes.GET("/order/:orderId", ticketHandler.GetTicketByOrderID)
	}
}

// SetupRestaurantTableRoutes sets up the dining table routes.
func SetupRestaurantTableRoutes(authenticatedGroup *gin.RouterGroup /*, handler *handlers.TableHandler*/) {
	tableRoutes := authenticatedGroup.Group("/tables")
	tableRoutes.Use(middleware.RoleAuthMiddleware("Admin", "Staff"))
	{
		tableRoutes.POST("", handlers.CreateRestaurantTable)
		tableRoutes.GET("", handlers.GetRestaurantTables)
		tableRoutes.GET("/:tableNumber", handlers.GetRestaurantTableByNumber)
		tableRoutes.PATCH("/:tableNumber/status", handlers.UpdateRestaurantTableStatus)
	}
}

// SetupCatalogRoutes sets up the menu item, variation and addon routes.
func SetupCatalogRoutes(authenticatedGroup *gin.RouterGroup /*, handler *handlers.CatalogHandler*/) {
	menuItemRoutes := authenticatedGroup.Group("/menu-items")
	menuItemRoutes.Use(middleware.RoleAuthMiddleware("Admin", "Staff"))
	{
		menuItemRoutes.POST("", handlers.CreateMenuItem)
		menuItemRoutes.GET("", handlers.GetMenuItems)
		menuItemRoutes.GET("/:id", handlers.GetMenuItemByID)
	}

	variationRoutes := authenticatedGroup.Group("/variations")
	variationRoutes.Use(middleware.RoleAuthMiddleware("Admin", "Staff"))
	{
		variationRoutes.POST("", handlers.CreateVariation)
		variationRoutes.GET("", handlers.GetVariations)
	}

	addonRoutes := authenticatedGroup.Group("/addons")
	addonRoutes.Use(middleware.RoleAuthMiddleware("Admin", "Staff"))
	{
		addonRoutes.POST("", handlers.CreateAddon)
		addonRoutes.GET("", handlers.GetAddons)
	}
}
