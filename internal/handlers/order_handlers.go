package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"restaurant_pos_backend/internal/models"
	"restaurant_pos_backend/internal/repositories"
	"restaurant_pos_backend/internal/services"
	"restaurant_pos_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// OrderHandler holds the order service.
type OrderHandler struct {
	orderService services.OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(os services.OrderService) *OrderHandler {
	return &OrderHandler{orderService: os}
}

// actorFromContext builds the audit actor from the auth middleware's claims.
func actorFromContext(c *gin.Context) *models.Actor {
	userID, exists := c.Get("userID")
	if !exists {
		return nil
	}
	id, ok := userID.(int64)
	if !ok {
		return nil
	}
	return &models.Actor{ID: id, Role: c.GetString("userRole")}
}

// respondOrderError maps order service sentinel errors onto API responses.
func respondOrderError(c *gin.Context, err error, operation string) {
	utils.LogError(err, operation+": Error from orderService")
	switch {
	case errors.Is(err, services.ErrOrderNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Order not found.", err.Error()))
	case errors.Is(err, services.ErrItemNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Order item not found.", err.Error()))
	case errors.Is(err, services.ErrMenuItemNotFound), errors.Is(err, services.ErrVariationNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "One or more catalog references could not be resolved.", err.Error()))
	case errors.Is(err, services.ErrValidation), errors.Is(err, services.ErrInvalidOrderStatus), errors.Is(err, services.ErrInvalidItemStatus):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request.", err.Error()))
	case errors.Is(err, services.ErrOrderAlreadyPaid):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Order is already paid.", err.Error()))
	case errors.Is(err, repositories.ErrQueryTimeout):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusRequestTimeout, utils.ErrCodeTimeout, "Database query timeout. Please try again.", err.Error()))
	default:
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Operation failed.", "Internal error"))
	}
}

func orderIDParam(c *gin.Context) (int64, bool) {
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid order ID format.", err.Error()))
		return 0, false
	}
	return orderID, true
}

// CreateOrder handles the creation of a new order with its items
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req services.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "CreateOrder: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	createdOrder, err := h.orderService.CreateOrder(req, actorFromContext(c))
	if err != nil {
		respondOrderError(c, err, "CreateOrder")
		return
	}
	c.JSON(http.StatusCreated, createdOrder)
}

// GetOrders handles fetching all orders with filters
func (h *OrderHandler) GetOrders(c *gin.Context) {
	var filters models.OrderFilters

	if status := c.Query("status"); status != "" {
		filters.Status = &status
	}
	if tableNumber := c.Query("table_number"); tableNumber != "" {
		filters.TableNumber = &tableNumber
	}
	if date := c.Query("date"); date != "" {
		filters.Date = &date
	}
	if pageStr := c.Query("page"); pageStr != "" {
		page, err := strconv.Atoi(pageStr)
		if err != nil || page <= 0 {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid page format.", "page must be a positive integer"))
			return
		}
		filters.Page = page
	} else {
		filters.Page = 1
	}
	if pageSizeStr := c.Query("page_size"); pageSizeStr != "" {
		pageSize, err := strconv.Atoi(pageSizeStr)
		if err != nil || pageSize <= 0 {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid page_size format.", "page_size must be a positive integer"))
			return
		}
		filters.PageSize = pageSize
	} else {
		filters.PageSize = 10
	}

	orders, totalCount, err := h.orderService.GetOrders(filters)
	if err != nil {
		respondOrderError(c, err, "GetOrders")
		return
	}

	if orders == nil { // Ensure we return an empty list instead of null if no orders found
		orders = []models.Order{}
	}
	c.JSON(http.StatusOK, gin.H{
		"data":      orders,
		"total":     totalCount,
		"page":      filters.Page,
		"page_size": filters.PageSize,
	})
}

// GetOrderByID handles fetching a single order by ID with its items
func (h *OrderHandler) GetOrderByID(c *gin.Context) {
	orderID, ok := orderIDParam(c)
	if !ok {
		return
	}

	order, err := h.orderService.GetOrderByID(orderID)
	if err != nil {
		respondOrderError(c, err, "GetOrderByID")
		return
	}
	c.JSON(http.StatusOK, order)
}

// UpdateOrderStatus handles updating the status of an order
func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	orderID, ok := orderIDParam(c)
	if !ok {
		return
	}

	var req services.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	updatedOrder, err := h.orderService.UpdateOrderStatus(orderID, req, actorFromContext(c))
	if err != nil {
		respondOrderError(c, err, "UpdateOrderStatus")
		return
	}
	c.JSON(http.StatusOK, updatedOrder)
}

// UpdateItemStatus handles a status change for one item, addressed by the
// item's stable id or by a legacy positional index.
func (h *OrderHandler) UpdateItemStatus(c *gin.Context) {
	orderID, ok := orderIDParam(c)
	if !ok {
		return
	}

	var req services.UpdateItemStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	updatedOrder, err := h.orderService.UpdateItemStatus(orderID, c.Param("itemRef"), req)
	if err != nil {
		respondOrderError(c, err, "UpdateItemStatus")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Item status updated successfully", "order": updatedOrder})
}

// UpdateExtraItemStatus handles a status change for one extra item.
func (h *OrderHandler) UpdateExtraItemStatus(c *gin.Context) {
	orderID, ok := orderIDParam(c)
	if !ok {
		return
	}

	var req services.UpdateItemStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	updatedOrder, err := h.orderService.UpdateExtraItemStatus(orderID, c.Param("itemRef"), req)
	if err != nil {
		respondOrderError(c, err, "UpdateExtraItemStatus")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Extra item status updated successfully", "order": updatedOrder})
}

// AddItems appends newly priced items to the order's main collection.
func (h *OrderHandler) AddItems(c *gin.Context) {
	orderID, ok := orderIDParam(c)
	if !ok {
		return
	}

	var req services.AddItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	updatedOrder, err := h.orderService.AddItems(orderID, req, actorFromContext(c))
	if err != nil {
		respondOrderError(c, err, "AddItems")
		return
	}
	c.JSON(http.StatusOK, updatedOrder)
}

// AddExtraItems appends newly priced items to the order's extra collection.
func (h *OrderHandler) AddExtraItems(c *gin.Context) {
	orderID, ok := orderIDParam(c)
	if !ok {
		return
	}

	var req services.AddItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	updatedOrder, err := h.orderService.AddExtraItems(orderID, req, actorFromContext(c))
	if err != nil {
		respondOrderError(c, err, "AddExtraItems")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Extra items added successfully", "order": updatedOrder})
}

// ProcessPayment records the payment event and returns a billing summary.
func (h *OrderHandler) ProcessPayment(c *gin.Context) {
	orderID, ok := orderIDParam(c)
	if !ok {
		return
	}

	var req services.ProcessPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	updatedOrder, billing, err := h.orderService.ProcessPayment(orderID, req, actorFromContext(c))
	if err != nil {
		respondOrderError(c, err, "ProcessPayment")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Payment processed successfully",
		"order":   updatedOrder,
		"billing": billing,
	})
}

// TransferTable moves the order to a new table.
func (h *OrderHandler) TransferTable(c *gin.Context) {
	orderID, ok := orderIDParam(c)
	if !ok {
		return
	}

	var req services.TransferTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	updatedOrder, err := h.orderService.TransferTable(orderID, req, actorFromContext(c))
	if err != nil {
		respondOrderError(c, err, "TransferTable")
		return
	}
	c.JSON(http.StatusOK, updatedOrder)
}

// UpdateOrder handles the legacy partial update over a closed field set.
func (h *OrderHandler) UpdateOrder(c *gin.Context) {
	orderID, ok := orderIDParam(c)
	if !ok {
		return
	}

	var req services.UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	updatedOrder, err := h.orderService.UpdateOrder(orderID, req, actorFromContext(c))
	if err != nil {
		respondOrderError(c, err, "UpdateOrder")
		return
	}
	c.JSON(http.StatusOK, updatedOrder)
}

// LinkOrdersToBookings runs the batch booking linkage pass.
func (h *OrderHandler) LinkOrdersToBookings(c *gin.Context) {
	result, err := h.orderService.LinkOrdersToBookings()
	if err != nil {
		respondOrderError(c, err, "LinkOrdersToBookings")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"message":        "Linked orders to bookings",
		"linked_count":   result.LinkedCount,
		"total_unlinked": result.TotalUnlinked,
	})
}
