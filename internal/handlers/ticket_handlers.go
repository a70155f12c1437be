package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"restaurant_pos_backend/internal/models"
	"restaurant_pos_backend/internal/repositories"
	"restaurant_pos_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// TicketHandler serves the kitchen-facing read surface. Tickets are
// projections maintained by the order workflow, so there is no write API here
// beyond what the order endpoints already trigger.
type TicketHandler struct {
	ticketRepo repositories.TicketRepository
}

// NewTicketHandler creates a new TicketHandler.
func NewTicketHandler(tr repositories.TicketRepository) *TicketHandler {
	return &TicketHandler{ticketRepo: tr}
}

// GetTickets lists kitchen tickets, optionally filtered by status.
func (h *TicketHandler) GetTickets(c *gin.Context) {
	var status *string
	if s := c.Query("status"); s != "" {
		status = &s
	}

	tickets, err := h.ticketRepo.GetTickets(status)
	if err != nil {
		utils.LogError(err, "GetTickets: Error from ticketRepo")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to retrieve tickets.", "Internal error"))
		return
	}

	if tickets == nil {
		tickets = []models.KitchenTicket{}
	}
	c.JSON(http.StatusOK, tickets)
}

// GetTicketByOrderID fetches the ticket projected from one order.
func (h *TicketHandler) GetTicketByOrderID(c *gin.Context) {
	orderID, err := strconv.ParseInt(c.Param("orderId"), 10, 64)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid order ID format.", err.Error()))
		return
	}

	ticket, err := h.ticketRepo.GetTicketByOrderID(orderID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Ticket not found for order.", err.Error()))
			return
		}
		utils.LogError(err, "GetTicketByOrderID: Error from ticketRepo")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to retrieve ticket.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, ticket)
}
