package services

import (
	"restaurant_pos_backend/internal/models"
	"restaurant_pos_backend/internal/repositories"
	"restaurant_pos_backend/pkg/utils"
)

// TicketService keeps the kitchen ticket mirror eventually consistent with
// its order. Every method is best-effort: the order record is the system of
// record, so failures here are logged and swallowed, never surfaced to the
// originating order operation. A later successful sync re-projects the full
// collections, so a missed update heals on the next mutation.
type TicketService interface {
	CreateForOrder(order *models.Order)
	SyncItems(order *models.Order)
	SyncItemStatus(order *models.Order, extra bool, index int)
	SetStatusForOrder(orderID int64, status string)
	SetTableForOrder(orderID int64, tableNumber string)
}

type ticketService struct {
	ticketRepo repositories.TicketRepository
	db         repositories.SQLExecutor
}

// NewTicketService creates a new instance of TicketService.
func NewTicketService(ticketRepo repositories.TicketRepository, db repositories.SQLExecutor) TicketService {
	return &ticketService{ticketRepo: ticketRepo, db: db}
}

// projectItem maps a line item to its kitchen-facing shape, dropping pricing.
func projectItem(item models.LineItem) models.TicketItem {
	return models.TicketItem{
		MenuItemID:     item.MenuItemID,
		Name:           item.Name,
		Quantity:       item.Quantity,
		Variation:      item.Variation,
		Addons:         item.Addons,
		Status:         item.Status,
		TimeToPrepare:  item.TimeToPrepare,
		StartedAt:      item.StartedAt,
		ReadyAt:        item.ReadyAt,
		ActualPrepTime: item.ActualPrepTime,
	}
}

func projectItems(items []models.LineItem) []models.TicketItem {
	projected := make([]models.TicketItem, 0, len(items))
	for _, item := range items {
		projected = append(projected, projectItem(item))
	}
	return projected
}

func (s *ticketService) CreateForOrder(order *models.Order) {
	ticket := &models.KitchenTicket{
		OrderID:      order.ID,
		OrderNumber:  order.OrderNumber,
		OrderType:    models.TicketOrderTypeRestaurant,
		TableNumber:  order.TableNumber,
		CustomerName: order.CustomerName,
		Items:        projectItems(order.Items),
		ExtraItems:   projectItems(order.ExtraItems),
		Status:       models.OrderStatusPending,
		Priority:     order.Priority,
	}
	if _, err := s.ticketRepo.CreateTicket(s.db, ticket); err != nil {
		s.warn("Kitchen ticket creation failed", order.ID, err)
	}
}

// SyncItems re-projects both item collections wholesale. Index ordering in
// the ticket mirrors the order's item ordering by construction.
func (s *ticketService) SyncItems(order *models.Order) {
	ticket := &models.KitchenTicket{
		OrderID:    order.ID,
		Items:      projectItems(order.Items),
		ExtraItems: projectItems(order.ExtraItems),
	}
	if err := s.ticketRepo.UpdateTicketItems(s.db, ticket); err != nil {
		s.warn("Kitchen ticket item sync failed", order.ID, err)
	}
}

// SyncItemStatus propagates a single changed entry, matched positionally by
// index within the addressed collection. An index mismatch against the stored
// ticket is logged, not surfaced.
func (s *ticketService) SyncItemStatus(order *models.Order, extra bool, index int) {
	ticket, err := s.ticketRepo.GetTicketByOrderID(order.ID)
	if err != nil {
		s.warn("Kitchen ticket lookup for item sync failed", order.ID, err)
		return
	}

	source := order.Items
	target := ticket.Items
	if extra {
		source = order.ExtraItems
		target = ticket.ExtraItems
	}
	if index < 0 || index >= len(source) || index >= len(target) {
		utils.LogWarn("Kitchen ticket item index mismatch", map[string]interface{}{
			"order_id": order.ID, "index": index, "extra": extra,
		})
		return
	}
	target[index] = projectItem(source[index])

	if err := s.ticketRepo.UpdateTicketItems(s.db, ticket); err != nil {
		s.warn("Kitchen ticket item sync failed", order.ID, err)
	}
}

func (s *ticketService) SetStatusForOrder(orderID int64, status string) {
	if _, err := s.ticketRepo.UpdateTicketStatusByOrder(s.db, orderID, status); err != nil {
		s.warn("Kitchen ticket status sync failed", orderID, err)
	}
}

func (s *ticketService) SetTableForOrder(orderID int64, tableNumber string) {
	if _, err := s.ticketRepo.UpdateTicketTableByOrder(s.db, orderID, tableNumber); err != nil {
		s.warn("Kitchen ticket table sync failed", orderID, err)
	}
}

func (s *ticketService) warn(message string, orderID int64, err error) {
	utils.LogWarn(message, map[string]interface{}{"order_id": orderID, "error": err.Error()})
}
