package services

import (
	"errors"
	"fmt"

	"restaurant_pos_backend/internal/models"
	"restaurant_pos_backend/internal/repositories"

	"github.com/google/uuid"
)

var (
	ErrMenuItemNotFound  = errors.New("menu item not found")
	ErrVariationNotFound = errors.New("variation not found")
)

// Default GST rates, applied when the order does not carry its own.
const (
	DefaultSGSTRate = 2.5
	DefaultCGSTRate = 2.5
)

const defaultPrepTimeMinutes = 15

// OrderItemRequest names a catalog item with optional variation and addon
// selections. The pricing engine resolves it into a priced LineItem.
type OrderItemRequest struct {
	MenuItemID    int64   `json:"menu_item_id" binding:"required"`
	Quantity      int     `json:"quantity" binding:"required,gt=0"`
	VariationID   *int64  `json:"variation_id"`
	AddonIDs      []int64 `json:"addon_ids"`
	TimeToPrepare *int    `json:"time_to_prepare"`
	IsFree        bool    `json:"is_free"`
}

// PricingService is the pure pricing computation over the injected catalog.
//
// Unit price rule: variation price when a variation is selected, else the
// menu item base price, plus the price of every resolved addon. Unknown menu
// items and variations fail the whole operation; unknown addons are silently
// dropped from the selection.
type PricingService interface {
	PriceItems(items []OrderItemRequest) ([]models.LineItem, error)
	Recompute(order *models.Order)
}

type pricingService struct {
	catalogRepo repositories.CatalogRepository
}

// NewPricingService creates a new instance of PricingService.
func NewPricingService(catalogRepo repositories.CatalogRepository) PricingService {
	return &pricingService{catalogRepo: catalogRepo}
}

func (s *pricingService) PriceItems(items []OrderItemRequest) ([]models.LineItem, error) {
	priced := make([]models.LineItem, 0, len(items))

	for _, req := range items {
		if req.Quantity < 1 {
			return nil, fmt.Errorf("%w: quantity for menu item %d must be at least 1", ErrValidation, req.MenuItemID)
		}

		menuItem, err := s.catalogRepo.FindMenuItem(req.MenuItemID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, fmt.Errorf("%w: menu item %d", ErrMenuItemNotFound, req.MenuItemID)
			}
			return nil, fmt.Errorf("fetching menu item %d: %w", req.MenuItemID, err)
		}

		item := models.LineItem{
			ID:         uuid.NewString(),
			MenuItemID: menuItem.ID,
			Name:       menuItem.Name,
			BasePrice:  menuItem.Price,
			Quantity:   req.Quantity,
			Status:     models.ItemStatusPending,
			IsFree:     req.IsFree,
		}

		unitPrice := menuItem.Price
		if req.VariationID != nil {
			variation, err := s.catalogRepo.FindVariation(*req.VariationID)
			if err != nil {
				if errors.Is(err, repositories.ErrNotFound) {
					return nil, fmt.Errorf("%w: variation %d", ErrVariationNotFound, *req.VariationID)
				}
				return nil, fmt.Errorf("fetching variation %d: %w", *req.VariationID, err)
			}
			item.Variation = &models.ItemVariation{
				VariationID: variation.ID,
				Name:        variation.Name,
				Price:       variation.Price,
			}
			unitPrice = variation.Price
		}

		for _, addonID := range req.AddonIDs {
			addon, err := s.catalogRepo.FindAddon(addonID)
			if err != nil {
				if errors.Is(err, repositories.ErrNotFound) {
					// Unknown addons are dropped from the selection instead of
					// failing the order.
					continue
				}
				return nil, fmt.Errorf("fetching addon %d: %w", addonID, err)
			}
			item.Addons = append(item.Addons, models.ItemAddon{
				AddonID: addon.ID,
				Name:    addon.Name,
				Price:   addon.Price,
			})
			unitPrice += addon.Price
		}

		item.TimeToPrepare = menuItem.TimeToPrepare
		if item.TimeToPrepare <= 0 {
			item.TimeToPrepare = defaultPrepTimeMinutes
		}
		if req.TimeToPrepare != nil && *req.TimeToPrepare > 0 {
			item.TimeToPrepare = *req.TimeToPrepare
		}

		item.ItemTotal = unitPrice * float64(req.Quantity)
		if item.ItemTotal < 0 {
			item.ItemTotal = 0
		}

		priced = append(priced, item)
	}
	return priced, nil
}

// Recompute derives subtotal, discount amount, taxes and total from the
// current item collections. It reads nothing but the order, so repeated calls
// always land on the same figures; nothing is accumulated incrementally.
// Taxes are computed on the discounted total, not the subtotal.
func (s *pricingService) Recompute(order *models.Order) {
	subtotal := 0.0
	for _, item := range order.Items {
		subtotal += item.ItemTotal
	}
	for _, item := range order.ExtraItems {
		subtotal += item.ItemTotal
	}
	order.Subtotal = subtotal

	discountAmount := 0.0
	if order.Discount != nil {
		if order.Discount.Percentage > 0 {
			order.Discount.Amount = subtotal * order.Discount.Percentage / 100
		}
		discountAmount = order.Discount.Amount
	}

	total := subtotal - discountAmount
	if total < 0 {
		total = 0
	}
	order.TotalAmount = total

	if order.SGSTRate == 0 {
		order.SGSTRate = DefaultSGSTRate
	}
	if order.CGSTRate == 0 {
		order.CGSTRate = DefaultCGSTRate
	}
	order.SGST = total * order.SGSTRate / 100
	order.CGST = total * order.CGSTRate / 100
	order.GST = order.SGST + order.CGST
}
