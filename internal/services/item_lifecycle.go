package services

import (
	"fmt"
	"math"
	"time"

	"restaurant_pos_backend/internal/models"
)

// applyItemStatus sets a line item's status and performs the timing side
// effects of entering a state. Entry itself is never gated; callers may jump
// states and the bookkeeping still holds together.
//
//   - First PREPARING stamps StartedAt; a repeat does not overwrite it.
//   - READY stamps ReadyAt and records the elapsed preparation time. An item
//     that jumped straight to READY gets StartedAt backfilled to one minute
//     before now so an elapsed figure can still be computed.
func applyItemStatus(item *models.LineItem, status string, now time.Time) {
	item.Status = status

	switch status {
	case models.ItemStatusPreparing:
		if item.StartedAt == nil {
			started := now
			item.StartedAt = &started
		}
	case models.ItemStatusReady:
		if item.StartedAt == nil {
			started := now.Add(-time.Minute)
			item.StartedAt = &started
		}
		ready := now
		item.ReadyAt = &ready
		elapsed := formatPrepTime(now.Sub(*item.StartedAt))
		item.ActualPrepTime = &elapsed
	}
}

// formatPrepTime renders a duration as "m:ss", seconds zero-padded.
func formatPrepTime(d time.Duration) string {
	seconds := int(math.Round(d.Seconds()))
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// allItemsServed reports whether every item across both collections is
// SERVED. Empty collections satisfy it vacuously.
func allItemsServed(order *models.Order) bool {
	for _, item := range order.Items {
		if item.Status != models.ItemStatusServed {
			return false
		}
	}
	for _, item := range order.ExtraItems {
		if item.Status != models.ItemStatusServed {
			return false
		}
	}
	return true
}

// promoteIfAllServed applies the one automatic order-level transition: when a
// SERVED update leaves every item served, the order becomes READY. Evaluated
// on each individual item update, never batched.
func promoteIfAllServed(order *models.Order) bool {
	if order.Status == models.OrderStatusReady {
		return false
	}
	if !allItemsServed(order) {
		return false
	}
	order.Status = models.OrderStatusReady
	return true
}
