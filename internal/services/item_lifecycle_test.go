package services

import (
	"testing"
	"time"

	"restaurant_pos_backend/internal/models"
)

func TestApplyItemStatusPreparing(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	item := models.LineItem{Status: models.ItemStatusPending}

	applyItemStatus(&item, models.ItemStatusPreparing, now)
	if item.StartedAt == nil || !item.StartedAt.Equal(now) {
		t.Fatalf("StartedAt = %v, want %v", item.StartedAt, now)
	}

	// A repeated PREPARING keeps the original start time.
	later := now.Add(5 * time.Minute)
	applyItemStatus(&item, models.ItemStatusPreparing, later)
	if !item.StartedAt.Equal(now) {
		t.Errorf("repeated PREPARING overwrote StartedAt: got %v, want %v", item.StartedAt, now)
	}
}

func TestApplyItemStatusReady(t *testing.T) {
	started := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	now := started.Add(90 * time.Second)
	item := models.LineItem{Status: models.ItemStatusPreparing, StartedAt: &started}

	applyItemStatus(&item, models.ItemStatusReady, now)

	if item.ReadyAt == nil || !item.ReadyAt.Equal(now) {
		t.Fatalf("ReadyAt = %v, want %v", item.ReadyAt, now)
	}
	if item.ActualPrepTime == nil || *item.ActualPrepTime != "1:30" {
		t.Errorf("ActualPrepTime = %v, want 1:30", item.ActualPrepTime)
	}
}

func TestApplyItemStatusReadyBackfillsStart(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	item := models.LineItem{Status: models.ItemStatusPending}

	applyItemStatus(&item, models.ItemStatusReady, now)

	if item.StartedAt == nil {
		t.Fatal("StartedAt was not backfilled for a direct jump to READY")
	}
	if !item.StartedAt.Equal(now.Add(-time.Minute)) {
		t.Errorf("backfilled StartedAt = %v, want %v", item.StartedAt, now.Add(-time.Minute))
	}
	if item.ActualPrepTime == nil || *item.ActualPrepTime != "1:00" {
		t.Errorf("ActualPrepTime = %v, want 1:00", item.ActualPrepTime)
	}
}

func TestFormatPrepTime(t *testing.T) {
	tests := []struct {
		name string
		d    time.Duration
		want string
	}{
		{"seconds are zero padded", 5 * time.Second, "0:05"},
		{"exactly one minute", time.Minute, "1:00"},
		{"minute and a half", 90 * time.Second, "1:30"},
		{"long preparation", 12*time.Minute + 7*time.Second, "12:07"},
		{"negative clamps to zero", -30 * time.Second, "0:00"},
		{"sub-second rounds", 1499 * time.Millisecond, "0:01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatPrepTime(tt.d); got != tt.want {
				t.Errorf("formatPrepTime(%v) = %q, want %q", tt.d, got, tt.want)
			}
		})
	}
}

func TestPromoteIfAllServed(t *testing.T) {
	tests := []struct {
		name       string
		order      models.Order
		want       bool
		wantStatus string
	}{
		{
			name: "all items served promotes order",
			order: models.Order{
				Status: models.OrderStatusPreparing,
				Items: []models.LineItem{
					{Status: models.ItemStatusServed},
					{Status: models.ItemStatusServed},
				},
			},
			want:       true,
			wantStatus: models.OrderStatusReady,
		},
		{
			name: "pending extra item blocks promotion",
			order: models.Order{
				Status:     models.OrderStatusPreparing,
				Items:      []models.LineItem{{Status: models.ItemStatusServed}},
				ExtraItems: []models.LineItem{{Status: models.ItemStatusPending}},
			},
			want:       false,
			wantStatus: models.OrderStatusPreparing,
		},
		{
			name: "served extra items count toward promotion",
			order: models.Order{
				Status:     models.OrderStatusServed,
				Items:      []models.LineItem{{Status: models.ItemStatusServed}},
				ExtraItems: []models.LineItem{{Status: models.ItemStatusServed}},
			},
			want:       true,
			wantStatus: models.OrderStatusReady,
		},
		{
			name:       "empty collections promote vacuously",
			order:      models.Order{Status: models.OrderStatusPending},
			want:       true,
			wantStatus: models.OrderStatusReady,
		},
		{
			name: "already ready does not promote again",
			order: models.Order{
				Status: models.OrderStatusReady,
				Items:  []models.LineItem{{Status: models.ItemStatusServed}},
			},
			want:       false,
			wantStatus: models.OrderStatusReady,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := promoteIfAllServed(&tt.order)
			if got != tt.want {
				t.Errorf("promoteIfAllServed() = %v, want %v", got, tt.want)
			}
			if tt.order.Status != tt.wantStatus {
				t.Errorf("order status = %q, want %q", tt.order.Status, tt.wantStatus)
			}
		})
	}
}
