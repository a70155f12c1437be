package services

import (
	"database/sql"
	"errors"
	"regexp"
	"sync"
	"testing"
	"time"

	"restaurant_pos_backend/internal/models"
	"restaurant_pos_backend/internal/repositories"
)

// --- In-memory fakes ---

type fakeOrderRepo struct {
	nextID int64
	orders map[int64]*models.Order
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: map[int64]*models.Order{}}
}

func cloneOrder(o *models.Order) *models.Order {
	clone := *o
	clone.Items = append([]models.LineItem{}, o.Items...)
	clone.ExtraItems = append([]models.LineItem{}, o.ExtraItems...)
	if o.Discount != nil {
		d := *o.Discount
		clone.Discount = &d
	}
	if o.PaymentDetails != nil {
		p := *o.PaymentDetails
		clone.PaymentDetails = &p
	}
	return &clone
}

func (f *fakeOrderRepo) CreateOrder(_ repositories.SQLExecutor, order *models.Order) (int64, error) {
	f.nextID++
	order.ID = f.nextID
	f.orders[order.ID] = cloneOrder(order)
	return order.ID, nil
}

func (f *fakeOrderRepo) GetOrderByID(orderID int64) (*models.Order, error) {
	stored, ok := f.orders[orderID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return cloneOrder(stored), nil
}

func (f *fakeOrderRepo) GetOrders(_ models.OrderFilters) ([]models.Order, int, error) {
	var all []models.Order
	for _, o := range f.orders {
		all = append(all, *cloneOrder(o))
	}
	return all, len(all), nil
}

func (f *fakeOrderRepo) UpdateOrderItems(_ repositories.SQLExecutor, order *models.Order) error {
	stored, ok := f.orders[order.ID]
	if !ok {
		return repositories.ErrNotFound
	}
	updated := cloneOrder(order)
	updated.CreatedAt = stored.CreatedAt
	f.orders[order.ID] = updated
	return nil
}

func (f *fakeOrderRepo) UpdateOrderStatus(_ repositories.SQLExecutor, orderID int64, newStatus string, updatedAt time.Time) error {
	stored, ok := f.orders[orderID]
	if !ok {
		return repositories.ErrNotFound
	}
	stored.Status = newStatus
	stored.UpdatedAt = updatedAt
	return nil
}

func (f *fakeOrderRepo) UpdateOrderPayment(_ repositories.SQLExecutor, order *models.Order) error {
	if _, ok := f.orders[order.ID]; !ok {
		return repositories.ErrNotFound
	}
	f.orders[order.ID] = cloneOrder(order)
	return nil
}

func (f *fakeOrderRepo) UpdateOrderTable(_ repositories.SQLExecutor, orderID int64, tableNumber string, updatedAt time.Time) error {
	stored, ok := f.orders[orderID]
	if !ok {
		return repositories.ErrNotFound
	}
	stored.TableNumber = tableNumber
	stored.TableNo = tableNumber
	stored.UpdatedAt = updatedAt
	return nil
}

func (f *fakeOrderRepo) UpdateOrderFields(_ repositories.SQLExecutor, order *models.Order) error {
	stored, ok := f.orders[order.ID]
	if !ok {
		return repositories.ErrNotFound
	}
	stored.CustomerName = order.CustomerName
	stored.CustomerPhone = order.CustomerPhone
	stored.GuestCount = order.GuestCount
	stored.StaffName = order.StaffName
	stored.Notes = order.Notes
	stored.Priority = order.Priority
	stored.Status = order.Status
	return nil
}

func (f *fakeOrderRepo) UpdateBookingLink(_ repositories.SQLExecutor, orderID int64, booking *models.Booking) error {
	stored, ok := f.orders[orderID]
	if !ok {
		return repositories.ErrNotFound
	}
	stored.BookingID = &booking.ID
	stored.GRCNo = booking.GRCNo
	roomNumber := booking.RoomNumber
	stored.RoomNumber = &roomNumber
	stored.GuestName = booking.GuestName
	stored.GuestPhone = booking.MobileNo
	return nil
}

func (f *fakeOrderRepo) GetUnlinkedOrders() ([]models.Order, error) {
	var unlinked []models.Order
	for _, o := range f.orders {
		if o.BookingID == nil || o.GRCNo == nil {
			unlinked = append(unlinked, *cloneOrder(o))
		}
	}
	return unlinked, nil
}

type fakeTicketRepo struct {
	tickets map[int64]*models.KitchenTicket
	nextID  int64
	failAll bool
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{tickets: map[int64]*models.KitchenTicket{}}
}

func (f *fakeTicketRepo) CreateTicket(_ repositories.SQLExecutor, ticket *models.KitchenTicket) (int64, error) {
	if f.failAll {
		return 0, repositories.ErrDatabaseError
	}
	f.nextID++
	ticket.ID = f.nextID
	stored := *ticket
	f.tickets[ticket.OrderID] = &stored
	return ticket.ID, nil
}

func (f *fakeTicketRepo) GetTicketByOrderID(orderID int64) (*models.KitchenTicket, error) {
	if f.failAll {
		return nil, repositories.ErrDatabaseError
	}
	stored, ok := f.tickets[orderID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	clone := *stored
	clone.Items = append([]models.TicketItem{}, stored.Items...)
	clone.ExtraItems = append([]models.TicketItem{}, stored.ExtraItems...)
	return &clone, nil
}

func (f *fakeTicketRepo) GetTickets(_ *string) ([]models.KitchenTicket, error) {
	var all []models.KitchenTicket
	for _, t := range f.tickets {
		all = append(all, *t)
	}
	return all, nil
}

func (f *fakeTicketRepo) UpdateTicketItems(_ repositories.SQLExecutor, ticket *models.KitchenTicket) error {
	if f.failAll {
		return repositories.ErrDatabaseError
	}
	stored, ok := f.tickets[ticket.OrderID]
	if !ok {
		return repositories.ErrNotFound
	}
	stored.Items = append([]models.TicketItem{}, ticket.Items...)
	stored.ExtraItems = append([]models.TicketItem{}, ticket.ExtraItems...)
	return nil
}

func (f *fakeTicketRepo) UpdateTicketStatusByOrder(_ repositories.SQLExecutor, orderID int64, status string) (int64, error) {
	if f.failAll {
		return 0, repositories.ErrDatabaseError
	}
	stored, ok := f.tickets[orderID]
	if !ok {
		return 0, nil
	}
	stored.Status = status
	return 1, nil
}

func (f *fakeTicketRepo) UpdateTicketTableByOrder(_ repositories.SQLExecutor, orderID int64, tableNumber string) (int64, error) {
	if f.failAll {
		return 0, repositories.ErrDatabaseError
	}
	stored, ok := f.tickets[orderID]
	if !ok {
		return 0, nil
	}
	stored.TableNumber = tableNumber
	return 1, nil
}

type fakeTableRepo struct {
	statuses map[string]string
}

func newFakeTableRepo(tableNumbers ...string) *fakeTableRepo {
	f := &fakeTableRepo{statuses: map[string]string{}}
	for _, n := range tableNumbers {
		f.statuses[n] = models.TableStatusAvailable
	}
	return f
}

func (f *fakeTableRepo) GetTableByNumber(tableNumber string) (*models.RestaurantTable, error) {
	status, ok := f.statuses[tableNumber]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &models.RestaurantTable{TableNumber: tableNumber, Status: status}, nil
}

func (f *fakeTableRepo) UpdateStatusByNumber(_ repositories.SQLExecutor, tableNumber string, status string) (int64, error) {
	if _, ok := f.statuses[tableNumber]; !ok {
		return 0, nil
	}
	f.statuses[tableNumber] = status
	return 1, nil
}

type fakeBookingRepo struct {
	byTable map[string]*models.Booking
}

func (f *fakeBookingRepo) FindActiveByTableNumber(tableNumber string) (*models.Booking, error) {
	if b, ok := f.byTable[tableNumber]; ok {
		return b, nil
	}
	return nil, repositories.ErrNotFound
}

type fakeAuditRepo struct {
	mu      sync.Mutex
	entries []models.AuditEntry
}

func (f *fakeAuditRepo) CreateEntry(_ repositories.SQLExecutor, entry *models.AuditEntry) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, *entry)
	return int64(len(f.entries)), nil
}

// --- Test wiring ---

type orderServiceFixture struct {
	svc      OrderService
	orders   *fakeOrderRepo
	tickets  *fakeTicketRepo
	tables   *fakeTableRepo
	bookings *fakeBookingRepo
}

func newOrderServiceFixture() *orderServiceFixture {
	f := &orderServiceFixture{
		orders:   newFakeOrderRepo(),
		tickets:  newFakeTicketRepo(),
		tables:   newFakeTableRepo("5", "7"),
		bookings: &fakeBookingRepo{byTable: map[string]*models.Booking{}},
	}
	var db *sql.DB // fakes never touch the executor
	f.svc = NewOrderService(
		f.orders,
		f.bookings,
		NewPricingService(testCatalog()),
		NewTicketService(f.tickets, db),
		NewTableService(f.tables, db),
		NewAuditService(&fakeAuditRepo{}, db),
		db,
	)
	return f
}

func (f *orderServiceFixture) createOrder(t *testing.T, req CreateOrderRequest) *models.Order {
	t.Helper()
	order, err := f.svc.CreateOrder(req, nil)
	if err != nil {
		t.Fatalf("CreateOrder() error = %v", err)
	}
	return order
}

var orderNumberPattern = regexp.MustCompile(`^ORD-\d+-[A-Z0-9]{4}$`)

// --- Tests ---

func TestCreateOrder(t *testing.T) {
	f := newOrderServiceFixture()

	order := f.createOrder(t, CreateOrderRequest{
		Items: []OrderItemRequest{
			{MenuItemID: 1, Quantity: 2, VariationID: int64Ptr(10)},
		},
		TableNumber: "5",
	})

	if !orderNumberPattern.MatchString(order.OrderNumber) {
		t.Errorf("order number %q does not match expected format", order.OrderNumber)
	}
	if order.Status != models.OrderStatusPending {
		t.Errorf("status = %q, want %q", order.Status, models.OrderStatusPending)
	}
	if order.CustomerName != "Guest" {
		t.Errorf("customer name = %q, want Guest fallback", order.CustomerName)
	}
	if order.Priority != models.PriorityNormal {
		t.Errorf("priority = %q, want %q", order.Priority, models.PriorityNormal)
	}
	if !almostEqual(order.Items[0].ItemTotal, 240) {
		t.Errorf("item total = %v, want 240 (variation price 120 x 2)", order.Items[0].ItemTotal)
	}
	if !almostEqual(order.Subtotal, 240) || !almostEqual(order.SGST, 6.0) {
		t.Errorf("subtotal = %v, sgst = %v, want 240 and 6.0", order.Subtotal, order.SGST)
	}
	if order.TableNo != "5" || order.TableNumber != "5" {
		t.Errorf("table fields = %q/%q, want both 5", order.TableNumber, order.TableNo)
	}

	// Side effects: the table is occupied and a kitchen ticket projected.
	if f.tables.statuses["5"] != models.TableStatusOccupied {
		t.Errorf("table 5 status = %q, want occupied", f.tables.statuses["5"])
	}
	ticket, err := f.tickets.GetTicketByOrderID(order.ID)
	if err != nil {
		t.Fatalf("kitchen ticket was not created: %v", err)
	}
	if len(ticket.Items) != 1 || ticket.Items[0].Name != "Paneer Tikka" {
		t.Errorf("ticket items = %+v, want the projected order item", ticket.Items)
	}
	if ticket.OrderType != models.TicketOrderTypeRestaurant {
		t.Errorf("ticket order type = %q, want %q", ticket.OrderType, models.TicketOrderTypeRestaurant)
	}
}

func TestCreateOrderTableNoAlias(t *testing.T) {
	f := newOrderServiceFixture()

	order := f.createOrder(t, CreateOrderRequest{
		Items:   []OrderItemRequest{{MenuItemID: 2, Quantity: 1}},
		TableNo: "7",
	})

	if order.TableNumber != "7" || order.TableNo != "7" {
		t.Errorf("table fields = %q/%q, want both 7 from legacy alias", order.TableNumber, order.TableNo)
	}
	if f.tables.statuses["7"] != models.TableStatusOccupied {
		t.Errorf("table 7 status = %q, want occupied", f.tables.statuses["7"])
	}
}

func TestCreateOrderErrors(t *testing.T) {
	tests := []struct {
		name    string
		req     CreateOrderRequest
		wantErr error
	}{
		{
			name:    "empty items",
			req:     CreateOrderRequest{},
			wantErr: ErrValidation,
		},
		{
			name: "unknown menu item",
			req: CreateOrderRequest{
				Items: []OrderItemRequest{{MenuItemID: 999, Quantity: 1}},
			},
			wantErr: ErrMenuItemNotFound,
		},
		{
			name: "unknown variation",
			req: CreateOrderRequest{
				Items: []OrderItemRequest{{MenuItemID: 1, Quantity: 1, VariationID: int64Ptr(999)}},
			},
			wantErr: ErrVariationNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newOrderServiceFixture()
			_, err := f.svc.CreateOrder(tt.req, nil)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("CreateOrder() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCreateOrderSurvivesSideEffectFailures(t *testing.T) {
	f := newOrderServiceFixture()
	f.tickets.failAll = true

	order := f.createOrder(t, CreateOrderRequest{
		Items:       []OrderItemRequest{{MenuItemID: 1, Quantity: 1}},
		TableNumber: "nonexistent",
	})

	if order.ID == 0 {
		t.Error("order was not persisted despite failing side effects")
	}
	if _, err := f.svc.GetOrderByID(order.ID); err != nil {
		t.Errorf("GetOrderByID() after side-effect failures: %v", err)
	}
}

func TestUpdateItemStatusByID(t *testing.T) {
	f := newOrderServiceFixture()
	order := f.createOrder(t, CreateOrderRequest{
		Items:       []OrderItemRequest{{MenuItemID: 1, Quantity: 1}},
		TableNumber: "5",
	})

	itemID := order.Items[0].ID
	updated, err := f.svc.UpdateItemStatus(order.ID, itemID, UpdateItemStatusRequest{Status: models.ItemStatusPreparing})
	if err != nil {
		t.Fatalf("UpdateItemStatus() error = %v", err)
	}
	if updated.Items[0].Status != models.ItemStatusPreparing {
		t.Errorf("item status = %q, want PREPARING", updated.Items[0].Status)
	}
	if updated.Items[0].StartedAt == nil {
		t.Error("StartedAt was not stamped on PREPARING")
	}

	updated, err = f.svc.UpdateItemStatus(order.ID, itemID, UpdateItemStatusRequest{Status: models.ItemStatusReady})
	if err != nil {
		t.Fatalf("UpdateItemStatus() error = %v", err)
	}
	if updated.Items[0].ReadyAt == nil || updated.Items[0].ActualPrepTime == nil {
		t.Error("READY did not record ReadyAt and ActualPrepTime")
	}

	// The ticket mirror carries the new status.
	ticket, err := f.tickets.GetTicketByOrderID(order.ID)
	if err != nil {
		t.Fatalf("ticket lookup: %v", err)
	}
	if ticket.Items[0].Status != models.ItemStatusReady {
		t.Errorf("ticket item status = %q, want READY", ticket.Items[0].Status)
	}
}

func TestUpdateItemStatusByLegacyIndex(t *testing.T) {
	f := newOrderServiceFixture()
	order := f.createOrder(t, CreateOrderRequest{
		Items: []OrderItemRequest{
			{MenuItemID: 1, Quantity: 1},
			{MenuItemID: 2, Quantity: 1},
		},
		TableNumber: "5",
	})

	updated, err := f.svc.UpdateItemStatus(order.ID, "1", UpdateItemStatusRequest{Status: models.ItemStatusPreparing})
	if err != nil {
		t.Fatalf("UpdateItemStatus() error = %v", err)
	}
	if updated.Items[1].Status != models.ItemStatusPreparing {
		t.Errorf("positional index did not address the second item: %+v", updated.Items)
	}
	if updated.Items[0].Status != models.ItemStatusPending {
		t.Errorf("first item was touched: %+v", updated.Items[0])
	}
}

func TestUpdateItemStatusErrors(t *testing.T) {
	f := newOrderServiceFixture()
	order := f.createOrder(t, CreateOrderRequest{
		Items:       []OrderItemRequest{{MenuItemID: 1, Quantity: 1}},
		TableNumber: "5",
	})

	if _, err := f.svc.UpdateItemStatus(order.ID, "no-such-item", UpdateItemStatusRequest{Status: models.ItemStatusReady}); !errors.Is(err, ErrItemNotFound) {
		t.Errorf("unknown item ref error = %v, want ErrItemNotFound", err)
	}
	if _, err := f.svc.UpdateItemStatus(order.ID, order.Items[0].ID, UpdateItemStatusRequest{Status: "BURNT"}); !errors.Is(err, ErrInvalidItemStatus) {
		t.Errorf("invalid status error = %v, want ErrInvalidItemStatus", err)
	}
	if _, err := f.svc.UpdateItemStatus(999, "0", UpdateItemStatusRequest{Status: models.ItemStatusReady}); !errors.Is(err, ErrOrderNotFound) {
		t.Errorf("unknown order error = %v, want ErrOrderNotFound", err)
	}
}

func TestAllServedPromotesOrder(t *testing.T) {
	f := newOrderServiceFixture()
	order := f.createOrder(t, CreateOrderRequest{
		Items: []OrderItemRequest{
			{MenuItemID: 1, Quantity: 1},
			{MenuItemID: 2, Quantity: 1},
		},
		TableNumber: "5",
	})

	updated, err := f.svc.UpdateItemStatus(order.ID, order.Items[0].ID, UpdateItemStatusRequest{Status: models.ItemStatusServed})
	if err != nil {
		t.Fatalf("UpdateItemStatus() error = %v", err)
	}
	if updated.Status == models.OrderStatusReady {
		t.Error("order promoted before all items were served")
	}

	updated, err = f.svc.UpdateItemStatus(order.ID, order.Items[1].ID, UpdateItemStatusRequest{Status: models.ItemStatusServed})
	if err != nil {
		t.Fatalf("UpdateItemStatus() error = %v", err)
	}
	if updated.Status != models.OrderStatusReady {
		t.Errorf("order status = %q, want READY once every item is served", updated.Status)
	}
}

func TestAddExtraItemsRecomputesTotals(t *testing.T) {
	f := newOrderServiceFixture()
	order := f.createOrder(t, CreateOrderRequest{
		Items:       []OrderItemRequest{{MenuItemID: 1, Quantity: 2}}, // 200
		TableNumber: "5",
	})

	updated, err := f.svc.AddExtraItems(order.ID, AddItemsRequest{
		Items: []OrderItemRequest{{MenuItemID: 2, Quantity: 1}}, // 30
	}, nil)
	if err != nil {
		t.Fatalf("AddExtraItems() error = %v", err)
	}

	if len(updated.ExtraItems) != 1 {
		t.Fatalf("extra items = %d, want 1", len(updated.ExtraItems))
	}
	if !almostEqual(updated.Subtotal, 230) {
		t.Errorf("subtotal = %v, want 230 across both collections", updated.Subtotal)
	}
	if !almostEqual(updated.TotalAmount, 230) {
		t.Errorf("total = %v, want 230", updated.TotalAmount)
	}

	ticket, err := f.tickets.GetTicketByOrderID(order.ID)
	if err != nil {
		t.Fatalf("ticket lookup: %v", err)
	}
	if len(ticket.ExtraItems) != 1 {
		t.Errorf("ticket extra items = %d, want 1 after sync", len(ticket.ExtraItems))
	}
}

func TestProcessPayment(t *testing.T) {
	f := newOrderServiceFixture()
	order := f.createOrder(t, CreateOrderRequest{
		Items:       []OrderItemRequest{{MenuItemID: 1, Quantity: 2, VariationID: int64Ptr(10)}}, // 240
		TableNumber: "5",
	})

	paid, billing, err := f.svc.ProcessPayment(order.ID, ProcessPaymentRequest{}, nil)
	if err != nil {
		t.Fatalf("ProcessPayment() error = %v", err)
	}

	if paid.Status != models.OrderStatusPaid {
		t.Errorf("status = %q, want PAID", paid.Status)
	}
	if paid.PaymentDetails == nil || paid.PaymentDetails.Method != "CASH" {
		t.Errorf("payment details = %+v, want CASH default", paid.PaymentDetails)
	}
	if !almostEqual(billing.FinalAmount, 240) || !almostEqual(billing.PaidAmount, 240) {
		t.Errorf("billing = %+v, want 240 final and paid", billing)
	}
	if f.tables.statuses["5"] != models.TableStatusAvailable {
		t.Errorf("table 5 status = %q, want released to available", f.tables.statuses["5"])
	}
	ticket, _ := f.tickets.GetTicketByOrderID(order.ID)
	if ticket.Status != models.OrderStatusPaid {
		t.Errorf("ticket status = %q, want PAID", ticket.Status)
	}

	// Paying again is rejected.
	if _, _, err := f.svc.ProcessPayment(order.ID, ProcessPaymentRequest{}, nil); !errors.Is(err, ErrOrderAlreadyPaid) {
		t.Errorf("second payment error = %v, want ErrOrderAlreadyPaid", err)
	}
}

func TestProcessPaymentWithDiscount(t *testing.T) {
	f := newOrderServiceFixture()
	order := f.createOrder(t, CreateOrderRequest{
		Items:       []OrderItemRequest{{MenuItemID: 1, Quantity: 2, VariationID: int64Ptr(10)}}, // 240
		TableNumber: "5",
	})

	paid, billing, err := f.svc.ProcessPayment(order.ID, ProcessPaymentRequest{DiscountPercentage: 10}, nil)
	if err != nil {
		t.Fatalf("ProcessPayment() error = %v", err)
	}
	if !almostEqual(paid.Discount.Amount, 24) {
		t.Errorf("discount amount = %v, want 24", paid.Discount.Amount)
	}
	if !almostEqual(billing.FinalAmount, 216) {
		t.Errorf("final amount = %v, want 216", billing.FinalAmount)
	}
	if !almostEqual(paid.SGST, 5.4) {
		t.Errorf("sgst = %v, want 5.4 on the discounted total", paid.SGST)
	}
}

func TestUpdateOrderStatus(t *testing.T) {
	f := newOrderServiceFixture()
	order := f.createOrder(t, CreateOrderRequest{
		Items:       []OrderItemRequest{{MenuItemID: 1, Quantity: 1}},
		TableNumber: "5",
	})

	updated, err := f.svc.UpdateOrderStatus(order.ID, UpdateOrderStatusRequest{Status: models.OrderStatusPreparing}, nil)
	if err != nil {
		t.Fatalf("UpdateOrderStatus() error = %v", err)
	}
	if updated.Status != models.OrderStatusPreparing {
		t.Errorf("status = %q, want PREPARING", updated.Status)
	}
	if f.tables.statuses["5"] != models.TableStatusOccupied {
		t.Errorf("non-terminal status released the table: %q", f.tables.statuses["5"])
	}

	if _, err := f.svc.UpdateOrderStatus(order.ID, UpdateOrderStatusRequest{Status: "FROZEN"}, nil); !errors.Is(err, ErrInvalidOrderStatus) {
		t.Errorf("invalid status error = %v, want ErrInvalidOrderStatus", err)
	}

	// CANCELLED is terminal and frees the table.
	if _, err := f.svc.UpdateOrderStatus(order.ID, UpdateOrderStatusRequest{Status: models.OrderStatusCancelled}, nil); err != nil {
		t.Fatalf("UpdateOrderStatus(CANCELLED) error = %v", err)
	}
	if f.tables.statuses["5"] != models.TableStatusAvailable {
		t.Errorf("table 5 status = %q, want available after cancellation", f.tables.statuses["5"])
	}
}

func TestUpdateOrderStatusPaidGuard(t *testing.T) {
	f := newOrderServiceFixture()
	order := f.createOrder(t, CreateOrderRequest{
		Items:       []OrderItemRequest{{MenuItemID: 1, Quantity: 1}},
		TableNumber: "5",
	})
	if _, _, err := f.svc.ProcessPayment(order.ID, ProcessPaymentRequest{}, nil); err != nil {
		t.Fatalf("ProcessPayment() error = %v", err)
	}

	if _, err := f.svc.UpdateOrderStatus(order.ID, UpdateOrderStatusRequest{Status: models.OrderStatusPreparing}, nil); !errors.Is(err, ErrOrderAlreadyPaid) {
		t.Errorf("status change on paid order error = %v, want ErrOrderAlreadyPaid", err)
	}
}

func TestTransferTable(t *testing.T) {
	f := newOrderServiceFixture()
	order := f.createOrder(t, CreateOrderRequest{
		Items:       []OrderItemRequest{{MenuItemID: 1, Quantity: 1}},
		TableNumber: "5",
	})

	updated, err := f.svc.TransferTable(order.ID, TransferTableRequest{NewTableNumber: "7"}, nil)
	if err != nil {
		t.Fatalf("TransferTable() error = %v", err)
	}

	if updated.TableNumber != "7" || updated.TableNo != "7" {
		t.Errorf("table fields = %q/%q, want both 7", updated.TableNumber, updated.TableNo)
	}
	if f.tables.statuses["5"] != models.TableStatusAvailable {
		t.Errorf("old table status = %q, want available", f.tables.statuses["5"])
	}
	if f.tables.statuses["7"] != models.TableStatusOccupied {
		t.Errorf("new table status = %q, want occupied", f.tables.statuses["7"])
	}
	ticket, _ := f.tickets.GetTicketByOrderID(order.ID)
	if ticket.TableNumber != "7" {
		t.Errorf("ticket table = %q, want 7", ticket.TableNumber)
	}

	if _, err := f.svc.TransferTable(order.ID, TransferTableRequest{}, nil); !errors.Is(err, ErrValidation) {
		t.Errorf("missing new table error = %v, want ErrValidation", err)
	}
}

func TestUpdateOrderRejectsItemReplacement(t *testing.T) {
	f := newOrderServiceFixture()
	order := f.createOrder(t, CreateOrderRequest{
		Items:       []OrderItemRequest{{MenuItemID: 1, Quantity: 1}},
		TableNumber: "5",
	})

	_, err := f.svc.UpdateOrder(order.ID, UpdateOrderRequest{
		Items: []byte(`[{"name":"Smuggled Item","item_total":0}]`),
	}, nil)
	if !errors.Is(err, ErrValidation) {
		t.Errorf("item replacement error = %v, want ErrValidation", err)
	}
}

func TestUpdateOrderFields(t *testing.T) {
	f := newOrderServiceFixture()
	order := f.createOrder(t, CreateOrderRequest{
		Items:       []OrderItemRequest{{MenuItemID: 1, Quantity: 1}},
		TableNumber: "5",
	})

	name := "Asha"
	notes := "window seat"
	priority := models.PriorityHigh
	updated, err := f.svc.UpdateOrder(order.ID, UpdateOrderRequest{
		CustomerName: &name,
		Notes:        &notes,
		Priority:     &priority,
	}, nil)
	if err != nil {
		t.Fatalf("UpdateOrder() error = %v", err)
	}
	if updated.CustomerName != "Asha" || updated.Priority != models.PriorityHigh {
		t.Errorf("updated fields = %q/%q, want Asha/HIGH", updated.CustomerName, updated.Priority)
	}
	if updated.Notes == nil || *updated.Notes != "window seat" {
		t.Errorf("notes = %v, want window seat", updated.Notes)
	}

	stored, _ := f.svc.GetOrderByID(order.ID)
	if stored.CustomerName != "Asha" {
		t.Errorf("persisted customer name = %q, want Asha", stored.CustomerName)
	}
}

func TestLinkOrdersToBookings(t *testing.T) {
	f := newOrderServiceFixture()
	grc := "GRC-100"
	guest := "R. Sharma"
	f.bookings.byTable["5"] = &models.Booking{
		ID:         42,
		GRCNo:      &grc,
		RoomNumber: "101, 5",
		GuestName:  &guest,
		Status:     "Checked In",
		IsActive:   true,
	}

	withBooking := f.createOrder(t, CreateOrderRequest{
		Items:       []OrderItemRequest{{MenuItemID: 1, Quantity: 1}},
		TableNumber: "5",
	})
	noBooking := f.createOrder(t, CreateOrderRequest{
		Items:       []OrderItemRequest{{MenuItemID: 2, Quantity: 1}},
		TableNumber: "7",
	})

	result, err := f.svc.LinkOrdersToBookings()
	if err != nil {
		t.Fatalf("LinkOrdersToBookings() error = %v", err)
	}
	if result.TotalUnlinked != 2 {
		t.Errorf("total unlinked = %d, want 2", result.TotalUnlinked)
	}
	if result.LinkedCount != 1 {
		t.Errorf("linked count = %d, want 1", result.LinkedCount)
	}

	linked, _ := f.svc.GetOrderByID(withBooking.ID)
	if linked.BookingID == nil || *linked.BookingID != 42 {
		t.Errorf("booking id = %v, want 42", linked.BookingID)
	}
	if linked.GRCNo == nil || *linked.GRCNo != "GRC-100" {
		t.Errorf("grc no = %v, want GRC-100", linked.GRCNo)
	}

	unlinked, _ := f.svc.GetOrderByID(noBooking.ID)
	if unlinked.BookingID != nil {
		t.Errorf("order without a matching booking was linked: %v", unlinked.BookingID)
	}
}

func TestGenerateOrderNumberFormat(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		n := generateOrderNumber()
		if !orderNumberPattern.MatchString(n) {
			t.Fatalf("order number %q does not match ORD-<millis>-<suffix>", n)
		}
		seen[n] = true
	}
	if len(seen) < 2 {
		t.Error("order numbers show no variation across generations")
	}
}

func TestGetOrderByIDNotFound(t *testing.T) {
	f := newOrderServiceFixture()
	if _, err := f.svc.GetOrderByID(12345); !errors.Is(err, ErrOrderNotFound) {
		t.Errorf("GetOrderByID() error = %v, want ErrOrderNotFound", err)
	}
}
