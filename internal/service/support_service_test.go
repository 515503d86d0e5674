package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/support-agent/internal/domain"
	"github.com/spec-kit/support-agent/internal/events"
	"github.com/spec-kit/support-agent/internal/repository"
)

type fakeOrders struct {
	orders map[string]domain.Order
	err    error
}

func (f *fakeOrders) GetByID(_ context.Context, id string) (*domain.Order, error) {
	if f.err != nil {
		return nil, f.err
	}
	o, ok := f.orders[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &o, nil
}

type fakeInventory struct {
	items map[string]domain.InventoryItem
	err   error
}

func (f *fakeInventory) GetByProductID(_ context.Context, id string) (*domain.InventoryItem, error) {
	if f.err != nil {
		return nil, f.err
	}
	it, ok := f.items[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &it, nil
}

type fakeTickets struct {
	created []domain.Ticket
	history []domain.TicketHistory
	seen    map[string]bool
	err     error
}

func (f *fakeTickets) Create(_ context.Context, t *domain.Ticket) error {
	if f.err != nil {
		return f.err
	}
	if f.seen == nil {
		f.seen = map[string]bool{}
	}
	if f.seen[t.ID] {
		return repository.ErrDuplicateTicketID
	}
	f.seen[t.ID] = true
	t.CreatedAt = time.Now()
	f.created = append(f.created, *t)
	return nil
}

func (f *fakeTickets) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	for i := range f.created {
		if f.created[i].ID == id {
			return &f.created[i], nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeTickets) List(_ context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := []domain.Ticket{}
	for _, t := range f.created {
		if filter.Status != nil && t.Status != *filter.Status {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (f *fakeTickets) TransitionStatus(_ context.Context, change *domain.TicketHistory) error {
	if f.err != nil {
		return f.err
	}
	for i := range f.created {
		if f.created[i].ID != change.TicketID {
			continue
		}
		if f.created[i].Status != change.OldStatus {
			return repository.ErrStaleStatus
		}
		f.created[i].Status = change.NewStatus
		change.ID = int64(len(f.history) + 1)
		change.CreatedAt = time.Now()
		f.history = append(f.history, *change)
		return nil
	}
	return pgx.ErrNoRows
}

func newTestService(orders *fakeOrders, inv *fakeInventory, tickets *fakeTickets, d events.Dispatcher) *SupportService {
	return NewSupportService(SupportDependencies{
		OrderRepo:     orders,
		InventoryRepo: inv,
		TicketRepo:    tickets,
		Dispatcher:    d,
	})
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return string(b)
}

func TestCheckOrderStatus(t *testing.T) {
	orders := &fakeOrders{orders: map[string]domain.Order{
		"12345": {
			ID:          "12345",
			Status:      domain.OrderStatusShipped,
			OrderDate:   time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
			TotalAmount: 299.99,
		},
	}}
	svc := newTestService(orders, &fakeInventory{}, &fakeTickets{}, nil)

	for _, id := range []string{"12345", "#12345", " 12345 "} {
		got, err := svc.CheckOrderStatus(context.Background(), id)
		if err != nil {
			t.Fatalf("CheckOrderStatus(%q) error = %v", id, err)
		}
		if !got.Found() || got.Order.ID != "12345" {
			t.Fatalf("CheckOrderStatus(%q) = %+v", id, got)
		}
		want := `{"order_id":"12345","status":"shipped","order_date":"2024-01-15","total_amount":299.99}`
		if js := mustJSON(t, got); js != want {
			t.Errorf("json = %s, want %s", js, want)
		}
	}

	missing, err := svc.CheckOrderStatus(context.Background(), "99999")
	if err != nil {
		t.Fatalf("missing order error = %v", err)
	}
	if missing.Found() {
		t.Error("missing order reported as found")
	}
	if js := mustJSON(t, missing); js != `{"error":"Order not found"}` {
		t.Errorf("not found json = %s", js)
	}
}

func TestCheckOrderStatusStorageFault(t *testing.T) {
	fault := errors.New("connection refused")
	svc := newTestService(&fakeOrders{err: fault}, &fakeInventory{}, &fakeTickets{}, nil)
	_, err := svc.CheckOrderStatus(context.Background(), "1")
	if !errors.Is(err, fault) {
		t.Fatalf("err = %v, want wrapped fault", err)
	}
}

func TestCheckInventory(t *testing.T) {
	restock := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	inv := &fakeInventory{items: map[string]domain.InventoryItem{
		"XYZ": {ProductID: "XYZ", Name: "Wireless Headphones", Quantity: 25},
		"ABC": {ProductID: "ABC", Name: "Standing Desk", Quantity: 0, NextRestock: &restock},
	}}
	svc := newTestService(&fakeOrders{}, inv, &fakeTickets{}, nil)
	ctx := context.Background()

	for id, item := range inv.items {
		got, err := svc.CheckInventory(ctx, id)
		if err != nil {
			t.Fatalf("CheckInventory(%q) error = %v", id, err)
		}
		if got.Item.InStock() != (item.Quantity > 0) {
			t.Errorf("%s in_stock mismatch", id)
		}
	}

	abc, _ := svc.CheckInventory(ctx, "ABC")
	want := `{"product_id":"ABC","name":"Standing Desk","in_stock":false,"quantity":0,"next_restock":"2024-03-01"}`
	if js := mustJSON(t, abc); js != want {
		t.Errorf("json = %s, want %s", js, want)
	}

	missing, err := svc.CheckInventory(ctx, "nope")
	if err != nil {
		t.Fatalf("missing product error = %v", err)
	}
	if js := mustJSON(t, missing); js != `{"error":"Product not found"}` {
		t.Errorf("not found json = %s", js)
	}

	faulty := newTestService(&fakeOrders{}, &fakeInventory{err: errors.New("timeout")}, &fakeTickets{}, nil)
	if _, err := faulty.CheckInventory(ctx, "XYZ"); err == nil {
		t.Error("expected storage fault")
	}
}

func TestCheckReturnPolicy(t *testing.T) {
	svc := newTestService(&fakeOrders{}, &fakeInventory{}, &fakeTickets{}, nil)
	if got := svc.CheckReturnPolicy("electronics"); !strings.Contains(got, "30-day") {
		t.Errorf("electronics = %q", got)
	}
	if got := svc.CheckReturnPolicy("unknown"); got != "Standard 30-day return policy applies" {
		t.Errorf("fallback = %q", got)
	}
}

func TestCreateSupportTicket(t *testing.T) {
	tickets := &fakeTickets{}
	d := events.NewInMemoryDispatcher()
	var published []events.Event
	d.Subscribe(events.EventTicketCreated, func(_ context.Context, e events.Event) error {
		published = append(published, e)
		return nil
	})
	svc := newTestService(&fakeOrders{}, &fakeInventory{}, tickets, d)

	conf, err := svc.CreateSupportTicket(context.Background(), "jane@example.com", "My $800 refund hasn't arrived", "HIGH")
	if err != nil {
		t.Fatalf("CreateSupportTicket() error = %v", err)
	}
	if !strings.HasPrefix(conf.TicketID, "TKT-") {
		t.Errorf("ticket id = %q", conf.TicketID)
	}
	want := "Support ticket " + conf.TicketID + " created. Team will respond within 24 hours."
	if conf.Message != want {
		t.Errorf("message = %q, want %q", conf.Message, want)
	}
	if len(tickets.created) != 1 {
		t.Fatalf("created %d tickets, want 1", len(tickets.created))
	}
	stored := tickets.created[0]
	if stored.Status != domain.TicketStatusOpen || stored.Priority != domain.TicketPriorityHigh {
		t.Errorf("stored ticket = %+v", stored)
	}
	if len(published) != 1 || published[0].TicketID != conf.TicketID || published[0].ID == "" {
		t.Errorf("published = %+v", published)
	}
}

func TestCreateSupportTicketSameSecond(t *testing.T) {
	fixed := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	tickets := &fakeTickets{}
	svc := NewSupportService(SupportDependencies{
		OrderRepo:     &fakeOrders{},
		InventoryRepo: &fakeInventory{},
		TicketRepo:    tickets,
		TicketIDs:     NewTicketIDGenerator(func() time.Time { return fixed }),
	})

	const n = 5
	ids := map[string]bool{}
	for i := 0; i < n; i++ {
		conf, err := svc.CreateSupportTicket(context.Background(), "a@b.c", "issue", "low")
		if err != nil {
			t.Fatalf("call %d error = %v", i, err)
		}
		ids[conf.TicketID] = true
	}
	if len(ids) != n || len(tickets.created) != n {
		t.Errorf("got %d distinct ids and %d records, want %d", len(ids), len(tickets.created), n)
	}
}

func TestCreateSupportTicketRetriesOnCrossProcessCollision(t *testing.T) {
	fixed := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	tickets := &fakeTickets{seen: map[string]bool{"TKT-20240501100000": true}}
	svc := NewSupportService(SupportDependencies{
		OrderRepo:     &fakeOrders{},
		InventoryRepo: &fakeInventory{},
		TicketRepo:    tickets,
		TicketIDs:     NewTicketIDGenerator(func() time.Time { return fixed }),
	})

	conf, err := svc.CreateSupportTicket(context.Background(), "a@b.c", "issue", "")
	if err != nil {
		t.Fatalf("error = %v", err)
	}
	if !strings.HasPrefix(conf.TicketID, "TKT-20240501100000-") || len(conf.TicketID) != len("TKT-20240501100000-ABCDEF") {
		t.Errorf("ticket id = %q", conf.TicketID)
	}
	if tickets.created[0].Priority != domain.TicketPriorityMedium {
		t.Errorf("priority = %q, want medium", tickets.created[0].Priority)
	}
}

func TestCreateSupportTicketStorageFault(t *testing.T) {
	fault := errors.New("disk full")
	svc := newTestService(&fakeOrders{}, &fakeInventory{}, &fakeTickets{err: fault}, nil)
	if _, err := svc.CreateSupportTicket(context.Background(), "a@b.c", "x", "low"); !errors.Is(err, fault) {
		t.Errorf("err = %v, want fault", err)
	}
}
