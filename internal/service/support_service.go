package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/support-agent/internal/domain"
	"github.com/spec-kit/support-agent/internal/events"
	"github.com/spec-kit/support-agent/internal/policy"
	"github.com/spec-kit/support-agent/internal/repository"
	"github.com/spec-kit/support-agent/pkg/util"
)

// SupportService implements the customer-support lookups and ticket creation.
type SupportService struct {
	orders     repository.OrderRepository
	inventory  repository.InventoryRepository
	tickets    repository.TicketRepository
	ids        *TicketIDGenerator
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// SupportDependencies bundles collaborators for the support service.
type SupportDependencies struct {
	OrderRepo     repository.OrderRepository
	InventoryRepo repository.InventoryRepository
	TicketRepo    repository.TicketRepository
	TicketIDs     *TicketIDGenerator
	Dispatcher    events.Dispatcher
	Logger        *zap.Logger
}

// NewSupportService constructs the service.
func NewSupportService(deps SupportDependencies) *SupportService {
	ids := deps.TicketIDs
	if ids == nil {
		ids = NewTicketIDGenerator(nil)
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SupportService{
		orders:     deps.OrderRepo,
		inventory:  deps.InventoryRepo,
		tickets:    deps.TicketRepo,
		ids:        ids,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// CheckOrderStatus looks up an order. A missing order is a normal result,
// storage failures are returned as errors.
func (s *SupportService) CheckOrderStatus(ctx context.Context, orderID string) (OrderLookup, error) {
	id := domain.NormalizeID(orderID)
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Debug("order not found", zap.String("order_id", id))
			return OrderLookup{}, nil
		}
		return OrderLookup{}, fmt.Errorf("check order status %q: %w", id, err)
	}
	return OrderLookup{Order: order}, nil
}

// CheckReturnPolicy returns the policy text for a product category.
func (s *SupportService) CheckReturnPolicy(category string) string {
	return policy.Lookup(category)
}

// CheckInventory looks up a product's stock level.
func (s *SupportService) CheckInventory(ctx context.Context, productID string) (InventoryLookup, error) {
	id := domain.NormalizeID(productID)
	item, err := s.inventory.GetByProductID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Debug("product not found", zap.String("product_id", id))
			return InventoryLookup{}, nil
		}
		return InventoryLookup{}, fmt.Errorf("check inventory %q: %w", id, err)
	}
	return InventoryLookup{Item: item}, nil
}

// CreateSupportTicket stores an open ticket for human follow-up. Inputs are
// stored as given; only an empty priority is defaulted.
func (s *SupportService) CreateSupportTicket(ctx context.Context, customerEmail, issue, priority string) (TicketConfirmation, error) {
	ticket := &domain.Ticket{
		ID:            s.ids.Next(),
		CustomerEmail: customerEmail,
		Issue:         issue,
		Priority:      domain.NormalizePriority(priority),
		Status:        domain.TicketStatusOpen,
	}

	err := s.tickets.Create(ctx, ticket)
	if errors.Is(err, repository.ErrDuplicateTicketID) {
		ticket.ID = withRandomSuffix(ticket.ID)
		err = s.tickets.Create(ctx, ticket)
	}
	if err != nil {
		return TicketConfirmation{}, fmt.Errorf("create support ticket: %w", err)
	}

	s.logger.Info("support ticket created",
		zap.String("ticket_id", ticket.ID),
		zap.String("priority", string(ticket.Priority)))
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Payload: events.TicketCreatedPayload{
			CustomerEmail: ticket.CustomerEmail,
			Priority:      ticket.Priority,
			IssuePreview:  util.Preview(ticket.Issue, 120),
		},
	})

	return TicketConfirmation{
		TicketID: ticket.ID,
		Message:  fmt.Sprintf("Support ticket %s created. Team will respond within 24 hours.", ticket.ID),
	}, nil
}

func (s *SupportService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handlers failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}
