package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/support-agent/internal/domain"
	"github.com/spec-kit/support-agent/internal/events"
	"github.com/spec-kit/support-agent/internal/repository"
)

// ErrInvalidTransition is returned when a status change is not allowed.
var ErrInvalidTransition = errors.New("invalid status transition")

// TicketService lets operators follow up on tickets raised by the agent.
type TicketService struct {
	tickets    repository.TicketRepository
	history    repository.TicketHistoryRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// TicketDependencies bundles repositories for ticket service.
type TicketDependencies struct {
	TicketRepo  repository.TicketRepository
	HistoryRepo repository.TicketHistoryRepository
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
}

// TicketListFilter describes operator listing filters.
type TicketListFilter struct {
	Status   *domain.TicketStatus
	Priority *domain.TicketPriority
	Limit    int
	Offset   int
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TicketService{
		tickets:    deps.TicketRepo,
		history:    deps.HistoryRepo,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// ListTickets returns the newest tickets first.
func (s *TicketService) ListTickets(ctx context.Context, filter TicketListFilter) ([]domain.Ticket, error) {
	return s.tickets.List(ctx, repository.TicketFilter{
		Status:   filter.Status,
		Priority: filter.Priority,
		Limit:    filter.Limit,
		Offset:   filter.Offset,
	})
}

// GetTicket returns a ticket and its status history.
func (s *TicketService) GetTicket(ctx context.Context, ticketID string) (*domain.Ticket, []domain.TicketHistory, error) {
	ticket, err := s.tickets.GetByID(ctx, domain.NormalizeID(ticketID))
	if err != nil {
		return nil, nil, err
	}
	if s.history == nil {
		return ticket, []domain.TicketHistory{}, nil
	}
	history, err := s.history.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("list ticket history: %w", err)
	}
	return ticket, history, nil
}

// UpdateStatus moves a ticket along its lifecycle and records who did it.
// A concurrent change that lands first makes this call fail with
// ErrInvalidTransition instead of overwriting it.
func (s *TicketService) UpdateStatus(ctx context.Context, operatorID, ticketID string, newStatus domain.TicketStatus, comment string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, domain.NormalizeID(ticketID))
	if err != nil {
		return nil, err
	}
	if !ticket.Status.CanTransition(newStatus) {
		return nil, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, ticket.Status, newStatus)
	}

	oldStatus := ticket.Status
	change := &domain.TicketHistory{
		TicketID:  ticket.ID,
		ChangedBy: operatorID,
		OldStatus: oldStatus,
		NewStatus: newStatus,
		Comment:   comment,
	}
	if err := s.tickets.TransitionStatus(ctx, change); err != nil {
		if errors.Is(err, repository.ErrStaleStatus) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidTransition, err)
		}
		return nil, fmt.Errorf("change ticket status: %w", err)
	}
	ticket.Status = newStatus

	s.logger.Info("ticket status changed",
		zap.String("ticket_id", ticket.ID),
		zap.String("old_status", string(oldStatus)),
		zap.String("new_status", string(newStatus)),
		zap.String("operator", operatorID))

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketStatusChanged,
		TicketID: ticket.ID,
		Payload: events.TicketStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: newStatus,
			ChangedBy: operatorID,
			Comment:   comment,
		},
	})
	return ticket, nil
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = time.Now()
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handlers failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}
