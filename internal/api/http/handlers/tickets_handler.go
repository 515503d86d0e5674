package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-agent/internal/api/dto"
	"github.com/spec-kit/support-agent/internal/auth"
	"github.com/spec-kit/support-agent/internal/domain"
	"github.com/spec-kit/support-agent/internal/service"
	apperrors "github.com/spec-kit/support-agent/pkg/util"
)

// TicketDesk is the operator ticket workflow.
type TicketDesk interface {
	ListTickets(ctx context.Context, filter service.TicketListFilter) ([]domain.Ticket, error)
	GetTicket(ctx context.Context, ticketID string) (*domain.Ticket, []domain.TicketHistory, error)
	UpdateStatus(ctx context.Context, operatorID, ticketID string, newStatus domain.TicketStatus, comment string) (*domain.Ticket, error)
}

// TicketsHandler exposes ticket follow-up endpoints to operators.
type TicketsHandler struct {
	tickets TicketDesk
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(tickets TicketDesk) *TicketsHandler {
	return &TicketsHandler{tickets: tickets}
}

// List handles GET /v1/tickets. Limits above repository.MaxListLimit are
// clamped.
func (h *TicketsHandler) List(c *fiber.Ctx) error {
	filter := service.TicketListFilter{
		Limit:  c.QueryInt("limit", 50),
		Offset: c.QueryInt("offset", 0),
	}
	if filter.Limit < 0 || filter.Offset < 0 {
		return apperrors.NewValidationError("limit and offset must not be negative",
			map[string]any{"limit": filter.Limit, "offset": filter.Offset})
	}
	if raw := c.Query("status"); raw != "" {
		status, ok := domain.ParseTicketStatus(raw)
		if !ok {
			return apperrors.NewValidationError("unknown status", map[string]any{"status": raw})
		}
		filter.Status = &status
	}
	if raw := c.Query("priority"); raw != "" {
		priority := domain.NormalizePriority(raw)
		filter.Priority = &priority
	}

	tickets, err := h.tickets.ListTickets(c.UserContext(), filter)
	if err != nil {
		return err
	}
	out := make([]dto.TicketResponse, 0, len(tickets))
	for _, t := range tickets {
		out = append(out, dto.NewTicketResponse(t))
	}
	return c.JSON(fiber.Map{"data": out})
}

// Get handles GET /v1/tickets/:id.
func (h *TicketsHandler) Get(c *fiber.Ctx) error {
	ticket, history, err := h.tickets.GetTicket(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"ticket":  dto.NewTicketResponse(*ticket),
			"history": dto.NewTicketHistoryResponse(history),
		},
	})
}

// UpdateStatus handles PATCH /v1/tickets/:id/status.
func (h *TicketsHandler) UpdateStatus(c *fiber.Ctx) error {
	var req dto.TicketStatusUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	status, ok := domain.ParseTicketStatus(req.Status)
	if !ok {
		return apperrors.NewValidationError("unknown status", map[string]any{"status": req.Status})
	}

	operatorID := ""
	if principal, ok := auth.PrincipalFromContext(c); ok {
		operatorID = principal.SubjectID
	}

	ticket, err := h.tickets.UpdateStatus(c.UserContext(), operatorID, c.Params("id"), status, req.Comment)
	if err != nil {
		if errors.Is(err, service.ErrInvalidTransition) {
			return apperrors.NewDomainError("INVALID_TRANSITION", err.Error(), fiber.StatusConflict, nil)
		}
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponse(*ticket)})
}
