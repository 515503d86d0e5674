package dto

import (
	"time"

	"github.com/spec-kit/support-agent/internal/domain"
)

// TicketResponse is the operator view of a ticket.
type TicketResponse struct {
	ID            string    `json:"ticket_id"`
	CustomerEmail string    `json:"customer_email"`
	Issue         string    `json:"issue"`
	Priority      string    `json:"priority"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

// TicketHistoryResponse is one audit entry.
type TicketHistoryResponse struct {
	ChangedBy string    `json:"changed_by"`
	OldStatus string    `json:"old_status"`
	NewStatus string    `json:"new_status"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// TicketStatusUpdateRequest is the body of PATCH /v1/tickets/:id/status.
type TicketStatusUpdateRequest struct {
	Status  string `json:"status"`
	Comment string `json:"comment"`
}

// NewTicketResponse converts a domain ticket.
func NewTicketResponse(t domain.Ticket) TicketResponse {
	return TicketResponse{
		ID:            t.ID,
		CustomerEmail: t.CustomerEmail,
		Issue:         t.Issue,
		Priority:      string(t.Priority),
		Status:        string(t.Status),
		CreatedAt:     t.CreatedAt,
	}
}

// NewTicketHistoryResponse converts audit entries.
func NewTicketHistoryResponse(entries []domain.TicketHistory) []TicketHistoryResponse {
	out := make([]TicketHistoryResponse, 0, len(entries))
	for _, h := range entries {
		out = append(out, TicketHistoryResponse{
			ChangedBy: h.ChangedBy,
			OldStatus: string(h.OldStatus),
			NewStatus: string(h.NewStatus),
			Comment:   h.Comment,
			CreatedAt: h.CreatedAt,
		})
	}
	return out
}
