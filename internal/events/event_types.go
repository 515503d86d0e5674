package events

import (
	"time"

	"github.com/spec-kit/support-agent/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated       EventType = "ticket_created"
	EventTicketStatusChanged EventType = "ticket_status_changed"
	EventQueryEscalated      EventType = "query_escalated"
	EventQueryFailed         EventType = "query_failed"
)

// AllEventTypes lists every event the service emits.
var AllEventTypes = []EventType{
	EventTicketCreated,
	EventTicketStatusChanged,
	EventQueryEscalated,
	EventQueryFailed,
}

// Event represents a domain event emitted by services.
type Event struct {
	ID         string      `json:"id"`
	Type       EventType   `json:"type"`
	TicketID   string      `json:"ticket_id,omitempty"`
	CustomerID string      `json:"customer_id,omitempty"`
	Timestamp  time.Time   `json:"timestamp"`
	Payload    interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	CustomerEmail string                `json:"customer_email"`
	Priority      domain.TicketPriority `json:"priority"`
	IssuePreview  string                `json:"issue_preview"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
	ChangedBy string              `json:"changed_by"`
	Comment   string              `json:"comment,omitempty"`
}

// QueryEscalatedPayload payload.
type QueryEscalatedPayload struct {
	QueryPreview  string `json:"query_preview"`
	TicketCreated bool   `json:"ticket_created"`
}

// QueryFailedPayload payload.
type QueryFailedPayload struct {
	QueryPreview string `json:"query_preview"`
	Error        string `json:"error"`
}
