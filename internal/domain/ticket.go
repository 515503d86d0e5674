package domain

import (
	"strings"
	"time"
)

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "open"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusResolved   TicketStatus = "resolved"
	TicketStatusClosed     TicketStatus = "closed"
)

// TicketPriority enumerates SLA urgency.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "low"
	TicketPriorityMedium TicketPriority = "medium"
	TicketPriorityHigh   TicketPriority = "high"
	TicketPriorityUrgent TicketPriority = "urgent"
)

// NormalizePriority lower-cases the label and defaults empty input to medium.
// Unknown labels are kept as given; the ticket store does not validate them.
func NormalizePriority(raw string) TicketPriority {
	p := strings.ToLower(strings.TrimSpace(raw))
	if p == "" {
		return TicketPriorityMedium
	}
	return TicketPriority(p)
}

// Ticket is a support request handed over to human agents.
type Ticket struct {
	ID            string
	CustomerEmail string
	Issue         string
	Priority      TicketPriority
	Status        TicketStatus
	CreatedAt     time.Time
}

var ticketTransitions = map[TicketStatus][]TicketStatus{
	TicketStatusOpen:       {TicketStatusInProgress, TicketStatusResolved, TicketStatusClosed},
	TicketStatusInProgress: {TicketStatusOpen, TicketStatusResolved, TicketStatusClosed},
	TicketStatusResolved:   {TicketStatusInProgress, TicketStatusClosed},
	TicketStatusClosed:     {},
}

// ParseTicketStatus validates a status label.
func ParseTicketStatus(raw string) (TicketStatus, bool) {
	s := TicketStatus(strings.ToLower(strings.TrimSpace(raw)))
	_, ok := ticketTransitions[s]
	return s, ok
}

// CanTransition reports whether a ticket may move from s to next. Closed is terminal.
func (s TicketStatus) CanTransition(next TicketStatus) bool {
	for _, candidate := range ticketTransitions[s] {
		if candidate == next {
			return true
		}
	}
	return false
}
