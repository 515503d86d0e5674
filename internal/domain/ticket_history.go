package domain

import "time"

// TicketHistory is an immutable audit entry for a ticket status change.
type TicketHistory struct {
	ID        int64
	TicketID  string
	ChangedBy string
	OldStatus TicketStatus
	NewStatus TicketStatus
	Comment   string
	CreatedAt time.Time
}
