package service

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	ticketPrefix      = "TKT-"
	ticketStampLayout = "20060102150405"
)

// TicketIDGenerator issues TKT-YYYYMMDDHHMMSS identifiers. A second id issued
// within the same second gets a -NN sequence suffix so ids stay distinct
// inside one process.
type TicketIDGenerator struct {
	mu        sync.Mutex
	now       func() time.Time
	lastStamp string
	seq       int
}

// NewTicketIDGenerator uses the wall clock when now is nil.
func NewTicketIDGenerator(now func() time.Time) *TicketIDGenerator {
	if now == nil {
		now = time.Now
	}
	return &TicketIDGenerator{now: now}
}

// Next returns the next identifier.
func (g *TicketIDGenerator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	stamp := g.now().Format(ticketStampLayout)
	if stamp != g.lastStamp {
		g.lastStamp = stamp
		g.seq = 1
		return ticketPrefix + stamp
	}
	g.seq++
	return fmt.Sprintf("%s%s-%02d", ticketPrefix, stamp, g.seq)
}

// withRandomSuffix disambiguates an id that collided with another process.
func withRandomSuffix(id string) string {
	return id + "-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
}
