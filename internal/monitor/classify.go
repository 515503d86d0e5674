package monitor

import (
	"fmt"
	"strings"

	"github.com/spec-kit/support-agent/internal/agent"
)

// EscalationMode selects how a reply is judged to need human follow-up.
type EscalationMode string

const (
	// EscalateEither flags a reply when a ticket was stored or the text mentions one.
	EscalateEither EscalationMode = "either"
	// EscalateStructured trusts only the dispatcher's ticket signal.
	EscalateStructured EscalationMode = "structured"
	// EscalateSubstring looks only for "ticket" in the reply text.
	EscalateSubstring EscalationMode = "substring"
)

// ParseEscalationMode validates a configured mode; empty means EscalateEither.
func ParseEscalationMode(raw string) (EscalationMode, error) {
	switch mode := EscalationMode(strings.ToLower(strings.TrimSpace(raw))); mode {
	case "":
		return EscalateEither, nil
	case EscalateEither, EscalateStructured, EscalateSubstring:
		return mode, nil
	default:
		return "", fmt.Errorf("unknown escalation mode %q", raw)
	}
}

func mentionsTicket(text string) bool {
	return strings.Contains(strings.ToLower(text), "ticket")
}

// Classify returns the outcome of a successful dispatch.
func (m EscalationMode) Classify(reply agent.Reply) Outcome {
	var escalated bool
	switch m {
	case EscalateStructured:
		escalated = reply.TicketCreated
	case EscalateSubstring:
		escalated = mentionsTicket(reply.Output)
	default:
		escalated = reply.TicketCreated || mentionsTicket(reply.Output)
	}
	if escalated {
		return OutcomeEscalated
	}
	return OutcomeResolved
}
