package monitor

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/support-agent/internal/agent"
	"github.com/spec-kit/support-agent/internal/conversation"
	"github.com/spec-kit/support-agent/internal/domain"
	"github.com/spec-kit/support-agent/internal/events"
	"github.com/spec-kit/support-agent/internal/llm"
	"github.com/spec-kit/support-agent/internal/service"
	"github.com/spec-kit/support-agent/pkg/util"
)

// Result statuses.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

const (
	// ApologyMessage is shown to callers when an invocation fails.
	ApologyMessage = "I apologize, but I encountered an error. Please try again shortly or ask to speak with a support agent."
	// apologyWithTicket is used when a fallback ticket was stored.
	apologyWithTicket = "I apologize, but I encountered an error. Support ticket %s has been created and our team will follow up."
)

// Result is returned to the caller for every invocation.
type Result struct {
	Status       string                 `json:"status"`
	Response     string                 `json:"response"`
	ResponseTime *float64               `json:"response_time,omitempty"`
	Error        string                 `json:"error,omitempty"`
	Outcome      Outcome                `json:"-"`
	TicketID     string                 `json:"-"`
	ToolCalls    []agent.ToolInvocation `json:"-"`
}

// Query is one caller request. Stored conversation history is read and
// written only when Verified is set, so an unauthenticated customer id is
// used for logging and fallback tickets but never for history.
type Query struct {
	Text       string
	CustomerID string
	Verified   bool
}

// TicketOpener stores a support ticket.
type TicketOpener interface {
	CreateSupportTicket(ctx context.Context, customerEmail, issue, priority string) (service.TicketConfirmation, error)
}

// Runner wraps dispatcher invocations with timing, outcome classification
// and fault containment. It is safe for concurrent use.
type Runner struct {
	dispatcher agent.Dispatcher
	metrics    *Metrics
	mode       EscalationMode
	history    conversation.Store
	tickets    TicketOpener
	events     events.Dispatcher
	logger     *zap.Logger
}

// RunnerDependencies bundles collaborators for the runner. Only Dispatcher
// is required.
type RunnerDependencies struct {
	Dispatcher     agent.Dispatcher
	Metrics        *Metrics
	EscalationMode EscalationMode
	History        conversation.Store
	// FallbackTickets, when set, stores a ticket for every failed invocation.
	FallbackTickets TicketOpener
	Events          events.Dispatcher
	Logger          *zap.Logger
}

// NewRunner constructs the runner.
func NewRunner(deps RunnerDependencies) *Runner {
	metrics := deps.Metrics
	if metrics == nil {
		metrics = NewMetrics()
	}
	mode := deps.EscalationMode
	if mode == "" {
		mode = EscalateEither
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		dispatcher: deps.Dispatcher,
		metrics:    metrics,
		mode:       mode,
		history:    deps.History,
		tickets:    deps.FallbackTickets,
		events:     deps.Events,
		logger:     logger,
	}
}

// GetMetrics returns the current metrics export.
func (r *Runner) GetMetrics() Snapshot {
	return r.metrics.Snapshot()
}

// Run answers one query from a trusted in-process caller; a non-empty
// customerID is treated as verified.
func (r *Runner) Run(ctx context.Context, query, customerID string) Result {
	return r.RunQuery(ctx, Query{Text: query, CustomerID: customerID, Verified: customerID != ""})
}

// RunQuery answers one query. Every fault raised during dispatch is contained
// here and turned into an error result.
func (r *Runner) RunQuery(ctx context.Context, q Query) Result {
	start := time.Now()
	r.metrics.Begin()
	query, customerID := q.Text, q.CustomerID

	historyKey := ""
	if q.Verified {
		historyKey = customerID
	}

	logger := r.logger.With(zap.String("customer_id", customerID), zap.Bool("verified", q.Verified))
	logger.Info("query received", zap.String("query", util.Preview(query, 100)))

	history := r.loadHistory(ctx, historyKey, logger)

	reply, err := r.dispatch(ctx, query, history)
	if err != nil {
		return r.fail(ctx, query, customerID, err, logger)
	}

	elapsed := time.Since(start)
	outcome := r.mode.Classify(reply)
	r.metrics.Record(outcome, elapsed)

	if outcome == OutcomeEscalated {
		logger.Warn("query escalated to support ticket",
			zap.Bool("ticket_created", reply.TicketCreated),
			zap.String("ticket_id", reply.TicketID))
		r.publish(ctx, events.Event{
			Type:       events.EventQueryEscalated,
			TicketID:   reply.TicketID,
			CustomerID: customerID,
			Payload: events.QueryEscalatedPayload{
				QueryPreview:  util.Preview(query, 100),
				TicketCreated: reply.TicketCreated,
			},
		})
	}
	logger.Info("query resolved",
		zap.String("outcome", string(outcome)),
		zap.Float64("response_time", elapsed.Seconds()),
		zap.Int("tool_calls", len(reply.ToolCalls)))

	r.saveHistory(ctx, historyKey, query, reply.Output, logger)

	seconds := elapsed.Seconds()
	return Result{
		Status:       StatusSuccess,
		Response:     reply.Output,
		ResponseTime: &seconds,
		Outcome:      outcome,
		TicketID:     reply.TicketID,
		ToolCalls:    reply.ToolCalls,
	}
}

// dispatch converts a dispatcher panic into an error so the containment
// boundary holds for every fault.
func (r *Runner) dispatch(ctx context.Context, query string, history []llm.Message) (reply agent.Reply, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("dispatcher panic: %v", p)
		}
	}()
	return r.dispatcher.Dispatch(ctx, query, history)
}

func (r *Runner) fail(ctx context.Context, query, customerID string, cause error, logger *zap.Logger) Result {
	r.metrics.Record(OutcomeError, 0)
	logger.Error("agent error", zap.String("query", util.Preview(query, 100)), zap.Error(cause))

	res := Result{
		Status:   StatusError,
		Response: ApologyMessage,
		Error:    cause.Error(),
		Outcome:  OutcomeError,
	}

	if ticketID := r.openFallbackTicket(ctx, query, customerID, cause, logger); ticketID != "" {
		res.Response = fmt.Sprintf(apologyWithTicket, ticketID)
		res.TicketID = ticketID
	}

	r.publish(ctx, events.Event{
		Type:       events.EventQueryFailed,
		TicketID:   res.TicketID,
		CustomerID: customerID,
		Payload: events.QueryFailedPayload{
			QueryPreview: util.Preview(query, 100),
			Error:        cause.Error(),
		},
	})
	return res
}

func (r *Runner) openFallbackTicket(ctx context.Context, query, customerID string, cause error, logger *zap.Logger) string {
	if r.tickets == nil {
		return ""
	}
	contact := customerID
	if contact == "" {
		contact = "unknown"
	}
	issue := fmt.Sprintf("Automated assistant failed to answer: %q (error: %v)", util.Preview(query, 200), cause)
	conf, err := r.tickets.CreateSupportTicket(context.WithoutCancel(ctx), contact, issue, string(domain.TicketPriorityHigh))
	if err != nil {
		logger.Error("fallback ticket failed", zap.Error(err))
		return ""
	}
	return conf.TicketID
}

func (r *Runner) loadHistory(ctx context.Context, customerID string, logger *zap.Logger) []llm.Message {
	if r.history == nil || customerID == "" {
		return nil
	}
	history, err := r.history.Load(ctx, customerID)
	if err != nil {
		logger.Warn("conversation history unavailable", zap.Error(err))
		return nil
	}
	return history
}

func (r *Runner) saveHistory(ctx context.Context, customerID, query, answer string, logger *zap.Logger) {
	if r.history == nil || customerID == "" {
		return
	}
	err := r.history.Append(ctx, customerID,
		llm.Message{Role: llm.RoleUser, Content: query},
		llm.Message{Role: llm.RoleAssistant, Content: answer},
	)
	if err != nil {
		logger.Warn("conversation history not saved", zap.Error(err))
	}
}

func (r *Runner) publish(ctx context.Context, event events.Event) {
	if r.events == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = time.Now()
	if err := r.events.Publish(ctx, event); err != nil {
		r.logger.Warn("event handlers failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}
