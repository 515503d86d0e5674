// Package wiring assembles the support agent from configuration so the
// server and the evaluation command share one construction path.
package wiring

import (
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/support-agent/internal/agent"
	"github.com/spec-kit/support-agent/internal/config"
	"github.com/spec-kit/support-agent/internal/conversation"
	"github.com/spec-kit/support-agent/internal/events"
	"github.com/spec-kit/support-agent/internal/llm"
	"github.com/spec-kit/support-agent/internal/monitor"
	"github.com/spec-kit/support-agent/internal/repository"
	"github.com/spec-kit/support-agent/internal/service"
	"github.com/spec-kit/support-agent/internal/tools"
)

// Dependencies are the long-lived handles created by the caller. Redis and
// Dispatcher may be nil; LLM overrides the configured provider when set.
type Dependencies struct {
	Pool       *pgxpool.Pool
	Redis      *redis.Client
	Dispatcher events.Dispatcher
	LLM        llm.Client
	Logger     *zap.Logger
}

// Stack is the assembled agent.
type Stack struct {
	Support       *service.SupportService
	Tickets       *service.TicketService
	Agent         *agent.ToolAgent
	Runner        *monitor.Runner
	Notifications *service.NotificationService
}

// Build constructs repositories, tools, dispatcher and runner.
func Build(cfg config.Config, deps Dependencies) (*Stack, error) {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	mode, err := monitor.ParseEscalationMode(cfg.Agent.EscalationMode)
	if err != nil {
		return nil, err
	}

	client := deps.LLM
	if client == nil {
		client, err = llm.NewFromConfig(cfg.LLM)
		if err != nil {
			return nil, fmt.Errorf("llm client: %w", err)
		}
	}

	ticketRepo := repository.NewTicketRepository(deps.Pool)
	support := service.NewSupportService(service.SupportDependencies{
		OrderRepo:     repository.NewOrderRepository(deps.Pool),
		InventoryRepo: repository.NewInventoryRepository(deps.Pool),
		TicketRepo:    ticketRepo,
		Dispatcher:    deps.Dispatcher,
		Logger:        logger.Named("support"),
	})
	tickets := service.NewTicketService(service.TicketDependencies{
		TicketRepo:  ticketRepo,
		HistoryRepo: repository.NewTicketHistoryRepository(deps.Pool),
		Dispatcher:  deps.Dispatcher,
		Logger:      logger.Named("tickets"),
	})

	toolAgent := agent.NewToolAgent(client, tools.NewRegistry(support),
		agent.WithMaxIterations(cfg.Agent.MaxIterations),
		agent.WithLogger(logger.Named("agent")),
	)

	var history conversation.Store
	if deps.Redis != nil {
		history = conversation.NewRedisStore(deps.Redis, cfg.Agent.HistoryTurns, cfg.Agent.HistoryTTL())
	} else {
		history = conversation.NewMemoryStore(cfg.Agent.HistoryTurns)
	}

	runnerDeps := monitor.RunnerDependencies{
		Dispatcher:     toolAgent,
		EscalationMode: mode,
		History:        history,
		Events:         deps.Dispatcher,
		Logger:         logger.Named("runner"),
	}
	if cfg.Agent.TicketOnFailure {
		runnerDeps.FallbackTickets = support
	}

	stack := &Stack{
		Support: support,
		Tickets: tickets,
		Agent:   toolAgent,
		Runner:  monitor.NewRunner(runnerDeps),
	}
	if deps.Dispatcher != nil {
		stack.Notifications = service.NewNotificationService(deps.Dispatcher, logger.Named("notifications"), cfg.Notification)
	}
	return stack, nil
}
