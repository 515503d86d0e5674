package agent

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/support-agent/internal/llm"
	"github.com/spec-kit/support-agent/internal/tools"
)

// ErrMaxIterations is returned when the model keeps calling tools past the
// configured limit.
var ErrMaxIterations = errors.New("agent stopped due to max iterations")

// DefaultMaxIterations bounds the tool loop when no limit is configured.
const DefaultMaxIterations = 5

// ToolInvocation records one tool call made while answering.
type ToolInvocation struct {
	Tool   string `json:"tool"`
	Input  string `json:"input"`
	Output string `json:"output"`
}

// Reply is the dispatcher's final answer.
type Reply struct {
	Output    string
	ToolCalls []ToolInvocation
	// TicketCreated is set when a support ticket was stored during dispatch.
	TicketCreated bool
	TicketID      string
}

// Dispatcher maps free text to a reply, possibly invoking tools on the way.
type Dispatcher interface {
	Dispatch(ctx context.Context, input string, history []llm.Message) (Reply, error)
}

// Executor runs tool calls.
type Executor interface {
	Tools() []llm.Tool
	Execute(ctx context.Context, call llm.ToolCall) (tools.Result, error)
}

// ToolAgent is the LLM-backed Dispatcher.
type ToolAgent struct {
	llm           llm.Client
	executor      Executor
	systemPrompt  string
	maxIterations int
	logger        *zap.Logger
}

// Option configures a ToolAgent.
type Option func(*ToolAgent)

// WithMaxIterations sets the maximum number of model round trips.
func WithMaxIterations(n int) Option {
	return func(a *ToolAgent) {
		if n > 0 {
			a.maxIterations = n
		}
	}
}

// WithSystemPrompt replaces the behavioural policy text.
func WithSystemPrompt(prompt string) Option {
	return func(a *ToolAgent) { a.systemPrompt = prompt }
}

// WithLogger attaches a logger.
func WithLogger(logger *zap.Logger) Option {
	return func(a *ToolAgent) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// NewToolAgent builds a dispatcher over the given model and tools.
func NewToolAgent(client llm.Client, executor Executor, opts ...Option) *ToolAgent {
	a := &ToolAgent{
		llm:           client,
		executor:      executor,
		systemPrompt:  SystemPrompt,
		maxIterations: DefaultMaxIterations,
		logger:        zap.NewNop(),
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Dispatch runs the tool loop until the model answers with text.
// Provider errors, storage faults raised by tools and exceeding the
// iteration limit are returned as errors.
func (a *ToolAgent) Dispatch(ctx context.Context, input string, history []llm.Message) (Reply, error) {
	messages := make([]llm.Message, 0, len(history)+1)
	messages = append(messages, history...)
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: input})

	catalog := a.executor.Tools()
	var reply Reply

	for iteration := 1; iteration <= a.maxIterations; iteration++ {
		resp, err := a.llm.Complete(ctx, a.systemPrompt, messages, catalog)
		if err != nil {
			return reply, fmt.Errorf("llm call %d: %w", iteration, err)
		}

		if resp.Done || len(resp.ToolCalls) == 0 {
			reply.Output = resp.Content
			return reply, nil
		}

		messages = append(messages, llm.Message{
			Role:      llm.RoleAssistant,
			Content:   resp.Content,
			ToolCalls: resp.ToolCalls,
		})

		for _, tc := range resp.ToolCalls {
			result, err := a.executor.Execute(ctx, tc)
			if err != nil {
				return reply, fmt.Errorf("tool %s: %w", tc.Name, err)
			}
			a.logger.Debug("tool executed",
				zap.Int("iteration", iteration),
				zap.String("tool", result.Tool),
				zap.String("input", result.Input))
			reply.ToolCalls = append(reply.ToolCalls, ToolInvocation{
				Tool:   result.Tool,
				Input:  result.Input,
				Output: result.Output,
			})
			if result.TicketID != "" {
				reply.TicketCreated = true
				reply.TicketID = result.TicketID
			}
			messages = append(messages, llm.Message{
				Role:       llm.RoleTool,
				ToolCallID: tc.ID,
				Content:    result.Output,
			})
		}
	}

	return reply, ErrMaxIterations
}
