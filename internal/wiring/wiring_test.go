package wiring

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/spec-kit/support-agent/internal/config"
	"github.com/spec-kit/support-agent/internal/events"
	"github.com/spec-kit/support-agent/internal/llm"
	"github.com/spec-kit/support-agent/internal/monitor"
	"github.com/spec-kit/support-agent/internal/tools"
)

// toolThenAnswer requests one tool call and then answers with the tool output.
type toolThenAnswer struct {
	call llm.ToolCall
}

func (s *toolThenAnswer) Complete(_ context.Context, _ string, messages []llm.Message, _ []llm.Tool) (*llm.Response, error) {
	last := messages[len(messages)-1]
	if last.Role == llm.RoleTool {
		return &llm.Response{Content: "Result: " + last.Content, Done: true}, nil
	}
	return &llm.Response{ToolCalls: []llm.ToolCall{s.call}}, nil
}

func testConfig() config.Config {
	return config.Config{Agent: config.AgentConfig{MaxIterations: 3, HistoryTurns: 2}}
}

func TestBuildAnswersPolicyWithoutDatabase(t *testing.T) {
	client := &toolThenAnswer{call: llm.ToolCall{
		ID: "1", Name: tools.ToolCheckReturnPolicy, Input: json.RawMessage(`{"product_type":"Clothing"}`),
	}}
	stack, err := Build(testConfig(), Dependencies{LLM: client, Dispatcher: events.NewInMemoryDispatcher()})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if stack.Notifications == nil {
		t.Error("notifications not built with a dispatcher")
	}

	res := stack.Runner.Run(context.Background(), "What's your return policy for clothing?", "")
	if res.Status != monitor.StatusSuccess || !strings.Contains(res.Response, "60-day") {
		t.Errorf("result = %+v", res)
	}
}

func TestBuildStorageUnavailable(t *testing.T) {
	cfg := testConfig()
	cfg.Agent.TicketOnFailure = true
	client := &toolThenAnswer{call: llm.ToolCall{
		ID: "1", Name: tools.ToolCheckOrderStatus, Input: json.RawMessage(`{"order_id":"12345"}`),
	}}
	stack, err := Build(cfg, Dependencies{LLM: client})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	res := stack.Runner.Run(context.Background(), "Where is order 12345?", "")
	if res.Status != monitor.StatusError || res.Response != monitor.ApologyMessage {
		t.Errorf("result = %+v", res)
	}
	if !strings.Contains(res.Error, "not configured") {
		t.Errorf("error = %q", res.Error)
	}
}

func TestBuildRejectsBadConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Agent.EscalationMode = "vibes"
	if _, err := Build(cfg, Dependencies{LLM: &toolThenAnswer{}}); err == nil {
		t.Error("expected error for unknown escalation mode")
	}
	if _, err := Build(testConfig(), Dependencies{}); err == nil {
		t.Error("expected error without llm api key")
	}
}
