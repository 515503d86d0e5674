// Package llm defines the provider-neutral chat types used by the agent and
// adapters for the supported model providers.
package llm

import (
	"context"
	"encoding/json"
)

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// Tool describes a callable function offered to the model.
type Tool struct {
	Name        string
	Description string
	InputSchema json.RawMessage // JSON Schema (type=object)
}

// ToolCall is one function invocation requested by the model.
type ToolCall struct {
	ID    string
	Name  string
	Input json.RawMessage
}

// Message is one turn of the conversation.
type Message struct {
	Role       string     `json:"role"`
	Content    string     `json:"content"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
}

// Response is the model's answer to one completion request.
type Response struct {
	Content   string
	ToolCalls []ToolCall
	Done      bool // true if the model answered with text only
}

// Client performs a single completion round trip.
type Client interface {
	Complete(ctx context.Context, system string, messages []Message, tools []Tool) (*Response, error)
}
