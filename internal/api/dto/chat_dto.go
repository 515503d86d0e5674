package dto

import "github.com/spec-kit/support-agent/internal/monitor"

// MaxQueryLength bounds the accepted query text in bytes.
const MaxQueryLength = 4000

// ChatRequest is the body of POST /v1/chat.
type ChatRequest struct {
	Query      string `json:"query"`
	CustomerID string `json:"customer_id"`
}

// ChatResponse mirrors the runner result. Error is filled for operators only.
type ChatResponse struct {
	Status       string   `json:"status"`
	Response     string   `json:"response"`
	ResponseTime *float64 `json:"response_time,omitempty"`
	Error        string   `json:"error,omitempty"`
	TicketID     string   `json:"ticket_id,omitempty"`
}

// NewChatResponse converts a runner result, dropping fault detail unless
// the caller may see it.
func NewChatResponse(res monitor.Result, showError bool) ChatResponse {
	out := ChatResponse{
		Status:       res.Status,
		Response:     res.Response,
		ResponseTime: res.ResponseTime,
		TicketID:     res.TicketID,
	}
	if showError {
		out.Error = res.Error
	}
	return out
}

// MetricsResponse is the body of GET /v1/metrics.
type MetricsResponse struct {
	monitor.Snapshot
	HTTP any `json:"http,omitempty"`
}
