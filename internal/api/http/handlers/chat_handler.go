package handlers

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-agent/internal/api/dto"
	"github.com/spec-kit/support-agent/internal/auth"
	"github.com/spec-kit/support-agent/internal/monitor"
	apperrors "github.com/spec-kit/support-agent/pkg/util"
)

// QueryRunner answers customer queries and reports aggregate metrics.
type QueryRunner interface {
	RunQuery(ctx context.Context, q monitor.Query) monitor.Result
	GetMetrics() monitor.Snapshot
}

// ChatHandler exposes the caller-facing entry point.
type ChatHandler struct {
	runner QueryRunner
}

// NewChatHandler constructs handler.
func NewChatHandler(runner QueryRunner) *ChatHandler {
	return &ChatHandler{runner: runner}
}

// Chat handles POST /v1/chat. A customer token pins the customer id to the
// token subject and is the only way to reach stored history. A body
// customer_id without one is unverified. Fault detail is only returned to
// operators.
func (h *ChatHandler) Chat(c *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return apperrors.NewValidationError("query required", nil)
	}
	if len(query) > dto.MaxQueryLength {
		return apperrors.NewValidationError("query too long", map[string]any{"max_length": dto.MaxQueryLength})
	}

	q := monitor.Query{Text: query, CustomerID: strings.TrimSpace(req.CustomerID)}
	principal, _ := auth.PrincipalFromContext(c)
	if principal != nil && !principal.IsOperator() {
		q.CustomerID = principal.SubjectID
		q.Verified = true
	}

	res := h.runner.RunQuery(c.UserContext(), q)
	return c.JSON(fiber.Map{
		"data": dto.NewChatResponse(res, principal.IsOperator()),
	})
}
