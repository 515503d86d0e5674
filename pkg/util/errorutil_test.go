package util

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
)

func TestToDomainError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		code   string
		status int
	}{
		{"domain", NewUnauthorized("nope"), "UNAUTHORIZED", http.StatusUnauthorized},
		{"wrapped domain", fmt.Errorf("ctx: %w", NewValidationError("bad", nil)), "VALIDATION_FAILED", http.StatusBadRequest},
		{"no rows", fmt.Errorf("lookup: %w", pgx.ErrNoRows), "NOT_FOUND", http.StatusNotFound},
		{"fiber", fiber.ErrNotFound, "NOT_FOUND", http.StatusNotFound},
		{"fiber conflict", fiber.NewError(http.StatusConflict, "taken"), "REQUEST_FAILED", http.StatusConflict},
		{"deadline", fmt.Errorf("list tickets: %w", context.DeadlineExceeded), "TIMEOUT", http.StatusGatewayTimeout},
		{"plain", errors.New("boom"), "INTERNAL_ERROR", http.StatusInternalServerError},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ToDomainError(tc.err)
			if got.Code != tc.code || got.HTTPStatus != tc.status {
				t.Errorf("ToDomainError() = %s/%d, want %s/%d", got.Code, got.HTTPStatus, tc.code, tc.status)
			}
		})
	}
	if ToDomainError(nil) != nil {
		t.Error("nil error should map to nil")
	}
}

func TestInternalErrorHidesCause(t *testing.T) {
	err := ToDomainError(errors.New("password=hunter2"))
	if err.Message != "internal server error" {
		t.Errorf("message = %q", err.Message)
	}
	if !errors.Is(err, err.Err) {
		t.Error("cause should stay unwrappable")
	}
}
