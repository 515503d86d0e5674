package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-agent/internal/api/dto"
	"github.com/spec-kit/support-agent/internal/auth"
	apperrors "github.com/spec-kit/support-agent/pkg/util"
)

// AuthHandler exposes token endpoints.
type AuthHandler struct {
	operators *auth.OperatorAuthenticator
}

// NewAuthHandler constructs handler.
func NewAuthHandler(operators *auth.OperatorAuthenticator) *AuthHandler {
	return &AuthHandler{operators: operators}
}

// OperatorLogin handles POST /auth/operator/login.
func (h *AuthHandler) OperatorLogin(c *fiber.Ctx) error {
	var req dto.OperatorLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Username == "" || req.Password == "" {
		return apperrors.NewValidationError("username and password required", nil)
	}

	token, exp, err := h.operators.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return apperrors.NewUnauthorized(err.Error())
		}
		return apperrors.NewInternalError(err)
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{"auth": dto.AuthResponse{Token: token, ExpiresAt: exp}},
	})
}

// CustomerToken handles POST /auth/customer/token. Operators mint tokens
// for the customers of a fronting application.
func (h *AuthHandler) CustomerToken(c *fiber.Ctx) error {
	var req dto.CustomerTokenRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	customerID := strings.TrimSpace(req.CustomerID)
	if customerID == "" {
		return apperrors.NewValidationError("customer_id required", nil)
	}

	token, exp, err := h.operators.CustomerToken(customerID)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{"auth": dto.AuthResponse{Token: token, ExpiresAt: exp}},
	})
}
