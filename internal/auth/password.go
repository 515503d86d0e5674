package auth

import (
	"crypto/subtle"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/support-agent/internal/config"
	"github.com/spec-kit/support-agent/internal/domain"
)

// ErrInvalidCredentials is returned for any failed operator login.
var ErrInvalidCredentials = errors.New("invalid credentials")

// HashPassword hashes a plaintext password with configured cost.
func HashPassword(password string, cost int) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// ComparePassword verifies a password against its hashed value.
func ComparePassword(hashed, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
}

// OperatorAuthenticator checks the single configured operator account.
// Login is disabled while no password hash is configured.
type OperatorAuthenticator struct {
	username     string
	passwordHash string
	tokens       *TokenManager
}

// NewOperatorAuthenticator builds the authenticator from auth config.
func NewOperatorAuthenticator(cfg config.AuthConfig, tokens *TokenManager) *OperatorAuthenticator {
	return &OperatorAuthenticator{
		username:     cfg.OperatorUsername,
		passwordHash: cfg.OperatorPasswordHash,
		tokens:       tokens,
	}
}

// Login verifies the credentials and issues an operator token.
func (a *OperatorAuthenticator) Login(username, password string) (string, time.Time, error) {
	if a.passwordHash == "" {
		return "", time.Time{}, ErrInvalidCredentials
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.username)) == 1
	if err := ComparePassword(a.passwordHash, password); err != nil || !userOK {
		return "", time.Time{}, ErrInvalidCredentials
	}
	return a.tokens.GenerateToken(a.username, domain.SubjectOperator)
}

// CustomerToken issues a token scoped to one customer id.
func (a *OperatorAuthenticator) CustomerToken(customerID string) (string, time.Time, error) {
	return a.tokens.GenerateToken(customerID, domain.SubjectCustomer)
}
