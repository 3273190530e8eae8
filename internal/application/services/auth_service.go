package services

import (
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"github.com/commonsforge/pagecraft-go/internal/infrastructure/observability/logging"
	"github.com/commonsforge/pagecraft-go/internal/infrastructure/security"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned for any failed login attempt.
var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthService issues and validates dashboard role tokens. Passwords come
// from the environment and may be stored as bcrypt hashes or plain text.
type AuthService struct {
	jwtSecret      string
	adminPassword  string
	editorPassword string
	tokenLifetime  time.Duration
	allowDemo      bool
	logger         *logging.ChanneledLogger
}

// NewAuthService creates the auth service from configured secrets.
func NewAuthService(jwtSecret, adminPassword, editorPassword string, tokenLifetime time.Duration, allowDemo bool, logger *logging.ChanneledLogger) *AuthService {
	return &AuthService{
		jwtSecret:      jwtSecret,
		adminPassword:  adminPassword,
		editorPassword: editorPassword,
		tokenLifetime:  tokenLifetime,
		allowDemo:      allowDemo,
		logger:         logger,
	}
}

// Login verifies the password against the configured role passwords and
// returns a signed role token. Admin is tried first so a shared password
// grants the stronger role deliberately, never by accident.
func (s *AuthService) Login(password string) (token, role string, err error) {
	switch {
	case matchPassword(s.adminPassword, password):
		role = security.RoleAdmin
	case matchPassword(s.editorPassword, password):
		role = security.RoleEditor
	case s.allowDemo && password == "":
		role = security.RoleEditor
	default:
		s.logger.Auth().Warn("Login rejected")
		return "", "", ErrInvalidCredentials
	}

	token, err = security.GenerateRoleToken(role, s.jwtSecret, s.tokenLifetime)
	if err != nil {
		return "", "", err
	}
	s.logger.Auth().Info("Login succeeded", "role", role)
	return token, role, nil
}

// ValidateToken checks a bearer token and returns its role.
func (s *AuthService) ValidateToken(token string) (string, error) {
	return security.ValidateRoleToken(token, s.jwtSecret)
}

// matchPassword compares a candidate against a stored password that is
// either a bcrypt hash or plain text. Empty stored passwords never match.
func matchPassword(stored, candidate string) bool {
	if stored == "" {
		return false
	}
	if strings.HasPrefix(stored, "$2a$") || strings.HasPrefix(stored, "$2b$") || strings.HasPrefix(stored, "$2y$") {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(candidate)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(candidate)) == 1
}
