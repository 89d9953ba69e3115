package auth

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/marketplace/internal/domain"
	apperrors "github.com/spec-kit/marketplace/pkg/util"
)

const authContextKey = "auth_context"

// TokenCookieName is the cookie the identity service sets at login and the
// gate reads back. The cookie wins over the Authorization header when a
// client sends both.
const TokenCookieName = "token"

// AuthContext is the request-scoped projection of verified claims. It is
// attached to the request and never persisted.
type AuthContext struct {
	SubjectID string
	Role      domain.Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// AccessGate is the single enforcement point for protected routes. Handlers
// never parse tokens themselves; they read the AuthContext the gate attaches.
type AccessGate struct {
	tokens *TokenManager
}

// NewAccessGate constructs the gate around a verifier.
func NewAccessGate(tokens *TokenManager) *AccessGate {
	return &AccessGate{tokens: tokens}
}

// Handle authenticates the request. A request with no credential at all gets
// 401; any credential that fails verification gets 403 regardless of whether
// it was expired, tampered or garbage.
func (g *AccessGate) Handle(c *fiber.Ctx) error {
	tokenStr := extractToken(c)
	if tokenStr == "" {
		return apperrors.NewUnauthorized("missing credentials")
	}

	claims, err := g.tokens.Parse(tokenStr)
	if err != nil {
		return apperrors.NewForbidden("invalid token")
	}

	authCtx := &AuthContext{
		SubjectID: claims.SubjectID,
		Role:      claims.Role,
	}
	if claims.IssuedAt != nil {
		authCtx.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		authCtx.ExpiresAt = claims.ExpiresAt.Time
	}

	c.Locals(authContextKey, authCtx)
	return c.Next()
}

func extractToken(c *fiber.Ctx) string {
	if cookie := c.Cookies(TokenCookieName); cookie != "" {
		return cookie
	}
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// FromContext retrieves the verified claims attached by the gate.
func FromContext(c *fiber.Ctx) (*AuthContext, bool) {
	val := c.Locals(authContextKey)
	if val == nil {
		return nil, false
	}
	authCtx, ok := val.(*AuthContext)
	return authCtx, ok
}
