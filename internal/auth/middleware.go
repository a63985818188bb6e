package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/nimbus-works/identity-service/internal/domain"
	"github.com/nimbus-works/identity-service/internal/repository"
	apperrors "github.com/nimbus-works/identity-service/pkg/util"
)

const principalKey = "auth_principal"

// SessionCookieName is the cookie the transport layer uses to carry the
// session token.
const SessionCookieName = "token"

// Principal represents the authenticated caller, derived from the verified
// session token. It is passed through request locals rather than injected
// into the request body.
type Principal struct {
	UserID string
	User   *domain.User
}

// Middleware validates session tokens and loads principals.
type Middleware struct {
	tokens *TokenManager
	users  repository.UserRepository
}

// NewMiddleware constructs middleware.
func NewMiddleware(tokens *TokenManager, users repository.UserRepository) *Middleware {
	return &Middleware{tokens: tokens, users: users}
}

// Handle enforces authentication for protected routes. The token is read
// from the session cookie, with a bearer Authorization header fallback.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	tokenStr := c.Cookies(SessionCookieName)
	if tokenStr == "" {
		tokenStr = bearerToken(c.Get("Authorization"))
	}
	if tokenStr == "" {
		return apperrors.NewUnauthorized("not authorized, login again")
	}

	userID, err := m.tokens.Verify(tokenStr)
	if err != nil {
		return apperrors.NewUnauthorized("not authorized, login again")
	}

	user, err := m.users.GetByID(c.Context(), userID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewUnauthorized("user not found")
		}
		return apperrors.MapError(err)
	}

	c.Locals(principalKey, &Principal{UserID: user.ID, User: user})
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}

func bearerToken(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}
