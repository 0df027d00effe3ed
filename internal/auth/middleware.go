package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/task-tracker/pkg/util/errorutil"
)

const identityKey = "auth_identity"

// AuthMiddleware validates bearer tokens and exposes the caller identity.
type AuthMiddleware struct {
	tokens TokenVerifier
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return apperrors.NewAuthError(apperrors.CodeAuthHeaderMissing, "authorization header missing")
	}

	scheme, token, _ := strings.Cut(strings.TrimSpace(authHeader), " ")
	if !strings.EqualFold(scheme, "Bearer") {
		return apperrors.NewAuthError(apperrors.CodeAuthSchemeInvalid, "invalid authorization format")
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return apperrors.NewAuthError(apperrors.CodeTokenMissing, "token missing")
	}

	identityID, err := m.tokens.Verify(token)
	switch {
	case err == nil:
	case errors.Is(err, ErrSigningKeyMissing):
		return apperrors.NewConfigError(err)
	case errors.Is(err, ErrExpiredToken):
		return apperrors.NewAuthError(apperrors.CodeTokenExpired, "token expired")
	default:
		return apperrors.NewAuthError(apperrors.CodeTokenInvalid, "invalid token")
	}

	c.Locals(identityKey, identityID)
	return c.Next()
}

// IdentityFromCtx returns the identity the middleware attached to the request.
func IdentityFromCtx(c *fiber.Ctx) (string, bool) {
	id, ok := c.Locals(identityKey).(string)
	return id, ok && id != ""
}

// RequireIdentity is a handler-side guard for routes that must only run behind Handle.
func RequireIdentity(c *fiber.Ctx) (string, error) {
	id, ok := IdentityFromCtx(c)
	if !ok {
		return "", apperrors.NewAuthError(apperrors.CodeTokenMissing, "token missing")
	}
	return id, nil
}
