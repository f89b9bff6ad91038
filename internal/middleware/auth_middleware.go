package middleware

import (
	"context"
	"strings"

	"prepmate/internal/domain"
	"prepmate/internal/dto"
	"prepmate/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	AuthorizationHeader = "Authorization"
	BearerSchema        = "Bearer "
	UserIDKey           = "userID" // Key for storing UserID in fiber.Ctx locals
)

// TokenValidator is the part of the auth service the middleware needs.
type TokenValidator interface {
	ValidateJWT(ctx context.Context, tokenString string) (*dto.AuthClaims, error)
}

// Protected requires a valid JWT and stores the caller's user id under UserIDKey.
// The header may be "Bearer <token>" or the bare token.
func Protected(validator TokenValidator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := extractToken(c.Get(AuthorizationHeader))
		if tokenString == "" {
			return domain.NewUnauthorizedError("Not authorized, no token")
		}

		claims, err := validator.ValidateJWT(c.UserContext(), tokenString)
		if err != nil {
			logger.Get().Debug("JWT validation failed", zap.String("path", c.Path()), zap.Error(err))
			return domain.NewError(domain.CodeInvalidToken, "Not authorized, token failed", nil)
		}

		c.Locals(UserIDKey, claims.UserID)
		return c.Next()
	}
}

func extractToken(header string) string {
	header = strings.TrimSpace(header)
	if len(header) >= len(BearerSchema) && strings.EqualFold(header[:len(BearerSchema)], BearerSchema) {
		header = header[len(BearerSchema):]
	}
	return strings.TrimSpace(header)
}

// UserID returns the authenticated user id set by Protected, or "".
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals(UserIDKey).(string)
	return id
}
