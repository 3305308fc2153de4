package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/mindcare/mindcare-api/internal/config"
	"github.com/mindcare/mindcare-api/internal/services"
	"github.com/mindcare/mindcare-api/internal/types"
)

// Protected validates the bearer token and stores the caller's identity in
// the request context.
func Protected(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return &types.CustomError{
				Code:    fiber.StatusUnauthorized,
				Message: "Access denied. No token provided.",
				Type:    "auth.token.missing",
			}
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if token == "" {
			return &types.CustomError{
				Code:    fiber.StatusUnauthorized,
				Message: "Access denied. Invalid token format.",
				Type:    "auth.token.format",
			}
		}

		claims, err := services.VerifyToken(cfg, token)
		if err != nil {
			if errors.Is(err, services.ErrTokenExpired) {
				return &types.CustomError{
					Code:    fiber.StatusUnauthorized,
					Message: "Token expired. Please login again.",
					Type:    "auth.token.expired",
				}
			}
			return &types.CustomError{
				Code:    fiber.StatusUnauthorized,
				Message: "Invalid token",
				Type:    "auth.token.invalid",
			}
		}

		c.Locals("userId", claims.UserID)
		c.Locals("email", claims.Email)

		return c.Next()
	}
}
