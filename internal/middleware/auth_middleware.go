package middleware

import (
	"strings"

	"go-employee-console/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

// TokenVersions reports the current token version of a user.
type TokenVersions interface {
	TokenVersion(userID uint) (string, error)
}

// RequireAuth validates a bearer JWT and enforces single-session token
// versions. Used by the sandbox API.
func RequireAuth(tokens *jwt.Manager, users TokenVersions) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(401).JSON(fiber.Map{"message": "Missing authorization token"})
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return c.Status(401).JSON(fiber.Map{"message": "Invalid authorization format. Use: Bearer <token>"})
		}

		claims, err := tokens.ValidateToken(parts[1])
		if err != nil {
			return c.Status(401).JSON(fiber.Map{"message": "Invalid or expired token"})
		}

		version, err := users.TokenVersion(claims.UserID)
		if err != nil {
			return c.Status(401).JSON(fiber.Map{"message": "User not found"})
		}
		if version != claims.TokenVersion {
			return c.Status(401).JSON(fiber.Map{"message": "Session expired (logged in on another device)"})
		}

		c.Locals("user_id", claims.UserID)
		c.Locals("user_email", claims.Email)
		c.Locals("user_name", claims.Name)

		return c.Next()
	}
}
