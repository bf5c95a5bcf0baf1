// Package middleware provides authentication, logging and tracing middleware for the application.
package middleware

import (
	"context"
	"strings"

	"github.com/SAITARUN432/backendblog/internal/auth"
	"github.com/SAITARUN432/backendblog/internal/models"

	"github.com/gofiber/fiber/v2"
)

// Locals keys written by AuthRequired.
const (
	LocalUserID = "userID"
	LocalRole   = "role"
	LocalEmail  = "email"
)

// AuthRequired is a middleware that enforces a valid bearer token signed with secret.
func AuthRequired(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Authorization header required"))
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid authorization header format"))
		}

		claims, err := auth.Parse(secret, parts[1])
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid or expired token"))
		}

		c.Locals(LocalUserID, claims.ID)
		c.Locals(LocalRole, claims.Role)
		c.Locals(LocalEmail, claims.Email)
		if claims.ID != "" {
			// Sync to UserContext for logging and downstream services
			c.SetUserContext(context.WithValue(c.UserContext(), UserIDKey, claims.ID))
		}

		return c.Next()
	}
}

// AdminRequired rejects callers whose token does not carry the admin role.
// It must run after AuthRequired.
func AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, _ := c.Locals(LocalRole).(string)
		if role != models.RoleAdmin {
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewForbiddenError("Admin access required"))
		}
		return c.Next()
	}
}
