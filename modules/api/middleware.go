package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

const userIDKey = "userID"

// requireAuth validates the Bearer token and stores the caller's user ID in
// the request locals.
func (m *APIModule) requireAuth(c *fiber.Ctx) error {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
			Error:   "unauthorized",
			Message: "Authorization header is required",
		})
	}

	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
			Error:   "unauthorized",
			Message: "Authorization header must be a Bearer token",
		})
	}

	claims, err := m.authPort.ValidateToken(c.Context(), token)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
			Error:   "unauthorized",
			Message: "Invalid or expired token",
		})
	}

	c.Locals(userIDKey, claims.UserID)
	return c.Next()
}

// currentUserID returns the authenticated user's ID set by requireAuth.
func currentUserID(c *fiber.Ctx) string {
	id, _ := c.Locals(userIDKey).(string)
	return id
}
