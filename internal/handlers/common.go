package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// getUserID extracts the authenticated user id from context (set by auth middleware)
func getUserID(c *fiber.Ctx) (uint64, error) {
	userID, ok := c.Locals("userId").(uint64)
	if !ok || userID == 0 {
		return 0, fmt.Errorf("user not found in context")
	}
	return userID, nil
}
