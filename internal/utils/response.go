package utils

import (
	"github.com/gofiber/fiber/v2"
)

// ErrorResponse sends a standard error response in the success/message envelope.
func ErrorResponse(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}

// DevErrorResponse sends an error response, attaching the raw error text
// only in development mode. Production callers get the fixed message alone.
func DevErrorResponse(c *fiber.Ctx, status int, message string, err error, dev bool) error {
	body := fiber.Map{
		"success": false,
		"message": message,
	}
	if dev && err != nil {
		body["error"] = err.Error()
	}
	return c.Status(status).JSON(body)
}

// NotFoundResponse sends a 404 not found response
func NotFoundResponse(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}

// ErrorResponseStruct defines the schema for error responses
type ErrorResponseStruct struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}
