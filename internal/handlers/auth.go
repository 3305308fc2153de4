package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/mindcare/mindcare-api/internal/config"
	"github.com/mindcare/mindcare-api/internal/services"
	"github.com/mindcare/mindcare-api/internal/types"
	"github.com/mindcare/mindcare-api/internal/utils"
	"gorm.io/gorm"
)

// AuthHandler handles registration, login and profile routes
type AuthHandler struct {
	DB  *gorm.DB
	Cfg *config.Config
}

// Register handles POST /api/auth/register
// @Summary Register a new user
// @Description Create an account and return a bearer token
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body services.RegisterRequest true "Registration payload"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req services.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}

	result, err := services.RegisterUser(h.DB, h.Cfg, &req)
	if err != nil {
		var ce *types.CustomError
		if errors.As(err, &ce) {
			return utils.ErrorResponse(c, ce.Code, ce.Message)
		}
		return utils.DevErrorResponse(c, fiber.StatusInternalServerError,
			"Registration failed. Please try again.", err, h.Cfg.IsDevelopment())
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "User registered successfully",
		"token":   result.Token,
		"user": fiber.Map{
			"userId":           result.User.UserID,
			"fullName":         result.User.FullName,
			"email":            result.User.Email,
			"phone":            result.User.Phone,
			"disabilityStatus": result.User.DisabilityStatus,
		},
	})
}

// Login handles POST /api/auth/login
// @Summary Login
// @Description Authenticate by email and password and return a bearer token
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body object true "Email and password"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}

	result, err := services.LoginUser(h.DB, h.Cfg, req.Email, req.Password)
	if err != nil {
		var ce *types.CustomError
		if errors.As(err, &ce) {
			return utils.ErrorResponse(c, ce.Code, ce.Message)
		}
		return utils.DevErrorResponse(c, fiber.StatusInternalServerError,
			"Login failed. Please try again.", err, h.Cfg.IsDevelopment())
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Login successful",
		"token":   result.Token,
		"user": fiber.Map{
			"userId":            result.User.UserID,
			"fullName":          result.User.FullName,
			"email":             result.User.Email,
			"phone":             result.User.Phone,
			"disabilityStatus":  result.User.DisabilityStatus,
			"preferredLanguage": result.User.PreferredLanguage,
			"accessibilityPreferences": fiber.Map{
				"fontSize":     result.User.FontSize,
				"colorTheme":   result.User.ColorTheme,
				"voiceEnabled": result.User.VoiceEnabled,
			},
		},
	})
}

// Profile handles GET /api/auth/profile
// @Summary Get current user profile
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /auth/profile [get]
func (h *AuthHandler) Profile(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Access denied. No token provided.")
	}

	user, err := services.GetProfile(h.DB, userID)
	if err != nil {
		if err.Error() == "not found" {
			return utils.NotFoundResponse(c, "User not found")
		}
		return utils.DevErrorResponse(c, fiber.StatusInternalServerError,
			"Failed to retrieve profile", err, h.Cfg.IsDevelopment())
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"user":    user,
	})
}
