package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/mindcare/mindcare-api/internal/config"
	"github.com/mindcare/mindcare-api/internal/services"
	"github.com/mindcare/mindcare-api/internal/types"
	"github.com/mindcare/mindcare-api/internal/utils"
	"gorm.io/gorm"
)

// AssessmentHandler handles questionnaire submission and retrieval routes
type AssessmentHandler struct {
	DB        *gorm.DB
	Cfg       *config.Config
	Predictor services.Predictor
}

// Submit handles POST /api/assessment/submit
// @Summary Submit the 27-question assessment
// @Description Persist answers, score them and return the prediction summary
// @Tags Assessment
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.SubmitAssessmentRequest true "27 questionnaire answers"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /assessment/submit [post]
func (h *AssessmentHandler) Submit(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Access denied. No token provided.")
	}

	var req services.SubmitAssessmentRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}

	result, err := services.SubmitAssessment(c.UserContext(), h.DB, h.Predictor, userID, &req)
	if err != nil {
		var ve *types.ValidationError
		if errors.As(err, &ve) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success":       false,
				"message":       "Missing required fields",
				"missingFields": ve.MissingFields,
			})
		}
		return utils.DevErrorResponse(c, fiber.StatusInternalServerError,
			"Failed to submit assessment", err, h.Cfg.IsDevelopment())
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":      true,
		"message":      "Assessment completed successfully",
		"assessmentId": result.AssessmentID,
		"prediction":   result.Prediction,
	})
}

// History handles GET /api/assessment/history
// @Summary Get assessment history
// @Description List the caller's assessments, most recent first
// @Tags Assessment
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /assessment/history [get]
func (h *AssessmentHandler) History(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Access denied. No token provided.")
	}

	summaries, err := services.GetAssessmentHistory(h.DB, userID)
	if err != nil {
		return utils.DevErrorResponse(c, fiber.StatusInternalServerError,
			"Failed to retrieve assessment history", err, h.Cfg.IsDevelopment())
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success":     true,
		"count":       len(summaries),
		"assessments": summaries,
	})
}

// Details handles GET /api/assessment/:assessmentId
// @Summary Get assessment details
// @Description Full assessment with deserialized lists and the raw response row
// @Tags Assessment
// @Produce json
// @Security BearerAuth
// @Param assessmentId path int true "Assessment ID"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /assessment/{assessmentId} [get]
func (h *AssessmentHandler) Details(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Access denied. No token provided.")
	}

	assessmentID, err := strconv.ParseUint(c.Params("assessmentId"), 10, 64)
	if err != nil {
		return utils.NotFoundResponse(c, "Assessment not found")
	}

	assessment, response, err := services.GetAssessmentDetails(h.DB, userID, assessmentID)
	if err != nil {
		if err.Error() == "not found" {
			return utils.NotFoundResponse(c, "Assessment not found")
		}
		return utils.DevErrorResponse(c, fiber.StatusInternalServerError,
			"Failed to retrieve assessment details", err, h.Cfg.IsDevelopment())
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success":    true,
		"assessment": assessment,
		"responses":  response,
	})
}
