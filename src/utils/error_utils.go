// error_utils.go
package utils

import (
	"Backend-SurveyHub/src/models"

	"github.com/gofiber/fiber/v2"
)

func HandleError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(models.ErrorResponse{
		Status:  status,
		Message: message,
	})
}

// HandleMissingAnswers answers 400 with the ids of the required questions left empty.
func HandleMissingAnswers(c *fiber.Ctx, message string, missing []string) error {
	return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
		Status:  fiber.StatusBadRequest,
		Message: message,
		Missing: missing,
	})
}
