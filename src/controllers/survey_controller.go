package controllers

import (
	"bytes"
	"fmt"

	"Backend-SurveyHub/src/middleware"
	"Backend-SurveyHub/src/models"
	"Backend-SurveyHub/src/qrcode"
	"Backend-SurveyHub/src/services/outcomes"
	"Backend-SurveyHub/src/utils"

	"github.com/gofiber/fiber/v2"
)

// CreateSurvey godoc
// @Summary      Create a survey with its questions
// @Description  Survey and questions are written in one transaction.
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body models.CreateSurveyRequest true "Survey"
// @Success      201  {object}  models.Survey
// @Failure      400  {object}  models.ErrorResponse
// @Failure      403  {object}  models.ErrorResponse
// @Failure      500  {object}  models.ErrorResponse
// @Router       /admin/create-survey [post]
func CreateSurvey(c *fiber.Ctx) error {
	adminID, ok := middleware.UserID(c)
	if !ok {
		return utils.HandleError(c, fiber.StatusUnauthorized, "Invalid token subject")
	}

	var req models.CreateSurveyRequest
	if err := parseBody(c, &req); err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, err.Error())
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	createdBy, _ := c.Locals("email").(string)
	if u, err := svc.Auth.Profile(ctx, adminID); err == nil && u.Name != "" {
		createdBy = u.Name
	}

	survey, err := svc.Surveys.Create(ctx, adminID, createdBy, req)
	if err != nil {
		return handleServiceError(c, err, "Failed to create survey")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Survey created successfully",
		"survey":  survey,
	})
}

// GetMySurveys godoc
// @Summary      List the caller's surveys with questions
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        page   query  int     false  "Page (0 = all)"
// @Param        limit  query  int     false  "Items per page (0 = all)"
// @Param        order  query  string  false  "asc or desc"
// @Success      200  {object}  models.PaginatedResponse
// @Failure      500  {object}  models.ErrorResponse
// @Router       /admin/get-survey [get]
func GetMySurveys(c *fiber.Ctx) error {
	adminID, ok := middleware.UserID(c)
	if !ok {
		return utils.HandleError(c, fiber.StatusUnauthorized, "Invalid token subject")
	}

	page := models.DefaultPagination()
	if err := c.QueryParser(&page); err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid pagination")
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	list, total, err := svc.Surveys.ListByCreator(ctx, adminID, page)
	if err != nil {
		return handleServiceError(c, err, "Failed to fetch surveys")
	}
	return c.JSON(models.NewPaginatedResponse(list, total, page))
}

// UpdateSurvey godoc
// @Summary      Update a survey and its questions
// @Description  Questions with an id are edited, questions without one are appended.
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                      true  "Survey ID"
// @Param        body  body  models.UpdateSurveyRequest  true  "Changes"
// @Success      200  {object}  models.Survey
// @Failure      400  {object}  models.ErrorResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /admin/update-survey/{id} [put]
func UpdateSurvey(c *fiber.Ctx) error {
	adminID, ok := middleware.UserID(c)
	if !ok {
		return utils.HandleError(c, fiber.StatusUnauthorized, "Invalid token subject")
	}
	id, err := utils.ParseObjectID("survey id", c.Params("id"))
	if err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, err.Error())
	}

	var req models.UpdateSurveyRequest
	if err := parseBody(c, &req); err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, err.Error())
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	survey, err := svc.Surveys.Update(ctx, adminID, id, req)
	if err != nil {
		return handleServiceError(c, err, "Failed to update survey")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Survey updated successfully",
		"survey":  survey,
	})
}

// DeleteSurvey godoc
// @Summary      Delete a survey with its questions, responses and statuses
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "Survey ID"
// @Success      200  {object}  models.MessageResponse
// @Failure      403  {object}  models.ErrorResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /admin/delete-survey/{id} [delete]
func DeleteSurvey(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return utils.HandleError(c, fiber.StatusUnauthorized, "Invalid token subject")
	}
	id, err := utils.ParseObjectID("survey id", c.Params("id"))
	if err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, err.Error())
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := svc.Surveys.Delete(ctx, userID, middleware.Role(c), id); err != nil {
		return handleServiceError(c, err, "Failed to delete survey")
	}
	return c.JSON(models.MessageResponse{Success: true, Message: "Survey deleted successfully"})
}

// GetSurveyOutcomes godoc
// @Summary      Aggregated answers of a survey
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        surveyId   path  string  true  "Survey ID"
// @Success      200  {object}  models.SurveyOutcomes
// @Failure      404  {object}  models.ErrorResponse
// @Router       /admin/get-survey-outcomes/{surveyId} [get]
func GetSurveyOutcomes(c *fiber.Ctx) error {
	id, err := utils.ParseObjectID("survey id", c.Params("surveyId"))
	if err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, err.Error())
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	out, err := svc.Outcomes.SurveyOutcomes(ctx, id)
	if err != nil {
		return handleServiceError(c, err, "Failed to fetch survey outcomes")
	}
	return c.JSON(out)
}

// ExportSurveyOutcomes godoc
// @Summary      Aggregated answers of a survey as CSV
// @Tags         admin
// @Produce      text/csv
// @Security     BearerAuth
// @Param        surveyId   path  string  true  "Survey ID"
// @Success      200  {string}  string
// @Failure      404  {object}  models.ErrorResponse
// @Router       /admin/export-survey-outcomes/{surveyId} [get]
func ExportSurveyOutcomes(c *fiber.Ctx) error {
	id, err := utils.ParseObjectID("survey id", c.Params("surveyId"))
	if err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, err.Error())
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	out, err := svc.Outcomes.SurveyOutcomes(ctx, id)
	if err != nil {
		return handleServiceError(c, err, "Failed to export survey outcomes")
	}

	var buf bytes.Buffer
	if err := outcomes.WriteCSV(&buf, out); err != nil {
		return handleServiceError(c, err, "Failed to export survey outcomes")
	}
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="survey-%s-outcomes.csv"`, id.Hex()))
	return c.Send(buf.Bytes())
}

// GetSurveyQRCode godoc
// @Summary      QR code of a survey's share link
// @Tags         admin
// @Produce      png
// @Security     BearerAuth
// @Param        id    path   string  true   "Survey ID"
// @Param        size  query  int     false  "Image size in pixels"
// @Success      200  {file}  binary
// @Failure      404  {object}  models.ErrorResponse
// @Router       /admin/survey-qrcode/{id} [get]
func GetSurveyQRCode(c *fiber.Ctx) error {
	id, err := utils.ParseObjectID("survey id", c.Params("id"))
	if err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, err.Error())
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if _, err := svc.Surveys.Get(ctx, id); err != nil {
		return handleServiceError(c, err, "Failed to fetch survey")
	}

	png, err := qrcode.SurveyPNG(svc.BaseURL, id.Hex(), c.QueryInt("size", qrcode.DefaultSize))
	if err != nil {
		return handleServiceError(c, err, "Failed to generate QR code")
	}
	c.Set(fiber.HeaderContentType, "image/png")
	return c.Send(png)
}
