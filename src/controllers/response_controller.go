package controllers

import (
	"Backend-SurveyHub/src/middleware"
	"Backend-SurveyHub/src/models"
	"Backend-SurveyHub/src/utils"

	"github.com/gofiber/fiber/v2"
)

// Respond godoc
// @Summary      Submit answers to a survey
// @Description  Re-submitting replaces earlier answers to the same questions.
// @Tags         response
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body models.RespondRequest true "Answers"
// @Success      201  {object}  models.SubmissionResult
// @Failure      400  {object}  models.ErrorResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /response/respond [post]
func Respond(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return utils.HandleError(c, fiber.StatusUnauthorized, "Invalid token subject")
	}

	var req models.RespondRequest
	if err := parseBody(c, &req); err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, err.Error())
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	res, err := svc.Responses.Submit(ctx, userID, req)
	if err != nil {
		return handleServiceError(c, err, "Failed to submit responses")
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}

// GetVisibleSurveys godoc
// @Summary      Published surveys with the caller's status
// @Tags         response
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  models.VisibleSurvey
// @Router       /response/surveys [get]
func GetVisibleSurveys(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return utils.HandleError(c, fiber.StatusUnauthorized, "Invalid token subject")
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	list, err := svc.Responses.VisibleSurveys(ctx, userID)
	if err != nil {
		return handleServiceError(c, err, "Failed to fetch surveys")
	}
	return c.JSON(fiber.Map{"success": true, "surveys": list})
}

// GetStatuses godoc
// @Summary      The caller's status per survey
// @Tags         response
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]models.StatusEntry
// @Router       /response/status [get]
func GetStatuses(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return utils.HandleError(c, fiber.StatusUnauthorized, "Invalid token subject")
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	statuses, err := svc.Responses.Statuses(ctx, userID)
	if err != nil {
		return handleServiceError(c, err, "Failed to fetch statuses")
	}
	return c.JSON(fiber.Map{"success": true, "statuses": statuses})
}

// RecordAnswer godoc
// @Summary      Save one answer without submitting
// @Tags         response
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        surveyId  path  string                      true  "Survey ID"
// @Param        body      body  models.RecordAnswerRequest  true  "Answer"
// @Success      200  {object}  models.StatusEntry
// @Failure      400  {object}  models.ErrorResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /response/status/{surveyId} [put]
func RecordAnswer(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return utils.HandleError(c, fiber.StatusUnauthorized, "Invalid token subject")
	}
	surveyID, err := utils.ParseObjectID("survey id", c.Params("surveyId"))
	if err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, err.Error())
	}

	var req models.RecordAnswerRequest
	if err := parseBody(c, &req); err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, err.Error())
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	st, err := svc.Responses.RecordAnswer(ctx, userID, surveyID, req)
	if err != nil {
		return handleServiceError(c, err, "Failed to save answer")
	}
	return c.JSON(models.StatusEntry{Status: st.Status, Answers: st.Answers})
}
