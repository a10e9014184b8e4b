package controllers

import (
	"context"
	"errors"
	"time"

	"Backend-SurveyHub/src/logger"
	"Backend-SurveyHub/src/services/auth"
	"Backend-SurveyHub/src/services/lifecycle"
	"Backend-SurveyHub/src/services/outcomes"
	"Backend-SurveyHub/src/services/responses"
	"Backend-SurveyHub/src/services/surveys"
	"Backend-SurveyHub/src/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Services are the handlers' dependencies, installed once with Wire.
type Services struct {
	Auth      *auth.Service
	Surveys   *surveys.Service
	Responses *responses.Service
	Outcomes  *outcomes.Service

	// BaseURL prefixes survey share links; FrontendURL receives OAuth redirects.
	BaseURL     string
	FrontendURL string
}

var svc Services

// Wire installs the services used by every handler in this package.
func Wire(s Services) {
	svc = s
}

// requestTimeout ระยะเวลาสูงสุดของการเรียกฐานข้อมูลต่อ request
const requestTimeout = 10 * time.Second

func requestContext(c *fiber.Ctx) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.UserContext(), requestTimeout)
}

var errInvalidInput = errors.New("Invalid input")

// parseBody decodes and validates the JSON body into dst. It writes nothing;
// the caller answers 400 with the returned message.
func parseBody(c *fiber.Ctx, dst interface{}) error {
	if err := c.BodyParser(dst); err != nil {
		return errInvalidInput
	}
	return utils.ValidateStruct(dst)
}

// handleServiceError maps service errors to HTTP statuses; anything unknown is a 500
// with the static fallback message and the cause only in the log.
func handleServiceError(c *fiber.Ctx, err error, fallback string) error {
	var verr *lifecycle.ValidationError
	switch {
	case errors.As(err, &verr):
		return utils.HandleMissingAnswers(c, verr.Message, verr.Missing)
	case errors.Is(err, surveys.ErrInvalidSurvey),
		errors.Is(err, responses.ErrUnknownQuestion),
		errors.Is(err, responses.ErrInvalidSurveyID),
		errors.Is(err, auth.ErrEmailExists),
		errors.Is(err, auth.ErrInvalidResetCode):
		return utils.HandleError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, auth.ErrGoogleUnverified):
		return utils.HandleError(c, fiber.StatusUnauthorized, err.Error())
	case errors.Is(err, surveys.ErrForbidden):
		return utils.HandleError(c, fiber.StatusForbidden, err.Error())
	case errors.Is(err, surveys.ErrSurveyNotFound), errors.Is(err, auth.ErrUserNotFound):
		return utils.HandleError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, utils.ErrResetUnavailable), errors.Is(err, auth.ErrGoogleDisabled):
		return utils.HandleError(c, fiber.StatusServiceUnavailable, err.Error())
	}

	logger.L().Error("❌ "+fallback, zap.String("path", c.Path()), zap.Error(err))
	return utils.HandleError(c, fiber.StatusInternalServerError, fallback)
}
