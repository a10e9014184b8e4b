package controllers

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"Backend-SurveyHub/src/logger"
	"Backend-SurveyHub/src/middleware"
	"Backend-SurveyHub/src/models"
	"Backend-SurveyHub/src/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Register godoc
// @Summary      Register a respondent account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body body models.RegisterRequest true "Account"
// @Success      201  {object}  models.AuthResponse
// @Failure      400  {object}  models.ErrorResponse
// @Failure      500  {object}  models.ErrorResponse
// @Router       /auth/register [post]
func Register(c *fiber.Ctx) error {
	var req models.RegisterRequest
	if err := parseBody(c, &req); err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, err.Error())
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	res, err := svc.Auth.Register(ctx, req)
	if err != nil {
		return handleServiceError(c, err, "Failed to register user")
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}

// CreateAdmin godoc
// @Summary      Register an admin account
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        body body models.RegisterRequest true "Account"
// @Success      201  {object}  models.AuthResponse
// @Failure      400  {object}  models.ErrorResponse
// @Failure      500  {object}  models.ErrorResponse
// @Router       /admin/create-admin [post]
func CreateAdmin(c *fiber.Ctx) error {
	var req models.RegisterRequest
	if err := parseBody(c, &req); err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, err.Error())
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	res, err := svc.Auth.CreateAdmin(ctx, req)
	if err != nil {
		return handleServiceError(c, err, "Failed to create admin")
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}

// Login godoc
// @Summary      Log in with email and password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body body models.LoginRequest true "Credentials"
// @Success      200  {object}  models.AuthResponse
// @Failure      400  {object}  models.ErrorResponse
// @Failure      401  {object}  models.ErrorResponse
// @Router       /auth/login [post]
func Login(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := parseBody(c, &req); err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, err.Error())
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	res, err := svc.Auth.Login(ctx, req)
	if err != nil {
		return handleServiceError(c, err, "Failed to log in")
	}
	return c.JSON(res)
}

// GetProfile godoc
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  models.User
// @Failure      401  {object}  models.ErrorResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /auth/profile [get]
func GetProfile(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return utils.HandleError(c, fiber.StatusUnauthorized, "Invalid token subject")
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	user, err := svc.Auth.Profile(ctx, userID)
	if err != nil {
		return handleServiceError(c, err, "Failed to fetch profile")
	}
	return c.JSON(fiber.Map{"success": true, "user": user})
}

// Logout godoc
// @Summary      Revoke the current token
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  models.MessageResponse
// @Failure      401  {object}  models.ErrorResponse
// @Router       /auth/logout [post]
func Logout(c *fiber.Ctx) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := svc.Auth.Logout(ctx, middleware.Token(c)); err != nil {
		return handleServiceError(c, err, "Failed to log out")
	}
	return c.JSON(models.MessageResponse{Success: true, Message: "Logged out successfully"})
}

// DeleteAccount godoc
// @Summary      Delete the current account
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  models.MessageResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /auth/delete [delete]
func DeleteAccount(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return utils.HandleError(c, fiber.StatusUnauthorized, "Invalid token subject")
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := svc.Auth.DeleteAccount(ctx, userID); err != nil {
		return handleServiceError(c, err, "Failed to delete account")
	}
	// token เดิมใช้ต่อไม่ได้แล้ว
	if err := svc.Auth.Logout(ctx, middleware.Token(c)); err != nil {
		logger.L().Warn("⚠️ token not revoked after account deletion", zap.String("userId", userID.Hex()), zap.Error(err))
	}
	return c.JSON(models.MessageResponse{Success: true, Message: "Account deleted successfully"})
}

// RequestPasswordReset godoc
// @Summary      Email a password reset code
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body body models.ResetPasswordRequest true "Email"
// @Success      200  {object}  models.MessageResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /auth/reset-password [post]
func RequestPasswordReset(c *fiber.Ctx) error {
	var req models.ResetPasswordRequest
	if err := parseBody(c, &req); err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, err.Error())
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := svc.Auth.RequestPasswordReset(ctx, req.Email); err != nil {
		return handleServiceError(c, err, "Failed to send reset code")
	}
	return c.JSON(models.MessageResponse{Success: true, Message: "Reset code sent"})
}

// ConfirmPasswordReset godoc
// @Summary      Set a new password with a reset code
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body body models.ConfirmResetRequest true "Code and new password"
// @Success      200  {object}  models.MessageResponse
// @Failure      400  {object}  models.ErrorResponse
// @Router       /auth/reset-password/confirm [post]
func ConfirmPasswordReset(c *fiber.Ctx) error {
	var req models.ConfirmResetRequest
	if err := parseBody(c, &req); err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, err.Error())
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := svc.Auth.ResetPassword(ctx, req); err != nil {
		return handleServiceError(c, err, "Failed to reset password")
	}
	return c.JSON(models.MessageResponse{Success: true, Message: "Password updated successfully"})
}

// oauthStateCookie เก็บ state ของ Google OAuth ระหว่าง redirect
const oauthStateCookie = "oauth_state"

// GoogleLogin godoc
// @Summary      Start Google sign-in
// @Description  Returns the Google consent URL; the state is kept in a short-lived cookie.
// @Tags         auth
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      503  {object}  models.ErrorResponse
// @Router       /auth/google [get]
func GoogleLogin(c *fiber.Ctx) error {
	state := utils.GenerateRandomString(32)
	authURL, err := svc.Auth.GoogleAuthURL(state)
	if err != nil {
		return handleServiceError(c, err, "Failed to start Google sign-in")
	}

	c.Cookie(&fiber.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Expires:  time.Now().Add(10 * time.Minute),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.JSON(fiber.Map{"url": authURL})
}

// GoogleCallback godoc
// @Summary      Google sign-in callback
// @Description  Redirects to FRONTEND_URL/auth/callback with either token or error.
// @Tags         auth
// @Param        code   query  string  true  "Authorization code"
// @Param        state  query  string  true  "State issued by /auth/google"
// @Success      302
// @Router       /auth/google/callback [get]
func GoogleCallback(c *fiber.Ctx) error {
	redirect := func(key, value string) error {
		return c.Redirect(fmt.Sprintf("%s/auth/callback?%s=%s",
			strings.TrimRight(svc.FrontendURL, "/"), key, url.QueryEscape(value)))
	}

	if errParam := c.Query("error"); errParam != "" {
		return redirect("error", errParam)
	}
	code := c.Query("code")
	if code == "" {
		return redirect("error", "missing_code")
	}
	state := c.Cookies(oauthStateCookie)
	c.ClearCookie(oauthStateCookie)
	if state == "" || state != c.Query("state") {
		return redirect("error", "invalid_state")
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	res, err := svc.Auth.GoogleLogin(ctx, code)
	if err != nil {
		logger.L().Warn("⚠️ google sign-in failed", zap.Error(err))
		return redirect("error", err.Error())
	}
	return redirect("token", res.Token)
}
