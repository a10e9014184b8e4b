package middleware

import (
	"strings"

	"Backend-SurveyHub/src/logger"
	"Backend-SurveyHub/src/models"
	"Backend-SurveyHub/src/utils"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// AuthJWT ตรวจ Bearer token แล้วใส่ userId/email/role ลงใน Locals
func AuthJWT(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		return utils.HandleError(c, fiber.StatusUnauthorized, "Missing or invalid Authorization header")
	}

	tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
	claims, err := utils.ParseJWT(tokenStr)
	if err != nil {
		return utils.HandleError(c, fiber.StatusUnauthorized, "Invalid or expired token")
	}

	revoked, err := utils.IsTokenBlacklisted(c.UserContext(), tokenStr)
	if err != nil {
		logger.L().Error("❌ blacklist lookup failed", zap.Error(err))
		return utils.HandleError(c, fiber.StatusInternalServerError, "Failed to verify token")
	}
	if revoked {
		return utils.HandleError(c, fiber.StatusUnauthorized, "Token has been revoked")
	}

	c.Locals("userId", claims.UserID)
	c.Locals("email", claims.Email)
	c.Locals("role", claims.Role)
	c.Locals("token", tokenStr)

	return c.Next()
}

// RequireAdmin ต้องผ่าน AuthJWT ก่อน
func RequireAdmin(c *fiber.Ctx) error {
	if role, _ := c.Locals("role").(string); role != models.RoleAdmin {
		return utils.HandleError(c, fiber.StatusForbidden, "Admin access required")
	}
	return c.Next()
}

// UserID returns the caller's id stored by AuthJWT.
func UserID(c *fiber.Ctx) (primitive.ObjectID, bool) {
	s, _ := c.Locals("userId").(string)
	id, err := primitive.ObjectIDFromHex(s)
	return id, err == nil
}

// Role returns the caller's role stored by AuthJWT.
func Role(c *fiber.Ctx) string {
	role, _ := c.Locals("role").(string)
	return role
}

// Token returns the raw bearer token stored by AuthJWT.
func Token(c *fiber.Ctx) string {
	t, _ := c.Locals("token").(string)
	return t
}
