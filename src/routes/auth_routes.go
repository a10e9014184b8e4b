package routes

import (
	"Backend-SurveyHub/src/controllers"
	"Backend-SurveyHub/src/middleware"

	"github.com/gofiber/fiber/v2"
)

// authRoutes กำหนด route สำหรับ auth (login/logout/register)
func authRoutes(app *fiber.App) {
	auth := app.Group("/auth")

	auth.Post("/register", controllers.Register)
	auth.Post("/login", controllers.Login) // 🔐 login
	auth.Post("/reset-password", controllers.RequestPasswordReset)
	auth.Post("/reset-password/confirm", controllers.ConfirmPasswordReset)
	auth.Get("/google", controllers.GoogleLogin)
	auth.Get("/google/callback", controllers.GoogleCallback)

	auth.Get("/profile", middleware.AuthJWT, controllers.GetProfile)
	auth.Post("/logout", middleware.AuthJWT, controllers.Logout)
	auth.Delete("/delete", middleware.AuthJWT, controllers.DeleteAccount)
}
