package routes

import (
	"Backend-SurveyHub/src/controllers"
	"Backend-SurveyHub/src/middleware"

	"github.com/gofiber/fiber/v2"
)

// adminRoutes กำหนดเส้นทางสำหรับผู้ดูแลแบบสอบถาม
func adminRoutes(app *fiber.App) {
	admin := app.Group("/admin")

	// สมัคร admin ไม่ต้องมี token
	admin.Post("/create-admin", controllers.CreateAdmin)

	guard := []fiber.Handler{middleware.AuthJWT, middleware.RequireAdmin}
	admin.Post("/create-survey", append(guard, controllers.CreateSurvey)...)
	admin.Get("/get-survey", append(guard, controllers.GetMySurveys)...)
	admin.Get("/get-survey-outcomes/:surveyId", append(guard, controllers.GetSurveyOutcomes)...)
	admin.Get("/export-survey-outcomes/:surveyId", append(guard, controllers.ExportSurveyOutcomes)...)
	admin.Put("/update-survey/:id", append(guard, controllers.UpdateSurvey)...)
	admin.Delete("/delete-survey/:id", append(guard, controllers.DeleteSurvey)...)
	admin.Get("/survey-qrcode/:id", append(guard, controllers.GetSurveyQRCode)...)
}
