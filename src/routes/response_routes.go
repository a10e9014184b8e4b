package routes

import (
	"Backend-SurveyHub/src/controllers"
	"Backend-SurveyHub/src/middleware"

	"github.com/gofiber/fiber/v2"
)

// responseRoutes กำหนดเส้นทางสำหรับผู้ตอบแบบสอบถาม
func responseRoutes(app *fiber.App) {
	response := app.Group("/response", middleware.AuthJWT)

	response.Post("/respond", controllers.Respond)
	response.Get("/surveys", controllers.GetVisibleSurveys)
	response.Get("/status", controllers.GetStatuses)
	response.Put("/status/:surveyId", controllers.RecordAnswer)
}
