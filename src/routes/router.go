package routes

import (
	"Backend-SurveyHub/src/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
)

// NewApp สร้าง fiber app พร้อม middleware และ routes ทั้งหมด
func NewApp(allowedOrigins string) *fiber.App {
	app := fiber.New(fiber.Config{AppName: "SurveyHub API"})

	app.Use(recover.New())
	app.Use(logger.RequestLogger())

	// ✅ เปิดใช้งาน CORS Middleware
	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: false, // ❌ ต้องเป็น false ถ้าใช้ "*"
	}))

	// เปิดใช้งาน Swagger ที่ URL /swagger
	app.Get("/swagger/*", swagger.HandlerDefault)

	InitRoutes(app)
	return app
}

func InitRoutes(app *fiber.App) {
	authRoutes(app)
	adminRoutes(app)
	responseRoutes(app)

	// Route เช็คว่า API ทำงานอยู่
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("✅ API is running...")
	})
}
