package main

import (
	"log"
	"strings"

	"plantops-backend/internal/auth"
	"plantops-backend/internal/calculation"
	"plantops-backend/internal/config"
	"plantops-backend/internal/dashboard"
	"plantops-backend/internal/database"
	"plantops-backend/internal/export"
	"plantops-backend/internal/models"
	"plantops-backend/internal/morning"
	"plantops-backend/internal/plant"
	"plantops-backend/internal/report"
	"plantops-backend/internal/user"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	cfg := config.Load()
	database.Init(cfg)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Println("Unexpected error:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Unexpected server error",
			})
		},
	})

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	api.Get("/health-check", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "api_version": "1.0.0"})
	})

	// Public auth
	api.Post("/auth/register-admin", auth.RegisterAdminHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())
	protected.Put("/users/me/password", user.ChangePasswordHandler())

	// User management
	adminOnly := auth.RequireRole(models.RoleAdmin)
	protected.Get("/users", adminOnly, user.ListUsersHandler())
	protected.Post("/users", adminOnly, user.CreateUserHandler())
	protected.Get("/users/:id", adminOnly, user.GetUserHandler())
	protected.Put("/users/:id", adminOnly, user.UpdateUserHandler())
	protected.Delete("/users/:id", adminOnly, user.DeleteUserHandler())

	// Reference data
	protected.Get("/power-plants", plant.ListPlantsHandler())
	protected.Post("/power-plants", adminOnly, plant.CreatePlantHandler())
	protected.Get("/power-plants/:id", plant.GetPlantHandler())
	protected.Put("/power-plants/:id", adminOnly, plant.UpdatePlantHandler())
	protected.Delete("/power-plants/:id", adminOnly, plant.DeletePlantHandler())
	protected.Get("/power-plants/:id/turbines", plant.ListTurbinesHandler())
	protected.Post("/power-plants/:id/turbines", adminOnly, plant.CreateTurbineHandler())
	protected.Get("/turbines/:id", plant.GetTurbineHandler())
	protected.Put("/turbines/:id", adminOnly, plant.UpdateTurbineHandler())
	protected.Delete("/turbines/:id", adminOnly, plant.DeleteTurbineHandler())

	// Data entry
	canSubmit := auth.RequireRole(models.RoleAdmin, models.RoleEditor, models.RoleOperator)
	protected.Post("/readings/morning", canSubmit, morning.CreateMorningReadingHandler(cfg))
	protected.Get("/readings/morning/plant/:plantID/date/:date", morning.GetMorningReadingHandler())
	protected.Get("/readings/morning/plant/:plantID", morning.ListMorningReadingsHandler())
	protected.Put("/readings/morning/:id", canSubmit, morning.UpdateMorningReadingHandler(cfg))

	protected.Post("/reports/daily", canSubmit, report.CreateDailyReportHandler(cfg))
	protected.Put("/reports/daily/:id", canSubmit, report.UpdateDailyReportHandler(cfg))
	protected.Get("/reports/daily/plant/:plantID/date/:date", report.GetDailyReportHandler())
	protected.Get("/reports/daily/plant/:plantID", report.ListDailyReportsHandler())

	protected.Put("/hourly-readings/:reportID", canSubmit, report.UpdateHourlyReadingsHandler(cfg))
	protected.Get("/hourly-readings/:reportID", report.GetHourlyReadingsHandler())

	// Calculations
	protected.Get("/calculations/report/:reportID", calculation.ReportCalculationsHandler())
	protected.Get("/calculations/plant/:plantID/date/:date", calculation.PlantDateCalculationsHandler())
	protected.Get("/calculations/plant/:plantID/metric/:metric", calculation.MetricOverTimeHandler())
	protected.Get("/calculations/compare", calculation.ComparePlantsHandler())

	// Dashboard
	protected.Get("/dashboard/summary", dashboard.SummaryHandler())
	protected.Get("/dashboard/hourly-generation", dashboard.HourlyGenerationHandler())
	protected.Get("/dashboard/operational", dashboard.OperationalHandler())
	protected.Get("/dashboard/morning-declarations", dashboard.MorningDeclarationsHandler())

	// Export
	protected.Get("/download", auth.RequireRole(models.RoleAdmin, models.RoleEditor), export.DownloadHandler())

	log.Println("Server listening on port:", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
