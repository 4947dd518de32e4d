package export

import (
	"time"

	"plantops-backend/internal/database"
	"plantops-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

// GET /api/download?start_date=&end_date=&power_plant_id= (admin, editor)
// Streams an xlsx with every report in the range, optionally restricted to
// one plant.
func DownloadHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start, err := time.Parse(dateLayout, c.Query("start_date"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "start_date is required as YYYY-MM-DD")
		}
		end, err := time.Parse(dateLayout, c.Query("end_date"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "end_date is required as YYYY-MM-DD")
		}
		if end.Before(start) {
			return fiber.NewError(fiber.StatusBadRequest, "end_date must not be before start_date")
		}

		query := database.DB.
			Preload("PowerPlant").
			Where("date >= ? AND date <= ?", start, end)
		if plantID := c.QueryInt("power_plant_id", 0); plantID > 0 {
			query = query.Where("power_plant_id = ?", plantID)
		}

		var reports []models.DailyReport
		if err := query.Order("date").Find(&reports).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to load reports")
		}

		reportIDs := make([]uuid.UUID, 0, len(reports))
		for _, r := range reports {
			reportIDs = append(reportIDs, r.ID)
		}

		var stats []models.TurbineDailyStat
		var readings []models.TurbineHourlyGeneration
		if len(reportIDs) > 0 {
			if err := database.DB.Preload("Turbine").
				Where("daily_report_id IN ?", reportIDs).
				Order("daily_report_id, turbine_id").
				Find(&stats).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Failed to load turbine stats")
			}
			if err := database.DB.Preload("Turbine").
				Where("daily_report_id IN ?", reportIDs).
				Order("daily_report_id, turbine_id, hour").
				Find(&readings).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Failed to load hourly readings")
			}
		}

		buf, err := BuildWorkbook(reports, stats, readings)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to build workbook")
		}

		filename := "daily-reports_" + start.Format(dateLayout) + "_" + end.Format(dateLayout) + ".xlsx"
		c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set("Content-Disposition", `attachment; filename="`+filename+`"`)
		return c.Send(buf.Bytes())
	}
}
