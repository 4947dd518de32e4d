package report

import (
	"errors"
	"strconv"
	"time"

	"plantops-backend/internal/auth"
	"plantops-backend/internal/calculation"
	"plantops-backend/internal/config"
	"plantops-backend/internal/database"
	"plantops-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type HourlyReadingInput struct {
	TurbineID       uint            `json:"turbine_id"`
	Hour            int             `json:"hour"`
	EnergyGenerated decimal.Decimal `json:"energy_generated"`
}

type UpdateHourlyReadingsRequest struct {
	Readings []HourlyReadingInput `json:"readings"`
}

type hourlyReadingResponse struct {
	ID              uuid.UUID `json:"id"`
	TurbineID       uint      `json:"turbine_id"`
	Hour            int       `json:"hour"`
	EnergyGenerated float64   `json:"energy_generated"`
}

func readingResponse(r *models.TurbineHourlyGeneration) hourlyReadingResponse {
	return hourlyReadingResponse{
		ID:              r.ID,
		TurbineID:       r.TurbineID,
		Hour:            r.Hour,
		EnergyGenerated: r.EnergyGenerated.InexactFloat64(),
	}
}

// PUT /api/hourly-readings/:reportID (operator before deadline, editor/admin any time)
// Bulk upsert of per-turbine hourly generation. Once any hourly row exists the
// engine treats hourly data as the meter of record, so every write here ends
// with a recalculation in the same transaction.
func UpdateHourlyReadingsHandler(cfg *config.Config) fiber.Handler {
	loc := Timezone(cfg.ReportTimezone)
	return func(c *fiber.Ctx) error {
		reportID, err := uuid.Parse(c.Params("reportID"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid report ID")
		}

		var report models.DailyReport
		if err := database.DB.First(&report, "id = ?", reportID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Daily report not found")
		}
		if err := requirePlantAccess(c, report.PowerPlantID); err != nil {
			return err
		}

		now := time.Now().In(loc)
		pastDeadline := report.SubmissionDeadline != nil && now.After(*report.SubmissionDeadline)

		role, _ := auth.CurrentRole(c)
		if role == models.RoleOperator && pastDeadline {
			return fiber.NewError(fiber.StatusForbidden, "Submission deadline has passed, contact an editor to amend this report")
		}

		var body UpdateHourlyReadingsRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if len(body.Readings) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "No readings provided")
		}
		for _, in := range body.Readings {
			if in.Hour < 1 || in.Hour > 24 {
				return fiber.NewError(fiber.StatusBadRequest,
					"Hour must be between 1 and 24, got "+strconv.Itoa(in.Hour))
			}
		}

		var updated []models.TurbineHourlyGeneration
		err = database.DB.Transaction(func(tx *gorm.DB) error {
			for _, in := range body.Readings {
				var turbine models.Turbine
				err := tx.Where("id = ? AND power_plant_id = ?", in.TurbineID, report.PowerPlantID).
					First(&turbine).Error
				if err != nil {
					if errors.Is(err, gorm.ErrRecordNotFound) {
						return fiber.NewError(fiber.StatusNotFound,
							"Turbine "+strconv.FormatUint(uint64(in.TurbineID), 10)+" not found in this power plant")
					}
					return err
				}

				var reading models.TurbineHourlyGeneration
				err = tx.Where("daily_report_id = ? AND turbine_id = ? AND hour = ?",
					report.ID, in.TurbineID, in.Hour).
					First(&reading).Error
				if errors.Is(err, gorm.ErrRecordNotFound) {
					reading = models.TurbineHourlyGeneration{
						DailyReportID: report.ID,
						TurbineID:     in.TurbineID,
						Hour:          in.Hour,
					}
				} else if err != nil {
					return err
				}
				reading.EnergyGenerated = in.EnergyGenerated
				if err := tx.Save(&reading).Error; err != nil {
					return err
				}
				updated = append(updated, reading)
			}

			if pastDeadline && !report.IsLateSubmission {
				report.IsLateSubmission = true
			}
			userID, _ := auth.CurrentUserID(c)
			report.LastModifiedByID = &userID
			if err := tx.Save(&report).Error; err != nil {
				return err
			}
			return calculation.NewEngine(calculation.NewRepository(tx)).Recalculate(report.ID)
		})
		if err != nil {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				return fe
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to update hourly readings")
		}

		res := make([]hourlyReadingResponse, 0, len(updated))
		for i := range updated {
			res = append(res, readingResponse(&updated[i]))
		}
		return c.JSON(res)
	}
}

// GET /api/hourly-readings/:reportID?turbine_id=
func GetHourlyReadingsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reportID, err := uuid.Parse(c.Params("reportID"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid report ID")
		}

		var report models.DailyReport
		if err := database.DB.First(&report, "id = ?", reportID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Daily report not found")
		}

		query := database.DB.Where("daily_report_id = ?", report.ID)
		if turbineID := c.Query("turbine_id"); turbineID != "" {
			query = query.Where("turbine_id = ?", turbineID)
		}

		var readings []models.TurbineHourlyGeneration
		if err := query.Order("turbine_id, hour").Find(&readings).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to load hourly readings")
		}

		res := make([]hourlyReadingResponse, 0, len(readings))
		for i := range readings {
			res = append(res, readingResponse(&readings[i]))
		}
		return c.JSON(res)
	}
}
