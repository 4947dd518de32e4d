package calculation

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"plantops-backend/internal/database"
	"plantops-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

type seriesPoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

type plantComparison struct {
	PowerPlantID   uint    `json:"power_plant_id"`
	PowerPlantName string  `json:"power_plant_name"`
	Value          float64 `json:"value"`
}

// GET /api/calculations/report/:reportID
// Returns the stored metric set for a report, zero-filled when the report is
// unknown or has not been through the engine yet.
func ReportCalculationsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reportID, err := uuid.Parse(c.Params("reportID"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid report ID")
		}

		var report models.DailyReport
		if err := database.DB.First(&report, "id = ?", reportID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.JSON(EmptyCalculations())
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to load report")
		}
		return c.JSON(Calculations(&report))
	}
}

// GET /api/calculations/plant/:plantID/date/:date
func PlantDateCalculationsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		plantID, err := strconv.ParseUint(c.Params("plantID"), 10, 32)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid power plant ID")
		}
		date, err := time.Parse(dateLayout, c.Params("date"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
		}

		var report models.DailyReport
		err = database.DB.
			Where("power_plant_id = ? AND date = ?", plantID, date).
			First(&report).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.JSON(EmptyCalculations())
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to load report")
		}
		return c.JSON(Calculations(&report))
	}
}

// GET /api/calculations/plant/:plantID/metric/:metric?start_date=&end_date=
// One metric for one plant over a date range, as a date-ordered series.
func MetricOverTimeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		plantID, err := strconv.ParseUint(c.Params("plantID"), 10, 32)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid power plant ID")
		}
		metric, ok := ParseMetric(c.Params("metric"))
		if !ok {
			return fiber.NewError(fiber.StatusBadRequest, "Unknown metric: "+c.Params("metric"))
		}
		start, err := time.Parse(dateLayout, c.Query("start_date"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "start_date is required as YYYY-MM-DD")
		}
		end, err := time.Parse(dateLayout, c.Query("end_date"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "end_date is required as YYYY-MM-DD")
		}

		var reports []models.DailyReport
		err = database.DB.
			Where("power_plant_id = ? AND date >= ? AND date <= ?", plantID, start, end).
			Order("date").
			Find(&reports).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to load reports")
		}

		points := make([]seriesPoint, 0, len(reports))
		for i := range reports {
			points = append(points, seriesPoint{
				Date:  reports[i].Date.Format(dateLayout),
				Value: MetricValue(&reports[i], metric).InexactFloat64(),
			})
		}
		return c.JSON(points)
	}
}

// GET /api/calculations/compare?metric=&plant_ids=1,2,3&date=
// Compares plants by one metric on one date. Plants without a report for the
// date report zero rather than dropping out.
func ComparePlantsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		metric, ok := ParseMetric(c.Query("metric"))
		if !ok {
			return fiber.NewError(fiber.StatusBadRequest, "Unknown metric: "+c.Query("metric"))
		}
		date, err := time.Parse(dateLayout, c.Query("date"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "date is required as YYYY-MM-DD")
		}

		idsParam := strings.Split(c.Query("plant_ids"), ",")
		plantIDs := make([]uint, 0, len(idsParam))
		for _, raw := range idsParam {
			raw = strings.TrimSpace(raw)
			if raw == "" {
				continue
			}
			id, err := strconv.ParseUint(raw, 10, 32)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Invalid plant ID: "+raw)
			}
			plantIDs = append(plantIDs, uint(id))
		}
		if len(plantIDs) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "plant_ids is required")
		}

		result := make([]plantComparison, 0, len(plantIDs))
		for _, plantID := range plantIDs {
			var plant models.PowerPlant
			if err := database.DB.First(&plant, plantID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					continue
				}
				return fiber.NewError(fiber.StatusInternalServerError, "Failed to load power plant")
			}

			value := 0.0
			var report models.DailyReport
			err := database.DB.
				Where("power_plant_id = ? AND date = ?", plantID, date).
				First(&report).Error
			if err == nil {
				value = MetricValue(&report, metric).InexactFloat64()
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusInternalServerError, "Failed to load report")
			}

			result = append(result, plantComparison{
				PowerPlantID:   plant.ID,
				PowerPlantName: plant.Name,
				Value:          value,
			})
		}
		return c.JSON(result)
	}
}
