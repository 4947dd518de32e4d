package dashboard

import (
	"time"

	"plantops-backend/internal/calculation"
	"plantops-backend/internal/database"
	"plantops-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

var hoursPerDay = decimal.NewFromInt(24)

type fleetMetrics struct {
	Date                  string  `json:"date"`
	EnergyGenerated       float64 `json:"energy_generated"`
	EnergyExported        float64 `json:"energy_exported"`
	EnergyConsumed        float64 `json:"energy_consumed"`
	GasConsumed           float64 `json:"gas_consumed"`
	AvgPowerExported      float64 `json:"avg_power_exported"`
	AvgDependabilityIndex float64 `json:"avg_dependability_index"`
	AvgGasUtilization     float64 `json:"avg_gas_utilization"`
	AvgAvailabilityFactor float64 `json:"avg_availability_factor"`
}

// fleetMetricsFor aggregates stored report metrics across all plants for one
// date. Absolute figures sum; percentage figures average over the reports
// that carry them.
func fleetMetricsFor(date time.Time) (fleetMetrics, error) {
	out := fleetMetrics{Date: date.Format(dateLayout)}

	var reports []models.DailyReport
	if err := database.DB.Where("date = ?", date).Find(&reports).Error; err != nil {
		return out, err
	}

	generated := decimal.Zero
	exported := decimal.Zero
	gas := decimal.Zero
	dependability := decimal.Zero
	gasUtilization := decimal.Zero
	availability := decimal.Zero

	for i := range reports {
		r := &reports[i]
		generated = generated.Add(calculation.MetricValue(r, calculation.MetricEnergyGenerated))
		exported = exported.Add(calculation.MetricValue(r, calculation.MetricEnergyExported))
		gas = gas.Add(r.GasConsumed)
		dependability = dependability.Add(calculation.MetricValue(r, calculation.MetricDependabilityIndex))
		gasUtilization = gasUtilization.Add(calculation.MetricValue(r, calculation.MetricGasUtilization))
		availability = availability.Add(calculation.MetricValue(r, calculation.MetricAvailabilityFactor))
	}

	out.EnergyGenerated = generated.InexactFloat64()
	out.EnergyExported = exported.InexactFloat64()
	out.EnergyConsumed = generated.Sub(exported).InexactFloat64()
	out.GasConsumed = gas.InexactFloat64()
	out.AvgPowerExported = exported.Div(hoursPerDay).InexactFloat64()

	if n := len(reports); n > 0 {
		count := decimal.NewFromInt(int64(n))
		out.AvgDependabilityIndex = dependability.Div(count).InexactFloat64()
		out.AvgGasUtilization = gasUtilization.Div(count).InexactFloat64()
		out.AvgAvailabilityFactor = availability.Div(count).InexactFloat64()
	}
	return out, nil
}

func percentChange(current, previous float64) float64 {
	if previous == 0 {
		return 0
	}
	return (current - previous) / previous * 100
}

// GET /api/dashboard/summary
// Fleet-wide figures for yesterday against the day before. Data arrives at
// end of day, so "current" is always yesterday.
func SummaryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		today := time.Now().UTC().Truncate(24 * time.Hour)
		yesterday := today.AddDate(0, 0, -1)
		dayBefore := today.AddDate(0, 0, -2)

		current, err := fleetMetricsFor(yesterday)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to aggregate reports")
		}
		previous, err := fleetMetricsFor(dayBefore)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to aggregate reports")
		}

		changes := fiber.Map{
			"energy_generated":   percentChange(current.EnergyGenerated, previous.EnergyGenerated),
			"energy_exported":    percentChange(current.EnergyExported, previous.EnergyExported),
			"energy_consumed":    percentChange(current.EnergyConsumed, previous.EnergyConsumed),
			"gas_consumed":       percentChange(current.GasConsumed, previous.GasConsumed),
			"avg_power_exported": percentChange(current.AvgPowerExported, previous.AvgPowerExported),
		}

		return c.JSON(fiber.Map{
			"current_day":       current,
			"previous_day":      previous,
			"percentage_change": changes,
		})
	}
}

type hourlyPoint struct {
	Hour            int     `json:"hour"`
	EnergyGenerated float64 `json:"energy_generated"`
}

// GET /api/dashboard/hourly-generation?date=&power_plant_id=
// The plant's generation profile over the 24 hours of one day, summed across
// turbines. Hours without readings report zero.
func HourlyGenerationHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		date, err := time.Parse(dateLayout, c.Query("date"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "date is required as YYYY-MM-DD")
		}
		plantID := c.QueryInt("power_plant_id", 0)
		if plantID <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "power_plant_id is required")
		}

		var plant models.PowerPlant
		if err := database.DB.First(&plant, plantID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Power plant not found")
		}

		var report models.DailyReport
		err = database.DB.
			Where("power_plant_id = ? AND date = ?", plantID, date).
			First(&report).Error

		perHour := make(map[int]decimal.Decimal, 24)
		if err == nil {
			var readings []models.TurbineHourlyGeneration
			if err := database.DB.Where("daily_report_id = ?", report.ID).Find(&readings).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Failed to load hourly readings")
			}
			for _, r := range readings {
				perHour[r.Hour] = perHour[r.Hour].Add(r.EnergyGenerated)
			}
		}

		points := make([]hourlyPoint, 0, 24)
		for hour := 1; hour <= 24; hour++ {
			points = append(points, hourlyPoint{
				Hour:            hour,
				EnergyGenerated: perHour[hour].InexactFloat64(),
			})
		}

		return c.JSON(fiber.Map{
			"power_plant_id":   plant.ID,
			"power_plant_name": plant.Name,
			"date":             date.Format(dateLayout),
			"points":           points,
		})
	}
}

type operationalRow struct {
	PowerPlantID   uint    `json:"power_plant_id"`
	PowerPlantName string  `json:"power_plant_name"`
	OperatingHours float64 `json:"operating_hours"`
	StartupCount   int     `json:"startup_count"`
	ShutdownCount  int     `json:"shutdown_count"`
	Trips          int     `json:"trips"`
}

// GET /api/dashboard/operational?date=
// Per-plant operational counters (startups, shutdowns, trips, hours run) for
// one date. Plants without a report for the date are listed with zeros.
func OperationalHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		date, err := time.Parse(dateLayout, c.Query("date"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "date is required as YYYY-MM-DD")
		}

		var plants []models.PowerPlant
		if err := database.DB.Order("name").Find(&plants).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to list power plants")
		}

		rows := make([]operationalRow, 0, len(plants))
		for _, plant := range plants {
			row := operationalRow{
				PowerPlantID:   plant.ID,
				PowerPlantName: plant.Name,
			}

			var report models.DailyReport
			err := database.DB.
				Where("power_plant_id = ? AND date = ?", plant.ID, date).
				First(&report).Error
			if err == nil {
				var stats []models.TurbineDailyStat
				if err := database.DB.Where("daily_report_id = ?", report.ID).Find(&stats).Error; err != nil {
					return fiber.NewError(fiber.StatusInternalServerError, "Failed to load turbine stats")
				}
				hours := decimal.Zero
				for _, s := range stats {
					hours = hours.Add(s.OperatingHours)
					row.StartupCount += s.StartupCount
					row.ShutdownCount += s.ShutdownCount
					row.Trips += s.Trips
				}
				row.OperatingHours = hours.InexactFloat64()
			}
			rows = append(rows, row)
		}
		return c.JSON(rows)
	}
}

type declarationRow struct {
	PowerPlantID         uint    `json:"power_plant_id"`
	PowerPlantName       string  `json:"power_plant_name"`
	DeclarationTotal     float64 `json:"declaration_total"`
	AvailabilityCapacity float64 `json:"availability_capacity"`
	Submitted            bool    `json:"submitted"`
}

// GET /api/dashboard/morning-declarations?date=
func MorningDeclarationsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		date, err := time.Parse(dateLayout, c.Query("date"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "date is required as YYYY-MM-DD")
		}

		var plants []models.PowerPlant
		if err := database.DB.Order("name").Find(&plants).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to list power plants")
		}

		rows := make([]declarationRow, 0, len(plants))
		for _, plant := range plants {
			row := declarationRow{
				PowerPlantID:   plant.ID,
				PowerPlantName: plant.Name,
			}

			var reading models.MorningReading
			err := database.DB.
				Where("power_plant_id = ? AND date = ?", plant.ID, date).
				First(&reading).Error
			if err == nil {
				row.Submitted = true
				row.DeclarationTotal = reading.DeclarationTotal.InexactFloat64()
				row.AvailabilityCapacity = reading.AvailabilityCapacity.InexactFloat64()
			}
			rows = append(rows, row)
		}
		return c.JSON(rows)
	}
}
