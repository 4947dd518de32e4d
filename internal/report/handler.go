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

const dateLayout = "2006-01-02"

type InitialTurbineStat struct {
	TurbineID       uint            `json:"turbine_id"`
	EnergyGenerated decimal.Decimal `json:"energy_generated"`
	EnergyExported  decimal.Decimal `json:"energy_exported"`
	OperatingHours  decimal.Decimal `json:"operating_hours"`
	StartupCount    int             `json:"startup_count"`
	ShutdownCount   int             `json:"shutdown_count"`
	Trips           int             `json:"trips"`
}

type CreateDailyReportRequest struct {
	Date                 string               `json:"date"`
	PowerPlantID         uint                 `json:"power_plant_id"`
	GasLoss              *decimal.Decimal     `json:"gas_loss"`
	NCCLoss              *decimal.Decimal     `json:"ncc_loss"`
	InternalLoss         *decimal.Decimal     `json:"internal_loss"`
	GasConsumed          *decimal.Decimal     `json:"gas_consumed"`
	DeclarationTotal     *decimal.Decimal     `json:"declaration_total"`
	AvailabilityCapacity *decimal.Decimal     `json:"availability_capacity"`
	InitialTurbineStats  []InitialTurbineStat `json:"initial_turbine_stats"`
}

type TurbineStatUpdate struct {
	TurbineID       uint             `json:"turbine_id"`
	EnergyGenerated *decimal.Decimal `json:"energy_generated"`
	EnergyExported  *decimal.Decimal `json:"energy_exported"`
	OperatingHours  *decimal.Decimal `json:"operating_hours"`
	StartupCount    *int             `json:"startup_count"`
	ShutdownCount   *int             `json:"shutdown_count"`
	Trips           *int             `json:"trips"`
}

type UpdateDailyReportRequest struct {
	GasLoss              *decimal.Decimal    `json:"gas_loss"`
	NCCLoss              *decimal.Decimal    `json:"ncc_loss"`
	InternalLoss         *decimal.Decimal    `json:"internal_loss"`
	GasConsumed          *decimal.Decimal    `json:"gas_consumed"`
	DeclarationTotal     *decimal.Decimal    `json:"declaration_total"`
	AvailabilityCapacity *decimal.Decimal    `json:"availability_capacity"`
	TurbineStats         []TurbineStatUpdate `json:"turbine_stats"`
}

type turbineStatResponse struct {
	TurbineID       uint    `json:"turbine_id"`
	EnergyGenerated float64 `json:"energy_generated"`
	EnergyExported  float64 `json:"energy_exported"`
	OperatingHours  float64 `json:"operating_hours"`
	StartupCount    int     `json:"startup_count"`
	ShutdownCount   int     `json:"shutdown_count"`
	Trips           int     `json:"trips"`
}

func nullFloat(d decimal.NullDecimal) float64 {
	if !d.Valid {
		return 0
	}
	return d.Decimal.InexactFloat64()
}

// reportResponse flattens a report for the API. Decimals become floats here
// and nowhere earlier.
func reportResponse(r *models.DailyReport) fiber.Map {
	return fiber.Map{
		"id":                    r.ID,
		"date":                  r.Date.Format(dateLayout),
		"power_plant_id":        r.PowerPlantID,
		"gas_loss":              r.GasLoss.InexactFloat64(),
		"ncc_loss":              r.NCCLoss.InexactFloat64(),
		"internal_loss":         r.InternalLoss.InexactFloat64(),
		"gas_consumed":          r.GasConsumed.InexactFloat64(),
		"declaration_total":     nullFloat(r.DeclarationTotal),
		"availability_capacity": nullFloat(r.AvailabilityCapacity),
		"energy_generated":      nullFloat(r.EnergyGenerated),
		"total_energy_exported": nullFloat(r.TotalEnergyExported),
		"energy_consumed":       nullFloat(r.EnergyConsumed),
		"availability_factor":   nullFloat(r.AvailabilityFactor),
		"availability_forecast": nullFloat(r.AvailabilityForecast),
		"plant_heat_rate":       nullFloat(r.PlantHeatRate),
		"thermal_efficiency":    nullFloat(r.ThermalEfficiency),
		"dependability_index":   nullFloat(r.DependabilityIndex),
		"avg_energy_sent_out":   nullFloat(r.AvgEnergySentOut),
		"gas_utilization":       nullFloat(r.GasUtilization),
		"load_factor":           nullFloat(r.LoadFactor),
		"is_late_submission":    r.IsLateSubmission,
	}
}

func statResponse(s *models.TurbineDailyStat) turbineStatResponse {
	return turbineStatResponse{
		TurbineID:       s.TurbineID,
		EnergyGenerated: s.EnergyGenerated.InexactFloat64(),
		EnergyExported:  s.EnergyExported.InexactFloat64(),
		OperatingHours:  s.OperatingHours.InexactFloat64(),
		StartupCount:    s.StartupCount,
		ShutdownCount:   s.ShutdownCount,
		Trips:           s.Trips,
	}
}

// requirePlantAccess: operators may only touch their assigned plant.
func requirePlantAccess(c *fiber.Ctx, plantID uint) error {
	role, ok := auth.CurrentRole(c)
	if !ok {
		return fiber.NewError(fiber.StatusForbidden, "Could not read role from token")
	}
	if role != models.RoleOperator {
		return nil
	}
	assigned := auth.CurrentPlantID(c)
	if assigned == nil || *assigned != plantID {
		return fiber.NewError(fiber.StatusForbidden, "You do not have permission for this power plant")
	}
	return nil
}

// POST /api/reports/daily (operator, editor, admin)
// Creating is idempotent per plant and date: an existing report is returned
// untouched. The report is seeded with one stat row per plant turbine and run
// through the calculation engine in the same transaction.
func CreateDailyReportHandler(cfg *config.Config) fiber.Handler {
	loc := Timezone(cfg.ReportTimezone)
	return func(c *fiber.Ctx) error {
		var body CreateDailyReportRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		date, err := time.Parse(dateLayout, body.Date)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
		}
		if err := requirePlantAccess(c, body.PowerPlantID); err != nil {
			return err
		}

		var plant models.PowerPlant
		if err := database.DB.First(&plant, body.PowerPlantID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Power plant not found")
		}

		var existing models.DailyReport
		err = database.DB.
			Where("power_plant_id = ? AND date = ?", body.PowerPlantID, date).
			First(&existing).Error
		if err == nil {
			return c.JSON(reportResponse(&existing))
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to check existing report")
		}

		userID, _ := auth.CurrentUserID(c)
		deadline := Deadline(date, loc)

		report := models.DailyReport{
			Date:               date,
			PowerPlantID:       plant.ID,
			UserID:             userID,
			SubmissionDeadline: &deadline,
			LastModifiedByID:   &userID,
		}
		if body.GasLoss != nil {
			report.GasLoss = *body.GasLoss
		}
		if body.NCCLoss != nil {
			report.NCCLoss = *body.NCCLoss
		}
		if body.InternalLoss != nil {
			report.InternalLoss = *body.InternalLoss
		}
		if body.GasConsumed != nil {
			report.GasConsumed = *body.GasConsumed
		}
		if body.DeclarationTotal != nil {
			report.DeclarationTotal = decimal.NullDecimal{Decimal: *body.DeclarationTotal, Valid: true}
		}
		if body.AvailabilityCapacity != nil {
			report.AvailabilityCapacity = decimal.NullDecimal{Decimal: *body.AvailabilityCapacity, Valid: true}
		}

		var turbines []models.Turbine
		if err := database.DB.Where("power_plant_id = ?", plant.ID).Find(&turbines).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to load turbines")
		}

		provided := make(map[uint]InitialTurbineStat, len(body.InitialTurbineStats))
		for _, s := range body.InitialTurbineStats {
			provided[s.TurbineID] = s
		}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&report).Error; err != nil {
				return err
			}
			for _, turbine := range turbines {
				stat := models.TurbineDailyStat{
					DailyReportID: report.ID,
					TurbineID:     turbine.ID,
				}
				if s, ok := provided[turbine.ID]; ok {
					stat.EnergyGenerated = s.EnergyGenerated
					stat.EnergyExported = s.EnergyExported
					stat.OperatingHours = s.OperatingHours
					stat.StartupCount = s.StartupCount
					stat.ShutdownCount = s.ShutdownCount
					stat.Trips = s.Trips
				}
				if err := tx.Create(&stat).Error; err != nil {
					return err
				}
			}
			return calculation.NewEngine(calculation.NewRepository(tx)).Recalculate(report.ID)
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to create daily report")
		}

		if err := database.DB.First(&report, "id = ?", report.ID).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to reload report")
		}
		return c.Status(fiber.StatusCreated).JSON(reportResponse(&report))
	}
}

// PUT /api/reports/daily/:id (operator before deadline, editor/admin any time)
func UpdateDailyReportHandler(cfg *config.Config) fiber.Handler {
	loc := Timezone(cfg.ReportTimezone)
	return func(c *fiber.Ctx) error {
		reportID, err := uuid.Parse(c.Params("id"))
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

		var body UpdateDailyReportRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if pastDeadline {
			report.IsLateSubmission = true
		}
		if body.GasLoss != nil {
			report.GasLoss = *body.GasLoss
		}
		if body.NCCLoss != nil {
			report.NCCLoss = *body.NCCLoss
		}
		if body.InternalLoss != nil {
			report.InternalLoss = *body.InternalLoss
		}
		if body.GasConsumed != nil {
			report.GasConsumed = *body.GasConsumed
		}
		if body.DeclarationTotal != nil {
			report.DeclarationTotal = decimal.NullDecimal{Decimal: *body.DeclarationTotal, Valid: true}
		}
		if body.AvailabilityCapacity != nil {
			report.AvailabilityCapacity = decimal.NullDecimal{Decimal: *body.AvailabilityCapacity, Valid: true}
		}
		userID, _ := auth.CurrentUserID(c)
		report.LastModifiedByID = &userID

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			for _, statIn := range body.TurbineStats {
				var turbine models.Turbine
				err := tx.Where("id = ? AND power_plant_id = ?", statIn.TurbineID, report.PowerPlantID).
					First(&turbine).Error
				if err != nil {
					if errors.Is(err, gorm.ErrRecordNotFound) {
						return fiber.NewError(fiber.StatusNotFound,
							"Turbine "+strconv.FormatUint(uint64(statIn.TurbineID), 10)+" not found in this power plant")
					}
					return err
				}

				var stat models.TurbineDailyStat
				err = tx.Where("daily_report_id = ? AND turbine_id = ?", report.ID, statIn.TurbineID).
					First(&stat).Error
				if errors.Is(err, gorm.ErrRecordNotFound) {
					stat = models.TurbineDailyStat{
						DailyReportID: report.ID,
						TurbineID:     statIn.TurbineID,
					}
				} else if err != nil {
					return err
				}

				if statIn.EnergyGenerated != nil {
					stat.EnergyGenerated = *statIn.EnergyGenerated
				}
				if statIn.EnergyExported != nil {
					stat.EnergyExported = *statIn.EnergyExported
				}
				if statIn.OperatingHours != nil {
					stat.OperatingHours = *statIn.OperatingHours
				}
				if statIn.StartupCount != nil {
					stat.StartupCount = *statIn.StartupCount
				}
				if statIn.ShutdownCount != nil {
					stat.ShutdownCount = *statIn.ShutdownCount
				}
				if statIn.Trips != nil {
					stat.Trips = *statIn.Trips
				}
				if err := tx.Save(&stat).Error; err != nil {
					return err
				}
			}

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
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to update daily report")
		}

		if err := database.DB.First(&report, "id = ?", report.ID).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to reload report")
		}
		return c.JSON(reportResponse(&report))
	}
}

// GET /api/reports/daily/plant/:plantID/date/:date
// Full report view: raw fields, turbine stats, hourly readings and the
// calculation map (zero-filled until the engine has run).
func GetDailyReportHandler() fiber.Handler {
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
			return fiber.NewError(fiber.StatusNotFound, "Daily report not found")
		}

		var stats []models.TurbineDailyStat
		if err := database.DB.Where("daily_report_id = ?", report.ID).Order("turbine_id").Find(&stats).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to load turbine stats")
		}
		var readings []models.TurbineHourlyGeneration
		if err := database.DB.Where("daily_report_id = ?", report.ID).Order("turbine_id, hour").Find(&readings).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to load hourly readings")
		}

		statsRes := make([]turbineStatResponse, 0, len(stats))
		for i := range stats {
			statsRes = append(statsRes, statResponse(&stats[i]))
		}
		readingsRes := make([]hourlyReadingResponse, 0, len(readings))
		for i := range readings {
			readingsRes = append(readingsRes, readingResponse(&readings[i]))
		}

		res := reportResponse(&report)
		res["turbine_stats"] = statsRes
		res["hourly_readings"] = readingsRes
		res["calculations"] = calculation.Calculations(&report)
		return c.JSON(res)
	}
}

// GET /api/reports/daily/plant/:plantID?skip=&limit=
func ListDailyReportsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		plantID, err := strconv.ParseUint(c.Params("plantID"), 10, 32)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid power plant ID")
		}
		skip := c.QueryInt("skip", 0)
		limit := c.QueryInt("limit", 100)

		var reports []models.DailyReport
		err = database.DB.
			Where("power_plant_id = ?", plantID).
			Order("date DESC").
			Offset(skip).Limit(limit).
			Find(&reports).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to list reports")
		}

		res := make([]fiber.Map, 0, len(reports))
		for i := range reports {
			res = append(res, reportResponse(&reports[i]))
		}
		return c.JSON(res)
	}
}
