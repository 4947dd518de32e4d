package morning

import (
	"errors"
	"log"
	"strconv"
	"time"

	"plantops-backend/internal/auth"
	"plantops-backend/internal/config"
	"plantops-backend/internal/database"
	"plantops-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

type DeclarationInput struct {
	TurbineID      uint            `json:"turbine_id"`
	Hour           int             `json:"hour"`
	DeclaredOutput decimal.Decimal `json:"declared_output"`
}

type CreateMorningReadingRequest struct {
	Date                 string             `json:"date"`
	PowerPlantID         uint               `json:"power_plant_id"`
	DeclarationTotal     decimal.Decimal    `json:"declaration_total"`
	AvailabilityCapacity decimal.Decimal    `json:"availability_capacity"`
	Declarations         []DeclarationInput `json:"declarations"`
}

type UpdateMorningReadingRequest struct {
	DeclarationTotal     *decimal.Decimal   `json:"declaration_total"`
	AvailabilityCapacity *decimal.Decimal   `json:"availability_capacity"`
	Declarations         []DeclarationInput `json:"declarations"`
}

type declarationResponse struct {
	TurbineID      uint    `json:"turbine_id"`
	Hour           int     `json:"hour"`
	DeclaredOutput float64 `json:"declared_output"`
}

func readingResponse(r *models.MorningReading) fiber.Map {
	return fiber.Map{
		"id":                    r.ID,
		"date":                  r.Date.Format(dateLayout),
		"power_plant_id":        r.PowerPlantID,
		"declaration_total":     r.DeclarationTotal.InexactFloat64(),
		"availability_capacity": r.AvailabilityCapacity.InexactFloat64(),
		"is_late_submission":    r.IsLateSubmission,
	}
}

// deadline: declarations are due by midday of the reading's own day.
func deadline(date time.Time, loc *time.Location) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 12, 0, 0, 0, loc)
}

func timezone(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Printf("[WARN] Unknown timezone %q, deadlines will use UTC", name)
		return time.UTC
	}
	return loc
}

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

func validateDeclarations(decls []DeclarationInput, plantID uint) error {
	for _, d := range decls {
		if d.Hour < 1 || d.Hour > 24 {
			return fiber.NewError(fiber.StatusBadRequest,
				"Hour must be between 1 and 24, got "+strconv.Itoa(d.Hour))
		}
		var turbine models.Turbine
		err := database.DB.Where("id = ? AND power_plant_id = ?", d.TurbineID, plantID).
			First(&turbine).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound,
					"Turbine "+strconv.FormatUint(uint64(d.TurbineID), 10)+" not found in this power plant")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to check turbine")
		}
	}
	return nil
}

// POST /api/readings/morning (operator before same-day midday, editor/admin any time)
func CreateMorningReadingHandler(cfg *config.Config) fiber.Handler {
	loc := timezone(cfg.ReportTimezone)
	return func(c *fiber.Ctx) error {
		var body CreateMorningReadingRequest
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

		now := time.Now().In(loc)
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		if date.After(today) {
			return fiber.NewError(fiber.StatusBadRequest, "Cannot submit readings for future dates")
		}

		var count int64
		database.DB.Model(&models.MorningReading{}).
			Where("power_plant_id = ? AND date = ?", body.PowerPlantID, date).
			Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusConflict, "A morning reading already exists for this plant and date")
		}

		if err := validateDeclarations(body.Declarations, plant.ID); err != nil {
			return err
		}

		due := deadline(date, loc)
		pastDeadline := now.After(due)

		role, _ := auth.CurrentRole(c)
		if role == models.RoleOperator && pastDeadline {
			return fiber.NewError(fiber.StatusForbidden, "Submission deadline has passed, contact an editor")
		}

		userID, _ := auth.CurrentUserID(c)
		reading := models.MorningReading{
			Date:                 date,
			PowerPlantID:         plant.ID,
			UserID:               userID,
			DeclarationTotal:     body.DeclarationTotal,
			AvailabilityCapacity: body.AvailabilityCapacity,
			SubmissionDeadline:   &due,
			IsLateSubmission:     pastDeadline,
			LastModifiedByID:     &userID,
		}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&reading).Error; err != nil {
				return err
			}
			for _, d := range body.Declarations {
				decl := models.TurbineHourlyDeclaration{
					MorningReadingID: reading.ID,
					TurbineID:        d.TurbineID,
					Hour:             d.Hour,
					DeclaredOutput:   d.DeclaredOutput,
				}
				if err := tx.Create(&decl).Error; err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to create morning reading")
		}

		return c.Status(fiber.StatusCreated).JSON(readingResponse(&reading))
	}
}

// GET /api/readings/morning/plant/:plantID/date/:date
func GetMorningReadingHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		plantID, err := strconv.ParseUint(c.Params("plantID"), 10, 32)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid power plant ID")
		}
		date, err := time.Parse(dateLayout, c.Params("date"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
		}

		var reading models.MorningReading
		err = database.DB.
			Where("power_plant_id = ? AND date = ?", plantID, date).
			First(&reading).Error
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Morning reading not found")
		}

		var decls []models.TurbineHourlyDeclaration
		if err := database.DB.Where("morning_reading_id = ?", reading.ID).Order("turbine_id, hour").Find(&decls).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to load declarations")
		}

		declsRes := make([]declarationResponse, 0, len(decls))
		for _, d := range decls {
			declsRes = append(declsRes, declarationResponse{
				TurbineID:      d.TurbineID,
				Hour:           d.Hour,
				DeclaredOutput: d.DeclaredOutput.InexactFloat64(),
			})
		}

		res := readingResponse(&reading)
		res["declarations"] = declsRes
		return c.JSON(res)
	}
}

// GET /api/readings/morning/plant/:plantID?skip=&limit=
func ListMorningReadingsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		plantID, err := strconv.ParseUint(c.Params("plantID"), 10, 32)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid power plant ID")
		}
		skip := c.QueryInt("skip", 0)
		limit := c.QueryInt("limit", 100)

		var readings []models.MorningReading
		err = database.DB.
			Where("power_plant_id = ?", plantID).
			Order("date DESC").
			Offset(skip).Limit(limit).
			Find(&readings).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to list morning readings")
		}

		res := make([]fiber.Map, 0, len(readings))
		for i := range readings {
			res = append(res, readingResponse(&readings[i]))
		}
		return c.JSON(res)
	}
}

// PUT /api/readings/morning/:id (operator before deadline, editor/admin any time)
func UpdateMorningReadingHandler(cfg *config.Config) fiber.Handler {
	loc := timezone(cfg.ReportTimezone)
	return func(c *fiber.Ctx) error {
		readingID, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid reading ID")
		}

		var reading models.MorningReading
		if err := database.DB.First(&reading, "id = ?", readingID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Morning reading not found")
		}
		if err := requirePlantAccess(c, reading.PowerPlantID); err != nil {
			return err
		}

		now := time.Now().In(loc)
		pastDeadline := reading.SubmissionDeadline != nil && now.After(*reading.SubmissionDeadline)

		role, _ := auth.CurrentRole(c)
		if role == models.RoleOperator && pastDeadline {
			return fiber.NewError(fiber.StatusForbidden, "Submission deadline has passed, contact an editor")
		}

		var body UpdateMorningReadingRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if err := validateDeclarations(body.Declarations, reading.PowerPlantID); err != nil {
			return err
		}

		if body.DeclarationTotal != nil {
			reading.DeclarationTotal = *body.DeclarationTotal
		}
		if body.AvailabilityCapacity != nil {
			reading.AvailabilityCapacity = *body.AvailabilityCapacity
		}
		if pastDeadline {
			reading.IsLateSubmission = true
		}
		userID, _ := auth.CurrentUserID(c)
		reading.LastModifiedByID = &userID

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			for _, d := range body.Declarations {
				var decl models.TurbineHourlyDeclaration
				err := tx.Where("morning_reading_id = ? AND turbine_id = ? AND hour = ?",
					reading.ID, d.TurbineID, d.Hour).
					First(&decl).Error
				if errors.Is(err, gorm.ErrRecordNotFound) {
					decl = models.TurbineHourlyDeclaration{
						MorningReadingID: reading.ID,
						TurbineID:        d.TurbineID,
						Hour:             d.Hour,
					}
				} else if err != nil {
					return err
				}
				decl.DeclaredOutput = d.DeclaredOutput
				if err := tx.Save(&decl).Error; err != nil {
					return err
				}
			}
			return tx.Save(&reading).Error
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to update morning reading")
		}

		return c.JSON(readingResponse(&reading))
	}
}
