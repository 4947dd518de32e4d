package plant

import (
	"errors"
	"strings"

	"plantops-backend/internal/database"
	"plantops-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type TurbineResponse struct {
	ID           uint            `json:"id"`
	Name         string          `json:"name"`
	Capacity     decimal.Decimal `json:"capacity"`
	PowerPlantID uint            `json:"power_plant_id"`
}

type CreateTurbineRequest struct {
	Name     string          `json:"name"`
	Capacity decimal.Decimal `json:"capacity"`
}

type UpdateTurbineRequest struct {
	Name     *string          `json:"name"`
	Capacity *decimal.Decimal `json:"capacity"`
}

func turbineResponse(t *models.Turbine) TurbineResponse {
	return TurbineResponse{
		ID:           t.ID,
		Name:         t.Name,
		Capacity:     t.Capacity,
		PowerPlantID: t.PowerPlantID,
	}
}

// GET /api/power-plants/:id/turbines
func ListTurbinesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		plantID := c.Params("id")

		var plant models.PowerPlant
		if err := database.DB.First(&plant, "id = ?", plantID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Power plant not found")
		}

		var turbines []models.Turbine
		if err := database.DB.Where("power_plant_id = ?", plant.ID).Order("id").Find(&turbines).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to list turbines")
		}

		res := make([]TurbineResponse, 0, len(turbines))
		for i := range turbines {
			res = append(res, turbineResponse(&turbines[i]))
		}
		return c.JSON(res)
	}
}

// POST /api/power-plants/:id/turbines (admin)
func CreateTurbineHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		plantID := c.Params("id")

		var plant models.PowerPlant
		if err := database.DB.First(&plant, "id = ?", plantID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Power plant not found")
		}

		var body CreateTurbineRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Turbine name cannot be empty")
		}
		if body.Capacity.IsNegative() {
			return fiber.NewError(fiber.StatusBadRequest, "Capacity cannot be negative")
		}

		turbine := models.Turbine{
			Name:         body.Name,
			Capacity:     body.Capacity,
			PowerPlantID: plant.ID,
		}
		if err := database.DB.Create(&turbine).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to create turbine")
		}

		return c.Status(fiber.StatusCreated).JSON(turbineResponse(&turbine))
	}
}

// GET /api/turbines/:id
func GetTurbineHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var turbine models.Turbine
		if err := database.DB.First(&turbine, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Turbine not found")
		}
		return c.JSON(turbineResponse(&turbine))
	}
}

// PUT /api/turbines/:id (admin)
func UpdateTurbineHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var turbine models.Turbine
		if err := database.DB.First(&turbine, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Turbine not found")
		}

		var body UpdateTurbineRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Turbine name cannot be empty")
			}
			turbine.Name = name
		}
		if body.Capacity != nil {
			if body.Capacity.IsNegative() {
				return fiber.NewError(fiber.StatusBadRequest, "Capacity cannot be negative")
			}
			turbine.Capacity = *body.Capacity
		}

		if err := database.DB.Save(&turbine).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to update turbine")
		}
		return c.JSON(turbineResponse(&turbine))
	}
}

// DELETE /api/turbines/:id (admin). Refused while stats or readings exist.
func DeleteTurbineHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var turbine models.Turbine
		if err := database.DB.First(&turbine, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Turbine not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to load turbine")
		}

		var statCount int64
		database.DB.Model(&models.TurbineDailyStat{}).
			Where("turbine_id = ?", turbine.ID).
			Count(&statCount)
		if statCount > 0 {
			return fiber.NewError(fiber.StatusConflict, "Turbine has recorded stats and cannot be deleted")
		}

		if err := database.DB.Delete(&turbine).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to delete turbine")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
