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

type PlantResponse struct {
	ID            uint            `json:"id"`
	Name          string          `json:"name"`
	Location      string          `json:"location"`
	TotalCapacity decimal.Decimal `json:"total_capacity"`
	CreatedAt     string          `json:"created_at"`
}

type CreatePlantRequest struct {
	Name          string          `json:"name"`
	Location      string          `json:"location"`
	TotalCapacity decimal.Decimal `json:"total_capacity"`
}

type UpdatePlantRequest struct {
	Name          *string          `json:"name"`
	Location      *string          `json:"location"`
	TotalCapacity *decimal.Decimal `json:"total_capacity"`
}

func plantResponse(p *models.PowerPlant) PlantResponse {
	return PlantResponse{
		ID:            p.ID,
		Name:          p.Name,
		Location:      p.Location,
		TotalCapacity: p.TotalCapacity,
		CreatedAt:     p.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// POST /api/power-plants (admin)
func CreatePlantHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreatePlantRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Plant name cannot be empty")
		}
		if body.TotalCapacity.IsNegative() {
			return fiber.NewError(fiber.StatusBadRequest, "Total capacity cannot be negative")
		}

		plant := models.PowerPlant{
			Name:          body.Name,
			Location:      body.Location,
			TotalCapacity: body.TotalCapacity,
		}

		if err := database.DB.Create(&plant).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to create power plant")
		}

		return c.Status(fiber.StatusCreated).JSON(plantResponse(&plant))
	}
}

// GET /api/power-plants
func ListPlantsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var plants []models.PowerPlant
		if err := database.DB.Order("name").Find(&plants).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to list power plants")
		}

		res := make([]PlantResponse, 0, len(plants))
		for i := range plants {
			res = append(res, plantResponse(&plants[i]))
		}
		return c.JSON(res)
	}
}

// GET /api/power-plants/:id — plant with its turbines.
func GetPlantHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var plant models.PowerPlant
		if err := database.DB.Preload("Turbines").First(&plant, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Power plant not found")
		}

		turbines := make([]TurbineResponse, 0, len(plant.Turbines))
		for i := range plant.Turbines {
			turbines = append(turbines, turbineResponse(&plant.Turbines[i]))
		}

		return c.JSON(fiber.Map{
			"id":             plant.ID,
			"name":           plant.Name,
			"location":       plant.Location,
			"total_capacity": plant.TotalCapacity,
			"turbines":       turbines,
		})
	}
}

// PUT /api/power-plants/:id (admin)
func UpdatePlantHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var plant models.PowerPlant
		if err := database.DB.First(&plant, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Power plant not found")
		}

		var body UpdatePlantRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Plant name cannot be empty")
			}
			plant.Name = name
		}
		if body.Location != nil {
			plant.Location = *body.Location
		}
		if body.TotalCapacity != nil {
			if body.TotalCapacity.IsNegative() {
				return fiber.NewError(fiber.StatusBadRequest, "Total capacity cannot be negative")
			}
			plant.TotalCapacity = *body.TotalCapacity
		}

		if err := database.DB.Save(&plant).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to update power plant")
		}

		return c.JSON(plantResponse(&plant))
	}
}

// DELETE /api/power-plants/:id (admin). Refused while reports exist.
func DeletePlantHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var plant models.PowerPlant
		if err := database.DB.First(&plant, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Power plant not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to load power plant")
		}

		var reportCount int64
		database.DB.Model(&models.DailyReport{}).
			Where("power_plant_id = ?", plant.ID).
			Count(&reportCount)
		if reportCount > 0 {
			return fiber.NewError(fiber.StatusConflict, "Power plant has daily reports and cannot be deleted")
		}

		if err := database.DB.Delete(&plant).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to delete power plant")
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}
