package user

import (
	"errors"
	"strings"

	"plantops-backend/internal/auth"
	"plantops-backend/internal/database"
	"plantops-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserResponse struct {
	ID           uint            `json:"id"`
	Email        string          `json:"email"`
	FullName     string          `json:"full_name"`
	Role         models.UserRole `json:"role"`
	IsActive     bool            `json:"is_active"`
	PowerPlantID *uint           `json:"power_plant_id"`
}

type CreateUserRequest struct {
	Email        string          `json:"email"`
	Password     string          `json:"password"`
	FullName     string          `json:"full_name"`
	Role         models.UserRole `json:"role"`
	PowerPlantID *uint           `json:"power_plant_id"`
}

type UpdateUserRequest struct {
	FullName     *string          `json:"full_name"`
	Role         *models.UserRole `json:"role"`
	IsActive     *bool            `json:"is_active"`
	PowerPlantID *uint            `json:"power_plant_id"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func userResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:           u.ID,
		Email:        u.Email,
		FullName:     u.FullName,
		Role:         u.Role,
		IsActive:     u.IsActive,
		PowerPlantID: u.PowerPlantID,
	}
}

func validRole(r models.UserRole) bool {
	switch r {
	case models.RoleAdmin, models.RoleEditor, models.RoleOperator, models.RoleViewer:
		return true
	}
	return false
}

// GET /api/users (admin)
func ListUsersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var users []models.User
		if err := database.DB.Order("id").Find(&users).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to list users")
		}

		res := make([]UserResponse, 0, len(users))
		for i := range users {
			res = append(res, userResponse(&users[i]))
		}
		return c.JSON(res)
	}
}

// POST /api/users (admin)
func CreateUserHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateUserRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Email = strings.TrimSpace(strings.ToLower(body.Email))
		if body.Email == "" || body.Password == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Email and password are required")
		}
		if !validRole(body.Role) {
			return fiber.NewError(fiber.StatusBadRequest, "Unknown role")
		}
		if body.Role == models.RoleOperator && body.PowerPlantID == nil {
			return fiber.NewError(fiber.StatusBadRequest, "Operators must be assigned to a power plant")
		}
		if body.PowerPlantID != nil {
			var plant models.PowerPlant
			if err := database.DB.First(&plant, *body.PowerPlantID).Error; err != nil {
				return fiber.NewError(fiber.StatusNotFound, "Power plant not found")
			}
		}

		var count int64
		database.DB.Model(&models.User{}).Where("email = ?", body.Email).Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusConflict, "A user with this email already exists")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to hash password")
		}

		user := models.User{
			Email:        body.Email,
			PasswordHash: string(hash),
			FullName:     body.FullName,
			Role:         body.Role,
			IsActive:     true,
			PowerPlantID: body.PowerPlantID,
		}
		if err := database.DB.Create(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to create user")
		}

		return c.Status(fiber.StatusCreated).JSON(userResponse(&user))
	}
}

// GET /api/users/:id (admin)
func GetUserHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var user models.User
		if err := database.DB.First(&user, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "User not found")
		}
		return c.JSON(userResponse(&user))
	}
}

// PUT /api/users/:id (admin)
func UpdateUserHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var user models.User
		if err := database.DB.First(&user, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "User not found")
		}

		var body UpdateUserRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.FullName != nil {
			user.FullName = *body.FullName
		}
		if body.Role != nil {
			if !validRole(*body.Role) {
				return fiber.NewError(fiber.StatusBadRequest, "Unknown role")
			}
			user.Role = *body.Role
		}
		if body.IsActive != nil {
			user.IsActive = *body.IsActive
		}
		if body.PowerPlantID != nil {
			var plant models.PowerPlant
			if err := database.DB.First(&plant, *body.PowerPlantID).Error; err != nil {
				return fiber.NewError(fiber.StatusNotFound, "Power plant not found")
			}
			user.PowerPlantID = body.PowerPlantID
		}

		if err := database.DB.Save(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to update user")
		}
		return c.JSON(userResponse(&user))
	}
}

// DELETE /api/users/:id (admin). Deactivates rather than removes, so rows
// referencing the account keep a valid author.
func DeleteUserHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var user models.User
		if err := database.DB.First(&user, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "User not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to load user")
		}

		user.IsActive = false
		if err := database.DB.Save(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to deactivate user")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// PUT /api/users/me/password
func ChangePasswordHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := auth.CurrentUserID(c)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "Could not read user from token")
		}

		var body ChangePasswordRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if len(body.NewPassword) < 8 {
			return fiber.NewError(fiber.StatusBadRequest, "New password must be at least 8 characters")
		}

		var user models.User
		if err := database.DB.First(&user, userID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "User not found")
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(body.CurrentPassword)); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Current password is wrong")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to hash password")
		}
		user.PasswordHash = string(hash)

		if err := database.DB.Save(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to update password")
		}
		return c.JSON(userResponse(&user))
	}
}
