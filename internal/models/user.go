package models

import "time"

type UserRole string

const (
	RoleAdmin    UserRole = "admin"
	RoleEditor   UserRole = "editor"
	RoleOperator UserRole = "operator"
	RoleViewer   UserRole = "viewer"
)

type User struct {
	ID           uint     `gorm:"primaryKey"`
	Email        string   `gorm:"size:100;uniqueIndex;not null"`
	PasswordHash string   `gorm:"size:255;not null"`
	FullName     string   `gorm:"size:100"`
	Role         UserRole `gorm:"size:20;not null;default:viewer"`
	IsActive     bool     `gorm:"not null;default:true"`

	// Operators are pinned to a single plant; editors and admins roam.
	PowerPlantID *uint
	PowerPlant   *PowerPlant

	CreatedAt time.Time
	UpdatedAt time.Time
}
