package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Turbine struct {
	ID           uint            `gorm:"primaryKey"`
	Name         string          `gorm:"size:100;not null"`
	Capacity     decimal.Decimal `gorm:"type:numeric(10,2);not null"` // MW
	PowerPlantID uint            `gorm:"index;not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
