package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type PowerPlant struct {
	ID       uint   `gorm:"primaryKey"`
	Name     string `gorm:"size:100;uniqueIndex;not null"`
	Location string `gorm:"size:255"`

	// Installed (nameplate) capacity in MW. Denominator for the percentage metrics.
	TotalCapacity decimal.Decimal `gorm:"type:numeric(10,2);not null"`

	Turbines []Turbine `gorm:"constraint:OnDelete:CASCADE"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
