package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MorningReading: the declaration an operator submits at the start of the day.
// One per plant and date.
type MorningReading struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Date         time.Time `gorm:"type:date;not null;uniqueIndex:idx_morning_reading_plant_date"`
	PowerPlantID uint      `gorm:"not null;uniqueIndex:idx_morning_reading_plant_date"`
	PowerPlant   PowerPlant
	UserID       uint `gorm:"not null"`

	DeclarationTotal     decimal.Decimal `gorm:"type:numeric(10,2);not null"` // MW
	AvailabilityCapacity decimal.Decimal `gorm:"type:numeric(10,2);not null"` // MW

	SubmissionDeadline *time.Time
	IsLateSubmission   bool `gorm:"not null;default:false"`
	LastModifiedByID   *uint

	Declarations []TurbineHourlyDeclaration `gorm:"constraint:OnDelete:CASCADE"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (m *MorningReading) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// TurbineHourlyDeclaration: declared output per turbine per hour of the day.
type TurbineHourlyDeclaration struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	MorningReadingID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_hourly_declaration_turbine_hour"`
	TurbineID        uint      `gorm:"not null;uniqueIndex:idx_hourly_declaration_turbine_hour"`
	Turbine          Turbine
	Hour             int             `gorm:"not null;uniqueIndex:idx_hourly_declaration_turbine_hour;check:hour >= 1 AND hour <= 24"`
	DeclaredOutput   decimal.Decimal `gorm:"type:numeric(10,2);not null"` // MW

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (d *TurbineHourlyDeclaration) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}
