package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DailyReport: one operational report per plant and date. Raw inputs come from
// the operators; the derived fields are written exclusively by the calculation
// engine and are either all set or never touched.
type DailyReport struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Date         time.Time `gorm:"type:date;not null;uniqueIndex:idx_daily_report_plant_date"`
	PowerPlantID uint      `gorm:"not null;uniqueIndex:idx_daily_report_plant_date"`
	PowerPlant   PowerPlant
	UserID       uint `gorm:"not null"`

	// Raw inputs from the daily report form.
	GasLoss      decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0"` // MWh
	NCCLoss      decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0"` // MWh
	InternalLoss decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0"` // MWh
	GasConsumed  decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0"` // MSCM

	// Optionally copied from the morning declaration.
	DeclarationTotal     decimal.NullDecimal `gorm:"type:numeric(10,2)"` // MW
	AvailabilityCapacity decimal.NullDecimal `gorm:"type:numeric(10,2)"` // MW

	// Derived metrics, persisted by the calculation engine.
	EnergyGenerated      decimal.NullDecimal `gorm:"type:numeric(10,2)"` // MWh
	TotalEnergyExported  decimal.NullDecimal `gorm:"type:numeric(10,2)"` // MWh
	EnergyConsumed       decimal.NullDecimal `gorm:"type:numeric(10,2)"` // MWh
	AvailabilityFactor   decimal.NullDecimal `gorm:"type:numeric(10,2)"` // %
	AvailabilityForecast decimal.NullDecimal `gorm:"type:numeric(10,2)"` // MWh
	PlantHeatRate        decimal.NullDecimal `gorm:"type:numeric(10,2)"` // Btu/kWh
	ThermalEfficiency    decimal.NullDecimal `gorm:"type:numeric(10,2)"` // %
	DependabilityIndex   decimal.NullDecimal `gorm:"type:numeric(10,2)"` // %
	AvgEnergySentOut     decimal.NullDecimal `gorm:"type:numeric(10,2)"` // MW
	GasUtilization       decimal.NullDecimal `gorm:"type:numeric(10,2)"` // MWh/MSCM
	LoadFactor           decimal.NullDecimal `gorm:"type:numeric(10,2)"` // %

	SubmissionDeadline *time.Time
	IsLateSubmission   bool `gorm:"not null;default:false"`
	LastModifiedByID   *uint

	TurbineStats   []TurbineDailyStat        `gorm:"constraint:OnDelete:CASCADE"`
	HourlyReadings []TurbineHourlyGeneration `gorm:"constraint:OnDelete:CASCADE"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (r *DailyReport) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// TurbineDailyStat: per-turbine daily totals. One row per report and turbine.
// When hourly readings exist for the report, EnergyGenerated is kept in sync
// with their per-turbine sums by the reconciler.
type TurbineDailyStat struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	DailyReportID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_daily_stat_report_turbine"`
	TurbineID     uint      `gorm:"not null;uniqueIndex:idx_daily_stat_report_turbine"`
	Turbine       Turbine

	EnergyGenerated decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0"` // MWh
	EnergyExported  decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0"` // MWh
	OperatingHours  decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0"`
	StartupCount    int             `gorm:"not null;default:0"`
	ShutdownCount   int             `gorm:"not null;default:0"`
	Trips           int             `gorm:"not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (s *TurbineDailyStat) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TurbineHourlyGeneration: metered generation per turbine per hour (1-24).
// Hourly rows carry generation only; export is tracked at daily granularity.
type TurbineHourlyGeneration struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	DailyReportID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_hourly_generation_turbine_hour"`
	TurbineID       uint      `gorm:"not null;uniqueIndex:idx_hourly_generation_turbine_hour"`
	Turbine         Turbine
	Hour            int             `gorm:"not null;uniqueIndex:idx_hourly_generation_turbine_hour;check:hour >= 1 AND hour <= 24"`
	EnergyGenerated decimal.Decimal `gorm:"type:numeric(10,2);not null"` // MWh

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (g *TurbineHourlyGeneration) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}
