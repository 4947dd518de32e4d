package calculation

import (
	"plantops-backend/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Repository is the slice of persistence the engine needs. Lookups return
// (nil, nil) when the row does not exist. Callers that need atomicity hand
// the engine a repository bound to their transaction.
type Repository interface {
	DailyReport(id uuid.UUID) (*models.DailyReport, error)
	PowerPlant(id uint) (*models.PowerPlant, error)
	TurbineStats(reportID uuid.UUID) ([]models.TurbineDailyStat, error)
	HourlyReadings(reportID uuid.UUID) ([]models.TurbineHourlyGeneration, error)
	SaveDailyReport(report *models.DailyReport) error
	SaveTurbineStat(stat *models.TurbineDailyStat) error
}

// Engine recomputes a report's energy totals and derived metrics. It must run
// after every mutation of a report's raw inputs, turbine stats or hourly
// readings, inside the same transaction as the mutation.
type Engine struct {
	repo Repository
}

func NewEngine(repo Repository) *Engine {
	return &Engine{repo: repo}
}

// Recalculate reconciles the energy totals and rewrites all derived fields of
// the report. A report or plant that cannot be resolved is a no-op, not an
// error: existence checks belong to the caller, and a half-updated report must
// never become visible.
func (e *Engine) Recalculate(reportID uuid.UUID) error {
	report, err := e.repo.DailyReport(reportID)
	if err != nil {
		return err
	}
	if report == nil {
		return nil
	}

	plant, err := e.repo.PowerPlant(report.PowerPlantID)
	if err != nil {
		return err
	}
	if plant == nil {
		return nil
	}

	stats, err := e.repo.TurbineStats(reportID)
	if err != nil {
		return err
	}
	hourly, err := e.repo.HourlyReadings(reportID)
	if err != nil {
		return err
	}

	res := Reconcile(stats, hourly)

	// Hourly data is the meter of record: push its per-turbine sums down onto
	// the daily stats so the two views cannot drift apart. Exported energy has
	// no hourly source and stays as entered.
	if res.HourlyAuthoritative {
		for i := range stats {
			sum, ok := res.TurbineGenerated[stats[i].TurbineID]
			if !ok {
				sum = decimal.Zero
			}
			if stats[i].EnergyGenerated.Equal(sum) {
				continue
			}
			stats[i].EnergyGenerated = sum
			if err := e.repo.SaveTurbineStat(&stats[i]); err != nil {
				return err
			}
		}
	}

	derived := Compute(Inputs{
		EnergyGenerated:      res.EnergyGenerated,
		EnergyExported:       res.EnergyExported,
		GasConsumed:          report.GasConsumed,
		AvailabilityCapacity: report.AvailabilityCapacity,
		DeclarationTotal:     report.DeclarationTotal,
		PlantCapacity:        plant.TotalCapacity,
	})

	report.EnergyGenerated = valid(res.EnergyGenerated)
	report.TotalEnergyExported = valid(res.EnergyExported)
	report.EnergyConsumed = valid(derived.EnergyConsumed)
	report.AvailabilityFactor = valid(derived.AvailabilityFactor)
	report.AvailabilityForecast = valid(derived.AvailabilityForecast)
	report.PlantHeatRate = valid(derived.PlantHeatRate)
	report.ThermalEfficiency = valid(derived.ThermalEfficiency)
	report.DependabilityIndex = valid(derived.DependabilityIndex)
	report.AvgEnergySentOut = valid(derived.AvgEnergySentOut)
	report.GasUtilization = valid(derived.GasUtilization)
	report.LoadFactor = valid(derived.LoadFactor)

	return e.repo.SaveDailyReport(report)
}

func valid(d decimal.Decimal) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: d, Valid: true}
}
