package calculation

import (
	"testing"

	"plantops-backend/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepository struct {
	report *models.DailyReport
	plant  *models.PowerPlant
	stats  []models.TurbineDailyStat
	hourly []models.TurbineHourlyGeneration

	savedReport *models.DailyReport
	savedStats  []models.TurbineDailyStat
}

func (f *fakeRepository) DailyReport(id uuid.UUID) (*models.DailyReport, error) {
	if f.report == nil || f.report.ID != id {
		return nil, nil
	}
	return f.report, nil
}

func (f *fakeRepository) PowerPlant(id uint) (*models.PowerPlant, error) {
	if f.plant == nil || f.plant.ID != id {
		return nil, nil
	}
	return f.plant, nil
}

func (f *fakeRepository) TurbineStats(reportID uuid.UUID) ([]models.TurbineDailyStat, error) {
	return f.stats, nil
}

func (f *fakeRepository) HourlyReadings(reportID uuid.UUID) ([]models.TurbineHourlyGeneration, error) {
	return f.hourly, nil
}

func (f *fakeRepository) SaveDailyReport(report *models.DailyReport) error {
	f.savedReport = report
	return nil
}

func (f *fakeRepository) SaveTurbineStat(s *models.TurbineDailyStat) error {
	f.savedStats = append(f.savedStats, *s)
	return nil
}

func TestEngineRecalculate(t *testing.T) {
	t.Run("missing report is a no-op", func(t *testing.T) {
		repo := &fakeRepository{}
		err := NewEngine(repo).Recalculate(uuid.New())

		require.NoError(t, err)
		assert.Nil(t, repo.savedReport)
		assert.Empty(t, repo.savedStats)
	})

	t.Run("missing plant is a no-op", func(t *testing.T) {
		repo := &fakeRepository{
			report: &models.DailyReport{ID: uuid.New(), PowerPlantID: 7},
		}
		err := NewEngine(repo).Recalculate(repo.report.ID)

		require.NoError(t, err)
		assert.Nil(t, repo.savedReport)
	})

	t.Run("persists every derived field", func(t *testing.T) {
		reportID := uuid.New()
		repo := &fakeRepository{
			report: &models.DailyReport{
				ID:                   reportID,
				PowerPlantID:         1,
				GasConsumed:          dec("20"),
				AvailabilityCapacity: nullDec("80"),
			},
			plant: &models.PowerPlant{ID: 1, TotalCapacity: dec("100")},
			stats: []models.TurbineDailyStat{
				stat(1, "1200", "1100"),
				stat(2, "800", "700"),
			},
		}

		err := NewEngine(repo).Recalculate(reportID)
		require.NoError(t, err)
		require.NotNil(t, repo.savedReport)

		r := repo.savedReport
		fields := map[string]decimal.NullDecimal{
			"energy_generated":      r.EnergyGenerated,
			"total_energy_exported": r.TotalEnergyExported,
			"energy_consumed":       r.EnergyConsumed,
			"availability_factor":   r.AvailabilityFactor,
			"availability_forecast": r.AvailabilityForecast,
			"plant_heat_rate":       r.PlantHeatRate,
			"thermal_efficiency":    r.ThermalEfficiency,
			"dependability_index":   r.DependabilityIndex,
			"avg_energy_sent_out":   r.AvgEnergySentOut,
			"gas_utilization":       r.GasUtilization,
			"load_factor":           r.LoadFactor,
		}
		for name, field := range fields {
			assert.True(t, field.Valid, "%s must be set after a recalculation", name)
		}

		assert.True(t, r.EnergyGenerated.Decimal.Equal(dec("2000")))
		assert.True(t, r.TotalEnergyExported.Decimal.Equal(dec("1800")))
		assert.True(t, r.EnergyConsumed.Decimal.Equal(dec("200")))
		assert.True(t, r.AvailabilityFactor.Decimal.Equal(dec("80")))
		assert.True(t, r.PlantHeatRate.Decimal.Equal(dec("353.14")))
	})

	t.Run("syncs daily stats with hourly sums", func(t *testing.T) {
		reportID := uuid.New()
		repo := &fakeRepository{
			report: &models.DailyReport{ID: reportID, PowerPlantID: 1},
			plant:  &models.PowerPlant{ID: 1, TotalCapacity: dec("100")},
			stats: []models.TurbineDailyStat{
				stat(1, "999", "480"),
				stat(2, "300", "290"),
			},
			hourly: []models.TurbineHourlyGeneration{
				hourlyRow(1, 1, "20"),
				hourlyRow(1, 2, "22"),
			},
		}

		err := NewEngine(repo).Recalculate(reportID)
		require.NoError(t, err)
		require.Len(t, repo.savedStats, 2)

		byTurbine := make(map[uint]models.TurbineDailyStat)
		for _, s := range repo.savedStats {
			byTurbine[s.TurbineID] = s
		}

		assert.True(t, byTurbine[1].EnergyGenerated.Equal(dec("42")))
		// Turbine 2 had no hourly rows, so its stale figure is zeroed.
		assert.True(t, byTurbine[2].EnergyGenerated.IsZero())
		// Export is never rewritten by the engine.
		assert.True(t, byTurbine[1].EnergyExported.Equal(dec("480")))
		assert.True(t, byTurbine[2].EnergyExported.Equal(dec("290")))

		// The report totals follow the hourly meter, export the daily stats.
		assert.True(t, repo.savedReport.EnergyGenerated.Decimal.Equal(dec("42")))
		assert.True(t, repo.savedReport.TotalEnergyExported.Decimal.Equal(dec("770")))
	})

	t.Run("skips stats already in sync", func(t *testing.T) {
		reportID := uuid.New()
		repo := &fakeRepository{
			report: &models.DailyReport{ID: reportID, PowerPlantID: 1},
			plant:  &models.PowerPlant{ID: 1, TotalCapacity: dec("100")},
			stats: []models.TurbineDailyStat{
				stat(1, "42", "40"),
			},
			hourly: []models.TurbineHourlyGeneration{
				hourlyRow(1, 1, "20"),
				hourlyRow(1, 2, "22"),
			},
		}

		err := NewEngine(repo).Recalculate(reportID)
		require.NoError(t, err)
		assert.Empty(t, repo.savedStats)
		require.NotNil(t, repo.savedReport)
	})
}
