package calculation

import (
	"testing"

	"plantops-backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func stat(turbineID uint, generated, exported string) models.TurbineDailyStat {
	return models.TurbineDailyStat{
		TurbineID:       turbineID,
		EnergyGenerated: dec(generated),
		EnergyExported:  dec(exported),
	}
}

func hourlyRow(turbineID uint, hour int, generated string) models.TurbineHourlyGeneration {
	return models.TurbineHourlyGeneration{
		TurbineID:       turbineID,
		Hour:            hour,
		EnergyGenerated: dec(generated),
	}
}

func TestReconcile(t *testing.T) {
	t.Run("no rows at all", func(t *testing.T) {
		res := Reconcile(nil, nil)

		assert.True(t, res.EnergyGenerated.IsZero())
		assert.True(t, res.EnergyExported.IsZero())
		assert.False(t, res.HourlyAuthoritative)
	})

	t.Run("daily stats are the fallback source", func(t *testing.T) {
		stats := []models.TurbineDailyStat{
			stat(1, "600", "580"),
			stat(2, "400.5", "390.25"),
		}

		res := Reconcile(stats, nil)

		assert.False(t, res.HourlyAuthoritative)
		assert.True(t, res.EnergyGenerated.Equal(dec("1000.5")),
			"got %s", res.EnergyGenerated)
		assert.True(t, res.EnergyExported.Equal(dec("970.25")),
			"got %s", res.EnergyExported)
	})

	t.Run("hourly readings override generation", func(t *testing.T) {
		stats := []models.TurbineDailyStat{
			stat(1, "999", "580"),
			stat(2, "999", "390"),
		}
		hourly := []models.TurbineHourlyGeneration{
			hourlyRow(1, 1, "25"),
			hourlyRow(1, 2, "25.5"),
			hourlyRow(2, 1, "30"),
		}

		res := Reconcile(stats, hourly)

		assert.True(t, res.HourlyAuthoritative)
		assert.True(t, res.EnergyGenerated.Equal(dec("80.5")),
			"got %s", res.EnergyGenerated)
		// Export has no hourly source and keeps summing the daily stats.
		assert.True(t, res.EnergyExported.Equal(dec("970")),
			"got %s", res.EnergyExported)

		assert.True(t, res.TurbineGenerated[1].Equal(dec("50.5")))
		assert.True(t, res.TurbineGenerated[2].Equal(dec("30")))
	})

	t.Run("turbine with a stat but no hourly rows reconciles to zero", func(t *testing.T) {
		stats := []models.TurbineDailyStat{
			stat(1, "500", "480"),
			stat(2, "300", "290"),
		}
		hourly := []models.TurbineHourlyGeneration{
			hourlyRow(1, 1, "20"),
			hourlyRow(1, 2, "22"),
		}

		res := Reconcile(stats, hourly)

		assert.True(t, res.HourlyAuthoritative)
		assert.True(t, res.EnergyGenerated.Equal(dec("42")),
			"got %s", res.EnergyGenerated)

		_, ok := res.TurbineGenerated[2]
		assert.False(t, ok, "turbine 2 has no hourly rows and must be absent")
		// Its exported figure still counts.
		assert.True(t, res.EnergyExported.Equal(dec("770")))
	})
}
