package calculation

import (
	"testing"

	"plantops-backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestParseMetric(t *testing.T) {
	for _, m := range AllMetrics {
		parsed, ok := ParseMetric(string(m))
		assert.True(t, ok, "%s must parse", m)
		assert.Equal(t, m, parsed)
	}

	_, ok := ParseMetric("plant_heat_rat")
	assert.False(t, ok)
	_, ok = ParseMetric("")
	assert.False(t, ok)
}

func TestMetricValue(t *testing.T) {
	r := &models.DailyReport{
		AvailabilityFactor:  nullDec("80"),
		TotalEnergyExported: nullDec("1800"),
	}

	assert.True(t, MetricValue(r, MetricAvailabilityFactor).Equal(dec("80")))
	// energy_exported reads the TotalEnergyExported column.
	assert.True(t, MetricValue(r, MetricEnergyExported).Equal(dec("1800")))
	// Unset columns read as zero.
	assert.True(t, MetricValue(r, MetricLoadFactor).IsZero())
}

func TestCalculations(t *testing.T) {
	t.Run("nil report yields the all-zero map", func(t *testing.T) {
		out := Calculations(nil)
		assert.Len(t, out, len(AllMetrics))
		for m, v := range out {
			assert.Zero(t, v, "%s", m)
		}
	})

	t.Run("flattens stored metrics to floats", func(t *testing.T) {
		r := &models.DailyReport{
			EnergyGenerated: nullDec("2000"),
			PlantHeatRate:   nullDec("353.14"),
		}
		out := Calculations(r)
		assert.Equal(t, 2000.0, out[MetricEnergyGenerated])
		assert.Equal(t, 353.14, out[MetricPlantHeatRate])
		assert.Zero(t, out[MetricThermalEfficiency])
	})
}
