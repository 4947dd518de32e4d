package calculation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func nullDec(s string) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: decimal.RequireFromString(s), Valid: true}
}

func TestCompute(t *testing.T) {
	t.Run("availability factor against nameplate capacity", func(t *testing.T) {
		d := Compute(Inputs{
			AvailabilityCapacity: nullDec("80"),
			PlantCapacity:        dec("100"),
		})
		assert.True(t, d.AvailabilityFactor.Equal(dec("80")),
			"got %s", d.AvailabilityFactor)
	})

	t.Run("availability forecast is capacity over a full day", func(t *testing.T) {
		d := Compute(Inputs{
			AvailabilityCapacity: nullDec("80"),
			PlantCapacity:        dec("100"),
		})
		assert.True(t, d.AvailabilityForecast.Equal(dec("1920")),
			"got %s", d.AvailabilityForecast)
	})

	t.Run("heat rate and thermal efficiency on the Btu basis", func(t *testing.T) {
		d := Compute(Inputs{
			EnergyGenerated: dec("2000"),
			GasConsumed:     dec("20"),
		})
		// 20 MSCM * 35.314 = 706.28 MMBtu over 2 GWh.
		assert.True(t, d.PlantHeatRate.Equal(dec("353.14")),
			"got %s", d.PlantHeatRate)
		assert.InDelta(t, 966.19, d.ThermalEfficiency.InexactFloat64(), 0.01)
	})

	t.Run("load factor on exported energy", func(t *testing.T) {
		d := Compute(Inputs{
			EnergyExported: dec("2400"),
			PlantCapacity:  dec("100"),
		})
		assert.True(t, d.LoadFactor.Equal(dec("100")),
			"got %s", d.LoadFactor)
	})

	t.Run("dependability index against the forecast", func(t *testing.T) {
		d := Compute(Inputs{
			EnergyGenerated:      dec("960"),
			AvailabilityCapacity: nullDec("80"),
			PlantCapacity:        dec("100"),
		})
		assert.True(t, d.DependabilityIndex.Equal(dec("50")),
			"got %s", d.DependabilityIndex)
	})

	t.Run("average energy sent out and gas utilization", func(t *testing.T) {
		d := Compute(Inputs{
			EnergyGenerated: dec("1800"),
			EnergyExported:  dec("1200"),
			GasConsumed:     dec("9"),
		})
		assert.True(t, d.AvgEnergySentOut.Equal(dec("50")),
			"got %s", d.AvgEnergySentOut)
		assert.True(t, d.GasUtilization.Equal(dec("200")),
			"got %s", d.GasUtilization)
	})

	t.Run("energy consumed may go negative", func(t *testing.T) {
		d := Compute(Inputs{
			EnergyGenerated: dec("100"),
			EnergyExported:  dec("150"),
		})
		assert.True(t, d.EnergyConsumed.Equal(dec("-50")),
			"got %s", d.EnergyConsumed)
	})

	t.Run("unmet preconditions yield zero, never an error", func(t *testing.T) {
		d := Compute(Inputs{})

		assert.True(t, d.AvailabilityFactor.IsZero())
		assert.True(t, d.AvailabilityForecast.IsZero())
		assert.True(t, d.PlantHeatRate.IsZero())
		assert.True(t, d.ThermalEfficiency.IsZero())
		assert.True(t, d.DependabilityIndex.IsZero())
		assert.True(t, d.GasUtilization.IsZero())
		assert.True(t, d.LoadFactor.IsZero())
	})

	t.Run("zero plant capacity disables capacity ratios only", func(t *testing.T) {
		d := Compute(Inputs{
			EnergyGenerated:      dec("1200"),
			EnergyExported:       dec("1000"),
			GasConsumed:          dec("6"),
			AvailabilityCapacity: nullDec("50"),
		})

		assert.True(t, d.AvailabilityFactor.IsZero())
		assert.True(t, d.LoadFactor.IsZero())
		// Capacity-independent metrics still come through.
		assert.True(t, d.AvailabilityForecast.Equal(dec("1200")))
		assert.False(t, d.GasUtilization.IsZero())
	})

	t.Run("deterministic for identical inputs", func(t *testing.T) {
		in := Inputs{
			EnergyGenerated:      dec("1834.57"),
			EnergyExported:       dec("1790.21"),
			GasConsumed:          dec("11.03"),
			AvailabilityCapacity: nullDec("95.5"),
			DeclarationTotal:     nullDec("90"),
			PlantCapacity:        dec("120"),
		}
		first := Compute(in)
		second := Compute(in)
		require.Equal(t, first, second)
	})
}
