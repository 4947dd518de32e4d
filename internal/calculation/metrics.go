package calculation

import (
	"plantops-backend/internal/models"

	"github.com/shopspring/decimal"
)

// Metric names one of the derived figures a daily report carries. The set is
// closed: handlers resolve requested metric names through the table below
// instead of reflecting over model fields, so an unknown name can never reach
// the database layer.
type Metric string

const (
	MetricAvailabilityFactor   Metric = "availability_factor"
	MetricPlantHeatRate        Metric = "plant_heat_rate"
	MetricThermalEfficiency    Metric = "thermal_efficiency"
	MetricEnergyGenerated      Metric = "energy_generated"
	MetricEnergyExported       Metric = "energy_exported"
	MetricEnergyConsumed       Metric = "energy_consumed"
	MetricAvailabilityForecast Metric = "availability_forecast"
	MetricDependabilityIndex   Metric = "dependability_index"
	MetricAvgEnergySentOut     Metric = "avg_energy_sent_out"
	MetricGasUtilization       Metric = "gas_utilization"
	MetricLoadFactor           Metric = "load_factor"
)

// AllMetrics lists every metric in the order responses and exports present them.
var AllMetrics = []Metric{
	MetricAvailabilityFactor,
	MetricPlantHeatRate,
	MetricThermalEfficiency,
	MetricEnergyGenerated,
	MetricEnergyExported,
	MetricEnergyConsumed,
	MetricAvailabilityForecast,
	MetricDependabilityIndex,
	MetricAvgEnergySentOut,
	MetricGasUtilization,
	MetricLoadFactor,
}

// metricFields maps each metric to the report column backing it. Note that
// "energy_exported" reads TotalEnergyExported; the external name predates the
// column rename.
var metricFields = map[Metric]func(*models.DailyReport) decimal.NullDecimal{
	MetricAvailabilityFactor:   func(r *models.DailyReport) decimal.NullDecimal { return r.AvailabilityFactor },
	MetricPlantHeatRate:        func(r *models.DailyReport) decimal.NullDecimal { return r.PlantHeatRate },
	MetricThermalEfficiency:    func(r *models.DailyReport) decimal.NullDecimal { return r.ThermalEfficiency },
	MetricEnergyGenerated:      func(r *models.DailyReport) decimal.NullDecimal { return r.EnergyGenerated },
	MetricEnergyExported:       func(r *models.DailyReport) decimal.NullDecimal { return r.TotalEnergyExported },
	MetricEnergyConsumed:       func(r *models.DailyReport) decimal.NullDecimal { return r.EnergyConsumed },
	MetricAvailabilityForecast: func(r *models.DailyReport) decimal.NullDecimal { return r.AvailabilityForecast },
	MetricDependabilityIndex:   func(r *models.DailyReport) decimal.NullDecimal { return r.DependabilityIndex },
	MetricAvgEnergySentOut:     func(r *models.DailyReport) decimal.NullDecimal { return r.AvgEnergySentOut },
	MetricGasUtilization:       func(r *models.DailyReport) decimal.NullDecimal { return r.GasUtilization },
	MetricLoadFactor:           func(r *models.DailyReport) decimal.NullDecimal { return r.LoadFactor },
}

// ParseMetric validates a metric name coming from a request.
func ParseMetric(name string) (Metric, bool) {
	m := Metric(name)
	_, ok := metricFields[m]
	return m, ok
}

// MetricValue reads one metric off a report, zero when the engine has not run.
func MetricValue(r *models.DailyReport, m Metric) decimal.Decimal {
	field, ok := metricFields[m]
	if !ok {
		return decimal.Zero
	}
	v := field(r)
	if !v.Valid {
		return decimal.Zero
	}
	return v.Decimal
}

// EmptyCalculations is the single source of the all-zero metric map returned
// whenever a report does not exist or has not been through the engine.
func EmptyCalculations() map[Metric]float64 {
	out := make(map[Metric]float64, len(AllMetrics))
	for _, m := range AllMetrics {
		out[m] = 0
	}
	return out
}

// Calculations flattens a report's stored metrics for the presentation
// boundary. Decimals stay exact everywhere else; float conversion happens
// only here.
func Calculations(r *models.DailyReport) map[Metric]float64 {
	out := EmptyCalculations()
	if r == nil {
		return out
	}
	for _, m := range AllMetrics {
		out[m] = MetricValue(r, m).InexactFloat64()
	}
	return out
}
