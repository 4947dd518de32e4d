package calculation

import "github.com/shopspring/decimal"

// Unit conventions. Heat rate is on the Btu basis: gas volume converts from
// MSCM to MMBtu at 35.314, and thermal efficiency divides 3412 Btu/kWh by the
// heat rate. The two must change together.
var (
	hoursPerDay  = decimal.NewFromInt(24)
	hundred      = decimal.NewFromInt(100)
	kWhPerMWh    = decimal.NewFromInt(1000)
	mmBtuPerMSCM = decimal.RequireFromString("35.314")
	btuPerKWh    = decimal.NewFromInt(3412)
)

// Inputs is the full snapshot the metric formulas depend on. EnergyGenerated
// and EnergyExported are the reconciled totals; PlantCapacity is the plant's
// nameplate capacity in MW.
type Inputs struct {
	EnergyGenerated      decimal.Decimal     // MWh
	EnergyExported       decimal.Decimal     // MWh
	GasConsumed          decimal.Decimal     // MSCM
	AvailabilityCapacity decimal.NullDecimal // MW
	DeclarationTotal     decimal.NullDecimal // MW
	PlantCapacity        decimal.Decimal     // MW
}

// Derived holds the nine computed metrics. Together with the two energy
// totals these are the eleven fields persisted onto the report.
type Derived struct {
	EnergyConsumed       decimal.Decimal // MWh
	AvailabilityFactor   decimal.Decimal // %
	AvailabilityForecast decimal.Decimal // MWh
	PlantHeatRate        decimal.Decimal // Btu/kWh
	ThermalEfficiency    decimal.Decimal // %
	DependabilityIndex   decimal.Decimal // %
	AvgEnergySentOut     decimal.Decimal // MW
	GasUtilization       decimal.Decimal // MWh/MSCM
	LoadFactor           decimal.Decimal // %
}

// Compute derives all metrics from one input snapshot. Pure: no reads, no
// writes, same output bit-for-bit for the same inputs. A metric whose
// precondition is unmet comes back as zero, never as an error; division by
// zero cannot occur because every denominator is checked first.
func Compute(in Inputs) Derived {
	var d Derived

	d.EnergyConsumed = in.EnergyGenerated.Sub(in.EnergyExported)

	if in.AvailabilityCapacity.Valid && in.PlantCapacity.IsPositive() {
		d.AvailabilityFactor = in.AvailabilityCapacity.Decimal.
			Div(in.PlantCapacity).Mul(hundred)
	}

	// Forecast is driven by availability capacity, not the declaration total.
	if in.AvailabilityCapacity.Valid {
		d.AvailabilityForecast = in.AvailabilityCapacity.Decimal.Mul(hoursPerDay)
	}

	if in.EnergyGenerated.IsPositive() {
		gasMMBtu := in.GasConsumed.Mul(mmBtuPerMSCM)
		d.PlantHeatRate = gasMMBtu.Div(in.EnergyGenerated.Div(kWhPerMWh))
	}

	if d.PlantHeatRate.IsPositive() {
		d.ThermalEfficiency = btuPerKWh.Div(d.PlantHeatRate).Mul(hundred)
	}

	if d.AvailabilityForecast.IsPositive() {
		d.DependabilityIndex = in.EnergyGenerated.
			Div(d.AvailabilityForecast).Mul(hundred)
	}

	d.AvgEnergySentOut = in.EnergyExported.Div(hoursPerDay)

	if in.GasConsumed.IsPositive() {
		d.GasUtilization = in.EnergyGenerated.Div(in.GasConsumed)
	}

	// Load factor is measured on exported energy against full nameplate output.
	if in.PlantCapacity.IsPositive() {
		fullPotential := in.PlantCapacity.Mul(hoursPerDay)
		d.LoadFactor = in.EnergyExported.Div(fullPotential).Mul(hundred)
	}

	return d
}
