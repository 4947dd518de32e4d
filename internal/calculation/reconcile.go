package calculation

import (
	"plantops-backend/internal/models"

	"github.com/shopspring/decimal"
)

// ReconcileResult is the outcome of deciding which turbine data source is
// authoritative for a report's energy totals.
type ReconcileResult struct {
	EnergyGenerated decimal.Decimal
	EnergyExported  decimal.Decimal

	// HourlyAuthoritative is true when at least one hourly reading exists.
	// The daily stats must then mirror the hourly per-turbine sums.
	HourlyAuthoritative bool

	// TurbineGenerated holds the per-turbine hourly sums, keyed by turbine ID.
	// Only populated when hourly data is authoritative. A turbine with a daily
	// stat but no hourly rows is absent here and reconciles to zero.
	TurbineGenerated map[uint]decimal.Decimal
}

// Reconcile computes a report's energy totals from its turbine rows. Hourly
// readings, when present, are the meter of record for generation; the
// coarser daily stats are the fallback. Export figures exist only at daily
// granularity, so the exported total always sums the daily stats. Pure over
// its arguments; with no rows at all both totals are zero.
func Reconcile(stats []models.TurbineDailyStat, hourly []models.TurbineHourlyGeneration) ReconcileResult {
	res := ReconcileResult{
		EnergyGenerated: decimal.Zero,
		EnergyExported:  decimal.Zero,
	}

	for _, s := range stats {
		res.EnergyExported = res.EnergyExported.Add(s.EnergyExported)
	}

	if len(hourly) == 0 {
		for _, s := range stats {
			res.EnergyGenerated = res.EnergyGenerated.Add(s.EnergyGenerated)
		}
		return res
	}

	res.HourlyAuthoritative = true
	res.TurbineGenerated = make(map[uint]decimal.Decimal)
	for _, h := range hourly {
		res.EnergyGenerated = res.EnergyGenerated.Add(h.EnergyGenerated)
		res.TurbineGenerated[h.TurbineID] = res.TurbineGenerated[h.TurbineID].Add(h.EnergyGenerated)
	}
	return res
}
