package export

import (
	"bytes"
	"fmt"

	"plantops-backend/internal/models"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	sheetDailyReports = "Daily Reports"
	sheetTurbineStats = "Turbine Stats"
	sheetHourly       = "Hourly Generation"
)

var dailyReportHeaders = []string{
	"Date", "Power Plant", "Gas Loss (MWh)", "NCC Loss (MWh)",
	"Internal Loss (MWh)", "Gas Consumed (MSCM)", "Declaration Total (MW)",
	"Availability Capacity (MW)", "Availability Factor (%)", "Plant Heat Rate (Btu/kWh)",
	"Thermal Efficiency (%)", "Energy Generated (MWh)", "Total Energy Exported (MWh)",
	"Energy Consumed (MWh)", "Availability Forecast (MWh)", "Dependability Index (%)",
	"Avg Energy Sent Out (MW)", "Gas Utilization (MWh/MSCM)", "Load Factor (%)",
}

var turbineStatHeaders = []string{
	"Date", "Power Plant", "Turbine", "Energy Generated (MWh)",
	"Energy Exported (MWh)", "Operating Hours", "Startups", "Shutdowns", "Trips",
}

var hourlyHeaders = []string{
	"Date", "Power Plant", "Turbine", "Hour", "Energy Generated (MWh)",
}

func nullCell(d decimal.NullDecimal) interface{} {
	if !d.Valid {
		return nil
	}
	return d.Decimal.InexactFloat64()
}

// BuildWorkbook renders reports with their turbine data into a three-sheet
// spreadsheet. Reports must come date-ordered with PowerPlant preloaded;
// stats and readings with Turbine preloaded.
func BuildWorkbook(
	reports []models.DailyReport,
	stats []models.TurbineDailyStat,
	readings []models.TurbineHourlyGeneration,
) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"CCCCCC"}, Pattern: 1},
	})
	if err != nil {
		return nil, err
	}

	reportMeta := make(map[string]*models.DailyReport, len(reports))
	for i := range reports {
		reportMeta[reports[i].ID.String()] = &reports[i]
	}

	writeHeader := func(sheet string, headers []string) error {
		for col, h := range headers {
			cell, err := excelize.CoordinatesToCellName(col+1, 1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, h); err != nil {
				return err
			}
		}
		last, err := excelize.CoordinatesToCellName(len(headers), 1)
		if err != nil {
			return err
		}
		return f.SetCellStyle(sheet, "A1", last, headerStyle)
	}

	writeRow := func(sheet string, row int, values []interface{}) error {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		return f.SetSheetRow(sheet, cell, &values)
	}

	// Daily Reports
	if err := f.SetSheetName("Sheet1", sheetDailyReports); err != nil {
		return nil, err
	}
	if err := writeHeader(sheetDailyReports, dailyReportHeaders); err != nil {
		return nil, err
	}
	for i := range reports {
		r := &reports[i]
		values := []interface{}{
			r.Date.Format("2006-01-02"),
			r.PowerPlant.Name,
			r.GasLoss.InexactFloat64(),
			r.NCCLoss.InexactFloat64(),
			r.InternalLoss.InexactFloat64(),
			r.GasConsumed.InexactFloat64(),
			nullCell(r.DeclarationTotal),
			nullCell(r.AvailabilityCapacity),
			nullCell(r.AvailabilityFactor),
			nullCell(r.PlantHeatRate),
			nullCell(r.ThermalEfficiency),
			nullCell(r.EnergyGenerated),
			nullCell(r.TotalEnergyExported),
			nullCell(r.EnergyConsumed),
			nullCell(r.AvailabilityForecast),
			nullCell(r.DependabilityIndex),
			nullCell(r.AvgEnergySentOut),
			nullCell(r.GasUtilization),
			nullCell(r.LoadFactor),
		}
		if err := writeRow(sheetDailyReports, i+2, values); err != nil {
			return nil, err
		}
	}

	// Turbine Stats
	if _, err := f.NewSheet(sheetTurbineStats); err != nil {
		return nil, err
	}
	if err := writeHeader(sheetTurbineStats, turbineStatHeaders); err != nil {
		return nil, err
	}
	for i, s := range stats {
		date, plantName := "", ""
		if r, ok := reportMeta[s.DailyReportID.String()]; ok {
			date = r.Date.Format("2006-01-02")
			plantName = r.PowerPlant.Name
		}
		values := []interface{}{
			date,
			plantName,
			s.Turbine.Name,
			s.EnergyGenerated.InexactFloat64(),
			s.EnergyExported.InexactFloat64(),
			s.OperatingHours.InexactFloat64(),
			s.StartupCount,
			s.ShutdownCount,
			s.Trips,
		}
		if err := writeRow(sheetTurbineStats, i+2, values); err != nil {
			return nil, err
		}
	}

	// Hourly Generation
	if _, err := f.NewSheet(sheetHourly); err != nil {
		return nil, err
	}
	if err := writeHeader(sheetHourly, hourlyHeaders); err != nil {
		return nil, err
	}
	for i, g := range readings {
		date, plantName := "", ""
		if r, ok := reportMeta[g.DailyReportID.String()]; ok {
			date = r.Date.Format("2006-01-02")
			plantName = r.PowerPlant.Name
		}
		values := []interface{}{
			date,
			plantName,
			g.Turbine.Name,
			g.Hour,
			g.EnergyGenerated.InexactFloat64(),
		}
		if err := writeRow(sheetHourly, i+2, values); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf, nil
}
