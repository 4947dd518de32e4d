package export

import (
	"testing"
	"time"

	"plantops-backend/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestBuildWorkbook(t *testing.T) {
	reportID := uuid.New()
	reports := []models.DailyReport{
		{
			ID:           reportID,
			Date:         time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
			PowerPlantID: 1,
			PowerPlant:   models.PowerPlant{Name: "Geregu"},
			GasConsumed:  decimal.RequireFromString("20"),
			EnergyGenerated: decimal.NullDecimal{
				Decimal: decimal.RequireFromString("2000"), Valid: true,
			},
		},
	}
	stats := []models.TurbineDailyStat{
		{
			DailyReportID:   reportID,
			TurbineID:       1,
			Turbine:         models.Turbine{Name: "GT1"},
			EnergyGenerated: decimal.RequireFromString("2000"),
			EnergyExported:  decimal.RequireFromString("1900"),
			OperatingHours:  decimal.RequireFromString("24"),
			StartupCount:    1,
		},
	}
	readings := []models.TurbineHourlyGeneration{
		{
			DailyReportID:   reportID,
			TurbineID:       1,
			Turbine:         models.Turbine{Name: "GT1"},
			Hour:            1,
			EnergyGenerated: decimal.RequireFromString("83.3"),
		},
	}

	buf, err := BuildWorkbook(reports, stats, readings)
	require.NoError(t, err)

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t,
		[]string{sheetDailyReports, sheetTurbineStats, sheetHourly},
		f.GetSheetList())

	t.Run("daily report rows", func(t *testing.T) {
		rows, err := f.GetRows(sheetDailyReports)
		require.NoError(t, err)
		require.Len(t, rows, 2)

		assert.Equal(t, dailyReportHeaders, rows[0][:len(dailyReportHeaders)])
		assert.Equal(t, "2025-03-10", rows[1][0])
		assert.Equal(t, "Geregu", rows[1][1])
	})

	t.Run("turbine stat rows", func(t *testing.T) {
		rows, err := f.GetRows(sheetTurbineStats)
		require.NoError(t, err)
		require.Len(t, rows, 2)

		assert.Equal(t, "GT1", rows[1][2])
		assert.Equal(t, "2000", rows[1][3])
	})

	t.Run("hourly rows", func(t *testing.T) {
		rows, err := f.GetRows(sheetHourly)
		require.NoError(t, err)
		require.Len(t, rows, 2)

		assert.Equal(t, "1", rows[1][3])
		assert.Equal(t, "83.3", rows[1][4])
	})
}

func TestBuildWorkbookEmpty(t *testing.T) {
	buf, err := BuildWorkbook(nil, nil, nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetDailyReports)
	require.NoError(t, err)
	require.Len(t, rows, 1, "header only")
}
