package calculation

import (
	"errors"

	"plantops-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// gormRepository backs the engine with a *gorm.DB. Constructed over the
// transaction handle inside DB.Transaction so the recalculation commits or
// rolls back with the mutation that triggered it.
type gormRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) DailyReport(id uuid.UUID) (*models.DailyReport, error) {
	var report models.DailyReport
	if err := r.db.First(&report, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &report, nil
}

func (r *gormRepository) PowerPlant(id uint) (*models.PowerPlant, error) {
	var plant models.PowerPlant
	if err := r.db.First(&plant, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &plant, nil
}

func (r *gormRepository) TurbineStats(reportID uuid.UUID) ([]models.TurbineDailyStat, error) {
	var stats []models.TurbineDailyStat
	err := r.db.Where("daily_report_id = ?", reportID).
		Order("turbine_id").
		Find(&stats).Error
	return stats, err
}

func (r *gormRepository) HourlyReadings(reportID uuid.UUID) ([]models.TurbineHourlyGeneration, error) {
	var readings []models.TurbineHourlyGeneration
	err := r.db.Where("daily_report_id = ?", reportID).
		Order("turbine_id, hour").
		Find(&readings).Error
	return readings, err
}

func (r *gormRepository) SaveDailyReport(report *models.DailyReport) error {
	return r.db.Save(report).Error
}

func (r *gormRepository) SaveTurbineStat(stat *models.TurbineDailyStat) error {
	return r.db.Save(stat).Error
}

// RecalculateInTransaction runs the engine for one report inside its own
// transaction. Mutation handlers that already hold a transaction should build
// the engine over that handle instead.
func RecalculateInTransaction(db *gorm.DB, reportID uuid.UUID) error {
	return db.Transaction(func(tx *gorm.DB) error {
		return NewEngine(NewRepository(tx)).Recalculate(reportID)
	})
}
