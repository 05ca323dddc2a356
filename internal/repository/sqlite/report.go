package sqlite

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/aminata-dev/lottostock/internal/domain/models"
)

// Upsert stores the report, fully replacing any existing row for the same
// date. Two concurrent upserts for one date resolve last-write-wins; the
// unique index on date is the only guard, which is acceptable for the
// single-operator usage this tool targets.
func (r *Repository) Upsert(ctx context.Context, report *models.DailyReport) error {
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "date"}},
		UpdateAll: true,
	}).Create(report).Error; err != nil {
		return fmt.Errorf("upsert daily report: %w", err)
	}
	return nil
}

// Update rewrites every column of an existing report row.
func (r *Repository) Update(ctx context.Context, report *models.DailyReport) error {
	if err := r.db.WithContext(ctx).Save(report).Error; err != nil {
		return fmt.Errorf("update daily report: %w", err)
	}
	return nil
}

// GetByID fetches one report, returning ErrNotFound when the id no longer
// exists.
func (r *Repository) GetByID(ctx context.Context, id uint) (*models.DailyReport, error) {
	var report models.DailyReport
	if err := r.db.WithContext(ctx).First(&report, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get daily report: %w", err)
	}
	return &report, nil
}

// DeleteByID permanently removes a report. Deleting an id that is already
// gone is not an error.
func (r *Repository) DeleteByID(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.DailyReport{}, id).Error; err != nil {
		return fmt.Errorf("delete daily report: %w", err)
	}
	return nil
}

// ListAll returns every saved report, newest date first.
func (r *Repository) ListAll(ctx context.Context) ([]models.DailyReport, error) {
	var reports []models.DailyReport
	if err := r.db.WithContext(ctx).Order("date DESC").Find(&reports).Error; err != nil {
		return nil, fmt.Errorf("list daily reports: %w", err)
	}
	return reports, nil
}
