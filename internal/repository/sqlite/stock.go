package sqlite

import (
	"context"
	"fmt"

	"github.com/aminata-dev/lottostock/internal/domain/models"
	"gorm.io/gorm"
)

// CreateEntries writes a full day's batch in one transaction: either every
// holder row and every extra row lands, or none do.
func (r *Repository) CreateEntries(ctx context.Context, holders []models.StockEntry, extras []models.ExtraTicketEntry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(holders) > 0 {
			if err := tx.Create(&holders).Error; err != nil {
				return fmt.Errorf("insert holder entries: %w", err)
			}
		}
		if len(extras) > 0 {
			if err := tx.Create(&extras).Error; err != nil {
				return fmt.Errorf("insert extra ticket entries: %w", err)
			}
		}
		return nil
	})
}

// UpdateStockNumber changes the recorded count for one date+holder. The ticket
// value is left untouched on purpose.
func (r *Repository) UpdateStockNumber(ctx context.Context, date string, holderNumber, newStock int) error {
	res := r.db.WithContext(ctx).Model(&models.StockEntry{}).
		Where("date = ? AND holder_number = ?", date, holderNumber).
		Update("stock_number", newStock)
	if res.Error != nil {
		return fmt.Errorf("update stock number: %w", res.Error)
	}
	return nil
}

// DeleteEntry removes a single holder entry.
func (r *Repository) DeleteEntry(ctx context.Context, date string, holderNumber int) error {
	res := r.db.WithContext(ctx).
		Where("date = ? AND holder_number = ?", date, holderNumber).
		Delete(&models.StockEntry{})
	if res.Error != nil {
		return fmt.Errorf("delete stock entry: %w", res.Error)
	}
	return nil
}

// DeleteAllForDate removes every holder entry for the date and reports how
// many rows were removed. Zero rows is not an error; callers surface it as a
// "nothing found" notice.
func (r *Repository) DeleteAllForDate(ctx context.Context, date string) (int64, error) {
	res := r.db.WithContext(ctx).Where("date = ?", date).Delete(&models.StockEntry{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete stock entries for date: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// EntriesForDate lists holder entries for a date ordered by holder number.
func (r *Repository) EntriesForDate(ctx context.Context, date string) ([]models.StockEntry, error) {
	var entries []models.StockEntry
	if err := r.db.WithContext(ctx).
		Where("date = ?", date).
		Order("holder_number").
		Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("list stock entries: %w", err)
	}
	return entries, nil
}

// ExtrasForDate lists extra ticket entries for a date, priciest first.
func (r *Repository) ExtrasForDate(ctx context.Context, date string) ([]models.ExtraTicketEntry, error) {
	var extras []models.ExtraTicketEntry
	if err := r.db.WithContext(ctx).
		Where("date = ?", date).
		Order("ticket_price DESC, id").
		Find(&extras).Error; err != nil {
		return nil, fmt.Errorf("list extra tickets: %w", err)
	}
	return extras, nil
}

// ListDates returns every date with at least one holder entry, newest first.
func (r *Repository) ListDates(ctx context.Context) ([]string, error) {
	var dates []string
	if err := r.db.WithContext(ctx).Model(&models.StockEntry{}).
		Distinct("date").
		Order("date DESC").
		Pluck("date", &dates).Error; err != nil {
		return nil, fmt.Errorf("list entry dates: %w", err)
	}
	return dates, nil
}

// HolderTotalsByValue groups holder entries by ticket denomination, largest
// denomination first.
func (r *Repository) HolderTotalsByValue(ctx context.Context, date string) ([]models.ValueTotal, error) {
	var totals []models.ValueTotal
	if err := r.db.WithContext(ctx).Model(&models.StockEntry{}).
		Select("ticket_value, SUM(stock_number) AS total_tickets, SUM(stock_number * ticket_value) AS total_value").
		Where("date = ?", date).
		Group("ticket_value").
		Order("ticket_value DESC").
		Scan(&totals).Error; err != nil {
		return nil, fmt.Errorf("holder totals by value: %w", err)
	}
	return totals, nil
}

// ExtraTotalsByPrice groups extra tickets by price, largest first.
func (r *Repository) ExtraTotalsByPrice(ctx context.Context, date string) ([]models.ValueTotal, error) {
	var totals []models.ValueTotal
	if err := r.db.WithContext(ctx).Model(&models.ExtraTicketEntry{}).
		Select("ticket_price AS ticket_value, SUM(stock_number) AS total_tickets, SUM(stock_number * ticket_price) AS total_value").
		Where("date = ?", date).
		Group("ticket_price").
		Order("ticket_price DESC").
		Scan(&totals).Error; err != nil {
		return nil, fmt.Errorf("extra totals by price: %w", err)
	}
	return totals, nil
}

// HolderValueSum returns the total dollar value of holder stock for a date;
// no rows contribute zero.
func (r *Repository) HolderValueSum(ctx context.Context, date string) (int64, error) {
	var sum int64
	if err := r.db.WithContext(ctx).Model(&models.StockEntry{}).
		Where("date = ?", date).
		Select("COALESCE(SUM(stock_number * ticket_value), 0)").
		Scan(&sum).Error; err != nil {
		return 0, fmt.Errorf("holder value sum: %w", err)
	}
	return sum, nil
}

// ExtraValueSum returns the total dollar value of extra ticket stock for a
// date; no rows contribute zero.
func (r *Repository) ExtraValueSum(ctx context.Context, date string) (int64, error) {
	var sum int64
	if err := r.db.WithContext(ctx).Model(&models.ExtraTicketEntry{}).
		Where("date = ?", date).
		Select("COALESCE(SUM(stock_number * ticket_price), 0)").
		Scan(&sum).Error; err != nil {
		return 0, fmt.Errorf("extra value sum: %w", err)
	}
	return sum, nil
}

// HasDataForDate reports whether the date has any ledger data at all, holder
// or extra.
func (r *Repository) HasDataForDate(ctx context.Context, date string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.StockEntry{}).
		Where("date = ?", date).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("count stock entries: %w", err)
	}
	if count > 0 {
		return true, nil
	}
	if err := r.db.WithContext(ctx).Model(&models.ExtraTicketEntry{}).
		Where("date = ?", date).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("count extra tickets: %w", err)
	}
	return count > 0, nil
}
