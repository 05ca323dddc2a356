package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BookDenominations lists the scratch-ticket book denominations a daily report
// tracks, in ascending dollar order.
var BookDenominations = []int{1, 2, 5, 10, 20, 30, 50}

// DailyReport is one day's cash reconciliation. One row per date; creating a
// report for a date that already has one replaces the old row entirely.
//
// The four derived fields are always recomputed together from the same
// formulas (see reconciliation.Calculate); they are stored rather than derived
// on read so a saved report shows exactly the numbers the operator deposited
// against, even if the ledger is edited later.
type DailyReport struct {
	ID   uint   `gorm:"primaryKey"`
	Date string `gorm:"size:10;not null;uniqueIndex;index"`

	YesterdayClosing decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	TodayClosing     decimal.Decimal `gorm:"type:decimal(14,2);not null"`

	Books1  decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	Books2  decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	Books5  decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	Books10 decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	Books20 decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	Books30 decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	Books50 decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`

	MachineSold   decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	TicketsCashed decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	OnlineCashed  decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`

	TotalNewBooks        decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	NetTotalScratch      decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	TotalLotterySale     decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	LotteryDepositAmount decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`

	CreatedAt time.Time
}

// TableName keeps the historical table name.
func (DailyReport) TableName() string { return "daily_reports" }

// Yesterday returns the calendar day before the report date.
func (r *DailyReport) Yesterday() (string, error) {
	d, err := time.Parse(DateLayout, r.Date)
	if err != nil {
		return "", err
	}
	return d.AddDate(0, 0, -1).Format(DateLayout), nil
}
