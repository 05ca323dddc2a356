package models

import "time"

// DateLayout is the canonical date format used for all date columns and form
// fields.
const DateLayout = "2006-01-02"

// StockEntry records the remaining ticket count in one holder on one date.
// TicketValue is copied from the holder lookup table at entry time and never
// recomputed, so historical rows keep the denomination that applied when they
// were written.
type StockEntry struct {
	ID           uint      `gorm:"primaryKey"`
	Date         string    `gorm:"size:10;not null;index;uniqueIndex:idx_stock_date_holder,priority:1"`
	HolderNumber int       `gorm:"not null;uniqueIndex:idx_stock_date_holder,priority:2"`
	StockNumber  int       `gorm:"not null"`
	TicketValue  int       `gorm:"not null"`
	CreatedAt    time.Time
}

// TableName keeps the historical table name.
func (StockEntry) TableName() string { return "lottery_stock" }

// ExtraTicketEntry records stock that is not assigned to a fixed holder,
// tracked by arbitrary ticket price. Multiple rows per date are allowed.
type ExtraTicketEntry struct {
	ID          uint   `gorm:"primaryKey"`
	Date        string `gorm:"size:10;not null;index"`
	TicketPrice int    `gorm:"not null"`
	StockNumber int    `gorm:"not null"`
	CreatedAt   time.Time
}

// TableName keeps the historical table name.
func (ExtraTicketEntry) TableName() string { return "extra_tickets" }

// ValueTotal is one row of a per-denomination subtotal: how many tickets of
// one dollar value remain and what they are worth.
type ValueTotal struct {
	TicketValue  int
	TotalTickets int64
	TotalValue   int64
}
