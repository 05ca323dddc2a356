package reconciliation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/aminata-dev/lottostock/internal/domain/models"
	repo "github.com/aminata-dev/lottostock/internal/repository/sqlite"
	"github.com/aminata-dev/lottostock/internal/service/aggregation"
	"github.com/aminata-dev/lottostock/internal/service/ledger"
)

// ErrReportNotFound is returned when an edit or view targets a report id that
// no longer exists.
var ErrReportNotFound = errors.New("report not found")

// MissingLedgerDataError is the reconciliation precondition failure: no ledger
// rows exist for the named date. It is returned even when the corresponding
// closing value was overridden; a report is only ever produced for days the
// ledger actually covers.
type MissingLedgerDataError struct {
	Date  string
	Prior bool
}

func (e *MissingLedgerDataError) Error() string {
	if e.Prior {
		return fmt.Sprintf("No lottery stock data found for yesterday (%s). Cannot generate report.", e.Date)
	}
	return fmt.Sprintf("No lottery stock data found for today (%s). Please enter stock data first.", e.Date)
}

// Figures are the operator-entered cash inputs to a daily report. Blank form
// fields parse to zero.
type Figures struct {
	Books1  decimal.Decimal
	Books2  decimal.Decimal
	Books5  decimal.Decimal
	Books10 decimal.Decimal
	Books20 decimal.Decimal
	Books30 decimal.Decimal
	Books50 decimal.Decimal

	MachineSold   decimal.Decimal
	TicketsCashed decimal.Decimal
	OnlineCashed  decimal.Decimal
}

// Derived holds the four computed report fields.
type Derived struct {
	TotalNewBooks        decimal.Decimal
	NetTotalScratch      decimal.Decimal
	TotalLotterySale     decimal.Decimal
	LotteryDepositAmount decimal.Decimal
}

// Calculate applies the reconciliation formulas in their fixed order:
//
//	total_new_books        = books_1 + books_2 + books_5 + books_10 + books_20 + books_30 + books_50
//	net_total_scratch      = (yesterday_closing + total_new_books) - today_closing
//	total_lottery_sale     = net_total_scratch + machine_sold
//	lottery_deposit_amount = total_lottery_sale - (tickets_cashed + online_cashed)
//
// It is a pure function; identical inputs always produce identical output.
func Calculate(yesterdayClosing, todayClosing decimal.Decimal, f Figures) Derived {
	totalNewBooks := f.Books1.Add(f.Books2).Add(f.Books5).Add(f.Books10).
		Add(f.Books20).Add(f.Books30).Add(f.Books50)
	netTotalScratch := yesterdayClosing.Add(totalNewBooks).Sub(todayClosing)
	totalLotterySale := netTotalScratch.Add(f.MachineSold)
	lotteryDepositAmount := totalLotterySale.Sub(f.TicketsCashed.Add(f.OnlineCashed))

	return Derived{
		TotalNewBooks:        totalNewBooks,
		NetTotalScratch:      netTotalScratch,
		TotalLotterySale:     totalLotterySale,
		LotteryDepositAmount: lotteryDepositAmount,
	}
}

// Service produces and maintains daily reconciliation reports.
type Service struct {
	reports repo.ReportRepository
	stock   repo.StockRepository
	agg     *aggregation.Service
	logger  *zap.Logger
}

// NewService wires a new reconciliation service instance.
func NewService(reports repo.ReportRepository, stock repo.StockRepository, agg *aggregation.Service, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{reports: reports, stock: stock, agg: agg, logger: logger}
}

// CreateReport computes and stores the report for a date, replacing any
// existing report for the same date. Closing values come from the aggregation
// engine unless an override is supplied; an override replaces the computed
// value outright. Ledger data must exist for both the date and the prior day
// regardless of overrides.
func (s *Service) CreateReport(ctx context.Context, date string, overrideYesterday, overrideToday *decimal.Decimal, f Figures) (*models.DailyReport, error) {
	day, err := ledger.ParseDate(date)
	if err != nil {
		return nil, err
	}
	yesterday := day.AddDate(0, 0, -1).Format(models.DateLayout)

	todayHasData, err := s.stock.HasDataForDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("check ledger data for %s: %w", date, err)
	}
	if !todayHasData {
		return nil, &MissingLedgerDataError{Date: date}
	}

	yesterdayHasData, err := s.stock.HasDataForDate(ctx, yesterday)
	if err != nil {
		return nil, fmt.Errorf("check ledger data for %s: %w", yesterday, err)
	}
	if !yesterdayHasData {
		return nil, &MissingLedgerDataError{Date: yesterday, Prior: true}
	}

	todayClosing, err := s.resolveClosing(ctx, date, overrideToday)
	if err != nil {
		return nil, err
	}
	yesterdayClosing, err := s.resolveClosing(ctx, yesterday, overrideYesterday)
	if err != nil {
		return nil, err
	}

	report := buildReport(date, yesterdayClosing, todayClosing, f)
	if err := s.reports.Upsert(ctx, report); err != nil {
		return nil, err
	}

	s.logger.Info("daily report saved",
		zap.String("date", date),
		zap.String("deposit", report.LotteryDepositAmount.String()))
	return report, nil
}

// EditReport recomputes an existing report from fresh figures. Each closing
// value is either the supplied override or the value stored on the report;
// the edit flow never goes back to the ledger. The row is fully replaced.
func (s *Service) EditReport(ctx context.Context, id uint, overrideYesterday, overrideToday *decimal.Decimal, f Figures) (*models.DailyReport, error) {
	existing, err := s.reports.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}

	yesterdayClosing := existing.YesterdayClosing
	if overrideYesterday != nil {
		yesterdayClosing = *overrideYesterday
	}
	todayClosing := existing.TodayClosing
	if overrideToday != nil {
		todayClosing = *overrideToday
	}

	updated := buildReport(existing.Date, yesterdayClosing, todayClosing, f)
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	if err := s.reports.Update(ctx, updated); err != nil {
		return nil, err
	}

	s.logger.Info("daily report updated", zap.Uint("id", id), zap.String("date", existing.Date))
	return updated, nil
}

// GetReport fetches one saved report.
func (s *Service) GetReport(ctx context.Context, id uint) (*models.DailyReport, error) {
	report, err := s.reports.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}
	return report, nil
}

// DeleteReport permanently removes a saved report.
func (s *Service) DeleteReport(ctx context.Context, id uint) error {
	return s.reports.DeleteByID(ctx, id)
}

// ListReports returns every saved report, newest date first.
func (s *Service) ListReports(ctx context.Context) ([]models.DailyReport, error) {
	return s.reports.ListAll(ctx)
}

// ClosingValues returns the computed closings the create-report page shows for
// a date: the date's grand total and the prior day's grand total.
func (s *Service) ClosingValues(ctx context.Context, date string) (yesterdayClosing, todayClosing decimal.Decimal, err error) {
	day, err := time.Parse(models.DateLayout, date)
	if err != nil {
		return decimal.Zero, decimal.Zero, &ledger.ValidationError{Message: "Invalid date format. Use YYYY-MM-DD"}
	}
	yesterday := day.AddDate(0, 0, -1).Format(models.DateLayout)

	todayClosing, err = s.agg.DailyGrandTotal(ctx, date)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	yesterdayClosing, err = s.agg.DailyGrandTotal(ctx, yesterday)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	return yesterdayClosing, todayClosing, nil
}

func (s *Service) resolveClosing(ctx context.Context, date string, override *decimal.Decimal) (decimal.Decimal, error) {
	if override != nil {
		return *override, nil
	}
	total, err := s.agg.DailyGrandTotal(ctx, date)
	if err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

func buildReport(date string, yesterdayClosing, todayClosing decimal.Decimal, f Figures) *models.DailyReport {
	derived := Calculate(yesterdayClosing, todayClosing, f)
	return &models.DailyReport{
		Date:                 date,
		YesterdayClosing:     yesterdayClosing,
		TodayClosing:         todayClosing,
		Books1:               f.Books1,
		Books2:               f.Books2,
		Books5:               f.Books5,
		Books10:              f.Books10,
		Books20:              f.Books20,
		Books30:              f.Books30,
		Books50:              f.Books50,
		MachineSold:          f.MachineSold,
		TicketsCashed:        f.TicketsCashed,
		OnlineCashed:         f.OnlineCashed,
		TotalNewBooks:        derived.TotalNewBooks,
		NetTotalScratch:      derived.NetTotalScratch,
		TotalLotterySale:     derived.TotalLotterySale,
		LotteryDepositAmount: derived.LotteryDepositAmount,
	}
}

// ParseAmount parses a user-entered dollar amount; blank means zero.
func ParseAmount(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", raw, err)
	}
	return d, nil
}

// ParseOverride parses an optional closing-value override; blank means no
// override.
func ParseOverride(raw string) (*decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid override %q: %w", raw, err)
	}
	return &d, nil
}
