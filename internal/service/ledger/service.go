package ledger

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/aminata-dev/lottostock/internal/domain/models"
	repo "github.com/aminata-dev/lottostock/internal/repository/sqlite"
)

// ValidationError describes a rejected batch submission. Nothing is written
// when one is returned.
type ValidationError struct {
	Message        string
	MissingHolders []int
}

func (e *ValidationError) Error() string { return e.Message }

// ExtraInput is one raw extra-ticket row from the entry form. Rows with both
// fields blank are skipped; rows with exactly one blank field are rejected.
type ExtraInput struct {
	Price string
	Stock string
}

// BatchInput carries one day's raw form submission: the count entered for
// each holder (keyed by holder number, blank meaning not filled in) and any
// extra ticket rows.
type BatchInput struct {
	Date    string
	Holders map[int]string
	Extras  []ExtraInput
}

// Service owns daily stock entry: batch validation and writes, plus the
// single-entry edit and delete operations used from the reports page.
type Service struct {
	repo   repo.StockRepository
	logger *zap.Logger
}

// NewService wires a new ledger service instance.
func NewService(repository repo.StockRepository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repository, logger: logger}
}

// SubmitBatch validates and stores a full day's entry. Every holder in the
// wall sequence must be filled in or the whole batch is rejected with the
// exact set of missing holder numbers. Ticket values are resolved from the
// holder table at this moment and stored with the row.
func (s *Service) SubmitBatch(ctx context.Context, in BatchInput) error {
	if _, err := ParseDate(in.Date); err != nil {
		return err
	}

	var (
		entries []models.StockEntry
		missing []int
	)
	for _, holder := range models.HolderSequence() {
		raw := strings.TrimSpace(in.Holders[holder])
		if raw == "" {
			missing = append(missing, holder)
			continue
		}

		stock, err := strconv.Atoi(raw)
		if err != nil {
			return &ValidationError{Message: fmt.Sprintf("Invalid stock number for holder %d", holder)}
		}
		if stock < 0 {
			return &ValidationError{Message: fmt.Sprintf("Stock number for holder %d cannot be negative", holder)}
		}

		entries = append(entries, models.StockEntry{
			Date:         in.Date,
			HolderNumber: holder,
			StockNumber:  stock,
			TicketValue:  models.HolderTicketValue(holder),
		})
	}

	extras, err := parseExtras(in.Date, in.Extras)
	if err != nil {
		return err
	}

	if len(missing) > 0 {
		return &ValidationError{
			Message:        fmt.Sprintf("Please fill in all holders. Missing: %v", missing),
			MissingHolders: missing,
		}
	}

	if err := s.repo.CreateEntries(ctx, entries, extras); err != nil {
		return fmt.Errorf("store batch for %s: %w", in.Date, err)
	}

	s.logger.Info("stock batch recorded",
		zap.String("date", in.Date),
		zap.Int("holders", len(entries)),
		zap.Int("extras", len(extras)))
	return nil
}

func parseExtras(date string, inputs []ExtraInput) ([]models.ExtraTicketEntry, error) {
	var extras []models.ExtraTicketEntry
	for i, in := range inputs {
		price := strings.TrimSpace(in.Price)
		stock := strings.TrimSpace(in.Stock)

		if price == "" && stock == "" {
			continue
		}
		if price == "" || stock == "" {
			return nil, &ValidationError{
				Message: fmt.Sprintf("Both price and stock number must be provided for extra ticket %d", i+1),
			}
		}

		priceVal, err := strconv.Atoi(price)
		if err != nil {
			return nil, &ValidationError{Message: fmt.Sprintf("Invalid extra ticket entry %d: price must be a whole number", i+1)}
		}
		stockVal, err := strconv.Atoi(stock)
		if err != nil {
			return nil, &ValidationError{Message: fmt.Sprintf("Invalid extra ticket entry %d: stock must be a whole number", i+1)}
		}
		if priceVal <= 0 {
			return nil, &ValidationError{Message: fmt.Sprintf("Invalid extra ticket entry %d: price must be positive", i+1)}
		}
		if stockVal < 0 {
			return nil, &ValidationError{Message: fmt.Sprintf("Invalid extra ticket entry %d: stock number cannot be negative", i+1)}
		}

		extras = append(extras, models.ExtraTicketEntry{
			Date:        date,
			TicketPrice: priceVal,
			StockNumber: stockVal,
		})
	}
	return extras, nil
}

// UpdateEntry changes the stock count for one date+holder.
func (s *Service) UpdateEntry(ctx context.Context, date string, holderNumber, newStock int) error {
	if _, err := ParseDate(date); err != nil {
		return err
	}
	if newStock < 0 {
		return &ValidationError{Message: fmt.Sprintf("Stock number for holder %d cannot be negative", holderNumber)}
	}
	if err := s.repo.UpdateStockNumber(ctx, date, holderNumber, newStock); err != nil {
		return fmt.Errorf("update entry %s/%d: %w", date, holderNumber, err)
	}
	return nil
}

// DeleteEntry removes one holder entry.
func (s *Service) DeleteEntry(ctx context.Context, date string, holderNumber int) error {
	if err := s.repo.DeleteEntry(ctx, date, holderNumber); err != nil {
		return fmt.Errorf("delete entry %s/%d: %w", date, holderNumber, err)
	}
	return nil
}

// DeleteAllForDate removes every holder entry for the date and returns the
// count removed; zero means there was nothing to delete and no write
// happened.
func (s *Service) DeleteAllForDate(ctx context.Context, date string) (int64, error) {
	count, err := s.repo.DeleteAllForDate(ctx, date)
	if err != nil {
		return 0, fmt.Errorf("delete all entries for %s: %w", date, err)
	}
	s.logger.Info("stock entries removed", zap.String("date", date), zap.Int64("count", count))
	return count, nil
}

// EntriesForDate lists a day's holder entries in holder order.
func (s *Service) EntriesForDate(ctx context.Context, date string) ([]models.StockEntry, error) {
	return s.repo.EntriesForDate(ctx, date)
}

// ExtrasForDate lists a day's extra ticket entries, priciest first.
func (s *Service) ExtrasForDate(ctx context.Context, date string) ([]models.ExtraTicketEntry, error) {
	return s.repo.ExtrasForDate(ctx, date)
}

// EntryDates lists every date with ledger data, newest first.
func (s *Service) EntryDates(ctx context.Context) ([]string, error) {
	return s.repo.ListDates(ctx)
}

// HasDataForDate reports whether any ledger rows (holder or extra) exist for
// the date.
func (s *Service) HasDataForDate(ctx context.Context, date string) (bool, error) {
	return s.repo.HasDataForDate(ctx, date)
}

// ParseDate validates a form-supplied date string.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, &ValidationError{Message: "Date is required"}
	}
	d, err := time.Parse(models.DateLayout, value)
	if err != nil {
		return time.Time{}, &ValidationError{Message: "Invalid date format. Use YYYY-MM-DD"}
	}
	return d, nil
}
