package aggregation

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/aminata-dev/lottostock/internal/domain/models"
	repo "github.com/aminata-dev/lottostock/internal/repository/sqlite"
)

// Service computes the read-only daily totals: the grand total dollar value of
// remaining stock and the per-denomination subtotals shown on the reports
// pages.
type Service struct {
	repo   repo.StockRepository
	logger *zap.Logger
}

// NewService wires a new aggregation service instance.
func NewService(repository repo.StockRepository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repository, logger: logger}
}

// DailyGrandTotal sums stock x value across holder entries plus stock x price
// across extra entries for the date. Dates with no rows total zero, never an
// error.
func (s *Service) DailyGrandTotal(ctx context.Context, date string) (decimal.Decimal, error) {
	holderSum, err := s.repo.HolderValueSum(ctx, date)
	if err != nil {
		return decimal.Zero, fmt.Errorf("grand total for %s: %w", date, err)
	}
	extraSum, err := s.repo.ExtraValueSum(ctx, date)
	if err != nil {
		return decimal.Zero, fmt.Errorf("grand total for %s: %w", date, err)
	}
	return decimal.NewFromInt(holderSum + extraSum), nil
}

// HolderTotalsByValue returns the holder subtotals grouped by denomination,
// largest denomination first.
func (s *Service) HolderTotalsByValue(ctx context.Context, date string) ([]models.ValueTotal, error) {
	return s.repo.HolderTotalsByValue(ctx, date)
}

// ExtraTotalsByPrice returns the extra-ticket subtotals grouped by price,
// largest first.
func (s *Service) ExtraTotalsByPrice(ctx context.Context, date string) ([]models.ValueTotal, error) {
	return s.repo.ExtraTotalsByPrice(ctx, date)
}
