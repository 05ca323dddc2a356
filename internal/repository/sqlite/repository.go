package sqlite

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/aminata-dev/lottostock/internal/domain/models"
)

// ErrNotFound is returned when a lookup by id matches no row.
var ErrNotFound = errors.New("record not found")

// StockRepository defines the persistence operations for holder and extra
// ticket entries.
type StockRepository interface {
	CreateEntries(ctx context.Context, holders []models.StockEntry, extras []models.ExtraTicketEntry) error
	UpdateStockNumber(ctx context.Context, date string, holderNumber, newStock int) error
	DeleteEntry(ctx context.Context, date string, holderNumber int) error
	DeleteAllForDate(ctx context.Context, date string) (int64, error)
	EntriesForDate(ctx context.Context, date string) ([]models.StockEntry, error)
	ExtrasForDate(ctx context.Context, date string) ([]models.ExtraTicketEntry, error)
	ListDates(ctx context.Context) ([]string, error)
	HolderTotalsByValue(ctx context.Context, date string) ([]models.ValueTotal, error)
	ExtraTotalsByPrice(ctx context.Context, date string) ([]models.ValueTotal, error)
	HolderValueSum(ctx context.Context, date string) (int64, error)
	ExtraValueSum(ctx context.Context, date string) (int64, error)
	HasDataForDate(ctx context.Context, date string) (bool, error)
}

// ReportRepository defines the persistence operations for daily reconciliation
// reports.
type ReportRepository interface {
	Upsert(ctx context.Context, report *models.DailyReport) error
	Update(ctx context.Context, report *models.DailyReport) error
	GetByID(ctx context.Context, id uint) (*models.DailyReport, error)
	DeleteByID(ctx context.Context, id uint) error
	ListAll(ctx context.Context) ([]models.DailyReport, error)
}

// Repository implements both repository interfaces on a single SQLite
// database.
type Repository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// New opens (creating if necessary) the database file, runs migrations and
// returns a ready repository.
func New(path string, logger *zap.Logger) (*Repository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory %s: %w", dir, err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: initGormLog()})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database %s: %w", path, err)
	}

	// SQLite allows a single writer; keep the pool small instead of queueing
	// writes behind SQLITE_BUSY.
	if sqlDB, derr := db.DB(); derr == nil && sqlDB != nil {
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetConnMaxIdleTime(time.Minute)
	}

	if err := db.AutoMigrate(&models.StockEntry{}, &models.ExtraTicketEntry{}, &models.DailyReport{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	logger.Info("database ready", zap.String("path", path))
	return &Repository{db: db, logger: logger}, nil
}

// Close releases the underlying database handle.
func (r *Repository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func initGormLog() gormlogger.Interface {
	return gormlogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormlogger.Config{
			Colorful:      false,
			LogLevel:      gormlogger.Error,
			SlowThreshold: time.Second,
		},
	)
}
