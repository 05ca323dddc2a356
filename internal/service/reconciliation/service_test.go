package reconciliation

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/aminata-dev/lottostock/internal/domain/models"
	repo "github.com/aminata-dev/lottostock/internal/repository/sqlite"
	"github.com/aminata-dev/lottostock/internal/service/aggregation"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// fakeStockRepo serves canned per-date sums; a date is "present" when it has
// an entry in either map.
type fakeStockRepo struct {
	holderSums map[string]int64
	extraSums  map[string]int64
}

func (f *fakeStockRepo) CreateEntries(context.Context, []models.StockEntry, []models.ExtraTicketEntry) error {
	return nil
}
func (f *fakeStockRepo) UpdateStockNumber(context.Context, string, int, int) error { return nil }
func (f *fakeStockRepo) DeleteEntry(context.Context, string, int) error            { return nil }
func (f *fakeStockRepo) DeleteAllForDate(context.Context, string) (int64, error)   { return 0, nil }
func (f *fakeStockRepo) EntriesForDate(context.Context, string) ([]models.StockEntry, error) {
	return nil, nil
}
func (f *fakeStockRepo) ExtrasForDate(context.Context, string) ([]models.ExtraTicketEntry, error) {
	return nil, nil
}
func (f *fakeStockRepo) ListDates(context.Context) ([]string, error) { return nil, nil }
func (f *fakeStockRepo) HolderTotalsByValue(context.Context, string) ([]models.ValueTotal, error) {
	return nil, nil
}
func (f *fakeStockRepo) ExtraTotalsByPrice(context.Context, string) ([]models.ValueTotal, error) {
	return nil, nil
}
func (f *fakeStockRepo) HolderValueSum(_ context.Context, date string) (int64, error) {
	return f.holderSums[date], nil
}
func (f *fakeStockRepo) ExtraValueSum(_ context.Context, date string) (int64, error) {
	return f.extraSums[date], nil
}
func (f *fakeStockRepo) HasDataForDate(_ context.Context, date string) (bool, error) {
	_, h := f.holderSums[date]
	_, e := f.extraSums[date]
	return h || e, nil
}

// fakeReportRepo stores reports by date, replacing on upsert like the real
// unique-date constraint.
type fakeReportRepo struct {
	nextID  uint
	reports map[string]*models.DailyReport
}

func newFakeReportRepo() *fakeReportRepo {
	return &fakeReportRepo{nextID: 1, reports: make(map[string]*models.DailyReport)}
}

func (f *fakeReportRepo) Upsert(_ context.Context, report *models.DailyReport) error {
	if existing, ok := f.reports[report.Date]; ok {
		report.ID = existing.ID
	} else {
		report.ID = f.nextID
		f.nextID++
	}
	clone := *report
	f.reports[report.Date] = &clone
	return nil
}

func (f *fakeReportRepo) Update(_ context.Context, report *models.DailyReport) error {
	clone := *report
	f.reports[report.Date] = &clone
	return nil
}

func (f *fakeReportRepo) GetByID(_ context.Context, id uint) (*models.DailyReport, error) {
	for _, r := range f.reports {
		if r.ID == id {
			clone := *r
			return &clone, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (f *fakeReportRepo) DeleteByID(_ context.Context, id uint) error {
	for date, r := range f.reports {
		if r.ID == id {
			delete(f.reports, date)
		}
	}
	return nil
}

func (f *fakeReportRepo) ListAll(context.Context) ([]models.DailyReport, error) {
	var out []models.DailyReport
	for _, r := range f.reports {
		out = append(out, *r)
	}
	return out, nil
}

func newTestService(stock *fakeStockRepo) (*Service, *fakeReportRepo) {
	reports := newFakeReportRepo()
	agg := aggregation.NewService(stock, nil)
	return NewService(reports, stock, agg, nil), reports
}

func TestCalculateFixedScenario(t *testing.T) {
	// yesterday 500, today 420, new books summing 300, machine 50,
	// cashed 100 + 20.
	f := Figures{
		Books1:        dec("100"),
		Books5:        dec("80"),
		Books10:       dec("70"),
		Books50:       dec("50"),
		MachineSold:   dec("50"),
		TicketsCashed: dec("100"),
		OnlineCashed:  dec("20"),
	}
	d := Calculate(dec("500"), dec("420"), f)

	if d.TotalNewBooks.String() != "300" {
		t.Errorf("total_new_books = %s, want 300", d.TotalNewBooks)
	}
	if d.NetTotalScratch.String() != "380" {
		t.Errorf("net_total_scratch = %s, want 380", d.NetTotalScratch)
	}
	if d.TotalLotterySale.String() != "430" {
		t.Errorf("total_lottery_sale = %s, want 430", d.TotalLotterySale)
	}
	if d.LotteryDepositAmount.String() != "310" {
		t.Errorf("lottery_deposit_amount = %s, want 310", d.LotteryDepositAmount)
	}
}

func TestCalculateIsPure(t *testing.T) {
	f := Figures{Books2: dec("7.5"), MachineSold: dec("12.25"), OnlineCashed: dec("3")}
	first := Calculate(dec("1000.10"), dec("950.35"), f)
	second := Calculate(dec("1000.10"), dec("950.35"), f)

	if !first.TotalNewBooks.Equal(second.TotalNewBooks) ||
		!first.NetTotalScratch.Equal(second.NetTotalScratch) ||
		!first.TotalLotterySale.Equal(second.TotalLotterySale) ||
		!first.LotteryDepositAmount.Equal(second.LotteryDepositAmount) {
		t.Errorf("repeated calculation differs: %+v vs %+v", first, second)
	}
}

func TestCalculateAllZero(t *testing.T) {
	d := Calculate(decimal.Zero, decimal.Zero, Figures{})
	if !d.TotalNewBooks.IsZero() || !d.NetTotalScratch.IsZero() ||
		!d.TotalLotterySale.IsZero() || !d.LotteryDepositAmount.IsZero() {
		t.Errorf("zero inputs produced non-zero output: %+v", d)
	}
}

func TestCreateReportComputesClosingsFromLedger(t *testing.T) {
	stock := &fakeStockRepo{
		holderSums: map[string]int64{"2025-03-01": 400, "2025-02-28": 450},
		extraSums:  map[string]int64{"2025-03-01": 20, "2025-02-28": 50},
	}
	svc, reports := newTestService(stock)

	report, err := svc.CreateReport(context.Background(), "2025-03-01", nil, nil, Figures{Books10: dec("100")})
	if err != nil {
		t.Fatalf("CreateReport: %v", err)
	}

	if report.YesterdayClosing.String() != "500" {
		t.Errorf("yesterday_closing = %s, want 500", report.YesterdayClosing)
	}
	if report.TodayClosing.String() != "420" {
		t.Errorf("today_closing = %s, want 420", report.TodayClosing)
	}
	// (500 + 100) - 420
	if report.NetTotalScratch.String() != "180" {
		t.Errorf("net_total_scratch = %s, want 180", report.NetTotalScratch)
	}
	if len(reports.reports) != 1 {
		t.Errorf("stored %d reports, want 1", len(reports.reports))
	}
}

func TestCreateReportOverrideReplacesComputedClosing(t *testing.T) {
	stock := &fakeStockRepo{
		holderSums: map[string]int64{"2025-03-01": 400, "2025-02-28": 450},
	}
	svc, _ := newTestService(stock)

	override := dec("999")
	report, err := svc.CreateReport(context.Background(), "2025-03-01", &override, nil, Figures{})
	if err != nil {
		t.Fatalf("CreateReport: %v", err)
	}

	if report.YesterdayClosing.String() != "999" {
		t.Errorf("yesterday_closing = %s, want the override 999", report.YesterdayClosing)
	}
	if report.TodayClosing.String() != "400" {
		t.Errorf("today_closing = %s, want the computed 400", report.TodayClosing)
	}
}

func TestCreateReportRefusedWhenPriorDayMissing(t *testing.T) {
	stock := &fakeStockRepo{
		holderSums: map[string]int64{"2025-03-01": 400},
	}
	svc, reports := newTestService(stock)

	// Overrides for both closings do not bypass the presence check.
	y, today := dec("500"), dec("420")
	_, err := svc.CreateReport(context.Background(), "2025-03-01", &y, &today, Figures{})

	var missing *MissingLedgerDataError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingLedgerDataError, got %v", err)
	}
	if !missing.Prior || missing.Date != "2025-02-28" {
		t.Errorf("error = %+v, want prior day 2025-02-28", missing)
	}
	if !strings.Contains(missing.Error(), "2025-02-28") {
		t.Errorf("message %q does not name the missing date", missing.Error())
	}
	if len(reports.reports) != 0 {
		t.Errorf("refused creation still stored %d reports", len(reports.reports))
	}
}

func TestCreateReportRefusedWhenTargetDayMissing(t *testing.T) {
	stock := &fakeStockRepo{
		holderSums: map[string]int64{"2025-02-28": 450},
	}
	svc, _ := newTestService(stock)

	_, err := svc.CreateReport(context.Background(), "2025-03-01", nil, nil, Figures{})

	var missing *MissingLedgerDataError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingLedgerDataError, got %v", err)
	}
	if missing.Prior || missing.Date != "2025-03-01" {
		t.Errorf("error = %+v, want target day 2025-03-01", missing)
	}
}

func TestCreateReportReplacesExistingForDate(t *testing.T) {
	stock := &fakeStockRepo{
		holderSums: map[string]int64{"2025-03-01": 400, "2025-02-28": 450},
	}
	svc, reports := newTestService(stock)

	ctx := context.Background()
	first, err := svc.CreateReport(ctx, "2025-03-01", nil, nil, Figures{Books1: dec("10")})
	if err != nil {
		t.Fatalf("first CreateReport: %v", err)
	}
	second, err := svc.CreateReport(ctx, "2025-03-01", nil, nil, Figures{Books1: dec("25")})
	if err != nil {
		t.Fatalf("second CreateReport: %v", err)
	}

	if len(reports.reports) != 1 {
		t.Fatalf("stored %d reports for one date, want 1", len(reports.reports))
	}
	if first.ID != second.ID {
		t.Errorf("replacement changed the row id: %d vs %d", first.ID, second.ID)
	}
	stored := reports.reports["2025-03-01"]
	if stored.Books1.String() != "25" {
		t.Errorf("stored books_1 = %s, want the replacement value 25", stored.Books1)
	}
}

func TestReportRoundTripSatisfiesInvariants(t *testing.T) {
	stock := &fakeStockRepo{
		holderSums: map[string]int64{"2025-03-01": 400, "2025-02-28": 450},
	}
	svc, _ := newTestService(stock)

	ctx := context.Background()
	created, err := svc.CreateReport(ctx, "2025-03-01", nil, nil, Figures{
		Books1:        dec("3"),
		Books5:        dec("2"),
		Books20:       dec("1"),
		MachineSold:   dec("75.50"),
		TicketsCashed: dec("12.25"),
		OnlineCashed:  dec("8"),
	})
	if err != nil {
		t.Fatalf("CreateReport: %v", err)
	}

	got, err := svc.GetReport(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetReport: %v", err)
	}

	totalNewBooks := got.Books1.Add(got.Books2).Add(got.Books5).Add(got.Books10).
		Add(got.Books20).Add(got.Books30).Add(got.Books50)
	if !got.TotalNewBooks.Equal(totalNewBooks) {
		t.Errorf("total_new_books = %s, want %s", got.TotalNewBooks, totalNewBooks)
	}
	netTotalScratch := got.YesterdayClosing.Add(got.TotalNewBooks).Sub(got.TodayClosing)
	if !got.NetTotalScratch.Equal(netTotalScratch) {
		t.Errorf("net_total_scratch = %s, want %s", got.NetTotalScratch, netTotalScratch)
	}
	totalLotterySale := got.NetTotalScratch.Add(got.MachineSold)
	if !got.TotalLotterySale.Equal(totalLotterySale) {
		t.Errorf("total_lottery_sale = %s, want %s", got.TotalLotterySale, totalLotterySale)
	}
	deposit := got.TotalLotterySale.Sub(got.TicketsCashed.Add(got.OnlineCashed))
	if !got.LotteryDepositAmount.Equal(deposit) {
		t.Errorf("lottery_deposit_amount = %s, want %s", got.LotteryDepositAmount, deposit)
	}
}

func TestEditReportRecomputesFromStoredClosings(t *testing.T) {
	stock := &fakeStockRepo{
		holderSums: map[string]int64{"2025-03-01": 400, "2025-02-28": 450},
	}
	svc, _ := newTestService(stock)

	ctx := context.Background()
	created, err := svc.CreateReport(ctx, "2025-03-01", nil, nil, Figures{Books1: dec("10")})
	if err != nil {
		t.Fatalf("CreateReport: %v", err)
	}

	updated, err := svc.EditReport(ctx, created.ID, nil, nil, Figures{Books1: dec("40"), MachineSold: dec("5")})
	if err != nil {
		t.Fatalf("EditReport: %v", err)
	}

	if !updated.YesterdayClosing.Equal(created.YesterdayClosing) {
		t.Errorf("edit without override changed yesterday_closing: %s vs %s",
			updated.YesterdayClosing, created.YesterdayClosing)
	}
	// (450 + 40) - 400 + 5
	if updated.TotalLotterySale.String() != "95" {
		t.Errorf("total_lottery_sale = %s, want 95", updated.TotalLotterySale)
	}
}

func TestEditReportOverrideSubstitutesClosing(t *testing.T) {
	stock := &fakeStockRepo{
		holderSums: map[string]int64{"2025-03-01": 400, "2025-02-28": 450},
	}
	svc, _ := newTestService(stock)

	ctx := context.Background()
	created, err := svc.CreateReport(ctx, "2025-03-01", nil, nil, Figures{})
	if err != nil {
		t.Fatalf("CreateReport: %v", err)
	}

	override := dec("600")
	updated, err := svc.EditReport(ctx, created.ID, &override, nil, Figures{})
	if err != nil {
		t.Fatalf("EditReport: %v", err)
	}

	if updated.YesterdayClosing.String() != "600" {
		t.Errorf("yesterday_closing = %s, want the override 600", updated.YesterdayClosing)
	}
	// 600 - 400
	if updated.NetTotalScratch.String() != "200" {
		t.Errorf("net_total_scratch = %s, want 200", updated.NetTotalScratch)
	}
}

func TestEditReportUnknownID(t *testing.T) {
	stock := &fakeStockRepo{holderSums: map[string]int64{}}
	svc, _ := newTestService(stock)

	_, err := svc.EditReport(context.Background(), 42, nil, nil, Figures{})
	if !errors.Is(err, ErrReportNotFound) {
		t.Errorf("expected ErrReportNotFound, got %v", err)
	}
}

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"", "0", false},
		{"   ", "0", false},
		{"12", "12", false},
		{"12.50", "12.5", false},
		{"-3", "-3", false},
		{"abc", "", true},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseAmount(%q) expected error, got %s", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseAmount(%q): %v", tc.in, err)
			continue
		}
		if got.String() != tc.want {
			t.Errorf("ParseAmount(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestParseOverride(t *testing.T) {
	if v, err := ParseOverride("  "); err != nil || v != nil {
		t.Errorf("blank override should be nil, got %v / %v", v, err)
	}
	v, err := ParseOverride("420.75")
	if err != nil || v == nil || v.String() != "420.75" {
		t.Errorf("ParseOverride(420.75) = %v / %v", v, err)
	}
	if _, err := ParseOverride("nope"); err == nil {
		t.Error("ParseOverride(nope) expected error")
	}
}
