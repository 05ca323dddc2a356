package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/aminata-dev/lottostock/internal/domain/models"
	"github.com/aminata-dev/lottostock/internal/service/aggregation"
	"github.com/aminata-dev/lottostock/internal/service/ledger"
	"github.com/aminata-dev/lottostock/internal/service/reconciliation"
)

// ReconciliationHandler serves the gated report pages: create, list/edit,
// view and delete.
type ReconciliationHandler struct {
	svc    *reconciliation.Service
	agg    *aggregation.Service
	logger *zap.Logger
}

// NewReconciliationHandler constructs the HTTP handler adapter for
// reconciliation reports.
func NewReconciliationHandler(svc *reconciliation.Service, agg *aggregation.Service, logger *zap.Logger) *ReconciliationHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReconciliationHandler{svc: svc, agg: agg, logger: logger}
}

// ShowCreateForm renders the create-report page with the selected date's
// totals and computed closing values.
func (h *ReconciliationHandler) ShowCreateForm(c *gin.Context) {
	selectedDate := c.Query("date")
	if selectedDate == "" {
		selectedDate = time.Now().Format(models.DateLayout)
	}
	h.renderCreateForm(c, selectedDate, "")
}

// Create computes and persists the report for the submitted date.
func (h *ReconciliationHandler) Create(c *gin.Context) {
	selectedDate := c.PostForm("date")

	overrideYesterday, err := reconciliation.ParseOverride(c.PostForm("override_yesterday_closing"))
	if err != nil {
		h.renderCreateForm(c, selectedDate, "Please enter valid numbers for all fields.")
		return
	}
	overrideToday, err := reconciliation.ParseOverride(c.PostForm("override_today_closing"))
	if err != nil {
		h.renderCreateForm(c, selectedDate, "Please enter valid numbers for all fields.")
		return
	}
	figures, err := parseFigures(c)
	if err != nil {
		h.renderCreateForm(c, selectedDate, "Please enter valid numbers for all fields.")
		return
	}

	report, err := h.svc.CreateReport(c.Request.Context(), selectedDate, overrideYesterday, overrideToday, figures)
	if err != nil {
		var missing *reconciliation.MissingLedgerDataError
		var verr *ledger.ValidationError
		switch {
		case errors.As(err, &missing):
			h.renderCreateForm(c, selectedDate, missing.Error())
		case errors.As(err, &verr):
			h.renderCreateForm(c, selectedDate, verr.Message)
		default:
			h.logger.Error("failed creating report", zap.String("date", selectedDate), zap.Error(err))
			h.renderCreateForm(c, selectedDate, "An error occurred while processing the report.")
		}
		return
	}

	AddFlash(c, "success", "Report created successfully!")
	h.renderReport(c, "create_report.html", report)
}

// List renders the saved reports and handles the edit/delete actions posted
// from that page.
func (h *ReconciliationHandler) List(c *gin.Context) {
	if c.Request.Method == http.MethodPost {
		h.mutate(c)
	}

	reports, err := h.svc.ListReports(c.Request.Context())
	if err != nil {
		h.logger.Error("failed listing reports", zap.Error(err))
		AddFlash(c, "error", "An error occurred while processing the request.")
		reports = nil
	}

	c.HTML(http.StatusOK, "lottery_reports.html", gin.H{
		"Reports": reports,
		"Flashes": TakeFlashes(c),
		"IsAdmin": IsAdmin(c),
	})
}

func (h *ReconciliationHandler) mutate(c *gin.Context) {
	action := c.PostForm("action")
	id, err := strconv.ParseUint(c.PostForm("report_id"), 10, 32)
	if err != nil {
		AddFlash(c, "error", "Invalid report id.")
		return
	}

	switch action {
	case "edit":
		overrideYesterday, err := reconciliation.ParseOverride(c.PostForm("override_yesterday_closing"))
		if err != nil {
			AddFlash(c, "error", "Please enter valid numbers for all fields.")
			return
		}
		overrideToday, err := reconciliation.ParseOverride(c.PostForm("override_today_closing"))
		if err != nil {
			AddFlash(c, "error", "Please enter valid numbers for all fields.")
			return
		}
		figures, err := parseFigures(c)
		if err != nil {
			AddFlash(c, "error", "Please enter valid numbers for all fields.")
			return
		}

		if _, err := h.svc.EditReport(c.Request.Context(), uint(id), overrideYesterday, overrideToday, figures); err != nil {
			if errors.Is(err, reconciliation.ErrReportNotFound) {
				AddFlash(c, "error", "Report not found.")
			} else {
				h.logger.Error("failed updating report", zap.Uint64("id", id), zap.Error(err))
				AddFlash(c, "error", "An error occurred while processing the request.")
			}
			return
		}
		AddFlash(c, "success", "Report updated successfully!")

	case "delete":
		if err := h.svc.DeleteReport(c.Request.Context(), uint(id)); err != nil {
			h.logger.Error("failed deleting report", zap.Uint64("id", id), zap.Error(err))
			AddFlash(c, "error", "An error occurred while processing the request.")
			return
		}
		AddFlash(c, "success", "Report deleted successfully!")

	default:
		AddFlash(c, "error", "Unknown action.")
	}
}

// View renders one saved report together with that date's stock totals.
func (h *ReconciliationHandler) View(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		AddFlash(c, "error", "Report not found.")
		c.Redirect(http.StatusFound, "/lottery-reports")
		return
	}

	report, err := h.svc.GetReport(c.Request.Context(), uint(id))
	if err != nil {
		if errors.Is(err, reconciliation.ErrReportNotFound) {
			AddFlash(c, "error", "Report not found.")
		} else {
			h.logger.Error("failed loading report", zap.Uint64("id", id), zap.Error(err))
			AddFlash(c, "error", "An error occurred while loading the report.")
		}
		c.Redirect(http.StatusFound, "/lottery-reports")
		return
	}

	h.renderReport(c, "view_lottery_report.html", report)
}

// renderReport shows a single report alongside its date's per-denomination
// totals.
func (h *ReconciliationHandler) renderReport(c *gin.Context, template string, report *models.DailyReport) {
	ctx := c.Request.Context()

	totals, err := h.agg.HolderTotalsByValue(ctx, report.Date)
	if err != nil {
		h.logger.Error("failed loading holder totals", zap.String("date", report.Date), zap.Error(err))
	}
	extraTotals, err := h.agg.ExtraTotalsByPrice(ctx, report.Date)
	if err != nil {
		h.logger.Error("failed loading extra totals", zap.String("date", report.Date), zap.Error(err))
	}

	yesterday, err := report.Yesterday()
	if err != nil {
		yesterday = ""
	}

	c.HTML(http.StatusOK, template, gin.H{
		"ShowReport":  true,
		"Report":      report,
		"Yesterday":   yesterday,
		"Totals":      totals,
		"ExtraTotals": extraTotals,
		"Flashes":     TakeFlashes(c),
		"IsAdmin":     IsAdmin(c),
	})
}

func (h *ReconciliationHandler) renderCreateForm(c *gin.Context, selectedDate, errorMessage string) {
	ctx := c.Request.Context()

	var (
		totals           []models.ValueTotal
		extraTotals      []models.ValueTotal
		yesterdayClosing = decimal.Zero
		todayClosing     = decimal.Zero
	)
	if _, err := time.Parse(models.DateLayout, selectedDate); err == nil {
		if totals, err = h.agg.HolderTotalsByValue(ctx, selectedDate); err != nil {
			h.logger.Error("failed loading holder totals", zap.Error(err))
		}
		if extraTotals, err = h.agg.ExtraTotalsByPrice(ctx, selectedDate); err != nil {
			h.logger.Error("failed loading extra totals", zap.Error(err))
		}
		if yesterdayClosing, todayClosing, err = h.svc.ClosingValues(ctx, selectedDate); err != nil {
			h.logger.Error("failed loading closing values", zap.Error(err))
		}
	} else if errorMessage == "" {
		errorMessage = "Invalid date format. Use YYYY-MM-DD"
	}

	status := http.StatusOK
	if errorMessage != "" {
		status = http.StatusBadRequest
	}
	c.HTML(status, "create_report.html", gin.H{
		"ShowReport":       false,
		"CurrentDate":      time.Now().Format(models.DateLayout),
		"SelectedDate":     selectedDate,
		"Error":            errorMessage,
		"Totals":           totals,
		"ExtraTotals":      extraTotals,
		"YesterdayClosing": yesterdayClosing,
		"TodayClosing":     todayClosing,
		"Flashes":          TakeFlashes(c),
		"IsAdmin":          IsAdmin(c),
	})
}

// parseFigures reads the operator-entered amounts; blank fields default to
// zero.
func parseFigures(c *gin.Context) (reconciliation.Figures, error) {
	var f reconciliation.Figures
	fields := []struct {
		name string
		dst  *decimal.Decimal
	}{
		{"books_1", &f.Books1},
		{"books_2", &f.Books2},
		{"books_5", &f.Books5},
		{"books_10", &f.Books10},
		{"books_20", &f.Books20},
		{"books_30", &f.Books30},
		{"books_50", &f.Books50},
		{"machine_sold", &f.MachineSold},
		{"tickets_cashed", &f.TicketsCashed},
		{"online_cashed", &f.OnlineCashed},
	}
	for _, field := range fields {
		v, err := reconciliation.ParseAmount(c.PostForm(field.name))
		if err != nil {
			return reconciliation.Figures{}, err
		}
		*field.dst = v
	}
	return f, nil
}
