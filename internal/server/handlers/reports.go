package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/aminata-dev/lottostock/internal/domain/models"
	"github.com/aminata-dev/lottostock/internal/service/aggregation"
	"github.com/aminata-dev/lottostock/internal/service/ledger"
)

// ReportsHandler serves the per-date stock report page, including the inline
// edit and delete actions.
type ReportsHandler struct {
	ledger *ledger.Service
	agg    *aggregation.Service
	logger *zap.Logger
}

// NewReportsHandler constructs the HTTP handler adapter for stock reports.
func NewReportsHandler(ledgerSvc *ledger.Service, agg *aggregation.Service, logger *zap.Logger) *ReportsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportsHandler{ledger: ledgerSvc, agg: agg, logger: logger}
}

// Show renders the stock report for the selected date (defaulting to today).
func (h *ReportsHandler) Show(c *gin.Context) {
	ctx := c.Request.Context()
	selectedDate := c.Query("date")
	if selectedDate == "" {
		selectedDate = time.Now().Format(models.DateLayout)
	}

	dates, err := h.ledger.EntryDates(ctx)
	if err != nil {
		h.fail(c, "list entry dates", err)
		return
	}
	entries, err := h.ledger.EntriesForDate(ctx, selectedDate)
	if err != nil {
		h.fail(c, "list entries", err)
		return
	}
	totals, err := h.agg.HolderTotalsByValue(ctx, selectedDate)
	if err != nil {
		h.fail(c, "holder totals", err)
		return
	}
	extras, err := h.ledger.ExtrasForDate(ctx, selectedDate)
	if err != nil {
		h.fail(c, "list extras", err)
		return
	}
	extraTotals, err := h.agg.ExtraTotalsByPrice(ctx, selectedDate)
	if err != nil {
		h.fail(c, "extra totals", err)
		return
	}
	grandTotal, err := h.agg.DailyGrandTotal(ctx, selectedDate)
	if err != nil {
		h.fail(c, "grand total", err)
		return
	}

	c.HTML(http.StatusOK, "reports.html", gin.H{
		"Dates":        dates,
		"SelectedDate": selectedDate,
		"Entries":      entries,
		"Totals":       totals,
		"ExtraTickets": extras,
		"ExtraTotals":  extraTotals,
		"GrandTotal":   grandTotal,
		"Flashes":      TakeFlashes(c),
		"IsAdmin":      IsAdmin(c),
	})
}

// Mutate dispatches the POST actions of the reports page: inline stock update,
// single-entry delete and delete-all-for-date.
func (h *ReportsHandler) Mutate(c *gin.Context) {
	action := c.DefaultPostForm("action", "update")
	date := c.PostForm("date")

	switch action {
	case "update":
		holderNumber, err1 := strconv.Atoi(c.PostForm("holder_number"))
		newStock, err2 := strconv.Atoi(c.PostForm("new_stock"))
		if err1 != nil || err2 != nil {
			AddFlash(c, "error", "Invalid holder or stock number.")
			h.redirectToDate(c, date)
			return
		}
		if err := h.ledger.UpdateEntry(c.Request.Context(), date, holderNumber, newStock); err != nil {
			var verr *ledger.ValidationError
			if errors.As(err, &verr) {
				AddFlash(c, "error", verr.Message)
			} else {
				h.logger.Error("failed updating stock entry", zap.Error(err))
				AddFlash(c, "error", "Database error occurred. Please try again.")
			}
			h.redirectToDate(c, date)
			return
		}
		AddFlash(c, "success", "Stock number updated successfully!")
		h.redirectToDate(c, date)

	case "delete_entry":
		holderNumber, err := strconv.Atoi(c.PostForm("holder_number"))
		if err != nil {
			AddFlash(c, "error", "Invalid holder number.")
			h.redirectToDate(c, date)
			return
		}
		if err := h.ledger.DeleteEntry(c.Request.Context(), date, holderNumber); err != nil {
			h.logger.Error("failed deleting stock entry", zap.Error(err))
			AddFlash(c, "error", "Database error occurred. Please try again.")
			h.redirectToDate(c, date)
			return
		}
		AddFlash(c, "success", "Stock entry deleted successfully!")
		h.redirectToDate(c, date)

	case "delete_all_date":
		count, err := h.ledger.DeleteAllForDate(c.Request.Context(), date)
		if err != nil {
			h.logger.Error("failed deleting stock entries", zap.Error(err))
			AddFlash(c, "error", "Database error occurred. Please try again.")
			c.Redirect(http.StatusFound, "/reports")
			return
		}
		if count > 0 {
			AddFlash(c, "success", fmt.Sprintf("All %d stock entries for %s deleted successfully!", count, date))
		} else {
			AddFlash(c, "error", "No stock entries found for this date.")
		}
		c.Redirect(http.StatusFound, "/reports")

	default:
		AddFlash(c, "error", "Unknown action.")
		c.Redirect(http.StatusFound, "/reports")
	}
}

func (h *ReportsHandler) redirectToDate(c *gin.Context, date string) {
	c.Redirect(http.StatusFound, "/reports?date="+url.QueryEscape(date))
}

func (h *ReportsHandler) fail(c *gin.Context, context string, err error) {
	h.logger.Error("reports page failed", zap.String("context", context), zap.Error(err))
	AddFlash(c, "error", "An error occurred while processing the report.")
	c.Redirect(http.StatusFound, "/")
}
