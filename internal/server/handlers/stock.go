package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/aminata-dev/lottostock/internal/domain/models"
	"github.com/aminata-dev/lottostock/internal/service/ledger"
)

// StockHandler serves the daily stock entry page.
type StockHandler struct {
	svc    *ledger.Service
	logger *zap.Logger
}

// NewStockHandler constructs the HTTP handler adapter for stock entry.
func NewStockHandler(svc *ledger.Service, logger *zap.Logger) *StockHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StockHandler{svc: svc, logger: logger}
}

// holderRow is one line of the entry form: the holder, its denomination and
// whatever the operator had typed when a rejected submission is re-rendered.
type holderRow struct {
	Number  int
	Value   int
	Entered string
}

// ShowForm renders the entry form with today's date prefilled.
func (h *StockHandler) ShowForm(c *gin.Context) {
	h.renderForm(c, "", nil)
}

// Submit validates and records a full day's batch. On any validation failure
// nothing is written and the form is re-rendered with the operator's values
// intact.
func (h *StockHandler) Submit(c *gin.Context) {
	in := ledger.BatchInput{
		Date:    c.PostForm("date"),
		Holders: make(map[int]string, models.HolderCount),
	}
	for _, holder := range models.HolderSequence() {
		in.Holders[holder] = c.PostForm(fmt.Sprintf("holder_%d", holder))
	}
	// Extra rows are numbered from 1; the form stops at the first row where
	// both fields are absent.
	for i := 1; ; i++ {
		price := c.PostForm(fmt.Sprintf("extra_price_%d", i))
		stock := c.PostForm(fmt.Sprintf("extra_stock_%d", i))
		if price == "" && stock == "" {
			break
		}
		in.Extras = append(in.Extras, ledger.ExtraInput{Price: price, Stock: stock})
	}

	if err := h.svc.SubmitBatch(c.Request.Context(), in); err != nil {
		var verr *ledger.ValidationError
		if errors.As(err, &verr) {
			h.renderForm(c, verr.Message, in.Holders)
			return
		}
		h.logger.Error("failed storing stock batch", zap.String("date", in.Date), zap.Error(err))
		h.renderForm(c, "Database error occurred. Please try again.", in.Holders)
		return
	}

	AddFlash(c, "success", "Stock numbers successfully recorded!")
	c.Redirect(http.StatusFound, "/")
}

func (h *StockHandler) renderForm(c *gin.Context, errorMessage string, previous map[int]string) {
	rows := make([]holderRow, 0, models.HolderCount)
	for _, holder := range models.HolderSequence() {
		rows = append(rows, holderRow{
			Number:  holder,
			Value:   models.HolderTicketValue(holder),
			Entered: previous[holder],
		})
	}

	status := http.StatusOK
	if errorMessage != "" {
		status = http.StatusBadRequest
	}
	c.HTML(status, "enter_stock.html", gin.H{
		"HolderRows":  rows,
		"Error":       errorMessage,
		"CurrentDate": time.Now().Format(models.DateLayout),
		"Flashes":     TakeFlashes(c),
		"IsAdmin":     IsAdmin(c),
	})
}
