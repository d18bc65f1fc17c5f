package transaction

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/frahmantamala/dues-management/internal/transport"
	"github.com/frahmantamala/dues-management/pkg/logger"
)

type ServiceAPI interface {
	Append(dto CreateTransactionDTO) (*Entry, error)
	Report() ([]LedgerLine, Totals, error)
	MonthReport(year int, month time.Month) ([]LedgerLine, Totals, error)
	Recent(n int) ([]LedgerLine, error)
	MonthlySummary(year int) ([]MonthTotals, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

func (h *Handler) Append(w http.ResponseWriter, r *http.Request) {
	var dto CreateTransactionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("Append: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	entry, err := h.Service.Append(dto)
	if err != nil {
		h.Logger.Error("Append: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, entry)
}

func (h *Handler) Report(w http.ResponseWriter, r *http.Request) {
	yearStr := r.URL.Query().Get("year")
	monthStr := r.URL.Query().Get("month")

	var (
		lines  []LedgerLine
		totals Totals
		err    error
	)
	if yearStr != "" && monthStr != "" {
		year, yerr := strconv.Atoi(yearStr)
		month, merr := strconv.Atoi(monthStr)
		if yerr != nil || merr != nil {
			h.WriteError(w, http.StatusBadRequest, "invalid year or month")
			return
		}
		lines, totals, err = h.Service.MonthReport(year, time.Month(month))
	} else {
		lines, totals, err = h.Service.Report()
	}
	if err != nil {
		h.Logger.Error("Report: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"totals":       totals,
		"transactions": lines,
	})
}

func (h *Handler) MonthlySummary(w http.ResponseWriter, r *http.Request) {
	year := time.Now().Year()
	if raw := r.URL.Query().Get("year"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			h.WriteError(w, http.StatusBadRequest, "invalid year")
			return
		}
		year = v
	}

	months, err := h.Service.MonthlySummary(year)
	if err != nil {
		h.Logger.Error("MonthlySummary: service error", "error", err, "year", year)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"year":   year,
		"months": months,
	})
}

func (h *Handler) Recent(w http.ResponseWriter, r *http.Request) {
	n := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 && v <= 100 {
			n = v
		}
	}

	lines, err := h.Service.Recent(n)
	if err != nil {
		h.Logger.Error("Recent: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"transactions": lines,
	})
}
