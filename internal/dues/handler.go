package dues

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/frahmantamala/dues-management/internal/transport"
	"github.com/frahmantamala/dues-management/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	RecordDaySet(dto RecordDaySetDTO) (*Receipt, error)
	RecordPackage(dto RecordPackageDTO) (*Receipt, error)
	RecordFreeForm(dto RecordFreeFormDTO) (*Receipt, error)
	MonthlyReport(year int, month time.Month) (*ArrearsReport, error)
	YearToDateReport() (*ArrearsReport, error)
	ResidentYearToDate(residentID string) (*Summary, error)
	Matrix(year int) ([]MatrixRow, error)
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

func (h *Handler) RecordDaySet(w http.ResponseWriter, r *http.Request) {
	var dto RecordDaySetDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("RecordDaySet: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	receipt, err := h.Service.RecordDaySet(dto)
	if err != nil {
		h.Logger.Error("RecordDaySet: service error", "error", err, "resident_id", dto.ResidentID)
		h.HandleServiceError(w, err)
		return
	}

	status := http.StatusCreated
	if !receipt.Recorded {
		status = http.StatusOK
	}
	h.WriteJSON(w, status, receipt)
}

func (h *Handler) RecordPackage(w http.ResponseWriter, r *http.Request) {
	var dto RecordPackageDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("RecordPackage: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	receipt, err := h.Service.RecordPackage(dto)
	if err != nil {
		h.Logger.Error("RecordPackage: service error", "error", err, "resident_id", dto.ResidentID)
		h.HandleServiceError(w, err)
		return
	}

	status := http.StatusCreated
	if !receipt.Recorded {
		status = http.StatusOK
	}
	h.WriteJSON(w, status, receipt)
}

func (h *Handler) RecordFreeForm(w http.ResponseWriter, r *http.Request) {
	var dto RecordFreeFormDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("RecordFreeForm: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	receipt, err := h.Service.RecordFreeForm(dto)
	if err != nil {
		h.Logger.Error("RecordFreeForm: service error", "error", err, "resident_id", dto.ResidentID)
		h.HandleServiceError(w, err)
		return
	}

	status := http.StatusCreated
	if !receipt.Recorded {
		status = http.StatusOK
	}
	h.WriteJSON(w, status, receipt)
}

func (h *Handler) MonthlyReport(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	year := queryInt(r, "year", now.Year())
	month := queryInt(r, "month", int(now.Month()))

	report, err := h.Service.MonthlyReport(year, time.Month(month))
	if err != nil {
		h.Logger.Error("MonthlyReport: service error", "error", err, "year", year, "month", month)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, report)
}

func (h *Handler) YearToDateReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.Service.YearToDateReport()
	if err != nil {
		h.Logger.Error("YearToDateReport: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, report)
}

func (h *Handler) ResidentYearToDate(w http.ResponseWriter, r *http.Request) {
	residentID := chi.URLParam(r, "id")
	if residentID == "" {
		h.WriteError(w, http.StatusBadRequest, "invalid resident ID")
		return
	}

	summary, err := h.Service.ResidentYearToDate(residentID)
	if err != nil {
		h.Logger.Error("ResidentYearToDate: service error", "error", err, "resident_id", residentID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, summary)
}

func (h *Handler) Matrix(w http.ResponseWriter, r *http.Request) {
	year := queryInt(r, "year", time.Now().Year())

	rows, err := h.Service.Matrix(year)
	if err != nil {
		h.Logger.Error("Matrix: service error", "error", err, "year", year)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"year":      year,
		"residents": rows,
	})
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
