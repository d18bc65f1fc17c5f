package resident

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/frahmantamala/dues-management/internal/transport"
	"github.com/frahmantamala/dues-management/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	CreateResident(dto CreateResidentDTO) (*Resident, error)
	GetResident(id string) (*Resident, error)
	ListResidents(block, search string) ([]*Resident, error)
	UpdateResident(id string, dto UpdateResidentDTO) (*Resident, error)
	DeleteResident(id string) error
	ExportCSV() ([]byte, error)
	Blocks() ([]string, error)
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

func (h *Handler) CreateResident(w http.ResponseWriter, r *http.Request) {
	var dto CreateResidentDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CreateResident: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resident, err := h.Service.CreateResident(dto)
	if err != nil {
		h.Logger.Error("CreateResident: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, resident)
}

func (h *Handler) GetResident(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		h.WriteError(w, http.StatusBadRequest, "invalid resident ID")
		return
	}

	resident, err := h.Service.GetResident(id)
	if err != nil {
		h.Logger.Error("GetResident: service error", "error", err, "resident_id", id)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, resident)
}

func (h *Handler) ListResidents(w http.ResponseWriter, r *http.Request) {
	block := r.URL.Query().Get("block")
	search := r.URL.Query().Get("search")

	residents, err := h.Service.ListResidents(block, search)
	if err != nil {
		h.Logger.Error("ListResidents: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"residents": residents,
		"count":     len(residents),
	})
}

func (h *Handler) ListBlocks(w http.ResponseWriter, r *http.Request) {
	blocks, err := h.Service.Blocks()
	if err != nil {
		h.Logger.Error("ListBlocks: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"blocks": blocks})
}

func (h *Handler) UpdateResident(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		h.WriteError(w, http.StatusBadRequest, "invalid resident ID")
		return
	}

	var dto UpdateResidentDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("UpdateResident: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resident, err := h.Service.UpdateResident(id, dto)
	if err != nil {
		h.Logger.Error("UpdateResident: service error", "error", err, "resident_id", id)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, resident)
}

func (h *Handler) DeleteResident(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		h.WriteError(w, http.StatusBadRequest, "invalid resident ID")
		return
	}

	if err := h.Service.DeleteResident(id); err != nil {
		h.Logger.Error("DeleteResident: service error", "error", err, "resident_id", id)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	data, err := h.Service.ExportCSV()
	if err != nil {
		h.Logger.Error("ExportCSV: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	filename := fmt.Sprintf("master_data_warga_%s.csv", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.Logger.Error("ExportCSV: failed to write response", "error", err)
	}
}
