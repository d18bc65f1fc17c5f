package settings

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/dues-management/internal/transport"
	"github.com/frahmantamala/dues-management/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	GetAll() (map[string]string, error)
	Set(key, value string) error
	DailyRateIDR() int64
	SetDailyRate(rateIDR int64) error
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

func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	values, err := h.Service.GetAll()
	if err != nil {
		h.Logger.Error("GetSettings: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"settings":       values,
		"daily_rate_idr": h.Service.DailyRateIDR(),
	})
}

func (h *Handler) UpdateSetting(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if key == "" {
		h.WriteError(w, http.StatusBadRequest, "invalid setting key")
		return
	}

	var payload struct {
		Value string `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.Logger.Error("UpdateSetting: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.Service.Set(key, payload.Value); err != nil {
		h.Logger.Error("UpdateSetting: service error", "error", err, "key", key)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

func (h *Handler) UpdateDailyRate(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		DailyRateIDR int64 `json:"daily_rate_idr"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.Logger.Error("UpdateDailyRate: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.Service.SetDailyRate(payload.DailyRateIDR); err != nil {
		h.Logger.Error("UpdateDailyRate: service error", "error", err, "rate", payload.DailyRateIDR)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":         "saved",
		"daily_rate_idr": payload.DailyRateIDR,
	})
}
