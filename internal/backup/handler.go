package backup

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/frahmantamala/dues-management/internal/transport"
	"github.com/frahmantamala/dues-management/pkg/logger"
)

// maxImportBytes caps uploaded backup documents.
const maxImportBytes = 32 << 20

type ServiceAPI interface {
	Export() (*Document, error)
	ImportJSON(raw []byte) error
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

func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	doc, err := h.Service.Export()
	if err != nil {
		h.Logger.Error("Export: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	filename := fmt.Sprintf("backup_jimpitan_rt_%s.json", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	h.WriteJSON(w, http.StatusOK, doc)
}

func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxImportBytes))
	if err != nil {
		h.Logger.Error("Import: failed to read request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	if err := h.Service.ImportJSON(raw); err != nil {
		h.Logger.Error("Import: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "imported"})
}
