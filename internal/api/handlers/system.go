// system.go — HTTP handler системной информации.
package handlers

import (
	"net/http"
	"time"

	apierrors "github.com/bigkaa/renamebox/rename-service/internal/api/errors"
	"github.com/bigkaa/renamebox/rename-service/internal/config"
	"github.com/bigkaa/renamebox/rename-service/internal/domain/model"
	"github.com/bigkaa/renamebox/rename-service/internal/storage/filestore"
	"github.com/bigkaa/renamebox/rename-service/internal/store"
)

// SystemHandler — обработчик системных endpoints.
type SystemHandler struct {
	store *store.Store
	files *filestore.FileStore
}

// NewSystemHandler создаёт обработчик системных endpoints.
func NewSystemHandler(st *store.Store, files *filestore.FileStore) *SystemHandler {
	return &SystemHandler{store: st, files: files}
}

// Info обрабатывает GET /api/v1/system/info.
func (h *SystemHandler) Info(w http.ResponseWriter, _ *http.Request) {
	usedBytes, err := h.files.UsedBytes()
	if err != nil {
		apierrors.InternalError(w, "Не удалось вычислить занятое место: "+err.Error())
		return
	}

	resp := map[string]any{
		"service":   "rename-service",
		"version":   config.Version,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"records": map[string]any{
			"total":      h.store.Count(),
			"uploading":  h.store.CountByStatus(model.StatusUploading),
			"processing": h.store.CountByStatus(model.StatusProcessing),
			"completed":  h.store.CountByStatus(model.StatusCompleted),
			"error":      h.store.CountByStatus(model.StatusError),
		},
		"storage": map[string]any{
			"data_dir":   h.files.DataDir(),
			"used_bytes": usedBytes,
		},
	}
	writeJSON(w, http.StatusOK, resp)
}
