// export.go — HTTP handler выгрузки записей.
package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	apierrors "github.com/bigkaa/renamebox/rename-service/internal/api/errors"
	"github.com/bigkaa/renamebox/rename-service/internal/export"
)

// Режимы выгрузки.
const (
	exportModeArchive    = "archive"
	exportModeIndividual = "individual"
)

// ExportHandler — обработчик endpoint выгрузки.
type ExportHandler struct {
	exportSvc *export.Service
}

// NewExportHandler создаёт обработчик выгрузки.
func NewExportHandler(exportSvc *export.Service) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// exportRequest — тело запроса выгрузки.
type exportRequest struct {
	IDs  []string `json:"ids"`
	Mode string   `json:"mode"`
}

// Export обрабатывает POST /api/v1/export.
// mode = archive — поток application/zip; mode = individual — JSON-план
// последовательного скачивания. Выгрузке подлежат только записи
// в статусе completed; пустой пригодный набор — не ошибка.
func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.ValidationError(w, "Некорректное тело запроса")
		return
	}
	if len(req.IDs) == 0 {
		apierrors.ValidationError(w, "Поле ids обязательно")
		return
	}
	if req.Mode != exportModeArchive && req.Mode != exportModeIndividual {
		apierrors.ValidationError(w, fmt.Sprintf(
			"Недопустимый режим выгрузки: %q, допустимые: archive, individual", req.Mode))
		return
	}

	records := h.exportSvc.Eligible(req.IDs)
	if len(records) == 0 {
		h.exportSvc.NotifyEmpty(req.Mode)
		writeJSON(w, http.StatusOK, map[string]any{
			"items":  []any{},
			"total":  0,
			"notice": "Нет завершённых файлов для выгрузки",
		})
		return
	}

	if req.Mode == exportModeIndividual {
		items := h.exportSvc.Plan(records)
		writeJSON(w, http.StatusOK, map[string]any{
			"items": items,
			"total": len(items),
		})
		return
	}

	filename := fmt.Sprintf("renamed_files_%s.zip", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))

	// заголовки уже отправлены, ошибки записи фиксируются только в логе
	_ = h.exportSvc.WriteArchive(w, records)
}
