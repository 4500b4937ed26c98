// naming.go — HTTP handlers конфигурации именования.
package handlers

import (
	"encoding/json"
	"net/http"

	apierrors "github.com/bigkaa/renamebox/rename-service/internal/api/errors"
	"github.com/bigkaa/renamebox/rename-service/internal/naming"
	"github.com/bigkaa/renamebox/rename-service/internal/notify"
	"github.com/bigkaa/renamebox/rename-service/internal/pipeline"
)

// NamingHandler — обработчик endpoints конфигурации именования.
type NamingHandler struct {
	manager *naming.Manager
	orch    *pipeline.Orchestrator
	feed    *notify.Feed
}

// NewNamingHandler создаёт обработчик конфигурации именования.
func NewNamingHandler(manager *naming.Manager, orch *pipeline.Orchestrator, feed *notify.Feed) *NamingHandler {
	return &NamingHandler{
		manager: manager,
		orch:    orch,
		feed:    feed,
	}
}

// namingResponse — текущее состояние конфигурации именования.
type namingResponse struct {
	Current  naming.Settings  `json:"current"`
	Previous *naming.Settings `json:"previous,omitempty"`
}

// Get обрабатывает GET /api/v1/naming.
func (h *NamingHandler) Get(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.snapshot())
}

// updateRequest — тело запроса изменения конфигурации.
type updateRequest struct {
	Mode    string `json:"mode"`
	Pattern string `json:"pattern,omitempty"`
}

// Update обрабатывает PUT /api/v1/naming.
// Прежняя конфигурация сохраняется для одноуровневого отката.
func (h *NamingHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.ValidationError(w, "Некорректное тело запроса")
		return
	}

	mode, err := naming.ParseMode(req.Mode)
	if err != nil {
		apierrors.ValidationError(w, err.Error())
		return
	}

	h.manager.Set(naming.Settings{Mode: mode, Pattern: req.Pattern})
	h.feed.Info("Конфигурация именования обновлена")
	writeJSON(w, http.StatusOK, h.snapshot())
}

// Undo обрабатывает POST /api/v1/naming/undo.
// Откатывает последнее изменение и пересчитывает имена всех записей.
func (h *NamingHandler) Undo(w http.ResponseWriter, _ *http.Request) {
	if _, ok := h.manager.Undo(); !ok {
		apierrors.ValidationError(w, "Нет изменений конфигурации для отката")
		return
	}

	_, count := h.orch.ReapplyAll()
	h.feed.Info("Конфигурация именования откатена")

	resp := map[string]any{
		"naming":            h.snapshot(),
		"reapply_scheduled": count,
	}
	writeJSON(w, http.StatusAccepted, resp)
}

// Apply обрабатывает POST /api/v1/naming/apply.
// Пересчитывает имена всех записей по активной конфигурации.
func (h *NamingHandler) Apply(w http.ResponseWriter, _ *http.Request) {
	_, count := h.orch.ReapplyAll()

	resp := map[string]any{
		"naming":            h.snapshot(),
		"reapply_scheduled": count,
	}
	writeJSON(w, http.StatusAccepted, resp)
}

// snapshot собирает ответ из текущего состояния менеджера.
func (h *NamingHandler) snapshot() namingResponse {
	resp := namingResponse{Current: h.manager.Current()}
	if prev, ok := h.manager.Previous(); ok {
		resp.Previous = &prev
	}
	return resp
}
