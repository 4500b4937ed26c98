// notifications.go — HTTP handler ленты уведомлений.
package handlers

import (
	"fmt"
	"net/http"

	apierrors "github.com/bigkaa/renamebox/rename-service/internal/api/errors"
	"github.com/bigkaa/renamebox/rename-service/internal/notify"
)

// NotificationsHandler — обработчик endpoint уведомлений.
type NotificationsHandler struct {
	feed *notify.Feed
}

// NewNotificationsHandler создаёт обработчик уведомлений.
func NewNotificationsHandler(feed *notify.Feed) *NotificationsHandler {
	return &NotificationsHandler{feed: feed}
}

// List обрабатывает GET /api/v1/notifications.
// Возвращает последние уведомления, новые первыми.
func (h *NotificationsHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if _, err := fmt.Sscanf(raw, "%d", &limit); err != nil || limit < 0 {
			apierrors.ValidationError(w, "Параметр limit должен быть неотрицательным числом")
			return
		}
	}

	items := h.feed.Recent(limit)
	writeJSON(w, http.StatusOK, map[string]any{
		"items": items,
		"total": len(items),
	})
}
