// handler.go — APIHandler собирает доменные handlers в один объект
// и регистрирует маршруты API.
package handlers

import (
	"github.com/go-chi/chi/v5"
)

// APIHandler — единый handler для всех endpoints.
type APIHandler struct {
	records       *RecordsHandler
	naming        *NamingHandler
	export        *ExportHandler
	notifications *NotificationsHandler
	system        *SystemHandler
	health        *HealthHandler
}

// NewAPIHandler создаёт единый handler для всех endpoints.
func NewAPIHandler(
	records *RecordsHandler,
	naming *NamingHandler,
	export *ExportHandler,
	notifications *NotificationsHandler,
	system *SystemHandler,
	health *HealthHandler,
) *APIHandler {
	return &APIHandler{
		records:       records,
		naming:        naming,
		export:        export,
		notifications: notifications,
		system:        system,
		health:        health,
	}
}

// RegisterAPI регистрирует маршруты /api/v1 на роутере.
func (h *APIHandler) RegisterAPI(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/records", func(r chi.Router) {
			r.Post("/", h.records.Upload)
			r.Get("/", h.records.List)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.records.Get)
				r.Delete("/", h.records.Delete)
				r.Post("/rename", h.records.Rename)
				r.Post("/rename/undo", h.records.UndoRename)
				r.Get("/conversions", h.records.Conversions)
				r.Post("/convert", h.records.Convert)
				r.Get("/download", h.records.Download)
			})
		})

		r.Route("/naming", func(r chi.Router) {
			r.Get("/", h.naming.Get)
			r.Put("/", h.naming.Update)
			r.Post("/undo", h.naming.Undo)
			r.Post("/apply", h.naming.Apply)
		})

		r.Post("/export", h.export.Export)
		r.Get("/notifications", h.notifications.List)
		r.Get("/system/info", h.system.Info)
	})
}

// RegisterHealth регистрирует health endpoints на роутере.
func (h *APIHandler) RegisterHealth(r chi.Router) {
	r.Get("/health/live", h.health.HealthLive)
	r.Get("/health/ready", h.health.HealthReady)
}
