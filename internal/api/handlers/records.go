// records.go — HTTP handlers операций над записями файлов.
// Upload, List, Get, Delete, Rename, Undo rename, Conversions,
// Convert, Download.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/bigkaa/renamebox/rename-service/internal/api/errors"
	"github.com/bigkaa/renamebox/rename-service/internal/convert"
	"github.com/bigkaa/renamebox/rename-service/internal/domain/lifecycle"
	"github.com/bigkaa/renamebox/rename-service/internal/domain/model"
	"github.com/bigkaa/renamebox/rename-service/internal/pipeline"
	"github.com/bigkaa/renamebox/rename-service/internal/service"
	"github.com/bigkaa/renamebox/rename-service/internal/store"
)

// RecordsHandler — обработчик endpoints записей.
type RecordsHandler struct {
	orch        *pipeline.Orchestrator
	store       *store.Store
	convertSvc  *convert.Service
	downloadSvc *service.DownloadService
	maxFileSize int64
}

// NewRecordsHandler создаёт обработчик endpoints записей.
func NewRecordsHandler(
	orch *pipeline.Orchestrator,
	st *store.Store,
	convertSvc *convert.Service,
	downloadSvc *service.DownloadService,
	maxFileSize int64,
) *RecordsHandler {
	return &RecordsHandler{
		orch:        orch,
		store:       st,
		convertSvc:  convertSvc,
		downloadSvc: downloadSvc,
		maxFileSize: maxFileSize,
	}
}

// Upload обрабатывает POST /api/v1/records.
// Multipart form: одна или несколько частей "file". Записи создаются
// в статусе uploading и обрабатываются в фоне; ответ — 202 Accepted.
func (h *RecordsHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil { // 32 MB buffer
		apierrors.ValidationError(w, fmt.Sprintf("Ошибка парсинга multipart: %s", err.Error()))
		return
	}

	headers := r.MultipartForm.File["file"]
	if len(headers) == 0 {
		apierrors.ValidationError(w, "Хотя бы одна часть 'file' обязательна")
		return
	}

	for _, header := range headers {
		if header.Size > h.maxFileSize {
			apierrors.FileTooLarge(w, fmt.Sprintf(
				"Файл %s превышает лимит %d байт", header.Filename, h.maxFileSize))
			return
		}
	}

	uploads := make([]pipeline.Upload, 0, len(headers))
	for _, header := range headers {
		f, err := header.Open()
		if err != nil {
			apierrors.InternalError(w, fmt.Sprintf("Не удалось открыть часть %s", header.Filename))
			return
		}
		defer f.Close()

		contentType := header.Header.Get("Content-Type")
		if contentType == "" {
			contentType = "application/octet-stream"
		}

		uploads = append(uploads, pipeline.Upload{
			Reader:      f,
			Filename:    header.Filename,
			ContentType: contentType,
		})
	}

	records, _, err := h.orch.Intake(uploads)
	if err != nil {
		apierrors.InternalError(w, err.Error())
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]any{
		"items": records,
		"total": len(records),
	})
}

// List обрабатывает GET /api/v1/records.
// Параметры: limit (опционально), status (опционально).
func (h *RecordsHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if _, err := fmt.Sscanf(raw, "%d", &limit); err != nil || limit < 0 {
			apierrors.ValidationError(w, "Параметр limit должен быть неотрицательным числом")
			return
		}
	}

	var statusFilter model.RecordStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		parsed, err := lifecycle.ParseStatus(raw)
		if err != nil {
			apierrors.ValidationError(w, err.Error())
			return
		}
		statusFilter = parsed
	}

	records, total := h.store.List(limit, statusFilter)
	writeJSON(w, http.StatusOK, map[string]any{
		"items": records,
		"total": total,
	})
}

// Get обрабатывает GET /api/v1/records/{id}.
func (h *RecordsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rec := h.store.Get(id)
	if rec == nil {
		apierrors.NotFound(w, fmt.Sprintf("Запись %s не найдена", id))
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// Delete обрабатывает DELETE /api/v1/records/{id}.
// Отменяет обработку записи и удаляет её файлы.
func (h *RecordsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !h.orch.Remove(id) {
		apierrors.NotFound(w, fmt.Sprintf("Запись %s не найдена", id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// renameRequest — тело запроса переименования.
type renameRequest struct {
	NewName string `json:"new_name"`
}

// Rename обрабатывает POST /api/v1/records/{id}/rename.
// Прежнее имя сохраняется в истории записи.
func (h *RecordsHandler) Rename(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req renameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.ValidationError(w, "Некорректное тело запроса")
		return
	}
	if req.NewName == "" {
		apierrors.ValidationError(w, "Поле new_name обязательно")
		return
	}

	if !h.store.Rename(id, req.NewName) {
		apierrors.NotFound(w, fmt.Sprintf("Запись %s не найдена", id))
		return
	}
	writeJSON(w, http.StatusOK, h.store.Get(id))
}

// UndoRename обрабатывает POST /api/v1/records/{id}/rename/undo.
// Откат без истории — no-op с текущим состоянием записи в ответе.
func (h *RecordsHandler) UndoRename(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if h.store.Get(id) == nil {
		apierrors.NotFound(w, fmt.Sprintf("Запись %s не найдена", id))
		return
	}
	h.store.UndoRename(id)
	writeJSON(w, http.StatusOK, h.store.Get(id))
}

// Conversions обрабатывает GET /api/v1/records/{id}/conversions.
// Возвращает целевые форматы, допустимые для записи.
func (h *RecordsHandler) Conversions(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rec := h.store.Get(id)
	if rec == nil {
		apierrors.NotFound(w, fmt.Sprintf("Запись %s не найдена", id))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"content_type": rec.ContentType,
		"targets":      convert.SupportedTargets(rec.ContentType),
	})
}

// convertRequest — тело запроса конвертации.
type convertRequest struct {
	TargetFormat string   `json:"target_format"`
	Quality      *float64 `json:"quality,omitempty"`
}

// Convert обрабатывает POST /api/v1/records/{id}/convert.
func (h *RecordsHandler) Convert(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req convertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.ValidationError(w, "Некорректное тело запроса")
		return
	}
	if req.TargetFormat == "" {
		apierrors.ValidationError(w, "Поле target_format обязательно")
		return
	}

	quality := convert.DefaultQuality
	if req.Quality != nil {
		quality = *req.Quality
	}

	rec, err := h.convertSvc.Convert(id, req.TargetFormat, quality)
	if err != nil {
		var convErr *convert.ConvertError
		if errors.As(err, &convErr) {
			apierrors.WriteError(w, convErr.StatusCode, convErr.Code, convErr.Message)
			return
		}
		apierrors.InternalError(w, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// Download обрабатывает GET /api/v1/records/{id}/download.
// Поддерживает Range requests (206) и ETag (If-None-Match → 304).
func (h *RecordsHandler) Download(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if downloadErr := h.downloadSvc.Serve(w, r, id); downloadErr != nil {
		apierrors.WriteError(w, downloadErr.StatusCode, downloadErr.Code, downloadErr.Message)
	}
}

// writeJSON — вспомогательная функция для записи JSON-ответа.
func writeJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}
