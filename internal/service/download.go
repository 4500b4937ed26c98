// download.go — сервис скачивания файлов.
package service

import (
	"fmt"
	"log/slog"
	"net/http"

	apierrors "github.com/bigkaa/renamebox/rename-service/internal/api/errors"
	"github.com/bigkaa/renamebox/rename-service/internal/api/middleware"
	"github.com/bigkaa/renamebox/rename-service/internal/domain/model"
	"github.com/bigkaa/renamebox/rename-service/internal/storage/filestore"
	"github.com/bigkaa/renamebox/rename-service/internal/store"
)

// DownloadService — сервис скачивания файлов записей.
type DownloadService struct {
	store  *store.Store
	files  *filestore.FileStore
	logger *slog.Logger
}

// NewDownloadService создаёт сервис скачивания файлов.
func NewDownloadService(st *store.Store, files *filestore.FileStore, logger *slog.Logger) *DownloadService {
	return &DownloadService{
		store:  st,
		files:  files,
		logger: logger.With(slog.String("component", "download_service")),
	}
}

// DownloadError — ошибка скачивания с HTTP-кодом.
type DownloadError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Serve отдаёт содержимое записи через http.ServeContent: файл после
// конвертации, если она была, иначе исходный. Поддерживает Range
// requests (206 Partial Content) и ETag (If-None-Match).
// Скачивание доступно только записям в статусе completed.
func (s *DownloadService) Serve(w http.ResponseWriter, r *http.Request, recordID string) *DownloadError {
	rec := s.store.Get(recordID)
	if rec == nil {
		return &DownloadError{
			StatusCode: 404,
			Code:       apierrors.CodeNotFound,
			Message:    fmt.Sprintf("Запись %s не найдена", recordID),
		}
	}

	if rec.Status != model.StatusCompleted {
		return &DownloadError{
			StatusCode: 409,
			Code:       apierrors.CodeRecordNotReady,
			Message:    fmt.Sprintf("Запись %s в статусе %s, скачивание недоступно", recordID, rec.Status),
		}
	}

	file, err := s.files.ReadFile(rec.PayloadPath())
	if err != nil {
		s.logger.Error("Файл не найден на диске",
			slog.String("record_id", recordID),
			slog.String("storage_path", rec.PayloadPath()),
			slog.String("error", err.Error()),
		)
		return &DownloadError{
			StatusCode: 404,
			Code:       apierrors.CodeNotFound,
			Message:    fmt.Sprintf("Файл записи %s не найден на диске", recordID),
		}
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		s.logger.Error("Ошибка получения stat файла",
			slog.String("record_id", recordID),
			slog.String("error", err.Error()),
		)
		return &DownloadError{
			StatusCode: 500,
			Code:       apierrors.CodeInternalError,
			Message:    "Ошибка чтения файла",
		}
	}

	name := rec.DisplayName()
	w.Header().Set("Content-Type", rec.PayloadType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", name))
	// ETag считается от отдаваемого артефакта: после конвертации
	// клиент не должен получить 304 на прежние байты
	w.Header().Set("ETag", fmt.Sprintf("\"%s\"", rec.PayloadChecksum()))
	w.Header().Set("Accept-Ranges", "bytes")

	// http.ServeContent автоматически обрабатывает:
	//   - Range requests (206 Partial Content)
	//   - If-None-Match (304 Not Modified через ETag)
	//   - If-Modified-Since
	//   - Content-Length
	http.ServeContent(w, r, name, stat.ModTime(), file)

	middleware.OperationsTotal.WithLabelValues("download", "success").Inc()

	s.logger.Debug("Файл скачан",
		slog.String("record_id", recordID),
		slog.String("filename", name),
		slog.Int64("size", stat.Size()),
	)

	return nil
}
