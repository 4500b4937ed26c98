// Пакет convert — конвертация файлов между форматами:
// pdf ↔ docx и изображения jpeg/png/webp между собой.
package convert

import (
	"fmt"
	"log/slog"
	"strings"

	apierrors "github.com/bigkaa/renamebox/rename-service/internal/api/errors"
	"github.com/bigkaa/renamebox/rename-service/internal/api/middleware"
	"github.com/bigkaa/renamebox/rename-service/internal/domain/lifecycle"
	"github.com/bigkaa/renamebox/rename-service/internal/domain/model"
	"github.com/bigkaa/renamebox/rename-service/internal/notify"
	"github.com/bigkaa/renamebox/rename-service/internal/storage/filestore"
	"github.com/bigkaa/renamebox/rename-service/internal/store"
)

// DefaultQuality — качество кодирования изображений по умолчанию.
const DefaultQuality = 0.8

// contentTypes — content-type результата по целевому формату.
var contentTypes = map[string]string{
	"pdf":  "application/pdf",
	"docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"webp": "image/webp",
}

// supportedPairs — допустимые целевые форматы по content-type источника.
var supportedPairs = map[string][]string{
	"application/pdf": {"docx"},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": {"pdf"},
	"image/jpeg": {"png", "webp"},
	"image/png":  {"jpeg", "webp"},
	"image/webp": {"jpeg", "png"},
}

// SupportedTargets возвращает список целевых форматов для content-type.
// Для неподдерживаемых типов — пустой список.
func SupportedTargets(contentType string) []string {
	targets := supportedPairs[contentType]
	out := make([]string, len(targets))
	copy(out, targets)
	return out
}

// IsSupported сообщает, допустима ли пара источник → цель.
func IsSupported(contentType, target string) bool {
	for _, t := range supportedPairs[contentType] {
		if t == target {
			return true
		}
	}
	return false
}

// ConvertError — ошибка конвертации с кодом для HTTP-ответа.
type ConvertError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *ConvertError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Service выполняет конвертацию записей.
type Service struct {
	store  *store.Store
	files  *filestore.FileStore
	feed   *notify.Feed
	logger *slog.Logger
}

// NewService создаёт сервис конвертации.
func NewService(st *store.Store, files *filestore.FileStore, feed *notify.Feed, logger *slog.Logger) *Service {
	return &Service{
		store:  st,
		files:  files,
		feed:   feed,
		logger: logger.With(slog.String("component", "convert")),
	}
}

// Convert конвертирует запись в целевой формат. Недопустимая пара
// и неготовая запись отклоняются до каких-либо изменений записи.
// При сбое самой конвертации запись переходит в статус error,
// предыдущий конвертированный артефакт сохраняется.
func (s *Service) Convert(id, target string, quality float64) (*model.FileRecord, error) {
	rec := s.store.Get(id)
	if rec == nil {
		return nil, &ConvertError{StatusCode: 404, Code: apierrors.CodeNotFound, Message: "запись не найдена"}
	}
	if rec.Status != model.StatusCompleted {
		return nil, &ConvertError{StatusCode: 409, Code: apierrors.CodeRecordNotReady,
			Message: fmt.Sprintf("запись в статусе %s не может быть конвертирована", rec.Status)}
	}
	if !IsSupported(rec.ContentType, target) {
		middleware.ConversionsTotal.WithLabelValues(rec.ContentType, target, "rejected").Inc()
		return nil, &ConvertError{StatusCode: 422, Code: apierrors.CodeUnsupportedConversion,
			Message: fmt.Sprintf("конвертация %s в %s не поддерживается", rec.ContentType, target)}
	}
	if quality < 0 || quality > 1 {
		return nil, &ConvertError{StatusCode: 400, Code: apierrors.CodeValidationError,
			Message: "quality должно быть в диапазоне [0, 1]"}
	}

	if err := lifecycle.Validate(rec.Status, model.StatusProcessing); err != nil {
		return nil, &ConvertError{StatusCode: 409, Code: apierrors.CodeRecordNotReady, Message: err.Error()}
	}
	s.store.Update(id, func(rec *model.FileRecord) {
		rec.Status = model.StatusProcessing
	})

	result, err := s.run(rec, target, quality)
	if err != nil {
		s.store.Update(id, func(rec *model.FileRecord) {
			rec.Status = model.StatusError
			rec.ErrorMessage = err.Error()
		})
		middleware.ConversionsTotal.WithLabelValues(rec.ContentType, target, "error").Inc()
		s.feed.Error("Ошибка конвертации: " + rec.DisplayName())
		s.logger.Error("Конвертация не выполнена",
			slog.String("record_id", id),
			slog.String("target", target),
			slog.String("error", err.Error()),
		)
		return nil, &ConvertError{StatusCode: 500, Code: apierrors.CodeInternalError, Message: err.Error()}
	}

	oldConverted := rec.ConvertedPath
	newName := reExtension(rec.DisplayName(), target)

	s.store.Update(id, func(rec *model.FileRecord) {
		rec.ConvertedPath = result.StoragePath
		rec.ConvertedType = contentTypes[target]
		rec.ConvertedChecksum = result.Checksum
		rec.CurrentName = newName
		rec.Status = model.StatusCompleted
		rec.ErrorMessage = ""
	})

	// прежний артефакт больше не нужен
	if oldConverted != "" && oldConverted != result.StoragePath {
		if err := s.files.DeleteFile(oldConverted); err != nil {
			s.logger.Error("Не удалось удалить прежний конвертированный файл",
				slog.String("record_id", id),
				slog.String("error", err.Error()),
			)
		}
	}

	middleware.ConversionsTotal.WithLabelValues(rec.ContentType, target, "success").Inc()
	s.feed.Success("Файл конвертирован: " + newName)
	s.logger.Info("Конвертация выполнена",
		slog.String("record_id", id),
		slog.String("source_type", rec.ContentType),
		slog.String("target", target),
		slog.String("new_name", newName),
	)

	return s.store.Get(id), nil
}

// run выполняет конвертацию содержимого и сохраняет результат на диск.
func (s *Service) run(rec *model.FileRecord, target string, quality float64) (*filestore.SaveResult, error) {
	content, err := s.files.ReadAll(rec.SourcePath)
	if err != nil {
		return nil, fmt.Errorf("не удалось прочитать исходный файл: %w", err)
	}

	var converted []byte
	switch {
	case strings.HasPrefix(rec.ContentType, "image/"):
		converted, err = convertImage(content, rec.ContentType, target, quality)
	case rec.ContentType == "application/pdf":
		converted, err = pdfToDOCX(content)
	default:
		converted, err = docxToPDF(content)
	}
	if err != nil {
		return nil, err
	}

	return s.files.SaveBytes(converted, reExtension(rec.DisplayName(), target))
}

// reExtension заменяет расширение имени на целевой формат.
func reExtension(name, target string) string {
	ext := "." + target
	if target == "jpeg" {
		ext = ".jpg"
	}
	if i := strings.LastIndex(name, "."); i > 0 {
		return name[:i] + ext
	}
	return name + ext
}
