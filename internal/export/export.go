// Пакет export — выгрузка обработанных записей: ZIP-архив
// или план последовательных скачиваний.
package export

import (
	"archive/zip"
	"compress/flate"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/bigkaa/renamebox/rename-service/internal/api/middleware"
	"github.com/bigkaa/renamebox/rename-service/internal/domain/model"
	"github.com/bigkaa/renamebox/rename-service/internal/notify"
	"github.com/bigkaa/renamebox/rename-service/internal/storage/filestore"
	"github.com/bigkaa/renamebox/rename-service/internal/store"
)

// compressionLevel — уровень DEFLATE для записей архива.
const compressionLevel = 6

// planDelayMS — рекомендуемая клиенту пауза между скачиваниями
// в режиме individual, миллисекунды.
const planDelayMS = 100

// DownloadItem — один элемент плана скачивания.
type DownloadItem struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	URL     string `json:"url"`
	DelayMS int    `json:"delay_ms"`
}

// Service формирует выгрузки.
type Service struct {
	store  *store.Store
	files  *filestore.FileStore
	feed   *notify.Feed
	logger *slog.Logger

	batchSize  int
	batchPause time.Duration
}

// NewService создаёт сервис выгрузки. Архив пишется партиями
// по batchSize записей с паузой batchPause между партиями.
func NewService(st *store.Store, files *filestore.FileStore, feed *notify.Feed, batchSize int, batchPause time.Duration, logger *slog.Logger) *Service {
	return &Service{
		store:      st,
		files:      files,
		feed:       feed,
		logger:     logger.With(slog.String("component", "export")),
		batchSize:  batchSize,
		batchPause: batchPause,
	}
}

// Eligible возвращает записи из ids, пригодные для выгрузки:
// только в статусе completed, в порядке их добавления в хранилище.
func (s *Service) Eligible(ids []string) []*model.FileRecord {
	wanted := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}

	all, _ := s.store.List(0, "")
	var out []*model.FileRecord
	for _, rec := range all {
		if _, ok := wanted[rec.ID]; !ok {
			continue
		}
		if rec.Status != model.StatusCompleted {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// WriteArchive пишет ZIP-архив по записям в w. Имя каждой записи
// архива — текущее имя файла; совпадающие имена получают числовой
// суффикс. Содержимое — конвертированный файл, если он есть,
// иначе исходный.
func (s *Service) WriteArchive(w io.Writer, records []*model.FileRecord) error {
	zw := zip.NewWriter(w)
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, compressionLevel)
	})

	used := make(map[string]int)
	added := 0

	for i, rec := range records {
		// пауза между партиями, чтобы не монополизировать диск
		if i > 0 && i%s.batchSize == 0 && s.batchPause > 0 {
			time.Sleep(s.batchPause)
		}

		content, err := s.files.ReadAll(rec.PayloadPath())
		if err != nil {
			s.logger.Error("Файл пропущен при архивации",
				slog.String("record_id", rec.ID),
				slog.String("name", rec.DisplayName()),
				slog.String("error", err.Error()),
			)
			s.feed.Error("Файл пропущен при архивации: " + rec.DisplayName())
			continue
		}

		name := dedupeName(rec.DisplayName(), used)
		entry, err := zw.CreateHeader(&zip.FileHeader{
			Name:     name,
			Method:   zip.Deflate,
			Modified: rec.UploadedAt,
		})
		if err != nil {
			zw.Close()
			middleware.ExportsTotal.WithLabelValues("archive", "error").Inc()
			return fmt.Errorf("не удалось создать запись архива %s: %w", name, err)
		}
		if _, err := entry.Write(content); err != nil {
			zw.Close()
			middleware.ExportsTotal.WithLabelValues("archive", "error").Inc()
			return fmt.Errorf("не удалось записать %s в архив: %w", name, err)
		}
		added++
	}

	if err := zw.Close(); err != nil {
		middleware.ExportsTotal.WithLabelValues("archive", "error").Inc()
		return fmt.Errorf("не удалось закрыть архив: %w", err)
	}

	middleware.ExportsTotal.WithLabelValues("archive", "success").Inc()
	s.feed.Success(fmt.Sprintf("Архив сформирован: %d файлов", added))
	s.logger.Info("Архив сформирован", slog.Int("count", added))
	return nil
}

// Plan возвращает план последовательного скачивания записей.
func (s *Service) Plan(records []*model.FileRecord) []DownloadItem {
	items := make([]DownloadItem, 0, len(records))
	for _, rec := range records {
		items = append(items, DownloadItem{
			ID:      rec.ID,
			Name:    rec.DisplayName(),
			URL:     "/api/v1/records/" + rec.ID + "/download",
			DelayMS: planDelayMS,
		})
	}

	middleware.ExportsTotal.WithLabelValues("individual", "success").Inc()
	s.feed.Success(fmt.Sprintf("План скачивания сформирован: %d файлов", len(items)))
	return items
}

// NotifyEmpty фиксирует попытку выгрузки без пригодных записей.
func (s *Service) NotifyEmpty(mode string) {
	middleware.ExportsTotal.WithLabelValues(mode, "empty").Inc()
	s.feed.Info("Нет завершённых файлов для выгрузки")
	s.logger.Info("Выгрузка без пригодных записей", slog.String("mode", mode))
}

// dedupeName возвращает имя, уникальное среди уже использованных:
// повторы получают числовой суффикс перед расширением.
func dedupeName(name string, used map[string]int) string {
	if _, ok := used[name]; !ok {
		used[name] = 1
		return name
	}

	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	for {
		used[name]++
		candidate := fmt.Sprintf("%s_%d%s", base, used[name]-1, ext)
		if _, ok := used[candidate]; !ok {
			used[candidate] = 1
			return candidate
		}
	}
}
