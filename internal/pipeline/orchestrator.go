// Пакет pipeline — оркестратор жизненного цикла записей: приём файлов,
// имитация фазы загрузки, вычисление имён и повторное применение
// конфигурации именования.
//
// Записи каждой партии обрабатываются строго последовательно в одной
// горутине. Сбой одной записи не прерывает обработку остальных —
// партия всегда доходит до терминального состояния.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bigkaa/renamebox/rename-service/internal/api/middleware"
	"github.com/bigkaa/renamebox/rename-service/internal/domain/lifecycle"
	"github.com/bigkaa/renamebox/rename-service/internal/domain/model"
	"github.com/bigkaa/renamebox/rename-service/internal/naming"
	"github.com/bigkaa/renamebox/rename-service/internal/notify"
	"github.com/bigkaa/renamebox/rename-service/internal/storage/filestore"
	"github.com/bigkaa/renamebox/rename-service/internal/store"
)

// Upload — один файл из принятой партии.
type Upload struct {
	Reader      io.Reader
	Filename    string
	ContentType string
}

// Orchestrator управляет обработкой записей.
type Orchestrator struct {
	store    *store.Store
	files    *filestore.FileStore
	resolver *naming.Resolver
	feed     *notify.Feed
	logger   *slog.Logger

	// параметры имитации фазы загрузки
	tick time.Duration
	step int

	// cancels — функции отмены обработки по id записи.
	// Отменённая задача не изменяет хранилище.
	mu      sync.Mutex
	cancels map[string]context.CancelFunc
}

// New создаёт оркестратор.
func New(st *store.Store, files *filestore.FileStore, resolver *naming.Resolver, feed *notify.Feed, tick time.Duration, step int, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		store:    st,
		files:    files,
		resolver: resolver,
		feed:     feed,
		logger:   logger.With(slog.String("component", "pipeline")),
		tick:     tick,
		step:     step,
		cancels:  make(map[string]context.CancelFunc),
	}
}

// Intake сохраняет файлы партии на диск, создаёт записи в статусе
// uploading и запускает их последовательную обработку в фоне.
// Возвращает созданные записи и канал, закрываемый после того,
// как вся партия достигнет терминального состояния.
func (o *Orchestrator) Intake(uploads []Upload) ([]*model.FileRecord, <-chan struct{}, error) {
	records := make([]*model.FileRecord, 0, len(uploads))

	for _, up := range uploads {
		saved, err := o.files.SaveFile(up.Reader, up.Filename)
		if err != nil {
			return nil, nil, fmt.Errorf("не удалось сохранить файл %s: %w", up.Filename, err)
		}

		rec := &model.FileRecord{
			ID:           uuid.New().String(),
			OriginalName: up.Filename,
			Status:       model.StatusUploading,
			Progress:     0,
			ContentType:  up.ContentType,
			Size:         saved.Size,
			SourcePath:   saved.StoragePath,
			Checksum:     saved.Checksum,
			UploadedAt:   time.Now(),
		}
		records = append(records, rec)
	}

	o.store.Add(records...)

	ids := make([]string, 0, len(records))
	for _, rec := range records {
		ids = append(ids, rec.ID)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for _, id := range ids {
			o.processRecord(id)
		}
	}()

	o.logger.Info("Партия принята в обработку", slog.Int("count", len(records)))

	out := make([]*model.FileRecord, 0, len(records))
	for _, rec := range records {
		out = append(out, rec.Clone())
	}
	return out, done, nil
}

// processRecord ведёт одну запись через фазы загрузки и обработки.
// Отмена контекста (удаление записи) останавливает работу без
// дальнейших изменений хранилища.
func (o *Orchestrator) processRecord(id string) {
	ctx, cancel := context.WithCancel(context.Background())
	o.mu.Lock()
	o.cancels[id] = cancel
	o.mu.Unlock()

	defer func() {
		cancel()
		o.mu.Lock()
		delete(o.cancels, id)
		o.mu.Unlock()
	}()

	// фаза загрузки: прогресс растёт фиксированными шагами по тикам
	ticker := time.NewTicker(o.tick)
	defer ticker.Stop()

	progress := 0
	for progress < 100 {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			progress += o.step
			if progress > 100 {
				progress = 100
			}
			p := progress
			o.store.Update(id, func(rec *model.FileRecord) {
				rec.Progress = p
			})
		}
	}

	if ctx.Err() != nil {
		return
	}
	o.store.Update(id, func(rec *model.FileRecord) {
		rec.Status = model.StatusProcessing
	})

	// фаза обработки: вычисление имени
	rec := o.store.Get(id)
	if rec == nil {
		return
	}

	if !o.files.FileExists(rec.SourcePath) {
		o.failRecord(id, "исходный файл недоступен")
		return
	}

	name, viaAnalyzer := o.resolver.Resolve(ctx, rec, o.store)
	if ctx.Err() != nil {
		return
	}

	o.store.Update(id, func(rec *model.FileRecord) {
		rec.CurrentName = name
		rec.ViaAnalyzer = viaAnalyzer
		rec.Status = model.StatusCompleted
		rec.Progress = 100
	})
	middleware.OperationsTotal.WithLabelValues("upload", "success").Inc()

	o.logger.Info("Запись обработана",
		slog.String("record_id", id),
		slog.String("original_name", rec.OriginalName),
		slog.String("current_name", name),
		slog.Bool("via_analyzer", viaAnalyzer),
	)
}

// failRecord переводит запись в статус error с сообщением.
func (o *Orchestrator) failRecord(id, message string) {
	o.store.Update(id, func(rec *model.FileRecord) {
		rec.Status = model.StatusError
		rec.ErrorMessage = message
	})
	middleware.OperationsTotal.WithLabelValues("upload", "error").Inc()
	o.feed.Error("Ошибка обработки файла: " + message)
	o.logger.Error("Запись завершилась ошибкой",
		slog.String("record_id", id),
		slog.String("error", message),
	)
}

// Remove отменяет обработку записи, удаляет её из хранилища
// и стирает файлы с диска. Отсутствующая запись — no-op.
func (o *Orchestrator) Remove(id string) bool {
	o.mu.Lock()
	if cancel, ok := o.cancels[id]; ok {
		cancel()
	}
	o.mu.Unlock()

	rec := o.store.Remove(id)
	if rec == nil {
		return false
	}

	if err := o.files.DeleteFile(rec.SourcePath); err != nil {
		o.logger.Error("Не удалось удалить исходный файл",
			slog.String("record_id", id),
			slog.String("error", err.Error()),
		)
	}
	if rec.ConvertedPath != "" {
		if err := o.files.DeleteFile(rec.ConvertedPath); err != nil {
			o.logger.Error("Не удалось удалить конвертированный файл",
				slog.String("record_id", id),
				slog.String("error", err.Error()),
			)
		}
	}

	middleware.OperationsTotal.WithLabelValues("remove", "success").Inc()
	o.logger.Info("Запись удалена",
		slog.String("record_id", id),
		slog.String("original_name", rec.OriginalName),
	)
	return true
}

// ReapplyAll повторно вычисляет имена всех записей в терминальном
// состоянии согласно активной конфигурации именования. Выполняется
// последовательно в фоне; возвращает канал завершения и число
// записей, взятых в работу.
func (o *Orchestrator) ReapplyAll() (<-chan struct{}, int) {
	all, _ := o.store.List(0, "")

	var ids []string
	for _, rec := range all {
		if lifecycle.IsTerminalForRun(rec.Status) {
			ids = append(ids, rec.ID)
		}
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for _, id := range ids {
			o.reapplyRecord(id)
		}
		if len(ids) > 0 {
			o.feed.Success(fmt.Sprintf("Имена пересчитаны: %d", len(ids)))
		}
	}()

	return done, len(ids)
}

// reapplyRecord пересчитывает имя одной записи.
func (o *Orchestrator) reapplyRecord(id string) {
	ctx, cancel := context.WithCancel(context.Background())
	o.mu.Lock()
	o.cancels[id] = cancel
	o.mu.Unlock()

	defer func() {
		cancel()
		o.mu.Lock()
		delete(o.cancels, id)
		o.mu.Unlock()
	}()

	rec := o.store.Get(id)
	if rec == nil {
		return
	}
	if err := lifecycle.Validate(rec.Status, model.StatusProcessing); err != nil {
		o.logger.Debug("Запись пропущена при пересчёте имён",
			slog.String("record_id", id),
			slog.String("status", string(rec.Status)),
		)
		return
	}

	o.store.Update(id, func(rec *model.FileRecord) {
		rec.Status = model.StatusProcessing
	})

	name, viaAnalyzer := o.resolver.Resolve(ctx, rec, o.store)
	if ctx.Err() != nil {
		return
	}

	o.store.Update(id, func(rec *model.FileRecord) {
		rec.CurrentName = name
		rec.ViaAnalyzer = viaAnalyzer
		rec.Status = model.StatusCompleted
		rec.ErrorMessage = ""
	})
	middleware.OperationsTotal.WithLabelValues("reapply", "success").Inc()
}
