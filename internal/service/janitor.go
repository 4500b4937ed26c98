// janitor.go — сервис фоновой уборки каталога данных.
//
// Записи живут только в памяти, поэтому после перезапусков и удалений
// в каталоге данных накапливаются файлы, на которые не ссылается
// ни одна запись. Janitor периодически находит и удаляет их.
//
// Запускается как горутина с периодическим тикером (RB_JANITOR_INTERVAL).
package service

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/bigkaa/renamebox/rename-service/internal/storage/filestore"
	"github.com/bigkaa/renamebox/rename-service/internal/store"
)

// graceAge — минимальный возраст файла для удаления.
// Свежие файлы не трогаем: они могут принадлежать записи,
// которая ещё создаётся.
const graceAge = 10 * time.Minute

// Prometheus метрики janitor
var (
	// janitorRunsTotal — количество запусков уборки.
	janitorRunsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rb_janitor_runs_total",
		Help: "Общее количество запусков уборки каталога данных",
	})

	// janitorFilesDeletedTotal — количество удалённых файлов.
	janitorFilesDeletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rb_janitor_files_deleted_total",
		Help: "Общее количество файлов, удалённых уборкой",
	})

	// janitorDurationSeconds — длительность выполнения уборки.
	janitorDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "rb_janitor_duration_seconds",
		Help:    "Длительность выполнения уборки в секундах",
		Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60},
	})
)

// JanitorResult — результат одного запуска уборки.
type JanitorResult struct {
	// DeletedCount — количество удалённых файлов
	DeletedCount int
	// Errors — количество ошибок при удалении
	Errors int
	// Duration — длительность выполнения
	Duration time.Duration
}

// Janitor — сервис уборки каталога данных.
type Janitor struct {
	store    *store.Store
	files    *filestore.FileStore
	interval time.Duration
	logger   *slog.Logger

	mu     sync.Mutex // защита от параллельного запуска RunOnce
	cancel context.CancelFunc

	// maxAge подменяется в тестах
	maxAge time.Duration
}

// NewJanitor создаёт сервис уборки.
func NewJanitor(st *store.Store, files *filestore.FileStore, interval time.Duration, logger *slog.Logger) *Janitor {
	return &Janitor{
		store:    st,
		files:    files,
		interval: interval,
		logger:   logger.With(slog.String("component", "janitor")),
		maxAge:   graceAge,
	}
}

// Start запускает фоновую горутину уборки с периодическим тикером.
// Вызывается один раз при старте приложения.
func (j *Janitor) Start(ctx context.Context) {
	jctx, cancel := context.WithCancel(ctx)
	j.cancel = cancel

	go j.run(jctx)

	j.logger.Info("Janitor запущен",
		slog.String("interval", j.interval.String()),
	)
}

// Stop останавливает фоновый процесс уборки.
func (j *Janitor) Stop() {
	if j.cancel != nil {
		j.cancel()
	}
	j.logger.Info("Janitor остановлен")
}

// run — основной цикл фоновой горутины.
func (j *Janitor) run(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			j.RunOnce()
		}
	}
}

// RunOnce выполняет один цикл уборки: удаляет из каталога данных
// файлы старше graceAge, на которые не ссылается ни одна запись.
// Потокобезопасен: использует mutex для защиты от параллельного
// запуска.
func (j *Janitor) RunOnce() *JanitorResult {
	j.mu.Lock()
	defer j.mu.Unlock()

	start := time.Now()
	result := &JanitorResult{}

	names, err := j.files.ListStorageNames()
	if err != nil {
		j.logger.Error("Janitor: не удалось прочитать каталог данных",
			slog.String("error", err.Error()),
		)
		result.Errors++
		return result
	}

	referenced := j.referencedPaths()
	cutoff := time.Now().Add(-j.maxAge)

	for _, name := range names {
		if _, ok := referenced[name]; ok {
			continue
		}

		stat, err := os.Stat(j.files.FullPath(name))
		if err != nil {
			continue
		}
		if stat.ModTime().After(cutoff) {
			continue
		}

		if err := j.files.DeleteFile(name); err != nil {
			j.logger.Error("Janitor: ошибка удаления файла",
				slog.String("storage_path", name),
				slog.String("error", err.Error()),
			)
			result.Errors++
			continue
		}

		j.logger.Debug("Janitor: файл удалён", slog.String("storage_path", name))
		result.DeletedCount++
	}

	result.Duration = time.Since(start)

	janitorRunsTotal.Inc()
	janitorFilesDeletedTotal.Add(float64(result.DeletedCount))
	janitorDurationSeconds.Observe(result.Duration.Seconds())

	j.logger.Info("Уборка завершена",
		slog.Int("deleted", result.DeletedCount),
		slog.Int("errors", result.Errors),
		slog.Duration("duration", result.Duration),
	)

	return result
}

// referencedPaths собирает пути хранения всех живых записей.
func (j *Janitor) referencedPaths() map[string]struct{} {
	records, _ := j.store.List(0, "")

	out := make(map[string]struct{}, len(records)*2)
	for _, rec := range records {
		if rec.SourcePath != "" {
			out[rec.SourcePath] = struct{}{}
		}
		if rec.ConvertedPath != "" {
			out[rec.ConvertedPath] = struct{}{}
		}
	}
	return out
}
