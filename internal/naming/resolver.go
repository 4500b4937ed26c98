// resolver.go — вычисление итогового имени для записи.
package naming

import (
	"context"
	"log/slog"
	"time"

	"github.com/bigkaa/renamebox/rename-service/internal/api/middleware"
	"github.com/bigkaa/renamebox/rename-service/internal/domain/model"
	"github.com/bigkaa/renamebox/rename-service/internal/notify"
)

// Analyzer — источник предложенных имён на основе содержимого файла.
// Реализации: эвристический анализатор и удалённый HTTP-анализатор.
type Analyzer interface {
	// Supports сообщает, умеет ли анализатор работать с content-type
	Supports(contentType string) bool
	// Analyze возвращает предложенное имя БЕЗ расширения
	Analyze(ctx context.Context, content []byte, contentType string) (string, error)
}

// ContentReader — доступ к содержимому файла по пути хранения.
type ContentReader interface {
	ReadAll(storagePath string) ([]byte, error)
}

// CounterSource — источник порядковых номеров для токена {counter}.
type CounterSource interface {
	NextCounter() int
}

// Resolver вычисляет имя записи согласно активной конфигурации.
// Resolve никогда не возвращает ошибку: любой сбой анализатора
// приводит к откату на шаблон по умолчанию.
type Resolver struct {
	manager  *Manager
	analyzer Analyzer
	files    ContentReader
	timeout  time.Duration
	feed     *notify.Feed
	logger   *slog.Logger

	// now подменяется в тестах
	now func() time.Time
}

// NewResolver создаёт Resolver. analyzer может быть nil —
// тогда режим content_analysis всегда откатывается к шаблону.
func NewResolver(manager *Manager, analyzer Analyzer, files ContentReader, timeout time.Duration, feed *notify.Feed, logger *slog.Logger) *Resolver {
	return &Resolver{
		manager:  manager,
		analyzer: analyzer,
		files:    files,
		timeout:  timeout,
		feed:     feed,
		logger:   logger.With(slog.String("component", "naming")),
		now:      time.Now,
	}
}

// Resolve возвращает итоговое имя записи (с расширением исходного
// файла) и признак того, что имя предложено анализатором.
func (r *Resolver) Resolve(ctx context.Context, rec *model.FileRecord, counters CounterSource) (string, bool) {
	cfg := r.manager.Current()

	if cfg.Mode == ModeContentAnalysis {
		if name, ok := r.tryAnalyze(ctx, rec); ok {
			return WithExt(name, rec), true
		}
		// откат: шаблон по умолчанию
		middleware.NamingFallbackTotal.Inc()
		r.feed.Error("Анализ содержимого не удался, применён шаблон по умолчанию: " + rec.OriginalName)
		return WithExt(Expand(DefaultTemplate, rec, r.now(), counters.NextCounter()), rec), false
	}

	return WithExt(Expand(cfg.Pattern, rec, r.now(), counters.NextCounter()), rec), false
}

// tryAnalyze запрашивает имя у анализатора с таймаутом.
func (r *Resolver) tryAnalyze(ctx context.Context, rec *model.FileRecord) (string, bool) {
	if r.analyzer == nil || !r.analyzer.Supports(rec.ContentType) {
		return "", false
	}

	content, err := r.files.ReadAll(rec.SourcePath)
	if err != nil {
		r.logger.Error("Не удалось прочитать файл для анализа",
			slog.String("record_id", rec.ID),
			slog.String("error", err.Error()),
		)
		return "", false
	}

	actx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	name, err := r.analyzer.Analyze(actx, content, rec.ContentType)
	if err != nil {
		r.logger.Warn("Анализатор не вернул имя, откат к шаблону",
			slog.String("record_id", rec.ID),
			slog.String("original_name", rec.OriginalName),
			slog.String("error", err.Error()),
		)
		return "", false
	}
	if name == "" {
		return "", false
	}
	return name, true
}
