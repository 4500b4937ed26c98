// Пакет analyzer — анализаторы содержимого, предлагающие имена файлов.
//
// heuristic.go — эвристический анализатор: извлекает текст документа,
// определяет категорию, тип и ключевые слова и собирает из них имя.
// Результаты кэшируются по контрольной сумме содержимого.
package analyzer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/bigkaa/renamebox/rename-service/internal/doctext"
)

const docxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// Heuristic — эвристический анализатор содержимого.
type Heuristic struct {
	cache  *expirable.LRU[string, string]
	logger *slog.Logger

	// now подменяется в тестах
	now func() time.Time
}

// NewHeuristic создаёт анализатор с LRU-кэшем результатов.
func NewHeuristic(cacheSize int, cacheTTL time.Duration, logger *slog.Logger) *Heuristic {
	return &Heuristic{
		cache:  expirable.NewLRU[string, string](cacheSize, nil, cacheTTL),
		logger: logger.With(slog.String("component", "analyzer")),
		now:    time.Now,
	}
}

// Supports сообщает, умеет ли анализатор работать с content-type.
func (h *Heuristic) Supports(contentType string) bool {
	switch {
	case contentType == "application/pdf":
		return true
	case contentType == docxContentType:
		return true
	case strings.HasPrefix(contentType, "text/"):
		return true
	default:
		return false
	}
}

// Analyze возвращает предложенное имя без расширения.
func (h *Heuristic) Analyze(ctx context.Context, content []byte, contentType string) (string, error) {
	sum := sha256.Sum256(content)
	key := hex.EncodeToString(sum[:])

	if name, ok := h.cache.Get(key); ok {
		h.logger.Debug("Имя найдено в кэше анализатора", slog.String("checksum", key))
		return name, nil
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	text, err := h.extractText(content, contentType)
	if err != nil {
		return "", err
	}

	name := BuildName(text, h.now())
	h.cache.Add(key, name)

	h.logger.Debug("Анализ содержимого завершён",
		slog.String("checksum", key),
		slog.String("suggested_name", name),
	)
	return name, nil
}

// extractText извлекает текст документа в зависимости от content-type.
func (h *Heuristic) extractText(content []byte, contentType string) (string, error) {
	switch {
	case contentType == "application/pdf":
		return doctext.ExtractPDF(content)
	case contentType == docxContentType:
		return doctext.ExtractDOCX(content)
	case strings.HasPrefix(contentType, "text/"):
		return string(content), nil
	default:
		return "", fmt.Errorf("анализ содержимого %s не поддерживается", contentType)
	}
}

// BuildName собирает имя из результатов разбора текста:
// категория, тип документа, до двух ключевых слов, доминирующая
// тема и дата.
func BuildName(text string, now time.Time) string {
	parts := []string{
		determineCategory(text),
		determineDocumentType(text),
	}

	keywords := extractKeywords(text, 2)
	parts = append(parts, keywords...)

	if topic := dominantTopic(text); topic != "" {
		parts = append(parts, topic)
	}

	parts = append(parts, now.Format("2006-01-02"))
	return strings.Join(parts, "_")
}
