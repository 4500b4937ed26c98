package analyzer

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"
)

var analyzerNow = time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

func newTestHeuristic() *Heuristic {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := NewHeuristic(16, time.Minute, logger)
	h.now = func() time.Time { return analyzerNow }
	return h
}

// TestSupports проверяет поддерживаемые content-type.
func TestSupports(t *testing.T) {
	h := newTestHeuristic()

	tests := []struct {
		contentType string
		want        bool
	}{
		{"application/pdf", true},
		{"application/vnd.openxmlformats-officedocument.wordprocessingml.document", true},
		{"text/plain", true},
		{"text/markdown", true},
		{"image/png", false},
		{"application/octet-stream", false},
	}

	for _, tt := range tests {
		if got := h.Supports(tt.contentType); got != tt.want {
			t.Errorf("Supports(%q): хотели %v, получили %v", tt.contentType, tt.want, got)
		}
	}
}

// TestExtractKeywords проверяет частотный отбор ключевых слов.
func TestExtractKeywords(t *testing.T) {
	text := "contract contract contract payment payment schedule the and with"
	got := extractKeywords(text, 2)

	if len(got) != 2 {
		t.Fatalf("хотели 2 ключевых слова, получили %v", got)
	}
	if got[0] != "contract" || got[1] != "payment" {
		t.Errorf("порядок по частоте нарушен: %v", got)
	}
}

// TestExtractKeywordsFiltersStopwordsAndShort проверяет фильтрацию
// стоп-слов и коротких слов.
func TestExtractKeywordsFiltersStopwordsAndShort(t *testing.T) {
	got := extractKeywords("the and cat dog would there analysis", 10)

	for _, w := range got {
		if len(w) <= 3 {
			t.Errorf("короткое слово не должно попадать в ключевые: %q", w)
		}
		if _, stop := stopWords[w]; stop {
			t.Errorf("стоп-слово не должно попадать в ключевые: %q", w)
		}
	}
}

// TestDetermineCategory проверяет выбор категории по маркерам.
func TestDetermineCategory(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"contract agreement compliance with regulation", "legal"},
		{"patient clinical diagnosis treatment", "medical"},
		{"software algorithm data documentation", "technical"},
		{"nothing relevant here", "document"},
	}

	for _, tt := range tests {
		if got := determineCategory(tt.text); got != tt.want {
			t.Errorf("determineCategory(%q): хотели %s, получили %s", tt.text, tt.want, got)
		}
	}
}

// TestDetermineDocumentType проверяет выбор типа документа:
// побеждает первый тип с совпадением маркера.
func TestDetermineDocumentType(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"quarterly report with summary", "report"},
		{"invoice for services", "invoice"},
		{"curriculum vitae", "resume"},
		{"plain text", "document"},
		// report идёт раньше contract в порядке проверки
		{"analysis of the agreement", "report"},
	}

	for _, tt := range tests {
		if got := determineDocumentType(tt.text); got != tt.want {
			t.Errorf("determineDocumentType(%q): хотели %s, получили %s", tt.text, tt.want, got)
		}
	}
}

// TestDominantTopic проверяет выбор самой частотной пары слов.
func TestDominantTopic(t *testing.T) {
	text := "machine learning machine learning machine learning data science"
	if got := dominantTopic(text); got != "machine_learning" {
		t.Errorf("dominantTopic: хотели machine_learning, получили %s", got)
	}

	if got := dominantTopic("word"); got != "" {
		t.Errorf("короткий текст: хотели пустую тему, получили %q", got)
	}
}

// TestBuildName проверяет сборку имени из результатов разбора.
func TestBuildName(t *testing.T) {
	text := "contract agreement contract agreement payment terms compliance"
	name := BuildName(text, analyzerNow)

	if !strings.HasPrefix(name, "legal_") {
		t.Errorf("имя должно начинаться с категории legal: %s", name)
	}
	if !strings.HasSuffix(name, "_2026-08-30") {
		t.Errorf("имя должно заканчиваться датой: %s", name)
	}
}

// TestAnalyzeTextAndCache проверяет анализ text/* и кэширование
// результата по контрольной сумме.
func TestAnalyzeTextAndCache(t *testing.T) {
	h := newTestHeuristic()
	content := []byte("research study methodology experiment hypothesis analysis")

	first, err := h.Analyze(context.Background(), content, "text/plain")
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if first == "" {
		t.Fatal("имя не должно быть пустым")
	}

	// повторный вызов с тем же содержимым обслуживается из кэша
	second, err := h.Analyze(context.Background(), content, "text/plain")
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if second != first {
		t.Errorf("кэш должен вернуть то же имя: %q != %q", second, first)
	}
}

// TestAnalyzeUnsupported проверяет ошибку для неподдерживаемого типа.
func TestAnalyzeUnsupported(t *testing.T) {
	h := newTestHeuristic()
	if _, err := h.Analyze(context.Background(), []byte{1, 2, 3}, "image/png"); err == nil {
		t.Error("анализ image/png должен вернуть ошибку")
	}
}

// TestAnalyzeCancelledContext проверяет уважение отменённого контекста.
func TestAnalyzeCancelledContext(t *testing.T) {
	h := newTestHeuristic()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := h.Analyze(ctx, []byte("some text"), "text/plain"); err == nil {
		t.Error("отменённый контекст должен вернуть ошибку")
	}
}
