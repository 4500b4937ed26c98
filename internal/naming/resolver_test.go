package naming

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/bigkaa/renamebox/rename-service/internal/domain/model"
	"github.com/bigkaa/renamebox/rename-service/internal/notify"
)

// fakeAnalyzer — управляемый анализатор для тестов.
type fakeAnalyzer struct {
	name    string
	err     error
	delay   time.Duration
	support bool
	calls   int
}

func (f *fakeAnalyzer) Supports(contentType string) bool {
	return f.support
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, content []byte, contentType string) (string, error) {
	f.calls++
	if f.delay > 0 {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(f.delay):
		}
	}
	return f.name, f.err
}

// fakeReader — содержимое файлов в памяти.
type fakeReader struct {
	content []byte
	err     error
}

func (f *fakeReader) ReadAll(storagePath string) ([]byte, error) {
	return f.content, f.err
}

// fakeCounter — детерминированный источник счётчика.
type fakeCounter struct{ next int }

func (f *fakeCounter) NextCounter() int {
	v := f.next
	f.next++
	return v
}

func newTestResolver(m *Manager, a Analyzer, files ContentReader, timeout time.Duration) (*Resolver, *notify.Feed) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	feed := notify.NewFeed(0, logger)
	r := NewResolver(m, a, files, timeout, feed, logger)
	r.now = func() time.Time { return patternNow }
	return r, feed
}

func pdfRecord() *model.FileRecord {
	return &model.FileRecord{
		ID:           "rec-1",
		OriginalName: "scan.pdf",
		ContentType:  "application/pdf",
		SourcePath:   "scan_123.pdf",
	}
}

// TestResolveTokenPattern проверяет шаблонный режим.
func TestResolveTokenPattern(t *testing.T) {
	m := NewManager(Settings{Mode: ModeTokenPattern, Pattern: "{original}_{counter}"})
	r, _ := newTestResolver(m, nil, &fakeReader{}, time.Second)

	name, viaAnalyzer := r.Resolve(context.Background(), pdfRecord(), &fakeCounter{next: 3})
	if name != "scan_003.pdf" {
		t.Errorf("имя: хотели scan_003.pdf, получили %s", name)
	}
	if viaAnalyzer {
		t.Error("шаблонный режим не должен помечаться как via_analyzer")
	}
}

// TestResolveContentAnalysis проверяет успешный путь анализатора:
// расширение исходного файла добавляется к предложенному имени.
func TestResolveContentAnalysis(t *testing.T) {
	m := NewManager(Settings{Mode: ModeContentAnalysis})
	fa := &fakeAnalyzer{name: "legal_contract_2026-08-30", support: true}
	r, _ := newTestResolver(m, fa, &fakeReader{content: []byte("text")}, time.Second)

	name, viaAnalyzer := r.Resolve(context.Background(), pdfRecord(), &fakeCounter{})
	if name != "legal_contract_2026-08-30.pdf" {
		t.Errorf("имя: хотели legal_contract_2026-08-30.pdf, получили %s", name)
	}
	if !viaAnalyzer {
		t.Error("ожидался признак via_analyzer")
	}
}

// TestResolveAnalyzerFailureFallsBack проверяет откат к шаблону
// по умолчанию при ошибке анализатора.
func TestResolveAnalyzerFailureFallsBack(t *testing.T) {
	m := NewManager(Settings{Mode: ModeContentAnalysis})
	fa := &fakeAnalyzer{err: errors.New("разбор не удался"), support: true}
	r, feed := newTestResolver(m, fa, &fakeReader{content: []byte("text")}, time.Second)

	name, viaAnalyzer := r.Resolve(context.Background(), pdfRecord(), &fakeCounter{})
	if viaAnalyzer {
		t.Error("откат не должен помечаться как via_analyzer")
	}
	if name != "application_2026-08-30_000.pdf" {
		t.Errorf("имя отката: хотели application_2026-08-30_000.pdf, получили %s", name)
	}
	if feed.Len() == 0 {
		t.Error("откат должен породить уведомление")
	}
}

// TestResolveAnalyzerTimeout проверяет откат по таймауту анализатора.
func TestResolveAnalyzerTimeout(t *testing.T) {
	m := NewManager(Settings{Mode: ModeContentAnalysis})
	fa := &fakeAnalyzer{name: "slow", delay: time.Second, support: true}
	r, _ := newTestResolver(m, fa, &fakeReader{content: []byte("text")}, 10*time.Millisecond)

	name, viaAnalyzer := r.Resolve(context.Background(), pdfRecord(), &fakeCounter{})
	if viaAnalyzer {
		t.Error("таймаут должен приводить к откату")
	}
	if !strings.HasSuffix(name, ".pdf") {
		t.Errorf("откат должен сохранить расширение: %s", name)
	}
}

// TestResolveUnsupportedType проверяет откат для неподдерживаемого
// content-type без обращения к анализатору.
func TestResolveUnsupportedType(t *testing.T) {
	m := NewManager(Settings{Mode: ModeContentAnalysis})
	fa := &fakeAnalyzer{name: "never", support: false}
	r, _ := newTestResolver(m, fa, &fakeReader{content: []byte("x")}, time.Second)

	_, viaAnalyzer := r.Resolve(context.Background(), pdfRecord(), &fakeCounter{})
	if viaAnalyzer {
		t.Error("неподдерживаемый тип должен идти по шаблону")
	}
	if fa.calls != 0 {
		t.Errorf("анализатор не должен вызываться: %d вызовов", fa.calls)
	}
}

// TestResolveReadFailureFallsBack проверяет откат при недоступном файле.
func TestResolveReadFailureFallsBack(t *testing.T) {
	m := NewManager(Settings{Mode: ModeContentAnalysis})
	fa := &fakeAnalyzer{name: "never", support: true}
	r, _ := newTestResolver(m, fa, &fakeReader{err: errors.New("файл недоступен")}, time.Second)

	name, viaAnalyzer := r.Resolve(context.Background(), pdfRecord(), &fakeCounter{})
	if viaAnalyzer {
		t.Error("ошибка чтения должна приводить к откату")
	}
	if name == "" {
		t.Error("Resolve никогда не возвращает пустое имя")
	}
}

// TestResolveNilAnalyzer проверяет работу без анализатора.
func TestResolveNilAnalyzer(t *testing.T) {
	m := NewManager(Settings{Mode: ModeContentAnalysis})
	r, _ := newTestResolver(m, nil, &fakeReader{}, time.Second)

	name, viaAnalyzer := r.Resolve(context.Background(), pdfRecord(), &fakeCounter{})
	if viaAnalyzer || name == "" {
		t.Errorf("nil-анализатор: ожидался откат к шаблону, получили %q", name)
	}
}
