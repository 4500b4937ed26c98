package naming

import (
	"testing"
	"time"

	"github.com/bigkaa/renamebox/rename-service/internal/domain/model"
)

var patternNow = time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

// TestExpand проверяет подстановку токенов в шаблон.
func TestExpand(t *testing.T) {
	rec := &model.FileRecord{
		OriginalName: "report_final.pdf",
		ContentType:  "application/pdf",
	}

	tests := []struct {
		name     string
		template string
		counter  int
		want     string
	}{
		{"все токены", "{type}_{date}_{counter}", 7, "application_2026-08-30_007"},
		{"токен original", "{original}_copy", 0, "report_final_copy"},
		{"повторное вхождение", "{date}_{date}", 0, "2026-08-30_2026-08-30"},
		{"без токенов", "static_name", 0, "static_name"},
		{"неизвестный токен сохраняется", "{unknown}_{date}", 0, "{unknown}_2026-08-30"},
		{"пустой шаблон — шаблон по умолчанию", "", 42, "application_2026-08-30_042"},
	}

	for _, tt := range tests {
		if got := Expand(tt.template, rec, patternNow, tt.counter); got != tt.want {
			t.Errorf("%s: Expand(%q) = %q, хотели %q", tt.name, tt.template, got, tt.want)
		}
	}
}

// TestTypeToken проверяет извлечение основной части content-type.
func TestTypeToken(t *testing.T) {
	tests := []struct {
		contentType string
		want        string
	}{
		{"image/png", "image"},
		{"image/jpeg", "image"},
		{"application/pdf", "application"},
		{"application/vnd.openxmlformats-officedocument.wordprocessingml.document", "application"},
		{"text/plain", "text"},
		{"video/mp4", "video"},
		{"", "file"},
	}

	for _, tt := range tests {
		if got := TypeToken(tt.contentType); got != tt.want {
			t.Errorf("TypeToken(%q): хотели %q, получили %q", tt.contentType, tt.want, got)
		}
	}
}

// TestExpandMimePrimary проверяет, что {type} — это основная часть
// mime-типа, а не категория: итоговое имя содержит "application".
func TestExpandMimePrimary(t *testing.T) {
	rec := &model.FileRecord{
		OriginalName: "report.pdf",
		ContentType:  "application/pdf",
	}

	got := WithExt(Expand("{date}_{type}_{original}", rec, patternNow, 0), rec)
	if got != "2026-08-30_application_report.pdf" {
		t.Errorf("хотели 2026-08-30_application_report.pdf, получили %s", got)
	}
}

// TestWithExt проверяет добавление расширения исходного файла.
func TestWithExt(t *testing.T) {
	rec := &model.FileRecord{OriginalName: "photo.PNG"}
	if got := WithExt("new_name", rec); got != "new_name.PNG" {
		t.Errorf("WithExt: хотели new_name.PNG, получили %s", got)
	}

	noExt := &model.FileRecord{OriginalName: "README"}
	if got := WithExt("renamed", noExt); got != "renamed" {
		t.Errorf("WithExt без расширения: хотели renamed, получили %s", got)
	}
}
