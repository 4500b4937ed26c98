// pattern.go — подстановка токенов в шаблон имени.
package naming

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/bigkaa/renamebox/rename-service/internal/domain/model"
)

// DefaultTemplate — шаблон по умолчанию для режима token_pattern
// и для откатов анализатора.
const DefaultTemplate = "{type}_{date}_{counter}"

// Expand подставляет токены в шаблон и возвращает имя БЕЗ расширения.
// Поддерживаемые токены:
//
//	{date}     — текущая дата YYYY-MM-DD
//	{type}     — основная часть content-type (текст до "/")
//	{original} — исходное имя без расширения
//	{counter}  — трёхзначный порядковый номер
//
// Каждый токен заменяется во всех вхождениях. Нераспознанные
// конструкции в фигурных скобках остаются как есть.
func Expand(template string, rec *model.FileRecord, now time.Time, counter int) string {
	if template == "" {
		template = DefaultTemplate
	}

	r := strings.NewReplacer(
		"{date}", now.Format("2006-01-02"),
		"{type}", TypeToken(rec.ContentType),
		"{original}", rec.BaseName(),
		"{counter}", fmt.Sprintf("%03d", counter),
	)
	return r.Replace(template)
}

// TypeToken возвращает значение токена {type}: основную часть
// content-type до "/". Для пустого content-type — "file".
func TypeToken(contentType string) string {
	primary, _, _ := strings.Cut(contentType, "/")
	if primary == "" {
		return "file"
	}
	return primary
}

// WithExt добавляет к имени расширение исходного файла записи.
// Расширение добавляется всегда, независимо от стратегии именования.
func WithExt(name string, rec *model.FileRecord) string {
	return name + filepath.Ext(rec.OriginalName)
}
