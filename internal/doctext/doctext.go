// Пакет doctext — извлечение текста из документов PDF и DOCX
// для анализатора содержимого.
package doctext

import (
	"bytes"
	"fmt"
	"strings"

	docx "github.com/fumiama/go-docx"
	"github.com/ledongthuc/pdf"
)

// maxPages — ограничение на число страниц PDF для анализа.
// Для предложения имени достаточно начала документа.
const maxPages = 5

// ExtractPDF извлекает текст из первых страниц PDF-документа.
func ExtractPDF(content []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("не удалось открыть PDF: %w", err)
	}

	var sb strings.Builder
	pages := r.NumPage()
	if pages > maxPages {
		pages = maxPages
	}
	for i := 1; i <= pages; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			// страница с повреждённым потоком пропускается
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}

	if sb.Len() == 0 {
		return "", fmt.Errorf("PDF не содержит извлекаемого текста")
	}
	return sb.String(), nil
}

// ExtractDOCX извлекает текст из документа DOCX.
func ExtractDOCX(content []byte) (string, error) {
	doc, err := docx.Parse(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("не удалось открыть DOCX: %w", err)
	}

	var sb strings.Builder
	for _, item := range doc.Document.Body.Items {
		if s, ok := item.(fmt.Stringer); ok {
			sb.WriteString(s.String())
			sb.WriteString("\n")
		}
	}

	if sb.Len() == 0 {
		return "", fmt.Errorf("DOCX не содержит извлекаемого текста")
	}
	return sb.String(), nil
}
