// document.go — конвертация документов pdf ↔ docx через
// извлечение и повторную укладку текста.
package convert

import (
	"bytes"
	"fmt"
	"strings"

	docx "github.com/fumiama/go-docx"
	"github.com/jung-kurt/gofpdf"
	"github.com/ledongthuc/pdf"

	"github.com/bigkaa/renamebox/rename-service/internal/doctext"
)

// pdfToDOCX извлекает текст PDF-документа целиком и собирает
// DOCX с абзацем на каждую непустую строку.
func pdfToDOCX(content []byte) ([]byte, error) {
	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("не удалось открыть PDF: %w", err)
	}

	var sb strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}

	doc := docx.New()
	for _, line := range strings.Split(sb.String(), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		doc.AddParagraph().AddText(line)
	}

	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("не удалось записать DOCX: %w", err)
	}
	return buf.Bytes(), nil
}

// docxToPDF извлекает текст DOCX-документа и рендерит его
// в одноколоночный PDF.
func docxToPDF(content []byte) ([]byte, error) {
	text, err := doctext.ExtractDOCX(content)
	if err != nil {
		return nil, err
	}

	doc := gofpdf.New("P", "mm", "A4", "")
	doc.AddPage()
	doc.SetFont("Helvetica", "", 12)

	tr := doc.UnicodeTranslatorFromDescriptor("")
	for _, line := range strings.Split(text, "\n") {
		doc.MultiCell(190, 6, tr(line), "", "L", false)
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("не удалось записать PDF: %w", err)
	}
	return buf.Bytes(), nil
}
