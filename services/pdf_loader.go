package services

import (
	"bytes"
	"fmt"
	"os"

	"github.com/ledongthuc/pdf"

	"session-rag-chatbot/models"
)

// LoadPDFPages extracts plain text from every page of a PDF file.
// Pages are numbered from 1; pages with no extractable text are skipped.
func LoadPDFPages(filePath string) ([]models.PageText, error) {
	stat, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat PDF file: %w", err)
	}
	if stat.Size() > 200<<20 { // 200MB safety cap
		return nil, fmt.Errorf("pdf too large for in-memory extraction")
	}

	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF file: %w", err)
	}

	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF reader: %w", err)
	}

	var pages []models.PageText
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		fonts := make(map[string]*pdf.Font)
		text, err := page.GetPlainText(fonts)
		if err != nil {
			// Skip unreadable pages, keep the rest of the document
			continue
		}
		if text == "" {
			continue
		}
		pages = append(pages, models.PageText{Page: i, Text: text})
	}

	if len(pages) == 0 {
		return nil, fmt.Errorf("no text extracted from PDF")
	}
	return pages, nil
}
