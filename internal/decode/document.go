package decode

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Document is a decoded text document: per-page text plus the joined
// whole.
type Document struct {
	Text  string
	Pages []string
}

// NumPages reports the page count.
func (d Document) NumPages() int { return len(d.Pages) }

// ParseDocument extracts the text content of a PDF.
func ParseDocument(content []byte) (Document, error) {
	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return Document{}, fmt.Errorf("open pdf: %w", err)
	}

	pages := make([]string, 0, reader.NumPage())
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return Document{}, fmt.Errorf("extract page %d: %w", i, err)
		}
		pages = append(pages, text)
	}

	return Document{Text: strings.Join(pages, "\n"), Pages: pages}, nil
}
