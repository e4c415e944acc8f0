package pdftext

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// PageDelimiter separates the text of consecutive pages so a narrating
// client knows where to pause.
const PageDelimiter = " [PAUSE] "

// Result holds the plain text of a document and its page count.
type Result struct {
	Text  string
	Pages int
}

// IExtractor converts a PDF byte buffer into plain text.
type IExtractor interface {
	Extract(data []byte) (*Result, error)
}

type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract validates the document structure with pdfcpu, then pulls the
// embedded text layer page by page. Pages without a text layer (scanned
// images) contribute nothing; the caller decides whether the total is
// meaningful.
func (e *Extractor) Extract(data []byte) (*Result, error) {
	conf := api.LoadConfiguration()

	if err := api.Validate(bytes.NewReader(data), conf); err != nil {
		return nil, fmt.Errorf("validate pdf: %w", err)
	}

	pages, err := api.PageCount(bytes.NewReader(data), conf)
	if err != nil {
		return nil, fmt.Errorf("count pages: %w", err)
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			// A single broken page should not sink the document.
			continue
		}
		pageText = collapseWhitespace(pageText)
		if pageText == "" {
			continue
		}
		sb.WriteString(pageText)
		sb.WriteString(PageDelimiter)
	}

	return &Result{
		Text:  strings.TrimSpace(sb.String()),
		Pages: pages,
	}, nil
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
