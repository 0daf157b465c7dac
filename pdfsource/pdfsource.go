package pdfsource

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// OutlineEntry is one embedded-outline (bookmark) item flattened to a level,
// a title and the 1-based page it points at.
type OutlineEntry struct {
	Level int
	Title string
	Page  int
}

// Source is the PDF collaborator the outline pipeline consumes: an optional
// embedded outline plus per-page plain text.
type Source interface {
	// EmbeddedOutline returns the PDF's bookmark outline in reading order,
	// or an empty slice when the document carries none.
	EmbeddedOutline() []OutlineEntry
	// PageCount returns the number of pages.
	PageCount() int
	// PageText returns the plain text of a 1-based page, or "" when the
	// page cannot be read.
	PageText(pageNum int) string
}

// Document implements Source over raw PDF bytes.
type Document struct {
	reader  *pdf.Reader
	outline []OutlineEntry
}

// Open parses raw PDF bytes. A missing or unreadable bookmark outline is not
// an error; it only means the caller falls back to heuristic extraction.
func Open(data []byte) (*Document, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse pdf: %w", err)
	}

	doc := &Document{reader: reader}
	if bms, err := api.Bookmarks(bytes.NewReader(data), model.NewDefaultConfiguration()); err == nil {
		doc.outline = flatten(bms, 1)
	}
	return doc, nil
}

// EmbeddedOutline returns the flattened bookmark outline, possibly empty.
func (d *Document) EmbeddedOutline() []OutlineEntry {
	return d.outline
}

// PageCount returns the number of pages in the document.
func (d *Document) PageCount() int {
	return d.reader.NumPage()
}

// PageText extracts plain text from a 1-based page. Unreadable pages degrade
// to an empty string rather than an error.
func (d *Document) PageText(pageNum int) string {
	if pageNum < 1 || pageNum > d.reader.NumPage() {
		return ""
	}
	page := d.reader.Page(pageNum)
	if page.V.IsNull() {
		return ""
	}
	text, err := page.GetPlainText(nil)
	if err != nil {
		return ""
	}
	return text
}

// PageTexts collects text for the first maxPages pages of a source, in order.
func PageTexts(src Source, maxPages int) []string {
	n := src.PageCount()
	if maxPages > 0 && maxPages < n {
		n = maxPages
	}
	pages := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		pages = append(pages, src.PageText(i))
	}
	return pages
}

// flatten walks the bookmark tree depth-first, assigning nesting levels.
func flatten(bookmarks []pdfcpu.Bookmark, level int) []OutlineEntry {
	var entries []OutlineEntry
	for _, b := range bookmarks {
		entries = append(entries, OutlineEntry{
			Level: level,
			Title: strings.TrimSpace(b.Title),
			Page:  b.PageFrom,
		})
		if len(b.Kids) > 0 {
			entries = append(entries, flatten(b.Kids, level+1)...)
		}
	}
	return entries
}
