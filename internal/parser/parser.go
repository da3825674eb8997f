package parser

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"pdf-embed/internal/errortypes"
	"pdf-embed/internal/models"
)

// Document is a paged text source. Page indices are zero-based.
type Document interface {
	NumPage() int
	PageText(index int) (string, error)
	Close() error
}

const (
	BackendLedongthuc = "ledongthuc"
	BackendMuPDF      = "mupdf"
)

// Open picks a Document implementation from the file extension. backend
// selects the PDF text extractor and is ignored for other formats.
func Open(filePath, backend string) (Document, error) {
	info, err := os.Stat(filePath)
	if err != nil {
		return nil, errortypes.NewInput("open document", err).WithField("path", filePath)
	}
	if info.IsDir() {
		return nil, errortypes.Newf(errortypes.Input, "%s is a directory", filePath)
	}

	ext := strings.ToLower(filepath.Ext(filePath))
	var doc Document
	switch ext {
	case ".pdf":
		switch strings.ToLower(backend) {
		case "", BackendLedongthuc:
			doc, err = openPDF(filePath)
		case BackendMuPDF:
			doc, err = openMuPDF(filePath)
		default:
			return nil, errortypes.Newf(errortypes.Input, "unknown pdf backend: %s", backend)
		}
	case ".docx":
		doc, err = openDOCX(filePath)
	case ".txt":
		doc, err = openText(filePath)
	default:
		return nil, errortypes.Newf(errortypes.Input, "unsupported file format: %s", ext)
	}
	if err != nil {
		return nil, errortypes.NewInput("open document", err).WithField("path", filePath)
	}
	return doc, nil
}

// LoadPages extracts and formats every page of doc in order. Any page that
// cannot be read aborts the load.
func LoadPages(doc Document) ([]models.PageRecord, error) {
	numPages := doc.NumPage()
	pages := make([]models.PageRecord, 0, numPages)
	for i := 0; i < numPages; i++ {
		text, err := pageText(doc, i)
		if err != nil {
			return nil, errortypes.NewInput(fmt.Sprintf("extract text of page %d", i), err).WithField("page_index", i)
		}
		pages = append(pages, models.NewPageRecord(i, FormatText(text)))
	}
	log.Debug().Int("pages", len(pages)).Msg("Loaded pages")
	return pages, nil
}

// LoadFile opens filePath, loads all pages and closes the document
func LoadFile(filePath, backend string) ([]models.PageRecord, error) {
	doc, err := Open(filePath, backend)
	if err != nil {
		return nil, err
	}
	defer doc.Close()
	return LoadPages(doc)
}

// FormatText replaces newlines with spaces and trims the ends. No other
// cleanup (hyphenation, ligatures) is applied.
func FormatText(text string) string {
	return strings.TrimSpace(strings.ReplaceAll(text, "\n", " "))
}

// pdf readers panic on some malformed content streams
func pageText(doc Document, index int) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("panic while reading page: %v", r)
		}
	}()
	return doc.PageText(index)
}
