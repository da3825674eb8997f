//go:build cgo

package parser

import (
	"github.com/gen2brain/go-fitz"
)

// mupdfDocument extracts text with MuPDF, which handles more font encodings
// than the pure Go reader.
type mupdfDocument struct {
	doc *fitz.Document
}

func openMuPDF(filePath string) (*mupdfDocument, error) {
	doc, err := fitz.New(filePath)
	if err != nil {
		return nil, err
	}
	return &mupdfDocument{doc: doc}, nil
}

func (d *mupdfDocument) NumPage() int {
	return d.doc.NumPage()
}

func (d *mupdfDocument) PageText(index int) (string, error) {
	return d.doc.Text(index)
}

func (d *mupdfDocument) Close() error {
	return d.doc.Close()
}
