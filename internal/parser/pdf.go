package parser

import (
	"fmt"
	"os"

	"github.com/ledongthuc/pdf"
)

type pdfDocument struct {
	file   *os.File
	reader *pdf.Reader
}

func openPDF(filePath string) (*pdfDocument, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}

	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}

	reader, err := pdf.NewReader(f, stat.Size())
	if err != nil {
		f.Close()
		return nil, err
	}
	return &pdfDocument{file: f, reader: reader}, nil
}

func (d *pdfDocument) NumPage() int {
	return d.reader.NumPage()
}

func (d *pdfDocument) PageText(index int) (string, error) {
	// the pdf reader numbers pages from 1
	page := d.reader.Page(index + 1)
	if page.V.IsNull() {
		return "", fmt.Errorf("page %d is missing", index)
	}
	return page.GetPlainText(nil)
}

func (d *pdfDocument) Close() error {
	return d.file.Close()
}
